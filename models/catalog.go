package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Category groups products on the storefront.
type Category struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(200);not null;index" json:"name"`
	Slug        string    `gorm:"type:varchar(200);uniqueIndex;not null" json:"slug"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Product is a sellable item. Stock never goes below zero; it is only
// decremented by checkout and changed by admin edits.
type Product struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CategoryID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"category_id"`
	Category    *Category       `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Name        string          `gorm:"type:varchar(200);not null;index" json:"name"`
	Slug        string          `gorm:"type:varchar(200);uniqueIndex;not null" json:"slug"`
	Description string          `gorm:"type:text" json:"description"`
	ImageURL    string          `gorm:"type:varchar(500)" json:"image_url,omitempty"`
	Price       decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	Stock       int             `gorm:"not null" json:"stock"`
	Available   bool            `gorm:"not null;index" json:"available"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// Slide is a landing page banner.
type Slide struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title        string    `gorm:"type:varchar(200);not null" json:"title"`
	Description  string    `gorm:"type:text" json:"description"`
	ImageURL     string    `gorm:"type:varchar(500)" json:"image_url"`
	LinkURL      string    `gorm:"type:varchar(500)" json:"link_url,omitempty"`
	DisplayOrder int       `gorm:"not null;index" json:"display_order"`
	IsActive     bool      `gorm:"not null" json:"is_active"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}
