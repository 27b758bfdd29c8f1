package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// QuantityRequest is the body of cart add and cart update. A missing
// quantity defaults to 1 on add.
type QuantityRequest struct {
	Quantity *int `json:"quantity"`
}

// CreateCategoryRequest is the payload for creating a category (admin only).
type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required,max=200"`
	Slug        string `json:"slug" binding:"required,max=200"`
	Description string `json:"description"`
}

// CreateProductRequest is the payload for creating a product (admin only).
type CreateProductRequest struct {
	CategoryID  uuid.UUID       `json:"category_id" binding:"required"`
	Name        string          `json:"name" binding:"required,max=200"`
	Slug        string          `json:"slug" binding:"required,max=200"`
	Description string          `json:"description"`
	ImageURL    string          `json:"image_url" binding:"omitempty,url"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock" binding:"gte=0"`
	Available   *bool           `json:"available"`
}

// UpdateProductRequest carries the admin-editable product fields. Nil
// fields are left unchanged.
type UpdateProductRequest struct {
	Price     *decimal.Decimal `json:"price"`
	Stock     *int             `json:"stock"`
	Available *bool            `json:"available"`
}

type CreateSlideRequest struct {
	Title        string `json:"title" binding:"required,max=200"`
	Description  string `json:"description"`
	ImageURL     string `json:"image_url" binding:"omitempty,url"`
	LinkURL      string `json:"link_url"`
	DisplayOrder int    `json:"display_order"`
	IsActive     *bool  `json:"is_active"`
}

// OrderPlacedEvent is published after a checkout commits.
type OrderPlacedEvent struct {
	EventType string            `json:"event_type"`
	OrderID   string            `json:"order_id"`
	UserID    string            `json:"user_id"`
	Email     string            `json:"email"`
	Items     []OrderPlacedItem `json:"items"`
	Total     decimal.Decimal   `json:"total"`
	Timestamp time.Time         `json:"timestamp"`
}

type OrderPlacedItem struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}
