package models

import (
	"time"

	"github.com/google/uuid"
)

// Wishlist is a per-user set of saved products.
type Wishlist struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	Items     []WishlistItem `gorm:"foreignKey:WishlistID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

type WishlistItem struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	WishlistID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_wishlist_items_wishlist_product" json:"wishlist_id"`
	ProductID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_wishlist_items_wishlist_product" json:"product_id"`
	Product    *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	AddedAt    time.Time `gorm:"autoCreateTime" json:"added_at"`
}
