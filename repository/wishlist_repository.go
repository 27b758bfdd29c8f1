package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/yashrajoria/storefront-service/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WishlistRepository defines the interface for wishlist data access
type WishlistRepository interface {
	GetOrCreate(ctx context.Context, userID uuid.UUID) (*models.Wishlist, error)
	// AddItem reports false when the product was already on the wishlist.
	AddItem(ctx context.Context, wishlistID, productID uuid.UUID) (bool, error)
	// RemoveItem reports false when the product was not on the wishlist.
	RemoveItem(ctx context.Context, wishlistID, productID uuid.UUID) (bool, error)
	ListItems(ctx context.Context, wishlistID uuid.UUID) ([]models.WishlistItem, error)
}

type GormWishlistRepository struct {
	db *gorm.DB
}

func NewGormWishlistRepository(db *gorm.DB) *GormWishlistRepository {
	return &GormWishlistRepository{db: db}
}

func (r *GormWishlistRepository) GetOrCreate(ctx context.Context, userID uuid.UUID) (*models.Wishlist, error) {
	db := r.db.WithContext(ctx)

	var wishlist models.Wishlist
	err := db.Where("user_id = ?", userID).First(&wishlist).Error
	if err == nil {
		return &wishlist, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	wishlist = models.Wishlist{UserID: userID}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&wishlist).Error; err != nil {
		return nil, err
	}

	var existing models.Wishlist
	if err := db.Where("user_id = ?", userID).First(&existing).Error; err != nil {
		return nil, translate(err)
	}
	return &existing, nil
}

func (r *GormWishlistRepository) AddItem(ctx context.Context, wishlistID, productID uuid.UUID) (bool, error) {
	item := models.WishlistItem{WishlistID: wishlistID, ProductID: productID}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "wishlist_id"}, {Name: "product_id"}},
			DoNothing: true,
		}).
		Create(&item)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *GormWishlistRepository) RemoveItem(ctx context.Context, wishlistID, productID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("wishlist_id = ? AND product_id = ?", wishlistID, productID).
		Delete(&models.WishlistItem{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *GormWishlistRepository) ListItems(ctx context.Context, wishlistID uuid.UUID) ([]models.WishlistItem, error) {
	var items []models.WishlistItem
	if err := r.db.WithContext(ctx).
		Preload("Product").
		Where("wishlist_id = ?", wishlistID).
		Order("added_at DESC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
