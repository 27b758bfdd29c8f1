package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	apperrors "github.com/yashrajoria/storefront-service/common/errors"
	"github.com/yashrajoria/storefront-service/models"
	"github.com/yashrajoria/storefront-service/repository"
	"go.uber.org/zap"
)

type WishlistView struct {
	WishlistID uuid.UUID             `json:"wishlist_id"`
	Items      []models.WishlistItem `json:"items"`
}

type WishlistService struct {
	store  repository.Store
	logger *zap.Logger
}

func NewWishlistService(store repository.Store, logger *zap.Logger) *WishlistService {
	return &WishlistService{store: store, logger: logger}
}

// View returns the user's wishlist, newest items first.
func (s *WishlistService) View(ctx context.Context, userID uuid.UUID) (*WishlistView, error) {
	wishlist, err := s.store.Wishlists().GetOrCreate(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("Failed to load wishlist", err)
	}
	items, err := s.store.Wishlists().ListItems(ctx, wishlist.ID)
	if err != nil {
		return nil, apperrors.Internal("Failed to load wishlist", err)
	}
	return &WishlistView{WishlistID: wishlist.ID, Items: items}, nil
}

// Add saves a product. created is false when it was already saved.
func (s *WishlistService) Add(ctx context.Context, userID, productID uuid.UUID) (created bool, product *models.Product, err error) {
	product, err = s.store.Products().FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil, apperrors.NotFound("Product not found.")
		}
		return false, nil, apperrors.Internal("Failed to load product", err)
	}

	wishlist, err := s.store.Wishlists().GetOrCreate(ctx, userID)
	if err != nil {
		return false, nil, apperrors.Internal("Failed to load wishlist", err)
	}

	created, err = s.store.Wishlists().AddItem(ctx, wishlist.ID, productID)
	if err != nil {
		s.logger.Error("Failed to add wishlist item", zap.String("product_id", productID.String()), zap.Error(err))
		return false, nil, apperrors.Internal("Failed to add product to wishlist", err)
	}
	return created, product, nil
}

// Remove deletes a saved product. It reports false when it was not saved.
func (s *WishlistService) Remove(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	wishlist, err := s.store.Wishlists().GetOrCreate(ctx, userID)
	if err != nil {
		return false, apperrors.Internal("Failed to load wishlist", err)
	}
	removed, err := s.store.Wishlists().RemoveItem(ctx, wishlist.ID, productID)
	if err != nil {
		return false, apperrors.Internal("Failed to remove product from wishlist", err)
	}
	return removed, nil
}
