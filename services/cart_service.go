package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	apperrors "github.com/yashrajoria/storefront-service/common/errors"
	"github.com/yashrajoria/storefront-service/common/logger"
	"github.com/yashrajoria/storefront-service/models"
	aws_pkg "github.com/yashrajoria/storefront-service/pkg/aws"
	"github.com/yashrajoria/storefront-service/repository"
	"go.uber.org/zap"
)

// CartLine is a cart item with its computed cost.
type CartLine struct {
	models.CartItem
	Cost decimal.Decimal `json:"cost"`
}

// CartView is the cart as shown to its owner.
type CartView struct {
	CartID        uuid.UUID       `json:"cart_id"`
	Items         []CartLine      `json:"items"`
	Total         decimal.Decimal `json:"total"`
	TotalQuantity int             `json:"total_quantity"`
}

// IsEmpty reports whether the cart has no lines.
func (v *CartView) IsEmpty() bool {
	return len(v.Items) == 0
}

type AddToCartResult struct {
	Product  *models.Product
	Created  bool
	Quantity int
}

type UpdateQuantityResult struct {
	Removed     bool
	Quantity    int
	ItemCost    decimal.Decimal
	CartTotal   decimal.Decimal
	CartEntries int
}

type CartService struct {
	store   repository.Store
	metrics *aws_pkg.MetricsClient
	logger  *zap.Logger
}

func NewCartService(store repository.Store, metrics *aws_pkg.MetricsClient, logger *zap.Logger) *CartService {
	return &CartService{store: store, metrics: metrics, logger: logger}
}

// View returns the user's cart, creating an empty one on first use.
func (s *CartService) View(ctx context.Context, userID uuid.UUID) (*CartView, error) {
	return loadCartView(ctx, s.store, userID)
}

// Add puts quantity units of a product in the cart. An existing line is
// incremented and keeps the price captured when it was first added.
func (s *CartService) Add(ctx context.Context, userID, productID uuid.UUID, quantity int) (*AddToCartResult, error) {
	if quantity <= 0 {
		return nil, apperrors.Validation("Quantity must be at least 1.")
	}

	result := &AddToCartResult{}
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		product, err := findSellableForUpdate(ctx, tx, productID)
		if err != nil {
			return err
		}

		cart, err := tx.Carts().GetOrCreate(ctx, userID)
		if err != nil {
			return err
		}

		existing, err := tx.Carts().FindItem(ctx, cart.ID, productID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}

		wanted := quantity
		if existing != nil {
			wanted += existing.Quantity
		}
		if product.Stock < wanted {
			return apperrors.OutOfStock(product.ID, product.Name, product.Stock, wanted)
		}

		if existing == nil {
			if err := tx.Carts().CreateItem(ctx, &models.CartItem{
				CartID:    cart.ID,
				ProductID: product.ID,
				Quantity:  quantity,
				Price:     product.Price,
			}); err != nil {
				return err
			}
			result.Created = true
		} else if err := tx.Carts().UpdateItemQuantity(ctx, existing.ID, wanted); err != nil {
			return err
		}

		result.Product = product
		result.Quantity = wanted
		return nil
	})
	if err != nil {
		return nil, s.wrap(ctx, err, "Failed to add product to cart")
	}

	recordCount(s.metrics, aws_pkg.MetricCartItemsAdded, nil)
	return result, nil
}

// Remove deletes the product's line. It reports false when there was none.
func (s *CartService) Remove(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	cart, err := s.store.Carts().GetOrCreate(ctx, userID)
	if err != nil {
		return false, apperrors.Internal("Failed to load cart", err)
	}
	removed, err := s.store.Carts().DeleteItem(ctx, cart.ID, productID)
	if err != nil {
		return false, apperrors.Internal("Failed to remove product from cart", err)
	}
	return removed, nil
}

// SetQuantity overwrites a line's quantity. A quantity of zero or less
// removes the line.
func (s *CartService) SetQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) (*UpdateQuantityResult, error) {
	if quantity <= 0 {
		if _, err := s.Remove(ctx, userID, productID); err != nil {
			return nil, err
		}
		view, err := s.View(ctx, userID)
		if err != nil {
			return nil, err
		}
		return &UpdateQuantityResult{
			Removed:     true,
			ItemCost:    decimal.Zero,
			CartTotal:   view.Total,
			CartEntries: len(view.Items),
		}, nil
	}

	result := &UpdateQuantityResult{Quantity: quantity}
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		product, err := tx.Products().FindByIDForUpdate(ctx, productID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperrors.NotFound("Product not found.")
			}
			return err
		}
		if product.Stock < quantity {
			return apperrors.OutOfStock(product.ID, product.Name, product.Stock, quantity)
		}

		cart, err := tx.Carts().GetOrCreate(ctx, userID)
		if err != nil {
			return err
		}
		item, err := tx.Carts().FindItem(ctx, cart.ID, productID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperrors.NotFound("Product is not in your cart.")
			}
			return err
		}
		if err := tx.Carts().UpdateItemQuantity(ctx, item.ID, quantity); err != nil {
			return err
		}
		item.Quantity = quantity
		result.ItemCost = item.Cost()

		items, err := tx.Carts().ListItems(ctx, cart.ID)
		if err != nil {
			return err
		}
		view := buildCartView(cart.ID, items)
		result.CartTotal = view.Total
		result.CartEntries = len(view.Items)
		return nil
	})
	if err != nil {
		return nil, s.wrap(ctx, err, "Failed to update cart")
	}
	return result, nil
}

func (s *CartService) wrap(ctx context.Context, err error, message string) error {
	if isAppError(err) {
		return err
	}
	logger.FromContext(ctx, s.logger).Error(message, zap.Error(err))
	return apperrors.Internal(message, err)
}

// findSellableForUpdate locks the product row and rejects products that do
// not exist or are not available.
func findSellableForUpdate(ctx context.Context, tx repository.Store, productID uuid.UUID) (*models.Product, error) {
	product, err := tx.Products().FindByIDForUpdate(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("Product not found.")
		}
		return nil, err
	}
	if !product.Available {
		return nil, apperrors.NotFound("Product not found.")
	}
	return product, nil
}

func loadCartView(ctx context.Context, store repository.Store, userID uuid.UUID) (*CartView, error) {
	cart, err := store.Carts().GetOrCreate(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("Failed to load cart", err)
	}
	items, err := store.Carts().ListItems(ctx, cart.ID)
	if err != nil {
		return nil, apperrors.Internal("Failed to load cart", err)
	}
	return buildCartView(cart.ID, items), nil
}

func buildCartView(cartID uuid.UUID, items []models.CartItem) *CartView {
	cart := models.Cart{ID: cartID, Items: items}
	view := &CartView{
		CartID:        cartID,
		Items:         make([]CartLine, 0, len(items)),
		Total:         cart.TotalCost(),
		TotalQuantity: cart.TotalQuantity(),
	}
	for _, item := range items {
		view.Items = append(view.Items, CartLine{CartItem: item, Cost: item.Cost()})
	}
	return view
}

// isAppError reports whether err already carries a caller-facing kind.
func isAppError(err error) bool {
	var appErr *apperrors.Error
	var stockErr *apperrors.StockError
	return errors.As(err, &appErr) || errors.As(err, &stockErr)
}
