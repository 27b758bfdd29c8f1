package controllers

import (
	"context"

	"github.com/google/uuid"
	"github.com/yashrajoria/storefront-service/models"
	"github.com/yashrajoria/storefront-service/services"
)

// CatalogServiceAPI defines the catalog operations used by CatalogController
type CatalogServiceAPI interface {
	ListProducts(ctx context.Context, categorySlug string) (*services.ProductListing, error)
	GetProduct(ctx context.Context, id uuid.UUID, slug string) (*models.Product, error)
	ListSlides(ctx context.Context) ([]models.Slide, error)
}

// CartServiceAPI defines the cart operations used by CartController
type CartServiceAPI interface {
	View(ctx context.Context, userID uuid.UUID) (*services.CartView, error)
	Add(ctx context.Context, userID, productID uuid.UUID, quantity int) (*services.AddToCartResult, error)
	Remove(ctx context.Context, userID, productID uuid.UUID) (bool, error)
	SetQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) (*services.UpdateQuantityResult, error)
}

// CheckoutServiceAPI defines the checkout operations used by CheckoutController
type CheckoutServiceAPI interface {
	Preview(ctx context.Context, userID uuid.UUID) (*services.CartView, error)
	PlaceOrder(ctx context.Context, userID uuid.UUID, details *models.ShippingDetails, idempotencyKey string) (*services.CheckoutResult, error)
}

// OrderServiceAPI defines the order history operations used by OrderController
type OrderServiceAPI interface {
	History(ctx context.Context, userID uuid.UUID, page, limit int) (*services.OrderResponse, error)
	GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error)
}

// WishlistServiceAPI defines the wishlist operations used by WishlistController
type WishlistServiceAPI interface {
	View(ctx context.Context, userID uuid.UUID) (*services.WishlistView, error)
	Add(ctx context.Context, userID, productID uuid.UUID) (bool, *models.Product, error)
	Remove(ctx context.Context, userID, productID uuid.UUID) (bool, error)
}

// AdminServiceAPI defines the catalog maintenance operations used by AdminController
type AdminServiceAPI interface {
	CreateCategory(ctx context.Context, req *models.CreateCategoryRequest) (*models.Category, error)
	CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req *models.UpdateProductRequest) (*models.Product, error)
	CreateSlide(ctx context.Context, req *models.CreateSlideRequest) (*models.Slide, error)
}

// Response statuses carried in every JSON body.
const (
	StatusSuccess = "success"
	StatusInfo    = "info"
	StatusWarning = "warning"
	StatusError   = "error"
	StatusRemoved = "removed"
)
