package services

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	apperrors "github.com/yashrajoria/storefront-service/common/errors"
	"github.com/yashrajoria/storefront-service/common/logger"
	"github.com/yashrajoria/storefront-service/models"
	aws_pkg "github.com/yashrajoria/storefront-service/pkg/aws"
	"github.com/yashrajoria/storefront-service/repository"
	"go.uber.org/zap"
)

// errEmptyCart aborts the unit of work when the cart emptied between the
// pre-check and the transaction.
var errEmptyCart = errors.New("cart is empty")

const afterCommitTimeout = 5 * time.Second

// CheckoutResult is the outcome of PlaceOrder. Empty means there was nothing
// to order and nothing was written. Replayed means Order was placed by an
// earlier request carrying the same idempotency key.
type CheckoutResult struct {
	Order    *models.Order
	Empty    bool
	Replayed bool
}

type CheckoutService struct {
	store       repository.Store
	idempotency IdempotencyStore
	cache       ProductCache
	publisher   EventPublisher
	validate    *validator.Validate
	metrics     *aws_pkg.MetricsClient
	logger      *zap.Logger
}

// NewCheckoutService creates a CheckoutService. idempotency, cache, publisher
// and metrics are optional.
func NewCheckoutService(
	store repository.Store,
	idempotency IdempotencyStore,
	cache ProductCache,
	publisher EventPublisher,
	metrics *aws_pkg.MetricsClient,
	logger *zap.Logger,
) *CheckoutService {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &CheckoutService{
		store:       store,
		idempotency: idempotency,
		cache:       cache,
		publisher:   publisher,
		validate:    v,
		metrics:     metrics,
		logger:      logger,
	}
}

// Preview returns the cart the checkout form is rendered against.
func (s *CheckoutService) Preview(ctx context.Context, userID uuid.UUID) (*CartView, error) {
	return loadCartView(ctx, s.store, userID)
}

// PlaceOrder converts the user's cart into an order. The order, its items,
// the stock decrements and the emptied cart are committed together or not
// at all.
func (s *CheckoutService) PlaceOrder(ctx context.Context, userID uuid.UUID, details *models.ShippingDetails, idempotencyKey string) (*CheckoutResult, error) {
	log := logger.FromContext(ctx, s.logger).With(zap.String("user_id", userID.String()))

	if order := s.replay(ctx, userID, idempotencyKey); order != nil {
		log.Info("Checkout replayed", zap.String("order_id", order.ID.String()))
		return &CheckoutResult{Order: order, Replayed: true}, nil
	}

	view, err := loadCartView(ctx, s.store, userID)
	if err != nil {
		return nil, err
	}
	if view.IsEmpty() {
		return &CheckoutResult{Empty: true}, nil
	}

	normalizeShipping(details)
	if err := s.validateShipping(details); err != nil {
		return nil, err
	}

	order, err := s.placeOrder(ctx, userID, details)
	switch {
	case err == nil:
	case errors.Is(err, errEmptyCart):
		return &CheckoutResult{Empty: true}, nil
	case errors.Is(err, apperrors.ErrOutOfStock):
		log.Warn("Checkout rejected for insufficient stock", zap.Error(err))
		recordCount(s.metrics, aws_pkg.MetricOutOfStock, nil)
		return nil, err
	default:
		log.Error("Checkout failed", zap.Error(err))
		recordCount(s.metrics, aws_pkg.MetricCheckoutFailed, nil)
		return nil, apperrors.CheckoutFailed(err)
	}

	s.afterCommit(ctx, userID, order, idempotencyKey)

	log.Info("Order placed",
		zap.String("order_id", order.ID.String()),
		zap.Int("items", len(order.Items)),
		zap.String("total", order.TotalCost().StringFixed(2)),
	)
	recordCount(s.metrics, aws_pkg.MetricOrdersPlaced, nil)
	return &CheckoutResult{Order: order}, nil
}

func (s *CheckoutService) placeOrder(ctx context.Context, userID uuid.UUID, details *models.ShippingDetails) (*models.Order, error) {
	var order *models.Order

	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		cart, err := tx.Carts().GetOrCreate(ctx, userID)
		if err != nil {
			return fmt.Errorf("load cart: %w", err)
		}
		items, err := tx.Carts().ListItems(ctx, cart.ID)
		if err != nil {
			return fmt.Errorf("list cart items: %w", err)
		}
		if len(items) == 0 {
			return errEmptyCart
		}

		uid := userID
		order = &models.Order{
			UserID:     &uid,
			FirstName:  details.FirstName,
			LastName:   details.LastName,
			Email:      details.Email,
			Address:    details.Address,
			PostalCode: details.PostalCode,
			City:       details.City,
			Status:     models.OrderStatusPending,
			Paid:       false,
		}
		if err := tx.Orders().Create(ctx, order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		order.Items = make([]models.OrderItem, 0, len(items))
		for _, line := range items {
			product, err := tx.Products().FindByIDForUpdate(ctx, line.ProductID)
			if err != nil {
				return fmt.Errorf("lock product %s: %w", line.ProductID, err)
			}
			if product.Stock < line.Quantity {
				return apperrors.OutOfStock(product.ID, product.Name, product.Stock, line.Quantity)
			}

			item := models.OrderItem{
				OrderID:     order.ID,
				ProductID:   product.ID,
				ProductName: product.Name,
				Quantity:    line.Quantity,
				Price:       line.Price,
			}
			if err := tx.Orders().CreateItem(ctx, &item); err != nil {
				return fmt.Errorf("create order item: %w", err)
			}

			if err := tx.Products().DecrementStock(ctx, product.ID, line.Quantity); err != nil {
				if errors.Is(err, repository.ErrInsufficientStock) {
					return apperrors.OutOfStock(product.ID, product.Name, product.Stock, line.Quantity)
				}
				return fmt.Errorf("decrement stock: %w", err)
			}
			order.Items = append(order.Items, item)
		}

		if _, err := tx.Carts().ClearItems(ctx, cart.ID); err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// replay returns the order an earlier checkout with the same key placed.
// Lookup failures fall through to a normal checkout.
func (s *CheckoutService) replay(ctx context.Context, userID uuid.UUID, key string) *models.Order {
	if s.idempotency == nil || key == "" {
		return nil
	}

	stored, ok, err := s.idempotency.Lookup(ctx, idempotencyScope(userID, key))
	if err != nil {
		logger.FromContext(ctx, s.logger).Warn("Idempotency lookup failed", zap.Error(err))
		return nil
	}
	if !ok {
		return nil
	}

	orderID, err := uuid.Parse(stored)
	if err != nil {
		return nil
	}
	order, err := s.store.Orders().FindByIDAndUserID(ctx, orderID, userID)
	if err != nil {
		return nil
	}
	return order
}

// afterCommit runs the best-effort side effects of a committed checkout.
// None of them can change the result.
func (s *CheckoutService) afterCommit(ctx context.Context, userID uuid.UUID, order *models.Order, idempotencyKey string) {
	log := logger.FromContext(ctx, s.logger).With(zap.String("order_id", order.ID.String()))

	bgCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), afterCommitTimeout)
	defer cancel()

	if s.idempotency != nil && idempotencyKey != "" {
		if err := s.idempotency.Remember(bgCtx, idempotencyScope(userID, idempotencyKey), order.ID.String()); err != nil {
			log.Warn("Failed to store idempotency key", zap.Error(err))
		}
	}

	productIDs := make([]uuid.UUID, 0, len(order.Items))
	for _, item := range order.Items {
		productIDs = append(productIDs, item.ProductID)
	}
	if s.cache != nil {
		s.cache.InvalidateProducts(bgCtx, productIDs...)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishOrderPlaced(bgCtx, orderPlacedEvent(order)); err != nil {
			log.Warn("Failed to publish order event", zap.Error(err))
		}
	}
}

func (s *CheckoutService) validateShipping(details *models.ShippingDetails) error {
	err := s.validate.Struct(details)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperrors.Validation("Please fill in all required shipping details.")
	}
	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, fe.Field())
	}
	return apperrors.Validation("Please check the following shipping details: " + strings.Join(fields, ", ") + ".")
}

func normalizeShipping(d *models.ShippingDetails) {
	d.FirstName = strings.TrimSpace(d.FirstName)
	d.LastName = strings.TrimSpace(d.LastName)
	d.Email = strings.TrimSpace(d.Email)
	d.Address = strings.TrimSpace(d.Address)
	d.PostalCode = strings.TrimSpace(d.PostalCode)
	d.City = strings.TrimSpace(d.City)
}

// idempotencyScope keys idempotency records per user, so two users sending
// the same key never see each other's orders.
func idempotencyScope(userID uuid.UUID, key string) string {
	return userID.String() + ":" + key
}

func orderPlacedEvent(order *models.Order) *models.OrderPlacedEvent {
	evt := &models.OrderPlacedEvent{
		OrderID:   order.ID.String(),
		Email:     order.Email,
		Items:     make([]models.OrderPlacedItem, 0, len(order.Items)),
		Total:     order.TotalCost(),
		Timestamp: time.Now().UTC(),
	}
	if order.UserID != nil {
		evt.UserID = order.UserID.String()
	}
	for _, item := range order.Items {
		evt.Items = append(evt.Items, models.OrderPlacedItem{
			ProductID: item.ProductID.String(),
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}
	return evt
}
