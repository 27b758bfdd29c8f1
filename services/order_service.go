package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	apperrors "github.com/yashrajoria/storefront-service/common/errors"
	"github.com/yashrajoria/storefront-service/common/logger"
	"github.com/yashrajoria/storefront-service/models"
	"github.com/yashrajoria/storefront-service/repository"
	"go.uber.org/zap"
)

type OrderResponse struct {
	Orders []models.Order `json:"orders"`
	Meta   MetaData       `json:"meta"`
}

type MetaData struct {
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	TotalOrders int64 `json:"total_orders"`
	TotalPages  int64 `json:"total_pages"`
	HasMore     bool  `json:"has_more"`
}

// OrderService reads a user's order history. It never writes.
type OrderService struct {
	orders repository.OrderRepository
	logger *zap.Logger
}

func NewOrderService(orders repository.OrderRepository, logger *zap.Logger) *OrderService {
	return &OrderService{orders: orders, logger: logger}
}

// History returns one page of the user's orders, newest first.
func (s *OrderService) History(ctx context.Context, userID uuid.UUID, page, limit int) (*OrderResponse, error) {
	orders, total, err := s.orders.FindByUserID(ctx, userID, page, limit)
	if err != nil {
		logger.FromContext(ctx, s.logger).Error("Failed to fetch orders", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, apperrors.Internal("Failed to fetch orders", err)
	}

	totalPages := (total + int64(limit) - 1) / int64(limit)

	return &OrderResponse{
		Orders: orders,
		Meta: MetaData{
			Page:        page,
			Limit:       limit,
			TotalOrders: total,
			TotalPages:  totalPages,
			HasMore:     int64(page) < totalPages,
		},
	}, nil
}

// GetOrder returns the order only when it belongs to userID.
func (s *OrderService) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.orders.FindByIDAndUserID(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("Order not found.")
		}
		return nil, apperrors.Internal("Failed to fetch order", err)
	}
	return order, nil
}
