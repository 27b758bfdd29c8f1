package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/yashrajoria/storefront-service/common/errors"
)

type OrderController struct {
	orders OrderServiceAPI
}

func NewOrderController(orders OrderServiceAPI) *OrderController {
	return &OrderController{orders: orders}
}

// GetOrders returns paginated orders for the authenticated user
func (oc *OrderController) GetOrders(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	page, limit := parsePaginationParams(c)
	result, err := oc.orders.History(c.Request.Context(), userID, page, limit)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": StatusSuccess,
		"orders": result.Orders,
		"meta":   result.Meta,
	})
}

// GetOrderByID returns a specific order for the authenticated user
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	orderID, ok := parseUUIDParam(c, "id", "Order not found.")
	if !ok {
		return
	}

	order, err := oc.orders.GetOrder(c.Request.Context(), userID, orderID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": StatusSuccess, "order": order, "total": order.TotalCost()})
}
