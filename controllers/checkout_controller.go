package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/yashrajoria/storefront-service/common/errors"
	"github.com/yashrajoria/storefront-service/models"
)

const IdempotencyKeyHeader = "Idempotency-Key"

const emptyCartMessage = "Your cart is empty. Please add items before checking out."

type CheckoutController struct {
	checkout CheckoutServiceAPI
}

func NewCheckoutController(checkout CheckoutServiceAPI) *CheckoutController {
	return &CheckoutController{checkout: checkout}
}

// Preview handles GET /checkout
func (cc *CheckoutController) Preview(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	view, err := cc.checkout.Preview(c.Request.Context(), userID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	if view.IsEmpty() {
		c.JSON(http.StatusOK, gin.H{"status": StatusWarning, "message": emptyCartMessage, "redirect": "/products"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": StatusSuccess, "cart": view})
}

// PlaceOrder handles POST /checkout
func (cc *CheckoutController) PlaceOrder(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var details models.ShippingDetails
	if err := c.ShouldBindJSON(&details); err != nil {
		apperrors.Respond(c, apperrors.Validation("Please fill in all required shipping details."))
		return
	}

	result, err := cc.checkout.PlaceOrder(c.Request.Context(), userID, &details, c.GetHeader(IdempotencyKeyHeader))
	if err != nil {
		var stockErr *apperrors.StockError
		if errors.As(err, &stockErr) {
			c.JSON(http.StatusConflict, gin.H{"status": StatusError, "message": "Order failed: " + stockErr.Error()})
			return
		}
		apperrors.Respond(c, err)
		return
	}

	if result.Empty {
		c.JSON(http.StatusOK, gin.H{"status": StatusWarning, "message": emptyCartMessage, "redirect": "/products"})
		return
	}

	status := http.StatusCreated
	if result.Replayed {
		status = http.StatusOK
	}
	c.JSON(status, gin.H{
		"status":   StatusSuccess,
		"message":  fmt.Sprintf("Your order #%s has been placed successfully!", result.Order.ID),
		"order":    result.Order,
		"total":    result.Order.TotalCost(),
		"redirect": "/orders",
	})
}
