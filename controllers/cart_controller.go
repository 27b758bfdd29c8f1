package controllers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/yashrajoria/storefront-service/common/errors"
	"github.com/yashrajoria/storefront-service/models"
)

type CartController struct {
	cart CartServiceAPI
}

func NewCartController(cart CartServiceAPI) *CartController {
	return &CartController{cart: cart}
}

// GetCart handles GET /cart
func (cc *CartController) GetCart(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	view, err := cc.cart.View(c.Request.Context(), userID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":         StatusSuccess,
		"cart":           view,
		"items":          view.Items,
		"total":          view.Total,
		"total_quantity": view.TotalQuantity,
	})
}

// AddToCart handles POST /cart/add/:product_id
func (cc *CartController) AddToCart(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	productID, ok := parseUUIDParam(c, "product_id", "Product not found.")
	if !ok {
		return
	}
	quantity, ok := bindQuantity(c)
	if !ok {
		return
	}

	result, err := cc.cart.Add(c.Request.Context(), userID, productID, quantity)
	if err != nil {
		var stockErr *apperrors.StockError
		if errors.As(err, &stockErr) {
			message := fmt.Sprintf("Not enough stock. Max: %d", stockErr.Available)
			if stockErr.Requested > quantity {
				message = "Cannot add more. " + message
			}
			c.JSON(http.StatusConflict, gin.H{"status": StatusError, "message": message})
			return
		}
		apperrors.Respond(c, err)
		return
	}

	if result.Created {
		c.JSON(http.StatusOK, gin.H{
			"status":   StatusSuccess,
			"message":  "Product added to cart.",
			"quantity": result.Quantity,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   StatusInfo,
		"message":  "Cart updated.",
		"quantity": result.Quantity,
	})
}

// RemoveFromCart handles POST /cart/remove/:product_id
func (cc *CartController) RemoveFromCart(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	productID, ok := parseUUIDParam(c, "product_id", "Product not found.")
	if !ok {
		return
	}

	removed, err := cc.cart.Remove(c.Request.Context(), userID, productID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	if !removed {
		c.JSON(http.StatusOK, gin.H{"status": StatusInfo, "message": "Product was not in your cart."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": StatusSuccess, "message": "Product removed from cart."})
}

// UpdateQuantity handles POST /cart/update/:product_id
func (cc *CartController) UpdateQuantity(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	productID, ok := parseUUIDParam(c, "product_id", "Product not found.")
	if !ok {
		return
	}
	quantity, ok := bindQuantity(c)
	if !ok {
		return
	}

	result, err := cc.cart.SetQuantity(c.Request.Context(), userID, productID, quantity)
	if err != nil {
		var stockErr *apperrors.StockError
		if errors.As(err, &stockErr) {
			c.JSON(http.StatusConflict, gin.H{
				"status":  StatusError,
				"message": fmt.Sprintf("Not enough stock. Max: %d", stockErr.Available),
			})
			return
		}
		apperrors.Respond(c, err)
		return
	}

	if result.Removed {
		c.JSON(http.StatusOK, gin.H{
			"status":     StatusRemoved,
			"message":    "Product removed from cart.",
			"cart_total": result.CartTotal,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":        StatusSuccess,
		"message":       "Quantity updated.",
		"new_quantity":  result.Quantity,
		"new_item_cost": result.ItemCost,
		"cart_total":    result.CartTotal,
	})
}

// bindQuantity reads the optional {"quantity": n} body. A missing body or
// field means 1.
func bindQuantity(c *gin.Context) (int, bool) {
	var req models.QuantityRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			apperrors.Respond(c, apperrors.Validation("Invalid request body."))
			return 0, false
		}
	}
	if req.Quantity == nil {
		return 1, true
	}
	return *req.Quantity, true
}
