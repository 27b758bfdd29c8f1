package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/yashrajoria/storefront-service/common/errors"
)

type WishlistController struct {
	wishlist WishlistServiceAPI
}

func NewWishlistController(wishlist WishlistServiceAPI) *WishlistController {
	return &WishlistController{wishlist: wishlist}
}

func (wc *WishlistController) GetWishlist(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	view, err := wc.wishlist.View(c.Request.Context(), userID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": StatusSuccess, "wishlist": view, "items": view.Items})
}

func (wc *WishlistController) AddToWishlist(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	productID, ok := parseUUIDParam(c, "product_id", "Product not found.")
	if !ok {
		return
	}

	created, _, err := wc.wishlist.Add(c.Request.Context(), userID, productID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	if !created {
		c.JSON(http.StatusOK, gin.H{"status": StatusInfo, "message": "Product is already in your wishlist."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": StatusSuccess, "message": "Product added to wishlist."})
}

func (wc *WishlistController) RemoveFromWishlist(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	productID, ok := parseUUIDParam(c, "product_id", "Product not found.")
	if !ok {
		return
	}

	removed, err := wc.wishlist.Remove(c.Request.Context(), userID, productID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	if !removed {
		c.JSON(http.StatusOK, gin.H{"status": StatusInfo, "message": "Product was not found in your wishlist."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": StatusSuccess, "message": "Product removed from wishlist."})
}
