package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/yashrajoria/storefront-service/common/errors"
)

type CatalogController struct {
	catalog CatalogServiceAPI
}

func NewCatalogController(catalog CatalogServiceAPI) *CatalogController {
	return &CatalogController{catalog: catalog}
}

// ListProducts handles GET /products?category=<slug>
func (cc *CatalogController) ListProducts(c *gin.Context) {
	listing, err := cc.catalog.ListProducts(c.Request.Context(), c.Query("category"))
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     StatusSuccess,
		"categories": listing.Categories,
		"category":   listing.Category,
		"products":   listing.Products,
	})
}

// GetProduct handles GET /products/:id/:slug
func (cc *CatalogController) GetProduct(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id", "Product not found.")
	if !ok {
		return
	}

	product, err := cc.catalog.GetProduct(c.Request.Context(), id, c.Param("slug"))
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": StatusSuccess, "product": product})
}

// ListSlides handles GET /slides
func (cc *CatalogController) ListSlides(c *gin.Context) {
	slides, err := cc.catalog.ListSlides(c.Request.Context())
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": StatusSuccess, "slides": slides})
}
