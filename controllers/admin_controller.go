package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/yashrajoria/storefront-service/common/errors"
	"github.com/yashrajoria/storefront-service/models"
)

// AdminController serves catalog maintenance. Routes are guarded by
// middleware.AdminOnly.
type AdminController struct {
	admin AdminServiceAPI
}

func NewAdminController(admin AdminServiceAPI) *AdminController {
	return &AdminController{admin: admin}
}

func (ac *AdminController) CreateCategory(c *gin.Context) {
	var req models.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": StatusError, "message": "Invalid request", "details": err.Error()})
		return
	}

	category, err := ac.admin.CreateCategory(c.Request.Context(), &req)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": StatusSuccess, "category": category})
}

func (ac *AdminController) CreateProduct(c *gin.Context) {
	var req models.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": StatusError, "message": "Invalid request", "details": err.Error()})
		return
	}

	product, err := ac.admin.CreateProduct(c.Request.Context(), &req)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": StatusSuccess, "product": product})
}

func (ac *AdminController) UpdateProduct(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id", "Product not found.")
	if !ok {
		return
	}

	var req models.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": StatusError, "message": "Invalid request", "details": err.Error()})
		return
	}
	if req.Price == nil && req.Stock == nil && req.Available == nil {
		apperrors.Respond(c, apperrors.Validation("Nothing to update."))
		return
	}

	product, err := ac.admin.UpdateProduct(c.Request.Context(), id, &req)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": StatusSuccess, "product": product})
}

func (ac *AdminController) CreateSlide(c *gin.Context) {
	var req models.CreateSlideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": StatusError, "message": "Invalid request", "details": err.Error()})
		return
	}

	slide, err := ac.admin.CreateSlide(c.Request.Context(), &req)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": StatusSuccess, "slide": slide})
}
