package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	apperrors "github.com/yashrajoria/storefront-service/common/errors"
	"github.com/yashrajoria/storefront-service/middleware"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// parsePaginationParams extracts and clamps page and limit
func parsePaginationParams(c *gin.Context) (int, int) {
	page, limit := DefaultPage, DefaultLimit

	if p, err := strconv.Atoi(c.Query("page")); err == nil && p > 0 {
		page = p
	}
	if l, err := strconv.Atoi(c.Query("limit")); err == nil && l > 0 {
		limit = l
		if limit > MaxLimit {
			limit = MaxLimit
		}
	}
	return page, limit
}

// parseUUIDParam reads a path parameter as a UUID. A malformed ID can never
// match a row, so it is reported as not found.
func parseUUIDParam(c *gin.Context, name, notFoundMessage string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		apperrors.Respond(c, apperrors.NotFound(notFoundMessage))
		return uuid.Nil, false
	}
	return id, true
}

// requireUser returns the authenticated user, writing 401 when there is none.
func requireUser(c *gin.Context) (uuid.UUID, bool) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"status": StatusError, "message": "Authentication required"})
		return uuid.Nil, false
	}
	return userID, true
}
