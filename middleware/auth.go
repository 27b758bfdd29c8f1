package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const (
	UserContextKey  = "userID"
	RoleContextKey  = "role"
	EmailContextKey = "email"

	RoleAdmin = "admin"
)

// AuthConfig controls how AuthMiddleware identifies the caller.
type AuthConfig struct {
	// LoginURL receives unauthenticated callers with ?next=<path>. When
	// empty they get a 401 instead.
	LoginURL string
	// JWTSecret enables Authorization: Bearer tokens signed with HMAC.
	JWTSecret string
}

type identity struct {
	userID string
	role   string
	email  string
}

// AuthMiddleware reads the identity injected by the API gateway from the
// X-User-* headers, falling back to gateway cookies and then to a bearer
// token.
func AuthMiddleware(cfg AuthConfig) gin.HandlerFunc {
	var secret []byte
	if s := strings.TrimSpace(cfg.JWTSecret); s != "" {
		secret = []byte(s)
	}

	return func(c *gin.Context) {
		id := identity{
			userID: c.GetHeader("X-User-ID"),
			role:   c.GetHeader("X-User-Role"),
			email:  c.GetHeader("X-User-Email"),
		}

		if id.userID == "" {
			if v, err := c.Cookie("user_id"); err == nil && v != "" {
				id.userID = v
				id.role, _ = c.Cookie("user_role")
				id.email, _ = c.Cookie("user_email")
			}
		}

		if id.userID == "" && secret != nil {
			if token := bearerToken(c); token != "" {
				if claims, err := parseToken(token, secret); err == nil {
					id = claims
				}
			}
		}

		if _, err := uuid.Parse(id.userID); err != nil {
			denyAccess(c, cfg.LoginURL)
			return
		}

		c.Set(UserContextKey, id.userID)
		c.Set(RoleContextKey, id.role)
		c.Set(EmailContextKey, id.email)
		c.Next()
	}
}

// GetUserID extracts the user ID set by AuthMiddleware.
func GetUserID(c *gin.Context) (uuid.UUID, error) {
	val, exists := c.Get(UserContextKey)
	if !exists {
		return uuid.Nil, errors.New("user ID not found in context")
	}
	s, ok := val.(string)
	if !ok || s == "" {
		return uuid.Nil, errors.New("user ID has invalid type in context")
	}
	return uuid.Parse(s)
}

// AdminOnly restricts access to the admin role.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if role := c.GetString(RoleContextKey); role != RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"status": "error", "message": "Admin role required"})
			return
		}
		c.Next()
	}
}

func denyAccess(c *gin.Context, loginURL string) {
	if loginURL == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "Authentication required"})
		return
	}

	sep := "?"
	if strings.Contains(loginURL, "?") {
		sep = "&"
	}
	c.Redirect(http.StatusFound, loginURL+sep+"next="+url.QueryEscape(c.Request.URL.RequestURI()))
	c.Abort()
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

// parseToken validates an HMAC-signed access token. The subject is read
// from "sub", or "user_id" when "sub" is absent.
func parseToken(tokenStr string, secret []byte) (identity, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || token == nil || !token.Valid {
		return identity{}, fmt.Errorf("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return identity{}, fmt.Errorf("invalid token claims")
	}
	if typ, ok := claims["typ"].(string); ok && typ != "access" {
		return identity{}, fmt.Errorf("invalid token type")
	}

	id := identity{}
	id.userID, _ = claims["sub"].(string)
	if id.userID == "" {
		id.userID, _ = claims["user_id"].(string)
	}
	id.role, _ = claims["role"].(string)
	id.email, _ = claims["email"].(string)
	return id, nil
}
