package middleware

import (
	"errors"
	"strings"

	"github.com/Jaypatel0924/Sweet-Shop-Management-System/apperrors"
	"github.com/Jaypatel0924/Sweet-Shop-Management-System/models"
	"github.com/Jaypatel0924/Sweet-Shop-Management-System/services"
	"github.com/gin-gonic/gin"
)

const (
	UserContextKey  = "userID"
	RoleContextKey  = "role"
	EmailContextKey = "email"
)

// TokenValidator validates bearer tokens. *services.TokenService satisfies it.
type TokenValidator interface {
	ValidateToken(tokenStr string) (*services.TokenClaims, error)
}

// Auth requires a valid bearer access token and stores its identity on the context.
func Auth(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		scheme, token, ok := strings.Cut(header, " ")
		token = strings.TrimSpace(token)
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			apperrors.Respond(c, apperrors.Unauthorized("Access token required"))
			return
		}

		claims, err := tokens.ValidateToken(token)
		if err != nil {
			apperrors.Respond(c, apperrors.Forbidden("Invalid or expired token"))
			return
		}

		c.Set(UserContextKey, claims.UserID)
		c.Set(RoleContextKey, claims.Role)
		c.Set(EmailContextKey, claims.Email)
		c.Next()
	}
}

// AdminOnly restricts access to admin role.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAdmin(c) {
			apperrors.Respond(c, apperrors.Forbidden("Admin access required"))
			return
		}
		c.Next()
	}
}

// GetUserID extracts the user ID from the Gin context.
func GetUserID(c *gin.Context) (string, error) {
	if id := c.GetString(UserContextKey); id != "" {
		return id, nil
	}
	return "", errors.New("user ID not found in context")
}

// IsAdmin reports whether the authenticated caller has the admin role.
func IsAdmin(c *gin.Context) bool {
	return c.GetString(RoleContextKey) == models.RoleAdmin
}
