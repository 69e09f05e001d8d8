package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jgirmay/attendance/pkg/auth"
	apperrors "github.com/jgirmay/attendance/pkg/errors"
	"github.com/jgirmay/attendance/pkg/models"
)

// Authenticator resolves a bearer token to its claims.
type Authenticator interface {
	Authenticate(token string) (*auth.Claims, error)
}

// Keys set on the gin context.
const (
	UserIDKey    = "user_id"
	EmailKey     = "email"
	RoleKey      = "role"
	RequestIDKey = "request_id"
)

// RequireAuth validates the bearer token and stores the caller's identity on
// the context. Browsers cannot set headers on websocket upgrades, so a
// "token" query parameter is accepted as a fallback.
func RequireAuth(authenticator Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			AbortWithError(c, apperrors.Unauthenticated("Not authorized, no token"))
			return
		}

		claims, err := authenticator.Authenticate(token)
		if err != nil {
			AbortWithError(c, apperrors.From(err))
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(EmailKey, claims.Email)
		c.Set(RoleKey, models.Role(claims.Role))
		c.Next()
	}
}

// RequireRole rejects callers whose token does not carry role.
func RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if Role(c) != role {
			AbortWithError(c, apperrors.Forbidden("Not authorized as "+string(role)))
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated user's ID.
func UserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}

// Role returns the authenticated user's role.
func Role(c *gin.Context) models.Role {
	if v, ok := c.Get(RoleKey); ok {
		if role, ok := v.(models.Role); ok {
			return role
		}
	}
	return ""
}

func extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header != "" {
		parts := strings.Fields(header)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
		return ""
	}
	return c.Query("token")
}
