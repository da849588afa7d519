package middleware

import (
	"context"

	"github.com/SscSPs/fieldops_backend/internal/core/domain"
	"github.com/gin-gonic/gin"
)

// Keys for the authenticated caller in the request context.
const (
	userIDKey = contextKey("userID")
	roleKey   = contextKey("role")
)

// WithIdentity returns a copy of ctx carrying the caller's user id and role.
func WithIdentity(ctx context.Context, userID string, role domain.Role) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, roleKey, role)
}

// GetUserIDFromContext retrieves the authenticated user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userID, ok := c.Request.Context().Value(userIDKey).(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}

// GetRoleFromContext retrieves the role claim of the authenticated user.
func GetRoleFromContext(c *gin.Context) (domain.Role, bool) {
	role, ok := c.Request.Context().Value(roleKey).(domain.Role)
	return role, ok
}
