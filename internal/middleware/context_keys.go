package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

// contextKey is the type of values stored in the request context.
// Using a custom type prevents collisions.
type contextKey string

const (
	loggerCtxKey = contextKey("logger")
	userIDKey    = contextKey("userID")
)

// GetUserIDFromContext retrieves the authenticated account identifier from the Gin context.
// It returns the identifier and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	return UserIDFromCtx(c.Request.Context())
}

// UserIDFromCtx retrieves the authenticated account identifier from a standard context.
func UserIDFromCtx(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok && userID != ""
}
