package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// EventTracker is the analytics sink used by AnalyticsMiddleware.
type EventTracker interface {
	IsInitialized() bool
	Enqueue(accountID string, event string, properties map[string]any)
}

// pathsToSkip contains paths that are never tracked
var pathsToSkip = map[string]bool{
	"/health": true,
}

// AnalyticsMiddleware records one event per successful authenticated request,
// named after the route, e.g. "api_v1_transactions".
func AnalyticsMiddleware(tracker EventTracker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tracker == nil || !tracker.IsInitialized() || pathsToSkip[c.Request.URL.Path] {
			c.Next()
			return
		}

		c.Next()

		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}
		accountID, ok := GetUserIDFromContext(c)
		if !ok {
			return
		}
		eventName := strings.ReplaceAll(strings.TrimPrefix(c.FullPath(), "/"), "/", "_")
		if eventName == "" {
			return
		}

		// The route template is sent instead of the path so entry ids stay local.
		props := map[string]any{
			"method":      c.Request.Method,
			"route":       c.FullPath(),
			"status_code": c.Writer.Status(),
		}
		tracker.Enqueue(accountID, eventName, props)
	}
}
