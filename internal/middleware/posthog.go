package middleware

import (
	"net/http"
	"strings"

	"github.com/SscSPs/fieldops_backend/internal/utils"
	"github.com/gin-gonic/gin"
)

// apiPrefix is trimmed from route templates when naming events.
const apiPrefix = "/api/v1/"

// PosthogMiddleware reports successful state-changing API calls to PostHog.
// Reads are not tracked. Events are named after the route template, e.g.
// "POST /api/v1/work-orders/:id/complete" -> "post_work-orders_:id_complete".
func PosthogMiddleware(posthogClient *utils.PosthogClientWrapper) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !posthogClient.IsInitialized() || !isMutation(c.Request.Method) {
			c.Next()
			return
		}

		c.Next()

		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}
		userID, exists := GetUserIDFromContext(c)
		if !exists {
			return
		}
		eventName := routeEventName(c.Request.Method, c.FullPath())
		if eventName == "" {
			return
		}

		props := map[string]any{
			"status_code": c.Writer.Status(),
			"request_id":  GetRequestID(c.Request.Context()),
		}
		if role, ok := GetRoleFromContext(c); ok {
			props["role"] = string(role)
		}
		for _, param := range c.Params {
			props[param.Key] = param.Value
		}

		posthogClient.Enqueue(userID, eventName, props)
	}
}

func isMutation(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// routeEventName is empty for unmatched routes.
func routeEventName(method, fullPath string) string {
	route := strings.Trim(strings.TrimPrefix(fullPath, apiPrefix), "/")
	if fullPath == "" || route == "" {
		return ""
	}
	return strings.ToLower(method) + "_" + strings.ReplaceAll(route, "/", "_")
}
