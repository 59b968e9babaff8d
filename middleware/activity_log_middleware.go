package middleware

import (
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ════════════════════════════════════════════════════════════
// Configuration Maps
// ════════════════════════════════════════════════════════════

// pathToResourceType maps the first segment after /admin to a resource type
var pathToResourceType = map[string]string{
	"products": "product",
	"config":   "site_config",
	"cache":    "cache",
}

// methodToActionVerb maps HTTP methods to action verbs
var methodToActionVerb = map[string]string{
	http.MethodPost:   "created",
	http.MethodPatch:  "updated",
	http.MethodPut:    "updated",
	http.MethodDelete: "deleted",
}

var adminWritesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "storefront_admin_writes_total",
	Help: "Admin write requests by resource, action and response status.",
}, []string{"resource", "action", "status"})

// ════════════════════════════════════════════════════════════
// Activity Logging Middleware
// ════════════════════════════════════════════════════════════

// ActivityLoggingMiddleware logs every admin write once the handler has run.
// Must be used AFTER AdminPasswordMiddleware so rejected requests are not logged.
func ActivityLoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		action, ok := methodToActionVerb[c.Request.Method]
		if !ok {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		resource, target := describeTarget(c.FullPath(), c.Request.URL.Path)
		if resource == "cache" {
			action = "revalidated"
		}
		status := c.Writer.Status()
		adminWritesTotal.WithLabelValues(resource, action, strconv.Itoa(status)).Inc()

		marker := "✅"
		if status >= http.StatusBadRequest {
			marker = "❌"
		}
		log.Printf("[activity] %s %s %s %s status=%d ip=%s took=%s",
			marker, resource, target, action, status, c.ClientIP(), time.Since(start).Round(time.Millisecond))
	}
}

// describeTarget derives the resource type and the affected item from the
// matched route and the request path, e.g. ("product", "0190...") or
// ("site_config", "home").
func describeTarget(route, path string) (resource, target string) {
	if route == "" {
		route = path
	}
	_, rest, found := strings.Cut(route, "/admin/")
	if !found {
		return "unknown", path
	}
	segments := strings.Split(rest, "/")
	resource, ok := pathToResourceType[segments[0]]
	if !ok {
		resource = segments[0]
	}

	_, actual, _ := strings.Cut(path, "/admin/")
	parts := strings.Split(actual, "/")
	if len(parts) > 1 {
		return resource, strings.Join(parts[1:], "/")
	}
	return resource, "-"
}
