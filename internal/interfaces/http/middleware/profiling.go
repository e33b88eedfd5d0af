package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/grafana/pyroscope-go"
)

// Profiling label keys attached to CPU samples
const (
	ProfileLabelMethod   = "http_method"
	ProfileLabelRoute    = "http_route"
	ProfileLabelResource = "resource"
	ProfileLabelTenantID = "tenant_id"
)

// ProfilingConfig holds configuration for the profiling label middleware
type ProfilingConfig struct {
	Enabled          bool
	SkipPaths        []string
	SkipPathPrefixes []string
}

// DefaultProfilingConfig skips probes and API docs
func DefaultProfilingConfig() ProfilingConfig {
	return ProfilingConfig{
		Enabled:          true,
		SkipPaths:        []string{"/health", "/ready", "/api/v1/health"},
		SkipPathPrefixes: []string{"/swagger"},
	}
}

// Profiling tags the goroutine serving the request with pprof labels so
// Pyroscope can split profiles by route and tenant
func Profiling(cfg ProfilingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		if skipProfiling(cfg, c.Request.URL.Path) {
			c.Next()
			return
		}
		pyroscope.TagWrapper(c.Request.Context(), pyroscope.Labels(profilingLabels(c)...), func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

func skipProfiling(cfg ProfilingConfig, path string) bool {
	for _, p := range cfg.SkipPaths {
		if path == p {
			return true
		}
	}
	for _, prefix := range cfg.SkipPathPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// profilingLabels returns alternating key/value pairs
func profilingLabels(c *gin.Context) []string {
	labels := []string{ProfileLabelMethod, c.Request.Method}
	route := c.FullPath()
	if route != "" {
		labels = append(labels, ProfileLabelRoute, route)
	}
	if resource := resourceFromRoute(route); resource != "" {
		labels = append(labels, ProfileLabelResource, resource)
	}
	if actor, ok := GetActor(c); ok {
		labels = append(labels, ProfileLabelTenantID, actor.CompanyID.String())
	}
	return labels
}

// resourceFromRoute returns the first static segment after the api prefix,
// e.g. "projects" for /api/v1/projects/:id/tasks
func resourceFromRoute(route string) string {
	for _, part := range strings.Split(route, "/") {
		if part == "" || part == "api" || isVersionSegment(part) || strings.HasPrefix(part, ":") {
			continue
		}
		return part
	}
	return ""
}

func isVersionSegment(segment string) bool {
	if len(segment) < 2 || (segment[0] != 'v' && segment[0] != 'V') {
		return false
	}
	for i := 1; i < len(segment); i++ {
		if segment[i] < '0' || segment[i] > '9' {
			return false
		}
	}
	return true
}
