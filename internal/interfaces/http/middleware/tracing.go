package middleware

import (
	"net/http"

	"github.com/bizledger/backend/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracingConfig holds configuration for the tracing middleware
type TracingConfig struct {
	ServiceName string
	Enabled     bool
}

// DefaultTracingConfig returns default tracing configuration
func DefaultTracingConfig() TracingConfig {
	return TracingConfig{
		ServiceName: "bizledger-backend",
		Enabled:     true,
	}
}

// Tracing opens a server span per request through otelgin
func Tracing(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return otelgin.Middleware(cfg.ServiceName)
}

// TracingAttributeInjector copies the request id and the authenticated
// actor onto the active span. Mount it after JWT authentication.
func TracingAttributeInjector() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			enrichSpan(c, span)
		}
		c.Next()
	}
}

func enrichSpan(c *gin.Context, span trace.Span) {
	if requestID := GetRequestID(c); requestID != "" {
		span.SetAttributes(attribute.String("request_id", requestID))
	}
	actor, ok := GetActor(c)
	if !ok {
		return
	}
	span.SetAttributes(
		attribute.String(telemetry.SpanAttrActorID, actor.UserID.String()),
		attribute.String(telemetry.SpanAttrTenantID, actor.CompanyID.String()),
		attribute.String("user_type", string(actor.UserType)),
	)
}

// SpanErrorMarker flags the span as failed for 4xx responses and labels every
// failed response. otelgin sets the status of 5xx spans itself once the chain
// returns, so only the label is added for those.
func SpanErrorMarker() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}
		status := c.Writer.Status()
		if status < http.StatusBadRequest {
			return
		}
		message := spanErrorMessage(status)
		span.SetAttributes(
			attribute.Int("http.status_code", status),
			attribute.String(spanErrorAttr, message),
		)
		if status < http.StatusInternalServerError {
			span.SetStatus(codes.Error, message)
		}
	}
}

const spanErrorAttr = "http.error_message"

func spanErrorMessage(status int) string {
	switch {
	case status >= http.StatusInternalServerError:
		return "Internal Server Error"
	case status == http.StatusUnauthorized:
		return "Unauthorized"
	case status == http.StatusForbidden:
		return "Forbidden"
	case status == http.StatusNotFound:
		return "Not Found"
	case status == http.StatusTooManyRequests:
		return "Too Many Requests"
	default:
		return "Client Error"
	}
}
