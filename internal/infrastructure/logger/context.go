package logger

import (
	"context"

	"github.com/bizledger/backend/internal/domain/identity"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type contextKey string

const (
	loggerKey    contextKey = "logger"
	requestIDKey contextKey = "request_id"
)

// WithContext attaches a logger to ctx
func WithContext(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext returns the logger attached to ctx, or a no-op logger
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		return l
	}
	return zap.NewNop()
}

// WithRequestID records the request id and tags the attached logger with it
func WithRequestID(ctx context.Context, l *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, requestIDKey, requestID)
	l = l.With(zap.String("request_id", requestID))
	return WithContext(ctx, l), l
}

// RequestID returns the request id carried by ctx
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithActor tags the attached logger with the authenticated company and user
func WithActor(ctx context.Context, actor identity.Actor) (context.Context, *zap.Logger) {
	l := FromContext(ctx).With(
		zap.String("company_id", actor.CompanyID.String()),
		zap.String("user_id", actor.UserID.String()),
		zap.String("user_type", actor.UserType.String()),
	)
	return WithContext(ctx, l), l
}

// L returns the logger of ctx with the active span's trace and span ids
func L(ctx context.Context) *zap.Logger {
	return WithTrace(ctx, FromContext(ctx))
}

// WithTrace adds trace_id and span_id when ctx carries a valid span
func WithTrace(ctx context.Context, l *zap.Logger) *zap.Logger {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return l
	}
	return l.With(
		zap.String("trace_id", sc.TraceID().String()),
		zap.String("span_id", sc.SpanID().String()),
	)
}
