package event

import (
	"context"

	"github.com/bizledger/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// LogHandler writes every domain event to the structured log
type LogHandler struct {
	logger *zap.Logger
}

// NewLogHandler creates a LogHandler
func NewLogHandler(logger *zap.Logger) *LogHandler {
	return &LogHandler{logger: logger.Named("events")}
}

// Handle logs the event envelope
func (h *LogHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	h.logger.Info("domain event",
		zap.String("event_type", event.EventType()),
		zap.String("event_id", event.EventID().String()),
		zap.String("aggregate_type", event.AggregateType()),
		zap.String("aggregate_id", event.AggregateID().String()),
		zap.String("tenant_id", event.TenantID().String()),
		zap.Time("occurred_at", event.OccurredAt()),
	)
	return nil
}

// EventTypes is empty, so the handler sees every event
func (h *LogHandler) EventTypes() []string {
	return nil
}
