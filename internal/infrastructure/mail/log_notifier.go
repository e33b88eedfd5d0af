package mail

import (
	"context"

	"github.com/bizledger/backend/internal/application/notification"
	"go.uber.org/zap"
)

// LogNotifier renders messages and writes them to the log instead of
// sending them. Used when notification.enabled is false.
type LogNotifier struct {
	engine *TemplateEngine
	logger *zap.Logger
}

// NewLogNotifier creates a LogNotifier
func NewLogNotifier(appURL string, logger *zap.Logger) (*LogNotifier, error) {
	engine, err := NewTemplateEngine(appURL)
	if err != nil {
		return nil, err
	}
	return &LogNotifier{engine: engine, logger: logger.Named("mail")}, nil
}

// Send logs the rendered subject and recipient
func (n *LogNotifier) Send(_ context.Context, msg notification.Message) error {
	rendered, err := n.engine.Render(msg)
	if err != nil {
		return err
	}
	n.logger.Info("email suppressed",
		zap.String("kind", string(msg.Kind)),
		zap.String("to", msg.To.Email),
		zap.String("subject", rendered.Subject),
	)
	return nil
}

var _ notification.Notifier = (*LogNotifier)(nil)
