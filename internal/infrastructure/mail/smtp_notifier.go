// Package mail delivers notification messages over SMTP.
package mail

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bizledger/backend/internal/application/notification"
	"github.com/bizledger/backend/internal/infrastructure/config"
	gomail "github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

const sendTimeout = 15 * time.Second

// sender is the part of *gomail.Client the notifier uses
type sender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*gomail.Msg) error
}

// SMTPNotifier renders messages and sends them through an SMTP relay
type SMTPNotifier struct {
	client sender
	from   string
	engine *TemplateEngine
	logger *zap.Logger
}

// NewSMTPNotifier creates a notifier from the notification settings
func NewSMTPNotifier(cfg config.NotificationConfig, logger *zap.Logger) (*SMTPNotifier, error) {
	if cfg.SMTPHost == "" {
		return nil, errors.New("notification.smtp_host is required")
	}

	opts := []gomail.Option{
		gomail.WithPort(cfg.SMTPPort),
		gomail.WithTimeout(sendTimeout),
	}
	if cfg.SMTPTLS {
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSMandatory))
	} else {
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSOpportunistic))
	}
	if cfg.SMTPUsername != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.SMTPUsername),
			gomail.WithPassword(cfg.SMTPPassword),
		)
	}

	client, err := gomail.NewClient(cfg.SMTPHost, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create SMTP client: %w", err)
	}
	engine, err := NewTemplateEngine(cfg.AppURL)
	if err != nil {
		return nil, err
	}
	return newSMTPNotifier(client, cfg.From, engine, logger), nil
}

func newSMTPNotifier(client sender, from string, engine *TemplateEngine, logger *zap.Logger) *SMTPNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SMTPNotifier{
		client: client,
		from:   from,
		engine: engine,
		logger: logger.Named("mail"),
	}
}

// Send renders msg and delivers it
func (n *SMTPNotifier) Send(ctx context.Context, msg notification.Message) error {
	if strings.TrimSpace(msg.To.Email) == "" {
		return errors.New("recipient email is required")
	}

	rendered, err := n.engine.Render(msg)
	if err != nil {
		return err
	}

	m := gomail.NewMsg()
	if err := m.From(n.from); err != nil {
		return fmt.Errorf("invalid sender %q: %w", n.from, err)
	}
	if err := m.AddToFormat(msg.To.Name, msg.To.Email); err != nil {
		return fmt.Errorf("invalid recipient %q: %w", msg.To.Email, err)
	}
	m.Subject(rendered.Subject)
	m.SetBodyString(gomail.TypeTextHTML, rendered.HTML)

	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	if err := n.client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("failed to send %s email: %w", msg.Kind, err)
	}
	n.logger.Info("email sent",
		zap.String("kind", string(msg.Kind)),
		zap.String("to", msg.To.Email),
	)
	return nil
}

var _ notification.Notifier = (*SMTPNotifier)(nil)
