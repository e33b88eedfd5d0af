package mail

import (
	"context"
	"errors"
	"testing"

	"github.com/bizledger/backend/internal/application/notification"
	"github.com/bizledger/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	gomail "github.com/wneessen/go-mail"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type mockSender struct {
	mock.Mock
}

func (m *mockSender) DialAndSendWithContext(ctx context.Context, messages ...*gomail.Msg) error {
	args := m.Called(ctx, messages)
	return args.Error(0)
}

func magicLinkMessage(email string) notification.Message {
	return notification.Message{
		Kind: notification.KindMagicLink,
		To:   notification.Recipient{Email: email, Name: "Acme Corp"},
		Data: notification.MagicLinkData{ClientName: "Acme Corp", MagicLink: "https://app.example.com/m/abc"},
	}
}

func TestSMTPNotifier_Send(t *testing.T) {
	engine, err := NewTemplateEngine("https://app.example.com")
	require.NoError(t, err)

	t.Run("builds the message and sends it", func(t *testing.T) {
		client := new(mockSender)
		var sent []*gomail.Msg
		client.On("DialAndSendWithContext", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) { sent = args.Get(1).([]*gomail.Msg) }).
			Return(nil)

		core, logs := observer.New(zap.InfoLevel)
		n := newSMTPNotifier(client, "BizLedger <noreply@example.com>", engine, zap.New(core))

		require.NoError(t, n.Send(context.Background(), magicLinkMessage("client@example.com")))

		require.Len(t, sent, 1)
		assert.Equal(t, []string{"Your Client Portal Access Link"}, sent[0].GetGenHeader(gomail.HeaderSubject))
		recipients, err := sent[0].GetRecipients()
		require.NoError(t, err)
		assert.Equal(t, []string{"client@example.com"}, recipients)
		assert.Equal(t, 1, logs.FilterMessage("email sent").Len())
		client.AssertExpectations(t)
	})

	t.Run("wraps transport errors", func(t *testing.T) {
		client := new(mockSender)
		client.On("DialAndSendWithContext", mock.Anything, mock.Anything).Return(errors.New("connection refused"))
		n := newSMTPNotifier(client, "noreply@example.com", engine, nil)

		err := n.Send(context.Background(), magicLinkMessage("client@example.com"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "magic_link")
		assert.Contains(t, err.Error(), "connection refused")
	})

	t.Run("rejects a missing recipient without dialing", func(t *testing.T) {
		client := new(mockSender)
		n := newSMTPNotifier(client, "noreply@example.com", engine, nil)

		assert.Error(t, n.Send(context.Background(), magicLinkMessage("  ")))
		client.AssertNotCalled(t, "DialAndSendWithContext", mock.Anything, mock.Anything)
	})

	t.Run("rejects an invalid sender", func(t *testing.T) {
		client := new(mockSender)
		n := newSMTPNotifier(client, "not an address", engine, nil)

		assert.Error(t, n.Send(context.Background(), magicLinkMessage("client@example.com")))
		client.AssertNotCalled(t, "DialAndSendWithContext", mock.Anything, mock.Anything)
	})
}

func TestNewSMTPNotifier(t *testing.T) {
	_, err := NewSMTPNotifier(config.NotificationConfig{}, nil)
	assert.Error(t, err)

	n, err := NewSMTPNotifier(config.NotificationConfig{
		SMTPHost:     "smtp.example.com",
		SMTPPort:     587,
		SMTPUsername: "user",
		SMTPPassword: "secret",
		SMTPTLS:      true,
		From:         "noreply@example.com",
	}, zap.NewNop())
	require.NoError(t, err)
	assert.NotNil(t, n)
}

func TestLogNotifier(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	n, err := NewLogNotifier("https://app.example.com", zap.New(core))
	require.NoError(t, err)

	require.NoError(t, n.Send(context.Background(), magicLinkMessage("client@example.com")))

	entries := logs.FilterMessage("email suppressed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "Your Client Portal Access Link", entries[0].ContextMap()["subject"])
}
