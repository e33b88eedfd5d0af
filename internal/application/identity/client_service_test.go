package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bizledger/backend/internal/application/common"
	"github.com/bizledger/backend/internal/application/notification"
	"github.com/bizledger/backend/internal/domain/identity"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type clientFixture struct {
	admin    identity.Actor
	users    *memUsers
	projects *memProjects
	tags     *memTags
	notifier *MockNotifier
	svc      *ClientService
	now      time.Time
}

func newClientFixture(t *testing.T) *clientFixture {
	t.Helper()
	companies := newMemCompanies()
	company, err := identity.NewCompany("Acme Studio")
	require.NoError(t, err)
	require.NoError(t, companies.Save(context.Background(), company))

	f := &clientFixture{
		admin:    identity.Actor{UserID: uuid.New(), CompanyID: company.ID, UserType: identity.UserTypeAdmin, Name: "Ada"},
		users:    newMemUsers(),
		projects: &memProjects{},
		tags:     &memTags{},
		notifier: new(MockNotifier),
		now:      time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC),
	}
	scope := NewNoOpTransactionScope(companies, f.users, f.projects, f.tags)
	f.svc = NewClientService(f.users, companies, scope, f.notifier, ClientServiceConfig{AppURL: "https://app.example.com/"}, nil)
	f.svc.now = func() time.Time { return f.now }
	tokens := []string{"token-1", "token-2", "token-3"}
	f.svc.newToken = func() (string, error) {
		tok := tokens[0]
		tokens = tokens[1:]
		return tok, nil
	}
	return f
}

func (f *clientFixture) create(t *testing.T) *CreateClientResult {
	t.Helper()
	res, err := f.svc.CreateClientWithProject(context.Background(), f.admin, CreateClientInput{
		Name:        "Globex",
		Email:       "owner@globex.example",
		ProjectName: "Website",
	})
	require.NoError(t, err)
	return res
}

func TestClientService_CreateClientWithProject(t *testing.T) {
	f := newClientFixture(t)
	f.notifier.On("Send", mock.Anything, mock.MatchedBy(func(msg notification.Message) bool {
		data, ok := msg.Data.(notification.ClientWelcomeData)
		return ok && msg.Kind == notification.KindClientWelcome &&
			msg.To.Email == "owner@globex.example" &&
			data.CompanyName == "Acme Studio" &&
			data.ProjectName == "Website" &&
			data.MagicLink == "https://app.example.com/client/login?token=token-1"
	})).Return(nil).Once()

	res := f.create(t)

	assert.True(t, res.EmailSent)
	assert.Equal(t, "https://app.example.com/client/login?token=token-1", res.MagicLink)
	require.NotNil(t, res.Client.MagicLinkExpiry)
	assert.True(t, res.Client.MagicLinkExpiry.Equal(f.now.Add(24*time.Hour)))

	stored := f.users.get(res.Client.ID)
	require.NotNil(t, stored)
	assert.Equal(t, identity.UserTypeClient, stored.UserType)
	assert.Equal(t, "token-1", stored.MagicToken)

	require.Len(t, f.projects.saved, 1)
	p := f.projects.saved[0]
	assert.Equal(t, res.ProjectID, p.ID)
	require.NotNil(t, p.ClientID)
	assert.Equal(t, stored.ID, *p.ClientID)

	require.Len(t, f.tags.saved, 1)
	assert.Equal(t, "Project: Website", f.tags.saved[0].Name)
	assert.Equal(t, p.ID, *f.tags.saved[0].ProjectID)
	f.notifier.AssertExpectations(t)
}

func TestClientService_CreateRequiresAdmin(t *testing.T) {
	f := newClientFixture(t)
	staff := f.admin
	staff.UserType = identity.UserTypeEmployee

	_, err := f.svc.CreateClientWithProject(context.Background(), staff, CreateClientInput{
		Name: "Globex", Email: "owner@globex.example", ProjectName: "Website",
	})

	assert.ErrorIs(t, err, shared.ErrUnauthorized)
	assert.Empty(t, f.users.users)
}

func TestClientService_CreateKeepsClientWhenEmailFails(t *testing.T) {
	f := newClientFixture(t)
	f.notifier.On("Send", mock.Anything, mock.Anything).Return(errors.New("smtp down")).Once()

	res := f.create(t)

	assert.False(t, res.EmailSent)
	assert.NotNil(t, f.users.get(res.Client.ID))
}

func TestClientService_CreateFailsWhenTagSaveFails(t *testing.T) {
	f := newClientFixture(t)
	f.tags.saveErr = errors.New("unique violation")

	_, err := f.svc.CreateClientWithProject(context.Background(), f.admin, CreateClientInput{
		Name: "Globex", Email: "owner@globex.example", ProjectName: "Website",
	})

	assert.ErrorIs(t, err, common.ErrOperationFailed)
	f.notifier.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestClientService_CreateRejectsTakenEmail(t *testing.T) {
	f := newClientFixture(t)
	f.notifier.On("Send", mock.Anything, mock.Anything).Return(nil)
	f.create(t)

	_, err := f.svc.CreateClientWithProject(context.Background(), f.admin, CreateClientInput{
		Name: "Globex Again", Email: "OWNER@globex.example", ProjectName: "Shop",
	})

	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	assert.Len(t, f.projects.saved, 1)
}

func TestClientService_GenerateMagicLink(t *testing.T) {
	f := newClientFixture(t)
	f.notifier.On("Send", mock.Anything, mock.MatchedBy(func(msg notification.Message) bool {
		return msg.Kind == notification.KindClientWelcome
	})).Return(nil).Once()
	created := f.create(t)

	f.now = f.now.Add(48 * time.Hour)
	f.notifier.On("Send", mock.Anything, mock.MatchedBy(func(msg notification.Message) bool {
		data, ok := msg.Data.(notification.MagicLinkData)
		return ok && msg.Kind == notification.KindMagicLink && data.MagicLink == "https://app.example.com/client/login?token=token-2"
	})).Return(nil).Once()

	res, err := f.svc.GenerateMagicLink(context.Background(), f.admin, created.Client.ID)
	require.NoError(t, err)

	assert.True(t, res.EmailSent)
	assert.True(t, res.ExpiresAt.Equal(f.now.Add(24*time.Hour)))
	assert.Equal(t, "token-2", f.users.get(created.Client.ID).MagicToken)
	f.notifier.AssertExpectations(t)
}

func TestClientService_GetAndList(t *testing.T) {
	f := newClientFixture(t)
	f.notifier.On("Send", mock.Anything, mock.Anything).Return(nil)
	created := f.create(t)

	staff, err := identity.NewUser(f.admin.CompanyID, "Eve Staff", "eve@example.com", "secret123", identity.UserTypeEmployee)
	require.NoError(t, err)
	require.NoError(t, f.users.Save(context.Background(), staff))

	got, err := f.svc.Get(context.Background(), f.admin, created.Client.ID)
	require.NoError(t, err)
	assert.Equal(t, "Globex", got.Name)

	_, err = f.svc.Get(context.Background(), f.admin, staff.ID)
	assert.True(t, common.IsNotFound(err), "staff users are not clients")

	otherTenant := f.admin
	otherTenant.CompanyID = uuid.New()
	_, err = f.svc.Get(context.Background(), otherTenant, created.Client.ID)
	assert.True(t, common.IsNotFound(err))

	list, err := f.svc.List(context.Background(), f.admin)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, created.Client.ID, list[0].ID)

	_, err = f.svc.GenerateMagicLink(context.Background(), f.admin, staff.ID)
	assert.True(t, common.IsNotFound(err))
}
