package identity

import (
	"context"
	"errors"
	"time"

	"github.com/bizledger/backend/internal/application/notification"
	"github.com/bizledger/backend/internal/domain/identity"
	"github.com/bizledger/backend/internal/domain/ledger"
	"github.com/bizledger/backend/internal/domain/project"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/bizledger/backend/internal/infrastructure/auth"
	"github.com/bizledger/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "test-issuer",
		MaxRefreshCount:        10,
	})
}

type memCompanies struct {
	companies map[uuid.UUID]*identity.Company
}

func newMemCompanies() *memCompanies {
	return &memCompanies{companies: map[uuid.UUID]*identity.Company{}}
}

func (m *memCompanies) Save(_ context.Context, c *identity.Company) error {
	m.companies[c.ID] = c
	return nil
}

func (m *memCompanies) FindByID(_ context.Context, id uuid.UUID) (*identity.Company, error) {
	c, ok := m.companies[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return c, nil
}

func (m *memCompanies) FindAllIDs(_ context.Context) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(m.companies))
	for id := range m.companies {
		ids = append(ids, id)
	}
	return ids, nil
}

type memUsers struct {
	users   map[uuid.UUID]*identity.User
	saveErr error
}

func newMemUsers() *memUsers {
	return &memUsers{users: map[uuid.UUID]*identity.User{}}
}

func (m *memUsers) Save(_ context.Context, u *identity.User) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memUsers) get(id uuid.UUID) *identity.User {
	u, ok := m.users[id]
	if !ok {
		return nil
	}
	cp := *u
	return &cp
}

func (m *memUsers) FindByID(_ context.Context, id uuid.UUID) (*identity.User, error) {
	if u := m.get(id); u != nil {
		return u, nil
	}
	return nil, shared.ErrNotFound
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*identity.User, error) {
	for id, u := range m.users {
		if u.Email == email {
			return m.get(id), nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *memUsers) FindByMagicToken(_ context.Context, token string) (*identity.User, error) {
	for id, u := range m.users {
		if u.MagicToken != "" && u.MagicToken == token {
			return m.get(id), nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *memUsers) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, u := range m.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *memUsers) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*identity.User, error) {
	if u := m.get(id); u != nil && u.TenantID == tenantID {
		return u, nil
	}
	return nil, shared.ErrNotFound
}

func (m *memUsers) FindByTypeForTenant(_ context.Context, tenantID uuid.UUID, userType identity.UserType) ([]identity.User, error) {
	var out []identity.User
	for _, u := range m.users {
		if u.TenantID == tenantID && u.UserType == userType {
			out = append(out, *u)
		}
	}
	return out, nil
}

type memProjects struct {
	project.ProjectRepository
	saved []*project.Project
}

func (m *memProjects) Save(_ context.Context, p *project.Project) error {
	m.saved = append(m.saved, p)
	return nil
}

type memTags struct {
	ledger.TagRepository
	saved   []*ledger.Tag
	saveErr error
}

func (m *memTags) Save(_ context.Context, t *ledger.Tag) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, t)
	return nil
}

// failingScope aborts every transaction before running fn
type failingScope struct{}

func (failingScope) Execute(context.Context, func(TransactionalRepositories) error) error {
	return errors.New("begin: connection refused")
}

// MockNotifier is a testify mock for notification.Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Send(ctx context.Context, msg notification.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}
