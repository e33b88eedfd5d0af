package identity

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"github.com/bizledger/backend/internal/application/common"
	"github.com/bizledger/backend/internal/application/notification"
	"github.com/bizledger/backend/internal/domain/identity"
	"github.com/bizledger/backend/internal/domain/ledger"
	"github.com/bizledger/backend/internal/domain/project"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultMagicLinkTTL is how long a client magic link stays valid
const DefaultMagicLinkTTL = 24 * time.Hour

// ClientServiceConfig configures magic link generation
type ClientServiceConfig struct {
	MagicLinkTTL time.Duration
	AppURL       string
}

// ClientService manages client logins. All operations are ADMIN-only.
type ClientService struct {
	users     identity.UserRepository
	companies identity.CompanyRepository
	txScope   TransactionScope
	notifier  notification.Notifier
	cfg       ClientServiceConfig
	newToken  func() (string, error)
	now       func() time.Time
	logger    *zap.Logger
}

// NewClientService creates a new ClientService
func NewClientService(
	users identity.UserRepository,
	companies identity.CompanyRepository,
	txScope TransactionScope,
	notifier notification.Notifier,
	cfg ClientServiceConfig,
	logger *zap.Logger,
) *ClientService {
	if cfg.MagicLinkTTL <= 0 {
		cfg.MagicLinkTTL = DefaultMagicLinkTTL
	}
	cfg.AppURL = strings.TrimRight(cfg.AppURL, "/")
	return &ClientService{
		users:     users,
		companies: companies,
		txScope:   txScope,
		notifier:  notifier,
		cfg:       cfg,
		newToken:  randomToken,
		now:       time.Now,
		logger:    common.Nop(logger),
	}
}

// CreateClientWithProject creates the CLIENT user, a project bound to them,
// the project tag and a magic login token in one transaction, then emails
// the welcome link. A failed email does not undo the creation.
func (s *ClientService) CreateClientWithProject(ctx context.Context, actor identity.Actor, input CreateClientInput) (*CreateClientResult, error) {
	if err := actor.RequireAdmin(); err != nil {
		return nil, err
	}
	user, err := identity.NewUser(actor.CompanyID, input.Name, input.Email, input.Password, identity.UserTypeClient)
	if err != nil {
		return nil, err
	}
	p, err := project.NewProject(actor.CompanyID, project.Details{
		Name:        input.ProjectName,
		Description: input.ProjectDescription,
		Status:      project.StatusActive,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		ClientID:    &user.ID,
	})
	if err != nil {
		return nil, err
	}
	tag, err := ledger.NewProjectTag(actor.CompanyID, p.ID, p.Name)
	if err != nil {
		return nil, err
	}
	token, err := s.newToken()
	if err != nil {
		return nil, common.Fail(s.logger, "generate magic link", err)
	}
	user.IssueMagicToken(token, s.cfg.MagicLinkTTL, s.now())

	exists, err := s.users.ExistsByEmail(ctx, user.Email)
	if err != nil {
		return nil, common.Fail(s.logger, "check email", err)
	}
	if exists {
		return nil, ErrEmailTaken
	}

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.UserRepo().Save(ctx, user); err != nil {
			return err
		}
		if err := repos.ProjectRepo().Save(ctx, p); err != nil {
			return err
		}
		return repos.TagRepo().Save(ctx, tag)
	})
	if err != nil {
		return nil, common.Fail(s.logger, "create client", err)
	}

	link := s.magicLink(token)
	sent := s.send(ctx, notification.Message{
		Kind: notification.KindClientWelcome,
		To:   notification.Recipient{Email: user.Email, Name: user.Name},
		Data: notification.ClientWelcomeData{
			ClientName:  user.Name,
			CompanyName: s.companyName(ctx, actor.CompanyID),
			ProjectName: p.Name,
			MagicLink:   link,
		},
	})

	s.logger.Info("client created",
		zap.String("client_id", user.ID.String()),
		zap.String("project_id", p.ID.String()),
		zap.Bool("email_sent", sent))
	return &CreateClientResult{
		Client:    ToClientResponse(user),
		ProjectID: p.ID,
		TagID:     tag.ID,
		MagicLink: link,
		EmailSent: sent,
	}, nil
}

// GenerateMagicLink replaces the client's magic token and emails the link
func (s *ClientService) GenerateMagicLink(ctx context.Context, actor identity.Actor, clientID uuid.UUID) (*MagicLinkResult, error) {
	if err := actor.RequireAdmin(); err != nil {
		return nil, err
	}
	user, err := s.loadClient(ctx, actor.CompanyID, clientID)
	if err != nil {
		return nil, err
	}
	token, err := s.newToken()
	if err != nil {
		return nil, common.Fail(s.logger, "generate magic link", err)
	}
	user.IssueMagicToken(token, s.cfg.MagicLinkTTL, s.now())
	if err := s.users.Save(ctx, user); err != nil {
		return nil, common.Fail(s.logger, "save magic link", err)
	}

	link := s.magicLink(token)
	sent := s.send(ctx, notification.Message{
		Kind: notification.KindMagicLink,
		To:   notification.Recipient{Email: user.Email, Name: user.Name},
		Data: notification.MagicLinkData{ClientName: user.Name, MagicLink: link},
	})
	return &MagicLinkResult{
		MagicLink: link,
		ExpiresAt: *user.MagicTokenExpiry,
		EmailSent: sent,
	}, nil
}

// List returns every client of the company
func (s *ClientService) List(ctx context.Context, actor identity.Actor) ([]ClientResponse, error) {
	if err := actor.RequireAdmin(); err != nil {
		return nil, err
	}
	users, err := s.users.FindByTypeForTenant(ctx, actor.CompanyID, identity.UserTypeClient)
	if err != nil {
		return nil, common.Fail(s.logger, "list clients", err)
	}
	out := make([]ClientResponse, len(users))
	for i := range users {
		out[i] = ToClientResponse(&users[i])
	}
	return out, nil
}

// Get returns one client
func (s *ClientService) Get(ctx context.Context, actor identity.Actor, clientID uuid.UUID) (*ClientResponse, error) {
	if err := actor.RequireAdmin(); err != nil {
		return nil, err
	}
	user, err := s.loadClient(ctx, actor.CompanyID, clientID)
	if err != nil {
		return nil, err
	}
	resp := ToClientResponse(user)
	return &resp, nil
}

// loadClient reads a user of the company that must be a client
func (s *ClientService) loadClient(ctx context.Context, companyID, id uuid.UUID) (*identity.User, error) {
	user, err := s.users.FindByIDForTenant(ctx, companyID, id)
	if err != nil {
		if common.IsNotFound(err) {
			return nil, common.NotFound("Client")
		}
		return nil, common.Fail(s.logger, "load client", err)
	}
	if user.UserType != identity.UserTypeClient {
		return nil, common.NotFound("Client")
	}
	return user, nil
}

func (s *ClientService) magicLink(token string) string {
	return s.cfg.AppURL + "/client/login?token=" + token
}

func (s *ClientService) send(ctx context.Context, msg notification.Message) bool {
	if s.notifier == nil {
		return false
	}
	if err := s.notifier.Send(ctx, msg); err != nil {
		s.logger.Warn("failed to send client email",
			zap.String("kind", string(msg.Kind)),
			zap.String("to", msg.To.Email),
			zap.Error(err))
		return false
	}
	return true
}

func (s *ClientService) companyName(ctx context.Context, id uuid.UUID) string {
	company, err := s.companies.FindByID(ctx, id)
	if err != nil {
		return ""
	}
	return company.Name
}

// randomToken returns 32 random bytes, hex encoded
func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
