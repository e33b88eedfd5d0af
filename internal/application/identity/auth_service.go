package identity

import (
	"context"
	"errors"
	"time"

	"github.com/bizledger/backend/internal/application/common"
	"github.com/bizledger/backend/internal/domain/identity"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/bizledger/backend/internal/infrastructure/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrInvalidCredentials hides whether the email or the password was wrong
	ErrInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	// ErrEmailTaken is returned when an email already belongs to a user
	ErrEmailTaken = shared.NewDomainError(shared.ErrAlreadyExists.Code, "A user with this email already exists")
)

// AuthService handles signup, sign-in and session lifecycle
type AuthService struct {
	companies  identity.CompanyRepository
	users      identity.UserRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	txScope    TransactionScope
	now        func() time.Time
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	companies identity.CompanyRepository,
	users identity.UserRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	txScope TransactionScope,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		companies:  companies,
		users:      users,
		jwtService: jwtService,
		blacklist:  blacklist,
		txScope:    txScope,
		now:        time.Now,
		logger:     common.Nop(logger),
	}
}

// Signup creates a company and its ADMIN user in one transaction and signs
// the new admin in
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*AuthResult, error) {
	company, err := identity.NewCompany(input.CompanyName)
	if err != nil {
		return nil, err
	}
	user, err := identity.NewUser(company.ID, input.Name, input.Email, input.Password, identity.UserTypeAdmin)
	if err != nil {
		return nil, err
	}

	exists, err := s.users.ExistsByEmail(ctx, user.Email)
	if err != nil {
		return nil, common.Fail(s.logger, "check email", err)
	}
	if exists {
		return nil, ErrEmailTaken
	}

	user.RecordLogin(s.now())
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.CompanyRepo().Save(ctx, company); err != nil {
			return err
		}
		return repos.UserRepo().Save(ctx, user)
	})
	if err != nil {
		return nil, common.Fail(s.logger, "create company", err)
	}

	s.logger.Info("company signed up",
		zap.String("company_id", company.ID.String()),
		zap.String("user_id", user.ID.String()))
	return s.issue(user, company.Name)
}

// Login authenticates with email and password
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	email, err := identity.NormalizeEmail(input.Email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if common.IsNotFound(err) {
			s.logger.Warn("login for unknown email", zap.String("email", email))
			return nil, ErrInvalidCredentials
		}
		return nil, common.Fail(s.logger, "load user", err)
	}
	if !user.VerifyPassword(input.Password) {
		s.logger.Warn("invalid password attempt", zap.String("user_id", user.ID.String()))
		return nil, ErrInvalidCredentials
	}

	user.RecordLogin(s.now())
	if err := s.users.Save(ctx, user); err != nil {
		s.logger.Error("failed to record login", zap.String("user_id", user.ID.String()), zap.Error(err))
	}
	return s.issue(user, s.companyName(ctx, user.TenantID))
}

// MagicLogin exchanges a client's one-time magic token for a session
func (s *AuthService) MagicLogin(ctx context.Context, input MagicLoginInput) (*AuthResult, error) {
	if input.Token == "" {
		return nil, identity.ErrMagicTokenInvalid
	}
	user, err := s.users.FindByMagicToken(ctx, input.Token)
	if err != nil {
		if common.IsNotFound(err) {
			return nil, identity.ErrMagicTokenInvalid
		}
		return nil, common.Fail(s.logger, "load user", err)
	}
	if err := user.ConsumeMagicToken(input.Token, s.now()); err != nil {
		return nil, err
	}
	if err := s.users.Save(ctx, user); err != nil {
		return nil, common.Fail(s.logger, "consume magic link", err)
	}

	s.logger.Info("magic link login", zap.String("user_id", user.ID.String()))
	return s.issue(user, s.companyName(ctx, user.TenantID))
}

// Refresh exchanges a refresh token for a new pair carrying the user's
// current profile
func (s *AuthService) Refresh(ctx context.Context, input RefreshInput) (*AuthResult, error) {
	claims, err := s.jwtService.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		return nil, tokenError(err)
	}
	if err := s.checkRevoked(ctx, claims); err != nil {
		return nil, err
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, tokenError(auth.ErrInvalidClaims)
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if common.IsNotFound(err) {
			return nil, tokenError(auth.ErrInvalidClaims)
		}
		return nil, common.Fail(s.logger, "load user", err)
	}

	pair, err := s.jwtService.RefreshTokenPair(input.RefreshToken, auth.TokenInputFor(user))
	if err != nil {
		s.logger.Warn("token refresh rejected", zap.String("user_id", user.ID.String()), zap.Error(err))
		return nil, tokenError(err)
	}
	if err := s.revoke(ctx, claims); err != nil {
		s.logger.Warn("failed to revoke used refresh token", zap.Error(err))
	}
	return newAuthResult(pair, user), nil
}

// Logout revokes the presented access token, and the refresh token when one
// is supplied, for the rest of their lifetime
func (s *AuthService) Logout(ctx context.Context, access *auth.Claims, refreshToken string) error {
	if access == nil {
		return shared.ErrUnauthorized
	}
	if err := s.revoke(ctx, access); err != nil {
		return common.Fail(s.logger, "revoke token", err)
	}
	if refreshToken != "" {
		if claims, err := s.jwtService.ValidateRefreshToken(refreshToken); err == nil && claims.UserID == access.UserID {
			if err := s.revoke(ctx, claims); err != nil {
				return common.Fail(s.logger, "revoke token", err)
			}
		}
	}
	s.logger.Info("user logged out", zap.String("user_id", access.UserID))
	return nil
}

// Me returns the signed-in user's profile
func (s *AuthService) Me(ctx context.Context, actor identity.Actor) (*UserInfo, error) {
	if err := actor.RequireTenant(); err != nil {
		return nil, err
	}
	user, err := s.users.FindByIDForTenant(ctx, actor.CompanyID, actor.UserID)
	if err != nil {
		if common.IsNotFound(err) {
			return nil, common.NotFound("User")
		}
		return nil, common.Fail(s.logger, "load user", err)
	}
	info := ToUserInfo(user)
	info.CompanyName = s.companyName(ctx, user.TenantID)
	return &info, nil
}

func (s *AuthService) issue(user *identity.User, companyName string) (*AuthResult, error) {
	pair, err := s.jwtService.GenerateTokenPair(auth.TokenInputFor(user))
	if err != nil {
		return nil, common.Fail(s.logger, "generate tokens", err)
	}
	res := newAuthResult(pair, user)
	res.User.CompanyName = companyName
	return res, nil
}

func (s *AuthService) companyName(ctx context.Context, id uuid.UUID) string {
	company, err := s.companies.FindByID(ctx, id)
	if err != nil {
		s.logger.Warn("failed to load company", zap.String("company_id", id.String()), zap.Error(err))
		return ""
	}
	return company.Name
}

func (s *AuthService) checkRevoked(ctx context.Context, claims *auth.Claims) error {
	if s.blacklist == nil || claims.ID == "" {
		return nil
	}
	revoked, err := s.blacklist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return common.Fail(s.logger, "check token", err)
	}
	if revoked {
		return tokenError(auth.ErrTokenBlacklisted)
	}
	return nil
}

func (s *AuthService) revoke(ctx context.Context, claims *auth.Claims) error {
	if s.blacklist == nil || claims.ID == "" {
		return nil
	}
	return s.blacklist.Revoke(ctx, claims.ID, claims.GetRemainingTTL())
}

// tokenError maps token validation failures to domain errors
func tokenError(err error) error {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return shared.NewDomainError("TOKEN_EXPIRED", "Token has expired")
	case errors.Is(err, auth.ErrMaxRefreshExceeded):
		return shared.NewDomainError("TOKEN_MAX_REFRESH", "Maximum token refresh count exceeded. Please log in again")
	case errors.Is(err, auth.ErrTokenBlacklisted):
		return shared.NewDomainError("TOKEN_REVOKED", "Token has been revoked")
	default:
		return shared.NewDomainError("TOKEN_INVALID", "Invalid token")
	}
}
