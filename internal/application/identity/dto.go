package identity

import (
	"time"

	"github.com/bizledger/backend/internal/domain/identity"
	"github.com/bizledger/backend/internal/infrastructure/auth"
	"github.com/google/uuid"
)

// SignupInput creates a company together with its first administrator
type SignupInput struct {
	CompanyName string `json:"company_name" binding:"required,min=2,max=200"`
	Name        string `json:"name" binding:"required,min=2,max=100"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6,max=128"`
}

// LoginInput contains the credentials for a password login
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshInput carries the refresh token to exchange
type RefreshInput struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// MagicLoginInput carries a magic link token
type MagicLoginInput struct {
	Token string `json:"token" binding:"required"`
}

// UserInfo is the public view of a user
type UserInfo struct {
	ID          uuid.UUID  `json:"id"`
	CompanyID   uuid.UUID  `json:"company_id"`
	CompanyName string     `json:"company_name,omitempty"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	UserType    string     `json:"user_type"`
	EmployeeID  *uuid.UUID `json:"employee_id,omitempty"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// AuthResult is returned by every successful sign-in path
type AuthResult struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
	User                  UserInfo  `json:"user"`
}

// CreateClientInput creates a client login and its first project
type CreateClientInput struct {
	Name               string     `json:"name" binding:"required,min=2,max=100"`
	Email              string     `json:"email" binding:"required,email"`
	Password           string     `json:"password" binding:"omitempty,min=6,max=128"`
	ProjectName        string     `json:"project_name" binding:"required,min=2,max=200"`
	ProjectDescription string     `json:"project_description" binding:"max=2000"`
	StartDate          *time.Time `json:"start_date"`
	EndDate            *time.Time `json:"end_date"`
}

// ClientResponse is the admin view of a client login
type ClientResponse struct {
	ID              uuid.UUID  `json:"id"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	LastLoginAt     *time.Time `json:"last_login_at,omitempty"`
	MagicLinkExpiry *time.Time `json:"magic_link_expiry,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// CreateClientResult is returned after creating a client with a project
type CreateClientResult struct {
	Client    ClientResponse `json:"client"`
	ProjectID uuid.UUID      `json:"project_id"`
	TagID     uuid.UUID      `json:"tag_id"`
	MagicLink string         `json:"magic_link"`
	EmailSent bool           `json:"email_sent"`
}

// MagicLinkResult is returned when a new magic link is issued
type MagicLinkResult struct {
	MagicLink string    `json:"magic_link"`
	ExpiresAt time.Time `json:"expires_at"`
	EmailSent bool      `json:"email_sent"`
}

// ToUserInfo converts a domain user
func ToUserInfo(u *identity.User) UserInfo {
	return UserInfo{
		ID:          u.ID,
		CompanyID:   u.TenantID,
		Name:        u.Name,
		Email:       u.Email,
		UserType:    u.UserType.String(),
		EmployeeID:  u.EmployeeID,
		LastLoginAt: u.LastLoginAt,
	}
}

// ToClientResponse converts a client user
func ToClientResponse(u *identity.User) ClientResponse {
	return ClientResponse{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		LastLoginAt:     u.LastLoginAt,
		MagicLinkExpiry: u.MagicTokenExpiry,
		CreatedAt:       u.CreatedAt,
	}
}

func newAuthResult(pair *auth.TokenPair, user *identity.User) *AuthResult {
	return &AuthResult{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
		User:                  ToUserInfo(user),
	}
}
