package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserType distinguishes company administrators, staff and client logins
type UserType string

const (
	UserTypeAdmin    UserType = "ADMIN"
	UserTypeEmployee UserType = "EMPLOYEE"
	UserTypeClient   UserType = "CLIENT"
)

// IsValid checks if the user type is known
func (t UserType) IsValid() bool {
	switch t {
	case UserTypeAdmin, UserTypeEmployee, UserTypeClient:
		return true
	}
	return false
}

// String returns the string representation of UserType
func (t UserType) String() string {
	return string(t)
}

const (
	bcryptCost        = 12
	minPasswordLength = 6
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ErrMagicTokenInvalid is returned for unknown or expired magic login tokens
var ErrMagicTokenInvalid = shared.NewDomainError("INVALID_MAGIC_TOKEN", "Magic link is invalid or has expired")

// User is a login identity belonging to one company
type User struct {
	shared.TenantAggregateRoot
	Name             string
	Email            string
	PasswordHash     string
	UserType         UserType
	EmployeeID       *uuid.UUID
	MagicToken       string
	MagicTokenExpiry *time.Time
	LastLoginAt      *time.Time
}

// NewUser creates a user with a hashed password. An empty password is only
// allowed for client users, who log in with magic links.
func NewUser(companyID uuid.UUID, name, email, password string, userType UserType) (*User, error) {
	if companyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_COMPANY", "Company ID cannot be empty")
	}
	name = strings.TrimSpace(name)
	if len(name) < 2 {
		return nil, shared.NewDomainError("INVALID_NAME", "Name must be at least 2 characters")
	}
	email, err := NormalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if !userType.IsValid() {
		return nil, shared.NewDomainError("INVALID_USER_TYPE", "User type is not valid")
	}

	user := &User{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(companyID),
		Name:                name,
		Email:               email,
		UserType:            userType,
	}

	if password != "" || userType != UserTypeClient {
		if err := user.SetPassword(password); err != nil {
			return nil, err
		}
	}
	return user, nil
}

// NormalizeEmail lowercases and validates an email address
func NormalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailRegex.MatchString(email) {
		return "", shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return email, nil
}

// SetPassword validates and hashes a new password
func (u *User) SetPassword(password string) error {
	if len(password) < minPasswordLength {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 6 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	u.PasswordHash = string(hash)
	u.Touch()
	return nil
}

// VerifyPassword verifies if the provided password matches
func (u *User) VerifyPassword(password string) bool {
	if u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// LinkEmployee binds the login to an employee record used for log attribution
func (u *User) LinkEmployee(employeeID uuid.UUID) {
	u.EmployeeID = &employeeID
	u.Touch()
}

// IsAdmin returns true for company administrators
func (u *User) IsAdmin() bool {
	return u.UserType == UserTypeAdmin
}

// IssueMagicToken stores a one-time login token valid for ttl
func (u *User) IssueMagicToken(token string, ttl time.Duration, now time.Time) {
	expiry := now.Add(ttl)
	u.MagicToken = token
	u.MagicTokenExpiry = &expiry
	u.Touch()
}

// ConsumeMagicToken checks the token and clears it so it cannot be reused
func (u *User) ConsumeMagicToken(token string, now time.Time) error {
	if u.MagicToken == "" || u.MagicToken != token {
		return ErrMagicTokenInvalid
	}
	if u.MagicTokenExpiry == nil || now.After(*u.MagicTokenExpiry) {
		return ErrMagicTokenInvalid
	}
	u.MagicToken = ""
	u.MagicTokenExpiry = nil
	u.RecordLogin(now)
	return nil
}

// RecordLogin stamps the last login time
func (u *User) RecordLogin(now time.Time) {
	u.LastLoginAt = &now
	u.UpdatedAt = now
}
