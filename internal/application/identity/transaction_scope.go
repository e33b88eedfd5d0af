package identity

import (
	"context"

	"github.com/bizledger/backend/internal/domain/identity"
	"github.com/bizledger/backend/internal/domain/ledger"
	"github.com/bizledger/backend/internal/domain/project"
)

// TransactionScope runs identity writes atomically
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes the repositories bound to one transaction.
// Signup writes a company and its admin; client creation writes the user,
// the project and the project tag.
type TransactionalRepositories interface {
	CompanyRepo() identity.CompanyRepository
	UserRepo() identity.UserRepository
	ProjectRepo() project.ProjectRepository
	TagRepo() ledger.TagRepository
}

// NoOpTransactionScope runs fn against plain repositories
type NoOpTransactionScope struct {
	companyRepo identity.CompanyRepository
	userRepo    identity.UserRepository
	projectRepo project.ProjectRepository
	tagRepo     ledger.TagRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope
func NewNoOpTransactionScope(
	companyRepo identity.CompanyRepository,
	userRepo identity.UserRepository,
	projectRepo project.ProjectRepository,
	tagRepo ledger.TagRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		companyRepo: companyRepo,
		userRepo:    userRepo,
		projectRepo: projectRepo,
		tagRepo:     tagRepo,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) CompanyRepo() identity.CompanyRepository { return s.companyRepo }
func (s *NoOpTransactionScope) UserRepo() identity.UserRepository       { return s.userRepo }
func (s *NoOpTransactionScope) ProjectRepo() project.ProjectRepository  { return s.projectRepo }
func (s *NoOpTransactionScope) TagRepo() ledger.TagRepository           { return s.tagRepo }

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
