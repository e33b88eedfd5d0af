package persistence

import (
	"context"
	"strings"

	"github.com/bizledger/backend/internal/domain/identity"
	"github.com/bizledger/backend/internal/infrastructure/persistence/models"
	"github.com/bizledger/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// userTenantColumn is the tenant column of the users table
const userTenantColumn = "company_id"

// GormUserRepository implements identity.UserRepository using GORM.
// Login lookups are global because an email identifies one user across
// all companies; everything else is scoped by company.
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// Save creates or updates a user
func (r *GormUserRepository) Save(ctx context.Context, user *identity.User) error {
	return r.db.WithContext(ctx).Save(models.UserModelFromDomain(user)).Error
}

// FindByID finds a user by its ID
func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	return r.findOne(r.db.WithContext(ctx).Where("id = ?", id))
}

// FindByEmail finds a user by normalized email
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	return r.findOne(r.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)))
}

// FindByMagicToken finds the client holding a magic-login token
func (r *GormUserRepository) FindByMagicToken(ctx context.Context, token string) (*identity.User, error) {
	if token == "" {
		return nil, translateError(gorm.ErrRecordNotFound)
	}
	return r.findOne(r.db.WithContext(ctx).Where("magic_token = ?", token))
}

// ExistsByEmail checks whether any user holds the email
func (r *GormUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.UserModel{}).
		Where("email = ?", normalizeEmail(email)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindByIDForTenant finds a user by ID within a company
func (r *GormUserRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*identity.User, error) {
	return r.findOne(r.db.WithContext(ctx).
		Scopes(tenant.ColumnScope(userTenantColumn, tenantID)).
		Where("id = ?", id))
}

// FindByTypeForTenant lists the company's users of one type by name
func (r *GormUserRepository) FindByTypeForTenant(ctx context.Context, tenantID uuid.UUID, userType identity.UserType) ([]identity.User, error) {
	var rows []models.UserModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.ColumnScope(userTenantColumn, tenantID)).
		Where("user_type = ?", userType).
		Order("name ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	users := make([]identity.User, len(rows))
	for i := range rows {
		users[i] = *rows[i].ToDomain()
	}
	return users, nil
}

func (r *GormUserRepository) findOne(query *gorm.DB) (*identity.User, error) {
	var model models.UserModel
	if err := query.First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

var _ identity.UserRepository = (*GormUserRepository)(nil)
