package persistence

import (
	"context"
	"time"

	"github.com/bizledger/backend/internal/domain/ledger"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/bizledger/backend/internal/infrastructure/persistence/models"
	"github.com/bizledger/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormAccountRepository implements ledger.AccountRepository using GORM
type GormAccountRepository struct {
	db *gorm.DB
}

// NewGormAccountRepository creates a new GormAccountRepository
func NewGormAccountRepository(db *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{db: db}
}

// FindByIDForTenant finds an account by ID within a tenant
func (r *GormAccountRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ledger.Account, error) {
	var model models.AccountModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.TenantScope(tenantID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists the tenant's accounts with the total count
func (r *GormAccountRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]ledger.Account, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.AccountModel{}).Scopes(tenant.TenantScope(tenantID))
	if filter.Search != "" {
		query = query.Where("LOWER(name) LIKE ?", likePattern(filter.Search))
	}
	if v, ok := filter.Filters["type"]; ok {
		query = query.Where("type = ?", v)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var accountModels []models.AccountModel
	if err := query.
		Order(accountSort.orderBy(filter, "name ASC")).
		Scopes(paginate(filter)).
		Find(&accountModels).Error; err != nil {
		return nil, 0, err
	}

	accounts := make([]ledger.Account, len(accountModels))
	for i, model := range accountModels {
		accounts[i] = *model.ToDomain()
	}
	return accounts, total, nil
}

// Save creates or updates an account
func (r *GormAccountRepository) Save(ctx context.Context, account *ledger.Account) error {
	return r.db.WithContext(ctx).Save(models.AccountModelFromDomain(account)).Error
}

// DeleteForTenant deletes an account within a tenant
func (r *GormAccountRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return requireAffected(r.db.WithContext(ctx).
		Scopes(tenant.TenantScope(tenantID)).
		Delete(&models.AccountModel{}, "id = ?", id))
}

// AdjustBalance applies a signed delta with one UPDATE so concurrent
// bookings never overwrite each other
func (r *GormAccountRepository) AdjustBalance(ctx context.Context, tenantID, id uuid.UUID, delta decimal.Decimal) error {
	return requireAffected(r.db.WithContext(ctx).
		Model(&models.AccountModel{}).
		Scopes(tenant.TenantScope(tenantID)).
		Where("id = ?", id).
		Updates(map[string]any{
			"balance":    gorm.Expr("balance + ?", delta),
			"updated_at": time.Now(),
		}))
}

// CountEntries counts expenditures and incomes booked against the account
func (r *GormAccountRepository) CountEntries(ctx context.Context, tenantID, id uuid.UUID) (int64, error) {
	var expenditures, incomes int64
	if err := r.db.WithContext(ctx).Model(&models.ExpenditureModel{}).
		Scopes(tenant.TenantScope(tenantID)).
		Where("account_id = ?", id).
		Count(&expenditures).Error; err != nil {
		return 0, err
	}
	if err := r.db.WithContext(ctx).Model(&models.IncomeModel{}).
		Scopes(tenant.TenantScope(tenantID)).
		Where("account_id = ?", id).
		Count(&incomes).Error; err != nil {
		return 0, err
	}
	return expenditures + incomes, nil
}

var _ ledger.AccountRepository = (*GormAccountRepository)(nil)
