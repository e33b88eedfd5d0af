package persistence

import (
	"context"
	"time"

	"github.com/bizledger/backend/internal/domain/recurrence"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/bizledger/backend/internal/infrastructure/persistence/models"
	"github.com/bizledger/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormRecurringTransactionRepository implements recurrence.Repository using GORM
type GormRecurringTransactionRepository struct {
	db *tenant.TenantDB
}

// NewGormRecurringTransactionRepository creates a new GormRecurringTransactionRepository
func NewGormRecurringTransactionRepository(db *gorm.DB) *GormRecurringTransactionRepository {
	return &GormRecurringTransactionRepository{db: tenant.NewTenantDB(db)}
}

// FindByIDForTenant finds a template by ID within a tenant
func (r *GormRecurringTransactionRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*recurrence.RecurringTransaction, error) {
	var model models.RecurringTransactionModel
	if err := r.db.ForTenant(ctx, tenantID).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists the tenant's templates by next run
func (r *GormRecurringTransactionRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]recurrence.RecurringTransaction, error) {
	var rows []models.RecurringTransactionModel
	if err := r.db.ForTenant(ctx, tenantID).
		Order("next_run ASC, name ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toRecurringTransactions(rows), nil
}

// Save creates or updates a template
func (r *GormRecurringTransactionRepository) Save(ctx context.Context, rt *recurrence.RecurringTransaction) error {
	return r.db.Unscoped(ctx).Save(models.RecurringTransactionModelFromDomain(rt)).Error
}

// SaveWithLock writes an edited template only if the stored version is
// rt.Version-1. Zero values such as is_active=false are written too.
func (r *GormRecurringTransactionRepository) SaveWithLock(ctx context.Context, rt *recurrence.RecurringTransaction) error {
	model := models.RecurringTransactionModelFromDomain(rt)
	result := r.db.ForTenant(ctx, rt.TenantID).
		Model(model).
		Where("version = ?", rt.Version-1).
		Select("*").
		Omit("id", "tenant_id", "created_at").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// DeleteForTenant deletes a template within a tenant
func (r *GormRecurringTransactionRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return requireAffected(r.db.ForTenant(ctx, tenantID).
		Delete(&models.RecurringTransactionModel{}, "id = ?", id))
}

// FindDue lists active templates of the tenant with next_run <= now
func (r *GormRecurringTransactionRepository) FindDue(ctx context.Context, tenantID uuid.UUID, now time.Time) ([]recurrence.RecurringTransaction, error) {
	var rows []models.RecurringTransactionModel
	if err := r.db.ForTenant(ctx, tenantID).
		Where("is_active = ? AND next_run <= ?", true, now).
		Order("next_run ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toRecurringTransactions(rows), nil
}

// ClaimRun moves next_run from expected to next with a compare-and-swap.
// Only one concurrent pass can match the old next_run, so only one
// materializes the occurrence.
func (r *GormRecurringTransactionRepository) ClaimRun(ctx context.Context, tenantID, id uuid.UUID, expected, next, ranAt time.Time) (bool, error) {
	result := r.db.ForTenant(ctx, tenantID).
		Model(&models.RecurringTransactionModel{}).
		Where("id = ? AND next_run = ? AND is_active = ?", id, expected, true).
		Updates(map[string]any{
			"next_run":    next,
			"last_run_at": ranAt,
			"version":     gorm.Expr("version + 1"),
			"updated_at":  ranAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// Deactivate clears is_active if next_run still equals expected
func (r *GormRecurringTransactionRepository) Deactivate(ctx context.Context, tenantID, id uuid.UUID, expected, at time.Time) (bool, error) {
	result := r.db.ForTenant(ctx, tenantID).
		Model(&models.RecurringTransactionModel{}).
		Where("id = ? AND next_run = ? AND is_active = ?", id, expected, true).
		Updates(map[string]any{
			"is_active":  false,
			"version":    gorm.Expr("version + 1"),
			"updated_at": at,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func toRecurringTransactions(rows []models.RecurringTransactionModel) []recurrence.RecurringTransaction {
	out := make([]recurrence.RecurringTransaction, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

var _ recurrence.Repository = (*GormRecurringTransactionRepository)(nil)
