package persistence

import (
	"context"
	"strings"

	"github.com/bizledger/backend/internal/domain/ledger"
	"github.com/bizledger/backend/internal/infrastructure/persistence/models"
	"github.com/bizledger/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCategoryRepository implements ledger.CategoryRepository using GORM.
// A tenant sees its own categories and the shared system categories.
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

func visibleTo(tenantID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if tenantID == uuid.Nil {
			_ = db.AddError(tenant.ErrTenantIDRequired)
			return db
		}
		return db.Where("(tenant_id = ? OR is_system = ?)", tenantID, true)
	}
}

// FindVisible returns a tenant-owned or system category
func (r *GormCategoryRepository) FindVisible(ctx context.Context, tenantID, id uuid.UUID) (*ledger.Category, error) {
	var model models.CategoryModel
	if err := r.db.WithContext(ctx).
		Scopes(visibleTo(tenantID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAllVisible lists tenant and system categories; a type filter also matches BOTH
func (r *GormCategoryRepository) FindAllVisible(ctx context.Context, tenantID uuid.UUID, categoryType *ledger.CategoryType) ([]ledger.Category, error) {
	query := r.db.WithContext(ctx).Scopes(visibleTo(tenantID))
	if categoryType != nil {
		query = query.Where("type IN ?", []ledger.CategoryType{*categoryType, ledger.CategoryTypeBoth})
	}

	var categoryModels []models.CategoryModel
	if err := query.Order("is_system DESC, name ASC").Find(&categoryModels).Error; err != nil {
		return nil, err
	}

	categories := make([]ledger.Category, len(categoryModels))
	for i, model := range categoryModels {
		categories[i] = *model.ToDomain()
	}
	return categories, nil
}

// ExistsByName reports whether the tenant already owns a category with the name
func (r *GormCategoryRepository) ExistsByName(ctx context.Context, tenantID uuid.UUID, name string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.CategoryModel{}).
		Scopes(tenant.TenantScope(tenantID)).
		Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a category
func (r *GormCategoryRepository) Save(ctx context.Context, category *ledger.Category) error {
	return r.db.WithContext(ctx).Save(models.CategoryModelFromDomain(category)).Error
}

// DeleteForTenant deletes a tenant-owned category. System rows never match.
func (r *GormCategoryRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return requireAffected(r.db.WithContext(ctx).
		Scopes(tenant.TenantScope(tenantID)).
		Where("is_system = ?", false).
		Delete(&models.CategoryModel{}, "id = ?", id))
}

var _ ledger.CategoryRepository = (*GormCategoryRepository)(nil)
