package persistence

import (
	"context"

	"github.com/bizledger/backend/internal/domain/ledger"
	"github.com/bizledger/backend/internal/infrastructure/persistence/models"
	"github.com/bizledger/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTagRepository implements ledger.TagRepository using GORM
type GormTagRepository struct {
	db *gorm.DB
}

// NewGormTagRepository creates a new GormTagRepository
func NewGormTagRepository(db *gorm.DB) *GormTagRepository {
	return &GormTagRepository{db: db}
}

// FindByIDForTenant finds a tag by ID within a tenant
func (r *GormTagRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ledger.Tag, error) {
	var model models.TagModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.TenantScope(tenantID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByIDsForTenant returns the tags among ids that belong to the tenant
func (r *GormTagRepository) FindByIDsForTenant(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]ledger.Tag, error) {
	if len(ids) == 0 {
		return []ledger.Tag{}, nil
	}
	var tagModels []models.TagModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.TenantScope(tenantID)).
		Where("id IN ?", ids).
		Find(&tagModels).Error; err != nil {
		return nil, err
	}
	return toTags(tagModels), nil
}

// FindAllForTenant lists the tenant's tags by name
func (r *GormTagRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]ledger.Tag, error) {
	var tagModels []models.TagModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.TenantScope(tenantID)).
		Order("name ASC").
		Find(&tagModels).Error; err != nil {
		return nil, err
	}
	return toTags(tagModels), nil
}

// FindByProject finds the tag bound to a project
func (r *GormTagRepository) FindByProject(ctx context.Context, tenantID, projectID uuid.UUID) (*ledger.Tag, error) {
	var model models.TagModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.TenantScope(tenantID)).
		Where("project_id = ?", projectID).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// Save creates or updates a tag
func (r *GormTagRepository) Save(ctx context.Context, tag *ledger.Tag) error {
	return r.db.WithContext(ctx).Save(models.TagModelFromDomain(tag)).Error
}

// DeleteForTenant deletes a tag and its entry links
func (r *GormTagRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	db := r.db.WithContext(ctx)
	if err := requireAffected(db.Scopes(tenant.TenantScope(tenantID)).Delete(&models.TagModel{}, "id = ?", id)); err != nil {
		return err
	}
	if err := db.Where("tag_id = ?", id).Delete(&models.ExpenditureTagModel{}).Error; err != nil {
		return err
	}
	return db.Where("tag_id = ?", id).Delete(&models.IncomeTagModel{}).Error
}

func toTags(tagModels []models.TagModel) []ledger.Tag {
	tags := make([]ledger.Tag, len(tagModels))
	for i, model := range tagModels {
		tags[i] = *model.ToDomain()
	}
	return tags
}

var _ ledger.TagRepository = (*GormTagRepository)(nil)
