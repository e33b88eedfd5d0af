package persistence

import (
	"context"
	"time"

	"github.com/bizledger/backend/internal/domain/project"
	"github.com/bizledger/backend/internal/infrastructure/persistence/models"
	"github.com/bizledger/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormDailyLogRepository implements project.DailyLogRepository using GORM
type GormDailyLogRepository struct {
	db *gorm.DB
}

// NewGormDailyLogRepository creates a new GormDailyLogRepository
func NewGormDailyLogRepository(db *gorm.DB) *GormDailyLogRepository {
	return &GormDailyLogRepository{db: db}
}

// FindByIDForTenant finds a log by ID within a tenant
func (r *GormDailyLogRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*project.DailyLog, error) {
	var model models.DailyLogModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.TenantScope(tenantID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// timelineRow is a daily log joined with display names
type timelineRow struct {
	models.DailyLogModel
	EmployeeName *string
	TaskTitle    *string
}

// Timeline returns a project's logs newest first, optionally bounded by date
func (r *GormDailyLogRepository) Timeline(ctx context.Context, tenantID, projectID uuid.UUID, from, to *time.Time) ([]project.TimelineEntry, error) {
	query := r.db.WithContext(ctx).
		Table("daily_logs").
		Select("daily_logs.*, employees.name AS employee_name, tasks.title AS task_title").
		Joins("LEFT JOIN employees ON employees.id = daily_logs.employee_id").
		Joins("LEFT JOIN tasks ON tasks.id = daily_logs.task_id").
		Scopes(tenant.ColumnScope("daily_logs.tenant_id", tenantID)).
		Where("daily_logs.project_id = ?", projectID)
	if from != nil {
		query = query.Where("daily_logs.date >= ?", *from)
	}
	if to != nil {
		query = query.Where("daily_logs.date <= ?", *to)
	}

	var rows []timelineRow
	if err := query.Order("daily_logs.date DESC, daily_logs.created_at DESC").Scan(&rows).Error; err != nil {
		return nil, err
	}

	entries := make([]project.TimelineEntry, len(rows))
	for i := range rows {
		entries[i] = project.TimelineEntry{Log: *rows[i].DailyLogModel.ToDomain()}
		if rows[i].EmployeeName != nil {
			entries[i].EmployeeName = *rows[i].EmployeeName
		}
		if rows[i].TaskTitle != nil {
			entries[i].TaskTitle = *rows[i].TaskTitle
		}
	}
	return entries, nil
}

// Save creates or updates a log
func (r *GormDailyLogRepository) Save(ctx context.Context, l *project.DailyLog) error {
	return r.db.WithContext(ctx).Save(models.DailyLogModelFromDomain(l)).Error
}

// DeleteForTenant deletes a log within a tenant
func (r *GormDailyLogRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return requireAffected(r.db.WithContext(ctx).
		Scopes(tenant.TenantScope(tenantID)).
		Delete(&models.DailyLogModel{}, "id = ?", id))
}

// GormDocumentRepository implements project.DocumentRepository using GORM
type GormDocumentRepository struct {
	db *gorm.DB
}

// NewGormDocumentRepository creates a new GormDocumentRepository
func NewGormDocumentRepository(db *gorm.DB) *GormDocumentRepository {
	return &GormDocumentRepository{db: db}
}

// FindByIDForTenant finds a document by ID within a tenant
func (r *GormDocumentRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*project.Document, error) {
	var model models.DocumentModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.TenantScope(tenantID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByProject lists a project's documents newest first
func (r *GormDocumentRepository) FindByProject(ctx context.Context, tenantID, projectID uuid.UUID) ([]project.Document, error) {
	var rows []models.DocumentModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.TenantScope(tenantID)).
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	docs := make([]project.Document, len(rows))
	for i := range rows {
		docs[i] = *rows[i].ToDomain()
	}
	return docs, nil
}

// Save creates or updates a document
func (r *GormDocumentRepository) Save(ctx context.Context, d *project.Document) error {
	return r.db.WithContext(ctx).Save(models.DocumentModelFromDomain(d)).Error
}

// DeleteForTenant deletes a document within a tenant
func (r *GormDocumentRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return requireAffected(r.db.WithContext(ctx).
		Scopes(tenant.TenantScope(tenantID)).
		Delete(&models.DocumentModel{}, "id = ?", id))
}

var (
	_ project.DailyLogRepository = (*GormDailyLogRepository)(nil)
	_ project.DocumentRepository = (*GormDocumentRepository)(nil)
)
