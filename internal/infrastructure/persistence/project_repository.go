package persistence

import (
	"context"
	"time"

	"github.com/bizledger/backend/internal/domain/project"
	"github.com/bizledger/backend/internal/infrastructure/persistence/models"
	"github.com/bizledger/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProjectRepository implements project.ProjectRepository using GORM
type GormProjectRepository struct {
	db *gorm.DB
}

// NewGormProjectRepository creates a new GormProjectRepository
func NewGormProjectRepository(db *gorm.DB) *GormProjectRepository {
	return &GormProjectRepository{db: db}
}

// FindByIDForTenant finds a project by ID within a tenant
func (r *GormProjectRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*project.Project, error) {
	var model models.ProjectModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.TenantScope(tenantID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists projects with the total count
func (r *GormProjectRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter project.ProjectFilter) ([]project.Project, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ProjectModel{}).Scopes(tenant.TenantScope(tenantID))
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.ClientID != nil {
		query = query.Where("client_id = ?", *filter.ClientID)
	}
	if filter.Search != "" {
		query = query.Where("LOWER(name) LIKE ?", likePattern(filter.Search))
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.ProjectModel
	if err := query.
		Order(projectSort.orderBy(filter.Filter, "created_at DESC")).
		Scopes(paginate(filter.Filter)).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	projects := make([]project.Project, len(rows))
	for i := range rows {
		projects[i] = *rows[i].ToDomain()
	}
	return projects, total, nil
}

// Save creates or updates a project
func (r *GormProjectRepository) Save(ctx context.Context, p *project.Project) error {
	return r.db.WithContext(ctx).Save(models.ProjectModelFromDomain(p)).Error
}

// DeleteForTenant deletes a project with its tasks, modules, team, logs and
// documents. The project tag survives, unbound.
func (r *GormProjectRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireAffected(tx.Scopes(tenant.TenantScope(tenantID)).Delete(&models.ProjectModel{}, "id = ?", id)); err != nil {
			return err
		}
		taskIDs := tx.Session(&gorm.Session{NewDB: true}).Model(&models.TaskModel{}).Select("id").Where("project_id = ?", id)
		if err := tx.Where("task_id IN (?)", taskIDs).Delete(&models.TaskAssigneeModel{}).Error; err != nil {
			return err
		}
		for _, model := range []any{
			&models.DailyLogModel{},
			&models.TaskModel{},
			&models.ModuleModel{},
			&models.ProjectMemberModel{},
			&models.DocumentModel{},
		} {
			if err := tx.Where("project_id = ?", id).Delete(model).Error; err != nil {
				return err
			}
		}
		return tx.Model(&models.TagModel{}).
			Scopes(tenant.TenantScope(tenantID)).
			Where("project_id = ?", id).
			Updates(map[string]any{"project_id": nil, "updated_at": time.Now()}).Error
	})
}

// GormMemberRepository implements project.MemberRepository using GORM
type GormMemberRepository struct {
	db *gorm.DB
}

// NewGormMemberRepository creates a new GormMemberRepository
func NewGormMemberRepository(db *gorm.DB) *GormMemberRepository {
	return &GormMemberRepository{db: db}
}

// FindByProject lists a project team in the order members joined
func (r *GormMemberRepository) FindByProject(ctx context.Context, tenantID, projectID uuid.UUID) ([]project.Member, error) {
	var rows []models.ProjectMemberModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.TenantScope(tenantID)).
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	members := make([]project.Member, len(rows))
	for i := range rows {
		members[i] = rows[i].ToDomain()
	}
	return members, nil
}

// Exists reports whether the employee is on the project team
func (r *GormMemberRepository) Exists(ctx context.Context, tenantID, projectID, employeeID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ProjectMemberModel{}).
		Scopes(tenant.TenantScope(tenantID)).
		Where("project_id = ? AND employee_id = ?", projectID, employeeID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Add puts the employee on the team, updating the role if already there
func (r *GormMemberRepository) Add(ctx context.Context, m *project.Member) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "project_id"}, {Name: "employee_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"role"}),
		}).
		Create(models.ProjectMemberModelFromDomain(m)).Error
}

// Remove takes the employee off the project team
func (r *GormMemberRepository) Remove(ctx context.Context, tenantID, projectID, employeeID uuid.UUID) error {
	return requireAffected(r.db.WithContext(ctx).
		Scopes(tenant.TenantScope(tenantID)).
		Where("project_id = ? AND employee_id = ?", projectID, employeeID).
		Delete(&models.ProjectMemberModel{}))
}

// RemoveEmployee drops the employee from every project team of the tenant
func (r *GormMemberRepository) RemoveEmployee(ctx context.Context, tenantID, employeeID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Scopes(tenant.TenantScope(tenantID)).
		Where("employee_id = ?", employeeID).
		Delete(&models.ProjectMemberModel{}).Error
}

// GormModuleRepository implements project.ModuleRepository using GORM
type GormModuleRepository struct {
	db *gorm.DB
}

// NewGormModuleRepository creates a new GormModuleRepository
func NewGormModuleRepository(db *gorm.DB) *GormModuleRepository {
	return &GormModuleRepository{db: db}
}

// FindByIDForTenant finds a module by ID within a tenant
func (r *GormModuleRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*project.Module, error) {
	var model models.ModuleModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.TenantScope(tenantID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByProject lists a project's modules by sort order
func (r *GormModuleRepository) FindByProject(ctx context.Context, tenantID, projectID uuid.UUID) ([]project.Module, error) {
	var rows []models.ModuleModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.TenantScope(tenantID)).
		Where("project_id = ?", projectID).
		Order("sort_order ASC, created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	modules := make([]project.Module, len(rows))
	for i := range rows {
		modules[i] = *rows[i].ToDomain()
	}
	return modules, nil
}

// Save creates or updates a module
func (r *GormModuleRepository) Save(ctx context.Context, m *project.Module) error {
	return r.db.WithContext(ctx).Save(models.ModuleModelFromDomain(m)).Error
}

// DeleteForTenant removes the module and detaches its tasks
func (r *GormModuleRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireAffected(tx.Scopes(tenant.TenantScope(tenantID)).Delete(&models.ModuleModel{}, "id = ?", id)); err != nil {
			return err
		}
		return tx.Model(&models.TaskModel{}).
			Scopes(tenant.TenantScope(tenantID)).
			Where("module_id = ?", id).
			Updates(map[string]any{"module_id": nil, "updated_at": time.Now()}).Error
	})
}

var (
	_ project.ProjectRepository = (*GormProjectRepository)(nil)
	_ project.MemberRepository  = (*GormMemberRepository)(nil)
	_ project.ModuleRepository  = (*GormModuleRepository)(nil)
)
