package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/bizledger/backend/internal/domain/project"
	"github.com/bizledger/backend/internal/infrastructure/persistence/models"
	"github.com/bizledger/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// openTaskStatuses are the statuses that still get due-date reminders
var openTaskStatuses = []project.TaskStatus{project.TaskStatusTodo, project.TaskStatusInProgress}

// GormTaskRepository implements project.TaskRepository using GORM.
// The assignee set lives in task_assignees; tasks.assignee_id is the
// legacy single assignee kept consistent with it.
type GormTaskRepository struct {
	db *gorm.DB
}

// NewGormTaskRepository creates a new GormTaskRepository
func NewGormTaskRepository(db *gorm.DB) *GormTaskRepository {
	return &GormTaskRepository{db: db}
}

// FindByIDForTenant finds a task and its assignees within a tenant
func (r *GormTaskRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*project.Task, error) {
	db := r.db.WithContext(ctx)
	var model models.TaskModel
	if err := db.Scopes(tenant.TenantScope(tenantID)).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	assignees, err := loadAssignees(db, []uuid.UUID{model.ID})
	if err != nil {
		return nil, err
	}
	return model.ToDomain(assignees[model.ID]), nil
}

// FindAllForTenant lists tasks with the total count
func (r *GormTaskRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter project.TaskFilter) ([]project.Task, int64, error) {
	db := r.db.WithContext(ctx)
	query := db.Model(&models.TaskModel{}).Scopes(tenant.TenantScope(tenantID))
	if filter.ProjectID != nil {
		query = query.Where("project_id = ?", *filter.ProjectID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.AssigneeID != nil {
		assigned := db.Session(&gorm.Session{NewDB: true}).
			Model(&models.TaskAssigneeModel{}).Select("task_id").Where("employee_id = ?", *filter.AssigneeID)
		query = query.Where("(assignee_id = ? OR id IN (?))", *filter.AssigneeID, assigned)
	}
	if filter.ClientVisible != nil {
		query = query.Where("is_client_visible = ?", *filter.ClientVisible)
	}
	if filter.Search != "" {
		query = query.Where("LOWER(title) LIKE ?", likePattern(filter.Search))
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.TaskModel
	if err := query.
		Order(taskSort.orderBy(filter.Filter, "created_at DESC")).
		Scopes(paginate(filter.Filter)).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	tasks, err := withAssignees(db, rows)
	if err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

// Create inserts the task and its assignee rows
func (r *GormTaskRepository) Create(ctx context.Context, t *project.Task) error {
	db := r.db.WithContext(ctx)
	if err := db.Create(models.TaskModelFromDomain(t)).Error; err != nil {
		return err
	}
	if len(t.AssigneeIDs) == 0 {
		return nil
	}
	rows := make([]models.TaskAssigneeModel, len(t.AssigneeIDs))
	for i, employeeID := range t.AssigneeIDs {
		rows[i] = models.TaskAssigneeModel{
			TaskID:     t.ID,
			EmployeeID: employeeID,
			TenantID:   t.TenantID,
			CreatedAt:  t.CreatedAt.Add(time.Duration(i) * time.Microsecond),
		}
	}
	return db.Create(&rows).Error
}

// Update writes scalar fields, including the legacy assignee
func (r *GormTaskRepository) Update(ctx context.Context, t *project.Task) error {
	model := models.TaskModelFromDomain(t)
	return requireAffected(r.db.WithContext(ctx).
		Model(model).
		Scopes(tenant.TenantScope(t.TenantID)).
		Select("*").
		Omit("id", "tenant_id", "project_id", "created_at").
		Updates(model))
}

// AddAssignee inserts the join row; adding an existing assignee is a no-op
func (r *GormTaskRepository) AddAssignee(ctx context.Context, tenantID, taskID, employeeID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.TaskAssigneeModel{
			TaskID:     taskID,
			EmployeeID: employeeID,
			TenantID:   tenantID,
			CreatedAt:  time.Now(),
		}).Error
}

// RemoveAssignee deletes the join row
func (r *GormTaskRepository) RemoveAssignee(ctx context.Context, tenantID, taskID, employeeID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Scopes(tenant.TenantScope(tenantID)).
		Where("task_id = ? AND employee_id = ?", taskID, employeeID).
		Delete(&models.TaskAssigneeModel{}).Error
}

// DeleteForTenant deletes a task and its assignee rows. Daily logs stay on
// the timeline, detached from the task.
func (r *GormTaskRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireAffected(tx.Scopes(tenant.TenantScope(tenantID)).Delete(&models.TaskModel{}, "id = ?", id)); err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", id).Delete(&models.TaskAssigneeModel{}).Error; err != nil {
			return err
		}
		return tx.Model(&models.DailyLogModel{}).
			Scopes(tenant.TenantScope(tenantID)).
			Where("task_id = ?", id).
			Updates(map[string]any{"task_id": nil, "updated_at": time.Now()}).Error
	})
}

// RemoveEmployee drops the employee from every task of the tenant. Tasks
// whose legacy assignee was the employee move to the earliest remaining
// assignee, or to none.
func (r *GormTaskRepository) RemoveEmployee(ctx context.Context, tenantID, employeeID uuid.UUID) error {
	db := r.db.WithContext(ctx)
	if err := db.Scopes(tenant.TenantScope(tenantID)).
		Where("employee_id = ?", employeeID).
		Delete(&models.TaskAssigneeModel{}).Error; err != nil {
		return err
	}

	var taskIDs []uuid.UUID
	if err := db.Model(&models.TaskModel{}).
		Scopes(tenant.TenantScope(tenantID)).
		Where("assignee_id = ?", employeeID).
		Pluck("id", &taskIDs).Error; err != nil {
		return err
	}
	for _, taskID := range taskIDs {
		var next models.TaskAssigneeModel
		var replacement *uuid.UUID
		err := db.Where("task_id = ?", taskID).Order("created_at ASC").Take(&next).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err == nil {
			replacement = &next.EmployeeID
		}
		if err := db.Model(&models.TaskModel{}).
			Where("id = ?", taskID).
			Updates(map[string]any{"assignee_id": replacement, "updated_at": time.Now()}).Error; err != nil {
			return err
		}
	}
	return nil
}

// reminderRow is a task joined with its project name
type reminderRow struct {
	models.TaskModel
	ProjectName string
}

// FindNeedingReminders returns open tasks, across all tenants, due before the horizon
func (r *GormTaskRepository) FindNeedingReminders(ctx context.Context, horizon time.Time) ([]project.ReminderCandidate, error) {
	db := r.db.WithContext(ctx)
	var rows []reminderRow
	if err := db.Table("tasks").
		Select("tasks.*, projects.name AS project_name").
		Joins("JOIN projects ON projects.id = tasks.project_id").
		Where("tasks.status IN ? AND tasks.due_date IS NOT NULL AND tasks.due_date <= ?", openTaskStatuses, horizon).
		Order("tasks.due_date ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(rows))
	for i := range rows {
		ids[i] = rows[i].ID
	}
	assignees, err := loadAssignees(db, ids)
	if err != nil {
		return nil, err
	}

	out := make([]project.ReminderCandidate, len(rows))
	for i := range rows {
		out[i] = project.ReminderCandidate{
			Task:        *rows[i].TaskModel.ToDomain(assignees[rows[i].ID]),
			ProjectName: rows[i].ProjectName,
		}
	}
	return out, nil
}

// loadAssignees returns the assignee ids of each task in the order they were added
func loadAssignees(db *gorm.DB, taskIDs []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
	result := make(map[uuid.UUID][]uuid.UUID, len(taskIDs))
	if len(taskIDs) == 0 {
		return result, nil
	}
	var rows []models.TaskAssigneeModel
	if err := db.Where("task_id IN ?", taskIDs).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.TaskID] = append(result[row.TaskID], row.EmployeeID)
	}
	return result, nil
}

func withAssignees(db *gorm.DB, rows []models.TaskModel) ([]project.Task, error) {
	ids := make([]uuid.UUID, len(rows))
	for i := range rows {
		ids[i] = rows[i].ID
	}
	assignees, err := loadAssignees(db, ids)
	if err != nil {
		return nil, err
	}
	tasks := make([]project.Task, len(rows))
	for i := range rows {
		tasks[i] = *rows[i].ToDomain(assignees[rows[i].ID])
	}
	return tasks, nil
}

var _ project.TaskRepository = (*GormTaskRepository)(nil)
