package persistence

import (
	"context"
	"strings"

	"github.com/bizledger/backend/internal/domain/workforce"
	"github.com/bizledger/backend/internal/infrastructure/persistence/models"
	"github.com/bizledger/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormEmployeeRepository implements workforce.EmployeeRepository using GORM
type GormEmployeeRepository struct {
	db *gorm.DB
}

// NewGormEmployeeRepository creates a new GormEmployeeRepository
func NewGormEmployeeRepository(db *gorm.DB) *GormEmployeeRepository {
	return &GormEmployeeRepository{db: db}
}

// FindByIDForTenant finds an employee by ID within a tenant
func (r *GormEmployeeRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*workforce.Employee, error) {
	var model models.EmployeeModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.TenantScope(tenantID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByIDsForTenant returns the employees among ids that belong to the tenant
func (r *GormEmployeeRepository) FindByIDsForTenant(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]workforce.Employee, error) {
	if len(ids) == 0 {
		return []workforce.Employee{}, nil
	}
	var rows []models.EmployeeModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.TenantScope(tenantID)).
		Where("id IN ?", ids).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toEmployees(rows), nil
}

// FindAllForTenant lists employees with the total count
func (r *GormEmployeeRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter workforce.EmployeeFilter) ([]workforce.Employee, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.EmployeeModel{}).Scopes(tenant.TenantScope(tenantID))
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.EmployeeType != nil {
		query = query.Where("employee_type = ?", *filter.EmployeeType)
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(role) LIKE ?", pattern, pattern, pattern)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.EmployeeModel
	if err := query.
		Order(employeeSort.orderBy(filter.Filter, "name ASC")).
		Scopes(paginate(filter.Filter)).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return toEmployees(rows), total, nil
}

// FindByEmailForTenant looks up an employee by normalized email within the tenant
func (r *GormEmployeeRepository) FindByEmailForTenant(ctx context.Context, tenantID uuid.UUID, email string) (*workforce.Employee, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, translateError(gorm.ErrRecordNotFound)
	}
	var model models.EmployeeModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.TenantScope(tenantID)).
		Where("LOWER(email) = ?", email).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindFirstForTenant returns the oldest employee of the tenant
func (r *GormEmployeeRepository) FindFirstForTenant(ctx context.Context, tenantID uuid.UUID) (*workforce.Employee, error) {
	var model models.EmployeeModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.TenantScope(tenantID)).
		Order("created_at ASC, id ASC").
		Take(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// Save creates or updates an employee
func (r *GormEmployeeRepository) Save(ctx context.Context, employee *workforce.Employee) error {
	return r.db.WithContext(ctx).Save(models.EmployeeModelFromDomain(employee)).Error
}

// DeleteForTenant deletes an employee within a tenant
func (r *GormEmployeeRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return requireAffected(r.db.WithContext(ctx).
		Scopes(tenant.TenantScope(tenantID)).
		Delete(&models.EmployeeModel{}, "id = ?", id))
}

func toEmployees(rows []models.EmployeeModel) []workforce.Employee {
	out := make([]workforce.Employee, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

var _ workforce.EmployeeRepository = (*GormEmployeeRepository)(nil)
