package persistence

import (
	"context"
	"time"

	"github.com/bizledger/backend/internal/domain/ledger"
	"github.com/bizledger/backend/internal/infrastructure/persistence/models"
	"github.com/bizledger/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// entryTable names the row table and tag link table of one entry kind
type entryTable struct {
	rows     string
	links    string
	ownerKey string
}

var (
	expenditureTable = entryTable{rows: "expenditures", links: "expenditure_tags", ownerKey: "expenditure_id"}
	incomeTable      = entryTable{rows: "incomes", links: "income_tags", ownerKey: "income_id"}
)

// entryFilterScope applies the shared entry filters
func (t entryTable) entryFilterScope(filter ledger.EntryFilter) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if filter.From != nil {
			db = db.Where("date >= ?", *filter.From)
		}
		if filter.To != nil {
			db = db.Where("date <= ?", *filter.To)
		}
		if filter.AccountID != nil {
			db = db.Where("account_id = ?", *filter.AccountID)
		}
		if filter.CategoryID != nil {
			db = db.Where("category_id = ?", *filter.CategoryID)
		}
		if filter.TagID != nil {
			db = db.Where("id IN (?)", db.Session(&gorm.Session{NewDB: true}).
				Table(t.links).Select(t.ownerKey).Where("tag_id = ?", *filter.TagID))
		}
		if filter.Search != "" {
			db = db.Where("LOWER(description) LIKE ?", likePattern(filter.Search))
		}
		return db
	}
}

type tagLink struct {
	OwnerID uuid.UUID
	TagID   uuid.UUID
}

// loadTagIDs returns the tag ids of each owner row
func (t entryTable) loadTagIDs(db *gorm.DB, ownerIDs []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
	result := make(map[uuid.UUID][]uuid.UUID, len(ownerIDs))
	if len(ownerIDs) == 0 {
		return result, nil
	}
	var links []tagLink
	if err := db.Table(t.links).
		Select(t.ownerKey+" AS owner_id, tag_id").
		Where(t.ownerKey+" IN ?", ownerIDs).
		Scan(&links).Error; err != nil {
		return nil, err
	}
	for _, l := range links {
		result[l.OwnerID] = append(result[l.OwnerID], l.TagID)
	}
	return result, nil
}

// unlink clears a nullable reference column on every row of the tenant
func (t entryTable) unlink(db *gorm.DB, tenantID uuid.UUID, column string, id uuid.UUID) error {
	return db.Table(t.rows).
		Scopes(tenant.TenantScope(tenantID)).
		Where(column+" = ?", id).
		Updates(map[string]any{column: nil, "updated_at": time.Now()}).Error
}

// GormExpenditureRepository implements ledger.ExpenditureRepository using GORM
type GormExpenditureRepository struct {
	db *gorm.DB
}

// NewGormExpenditureRepository creates a new GormExpenditureRepository
func NewGormExpenditureRepository(db *gorm.DB) *GormExpenditureRepository {
	return &GormExpenditureRepository{db: db}
}

// FindByIDForTenant finds an expenditure and its tags within a tenant
func (r *GormExpenditureRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ledger.Expenditure, error) {
	db := r.db.WithContext(ctx)
	var model models.ExpenditureModel
	if err := db.Scopes(tenant.TenantScope(tenantID)).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	tags, err := expenditureTable.loadTagIDs(db, []uuid.UUID{model.ID})
	if err != nil {
		return nil, err
	}
	return model.ToDomain(tags[model.ID]), nil
}

// FindAllForTenant lists expenditures newest first with the total count
func (r *GormExpenditureRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter ledger.EntryFilter) ([]ledger.Expenditure, int64, error) {
	db := r.db.WithContext(ctx)
	query := db.Model(&models.ExpenditureModel{}).
		Scopes(tenant.TenantScope(tenantID), expenditureTable.entryFilterScope(filter))
	if filter.EmployeeID != nil {
		query = query.Where("employee_id = ?", *filter.EmployeeID)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.ExpenditureModel
	if err := query.
		Order(entrySort.orderBy(filter.Filter, "date DESC, created_at DESC")).
		Scopes(paginate(filter.Filter)).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	ids := make([]uuid.UUID, len(rows))
	for i := range rows {
		ids[i] = rows[i].ID
	}
	tags, err := expenditureTable.loadTagIDs(db, ids)
	if err != nil {
		return nil, 0, err
	}

	expenditures := make([]ledger.Expenditure, len(rows))
	for i := range rows {
		expenditures[i] = *rows[i].ToDomain(tags[rows[i].ID])
	}
	return expenditures, total, nil
}

// Create inserts the row and its tag links
func (r *GormExpenditureRepository) Create(ctx context.Context, e *ledger.Expenditure) error {
	db := r.db.WithContext(ctx)
	if err := db.Create(models.ExpenditureModelFromDomain(e)).Error; err != nil {
		return err
	}
	if len(e.TagIDs) == 0 {
		return nil
	}
	links := make([]models.ExpenditureTagModel, len(e.TagIDs))
	for i, tagID := range e.TagIDs {
		links[i] = models.ExpenditureTagModel{ExpenditureID: e.ID, TagID: tagID}
	}
	return db.Create(&links).Error
}

// DeleteForTenant removes the row and its tag links
func (r *GormExpenditureRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	db := r.db.WithContext(ctx)
	if err := requireAffected(db.Scopes(tenant.TenantScope(tenantID)).Delete(&models.ExpenditureModel{}, "id = ?", id)); err != nil {
		return err
	}
	return db.Where("expenditure_id = ?", id).Delete(&models.ExpenditureTagModel{}).Error
}

// UnlinkCategory clears the category of every expenditure using it
func (r *GormExpenditureRepository) UnlinkCategory(ctx context.Context, tenantID, categoryID uuid.UUID) error {
	return expenditureTable.unlink(r.db.WithContext(ctx), tenantID, "category_id", categoryID)
}

// UnlinkEmployee clears the employee of every expenditure paid to them
func (r *GormExpenditureRepository) UnlinkEmployee(ctx context.Context, tenantID, employeeID uuid.UUID) error {
	return expenditureTable.unlink(r.db.WithContext(ctx), tenantID, "employee_id", employeeID)
}

// GormIncomeRepository implements ledger.IncomeRepository using GORM
type GormIncomeRepository struct {
	db *gorm.DB
}

// NewGormIncomeRepository creates a new GormIncomeRepository
func NewGormIncomeRepository(db *gorm.DB) *GormIncomeRepository {
	return &GormIncomeRepository{db: db}
}

// FindByIDForTenant finds an income and its tags within a tenant
func (r *GormIncomeRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ledger.Income, error) {
	db := r.db.WithContext(ctx)
	var model models.IncomeModel
	if err := db.Scopes(tenant.TenantScope(tenantID)).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	tags, err := incomeTable.loadTagIDs(db, []uuid.UUID{model.ID})
	if err != nil {
		return nil, err
	}
	return model.ToDomain(tags[model.ID]), nil
}

// FindAllForTenant lists incomes newest first with the total count
func (r *GormIncomeRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter ledger.EntryFilter) ([]ledger.Income, int64, error) {
	db := r.db.WithContext(ctx)
	query := db.Model(&models.IncomeModel{}).
		Scopes(tenant.TenantScope(tenantID), incomeTable.entryFilterScope(filter))

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.IncomeModel
	if err := query.
		Order(entrySort.orderBy(filter.Filter, "date DESC, created_at DESC")).
		Scopes(paginate(filter.Filter)).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	ids := make([]uuid.UUID, len(rows))
	for i := range rows {
		ids[i] = rows[i].ID
	}
	tags, err := incomeTable.loadTagIDs(db, ids)
	if err != nil {
		return nil, 0, err
	}

	incomes := make([]ledger.Income, len(rows))
	for i := range rows {
		incomes[i] = *rows[i].ToDomain(tags[rows[i].ID])
	}
	return incomes, total, nil
}

// Create inserts the row and its tag links
func (r *GormIncomeRepository) Create(ctx context.Context, i *ledger.Income) error {
	db := r.db.WithContext(ctx)
	if err := db.Create(models.IncomeModelFromDomain(i)).Error; err != nil {
		return err
	}
	if len(i.TagIDs) == 0 {
		return nil
	}
	links := make([]models.IncomeTagModel, len(i.TagIDs))
	for n, tagID := range i.TagIDs {
		links[n] = models.IncomeTagModel{IncomeID: i.ID, TagID: tagID}
	}
	return db.Create(&links).Error
}

// DeleteForTenant removes the row and its tag links
func (r *GormIncomeRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	db := r.db.WithContext(ctx)
	if err := requireAffected(db.Scopes(tenant.TenantScope(tenantID)).Delete(&models.IncomeModel{}, "id = ?", id)); err != nil {
		return err
	}
	return db.Where("income_id = ?", id).Delete(&models.IncomeTagModel{}).Error
}

// UnlinkCategory clears the category of every income using it
func (r *GormIncomeRepository) UnlinkCategory(ctx context.Context, tenantID, categoryID uuid.UUID) error {
	return incomeTable.unlink(r.db.WithContext(ctx), tenantID, "category_id", categoryID)
}

var (
	_ ledger.ExpenditureRepository = (*GormExpenditureRepository)(nil)
	_ ledger.IncomeRepository      = (*GormIncomeRepository)(nil)
)
