package persistence

import (
	"context"
	"time"

	"github.com/bizledger/backend/internal/domain/report"
	"github.com/bizledger/backend/internal/domain/workforce"
	"github.com/bizledger/backend/internal/infrastructure/persistence/models"
	"github.com/bizledger/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormReportRepository implements report.Repository with aggregate queries
type GormReportRepository struct {
	db *gorm.DB
}

// NewGormReportRepository creates a new GormReportRepository
func NewGormReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

// inPeriod bounds a date column by the report period, both ends inclusive
func inPeriod(column string, period report.Period) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(column+" >= ? AND "+column+" <= ?", period.From, period.To)
	}
}

// ActiveEmployees lists the tenant's active employees by name
func (r *GormReportRepository) ActiveEmployees(ctx context.Context, tenantID uuid.UUID) ([]report.EmployeeRef, error) {
	var rows []models.EmployeeModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.TenantScope(tenantID)).
		Where("status = ?", workforce.EmployeeStatusActive).
		Order("name ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	refs := make([]report.EmployeeRef, len(rows))
	for i, row := range rows {
		refs[i] = report.EmployeeRef{
			ID:           row.ID,
			Name:         row.Name,
			Role:         row.Role,
			EmployeeType: string(row.EmployeeType),
		}
	}
	return refs, nil
}

type paymentLineRow struct {
	EmployeeID    uuid.UUID
	Amount        decimal.Decimal
	Date          time.Time
	Description   string
	CategoryName  *string
	CategoryColor *string
}

// EmployeePaymentLines lists expenditures linked to an employee in the period
func (r *GormReportRepository) EmployeePaymentLines(ctx context.Context, tenantID uuid.UUID, period report.Period) ([]report.EmployeePaymentLine, error) {
	var rows []paymentLineRow
	if err := r.db.WithContext(ctx).
		Table("expenditures").
		Select("expenditures.employee_id, expenditures.amount, expenditures.date, expenditures.description, " +
			"categories.name AS category_name, categories.color AS category_color").
		Joins("LEFT JOIN categories ON categories.id = expenditures.category_id").
		Scopes(tenant.ColumnScope("expenditures.tenant_id", tenantID), inPeriod("expenditures.date", period)).
		Where("expenditures.employee_id IS NOT NULL").
		Order("expenditures.date DESC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	lines := make([]report.EmployeePaymentLine, len(rows))
	for i, row := range rows {
		lines[i] = report.EmployeePaymentLine{
			EmployeeID:  row.EmployeeID,
			Amount:      row.Amount,
			Date:        row.Date,
			Description: row.Description,
		}
		if row.CategoryName != nil {
			lines[i].CategoryName = *row.CategoryName
		}
		if row.CategoryColor != nil {
			lines[i].CategoryColor = *row.CategoryColor
		}
	}
	return lines, nil
}

type categoryTotalRow struct {
	CategoryID *uuid.UUID
	Name       *string
	Color      *string
	Icon       *string
	Total      decimal.Decimal
	Count      int64
}

// ExpenseByCategory sums expenditures per category in the period
func (r *GormReportRepository) ExpenseByCategory(ctx context.Context, tenantID uuid.UUID, period report.Period) ([]report.CategoryTotal, error) {
	return r.byCategory(ctx, "expenditures", tenantID, period)
}

// IncomeByCategory sums incomes per category in the period
func (r *GormReportRepository) IncomeByCategory(ctx context.Context, tenantID uuid.UUID, period report.Period) ([]report.CategoryTotal, error) {
	return r.byCategory(ctx, "incomes", tenantID, period)
}

func (r *GormReportRepository) byCategory(ctx context.Context, table string, tenantID uuid.UUID, period report.Period) ([]report.CategoryTotal, error) {
	var rows []categoryTotalRow
	if err := r.db.WithContext(ctx).
		Table(table).
		Select(table + ".category_id, categories.name, categories.color, categories.icon, " +
			"SUM(" + table + ".amount) AS total, COUNT(*) AS count").
		Joins("LEFT JOIN categories ON categories.id = " + table + ".category_id").
		Scopes(tenant.ColumnScope(table+".tenant_id", tenantID), inPeriod(table+".date", period)).
		Group(table + ".category_id, categories.name, categories.color, categories.icon").
		Order("total DESC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	totals := make([]report.CategoryTotal, len(rows))
	for i, row := range rows {
		totals[i] = report.CategoryTotal{
			CategoryID: row.CategoryID,
			Total:      row.Total,
			Count:      row.Count,
		}
		if row.Name != nil {
			totals[i].Name = *row.Name
		}
		if row.Color != nil {
			totals[i].Color = *row.Color
		}
		if row.Icon != nil {
			totals[i].Icon = *row.Icon
		}
	}
	return totals, nil
}

type sumRow struct {
	Total decimal.Decimal
	Count int64
}

// Totals sums and counts entries in the period
func (r *GormReportRepository) Totals(ctx context.Context, tenantID uuid.UUID, period report.Period) (*report.Totals, error) {
	sum := func(table string) (sumRow, error) {
		var row sumRow
		err := r.db.WithContext(ctx).
			Table(table).
			Select("COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
			Scopes(tenant.TenantScope(tenantID), inPeriod("date", period)).
			Scan(&row).Error
		return row, err
	}
	expense, err := sum("expenditures")
	if err != nil {
		return nil, err
	}
	income, err := sum("incomes")
	if err != nil {
		return nil, err
	}
	return &report.Totals{
		TotalIncome:      income.Total,
		TotalExpense:     expense.Total,
		IncomeCount:      income.Count,
		ExpenditureCount: expense.Count,
	}, nil
}

var _ report.Repository = (*GormReportRepository)(nil)
