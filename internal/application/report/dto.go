package report

import (
	"time"

	"github.com/bizledger/backend/internal/domain/report"
	"github.com/shopspring/decimal"
)

// ReportKind names an exportable report
type ReportKind string

const (
	KindEmployeePayments  ReportKind = "employee_payments"
	KindCategoryBreakdown ReportKind = "category_breakdown"
	KindSummary           ReportKind = "summary"
)

// PeriodQuery bounds a report. Missing ends default to the current month.
type PeriodQuery struct {
	From *time.Time `form:"from" time_format:"2006-01-02"`
	To   *time.Time `form:"to" time_format:"2006-01-02"`
}

// ExportRequest asks for a CSV export of one report
type ExportRequest struct {
	Report ReportKind `json:"report" binding:"required,oneof=employee_payments category_breakdown summary"`
	From   *time.Time `json:"from"`
	To     *time.Time `json:"to"`
}

// EmployeePaymentReport lists payments per active employee
type EmployeePaymentReport struct {
	Period     report.Period             `json:"period"`
	Employees  []report.EmployeePayments `json:"employees"`
	GrandTotal decimal.Decimal           `json:"grand_total"`
}

// CategoryBreakdownReport splits expenses and incomes by category
type CategoryBreakdownReport struct {
	Period       report.Period          `json:"period"`
	Expenses     []report.CategoryTotal `json:"expenses"`
	Incomes      []report.CategoryTotal `json:"incomes"`
	TotalExpense decimal.Decimal        `json:"total_expense"`
	TotalIncome  decimal.Decimal        `json:"total_income"`
}

// SummaryReport holds the period totals
type SummaryReport struct {
	Period           report.Period   `json:"period"`
	TotalIncome      decimal.Decimal `json:"total_income"`
	TotalExpense     decimal.Decimal `json:"total_expense"`
	Net              decimal.Decimal `json:"net"`
	IncomeCount      int64           `json:"income_count"`
	ExpenditureCount int64           `json:"expenditure_count"`
}

// ExportResult points at an exported CSV
type ExportResult struct {
	Report    ReportKind `json:"report"`
	Key       string     `json:"key"`
	URL       string     `json:"url"`
	ExpiresAt time.Time  `json:"expires_at"`
	Rows      int        `json:"rows"`
}
