package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Period bounds a report, both ends inclusive
type Period struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Contains reports whether t falls inside the period
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.From) && !t.After(p.To)
}

// EmployeePaymentLine is one expenditure paid to an employee
type EmployeePaymentLine struct {
	EmployeeID    uuid.UUID       `json:"employee_id"`
	Amount        decimal.Decimal `json:"amount"`
	Date          time.Time       `json:"date"`
	Description   string          `json:"description"`
	CategoryName  string          `json:"category_name,omitempty"`
	CategoryColor string          `json:"category_color,omitempty"`
}

// EmployeeRef identifies an active employee included in the payment report
type EmployeeRef struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Role         string    `json:"role,omitempty"`
	EmployeeType string    `json:"employee_type"`
}

// EmployeePayments is a read model of payments per employee
type EmployeePayments struct {
	Employee     EmployeeRef           `json:"employee"`
	Payments     []EmployeePaymentLine `json:"payments"`
	TotalPaid    decimal.Decimal       `json:"total_paid"`
	PaymentCount int                   `json:"payment_count"`
}

// CategoryTotal is the sum of entries booked under one category.
// CategoryID is nil for the uncategorized bucket.
type CategoryTotal struct {
	CategoryID *uuid.UUID      `json:"category_id,omitempty"`
	Name       string          `json:"name"`
	Color      string          `json:"color,omitempty"`
	Icon       string          `json:"icon,omitempty"`
	Total      decimal.Decimal `json:"total"`
	Count      int64           `json:"count"`
	Percentage decimal.Decimal `json:"percentage"`
}

// Totals are the period aggregates of the ledger
type Totals struct {
	TotalIncome      decimal.Decimal `json:"total_income"`
	TotalExpense     decimal.Decimal `json:"total_expense"`
	IncomeCount      int64           `json:"income_count"`
	ExpenditureCount int64           `json:"expenditure_count"`
}

// Net returns income minus expense
func (t Totals) Net() decimal.Decimal {
	return t.TotalIncome.Sub(t.TotalExpense)
}

// Repository runs the aggregate queries behind ledger reports
type Repository interface {
	// ActiveEmployees lists the tenant's active employees by name
	ActiveEmployees(ctx context.Context, tenantID uuid.UUID) ([]EmployeeRef, error)
	// EmployeePaymentLines lists expenditures linked to an employee in the period
	EmployeePaymentLines(ctx context.Context, tenantID uuid.UUID, period Period) ([]EmployeePaymentLine, error)
	// ExpenseByCategory sums expenditures per category in the period
	ExpenseByCategory(ctx context.Context, tenantID uuid.UUID, period Period) ([]CategoryTotal, error)
	// IncomeByCategory sums incomes per category in the period
	IncomeByCategory(ctx context.Context, tenantID uuid.UUID, period Period) ([]CategoryTotal, error)
	// Totals sums and counts entries in the period
	Totals(ctx context.Context, tenantID uuid.UUID, period Period) (*Totals, error)
}

// ApplyShares fills Percentage on each total relative to their sum,
// rounded to two places
func ApplyShares(totals []CategoryTotal) decimal.Decimal {
	sum := decimal.Zero
	for _, t := range totals {
		sum = sum.Add(t.Total)
	}
	hundred := decimal.NewFromInt(100)
	for i := range totals {
		if sum.IsZero() {
			totals[i].Percentage = decimal.Zero
			continue
		}
		totals[i].Percentage = totals[i].Total.Div(sum).Mul(hundred).Round(2)
	}
	return sum
}
