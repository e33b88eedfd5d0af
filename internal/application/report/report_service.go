package report

import (
	"context"
	"sort"
	"time"

	"github.com/bizledger/backend/internal/application/common"
	"github.com/bizledger/backend/internal/domain/identity"
	"github.com/bizledger/backend/internal/domain/report"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrInvalidPeriod is returned when a report period ends before it starts
var ErrInvalidPeriod = shared.NewDomainError("INVALID_PERIOD", "Report start date must not be after the end date")

// uncategorizedName labels entries booked without a category
const uncategorizedName = "Uncategorized"

// ReportService builds ledger reports for staff
type ReportService struct {
	repo    report.Repository
	storage ReportStorage
	config  ExportConfig
	now     func() time.Time
	logger  *zap.Logger
}

// NewReportService creates a new ReportService. storage may be nil, in
// which case exports are rejected.
func NewReportService(repo report.Repository, storage ReportStorage, config ExportConfig, logger *zap.Logger) *ReportService {
	if config.DownloadURLExpiry <= 0 {
		config.DownloadURLExpiry = DefaultExportConfig().DownloadURLExpiry
	}
	return &ReportService{
		repo:    repo,
		storage: storage,
		config:  config,
		now:     time.Now,
		logger:  common.Nop(logger),
	}
}

// EmployeePayments lists each active employee with their expenditures in
// the period, newest first, plus per-employee and grand totals
func (s *ReportService) EmployeePayments(ctx context.Context, actor identity.Actor, q PeriodQuery) (*EmployeePaymentReport, error) {
	if err := actor.RequireStaff(); err != nil {
		return nil, err
	}
	period, err := s.resolve(q.From, q.To)
	if err != nil {
		return nil, err
	}
	return s.employeePayments(ctx, actor.CompanyID, period)
}

func (s *ReportService) employeePayments(ctx context.Context, tenantID uuid.UUID, period report.Period) (*EmployeePaymentReport, error) {
	employees, err := s.repo.ActiveEmployees(ctx, tenantID)
	if err != nil {
		return nil, common.Fail(s.logger, "load employees", err)
	}
	lines, err := s.repo.EmployeePaymentLines(ctx, tenantID, period)
	if err != nil {
		return nil, common.Fail(s.logger, "load employee payments", err)
	}

	byEmployee := make(map[uuid.UUID][]report.EmployeePaymentLine, len(employees))
	for _, l := range lines {
		byEmployee[l.EmployeeID] = append(byEmployee[l.EmployeeID], l)
	}

	out := &EmployeePaymentReport{
		Period:     period,
		Employees:  make([]report.EmployeePayments, 0, len(employees)),
		GrandTotal: decimal.Zero,
	}
	for _, e := range employees {
		payments := byEmployee[e.ID]
		if payments == nil {
			payments = []report.EmployeePaymentLine{}
		}
		sort.SliceStable(payments, func(i, j int) bool { return payments[i].Date.After(payments[j].Date) })
		total := decimal.Zero
		for _, p := range payments {
			total = total.Add(p.Amount)
		}
		out.Employees = append(out.Employees, report.EmployeePayments{
			Employee:     e,
			Payments:     payments,
			TotalPaid:    total,
			PaymentCount: len(payments),
		})
		out.GrandTotal = out.GrandTotal.Add(total)
	}
	return out, nil
}

// CategoryBreakdown totals expenses and incomes per category with each
// category's share of its side
func (s *ReportService) CategoryBreakdown(ctx context.Context, actor identity.Actor, q PeriodQuery) (*CategoryBreakdownReport, error) {
	if err := actor.RequireStaff(); err != nil {
		return nil, err
	}
	period, err := s.resolve(q.From, q.To)
	if err != nil {
		return nil, err
	}
	return s.categoryBreakdown(ctx, actor.CompanyID, period)
}

func (s *ReportService) categoryBreakdown(ctx context.Context, tenantID uuid.UUID, period report.Period) (*CategoryBreakdownReport, error) {
	expenses, err := s.repo.ExpenseByCategory(ctx, tenantID, period)
	if err != nil {
		return nil, common.Fail(s.logger, "load expense breakdown", err)
	}
	incomes, err := s.repo.IncomeByCategory(ctx, tenantID, period)
	if err != nil {
		return nil, common.Fail(s.logger, "load income breakdown", err)
	}
	expenses = normalizeTotals(expenses)
	incomes = normalizeTotals(incomes)
	return &CategoryBreakdownReport{
		Period:       period,
		Expenses:     expenses,
		Incomes:      incomes,
		TotalExpense: report.ApplyShares(expenses),
		TotalIncome:  report.ApplyShares(incomes),
	}, nil
}

// Summary returns income, expense, net and counts for the period
func (s *ReportService) Summary(ctx context.Context, actor identity.Actor, q PeriodQuery) (*SummaryReport, error) {
	if err := actor.RequireStaff(); err != nil {
		return nil, err
	}
	period, err := s.resolve(q.From, q.To)
	if err != nil {
		return nil, err
	}
	return s.summary(ctx, actor.CompanyID, period)
}

func (s *ReportService) summary(ctx context.Context, tenantID uuid.UUID, period report.Period) (*SummaryReport, error) {
	totals, err := s.repo.Totals(ctx, tenantID, period)
	if err != nil {
		return nil, common.Fail(s.logger, "load totals", err)
	}
	return &SummaryReport{
		Period:           period,
		TotalIncome:      totals.TotalIncome,
		TotalExpense:     totals.TotalExpense,
		Net:              totals.Net(),
		IncomeCount:      totals.IncomeCount,
		ExpenditureCount: totals.ExpenditureCount,
	}, nil
}

// resolve fills missing period ends with the current month and makes the
// end inclusive of its whole day
func (s *ReportService) resolve(from, to *time.Time) (report.Period, error) {
	now := s.now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	if from != nil {
		y, m, d := from.Date()
		start = time.Date(y, m, d, 0, 0, 0, 0, from.Location())
	}
	if to != nil {
		y, m, d := to.Date()
		end = time.Date(y, m, d, 0, 0, 0, 0, to.Location()).AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	if start.After(end) {
		return report.Period{}, ErrInvalidPeriod
	}
	return report.Period{From: start, To: end}, nil
}

// normalizeTotals names the uncategorized bucket and orders by total,
// largest first
func normalizeTotals(totals []report.CategoryTotal) []report.CategoryTotal {
	if totals == nil {
		return []report.CategoryTotal{}
	}
	for i := range totals {
		if totals[i].CategoryID == nil && totals[i].Name == "" {
			totals[i].Name = uncategorizedName
		}
	}
	sort.SliceStable(totals, func(i, j int) bool { return totals[i].Total.GreaterThan(totals[j].Total) })
	return totals
}
