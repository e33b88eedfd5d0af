package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/bizledger/backend/internal/application/common"
	"github.com/bizledger/backend/internal/domain/identity"
	"github.com/bizledger/backend/internal/domain/report"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrExportUnavailable is returned when no object storage is configured
	ErrExportUnavailable = shared.NewDomainError("EXPORT_UNAVAILABLE", "Report export requires object storage")
	// ErrExportFailed hides storage failures from callers
	ErrExportFailed = shared.NewDomainError("EXPORT_FAILED", "Failed to export report")
)

const csvContentType = "text/csv; charset=utf-8"

// ReportStorage is the bucket that receives exported reports
type ReportStorage interface {
	PutObject(ctx context.Context, storageKey, contentType string, body []byte) error
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)
}

// ExportConfig holds export settings
type ExportConfig struct {
	DownloadURLExpiry time.Duration
}

// DefaultExportConfig returns the default export settings
func DefaultExportConfig() ExportConfig {
	return ExportConfig{DownloadURLExpiry: time.Hour}
}

// Export renders one report as CSV, uploads it and returns a presigned
// download URL
func (s *ReportService) Export(ctx context.Context, actor identity.Actor, req ExportRequest) (*ExportResult, error) {
	if err := actor.RequireStaff(); err != nil {
		return nil, err
	}
	if s.storage == nil {
		return nil, ErrExportUnavailable
	}
	period, err := s.resolve(req.From, req.To)
	if err != nil {
		return nil, err
	}

	var rows [][]string
	switch req.Report {
	case KindEmployeePayments:
		r, err := s.employeePayments(ctx, actor.CompanyID, period)
		if err != nil {
			return nil, err
		}
		rows = employeePaymentRows(r)
	case KindCategoryBreakdown:
		r, err := s.categoryBreakdown(ctx, actor.CompanyID, period)
		if err != nil {
			return nil, err
		}
		rows = categoryRows(r)
	case KindSummary:
		r, err := s.summary(ctx, actor.CompanyID, period)
		if err != nil {
			return nil, err
		}
		rows = summaryRows(r)
	default:
		return nil, shared.NewDomainError("INVALID_REPORT", "Unknown report")
	}

	body, err := encodeCSV(rows)
	if err != nil {
		return nil, common.Fail(s.logger, "encode report", err)
	}
	key := ExportKey(actor.CompanyID, req.Report, period, uuid.New())
	if err := s.storage.PutObject(ctx, key, csvContentType, body); err != nil {
		s.logger.Error("failed to upload report", zap.String("key", key), zap.Error(err))
		return nil, ErrExportFailed
	}
	url, expiresAt, err := s.storage.GenerateDownloadURL(ctx, key, s.config.DownloadURLExpiry)
	if err != nil {
		s.logger.Error("failed to presign report download", zap.String("key", key), zap.Error(err))
		return nil, ErrExportFailed
	}

	s.logger.Info("report exported",
		zap.String("tenant_id", actor.CompanyID.String()),
		zap.String("report", string(req.Report)),
		zap.String("key", key),
		zap.Int("rows", len(rows)-1))
	return &ExportResult{
		Report:    req.Report,
		Key:       key,
		URL:       url,
		ExpiresAt: expiresAt,
		Rows:      len(rows) - 1,
	}, nil
}

// ExportKey is the object key of an exported report
func ExportKey(tenantID uuid.UUID, kind ReportKind, period report.Period, id uuid.UUID) string {
	return fmt.Sprintf("tenants/%s/reports/%s_%s_%s_%s.csv",
		tenantID, kind, period.From.Format("20060102"), period.To.Format("20060102"), id)
}

func employeePaymentRows(r *EmployeePaymentReport) [][]string {
	rows := [][]string{{"employee", "role", "employee_type", "date", "description", "category", "amount"}}
	for _, e := range r.Employees {
		for _, p := range e.Payments {
			rows = append(rows, []string{
				e.Employee.Name,
				e.Employee.Role,
				e.Employee.EmployeeType,
				p.Date.Format("2006-01-02"),
				p.Description,
				p.CategoryName,
				p.Amount.StringFixed(2),
			})
		}
	}
	return rows
}

func categoryRows(r *CategoryBreakdownReport) [][]string {
	rows := [][]string{{"type", "category", "count", "total", "percentage"}}
	add := func(kind string, totals []report.CategoryTotal) {
		for _, t := range totals {
			rows = append(rows, []string{
				kind,
				t.Name,
				fmt.Sprintf("%d", t.Count),
				t.Total.StringFixed(2),
				t.Percentage.StringFixed(2),
			})
		}
	}
	add("expense", r.Expenses)
	add("income", r.Incomes)
	return rows
}

func summaryRows(r *SummaryReport) [][]string {
	return [][]string{
		{"from", "to", "total_income", "total_expense", "net", "income_count", "expenditure_count"},
		{
			r.Period.From.Format("2006-01-02"),
			r.Period.To.Format("2006-01-02"),
			r.TotalIncome.StringFixed(2),
			r.TotalExpense.StringFixed(2),
			r.Net.StringFixed(2),
			fmt.Sprintf("%d", r.IncomeCount),
			fmt.Sprintf("%d", r.ExpenditureCount),
		},
	}
}

func encodeCSV(rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
