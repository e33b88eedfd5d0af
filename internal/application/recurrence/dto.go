package recurrence

import (
	"time"

	"github.com/bizledger/backend/internal/domain/recurrence"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TemplateRequest represents a request to create or edit a recurring transaction
type TemplateRequest struct {
	Name        string          `json:"name" binding:"required,min=1,max=200"`
	Description string          `json:"description" binding:"max=500"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Type        string          `json:"type" binding:"required,oneof=INCOME EXPENSE"`
	Frequency   string          `json:"frequency" binding:"required,oneof=DAILY WEEKLY BIWEEKLY MONTHLY QUARTERLY YEARLY"`
	StartDate   time.Time       `json:"start_date" binding:"required"`
	EndDate     *time.Time      `json:"end_date"`
	AccountID   uuid.UUID       `json:"account_id" binding:"required"`
	EmployeeID  *uuid.UUID      `json:"employee_id"`
	CategoryID  *uuid.UUID      `json:"category_id"`
}

func (r TemplateRequest) toTemplate() recurrence.Template {
	return recurrence.Template{
		Name:        r.Name,
		Description: r.Description,
		Amount:      r.Amount,
		Type:        recurrence.TransactionType(r.Type),
		Frequency:   recurrence.Frequency(r.Frequency),
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
		AccountID:   r.AccountID,
		EmployeeID:  r.EmployeeID,
		CategoryID:  r.CategoryID,
	}
}

// TemplateResponse represents a recurring transaction in API responses
type TemplateResponse struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"`
	Frequency   string          `json:"frequency"`
	StartDate   time.Time       `json:"start_date"`
	EndDate     *time.Time      `json:"end_date,omitempty"`
	AccountID   uuid.UUID       `json:"account_id"`
	EmployeeID  *uuid.UUID      `json:"employee_id,omitempty"`
	CategoryID  *uuid.UUID      `json:"category_id,omitempty"`
	NextRun     time.Time       `json:"next_run"`
	IsActive    bool            `json:"is_active"`
	LastRunAt   *time.Time      `json:"last_run_at,omitempty"`
	Version     int             `json:"version"`
}

// ToTemplateResponse converts a domain recurring transaction
func ToTemplateResponse(rt *recurrence.RecurringTransaction) TemplateResponse {
	return TemplateResponse{
		ID:          rt.ID,
		Name:        rt.Name,
		Description: rt.Description,
		Amount:      rt.Amount,
		Type:        string(rt.Type),
		Frequency:   string(rt.Frequency),
		StartDate:   rt.StartDate,
		EndDate:     rt.EndDate,
		AccountID:   rt.AccountID,
		EmployeeID:  rt.EmployeeID,
		CategoryID:  rt.CategoryID,
		NextRun:     rt.NextRun,
		IsActive:    rt.IsActive,
		LastRunAt:   rt.LastRunAt,
		Version:     rt.Version,
	}
}

// MaterializedEntry describes one ledger row produced by a processing pass
type MaterializedEntry struct {
	RecurringID uuid.UUID       `json:"recurring_id"`
	TenantID    uuid.UUID       `json:"tenant_id"`
	EntryID     uuid.UUID       `json:"entry_id"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
}

// ProcessResult summarizes a processing pass
type ProcessResult struct {
	Processed    int                 `json:"processed"`
	Deactivated  int                 `json:"deactivated"`
	Skipped      int                 `json:"skipped"`
	Failed       int                 `json:"failed"`
	Transactions []MaterializedEntry `json:"transactions"`
}

func newProcessResult() *ProcessResult {
	return &ProcessResult{Transactions: []MaterializedEntry{}}
}

func (r *ProcessResult) merge(o *ProcessResult) {
	r.Processed += o.Processed
	r.Deactivated += o.Deactivated
	r.Skipped += o.Skipped
	r.Failed += o.Failed
	r.Transactions = append(r.Transactions, o.Transactions...)
}
