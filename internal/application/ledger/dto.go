package ledger

import (
	"time"

	"github.com/bizledger/backend/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest represents a request to open an account
type CreateAccountRequest struct {
	Name    string          `json:"name" binding:"required,min=2,max=100"`
	Type    string          `json:"type" binding:"required,oneof='Bank Account' Cash 'Bitcoin Wallet' Other"`
	Balance decimal.Decimal `json:"balance"`
}

// UpdateAccountRequest represents a request to edit an account.
// A non-nil Balance rebases the account.
type UpdateAccountRequest struct {
	Name    string           `json:"name" binding:"required,min=2,max=100"`
	Type    string           `json:"type" binding:"required,oneof='Bank Account' Cash 'Bitcoin Wallet' Other"`
	Balance *decimal.Decimal `json:"balance"`
}

// AccountResponse represents an account in API responses
type AccountResponse struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	Type           string          `json:"type"`
	Balance        decimal.Decimal `json:"balance"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ToAccountResponse converts a domain account
func ToAccountResponse(a *ledger.Account) AccountResponse {
	return AccountResponse{
		ID:             a.ID,
		Name:           a.Name,
		Type:           string(a.Type),
		Balance:        a.Balance,
		InitialBalance: a.InitialBalance,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

// CategoryRequest represents a request to create or edit a category
type CategoryRequest struct {
	Name  string `json:"name" binding:"required,min=2,max=100"`
	Icon  string `json:"icon" binding:"max=50"`
	Color string `json:"color" binding:"omitempty,hexcolor"`
	Type  string `json:"type" binding:"omitempty,oneof=EXPENSE INCOME BOTH"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Icon     string    `json:"icon,omitempty"`
	Color    string    `json:"color,omitempty"`
	Type     string    `json:"type"`
	IsSystem bool      `json:"is_system"`
}

// ToCategoryResponse converts a domain category
func ToCategoryResponse(c *ledger.Category) CategoryResponse {
	return CategoryResponse{
		ID:       c.ID,
		Name:     c.Name,
		Icon:     c.Icon,
		Color:    c.Color,
		Type:     string(c.Type),
		IsSystem: c.IsSystem,
	}
}

// SeedResult reports what SeedDefaults created
type SeedResult struct {
	Created []string `json:"created"`
	Skipped []string `json:"skipped"`
}

// TagRequest represents a request to create or rename a tag
type TagRequest struct {
	Name string `json:"name" binding:"required,min=2,max=100"`
}

// TagResponse represents a tag in API responses
type TagResponse struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	ProjectID *uuid.UUID `json:"project_id,omitempty"`
}

// ToTagResponse converts a domain tag
func ToTagResponse(t *ledger.Tag) TagResponse {
	return TagResponse{ID: t.ID, Name: t.Name, ProjectID: t.ProjectID}
}

// CreateEntryRequest represents a request to record an expenditure or income.
// EmployeeID is ignored for incomes.
type CreateEntryRequest struct {
	Description string          `json:"description" binding:"required,min=1,max=500"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Date        time.Time       `json:"date" binding:"required"`
	AccountID   uuid.UUID       `json:"account_id" binding:"required"`
	CategoryID  *uuid.UUID      `json:"category_id"`
	EmployeeID  *uuid.UUID      `json:"employee_id"`
	TagIDs      []uuid.UUID     `json:"tag_ids" binding:"max=20"`
}

// EntryListFilter defines filtering options for entry list queries.
// Id filters are parsed by the HTTP layer rather than form binding.
type EntryListFilter struct {
	From       *time.Time `form:"from" time_format:"2006-01-02"`
	To         *time.Time `form:"to" time_format:"2006-01-02"`
	AccountID  *uuid.UUID `form:"-"`
	CategoryID *uuid.UUID `form:"-"`
	EmployeeID *uuid.UUID `form:"-"`
	TagID      *uuid.UUID `form:"-"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

func (f EntryListFilter) toDomain() ledger.EntryFilter {
	df := ledger.EntryFilter{
		From:       f.From,
		To:         f.To,
		AccountID:  f.AccountID,
		CategoryID: f.CategoryID,
		EmployeeID: f.EmployeeID,
		TagID:      f.TagID,
	}
	df.Page = f.Page
	df.PageSize = f.PageSize
	df.OrderBy = f.OrderBy
	df.OrderDir = f.OrderDir
	if df.Page <= 0 {
		df.Page = 1
	}
	if df.PageSize <= 0 {
		df.PageSize = 20
	}
	if df.OrderBy == "" {
		df.OrderBy = "date"
	}
	if df.OrderDir == "" {
		df.OrderDir = "desc"
	}
	return df
}

// EntryResponse represents an expenditure or income in API responses
type EntryResponse struct {
	ID          uuid.UUID       `json:"id"`
	Kind        string          `json:"kind"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	AccountID   uuid.UUID       `json:"account_id"`
	CategoryID  *uuid.UUID      `json:"category_id,omitempty"`
	EmployeeID  *uuid.UUID      `json:"employee_id,omitempty"`
	RecurringID *uuid.UUID      `json:"recurring_id,omitempty"`
	TagIDs      []uuid.UUID     `json:"tag_ids"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Entry kinds
const (
	KindExpenditure = "expenditure"
	KindIncome      = "income"
)

// ToExpenditureResponse converts a domain expenditure
func ToExpenditureResponse(e *ledger.Expenditure) EntryResponse {
	r := entryResponse(KindExpenditure, &e.Entry)
	r.EmployeeID = e.EmployeeID
	return r
}

// ToIncomeResponse converts a domain income
func ToIncomeResponse(i *ledger.Income) EntryResponse {
	return entryResponse(KindIncome, &i.Entry)
}

func entryResponse(kind string, e *ledger.Entry) EntryResponse {
	tagIDs := e.TagIDs
	if tagIDs == nil {
		tagIDs = []uuid.UUID{}
	}
	return EntryResponse{
		ID:          e.ID,
		Kind:        kind,
		Description: e.Description,
		Amount:      e.Amount,
		Date:        e.Date,
		AccountID:   e.AccountID,
		CategoryID:  e.CategoryID,
		RecurringID: e.RecurringID,
		TagIDs:      tagIDs,
		CreatedAt:   e.CreatedAt,
	}
}
