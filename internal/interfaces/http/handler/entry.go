package handler

import (
	"context"

	ledgerapp "github.com/bizledger/backend/internal/application/ledger"
	"github.com/bizledger/backend/internal/domain/identity"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// EntryUseCases is the part of the entry service the handler needs
type EntryUseCases interface {
	CreateExpenditure(ctx context.Context, actor identity.Actor, req ledgerapp.CreateEntryRequest) (*ledgerapp.EntryResponse, error)
	CreateIncome(ctx context.Context, actor identity.Actor, req ledgerapp.CreateEntryRequest) (*ledgerapp.EntryResponse, error)
	DeleteExpenditure(ctx context.Context, actor identity.Actor, id uuid.UUID) error
	DeleteIncome(ctx context.Context, actor identity.Actor, id uuid.UUID) error
	GetExpenditure(ctx context.Context, actor identity.Actor, id uuid.UUID) (*ledgerapp.EntryResponse, error)
	GetIncome(ctx context.Context, actor identity.Actor, id uuid.UUID) (*ledgerapp.EntryResponse, error)
	ListExpenditures(ctx context.Context, actor identity.Actor, filter ledgerapp.EntryListFilter) ([]ledgerapp.EntryResponse, int64, error)
	ListIncomes(ctx context.Context, actor identity.Actor, filter ledgerapp.EntryListFilter) ([]ledgerapp.EntryResponse, int64, error)
}

// EntryHandler handles expenditure and income endpoints. Every write moves
// the account balance in the same transaction.
type EntryHandler struct {
	BaseHandler
	entryService EntryUseCases
}

// NewEntryHandler creates a new EntryHandler
func NewEntryHandler(entryService EntryUseCases) *EntryHandler {
	return &EntryHandler{entryService: entryService}
}

type (
	createEntryFunc func(context.Context, identity.Actor, ledgerapp.CreateEntryRequest) (*ledgerapp.EntryResponse, error)
	entryByIDFunc   func(context.Context, identity.Actor, uuid.UUID) (*ledgerapp.EntryResponse, error)
	deleteEntryFunc func(context.Context, identity.Actor, uuid.UUID) error
	listEntryFunc   func(context.Context, identity.Actor, ledgerapp.EntryListFilter) ([]ledgerapp.EntryResponse, int64, error)
)

// CreateExpenditure godoc
// @ID           createExpenditure
// @Summary      Record an expenditure
// @Description  Debits the account. Payments to an employee carry employee_id.
// @Tags         expenditures
// @Accept       json
// @Produce      json
// @Param        request body ledgerapp.CreateEntryRequest true "Expenditure request"
// @Success      201 {object} APIResponse[ledgerapp.EntryResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /expenditures [post]
func (h *EntryHandler) CreateExpenditure(c *gin.Context) {
	h.create(c, h.entryService.CreateExpenditure)
}

// CreateIncome godoc
// @ID           createIncome
// @Summary      Record an income
// @Description  Credits the account. employee_id is ignored.
// @Tags         incomes
// @Accept       json
// @Produce      json
// @Param        request body ledgerapp.CreateEntryRequest true "Income request"
// @Success      201 {object} APIResponse[ledgerapp.EntryResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /incomes [post]
func (h *EntryHandler) CreateIncome(c *gin.Context) {
	h.create(c, h.entryService.CreateIncome)
}

// GetExpenditure godoc
// @ID           getExpenditure
// @Summary      Get an expenditure
// @Tags         expenditures
// @Produce      json
// @Param        id path string true "Expenditure ID"
// @Success      200 {object} APIResponse[ledgerapp.EntryResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /expenditures/{id} [get]
func (h *EntryHandler) GetExpenditure(c *gin.Context) {
	h.get(c, h.entryService.GetExpenditure)
}

// GetIncome godoc
// @ID           getIncome
// @Summary      Get an income
// @Tags         incomes
// @Produce      json
// @Param        id path string true "Income ID"
// @Success      200 {object} APIResponse[ledgerapp.EntryResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /incomes/{id} [get]
func (h *EntryHandler) GetIncome(c *gin.Context) {
	h.get(c, h.entryService.GetIncome)
}

// DeleteExpenditure godoc
// @ID           deleteExpenditure
// @Summary      Delete an expenditure and credit the account back
// @Tags         expenditures
// @Param        id path string true "Expenditure ID"
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /expenditures/{id} [delete]
func (h *EntryHandler) DeleteExpenditure(c *gin.Context) {
	h.delete(c, h.entryService.DeleteExpenditure)
}

// DeleteIncome godoc
// @ID           deleteIncome
// @Summary      Delete an income and debit the account back
// @Tags         incomes
// @Param        id path string true "Income ID"
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /incomes/{id} [delete]
func (h *EntryHandler) DeleteIncome(c *gin.Context) {
	h.delete(c, h.entryService.DeleteIncome)
}

// ListExpenditures godoc
// @ID           listExpenditures
// @Summary      List expenditures
// @Tags         expenditures
// @Produce      json
// @Param        from query string false "From date (YYYY-MM-DD)"
// @Param        to query string false "To date (YYYY-MM-DD)"
// @Param        account_id query string false "Account filter"
// @Param        category_id query string false "Category filter"
// @Param        employee_id query string false "Employee filter"
// @Param        tag_id query string false "Tag filter"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]ledgerapp.EntryResponse]
// @Security     BearerAuth
// @Router       /expenditures [get]
func (h *EntryHandler) ListExpenditures(c *gin.Context) {
	h.list(c, h.entryService.ListExpenditures)
}

// ListIncomes godoc
// @ID           listIncomes
// @Summary      List incomes
// @Tags         incomes
// @Produce      json
// @Param        from query string false "From date (YYYY-MM-DD)"
// @Param        to query string false "To date (YYYY-MM-DD)"
// @Param        account_id query string false "Account filter"
// @Param        category_id query string false "Category filter"
// @Param        tag_id query string false "Tag filter"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]ledgerapp.EntryResponse]
// @Security     BearerAuth
// @Router       /incomes [get]
func (h *EntryHandler) ListIncomes(c *gin.Context) {
	h.list(c, h.entryService.ListIncomes)
}

func (h *EntryHandler) create(c *gin.Context, fn createEntryFunc) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req ledgerapp.CreateEntryRequest
	if !h.bindJSON(c, &req) {
		return
	}
	entry, err := fn(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, entry)
}

func (h *EntryHandler) get(c *gin.Context, fn entryByIDFunc) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	entry, err := fn(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entry)
}

func (h *EntryHandler) delete(c *gin.Context, fn deleteEntryFunc) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	if err := fn(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

func (h *EntryHandler) list(c *gin.Context, fn listEntryFunc) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var filter ledgerapp.EntryListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	if !h.uuidQueries(c, map[string]**uuid.UUID{
		"account_id":  &filter.AccountID,
		"category_id": &filter.CategoryID,
		"employee_id": &filter.EmployeeID,
		"tag_id":      &filter.TagID,
	}) {
		return
	}
	entries, total, err := fn(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, entries, total, max(filter.Page, 1), filter.PageSize)
}
