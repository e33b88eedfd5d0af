package handler

import (
	"context"

	ledgerapp "github.com/bizledger/backend/internal/application/ledger"
	"github.com/bizledger/backend/internal/domain/identity"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/bizledger/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AccountUseCases is the part of the account service the handler needs
type AccountUseCases interface {
	Create(ctx context.Context, actor identity.Actor, req ledgerapp.CreateAccountRequest) (*ledgerapp.AccountResponse, error)
	Update(ctx context.Context, actor identity.Actor, id uuid.UUID, req ledgerapp.UpdateAccountRequest) (*ledgerapp.AccountResponse, error)
	Delete(ctx context.Context, actor identity.Actor, id uuid.UUID) error
	Get(ctx context.Context, actor identity.Actor, id uuid.UUID) (*ledgerapp.AccountResponse, error)
	List(ctx context.Context, actor identity.Actor, filter shared.Filter) ([]ledgerapp.AccountResponse, int64, error)
}

// AccountHandler handles money account endpoints
type AccountHandler struct {
	BaseHandler
	accountService AccountUseCases
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(accountService AccountUseCases) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// Create godoc
// @ID           createAccount
// @Summary      Open an account
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        request body ledgerapp.CreateAccountRequest true "Account request"
// @Success      201 {object} APIResponse[ledgerapp.AccountResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /accounts [post]
func (h *AccountHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req ledgerapp.CreateAccountRequest
	if !h.bindJSON(c, &req) {
		return
	}
	account, err := h.accountService.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, account)
}

// Update godoc
// @ID           updateAccount
// @Summary      Edit an account
// @Description  Renames or retypes the account. A balance in the body rebases it.
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        id path string true "Account ID"
// @Param        request body ledgerapp.UpdateAccountRequest true "Account request"
// @Success      200 {object} APIResponse[ledgerapp.AccountResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /accounts/{id} [put]
func (h *AccountHandler) Update(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req ledgerapp.UpdateAccountRequest
	if !h.bindJSON(c, &req) {
		return
	}
	account, err := h.accountService.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, account)
}

// Delete godoc
// @ID           deleteAccount
// @Summary      Delete an account without entries
// @Tags         accounts
// @Param        id path string true "Account ID"
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /accounts/{id} [delete]
func (h *AccountHandler) Delete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.accountService.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Get godoc
// @ID           getAccount
// @Summary      Get an account
// @Tags         accounts
// @Produce      json
// @Param        id path string true "Account ID"
// @Success      200 {object} APIResponse[ledgerapp.AccountResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /accounts/{id} [get]
func (h *AccountHandler) Get(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	account, err := h.accountService.Get(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, account)
}

// List godoc
// @ID           listAccounts
// @Summary      List accounts
// @Tags         accounts
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        search query string false "Name search"
// @Param        order_by query string false "Sort field" Enums(name, type, balance, created_at)
// @Param        order_dir query string false "Sort direction" Enums(asc, desc)
// @Success      200 {object} APIResponse[[]ledgerapp.AccountResponse]
// @Security     BearerAuth
// @Router       /accounts [get]
func (h *AccountHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req dto.ListRequest
	if !h.bindQuery(c, &req) {
		return
	}
	filter := req.ToFilter("name")
	accounts, total, err := h.accountService.List(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, accounts, total, filter.Page, filter.PageSize)
}
