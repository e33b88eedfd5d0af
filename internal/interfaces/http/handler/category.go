package handler

import (
	"context"

	ledgerapp "github.com/bizledger/backend/internal/application/ledger"
	"github.com/bizledger/backend/internal/domain/identity"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CategoryUseCases is the part of the category service the handler needs
type CategoryUseCases interface {
	Create(ctx context.Context, actor identity.Actor, req ledgerapp.CategoryRequest) (*ledgerapp.CategoryResponse, error)
	Update(ctx context.Context, actor identity.Actor, id uuid.UUID, req ledgerapp.CategoryRequest) (*ledgerapp.CategoryResponse, error)
	Delete(ctx context.Context, actor identity.Actor, id uuid.UUID) error
	List(ctx context.Context, actor identity.Actor, categoryType string) ([]ledgerapp.CategoryResponse, error)
	SeedDefaults(ctx context.Context, actor identity.Actor) (*ledgerapp.SeedResult, error)
}

// CategoryHandler handles expense and income category endpoints
type CategoryHandler struct {
	BaseHandler
	categoryService CategoryUseCases
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService CategoryUseCases) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// CategoryListQuery filters the category list by kind
type CategoryListQuery struct {
	Type string `form:"type" binding:"omitempty,oneof=EXPENSE INCOME BOTH"`
}

// Create godoc
// @ID           createCategory
// @Summary      Create a category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        request body ledgerapp.CategoryRequest true "Category request"
// @Success      201 {object} APIResponse[ledgerapp.CategoryResponse]
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req ledgerapp.CategoryRequest
	if !h.bindJSON(c, &req) {
		return
	}
	category, err := h.categoryService.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, category)
}

// Update godoc
// @ID           updateCategory
// @Summary      Edit a category
// @Description  System categories cannot be edited.
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        id path string true "Category ID"
// @Param        request body ledgerapp.CategoryRequest true "Category request"
// @Success      200 {object} APIResponse[ledgerapp.CategoryResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /categories/{id} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req ledgerapp.CategoryRequest
	if !h.bindJSON(c, &req) {
		return
	}
	category, err := h.categoryService.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, category)
}

// Delete godoc
// @ID           deleteCategory
// @Summary      Delete a category
// @Description  Entries that used the category become uncategorized.
// @Tags         categories
// @Param        id path string true "Category ID"
// @Success      204
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.categoryService.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// List godoc
// @ID           listCategories
// @Summary      List categories
// @Tags         categories
// @Produce      json
// @Param        type query string false "Kind filter" Enums(EXPENSE, INCOME, BOTH)
// @Success      200 {object} APIResponse[[]ledgerapp.CategoryResponse]
// @Security     BearerAuth
// @Router       /categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var q CategoryListQuery
	if !h.bindQuery(c, &q) {
		return
	}
	categories, err := h.categoryService.List(c.Request.Context(), actor, q.Type)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, categories)
}

// Seed godoc
// @ID           seedCategories
// @Summary      Create the default system categories
// @Description  Idempotent. Existing names are reported as skipped.
// @Tags         categories
// @Produce      json
// @Success      200 {object} APIResponse[ledgerapp.SeedResult]
// @Security     BearerAuth
// @Router       /categories/seed [post]
func (h *CategoryHandler) Seed(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	result, err := h.categoryService.SeedDefaults(c.Request.Context(), actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
