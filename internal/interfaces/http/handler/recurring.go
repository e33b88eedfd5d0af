package handler

import (
	"context"
	"time"

	recurrenceapp "github.com/bizledger/backend/internal/application/recurrence"
	"github.com/bizledger/backend/internal/domain/identity"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RecurringUseCases is the part of the recurring template service the handler needs
type RecurringUseCases interface {
	Create(ctx context.Context, actor identity.Actor, req recurrenceapp.TemplateRequest) (*recurrenceapp.TemplateResponse, error)
	Update(ctx context.Context, actor identity.Actor, id uuid.UUID, req recurrenceapp.TemplateRequest) (*recurrenceapp.TemplateResponse, error)
	Toggle(ctx context.Context, actor identity.Actor, id uuid.UUID) (*recurrenceapp.TemplateResponse, error)
	Delete(ctx context.Context, actor identity.Actor, id uuid.UUID) error
	Get(ctx context.Context, actor identity.Actor, id uuid.UUID) (*recurrenceapp.TemplateResponse, error)
	List(ctx context.Context, actor identity.Actor) ([]recurrenceapp.TemplateResponse, error)
}

// RecurringProcessor materializes due recurring transactions
type RecurringProcessor interface {
	ProcessForActor(ctx context.Context, actor identity.Actor, now time.Time) (*recurrenceapp.ProcessResult, error)
}

// RecurringHandler handles recurring transaction endpoints
type RecurringHandler struct {
	BaseHandler
	service   RecurringUseCases
	processor RecurringProcessor
	now       func() time.Time
}

// NewRecurringHandler creates a new RecurringHandler
func NewRecurringHandler(service RecurringUseCases, processor RecurringProcessor) *RecurringHandler {
	return &RecurringHandler{service: service, processor: processor, now: time.Now}
}

// Create godoc
// @ID           createRecurring
// @Summary      Create a recurring transaction
// @Description  next_run starts at start_date. Nothing is posted until the processor runs.
// @Tags         recurring
// @Accept       json
// @Produce      json
// @Param        request body recurrenceapp.TemplateRequest true "Recurring transaction"
// @Success      201 {object} APIResponse[recurrenceapp.TemplateResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /recurring [post]
func (h *RecurringHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req recurrenceapp.TemplateRequest
	if !h.bindJSON(c, &req) {
		return
	}
	rt, err := h.service.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, rt)
}

// Update godoc
// @ID           updateRecurring
// @Summary      Edit a recurring transaction
// @Tags         recurring
// @Accept       json
// @Produce      json
// @Param        id path string true "Recurring transaction ID"
// @Param        request body recurrenceapp.TemplateRequest true "Recurring transaction"
// @Success      200 {object} APIResponse[recurrenceapp.TemplateResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /recurring/{id} [put]
func (h *RecurringHandler) Update(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req recurrenceapp.TemplateRequest
	if !h.bindJSON(c, &req) {
		return
	}
	rt, err := h.service.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rt)
}

// Toggle godoc
// @ID           toggleRecurring
// @Summary      Pause or resume a recurring transaction
// @Tags         recurring
// @Produce      json
// @Param        id path string true "Recurring transaction ID"
// @Success      200 {object} APIResponse[recurrenceapp.TemplateResponse]
// @Security     BearerAuth
// @Router       /recurring/{id}/toggle [post]
func (h *RecurringHandler) Toggle(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	rt, err := h.service.Toggle(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rt)
}

// Delete godoc
// @ID           deleteRecurring
// @Summary      Delete a recurring transaction
// @Description  Entries already posted keep their amounts and lose the link.
// @Tags         recurring
// @Param        id path string true "Recurring transaction ID"
// @Success      204
// @Security     BearerAuth
// @Router       /recurring/{id} [delete]
func (h *RecurringHandler) Delete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Get godoc
// @ID           getRecurring
// @Summary      Get a recurring transaction
// @Tags         recurring
// @Produce      json
// @Param        id path string true "Recurring transaction ID"
// @Success      200 {object} APIResponse[recurrenceapp.TemplateResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /recurring/{id} [get]
func (h *RecurringHandler) Get(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	rt, err := h.service.Get(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rt)
}

// List godoc
// @ID           listRecurring
// @Summary      List recurring transactions
// @Tags         recurring
// @Produce      json
// @Success      200 {object} APIResponse[[]recurrenceapp.TemplateResponse]
// @Security     BearerAuth
// @Router       /recurring [get]
func (h *RecurringHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	items, err := h.service.List(c.Request.Context(), actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// Process godoc
// @ID           processRecurring
// @Summary      Post every due recurring transaction of the caller's company
// @Tags         recurring
// @Produce      json
// @Success      200 {object} APIResponse[recurrenceapp.ProcessResult]
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /recurring/process [post]
func (h *RecurringHandler) Process(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	result, err := h.processor.ProcessForActor(c.Request.Context(), actor, h.now().UTC())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
