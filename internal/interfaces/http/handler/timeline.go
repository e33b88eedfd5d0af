package handler

import (
	"context"

	projectapp "github.com/bizledger/backend/internal/application/project"
	"github.com/bizledger/backend/internal/domain/identity"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TimelineUseCases reads and edits a project's daily log timeline
type TimelineUseCases interface {
	Timeline(ctx context.Context, actor identity.Actor, projectID uuid.UUID, filter projectapp.TimelineFilter) ([]projectapp.LogResponse, error)
	CreateManualLog(ctx context.Context, actor identity.Actor, projectID uuid.UUID, req projectapp.ManualLogRequest) (*projectapp.LogResponse, error)
	UpdateLog(ctx context.Context, actor identity.Actor, id uuid.UUID, req projectapp.EditLogRequest) (*projectapp.LogResponse, error)
	DeleteLog(ctx context.Context, actor identity.Actor, id uuid.UUID) error
}

// TimelineHandler handles the project timeline and manual logs
type TimelineHandler struct {
	BaseHandler
	service TimelineUseCases
}

// NewTimelineHandler creates a new TimelineHandler
func NewTimelineHandler(service TimelineUseCases) *TimelineHandler {
	return &TimelineHandler{service: service}
}

// Timeline godoc
// @ID           getProjectTimeline
// @Summary      Get the project timeline
// @Description  Newest first. Clients do not see entries of hidden tasks.
// @Tags         timeline
// @Produce      json
// @Param        id path string true "Project ID"
// @Param        from query string false "From date (YYYY-MM-DD)"
// @Param        to query string false "To date (YYYY-MM-DD)"
// @Success      200 {object} APIResponse[[]projectapp.LogResponse]
// @Security     BearerAuth
// @Router       /projects/{id}/timeline [get]
func (h *TimelineHandler) Timeline(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	projectID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var filter projectapp.TimelineFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	logs, err := h.service.Timeline(c.Request.Context(), actor, projectID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, logs)
}

// CreateLog godoc
// @ID           createProjectLog
// @Summary      Write a manual timeline entry
// @Tags         timeline
// @Accept       json
// @Produce      json
// @Param        id path string true "Project ID"
// @Param        request body projectapp.ManualLogRequest true "Log request"
// @Success      201 {object} APIResponse[projectapp.LogResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /projects/{id}/logs [post]
func (h *TimelineHandler) CreateLog(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	projectID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req projectapp.ManualLogRequest
	if !h.bindJSON(c, &req) {
		return
	}
	log, err := h.service.CreateManualLog(c.Request.Context(), actor, projectID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, log)
}

// UpdateLog godoc
// @ID           updateProjectLog
// @Summary      Edit a manual timeline entry
// @Tags         timeline
// @Accept       json
// @Produce      json
// @Param        id path string true "Log ID"
// @Param        request body projectapp.EditLogRequest true "Log request"
// @Success      200 {object} APIResponse[projectapp.LogResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /logs/{id} [put]
func (h *TimelineHandler) UpdateLog(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req projectapp.EditLogRequest
	if !h.bindJSON(c, &req) {
		return
	}
	log, err := h.service.UpdateLog(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, log)
}

// DeleteLog godoc
// @ID           deleteProjectLog
// @Summary      Delete a manual timeline entry
// @Tags         timeline
// @Param        id path string true "Log ID"
// @Success      204
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /logs/{id} [delete]
func (h *TimelineHandler) DeleteLog(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteLog(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
