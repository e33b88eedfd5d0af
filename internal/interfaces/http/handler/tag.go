package handler

import (
	"context"

	ledgerapp "github.com/bizledger/backend/internal/application/ledger"
	"github.com/bizledger/backend/internal/domain/identity"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TagUseCases is the part of the tag service the handler needs
type TagUseCases interface {
	Create(ctx context.Context, actor identity.Actor, req ledgerapp.TagRequest) (*ledgerapp.TagResponse, error)
	Rename(ctx context.Context, actor identity.Actor, id uuid.UUID, req ledgerapp.TagRequest) (*ledgerapp.TagResponse, error)
	Delete(ctx context.Context, actor identity.Actor, id uuid.UUID) error
	List(ctx context.Context, actor identity.Actor) ([]ledgerapp.TagResponse, error)
}

// TagHandler handles entry tag endpoints
type TagHandler struct {
	BaseHandler
	tagService TagUseCases
}

// NewTagHandler creates a new TagHandler
func NewTagHandler(tagService TagUseCases) *TagHandler {
	return &TagHandler{tagService: tagService}
}

// Create godoc
// @ID           createTag
// @Summary      Create a tag
// @Tags         tags
// @Accept       json
// @Produce      json
// @Param        request body ledgerapp.TagRequest true "Tag request"
// @Success      201 {object} APIResponse[ledgerapp.TagResponse]
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tags [post]
func (h *TagHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req ledgerapp.TagRequest
	if !h.bindJSON(c, &req) {
		return
	}
	tag, err := h.tagService.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, tag)
}

// Rename godoc
// @ID           renameTag
// @Summary      Rename a tag
// @Tags         tags
// @Accept       json
// @Produce      json
// @Param        id path string true "Tag ID"
// @Param        request body ledgerapp.TagRequest true "Tag request"
// @Success      200 {object} APIResponse[ledgerapp.TagResponse]
// @Security     BearerAuth
// @Router       /tags/{id} [put]
func (h *TagHandler) Rename(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req ledgerapp.TagRequest
	if !h.bindJSON(c, &req) {
		return
	}
	tag, err := h.tagService.Rename(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tag)
}

// Delete godoc
// @ID           deleteTag
// @Summary      Delete a tag and its entry links
// @Tags         tags
// @Param        id path string true "Tag ID"
// @Success      204
// @Security     BearerAuth
// @Router       /tags/{id} [delete]
func (h *TagHandler) Delete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.tagService.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// List godoc
// @ID           listTags
// @Summary      List tags
// @Tags         tags
// @Produce      json
// @Success      200 {object} APIResponse[[]ledgerapp.TagResponse]
// @Security     BearerAuth
// @Router       /tags [get]
func (h *TagHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	tags, err := h.tagService.List(c.Request.Context(), actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tags)
}
