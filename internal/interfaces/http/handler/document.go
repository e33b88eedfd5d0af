package handler

import (
	"context"

	projectapp "github.com/bizledger/backend/internal/application/project"
	"github.com/bizledger/backend/internal/domain/identity"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DocumentUseCases manages project documents
type DocumentUseCases interface {
	Link(ctx context.Context, actor identity.Actor, projectID uuid.UUID, req projectapp.LinkDocumentRequest) (*projectapp.DocumentResponse, error)
	RequestUpload(ctx context.Context, actor identity.Actor, projectID uuid.UUID, req projectapp.UploadDocumentRequest) (*projectapp.UploadDocumentResponse, error)
	List(ctx context.Context, actor identity.Actor, projectID uuid.UUID) ([]projectapp.DocumentResponse, error)
	Download(ctx context.Context, actor identity.Actor, id uuid.UUID) (*projectapp.DocumentResponse, error)
	Delete(ctx context.Context, actor identity.Actor, id uuid.UUID) error
}

// DocumentHandler handles project document endpoints
type DocumentHandler struct {
	BaseHandler
	service DocumentUseCases
}

// NewDocumentHandler creates a new DocumentHandler
func NewDocumentHandler(service DocumentUseCases) *DocumentHandler {
	return &DocumentHandler{service: service}
}

// Link godoc
// @ID           linkProjectDocument
// @Summary      Link an external document to a project
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        id path string true "Project ID"
// @Param        request body projectapp.LinkDocumentRequest true "Document request"
// @Success      201 {object} APIResponse[projectapp.DocumentResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /projects/{id}/documents [post]
func (h *DocumentHandler) Link(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	projectID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req projectapp.LinkDocumentRequest
	if !h.bindJSON(c, &req) {
		return
	}
	doc, err := h.service.Link(c.Request.Context(), actor, projectID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, doc)
}

// Upload godoc
// @ID           uploadProjectDocument
// @Summary      Start a document upload
// @Description  Returns a presigned URL the client PUTs the file to.
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        id path string true "Project ID"
// @Param        request body projectapp.UploadDocumentRequest true "Upload request"
// @Success      201 {object} APIResponse[projectapp.UploadDocumentResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /projects/{id}/documents/upload [post]
func (h *DocumentHandler) Upload(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	projectID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req projectapp.UploadDocumentRequest
	if !h.bindJSON(c, &req) {
		return
	}
	upload, err := h.service.RequestUpload(c.Request.Context(), actor, projectID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, upload)
}

// List godoc
// @ID           listProjectDocuments
// @Summary      List a project's documents
// @Tags         documents
// @Produce      json
// @Param        id path string true "Project ID"
// @Success      200 {object} APIResponse[[]projectapp.DocumentResponse]
// @Security     BearerAuth
// @Router       /projects/{id}/documents [get]
func (h *DocumentHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	projectID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	docs, err := h.service.List(c.Request.Context(), actor, projectID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, docs)
}

// Download godoc
// @ID           downloadDocument
// @Summary      Get a document with a download URL
// @Tags         documents
// @Produce      json
// @Param        id path string true "Document ID"
// @Success      200 {object} APIResponse[projectapp.DocumentResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /documents/{id} [get]
func (h *DocumentHandler) Download(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	doc, err := h.service.Download(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, doc)
}

// Delete godoc
// @ID           deleteDocument
// @Summary      Delete a document
// @Tags         documents
// @Param        id path string true "Document ID"
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /documents/{id} [delete]
func (h *DocumentHandler) Delete(c *gin.Context) {
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
