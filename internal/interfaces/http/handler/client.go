package handler

import (
	"context"

	identityapp "github.com/bizledger/backend/internal/application/identity"
	"github.com/bizledger/backend/internal/domain/identity"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ClientUseCases is the part of the client service the handler needs
type ClientUseCases interface {
	CreateClientWithProject(ctx context.Context, actor identity.Actor, input identityapp.CreateClientInput) (*identityapp.CreateClientResult, error)
	GenerateMagicLink(ctx context.Context, actor identity.Actor, clientID uuid.UUID) (*identityapp.MagicLinkResult, error)
	List(ctx context.Context, actor identity.Actor) ([]identityapp.ClientResponse, error)
	Get(ctx context.Context, actor identity.Actor, clientID uuid.UUID) (*identityapp.ClientResponse, error)
}

// ClientHandler handles client login management. Every route is admin only.
type ClientHandler struct {
	BaseHandler
	clientService ClientUseCases
}

// NewClientHandler creates a new ClientHandler
func NewClientHandler(clientService ClientUseCases) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

// Create godoc
// @ID           createClient
// @Summary      Create a client together with its first project
// @Tags         clients
// @Accept       json
// @Produce      json
// @Param        request body identityapp.CreateClientInput true "Client request"
// @Success      201 {object} APIResponse[identityapp.CreateClientResult]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /clients [post]
func (h *ClientHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req identityapp.CreateClientInput
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.clientService.CreateClientWithProject(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// MagicLink godoc
// @ID           generateClientMagicLink
// @Summary      Issue a new magic link for a client
// @Tags         clients
// @Produce      json
// @Param        id path string true "Client ID"
// @Success      200 {object} APIResponse[identityapp.MagicLinkResult]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /clients/{id}/magic-link [post]
func (h *ClientHandler) MagicLink(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	result, err := h.clientService.GenerateMagicLink(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// List godoc
// @ID           listClients
// @Summary      List client logins
// @Tags         clients
// @Produce      json
// @Success      200 {object} APIResponse[[]identityapp.ClientResponse]
// @Security     BearerAuth
// @Router       /clients [get]
func (h *ClientHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	clients, err := h.clientService.List(c.Request.Context(), actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, clients)
}

// Get godoc
// @ID           getClient
// @Summary      Get a client login
// @Tags         clients
// @Produce      json
// @Param        id path string true "Client ID"
// @Success      200 {object} APIResponse[identityapp.ClientResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /clients/{id} [get]
func (h *ClientHandler) Get(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	client, err := h.clientService.Get(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, client)
}
