package handler

import (
	"context"

	identityapp "github.com/bizledger/backend/internal/application/identity"
	"github.com/bizledger/backend/internal/domain/identity"
	"github.com/bizledger/backend/internal/infrastructure/auth"
	"github.com/bizledger/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// AuthUseCases is the part of the auth service the handler needs
type AuthUseCases interface {
	Signup(ctx context.Context, input identityapp.SignupInput) (*identityapp.AuthResult, error)
	Login(ctx context.Context, input identityapp.LoginInput) (*identityapp.AuthResult, error)
	MagicLogin(ctx context.Context, input identityapp.MagicLoginInput) (*identityapp.AuthResult, error)
	Refresh(ctx context.Context, input identityapp.RefreshInput) (*identityapp.AuthResult, error)
	Logout(ctx context.Context, access *auth.Claims, refreshToken string) error
	Me(ctx context.Context, actor identity.Actor) (*identityapp.UserInfo, error)
}

// AuthHandler handles sign-in and session endpoints
type AuthHandler struct {
	BaseHandler
	authService AuthUseCases
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService AuthUseCases) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// LogoutRequest optionally carries the refresh token to revoke as well
// @Description Logout request
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Signup godoc
// @ID           signup
// @Summary      Create a company and its administrator
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identityapp.SignupInput true "Signup request"
// @Success      201 {object} APIResponse[identityapp.AuthResult]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /auth/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req identityapp.SignupInput
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.authService.Signup(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// Login godoc
// @ID           login
// @Summary      Sign in with email and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identityapp.LoginInput true "Login request"
// @Success      200 {object} APIResponse[identityapp.AuthResult]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req identityapp.LoginInput
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// MagicLogin godoc
// @ID           magicLogin
// @Summary      Exchange a client magic link token for a session
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identityapp.MagicLoginInput true "Magic link token"
// @Success      200 {object} APIResponse[identityapp.AuthResult]
// @Failure      401 {object} ErrorResponse
// @Router       /auth/magic-login [post]
func (h *AuthHandler) MagicLogin(c *gin.Context) {
	var req identityapp.MagicLoginInput
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.authService.MagicLogin(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Refresh godoc
// @ID           refreshToken
// @Summary      Exchange a refresh token for a new token pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identityapp.RefreshInput true "Refresh token"
// @Success      200 {object} APIResponse[identityapp.AuthResult]
// @Failure      401 {object} ErrorResponse
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req identityapp.RefreshInput
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.authService.Refresh(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Logout godoc
// @ID           logout
// @Summary      Revoke the current session
// @Tags         auth
// @Accept       json
// @Param        request body LogoutRequest false "Refresh token to revoke"
// @Success      204
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	var req LogoutRequest
	if c.Request.ContentLength > 0 && !h.bindJSON(c, &req) {
		return
	}
	if err := h.authService.Logout(c.Request.Context(), claims, req.RefreshToken); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Me godoc
// @ID           me
// @Summary      Get the signed-in user
// @Tags         auth
// @Produce      json
// @Success      200 {object} APIResponse[identityapp.UserInfo]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	info, err := h.authService.Me(c.Request.Context(), actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, info)
}
