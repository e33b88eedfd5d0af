package handler

import (
	"context"

	projectapp "github.com/bizledger/backend/internal/application/project"
	"github.com/bizledger/backend/internal/domain/identity"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ProjectUseCases is the part of the project service the handler needs
type ProjectUseCases interface {
	Create(ctx context.Context, actor identity.Actor, req projectapp.ProjectRequest) (*projectapp.ProjectResponse, error)
	Update(ctx context.Context, actor identity.Actor, id uuid.UUID, req projectapp.ProjectRequest) (*projectapp.ProjectResponse, error)
	Delete(ctx context.Context, actor identity.Actor, id uuid.UUID) error
	Get(ctx context.Context, actor identity.Actor, id uuid.UUID) (*projectapp.ProjectResponse, error)
	List(ctx context.Context, actor identity.Actor, filter projectapp.ProjectListFilter) ([]projectapp.ProjectResponse, int64, error)
}

// TeamUseCases manages project team membership
type TeamUseCases interface {
	Assign(ctx context.Context, actor identity.Actor, projectID uuid.UUID, req projectapp.AssignMemberRequest) (*projectapp.MemberResponse, error)
	Remove(ctx context.Context, actor identity.Actor, projectID, employeeID uuid.UUID) error
	List(ctx context.Context, actor identity.Actor, projectID uuid.UUID) ([]projectapp.MemberResponse, error)
}

// ModuleUseCases manages the modules that group a project's tasks
type ModuleUseCases interface {
	Create(ctx context.Context, actor identity.Actor, projectID uuid.UUID, req projectapp.ModuleRequest) (*projectapp.ModuleResponse, error)
	List(ctx context.Context, actor identity.Actor, projectID uuid.UUID) ([]projectapp.ModuleResponse, error)
	Delete(ctx context.Context, actor identity.Actor, id uuid.UUID) error
}

// ProjectHandler handles projects together with their teams and modules
type ProjectHandler struct {
	BaseHandler
	projects ProjectUseCases
	teams    TeamUseCases
	modules  ModuleUseCases
}

// NewProjectHandler creates a new ProjectHandler
func NewProjectHandler(projects ProjectUseCases, teams TeamUseCases, modules ModuleUseCases) *ProjectHandler {
	return &ProjectHandler{projects: projects, teams: teams, modules: modules}
}

// Create godoc
// @ID           createProject
// @Summary      Create a project
// @Description  Also creates the project's ledger tag.
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        request body projectapp.ProjectRequest true "Project request"
// @Success      201 {object} APIResponse[projectapp.ProjectResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /projects [post]
func (h *ProjectHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req projectapp.ProjectRequest
	if !h.bindJSON(c, &req) {
		return
	}
	p, err := h.projects.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, p)
}

// Update godoc
// @ID           updateProject
// @Summary      Edit a project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        id path string true "Project ID"
// @Param        request body projectapp.ProjectRequest true "Project request"
// @Success      200 {object} APIResponse[projectapp.ProjectResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /projects/{id} [put]
func (h *ProjectHandler) Update(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req projectapp.ProjectRequest
	if !h.bindJSON(c, &req) {
		return
	}
	p, err := h.projects.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, p)
}

// Delete godoc
// @ID           deleteProject
// @Summary      Delete a project with its tasks, team, modules and logs
// @Tags         projects
// @Param        id path string true "Project ID"
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /projects/{id} [delete]
func (h *ProjectHandler) Delete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.projects.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Get godoc
// @ID           getProject
// @Summary      Get a project
// @Tags         projects
// @Produce      json
// @Param        id path string true "Project ID"
// @Success      200 {object} APIResponse[projectapp.ProjectResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /projects/{id} [get]
func (h *ProjectHandler) Get(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	p, err := h.projects.Get(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, p)
}

// List godoc
// @ID           listProjects
// @Summary      List projects
// @Description  Clients only see their own projects.
// @Tags         projects
// @Produce      json
// @Param        status query string false "Status filter" Enums(PLANNING, ACTIVE, ON_HOLD, COMPLETED, CANCELLED)
// @Param        search query string false "Name search"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]projectapp.ProjectResponse]
// @Security     BearerAuth
// @Router       /projects [get]
func (h *ProjectHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var filter projectapp.ProjectListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	projects, total, err := h.projects.List(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, projects, total, max(filter.Page, 1), filter.PageSize)
}

// AssignMember godoc
// @ID           assignProjectMember
// @Summary      Put an employee on the project team
// @Description  Assigning an existing member updates the role.
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        id path string true "Project ID"
// @Param        request body projectapp.AssignMemberRequest true "Member request"
// @Success      200 {object} APIResponse[projectapp.MemberResponse]
// @Security     BearerAuth
// @Router       /projects/{id}/team [post]
func (h *ProjectHandler) AssignMember(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	projectID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req projectapp.AssignMemberRequest
	if !h.bindJSON(c, &req) {
		return
	}
	member, err := h.teams.Assign(c.Request.Context(), actor, projectID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, member)
}

// RemoveMember godoc
// @ID           removeProjectMember
// @Summary      Take an employee off the project team
// @Tags         projects
// @Param        id path string true "Project ID"
// @Param        employeeId path string true "Employee ID"
// @Success      204
// @Security     BearerAuth
// @Router       /projects/{id}/team/{employeeId} [delete]
func (h *ProjectHandler) RemoveMember(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	projectID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	employeeID, ok := h.uuidParam(c, "employeeId")
	if !ok {
		return
	}
	if err := h.teams.Remove(c.Request.Context(), actor, projectID, employeeID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListMembers godoc
// @ID           listProjectMembers
// @Summary      List the project team
// @Tags         projects
// @Produce      json
// @Param        id path string true "Project ID"
// @Success      200 {object} APIResponse[[]projectapp.MemberResponse]
// @Security     BearerAuth
// @Router       /projects/{id}/team [get]
func (h *ProjectHandler) ListMembers(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	projectID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	members, err := h.teams.List(c.Request.Context(), actor, projectID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, members)
}

// CreateModule godoc
// @ID           createProjectModule
// @Summary      Add a module to a project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        id path string true "Project ID"
// @Param        request body projectapp.ModuleRequest true "Module request"
// @Success      201 {object} APIResponse[projectapp.ModuleResponse]
// @Security     BearerAuth
// @Router       /projects/{id}/modules [post]
func (h *ProjectHandler) CreateModule(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	projectID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req projectapp.ModuleRequest
	if !h.bindJSON(c, &req) {
		return
	}
	module, err := h.modules.Create(c.Request.Context(), actor, projectID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, module)
}

// ListModules godoc
// @ID           listProjectModules
// @Summary      List a project's modules
// @Tags         projects
// @Produce      json
// @Param        id path string true "Project ID"
// @Success      200 {object} APIResponse[[]projectapp.ModuleResponse]
// @Security     BearerAuth
// @Router       /projects/{id}/modules [get]
func (h *ProjectHandler) ListModules(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	projectID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	modules, err := h.modules.List(c.Request.Context(), actor, projectID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, modules)
}

// DeleteModule godoc
// @ID           deleteModule
// @Summary      Delete a module
// @Description  Tasks in the module stay on the project without a module.
// @Tags         projects
// @Param        id path string true "Module ID"
// @Success      204
// @Security     BearerAuth
// @Router       /modules/{id} [delete]
func (h *ProjectHandler) DeleteModule(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.modules.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
