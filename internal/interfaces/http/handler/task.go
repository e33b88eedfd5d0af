package handler

import (
	"context"

	projectapp "github.com/bizledger/backend/internal/application/project"
	"github.com/bizledger/backend/internal/domain/identity"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TaskUseCases is the part of the task service the handler needs
type TaskUseCases interface {
	Create(ctx context.Context, actor identity.Actor, req projectapp.CreateTaskRequest) (*projectapp.TaskResponse, error)
	UpdateStatus(ctx context.Context, actor identity.Actor, id uuid.UUID, req projectapp.UpdateStatusRequest) (*projectapp.TaskResponse, error)
	Assign(ctx context.Context, actor identity.Actor, id, employeeID uuid.UUID) (*projectapp.TaskResponse, error)
	Unassign(ctx context.Context, actor identity.Actor, id, employeeID uuid.UUID) (*projectapp.TaskResponse, error)
	Update(ctx context.Context, actor identity.Actor, id uuid.UUID, req projectapp.UpdateTaskRequest) (*projectapp.TaskResponse, error)
	SetVisibility(ctx context.Context, actor identity.Actor, id uuid.UUID, req projectapp.VisibilityRequest) (*projectapp.TaskResponse, error)
	Delete(ctx context.Context, actor identity.Actor, id uuid.UUID) error
	Get(ctx context.Context, actor identity.Actor, id uuid.UUID) (*projectapp.TaskResponse, error)
	List(ctx context.Context, actor identity.Actor, filter projectapp.TaskListFilter) ([]projectapp.TaskResponse, int64, error)
}

// ApprovalUseCases records client decisions on tasks in review
type ApprovalUseCases interface {
	Approve(ctx context.Context, actor identity.Actor, id uuid.UUID, req projectapp.DecisionRequest) (*projectapp.TaskResponse, error)
	Reject(ctx context.Context, actor identity.Actor, id uuid.UUID, req projectapp.DecisionRequest) (*projectapp.TaskResponse, error)
	RequestChanges(ctx context.Context, actor identity.Actor, id uuid.UUID, req projectapp.DecisionRequest) (*projectapp.TaskResponse, error)
}

type decisionFunc func(ctx context.Context, actor identity.Actor, id uuid.UUID, req projectapp.DecisionRequest) (*projectapp.TaskResponse, error)

// TaskHandler handles task endpoints including client approvals
type TaskHandler struct {
	BaseHandler
	tasks     TaskUseCases
	approvals ApprovalUseCases
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(tasks TaskUseCases, approvals ApprovalUseCases) *TaskHandler {
	return &TaskHandler{tasks: tasks, approvals: approvals}
}

// Create godoc
// @ID           createTask
// @Summary      Create a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        request body projectapp.CreateTaskRequest true "Task request"
// @Success      201 {object} APIResponse[projectapp.TaskResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req projectapp.CreateTaskRequest
	if !h.bindJSON(c, &req) {
		return
	}
	task, err := h.tasks.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, task)
}

// Update godoc
// @ID           updateTask
// @Summary      Edit a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        id path string true "Task ID"
// @Param        request body projectapp.UpdateTaskRequest true "Task request"
// @Success      200 {object} APIResponse[projectapp.TaskResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tasks/{id} [put]
func (h *TaskHandler) Update(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req projectapp.UpdateTaskRequest
	if !h.bindJSON(c, &req) {
		return
	}
	task, err := h.tasks.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, task)
}

// UpdateStatus godoc
// @ID           updateTaskStatus
// @Summary      Move a task to another status
// @Description  Completing a task from review requires client approval.
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        id path string true "Task ID"
// @Param        request body projectapp.UpdateStatusRequest true "Status request"
// @Success      200 {object} APIResponse[projectapp.TaskResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tasks/{id}/status [patch]
func (h *TaskHandler) UpdateStatus(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req projectapp.UpdateStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}
	task, err := h.tasks.UpdateStatus(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, task)
}

// Assign godoc
// @ID           assignTask
// @Summary      Add an assignee to a task
// @Tags         tasks
// @Produce      json
// @Param        id path string true "Task ID"
// @Param        employeeId path string true "Employee ID"
// @Success      200 {object} APIResponse[projectapp.TaskResponse]
// @Security     BearerAuth
// @Router       /tasks/{id}/assignees/{employeeId} [post]
func (h *TaskHandler) Assign(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	employeeID, ok := h.uuidParam(c, "employeeId")
	if !ok {
		return
	}
	task, err := h.tasks.Assign(c.Request.Context(), actor, id, employeeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, task)
}

// Unassign godoc
// @ID           unassignTask
// @Summary      Remove an assignee from a task
// @Tags         tasks
// @Produce      json
// @Param        id path string true "Task ID"
// @Param        employeeId path string true "Employee ID"
// @Success      200 {object} APIResponse[projectapp.TaskResponse]
// @Security     BearerAuth
// @Router       /tasks/{id}/assignees/{employeeId} [delete]
func (h *TaskHandler) Unassign(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	employeeID, ok := h.uuidParam(c, "employeeId")
	if !ok {
		return
	}
	task, err := h.tasks.Unassign(c.Request.Context(), actor, id, employeeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, task)
}

// SetVisibility godoc
// @ID           setTaskVisibility
// @Summary      Show or hide a task from the client
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        id path string true "Task ID"
// @Param        request body projectapp.VisibilityRequest true "Visibility request"
// @Success      200 {object} APIResponse[projectapp.TaskResponse]
// @Security     BearerAuth
// @Router       /tasks/{id}/visibility [patch]
func (h *TaskHandler) SetVisibility(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req projectapp.VisibilityRequest
	if !h.bindJSON(c, &req) {
		return
	}
	task, err := h.tasks.SetVisibility(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, task)
}

// Delete godoc
// @ID           deleteTask
// @Summary      Delete a task
// @Description  Timeline entries of the task are kept without the task link.
// @Tags         tasks
// @Param        id path string true "Task ID"
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.tasks.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Get godoc
// @ID           getTask
// @Summary      Get a task
// @Tags         tasks
// @Produce      json
// @Param        id path string true "Task ID"
// @Success      200 {object} APIResponse[projectapp.TaskResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tasks/{id} [get]
func (h *TaskHandler) Get(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	task, err := h.tasks.Get(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, task)
}

// List godoc
// @ID           listTasks
// @Summary      List tasks
// @Description  Clients only see client-visible tasks of their own projects.
// @Tags         tasks
// @Produce      json
// @Param        project_id query string false "Project ID"
// @Param        assignee_id query string false "Assignee employee ID"
// @Param        status query string false "Status filter" Enums(TODO, IN_PROGRESS, IN_REVIEW, COMPLETED, CANCELLED)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]projectapp.TaskResponse]
// @Security     BearerAuth
// @Router       /tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var filter projectapp.TaskListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	if !h.uuidQueries(c, map[string]**uuid.UUID{
		"project_id":  &filter.ProjectID,
		"assignee_id": &filter.AssigneeID,
	}) {
		return
	}
	tasks, total, err := h.tasks.List(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, tasks, total, max(filter.Page, 1), filter.PageSize)
}

// Approve godoc
// @ID           approveTask
// @Summary      Approve a task in review
// @Tags         approvals
// @Accept       json
// @Produce      json
// @Param        id path string true "Task ID"
// @Param        request body projectapp.DecisionRequest false "Reviewer note"
// @Success      200 {object} APIResponse[projectapp.TaskResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tasks/{id}/approve [post]
func (h *TaskHandler) Approve(c *gin.Context) {
	h.decide(c, h.approvals.Approve)
}

// Reject godoc
// @ID           rejectTask
// @Summary      Reject a task in review
// @Tags         approvals
// @Accept       json
// @Produce      json
// @Param        id path string true "Task ID"
// @Param        request body projectapp.DecisionRequest false "Reviewer note"
// @Success      200 {object} APIResponse[projectapp.TaskResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tasks/{id}/reject [post]
func (h *TaskHandler) Reject(c *gin.Context) {
	h.decide(c, h.approvals.Reject)
}

// RequestChanges godoc
// @ID           requestTaskChanges
// @Summary      Send a task in review back for changes
// @Tags         approvals
// @Accept       json
// @Produce      json
// @Param        id path string true "Task ID"
// @Param        request body projectapp.DecisionRequest false "Reviewer note"
// @Success      200 {object} APIResponse[projectapp.TaskResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tasks/{id}/request-changes [post]
func (h *TaskHandler) RequestChanges(c *gin.Context) {
	h.decide(c, h.approvals.RequestChanges)
}

func (h *TaskHandler) decide(c *gin.Context, fn decisionFunc) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	// the note is optional, so an empty body is accepted
	var req projectapp.DecisionRequest
	if c.Request.ContentLength > 0 && !h.bindJSON(c, &req) {
		return
	}
	task, err := fn(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, task)
}
