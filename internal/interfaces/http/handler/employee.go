package handler

import (
	"context"

	workforceapp "github.com/bizledger/backend/internal/application/workforce"
	"github.com/bizledger/backend/internal/domain/identity"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// EmployeeUseCases is the part of the employee service the handler needs
type EmployeeUseCases interface {
	Create(ctx context.Context, actor identity.Actor, req workforceapp.EmployeeRequest) (*workforceapp.EmployeeResponse, error)
	Update(ctx context.Context, actor identity.Actor, id uuid.UUID, req workforceapp.EmployeeRequest) (*workforceapp.EmployeeResponse, error)
	Delete(ctx context.Context, actor identity.Actor, id uuid.UUID) error
	Get(ctx context.Context, actor identity.Actor, id uuid.UUID) (*workforceapp.EmployeeResponse, error)
	List(ctx context.Context, actor identity.Actor, filter workforceapp.EmployeeListFilter) ([]workforceapp.EmployeeResponse, int64, error)
}

// EmployeeHandler handles employee endpoints
type EmployeeHandler struct {
	BaseHandler
	employeeService EmployeeUseCases
}

// NewEmployeeHandler creates a new EmployeeHandler
func NewEmployeeHandler(employeeService EmployeeUseCases) *EmployeeHandler {
	return &EmployeeHandler{employeeService: employeeService}
}

// Create godoc
// @ID           createEmployee
// @Summary      Create an employee
// @Tags         employees
// @Accept       json
// @Produce      json
// @Param        request body workforceapp.EmployeeRequest true "Employee request"
// @Success      201 {object} APIResponse[workforceapp.EmployeeResponse]
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /employees [post]
func (h *EmployeeHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req workforceapp.EmployeeRequest
	if !h.bindJSON(c, &req) {
		return
	}
	employee, err := h.employeeService.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, employee)
}

// Update godoc
// @ID           updateEmployee
// @Summary      Edit an employee
// @Tags         employees
// @Accept       json
// @Produce      json
// @Param        id path string true "Employee ID"
// @Param        request body workforceapp.EmployeeRequest true "Employee request"
// @Success      200 {object} APIResponse[workforceapp.EmployeeResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /employees/{id} [put]
func (h *EmployeeHandler) Update(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req workforceapp.EmployeeRequest
	if !h.bindJSON(c, &req) {
		return
	}
	employee, err := h.employeeService.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, employee)
}

// Delete godoc
// @ID           deleteEmployee
// @Summary      Delete an employee
// @Description  Expenditures keep their amounts and lose the employee link. Task and team memberships are removed.
// @Tags         employees
// @Param        id path string true "Employee ID"
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /employees/{id} [delete]
func (h *EmployeeHandler) Delete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.employeeService.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Get godoc
// @ID           getEmployee
// @Summary      Get an employee
// @Tags         employees
// @Produce      json
// @Param        id path string true "Employee ID"
// @Success      200 {object} APIResponse[workforceapp.EmployeeResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /employees/{id} [get]
func (h *EmployeeHandler) Get(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	employee, err := h.employeeService.Get(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, employee)
}

// List godoc
// @ID           listEmployees
// @Summary      List employees
// @Tags         employees
// @Produce      json
// @Param        status query string false "Status filter" Enums(ACTIVE, INACTIVE, TERMINATED)
// @Param        employee_type query string false "Type filter" Enums(EMPLOYEE, CONTRACTOR, VENDOR, FREELANCER)
// @Param        search query string false "Name or email search"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]workforceapp.EmployeeResponse]
// @Security     BearerAuth
// @Router       /employees [get]
func (h *EmployeeHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var filter workforceapp.EmployeeListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	employees, total, err := h.employeeService.List(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, employees, total, max(filter.Page, 1), filter.PageSize)
}
