package handler

import (
	"context"

	reportapp "github.com/bizledger/backend/internal/application/report"
	"github.com/bizledger/backend/internal/domain/identity"
	"github.com/gin-gonic/gin"
)

// ReportUseCases is the part of the report service the handler needs
type ReportUseCases interface {
	EmployeePayments(ctx context.Context, actor identity.Actor, q reportapp.PeriodQuery) (*reportapp.EmployeePaymentReport, error)
	CategoryBreakdown(ctx context.Context, actor identity.Actor, q reportapp.PeriodQuery) (*reportapp.CategoryBreakdownReport, error)
	Summary(ctx context.Context, actor identity.Actor, q reportapp.PeriodQuery) (*reportapp.SummaryReport, error)
	Export(ctx context.Context, actor identity.Actor, req reportapp.ExportRequest) (*reportapp.ExportResult, error)
}

// ReportHandler handles report endpoints. A missing period defaults to
// the current month.
type ReportHandler struct {
	BaseHandler
	reportService ReportUseCases
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService ReportUseCases) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// EmployeePayments godoc
// @ID           reportEmployeePayments
// @Summary      Payments per active employee
// @Tags         reports
// @Produce      json
// @Param        from query string false "From date (YYYY-MM-DD)"
// @Param        to query string false "To date (YYYY-MM-DD)"
// @Success      200 {object} APIResponse[reportapp.EmployeePaymentReport]
// @Security     BearerAuth
// @Router       /reports/employee-payments [get]
func (h *ReportHandler) EmployeePayments(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var q reportapp.PeriodQuery
	if !h.bindQuery(c, &q) {
		return
	}
	result, err := h.reportService.EmployeePayments(c.Request.Context(), actor, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// CategoryBreakdown godoc
// @ID           reportCategoryBreakdown
// @Summary      Expense and income totals per category
// @Tags         reports
// @Produce      json
// @Param        from query string false "From date (YYYY-MM-DD)"
// @Param        to query string false "To date (YYYY-MM-DD)"
// @Success      200 {object} APIResponse[reportapp.CategoryBreakdownReport]
// @Security     BearerAuth
// @Router       /reports/category-breakdown [get]
func (h *ReportHandler) CategoryBreakdown(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var q reportapp.PeriodQuery
	if !h.bindQuery(c, &q) {
		return
	}
	result, err := h.reportService.CategoryBreakdown(c.Request.Context(), actor, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Summary godoc
// @ID           reportSummary
// @Summary      Income, expense and net for a period
// @Tags         reports
// @Produce      json
// @Param        from query string false "From date (YYYY-MM-DD)"
// @Param        to query string false "To date (YYYY-MM-DD)"
// @Success      200 {object} APIResponse[reportapp.SummaryReport]
// @Security     BearerAuth
// @Router       /reports/summary [get]
func (h *ReportHandler) Summary(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var q reportapp.PeriodQuery
	if !h.bindQuery(c, &q) {
		return
	}
	result, err := h.reportService.Summary(c.Request.Context(), actor, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Export godoc
// @ID           reportExport
// @Summary      Export a report as CSV
// @Description  Uploads the CSV to object storage and returns a presigned download URL.
// @Tags         reports
// @Accept       json
// @Produce      json
// @Param        request body reportapp.ExportRequest true "Export request"
// @Success      201 {object} APIResponse[reportapp.ExportResult]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reports/export [post]
func (h *ReportHandler) Export(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req reportapp.ExportRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.reportService.Export(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}
