package handler

import (
	"context"
	"time"

	"github.com/bizledger/backend/internal/application/notification"
	recurrenceapp "github.com/bizledger/backend/internal/application/recurrence"
	"github.com/bizledger/backend/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TenantProcessor materializes due recurring transactions for every company
type TenantProcessor interface {
	ProcessAllTenants(ctx context.Context, now time.Time) (*recurrenceapp.ProcessResult, error)
}

// ReminderSender sends the deadline reminders that are due
type ReminderSender interface {
	SendDue(ctx context.Context, now time.Time) (*notification.ReminderResult, error)
}

// RecurringRunSummary is the cron response for a recurring pass
type RecurringRunSummary struct {
	Processed   int `json:"processed"`
	Deactivated int `json:"deactivated"`
	Skipped     int `json:"skipped"`
	Failed      int `json:"failed"`
}

// CronHandler serves the endpoints an external scheduler calls. The routes
// sit behind the cron secret rather than a user session.
type CronHandler struct {
	BaseHandler
	processor TenantProcessor
	reminders ReminderSender
	now       func() time.Time
}

// NewCronHandler creates a new CronHandler
func NewCronHandler(processor TenantProcessor, reminders ReminderSender) *CronHandler {
	return &CronHandler{processor: processor, reminders: reminders, now: time.Now}
}

// Recurring godoc
// @ID           cronProcessRecurring
// @Summary      Process due recurring transactions for all companies
// @Tags         cron
// @Produce      json
// @Success      200 {object} APIResponse[RecurringRunSummary]
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     CronSecret
// @Router       /cron/recurring [post]
// @Router       /cron/recurring [get]
func (h *CronHandler) Recurring(c *gin.Context) {
	result, err := h.processor.ProcessAllTenants(c.Request.Context(), h.now())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	logger.FromGin(c).Info("Recurring cron pass finished",
		zap.Int("processed", result.Processed),
		zap.Int("deactivated", result.Deactivated),
		zap.Int("failed", result.Failed),
	)
	h.Success(c, RecurringRunSummary{
		Processed:   result.Processed,
		Deactivated: result.Deactivated,
		Skipped:     result.Skipped,
		Failed:      result.Failed,
	})
}

// TaskReminders godoc
// @ID           cronTaskReminders
// @Summary      Email deadline reminders to task assignees
// @Tags         cron
// @Produce      json
// @Success      200 {object} APIResponse[notification.ReminderResult]
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     CronSecret
// @Router       /cron/task-reminders [post]
// @Router       /cron/task-reminders [get]
func (h *CronHandler) TaskReminders(c *gin.Context) {
	result, err := h.reminders.SendDue(c.Request.Context(), h.now())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	logger.FromGin(c).Info("Reminder cron pass finished",
		zap.Int("emails_sent", result.EmailsSent),
		zap.Int("errors", result.Errors),
	)
	h.Success(c, result)
}
