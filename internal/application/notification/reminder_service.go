package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/bizledger/backend/internal/application/common"
	"github.com/bizledger/backend/internal/domain/project"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/bizledger/backend/internal/domain/workforce"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// DefaultReminderWindowDays is the furthest reminder ahead of a due date
	DefaultReminderWindowDays = 3
	reminderKeyTTL            = 48 * time.Hour
)

// SentReminder describes one delivered reminder
type SentReminder struct {
	Task         string `json:"task"`
	Employee     string `json:"employee"`
	DaysUntilDue int    `json:"days_until_due"`
	IsOverdue    bool   `json:"is_overdue"`
}

// ReminderError describes one failed reminder
type ReminderError struct {
	Task     uuid.UUID `json:"task"`
	Employee string    `json:"employee"`
	Error    string    `json:"error"`
}

// ReminderDetails lists what a reminder pass did
type ReminderDetails struct {
	Sent        []SentReminder  `json:"sent"`
	Errors      []ReminderError `json:"errors"`
	AlreadySent int             `json:"already_sent"`
}

// ReminderResult is the outcome of one reminder pass
type ReminderResult struct {
	EmailsSent int             `json:"emails_sent"`
	Errors     int             `json:"errors"`
	Details    ReminderDetails `json:"details"`
}

// ReminderService emails assignees of open tasks that are overdue, due
// today, due tomorrow or due at the end of the reminder window. Each
// task/employee pair is reminded at most once per day.
type ReminderService struct {
	tasks       project.TaskRepository
	employees   workforce.EmployeeRepository
	notifier    Notifier
	idempotency shared.IdempotencyStore
	windowDays  int
	logger      *zap.Logger
}

// NewReminderService creates a ReminderService
func NewReminderService(
	tasks project.TaskRepository,
	employees workforce.EmployeeRepository,
	notifier Notifier,
	idempotency shared.IdempotencyStore,
	windowDays int,
	logger *zap.Logger,
) *ReminderService {
	if windowDays <= 0 {
		windowDays = DefaultReminderWindowDays
	}
	return &ReminderService{
		tasks:       tasks,
		employees:   employees,
		notifier:    notifier,
		idempotency: idempotency,
		windowDays:  windowDays,
		logger:      common.Nop(logger),
	}
}

// ReminderKey identifies the reminder for one task, employee and day
func ReminderKey(taskID, employeeID uuid.UUID, day time.Time) string {
	return fmt.Sprintf("reminder:%s:%s:%s", taskID, employeeID, day.Format("2006-01-02"))
}

// SendDue runs one reminder pass. Per-recipient failures are collected in
// the result; only a failing task query aborts the pass.
func (s *ReminderService) SendDue(ctx context.Context, now time.Time) (*ReminderResult, error) {
	horizon := endOfDay(now.AddDate(0, 0, s.windowDays))
	candidates, err := s.tasks.FindNeedingReminders(ctx, horizon)
	if err != nil {
		return nil, common.Fail(s.logger, "load tasks needing reminders", err)
	}

	result := &ReminderResult{
		Details: ReminderDetails{Sent: []SentReminder{}, Errors: []ReminderError{}},
	}
	for i := range candidates {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		c := &candidates[i]
		if !s.inWindow(&c.Task, now) {
			continue
		}
		s.remindTask(ctx, c, now, result)
	}
	result.EmailsSent = len(result.Details.Sent)
	result.Errors = len(result.Details.Errors)

	s.logger.Info("deadline reminder pass finished",
		zap.Int("candidates", len(candidates)),
		zap.Int("emails_sent", result.EmailsSent),
		zap.Int("errors", result.Errors),
		zap.Int("already_sent", result.Details.AlreadySent),
	)
	return result, nil
}

// inWindow keeps open tasks that are overdue or due today, tomorrow or on
// the last day of the window
func (s *ReminderService) inWindow(t *project.Task, now time.Time) bool {
	if t.DueDate == nil {
		return false
	}
	if t.Status != project.TaskStatusTodo && t.Status != project.TaskStatusInProgress {
		return false
	}
	if t.DueDate.Before(now) {
		return true
	}
	due := t.DueDate.In(now.Location())
	for _, offset := range []int{0, 1, s.windowDays} {
		day := now.AddDate(0, 0, offset)
		if !due.Before(startOfDay(day)) && !due.After(endOfDay(day)) {
			return true
		}
	}
	return false
}

func (s *ReminderService) remindTask(ctx context.Context, c *project.ReminderCandidate, now time.Time, result *ReminderResult) {
	task := &c.Task
	if len(task.AssigneeIDs) == 0 {
		return
	}
	assignees, err := s.employees.FindByIDsForTenant(ctx, task.TenantID, task.AssigneeIDs)
	if err != nil {
		s.logger.Error("failed to load task assignees", zap.String("task_id", task.ID.String()), zap.Error(err))
		result.Details.Errors = append(result.Details.Errors, ReminderError{
			Task:  task.ID,
			Error: "failed to load assignees",
		})
		return
	}

	days, _ := task.DaysUntilDue(now)
	overdue := task.DueDate.Before(now)
	for _, employee := range assignees {
		if !employee.HasEmail() {
			continue
		}
		key := ReminderKey(task.ID, employee.ID, now)
		if s.idempotency != nil {
			done, err := s.idempotency.IsProcessed(ctx, key)
			if err != nil {
				s.logger.Warn("idempotency check failed, sending anyway", zap.String("key", key), zap.Error(err))
			} else if done {
				result.Details.AlreadySent++
				continue
			}
		}

		msg := Message{
			Kind: KindDeadlineReminder,
			To:   Recipient{Email: employee.Email, Name: employee.Name},
			Data: DeadlineReminderData{
				EmployeeName:    employee.Name,
				TaskID:          task.ID,
				TaskTitle:       task.Title,
				TaskDescription: task.Description,
				ProjectName:     c.ProjectName,
				DueDate:         *task.DueDate,
				DaysUntilDue:    days,
				Overdue:         overdue,
			},
		}
		if err := s.notifier.Send(ctx, msg); err != nil {
			s.logger.Warn("failed to send deadline reminder",
				zap.String("task_id", task.ID.String()),
				zap.String("to", employee.Email),
				zap.Error(err),
			)
			result.Details.Errors = append(result.Details.Errors, ReminderError{
				Task:     task.ID,
				Employee: employee.Email,
				Error:    err.Error(),
			})
			continue
		}
		if s.idempotency != nil {
			if _, err := s.idempotency.MarkProcessed(ctx, key, reminderKeyTTL); err != nil {
				s.logger.Warn("failed to record sent reminder", zap.String("key", key), zap.Error(err))
			}
		}
		result.Details.Sent = append(result.Details.Sent, SentReminder{
			Task:         task.Title,
			Employee:     employee.Name,
			DaysUntilDue: days,
			IsOverdue:    overdue,
		})
	}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}
