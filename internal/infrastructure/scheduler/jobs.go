package scheduler

import (
	"context"
	"time"

	"github.com/bizledger/backend/internal/application/notification"
	recurrenceapp "github.com/bizledger/backend/internal/application/recurrence"
	"go.uber.org/zap"
)

// Job names, also accepted by TriggerNow
const (
	JobRecurring = "recurring-transactions"
	JobReminders = "task-reminders"
)

// RecurringProcessor materializes due recurring templates across tenants
type RecurringProcessor interface {
	ProcessAllTenants(ctx context.Context, now time.Time) (*recurrenceapp.ProcessResult, error)
}

// ReminderSender emails deadline reminders
type ReminderSender interface {
	SendDue(ctx context.Context, now time.Time) (*notification.ReminderResult, error)
}

// RecurringJob wraps a processor as a daily job
func RecurringJob(schedule DailySchedule, p RecurringProcessor, logger *zap.Logger) Job {
	return Job{
		Name:     JobRecurring,
		Schedule: schedule,
		Run: func(ctx context.Context, now time.Time) error {
			res, err := p.ProcessAllTenants(ctx, now)
			if err != nil {
				return err
			}
			logger.Info("recurring transactions processed",
				zap.Int("processed", res.Processed),
				zap.Int("deactivated", res.Deactivated),
				zap.Int("skipped", res.Skipped),
				zap.Int("failed", res.Failed),
			)
			return nil
		},
	}
}

// ReminderJob wraps a reminder sender as a daily job
func ReminderJob(schedule DailySchedule, s ReminderSender, logger *zap.Logger) Job {
	return Job{
		Name:     JobReminders,
		Schedule: schedule,
		Run: func(ctx context.Context, now time.Time) error {
			res, err := s.SendDue(ctx, now)
			if err != nil {
				return err
			}
			logger.Info("task reminders sent",
				zap.Int("emails_sent", res.EmailsSent),
				zap.Int("errors", res.Errors),
				zap.Int("already_sent", res.Details.AlreadySent),
			)
			return nil
		},
	}
}
