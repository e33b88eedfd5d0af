package project

import (
	"fmt"
	"strings"
	"time"

	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LogSource says who wrote a daily log
type LogSource string

const (
	LogSourceSystem LogSource = "SYSTEM"
	LogSourceManual LogSource = "MANUAL"
)

// DailyLog is one timeline entry of a project
type DailyLog struct {
	shared.TenantAggregateRoot
	ProjectID   uuid.UUID
	TaskID      *uuid.UUID
	EmployeeID  uuid.UUID
	Date        time.Time
	Description string
	HoursSpent  *decimal.Decimal
	Source      LogSource
}

// NewSystemLog records an automatic workflow entry
func NewSystemLog(tenantID, projectID uuid.UUID, taskID *uuid.UUID, employeeID uuid.UUID, description string, at time.Time) *DailyLog {
	return &DailyLog{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ProjectID:           projectID,
		TaskID:              taskID,
		EmployeeID:          employeeID,
		Date:                at,
		Description:         description,
		Source:              LogSourceSystem,
	}
}

// NewManualLog records a work entry written by a person
func NewManualLog(tenantID, projectID uuid.UUID, taskID *uuid.UUID, employeeID uuid.UUID, description string, hours *decimal.Decimal, date time.Time) (*DailyLog, error) {
	l := &DailyLog{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ProjectID:           projectID,
		TaskID:              taskID,
		EmployeeID:          employeeID,
		Date:                date,
		Source:              LogSourceManual,
	}
	if err := l.Edit(description, hours); err != nil {
		return nil, err
	}
	return l, nil
}

// Edit changes the description and hours of a log
func (l *DailyLog) Edit(description string, hours *decimal.Decimal) error {
	description = strings.TrimSpace(description)
	if description == "" {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description is required")
	}
	if hours != nil && (hours.IsNegative() || hours.GreaterThan(decimal.NewFromInt(24))) {
		return shared.NewDomainError("INVALID_HOURS", "Hours must be between 0 and 24")
	}
	l.Description = description
	l.HoursSpent = hours
	l.Touch()
	return nil
}

// CreatedTaskMessage is the system log text for a new task
func CreatedTaskMessage(title string) string {
	return fmt.Sprintf("Created task: %s", title)
}

// StatusChangedMessage is the system log text for a status move
func StatusChangedMessage(status TaskStatus, title string) string {
	return fmt.Sprintf("Updated status to %s: %s", status, title)
}

// ApprovalMessage is the system log text for a reviewer verdict
func ApprovalMessage(verdict ApprovalStatus, approver, title, note string) string {
	var msg string
	switch verdict {
	case ApprovalApproved:
		msg = fmt.Sprintf("Task approved by %s: %s", approver, title)
	default:
		msg = fmt.Sprintf("Task rejected by %s: %s", approver, title)
	}
	if note = strings.TrimSpace(note); note != "" {
		msg += " - " + note
	}
	return msg
}

// ChangesRequestedMessage is the system log text when a reviewer sends a task back
func ChangesRequestedMessage(approver, title, feedback string) string {
	return fmt.Sprintf("Changes requested by %s: %s - %s", approver, title, strings.TrimSpace(feedback))
}

// AssignedMessage is the system log text for a new assignee
func AssignedMessage(employeeName, title string) string {
	return fmt.Sprintf("Assigned %s to task: %s", employeeName, title)
}
