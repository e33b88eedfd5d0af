package project

import (
	"context"
	"testing"

	"github.com/bizledger/backend/internal/domain/project"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func logDescriptions(f *fixture, taskID uuid.UUID) []string {
	var out []string
	for _, l := range f.store.logsFor(taskID) {
		out = append(out, l.Description)
	}
	return out
}

func TestApprovalService_OnlyReviewedOrCompletedTasks(t *testing.T) {
	f := newFixture(t)
	task := f.createTask(t, "Copywriting", f.bob.ID)

	_, err := f.approvals.Approve(context.Background(), f.admin, task.ID, DecisionRequest{})
	assert.ErrorIs(t, err, shared.ErrInvalidState)

	f.moveTo(t, task.ID, project.TaskStatusInProgress)
	_, err = f.approvals.Reject(context.Background(), f.admin, task.ID, DecisionRequest{Note: "nope"})
	assert.ErrorIs(t, err, shared.ErrInvalidState)

	stored, _ := f.store.storedTask(task.ID)
	assert.Nil(t, stored.ApprovalStatus)
}

func TestApprovalService_ApproveInReview(t *testing.T) {
	f := newFixture(t)
	task := f.createTask(t, "Copywriting", f.bob.ID)
	f.moveTo(t, task.ID, project.TaskStatusInProgress, project.TaskStatusInReview)

	resp, err := f.approvals.Approve(context.Background(), f.admin, task.ID, DecisionRequest{Note: "great"})
	require.NoError(t, err)
	require.NotNil(t, resp.ApprovalStatus)
	assert.Equal(t, "APPROVED", *resp.ApprovalStatus)
	assert.Equal(t, "IN_REVIEW", resp.Status)

	assert.Contains(t, logDescriptions(f, task.ID), "Task approved by Olivia Owner: Copywriting - great")
	assert.Contains(t, f.publisher.types(), project.EventTypeTaskApprovalDecided)
}

func TestApprovalService_CompletedTaskCanStillBeRejected(t *testing.T) {
	f := newFixture(t)
	task := f.createTask(t, "Logo", f.bob.ID)
	f.moveTo(t, task.ID, project.TaskStatusInProgress, project.TaskStatusInReview, project.TaskStatusCompleted)

	anonymous := f.admin
	anonymous.Name = ""
	resp, err := f.approvals.Reject(context.Background(), anonymous, task.ID, DecisionRequest{})
	require.NoError(t, err)
	assert.Equal(t, "REJECTED", *resp.ApprovalStatus)
	assert.Equal(t, "COMPLETED", resp.Status)
	assert.Contains(t, logDescriptions(f, task.ID), "Task rejected by Admin: Logo")
}

func TestApprovalService_RequestChangesReopensTask(t *testing.T) {
	f := newFixture(t)
	task := f.createTask(t, "Pricing page", f.bob.ID)
	f.moveTo(t, task.ID, project.TaskStatusInProgress, project.TaskStatusInReview)

	resp, err := f.approvals.RequestChanges(context.Background(), f.admin, task.ID, DecisionRequest{Note: "fix the table"})
	require.NoError(t, err)
	assert.Equal(t, "IN_PROGRESS", resp.Status)
	assert.Equal(t, "REJECTED", *resp.ApprovalStatus)
	assert.Contains(t, logDescriptions(f, task.ID), "Changes requested by Olivia Owner: Pricing page - fix the table")

	_, err = f.approvals.RequestChanges(context.Background(), f.admin, task.ID, DecisionRequest{Note: "again"})
	assert.ErrorIs(t, err, project.ErrInvalidTransition)
}
