package project

import (
	"context"
	"testing"

	"github.com/bizledger/backend/internal/domain/identity"
	"github.com/bizledger/backend/internal/domain/project"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskService_CreateWritesTaskAndLog(t *testing.T) {
	f := newFixture(t)

	resp := f.createTask(t, "Design landing page", f.bob.ID, f.alice.ID)

	assert.Equal(t, "TODO", resp.Status)
	assert.Equal(t, "MEDIUM", resp.Priority)
	require.NotNil(t, resp.AssigneeID)
	assert.Equal(t, f.bob.ID, *resp.AssigneeID)
	assert.Equal(t, []uuid.UUID{f.bob.ID, f.alice.ID}, resp.AssigneeIDs)

	logs := f.store.logsFor(resp.ID)
	require.Len(t, logs, 1)
	assert.Equal(t, "Created task: Design landing page", logs[0].Description)
	assert.Equal(t, project.LogSourceSystem, logs[0].Source)
	assert.Equal(t, f.alice.ID, logs[0].EmployeeID, "credited to the session employee")
	assert.Contains(t, f.publisher.types(), project.EventTypeTaskCreated)
}

func TestTaskService_CreateRollsBackWhenLogFails(t *testing.T) {
	f := newFixture(t)
	f.store.failLogSave = true

	_, err := f.tasks.Create(context.Background(), f.admin, CreateTaskRequest{
		ProjectID:         f.project.ID,
		UpdateTaskRequest: UpdateTaskRequest{Title: "Never stored"},
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrOperationFailed)
	assert.Empty(t, f.store.tasks)
	assert.Empty(t, f.publisher.types())
}

func TestTaskService_CreateRejectsForeignReferences(t *testing.T) {
	f := newFixture(t)

	t.Run("assignee of another company", func(t *testing.T) {
		_, err := f.tasks.Create(context.Background(), f.admin, CreateTaskRequest{
			ProjectID:         f.project.ID,
			AssigneeIDs:       []uuid.UUID{uuid.New()},
			UpdateTaskRequest: UpdateTaskRequest{Title: "Foreign assignee"},
		})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("project of another company", func(t *testing.T) {
		outsider := f.admin
		outsider.CompanyID = uuid.New()
		_, err := f.tasks.Create(context.Background(), outsider, CreateTaskRequest{
			ProjectID:         f.project.ID,
			UpdateTaskRequest: UpdateTaskRequest{Title: "Cross tenant"},
		})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	assert.Empty(t, f.store.tasks)
}

func TestTaskService_UpdateStatus(t *testing.T) {
	f := newFixture(t)
	task := f.createTask(t, "Build API", f.alice.ID)

	t.Run("invalid transition leaves task and log untouched", func(t *testing.T) {
		_, err := f.tasks.UpdateStatus(context.Background(), f.admin, task.ID, UpdateStatusRequest{Status: "COMPLETED"})
		assert.ErrorIs(t, err, project.ErrInvalidTransition)
		stored, _ := f.store.storedTask(task.ID)
		assert.Equal(t, project.TaskStatusTodo, stored.Status)
		assert.Len(t, f.store.logsFor(task.ID), 1)
	})

	t.Run("review submission resets approval", func(t *testing.T) {
		f.moveTo(t, task.ID, project.TaskStatusInProgress, project.TaskStatusInReview)
		stored, _ := f.store.storedTask(task.ID)
		assert.Equal(t, project.TaskStatusInReview, stored.Status)
		require.NotNil(t, stored.ApprovalStatus)
		assert.Equal(t, project.ApprovalPending, *stored.ApprovalStatus)

		logs := f.store.logsFor(task.ID)
		require.Len(t, logs, 3)
		var descriptions []string
		for _, l := range logs {
			descriptions = append(descriptions, l.Description)
		}
		assert.Contains(t, descriptions, "Updated status to IN_REVIEW: Build API")
		assert.Contains(t, f.publisher.types(), project.EventTypeTaskSubmittedForReview)
	})

	t.Run("terminal states are final", func(t *testing.T) {
		f.moveTo(t, task.ID, project.TaskStatusCompleted)
		_, err := f.tasks.UpdateStatus(context.Background(), f.admin, task.ID, UpdateStatusRequest{Status: "IN_PROGRESS"})
		assert.ErrorIs(t, err, project.ErrInvalidTransition)
	})
}

func TestTaskService_AssigneeConsistency(t *testing.T) {
	f := newFixture(t)
	carol := f.addEmployee(t, "Carol Poe", "carol@example.com")
	task := f.createTask(t, "Write docs")
	assert.Nil(t, task.AssigneeID)

	resp, err := f.tasks.Assign(context.Background(), f.admin, task.ID, f.bob.ID)
	require.NoError(t, err)
	require.NotNil(t, resp.AssigneeID)
	assert.Equal(t, f.bob.ID, *resp.AssigneeID)

	_, err = f.tasks.Assign(context.Background(), f.admin, task.ID, carol.ID)
	require.NoError(t, err)

	_, err = f.tasks.Assign(context.Background(), f.admin, task.ID, carol.ID)
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)

	resp, err = f.tasks.Unassign(context.Background(), f.admin, task.ID, f.bob.ID)
	require.NoError(t, err)
	require.NotNil(t, resp.AssigneeID)
	assert.Equal(t, carol.ID, *resp.AssigneeID)

	stored, _ := f.store.storedTask(task.ID)
	assert.Equal(t, []uuid.UUID{carol.ID}, stored.AssigneeIDs)
	require.NotNil(t, stored.AssigneeID)
	assert.True(t, stored.HasAssignee(*stored.AssigneeID), "legacy assignee is always in the set")

	resp, err = f.tasks.Unassign(context.Background(), f.admin, task.ID, carol.ID)
	require.NoError(t, err)
	assert.Nil(t, resp.AssigneeID)
	assert.Empty(t, resp.AssigneeIDs)

	_, err = f.tasks.Unassign(context.Background(), f.admin, task.ID, carol.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestTaskService_AssignForeignEmployee(t *testing.T) {
	f := newFixture(t)
	task := f.createTask(t, "Audit")

	_, err := f.tasks.Assign(context.Background(), f.admin, task.ID, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)

	stored, _ := f.store.storedTask(task.ID)
	assert.Empty(t, stored.AssigneeIDs)
}

func TestTaskService_ModuleMustBelongToProject(t *testing.T) {
	f := newFixture(t)
	other, err := project.NewProject(f.tenantID, project.Details{Name: "Other"})
	require.NoError(t, err)
	require.NoError(t, f.store.ProjectRepo().Save(context.Background(), other))
	m, err := project.NewModule(f.tenantID, other.ID, "Backend", "", 0)
	require.NoError(t, err)
	require.NoError(t, f.store.ModuleRepo().Save(context.Background(), m))

	_, err = f.tasks.Create(context.Background(), f.admin, CreateTaskRequest{
		ProjectID:         f.project.ID,
		UpdateTaskRequest: UpdateTaskRequest{Title: "Wrong module", ModuleID: &m.ID},
	})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestTaskService_ClientSeesOnlyVisibleTasksOfOwnProject(t *testing.T) {
	f := newFixture(t)
	clientID := uuid.New()
	f.project.ClientID = &clientID
	require.NoError(t, f.store.ProjectRepo().Save(context.Background(), f.project))

	visible := f.createTask(t, "Public milestone")
	_, err := f.tasks.SetVisibility(context.Background(), f.admin, visible.ID, VisibilityRequest{IsClientVisible: true})
	require.NoError(t, err)
	hidden := f.createTask(t, "Internal refactor")

	client := identity.Actor{UserID: clientID, CompanyID: f.tenantID, UserType: identity.UserTypeClient}
	rows, total, err := f.tasks.List(context.Background(), client, TaskListFilter{ProjectID: &f.project.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, rows, 1)
	assert.Equal(t, visible.ID, rows[0].ID)

	_, err = f.tasks.Get(context.Background(), client, hidden.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	stranger := identity.Actor{UserID: uuid.New(), CompanyID: f.tenantID, UserType: identity.UserTypeClient}
	_, _, err = f.tasks.List(context.Background(), stranger, TaskListFilter{ProjectID: &f.project.ID})
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = f.tasks.UpdateStatus(context.Background(), client, visible.ID, UpdateStatusRequest{Status: "IN_PROGRESS"})
	assert.ErrorIs(t, err, shared.ErrUnauthorized)
}
