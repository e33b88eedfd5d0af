package project

import (
	"context"
	"testing"

	"github.com/bizledger/backend/internal/domain/identity"
	"github.com/bizledger/backend/internal/domain/project"
	"github.com/bizledger/backend/internal/domain/workforce"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store     *memStore
	publisher *recordingPublisher
	tenantID  uuid.UUID
	admin     identity.Actor
	project   *project.Project
	alice     *workforce.Employee
	bob       *workforce.Employee
	tasks     *TaskService
	approvals *ApprovalService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := newMemStore()
	tenantID := uuid.New()

	f := &fixture{
		store:     store,
		publisher: &recordingPublisher{},
		tenantID:  tenantID,
	}
	f.alice = f.addEmployee(t, "Alice Doe", "alice@example.com")
	f.bob = f.addEmployee(t, "Bob Roe", "bob@example.com")
	f.admin = identity.Actor{
		UserID:     uuid.New(),
		CompanyID:  tenantID,
		UserType:   identity.UserTypeAdmin,
		EmployeeID: &f.alice.ID,
		Email:      "owner@example.com",
		Name:       "Olivia Owner",
	}

	p, err := project.NewProject(tenantID, project.Details{Name: "Website", Status: project.StatusActive})
	require.NoError(t, err)
	require.NoError(t, store.ProjectRepo().Save(context.Background(), p))
	f.project = p

	attributor := NewAttributor(store.EmployeeRepo(), false)
	f.tasks = NewTaskService(store.taskRepos(), store, attributor, nil)
	f.tasks.SetEventPublisher(f.publisher)
	f.approvals = NewApprovalService(store.TaskRepo(), store, attributor, nil)
	f.approvals.SetEventPublisher(f.publisher)
	return f
}

func (f *fixture) addEmployee(t *testing.T, name, email string) *workforce.Employee {
	t.Helper()
	e, err := workforce.NewEmployee(f.tenantID, workforce.EmployeeDetails{Name: name, Email: email})
	require.NoError(t, err)
	require.NoError(t, f.store.EmployeeRepo().Save(context.Background(), e))
	return e
}

func (f *fixture) createTask(t *testing.T, title string, assignees ...uuid.UUID) *TaskResponse {
	t.Helper()
	resp, err := f.tasks.Create(context.Background(), f.admin, CreateTaskRequest{
		ProjectID:         f.project.ID,
		AssigneeIDs:       assignees,
		UpdateTaskRequest: UpdateTaskRequest{Title: title},
	})
	require.NoError(t, err)
	return resp
}

func (f *fixture) moveTo(t *testing.T, taskID uuid.UUID, statuses ...project.TaskStatus) {
	t.Helper()
	for _, s := range statuses {
		_, err := f.tasks.UpdateStatus(context.Background(), f.admin, taskID, UpdateStatusRequest{Status: string(s)})
		require.NoError(t, err)
	}
}
