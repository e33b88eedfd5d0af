package notification

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bizledger/backend/internal/domain/project"
	"github.com/bizledger/backend/internal/domain/recurrence"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/bizledger/backend/internal/domain/workforce"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockNotifier records sends through testify/mock
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Send(ctx context.Context, msg Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// kindTo matches a message by kind and recipient address
func kindTo(kind Kind, email string) interface{} {
	return mock.MatchedBy(func(msg Message) bool {
		return msg.Kind == kind && msg.To.Email == email
	})
}

type fakeTasks struct {
	project.TaskRepository
	tasks      map[uuid.UUID]*project.Task
	candidates []project.ReminderCandidate
	horizon    time.Time
	findErr    error
}

func (f *fakeTasks) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*project.Task, error) {
	t, ok := f.tasks[id]
	if !ok || t.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return t, nil
}

func (f *fakeTasks) FindNeedingReminders(_ context.Context, horizon time.Time) ([]project.ReminderCandidate, error) {
	f.horizon = horizon
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.candidates, nil
}

type fakeProjects struct {
	project.ProjectRepository
	projects map[uuid.UUID]*project.Project
}

func (f *fakeProjects) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*project.Project, error) {
	p, ok := f.projects[id]
	if !ok || p.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return p, nil
}

type fakeEmployees struct {
	workforce.EmployeeRepository
	employees map[uuid.UUID]*workforce.Employee
	failIDs   bool
}

func (f *fakeEmployees) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*workforce.Employee, error) {
	e, ok := f.employees[id]
	if !ok || e.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return e, nil
}

func (f *fakeEmployees) FindByIDsForTenant(_ context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]workforce.Employee, error) {
	if f.failIDs {
		return nil, errors.New("connection reset")
	}
	var out []workforce.Employee
	for _, id := range ids {
		if e, ok := f.employees[id]; ok && e.TenantID == tenantID {
			out = append(out, *e)
		}
	}
	return out, nil
}

type fakeTemplates struct {
	recurrence.Repository
	templates map[uuid.UUID]*recurrence.RecurringTransaction
}

func (f *fakeTemplates) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*recurrence.RecurringTransaction, error) {
	rt, ok := f.templates[id]
	if !ok || rt.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return rt, nil
}

// memIdempotency is a map-backed shared.IdempotencyStore
type memIdempotency struct {
	mu   sync.Mutex
	keys map[string]bool
}

func newMemIdempotency() *memIdempotency {
	return &memIdempotency{keys: map[string]bool{}}
}

func (m *memIdempotency) MarkProcessed(_ context.Context, key string, _ time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.keys[key] {
		return false, nil
	}
	m.keys[key] = true
	return true, nil
}

func (m *memIdempotency) IsProcessed(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.keys[key], nil
}

func (m *memIdempotency) Close() error { return nil }
