package project

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bizledger/backend/internal/domain/ledger"
	"github.com/bizledger/backend/internal/domain/project"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/bizledger/backend/internal/domain/workforce"
	"github.com/google/uuid"
)

var errStoreDown = errors.New("store unavailable")

// memStore is an in-memory project store. Its transaction scope snapshots
// state and restores it when fn fails.
type memStore struct {
	mu        sync.Mutex
	projects  map[uuid.UUID]project.Project
	tasks     map[uuid.UUID]project.Task
	logs      map[uuid.UUID]project.DailyLog
	members   map[[2]uuid.UUID]project.Member
	modules   map[uuid.UUID]project.Module
	documents map[uuid.UUID]project.Document
	tags      map[uuid.UUID]ledger.Tag
	employees map[uuid.UUID]workforce.Employee

	failLogSave bool
}

func newMemStore() *memStore {
	return &memStore{
		projects:  map[uuid.UUID]project.Project{},
		tasks:     map[uuid.UUID]project.Task{},
		logs:      map[uuid.UUID]project.DailyLog{},
		members:   map[[2]uuid.UUID]project.Member{},
		modules:   map[uuid.UUID]project.Module{},
		documents: map[uuid.UUID]project.Document{},
		tags:      map[uuid.UUID]ledger.Tag{},
		employees: map[uuid.UUID]workforce.Employee{},
	}
}

type memSnapshot struct {
	projects map[uuid.UUID]project.Project
	tasks    map[uuid.UUID]project.Task
	logs     map[uuid.UUID]project.DailyLog
	tags     map[uuid.UUID]ledger.Tag
}

func (m *memStore) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	m.mu.Lock()
	snap := memSnapshot{
		projects: copyMap(m.projects),
		tasks:    copyMap(m.tasks),
		logs:     copyMap(m.logs),
		tags:     copyMap(m.tags),
	}
	m.mu.Unlock()
	if err := fn(m); err != nil {
		m.mu.Lock()
		m.projects, m.tasks, m.logs, m.tags = snap.projects, snap.tasks, snap.logs, snap.tags
		m.mu.Unlock()
		return err
	}
	return nil
}

func copyMap[K comparable, V any](in map[K]V) map[K]V {
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func (m *memStore) ProjectRepo() project.ProjectRepository     { return (*memProjects)(m) }
func (m *memStore) TaskRepo() project.TaskRepository           { return (*memTasks)(m) }
func (m *memStore) DailyLogRepo() project.DailyLogRepository   { return (*memLogs)(m) }
func (m *memStore) MemberRepo() project.MemberRepository       { return (*memMembers)(m) }
func (m *memStore) ModuleRepo() project.ModuleRepository       { return (*memModules)(m) }
func (m *memStore) TagRepo() ledger.TagRepository              { return (*memTags)(m) }
func (m *memStore) DocumentRepo() project.DocumentRepository   { return (*memDocuments)(m) }
func (m *memStore) EmployeeRepo() workforce.EmployeeRepository { return (*memEmployees)(m) }

func (m *memStore) taskRepos() TaskRepositories {
	return TaskRepositories{
		Projects:  m.ProjectRepo(),
		Tasks:     m.TaskRepo(),
		Modules:   m.ModuleRepo(),
		Employees: m.EmployeeRepo(),
	}
}

func (m *memStore) logsFor(taskID uuid.UUID) []project.DailyLog {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []project.DailyLog
	for _, l := range m.logs {
		if l.TaskID != nil && *l.TaskID == taskID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (m *memStore) storedTask(id uuid.UUID) (project.Task, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	return t, ok
}

func cloneTask(t project.Task) project.Task {
	t.AssigneeIDs = append([]uuid.UUID(nil), t.AssigneeIDs...)
	return t
}

type memProjects memStore

func (r *memProjects) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*project.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[id]
	if !ok || p.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return &p, nil
}

func (r *memProjects) FindAllForTenant(_ context.Context, tenantID uuid.UUID, filter project.ProjectFilter) ([]project.Project, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []project.Project
	for _, p := range r.projects {
		if p.TenantID != tenantID {
			continue
		}
		if filter.ClientID != nil && (p.ClientID == nil || *p.ClientID != *filter.ClientID) {
			continue
		}
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (r *memProjects) Save(_ context.Context, p *project.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.projects[p.ID] = *p
	return nil
}

func (r *memProjects) DeleteForTenant(_ context.Context, _ uuid.UUID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.projects, id)
	return nil
}

type memTasks memStore

func (r *memTasks) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*project.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok || t.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	c := cloneTask(t)
	return &c, nil
}

func (r *memTasks) FindAllForTenant(_ context.Context, tenantID uuid.UUID, filter project.TaskFilter) ([]project.Task, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []project.Task
	for _, t := range r.tasks {
		if t.TenantID != tenantID {
			continue
		}
		if filter.ProjectID != nil && t.ProjectID != *filter.ProjectID {
			continue
		}
		if filter.ClientVisible != nil && t.IsClientVisible != *filter.ClientVisible {
			continue
		}
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		if filter.AssigneeID != nil && !t.HasAssignee(*filter.AssigneeID) {
			continue
		}
		out = append(out, cloneTask(t))
	}
	return out, int64(len(out)), nil
}

func (r *memTasks) Create(_ context.Context, t *project.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks[t.ID] = cloneTask(*t)
	return nil
}

// Update writes scalar fields only; the assignee set is owned by the join rows
func (r *memTasks) Update(_ context.Context, t *project.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.tasks[t.ID]
	if !ok {
		return shared.ErrNotFound
	}
	next := cloneTask(*t)
	next.AssigneeIDs = stored.AssigneeIDs
	r.tasks[t.ID] = next
	return nil
}

func (r *memTasks) AddAssignee(_ context.Context, _ uuid.UUID, taskID, employeeID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := r.tasks[taskID]
	t.AssigneeIDs = append(append([]uuid.UUID(nil), t.AssigneeIDs...), employeeID)
	r.tasks[taskID] = t
	return nil
}

func (r *memTasks) RemoveAssignee(_ context.Context, _ uuid.UUID, taskID, employeeID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := r.tasks[taskID]
	var kept []uuid.UUID
	for _, id := range t.AssigneeIDs {
		if id != employeeID {
			kept = append(kept, id)
		}
	}
	t.AssigneeIDs = kept
	r.tasks[taskID] = t
	return nil
}

func (r *memTasks) DeleteForTenant(_ context.Context, _ uuid.UUID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tasks, id)
	return nil
}

func (r *memTasks) RemoveEmployee(context.Context, uuid.UUID, uuid.UUID) error { return nil }

func (r *memTasks) FindNeedingReminders(context.Context, time.Time) ([]project.ReminderCandidate, error) {
	return nil, nil
}

type memLogs memStore

func (r *memLogs) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*project.DailyLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.logs[id]
	if !ok || l.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return &l, nil
}

func (r *memLogs) Timeline(_ context.Context, tenantID, projectID uuid.UUID, _, _ *time.Time) ([]project.TimelineEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []project.TimelineEntry
	for _, l := range r.logs {
		if l.TenantID == tenantID && l.ProjectID == projectID {
			out = append(out, project.TimelineEntry{Log: l, EmployeeName: r.employees[l.EmployeeID].Name})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Log.Date.After(out[j].Log.Date) })
	return out, nil
}

func (r *memLogs) Save(_ context.Context, l *project.DailyLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failLogSave {
		return errStoreDown
	}
	r.logs[l.ID] = *l
	return nil
}

func (r *memLogs) DeleteForTenant(_ context.Context, _ uuid.UUID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.logs, id)
	return nil
}

type memMembers memStore

func (r *memMembers) FindByProject(_ context.Context, tenantID, projectID uuid.UUID) ([]project.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []project.Member
	for _, m := range r.members {
		if m.TenantID == tenantID && m.ProjectID == projectID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memMembers) Exists(_ context.Context, tenantID, projectID, employeeID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.members[[2]uuid.UUID{projectID, employeeID}]
	return ok && m.TenantID == tenantID, nil
}

func (r *memMembers) Add(_ context.Context, m *project.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.members[[2]uuid.UUID{m.ProjectID, m.EmployeeID}] = *m
	return nil
}

func (r *memMembers) Remove(_ context.Context, _ uuid.UUID, projectID, employeeID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.members, [2]uuid.UUID{projectID, employeeID})
	return nil
}

func (r *memMembers) RemoveEmployee(context.Context, uuid.UUID, uuid.UUID) error { return nil }

type memModules memStore

func (r *memModules) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*project.Module, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.modules[id]
	if !ok || m.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return &m, nil
}

func (r *memModules) FindByProject(_ context.Context, tenantID, projectID uuid.UUID) ([]project.Module, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []project.Module
	for _, m := range r.modules {
		if m.TenantID == tenantID && m.ProjectID == projectID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

func (r *memModules) Save(_ context.Context, m *project.Module) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.modules[m.ID] = *m
	return nil
}

func (r *memModules) DeleteForTenant(_ context.Context, _ uuid.UUID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.modules, id)
	for tid, t := range r.tasks {
		if t.ModuleID != nil && *t.ModuleID == id {
			t.ModuleID = nil
			r.tasks[tid] = t
		}
	}
	return nil
}

type memDocuments memStore

func (r *memDocuments) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*project.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.documents[id]
	if !ok || d.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return &d, nil
}

func (r *memDocuments) FindByProject(_ context.Context, tenantID, projectID uuid.UUID) ([]project.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []project.Document
	for _, d := range r.documents {
		if d.TenantID == tenantID && d.ProjectID == projectID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *memDocuments) Save(_ context.Context, d *project.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.documents[d.ID] = *d
	return nil
}

func (r *memDocuments) DeleteForTenant(_ context.Context, _ uuid.UUID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.documents, id)
	return nil
}

type memTags memStore

func (r *memTags) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*ledger.Tag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tags[id]
	if !ok || t.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return &t, nil
}

func (r *memTags) FindByIDsForTenant(context.Context, uuid.UUID, []uuid.UUID) ([]ledger.Tag, error) {
	return nil, nil
}

func (r *memTags) FindAllForTenant(context.Context, uuid.UUID) ([]ledger.Tag, error) { return nil, nil }

func (r *memTags) FindByProject(_ context.Context, tenantID, projectID uuid.UUID) (*ledger.Tag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tags {
		if t.TenantID == tenantID && t.ProjectID != nil && *t.ProjectID == projectID {
			return &t, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memTags) Save(_ context.Context, t *ledger.Tag) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tags[t.ID] = *t
	return nil
}

func (r *memTags) DeleteForTenant(context.Context, uuid.UUID, uuid.UUID) error { return nil }

type memEmployees memStore

func (r *memEmployees) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*workforce.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.employees[id]
	if !ok || e.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return &e, nil
}

func (r *memEmployees) FindByIDsForTenant(_ context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]workforce.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []workforce.Employee
	for _, id := range ids {
		if e, ok := r.employees[id]; ok && e.TenantID == tenantID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memEmployees) FindAllForTenant(context.Context, uuid.UUID, workforce.EmployeeFilter) ([]workforce.Employee, int64, error) {
	return nil, 0, nil
}

func (r *memEmployees) FindByEmailForTenant(_ context.Context, tenantID uuid.UUID, email string) (*workforce.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.employees {
		if e.TenantID == tenantID && strings.EqualFold(e.Email, email) {
			return &e, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memEmployees) FindFirstForTenant(_ context.Context, tenantID uuid.UUID) (*workforce.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var first *workforce.Employee
	for _, e := range r.employees {
		if e.TenantID != tenantID {
			continue
		}
		if first == nil || e.CreatedAt.Before(first.CreatedAt) {
			c := e
			first = &c
		}
	}
	if first == nil {
		return nil, shared.ErrNotFound
	}
	return first, nil
}

func (r *memEmployees) Save(_ context.Context, e *workforce.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.employees[e.ID] = *e
	return nil
}

func (r *memEmployees) DeleteForTenant(context.Context, uuid.UUID, uuid.UUID) error { return nil }

// recordingPublisher keeps every published event
type recordingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}
