package ledger

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/bizledger/backend/internal/domain/ledger"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/bizledger/backend/internal/domain/workforce"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var errStoreDown = errors.New("store unavailable")

// memStore is an in-memory ledger used by service tests. Its transaction
// scope snapshots state and restores it when fn fails.
type memStore struct {
	mu           sync.Mutex
	accounts     map[uuid.UUID]ledger.Account
	categories   map[uuid.UUID]ledger.Category
	tags         map[uuid.UUID]ledger.Tag
	expenditures map[uuid.UUID]ledger.Expenditure
	incomes      map[uuid.UUID]ledger.Income
	employees    map[uuid.UUID]workforce.Employee

	failAdjust bool
}

func newMemStore() *memStore {
	return &memStore{
		accounts:     map[uuid.UUID]ledger.Account{},
		categories:   map[uuid.UUID]ledger.Category{},
		tags:         map[uuid.UUID]ledger.Tag{},
		expenditures: map[uuid.UUID]ledger.Expenditure{},
		incomes:      map[uuid.UUID]ledger.Income{},
		employees:    map[uuid.UUID]workforce.Employee{},
	}
}

func (m *memStore) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	snap := m.snapshot()
	if err := fn(m); err != nil {
		m.restore(snap)
		return err
	}
	return nil
}

func (m *memStore) AccountRepo() ledger.AccountRepository         { return (*memAccounts)(m) }
func (m *memStore) CategoryRepo() ledger.CategoryRepository       { return (*memCategories)(m) }
func (m *memStore) ExpenditureRepo() ledger.ExpenditureRepository { return (*memExpenditures)(m) }
func (m *memStore) IncomeRepo() ledger.IncomeRepository           { return (*memIncomes)(m) }
func (m *memStore) TagRepo() ledger.TagRepository                 { return (*memTags)(m) }
func (m *memStore) EmployeeRepo() workforce.EmployeeRepository    { return (*memEmployees)(m) }

func (m *memStore) repos() EntryRepositories {
	return EntryRepositories{
		Accounts:     m.AccountRepo(),
		Categories:   m.CategoryRepo(),
		Tags:         m.TagRepo(),
		Expenditures: m.ExpenditureRepo(),
		Incomes:      m.IncomeRepo(),
		Employees:    m.EmployeeRepo(),
	}
}

type memSnapshot struct {
	accounts     map[uuid.UUID]ledger.Account
	categories   map[uuid.UUID]ledger.Category
	expenditures map[uuid.UUID]ledger.Expenditure
	incomes      map[uuid.UUID]ledger.Income
}

func (m *memStore) snapshot() memSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return memSnapshot{
		accounts:     cloneMap(m.accounts),
		categories:   cloneMap(m.categories),
		expenditures: cloneMap(m.expenditures),
		incomes:      cloneMap(m.incomes),
	}
}

func (m *memStore) restore(s memSnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts = s.accounts
	m.categories = s.categories
	m.expenditures = s.expenditures
	m.incomes = s.incomes
}

func cloneMap[K comparable, V any](in map[K]V) map[K]V {
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// derivedBalance recomputes an account balance from its entries
func (m *memStore) derivedBalance(accountID uuid.UUID) decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	acc := m.accounts[accountID]
	bal := acc.InitialBalance
	for _, i := range m.incomes {
		if i.AccountID == accountID {
			bal = bal.Add(i.Amount)
		}
	}
	for _, e := range m.expenditures {
		if e.AccountID == accountID {
			bal = bal.Sub(e.Amount)
		}
	}
	return bal
}

type memAccounts memStore

func (r *memAccounts) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*ledger.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok || a.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return &a, nil
}

func (r *memAccounts) FindAllForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]ledger.Account, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []ledger.Account
	for _, a := range r.accounts {
		if a.TenantID == tenantID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, int64(len(out)), nil
}

func (r *memAccounts) Save(_ context.Context, a *ledger.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accounts[a.ID] = *a
	return nil
}

func (r *memAccounts) DeleteForTenant(_ context.Context, tenantID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.accounts[id]; !ok || a.TenantID != tenantID {
		return shared.ErrNotFound
	}
	delete(r.accounts, id)
	return nil
}

func (r *memAccounts) AdjustBalance(_ context.Context, tenantID, id uuid.UUID, delta decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAdjust {
		return errStoreDown
	}
	a, ok := r.accounts[id]
	if !ok || a.TenantID != tenantID {
		return shared.ErrNotFound
	}
	a.Balance = a.Balance.Add(delta)
	r.accounts[id] = a
	return nil
}

func (r *memAccounts) CountEntries(_ context.Context, tenantID, id uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, e := range r.expenditures {
		if e.TenantID == tenantID && e.AccountID == id {
			n++
		}
	}
	for _, i := range r.incomes {
		if i.TenantID == tenantID && i.AccountID == id {
			n++
		}
	}
	return n, nil
}

type memCategories memStore

func (r *memCategories) FindVisible(_ context.Context, tenantID, id uuid.UUID) (*ledger.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.categories[id]
	if !ok || !c.VisibleTo(tenantID) {
		return nil, shared.ErrNotFound
	}
	return &c, nil
}

func (r *memCategories) FindAllVisible(_ context.Context, tenantID uuid.UUID, t *ledger.CategoryType) ([]ledger.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []ledger.Category
	for _, c := range r.categories {
		if !c.VisibleTo(tenantID) {
			continue
		}
		if t != nil && !c.AppliesTo(*t) {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memCategories) ExistsByName(_ context.Context, tenantID uuid.UUID, name string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.categories {
		if c.VisibleTo(tenantID) && strings.EqualFold(c.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (r *memCategories) Save(_ context.Context, c *ledger.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.categories[c.ID] = *c
	return nil
}

func (r *memCategories) DeleteForTenant(_ context.Context, tenantID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.categories[id]
	if !ok || c.TenantID == nil || *c.TenantID != tenantID {
		return shared.ErrNotFound
	}
	delete(r.categories, id)
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

func (r *memTags) FindByIDsForTenant(_ context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]ledger.Tag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []ledger.Tag
	for _, id := range ids {
		if t, ok := r.tags[id]; ok && t.TenantID == tenantID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *memTags) FindAllForTenant(_ context.Context, tenantID uuid.UUID) ([]ledger.Tag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []ledger.Tag
	for _, t := range r.tags {
		if t.TenantID == tenantID {
			out = append(out, t)
		}
	}
	return out, nil
}

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

func (r *memTags) DeleteForTenant(_ context.Context, tenantID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.tags[id]; !ok || t.TenantID != tenantID {
		return shared.ErrNotFound
	}
	delete(r.tags, id)
	return nil
}

type memExpenditures memStore

func (r *memExpenditures) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*ledger.Expenditure, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.expenditures[id]
	if !ok || e.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return &e, nil
}

func (r *memExpenditures) FindAllForTenant(_ context.Context, tenantID uuid.UUID, _ ledger.EntryFilter) ([]ledger.Expenditure, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []ledger.Expenditure
	for _, e := range r.expenditures {
		if e.TenantID == tenantID {
			out = append(out, e)
		}
	}
	return out, int64(len(out)), nil
}

func (r *memExpenditures) Create(_ context.Context, e *ledger.Expenditure) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *e
	stored.ClearDomainEvents()
	r.expenditures[e.ID] = stored
	return nil
}

func (r *memExpenditures) DeleteForTenant(_ context.Context, tenantID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.expenditures[id]; !ok || e.TenantID != tenantID {
		return shared.ErrNotFound
	}
	delete(r.expenditures, id)
	return nil
}

func (r *memExpenditures) UnlinkCategory(_ context.Context, tenantID, categoryID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, e := range r.expenditures {
		if e.TenantID == tenantID && e.CategoryID != nil && *e.CategoryID == categoryID {
			e.CategoryID = nil
			r.expenditures[id] = e
		}
	}
	return nil
}

func (r *memExpenditures) UnlinkEmployee(_ context.Context, tenantID, employeeID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, e := range r.expenditures {
		if e.TenantID == tenantID && e.EmployeeID != nil && *e.EmployeeID == employeeID {
			e.EmployeeID = nil
			r.expenditures[id] = e
		}
	}
	return nil
}

type memIncomes memStore

func (r *memIncomes) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*ledger.Income, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.incomes[id]
	if !ok || i.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return &i, nil
}

func (r *memIncomes) FindAllForTenant(_ context.Context, tenantID uuid.UUID, _ ledger.EntryFilter) ([]ledger.Income, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []ledger.Income
	for _, i := range r.incomes {
		if i.TenantID == tenantID {
			out = append(out, i)
		}
	}
	return out, int64(len(out)), nil
}

func (r *memIncomes) Create(_ context.Context, i *ledger.Income) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *i
	stored.ClearDomainEvents()
	r.incomes[i.ID] = stored
	return nil
}

func (r *memIncomes) DeleteForTenant(_ context.Context, tenantID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i, ok := r.incomes[id]; !ok || i.TenantID != tenantID {
		return shared.ErrNotFound
	}
	delete(r.incomes, id)
	return nil
}

func (r *memIncomes) UnlinkCategory(_ context.Context, tenantID, categoryID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, i := range r.incomes {
		if i.TenantID == tenantID && i.CategoryID != nil && *i.CategoryID == categoryID {
			i.CategoryID = nil
			r.incomes[id] = i
		}
	}
	return nil
}

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

func (r *memEmployees) FindByIDsForTenant(context.Context, uuid.UUID, []uuid.UUID) ([]workforce.Employee, error) {
	return nil, nil
}

func (r *memEmployees) FindAllForTenant(context.Context, uuid.UUID, workforce.EmployeeFilter) ([]workforce.Employee, int64, error) {
	return nil, 0, nil
}

func (r *memEmployees) FindByEmailForTenant(context.Context, uuid.UUID, string) (*workforce.Employee, error) {
	return nil, shared.ErrNotFound
}

func (r *memEmployees) FindFirstForTenant(context.Context, uuid.UUID) (*workforce.Employee, error) {
	return nil, shared.ErrNotFound
}

func (r *memEmployees) Save(_ context.Context, e *workforce.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.employees[e.ID] = *e
	return nil
}

func (r *memEmployees) DeleteForTenant(context.Context, uuid.UUID, uuid.UUID) error {
	return nil
}
