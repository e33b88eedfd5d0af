package recurrence

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bizledger/backend/internal/domain/identity"
	"github.com/bizledger/backend/internal/domain/ledger"
	"github.com/bizledger/backend/internal/domain/recurrence"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLedger is an in-memory store with compare-and-swap claims
type fakeLedger struct {
	mu           sync.Mutex
	templates    map[uuid.UUID]recurrence.RecurringTransaction
	balances     map[uuid.UUID]decimal.Decimal
	expenditures []ledger.Expenditure
	incomes      []ledger.Income
	failCreate   map[uuid.UUID]bool
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		templates:  map[uuid.UUID]recurrence.RecurringTransaction{},
		balances:   map[uuid.UUID]decimal.Decimal{},
		failCreate: map[uuid.UUID]bool{},
	}
}

func (f *fakeLedger) scope() *NoOpTransactionScope {
	return NewNoOpTransactionScope(f, (*fakeAccounts)(f), (*fakeExpenditures)(f), (*fakeIncomes)(f))
}

func (f *fakeLedger) add(rt *recurrence.RecurringTransaction) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.templates[rt.ID] = *rt
	if _, ok := f.balances[rt.AccountID]; !ok {
		f.balances[rt.AccountID] = decimal.Zero
	}
}

func (f *fakeLedger) template(id uuid.UUID) recurrence.RecurringTransaction {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.templates[id]
}

func (f *fakeLedger) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*recurrence.RecurringTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rt, ok := f.templates[id]
	if !ok || rt.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return &rt, nil
}

func (f *fakeLedger) FindAllForTenant(_ context.Context, tenantID uuid.UUID) ([]recurrence.RecurringTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []recurrence.RecurringTransaction
	for _, rt := range f.templates {
		if rt.TenantID == tenantID {
			out = append(out, rt)
		}
	}
	return out, nil
}

func (f *fakeLedger) Save(_ context.Context, rt *recurrence.RecurringTransaction) error {
	f.add(rt)
	return nil
}

func (f *fakeLedger) SaveWithLock(_ context.Context, rt *recurrence.RecurringTransaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cur, ok := f.templates[rt.ID]
	if !ok || cur.Version != rt.Version-1 {
		return shared.ErrConcurrencyConflict
	}
	f.templates[rt.ID] = *rt
	return nil
}

func (f *fakeLedger) DeleteForTenant(_ context.Context, _ uuid.UUID, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.templates, id)
	return nil
}

func (f *fakeLedger) FindDue(_ context.Context, tenantID uuid.UUID, now time.Time) ([]recurrence.RecurringTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []recurrence.RecurringTransaction
	for _, rt := range f.templates {
		if rt.TenantID == tenantID && rt.IsActive && !rt.NextRun.After(now) {
			out = append(out, rt)
		}
	}
	return out, nil
}

func (f *fakeLedger) ClaimRun(_ context.Context, tenantID, id uuid.UUID, expected, next, ranAt time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rt, ok := f.templates[id]
	if !ok || rt.TenantID != tenantID || !rt.IsActive || !rt.NextRun.Equal(expected) {
		return false, nil
	}
	rt.NextRun = next
	rt.LastRunAt = &ranAt
	rt.Version++
	f.templates[id] = rt
	return true, nil
}

func (f *fakeLedger) Deactivate(_ context.Context, tenantID, id uuid.UUID, expected, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rt, ok := f.templates[id]
	if !ok || rt.TenantID != tenantID || !rt.IsActive || !rt.NextRun.Equal(expected) {
		return false, nil
	}
	rt.IsActive = false
	rt.Version++
	rt.UpdatedAt = at
	f.templates[id] = rt
	return true, nil
}

type fakeAccounts fakeLedger

func (r *fakeAccounts) FindByIDForTenant(context.Context, uuid.UUID, uuid.UUID) (*ledger.Account, error) {
	return nil, shared.ErrNotFound
}
func (r *fakeAccounts) FindAllForTenant(context.Context, uuid.UUID, shared.Filter) ([]ledger.Account, int64, error) {
	return nil, 0, nil
}
func (r *fakeAccounts) Save(context.Context, *ledger.Account) error                   { return nil }
func (r *fakeAccounts) DeleteForTenant(context.Context, uuid.UUID, uuid.UUID) error     { return nil }
func (r *fakeAccounts) CountEntries(context.Context, uuid.UUID, uuid.UUID) (int64, error) { return 0, nil }
func (r *fakeAccounts) AdjustBalance(_ context.Context, _ uuid.UUID, id uuid.UUID, delta decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.balances[id] = r.balances[id].Add(delta)
	return nil
}

type fakeExpenditures fakeLedger

func (r *fakeExpenditures) FindByIDForTenant(context.Context, uuid.UUID, uuid.UUID) (*ledger.Expenditure, error) {
	return nil, shared.ErrNotFound
}
func (r *fakeExpenditures) FindAllForTenant(context.Context, uuid.UUID, ledger.EntryFilter) ([]ledger.Expenditure, int64, error) {
	return nil, 0, nil
}
func (r *fakeExpenditures) Create(_ context.Context, e *ledger.Expenditure) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreate[*e.RecurringID] {
		return errors.New("insert failed")
	}
	r.expenditures = append(r.expenditures, *e)
	return nil
}
func (r *fakeExpenditures) DeleteForTenant(context.Context, uuid.UUID, uuid.UUID) error  { return nil }
func (r *fakeExpenditures) UnlinkCategory(context.Context, uuid.UUID, uuid.UUID) error   { return nil }
func (r *fakeExpenditures) UnlinkEmployee(context.Context, uuid.UUID, uuid.UUID) error   { return nil }

type fakeIncomes fakeLedger

func (r *fakeIncomes) FindByIDForTenant(context.Context, uuid.UUID, uuid.UUID) (*ledger.Income, error) {
	return nil, shared.ErrNotFound
}
func (r *fakeIncomes) FindAllForTenant(context.Context, uuid.UUID, ledger.EntryFilter) ([]ledger.Income, int64, error) {
	return nil, 0, nil
}
func (r *fakeIncomes) Create(_ context.Context, i *ledger.Income) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.incomes = append(r.incomes, *i)
	return nil
}
func (r *fakeIncomes) DeleteForTenant(context.Context, uuid.UUID, uuid.UUID) error { return nil }
func (r *fakeIncomes) UnlinkCategory(context.Context, uuid.UUID, uuid.UUID) error  { return nil }

type companyIDs []uuid.UUID

func (c companyIDs) Save(context.Context, *identity.Company) error { return nil }
func (c companyIDs) FindByID(context.Context, uuid.UUID) (*identity.Company, error) {
	return nil, shared.ErrNotFound
}
func (c companyIDs) FindAllIDs(context.Context) ([]uuid.UUID, error) { return c, nil }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newTemplate(t *testing.T, tenantID uuid.UUID, typ recurrence.TransactionType, start time.Time, end *time.Time) *recurrence.RecurringTransaction {
	t.Helper()
	rt, err := recurrence.NewRecurringTransaction(tenantID, recurrence.Template{
		Name:      "Retainer",
		Amount:    decimal.NewFromInt(100),
		Type:      typ,
		Frequency: recurrence.FrequencyMonthly,
		StartDate: start,
		EndDate:   end,
		AccountID: uuid.New(),
	})
	require.NoError(t, err)
	return rt
}

func newTestProcessor(f *fakeLedger, policy recurrence.CatchUpPolicy, tenants ...uuid.UUID) *Processor {
	return NewProcessor(f, companyIDs(tenants), f.scope(), ProcessorConfig{Policy: policy, MaxCatchUpPeriods: 6}, nil)
}

func TestProcessDue_SelectsOnlyDueActive(t *testing.T) {
	f := newFakeLedger()
	tenantID := uuid.New()
	now := date(2024, 3, 10)

	due := newTemplate(t, tenantID, recurrence.TransactionTypeIncome, date(2024, 2, 1), nil)
	future := newTemplate(t, tenantID, recurrence.TransactionTypeIncome, date(2024, 3, 1), nil)
	inactive := newTemplate(t, tenantID, recurrence.TransactionTypeIncome, date(2024, 1, 1), nil)
	inactive.Toggle()
	for _, rt := range []*recurrence.RecurringTransaction{due, future, inactive} {
		f.add(rt)
	}

	res, err := newTestProcessor(f, recurrence.CatchUpSingle).ProcessDue(context.Background(), tenantID, now)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Processed)
	require.Len(t, f.incomes, 1)
	assert.Equal(t, due.ID, *f.incomes[0].RecurringID)
	assert.True(t, f.incomes[0].Date.Equal(now))

	after := f.template(due.ID)
	assert.True(t, date(2024, 4, 1).Equal(after.NextRun), "next run advances from previous next run")
	assert.True(t, f.template(future.ID).NextRun.Equal(future.NextRun))
	assert.True(t, f.balances[due.AccountID].Equal(decimal.NewFromInt(100)))
}

func TestProcessDue_EndDateRetires(t *testing.T) {
	f := newFakeLedger()
	tenantID := uuid.New()
	end := date(2024, 2, 15)
	rt := newTemplate(t, tenantID, recurrence.TransactionTypeExpense, date(2024, 1, 1), &end)
	f.add(rt)

	res, err := newTestProcessor(f, recurrence.CatchUpSingle).ProcessDue(context.Background(), tenantID, date(2024, 3, 1))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Deactivated)
	assert.Equal(t, 0, res.Processed)
	assert.Empty(t, f.expenditures)
	assert.False(t, f.template(rt.ID).IsActive)
	assert.True(t, f.template(rt.ID).UpdatedAt.Equal(date(2024, 3, 1)))
}

func TestProcessDue_SinglePolicyMaterializesOncePerPass(t *testing.T) {
	f := newFakeLedger()
	tenantID := uuid.New()
	rt := newTemplate(t, tenantID, recurrence.TransactionTypeExpense, date(2023, 12, 1), nil)
	f.add(rt)
	p := newTestProcessor(f, recurrence.CatchUpSingle)
	now := date(2024, 4, 15)

	_, err := p.ProcessDue(context.Background(), tenantID, now)
	require.NoError(t, err)
	assert.Len(t, f.expenditures, 1)
	assert.True(t, date(2024, 2, 1).Equal(f.template(rt.ID).NextRun))
	assert.True(t, f.balances[rt.AccountID].Equal(decimal.NewFromInt(-100)))
}

func TestProcessDue_CatchUpPolicyDatesEachOccurrence(t *testing.T) {
	f := newFakeLedger()
	tenantID := uuid.New()
	rt := newTemplate(t, tenantID, recurrence.TransactionTypeIncome, date(2023, 12, 1), nil)
	f.add(rt)
	now := date(2024, 4, 15)

	res, err := newTestProcessor(f, recurrence.CatchUpAll).ProcessDue(context.Background(), tenantID, now)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Processed)
	require.Len(t, f.incomes, 4)
	want := []time.Time{date(2024, 1, 1), date(2024, 2, 1), date(2024, 3, 1), date(2024, 4, 1)}
	for i, inc := range f.incomes {
		assert.True(t, want[i].Equal(inc.Date))
	}
	assert.True(t, date(2024, 5, 1).Equal(f.template(rt.ID).NextRun))
	assert.True(t, f.balances[rt.AccountID].Equal(decimal.NewFromInt(400)))
}

func TestProcessDue_OverlappingPassesMaterializeOnce(t *testing.T) {
	f := newFakeLedger()
	tenantID := uuid.New()
	rt := newTemplate(t, tenantID, recurrence.TransactionTypeIncome, date(2024, 1, 1), nil)
	f.add(rt)
	now := date(2024, 2, 5)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := newTestProcessor(f, recurrence.CatchUpSingle).ProcessDue(context.Background(), tenantID, now)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Len(t, f.incomes, 1)
	assert.True(t, f.balances[rt.AccountID].Equal(decimal.NewFromInt(100)))
}

func TestProcessDue_StaleSnapshotIsSkipped(t *testing.T) {
	f := newFakeLedger()
	tenantID := uuid.New()
	rt := newTemplate(t, tenantID, recurrence.TransactionTypeIncome, date(2024, 1, 1), nil)
	f.add(rt)
	p := newTestProcessor(f, recurrence.CatchUpSingle)

	ok, err := f.ClaimRun(context.Background(), tenantID, rt.ID, rt.NextRun, date(2024, 3, 1), date(2024, 2, 2))
	require.NoError(t, err)
	require.True(t, ok)

	outcome, entries, err := p.processOne(context.Background(), rt, date(2024, 2, 5))
	require.NoError(t, err)
	assert.Equal(t, outcomeSkipped, outcome)
	assert.Empty(t, entries)
	assert.Empty(t, f.incomes)
}

func TestProcessDue_FailureIsIsolated(t *testing.T) {
	f := newFakeLedger()
	tenantID := uuid.New()
	broken := newTemplate(t, tenantID, recurrence.TransactionTypeExpense, date(2024, 1, 1), nil)
	healthy := newTemplate(t, tenantID, recurrence.TransactionTypeExpense, date(2024, 1, 1), nil)
	f.add(broken)
	f.add(healthy)
	f.failCreate[broken.ID] = true

	res, err := newTestProcessor(f, recurrence.CatchUpSingle).ProcessDue(context.Background(), tenantID, date(2024, 2, 2))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, 1, res.Processed)
	require.Len(t, f.expenditures, 1)
	assert.Equal(t, healthy.ID, *f.expenditures[0].RecurringID)
}

func TestProcessAllTenants_StaysInsideEachTenant(t *testing.T) {
	f := newFakeLedger()
	tenantA, tenantB := uuid.New(), uuid.New()
	a := newTemplate(t, tenantA, recurrence.TransactionTypeIncome, date(2024, 1, 1), nil)
	b := newTemplate(t, tenantB, recurrence.TransactionTypeExpense, date(2024, 1, 1), nil)
	f.add(a)
	f.add(b)

	res, err := newTestProcessor(f, recurrence.CatchUpSingle, tenantA, tenantB).ProcessAllTenants(context.Background(), date(2024, 2, 2))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Processed)
	require.Len(t, f.incomes, 1)
	require.Len(t, f.expenditures, 1)
	assert.Equal(t, tenantA, f.incomes[0].TenantID)
	assert.Equal(t, tenantB, f.expenditures[0].TenantID)
}
