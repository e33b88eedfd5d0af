package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/bizledger/backend/internal/domain/identity"
	"github.com/bizledger/backend/internal/domain/ledger"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/bizledger/backend/internal/domain/workforce"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

type entryFixture struct {
	store     *memStore
	service   *EntryService
	publisher *recordingPublisher
	actor     identity.Actor
	account   *ledger.Account
}

func newEntryFixture(t *testing.T) *entryFixture {
	t.Helper()
	store := newMemStore()
	actor := identity.Actor{UserID: uuid.New(), CompanyID: uuid.New(), UserType: identity.UserTypeAdmin}
	account, err := ledger.NewAccount(actor.CompanyID, "Main bank", ledger.AccountTypeBank, decimal.NewFromInt(1000))
	require.NoError(t, err)
	require.NoError(t, store.AccountRepo().Save(context.Background(), account))

	publisher := &recordingPublisher{}
	service := NewEntryService(store.repos(), store, nil)
	service.SetEventPublisher(publisher)
	return &entryFixture{store: store, service: service, publisher: publisher, actor: actor, account: account}
}

func (f *entryFixture) balance(t *testing.T) decimal.Decimal {
	t.Helper()
	acc, err := f.store.AccountRepo().FindByIDForTenant(context.Background(), f.actor.CompanyID, f.account.ID)
	require.NoError(t, err)
	return acc.Balance
}

func (f *entryFixture) request(amount string) CreateEntryRequest {
	return CreateEntryRequest{
		Description: "Hosting",
		Amount:      decimal.RequireFromString(amount),
		Date:        time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		AccountID:   f.account.ID,
	}
}

func TestEntryService_BalanceInvariant(t *testing.T) {
	f := newEntryFixture(t)
	ctx := context.Background()

	var expenditureIDs, incomeIDs []uuid.UUID
	for _, amt := range []string{"10.25", "99.99", "0.01"} {
		resp, err := f.service.CreateExpenditure(ctx, f.actor, f.request(amt))
		require.NoError(t, err)
		expenditureIDs = append(expenditureIDs, resp.ID)
	}
	for _, amt := range []string{"500", "12.5"} {
		resp, err := f.service.CreateIncome(ctx, f.actor, f.request(amt))
		require.NoError(t, err)
		incomeIDs = append(incomeIDs, resp.ID)
	}
	assert.True(t, f.balance(t).Equal(f.store.derivedBalance(f.account.ID)))
	assert.True(t, f.balance(t).Equal(decimal.RequireFromString("1402.25")))

	require.NoError(t, f.service.DeleteExpenditure(ctx, f.actor, expenditureIDs[1]))
	require.NoError(t, f.service.DeleteIncome(ctx, f.actor, incomeIDs[0]))
	assert.True(t, f.balance(t).Equal(f.store.derivedBalance(f.account.ID)))
}

func TestEntryService_RoundTripIsNeutral(t *testing.T) {
	f := newEntryFixture(t)
	ctx := context.Background()
	before := f.balance(t)

	exp, err := f.service.CreateExpenditure(ctx, f.actor, f.request("123.4567"))
	require.NoError(t, err)
	require.NoError(t, f.service.DeleteExpenditure(ctx, f.actor, exp.ID))

	inc, err := f.service.CreateIncome(ctx, f.actor, f.request("0.0001"))
	require.NoError(t, err)
	require.NoError(t, f.service.DeleteIncome(ctx, f.actor, inc.ID))

	assert.Equal(t, before.String(), f.balance(t).String())
}

func TestEntryService_ValidationBeforeWrites(t *testing.T) {
	f := newEntryFixture(t)
	req := f.request("0")
	_, err := f.service.CreateExpenditure(context.Background(), f.actor, req)
	require.Error(t, err)
	assert.True(t, f.balance(t).Equal(decimal.NewFromInt(1000)))
	assert.Empty(t, f.store.expenditures)
}

func TestEntryService_RollbackOnBalanceFailure(t *testing.T) {
	f := newEntryFixture(t)
	f.store.failAdjust = true

	_, err := f.service.CreateIncome(context.Background(), f.actor, f.request("50"))
	require.Error(t, err)
	de, ok := shared.AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, "OPERATION_FAILED", de.Code)

	assert.Empty(t, f.store.incomes)
	assert.True(t, f.balance(t).Equal(decimal.NewFromInt(1000)))
	assert.Empty(t, f.publisher.events)
}

func TestEntryService_ForeignReferences(t *testing.T) {
	f := newEntryFixture(t)
	ctx := context.Background()
	other := uuid.New()

	t.Run("account of another tenant", func(t *testing.T) {
		foreign, err := ledger.NewAccount(other, "Their bank", ledger.AccountTypeBank, decimal.NewFromInt(5))
		require.NoError(t, err)
		require.NoError(t, f.store.AccountRepo().Save(ctx, foreign))
		req := f.request("1")
		req.AccountID = foreign.ID
		_, err = f.service.CreateExpenditure(ctx, f.actor, req)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		acc, _ := f.store.AccountRepo().FindByIDForTenant(ctx, other, foreign.ID)
		assert.True(t, acc.Balance.Equal(decimal.NewFromInt(5)))
	})

	t.Run("employee of another tenant", func(t *testing.T) {
		emp, err := workforce.NewEmployee(other, workforce.EmployeeDetails{Name: "Mallory"})
		require.NoError(t, err)
		require.NoError(t, f.store.EmployeeRepo().Save(ctx, emp))
		req := f.request("1")
		req.EmployeeID = &emp.ID
		_, err = f.service.CreateExpenditure(ctx, f.actor, req)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("unknown tag", func(t *testing.T) {
		req := f.request("1")
		req.TagIDs = []uuid.UUID{uuid.New()}
		_, err := f.service.CreateIncome(ctx, f.actor, req)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("delete of another tenant's expenditure", func(t *testing.T) {
		resp, err := f.service.CreateExpenditure(ctx, f.actor, f.request("3"))
		require.NoError(t, err)
		intruder := identity.Actor{UserID: uuid.New(), CompanyID: other, UserType: identity.UserTypeAdmin}
		err = f.service.DeleteExpenditure(ctx, intruder, resp.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		_, err = f.service.GetExpenditure(ctx, f.actor, resp.ID)
		assert.NoError(t, err)
	})

	assert.True(t, f.balance(t).Equal(f.store.derivedBalance(f.account.ID)))
}

func TestEntryService_PublishesAfterCommit(t *testing.T) {
	f := newEntryFixture(t)
	resp, err := f.service.CreateExpenditure(context.Background(), f.actor, f.request("20"))
	require.NoError(t, err)
	require.NoError(t, f.service.DeleteExpenditure(context.Background(), f.actor, resp.ID))

	require.Len(t, f.publisher.events, 2)
	assert.Equal(t, ledger.EventTypeExpenditureRecorded, f.publisher.events[0].EventType())
	assert.Equal(t, ledger.EventTypeExpenditureDeleted, f.publisher.events[1].EventType())
	deleted := f.publisher.events[1].(*ledger.EntryEvent)
	assert.True(t, deleted.Delta.Equal(decimal.NewFromInt(20)))
}

func TestEntryService_IncomeEventsPublishedOnce(t *testing.T) {
	f := newEntryFixture(t)
	resp, err := f.service.CreateIncome(context.Background(), f.actor, f.request("35"))
	require.NoError(t, err)
	require.NoError(t, f.service.DeleteIncome(context.Background(), f.actor, resp.ID))

	require.Len(t, f.publisher.events, 2)
	assert.Equal(t, ledger.EventTypeIncomeRecorded, f.publisher.events[0].EventType())
	assert.Equal(t, ledger.EventTypeIncomeDeleted, f.publisher.events[1].EventType())
}

func TestEntryService_ClientsAreRefused(t *testing.T) {
	f := newEntryFixture(t)
	client := f.actor
	client.UserType = identity.UserTypeClient
	_, err := f.service.CreateIncome(context.Background(), client, f.request("1"))
	assert.ErrorIs(t, err, shared.ErrUnauthorized)
}
