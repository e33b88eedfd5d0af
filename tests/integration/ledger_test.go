package integration

import (
	"context"
	"sync"
	"testing"

	ledgerapp "github.com/bizledger/backend/internal/application/ledger"
	"github.com/bizledger/backend/internal/domain/identity"
	"github.com/bizledger/backend/internal/domain/ledger"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/bizledger/backend/internal/infrastructure/persistence"
	"github.com/bizledger/backend/tests/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type ledgerSetup struct {
	db       *TestDB
	accounts *ledgerapp.AccountService
	entries  *ledgerapp.EntryService
	admin    identity.Actor
}

func newLedgerSetup(t *testing.T, db *TestDB, companyName string) *ledgerSetup {
	t.Helper()

	company := db.CreateTestCompany(companyName)
	accountRepo := persistence.NewGormAccountRepository(db.DB)
	entries := ledgerapp.NewEntryService(ledgerapp.EntryRepositories{
		Accounts:     accountRepo,
		Categories:   persistence.NewGormCategoryRepository(db.DB),
		Tags:         persistence.NewGormTagRepository(db.DB),
		Expenditures: persistence.NewGormExpenditureRepository(db.DB),
		Incomes:      persistence.NewGormIncomeRepository(db.DB),
		Employees:    persistence.NewGormEmployeeRepository(db.DB),
	}, persistence.NewGormTransactionScope(db.DB).LedgerScope(), zap.NewNop())

	return &ledgerSetup{
		db:       db,
		accounts: ledgerapp.NewAccountService(accountRepo, zap.NewNop()),
		entries:  entries,
		admin:    testutil.AdminActor(company.ID),
	}
}

func (s *ledgerSetup) createAccount(t *testing.T, name string, opening int64) uuid.UUID {
	t.Helper()

	account, err := s.accounts.Create(context.Background(), s.admin, ledgerapp.CreateAccountRequest{
		Name:    name,
		Type:    string(ledger.AccountTypeBank),
		Balance: decimal.NewFromInt(opening),
	})
	require.NoError(t, err)
	return account.ID
}

func (s *ledgerSetup) balance(t *testing.T, accountID uuid.UUID) decimal.Decimal {
	t.Helper()

	account, err := s.accounts.Get(context.Background(), s.admin, accountID)
	require.NoError(t, err)
	return account.Balance
}

func entryRequest(accountID uuid.UUID, amount string) ledgerapp.CreateEntryRequest {
	return ledgerapp.CreateEntryRequest{
		Description: "Office supplies",
		Amount:      decimal.RequireFromString(amount),
		Date:        testutil.Date(2024, 5, 10),
		AccountID:   accountID,
	}
}

func TestLedger_BalanceFollowsEntries(t *testing.T) {
	s := newLedgerSetup(t, NewSharedTestDB(t), "Balance Co")
	ctx := context.Background()
	accountID := s.createAccount(t, "Operating", 1000)

	expenditure, err := s.entries.CreateExpenditure(ctx, s.admin, entryRequest(accountID, "250.50"))
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("749.50").Equal(s.balance(t, accountID)))

	income, err := s.entries.CreateIncome(ctx, s.admin, entryRequest(accountID, "100"))
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("849.50").Equal(s.balance(t, accountID)))

	t.Run("deleting entries reverts their effect", func(t *testing.T) {
		require.NoError(t, s.entries.DeleteExpenditure(ctx, s.admin, expenditure.ID))
		assert.True(t, decimal.NewFromInt(1100).Equal(s.balance(t, accountID)))

		require.NoError(t, s.entries.DeleteIncome(ctx, s.admin, income.ID))
		assert.True(t, decimal.NewFromInt(1000).Equal(s.balance(t, accountID)))
	})

	t.Run("deleted entries are gone", func(t *testing.T) {
		_, err := s.entries.GetExpenditure(ctx, s.admin, expenditure.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestLedger_ConcurrentEntriesKeepBalanceExact(t *testing.T) {
	s := newLedgerSetup(t, NewSharedTestDB(t), "Concurrent Co")
	ctx := context.Background()
	accountID := s.createAccount(t, "Till", 0)

	const writers = 20
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			var err error
			if i%2 == 0 {
				_, err = s.entries.CreateIncome(ctx, s.admin, entryRequest(accountID, "10"))
			} else {
				_, err = s.entries.CreateExpenditure(ctx, s.admin, entryRequest(accountID, "3"))
			}
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	// 10 incomes of 10 and 10 expenditures of 3
	assert.True(t, decimal.NewFromInt(70).Equal(s.balance(t, accountID)), "balance was %s", s.balance(t, accountID))
}

func TestLedger_AccountInUseCannotBeDeleted(t *testing.T) {
	s := newLedgerSetup(t, NewSharedTestDB(t), "In Use Co")
	ctx := context.Background()
	accountID := s.createAccount(t, "Savings", 50)

	entry, err := s.entries.CreateIncome(ctx, s.admin, entryRequest(accountID, "5"))
	require.NoError(t, err)

	err = s.accounts.Delete(ctx, s.admin, accountID)
	assert.ErrorIs(t, err, ledger.ErrAccountInUse)

	require.NoError(t, s.entries.DeleteIncome(ctx, s.admin, entry.ID))
	require.NoError(t, s.accounts.Delete(ctx, s.admin, accountID))

	_, err = s.accounts.Get(ctx, s.admin, accountID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestLedger_TenantIsolation(t *testing.T) {
	db := NewSharedTestDB(t)
	a := newLedgerSetup(t, db, "Tenant A")
	b := newLedgerSetup(t, db, "Tenant B")
	ctx := context.Background()

	accountA := a.createAccount(t, "A Bank", 100)
	entryA, err := a.entries.CreateExpenditure(ctx, a.admin, entryRequest(accountA, "10"))
	require.NoError(t, err)

	t.Run("reads are scoped", func(t *testing.T) {
		_, err := b.accounts.Get(ctx, b.admin, accountA)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		_, err = b.entries.GetExpenditure(ctx, b.admin, entryA.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		accounts, total, err := b.accounts.List(ctx, b.admin, shared.Filter{Page: 1, PageSize: 50})
		require.NoError(t, err)
		assert.Zero(t, total)
		assert.Empty(t, accounts)
	})

	t.Run("writes against another tenant's account are rejected", func(t *testing.T) {
		_, err := b.entries.CreateExpenditure(ctx, b.admin, entryRequest(accountA, "10"))
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.True(t, decimal.NewFromInt(90).Equal(a.balance(t, accountA)))
	})

	t.Run("deletes against another tenant's entry are rejected", func(t *testing.T) {
		err := b.entries.DeleteExpenditure(ctx, b.admin, entryA.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		_, err = a.entries.GetExpenditure(ctx, a.admin, entryA.ID)
		assert.NoError(t, err)
	})
}

func TestLedger_ClientsCannotBook(t *testing.T) {
	s := newLedgerSetup(t, NewSharedTestDB(t), "Client Co")
	accountID := s.createAccount(t, "Client Bank", 0)

	client := testutil.ClientActor(s.admin.CompanyID)
	_, err := s.entries.CreateIncome(context.Background(), client, entryRequest(accountID, "1"))
	assert.ErrorIs(t, err, shared.ErrUnauthorized)
}
