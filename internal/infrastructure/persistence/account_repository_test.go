package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/bizledger/backend/internal/domain/ledger"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormAccountRepository_TenantIsolation(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewGormAccountRepository(db)
	ctx := context.Background()

	tenantA, tenantB := uuid.New(), uuid.New()
	account := seedAccount(t, db, tenantA, "Operating", 100)
	seedAccount(t, db, tenantB, "Other tenant", 50)

	t.Run("owner finds the account", func(t *testing.T) {
		found, err := repo.FindByIDForTenant(ctx, tenantA, account.ID)
		require.NoError(t, err)
		assert.Equal(t, "Operating", found.Name)
		assert.True(t, decimal.NewFromInt(100).Equal(found.Balance))
	})

	t.Run("other tenant gets not found", func(t *testing.T) {
		_, err := repo.FindByIDForTenant(ctx, tenantB, account.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("other tenant cannot adjust the balance", func(t *testing.T) {
		err := repo.AdjustBalance(ctx, tenantB, account.ID, decimal.NewFromInt(-10))
		assert.ErrorIs(t, err, shared.ErrNotFound)

		found, err := repo.FindByIDForTenant(ctx, tenantA, account.ID)
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(100).Equal(found.Balance))
	})

	t.Run("other tenant cannot delete", func(t *testing.T) {
		assert.ErrorIs(t, repo.DeleteForTenant(ctx, tenantB, account.ID), shared.ErrNotFound)
	})

	t.Run("listing only returns own accounts", func(t *testing.T) {
		accounts, total, err := repo.FindAllForTenant(ctx, tenantA, shared.Filter{})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, accounts, 1)
		assert.Equal(t, account.ID, accounts[0].ID)
	})
}

func TestGormAccountRepository_AdjustBalance(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewGormAccountRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()
	account := seedAccount(t, db, tenantID, "Cash box", 100)

	require.NoError(t, repo.AdjustBalance(ctx, tenantID, account.ID, decimal.RequireFromString("-25.5")))
	found, err := repo.FindByIDForTenant(ctx, tenantID, account.ID)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("74.5").Equal(found.Balance), "balance %s", found.Balance)

	require.NoError(t, repo.AdjustBalance(ctx, tenantID, account.ID, decimal.RequireFromString("25.5")))
	found, err = repo.FindByIDForTenant(ctx, tenantID, account.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(100).Equal(found.Balance))
	assert.True(t, decimal.NewFromInt(100).Equal(found.InitialBalance))

	assert.ErrorIs(t, repo.AdjustBalance(ctx, tenantID, uuid.New(), decimal.NewFromInt(1)), shared.ErrNotFound)
}

func TestGormAccountRepository_AdjustBalanceSQL(t *testing.T) {
	db, mock, mockDB := newMockDatabase(t)
	defer mockDB.Close()
	repo := NewGormAccountRepository(db.DB)
	tenantID, id := uuid.New(), uuid.New()

	mock.ExpectExec(`UPDATE "accounts" SET "balance"=balance \+ \$1,"updated_at"=\$2 WHERE id = \$3 AND tenant_id = \$4`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), id.String(), tenantID.String()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.AdjustBalance(context.Background(), tenantID, id, decimal.NewFromInt(-5)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormAccountRepository_FindAllForTenant(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewGormAccountRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	seedAccount(t, db, tenantID, "Main Bank", 10)
	seedAccount(t, db, tenantID, "Savings Bank", 20)
	cash, err := ledger.NewAccount(tenantID, "Petty cash", ledger.AccountTypeCash, decimal.Zero)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, cash))

	t.Run("search is case insensitive", func(t *testing.T) {
		accounts, total, err := repo.FindAllForTenant(ctx, tenantID, shared.Filter{Search: "BANK"})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Equal(t, "Main Bank", accounts[0].Name)
		assert.Equal(t, "Savings Bank", accounts[1].Name)
	})

	t.Run("filters by type", func(t *testing.T) {
		accounts, total, err := repo.FindAllForTenant(ctx, tenantID, shared.Filter{
			Filters: map[string]interface{}{"type": string(ledger.AccountTypeCash)},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, cash.ID, accounts[0].ID)
	})

	t.Run("paginates after counting", func(t *testing.T) {
		accounts, total, err := repo.FindAllForTenant(ctx, tenantID, shared.Filter{Page: 2, PageSize: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, accounts, 1)
		assert.Equal(t, "Savings Bank", accounts[0].Name)
	})
}

func TestGormAccountRepository_CountEntries(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewGormAccountRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()
	account := seedAccount(t, db, tenantID, "Operating", 0)

	count, err := repo.CountEntries(ctx, tenantID, account.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	in := ledger.EntryInput{Amount: decimal.NewFromInt(5), Description: "fee", Date: day(2024, 3, 1), AccountID: account.ID}
	expenditure, err := ledger.NewExpenditure(tenantID, in, nil)
	require.NoError(t, err)
	require.NoError(t, NewGormExpenditureRepository(db).Create(ctx, expenditure))
	income, err := ledger.NewIncome(tenantID, in)
	require.NoError(t, err)
	require.NoError(t, NewGormIncomeRepository(db).Create(ctx, income))

	count, err = repo.CountEntries(ctx, tenantID, account.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
