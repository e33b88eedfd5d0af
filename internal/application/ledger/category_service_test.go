package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/bizledger/backend/internal/domain/identity"
	"github.com/bizledger/backend/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryService_SystemCategoriesAreImmutable(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()
	service := NewCategoryService(store.CategoryRepo(), store, nil)
	admin := identity.Actor{UserID: uuid.New(), CompanyID: uuid.New(), UserType: identity.UserTypeAdmin}

	sys, err := ledger.NewSystemCategory("Salary", "Wallet", "#ef4444", ledger.CategoryTypeExpense)
	require.NoError(t, err)
	require.NoError(t, store.CategoryRepo().Save(ctx, sys))

	_, err = service.Update(ctx, admin, sys.ID, CategoryRequest{Name: "Wages", Type: "EXPENSE"})
	assert.ErrorIs(t, err, ledger.ErrSystemCategoryEdit)

	err = service.Delete(ctx, admin, sys.ID)
	assert.ErrorIs(t, err, ledger.ErrSystemCategoryDelete)

	stored, err := store.CategoryRepo().FindVisible(ctx, admin.CompanyID, sys.ID)
	require.NoError(t, err)
	assert.Equal(t, "Salary", stored.Name)
}

func TestCategoryService_DeleteUnlinksEntries(t *testing.T) {
	f := newEntryFixture(t)
	ctx := context.Background()
	service := NewCategoryService(f.store.CategoryRepo(), f.store, nil)

	cat, err := service.Create(ctx, f.actor, CategoryRequest{Name: "Hosting", Type: "BOTH"})
	require.NoError(t, err)

	req := CreateEntryRequest{
		Description: "VPS",
		Amount:      decimal.NewFromInt(15),
		Date:        time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		AccountID:   f.account.ID,
		CategoryID:  &cat.ID,
	}
	exp, err := f.service.CreateExpenditure(ctx, f.actor, req)
	require.NoError(t, err)
	inc, err := f.service.CreateIncome(ctx, f.actor, req)
	require.NoError(t, err)

	require.NoError(t, service.Delete(ctx, f.actor, cat.ID))

	gotExp, err := f.service.GetExpenditure(ctx, f.actor, exp.ID)
	require.NoError(t, err)
	assert.Nil(t, gotExp.CategoryID)
	gotInc, err := f.service.GetIncome(ctx, f.actor, inc.ID)
	require.NoError(t, err)
	assert.Nil(t, gotInc.CategoryID)
}

func TestCategoryService_ListByType(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()
	service := NewCategoryService(store.CategoryRepo(), store, nil)
	actor := identity.Actor{UserID: uuid.New(), CompanyID: uuid.New(), UserType: identity.UserTypeEmployee}

	_, err := service.Create(ctx, actor, CategoryRequest{Name: "Consulting", Type: "INCOME"})
	require.NoError(t, err)
	_, err = service.Create(ctx, actor, CategoryRequest{Name: "Misc", Type: "BOTH"})
	require.NoError(t, err)
	_, err = service.Create(ctx, actor, CategoryRequest{Name: "Rent", Type: "EXPENSE"})
	require.NoError(t, err)

	incomeCats, err := service.List(ctx, actor, "INCOME")
	require.NoError(t, err)
	var names []string
	for _, c := range incomeCats {
		names = append(names, c.Name)
	}
	assert.ElementsMatch(t, []string{"Consulting", "Misc"}, names)

	_, err = service.List(ctx, actor, "TRANSFER")
	assert.ErrorIs(t, err, ledger.ErrInvalidCategoryType)
}

func TestCategoryService_SeedDefaultsSkipsExisting(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()
	service := NewCategoryService(store.CategoryRepo(), store, nil)
	actor := identity.Actor{UserID: uuid.New(), CompanyID: uuid.New(), UserType: identity.UserTypeAdmin}

	_, err := service.Create(ctx, actor, CategoryRequest{Name: "Rent", Type: "EXPENSE"})
	require.NoError(t, err)

	result, err := service.SeedDefaults(ctx, actor)
	require.NoError(t, err)
	assert.Len(t, result.Created, 11)
	assert.Equal(t, []string{"Rent"}, result.Skipped)

	again, err := service.SeedDefaults(ctx, actor)
	require.NoError(t, err)
	assert.Empty(t, again.Created)
}
