package ledger

import (
	"strings"

	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountType is the kind of store of value an account represents
type AccountType string

const (
	AccountTypeBank    AccountType = "Bank Account"
	AccountTypeCash    AccountType = "Cash"
	AccountTypeBitcoin AccountType = "Bitcoin Wallet"
	AccountTypeOther   AccountType = "Other"
)

// IsValid checks if the account type is known
func (t AccountType) IsValid() bool {
	switch t {
	case AccountTypeBank, AccountTypeCash, AccountTypeBitcoin, AccountTypeOther:
		return true
	}
	return false
}

// ErrAccountInUse is returned when deleting an account that still has entries
var ErrAccountInUse = shared.NewDomainError("ACCOUNT_IN_USE", "Account still has transactions and cannot be deleted")

// Account holds a running balance.
// Balance == InitialBalance + sum(incomes) - sum(expenditures) against it.
type Account struct {
	shared.TenantAggregateRoot
	Name           string
	Type           AccountType
	Balance        decimal.Decimal
	InitialBalance decimal.Decimal
}

// NewAccount creates an account with an opening balance
func NewAccount(tenantID uuid.UUID, name string, accountType AccountType, openingBalance decimal.Decimal) (*Account, error) {
	if err := validateAccount(name, accountType); err != nil {
		return nil, err
	}
	if openingBalance.IsNegative() {
		return nil, shared.NewDomainError("INVALID_BALANCE", "Balance must be positive")
	}
	return &Account{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                strings.TrimSpace(name),
		Type:                accountType,
		Balance:             openingBalance,
		InitialBalance:      openingBalance,
	}, nil
}

// Update renames the account and optionally rebases its balance.
// A manual balance edit moves the baseline by the same amount so the
// derivation from entries keeps holding.
func (a *Account) Update(name string, accountType AccountType, balance *decimal.Decimal) error {
	if err := validateAccount(name, accountType); err != nil {
		return err
	}
	a.Name = strings.TrimSpace(name)
	a.Type = accountType
	if balance != nil && !balance.Equal(a.Balance) {
		a.InitialBalance = a.InitialBalance.Add(balance.Sub(a.Balance))
		a.Balance = *balance
	}
	a.Touch()
	a.IncrementVersion()
	return nil
}

// Apply adds a signed delta to the balance
func (a *Account) Apply(delta decimal.Decimal) {
	a.Balance = a.Balance.Add(delta)
}

func validateAccount(name string, accountType AccountType) error {
	if len(strings.TrimSpace(name)) < 2 {
		return shared.NewDomainError("INVALID_NAME", "Name must be at least 2 characters")
	}
	if !accountType.IsValid() {
		return shared.NewDomainError("INVALID_ACCOUNT_TYPE", "Account type is not valid")
	}
	return nil
}
