package ledger

import (
	"time"

	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event type names
const (
	EventTypeExpenditureRecorded = "ExpenditureRecorded"
	EventTypeExpenditureDeleted  = "ExpenditureDeleted"
	EventTypeIncomeRecorded      = "IncomeRecorded"
	EventTypeIncomeDeleted       = "IncomeDeleted"

	aggregateTypeExpenditure = "Expenditure"
	aggregateTypeIncome      = "Income"
)

// EntryEvent is raised when a ledger row is recorded or deleted
type EntryEvent struct {
	shared.BaseDomainEvent
	AccountID   uuid.UUID       `json:"account_id"`
	Amount      decimal.Decimal `json:"amount"`
	Delta       decimal.Decimal `json:"delta"`
	Date        time.Time       `json:"date"`
	RecurringID *uuid.UUID      `json:"recurring_id,omitempty"`
}

// NewExpenditureRecordedEvent creates the event for a new expenditure
func NewExpenditureRecordedEvent(e *Expenditure) *EntryEvent {
	return newEntryEvent(EventTypeExpenditureRecorded, aggregateTypeExpenditure, &e.Entry, e.BalanceDelta())
}

// NewExpenditureDeletedEvent creates the event for a removed expenditure
func NewExpenditureDeletedEvent(e *Expenditure) *EntryEvent {
	return newEntryEvent(EventTypeExpenditureDeleted, aggregateTypeExpenditure, &e.Entry, e.BalanceDelta().Neg())
}

// NewIncomeRecordedEvent creates the event for a new income
func NewIncomeRecordedEvent(i *Income) *EntryEvent {
	return newEntryEvent(EventTypeIncomeRecorded, aggregateTypeIncome, &i.Entry, i.BalanceDelta())
}

// NewIncomeDeletedEvent creates the event for a removed income
func NewIncomeDeletedEvent(i *Income) *EntryEvent {
	return newEntryEvent(EventTypeIncomeDeleted, aggregateTypeIncome, &i.Entry, i.BalanceDelta().Neg())
}

func newEntryEvent(eventType, aggType string, e *Entry, delta decimal.Decimal) *EntryEvent {
	return &EntryEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, aggType, e.ID, e.TenantID),
		AccountID:       e.AccountID,
		Amount:          e.Amount,
		Delta:           delta,
		Date:            e.Date,
		RecurringID:     e.RecurringID,
	}
}
