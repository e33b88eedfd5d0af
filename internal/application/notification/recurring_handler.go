package notification

import (
	"context"
	"strings"

	"github.com/bizledger/backend/internal/application/common"
	"github.com/bizledger/backend/internal/domain/ledger"
	"github.com/bizledger/backend/internal/domain/recurrence"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/bizledger/backend/internal/domain/workforce"
	"go.uber.org/zap"
)

// RecurringEntryHandler confirms ledger entries created from a recurring
// template. Expenses paid to an employee with an email go to that employee,
// everything else to the admin address.
type RecurringEntryHandler struct {
	templates  recurrence.Repository
	employees  workforce.EmployeeRepository
	notifier   Notifier
	adminEmail string
	logger     *zap.Logger
}

// NewRecurringEntryHandler creates a RecurringEntryHandler
func NewRecurringEntryHandler(
	templates recurrence.Repository,
	employees workforce.EmployeeRepository,
	notifier Notifier,
	adminEmail string,
	logger *zap.Logger,
) *RecurringEntryHandler {
	return &RecurringEntryHandler{
		templates:  templates,
		employees:  employees,
		notifier:   notifier,
		adminEmail: strings.TrimSpace(adminEmail),
		logger:     common.Nop(logger),
	}
}

// EventTypes returns the event types this handler is interested in
func (h *RecurringEntryHandler) EventTypes() []string {
	return []string{ledger.EventTypeExpenditureRecorded, ledger.EventTypeIncomeRecorded}
}

// Handle sends the confirmation for one materialized entry
func (h *RecurringEntryHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	e, ok := event.(*ledger.EntryEvent)
	if !ok || e.RecurringID == nil {
		return nil
	}
	rt, err := h.templates.FindByIDForTenant(ctx, e.TenantID(), *e.RecurringID)
	if err != nil {
		if common.IsNotFound(err) {
			return nil
		}
		return err
	}

	to := Recipient{Email: h.adminEmail, Name: defaultApproverName}
	if rt.Type == recurrence.TransactionTypeExpense && rt.EmployeeID != nil {
		employee, err := h.employees.FindByIDForTenant(ctx, e.TenantID(), *rt.EmployeeID)
		if err != nil && !common.IsNotFound(err) {
			return err
		}
		if employee != nil && employee.HasEmail() {
			to = Recipient{Email: employee.Email, Name: employee.Name}
		}
	}
	if to.Email == "" {
		return nil
	}

	msg := Message{
		Kind: KindRecurringProcessed,
		To:   to,
		Data: RecurringProcessedData{
			RecipientName:   to.Name,
			TransactionName: rt.Name,
			Amount:          e.Amount,
			Income:          rt.Type == recurrence.TransactionTypeIncome,
			Frequency:       string(rt.Frequency),
			NextRun:         rt.NextRun,
		},
	}
	if err := h.notifier.Send(ctx, msg); err != nil {
		h.logger.Warn("failed to send recurring confirmation",
			zap.String("recurring_id", rt.ID.String()),
			zap.String("to", to.Email),
			zap.Error(err),
		)
	}
	return nil
}

var _ shared.EventHandler = (*RecurringEntryHandler)(nil)
