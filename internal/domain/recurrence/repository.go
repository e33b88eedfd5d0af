package recurrence

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines persistence for recurring transactions
type Repository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*RecurringTransaction, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]RecurringTransaction, error)
	Save(ctx context.Context, rt *RecurringTransaction) error
	// SaveWithLock writes an edited template only if its stored version is
	// rt.Version-1, otherwise it returns shared.ErrConcurrencyConflict
	SaveWithLock(ctx context.Context, rt *RecurringTransaction) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error

	// FindDue lists active templates of the tenant with next_run <= now
	FindDue(ctx context.Context, tenantID uuid.UUID, now time.Time) ([]RecurringTransaction, error)

	// ClaimRun moves next_run from expected to next only if no other pass
	// has moved it yet. It returns false when the compare-and-swap lost.
	ClaimRun(ctx context.Context, tenantID, id uuid.UUID, expected, next, ranAt time.Time) (bool, error)

	// Deactivate clears is_active if next_run still equals expected, stamping
	// the row with the pass time at
	Deactivate(ctx context.Context, tenantID, id uuid.UUID, expected, at time.Time) (bool, error)
}
