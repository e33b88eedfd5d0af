package recurrence

import (
	"context"
	"time"

	"github.com/bizledger/backend/internal/domain/identity"
	"github.com/bizledger/backend/internal/domain/recurrence"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DefaultMaxCatchUpPeriods bounds one template's work in catch_up mode
const DefaultMaxCatchUpPeriods = 24

// ProcessorConfig configures the Processor
type ProcessorConfig struct {
	Policy            recurrence.CatchUpPolicy
	MaxCatchUpPeriods int
}

// Processor materializes due recurring transactions into ledger entries.
// Each template runs in its own transaction; a compare-and-swap on next_run
// guarantees one occurrence is never materialized twice, even when passes
// overlap.
type Processor struct {
	repo           recurrence.Repository
	companyRepo    identity.CompanyRepository
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
	policy         recurrence.CatchUpPolicy
	maxPeriods     int
	logger         *zap.Logger
}

// NewProcessor creates a new Processor
func NewProcessor(
	repo recurrence.Repository,
	companyRepo identity.CompanyRepository,
	txScope TransactionScope,
	cfg ProcessorConfig,
	logger *zap.Logger,
) *Processor {
	if cfg.Policy == "" {
		cfg.Policy = recurrence.CatchUpSingle
	}
	if cfg.MaxCatchUpPeriods <= 0 {
		cfg.MaxCatchUpPeriods = DefaultMaxCatchUpPeriods
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{
		repo:        repo,
		companyRepo: companyRepo,
		txScope:     txScope,
		policy:      cfg.Policy,
		maxPeriods:  cfg.MaxCatchUpPeriods,
		logger:      logger,
	}
}

// SetEventPublisher sets the publisher that receives entry events after commit
func (p *Processor) SetEventPublisher(publisher shared.EventPublisher) {
	p.eventPublisher = publisher
}

// ProcessForActor runs ProcessDue for the actor's company
func (p *Processor) ProcessForActor(ctx context.Context, actor identity.Actor, now time.Time) (*ProcessResult, error) {
	if err := actor.RequireStaff(); err != nil {
		return nil, err
	}
	return p.ProcessDue(ctx, actor.CompanyID, now)
}

// ProcessAllTenants runs ProcessDue for every company. A company whose due
// query fails is logged and counted as failed; the pass continues.
func (p *Processor) ProcessAllTenants(ctx context.Context, now time.Time) (*ProcessResult, error) {
	ids, err := p.companyRepo.FindAllIDs(ctx)
	if err != nil {
		return nil, err
	}
	total := newProcessResult()
	for _, tenantID := range ids {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		res, err := p.ProcessDue(ctx, tenantID, now)
		if err != nil {
			p.logger.Error("recurring processing failed for tenant",
				zap.String("tenant_id", tenantID.String()),
				zap.Error(err),
			)
			total.Failed++
			continue
		}
		total.merge(res)
	}
	p.logger.Info("recurring processing pass finished",
		zap.Int("tenants", len(ids)),
		zap.Int("processed", total.Processed),
		zap.Int("deactivated", total.Deactivated),
		zap.Int("skipped", total.Skipped),
		zap.Int("failed", total.Failed),
	)
	return total, nil
}

// ProcessDue handles every active template of the tenant whose next run is
// at or before now. Per-template errors are logged and counted, never returned.
func (p *Processor) ProcessDue(ctx context.Context, tenantID uuid.UUID, now time.Time) (*ProcessResult, error) {
	due, err := p.repo.FindDue(ctx, tenantID, now)
	if err != nil {
		return nil, err
	}
	result := newProcessResult()
	for i := range due {
		rt := &due[i]
		if !rt.IsDue(now) {
			continue
		}
		outcome, entries, err := p.processOne(ctx, rt, now)
		if err != nil {
			p.logger.Error("failed to process recurring transaction",
				zap.String("tenant_id", tenantID.String()),
				zap.String("recurring_id", rt.ID.String()),
				zap.Error(err),
			)
			result.Failed++
			continue
		}
		switch outcome {
		case outcomeDeactivated:
			result.Deactivated++
		case outcomeSkipped:
			result.Skipped++
		case outcomeProcessed:
			result.Processed++
		}
		for _, e := range entries {
			result.Transactions = append(result.Transactions, e.summary)
			p.publish(ctx, e.events)
		}
	}
	return result, nil
}

type outcome int

const (
	outcomeSkipped outcome = iota
	outcomeDeactivated
	outcomeProcessed
)

type materialized struct {
	summary MaterializedEntry
	events  []shared.DomainEvent
}

func (p *Processor) processOne(ctx context.Context, rt *recurrence.RecurringTransaction, now time.Time) (outcome, []materialized, error) {
	if rt.Expired(now) {
		var retired bool
		err := p.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
			ok, err := repos.RecurringRepo().Deactivate(ctx, rt.TenantID, rt.ID, rt.NextRun, now)
			retired = ok
			return err
		})
		if err != nil {
			return outcomeSkipped, nil, err
		}
		if !retired {
			return outcomeSkipped, nil, nil
		}
		return outcomeDeactivated, nil, nil
	}

	periods := 1
	if p.policy == recurrence.CatchUpAll {
		periods = p.maxPeriods
	}

	var entries []materialized
	err := p.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		entries = entries[:0]
		expected := rt.NextRun
		for i := 0; i < periods && !expected.After(now); i++ {
			next, err := recurrence.Advance(expected, rt.Frequency)
			if err != nil {
				return err
			}
			claimed, err := repos.RecurringRepo().ClaimRun(ctx, rt.TenantID, rt.ID, expected, next, now)
			if err != nil {
				return err
			}
			if !claimed {
				break
			}
			date := now
			if p.policy == recurrence.CatchUpAll {
				date = expected
			}
			m, err := p.materialize(ctx, repos, rt, date)
			if err != nil {
				return err
			}
			entries = append(entries, m)
			expected = next
		}
		return nil
	})
	if err != nil {
		return outcomeSkipped, nil, err
	}
	if len(entries) == 0 {
		return outcomeSkipped, nil, nil
	}
	return outcomeProcessed, entries, nil
}

func (p *Processor) materialize(ctx context.Context, repos TransactionalRepositories, rt *recurrence.RecurringTransaction, date time.Time) (materialized, error) {
	expenditure, income, err := rt.Materialize(date)
	if err != nil {
		return materialized{}, err
	}
	summary := MaterializedEntry{
		RecurringID: rt.ID,
		TenantID:    rt.TenantID,
		Type:        string(rt.Type),
		Amount:      rt.Amount,
		Date:        date,
	}
	if expenditure != nil {
		if err := repos.ExpenditureRepo().Create(ctx, expenditure); err != nil {
			return materialized{}, err
		}
		if err := adjust(ctx, repos, expenditure.TenantID, expenditure.AccountID, expenditure.BalanceDelta()); err != nil {
			return materialized{}, err
		}
		summary.EntryID = expenditure.ID
		return materialized{summary: summary, events: expenditure.GetDomainEvents()}, nil
	}
	if err := repos.IncomeRepo().Create(ctx, income); err != nil {
		return materialized{}, err
	}
	if err := adjust(ctx, repos, income.TenantID, income.AccountID, income.BalanceDelta()); err != nil {
		return materialized{}, err
	}
	summary.EntryID = income.ID
	return materialized{summary: summary, events: income.GetDomainEvents()}, nil
}

func adjust(ctx context.Context, repos TransactionalRepositories, tenantID, accountID uuid.UUID, delta decimal.Decimal) error {
	return repos.AccountRepo().AdjustBalance(ctx, tenantID, accountID, delta)
}

func (p *Processor) publish(ctx context.Context, events []shared.DomainEvent) {
	if p.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := p.eventPublisher.Publish(ctx, events...); err != nil {
		p.logger.Warn("failed to publish recurring entry events", zap.Error(err))
	}
}
