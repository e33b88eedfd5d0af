package ledger

import (
	"context"

	"github.com/bizledger/backend/internal/application/common"
	"github.com/bizledger/backend/internal/domain/identity"
	"github.com/bizledger/backend/internal/domain/ledger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CategoryService manages tenant categories and reads system categories
type CategoryService struct {
	categoryRepo ledger.CategoryRepository
	txScope      TransactionScope
	logger       *zap.Logger
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo ledger.CategoryRepository, txScope TransactionScope, logger *zap.Logger) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo, txScope: txScope, logger: common.Nop(logger)}
}

// Create adds a tenant-owned category
func (s *CategoryService) Create(ctx context.Context, actor identity.Actor, req CategoryRequest) (*CategoryResponse, error) {
	if err := actor.RequireStaff(); err != nil {
		return nil, err
	}
	category, err := ledger.NewCategory(actor.CompanyID, req.Name, req.Icon, req.Color, ledger.CategoryType(req.Type))
	if err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, common.Fail(s.logger, "create category", err)
	}
	resp := ToCategoryResponse(category)
	return &resp, nil
}

// Update edits a tenant-owned category. System categories are refused
// before anything is written.
func (s *CategoryService) Update(ctx context.Context, actor identity.Actor, id uuid.UUID, req CategoryRequest) (*CategoryResponse, error) {
	if err := actor.RequireStaff(); err != nil {
		return nil, err
	}
	category, err := s.categoryRepo.FindVisible(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, common.Fail(s.logger, "load category", err)
	}
	if err := category.Update(req.Name, req.Icon, req.Color, ledger.CategoryType(req.Type)); err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, common.Fail(s.logger, "update category", err)
	}
	resp := ToCategoryResponse(category)
	return &resp, nil
}

// Delete unlinks every entry from the category and removes it, atomically
func (s *CategoryService) Delete(ctx context.Context, actor identity.Actor, id uuid.UUID) error {
	if err := actor.RequireStaff(); err != nil {
		return err
	}
	category, err := s.categoryRepo.FindVisible(ctx, actor.CompanyID, id)
	if err != nil {
		return common.Fail(s.logger, "load category", err)
	}
	if err := category.EnsureDeletable(); err != nil {
		return err
	}
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.ExpenditureRepo().UnlinkCategory(ctx, actor.CompanyID, id); err != nil {
			return err
		}
		if err := repos.IncomeRepo().UnlinkCategory(ctx, actor.CompanyID, id); err != nil {
			return err
		}
		return repos.CategoryRepo().DeleteForTenant(ctx, actor.CompanyID, id)
	})
	return common.Fail(s.logger, "delete category", err)
}

// List returns tenant and system categories. A type filter also matches BOTH.
func (s *CategoryService) List(ctx context.Context, actor identity.Actor, categoryType string) ([]CategoryResponse, error) {
	if err := actor.RequireTenant(); err != nil {
		return nil, err
	}
	var filter *ledger.CategoryType
	if categoryType != "" {
		t := ledger.CategoryType(categoryType)
		if !t.IsValid() {
			return nil, ledger.ErrInvalidCategoryType
		}
		filter = &t
	}
	categories, err := s.categoryRepo.FindAllVisible(ctx, actor.CompanyID, filter)
	if err != nil {
		return nil, common.Fail(s.logger, "list categories", err)
	}
	out := make([]CategoryResponse, len(categories))
	for i := range categories {
		out[i] = ToCategoryResponse(&categories[i])
	}
	return out, nil
}

// SeedDefaults creates the standard categories the company does not have yet
func (s *CategoryService) SeedDefaults(ctx context.Context, actor identity.Actor) (*SeedResult, error) {
	if err := actor.RequireStaff(); err != nil {
		return nil, err
	}
	return s.SeedDefaultsForTenant(ctx, actor.CompanyID)
}

// SeedDefaultsForTenant seeds without an actor, for operator tooling
func (s *CategoryService) SeedDefaultsForTenant(ctx context.Context, tenantID uuid.UUID) (*SeedResult, error) {
	result := &SeedResult{Created: []string{}, Skipped: []string{}}
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		for _, seed := range ledger.DefaultCategories() {
			exists, err := repos.CategoryRepo().ExistsByName(ctx, tenantID, seed.Name)
			if err != nil {
				return err
			}
			if exists {
				result.Skipped = append(result.Skipped, seed.Name)
				continue
			}
			category, err := ledger.NewCategory(tenantID, seed.Name, seed.Icon, seed.Color, seed.Type)
			if err != nil {
				return err
			}
			if err := repos.CategoryRepo().Save(ctx, category); err != nil {
				return err
			}
			result.Created = append(result.Created, seed.Name)
		}
		return nil
	})
	if err != nil {
		return nil, common.Fail(s.logger, "seed categories", err)
	}
	s.logger.Info("default categories seeded",
		zap.String("tenant_id", tenantID.String()),
		zap.Int("created", len(result.Created)),
		zap.Int("skipped", len(result.Skipped)),
	)
	return result, nil
}
