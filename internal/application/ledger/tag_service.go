package ledger

import (
	"context"

	"github.com/bizledger/backend/internal/application/common"
	"github.com/bizledger/backend/internal/domain/identity"
	"github.com/bizledger/backend/internal/domain/ledger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TagService manages tags
type TagService struct {
	tagRepo ledger.TagRepository
	logger  *zap.Logger
}

// NewTagService creates a new TagService
func NewTagService(tagRepo ledger.TagRepository, logger *zap.Logger) *TagService {
	return &TagService{tagRepo: tagRepo, logger: common.Nop(logger)}
}

// Create adds a tag
func (s *TagService) Create(ctx context.Context, actor identity.Actor, req TagRequest) (*TagResponse, error) {
	if err := actor.RequireStaff(); err != nil {
		return nil, err
	}
	tag, err := ledger.NewTag(actor.CompanyID, req.Name)
	if err != nil {
		return nil, err
	}
	if err := s.tagRepo.Save(ctx, tag); err != nil {
		return nil, common.Fail(s.logger, "create tag", err)
	}
	resp := ToTagResponse(tag)
	return &resp, nil
}

// Rename changes a tag name
func (s *TagService) Rename(ctx context.Context, actor identity.Actor, id uuid.UUID, req TagRequest) (*TagResponse, error) {
	if err := actor.RequireStaff(); err != nil {
		return nil, err
	}
	tag, err := s.tagRepo.FindByIDForTenant(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, common.Fail(s.logger, "load tag", err)
	}
	if err := tag.Rename(req.Name); err != nil {
		return nil, err
	}
	if err := s.tagRepo.Save(ctx, tag); err != nil {
		return nil, common.Fail(s.logger, "rename tag", err)
	}
	resp := ToTagResponse(tag)
	return &resp, nil
}

// Delete removes a tag; entry links cascade
func (s *TagService) Delete(ctx context.Context, actor identity.Actor, id uuid.UUID) error {
	if err := actor.RequireStaff(); err != nil {
		return err
	}
	if _, err := s.tagRepo.FindByIDForTenant(ctx, actor.CompanyID, id); err != nil {
		return common.Fail(s.logger, "load tag", err)
	}
	return common.Fail(s.logger, "delete tag", s.tagRepo.DeleteForTenant(ctx, actor.CompanyID, id))
}

// List returns every tag of the company
func (s *TagService) List(ctx context.Context, actor identity.Actor) ([]TagResponse, error) {
	if err := actor.RequireStaff(); err != nil {
		return nil, err
	}
	tags, err := s.tagRepo.FindAllForTenant(ctx, actor.CompanyID)
	if err != nil {
		return nil, common.Fail(s.logger, "list tags", err)
	}
	out := make([]TagResponse, len(tags))
	for i := range tags {
		out[i] = ToTagResponse(&tags[i])
	}
	return out, nil
}
