package ledger

import (
	"strings"

	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ProjectTagPrefix prefixes the tag created alongside each project
const ProjectTagPrefix = "Project: "

// Tag groups entries; a tag may be bound to one project
type Tag struct {
	shared.TenantAggregateRoot
	Name      string
	ProjectID *uuid.UUID
}

// NewTag creates a free-standing tag
func NewTag(tenantID uuid.UUID, name string) (*Tag, error) {
	name = strings.TrimSpace(name)
	if len(name) < 2 {
		return nil, shared.NewDomainError("INVALID_NAME", "Name must be at least 2 characters")
	}
	return &Tag{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
	}, nil
}

// NewProjectTag creates the financial grouping tag of a project
func NewProjectTag(tenantID, projectID uuid.UUID, projectName string) (*Tag, error) {
	tag, err := NewTag(tenantID, ProjectTagPrefix+strings.TrimSpace(projectName))
	if err != nil {
		return nil, err
	}
	tag.ProjectID = &projectID
	return tag, nil
}

// Rename changes the tag name
func (t *Tag) Rename(name string) error {
	name = strings.TrimSpace(name)
	if len(name) < 2 {
		return shared.NewDomainError("INVALID_NAME", "Name must be at least 2 characters")
	}
	t.Name = name
	t.Touch()
	return nil
}
