package ledger

import (
	"strings"

	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CategoryType restricts which entries a category applies to
type CategoryType string

const (
	CategoryTypeExpense CategoryType = "EXPENSE"
	CategoryTypeIncome  CategoryType = "INCOME"
	CategoryTypeBoth    CategoryType = "BOTH"
)

// IsValid checks if the category type is known
func (t CategoryType) IsValid() bool {
	switch t {
	case CategoryTypeExpense, CategoryTypeIncome, CategoryTypeBoth:
		return true
	}
	return false
}

// Errors for system categories, which are shared read-only rows
var (
	ErrSystemCategoryEdit   = shared.NewDomainError("SYSTEM_CATEGORY", "Cannot edit system categories")
	ErrSystemCategoryDelete = shared.NewDomainError("SYSTEM_CATEGORY", "Cannot delete system categories")
)

// ErrInvalidCategoryType is returned for unknown category types
var ErrInvalidCategoryType = shared.NewDomainError("INVALID_CATEGORY_TYPE", "Category type is not valid")

// Category classifies entries. System categories have no tenant.
type Category struct {
	shared.BaseAggregateRoot
	TenantID *uuid.UUID
	Name     string
	Icon     string
	Color    string
	Type     CategoryType
	IsSystem bool
}

// NewCategory creates a tenant-owned category
func NewCategory(tenantID uuid.UUID, name, icon, color string, categoryType CategoryType) (*Category, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	c := &Category{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		TenantID:          &tenantID,
	}
	if err := c.apply(name, icon, color, categoryType); err != nil {
		return nil, err
	}
	return c, nil
}

// NewSystemCategory creates a shared category visible to every tenant
func NewSystemCategory(name, icon, color string, categoryType CategoryType) (*Category, error) {
	c := &Category{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		IsSystem:          true,
	}
	if err := c.apply(name, icon, color, categoryType); err != nil {
		return nil, err
	}
	return c, nil
}

// Update changes the category. System categories are immutable.
func (c *Category) Update(name, icon, color string, categoryType CategoryType) error {
	if c.IsSystem {
		return ErrSystemCategoryEdit
	}
	if err := c.apply(name, icon, color, categoryType); err != nil {
		return err
	}
	c.Touch()
	c.IncrementVersion()
	return nil
}

// EnsureDeletable fails for system categories
func (c *Category) EnsureDeletable() error {
	if c.IsSystem {
		return ErrSystemCategoryDelete
	}
	return nil
}

// VisibleTo reports whether the tenant may read the category
func (c *Category) VisibleTo(tenantID uuid.UUID) bool {
	if c.IsSystem && c.TenantID == nil {
		return true
	}
	return c.TenantID != nil && *c.TenantID == tenantID
}

// AppliesTo reports whether the category can classify entries of the given type
func (c *Category) AppliesTo(t CategoryType) bool {
	return c.Type == t || c.Type == CategoryTypeBoth
}

func (c *Category) apply(name, icon, color string, categoryType CategoryType) error {
	name = strings.TrimSpace(name)
	if len(name) < 2 {
		return shared.NewDomainError("INVALID_NAME", "Name must be at least 2 characters")
	}
	if categoryType == "" {
		categoryType = CategoryTypeExpense
	}
	if !categoryType.IsValid() {
		return ErrInvalidCategoryType
	}
	c.Name = name
	c.Icon = icon
	c.Color = color
	c.Type = categoryType
	return nil
}

// CategorySeed describes a default category
type CategorySeed struct {
	Name  string
	Icon  string
	Color string
	Type  CategoryType
}

// DefaultCategories returns the starter set offered to new companies
func DefaultCategories() []CategorySeed {
	return []CategorySeed{
		{Name: "Salary", Icon: "Wallet", Color: "#ef4444", Type: CategoryTypeExpense},
		{Name: "Utilities", Icon: "Zap", Color: "#f59e0b", Type: CategoryTypeExpense},
		{Name: "Office Supplies", Icon: "Package", Color: "#8b5cf6", Type: CategoryTypeExpense},
		{Name: "Marketing", Icon: "Megaphone", Color: "#ec4899", Type: CategoryTypeExpense},
		{Name: "Travel", Icon: "Plane", Color: "#06b6d4", Type: CategoryTypeExpense},
		{Name: "Software", Icon: "Code", Color: "#3b82f6", Type: CategoryTypeExpense},
		{Name: "Rent", Icon: "Building", Color: "#64748b", Type: CategoryTypeExpense},
		{Name: "Insurance", Icon: "Shield", Color: "#22c55e", Type: CategoryTypeExpense},
		{Name: "Sales", Icon: "ShoppingCart", Color: "#22c55e", Type: CategoryTypeIncome},
		{Name: "Services", Icon: "Briefcase", Color: "#3b82f6", Type: CategoryTypeIncome},
		{Name: "Investment", Icon: "TrendingUp", Color: "#8b5cf6", Type: CategoryTypeIncome},
		{Name: "Grants", Icon: "Gift", Color: "#f59e0b", Type: CategoryTypeIncome},
	}
}
