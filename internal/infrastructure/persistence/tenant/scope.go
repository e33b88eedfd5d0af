// Package tenant scopes GORM statements to one company.
//
// Every per-company table carries a tenant_id column. Repositories take the
// tenant id explicitly and apply TenantScope, so a lookup of another
// tenant's row behaves exactly like a missing row.
//
//	db.WithContext(ctx).Scopes(tenant.TenantScope(tenantID)).First(&model, "id = ?", id)
package tenant

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultColumn is the tenant column of per-company tables
const DefaultColumn = "tenant_id"

// ErrTenantIDRequired is returned when a scoped statement has no tenant
var ErrTenantIDRequired = errors.New("tenant_id is required")

// TenantScope applies WHERE tenant_id = ? to a statement.
// A nil tenant id fails the statement instead of widening it.
func TenantScope(tenantID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return ColumnScope(DefaultColumn, tenantID)
}

// ColumnScope is TenantScope for tables naming their tenant column differently
func ColumnScope(column string, tenantID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if tenantID == uuid.Nil {
			_ = db.AddError(ErrTenantIDRequired)
			return db
		}
		return db.Where(column+" = ?", tenantID)
	}
}

// TenantDB wraps a GORM handle and hands out tenant-scoped sessions
type TenantDB struct {
	db *gorm.DB
}

// NewTenantDB creates a TenantDB
func NewTenantDB(db *gorm.DB) *TenantDB {
	return &TenantDB{db: db}
}

// ForTenant returns a session scoped to the tenant
func (t *TenantDB) ForTenant(ctx context.Context, tenantID uuid.UUID) *gorm.DB {
	return t.db.WithContext(ctx).Scopes(TenantScope(tenantID))
}

// Unscoped returns a session without tenant scoping. Use it for writes of a
// model that already carries its tenant id.
func (t *TenantDB) Unscoped(ctx context.Context) *gorm.DB {
	return t.db.WithContext(ctx)
}
