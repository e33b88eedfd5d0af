// Package testutil holds helpers shared by the integration tests: a sqlmock
// backed GORM handle, deterministic ids, actors and recording fakes for the
// notifier and the event bus.
package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/bizledger/backend/internal/domain/identity"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// MockDB wraps a GORM database with sqlmock for testing.
type MockDB struct {
	DB    *gorm.DB
	Mock  sqlmock.Sqlmock
	SqlDB *sql.DB
}

// NewMockDB creates a mock PostgreSQL connection. It is closed on cleanup.
func NewMockDB(t *testing.T) *MockDB {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err, "Failed to create sqlmock")

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err, "Failed to open GORM connection")

	t.Cleanup(func() { _ = mockDB.Close() })
	return &MockDB{DB: gormDB, Mock: mock, SqlDB: mockDB}
}

// ExpectationsWereMet verifies that all expectations were met.
func (m *MockDB) ExpectationsWereMet(t *testing.T) {
	t.Helper()
	require.NoError(t, m.Mock.ExpectationsWereMet(), "Unmet database expectations")
}

// NewTestUUID derives a reproducible UUID from seed.
func NewTestUUID(seed string) uuid.UUID {
	namespace := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	return uuid.NewSHA1(namespace, []byte(seed))
}

// TestTenantID returns the company id most tests run under.
func TestTenantID() uuid.UUID {
	return NewTestUUID("test-company")
}

// AdminActor returns an administrator of tenantID
func AdminActor(tenantID uuid.UUID) identity.Actor {
	return identity.Actor{
		UserID:    NewTestUUID("admin-" + tenantID.String()),
		CompanyID: tenantID,
		UserType:  identity.UserTypeAdmin,
		Email:     "admin@example.com",
		Name:      "Admin",
	}
}

// EmployeeActor returns a staff login linked to employeeID
func EmployeeActor(tenantID, employeeID uuid.UUID) identity.Actor {
	return identity.Actor{
		UserID:     NewTestUUID("employee-" + employeeID.String()),
		CompanyID:  tenantID,
		UserType:   identity.UserTypeEmployee,
		EmployeeID: &employeeID,
		Email:      "staff@example.com",
		Name:       "Staff",
	}
}

// ClientActor returns a client login of tenantID
func ClientActor(tenantID uuid.UUID) identity.Actor {
	return identity.Actor{
		UserID:    NewTestUUID("client-" + tenantID.String()),
		CompanyID: tenantID,
		UserType:  identity.UserTypeClient,
		Email:     "client@example.com",
		Name:      "Client",
	}
}

// Date returns midnight UTC of the given day
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// RequireEventually retries condition until it holds or timeout elapses.
func RequireEventually(t *testing.T, condition func() bool, timeout, interval time.Duration, msgAndArgs ...any) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(interval)
	}
	require.Fail(t, "Condition not met within timeout", msgAndArgs...)
}
