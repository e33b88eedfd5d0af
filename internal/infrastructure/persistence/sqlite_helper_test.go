package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/bizledger/backend/internal/domain/ledger"
	"github.com/bizledger/backend/internal/domain/project"
	"github.com/bizledger/backend/internal/domain/workforce"
	"github.com/bizledger/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	require.NoError(t, err)

	// one connection keeps every statement on the same in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func seedAccount(t *testing.T, db *gorm.DB, tenantID uuid.UUID, name string, opening int64) *ledger.Account {
	t.Helper()
	account, err := ledger.NewAccount(tenantID, name, ledger.AccountTypeBank, decimal.NewFromInt(opening))
	require.NoError(t, err)
	require.NoError(t, NewGormAccountRepository(db).Save(context.Background(), account))
	return account
}

func seedEmployee(t *testing.T, db *gorm.DB, tenantID uuid.UUID, name, email string) *workforce.Employee {
	t.Helper()
	employee, err := workforce.NewEmployee(tenantID, workforce.EmployeeDetails{Name: name, Email: email})
	require.NoError(t, err)
	require.NoError(t, NewGormEmployeeRepository(db).Save(context.Background(), employee))
	return employee
}

func seedProject(t *testing.T, db *gorm.DB, tenantID uuid.UUID, name string) *project.Project {
	t.Helper()
	p, err := project.NewProject(tenantID, project.Details{Name: name})
	require.NoError(t, err)
	require.NoError(t, NewGormProjectRepository(db).Save(context.Background(), p))
	return p
}

func seedTask(t *testing.T, db *gorm.DB, p *project.Project, title string, due *time.Time, assignees ...uuid.UUID) *project.Task {
	t.Helper()
	task, err := project.NewTask(p.TenantID, p.ID, project.TaskDetails{Title: title, DueDate: due}, assignees)
	require.NoError(t, err)
	require.NoError(t, NewGormTaskRepository(db).Create(context.Background(), task))
	return task
}
