package project

import (
	"context"
	"testing"
	"time"

	"github.com/bizledger/backend/internal/domain/identity"
	"github.com/bizledger/backend/internal/domain/project"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimelineService_ManualLogs(t *testing.T) {
	f := newFixture(t)
	svc := NewTimelineService(f.store.ProjectRepo(), f.store.TaskRepo(), f.store.DailyLogRepo(), NewAttributor(f.store.EmployeeRepo(), false), nil)
	task := f.createTask(t, "QA pass")
	hours := decimal.NewFromFloat(2.5)

	entry, err := svc.CreateManualLog(context.Background(), f.admin, f.project.ID, ManualLogRequest{
		TaskID:      &task.ID,
		Date:        time.Now().Add(time.Hour),
		Description: "Regression sweep",
		HoursSpent:  &hours,
	})
	require.NoError(t, err)
	assert.Equal(t, "MANUAL", entry.Source)
	assert.Equal(t, f.alice.ID, entry.EmployeeID)

	timeline, err := svc.Timeline(context.Background(), f.admin, f.project.ID, TimelineFilter{})
	require.NoError(t, err)
	require.Len(t, timeline, 2)
	assert.Equal(t, "Regression sweep", timeline[0].Description, "newest first")
	assert.Equal(t, "Alice Doe", timeline[0].EmployeeName)

	tooMany := decimal.NewFromInt(25)
	_, err = svc.UpdateLog(context.Background(), f.admin, entry.ID, EditLogRequest{Description: "Longer sweep", HoursSpent: &tooMany})
	require.Error(t, err)

	edited, err := svc.UpdateLog(context.Background(), f.admin, entry.ID, EditLogRequest{Description: "Longer sweep"})
	require.NoError(t, err)
	assert.Equal(t, "Longer sweep", edited.Description)

	require.NoError(t, svc.DeleteLog(context.Background(), f.admin, entry.ID))
	assert.ErrorIs(t, svc.DeleteLog(context.Background(), f.admin, entry.ID), shared.ErrNotFound)
}

func TestTimelineService_ManualLogNeedsAttribution(t *testing.T) {
	store := newMemStore()
	tenantID := uuid.New()
	p, err := project.NewProject(tenantID, project.Details{Name: "Empty shop"})
	require.NoError(t, err)
	require.NoError(t, store.ProjectRepo().Save(context.Background(), p))
	svc := NewTimelineService(store.ProjectRepo(), store.TaskRepo(), store.DailyLogRepo(), NewAttributor(store.EmployeeRepo(), false), nil)

	actor := identity.Actor{UserID: uuid.New(), CompanyID: tenantID, UserType: identity.UserTypeAdmin}
	_, err = svc.CreateManualLog(context.Background(), actor, p.ID, ManualLogRequest{Date: time.Now(), Description: "Work"})
	assert.ErrorIs(t, err, ErrNoAttribution)
	assert.Empty(t, store.logs)
}
