package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/worklog/worklog-backend/internal/identity/domain"
	"github.com/worklog/worklog-backend/internal/timesheet/repository"
	"github.com/worklog/worklog-backend/pkg/database"
	"github.com/worklog/worklog-backend/pkg/errors"
	"github.com/worklog/worklog-backend/pkg/logger"
	"github.com/worklog/worklog-backend/pkg/testutil"
)

type fakeDirectory struct {
	profiles map[string]*domain.Profile
}

func (f *fakeDirectory) GetByID(_ context.Context, id string) (*domain.Profile, error) {
	if p, ok := f.profiles[id]; ok {
		return p, nil
	}
	return nil, errors.NotFound("user")
}

func newTestService(t *testing.T, dir *fakeDirectory) (*TimesheetService, *testutil.MockDB) {
	t.Helper()

	mockDB := testutil.NewMockDB(t)
	log := logger.New("test", "test")
	repo := repository.NewEntryRepository(database.NewFromSqlx(mockDB.DB, log))
	svc := NewTimesheetService(repo, dir, noopEvents{}, log, 8)
	svc.now = func() time.Time {
		return time.Date(2025, 6, 11, 10, 0, 0, 0, time.UTC)
	}
	return svc, mockDB
}

// noopEvents drops everything; unit tests assert persistence and policy,
// not messaging.
type noopEvents struct{}

func (noopEvents) PublishEntryCreated(context.Context, *repository.TimeEntry)       {}
func (noopEvents) PublishEntryUpdated(context.Context, *repository.TimeEntry)       {}
func (noopEvents) PublishEntryDeleted(_ context.Context, _, _ string)               {}
func (noopEvents) PublishQuickFilled(_ context.Context, _ string, _ int, _ float64) {}

func TestValidHoursStep(t *testing.T) {
	assert.True(t, validHoursStep(0.5))
	assert.True(t, validHoursStep(8))
	assert.True(t, validHoursStep(7.5))
	assert.True(t, validHoursStep(24))
	assert.False(t, validHoursStep(0.25))
	assert.False(t, validHoursStep(7.75))
	assert.False(t, validHoursStep(1.1))
}

func TestEntryRequestParse(t *testing.T) {
	req := &EntryRequest{ProjectID: "p1", EntryDate: "2025-06-09", Hours: 7.5}
	date, err := req.parse()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC), date)

	req = &EntryRequest{ProjectID: "p1", EntryDate: "09/06/2025", Hours: 8}
	_, err = req.parse()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrValidation))

	req = &EntryRequest{ProjectID: "p1", EntryDate: "2025-06-09", Hours: 7.75}
	_, err = req.parse()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrValidation))
}

func TestCanWriteOwnEntry(t *testing.T) {
	svc, mockDB := newTestService(t, &fakeDirectory{})
	defer mockDB.Close()

	actor := Actor{ID: "u1", Role: "member"}
	assert.NoError(t, svc.canWrite(context.Background(), actor, "u1"))
}

func TestCanWriteMemberDeniedForOthers(t *testing.T) {
	dept := "d1"
	dir := &fakeDirectory{profiles: map[string]*domain.Profile{
		"u2": {ID: "u2", Role: "member", DepartmentID: &dept},
	}}
	svc, mockDB := newTestService(t, dir)
	defer mockDB.Close()

	actor := Actor{ID: "u1", Role: "member", DepartmentID: "d1"}
	err := svc.canWrite(context.Background(), actor, "u2")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrForbidden))
}

func TestCanWriteDepartmentAdminScoping(t *testing.T) {
	deptA, deptB := "d1", "d2"
	dir := &fakeDirectory{profiles: map[string]*domain.Profile{
		"same":  {ID: "same", Role: "member", DepartmentID: &deptA},
		"other": {ID: "other", Role: "member", DepartmentID: &deptB},
	}}
	svc, mockDB := newTestService(t, dir)
	defer mockDB.Close()

	actor := Actor{ID: "admin", Role: "department_admin", DepartmentID: "d1"}
	assert.NoError(t, svc.canWrite(context.Background(), actor, "same"))

	err := svc.canWrite(context.Background(), actor, "other")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrForbidden))
}

func TestCanWriteSuperAdmin(t *testing.T) {
	dept := "d2"
	dir := &fakeDirectory{profiles: map[string]*domain.Profile{
		"u2": {ID: "u2", Role: "member", DepartmentID: &dept},
	}}
	svc, mockDB := newTestService(t, dir)
	defer mockDB.Close()

	actor := Actor{ID: "root", Role: "super_admin"}
	assert.NoError(t, svc.canWrite(context.Background(), actor, "u2"))
}

func TestProgressAgainstDailyTarget(t *testing.T) {
	svc, mockDB := newTestService(t, &fakeDirectory{})
	defer mockDB.Close()

	rows := testutil.MockRows(
		"id", "user_id", "project_id", "entry_date", "hours", "note",
		"created_at", "updated_at", "project_name", "project_color",
		"username", "owner_department_id", "department_name",
	).
		AddRow("e1", "u1", "p1", time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC), 8.0, nil,
			time.Now(), time.Now(), "網站改版", "#7C9CBF", "alice", nil, nil).
		AddRow("e2", "u1", "p1", time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), 5.5, nil,
			time.Now(), time.Now(), "網站改版", "#7C9CBF", "alice", nil, nil)

	mockDB.Mock.ExpectQuery("SELECT").WillReturnRows(rows)

	progress, err := svc.Progress(context.Background(), Actor{ID: "u1", Role: "member"})
	require.NoError(t, err)

	assert.Equal(t, "2025-06-09", progress.WeekStart)
	assert.Equal(t, "2025-06-15", progress.WeekEnd)
	assert.Equal(t, 13.5, progress.TotalHours)
	assert.Len(t, progress.Days, 7)

	monday := progress.Days["2025-06-09"]
	assert.True(t, monday.IsComplete)
	assert.Equal(t, 0.0, monday.Shortfall)

	tuesday := progress.Days["2025-06-10"]
	assert.False(t, tuesday.IsComplete)
	assert.Equal(t, 2.5, tuesday.Shortfall)

	// Weekend without hours is neither complete nor short
	saturday := progress.Days["2025-06-14"]
	assert.False(t, saturday.IsComplete)
	assert.Equal(t, 0.0, saturday.Shortfall)
}
