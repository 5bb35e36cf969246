package repository

import (
	"context"
	"flag"
	"log"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/worklog/worklog-backend/pkg/testutil"
)

var suite *testutil.IntegrationSuite

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(m.Run())
	}

	ctx := context.Background()
	s, err := testutil.NewIntegrationSuite(ctx)
	if err != nil {
		log.Fatalf("failed to start integration suite: %v", err)
	}
	suite = s

	code := m.Run()
	testutil.TerminateContainer(ctx)
	os.Exit(code)
}

func seedEntryContext(t *testing.T, ctx context.Context) (userID, projectID string) {
	t.Helper()

	dept := suite.Fixtures.Department()
	_, err := suite.RawDB.ExecContext(ctx,
		`INSERT INTO departments (id, name, code, is_active) VALUES ($1, $2, $3, $4)`,
		dept.ID, dept.Name, dept.Code, dept.IsActive)
	require.NoError(t, err)

	profile := suite.Fixtures.Profile(testutil.WithProfileDepartment(dept.ID))
	_, err = suite.RawDB.ExecContext(ctx,
		`INSERT INTO profiles (id, username, password_hash, role, department_id, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		profile.ID, profile.Username, profile.PasswordHash, profile.Role, profile.DepartmentID, profile.IsActive)
	require.NoError(t, err)

	project := suite.Fixtures.Project()
	_, err = suite.RawDB.ExecContext(ctx,
		`INSERT INTO projects (id, name, color, is_active) VALUES ($1, $2, $3, $4)`,
		project.ID, project.Name, project.Color, project.IsActive)
	require.NoError(t, err)

	return profile.ID, project.ID
}

func TestEntryLifecycle(t *testing.T) {
	testutil.SkipIfShort(t)
	suite.Reset(t)

	ctx := context.Background()
	userID, projectID := seedEntryContext(t, ctx)
	repo := NewEntryRepository(suite.DB)

	note := "週會與需求討論"
	entry := &TimeEntry{
		UserID:    userID,
		ProjectID: projectID,
		EntryDate: time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC),
		Hours:     7.5,
		Note:      &note,
	}

	require.NoError(t, repo.Create(ctx, entry))
	require.NotEmpty(t, entry.ID)

	got, err := repo.GetByID(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, 7.5, got.Hours)
	assert.NotNil(t, got.ProjectName)
	assert.NotNil(t, got.DepartmentName)

	updated, err := repo.Update(ctx, entry.ID, projectID,
		time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), 8, nil)
	require.NoError(t, err)
	assert.Equal(t, 8.0, updated.Hours)
	assert.Nil(t, updated.Note)

	require.NoError(t, repo.SoftDelete(ctx, entry.ID))
	_, err = repo.GetByID(ctx, entry.ID)
	require.Error(t, err)
}

func TestEntryHoursConstraints(t *testing.T) {
	testutil.SkipIfShort(t)
	suite.Reset(t)

	ctx := context.Background()
	userID, projectID := seedEntryContext(t, ctx)
	repo := NewEntryRepository(suite.DB)

	// Below the 0.5 minimum
	err := repo.Create(ctx, &TimeEntry{
		UserID:    userID,
		ProjectID: projectID,
		EntryDate: time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC),
		Hours:     0.2,
	})
	require.Error(t, err)

	// Not a half-hour step
	err = repo.Create(ctx, &TimeEntry{
		UserID:    userID,
		ProjectID: projectID,
		EntryDate: time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC),
		Hours:     7.7,
	})
	require.Error(t, err)
}

func TestListForUserRange(t *testing.T) {
	testutil.SkipIfShort(t)
	suite.Reset(t)

	ctx := context.Background()
	userID, projectID := seedEntryContext(t, ctx)
	repo := NewEntryRepository(suite.DB)

	for _, d := range []time.Time{
		time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC),
	} {
		require.NoError(t, repo.Create(ctx, &TimeEntry{
			UserID:    userID,
			ProjectID: projectID,
			EntryDate: d,
			Hours:     8,
		}))
	}

	entries, err := repo.ListForUser(ctx, userID,
		time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, entries, 2, "range is inclusive on both ends")
	assert.Equal(t, "2025-06-09", entries[0].EntryDate.Format("2006-01-02"))
	assert.Equal(t, "2025-06-15", entries[1].EntryDate.Format("2006-01-02"))
}

func TestCreateBatchRollsBackOnFailure(t *testing.T) {
	testutil.SkipIfShort(t)
	suite.Reset(t)

	ctx := context.Background()
	userID, projectID := seedEntryContext(t, ctx)
	repo := NewEntryRepository(suite.DB)

	err := repo.CreateBatch(ctx, []*TimeEntry{
		{UserID: userID, ProjectID: projectID, EntryDate: time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC), Hours: 8},
		{UserID: userID, ProjectID: projectID, EntryDate: time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), Hours: 99},
	})
	require.Error(t, err)

	entries, err := repo.ListForUser(ctx, userID,
		time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, entries, "failed batch leaves nothing behind")
}
