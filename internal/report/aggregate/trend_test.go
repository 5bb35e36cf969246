package aggregate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func projectEntry(project string, d time.Time, hours float64) Entry {
	return Entry{UserID: "u1", ProjectID: project, Date: d, Hours: hours}
}

func testProjects() []Project {
	return []Project{
		{ID: "p1", Name: "網站改版", Color: "#7C9CBF", IsActive: true},
		{ID: "p2", Name: "內部工具", Color: "#6EAF8D", IsActive: true},
		{ID: "p3", Name: "已停用", Color: "#E6A76B", IsActive: false},
	}
}

func TestWeekSeriesZeroFilled(t *testing.T) {
	now := date(2025, 6, 11) // Wednesday, week of 6/9
	entries := []Entry{
		projectEntry("p1", date(2025, 6, 10), 8),
		projectEntry("p1", date(2025, 6, 3), 4), // previous week
	}

	series := WeekSeries(entries, testProjects(), now, 4)

	require.Len(t, series, 4)
	// Oldest first, current week last
	assert.Equal(t, date(2025, 5, 19), series[0].Start)
	assert.Equal(t, date(2025, 6, 9), series[3].Start)
	assert.Equal(t, "6/9", series[3].Label)

	// Active projects are zero-filled in every row
	for _, row := range series {
		_, hasP1 := row.ByProject["p1"]
		_, hasP2 := row.ByProject["p2"]
		assert.True(t, hasP1)
		assert.True(t, hasP2)
	}

	assert.Equal(t, 8.0, series[3].ByProject["p1"])
	assert.Equal(t, 4.0, series[2].ByProject["p1"])
	assert.Equal(t, 0.0, series[3].ByProject["p2"])
	assert.Equal(t, 8.0, series[3].Total)
	assert.Equal(t, 0.0, series[0].Total)
}

func TestProjectShares(t *testing.T) {
	d := date(2025, 6, 10)
	entries := []Entry{
		projectEntry("p2", d, 3),
		projectEntry("p1", d, 8),
		projectEntry("p1", d, 2),
		{UserID: "u1", ProjectID: "deleted", Date: d, Hours: 1},
	}

	shares := ProjectShares(entries, testProjects())

	require.Len(t, shares, 3)
	assert.Equal(t, "網站改版", shares[0].Name)
	assert.Equal(t, 10.0, shares[0].Hours)
	assert.Equal(t, "#7C9CBF", shares[0].Color)
	assert.Equal(t, "內部工具", shares[1].Name)
	assert.Equal(t, UnknownProjectName, shares[2].Name)
}

func seriesWith(now time.Time, weeks int, hours map[int]map[string]float64, projects []Project) []WeekRow {
	var entries []Entry
	for weeksAgo, perProject := range hours {
		day := WeekBounds(now, weeksAgo).Start
		for pid, h := range perProject {
			entries = append(entries, projectEntry(pid, day, h))
		}
	}
	return WeekSeries(entries, projects, now, weeks)
}

func TestClassifyTrendsUpDownStable(t *testing.T) {
	now := date(2025, 6, 11)
	projects := testProjects()
	// p1 rising: prior weeks 10h each, recent weeks 20h each
	// p2 steady: 10h every week
	series := seriesWith(now, 4, map[int]map[string]float64{
		3: {"p1": 10, "p2": 10},
		2: {"p1": 10, "p2": 10},
		1: {"p1": 20, "p2": 10},
		0: {"p1": 20, "p2": 10},
	}, projects)

	trends := ClassifyTrends(series, projects, 2, 2)

	require.Len(t, trends, 2, "inactive projects are excluded")
	assert.Equal(t, "p1", trends[0].ProjectID, "sorted by change descending")
	assert.Equal(t, TrendUp, trends[0].Direction)
	assert.Equal(t, 100.0, trends[0].ChangePct)
	assert.Equal(t, TrendStable, trends[1].Direction)
	assert.Equal(t, 0.0, trends[1].ChangePct)
}

func TestClassifyTrendsDown(t *testing.T) {
	now := date(2025, 6, 11)
	projects := []Project{{ID: "p1", Name: "網站改版", IsActive: true}}
	series := seriesWith(now, 4, map[int]map[string]float64{
		3: {"p1": 20},
		2: {"p1": 20},
		1: {"p1": 5},
		0: {"p1": 5},
	}, projects)

	trends := ClassifyTrends(series, projects, 2, 2)
	require.Len(t, trends, 1)
	assert.Equal(t, TrendDown, trends[0].Direction)
	assert.Equal(t, -75.0, trends[0].ChangePct)
}

func TestClassifyTrendsWithinThresholdIsStable(t *testing.T) {
	now := date(2025, 6, 11)
	projects := []Project{{ID: "p1", Name: "網站改版", IsActive: true}}
	// +5% change stays stable
	series := seriesWith(now, 4, map[int]map[string]float64{
		3: {"p1": 20},
		2: {"p1": 20},
		1: {"p1": 21},
		0: {"p1": 21},
	}, projects)

	trends := ClassifyTrends(series, projects, 2, 2)
	require.Len(t, trends, 1)
	assert.Equal(t, TrendStable, trends[0].Direction)
}

func TestClassifyTrendsZeroBaseline(t *testing.T) {
	now := date(2025, 6, 11)
	projects := []Project{
		{ID: "p1", Name: "新專案", IsActive: true},
		{ID: "p2", Name: "閒置專案", IsActive: true},
	}
	// p1 newly active, p2 never active
	series := seriesWith(now, 4, map[int]map[string]float64{
		1: {"p1": 10},
		0: {"p1": 10},
	}, projects)

	trends := ClassifyTrends(series, projects, 2, 2)
	require.Len(t, trends, 2)

	assert.Equal(t, "p1", trends[0].ProjectID)
	assert.Equal(t, TrendUp, trends[0].Direction)
	assert.Equal(t, 100.0, trends[0].ChangePct)

	assert.Equal(t, "p2", trends[1].ProjectID)
	assert.Equal(t, TrendStable, trends[1].Direction)
	assert.Equal(t, 0.0, trends[1].ChangePct)
}

func TestNewProjects(t *testing.T) {
	now := date(2025, 6, 11)
	projects := []Project{
		{ID: "p1", Name: "舊專案", IsActive: true},
		{ID: "p2", Name: "新專案", IsActive: true},
		{ID: "p3", Name: "閒置專案", IsActive: true},
	}
	series := seriesWith(now, 4, map[int]map[string]float64{
		3: {"p1": 10},
		1: {"p1": 10, "p2": 5},
		0: {"p2": 5},
	}, projects)

	names := NewProjects(series, projects, 2)
	assert.Equal(t, []string{"新專案"}, names)
}

func TestDailyStats(t *testing.T) {
	now := date(2025, 6, 11)
	r := WeekBounds(now, 0)
	entries := []Entry{
		projectEntry("p1", date(2025, 6, 9), 8),
		projectEntry("p1", date(2025, 6, 10), 4),
		projectEntry("p2", date(2025, 6, 10), 2),
		projectEntry("p1", date(2025, 6, 2), 8), // outside the range
	}

	stats := DailyStats(entries, r)

	require.Len(t, stats, 7)
	assert.Equal(t, "2025-06-09", stats[0].Date)
	assert.Equal(t, "一", stats[0].Weekday)
	assert.Equal(t, 8.0, stats[0].Hours)
	assert.Equal(t, 6.0, stats[1].Hours)
	assert.Equal(t, 0.0, stats[2].Hours)
}
