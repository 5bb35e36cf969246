package render

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/worklog/worklog-backend/internal/report/aggregate"
)

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func weeklyTestData() *Data {
	return &Data{
		Entries: []aggregate.Entry{
			{ID: "e1", UserID: "u1", Username: "alice", DepartmentID: "d1", DepartmentName: "工程部",
				ProjectID: "p1", ProjectName: "內部系統", Date: day("2026-08-25"), Hours: 8, Note: "API 開發"},
			{ID: "e2", UserID: "u2", Username: "bob", DepartmentID: "d2", DepartmentName: "設計部",
				ProjectID: "p2", ProjectName: "官網改版", Date: day("2026-08-24"), Hours: 6.5, Note: "含,逗號\"引號\""},
			{ID: "e3", UserID: "u1", Username: "alice", DepartmentID: "d1", DepartmentName: "工程部",
				ProjectID: "p1", ProjectName: "內部系統", Date: day("2026-08-24"), Hours: 7.5},
		},
		Members: []aggregate.Member{
			{ID: "u1", Username: "alice", DepartmentID: "d1"},
			{ID: "u2", Username: "bob", DepartmentID: "d2"},
			{ID: "u3", Username: "carol", DepartmentID: "d1"},
		},
		Departments: []aggregate.Department{
			{ID: "d1", Name: "工程部"},
			{ID: "d2", Name: "設計部"},
		},
		Period:       aggregate.Range{Start: day("2026-08-24"), End: day("2026-08-30")},
		PeriodType:   PeriodWeek,
		Scope:        ScopeCompany,
		ScopeName:    CompanyLabel,
		GeneratedAt:  day("2026-08-31"),
		WeeklyTarget: 35,
	}
}

func parseCSV(t *testing.T, b []byte) [][]string {
	t.Helper()
	require.True(t, bytes.HasPrefix(b, []byte{0xEF, 0xBB, 0xBF}), "missing UTF-8 BOM")

	r := csv.NewReader(bytes.NewReader(b[3:]))
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	require.NoError(t, err)
	return rows
}

func TestCSVExport(t *testing.T) {
	d := weeklyTestData()

	b, filename, err := CSV(d)
	require.NoError(t, err)
	assert.Equal(t, "全公司_工時報表_2026-08-24_2026-08-30.csv", filename)

	rows := parseCSV(t, b)
	assert.Equal(t, []string{"部門", "員工姓名", "日期", "星期", "專案", "時數", "備註"}, rows[0])

	// Sorted by department, then date, then username
	assert.Equal(t, []string{"工程部", "alice", "2026-08-24", "一", "內部系統", "7.5", ""}, rows[1])
	assert.Equal(t, []string{"工程部", "alice", "2026-08-25", "二", "內部系統", "8", "API 開發"}, rows[2])

	// Quoting survives a round trip
	assert.Equal(t, "含,逗號\"引號\"", rows[3][6])
}

func TestCSVSummaryBlocks(t *testing.T) {
	b, _, err := CSV(weeklyTestData())
	require.NoError(t, err)

	rows := parseCSV(t, b)

	find := func(from int, label string) (int, []string) {
		for i := from; i < len(rows); i++ {
			if len(rows[i]) > 0 && rows[i][0] == label {
				return i, rows[i]
			}
		}
		t.Fatalf("row %q not found after index %d", label, from)
		return 0, nil
	}

	sum, _ := find(0, "統計摘要")
	_, total := find(sum, "總時數")
	assert.Equal(t, []string{"總時數", "22"}, total)
	_, users := find(sum, "總人數")
	assert.Equal(t, []string{"總人數", "2"}, users)
	_, depts := find(sum, "部門數")
	assert.Equal(t, []string{"部門數", "2"}, depts)

	// Department block: engineering first (15.5 > 6.5), idle carol counted
	block, _ := find(0, "各部門統計")
	_, eng := find(block, "工程部")
	assert.Equal(t, []string{"工程部", "15.5", "2", "7.8"}, eng)
	_, design := find(block, "設計部")
	assert.Equal(t, []string{"設計部", "6.5", "1", "6.5"}, design)
}

func TestCSVFallbackLabels(t *testing.T) {
	d := weeklyTestData()
	d.Entries = []aggregate.Entry{
		{ID: "e1", UserID: "ghost", Date: day("2026-08-24"), Hours: 3},
	}

	b, _, err := CSV(d)
	require.NoError(t, err)

	rows := parseCSV(t, b)
	assert.Equal(t, []string{"未分配", "未知", "2026-08-24", "一", "未知專案", "3", ""}, rows[1])
}

func TestCSVEmptyWindow(t *testing.T) {
	d := weeklyTestData()
	d.Entries = nil

	b, _, err := CSV(d)
	require.NoError(t, err)

	rows := parseCSV(t, b)
	assert.Equal(t, []string{"部門", "員工姓名", "日期", "星期", "專案", "時數", "備註"}, rows[0])

	var found bool
	for _, row := range rows {
		if len(row) >= 2 && row[0] == "總時數" {
			assert.Equal(t, "0", row[1])
			found = true
		}
	}
	assert.True(t, found)
}

func TestCSVFilenamePerScope(t *testing.T) {
	d := weeklyTestData()

	d.Scope = ScopeMe
	d.ScopeName = "alice"
	assert.Equal(t, "alice_工時報表_2026-08-24_2026-08-30.csv", CSVFilename(d))

	d.Scope = ScopeDepartment
	d.ScopeName = "工程部"
	assert.Equal(t, "工程部_工時報表_2026-08-24_2026-08-30.csv", CSVFilename(d))
}
