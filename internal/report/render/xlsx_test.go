package render

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/worklog/worklog-backend/internal/report/aggregate"
	"github.com/xuri/excelize/v2"
)

func TestXLSXWeekly(t *testing.T) {
	d := weeklyTestData()
	d.Scope = ScopeMe
	d.ScopeName = "alice"
	d.Entries = d.Entries[:1]
	d.Entries = append(d.Entries, aggregate.Entry{
		ID: "e9", UserID: "u1", Username: "alice",
		ProjectID: "p1", ProjectName: "內部系統", Date: day("2026-08-26"), Hours: 7,
	})

	b, filename, err := XLSX(d)
	require.NoError(t, err)
	assert.Equal(t, "工時週報_2026-08-24_至_2026-08-30.xlsx", filename)

	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("週報")
	require.NoError(t, err)

	assert.Equal(t, "工時週報", rows[0][0])
	assert.Equal(t, []string{"期間", "2026-08-24 至 2026-08-30"}, rows[1])
	assert.Equal(t, []string{"人員", "alice"}, rows[2])
	assert.Equal(t, []string{"日期", "星期", "專案", "時數", "備註"}, rows[4])

	// Entries sorted by date
	assert.Equal(t, "2026-08-25", rows[5][0])
	assert.Equal(t, "二", rows[5][1])
	assert.Equal(t, "內部系統", rows[5][2])
	assert.Equal(t, "8", rows[5][3])
	assert.Equal(t, "2026-08-26", rows[6][0])

	last := rows[len(rows)-1]
	assert.Equal(t, "小計", last[0])
	assert.Equal(t, "15", last[3])
}

func TestXLSXMonthly(t *testing.T) {
	d := weeklyTestData()
	d.PeriodType = PeriodMonth
	d.Period = aggregate.Range{Start: day("2026-08-01"), End: day("2026-08-31")}
	d.Scope = ScopeMe
	d.ScopeName = "alice"
	d.Entries = []aggregate.Entry{
		{ID: "e1", UserID: "u1", ProjectID: "p1", ProjectName: "內部系統", Date: day("2026-08-04"), Hours: 8},
		{ID: "e2", UserID: "u1", ProjectID: "p2", ProjectName: "官網改版", Date: day("2026-08-05"), Hours: 4},
		{ID: "e3", UserID: "u1", ProjectID: "p1", ProjectName: "內部系統", Date: day("2026-08-12"), Hours: 8},
	}

	b, filename, err := XLSX(d)
	require.NoError(t, err)
	assert.Equal(t, "工時月報_2026-08.xlsx", filename)

	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("月報")
	require.NoError(t, err)

	assert.Equal(t, "工時月報", rows[0][0])
	assert.Equal(t, []string{"期間", "2026-08"}, rows[1])
	assert.Equal(t, []string{"週次", "專案", "時數", "佔比"}, rows[4])

	var subtotals, totals int
	for _, row := range rows {
		if len(row) >= 3 {
			switch {
			case len(row) > 1 && row[1] == "週小計":
				subtotals++
			case row[0] == "總計":
				totals++
				assert.Equal(t, "20", row[2])
				assert.Equal(t, "100%", row[3])
			}
		}
	}
	assert.Equal(t, 2, subtotals, "one subtotal per week with entries")
	assert.Equal(t, 1, totals)
}

func TestXLSXEmptyWindow(t *testing.T) {
	d := weeklyTestData()
	d.Entries = nil

	b, _, err := XLSX(d)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("週報")
	require.NoError(t, err)

	last := rows[len(rows)-1]
	assert.Equal(t, "小計", last[0])
	assert.Equal(t, "0", last[3])
}
