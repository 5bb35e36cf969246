package render

import (
	"bytes"
	"encoding/csv"
	"sort"
	"strconv"

	"github.com/worklog/worklog-backend/internal/report/aggregate"
)

// utf8BOM makes Excel open the file as UTF-8.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVFilename returns the download name for a CSV export.
func CSVFilename(d *Data) string {
	prefix := d.ScopeName
	if d.Scope == ScopeCompany {
		prefix = CompanyLabel
	}
	return prefix + "_工時報表_" + isoDate(d.Period.Start) + "_" + isoDate(d.Period.End) + ".csv"
}

// CSV renders the export as a UTF-8 CSV with a BOM. One row per entry sorted
// by department, date, and username, followed by summary blocks. Quoting
// follows RFC 4180, so notes with commas, quotes, or newlines survive a
// round trip.
func CSV(d *Data) ([]byte, string, error) {
	entries := make([]aggregate.Entry, len(d.Entries))
	copy(entries, d.Entries)
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.DepartmentName != b.DepartmentName {
			return a.DepartmentName < b.DepartmentName
		}
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		return a.Username < b.Username
	})

	var buf bytes.Buffer
	buf.Write(utf8BOM)
	w := csv.NewWriter(&buf)

	rows := [][]string{
		{"部門", "員工姓名", "日期", "星期", "專案", "時數", "備註"},
	}

	users := make(map[string]struct{})
	depts := make(map[string]struct{})
	var total float64

	for _, e := range entries {
		dept := e.DepartmentName
		if dept == "" {
			dept = aggregate.UnassignedDeptName
		}
		name := e.Username
		if name == "" {
			name = aggregate.UnknownUserName
		}
		project := e.ProjectName
		if project == "" {
			project = aggregate.UnknownProjectName
		}

		rows = append(rows, []string{
			dept,
			name,
			isoDate(e.Date),
			aggregate.WeekdayName(e.Date),
			project,
			formatHours(e.Hours),
			e.Note,
		})

		users[e.UserID] = struct{}{}
		if e.DepartmentID != "" {
			depts[e.DepartmentID] = struct{}{}
		}
		total += e.Hours
	}

	rows = append(rows,
		[]string{""},
		[]string{"統計摘要"},
		[]string{"總時數", formatHours(total)},
		[]string{"總人數", strconv.Itoa(len(users))},
		[]string{"部門數", strconv.Itoa(len(depts))},
	)

	stats := aggregate.DepartmentStats(d.Entries, d.Members, d.Departments)
	if len(stats) > 0 {
		rows = append(rows,
			[]string{""},
			[]string{"各部門統計"},
			[]string{"部門", "總時數", "人數", "平均時數"},
		)
		for _, s := range stats {
			rows = append(rows, []string{
				s.DepartmentName,
				formatHours(s.TotalHours),
				strconv.Itoa(s.MemberCount),
				formatHours(round1(s.AverageHours)),
			})
		}
	}

	if err := w.WriteAll(rows); err != nil {
		return nil, "", err
	}

	return buf.Bytes(), CSVFilename(d), nil
}
