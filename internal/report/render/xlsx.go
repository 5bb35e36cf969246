package render

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/worklog/worklog-backend/internal/report/aggregate"
	"github.com/xuri/excelize/v2"
)

// XLSXFilename returns the download name for an Excel export.
func XLSXFilename(d *Data) string {
	return d.reportTitle() + "_" + d.periodLabel() + ".xlsx"
}

// XLSX renders the export as an Excel workbook. Weekly exports list each
// entry day by day; monthly exports break the month into weeks with per-week
// project subtotals and shares.
func XLSX(d *Data) ([]byte, string, error) {
	f := excelize.NewFile()
	defer f.Close()

	var err error
	if d.PeriodType == PeriodMonth {
		err = writeMonthlySheet(f, d)
	} else {
		err = writeWeeklySheet(f, d)
	}
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", fmt.Errorf("failed to write workbook: %w", err)
	}

	return buf.Bytes(), XLSXFilename(d), nil
}

func writeWeeklySheet(f *excelize.File, d *Data) error {
	const sheet = "週報"
	if err := renameDefaultSheet(f, sheet); err != nil {
		return err
	}

	rows := [][]interface{}{
		{"工時週報"},
		{"期間", isoDate(d.Period.Start) + " 至 " + isoDate(d.Period.End)},
		{"人員", d.ScopeName},
		{},
		{"日期", "星期", "專案", "時數", "備註"},
	}

	entries := make([]aggregate.Entry, len(d.Entries))
	copy(entries, d.Entries)
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		return a.ProjectName < b.ProjectName
	})

	var total float64
	for _, e := range entries {
		project := e.ProjectName
		if project == "" {
			project = aggregate.UnknownProjectName
		}
		rows = append(rows, []interface{}{
			isoDate(e.Date),
			aggregate.WeekdayName(e.Date),
			project,
			e.Hours,
			e.Note,
		})
		total += e.Hours
	}

	rows = append(rows, []interface{}{}, []interface{}{"小計", "", "", total})

	if err := writeRows(f, sheet, rows); err != nil {
		return err
	}

	for col, width := range map[string]float64{"A": 12, "B": 6, "C": 20, "D": 8, "E": 30} {
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return err
		}
	}
	return nil
}

func writeMonthlySheet(f *excelize.File, d *Data) error {
	const sheet = "月報"
	if err := renameDefaultSheet(f, sheet); err != nil {
		return err
	}

	rows := [][]interface{}{
		{"工時月報"},
		{"期間", d.Period.Start.Format("2006-01")},
		{"人員", d.ScopeName},
		{},
		{"週次", "專案", "時數", "佔比"},
	}

	monthTotal := aggregate.SumHours(d.Entries)
	weekNo := 0

	// Walk the month in Monday-started weeks clipped to the month bounds.
	for start := d.Period.Start; !start.After(d.Period.End); {
		weekEnd := aggregate.WeekBounds(start, 0).End
		if weekEnd.After(d.Period.End) {
			weekEnd = d.Period.End
		}
		weekNo++

		var weekEntries []aggregate.Entry
		for _, e := range d.Entries {
			day := aggregate.DateOf(e.Date)
			if !day.Before(start) && !day.After(weekEnd) {
				weekEntries = append(weekEntries, e)
			}
		}

		if len(weekEntries) > 0 {
			label := fmt.Sprintf("第 %d 週 (%s ~ %s)", weekNo, isoDate(start), isoDate(weekEnd))
			weekTotal := aggregate.SumHours(weekEntries)

			byProject := aggregate.GroupEntries(weekEntries, func(e aggregate.Entry) string {
				if e.ProjectName == "" {
					return aggregate.UnknownProjectName
				}
				return e.ProjectName
			})
			sort.SliceStable(byProject, func(i, j int) bool {
				return byProject[i].TotalHours > byProject[j].TotalHours
			})

			for i, g := range byProject {
				cell := ""
				if i == 0 {
					cell = label
				}
				share := 0.0
				if monthTotal > 0 {
					share = g.TotalHours / monthTotal * 100
				}
				rows = append(rows, []interface{}{cell, g.Key, g.TotalHours, formatPercent(share)})
			}
			rows = append(rows, []interface{}{"", "週小計", weekTotal, ""})
		}

		start = weekEnd.AddDate(0, 0, 1)
	}

	rows = append(rows, []interface{}{}, []interface{}{"總計", "", monthTotal, "100%"})

	if err := writeRows(f, sheet, rows); err != nil {
		return err
	}

	for col, width := range map[string]float64{"A": 26, "B": 20, "C": 10, "D": 10} {
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return err
		}
	}
	return nil
}

func renameDefaultSheet(f *excelize.File, name string) error {
	if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
		return err
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
