package render

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/go-pdf/fpdf"
	"github.com/worklog/worklog-backend/internal/report/aggregate"
)

// PDFFilename returns the download name for a PDF export. Company-wide
// exports carry the company prefix.
func PDFFilename(d *Data) string {
	name := d.reportTitle() + "_" + isoDate(d.Period.Start) + ".pdf"
	if d.Scope == ScopeCompany {
		return CompanyLabel + name
	}
	return name
}

// PDF renders the export as a PDF document. Individual exports show a daily
// detail table; department and company exports show per-member totals and
// completion against the weekly target.
func PDF(d *Data, fonts *FontLoader) ([]byte, string, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	family := fonts.Attach(doc)
	doc.SetFont(family, "", 12)
	doc.AddPage()

	writePDFHeader(doc, family, d)

	if d.Scope == ScopeMe {
		writePersonalPDF(doc, family, d)
	} else {
		writeTeamPDF(doc, family, d)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, "", fmt.Errorf("failed to render pdf: %w", err)
	}

	return buf.Bytes(), PDFFilename(d), nil
}

func writePDFHeader(doc *fpdf.Fpdf, family string, d *Data) {
	doc.SetFont(family, "", 18)
	doc.CellFormat(0, 10, d.reportTitle(), "", 1, "C", false, 0, "")

	doc.SetFont(family, "", 11)
	doc.CellFormat(0, 7, d.ScopeName, "", 1, "C", false, 0, "")
	doc.CellFormat(0, 6, "期間: "+isoDate(d.Period.Start)+" 至 "+isoDate(d.Period.End), "", 1, "C", false, 0, "")

	doc.SetFont(family, "", 9)
	doc.SetTextColor(120, 120, 120)
	doc.CellFormat(0, 5, "產生時間: "+d.GeneratedAt.Format("2006-01-02 15:04"), "", 1, "C", false, 0, "")
	doc.SetTextColor(0, 0, 0)
	doc.Ln(4)
}

func writePersonalPDF(doc *fpdf.Fpdf, family string, d *Data) {
	total := aggregate.SumHours(d.Entries)

	days := make(map[string]struct{})
	for _, e := range d.Entries {
		days[isoDate(e.Date)] = struct{}{}
	}

	byProject := projectBreakdown(d.Entries)

	doc.SetFont(family, "", 12)
	doc.CellFormat(0, 8, "統計摘要", "", 1, "L", false, 0, "")
	doc.SetFont(family, "", 10)
	doc.CellFormat(0, 6, fmt.Sprintf("總時數 %s 小時,填寫 %d 天,涵蓋 %d 個專案", formatHours(total), len(days), len(byProject)), "", 1, "L", false, 0, "")
	doc.Ln(3)

	doc.SetFont(family, "", 12)
	doc.CellFormat(0, 8, "專案分布", "", 1, "L", false, 0, "")
	drawBreakdownTable(doc, family, byProject, total)
	doc.Ln(3)

	doc.SetFont(family, "", 12)
	doc.CellFormat(0, 8, "每日明細", "", 1, "L", false, 0, "")

	entries := make([]aggregate.Entry, len(d.Entries))
	copy(entries, d.Entries)
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].Date.Equal(entries[j].Date) {
			return entries[i].Date.Before(entries[j].Date)
		}
		return entries[i].ProjectName < entries[j].ProjectName
	})

	widths := []float64{26, 12, 55, 16, 81}
	drawTableHeader(doc, family, widths, []string{"日期", "星期", "專案", "時數", "備註"})
	doc.SetFont(family, "", 9)
	for _, e := range entries {
		project := e.ProjectName
		if project == "" {
			project = aggregate.UnknownProjectName
		}
		doc.CellFormat(widths[0], 6, isoDate(e.Date), "1", 0, "L", false, 0, "")
		doc.CellFormat(widths[1], 6, aggregate.WeekdayName(e.Date), "1", 0, "C", false, 0, "")
		doc.CellFormat(widths[2], 6, project, "1", 0, "L", false, 0, "")
		doc.CellFormat(widths[3], 6, formatHours(e.Hours), "1", 0, "R", false, 0, "")
		doc.CellFormat(widths[4], 6, e.Note, "1", 1, "L", false, 0, "")
	}
}

func writeTeamPDF(doc *fpdf.Fpdf, family string, d *Data) {
	total := aggregate.SumHours(d.Entries)
	stats := aggregate.UserStats(d.Entries, d.Members)

	doc.SetFont(family, "", 12)
	doc.CellFormat(0, 8, "統計摘要", "", 1, "L", false, 0, "")
	doc.SetFont(family, "", 10)
	doc.CellFormat(0, 6, fmt.Sprintf("總時數 %s 小時,共 %d 人填寫", formatHours(total), len(stats)), "", 1, "L", false, 0, "")
	doc.Ln(3)

	if d.Scope == ScopeCompany {
		deptStats := aggregate.DepartmentStats(d.Entries, d.Members, d.Departments)
		if len(deptStats) > 0 {
			doc.SetFont(family, "", 12)
			doc.CellFormat(0, 8, "各部門統計", "", 1, "L", false, 0, "")
			widths := []float64{70, 30, 30, 30}
			drawTableHeader(doc, family, widths, []string{"部門", "總時數", "人數", "平均時數"})
			doc.SetFont(family, "", 9)
			for _, s := range deptStats {
				doc.CellFormat(widths[0], 6, s.DepartmentName, "1", 0, "L", false, 0, "")
				doc.CellFormat(widths[1], 6, formatHours(s.TotalHours), "1", 0, "R", false, 0, "")
				doc.CellFormat(widths[2], 6, fmt.Sprintf("%d", s.MemberCount), "1", 0, "R", false, 0, "")
				doc.CellFormat(widths[3], 6, formatHours(round1(s.AverageHours)), "1", 1, "R", false, 0, "")
			}
			doc.Ln(3)
		}
	}

	doc.SetFont(family, "", 12)
	doc.CellFormat(0, 8, "人員統計", "", 1, "L", false, 0, "")
	widths := []float64{60, 30, 50}
	header := []string{"員工姓名", "總時數", "完成狀態"}
	if d.PeriodType != PeriodWeek {
		header[2] = "日均時數"
	}
	drawTableHeader(doc, family, widths, header)
	doc.SetFont(family, "", 9)
	for _, s := range stats {
		doc.CellFormat(widths[0], 6, s.Username, "1", 0, "L", false, 0, "")
		doc.CellFormat(widths[1], 6, formatHours(s.TotalHours)+"h", "1", 0, "R", false, 0, "")
		last := ""
		if d.PeriodType == PeriodWeek {
			last = completionLabel(s.TotalHours, d.WeeklyTarget)
		} else if n := len(d.Period.Days()); n > 0 {
			last = formatHours(round1(s.TotalHours / float64(n)))
		}
		doc.CellFormat(widths[2], 6, last, "1", 1, "L", false, 0, "")
	}
	doc.Ln(3)

	byProject := projectBreakdown(d.Entries)
	doc.SetFont(family, "", 12)
	doc.CellFormat(0, 8, "專案分布", "", 1, "L", false, 0, "")
	drawBreakdownTable(doc, family, byProject, total)

	switch d.Scope {
	case ScopeCompany:
		writeDepartmentDetail(doc, family, d)
	case ScopeDepartment:
		writeMemberDetail(doc, family, d, stats)
	}
}

// completionLabel marks a period total against the weekly target.
func completionLabel(hours, target float64) string {
	if target <= 0 {
		return ""
	}
	if hours >= target {
		return "✓ 達標"
	}
	return fmt.Sprintf("還差 %.1fh", target-hours)
}

// writeDepartmentDetail adds the per-department detail page of a company-wide
// export: one member sub-table per department, members who logged nothing are
// omitted.
func writeDepartmentDetail(doc *fpdf.Fpdf, family string, d *Data) {
	deptStats := aggregate.DepartmentStats(d.Entries, d.Members, d.Departments)
	if len(deptStats) == 0 {
		return
	}

	byUser := make(map[string]float64)
	for _, e := range d.Entries {
		byUser[e.UserID] += e.Hours
	}

	doc.AddPage()
	doc.SetFont(family, "", 14)
	doc.CellFormat(0, 10, "各部門詳細資料", "", 1, "C", false, 0, "")
	doc.Ln(2)

	widths := []float64{60, 30, 50}
	for i, dept := range deptStats {
		doc.SetFont(family, "", 11)
		doc.CellFormat(0, 8, fmt.Sprintf("%d. %s (總計: %.1fh, %d人)", i+1, dept.DepartmentName, dept.TotalHours, dept.MemberCount), "", 1, "L", false, 0, "")

		drawTableHeader(doc, family, widths, []string{"員工姓名", "總時數", "完成狀態"})
		doc.SetFont(family, "", 9)
		for _, m := range departmentMembers(d.Members, byUser, dept.DepartmentID) {
			doc.CellFormat(widths[0], 6, m.Username, "1", 0, "L", false, 0, "")
			doc.CellFormat(widths[1], 6, fmt.Sprintf("%.1fh", byUser[m.ID]), "1", 0, "R", false, 0, "")
			doc.CellFormat(widths[2], 6, completionLabel(byUser[m.ID], d.WeeklyTarget), "1", 1, "L", false, 0, "")
		}
		doc.Ln(4)
	}
}

// departmentMembers returns the department's members who logged hours, sorted
// by total descending.
func departmentMembers(members []aggregate.Member, byUser map[string]float64, deptID string) []aggregate.Member {
	var out []aggregate.Member
	for _, m := range members {
		if m.DepartmentID != deptID {
			continue
		}
		if _, logged := byUser[m.ID]; !logged {
			continue
		}
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return byUser[out[i].ID] > byUser[out[j].ID]
	})
	return out
}

// writeMemberDetail adds the per-member detail page of a department export:
// each member's entries for the period, ordered by date.
func writeMemberDetail(doc *fpdf.Fpdf, family string, d *Data, stats []aggregate.UserStat) {
	if len(stats) == 0 {
		return
	}

	userEntries := make(map[string][]aggregate.Entry, len(stats))
	for _, g := range aggregate.GroupEntries(d.Entries, func(e aggregate.Entry) string { return e.UserID }) {
		userEntries[g.Key] = g.Entries
	}

	doc.AddPage()
	doc.SetFont(family, "", 14)
	doc.CellFormat(0, 10, "每日工時詳情", "", 1, "C", false, 0, "")
	doc.Ln(2)

	widths := []float64{28, 60, 18, 66}
	for i, s := range stats {
		doc.SetFont(family, "", 11)
		doc.CellFormat(0, 8, fmt.Sprintf("%d. %s (總計: %.1fh)", i+1, s.Username, s.TotalHours), "", 1, "L", false, 0, "")

		entries := make([]aggregate.Entry, len(userEntries[s.UserID]))
		copy(entries, userEntries[s.UserID])
		sort.SliceStable(entries, func(a, b int) bool {
			return entries[a].Date.Before(entries[b].Date)
		})

		drawTableHeader(doc, family, widths, []string{"日期", "專案", "時數", "備註"})
		doc.SetFont(family, "", 9)
		for _, e := range entries {
			project := e.ProjectName
			if project == "" {
				project = aggregate.UnknownProjectName
			}
			note := e.Note
			if note == "" {
				note = "-"
			}
			doc.CellFormat(widths[0], 6, isoDate(e.Date), "1", 0, "L", false, 0, "")
			doc.CellFormat(widths[1], 6, project, "1", 0, "L", false, 0, "")
			doc.CellFormat(widths[2], 6, formatHours(e.Hours)+"h", "1", 0, "R", false, 0, "")
			doc.CellFormat(widths[3], 6, note, "1", 1, "L", false, 0, "")
		}
		doc.Ln(4)
	}
}

func projectBreakdown(entries []aggregate.Entry) []aggregate.Group[string] {
	groups := aggregate.GroupEntries(entries, func(e aggregate.Entry) string {
		if e.ProjectName == "" {
			return aggregate.UnknownProjectName
		}
		return e.ProjectName
	})
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].TotalHours > groups[j].TotalHours
	})
	return groups
}

func drawBreakdownTable(doc *fpdf.Fpdf, family string, groups []aggregate.Group[string], total float64) {
	widths := []float64{90, 30, 30}
	drawTableHeader(doc, family, widths, []string{"專案", "時數", "佔比"})
	doc.SetFont(family, "", 9)
	for _, g := range groups {
		share := 0.0
		if total > 0 {
			share = g.TotalHours / total * 100
		}
		doc.CellFormat(widths[0], 6, g.Key, "1", 0, "L", false, 0, "")
		doc.CellFormat(widths[1], 6, formatHours(g.TotalHours), "1", 0, "R", false, 0, "")
		doc.CellFormat(widths[2], 6, formatPercent(share), "1", 1, "R", false, 0, "")
	}
}

func drawTableHeader(doc *fpdf.Fpdf, family string, widths []float64, labels []string) {
	doc.SetFont(family, "", 9)
	doc.SetFillColor(235, 238, 243)
	for i, label := range labels {
		last := i == len(labels)-1
		ln := 0
		if last {
			ln = 1
		}
		doc.CellFormat(widths[i], 7, label, "1", ln, "C", true, 0, "")
	}
}
