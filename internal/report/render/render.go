// Package render turns aggregated report data into downloadable documents.
// Every renderer builds the whole file in memory and returns the bytes with
// the filename the client should save it as.
package render

import (
	"fmt"
	"strconv"
	"time"

	"github.com/worklog/worklog-backend/internal/report/aggregate"
)

// Period types
const (
	PeriodWeek  = "week"
	PeriodMonth = "month"
)

// Scopes mirror the export endpoint's scope parameter.
const (
	ScopeMe         = "me"
	ScopeDepartment = "department"
	ScopeCompany    = "company"
)

// Data is everything a renderer needs for one export.
type Data struct {
	Entries     []aggregate.Entry
	Members     []aggregate.Member
	Departments []aggregate.Department

	Period      aggregate.Range
	PeriodType  string
	Scope       string
	ScopeName   string // username, department name, or the company label
	GeneratedAt time.Time

	WeeklyTarget float64
}

// CompanyLabel prefixes company-wide export filenames.
const CompanyLabel = "全公司"

func (d *Data) periodLabel() string {
	if d.PeriodType == PeriodMonth {
		return d.Period.Start.Format("2006-01")
	}
	return d.Period.Start.Format("2006-01-02") + "_至_" + d.Period.End.Format("2006-01-02")
}

func (d *Data) reportTitle() string {
	if d.PeriodType == PeriodMonth {
		return "工時月報"
	}
	return "工時週報"
}

// formatHours renders hours without a trailing zero: 8, 7.5, 0.5.
func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64)
}

// formatPercent renders a one-decimal percentage.
func formatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}

func isoDate(d time.Time) string {
	return d.Format("2006-01-02")
}

// round1 rounds display values to one decimal, half away from zero.
func round1(v float64) float64 {
	return float64(int64(v*10+0.5)) / 10
}
