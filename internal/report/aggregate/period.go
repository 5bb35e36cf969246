package aggregate

import (
	"strconv"
	"time"
)

// Range is an inclusive date range. Start and End are dates at midnight in
// the location of the time they were derived from.
type Range struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether the date d falls inside the range.
func (r Range) Contains(d time.Time) bool {
	day := DateOf(d)
	return !day.Before(r.Start) && !day.After(r.End)
}

// Days returns every date of the range in order.
func (r Range) Days() []time.Time {
	var days []time.Time
	for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// DateOf truncates a time to its date, keeping the location.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// WeekBounds returns the Monday..Sunday range of the week weeksAgo weeks
// before the week containing now. weeksAgo 0 is the current week. There is
// no upper bound on the offset.
func WeekBounds(now time.Time, weeksAgo int) Range {
	day := DateOf(now)
	// Monday-started weeks: Sunday counts as 6 days past Monday.
	back := (int(day.Weekday()) + 6) % 7
	monday := day.AddDate(0, 0, -back-7*weeksAgo)
	return Range{Start: monday, End: monday.AddDate(0, 0, 6)}
}

// MonthBounds returns the first..last day of the month monthsAgo months
// before the month containing now.
func MonthBounds(now time.Time, monthsAgo int) Range {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	first = first.AddDate(0, -monthsAgo, 0)
	last := first.AddDate(0, 1, -1)
	return Range{Start: first, End: last}
}

// IsWeekend reports whether the date is a Saturday or Sunday.
func IsWeekend(d time.Time) bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

var weekdayNames = [...]string{"日", "一", "二", "三", "四", "五", "六"}

// WeekdayName returns the single-character Chinese weekday label.
func WeekdayName(d time.Time) string {
	return weekdayNames[int(d.Weekday())]
}

// ShortLabel formats a date as M/d without leading zeros, the label used on
// chart axes.
func ShortLabel(d time.Time) string {
	return strconv.Itoa(int(d.Month())) + "/" + strconv.Itoa(d.Day())
}
