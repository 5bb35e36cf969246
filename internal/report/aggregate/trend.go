package aggregate

import (
	"math"
	"sort"
	"time"
)

// WeekRow is one week of the trend series.
type WeekRow struct {
	Label     string             `json:"label"`
	Start     time.Time          `json:"start"`
	ByProject map[string]float64 `json:"by_project"`
	Total     float64            `json:"total"`
}

// WeekSeries builds one row per week covering the last weeks weeks, oldest
// first, ending with the week containing now. Every active project gets a
// column in every row, zero-filled when it has no entries that week.
func WeekSeries(entries []Entry, projects []Project, now time.Time, weeks int) []WeekRow {
	series := make([]WeekRow, 0, weeks)
	for i := weeks - 1; i >= 0; i-- {
		r := WeekBounds(now, i)
		row := WeekRow{
			Label:     ShortLabel(r.Start),
			Start:     r.Start,
			ByProject: make(map[string]float64, len(projects)),
		}
		for _, p := range projects {
			if p.IsActive {
				row.ByProject[p.ID] = 0
			}
		}
		for _, e := range entries {
			if !r.Contains(e.Date) {
				continue
			}
			row.ByProject[e.ProjectID] += e.Hours
			row.Total += e.Hours
		}
		series = append(series, row)
	}
	return series
}

// Share is one project's slice of a pie chart.
type Share struct {
	ProjectID string  `json:"project_id"`
	Name      string  `json:"name"`
	Hours     float64 `json:"hours"`
	Color     string  `json:"color"`
}

// ProjectShares totals entries per project for pie charts, sorted by hours
// descending. Projects without hours are omitted; entries referencing an
// unknown project get the fallback name.
func ProjectShares(entries []Entry, projects []Project) []Share {
	known := make(map[string]Project, len(projects))
	for _, p := range projects {
		known[p.ID] = p
	}

	index := make(map[string]int)
	var shares []Share
	for _, e := range entries {
		i, ok := index[e.ProjectID]
		if !ok {
			name := e.ProjectName
			color := e.ProjectColor
			if p, found := known[e.ProjectID]; found {
				name = p.Name
				color = p.Color
			}
			if name == "" {
				name = UnknownProjectName
			}
			i = len(shares)
			index[e.ProjectID] = i
			shares = append(shares, Share{ProjectID: e.ProjectID, Name: name, Color: color})
		}
		shares[i].Hours += e.Hours
	}

	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].Hours > shares[j].Hours
	})

	return shares
}

// Trend directions.
const (
	TrendUp     = "up"
	TrendDown   = "down"
	TrendStable = "stable"
)

// Trend describes how a project's weekly hours are moving.
type Trend struct {
	ProjectID string  `json:"project_id"`
	Name      string  `json:"name"`
	RecentAvg float64 `json:"recent_avg"`
	PriorAvg  float64 `json:"prior_avg"`
	ChangePct float64 `json:"change_pct"`
	Direction string  `json:"direction"`
}

// ClassifyTrends compares each project's average over the most recent recentN
// weeks of the series against the average of the compareM weeks before them.
// A change beyond ±10% classifies as up or down, otherwise stable. A project
// with no prior activity classifies as up 100% when recently active, stable
// 0% when not. Results are sorted by change descending.
func ClassifyTrends(series []WeekRow, projects []Project, recentN, compareM int) []Trend {
	if recentN <= 0 || len(series) == 0 {
		return []Trend{}
	}
	if recentN > len(series) {
		recentN = len(series)
	}
	priorStart := len(series) - recentN - compareM
	if priorStart < 0 {
		priorStart = 0
	}
	recent := series[len(series)-recentN:]
	prior := series[priorStart : len(series)-recentN]

	trends := make([]Trend, 0, len(projects))
	for _, p := range projects {
		if !p.IsActive {
			continue
		}

		var recentSum, priorSum float64
		for _, row := range recent {
			recentSum += row.ByProject[p.ID]
		}
		for _, row := range prior {
			priorSum += row.ByProject[p.ID]
		}

		recentAvg := recentSum / float64(recentN)
		var priorAvg float64
		if len(prior) > 0 {
			priorAvg = priorSum / float64(len(prior))
		}

		var change float64
		switch {
		case priorAvg > 0:
			change = (recentAvg - priorAvg) / priorAvg * 100
		case recentAvg > 0:
			change = 100
		}

		direction := TrendStable
		if change > 10 {
			direction = TrendUp
		} else if change < -10 {
			direction = TrendDown
		}

		trends = append(trends, Trend{
			ProjectID: p.ID,
			Name:      p.Name,
			RecentAvg: round1(recentAvg),
			PriorAvg:  round1(priorAvg),
			ChangePct: round1(change),
			Direction: direction,
		})
	}

	sort.SliceStable(trends, func(i, j int) bool {
		return trends[i].ChangePct > trends[j].ChangePct
	})

	return trends
}

// NewProjects returns the names of active projects with hours in the most
// recent recentN weeks of the series and none before.
func NewProjects(series []WeekRow, projects []Project, recentN int) []string {
	if recentN > len(series) {
		recentN = len(series)
	}
	split := len(series) - recentN

	var names []string
	for _, p := range projects {
		if !p.IsActive {
			continue
		}
		var before, after float64
		for i, row := range series {
			if i < split {
				before += row.ByProject[p.ID]
			} else {
				after += row.ByProject[p.ID]
			}
		}
		if before == 0 && after > 0 {
			names = append(names, p.Name)
		}
	}
	return names
}

// DayStat is one day's total for the dashboard week strip.
type DayStat struct {
	Date    string  `json:"date"`
	Weekday string  `json:"weekday"`
	Hours   float64 `json:"hours"`
}

// DailyStats totals entries per day across the range, zero-filled for days
// without entries.
func DailyStats(entries []Entry, r Range) []DayStat {
	byDay := make(map[string]float64)
	for _, e := range entries {
		if r.Contains(e.Date) {
			byDay[e.Date.Format("2006-01-02")] += e.Hours
		}
	}

	days := r.Days()
	stats := make([]DayStat, 0, len(days))
	for _, d := range days {
		key := d.Format("2006-01-02")
		stats = append(stats, DayStat{
			Date:    key,
			Weekday: WeekdayName(d),
			Hours:   byDay[key],
		})
	}
	return stats
}

// round1 rounds to one decimal for display values.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
