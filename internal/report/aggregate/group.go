package aggregate

import "sort"

// Group is an ordered bucket of entries sharing a key.
type Group[K comparable] struct {
	Key        K
	Entries    []Entry
	TotalHours float64
}

// GroupEntries buckets entries by key. Groups appear in the order their key
// first occurs in the input; entries keep their input order inside a group.
// No sorting happens here.
func GroupEntries[K comparable](entries []Entry, key func(Entry) K) []Group[K] {
	index := make(map[K]int)
	var groups []Group[K]

	for _, e := range entries {
		k := key(e)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group[K]{Key: k})
		}
		groups[i].Entries = append(groups[i].Entries, e)
		groups[i].TotalHours += e.Hours
	}

	return groups
}

// SumHours totals the hours of a slice of entries.
func SumHours(entries []Entry) float64 {
	var total float64
	for _, e := range entries {
		total += e.Hours
	}
	return total
}

// Completion describes one day's progress against the daily target.
type Completion struct {
	Hours      float64 `json:"hours"`
	IsComplete bool    `json:"is_complete"`
	Shortfall  float64 `json:"shortfall"`
}

// DailyCompletion evaluates one day's logged hours. Workdays are complete at
// or above the target; weekends are complete with any logged time. Shortfall
// is zero on weekends and on complete days.
func DailyCompletion(hours float64, weekend bool, target float64) Completion {
	c := Completion{Hours: hours}
	if weekend {
		c.IsComplete = hours > 0
		return c
	}
	c.IsComplete = hours >= target
	if !c.IsComplete {
		c.Shortfall = target - hours
	}
	return c
}

// DeptStat is a department's aggregate for a period.
type DeptStat struct {
	DepartmentID   string  `json:"department_id"`
	DepartmentName string  `json:"department_name"`
	TotalHours     float64 `json:"total_hours"`
	MemberCount    int     `json:"member_count"`
	AverageHours   float64 `json:"average_hours"`
}

// DepartmentStats aggregates entries per department. Membership comes from
// profiles, not from entries, so idle members still count toward the average.
// Departments without members are dropped, and entries whose owner has no or
// an unknown department are excluded. Results are sorted by total hours
// descending.
func DepartmentStats(entries []Entry, members []Member, departments []Department) []DeptStat {
	memberDept := make(map[string]string, len(members))
	memberCount := make(map[string]int)
	for _, m := range members {
		if m.DepartmentID == "" {
			continue
		}
		memberDept[m.ID] = m.DepartmentID
		memberCount[m.DepartmentID]++
	}

	deptName := make(map[string]string, len(departments))
	for _, d := range departments {
		deptName[d.ID] = d.Name
	}

	totals := make(map[string]float64)
	for _, e := range entries {
		deptID, ok := memberDept[e.UserID]
		if !ok {
			continue
		}
		if _, known := deptName[deptID]; !known {
			continue
		}
		totals[deptID] += e.Hours
	}

	stats := make([]DeptStat, 0, len(memberCount))
	for deptID, count := range memberCount {
		if count == 0 {
			continue
		}
		name, known := deptName[deptID]
		if !known {
			continue
		}
		total := totals[deptID]
		stats = append(stats, DeptStat{
			DepartmentID:   deptID,
			DepartmentName: name,
			TotalHours:     total,
			MemberCount:    count,
			AverageHours:   total / float64(count),
		})
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].TotalHours > stats[j].TotalHours
	})

	return stats
}

// UserStat is one user's aggregate for a period.
type UserStat struct {
	UserID     string             `json:"user_id"`
	Username   string             `json:"username"`
	TotalHours float64            `json:"total_hours"`
	ByDay      map[string]float64 `json:"by_day"`
}

// UserStats aggregates entries per user, with a per-day breakdown keyed by
// ISO date. Results are sorted by total hours descending. Entries whose owner
// cannot be resolved fall under the unknown-user label.
func UserStats(entries []Entry, members []Member) []UserStat {
	names := make(map[string]string, len(members))
	for _, m := range members {
		names[m.ID] = m.Username
	}

	index := make(map[string]int)
	var stats []UserStat

	for _, e := range entries {
		i, ok := index[e.UserID]
		if !ok {
			name := names[e.UserID]
			if name == "" {
				name = e.Username
			}
			if name == "" {
				name = UnknownUserName
			}
			i = len(stats)
			index[e.UserID] = i
			stats = append(stats, UserStat{
				UserID:   e.UserID,
				Username: name,
				ByDay:    make(map[string]float64),
			})
		}
		stats[i].TotalHours += e.Hours
		stats[i].ByDay[e.Date.Format("2006-01-02")] += e.Hours
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].TotalHours > stats[j].TotalHours
	})

	return stats
}
