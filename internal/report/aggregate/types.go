// Package aggregate contains the pure reporting core: period math, grouping,
// and chart shaping. Functions here never touch the database; the service
// layer feeds them rows loaded through the report DataSource.
package aggregate

import "time"

// Entry is a time entry joined with its owner and project for reporting.
type Entry struct {
	ID             string
	UserID         string
	Username       string
	DepartmentID   string
	DepartmentName string
	ProjectID      string
	ProjectName    string
	ProjectColor   string
	Date           time.Time
	Hours          float64
	Note           string
}

// Member is a profile as seen by the aggregation layer.
type Member struct {
	ID           string
	Username     string
	DepartmentID string
}

// Department identifies a reporting department.
type Department struct {
	ID   string
	Name string
}

// Project identifies a reportable project.
type Project struct {
	ID       string
	Name     string
	Color    string
	IsActive bool
}

// Fallback labels for unresolved references.
const (
	UnknownProjectName = "未知專案"
	UnknownUserName    = "未知"
	UnassignedDeptName = "未分配"
)
