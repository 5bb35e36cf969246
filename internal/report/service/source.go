package service

import (
	"context"

	"github.com/worklog/worklog-backend/internal/identity/domain"
	idrepo "github.com/worklog/worklog-backend/internal/identity/repository"
	prrepo "github.com/worklog/worklog-backend/internal/project/repository"
	"github.com/worklog/worklog-backend/internal/report/aggregate"
	tsrepo "github.com/worklog/worklog-backend/internal/timesheet/repository"
)

// DataSource loads everything the report service aggregates over. Reports
// only read; the concrete implementation wraps the timesheet, identity, and
// project repositories.
type DataSource interface {
	EntriesForUser(ctx context.Context, userID string, r aggregate.Range) ([]aggregate.Entry, error)
	EntriesForDepartment(ctx context.Context, departmentID string, r aggregate.Range) ([]aggregate.Entry, error)
	EntriesForCompany(ctx context.Context, r aggregate.Range) ([]aggregate.Entry, error)
	Members(ctx context.Context) ([]aggregate.Member, error)
	Departments(ctx context.Context) ([]aggregate.Department, error)
	Projects(ctx context.Context) ([]aggregate.Project, error)
}

type repoSource struct {
	entries     *tsrepo.EntryRepository
	profiles    *idrepo.ProfileRepository
	departments *idrepo.DepartmentRepository
	projects    *prrepo.ProjectRepository
}

// NewDataSource builds the repository-backed data source.
func NewDataSource(
	entries *tsrepo.EntryRepository,
	profiles *idrepo.ProfileRepository,
	departments *idrepo.DepartmentRepository,
	projects *prrepo.ProjectRepository,
) DataSource {
	return &repoSource{
		entries:     entries,
		profiles:    profiles,
		departments: departments,
		projects:    projects,
	}
}

func (s *repoSource) EntriesForUser(ctx context.Context, userID string, r aggregate.Range) ([]aggregate.Entry, error) {
	rows, err := s.entries.ListForUser(ctx, userID, r.Start, r.End)
	if err != nil {
		return nil, err
	}
	return toAggregateEntries(rows), nil
}

func (s *repoSource) EntriesForDepartment(ctx context.Context, departmentID string, r aggregate.Range) ([]aggregate.Entry, error) {
	rows, err := s.entries.ListForDepartment(ctx, departmentID, r.Start, r.End)
	if err != nil {
		return nil, err
	}
	return toAggregateEntries(rows), nil
}

func (s *repoSource) EntriesForCompany(ctx context.Context, r aggregate.Range) ([]aggregate.Entry, error) {
	rows, err := s.entries.ListAll(ctx, r.Start, r.End)
	if err != nil {
		return nil, err
	}
	return toAggregateEntries(rows), nil
}

func (s *repoSource) Members(ctx context.Context) ([]aggregate.Member, error) {
	profiles, err := s.profiles.List(ctx, "")
	if err != nil {
		return nil, err
	}
	members := make([]aggregate.Member, 0, len(profiles))
	for _, p := range profiles {
		members = append(members, toAggregateMember(p))
	}
	return members, nil
}

func (s *repoSource) Departments(ctx context.Context) ([]aggregate.Department, error) {
	depts, err := s.departments.List(ctx, true)
	if err != nil {
		return nil, err
	}
	out := make([]aggregate.Department, 0, len(depts))
	for _, d := range depts {
		out = append(out, aggregate.Department{ID: d.ID, Name: d.Name})
	}
	return out, nil
}

func (s *repoSource) Projects(ctx context.Context) ([]aggregate.Project, error) {
	projects, err := s.projects.List(ctx, false)
	if err != nil {
		return nil, err
	}
	out := make([]aggregate.Project, 0, len(projects))
	for _, p := range projects {
		out = append(out, aggregate.Project{
			ID:       p.ID,
			Name:     p.Name,
			Color:    p.Color,
			IsActive: p.IsActive,
		})
	}
	return out, nil
}

func toAggregateEntries(rows []tsrepo.TimeEntry) []aggregate.Entry {
	entries := make([]aggregate.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, aggregate.Entry{
			ID:             row.ID,
			UserID:         row.UserID,
			Username:       deref(row.Username),
			DepartmentID:   deref(row.DepartmentID),
			DepartmentName: deref(row.DepartmentName),
			ProjectID:      row.ProjectID,
			ProjectName:    deref(row.ProjectName),
			ProjectColor:   deref(row.ProjectColor),
			Date:           row.EntryDate,
			Hours:          row.Hours,
			Note:           deref(row.Note),
		})
	}
	return entries
}

func toAggregateMember(p domain.Profile) aggregate.Member {
	return aggregate.Member{
		ID:           p.ID,
		Username:     p.Username,
		DepartmentID: deref(p.DepartmentID),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
