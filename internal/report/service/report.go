package service

import (
	"context"
	"time"

	"github.com/worklog/worklog-backend/internal/report/aggregate"
	"github.com/worklog/worklog-backend/internal/report/render"
	"github.com/worklog/worklog-backend/pkg/config"
	"github.com/worklog/worklog-backend/pkg/errors"
	"github.com/worklog/worklog-backend/pkg/logger"
	"github.com/worklog/worklog-backend/pkg/policy"
)

// Content types of the export formats.
const (
	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypePDF  = "application/pdf"
)

// Export formats.
const (
	FormatPDF  = "pdf"
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// Trend range presets. A month of trends looks at 4 weeks comparing the last
// 2 against the 2 before; a quarter looks at 12 weeks comparing the last 3
// against the 6 before.
const (
	TrendRangeMonth   = "1month"
	TrendRangeQuarter = "3months"
)

// EventPublisher publishes report lifecycle events
type EventPublisher interface {
	PublishReportExported(ctx context.Context, userID, scope, period, format, filename string)
}

// Actor identifies the authenticated user requesting a report
type Actor struct {
	ID           string
	Username     string
	Role         string
	DepartmentID string
}

// ReportService assembles report data and renders exports
type ReportService struct {
	source DataSource
	fonts  *render.FontLoader
	events EventPublisher
	logger *logger.Logger
	cfg    config.ReportConfig
	now    func() time.Time
}

// NewReportService creates a new report service
func NewReportService(source DataSource, fonts *render.FontLoader, publisher EventPublisher, log *logger.Logger, cfg config.ReportConfig) *ReportService {
	return &ReportService{
		source: source,
		fonts:  fonts,
		events: publisher,
		logger: log,
		cfg:    cfg,
		now:    time.Now,
	}
}

// ExportRequest selects what to export.
type ExportRequest struct {
	Scope  string `validate:"required,oneof=me department company"`
	Period string `validate:"required,oneof=week month"`
	Offset int    `validate:"gte=0,lte=120"`
	Format string `validate:"required,oneof=pdf csv xlsx"`
}

// ExportFile is a rendered document ready to serve.
type ExportFile struct {
	Bytes       []byte
	Filename    string
	ContentType string
}

// Export renders a report for the requested scope and period. The actor must
// be allowed to see the scope.
func (s *ReportService) Export(ctx context.Context, actor Actor, req *ExportRequest) (*ExportFile, error) {
	if !policy.CanAccessScope(actor.Role, req.Scope, actor.DepartmentID, actor.DepartmentID) {
		return nil, errors.Forbidden("not allowed to export this scope")
	}

	data, err := s.collect(ctx, actor, req.Scope, req.Period, req.Offset)
	if err != nil {
		return nil, err
	}

	var (
		body     []byte
		filename string
	)
	contentType := ""

	switch req.Format {
	case FormatCSV:
		body, filename, err = render.CSV(data)
		contentType = contentTypeCSV
	case FormatXLSX:
		body, filename, err = render.XLSX(data)
		contentType = contentTypeXLSX
	case FormatPDF:
		body, filename, err = render.PDF(data, s.fonts)
		contentType = contentTypePDF
	default:
		return nil, errors.BadRequest("unsupported export format")
	}
	if err != nil {
		return nil, err
	}

	s.events.PublishReportExported(ctx, actor.ID, req.Scope, req.Period, req.Format, filename)

	s.logger.Info().
		Str("user_id", actor.ID).
		Str("scope", req.Scope).
		Str("period", req.Period).
		Str("format", req.Format).
		Str("filename", filename).
		Int("entries", len(data.Entries)).
		Msg("report exported")

	return &ExportFile{Bytes: body, Filename: filename, ContentType: contentType}, nil
}

// collect loads and assembles everything the renderers need.
func (s *ReportService) collect(ctx context.Context, actor Actor, scope, period string, offset int) (*render.Data, error) {
	var bounds aggregate.Range
	if period == render.PeriodMonth {
		bounds = aggregate.MonthBounds(s.now(), offset)
	} else {
		bounds = aggregate.WeekBounds(s.now(), offset)
	}

	var (
		entries []aggregate.Entry
		err     error
	)
	scopeName := ""

	switch scope {
	case render.ScopeMe:
		entries, err = s.source.EntriesForUser(ctx, actor.ID, bounds)
		scopeName = actor.Username
	case render.ScopeDepartment:
		if actor.DepartmentID == "" {
			return nil, errors.BadRequest("actor has no department")
		}
		entries, err = s.source.EntriesForDepartment(ctx, actor.DepartmentID, bounds)
	case render.ScopeCompany:
		entries, err = s.source.EntriesForCompany(ctx, bounds)
		scopeName = render.CompanyLabel
	default:
		return nil, errors.BadRequest("unknown report scope")
	}
	if err != nil {
		return nil, err
	}

	members, err := s.source.Members(ctx)
	if err != nil {
		return nil, err
	}
	departments, err := s.source.Departments(ctx)
	if err != nil {
		return nil, err
	}

	if scope == render.ScopeDepartment {
		scopeName = aggregate.UnassignedDeptName
		for _, d := range departments {
			if d.ID == actor.DepartmentID {
				scopeName = d.Name
				break
			}
		}
	}

	return &render.Data{
		Entries:      entries,
		Members:      members,
		Departments:  departments,
		Period:       bounds,
		PeriodType:   period,
		Scope:        scope,
		ScopeName:    scopeName,
		GeneratedAt:  s.now(),
		WeeklyTarget: s.cfg.WeeklyTargetHours,
	}, nil
}

// Dashboard is the current-week landing page payload. Members shows per-user
// totals only for admins.
type Dashboard struct {
	WeekStart  string              `json:"week_start"`
	WeekEnd    string              `json:"week_end"`
	TotalHours float64             `json:"total_hours"`
	Daily      []aggregate.DayStat `json:"daily"`
	Projects   []aggregate.Share   `json:"projects"`
	Members    []aggregate.UserStat `json:"members,omitempty"`
}

// Dashboard assembles the current week at the actor's widest visible scope:
// members see their own entries, department admins their department, super
// admins the whole company.
func (s *ReportService) Dashboard(ctx context.Context, actor Actor) (*Dashboard, error) {
	week := aggregate.WeekBounds(s.now(), 0)

	entries, err := s.visibleEntries(ctx, actor, week)
	if err != nil {
		return nil, err
	}
	projects, err := s.source.Projects(ctx)
	if err != nil {
		return nil, err
	}

	dash := &Dashboard{
		WeekStart:  week.Start.Format("2006-01-02"),
		WeekEnd:    week.End.Format("2006-01-02"),
		TotalHours: aggregate.SumHours(entries),
		Daily:      aggregate.DailyStats(entries, week),
		Projects:   aggregate.ProjectShares(entries, projects),
	}

	if policy.IsAdmin(actor.Role) {
		members, err := s.source.Members(ctx)
		if err != nil {
			return nil, err
		}
		dash.Members = aggregate.UserStats(entries, members)
	}

	return dash, nil
}

// Trends is the chart payload for the trends page.
type Trends struct {
	Range       string              `json:"range"`
	Series      []aggregate.WeekRow `json:"series"`
	Shares      []aggregate.Share   `json:"shares"`
	Trends      []aggregate.Trend   `json:"trends"`
	NewProjects []string            `json:"new_projects"`
}

// Trends builds the weekly series and per-project trend classification over
// the preset range, at the actor's widest visible scope.
func (s *ReportService) Trends(ctx context.Context, actor Actor, trendRange string) (*Trends, error) {
	weeks, recentN, compareM := 4, 2, 2
	switch trendRange {
	case TrendRangeMonth, "":
		trendRange = TrendRangeMonth
	case TrendRangeQuarter:
		weeks, recentN, compareM = 12, 3, 6
	default:
		return nil, errors.BadRequest("range must be 1month or 3months")
	}

	now := s.now()
	window := aggregate.Range{
		Start: aggregate.WeekBounds(now, weeks-1).Start,
		End:   aggregate.WeekBounds(now, 0).End,
	}

	entries, err := s.visibleEntries(ctx, actor, window)
	if err != nil {
		return nil, err
	}
	projects, err := s.source.Projects(ctx)
	if err != nil {
		return nil, err
	}

	series := aggregate.WeekSeries(entries, projects, now, weeks)

	return &Trends{
		Range:       trendRange,
		Series:      series,
		Shares:      aggregate.ProjectShares(entries, projects),
		Trends:      aggregate.ClassifyTrends(series, projects, recentN, compareM),
		NewProjects: aggregate.NewProjects(series, projects, recentN),
	}, nil
}

// visibleEntries loads the widest entry set the actor's role allows.
func (s *ReportService) visibleEntries(ctx context.Context, actor Actor, bounds aggregate.Range) ([]aggregate.Entry, error) {
	switch {
	case actor.Role == policy.RoleSuperAdmin:
		return s.source.EntriesForCompany(ctx, bounds)
	case actor.Role == policy.RoleDepartmentAdmin && actor.DepartmentID != "":
		return s.source.EntriesForDepartment(ctx, actor.DepartmentID, bounds)
	default:
		return s.source.EntriesForUser(ctx, actor.ID, bounds)
	}
}
