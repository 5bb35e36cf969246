package handler_test

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/worklog/worklog-backend/internal/report/aggregate"
	"github.com/worklog/worklog-backend/internal/report/handler"
	"github.com/worklog/worklog-backend/internal/report/render"
	"github.com/worklog/worklog-backend/internal/report/service"
	"github.com/worklog/worklog-backend/pkg/config"
	"github.com/worklog/worklog-backend/pkg/logger"
	"github.com/worklog/worklog-backend/pkg/policy"
	"github.com/worklog/worklog-backend/pkg/testutil"
)

type staticSource struct {
	entries  []aggregate.Entry
	projects []aggregate.Project
}

func (s *staticSource) EntriesForUser(context.Context, string, aggregate.Range) ([]aggregate.Entry, error) {
	return s.entries, nil
}

func (s *staticSource) EntriesForDepartment(context.Context, string, aggregate.Range) ([]aggregate.Entry, error) {
	return s.entries, nil
}

func (s *staticSource) EntriesForCompany(context.Context, aggregate.Range) ([]aggregate.Entry, error) {
	return s.entries, nil
}

func (s *staticSource) Members(context.Context) ([]aggregate.Member, error) {
	return nil, nil
}

func (s *staticSource) Departments(context.Context) ([]aggregate.Department, error) {
	return nil, nil
}

func (s *staticSource) Projects(context.Context) ([]aggregate.Project, error) {
	return s.projects, nil
}

type noopPublisher struct{}

func (noopPublisher) PublishReportExported(context.Context, string, string, string, string, string) {
}

func newTestHandler() *handler.ReportHandler {
	log := logger.New("report-handler-test", "test")
	src := &staticSource{
		entries: []aggregate.Entry{
			{ID: "e1", UserID: "u1", Username: "alice", ProjectID: "p1", ProjectName: "內部系統",
				Date: time.Now(), Hours: 8},
		},
		projects: []aggregate.Project{{ID: "p1", Name: "內部系統", IsActive: true}},
	}
	svc := service.NewReportService(
		src,
		render.NewFontLoader("testdata/missing.ttf", "NotoSansTC", log),
		noopPublisher{},
		log,
		config.ReportConfig{DailyTargetHours: 8, WeeklyTargetHours: 35},
	)
	return handler.NewReportHandler(svc, log)
}

func asMember(req *http.Request) *http.Request {
	return testutil.WithAuthenticatedUser(req, "u1", "alice", policy.RoleMember, "")
}

func TestExportDefaultsToPersonalWeek(t *testing.T) {
	h := newTestHandler()

	req := asMember(testutil.NewHTTPRequest(http.MethodGet, "/reports/export?format=csv", nil))
	rr := testutil.ExecuteRequest(http.HandlerFunc(h.Export), req)

	testutil.AssertStatus(t, rr, http.StatusOK)
	assert.Equal(t, "text/csv; charset=utf-8", rr.Header().Get("Content-Type"))

	disposition := rr.Header().Get("Content-Disposition")
	assert.Contains(t, disposition, "attachment")
	decoded, err := url.PathUnescape(disposition)
	require.NoError(t, err)
	assert.Contains(t, decoded, "alice_工時報表_")

	assert.True(t, strings.HasPrefix(rr.Body.String(), "\xef\xbb\xbf"), "CSV downloads start with a BOM")
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	h := newTestHandler()

	req := asMember(testutil.NewHTTPRequest(http.MethodGet, "/reports/export?format=docx", nil))
	rr := testutil.ExecuteRequest(http.HandlerFunc(h.Export), req)

	testutil.AssertStatus(t, rr, http.StatusBadRequest)
}

func TestExportRejectsNegativeOffset(t *testing.T) {
	h := newTestHandler()

	req := asMember(testutil.NewHTTPRequest(http.MethodGet, "/reports/export?format=csv&offset=-1", nil))
	rr := testutil.ExecuteRequest(http.HandlerFunc(h.Export), req)

	testutil.AssertStatus(t, rr, http.StatusBadRequest)
}

func TestExportForbiddenScope(t *testing.T) {
	h := newTestHandler()

	req := asMember(testutil.NewHTTPRequest(http.MethodGet, "/reports/export?format=csv&scope=company", nil))
	rr := testutil.ExecuteRequest(http.HandlerFunc(h.Export), req)

	testutil.AssertStatus(t, rr, http.StatusForbidden)
}

func TestDashboard(t *testing.T) {
	h := newTestHandler()

	req := asMember(testutil.NewHTTPRequest(http.MethodGet, "/reports/dashboard", nil))
	rr := testutil.ExecuteRequest(http.HandlerFunc(h.Dashboard), req)

	testutil.AssertStatus(t, rr, http.StatusOK)

	var resp struct {
		Success bool               `json:"success"`
		Data    *service.Dashboard `json:"data"`
	}
	testutil.ParseJSONBody(t, rr, &resp)
	require.True(t, resp.Success)
	require.NotNil(t, resp.Data)
	assert.Equal(t, 8.0, resp.Data.TotalHours)
	assert.Len(t, resp.Data.Daily, 7)
}

func TestTrendsRejectsUnknownRange(t *testing.T) {
	h := newTestHandler()

	req := asMember(testutil.NewHTTPRequest(http.MethodGet, "/reports/trends?range=6months", nil))
	rr := testutil.ExecuteRequest(http.HandlerFunc(h.Trends), req)

	testutil.AssertStatus(t, rr, http.StatusBadRequest)
}
