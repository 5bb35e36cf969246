package handler

import (
	"net/http"
	"strconv"

	"github.com/worklog/worklog-backend/internal/report/service"
	"github.com/worklog/worklog-backend/pkg/errors"
	"github.com/worklog/worklog-backend/pkg/httputil"
	"github.com/worklog/worklog-backend/pkg/logger"
)

// ReportHandler handles dashboard, trend, and export endpoints
type ReportHandler struct {
	service *service.ReportService
	logger  *logger.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(svc *service.ReportService, log *logger.Logger) *ReportHandler {
	return &ReportHandler{
		service: svc,
		logger:  log,
	}
}

func actorFrom(r *http.Request) service.Actor {
	return service.Actor{
		ID:           httputil.GetUserID(r.Context()),
		Username:     httputil.GetUsername(r.Context()),
		Role:         httputil.GetUserRole(r.Context()),
		DepartmentID: httputil.GetDepartmentID(r.Context()),
	}
}

// Export streams a rendered report as a file download
func (h *ReportHandler) Export(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	req := service.ExportRequest{
		Scope:  q.Get("scope"),
		Period: q.Get("period"),
		Format: q.Get("format"),
	}
	if req.Scope == "" {
		req.Scope = "me"
	}
	if req.Period == "" {
		req.Period = "week"
	}

	if offset := q.Get("offset"); offset != "" {
		n, err := strconv.Atoi(offset)
		if err != nil || n < 0 {
			httputil.Error(w, errors.BadRequest("offset must be a non-negative integer"))
			return
		}
		req.Offset = n
	}

	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	file, err := h.service.Export(r.Context(), actorFrom(r), &req)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Attachment(w, file.ContentType, file.Filename, file.Bytes)
}

// Dashboard returns the current week's dashboard payload
func (h *ReportHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	dash, err := h.service.Dashboard(r.Context(), actorFrom(r))
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, dash)
}

// Trends returns the weekly series and trend classification
func (h *ReportHandler) Trends(w http.ResponseWriter, r *http.Request) {
	trends, err := h.service.Trends(r.Context(), actorFrom(r), r.URL.Query().Get("range"))
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, trends)
}
