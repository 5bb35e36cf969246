package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/worklog/worklog-backend/internal/report/aggregate"
	"github.com/worklog/worklog-backend/internal/timesheet/service"
	"github.com/worklog/worklog-backend/pkg/errors"
	"github.com/worklog/worklog-backend/pkg/httputil"
	"github.com/worklog/worklog-backend/pkg/logger"
)

// EntryHandler handles time entry endpoints
type EntryHandler struct {
	service *service.TimesheetService
	logger  *logger.Logger
}

// NewEntryHandler creates a new entry handler
func NewEntryHandler(svc *service.TimesheetService, log *logger.Logger) *EntryHandler {
	return &EntryHandler{
		service: svc,
		logger:  log,
	}
}

func actorFrom(r *http.Request) service.Actor {
	return service.Actor{
		ID:           httputil.GetUserID(r.Context()),
		Role:         httputil.GetUserRole(r.Context()),
		DepartmentID: httputil.GetDepartmentID(r.Context()),
	}
}

// List lists the actor's entries. Query params from/to (YYYY-MM-DD) bound the
// range; without them the current week is returned.
func (h *EntryHandler) List(w http.ResponseWriter, r *http.Request) {
	var from, to time.Time

	fromParam := r.URL.Query().Get("from")
	toParam := r.URL.Query().Get("to")

	if fromParam == "" && toParam == "" {
		week := aggregate.WeekBounds(time.Now(), 0)
		from, to = week.Start, week.End
	} else {
		var err error
		from, err = time.Parse("2006-01-02", fromParam)
		if err != nil {
			httputil.Error(w, errors.BadRequest("invalid from date"))
			return
		}
		to, err = time.Parse("2006-01-02", toParam)
		if err != nil {
			httputil.Error(w, errors.BadRequest("invalid to date"))
			return
		}
		if to.Before(from) {
			httputil.Error(w, errors.BadRequest("to must not be before from"))
			return
		}
	}

	entries, err := h.service.List(r.Context(), actorFrom(r), from, to)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, entries)
}

// Create logs a new entry
func (h *EntryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		service.EntryRequest
		UserID string `json:"user_id" validate:"omitempty,uuid"`
	}
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}

	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	entry, err := h.service.Create(r.Context(), actorFrom(r), req.UserID, &req.EntryRequest)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, entry)
}

// Update modifies an entry
func (h *EntryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req service.EntryRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}

	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	entry, err := h.service.Update(r.Context(), actorFrom(r), id, &req)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, entry)
}

// Delete removes an entry
func (h *EntryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), actorFrom(r), id); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.NoContent(w)
}

// QuickFillPreview returns drafts copied forward from last week
func (h *EntryHandler) QuickFillPreview(w http.ResponseWriter, r *http.Request) {
	preview, err := h.service.QuickFillPreview(r.Context(), actorFrom(r))
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, preview)
}

// QuickFillSubmit persists confirmed drafts
func (h *EntryHandler) QuickFillSubmit(w http.ResponseWriter, r *http.Request) {
	var req service.QuickFillSubmitRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}

	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	entries, err := h.service.QuickFillSubmit(r.Context(), actorFrom(r), &req)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, entries)
}

// Progress returns the current week's daily completion
func (h *EntryHandler) Progress(w http.ResponseWriter, r *http.Request) {
	progress, err := h.service.Progress(r.Context(), actorFrom(r))
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, progress)
}
