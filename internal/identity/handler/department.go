package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/worklog/worklog-backend/internal/identity/service"
	"github.com/worklog/worklog-backend/pkg/httputil"
	"github.com/worklog/worklog-backend/pkg/logger"
)

// DepartmentHandler handles department administration endpoints
type DepartmentHandler struct {
	service *service.IdentityService
	logger  *logger.Logger
}

// NewDepartmentHandler creates a new department handler
func NewDepartmentHandler(svc *service.IdentityService, log *logger.Logger) *DepartmentHandler {
	return &DepartmentHandler{
		service: svc,
		logger:  log,
	}
}

// List lists departments with member counts
func (h *DepartmentHandler) List(w http.ResponseWriter, r *http.Request) {
	depts, err := h.service.ListDepartments(r.Context(), actorFrom(r))
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, depts)
}

// Create creates a department
func (h *DepartmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.DepartmentRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}

	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	dept, err := h.service.CreateDepartment(r.Context(), actorFrom(r), &req)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, dept)
}

// Update updates a department's name and code
func (h *DepartmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req service.DepartmentRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}

	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	dept, err := h.service.UpdateDepartment(r.Context(), actorFrom(r), id, &req)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, dept)
}

// Delete soft disables a department
func (h *DepartmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.DisableDepartment(r.Context(), actorFrom(r), id); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.NoContent(w)
}
