package service

import (
	"context"

	"github.com/worklog/worklog-backend/internal/project/events"
	"github.com/worklog/worklog-backend/internal/project/repository"
	"github.com/worklog/worklog-backend/pkg/errors"
	"github.com/worklog/worklog-backend/pkg/logger"
	"github.com/worklog/worklog-backend/pkg/policy"
)

// ProjectService handles project management
type ProjectService struct {
	repo   *repository.ProjectRepository
	events *events.ProjectEventPublisher
	logger *logger.Logger
}

// NewProjectService creates a new project service
func NewProjectService(repo *repository.ProjectRepository, publisher *events.ProjectEventPublisher, log *logger.Logger) *ProjectService {
	return &ProjectService{
		repo:   repo,
		events: publisher,
		logger: log,
	}
}

// ProjectRequest is the payload for creating or updating a project
type ProjectRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=255"`
	Color       string  `json:"color" validate:"required"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	IsActive    *bool   `json:"is_active"`
}

// List lists projects. Admins also see disabled projects.
func (s *ProjectService) List(ctx context.Context, role string) ([]repository.Project, error) {
	return s.repo.List(ctx, !policy.IsAdmin(role))
}

// Create creates a project with a palette color
func (s *ProjectService) Create(ctx context.Context, role string, req *ProjectRequest) (*repository.Project, error) {
	if !policy.CanManageProjects(role) {
		return nil, errors.Forbidden("not allowed to manage projects")
	}
	if !repository.ValidColor(req.Color) {
		return nil, errors.Validation(map[string]string{
			"color": "must be one of the palette colors",
		})
	}

	project := &repository.Project{
		Name:        req.Name,
		Color:       req.Color,
		Description: req.Description,
		IsActive:    true,
	}

	if err := s.repo.Create(ctx, project); err != nil {
		return nil, err
	}

	s.logger.Info().Str("project_id", project.ID).Str("name", project.Name).Msg("project created")
	s.events.PublishProjectCreated(ctx, project)

	return project, nil
}

// Update updates a project. Disabling keeps existing entries valid.
func (s *ProjectService) Update(ctx context.Context, role, id string, req *ProjectRequest) (*repository.Project, error) {
	if !policy.CanManageProjects(role) {
		return nil, errors.Forbidden("not allowed to manage projects")
	}
	if !repository.ValidColor(req.Color) {
		return nil, errors.Validation(map[string]string{
			"color": "must be one of the palette colors",
		})
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	project, err := s.repo.Update(ctx, id, req.Name, req.Color, req.Description, isActive)
	if err != nil {
		return nil, err
	}

	s.events.PublishProjectUpdated(ctx, id, map[string]interface{}{
		"name":      project.Name,
		"color":     project.Color,
		"is_active": project.IsActive,
	})

	return project, nil
}
