package service

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/worklog/worklog-backend/internal/identity/domain"
	"github.com/worklog/worklog-backend/internal/identity/repository"
	"github.com/worklog/worklog-backend/pkg/errors"
	"github.com/worklog/worklog-backend/pkg/logger"
	"github.com/worklog/worklog-backend/pkg/policy"
)

// EventPublisher publishes identity lifecycle events
type EventPublisher interface {
	PublishUserCreated(ctx context.Context, profile *domain.Profile, createdBy string)
	PublishUserUpdated(ctx context.Context, userID string, changes map[string]interface{}, updatedBy string)
	PublishUserDeleted(ctx context.Context, userID, username, deletedBy string)
	PublishUserRoleChanged(ctx context.Context, userID, oldRole, newRole, changedBy string)
	PublishPasswordReset(ctx context.Context, userID, resetBy string)
	PublishDepartmentCreated(ctx context.Context, dept *domain.Department)
	PublishDepartmentUpdated(ctx context.Context, departmentID string, changes map[string]interface{})
	PublishDepartmentDisabled(ctx context.Context, departmentID string)
}

// Actor identifies the authenticated user performing an operation
type Actor struct {
	ID           string
	Username     string
	Role         string
	DepartmentID string
}

// IdentityService handles user and department administration
type IdentityService struct {
	profiles    *repository.ProfileRepository
	departments *repository.DepartmentRepository
	events      EventPublisher
	logger      *logger.Logger
}

// NewIdentityService creates a new identity service
func NewIdentityService(
	profiles *repository.ProfileRepository,
	departments *repository.DepartmentRepository,
	publisher EventPublisher,
	log *logger.Logger,
) *IdentityService {
	return &IdentityService{
		profiles:    profiles,
		departments: departments,
		events:      publisher,
		logger:      log,
	}
}

// CreateUserRequest is the payload for creating a user
type CreateUserRequest struct {
	Username     string  `json:"username" validate:"required,min=3,max=100"`
	Password     string  `json:"password" validate:"required,min=8"`
	Role         string  `json:"role" validate:"required,oneof=super_admin department_admin member"`
	DepartmentID *string `json:"department_id" validate:"omitempty,uuid"`
}

// UpdateUserRequest is the payload for updating a user
type UpdateUserRequest struct {
	Role         string  `json:"role" validate:"required,oneof=super_admin department_admin member"`
	DepartmentID *string `json:"department_id" validate:"omitempty,uuid"`
	IsActive     *bool   `json:"is_active" validate:"required"`
}

// ResetPasswordRequest is the payload for an admin password reset
type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=8"`
}

// CreateUser creates a user account on behalf of an admin
func (s *IdentityService) CreateUser(ctx context.Context, actor Actor, req *CreateUserRequest) (*domain.Profile, error) {
	targetDept := ""
	if req.DepartmentID != nil {
		targetDept = *req.DepartmentID
	}
	if !policy.CanManageUser(actor.Role, actor.DepartmentID, req.Role, targetDept) {
		return nil, errors.Forbidden("not allowed to create this user")
	}

	if req.DepartmentID != nil {
		if _, err := s.departments.GetByID(ctx, *req.DepartmentID); err != nil {
			return nil, err
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Internal("failed to hash password")
	}

	profile := &domain.Profile{
		Username:     req.Username,
		PasswordHash: string(hash),
		Role:         req.Role,
		DepartmentID: req.DepartmentID,
		IsActive:     true,
	}

	if err := s.profiles.Create(ctx, profile); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("user_id", profile.ID).
		Str("username", profile.Username).
		Str("created_by", actor.ID).
		Msg("user created")
	s.events.PublishUserCreated(ctx, profile, actor.ID)

	return profile, nil
}

// ListUsers lists users visible to the actor. Department admins see only
// their own department.
func (s *IdentityService) ListUsers(ctx context.Context, actor Actor) ([]domain.Profile, error) {
	switch actor.Role {
	case policy.RoleSuperAdmin:
		return s.profiles.List(ctx, "")
	case policy.RoleDepartmentAdmin:
		if actor.DepartmentID == "" {
			return []domain.Profile{}, nil
		}
		return s.profiles.List(ctx, actor.DepartmentID)
	default:
		return nil, errors.Forbidden("not allowed to list users")
	}
}

// UpdateUser updates a user's role, department, and active flag
func (s *IdentityService) UpdateUser(ctx context.Context, actor Actor, userID string, req *UpdateUserRequest) (*domain.Profile, error) {
	existing, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	existingDept := ""
	if existing.DepartmentID != nil {
		existingDept = *existing.DepartmentID
	}
	targetDept := ""
	if req.DepartmentID != nil {
		targetDept = *req.DepartmentID
	}

	// The actor must be allowed to manage both the current and the target state.
	if !policy.CanManageUser(actor.Role, actor.DepartmentID, existing.Role, existingDept) ||
		!policy.CanManageUser(actor.Role, actor.DepartmentID, req.Role, targetDept) {
		return nil, errors.Forbidden("not allowed to update this user")
	}

	updated, err := s.profiles.Update(ctx, userID, req.Role, req.DepartmentID, *req.IsActive)
	if err != nil {
		return nil, err
	}

	if existing.Role != updated.Role {
		s.events.PublishUserRoleChanged(ctx, userID, existing.Role, updated.Role, actor.ID)
	}
	s.events.PublishUserUpdated(ctx, userID, map[string]interface{}{
		"role":          updated.Role,
		"department_id": updated.DepartmentID,
		"is_active":     updated.IsActive,
	}, actor.ID)

	return updated, nil
}

// DeleteUser soft deletes a user. Their time entries remain in reports.
func (s *IdentityService) DeleteUser(ctx context.Context, actor Actor, userID string) error {
	if actor.ID == userID {
		return errors.BadRequest("cannot delete your own account")
	}

	existing, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	existingDept := ""
	if existing.DepartmentID != nil {
		existingDept = *existing.DepartmentID
	}
	if !policy.CanManageUser(actor.Role, actor.DepartmentID, existing.Role, existingDept) {
		return errors.Forbidden("not allowed to delete this user")
	}

	if err := s.profiles.SoftDelete(ctx, userID); err != nil {
		return err
	}

	s.logger.Info().
		Str("user_id", userID).
		Str("deleted_by", actor.ID).
		Msg("user deleted")
	s.events.PublishUserDeleted(ctx, userID, existing.Username, actor.ID)

	return nil
}

// ResetPassword sets a new password for a user on behalf of an admin
func (s *IdentityService) ResetPassword(ctx context.Context, actor Actor, userID string, req *ResetPasswordRequest) error {
	existing, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	existingDept := ""
	if existing.DepartmentID != nil {
		existingDept = *existing.DepartmentID
	}
	if !policy.CanManageUser(actor.Role, actor.DepartmentID, existing.Role, existingDept) {
		return errors.Forbidden("not allowed to reset this user's password")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return errors.Internal("failed to hash password")
	}

	if err := s.profiles.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return err
	}

	s.events.PublishPasswordReset(ctx, userID, actor.ID)
	return nil
}

// DepartmentRequest is the payload for creating or updating a department
type DepartmentRequest struct {
	Name string `json:"name" validate:"required,min=1,max=255"`
	Code string `json:"code" validate:"required,min=1,max=50"`
}

// CreateDepartment creates a department
func (s *IdentityService) CreateDepartment(ctx context.Context, actor Actor, req *DepartmentRequest) (*domain.Department, error) {
	if !policy.CanManageDepartments(actor.Role) {
		return nil, errors.Forbidden("not allowed to manage departments")
	}

	dept := &domain.Department{
		Name:     req.Name,
		Code:     req.Code,
		IsActive: true,
	}

	if err := s.departments.Create(ctx, dept); err != nil {
		return nil, err
	}

	s.events.PublishDepartmentCreated(ctx, dept)
	return dept, nil
}

// ListDepartments lists departments. Admins see disabled ones as well.
func (s *IdentityService) ListDepartments(ctx context.Context, actor Actor) ([]domain.Department, error) {
	return s.departments.List(ctx, !policy.IsAdmin(actor.Role))
}

// UpdateDepartment updates a department's name and code
func (s *IdentityService) UpdateDepartment(ctx context.Context, actor Actor, id string, req *DepartmentRequest) (*domain.Department, error) {
	if !policy.CanManageDepartments(actor.Role) {
		return nil, errors.Forbidden("not allowed to manage departments")
	}

	dept, err := s.departments.Update(ctx, id, req.Name, req.Code)
	if err != nil {
		return nil, err
	}

	s.events.PublishDepartmentUpdated(ctx, id, map[string]interface{}{
		"name": req.Name,
		"code": req.Code,
	})
	return dept, nil
}

// DisableDepartment soft disables a department
func (s *IdentityService) DisableDepartment(ctx context.Context, actor Actor, id string) error {
	if !policy.CanManageDepartments(actor.Role) {
		return errors.Forbidden("not allowed to manage departments")
	}

	if err := s.departments.Disable(ctx, id); err != nil {
		return err
	}

	s.events.PublishDepartmentDisabled(ctx, id)
	return nil
}
