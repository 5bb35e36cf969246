package events

import (
	"context"

	"github.com/worklog/worklog-backend/internal/identity/domain"
	"github.com/worklog/worklog-backend/pkg/logger"
	"github.com/worklog/worklog-backend/pkg/messaging"
)

// IdentityEventPublisher publishes user and department lifecycle events
type IdentityEventPublisher struct {
	publisher *messaging.Publisher
	logger    *logger.Logger
}

// NewIdentityEventPublisher creates a new identity event publisher
func NewIdentityEventPublisher(rmq *messaging.RabbitMQ, log *logger.Logger) (*IdentityEventPublisher, error) {
	publisher, err := messaging.NewPublisher(rmq, messaging.ExchangeWorklogEvents, "worklog-backend", log)
	if err != nil {
		return nil, err
	}

	return &IdentityEventPublisher{
		publisher: publisher,
		logger:    log,
	}, nil
}

// PublishUserCreated publishes a user created event
func (p *IdentityEventPublisher) PublishUserCreated(ctx context.Context, profile *domain.Profile, createdBy string) {
	data := messaging.UserCreatedEvent{
		UserID:       profile.ID,
		Username:     profile.Username,
		Role:         profile.Role,
		DepartmentID: profile.DepartmentID,
		CreatedBy:    createdBy,
	}

	if err := p.publisher.Publish(ctx, messaging.EventUserCreated, data); err != nil {
		p.logger.Error().Err(err).Str("user_id", profile.ID).Msg("failed to publish user created event")
	}
}

// PublishUserUpdated publishes a user updated event
func (p *IdentityEventPublisher) PublishUserUpdated(ctx context.Context, userID string, changes map[string]interface{}, updatedBy string) {
	data := messaging.UserUpdatedEvent{
		UserID:    userID,
		Fields:    changes,
		UpdatedBy: updatedBy,
	}

	if err := p.publisher.Publish(ctx, messaging.EventUserUpdated, data); err != nil {
		p.logger.Error().Err(err).Str("user_id", userID).Msg("failed to publish user updated event")
	}
}

// PublishUserDeleted publishes a user deleted event
func (p *IdentityEventPublisher) PublishUserDeleted(ctx context.Context, userID, username, deletedBy string) {
	data := messaging.UserDeletedEvent{
		UserID:    userID,
		Username:  username,
		DeletedBy: deletedBy,
	}

	if err := p.publisher.Publish(ctx, messaging.EventUserDeleted, data); err != nil {
		p.logger.Error().Err(err).Str("user_id", userID).Msg("failed to publish user deleted event")
	}
}

// PublishUserRoleChanged publishes a user role changed event
func (p *IdentityEventPublisher) PublishUserRoleChanged(ctx context.Context, userID, oldRole, newRole, changedBy string) {
	data := messaging.UserRoleChangedEvent{
		UserID:    userID,
		OldRole:   oldRole,
		NewRole:   newRole,
		ChangedBy: changedBy,
	}

	if err := p.publisher.Publish(ctx, messaging.EventUserRoleChanged, data); err != nil {
		p.logger.Error().Err(err).Str("user_id", userID).Msg("failed to publish role changed event")
	}
}

// PublishPasswordReset publishes a password reset event
func (p *IdentityEventPublisher) PublishPasswordReset(ctx context.Context, userID, resetBy string) {
	data := messaging.UserPasswordResetEvent{
		UserID:  userID,
		ResetBy: resetBy,
	}

	if err := p.publisher.Publish(ctx, messaging.EventUserPasswordReset, data); err != nil {
		p.logger.Error().Err(err).Str("user_id", userID).Msg("failed to publish password reset event")
	}
}

// PublishDepartmentCreated publishes a department created event
func (p *IdentityEventPublisher) PublishDepartmentCreated(ctx context.Context, dept *domain.Department) {
	data := messaging.DepartmentCreatedEvent{
		DepartmentID: dept.ID,
		Name:         dept.Name,
		Code:         dept.Code,
	}

	if err := p.publisher.Publish(ctx, messaging.EventDepartmentCreated, data); err != nil {
		p.logger.Error().Err(err).Str("department_id", dept.ID).Msg("failed to publish department created event")
	}
}

// PublishDepartmentUpdated publishes a department updated event
func (p *IdentityEventPublisher) PublishDepartmentUpdated(ctx context.Context, departmentID string, changes map[string]interface{}) {
	data := messaging.DepartmentUpdatedEvent{
		DepartmentID: departmentID,
		Fields:       changes,
	}

	if err := p.publisher.Publish(ctx, messaging.EventDepartmentUpdated, data); err != nil {
		p.logger.Error().Err(err).Str("department_id", departmentID).Msg("failed to publish department updated event")
	}
}

// PublishDepartmentDisabled publishes a department disabled event
func (p *IdentityEventPublisher) PublishDepartmentDisabled(ctx context.Context, departmentID string) {
	data := messaging.DepartmentDisabledEvent{
		DepartmentID: departmentID,
	}

	if err := p.publisher.Publish(ctx, messaging.EventDepartmentDisabled, data); err != nil {
		p.logger.Error().Err(err).Str("department_id", departmentID).Msg("failed to publish department disabled event")
	}
}
