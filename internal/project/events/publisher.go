package events

import (
	"context"

	"github.com/worklog/worklog-backend/internal/project/repository"
	"github.com/worklog/worklog-backend/pkg/logger"
	"github.com/worklog/worklog-backend/pkg/messaging"
)

// ProjectEventPublisher publishes project lifecycle events
type ProjectEventPublisher struct {
	publisher *messaging.Publisher
	logger    *logger.Logger
}

// NewProjectEventPublisher creates a new project event publisher
func NewProjectEventPublisher(rmq *messaging.RabbitMQ, log *logger.Logger) (*ProjectEventPublisher, error) {
	publisher, err := messaging.NewPublisher(rmq, messaging.ExchangeWorklogEvents, "worklog-backend", log)
	if err != nil {
		return nil, err
	}

	return &ProjectEventPublisher{
		publisher: publisher,
		logger:    log,
	}, nil
}

// PublishProjectCreated publishes a project created event
func (p *ProjectEventPublisher) PublishProjectCreated(ctx context.Context, project *repository.Project) {
	data := messaging.ProjectCreatedEvent{
		ProjectID: project.ID,
		Name:      project.Name,
		Color:     project.Color,
	}

	if err := p.publisher.Publish(ctx, messaging.EventProjectCreated, data); err != nil {
		p.logger.Error().Err(err).Str("project_id", project.ID).Msg("failed to publish project created event")
	}
}

// PublishProjectUpdated publishes a project updated event
func (p *ProjectEventPublisher) PublishProjectUpdated(ctx context.Context, projectID string, changes map[string]interface{}) {
	data := messaging.ProjectUpdatedEvent{
		ProjectID: projectID,
		Fields:    changes,
	}

	if err := p.publisher.Publish(ctx, messaging.EventProjectUpdated, data); err != nil {
		p.logger.Error().Err(err).Str("project_id", projectID).Msg("failed to publish project updated event")
	}
}
