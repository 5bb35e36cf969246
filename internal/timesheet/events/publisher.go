package events

import (
	"context"

	"github.com/worklog/worklog-backend/internal/timesheet/repository"
	"github.com/worklog/worklog-backend/pkg/logger"
	"github.com/worklog/worklog-backend/pkg/messaging"
)

// EntryEventPublisher publishes time entry lifecycle events
type EntryEventPublisher struct {
	publisher *messaging.Publisher
	logger    *logger.Logger
}

// NewEntryEventPublisher creates a new entry event publisher
func NewEntryEventPublisher(rmq *messaging.RabbitMQ, log *logger.Logger) (*EntryEventPublisher, error) {
	publisher, err := messaging.NewPublisher(rmq, messaging.ExchangeWorklogEvents, "worklog-backend", log)
	if err != nil {
		return nil, err
	}

	return &EntryEventPublisher{
		publisher: publisher,
		logger:    log,
	}, nil
}

// PublishEntryCreated publishes an entry created event
func (p *EntryEventPublisher) PublishEntryCreated(ctx context.Context, entry *repository.TimeEntry) {
	data := messaging.EntryCreatedEvent{
		EntryID:   entry.ID,
		UserID:    entry.UserID,
		ProjectID: entry.ProjectID,
		EntryDate: entry.EntryDate.Format("2006-01-02"),
		Hours:     entry.Hours,
	}

	if err := p.publisher.Publish(ctx, messaging.EventEntryCreated, data); err != nil {
		p.logger.Error().Err(err).Str("entry_id", entry.ID).Msg("failed to publish entry created event")
	}
}

// PublishEntryUpdated publishes an entry updated event
func (p *EntryEventPublisher) PublishEntryUpdated(ctx context.Context, entry *repository.TimeEntry) {
	data := messaging.EntryUpdatedEvent{
		EntryID: entry.ID,
		UserID:  entry.UserID,
		Fields: map[string]any{
			"project_id": entry.ProjectID,
			"entry_date": entry.EntryDate.Format("2006-01-02"),
			"hours":      entry.Hours,
		},
	}

	if err := p.publisher.Publish(ctx, messaging.EventEntryUpdated, data); err != nil {
		p.logger.Error().Err(err).Str("entry_id", entry.ID).Msg("failed to publish entry updated event")
	}
}

// PublishEntryDeleted publishes an entry deleted event
func (p *EntryEventPublisher) PublishEntryDeleted(ctx context.Context, entryID, userID string) {
	data := messaging.EntryDeletedEvent{
		EntryID: entryID,
		UserID:  userID,
	}

	if err := p.publisher.Publish(ctx, messaging.EventEntryDeleted, data); err != nil {
		p.logger.Error().Err(err).Str("entry_id", entryID).Msg("failed to publish entry deleted event")
	}
}

// PublishQuickFilled publishes a quick-fill submission event
func (p *EntryEventPublisher) PublishQuickFilled(ctx context.Context, userID string, count int, totalHours float64) {
	data := messaging.QuickFilledEvent{
		UserID:     userID,
		EntryCount: count,
		TotalHours: totalHours,
	}

	if err := p.publisher.Publish(ctx, messaging.EventQuickFilled, data); err != nil {
		p.logger.Error().Err(err).Str("user_id", userID).Msg("failed to publish quick fill event")
	}
}
