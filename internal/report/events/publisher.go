package events

import (
	"context"

	"github.com/worklog/worklog-backend/pkg/logger"
	"github.com/worklog/worklog-backend/pkg/messaging"
)

// ReportEventPublisher publishes report lifecycle events
type ReportEventPublisher struct {
	publisher *messaging.Publisher
	logger    *logger.Logger
}

// NewReportEventPublisher creates a new report event publisher
func NewReportEventPublisher(rmq *messaging.RabbitMQ, log *logger.Logger) (*ReportEventPublisher, error) {
	publisher, err := messaging.NewPublisher(rmq, messaging.ExchangeWorklogEvents, "worklog-backend", log)
	if err != nil {
		return nil, err
	}

	return &ReportEventPublisher{
		publisher: publisher,
		logger:    log,
	}, nil
}

// PublishReportExported publishes a report exported event
func (p *ReportEventPublisher) PublishReportExported(ctx context.Context, userID, scope, period, format, filename string) {
	data := messaging.ReportExportedEvent{
		UserID:   userID,
		Scope:    scope,
		Period:   period,
		Format:   format,
		Filename: filename,
	}

	if err := p.publisher.Publish(ctx, messaging.EventReportExported, data); err != nil {
		p.logger.Error().Err(err).Str("user_id", userID).Msg("failed to publish report exported event")
	}
}
