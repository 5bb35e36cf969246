package service

import (
	"context"
	"math"
	"time"

	"github.com/worklog/worklog-backend/internal/identity/domain"
	"github.com/worklog/worklog-backend/internal/report/aggregate"
	"github.com/worklog/worklog-backend/internal/timesheet/repository"
	"github.com/worklog/worklog-backend/pkg/errors"
	"github.com/worklog/worklog-backend/pkg/logger"
	"github.com/worklog/worklog-backend/pkg/policy"
)

// ProfileDirectory resolves entry owners for authorization checks
type ProfileDirectory interface {
	GetByID(ctx context.Context, id string) (*domain.Profile, error)
}

// EventPublisher publishes entry lifecycle events
type EventPublisher interface {
	PublishEntryCreated(ctx context.Context, entry *repository.TimeEntry)
	PublishEntryUpdated(ctx context.Context, entry *repository.TimeEntry)
	PublishEntryDeleted(ctx context.Context, entryID, userID string)
	PublishQuickFilled(ctx context.Context, userID string, count int, totalHours float64)
}

// Actor identifies the authenticated user performing an operation
type Actor struct {
	ID           string
	Role         string
	DepartmentID string
}

// TimesheetService handles time entry management
type TimesheetService struct {
	entries     *repository.EntryRepository
	profiles    ProfileDirectory
	events      EventPublisher
	logger      *logger.Logger
	dailyTarget float64
	now         func() time.Time
}

// NewTimesheetService creates a new timesheet service
func NewTimesheetService(
	entries *repository.EntryRepository,
	profiles ProfileDirectory,
	publisher EventPublisher,
	log *logger.Logger,
	dailyTarget float64,
) *TimesheetService {
	return &TimesheetService{
		entries:     entries,
		profiles:    profiles,
		events:      publisher,
		logger:      log,
		dailyTarget: dailyTarget,
		now:         time.Now,
	}
}

// EntryRequest is the payload for creating or updating a time entry
type EntryRequest struct {
	ProjectID string  `json:"project_id" validate:"required,uuid"`
	EntryDate string  `json:"entry_date" validate:"required,datetime=2006-01-02"`
	Hours     float64 `json:"hours" validate:"required,gte=0.5,lte=24"`
	Note      *string `json:"note" validate:"omitempty,max=2000"`
}

func validHoursStep(hours float64) bool {
	scaled := hours * 2
	return scaled == math.Trunc(scaled)
}

func (req *EntryRequest) parse() (time.Time, error) {
	if !validHoursStep(req.Hours) {
		return time.Time{}, errors.Validation(map[string]string{
			"hours": "must be logged in half-hour increments",
		})
	}
	date, err := time.Parse("2006-01-02", req.EntryDate)
	if err != nil {
		return time.Time{}, errors.Validation(map[string]string{
			"entry_date": "must be a valid date in YYYY-MM-DD format",
		})
	}
	return date, nil
}

// canWrite checks whether the actor may write entries owned by ownerID
func (s *TimesheetService) canWrite(ctx context.Context, actor Actor, ownerID string) error {
	if actor.ID == ownerID {
		return nil
	}

	owner, err := s.profiles.GetByID(ctx, ownerID)
	if err != nil {
		return err
	}
	ownerDept := ""
	if owner.DepartmentID != nil {
		ownerDept = *owner.DepartmentID
	}
	if !policy.CanWriteEntry(actor.ID, actor.Role, actor.DepartmentID, ownerID, ownerDept) {
		return errors.Forbidden("not allowed to modify this entry")
	}
	return nil
}

// Create logs a time entry. Admins may pass userID to log for someone else.
func (s *TimesheetService) Create(ctx context.Context, actor Actor, userID string, req *EntryRequest) (*repository.TimeEntry, error) {
	if userID == "" {
		userID = actor.ID
	}
	if err := s.canWrite(ctx, actor, userID); err != nil {
		return nil, err
	}

	date, err := req.parse()
	if err != nil {
		return nil, err
	}

	entry := &repository.TimeEntry{
		UserID:    userID,
		ProjectID: req.ProjectID,
		EntryDate: date,
		Hours:     req.Hours,
		Note:      req.Note,
	}

	if err := s.entries.Create(ctx, entry); err != nil {
		return nil, err
	}

	s.events.PublishEntryCreated(ctx, entry)
	return entry, nil
}

// List returns the actor's entries in the given inclusive range
func (s *TimesheetService) List(ctx context.Context, actor Actor, from, to time.Time) ([]repository.TimeEntry, error) {
	return s.entries.ListForUser(ctx, actor.ID, from, to)
}

// Update modifies an existing entry. Last write wins.
func (s *TimesheetService) Update(ctx context.Context, actor Actor, entryID string, req *EntryRequest) (*repository.TimeEntry, error) {
	existing, err := s.entries.GetByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if err := s.canWrite(ctx, actor, existing.UserID); err != nil {
		return nil, err
	}

	date, err := req.parse()
	if err != nil {
		return nil, err
	}

	updated, err := s.entries.Update(ctx, entryID, req.ProjectID, date, req.Hours, req.Note)
	if err != nil {
		return nil, err
	}

	s.events.PublishEntryUpdated(ctx, updated)
	return updated, nil
}

// Delete soft deletes an entry
func (s *TimesheetService) Delete(ctx context.Context, actor Actor, entryID string) error {
	existing, err := s.entries.GetByID(ctx, entryID)
	if err != nil {
		return err
	}
	if err := s.canWrite(ctx, actor, existing.UserID); err != nil {
		return err
	}

	if err := s.entries.SoftDelete(ctx, entryID); err != nil {
		return err
	}

	s.events.PublishEntryDeleted(ctx, entryID, existing.UserID)
	return nil
}

// WeekProgress describes the actor's current week against the daily target
type WeekProgress struct {
	WeekStart  string                          `json:"week_start"`
	WeekEnd    string                          `json:"week_end"`
	Days       map[string]aggregate.Completion `json:"days"`
	TotalHours float64                         `json:"total_hours"`
}

// Progress evaluates the actor's current week day by day
func (s *TimesheetService) Progress(ctx context.Context, actor Actor) (*WeekProgress, error) {
	week := aggregate.WeekBounds(s.now(), 0)

	entries, err := s.entries.ListForUser(ctx, actor.ID, week.Start, week.End)
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]float64)
	var total float64
	for _, e := range entries {
		byDay[e.EntryDate.Format("2006-01-02")] += e.Hours
		total += e.Hours
	}

	days := make(map[string]aggregate.Completion, 7)
	for _, d := range week.Days() {
		key := d.Format("2006-01-02")
		days[key] = aggregate.DailyCompletion(byDay[key], aggregate.IsWeekend(d), s.dailyTarget)
	}

	return &WeekProgress{
		WeekStart:  week.Start.Format("2006-01-02"),
		WeekEnd:    week.End.Format("2006-01-02"),
		Days:       days,
		TotalHours: total,
	}, nil
}
