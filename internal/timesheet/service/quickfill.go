package service

import (
	"context"

	"github.com/worklog/worklog-backend/internal/report/aggregate"
	"github.com/worklog/worklog-backend/internal/timesheet/repository"
)

// Draft is a proposed entry for the current week, built from last week's
// entries. Drafts carry no identity; nothing is persisted until submission.
type Draft struct {
	ProjectID   string  `json:"project_id"`
	ProjectName string  `json:"project_name,omitempty"`
	EntryDate   string  `json:"entry_date"`
	Hours       float64 `json:"hours"`
	Note        *string `json:"note"`
}

// QuickFillPreview is the draft set plus summary stats shown before the user
// confirms.
type QuickFillPreview struct {
	Drafts     []Draft            `json:"drafts"`
	EntryCount int                `json:"entry_count"`
	TotalHours float64            `json:"total_hours"`
	ByProject  map[string]float64 `json:"by_project"`
}

// ShiftToThisWeek turns last week's entries into drafts dated exactly seven
// days later. Project, hours, and note carry over; IDs and timestamps do not.
// No deduplication against the current week happens here: the user confirms
// the final set.
func ShiftToThisWeek(entries []repository.TimeEntry) []Draft {
	drafts := make([]Draft, 0, len(entries))
	for _, e := range entries {
		name := ""
		if e.ProjectName != nil {
			name = *e.ProjectName
		}
		drafts = append(drafts, Draft{
			ProjectID:   e.ProjectID,
			ProjectName: name,
			EntryDate:   e.EntryDate.AddDate(0, 0, 7).Format("2006-01-02"),
			Hours:       e.Hours,
			Note:        e.Note,
		})
	}
	return drafts
}

// previewStats summarizes a draft set
func previewStats(drafts []Draft) *QuickFillPreview {
	preview := &QuickFillPreview{
		Drafts:     drafts,
		EntryCount: len(drafts),
		ByProject:  make(map[string]float64),
	}
	for _, d := range drafts {
		preview.TotalHours += d.Hours
		key := d.ProjectName
		if key == "" {
			key = d.ProjectID
		}
		preview.ByProject[key] += d.Hours
	}
	return preview
}

// QuickFillPreview builds drafts from the actor's previous calendar week
func (s *TimesheetService) QuickFillPreview(ctx context.Context, actor Actor) (*QuickFillPreview, error) {
	lastWeek := aggregate.WeekBounds(s.now(), 1)

	entries, err := s.entries.ListForUser(ctx, actor.ID, lastWeek.Start, lastWeek.End)
	if err != nil {
		return nil, err
	}

	return previewStats(ShiftToThisWeek(entries)), nil
}

// QuickFillSubmitRequest is the confirmed draft set
type QuickFillSubmitRequest struct {
	Entries []EntryRequest `json:"entries" validate:"required,min=1,max=100,dive"`
}

// QuickFillSubmit persists the confirmed drafts as real entries in one batch
func (s *TimesheetService) QuickFillSubmit(ctx context.Context, actor Actor, req *QuickFillSubmitRequest) ([]repository.TimeEntry, error) {
	toCreate := make([]*repository.TimeEntry, 0, len(req.Entries))
	var total float64

	for i := range req.Entries {
		er := &req.Entries[i]
		date, err := er.parse()
		if err != nil {
			return nil, err
		}
		toCreate = append(toCreate, &repository.TimeEntry{
			UserID:    actor.ID,
			ProjectID: er.ProjectID,
			EntryDate: date,
			Hours:     er.Hours,
			Note:      er.Note,
		})
		total += er.Hours
	}

	if err := s.entries.CreateBatch(ctx, toCreate); err != nil {
		return nil, err
	}

	created := make([]repository.TimeEntry, 0, len(toCreate))
	for _, e := range toCreate {
		created = append(created, *e)
	}

	s.logger.Info().
		Str("user_id", actor.ID).
		Int("entries", len(created)).
		Msg("quick fill submitted")
	s.events.PublishQuickFilled(ctx, actor.ID, len(created), total)

	return created, nil
}
