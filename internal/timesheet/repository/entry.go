package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/worklog/worklog-backend/pkg/database"
	"github.com/worklog/worklog-backend/pkg/errors"
)

// TimeEntry represents one logged block of work
type TimeEntry struct {
	ID        string     `db:"id" json:"id"`
	UserID    string     `db:"user_id" json:"user_id"`
	ProjectID string     `db:"project_id" json:"project_id"`
	EntryDate time.Time  `db:"entry_date" json:"entry_date"`
	Hours     float64    `db:"hours" json:"hours"`
	Note      *string    `db:"note" json:"note"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at" json:"-"`

	// Joined fields, populated by list queries
	ProjectName    *string `db:"project_name" json:"project_name,omitempty"`
	ProjectColor   *string `db:"project_color" json:"project_color,omitempty"`
	Username       *string `db:"username" json:"username,omitempty"`
	DepartmentID   *string `db:"owner_department_id" json:"-"`
	DepartmentName *string `db:"department_name" json:"department_name,omitempty"`
}

const entryJoinColumns = `
	e.id, e.user_id, e.project_id, e.entry_date, e.hours, e.note,
	e.created_at, e.updated_at,
	pr.name AS project_name, pr.color AS project_color,
	p.username, p.department_id AS owner_department_id, d.name AS department_name
`

const entryJoins = `
	FROM time_entries e
	JOIN projects pr ON pr.id = e.project_id
	JOIN profiles p ON p.id = e.user_id
	LEFT JOIN departments d ON d.id = p.department_id
`

// EntryRepository handles time entry persistence
type EntryRepository struct {
	db *database.DB
}

// NewEntryRepository creates a new entry repository
func NewEntryRepository(db *database.DB) *EntryRepository {
	return &EntryRepository{db: db}
}

// Create creates a new time entry
func (r *EntryRepository) Create(ctx context.Context, entry *TimeEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}

	query := `
		INSERT INTO time_entries (id, user_id, project_id, entry_date, hours, note)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		entry.ID,
		entry.UserID,
		entry.ProjectID,
		entry.EntryDate,
		entry.Hours,
		entry.Note,
	).Scan(&entry.CreatedAt, &entry.UpdatedAt)

	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return err
	}

	return nil
}

// CreateBatch inserts several entries in one transaction. Used by quick-fill
// submission so a partial failure rolls everything back.
func (r *EntryRepository) CreateBatch(ctx context.Context, entries []*TimeEntry) error {
	return r.db.Transaction(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO time_entries (id, user_id, project_id, entry_date, hours, note)
			VALUES ($1, $2, $3, $4, $5, $6)
		`
		for _, entry := range entries {
			if entry.ID == "" {
				entry.ID = uuid.New().String()
			}
			if _, err := tx.ExecContext(ctx, query,
				entry.ID,
				entry.UserID,
				entry.ProjectID,
				entry.EntryDate,
				entry.Hours,
				entry.Note,
			); err != nil {
				if appErr := database.MapPQError(err); appErr != nil {
					return appErr
				}
				return err
			}
		}
		return nil
	})
}

// GetByID gets a time entry with its owner's department
func (r *EntryRepository) GetByID(ctx context.Context, id string) (*TimeEntry, error) {
	var entry TimeEntry
	query := `SELECT ` + entryJoinColumns + entryJoins + `
		WHERE e.id = $1 AND e.deleted_at IS NULL
	`

	err := r.db.GetContext(ctx, &entry, query, id)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("time entry")
	}
	if err != nil {
		return nil, err
	}

	return &entry, nil
}

// ListForUser lists a user's entries in the inclusive date range
func (r *EntryRepository) ListForUser(ctx context.Context, userID string, from, to time.Time) ([]TimeEntry, error) {
	query := `SELECT ` + entryJoinColumns + entryJoins + `
		WHERE e.user_id = $1 AND e.entry_date BETWEEN $2 AND $3 AND e.deleted_at IS NULL
		ORDER BY e.entry_date, e.created_at
	`

	entries := []TimeEntry{}
	if err := r.db.SelectContext(ctx, &entries, query, userID, from, to); err != nil {
		return nil, err
	}

	return entries, nil
}

// ListForDepartment lists all entries of a department's members in the range
func (r *EntryRepository) ListForDepartment(ctx context.Context, departmentID string, from, to time.Time) ([]TimeEntry, error) {
	query := `SELECT ` + entryJoinColumns + entryJoins + `
		WHERE p.department_id = $1 AND e.entry_date BETWEEN $2 AND $3 AND e.deleted_at IS NULL
		ORDER BY d.name, e.entry_date, p.username
	`

	entries := []TimeEntry{}
	if err := r.db.SelectContext(ctx, &entries, query, departmentID, from, to); err != nil {
		return nil, err
	}

	return entries, nil
}

// ListAll lists every entry in the range across the company
func (r *EntryRepository) ListAll(ctx context.Context, from, to time.Time) ([]TimeEntry, error) {
	query := `SELECT ` + entryJoinColumns + entryJoins + `
		WHERE e.entry_date BETWEEN $1 AND $2 AND e.deleted_at IS NULL
		ORDER BY d.name, e.entry_date, p.username
	`

	entries := []TimeEntry{}
	if err := r.db.SelectContext(ctx, &entries, query, from, to); err != nil {
		return nil, err
	}

	return entries, nil
}

// Update updates an entry. Last write wins; there is no optimistic locking.
func (r *EntryRepository) Update(ctx context.Context, id string, projectID string, entryDate time.Time, hours float64, note *string) (*TimeEntry, error) {
	query := `
		UPDATE time_entries
		SET project_id = $2, entry_date = $3, hours = $4, note = $5, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, id, projectID, entryDate, hours, note)
	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return nil, appErr
		}
		return nil, err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return nil, errors.NotFound("time entry")
	}

	return r.GetByID(ctx, id)
}

// SoftDelete marks an entry as deleted
func (r *EntryRepository) SoftDelete(ctx context.Context, id string) error {
	query := `
		UPDATE time_entries
		SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return errors.NotFound("time entry")
	}

	return nil
}
