package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/worklog/worklog-backend/internal/identity/domain"
	"github.com/worklog/worklog-backend/pkg/database"
	"github.com/worklog/worklog-backend/pkg/errors"
)

// ProfileRepository handles profile persistence
type ProfileRepository struct {
	db *database.DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *database.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Create creates a new profile
func (r *ProfileRepository) Create(ctx context.Context, profile *domain.Profile) error {
	if profile.ID == "" {
		profile.ID = uuid.New().String()
	}

	query := `
		INSERT INTO profiles (id, username, password_hash, role, department_id, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		profile.ID,
		profile.Username,
		profile.PasswordHash,
		profile.Role,
		profile.DepartmentID,
		profile.IsActive,
	).Scan(&profile.CreatedAt, &profile.UpdatedAt)

	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return err
	}

	return nil
}

// GetByID gets a profile by ID
func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	var profile domain.Profile
	query := `
		SELECT id, username, password_hash, role, department_id, is_active,
		       created_at, updated_at, deleted_at
		FROM profiles
		WHERE id = $1 AND deleted_at IS NULL
	`

	err := r.db.GetContext(ctx, &profile, query, id)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("user")
	}
	if err != nil {
		return nil, err
	}

	return &profile, nil
}

// GetByUsername gets a profile by username
func (r *ProfileRepository) GetByUsername(ctx context.Context, username string) (*domain.Profile, error) {
	var profile domain.Profile
	query := `
		SELECT id, username, password_hash, role, department_id, is_active,
		       created_at, updated_at, deleted_at
		FROM profiles
		WHERE username = $1 AND deleted_at IS NULL
	`

	err := r.db.GetContext(ctx, &profile, query, username)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("user")
	}
	if err != nil {
		return nil, err
	}

	return &profile, nil
}

// List lists profiles, optionally filtered by department
func (r *ProfileRepository) List(ctx context.Context, departmentID string) ([]domain.Profile, error) {
	query := `
		SELECT p.id, p.username, p.role, p.department_id, p.is_active,
		       p.created_at, p.updated_at, d.name AS department_name
		FROM profiles p
		LEFT JOIN departments d ON d.id = p.department_id
		WHERE p.deleted_at IS NULL
	`
	args := []interface{}{}

	if departmentID != "" {
		query += ` AND p.department_id = $1`
		args = append(args, departmentID)
	}
	query += ` ORDER BY p.username`

	profiles := []domain.Profile{}
	if err := r.db.SelectContext(ctx, &profiles, query, args...); err != nil {
		return nil, err
	}

	return profiles, nil
}

// ListByIDs loads profiles for a set of user IDs, including deleted ones so
// historical entries keep resolving their owners.
func (r *ProfileRepository) ListByIDs(ctx context.Context, ids []string) ([]domain.Profile, error) {
	if len(ids) == 0 {
		return []domain.Profile{}, nil
	}

	query := `
		SELECT id, username, role, department_id, is_active, created_at, updated_at, deleted_at
		FROM profiles
		WHERE id = ANY($1)
	`

	profiles := []domain.Profile{}
	if err := r.db.SelectContext(ctx, &profiles, query, pq.Array(ids)); err != nil {
		return nil, err
	}

	return profiles, nil
}

// Update updates a profile's role and department
func (r *ProfileRepository) Update(ctx context.Context, id string, role string, departmentID *string, isActive bool) (*domain.Profile, error) {
	query := `
		UPDATE profiles
		SET role = $2, department_id = $3, is_active = $4, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, id, role, departmentID, isActive)
	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return nil, appErr
		}
		return nil, err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return nil, errors.NotFound("user")
	}

	return r.GetByID(ctx, id)
}

// UpdatePassword replaces the stored password hash
func (r *ProfileRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	query := `
		UPDATE profiles
		SET password_hash = $2, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, id, passwordHash)
	if err != nil {
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return errors.NotFound("user")
	}

	return nil
}

// SoftDelete marks a profile as deleted. Time entries remain for reporting.
func (r *ProfileRepository) SoftDelete(ctx context.Context, id string) error {
	query := `
		UPDATE profiles
		SET deleted_at = NOW(), is_active = FALSE, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return errors.NotFound("user")
	}

	return nil
}
