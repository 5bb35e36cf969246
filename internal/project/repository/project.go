package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/worklog/worklog-backend/pkg/database"
	"github.com/worklog/worklog-backend/pkg/errors"
)

// Palette is the fixed set of colors assignable to projects.
var Palette = []string{
	"#7C9CBF",
	"#6EAF8D",
	"#E6A76B",
	"#9B87C7",
	"#D98FA9",
	"#D97C7C",
	"#5FB3C5",
	"#A8C66C",
}

// ValidColor reports whether the color belongs to the palette.
func ValidColor(color string) bool {
	for _, c := range Palette {
		if c == color {
			return true
		}
	}
	return false
}

// Project represents a trackable project
type Project struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Color       string    `db:"color" json:"color"`
	Description *string   `db:"description" json:"description"`
	IsActive    bool      `db:"is_active" json:"is_active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// ProjectRepository handles project persistence
type ProjectRepository struct {
	db *database.DB
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *database.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create creates a new project
func (r *ProjectRepository) Create(ctx context.Context, project *Project) error {
	if project.ID == "" {
		project.ID = uuid.New().String()
	}

	query := `
		INSERT INTO projects (id, name, color, description, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		project.ID,
		project.Name,
		project.Color,
		project.Description,
		project.IsActive,
	).Scan(&project.CreatedAt, &project.UpdatedAt)

	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return err
	}

	return nil
}

// GetByID gets a project by ID
func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*Project, error) {
	var project Project
	query := `
		SELECT id, name, color, description, is_active, created_at, updated_at
		FROM projects
		WHERE id = $1
	`

	err := r.db.GetContext(ctx, &project, query, id)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("project")
	}
	if err != nil {
		return nil, err
	}

	return &project, nil
}

// List lists projects. With activeOnly, disabled projects are excluded.
func (r *ProjectRepository) List(ctx context.Context, activeOnly bool) ([]Project, error) {
	query := `
		SELECT id, name, color, description, is_active, created_at, updated_at
		FROM projects
	`
	if activeOnly {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY name`

	projects := []Project{}
	if err := r.db.SelectContext(ctx, &projects, query); err != nil {
		return nil, err
	}

	return projects, nil
}

// Update updates a project. Entries referencing a disabled project stay valid.
func (r *ProjectRepository) Update(ctx context.Context, id string, name, color string, description *string, isActive bool) (*Project, error) {
	query := `
		UPDATE projects
		SET name = $2, color = $3, description = $4, is_active = $5, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, name, color, description, isActive)
	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return nil, appErr
		}
		return nil, err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return nil, errors.NotFound("project")
	}

	return r.GetByID(ctx, id)
}
