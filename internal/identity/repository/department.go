package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/worklog/worklog-backend/internal/identity/domain"
	"github.com/worklog/worklog-backend/pkg/database"
	"github.com/worklog/worklog-backend/pkg/errors"
)

// DepartmentRepository handles department persistence
type DepartmentRepository struct {
	db *database.DB
}

// NewDepartmentRepository creates a new department repository
func NewDepartmentRepository(db *database.DB) *DepartmentRepository {
	return &DepartmentRepository{db: db}
}

// Create creates a new department
func (r *DepartmentRepository) Create(ctx context.Context, dept *domain.Department) error {
	if dept.ID == "" {
		dept.ID = uuid.New().String()
	}

	query := `
		INSERT INTO departments (id, name, code, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		dept.ID,
		dept.Name,
		dept.Code,
		dept.IsActive,
	).Scan(&dept.CreatedAt, &dept.UpdatedAt)

	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return err
	}

	return nil
}

// GetByID gets a department by ID
func (r *DepartmentRepository) GetByID(ctx context.Context, id string) (*domain.Department, error) {
	var dept domain.Department
	query := `
		SELECT id, name, code, is_active, created_at, updated_at
		FROM departments
		WHERE id = $1
	`

	err := r.db.GetContext(ctx, &dept, query, id)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("department")
	}
	if err != nil {
		return nil, err
	}

	return &dept, nil
}

// List lists all departments with their member counts
func (r *DepartmentRepository) List(ctx context.Context, activeOnly bool) ([]domain.Department, error) {
	query := `
		SELECT d.id, d.name, d.code, d.is_active, d.created_at, d.updated_at,
		       COUNT(p.id) AS member_count
		FROM departments d
		LEFT JOIN profiles p ON p.department_id = d.id AND p.deleted_at IS NULL AND p.is_active
	`
	if activeOnly {
		query += ` WHERE d.is_active`
	}
	query += `
		GROUP BY d.id
		ORDER BY d.name
	`

	depts := []domain.Department{}
	if err := r.db.SelectContext(ctx, &depts, query); err != nil {
		return nil, err
	}

	return depts, nil
}

// Update updates a department's name and code
func (r *DepartmentRepository) Update(ctx context.Context, id, name, code string) (*domain.Department, error) {
	query := `
		UPDATE departments
		SET name = $2, code = $3, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, name, code)
	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return nil, appErr
		}
		return nil, err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return nil, errors.NotFound("department")
	}

	return r.GetByID(ctx, id)
}

// Disable soft disables a department. Members keep their assignment but the
// department stops appearing in pickers.
func (r *DepartmentRepository) Disable(ctx context.Context, id string) error {
	query := `
		UPDATE departments
		SET is_active = FALSE, updated_at = NOW()
		WHERE id = $1 AND is_active
	`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return errors.NotFound("department")
	}

	return nil
}
