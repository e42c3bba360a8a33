package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/pizzanorte/backoffice/internal/domain"
	"github.com/pizzanorte/backoffice/internal/repository"
)

type employeeRepository struct {
	db *DB
}

func NewEmployeeRepository(db *DB) repository.EmployeeRepository {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) Create(ctx context.Context, e *domain.Employee) (int64, error) {
	query := `
		INSERT INTO employees (name, role, location_id, hire_date, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		e.Name, e.Role, e.LocationID, e.HireDate, e.Active,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert employee: %w", err)
	}

	return id, nil
}

func (r *employeeRepository) Update(ctx context.Context, e *domain.Employee) error {
	query := `
		UPDATE employees
		SET name = $1, role = $2, location_id = $3, active = $4, updated_at = NOW()
		WHERE id = $5
	`

	res, err := r.db.ExecContext(ctx, query, e.Name, e.Role, e.LocationID, e.Active, e.ID)
	if err != nil {
		return fmt.Errorf("failed to update employee %d: %w", e.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *employeeRepository) GetByID(ctx context.Context, id int64) (*domain.Employee, error) {
	query := `
		SELECT id, name, role, location_id, hire_date, active, created_at, updated_at
		FROM employees
		WHERE id = $1
	`

	var e domain.Employee
	if err := r.db.GetContext(ctx, &e, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get employee %d: %w", id, err)
	}

	return &e, nil
}

func (r *employeeRepository) List(ctx context.Context, locationID int64, activeOnly bool) ([]domain.Employee, error) {
	query := `
		SELECT id, name, role, location_id, hire_date, active, created_at, updated_at
		FROM employees
		WHERE 1=1
	`

	var args []interface{}
	var conditions []string
	argCounter := 1

	if locationID > 0 {
		conditions = append(conditions, fmt.Sprintf("location_id = $%d", argCounter))
		args = append(args, locationID)
		argCounter++
	}

	if activeOnly {
		conditions = append(conditions, "active = TRUE")
	}

	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY name"

	var employees []domain.Employee
	if err := r.db.SelectContext(ctx, &employees, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	return employees, nil
}
