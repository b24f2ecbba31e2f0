package employees

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/atlas-itsm/atlas/internal/platform/httpx"
)

const uniqueViolation = "23505"

// Repository provides PostgreSQL backed persistence for employees.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const employeeColumns = `id, full_name, email, department, title, user_id, manager_user_id, created_at, updated_at`

func scanEmployee(row pgx.Row) (Employee, error) {
	var e Employee
	err := row.Scan(&e.ID, &e.FullName, &e.Email, &e.Department, &e.Title, &e.UserID, &e.ManagerUserID, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

// Get fetches an employee by id.
func (r *Repository) Get(ctx context.Context, id int64) (Employee, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id)
	e, err := scanEmployee(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Employee{}, fmt.Errorf("employee %d: %w", id, httpx.ErrNotFound)
		}
		return Employee{}, err
	}
	return e, nil
}

// List returns all employees ordered by name.
func (r *Repository) List(ctx context.Context) ([]Employee, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+employeeColumns+` FROM employees ORDER BY full_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Create inserts a new employee record.
func (r *Repository) Create(ctx context.Context, req CreateEmployeeRequest) (Employee, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO employees (full_name, email, department, title, user_id, manager_user_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+employeeColumns,
		req.FullName, req.Email, req.Department, req.Title, req.UserID, req.ManagerUserID)
	e, err := scanEmployee(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return Employee{}, fmt.Errorf("email %s: %w", req.Email, httpx.ErrDuplicate)
		}
		return Employee{}, err
	}
	return e, nil
}

// Update rewrites a record's mutable fields.
func (r *Repository) Update(ctx context.Context, id int64, req UpdateEmployeeRequest) (Employee, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE employees
		SET full_name = $2, email = $3, department = $4, title = $5, manager_user_id = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING `+employeeColumns,
		id, req.FullName, req.Email, req.Department, req.Title, req.ManagerUserID)
	e, err := scanEmployee(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Employee{}, fmt.Errorf("employee %d: %w", id, httpx.ErrNotFound)
		}
		return Employee{}, err
	}
	return e, nil
}

// Delete removes an employee record.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("employee %d: %w", id, httpx.ErrNotFound)
	}
	return nil
}
