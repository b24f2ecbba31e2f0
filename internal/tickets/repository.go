package tickets

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/atlas-itsm/atlas/internal/platform/httpx"
)

// Repository provides PostgreSQL backed persistence for tickets.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const ticketColumns = `id, subject, description, status, priority, submitted_by_id, assigned_to_id, manager_id, created_at, updated_at, closed_at`

func scanTicket(row pgx.Row) (Ticket, error) {
	var t Ticket
	err := row.Scan(&t.ID, &t.Subject, &t.Description, &t.Status, &t.Priority,
		&t.SubmittedByID, &t.AssignedToID, &t.ManagerID, &t.CreatedAt, &t.UpdatedAt, &t.ClosedAt)
	return t, err
}

// Get fetches a ticket by id.
func (r *Repository) Get(ctx context.Context, id int64) (Ticket, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE id = $1`, id)
	t, err := scanTicket(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Ticket{}, fmt.Errorf("ticket %d: %w", id, httpx.ErrNotFound)
		}
		return Ticket{}, err
	}
	return t, nil
}

// List returns all tickets newest first.
func (r *Repository) List(ctx context.Context) ([]Ticket, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+ticketColumns+` FROM tickets ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Create opens a ticket.
func (r *Repository) Create(ctx context.Context, req CreateTicketRequest, submittedByID int64, managerID *int64) (Ticket, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO tickets (subject, description, status, priority, submitted_by_id, manager_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+ticketColumns,
		req.Subject, req.Description, StatusOpen, req.Priority, submittedByID, managerID)
	return scanTicket(row)
}

// Update rewrites a ticket's mutable fields.
func (r *Repository) Update(ctx context.Context, id int64, req UpdateTicketRequest) (Ticket, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE tickets
		SET subject = $2, description = $3, priority = $4, status = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING `+ticketColumns,
		id, req.Subject, req.Description, req.Priority, req.Status)
	t, err := scanTicket(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Ticket{}, fmt.Errorf("ticket %d: %w", id, httpx.ErrNotFound)
		}
		return Ticket{}, err
	}
	return t, nil
}

// SetAssignee points the ticket at a handling agent.
func (r *Repository) SetAssignee(ctx context.Context, id, userID int64) (Ticket, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE tickets
		SET assigned_to_id = $2, status = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING `+ticketColumns,
		id, userID, StatusInProgress)
	t, err := scanTicket(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Ticket{}, fmt.Errorf("ticket %d: %w", id, httpx.ErrNotFound)
		}
		return Ticket{}, err
	}
	return t, nil
}

// Close marks the ticket closed and stamps closed_at.
func (r *Repository) Close(ctx context.Context, id int64) (Ticket, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE tickets
		SET status = $2, closed_at = NOW(), updated_at = NOW()
		WHERE id = $1
		RETURNING `+ticketColumns,
		id, StatusClosed)
	t, err := scanTicket(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Ticket{}, fmt.Errorf("ticket %d: %w", id, httpx.ErrNotFound)
		}
		return Ticket{}, err
	}
	return t, nil
}
