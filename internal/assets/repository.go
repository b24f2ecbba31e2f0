package assets

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/atlas-itsm/atlas/internal/platform/db"
	"github.com/atlas-itsm/atlas/internal/platform/httpx"
)

const uniqueViolation = "23505"

// Repository provides PostgreSQL backed persistence for assets.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const assetColumns = `id, tag, name, category, status, assigned_to_id, created_at, updated_at`

func scanAsset(row pgx.Row) (Asset, error) {
	var a Asset
	err := row.Scan(&a.ID, &a.Tag, &a.Name, &a.Category, &a.Status, &a.AssignedToID, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

// Get fetches an asset by id.
func (r *Repository) Get(ctx context.Context, id int64) (Asset, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+assetColumns+` FROM assets WHERE id = $1`, id)
	a, err := scanAsset(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Asset{}, fmt.Errorf("asset %d: %w", id, httpx.ErrNotFound)
		}
		return Asset{}, err
	}
	return a, nil
}

// List returns all assets ordered by tag.
func (r *Repository) List(ctx context.Context) ([]Asset, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+assetColumns+` FROM assets ORDER BY tag`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Asset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Create registers a new asset in the available state.
func (r *Repository) Create(ctx context.Context, req CreateAssetRequest) (Asset, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO assets (tag, name, category, status)
		VALUES ($1, $2, $3, $4)
		RETURNING `+assetColumns,
		req.Tag, req.Name, req.Category, StatusAvailable)
	a, err := scanAsset(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return Asset{}, fmt.Errorf("tag %s: %w", req.Tag, httpx.ErrDuplicate)
		}
		return Asset{}, err
	}
	return a, nil
}

// Update rewrites an asset's mutable fields.
func (r *Repository) Update(ctx context.Context, id int64, req UpdateAssetRequest) (Asset, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE assets
		SET name = $2, category = $3, status = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING `+assetColumns,
		id, req.Name, req.Category, req.Status)
	a, err := scanAsset(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Asset{}, fmt.Errorf("asset %d: %w", id, httpx.ErrNotFound)
		}
		return Asset{}, err
	}
	return a, nil
}

// Assign hands the asset over inside one transaction: the row is locked,
// the lifecycle state checked, then the holder set. Retired assets cannot
// be assigned.
func (r *Repository) Assign(ctx context.Context, id, userID int64) (Asset, error) {
	var a Asset
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var status string
		if err := tx.QueryRow(ctx, `SELECT status FROM assets WHERE id = $1 FOR UPDATE`, id).Scan(&status); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("asset %d: %w", id, httpx.ErrNotFound)
			}
			return err
		}
		if status == StatusRetired {
			return fmt.Errorf("asset %d is retired: %w", id, httpx.ErrValidation)
		}
		row := tx.QueryRow(ctx, `
			UPDATE assets
			SET assigned_to_id = $2, status = $3, updated_at = NOW()
			WHERE id = $1
			RETURNING `+assetColumns,
			id, userID, StatusAssigned)
		var err error
		a, err = scanAsset(row)
		return err
	})
	if err != nil {
		return Asset{}, err
	}
	return a, nil
}

// SetAssignment points the asset at a holder, or clears it when userID is nil.
func (r *Repository) SetAssignment(ctx context.Context, id int64, userID *int64, status string) (Asset, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE assets
		SET assigned_to_id = $2, status = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING `+assetColumns,
		id, userID, status)
	a, err := scanAsset(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Asset{}, fmt.Errorf("asset %d: %w", id, httpx.ErrNotFound)
		}
		return Asset{}, err
	}
	return a, nil
}
