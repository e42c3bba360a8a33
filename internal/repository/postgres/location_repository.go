package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pizzanorte/backoffice/internal/domain"
	"github.com/pizzanorte/backoffice/internal/repository"
)

type locationRepository struct {
	db *DB
}

func NewLocationRepository(db *DB) repository.LocationRepository {
	return &locationRepository{db: db}
}

func (r *locationRepository) GetByID(ctx context.Context, id int64) (*domain.Location, error) {
	query := `
		SELECT id, name, created_at, updated_at
		FROM locations
		WHERE id = $1
	`

	var loc domain.Location
	if err := r.db.GetContext(ctx, &loc, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get location %d: %w", id, err)
	}

	return &loc, nil
}

func (r *locationRepository) List(ctx context.Context) ([]domain.Location, error) {
	query := `
		SELECT id, name, created_at, updated_at
		FROM locations
		ORDER BY name
	`

	var locations []domain.Location
	if err := r.db.SelectContext(ctx, &locations, query); err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}

	return locations, nil
}

func (r *locationRepository) Upsert(ctx context.Context, name string) (int64, error) {
	query := `
		INSERT INTO locations (name, created_at, updated_at)
		VALUES ($1, NOW(), NOW())
		ON CONFLICT (name) DO UPDATE
		SET updated_at = NOW()
		RETURNING id
	`

	var id int64
	if err := r.db.QueryRowContext(ctx, query, name).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to upsert location %s: %w", name, err)
	}

	return id, nil
}
