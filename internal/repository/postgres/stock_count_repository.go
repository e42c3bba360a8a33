// internal/repository/postgres/stock_count_repository.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pizzanorte/backoffice/internal/domain"
	"github.com/pizzanorte/backoffice/internal/repository"
)

type stockCountRepository struct {
	db *DB
}

func NewStockCountRepository(db *DB) repository.StockCountRepository {
	return &stockCountRepository{db: db}
}

func (r *stockCountRepository) Create(ctx context.Context, count *domain.StockCount) (int64, error) {
	var id int64
	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO stock_counts (location_id, date, shift, responsible, created_at)
			VALUES ($1, $2, $3, $4, NOW())
			RETURNING id
		`
		if err := tx.QueryRowContext(ctx, query,
			count.LocationID, count.Date, count.Shift, count.Responsible,
		).Scan(&id); err != nil {
			return fmt.Errorf("failed to insert stock count: %w", err)
		}

		lineQuery := `
			INSERT INTO stock_count_lines (stock_count_id, category, counted_qty, pos_qty)
			VALUES ($1, $2, $3, $4)
		`
		stmt, err := tx.PrepareContext(ctx, lineQuery)
		if err != nil {
			return fmt.Errorf("failed to prepare line statement: %w", err)
		}
		defer stmt.Close()

		for _, line := range count.Lines {
			if _, err := stmt.ExecContext(ctx, id, line.Category, line.CountedQty, line.POSQty); err != nil {
				return fmt.Errorf("failed to insert stock count line: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return id, nil
}

func (r *stockCountRepository) GetByID(ctx context.Context, id int64) (*domain.StockCount, error) {
	query := `
		SELECT c.id, c.location_id, l.name AS location_name, c.date, c.shift,
		       c.responsible, c.created_at
		FROM stock_counts c
		JOIN locations l ON c.location_id = l.id
		WHERE c.id = $1
	`

	var count domain.StockCount
	if err := r.db.GetContext(ctx, &count, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get stock count %d: %w", id, err)
	}

	lines, err := r.linesFor(ctx, id)
	if err != nil {
		return nil, err
	}
	count.Lines = lines

	return &count, nil
}

func (r *stockCountRepository) linesFor(ctx context.Context, countID int64) ([]domain.CategoryLine, error) {
	query := `
		SELECT category, counted_qty, pos_qty
		FROM stock_count_lines
		WHERE stock_count_id = $1
		ORDER BY category
	`

	var lines []domain.CategoryLine
	if err := r.db.SelectContext(ctx, &lines, query, countID); err != nil {
		return nil, fmt.Errorf("failed to get stock count lines: %w", err)
	}

	return lines, nil
}

func (r *stockCountRepository) ListRecent(ctx context.Context, limit int) ([]domain.StockCount, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT c.id, c.location_id, l.name AS location_name, c.date, c.shift,
		       c.responsible, c.created_at
		FROM stock_counts c
		JOIN locations l ON c.location_id = l.id
		ORDER BY c.date DESC, c.id DESC
		LIMIT $1
	`

	var counts []domain.StockCount
	if err := r.db.SelectContext(ctx, &counts, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list stock counts: %w", err)
	}

	return counts, nil
}

func (r *stockCountRepository) ListByLocation(ctx context.Context, locationID int64, limit int) ([]domain.StockCount, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT c.id, c.location_id, l.name AS location_name, c.date, c.shift,
		       c.responsible, c.created_at
		FROM stock_counts c
		JOIN locations l ON c.location_id = l.id
		WHERE c.location_id = $1
		ORDER BY c.date DESC, c.id DESC
		LIMIT $2
	`

	var counts []domain.StockCount
	if err := r.db.SelectContext(ctx, &counts, query, locationID, limit); err != nil {
		return nil, fmt.Errorf("failed to list stock counts for location %d: %w", locationID, err)
	}

	return counts, nil
}
