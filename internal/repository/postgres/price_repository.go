package postgres

import (
	"context"
	"fmt"

	"github.com/pizzanorte/backoffice/internal/domain"
	"github.com/pizzanorte/backoffice/internal/repository"
)

type priceRepository struct {
	db *DB
}

func NewPriceRepository(db *DB) repository.PriceRepository {
	return &priceRepository{db: db}
}

func (r *priceRepository) CurrentPrices(ctx context.Context) (map[domain.Category]float64, error) {
	query := `
		SELECT category, price
		FROM unit_prices
	`

	rows, err := r.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query unit prices: %w", err)
	}
	defer rows.Close()

	prices := make(map[domain.Category]float64)
	for rows.Next() {
		var category domain.Category
		var price float64
		if err := rows.Scan(&category, &price); err != nil {
			return nil, fmt.Errorf("failed to scan unit price: %w", err)
		}
		prices[category] = price
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate unit prices: %w", err)
	}

	return prices, nil
}

func (r *priceRepository) Upsert(ctx context.Context, price domain.UnitPrice) error {
	query := `
		INSERT INTO unit_prices (category, price, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (category)
		DO UPDATE SET price = EXCLUDED.price, updated_at = NOW()
	`

	if _, err := r.db.ExecContext(ctx, query, price.Category, price.Price); err != nil {
		return fmt.Errorf("failed to upsert unit price for %s: %w", price.Category, err)
	}

	return nil
}
