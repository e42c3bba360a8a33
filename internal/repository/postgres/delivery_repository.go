package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/pizzanorte/backoffice/internal/domain"
	"github.com/pizzanorte/backoffice/internal/repository"
)

type deliveryRepository struct {
	db *DB
}

func NewDeliveryRepository(db *DB) repository.DeliveryRepository {
	return &deliveryRepository{db: db}
}

func (r *deliveryRepository) Upsert(ctx context.Context, stat *domain.DeliveryStat) (int64, error) {
	query := `
		INSERT INTO delivery_stats (location_id, platform, date, orders, gross_amount, fee_amount)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (location_id, platform, date)
		DO UPDATE SET
			orders = EXCLUDED.orders,
			gross_amount = EXCLUDED.gross_amount,
			fee_amount = EXCLUDED.fee_amount
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		stat.LocationID, stat.Platform, stat.Date, stat.Orders, stat.GrossAmount, stat.FeeAmount,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert delivery stat: %w", err)
	}

	return id, nil
}

func (r *deliveryRepository) List(ctx context.Context, locationID int64, from, to time.Time) ([]domain.DeliveryStat, error) {
	query := `
		SELECT id, location_id, platform, date, orders, gross_amount, fee_amount
		FROM delivery_stats
		WHERE ($1 = 0 OR location_id = $1)
		  AND date >= $2::date AND date <= $3::date
		ORDER BY date DESC, platform
	`

	var stats []domain.DeliveryStat
	if err := r.db.SelectContext(ctx, &stats, query, locationID, from, to); err != nil {
		return nil, fmt.Errorf("failed to list delivery stats: %w", err)
	}

	return stats, nil
}
