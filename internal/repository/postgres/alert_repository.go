// internal/repository/postgres/alert_repository.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pizzanorte/backoffice/internal/domain"
	"github.com/pizzanorte/backoffice/internal/repository"
)

type alertRepository struct {
	db *DB
}

func NewAlertRepository(db *DB) repository.AlertRepository {
	return &alertRepository{db: db}
}

const alertColumns = `
	a.id, a.stock_count_id, a.register_closing_id, a.location_id,
	l.name AS location_name, a.date, a.expected_amount, a.actual_amount,
	a.difference, a.percentage, a.status, a.created_at, a.updated_at
`

// CreateWithFeed writes the alert row and its feed mirror in one transaction
// so the generic feed can never drift out of sync with the alert table.
func (r *alertRepository) CreateWithFeed(ctx context.Context, alert *domain.StockCashAlert, entry *domain.AlertFeedEntry) error {
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO stock_cash_alerts (
				stock_count_id, register_closing_id, location_id, date,
				expected_amount, actual_amount, difference, percentage,
				status, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
			RETURNING id
		`
		if err := tx.QueryRowContext(ctx, query,
			alert.StockCountID, alert.RegisterClosingID, alert.LocationID, alert.Date,
			alert.ExpectedAmount, alert.ActualAmount, alert.Difference, alert.Percentage,
			alert.Status,
		).Scan(&alert.ID); err != nil {
			return fmt.Errorf("failed to insert stock cash alert: %w", err)
		}

		feedQuery := `
			INSERT INTO alert_feed (module, message, severity, ref_id, created_at)
			VALUES ($1, $2, $3, $4, NOW())
		`
		if _, err := tx.ExecContext(ctx, feedQuery,
			entry.Module, entry.Message, entry.Severity, alert.ID,
		); err != nil {
			return fmt.Errorf("failed to insert alert feed entry: %w", err)
		}

		return nil
	})
}

func (r *alertRepository) GetByID(ctx context.Context, id int64) (*domain.StockCashAlert, error) {
	query := `
		SELECT ` + alertColumns + `
		FROM stock_cash_alerts a
		JOIN locations l ON a.location_id = l.id
		WHERE a.id = $1
	`

	var alert domain.StockCashAlert
	if err := r.db.GetContext(ctx, &alert, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get alert %d: %w", id, err)
	}

	return &alert, nil
}

func (r *alertRepository) GetByPair(ctx context.Context, stockCountID, closingID int64) (*domain.StockCashAlert, error) {
	query := `
		SELECT ` + alertColumns + `
		FROM stock_cash_alerts a
		JOIN locations l ON a.location_id = l.id
		WHERE a.stock_count_id = $1 AND a.register_closing_id = $2
	`

	var alert domain.StockCashAlert
	if err := r.db.GetContext(ctx, &alert, query, stockCountID, closingID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get alert for pair (%d, %d): %w", stockCountID, closingID, err)
	}

	return &alert, nil
}

func (r *alertRepository) List(ctx context.Context, filter repository.AlertFilter) ([]domain.StockCashAlert, error) {
	query := `
		SELECT ` + alertColumns + `
		FROM stock_cash_alerts a
		JOIN locations l ON a.location_id = l.id
		WHERE 1=1
	`

	var args []interface{}
	var conditions []string
	argCounter := 1

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("a.status = $%d", argCounter))
		args = append(args, filter.Status)
		argCounter++
	}

	if filter.LocationID > 0 {
		conditions = append(conditions, fmt.Sprintf("a.location_id = $%d", argCounter))
		args = append(args, filter.LocationID)
		argCounter++
	}

	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	query += fmt.Sprintf(" ORDER BY a.date DESC, a.id DESC LIMIT $%d", argCounter)
	args = append(args, limit)

	var alerts []domain.StockCashAlert
	if err := r.db.SelectContext(ctx, &alerts, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}

	return alerts, nil
}

func (r *alertRepository) UpdateStatus(ctx context.Context, id int64, from, to domain.AlertStatus) error {
	query := `
		UPDATE stock_cash_alerts
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`

	res, err := r.db.ExecContext(ctx, query, to, id, from)
	if err != nil {
		return fmt.Errorf("failed to update alert %d status: %w", id, err)
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

func (r *alertRepository) StatusSummary(ctx context.Context) (map[domain.AlertStatus]int, float64, error) {
	query := `
		SELECT status, COUNT(*) AS count
		FROM stock_cash_alerts
		GROUP BY status
	`

	rows, err := r.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query alert status summary: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.AlertStatus]int)
	for rows.Next() {
		var status domain.AlertStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, 0, fmt.Errorf("failed to scan alert status summary: %w", err)
		}
		counts[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate alert status summary: %w", err)
	}

	var flagged float64
	flaggedQuery := `
		SELECT COALESCE(SUM(ABS(difference)), 0)
		FROM stock_cash_alerts
		WHERE status = $1
	`
	if err := r.db.GetContext(ctx, &flagged, flaggedQuery, domain.AlertActive); err != nil {
		return nil, 0, fmt.Errorf("failed to sum flagged amount: %w", err)
	}

	return counts, flagged, nil
}

func (r *alertRepository) ListFeed(ctx context.Context, limit int) ([]domain.AlertFeedEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, module, message, severity, ref_id, created_at
		FROM alert_feed
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`

	var entries []domain.AlertFeedEntry
	if err := r.db.SelectContext(ctx, &entries, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list alert feed: %w", err)
	}

	return entries, nil
}
