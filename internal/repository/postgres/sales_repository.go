// internal/repository/postgres/sales_repository.go
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pizzanorte/backoffice/internal/domain"
	"github.com/pizzanorte/backoffice/internal/repository"
)

type salesRepository struct {
	db *DB
}

func NewSalesRepository(db *DB) repository.SalesRepository {
	return &salesRepository{db: db}
}

func (r *salesRepository) OrdersForDay(ctx context.Context, branchCode string, date time.Time) ([]domain.POSOrder, error) {
	query := `
		SELECT id, branch_code, external_id, date, status, total
		FROM pos_orders
		WHERE branch_code = $1 AND date = $2::date
		ORDER BY id
	`

	var orders []domain.POSOrder
	if err := r.db.SelectContext(ctx, &orders, query, branchCode, date); err != nil {
		return nil, fmt.Errorf("failed to list pos orders for %s: %w", branchCode, err)
	}

	return orders, nil
}

func (r *salesRepository) ItemsForOrders(ctx context.Context, orderIDs []int64) ([]domain.POSOrderItem, error) {
	if len(orderIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, order_id, product_code, quantity, line_total
		FROM pos_order_items
		WHERE order_id = ANY($1::bigint[])
		ORDER BY order_id, id
	`

	var items []domain.POSOrderItem
	if err := r.db.SelectContext(ctx, &items, query, orderIDs); err != nil {
		return nil, fmt.Errorf("failed to list pos order items: %w", err)
	}

	return items, nil
}

func (r *salesRepository) UpsertOrder(ctx context.Context, order *domain.POSOrder) (int64, error) {
	query := `
		INSERT INTO pos_orders (branch_code, external_id, date, status, total)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (branch_code, external_id)
		DO UPDATE SET
			date = EXCLUDED.date,
			status = EXCLUDED.status,
			total = EXCLUDED.total
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		order.BranchCode, order.ExternalID, order.Date, order.Status, order.Total,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert pos order %s: %w", order.ExternalID, err)
	}

	return id, nil
}

// ReplaceItems swaps an order's lines wholesale. Exports are full snapshots,
// so partial line updates are never needed.
func (r *salesRepository) ReplaceItems(ctx context.Context, orderID int64, items []domain.POSOrderItem) error {
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM pos_order_items WHERE order_id = $1`, orderID); err != nil {
			return fmt.Errorf("failed to clear pos order items: %w", err)
		}

		query := `
			INSERT INTO pos_order_items (order_id, product_code, quantity, line_total)
			VALUES ($1, $2, $3, $4)
		`
		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to prepare item statement: %w", err)
		}
		defer stmt.Close()

		for _, item := range items {
			if _, err := stmt.ExecContext(ctx, orderID, item.ProductCode, item.Quantity, item.LineTotal); err != nil {
				return fmt.Errorf("failed to insert pos order item: %w", err)
			}
		}

		return nil
	})
}
