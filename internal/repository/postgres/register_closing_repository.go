// internal/repository/postgres/register_closing_repository.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pizzanorte/backoffice/internal/domain"
	"github.com/pizzanorte/backoffice/internal/repository"
)

type registerClosingRepository struct {
	db *DB
}

func NewRegisterClosingRepository(db *DB) repository.RegisterClosingRepository {
	return &registerClosingRepository{db: db}
}

const closingColumns = `
	rc.id, rc.location_id, l.name AS location_name, rc.date, rc.shift,
	rc.responsible, rc.cash_amount, rc.card_amount, rc.mobile_amount,
	rc.other_amount, rc.total, rc.created_at
`

func (r *registerClosingRepository) Create(ctx context.Context, closing *domain.RegisterClosing) (int64, error) {
	query := `
		INSERT INTO register_closings (
			location_id, date, shift, responsible,
			cash_amount, card_amount, mobile_amount, other_amount, total, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		closing.LocationID, closing.Date, closing.Shift, closing.Responsible,
		closing.CashAmount, closing.CardAmount, closing.MobileAmount,
		closing.OtherAmount, closing.Total,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert register closing: %w", err)
	}

	return id, nil
}

func (r *registerClosingRepository) GetByID(ctx context.Context, id int64) (*domain.RegisterClosing, error) {
	query := `
		SELECT ` + closingColumns + `
		FROM register_closings rc
		JOIN locations l ON rc.location_id = l.id
		WHERE rc.id = $1
	`

	var closing domain.RegisterClosing
	if err := r.db.GetContext(ctx, &closing, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get register closing %d: %w", id, err)
	}

	return &closing, nil
}

func (r *registerClosingRepository) FindMatch(ctx context.Context, locationID int64, date time.Time, shift domain.Shift) (*domain.RegisterClosing, error) {
	query := `
		SELECT ` + closingColumns + `
		FROM register_closings rc
		JOIN locations l ON rc.location_id = l.id
		WHERE rc.location_id = $1 AND rc.date = $2::date AND rc.shift = $3
		ORDER BY rc.id
		LIMIT 1
	`

	var closing domain.RegisterClosing
	if err := r.db.GetContext(ctx, &closing, query, locationID, date, shift); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find matching closing: %w", err)
	}

	return &closing, nil
}

func (r *registerClosingRepository) ListRecent(ctx context.Context, limit int) ([]domain.RegisterClosing, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT ` + closingColumns + `
		FROM register_closings rc
		JOIN locations l ON rc.location_id = l.id
		ORDER BY rc.date DESC, rc.id DESC
		LIMIT $1
	`

	var closings []domain.RegisterClosing
	if err := r.db.SelectContext(ctx, &closings, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list register closings: %w", err)
	}

	return closings, nil
}
