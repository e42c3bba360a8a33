// internal/repository/postgres/supplier_repository.go
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

type supplierRepository struct {
	db *DB
}

func NewSupplierRepository(db *DB) repository.SupplierRepository {
	return &supplierRepository{db: db}
}

func (r *supplierRepository) CreateSupplier(ctx context.Context, s *domain.Supplier) (int64, error) {
	query := `
		INSERT INTO suppliers (name, tax_id, phone, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING id
	`

	var id int64
	if err := r.db.QueryRowContext(ctx, query, s.Name, s.TaxID, s.Phone).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to insert supplier: %w", err)
	}

	return id, nil
}

func (r *supplierRepository) GetSupplier(ctx context.Context, id int64) (*domain.Supplier, error) {
	query := `
		SELECT id, name, tax_id, phone, created_at, updated_at
		FROM suppliers
		WHERE id = $1
	`

	var s domain.Supplier
	if err := r.db.GetContext(ctx, &s, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get supplier %d: %w", id, err)
	}

	return &s, nil
}

func (r *supplierRepository) ListSuppliers(ctx context.Context) ([]domain.Supplier, error) {
	query := `
		SELECT id, name, tax_id, phone, created_at, updated_at
		FROM suppliers
		ORDER BY name
	`

	var suppliers []domain.Supplier
	if err := r.db.SelectContext(ctx, &suppliers, query); err != nil {
		return nil, fmt.Errorf("failed to list suppliers: %w", err)
	}

	return suppliers, nil
}

func (r *supplierRepository) CreateInvoice(ctx context.Context, inv *domain.SupplierInvoice) (int64, error) {
	query := `
		INSERT INTO supplier_invoices (supplier_id, number, issue_date, due_date, amount, paid, created_at)
		VALUES ($1, $2, $3, $4, $5, 0, NOW())
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		inv.SupplierID, inv.Number, inv.IssueDate, inv.DueDate, inv.Amount,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert supplier invoice: %w", err)
	}

	return id, nil
}

func (r *supplierRepository) GetInvoice(ctx context.Context, id int64) (*domain.SupplierInvoice, error) {
	query := `
		SELECT id, supplier_id, number, issue_date, due_date, amount, paid, created_at
		FROM supplier_invoices
		WHERE id = $1
	`

	var inv domain.SupplierInvoice
	if err := r.db.GetContext(ctx, &inv, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get invoice %d: %w", id, err)
	}

	return &inv, nil
}

func (r *supplierRepository) ListInvoices(ctx context.Context, supplierID int64) ([]domain.SupplierInvoice, error) {
	query := `
		SELECT id, supplier_id, number, issue_date, due_date, amount, paid, created_at
		FROM supplier_invoices
		WHERE ($1 = 0 OR supplier_id = $1)
		ORDER BY due_date, id
	`

	var invoices []domain.SupplierInvoice
	if err := r.db.SelectContext(ctx, &invoices, query, supplierID); err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}

	return invoices, nil
}

// AddPayment inserts the payment and bumps the invoice's paid total in one
// transaction; the conditional UPDATE rejects overpayment at the database too.
func (r *supplierRepository) AddPayment(ctx context.Context, p *domain.SupplierPayment) (int64, error) {
	var id int64
	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		update := `
			UPDATE supplier_invoices
			SET paid = paid + $1
			WHERE id = $2 AND paid + $1 <= amount
		`
		res, err := tx.ExecContext(ctx, update, p.Amount, p.InvoiceID)
		if err != nil {
			return fmt.Errorf("failed to update invoice paid total: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read affected rows: %w", err)
		}
		if affected == 0 {
			return repository.ErrNotFound
		}

		insert := `
			INSERT INTO supplier_payments (invoice_id, paid_at, amount, method)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`
		if err := tx.QueryRowContext(ctx, insert,
			p.InvoiceID, p.PaidAt, p.Amount, p.Method,
		).Scan(&id); err != nil {
			return fmt.Errorf("failed to insert supplier payment: %w", err)
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return id, nil
}

func (r *supplierRepository) ListPayments(ctx context.Context, invoiceID int64) ([]domain.SupplierPayment, error) {
	query := `
		SELECT id, invoice_id, paid_at, amount, method
		FROM supplier_payments
		WHERE invoice_id = $1
		ORDER BY paid_at, id
	`

	var payments []domain.SupplierPayment
	if err := r.db.SelectContext(ctx, &payments, query, invoiceID); err != nil {
		return nil, fmt.Errorf("failed to list payments for invoice %d: %w", invoiceID, err)
	}

	return payments, nil
}

func (r *supplierRepository) OutstandingSummary(ctx context.Context) (int, float64, error) {
	query := `
		SELECT COUNT(*), COALESCE(SUM(amount - paid), 0)
		FROM supplier_invoices
		WHERE paid < amount
	`

	var count int
	var outstanding float64
	if err := r.db.QueryRowContext(ctx, query).Scan(&count, &outstanding); err != nil {
		return 0, 0, fmt.Errorf("failed to query outstanding invoices: %w", err)
	}

	return count, outstanding, nil
}
