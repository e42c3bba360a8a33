package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pizzanorte/backoffice/internal/domain"
	"github.com/pizzanorte/backoffice/internal/repository"
)

// SupplierService manages suppliers, their invoices, and payments against them.
type SupplierService struct {
	suppliers repository.SupplierRepository
}

func NewSupplierService(suppliers repository.SupplierRepository) *SupplierService {
	return &SupplierService{suppliers: suppliers}
}

func (s *SupplierService) CreateSupplier(ctx context.Context, sup *domain.Supplier) (int64, error) {
	if strings.TrimSpace(sup.Name) == "" {
		return 0, fmt.Errorf("supplier name is required")
	}
	return s.suppliers.CreateSupplier(ctx, sup)
}

func (s *SupplierService) GetSupplier(ctx context.Context, id int64) (*domain.Supplier, error) {
	return s.suppliers.GetSupplier(ctx, id)
}

func (s *SupplierService) ListSuppliers(ctx context.Context) ([]domain.Supplier, error) {
	return s.suppliers.ListSuppliers(ctx)
}

func (s *SupplierService) CreateInvoice(ctx context.Context, inv *domain.SupplierInvoice) (int64, error) {
	if inv.Amount <= 0 {
		return 0, fmt.Errorf("invoice amount must be positive")
	}
	if strings.TrimSpace(inv.Number) == "" {
		return 0, fmt.Errorf("invoice number is required")
	}
	if _, err := s.suppliers.GetSupplier(ctx, inv.SupplierID); err != nil {
		return 0, fmt.Errorf("failed to resolve supplier: %w", err)
	}
	if inv.DueDate.Before(inv.IssueDate) {
		return 0, fmt.Errorf("due date precedes issue date")
	}
	inv.Paid = 0

	return s.suppliers.CreateInvoice(ctx, inv)
}

func (s *SupplierService) GetInvoice(ctx context.Context, id int64) (*domain.SupplierInvoice, error) {
	return s.suppliers.GetInvoice(ctx, id)
}

func (s *SupplierService) ListInvoices(ctx context.Context, supplierID int64) ([]domain.SupplierInvoice, error) {
	return s.suppliers.ListInvoices(ctx, supplierID)
}

// AddPayment registers a payment against an invoice. The amount check here is
// advisory; the repository's conditional update is what actually prevents
// overpaying under concurrency.
func (s *SupplierService) AddPayment(ctx context.Context, p *domain.SupplierPayment) (int64, error) {
	if p.Amount <= 0 {
		return 0, fmt.Errorf("payment amount must be positive")
	}

	inv, err := s.suppliers.GetInvoice(ctx, p.InvoiceID)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve invoice: %w", err)
	}
	if p.Amount > inv.Balance() {
		return 0, fmt.Errorf("payment %.2f exceeds outstanding balance %.2f", p.Amount, inv.Balance())
	}
	if p.PaidAt.IsZero() {
		p.PaidAt = time.Now()
	}

	return s.suppliers.AddPayment(ctx, p)
}

func (s *SupplierService) ListPayments(ctx context.Context, invoiceID int64) ([]domain.SupplierPayment, error) {
	return s.suppliers.ListPayments(ctx, invoiceID)
}
