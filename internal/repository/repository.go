// internal/repository/repository.go
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/pizzanorte/backoffice/internal/domain"
)

// ErrNotFound is returned when a requested entity does not exist. Callers in
// the reconciliation path treat it as "skip and log", never as a failure.
var ErrNotFound = errors.New("not found")

type LocationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Location, error)
	List(ctx context.Context) ([]domain.Location, error)
	Upsert(ctx context.Context, name string) (int64, error)
}

type StockCountRepository interface {
	Create(ctx context.Context, count *domain.StockCount) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.StockCount, error)
	// ListRecent returns the newest counts ordered by date descending.
	ListRecent(ctx context.Context, limit int) ([]domain.StockCount, error)
	ListByLocation(ctx context.Context, locationID int64, limit int) ([]domain.StockCount, error)
}

type RegisterClosingRepository interface {
	Create(ctx context.Context, closing *domain.RegisterClosing) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.RegisterClosing, error)
	// FindMatch looks up the closing sharing a stock count's partition key.
	FindMatch(ctx context.Context, locationID int64, date time.Time, shift domain.Shift) (*domain.RegisterClosing, error)
	ListRecent(ctx context.Context, limit int) ([]domain.RegisterClosing, error)
}

// AlertFilter narrows alert listings.
type AlertFilter struct {
	Status     domain.AlertStatus
	LocationID int64
	Limit      int
}

type AlertRepository interface {
	// CreateWithFeed persists the alert and its feed mirror in one transaction.
	CreateWithFeed(ctx context.Context, alert *domain.StockCashAlert, entry *domain.AlertFeedEntry) error
	GetByID(ctx context.Context, id int64) (*domain.StockCashAlert, error)
	// GetByPair returns the alert for an exact (stock count, closing) pair,
	// or ErrNotFound when the pair has never been flagged.
	GetByPair(ctx context.Context, stockCountID, closingID int64) (*domain.StockCashAlert, error)
	List(ctx context.Context, filter AlertFilter) ([]domain.StockCashAlert, error)
	// UpdateStatus moves an alert from one status to another; the conditional
	// WHERE keeps concurrent supervisors from clobbering each other.
	UpdateStatus(ctx context.Context, id int64, from, to domain.AlertStatus) error
	StatusSummary(ctx context.Context) (map[domain.AlertStatus]int, float64, error)
	ListFeed(ctx context.Context, limit int) ([]domain.AlertFeedEntry, error)
}

type SalesRepository interface {
	OrdersForDay(ctx context.Context, branchCode string, date time.Time) ([]domain.POSOrder, error)
	ItemsForOrders(ctx context.Context, orderIDs []int64) ([]domain.POSOrderItem, error)
	UpsertOrder(ctx context.Context, order *domain.POSOrder) (int64, error)
	ReplaceItems(ctx context.Context, orderID int64, items []domain.POSOrderItem) error
}

type PriceRepository interface {
	CurrentPrices(ctx context.Context) (map[domain.Category]float64, error)
	Upsert(ctx context.Context, price domain.UnitPrice) error
}

type EmployeeRepository interface {
	Create(ctx context.Context, e *domain.Employee) (int64, error)
	Update(ctx context.Context, e *domain.Employee) error
	GetByID(ctx context.Context, id int64) (*domain.Employee, error)
	List(ctx context.Context, locationID int64, activeOnly bool) ([]domain.Employee, error)
}

type SupplierRepository interface {
	CreateSupplier(ctx context.Context, s *domain.Supplier) (int64, error)
	GetSupplier(ctx context.Context, id int64) (*domain.Supplier, error)
	ListSuppliers(ctx context.Context) ([]domain.Supplier, error)
	CreateInvoice(ctx context.Context, inv *domain.SupplierInvoice) (int64, error)
	GetInvoice(ctx context.Context, id int64) (*domain.SupplierInvoice, error)
	ListInvoices(ctx context.Context, supplierID int64) ([]domain.SupplierInvoice, error)
	// AddPayment inserts the payment and bumps the invoice's paid total atomically.
	AddPayment(ctx context.Context, p *domain.SupplierPayment) (int64, error)
	ListPayments(ctx context.Context, invoiceID int64) ([]domain.SupplierPayment, error)
	OutstandingSummary(ctx context.Context) (int, float64, error)
}

type DeliveryRepository interface {
	Upsert(ctx context.Context, stat *domain.DeliveryStat) (int64, error)
	List(ctx context.Context, locationID int64, from, to time.Time) ([]domain.DeliveryStat, error)
}
