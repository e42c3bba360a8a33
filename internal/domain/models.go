// internal/domain/models.go
package domain

import "time"

// Location represents one restaurant of the chain
type Location struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CategoryLine is one per-category pair inside a stock count: the quantity an
// employee physically counted versus the quantity the POS export reported.
type CategoryLine struct {
	Category   Category `json:"category" db:"category"`
	CountedQty float64  `json:"counted_qty" db:"counted_qty"`
	POSQty     float64  `json:"pos_qty" db:"pos_qty"`
}

// StockCount is one physical stock count taken at shift handover.
// Immutable once a reconciliation references it.
type StockCount struct {
	ID           int64          `json:"id" db:"id"`
	LocationID   int64          `json:"location_id" db:"location_id"`
	LocationName string         `json:"location_name" db:"location_name"`
	Date         time.Time      `json:"date" db:"date"`
	Shift        Shift          `json:"shift" db:"shift"`
	Responsible  string         `json:"responsible" db:"responsible"`
	Lines        []CategoryLine `json:"lines" db:"-"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
}

// RegisterClosing is one cash-drawer close-out for a location/date/shift.
type RegisterClosing struct {
	ID           int64     `json:"id" db:"id"`
	LocationID   int64     `json:"location_id" db:"location_id"`
	LocationName string    `json:"location_name" db:"location_name"`
	Date         time.Time `json:"date" db:"date"`
	Shift        Shift     `json:"shift" db:"shift"`
	Responsible  string    `json:"responsible" db:"responsible"`
	CashAmount   float64   `json:"cash_amount" db:"cash_amount"`
	CardAmount   float64   `json:"card_amount" db:"card_amount"`
	MobileAmount float64   `json:"mobile_amount" db:"mobile_amount"`
	OtherAmount  float64   `json:"other_amount" db:"other_amount"`
	Total        float64   `json:"total" db:"total"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// CategorySales aggregates sold quantity and revenue for one category.
type CategorySales struct {
	Quantity float64 `json:"quantity"`
	Revenue  float64 `json:"revenue"`
}

// ProcessedSalesData is a derived, in-memory aggregate of one day of POS sales
// for a single location. It is never persisted. A nil value means "no data for
// that day", which callers must not confuse with zero sales.
type ProcessedSalesData struct {
	LocationID   int64                      `json:"location_id"`
	Date         time.Time                  `json:"date"`
	Categories   map[Category]CategorySales `json:"categories"`
	TotalRevenue float64                    `json:"total_revenue"`
	OrderCount   int                        `json:"order_count"`
}

// StockCashAlert records a discrepancy between what the reconciliation engine
// expected the register to collect and what the closing actually reported.
type StockCashAlert struct {
	ID                int64       `json:"id" db:"id"`
	StockCountID      int64       `json:"stock_count_id" db:"stock_count_id"`
	RegisterClosingID int64       `json:"register_closing_id" db:"register_closing_id"`
	LocationID        int64       `json:"location_id" db:"location_id"`
	LocationName      string      `json:"location_name" db:"location_name"`
	Date              time.Time   `json:"date" db:"date"`
	ExpectedAmount    float64     `json:"expected_amount" db:"expected_amount"`
	ActualAmount      float64     `json:"actual_amount" db:"actual_amount"`
	Difference        float64     `json:"difference" db:"difference"`
	Percentage        float64     `json:"percentage" db:"percentage"`
	Status            AlertStatus `json:"status" db:"status"`
	CreatedAt         time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at" db:"updated_at"`
}

// AlertFeedEntry mirrors module-level alerts into the generic cross-module feed.
type AlertFeedEntry struct {
	ID        int64     `json:"id" db:"id"`
	Module    string    `json:"module" db:"module"`
	Message   string    `json:"message" db:"message"`
	Severity  string    `json:"severity" db:"severity"`
	RefID     int64     `json:"ref_id" db:"ref_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Employee is a staff record.
type Employee struct {
	ID         int64     `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	Role       string    `json:"role" db:"role"`
	LocationID int64     `json:"location_id" db:"location_id"`
	HireDate   time.Time `json:"hire_date" db:"hire_date"`
	Active     bool      `json:"active" db:"active"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// Supplier is a goods/services provider.
type Supplier struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	TaxID     string    `json:"tax_id" db:"tax_id"`
	Phone     string    `json:"phone" db:"phone"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// SupplierInvoice is a bill received from a supplier. Paid is the sum of its
// payments; the outstanding balance is derived and never stored.
type SupplierInvoice struct {
	ID         int64     `json:"id" db:"id"`
	SupplierID int64     `json:"supplier_id" db:"supplier_id"`
	Number     string    `json:"number" db:"number"`
	IssueDate  time.Time `json:"issue_date" db:"issue_date"`
	DueDate    time.Time `json:"due_date" db:"due_date"`
	Amount     float64   `json:"amount" db:"amount"`
	Paid       float64   `json:"paid" db:"paid"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// Balance returns the outstanding amount on the invoice.
func (i SupplierInvoice) Balance() float64 {
	return i.Amount - i.Paid
}

// SupplierPayment is one payment applied against a supplier invoice.
type SupplierPayment struct {
	ID        int64     `json:"id" db:"id"`
	InvoiceID int64     `json:"invoice_id" db:"invoice_id"`
	PaidAt    time.Time `json:"paid_at" db:"paid_at"`
	Amount    float64   `json:"amount" db:"amount"`
	Method    string    `json:"method" db:"method"`
}

// DeliveryStat is one day of delivery-platform activity for a location.
type DeliveryStat struct {
	ID          int64     `json:"id" db:"id"`
	LocationID  int64     `json:"location_id" db:"location_id"`
	Platform    string    `json:"platform" db:"platform"`
	Date        time.Time `json:"date" db:"date"`
	Orders      int       `json:"orders" db:"orders"`
	GrossAmount float64   `json:"gross_amount" db:"gross_amount"`
	FeeAmount   float64   `json:"fee_amount" db:"fee_amount"`
}

// POSOrder is one normalized order from the point-of-sale export.
type POSOrder struct {
	ID         int64     `json:"id" db:"id"`
	BranchCode string    `json:"branch_code" db:"branch_code"`
	ExternalID string    `json:"external_id" db:"external_id"`
	Date       time.Time `json:"date" db:"date"`
	Status     int       `json:"status" db:"status"`
	Total      float64   `json:"total" db:"total"`
}

// POSOrderItem is one line of a POS order.
type POSOrderItem struct {
	ID          int64   `json:"id" db:"id"`
	OrderID     int64   `json:"order_id" db:"order_id"`
	ProductCode string  `json:"product_code" db:"product_code"`
	Quantity    float64 `json:"quantity" db:"quantity"`
	LineTotal   float64 `json:"line_total" db:"line_total"`
}

// UnitPrice holds the current unit price for a category.
type UnitPrice struct {
	Category  Category  `json:"category" db:"category"`
	Price     float64   `json:"price" db:"price"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// DashboardSummary is the back-office landing dashboard payload.
type DashboardSummary struct {
	ActiveAlerts    int     `json:"active_alerts"`
	ResolvedAlerts  int     `json:"resolved_alerts"`
	RejectedAlerts  int     `json:"rejected_alerts"`
	FlaggedAmount   float64 `json:"flagged_amount"`
	PendingInvoices int     `json:"pending_invoices"`
	OutstandingDebt float64 `json:"outstanding_debt"`
}
