// internal/recon/sales_adapter.go
package recon

import (
	"context"
	"fmt"
	"time"

	"github.com/pizzanorte/backoffice/internal/domain"
	"github.com/pizzanorte/backoffice/internal/repository"
	"github.com/rs/zerolog/log"
)

// branchCodes maps back-office location ids to the POS system's internal
// branch codes. The POS side predates this application and its codes are
// fixed, so a lookup table beats a join against a table nobody maintains.
var branchCodes = map[int64]string{
	1: "SUC-CENTRO",
	2: "SUC-NORTE",
	3: "SUC-OESTE",
	4: "SUC-TERMINAL",
}

// BranchCodeFor resolves a location id to its POS branch code.
func BranchCodeFor(locationID int64) (string, bool) {
	code, ok := branchCodes[locationID]
	return code, ok
}

// SalesAdapter normalizes raw POS transaction rows into per-category daily
// aggregates for the reconciliation engine.
type SalesAdapter struct {
	sales repository.SalesRepository
}

func NewSalesAdapter(sales repository.SalesRepository) *SalesAdapter {
	return &SalesAdapter{sales: sales}
}

// FetchSalesData returns one day of aggregated sales for a location, or nil
// when the POS has no data for that day. Nil means "no data", not zero sales:
// a day where the export simply never arrived must not look like a day the
// store sold nothing.
func (a *SalesAdapter) FetchSalesData(ctx context.Context, date time.Time, locationID int64) (*domain.ProcessedSalesData, error) {
	branchCode, ok := BranchCodeFor(locationID)
	if !ok {
		log.Warn().Int64("location_id", locationID).Msg("sales adapter: unknown branch code")
		return nil, nil
	}

	orders, err := a.sales.OrdersForDay(ctx, branchCode, date)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pos orders: %w", err)
	}
	if len(orders) == 0 {
		return nil, nil
	}

	// Only fulfilled orders count. Voided and cancelled orders are excluded
	// from both quantity and revenue sums.
	fulfilled := make(map[int64]bool, len(orders))
	var orderIDs []int64
	for _, order := range orders {
		if order.Status != domain.POSOrderFulfilled {
			continue
		}
		fulfilled[order.ID] = true
		orderIDs = append(orderIDs, order.ID)
	}

	data := &domain.ProcessedSalesData{
		LocationID: locationID,
		Date:       date,
		Categories: make(map[domain.Category]domain.CategorySales),
		OrderCount: len(orderIDs),
	}

	items, err := a.sales.ItemsForOrders(ctx, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pos order items: %w", err)
	}

	for _, item := range items {
		if !fulfilled[item.OrderID] {
			continue
		}

		category := domain.CategoryForProduct(item.ProductCode)
		agg := data.Categories[category]
		agg.Quantity += item.Quantity
		agg.Revenue += item.LineTotal
		data.Categories[category] = agg
		data.TotalRevenue += item.LineTotal
	}

	return data, nil
}
