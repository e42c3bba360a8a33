// internal/recon/engine.go
package recon

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/pizzanorte/backoffice/internal/domain"
	"github.com/pizzanorte/backoffice/internal/repository"
	"github.com/rs/zerolog/log"
)

// SalesSource supplies one day of aggregated POS sales for a location.
// A nil result with nil error means the POS has no data for that day.
type SalesSource interface {
	FetchSalesData(ctx context.Context, date time.Time, locationID int64) (*domain.ProcessedSalesData, error)
}

// Engine compares a stock count and a register closing for the same
// location/date/shift and raises a StockCashAlert when the cash collected
// deviates from the expected amount by more than the threshold.
type Engine struct {
	counts    repository.StockCountRepository
	closings  repository.RegisterClosingRepository
	alerts    repository.AlertRepository
	prices    repository.PriceRepository
	sales     SalesSource
	threshold float64
}

func NewEngine(
	counts repository.StockCountRepository,
	closings repository.RegisterClosingRepository,
	alerts repository.AlertRepository,
	prices repository.PriceRepository,
	sales SalesSource,
	threshold float64,
) *Engine {
	return &Engine{
		counts:    counts,
		closings:  closings,
		alerts:    alerts,
		prices:    prices,
		sales:     sales,
		threshold: threshold,
	}
}

// Reconcile runs one comparison. It returns the created alert, or nil when
// the pair reconciles cleanly or when any required input is missing. Missing
// inputs are logged and skipped, never escalated: a half-loaded backlog must
// not stop the supervisor's morning review.
func (e *Engine) Reconcile(ctx context.Context, stockCountID, closingID int64) (*domain.StockCashAlert, error) {
	count, err := e.counts.GetByID(ctx, stockCountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Warn().Int64("stock_count_id", stockCountID).Msg("reconcile: stock count not found")
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load stock count: %w", err)
	}

	closing, err := e.closings.GetByID(ctx, closingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Warn().Int64("closing_id", closingID).Msg("reconcile: register closing not found")
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load register closing: %w", err)
	}

	sales, err := e.sales.FetchSalesData(ctx, count.Date, count.LocationID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sales data: %w", err)
	}
	if sales == nil {
		log.Debug().
			Int64("location_id", count.LocationID).
			Time("date", count.Date).
			Msg("reconcile: no sales data for day, skipping")
		return nil, nil
	}

	prices, err := e.prices.CurrentPrices(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch unit prices: %w", err)
	}

	expected := expectedAmount(count, sales, prices)
	actual := closing.Total
	difference := actual - expected

	var percentage float64
	if expected != 0 {
		percentage = difference / expected * 100
	}

	if math.Abs(difference) <= e.threshold {
		return nil, nil
	}

	alert := &domain.StockCashAlert{
		StockCountID:      count.ID,
		RegisterClosingID: closing.ID,
		LocationID:        count.LocationID,
		LocationName:      count.LocationName,
		Date:              count.Date,
		ExpectedAmount:    expected,
		ActualAmount:      actual,
		Difference:        difference,
		Percentage:        percentage,
		Status:            domain.AlertActive,
	}

	severity := "warning"
	if math.Abs(difference) > 2*e.threshold {
		severity = "critical"
	}

	entry := &domain.AlertFeedEntry{
		Module:   "stock_control",
		Severity: severity,
		Message: fmt.Sprintf(
			"Cash discrepancy of %.2f at %s on %s (%s shift): expected %.2f, register closed at %.2f",
			difference, count.LocationName, count.Date.Format("2006-01-02"),
			count.Shift, expected, actual,
		),
	}

	if err := e.alerts.CreateWithFeed(ctx, alert, entry); err != nil {
		return nil, fmt.Errorf("failed to persist alert: %w", err)
	}

	log.Info().
		Int64("alert_id", alert.ID).
		Int64("stock_count_id", count.ID).
		Int64("closing_id", closing.ID).
		Float64("difference", difference).
		Msg("stock/cash alert created")

	return alert, nil
}

// expectedAmount is the larger of the two independently derived estimates.
// Taking the max errs toward flagging discrepancies rather than missing them.
func expectedAmount(count *domain.StockCount, sales *domain.ProcessedSalesData, prices map[domain.Category]float64) float64 {
	return math.Max(salesBasedAmount(sales, prices), stockBasedAmount(count, prices))
}

// salesBasedAmount prices the quantities the POS says were sold.
func salesBasedAmount(sales *domain.ProcessedSalesData, prices map[domain.Category]float64) float64 {
	var total float64
	for category, agg := range sales.Categories {
		price, ok := prices[category]
		if !ok {
			logUnpriced(category)
			continue
		}
		total += agg.Quantity * price
	}
	return total
}

// stockBasedAmount prices the stock the POS expected to be consumed beyond
// what was physically missing from the shelf. Only positive gaps count: a
// category where more stock is missing than the POS expected says nothing
// about cash and contributes zero, never a negative amount.
func stockBasedAmount(count *domain.StockCount, prices map[domain.Category]float64) float64 {
	var total float64
	for _, line := range count.Lines {
		gap := line.POSQty - line.CountedQty
		if gap <= 0 {
			continue
		}
		price, ok := prices[line.Category]
		if !ok {
			logUnpriced(line.Category)
			continue
		}
		total += gap * price
	}
	return total
}

// An unpriced category silently disappears from the expected amount, which
// hides real discrepancies. Log it so the gap is at least visible.
func logUnpriced(category domain.Category) {
	log.Warn().Str("category", string(category)).Msg("no unit price for category, excluded from expected amount")
}
