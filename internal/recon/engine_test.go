package recon

import (
	"context"
	"testing"
	"time"

	"github.com/pizzanorte/backoffice/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDay = time.Date(2026, 8, 14, 0, 0, 0, 0, time.UTC)

type engineFixture struct {
	counts   *fakeStockCounts
	closings *fakeClosings
	alerts   *fakeAlerts
	prices   *fakePrices
	sales    *fixedSalesSource
	engine   *Engine
}

func newEngineFixture(threshold float64) *engineFixture {
	f := &engineFixture{
		counts:   newFakeStockCounts(),
		closings: newFakeClosings(),
		alerts:   newFakeAlerts(),
		prices:   &fakePrices{prices: map[domain.Category]float64{}},
		sales:    &fixedSalesSource{},
	}
	f.engine = NewEngine(f.counts, f.closings, f.alerts, f.prices, f.sales, threshold)
	return f
}

func (f *engineFixture) addCount(lines []domain.CategoryLine) int64 {
	id, _ := f.counts.Create(context.Background(), &domain.StockCount{
		LocationID:   1,
		LocationName: "Centro",
		Date:         testDay,
		Shift:        domain.ShiftMorning,
		Responsible:  "M. Gonzalez",
		Lines:        lines,
	})
	return id
}

func (f *engineFixture) addClosing(total float64) int64 {
	id, _ := f.closings.Create(context.Background(), &domain.RegisterClosing{
		LocationID:   1,
		LocationName: "Centro",
		Date:         testDay,
		Shift:        domain.ShiftMorning,
		CashAmount:   total,
		Total:        total,
	})
	return id
}

func salesData(categories map[domain.Category]domain.CategorySales) *domain.ProcessedSalesData {
	data := &domain.ProcessedSalesData{
		LocationID: 1,
		Date:       testDay,
		Categories: categories,
		OrderCount: 1,
	}
	for _, agg := range categories {
		data.TotalRevenue += agg.Revenue
	}
	return data
}

func TestReconcile_NoAlertWhenAmountsMatch(t *testing.T) {
	f := newEngineFixture(5000)
	f.prices.prices[domain.CategoryPizza] = 800
	f.sales.data = salesData(map[domain.Category]domain.CategorySales{
		domain.CategoryPizza: {Quantity: 10, Revenue: 8000},
	})

	countID := f.addCount(nil)
	closingID := f.addClosing(8000) // exactly the sales-based expectation

	alert, err := f.engine.Reconcile(context.Background(), countID, closingID)

	require.NoError(t, err)
	assert.Nil(t, alert)
	assert.Empty(t, f.alerts.alerts)
	assert.Empty(t, f.alerts.feed)
}

func TestReconcile_WithinThresholdNoAlert(t *testing.T) {
	f := newEngineFixture(5000)
	f.prices.prices[domain.CategoryPizza] = 800
	f.sales.data = salesData(map[domain.Category]domain.CategorySales{
		domain.CategoryPizza: {Quantity: 10, Revenue: 8000},
	})

	countID := f.addCount(nil)
	closingID := f.addClosing(8000 - 5000) // shortfall of exactly the threshold

	alert, err := f.engine.Reconcile(context.Background(), countID, closingID)

	require.NoError(t, err)
	assert.Nil(t, alert, "|difference| equal to threshold must not alert")
}

func TestReconcile_ShortfallCreatesAlert(t *testing.T) {
	f := newEngineFixture(5000)
	f.prices.prices[domain.CategoryPizza] = 800
	f.sales.data = salesData(map[domain.Category]domain.CategorySales{
		domain.CategoryPizza: {Quantity: 20, Revenue: 16000},
	})

	countID := f.addCount(nil)
	closingID := f.addClosing(8000)

	alert, err := f.engine.Reconcile(context.Background(), countID, closingID)

	require.NoError(t, err)
	require.NotNil(t, alert)
	assert.Equal(t, domain.AlertActive, alert.Status)
	assert.Equal(t, 16000.0, alert.ExpectedAmount)
	assert.Equal(t, 8000.0, alert.ActualAmount)
	assert.Equal(t, -8000.0, alert.Difference)
	assert.InDelta(t, -50.0, alert.Percentage, 1e-9)
	assert.Equal(t, countID, alert.StockCountID)
	assert.Equal(t, closingID, alert.RegisterClosingID)

	require.Len(t, f.alerts.feed, 1)
	assert.Equal(t, "stock_control", f.alerts.feed[0].Module)
	assert.Equal(t, alert.ID, f.alerts.feed[0].RefID)
}

func TestReconcile_SalesBranchDominates(t *testing.T) {
	f := newEngineFixture(100)
	f.prices.prices[domain.CategoryEmpanada] = 100
	// Sales-based: 200 sold * 100 = 20000. Stock-based: gap 10 * 100 = 1000.
	f.sales.data = salesData(map[domain.Category]domain.CategorySales{
		domain.CategoryEmpanada: {Quantity: 200, Revenue: 20000},
	})

	countID := f.addCount([]domain.CategoryLine{
		{Category: domain.CategoryEmpanada, CountedQty: 90, POSQty: 100},
	})
	closingID := f.addClosing(0)

	alert, err := f.engine.Reconcile(context.Background(), countID, closingID)

	require.NoError(t, err)
	require.NotNil(t, alert)
	assert.Equal(t, 20000.0, alert.ExpectedAmount)
}

func TestReconcile_StockBranchDominates(t *testing.T) {
	f := newEngineFixture(100)
	f.prices.prices[domain.CategoryEmpanada] = 100
	// Sales-based: 5 sold * 100 = 500. Stock-based: gap 50 * 100 = 5000.
	f.sales.data = salesData(map[domain.Category]domain.CategorySales{
		domain.CategoryEmpanada: {Quantity: 5, Revenue: 500},
	})

	countID := f.addCount([]domain.CategoryLine{
		{Category: domain.CategoryEmpanada, CountedQty: 50, POSQty: 100},
	})
	closingID := f.addClosing(0)

	alert, err := f.engine.Reconcile(context.Background(), countID, closingID)

	require.NoError(t, err)
	require.NotNil(t, alert)
	assert.Equal(t, 5000.0, alert.ExpectedAmount)
}

func TestStockBasedAmount_NegativeGapsContributeNothing(t *testing.T) {
	prices := map[domain.Category]float64{
		domain.CategoryPizza:    800,
		domain.CategoryEmpanada: 100,
	}
	count := &domain.StockCount{
		Lines: []domain.CategoryLine{
			// More physical stock missing than the POS expected: contributes 0.
			{Category: domain.CategoryEmpanada, CountedQty: 10, POSQty: 50},
			{Category: domain.CategoryPizza, CountedQty: 80, POSQty: 60},
		},
	}

	// Only the empanada gap (40 * 100) counts; the pizza line must not
	// subtract anything.
	assert.Equal(t, 4000.0, stockBasedAmount(count, prices))
}

func TestReconcile_WorkedExample(t *testing.T) {
	// realQty=40, posQty=50, price 800, no sales in the category, closing 0,
	// threshold 5000: expected 8000, difference -8000, alert active.
	f := newEngineFixture(5000)
	f.prices.prices[domain.CategoryPizza] = 800
	f.sales.data = salesData(map[domain.Category]domain.CategorySales{})

	countID := f.addCount([]domain.CategoryLine{
		{Category: domain.CategoryPizza, CountedQty: 40, POSQty: 50},
	})
	closingID := f.addClosing(0)

	alert, err := f.engine.Reconcile(context.Background(), countID, closingID)

	require.NoError(t, err)
	require.NotNil(t, alert)
	assert.Equal(t, 8000.0, alert.ExpectedAmount)
	assert.Equal(t, -8000.0, alert.Difference)
	assert.Equal(t, domain.AlertActive, alert.Status)
}

func TestReconcile_ZeroExpectedGuardsPercentage(t *testing.T) {
	// No prices at all: expected is 0, percentage must stay 0 instead of NaN.
	f := newEngineFixture(5000)
	f.sales.data = salesData(map[domain.Category]domain.CategorySales{
		domain.CategoryPizza: {Quantity: 10, Revenue: 8000},
	})

	countID := f.addCount(nil)
	closingID := f.addClosing(6000)

	alert, err := f.engine.Reconcile(context.Background(), countID, closingID)

	require.NoError(t, err)
	require.NotNil(t, alert)
	assert.Equal(t, 0.0, alert.ExpectedAmount)
	assert.Equal(t, 6000.0, alert.Difference)
	assert.Equal(t, 0.0, alert.Percentage)
}

func TestReconcile_MissingEntitiesSkipQuietly(t *testing.T) {
	f := newEngineFixture(5000)
	f.sales.data = salesData(map[domain.Category]domain.CategorySales{})

	closingID := f.addClosing(100)
	alert, err := f.engine.Reconcile(context.Background(), 999, closingID)
	require.NoError(t, err)
	assert.Nil(t, alert)

	countID := f.addCount(nil)
	alert, err = f.engine.Reconcile(context.Background(), countID, 999)
	require.NoError(t, err)
	assert.Nil(t, alert)
}

func TestReconcile_NoSalesDataSkips(t *testing.T) {
	f := newEngineFixture(5000)
	f.sales.data = nil // no POS data for the day

	countID := f.addCount([]domain.CategoryLine{
		{Category: domain.CategoryPizza, CountedQty: 0, POSQty: 100},
	})
	closingID := f.addClosing(0)

	alert, err := f.engine.Reconcile(context.Background(), countID, closingID)

	require.NoError(t, err)
	assert.Nil(t, alert)
	assert.Empty(t, f.alerts.alerts)
}

func TestReconcile_UnpricedCategoryExcluded(t *testing.T) {
	f := newEngineFixture(1000)
	f.prices.prices[domain.CategoryPizza] = 800
	// frozen_dough has no price: its gap silently prices to zero.
	f.sales.data = salesData(map[domain.Category]domain.CategorySales{})

	countID := f.addCount([]domain.CategoryLine{
		{Category: domain.CategoryPizza, CountedQty: 45, POSQty: 50},
		{Category: domain.CategoryFrozenDough, CountedQty: 0, POSQty: 1000},
	})
	closingID := f.addClosing(0)

	alert, err := f.engine.Reconcile(context.Background(), countID, closingID)

	require.NoError(t, err)
	require.NotNil(t, alert)
	assert.Equal(t, 4000.0, alert.ExpectedAmount)
}
