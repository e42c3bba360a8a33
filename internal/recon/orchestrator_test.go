package recon

import (
	"context"
	"testing"

	"github.com/pizzanorte/backoffice/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func orchestratorFixture(threshold float64) (*engineFixture, *Orchestrator) {
	f := newEngineFixture(threshold)
	orch := NewOrchestrator(f.counts, f.closings, f.alerts, f.engine, 10)
	return f, orch
}

func TestRunPendingComparisons_CreatesAlertForMatchedPair(t *testing.T) {
	f, orch := orchestratorFixture(5000)
	f.prices.prices[domain.CategoryPizza] = 800
	f.sales.data = salesData(map[domain.Category]domain.CategorySales{})

	f.addCount([]domain.CategoryLine{
		{Category: domain.CategoryPizza, CountedQty: 40, POSQty: 50},
	})
	f.addClosing(0)

	orch.RunPendingComparisons(context.Background())

	require.Len(t, f.alerts.alerts, 1)
	assert.Equal(t, -8000.0, f.alerts.alerts[0].Difference)
	assert.Equal(t, domain.AlertActive, f.alerts.alerts[0].Status)
}

func TestRunPendingComparisons_SkipsCountWithoutClosing(t *testing.T) {
	f, orch := orchestratorFixture(5000)
	f.prices.prices[domain.CategoryPizza] = 800
	f.sales.data = salesData(map[domain.Category]domain.CategorySales{})

	f.addCount([]domain.CategoryLine{
		{Category: domain.CategoryPizza, CountedQty: 0, POSQty: 100},
	})
	// No closing registered for the shift.

	orch.RunPendingComparisons(context.Background())

	assert.Empty(t, f.alerts.alerts)
}

func TestRunPendingComparisons_Idempotent(t *testing.T) {
	f, orch := orchestratorFixture(5000)
	f.prices.prices[domain.CategoryPizza] = 800
	f.sales.data = salesData(map[domain.Category]domain.CategorySales{})

	f.addCount([]domain.CategoryLine{
		{Category: domain.CategoryPizza, CountedQty: 40, POSQty: 50},
	})
	f.addClosing(0)

	orch.RunPendingComparisons(context.Background())
	orch.RunPendingComparisons(context.Background())

	assert.Len(t, f.alerts.alerts, 1, "a second pass over the same pair must not duplicate the alert")
	assert.Len(t, f.alerts.feed, 1)
}

func TestRunPendingComparisons_FailedRecordDoesNotStopOthers(t *testing.T) {
	f, orch := orchestratorFixture(5000)
	f.prices.prices[domain.CategoryPizza] = 800
	f.sales.data = salesData(map[domain.Category]domain.CategorySales{})

	f.addCount([]domain.CategoryLine{
		{Category: domain.CategoryPizza, CountedQty: 40, POSQty: 50},
	})
	f.addClosing(0)

	// First pass with a failing alert store: nothing persists, nothing panics.
	f.alerts.failing = true
	orch.RunPendingComparisons(context.Background())
	assert.Empty(t, f.alerts.alerts)

	// Once the store recovers, the same pair gets its alert.
	f.alerts.failing = false
	orch.RunPendingComparisons(context.Background())
	assert.Len(t, f.alerts.alerts, 1)
}
