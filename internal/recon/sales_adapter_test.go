package recon

import (
	"context"
	"testing"

	"github.com/pizzanorte/backoffice/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchSalesData_AggregatesFulfilledOrders(t *testing.T) {
	repo := &fakeSalesRepo{
		orders: []domain.POSOrder{
			{ID: 1, BranchCode: "SUC-CENTRO", Date: testDay, Status: domain.POSOrderFulfilled, Total: 2400},
			{ID: 2, BranchCode: "SUC-CENTRO", Date: testDay, Status: domain.POSOrderFulfilled, Total: 1000},
		},
		items: []domain.POSOrderItem{
			{OrderID: 1, ProductCode: "PIZZA-MUZA", Quantity: 2, LineTotal: 1600},
			{OrderID: 1, ProductCode: "EMP-CARNE", Quantity: 8, LineTotal: 800},
			{OrderID: 2, ProductCode: "PIZZA-MUZA", Quantity: 1, LineTotal: 800},
			{OrderID: 2, ProductCode: "BEB-500", Quantity: 1, LineTotal: 200},
		},
	}
	adapter := NewSalesAdapter(repo)

	data, err := adapter.FetchSalesData(context.Background(), testDay, 1)

	require.NoError(t, err)
	require.NotNil(t, data)
	assert.Equal(t, int64(1), data.LocationID)
	assert.Equal(t, 2, data.OrderCount)
	assert.Equal(t, 3400.0, data.TotalRevenue)

	pizza := data.Categories[domain.CategoryPizza]
	assert.Equal(t, 3.0, pizza.Quantity)
	assert.Equal(t, 2400.0, pizza.Revenue)

	emp := data.Categories[domain.CategoryEmpanada]
	assert.Equal(t, 8.0, emp.Quantity)
	assert.Equal(t, 800.0, emp.Revenue)

	drink := data.Categories[domain.CategoryDrinkMedium]
	assert.Equal(t, 1.0, drink.Quantity)
}

func TestFetchSalesData_ExcludesVoidedAndCancelled(t *testing.T) {
	repo := &fakeSalesRepo{
		orders: []domain.POSOrder{
			{ID: 1, BranchCode: "SUC-NORTE", Date: testDay, Status: domain.POSOrderFulfilled, Total: 800},
			{ID: 2, BranchCode: "SUC-NORTE", Date: testDay, Status: domain.POSOrderVoided, Total: 5000},
			{ID: 3, BranchCode: "SUC-NORTE", Date: testDay, Status: domain.POSOrderCancelled, Total: 3000},
		},
		items: []domain.POSOrderItem{
			{OrderID: 1, ProductCode: "PIZZA-MUZA", Quantity: 1, LineTotal: 800},
			{OrderID: 2, ProductCode: "PIZZA-MUZA", Quantity: 6, LineTotal: 5000},
			{OrderID: 3, ProductCode: "EMP-POLLO", Quantity: 30, LineTotal: 3000},
		},
	}
	adapter := NewSalesAdapter(repo)

	data, err := adapter.FetchSalesData(context.Background(), testDay, 2)

	require.NoError(t, err)
	require.NotNil(t, data)
	assert.Equal(t, 1, data.OrderCount)
	assert.Equal(t, 800.0, data.TotalRevenue)
	assert.Equal(t, 1.0, data.Categories[domain.CategoryPizza].Quantity)
	assert.NotContains(t, data.Categories, domain.CategoryEmpanada)
}

func TestFetchSalesData_UnknownLocationReturnsNil(t *testing.T) {
	adapter := NewSalesAdapter(&fakeSalesRepo{})

	data, err := adapter.FetchSalesData(context.Background(), testDay, 99)

	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestFetchSalesData_NoOrdersReturnsNil(t *testing.T) {
	adapter := NewSalesAdapter(&fakeSalesRepo{})

	data, err := adapter.FetchSalesData(context.Background(), testDay, 1)

	require.NoError(t, err)
	assert.Nil(t, data, "a day with no POS rows is missing data, not zero sales")
}

func TestFetchSalesData_UnmappedProductFallsBackToOther(t *testing.T) {
	repo := &fakeSalesRepo{
		orders: []domain.POSOrder{
			{ID: 1, BranchCode: "SUC-OESTE", Date: testDay, Status: domain.POSOrderFulfilled, Total: 450},
		},
		items: []domain.POSOrderItem{
			{OrderID: 1, ProductCode: "MERCH-GORRA", Quantity: 1, LineTotal: 450},
		},
	}
	adapter := NewSalesAdapter(repo)

	data, err := adapter.FetchSalesData(context.Background(), testDay, 3)

	require.NoError(t, err)
	require.NotNil(t, data)
	assert.Equal(t, 450.0, data.Categories[domain.CategoryOther].Revenue)
}
