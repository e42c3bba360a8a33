package possync

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/pizzanorte/backoffice/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

type memorySales struct {
	orders map[int64]*domain.POSOrder
	items  map[int64][]domain.POSOrderItem
	nextID int64
}

func newMemorySales() *memorySales {
	return &memorySales{
		orders: make(map[int64]*domain.POSOrder),
		items:  make(map[int64][]domain.POSOrderItem),
		nextID: 1,
	}
}

func (m *memorySales) OrdersForDay(_ context.Context, branchCode string, date time.Time) ([]domain.POSOrder, error) {
	var out []domain.POSOrder
	for _, o := range m.orders {
		if o.BranchCode == branchCode && o.Date.Equal(date) {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (m *memorySales) ItemsForOrders(_ context.Context, orderIDs []int64) ([]domain.POSOrderItem, error) {
	var out []domain.POSOrderItem
	for _, id := range orderIDs {
		out = append(out, m.items[id]...)
	}
	return out, nil
}

func (m *memorySales) UpsertOrder(_ context.Context, order *domain.POSOrder) (int64, error) {
	for id, existing := range m.orders {
		if existing.BranchCode == order.BranchCode && existing.ExternalID == order.ExternalID {
			order.ID = id
			m.orders[id] = order
			return id, nil
		}
	}
	order.ID = m.nextID
	m.nextID++
	m.orders[order.ID] = order
	return order.ID, nil
}

func (m *memorySales) ReplaceItems(_ context.Context, orderID int64, items []domain.POSOrderItem) error {
	stored := make([]domain.POSOrderItem, len(items))
	for i, item := range items {
		item.OrderID = orderID
		stored[i] = item
	}
	m.items[orderID] = stored
	return nil
}

const sampleExport = `branch,order_id,date,status,product_code,quantity,line_total
SUC-CENTRO,T-1001,2026-08-14,5,PIZZA-MUZA,1,800
SUC-CENTRO,T-1001,2026-08-14,5,BEB-500,2,400
SUC-CENTRO,T-1002,2026-08-14,4,EMP-CARNE,6,600
SUC-NORTE,T-1001,2026-08-14,5,PAN-CHIPA,3,300
`

func TestIngestCSV_GroupsRowsIntoOrders(t *testing.T) {
	sales := newMemorySales()
	svc := NewIngestService(nil, sales, nil)

	summary, err := svc.IngestCSV(context.Background(), strings.NewReader(sampleExport), "export.csv")

	require.NoError(t, err)
	assert.Equal(t, 3, summary.Orders)
	assert.Equal(t, 4, summary.Lines)
	assert.Equal(t, 0, summary.SkippedRows)
	assert.NotEmpty(t, summary.BatchID)

	// The two SUC-CENTRO T-1001 rows fold into one order with two lines.
	require.Len(t, sales.orders, 3)
	var centro *domain.POSOrder
	for _, o := range sales.orders {
		if o.BranchCode == "SUC-CENTRO" && o.ExternalID == "T-1001" {
			centro = o
		}
	}
	require.NotNil(t, centro)
	assert.Equal(t, 1200.0, centro.Total)
	assert.Equal(t, domain.POSOrderFulfilled, centro.Status)
	assert.Len(t, sales.items[centro.ID], 2)

	// Same external id at a different branch is a different order.
	var norte *domain.POSOrder
	for _, o := range sales.orders {
		if o.BranchCode == "SUC-NORTE" {
			norte = o
		}
	}
	require.NotNil(t, norte)
	assert.Equal(t, "T-1001", norte.ExternalID)
}

func TestIngestCSV_SkipsMalformedRows(t *testing.T) {
	export := `branch,order_id,date,status,product_code,quantity,line_total
SUC-CENTRO,T-2001,2026-08-14,5,PIZZA-MUZA,1,800
SUC-CENTRO,T-2002,not-a-date,5,PIZZA-MUZA,1,800
SUC-CENTRO,T-2003,2026-08-14,5,PIZZA-MUZA,0,800
SUC-CENTRO,,2026-08-14,5,PIZZA-MUZA,1,800
`
	sales := newMemorySales()
	svc := NewIngestService(nil, sales, nil)

	summary, err := svc.IngestCSV(context.Background(), strings.NewReader(export), "export.csv")

	require.NoError(t, err)
	assert.Equal(t, 1, summary.Orders)
	assert.Equal(t, 3, summary.SkippedRows)
}

func TestIngestCSV_MissingColumnFailsFile(t *testing.T) {
	export := `branch,order_id,date,product_code,quantity,line_total
SUC-CENTRO,T-1,2026-08-14,PIZZA-MUZA,1,800
`
	svc := NewIngestService(nil, newMemorySales(), nil)

	_, err := svc.IngestCSV(context.Background(), strings.NewReader(export), "export.csv")

	assert.ErrorContains(t, err, "missing required column: status")
}

func TestIngestCSV_ReingestReplacesLines(t *testing.T) {
	sales := newMemorySales()
	svc := NewIngestService(nil, sales, nil)
	ctx := context.Background()

	_, err := svc.IngestCSV(ctx, strings.NewReader(sampleExport), "export.csv")
	require.NoError(t, err)

	// Corrected export: the voided order was re-rung with an extra line.
	corrected := `branch,order_id,date,status,product_code,quantity,line_total
SUC-CENTRO,T-1002,2026-08-14,5,EMP-CARNE,6,600
SUC-CENTRO,T-1002,2026-08-14,5,BEB-350,1,150
`
	_, err = svc.IngestCSV(ctx, strings.NewReader(corrected), "export-fixed.csv")
	require.NoError(t, err)

	require.Len(t, sales.orders, 3, "re-ingest must not duplicate orders")
	var reRung *domain.POSOrder
	for _, o := range sales.orders {
		if o.ExternalID == "T-1002" {
			reRung = o
		}
	}
	require.NotNil(t, reRung)
	assert.Equal(t, domain.POSOrderFulfilled, reRung.Status)
	assert.Equal(t, 750.0, reRung.Total)
	assert.Len(t, sales.items[reRung.ID], 2)
}
