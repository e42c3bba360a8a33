package service

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/pizzanorte/backoffice/internal/domain"
	"github.com/pizzanorte/backoffice/internal/recon"
	"github.com/pizzanorte/backoffice/internal/repository"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

type stubLocations struct {
	locations map[int64]*domain.Location
}

func (s *stubLocations) GetByID(_ context.Context, id int64) (*domain.Location, error) {
	loc, ok := s.locations[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return loc, nil
}

func (s *stubLocations) List(_ context.Context) ([]domain.Location, error) {
	var out []domain.Location
	for _, l := range s.locations {
		out = append(out, *l)
	}
	return out, nil
}

func (s *stubLocations) Upsert(_ context.Context, name string) (int64, error) {
	id := int64(len(s.locations) + 1)
	s.locations[id] = &domain.Location{ID: id, Name: name}
	return id, nil
}

type stubCounts struct {
	created []*domain.StockCount
}

func (s *stubCounts) Create(_ context.Context, count *domain.StockCount) (int64, error) {
	count.ID = int64(len(s.created) + 1)
	s.created = append(s.created, count)
	return count.ID, nil
}

func (s *stubCounts) GetByID(_ context.Context, id int64) (*domain.StockCount, error) {
	return nil, repository.ErrNotFound
}

func (s *stubCounts) ListRecent(_ context.Context, limit int) ([]domain.StockCount, error) {
	return nil, nil
}

func (s *stubCounts) ListByLocation(_ context.Context, locationID int64, limit int) ([]domain.StockCount, error) {
	return nil, nil
}

type stubClosings struct {
	created []*domain.RegisterClosing
}

func (s *stubClosings) Create(_ context.Context, closing *domain.RegisterClosing) (int64, error) {
	closing.ID = int64(len(s.created) + 1)
	s.created = append(s.created, closing)
	return closing.ID, nil
}

func (s *stubClosings) GetByID(_ context.Context, id int64) (*domain.RegisterClosing, error) {
	return nil, repository.ErrNotFound
}

func (s *stubClosings) FindMatch(_ context.Context, locationID int64, date time.Time, shift domain.Shift) (*domain.RegisterClosing, error) {
	return nil, repository.ErrNotFound
}

func (s *stubClosings) ListRecent(_ context.Context, limit int) ([]domain.RegisterClosing, error) {
	return nil, nil
}

type stubAlerts struct {
	alerts map[int64]*domain.StockCashAlert
}

func (s *stubAlerts) CreateWithFeed(_ context.Context, alert *domain.StockCashAlert, entry *domain.AlertFeedEntry) error {
	return nil
}

func (s *stubAlerts) GetByID(_ context.Context, id int64) (*domain.StockCashAlert, error) {
	a, ok := s.alerts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return a, nil
}

func (s *stubAlerts) GetByPair(_ context.Context, stockCountID, closingID int64) (*domain.StockCashAlert, error) {
	return nil, repository.ErrNotFound
}

func (s *stubAlerts) List(_ context.Context, filter repository.AlertFilter) ([]domain.StockCashAlert, error) {
	return nil, nil
}

func (s *stubAlerts) UpdateStatus(_ context.Context, id int64, from, to domain.AlertStatus) error {
	a, ok := s.alerts[id]
	if !ok || a.Status != from {
		return repository.ErrNotFound
	}
	a.Status = to
	return nil
}

func (s *stubAlerts) StatusSummary(_ context.Context) (map[domain.AlertStatus]int, float64, error) {
	counts := make(map[domain.AlertStatus]int)
	var flagged float64
	for _, a := range s.alerts {
		counts[a.Status]++
		if a.Status == domain.AlertActive {
			if a.Difference < 0 {
				flagged -= a.Difference
			} else {
				flagged += a.Difference
			}
		}
	}
	return counts, flagged, nil
}

func (s *stubAlerts) ListFeed(_ context.Context, limit int) ([]domain.AlertFeedEntry, error) {
	return nil, nil
}

type stubSuppliers struct {
	repository.SupplierRepository
	invoices map[int64]*domain.SupplierInvoice
	payments []*domain.SupplierPayment
}

func (s *stubSuppliers) GetInvoice(_ context.Context, id int64) (*domain.SupplierInvoice, error) {
	inv, ok := s.invoices[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return inv, nil
}

func (s *stubSuppliers) AddPayment(_ context.Context, p *domain.SupplierPayment) (int64, error) {
	p.ID = int64(len(s.payments) + 1)
	s.payments = append(s.payments, p)
	s.invoices[p.InvoiceID].Paid += p.Amount
	return p.ID, nil
}

func (s *stubSuppliers) OutstandingSummary(_ context.Context) (int, float64, error) {
	var count int
	var total float64
	for _, inv := range s.invoices {
		if inv.Balance() > 0 {
			count++
			total += inv.Balance()
		}
	}
	return count, total, nil
}

type noopReconciler struct{}

func (noopReconciler) Reconcile(_ context.Context, _, _ int64) (*domain.StockCashAlert, error) {
	return nil, nil
}

func newStockService() (*StockService, *stubCounts, *stubClosings) {
	counts := &stubCounts{}
	closings := &stubClosings{}
	locations := &stubLocations{locations: map[int64]*domain.Location{
		1: {ID: 1, Name: "Centro"},
	}}
	orch := recon.NewOrchestrator(counts, closings, &stubAlerts{}, noopReconciler{}, 10)
	return NewStockService(counts, closings, locations, orch), counts, closings
}

func TestCreateStockCount_Validation(t *testing.T) {
	svc, counts, _ := newStockService()
	ctx := context.Background()

	base := func() *domain.StockCount {
		return &domain.StockCount{
			LocationID: 1,
			Date:       time.Now(),
			Shift:      domain.ShiftMorning,
			Lines: []domain.CategoryLine{
				{Category: domain.CategoryPizza, CountedQty: 10, POSQty: 12},
			},
		}
	}

	t.Run("valid", func(t *testing.T) {
		id, err := svc.CreateStockCount(ctx, base())
		require.NoError(t, err)
		assert.NotZero(t, id)
		assert.Equal(t, "Centro", counts.created[0].LocationName)
	})

	t.Run("bad shift", func(t *testing.T) {
		count := base()
		count.Shift = "night"
		_, err := svc.CreateStockCount(ctx, count)
		assert.ErrorContains(t, err, "invalid shift")
	})

	t.Run("no lines", func(t *testing.T) {
		count := base()
		count.Lines = nil
		_, err := svc.CreateStockCount(ctx, count)
		assert.ErrorContains(t, err, "at least one category")
	})

	t.Run("unknown category", func(t *testing.T) {
		count := base()
		count.Lines[0].Category = "caviar"
		_, err := svc.CreateStockCount(ctx, count)
		assert.ErrorContains(t, err, "unknown category")
	})

	t.Run("duplicate category", func(t *testing.T) {
		count := base()
		count.Lines = append(count.Lines, count.Lines[0])
		_, err := svc.CreateStockCount(ctx, count)
		assert.ErrorContains(t, err, "duplicate category")
	})

	t.Run("unknown location", func(t *testing.T) {
		count := base()
		count.LocationID = 42
		_, err := svc.CreateStockCount(ctx, count)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestCreateClosing_ComputesTotal(t *testing.T) {
	svc, _, closings := newStockService()

	id, err := svc.CreateClosing(context.Background(), &domain.RegisterClosing{
		LocationID:   1,
		Date:         time.Now(),
		Shift:        domain.ShiftAfternoon,
		CashAmount:   10000,
		CardAmount:   4500,
		MobileAmount: 1500,
	})

	require.NoError(t, err)
	assert.NotZero(t, id)
	assert.Equal(t, 16000.0, closings.created[0].Total)
	assert.Equal(t, "Centro", closings.created[0].LocationName)
}

func TestAlertTransition(t *testing.T) {
	alerts := &stubAlerts{alerts: map[int64]*domain.StockCashAlert{
		7: {ID: 7, Status: domain.AlertActive, Difference: -8000},
	}}
	suppliers := &stubSuppliers{invoices: map[int64]*domain.SupplierInvoice{}}
	orch := recon.NewOrchestrator(&stubCounts{}, &stubClosings{}, alerts, noopReconciler{}, 10)
	svc := NewAlertService(alerts, suppliers, orch, nil)
	ctx := context.Background()

	alert, err := svc.Transition(ctx, 7, domain.AlertResolved)
	require.NoError(t, err)
	assert.Equal(t, domain.AlertResolved, alert.Status)

	// resolved -> rejected is not a legal move
	_, err = svc.Transition(ctx, 7, domain.AlertRejected)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// but reactivation is
	alert, err = svc.Transition(ctx, 7, domain.AlertActive)
	require.NoError(t, err)
	assert.Equal(t, domain.AlertActive, alert.Status)

	_, err = svc.Transition(ctx, 99, domain.AlertResolved)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDashboardSummary(t *testing.T) {
	alerts := &stubAlerts{alerts: map[int64]*domain.StockCashAlert{
		1: {ID: 1, Status: domain.AlertActive, Difference: -8000},
		2: {ID: 2, Status: domain.AlertActive, Difference: 6000},
		3: {ID: 3, Status: domain.AlertResolved, Difference: -9000},
	}}
	suppliers := &stubSuppliers{invoices: map[int64]*domain.SupplierInvoice{
		1: {ID: 1, Amount: 50000, Paid: 20000},
		2: {ID: 2, Amount: 10000, Paid: 10000},
	}}
	orch := recon.NewOrchestrator(&stubCounts{}, &stubClosings{}, alerts, noopReconciler{}, 10)
	svc := NewAlertService(alerts, suppliers, orch, nil)

	summary, err := svc.Dashboard(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, summary.ActiveAlerts)
	assert.Equal(t, 1, summary.ResolvedAlerts)
	assert.Equal(t, 14000.0, summary.FlaggedAmount, "only active alerts count, by absolute difference")
	assert.Equal(t, 1, summary.PendingInvoices)
	assert.Equal(t, 30000.0, summary.OutstandingDebt)
}

func TestAddPayment_RejectsOverpayment(t *testing.T) {
	suppliers := &stubSuppliers{invoices: map[int64]*domain.SupplierInvoice{
		1: {ID: 1, Amount: 10000, Paid: 7500},
	}}
	svc := NewSupplierService(suppliers)
	ctx := context.Background()

	_, err := svc.AddPayment(ctx, &domain.SupplierPayment{InvoiceID: 1, Amount: 3000})
	assert.ErrorContains(t, err, "exceeds outstanding balance")

	id, err := svc.AddPayment(ctx, &domain.SupplierPayment{InvoiceID: 1, Amount: 2500})
	require.NoError(t, err)
	assert.NotZero(t, id)
	assert.Equal(t, 0.0, suppliers.invoices[1].Balance())
}
