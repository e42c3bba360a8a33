package service

import (
	"context"
	"fmt"

	"github.com/pizzanorte/backoffice/internal/cache"
	"github.com/pizzanorte/backoffice/internal/domain"
	"github.com/pizzanorte/backoffice/internal/recon"
	"github.com/pizzanorte/backoffice/internal/repository"
	"github.com/rs/zerolog/log"
)

// ErrInvalidTransition is returned when a requested alert status change is not
// permitted from the alert's current status.
var ErrInvalidTransition = fmt.Errorf("invalid alert status transition")

// AlertService exposes alert review to the HTTP layer and assembles the
// landing dashboard.
type AlertService struct {
	alerts    repository.AlertRepository
	suppliers repository.SupplierRepository
	orch      *recon.Orchestrator
	cache     cache.DashboardCache
}

func NewAlertService(
	alerts repository.AlertRepository,
	suppliers repository.SupplierRepository,
	orch *recon.Orchestrator,
	cacheImpl cache.DashboardCache,
) *AlertService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopDashboardCache()
	}
	return &AlertService{
		alerts:    alerts,
		suppliers: suppliers,
		orch:      orch,
		cache:     cacheImpl,
	}
}

func (s *AlertService) List(ctx context.Context, filter repository.AlertFilter) ([]domain.StockCashAlert, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	return s.alerts.List(ctx, filter)
}

func (s *AlertService) Get(ctx context.Context, id int64) (*domain.StockCashAlert, error) {
	return s.alerts.GetByID(ctx, id)
}

// Transition moves an alert to a new status after checking the move is legal.
// The conditional update in the repository guards against a concurrent
// supervisor having moved the alert first.
func (s *AlertService) Transition(ctx context.Context, id int64, to domain.AlertStatus) (*domain.StockCashAlert, error) {
	alert, err := s.alerts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !domain.CanTransition(alert.Status, to) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, alert.Status, to)
	}

	if err := s.alerts.UpdateStatus(ctx, id, alert.Status, to); err != nil {
		return nil, err
	}
	alert.Status = to

	if err := s.cache.Invalidate(ctx); err != nil {
		log.Warn().Err(err).Msg("alerts: dashboard cache invalidation failed")
	}

	return alert, nil
}

// Run triggers a reconciliation pass on demand, outside the automatic
// post-closing runs.
func (s *AlertService) Run(ctx context.Context) {
	s.orch.RunPendingComparisons(ctx)
	if err := s.cache.Invalidate(ctx); err != nil {
		log.Warn().Err(err).Msg("alerts: dashboard cache invalidation failed")
	}
}

func (s *AlertService) Feed(ctx context.Context, limit int) ([]domain.AlertFeedEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.alerts.ListFeed(ctx, limit)
}

// Dashboard builds the landing summary: alert counts by status, the total
// flagged amount, and the supplier debt position.
func (s *AlertService) Dashboard(ctx context.Context) (*domain.DashboardSummary, error) {
	if summary, ok, err := s.cache.GetSummary(ctx); err == nil && ok {
		return summary, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("alerts: dashboard cache get failed")
	}

	statusCounts, flagged, err := s.alerts.StatusSummary(ctx)
	if err != nil {
		return nil, err
	}

	pendingInvoices, outstanding, err := s.suppliers.OutstandingSummary(ctx)
	if err != nil {
		return nil, err
	}

	summary := &domain.DashboardSummary{
		ActiveAlerts:    statusCounts[domain.AlertActive],
		ResolvedAlerts:  statusCounts[domain.AlertResolved],
		RejectedAlerts:  statusCounts[domain.AlertRejected],
		FlaggedAmount:   flagged,
		PendingInvoices: pendingInvoices,
		OutstandingDebt: outstanding,
	}

	if err := s.cache.SetSummary(ctx, summary); err != nil {
		log.Warn().Err(err).Msg("alerts: dashboard cache set failed")
	}

	return summary, nil
}
