// internal/recon/orchestrator.go
package recon

import (
	"context"
	"errors"

	"github.com/pizzanorte/backoffice/internal/domain"
	"github.com/pizzanorte/backoffice/internal/repository"
	"github.com/rs/zerolog/log"
)

// Reconciler runs one stock-count/closing comparison.
type Reconciler interface {
	Reconcile(ctx context.Context, stockCountID, closingID int64) (*domain.StockCashAlert, error)
}

// Orchestrator walks the backlog of recent stock counts and reconciles each
// against its matching register closing. Best effort by design: each record's
// errors are logged and the loop moves on.
type Orchestrator struct {
	counts    repository.StockCountRepository
	closings  repository.RegisterClosingRepository
	alerts    repository.AlertRepository
	engine    Reconciler
	batchSize int
}

func NewOrchestrator(
	counts repository.StockCountRepository,
	closings repository.RegisterClosingRepository,
	alerts repository.AlertRepository,
	engine Reconciler,
	batchSize int,
) *Orchestrator {
	if batchSize <= 0 {
		batchSize = 10
	}
	return &Orchestrator{
		counts:    counts,
		closings:  closings,
		alerts:    alerts,
		engine:    engine,
		batchSize: batchSize,
	}
}

// RunPendingComparisons scans the most recent stock counts, skips the ones
// with no matching closing or an alert already on file, and reconciles the
// rest. Intended to run after each register closing or on a schedule.
func (o *Orchestrator) RunPendingComparisons(ctx context.Context) {
	counts, err := o.counts.ListRecent(ctx, o.batchSize)
	if err != nil {
		log.Error().Err(err).Msg("orchestrator: failed to list recent stock counts")
		return
	}

	for _, count := range counts {
		closing, err := o.closings.FindMatch(ctx, count.LocationID, count.Date, count.Shift)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				log.Debug().
					Int64("stock_count_id", count.ID).
					Msg("orchestrator: no matching closing yet, skipping")
				continue
			}
			log.Error().Err(err).Int64("stock_count_id", count.ID).Msg("orchestrator: closing lookup failed")
			continue
		}

		// One alert per pair. The existence check is the only idempotency
		// guard; the job runs single-instance.
		_, err = o.alerts.GetByPair(ctx, count.ID, closing.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, repository.ErrNotFound) {
			log.Error().Err(err).Int64("stock_count_id", count.ID).Msg("orchestrator: alert lookup failed")
			continue
		}

		if _, err := o.engine.Reconcile(ctx, count.ID, closing.ID); err != nil {
			log.Error().Err(err).
				Int64("stock_count_id", count.ID).
				Int64("closing_id", closing.ID).
				Msg("orchestrator: reconcile failed")
		}
	}
}
