package service

import (
	"context"
	"fmt"

	"github.com/pizzanorte/backoffice/internal/domain"
	"github.com/pizzanorte/backoffice/internal/recon"
	"github.com/pizzanorte/backoffice/internal/repository"
	"github.com/rs/zerolog/log"
)

// StockService handles stock counts and register closings. Registering a
// closing triggers a reconciliation pass, so an alert for the shift shows up
// seconds after the drawer is counted.
type StockService struct {
	counts    repository.StockCountRepository
	closings  repository.RegisterClosingRepository
	locations repository.LocationRepository
	orch      *recon.Orchestrator
}

func NewStockService(
	counts repository.StockCountRepository,
	closings repository.RegisterClosingRepository,
	locations repository.LocationRepository,
	orch *recon.Orchestrator,
) *StockService {
	return &StockService{
		counts:    counts,
		closings:  closings,
		locations: locations,
		orch:      orch,
	}
}

func (s *StockService) CreateStockCount(ctx context.Context, count *domain.StockCount) (int64, error) {
	if !domain.ValidShift(count.Shift) {
		return 0, fmt.Errorf("invalid shift %q", count.Shift)
	}
	if len(count.Lines) == 0 {
		return 0, fmt.Errorf("stock count needs at least one category line")
	}

	seen := make(map[domain.Category]bool, len(count.Lines))
	for _, line := range count.Lines {
		if !domain.ValidCategory(line.Category) {
			return 0, fmt.Errorf("unknown category %q", line.Category)
		}
		if seen[line.Category] {
			return 0, fmt.Errorf("duplicate category %q", line.Category)
		}
		seen[line.Category] = true
		if line.CountedQty < 0 || line.POSQty < 0 {
			return 0, fmt.Errorf("negative quantity for category %q", line.Category)
		}
	}

	loc, err := s.locations.GetByID(ctx, count.LocationID)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve location: %w", err)
	}
	count.LocationName = loc.Name

	return s.counts.Create(ctx, count)
}

func (s *StockService) GetStockCount(ctx context.Context, id int64) (*domain.StockCount, error) {
	return s.counts.GetByID(ctx, id)
}

func (s *StockService) ListStockCounts(ctx context.Context, locationID int64, limit int) ([]domain.StockCount, error) {
	if limit <= 0 {
		limit = 50
	}
	if locationID > 0 {
		return s.counts.ListByLocation(ctx, locationID, limit)
	}
	return s.counts.ListRecent(ctx, limit)
}

// CreateClosing persists a register closing and kicks off a reconciliation
// pass. The pass is best effort: its failures are logged inside the
// orchestrator and never surface to the cashier submitting the closing.
func (s *StockService) CreateClosing(ctx context.Context, closing *domain.RegisterClosing) (int64, error) {
	if !domain.ValidShift(closing.Shift) {
		return 0, fmt.Errorf("invalid shift %q", closing.Shift)
	}
	if closing.CashAmount < 0 || closing.CardAmount < 0 || closing.MobileAmount < 0 || closing.OtherAmount < 0 {
		return 0, fmt.Errorf("closing amounts cannot be negative")
	}

	loc, err := s.locations.GetByID(ctx, closing.LocationID)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve location: %w", err)
	}
	closing.LocationName = loc.Name
	closing.Total = closing.CashAmount + closing.CardAmount + closing.MobileAmount + closing.OtherAmount

	id, err := s.closings.Create(ctx, closing)
	if err != nil {
		return 0, err
	}

	log.Info().
		Int64("closing_id", id).
		Int64("location_id", closing.LocationID).
		Float64("total", closing.Total).
		Msg("register closing recorded, running reconciliation")
	s.orch.RunPendingComparisons(ctx)

	return id, nil
}

func (s *StockService) GetClosing(ctx context.Context, id int64) (*domain.RegisterClosing, error) {
	return s.closings.GetByID(ctx, id)
}

func (s *StockService) ListClosings(ctx context.Context, limit int) ([]domain.RegisterClosing, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.closings.ListRecent(ctx, limit)
}

func (s *StockService) ListLocations(ctx context.Context) ([]domain.Location, error) {
	return s.locations.List(ctx)
}
