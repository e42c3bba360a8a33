package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pizzanorte/backoffice/internal/domain"
	"github.com/pizzanorte/backoffice/internal/repository"
)

// DeliveryService records per-platform delivery activity. Stats are keyed by
// (location, platform, date), so re-submitting a day overwrites it.
type DeliveryService struct {
	deliveries repository.DeliveryRepository
	locations  repository.LocationRepository
}

func NewDeliveryService(deliveries repository.DeliveryRepository, locations repository.LocationRepository) *DeliveryService {
	return &DeliveryService{deliveries: deliveries, locations: locations}
}

func (s *DeliveryService) Record(ctx context.Context, stat *domain.DeliveryStat) (int64, error) {
	if strings.TrimSpace(stat.Platform) == "" {
		return 0, fmt.Errorf("platform is required")
	}
	if stat.Orders < 0 || stat.GrossAmount < 0 || stat.FeeAmount < 0 {
		return 0, fmt.Errorf("delivery figures cannot be negative")
	}
	if stat.FeeAmount > stat.GrossAmount {
		return 0, fmt.Errorf("fee %.2f exceeds gross %.2f", stat.FeeAmount, stat.GrossAmount)
	}
	if _, err := s.locations.GetByID(ctx, stat.LocationID); err != nil {
		return 0, fmt.Errorf("failed to resolve location: %w", err)
	}

	return s.deliveries.Upsert(ctx, stat)
}

// List returns stats for a location over a date range, defaulting to the
// last 30 days.
func (s *DeliveryService) List(ctx context.Context, locationID int64, from, to time.Time) ([]domain.DeliveryStat, error) {
	if to.IsZero() {
		to = time.Now()
	}
	if from.IsZero() {
		from = to.AddDate(0, 0, -30)
	}
	if from.After(to) {
		return nil, fmt.Errorf("date range start follows end")
	}

	return s.deliveries.List(ctx, locationID, from, to)
}
