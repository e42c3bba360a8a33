package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/pizzanorte/backoffice/internal/domain"
	"github.com/pizzanorte/backoffice/internal/repository"
)

// StaffService manages employee records.
type StaffService struct {
	employees repository.EmployeeRepository
	locations repository.LocationRepository
}

func NewStaffService(employees repository.EmployeeRepository, locations repository.LocationRepository) *StaffService {
	return &StaffService{employees: employees, locations: locations}
}

func (s *StaffService) Create(ctx context.Context, e *domain.Employee) (int64, error) {
	if strings.TrimSpace(e.Name) == "" {
		return 0, fmt.Errorf("employee name is required")
	}
	if _, err := s.locations.GetByID(ctx, e.LocationID); err != nil {
		return 0, fmt.Errorf("failed to resolve location: %w", err)
	}
	e.Active = true

	return s.employees.Create(ctx, e)
}

func (s *StaffService) Update(ctx context.Context, e *domain.Employee) error {
	if strings.TrimSpace(e.Name) == "" {
		return fmt.Errorf("employee name is required")
	}
	return s.employees.Update(ctx, e)
}

func (s *StaffService) Get(ctx context.Context, id int64) (*domain.Employee, error) {
	return s.employees.GetByID(ctx, id)
}

func (s *StaffService) List(ctx context.Context, locationID int64, activeOnly bool) ([]domain.Employee, error) {
	return s.employees.List(ctx, locationID, activeOnly)
}

// Deactivate marks an employee inactive without deleting the record; old
// stock counts keep pointing at a real person.
func (s *StaffService) Deactivate(ctx context.Context, id int64) error {
	e, err := s.employees.GetByID(ctx, id)
	if err != nil {
		return err
	}
	e.Active = false
	return s.employees.Update(ctx, e)
}
