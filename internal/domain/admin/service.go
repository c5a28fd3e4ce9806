package admin

import "context"

// Service answers administrative lookups.
type Service struct {
	units UnitRepository
}

// NewService creates a new admin service.
func NewService(units UnitRepository) *Service {
	return &Service{units: units}
}

// ListHealthUnits returns the basic health units ordered by name. The list is
// never nil.
func (s *Service) ListHealthUnits(ctx context.Context, _ ListArgs) ([]HealthUnit, error) {
	units, err := s.units.ListBasicUnits(ctx)
	if err != nil {
		return nil, err
	}
	if units == nil {
		units = []HealthUnit{}
	}
	return units, nil
}
