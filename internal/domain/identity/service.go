package identity

import (
	"context"

	"github.com/filiperochalopes/esus-pec-mcp/internal/platform/filters"
	"github.com/filiperochalopes/esus-pec-mcp/internal/platform/guard"
	"github.com/filiperochalopes/esus-pec-mcp/pkg/pagination"
)

// Service answers patient lookups and counts.
type Service struct {
	patients PatientRepository
}

// NewService creates a new identity service.
func NewService(patients PatientRepository) *Service {
	return &Service{patients: patients}
}

// CapturePatients lists anonymized patients. At least one patient criterion
// is required.
func (s *Service) CapturePatients(ctx context.Context, args CaptureArgs) ([]PatientSummary, error) {
	criteria := args.Criteria()
	if err := guard.RequireAny(criteria...); err != nil {
		return nil, err
	}
	where, err := filters.BuildPatientFilters(criteria...)
	if err != nil {
		return nil, err
	}

	rows, err := s.patients.Find(ctx, where, guard.ClampOr(args.Limit, pagination.DefaultLimit, guard.Listing))
	if err != nil {
		return nil, err
	}
	out := make([]PatientSummary, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ToSummary())
	}
	return out, nil
}

// CountPatients counts distinct patients. Several CID codes may be AND-ed
// here, unlike the condition listing.
func (s *Service) CountPatients(ctx context.Context, args CountArgs) (*CountResult, error) {
	criteria := append(args.PatientFilter.Criteria(), args.ConditionCriteria.Criteria()...)
	if err := guard.RequireAny(criteria...); err != nil {
		return nil, err
	}
	patient, err := filters.BuildPatientFilters(args.PatientFilter.Criteria()...)
	if err != nil {
		return nil, err
	}
	condition, err := filters.BuildConditionFilters(args.ConditionCriteria, filters.ConditionOptions{AllowCIDAnd: true})
	if err != nil {
		return nil, err
	}

	total, err := s.patients.Count(ctx, patient, condition)
	if err != nil {
		return nil, err
	}
	return &CountResult{Count: total}, nil
}
