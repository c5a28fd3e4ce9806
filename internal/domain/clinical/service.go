package clinical

import (
	"context"

	"github.com/filiperochalopes/esus-pec-mcp/internal/platform/filters"
	"github.com/filiperochalopes/esus-pec-mcp/internal/platform/guard"
	"github.com/filiperochalopes/esus-pec-mcp/pkg/pagination"
)

// Service lists registered health conditions.
type Service struct {
	conditions ConditionRepository
}

// NewService creates a new clinical service.
func NewService(conditions ConditionRepository) *Service {
	return &Service{conditions: conditions}
}

// ListConditions returns problem-list entries matching the patient and
// condition criteria. Several CID codes can only be OR-ed here.
func (s *Service) ListConditions(ctx context.Context, args ListArgs) ([]Condition, error) {
	patientCriteria := args.PatientFilter.Criteria()
	if err := guard.RequireAny(append(patientCriteria, args.ConditionCriteria.Criteria()...)...); err != nil {
		return nil, err
	}
	where, err := filters.BuildPatientFilters(patientCriteria...)
	if err != nil {
		return nil, err
	}
	condition, err := filters.BuildConditionFilters(args.ConditionCriteria, filters.ConditionOptions{})
	if err != nil {
		return nil, err
	}
	where = append(where, condition...)

	rows, err := s.conditions.ListConditions(ctx, where, guard.ClampOr(args.Limit, pagination.DefaultLimit, guard.Listing))
	if err != nil {
		return nil, err
	}
	out := make([]Condition, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ToCondition())
	}
	return out, nil
}
