package obstetrics

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/filiperochalopes/esus-pec-mcp/internal/platform/guard"
	"github.com/filiperochalopes/esus-pec-mcp/pkg/pagination"
)

// Service lists pregnancies under prenatal follow-up.
type Service struct {
	pregnancies PregnancyRepository
}

// NewService creates a new obstetrics service.
func NewService(pregnancies PregnancyRepository) *Service {
	return &Service{pregnancies: pregnancies}
}

// ListActive returns open pregnancies between 2 and 42 weeks ordered by
// expected due date.
func (s *Service) ListActive(ctx context.Context, args ListArgs) ([]Pregnancy, error) {
	limit := guard.ClampOr(args.Limit, pagination.DefaultLimit, guard.Listing)
	rows, err := s.pregnancies.ListActive(ctx, MinGestationalDays, MaxGestationalDays, limit)
	if err != nil {
		return nil, err
	}
	zerolog.Ctx(ctx).Debug().Int("rows", len(rows)).Int("limit", limit).Msg("active pregnancies")

	out := make([]Pregnancy, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ToPregnancy())
	}
	return out, nil
}
