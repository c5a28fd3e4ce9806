package caregap

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/filiperochalopes/esus-pec-mcp/internal/platform/filters"
	"github.com/filiperochalopes/esus-pec-mcp/internal/platform/guard"
	"github.com/filiperochalopes/esus-pec-mcp/internal/platform/sqlq"
	"github.com/filiperochalopes/esus-pec-mcp/pkg/pagination"
)

// Service finds patients of a cohort without a recent physician or nurse
// consultation.
type Service struct {
	gaps GapRepository
}

// NewService creates a new care-gap service.
func NewService(gaps GapRepository) *Service {
	return &Service{gaps: gaps}
}

// Build validates args into a GapQuery. A facility restricts both the
// cohort and which encounters count as a consultation.
func Build(args GapArgs) (GapQuery, error) {
	cohort, err := LookupCohort(args.Cohort)
	if err != nil {
		return GapQuery{}, err
	}
	days := cohort.DefaultDays
	if args.Days != nil {
		if *args.Days <= 0 {
			return GapQuery{}, guard.Invalid("dias_sem_consulta", "must be a positive integer")
		}
		days = *args.Days
	}

	var criteria []filters.Criterion
	if args.FacilityID != nil {
		criteria = append(criteria, filters.Facility(*args.FacilityID))
	}
	if args.TeamID != nil {
		criteria = append(criteria, filters.Team(*args.TeamID))
	}
	if args.MicroArea != nil && strings.TrimSpace(*args.MicroArea) != "" {
		criteria = append(criteria, filters.MicroArea(*args.MicroArea))
	}
	patient, err := filters.BuildPatientFilters(criteria...)
	if err != nil {
		return GapQuery{}, err
	}

	base, err := cohort.where()
	if err != nil {
		return GapQuery{}, err
	}
	recent := []sqlq.Predicate{filters.ConsultationProfessional()}
	if args.FacilityID != nil {
		recent = append(recent, sqlq.Eq{Expr: "a.co_unidade_saude", Value: *args.FacilityID})
	}

	return GapQuery{
		Cohort: cohort,
		Base:   base,
		Recent: recent,
		Stale: sqlq.Or{
			sqlq.IsNull{Expr: "ult.ultima_consulta"},
			sqlq.Cmp{Expr: "(CURRENT_DATE - ult.ultima_consulta)", Op: sqlq.OpGt, Value: days},
		},
		Patient: patient,
	}, nil
}

// Count counts cohort members without a consultation in the window.
func (s *Service) Count(ctx context.Context, args GapArgs) (*CountResult, error) {
	gq, err := Build(args)
	if err != nil {
		return nil, err
	}
	total, err := s.gaps.Count(ctx, gq)
	if err != nil {
		return nil, err
	}
	zerolog.Ctx(ctx).Debug().Str("cohort", gq.Cohort.Name).Int64("count", total).Msg("care gap count")
	return &CountResult{Count: total}, nil
}

// List pages through cohort members without a consultation in the window,
// never-seen patients first.
func (s *Service) List(ctx context.Context, args ListGapArgs) ([]GapPatient, error) {
	gq, err := Build(args.GapArgs)
	if err != nil {
		return nil, err
	}
	page := pagination.New(args.Limit, args.Offset, guard.Listing)

	rows, err := s.gaps.List(ctx, gq, page)
	if err != nil {
		return nil, err
	}
	out := make([]GapPatient, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ToPatient())
	}
	return out, nil
}
