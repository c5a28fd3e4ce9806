package analytics

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/filiperochalopes/esus-pec-mcp/internal/platform/display"
	"github.com/filiperochalopes/esus-pec-mcp/internal/platform/filters"
	"github.com/filiperochalopes/esus-pec-mcp/internal/platform/guard"
	"github.com/filiperochalopes/esus-pec-mcp/internal/platform/sqlq"
	"github.com/filiperochalopes/esus-pec-mcp/pkg/pagination"
)

// Clinical thresholds of the personal queries.
const (
	HbA1cThreshold     = 8.0
	SystolicThreshold  = 140
	DiastolicThreshold = 90
)

const pregnancySource = "FROM tb_pre_natal pn " +
	"JOIN tb_prontuario prn ON prn.co_seq_prontuario = pn.co_prontuario " +
	"WHERE prn.co_cidadao = c.co_seq_cidadao"

type personalQuery func(ctx context.Context, repo Repository, limit int) ([]PersonMatch, error)

// withoutEncounter builds a query for patients whose last encounter of any
// kind is more than days old. extra returns additional predicates over
// tb_cidadao c.
func withoutEncounter(days int, extra func() ([]sqlq.Predicate, error)) personalQuery {
	return func(ctx context.Context, repo Repository, limit int) ([]PersonMatch, error) {
		var where []sqlq.Predicate
		if extra != nil {
			var err error
			if where, err = extra(); err != nil {
				return nil, err
			}
		}
		rows, err := repo.WithoutEncounter(ctx, days, where, limit)
		if err != nil {
			return nil, err
		}
		return toMatches(rows, nil, display.ISODate), nil
	}
}

func pregnantOnly() ([]sqlq.Predicate, error) {
	return []sqlq.Predicate{sqlq.Exists{Source: pregnancySource, Cond: sqlq.IsNull{Expr: "pn.dt_desfecho"}}}, nil
}

// Primary hypertension. The query has no problem joins, so the CID match
// must be the correlated AND form.
func hypertensive() ([]sqlq.Predicate, error) {
	return filters.BuildConditionFilters(filters.ConditionCriteria{CIDCode: "I10", CIDLogic: "AND"}, filters.ConditionOptions{})
}

var personalQueries = map[string]personalQuery{
	NoEncounterYear:          withoutEncounter(365, nil),
	PregnantNoEncounterMonth: withoutEncounter(30, pregnantOnly),
	HypertensiveNoEncounter:  withoutEncounter(180, hypertensive),
	HbA1cAbove8: func(ctx context.Context, repo Repository, limit int) ([]PersonMatch, error) {
		rows, err := repo.LatestHbA1cAbove(ctx, HbA1cThreshold, limit)
		if err != nil {
			return nil, err
		}
		return toMatches(rows, strPtr("HbA1c"), display.ISODate), nil
	},
	BloodPressureAbove: func(ctx context.Context, repo Repository, limit int) ([]PersonMatch, error) {
		rows, err := repo.LatestBloodPressureAbove(ctx, SystolicThreshold, DiastolicThreshold, limit)
		if err != nil {
			return nil, err
		}
		return toMatches(rows, strPtr("PA"), display.ISODateTime), nil
	},
}

// PersonalKinds returns the supported consulta_pessoal subtypes, sorted.
func PersonalKinds() []string {
	kinds := make([]string, 0, len(personalQueries))
	for k := range personalQueries {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// Service runs the fixed analytical query catalog.
type Service struct {
	repo Repository
}

// NewService creates a new analytics service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Epidemiology runs an aggregated query. Only comorbidades_por_filtro exists;
// it is also the default.
func (s *Service) Epidemiology(ctx context.Context, args EpidemiologyArgs) ([]Comorbidity, error) {
	kind := strings.TrimSpace(args.Kind)
	if kind == "" {
		kind = ComorbiditiesByFilter
	}
	if kind != ComorbiditiesByFilter {
		return nil, guard.Invalid("tipo", "unsupported epidemiology query %q, use %s", args.Kind, ComorbiditiesByFilter)
	}

	var criteria []filters.Criterion
	if args.Sex != nil && strings.TrimSpace(*args.Sex) != "" {
		criteria = append(criteria, filters.Sex(*args.Sex))
	}
	if args.AgeMin != nil || args.AgeMax != nil {
		criteria = append(criteria, filters.AgeRange{Min: args.AgeMin, Max: args.AgeMax})
	}
	where, err := filters.BuildPatientFilters(criteria...)
	if err != nil {
		return nil, err
	}
	if args.LocalityID != nil {
		if *args.LocalityID <= 0 {
			return nil, guard.Invalid("localidade_id", "must be a positive integer")
		}
		where = append(where, sqlq.Eq{Expr: "c.co_localidade_endereco", Value: *args.LocalityID})
	}

	out, err := s.repo.Comorbidities(ctx, where, guard.ClampOr(args.Limit, pagination.DefaultLimit, guard.Aggregate))
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []Comorbidity{}
	}
	return out, nil
}

// Personal runs one of the fixed patient-level queries.
func (s *Service) Personal(ctx context.Context, args PersonalArgs) ([]PersonMatch, error) {
	kind := strings.TrimSpace(args.Kind)
	run, ok := personalQueries[kind]
	if !ok {
		return nil, guard.Invalid("tipo", "unsupported personal query %q, use %s", args.Kind, strings.Join(PersonalKinds(), ", "))
	}
	limit := guard.ClampOr(args.Limit, pagination.DefaultLimit, guard.Aggregate)

	out, err := run(ctx, s.repo, limit)
	if err != nil {
		return nil, err
	}
	zerolog.Ctx(ctx).Debug().Str("kind", kind).Int("rows", len(out)).Msg("personal query")
	return out, nil
}

func toMatches(rows []PersonRow, detail *string, date func(*time.Time) *string) []PersonMatch {
	out := make([]PersonMatch, 0, len(rows))
	for _, r := range rows {
		out = append(out, PersonMatch{
			PatientID:     r.PatientID,
			PatientName:   r.PatientName,
			ReferenceDate: date(r.ReferenceDate),
			Detail:        detail,
			Metric:        r.Metric,
		})
	}
	return out
}

func strPtr(s string) *string { return &s }
