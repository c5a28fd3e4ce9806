package caregap

import (
	"sort"
	"strings"

	"github.com/filiperochalopes/esus-pec-mcp/internal/platform/filters"
	"github.com/filiperochalopes/esus-pec-mcp/internal/platform/guard"
	"github.com/filiperochalopes/esus-pec-mcp/internal/platform/sqlq"
)

// Cohort is a clinical profile followed for missed consultations.
type Cohort struct {
	Name        string
	DefaultDays int
	// source is the FROM part selecting pr.co_cidadao; where is AND-ed to it.
	source string
	where  func() ([]sqlq.Predicate, error)
}

const problemCohortSource = `FROM tb_problema p
JOIN tb_prontuario pr ON pr.co_seq_prontuario = p.co_prontuario
LEFT JOIN tb_cid10 cid ON cid.co_cid10 = p.co_cid10
LEFT JOIN tb_ciap ciap ON ciap.co_seq_ciap = p.co_ciap`

const prenatalCohortSource = `FROM tb_pre_natal pn
JOIN tb_prontuario pr ON pr.co_seq_prontuario = pn.co_prontuario`

// problemCohort selects patients with a problem coded with any of the CID-10
// or CIAP prefixes.
func problemCohort(cid, ciap []string) func() ([]sqlq.Predicate, error) {
	return func() ([]sqlq.Predicate, error) {
		return filters.BuildConditionFilters(filters.ConditionCriteria{CIDCodes: cid, CIAPCodes: ciap}, filters.ConditionOptions{})
	}
}

// Open prenatal records from the first week up to 42 weeks.
func prenatalCohort() ([]sqlq.Predicate, error) {
	const days = "(CURRENT_DATE - pn.dt_ultima_menstruacao::date)"
	return []sqlq.Predicate{
		sqlq.IsNull{Expr: "pn.dt_desfecho"},
		sqlq.Cmp{Expr: days, Op: sqlq.OpGe, Value: 7},
		sqlq.Cmp{Expr: days, Op: sqlq.OpLe, Value: 294},
	}, nil
}

var cohorts = map[string]Cohort{
	"hipertensao": {
		Name:        "hipertensao",
		DefaultDays: 180,
		source:      problemCohortSource,
		where:       problemCohort([]string{"I10", "I11", "I12", "I13", "I15"}, []string{"K86", "K87"}),
	},
	"diabetes": {
		Name:        "diabetes",
		DefaultDays: 180,
		source:      problemCohortSource,
		where:       problemCohort([]string{"E10", "E11", "E12", "E13", "E14"}, []string{"T89", "T90"}),
	},
	"gestante": {
		Name:        "gestante",
		DefaultDays: 60,
		source:      prenatalCohortSource,
		where:       prenatalCohort,
	},
}

// CohortNames returns the supported cohort names, sorted.
func CohortNames() []string {
	names := make([]string, 0, len(cohorts))
	for n := range cohorts {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// LookupCohort finds a cohort by name, ignoring case and surrounding space.
func LookupCohort(name string) (Cohort, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return Cohort{}, guard.Invalid("tipo", "is required")
	}
	c, ok := cohorts[key]
	if !ok {
		return Cohort{}, guard.Invalid("tipo", "unsupported value %q, use %s", name, strings.Join(CohortNames(), ", "))
	}
	return c, nil
}
