// Package filters turns optional patient and condition criteria into
// ordered SQL predicates for the tool queries.
//
// Patient predicates reference the citizen table under the alias "c".
// Condition predicates additionally reference the problem join used by the
// clinical queries: p (tb_problema), ue (tb_problema_evolucao), cid
// (tb_cid10) and ciap (tb_ciap).
package filters

import (
	"strings"

	"github.com/filiperochalopes/esus-pec-mcp/internal/platform/guard"
	"github.com/filiperochalopes/esus-pec-mcp/internal/platform/sqlq"
)

// Criterion is one optional filter input.
type Criterion = guard.Criterion

// AgeExpr is the patient's age in whole years.
const AgeExpr = "DATE_PART('year', AGE(CURRENT_DATE, c.dt_nascimento))"

// PatientID restricts to a single citizen.
type PatientID int64

// NamePrefix restricts to names starting with the value (case-insensitive).
type NamePrefix string

// Sex restricts by sex; accepts M, F, I or the long forms.
type Sex string

// AgeRange restricts by age in whole years. Either bound may be nil.
type AgeRange struct {
	Min *int
	Max *int
}

// Facility restricts to patients seen at, or registered with, a health unit.
type Facility int64

// Team restricts to patients currently linked to a care team.
type Team int64

// MicroArea restricts to patients whose current registration is in a
// micro-area.
type MicroArea string

func (PatientID) CriterionName() string  { return "paciente_id" }
func (NamePrefix) CriterionName() string { return "name_starts_with" }
func (Sex) CriterionName() string        { return "sex" }
func (AgeRange) CriterionName() string   { return "age_range" }
func (Facility) CriterionName() string   { return "unidade_saude_id" }
func (Team) CriterionName() string       { return "equipe_id" }
func (MicroArea) CriterionName() string  { return "micro_area" }

const (
	facilityEncounterSource = "FROM tb_prontuario pr2 " +
		"JOIN tb_atend a ON a.co_prontuario = pr2.co_seq_prontuario " +
		"WHERE pr2.co_cidadao = c.co_seq_cidadao"
	facilityLinkSource = "FROM tb_cidadao_vinculacao_equipe ve " +
		"JOIN tb_unidade_saude us ON us.nu_cnes = ve.nu_cnes " +
		"WHERE ve.co_cidadao = c.co_seq_cidadao " +
		"AND ve.nu_cnes IS NOT NULL AND ve.nu_cnes <> ''"
	// tb_cidadao_vinculacao_equipe is the current link of each citizen; the
	// registration history lives in tb_cds_cad_individual.
	teamLinkSource = "FROM tb_cidadao_vinculacao_equipe ve " +
		"JOIN tb_equipe eq ON eq.nu_ine = ve.nu_ine " +
		"WHERE ve.co_cidadao = c.co_seq_cidadao"
	microAreaSource = "FROM tb_cds_cad_individual ci " +
		"WHERE ci.co_cidadao = c.co_seq_cidadao AND ci.st_versao_atual = 1"
)

var sexAliases = map[string]string{
	"M":             "MASCULINO",
	"F":             "FEMININO",
	"I":             "INDETERMINADO",
	"MASCULINO":     "MASCULINO",
	"FEMININO":      "FEMININO",
	"INDETERMINADO": "INDETERMINADO",
}

// NormalizeSex maps a sex code to its stored form. Unknown values are a
// validation error.
func NormalizeSex(sex string) (string, error) {
	v, ok := sexAliases[strings.ToUpper(strings.TrimSpace(sex))]
	if !ok {
		return "", guard.Invalid("sex", "invalid sex %q, use MASCULINO, FEMININO or INDETERMINADO (or M/F/I)", sex)
	}
	return v, nil
}

type patientCriteria struct {
	id        *PatientID
	name      *NamePrefix
	sex       *Sex
	age       *AgeRange
	facility  *Facility
	team      *Team
	microArea *MicroArea
}

func (pc *patientCriteria) set(c Criterion) error {
	dup := false
	switch v := c.(type) {
	case PatientID:
		dup = pc.id != nil
		pc.id = &v
	case NamePrefix:
		dup = pc.name != nil
		pc.name = &v
	case Sex:
		dup = pc.sex != nil
		pc.sex = &v
	case AgeRange:
		dup = pc.age != nil
		pc.age = &v
	case Facility:
		dup = pc.facility != nil
		pc.facility = &v
	case Team:
		dup = pc.team != nil
		pc.team = &v
	case MicroArea:
		dup = pc.microArea != nil
		pc.microArea = &v
	default:
		return guard.Invalid("criteria", "unsupported patient criterion %q", c.CriterionName())
	}
	if dup {
		return guard.Invalid(c.CriterionName(), "criterion supplied more than once")
	}
	return nil
}

// BuildPatientFilters validates criteria and returns one predicate per
// present criterion (two for an age range with both bounds) in a fixed
// order: id, name prefix, sex, minimum age, maximum age, facility, team,
// micro-area. Input order does not matter. Nil criteria are ignored.
func BuildPatientFilters(criteria ...Criterion) ([]sqlq.Predicate, error) {
	var pc patientCriteria
	for _, c := range criteria {
		if c == nil {
			continue
		}
		if err := pc.set(c); err != nil {
			return nil, err
		}
	}

	var preds []sqlq.Predicate

	if pc.id != nil {
		if *pc.id <= 0 {
			return nil, guard.Invalid("paciente_id", "must be a positive integer")
		}
		preds = append(preds, sqlq.Eq{Expr: "c.co_seq_cidadao", Value: int64(*pc.id)})
	}
	if pc.name != nil {
		prefix := strings.TrimSpace(string(*pc.name))
		if prefix == "" {
			return nil, guard.Invalid("name_starts_with", "must not be empty")
		}
		preds = append(preds, sqlq.Match{Expr: "c.no_cidadao", Pattern: prefix + "%"})
	}
	if pc.sex != nil {
		sex, err := NormalizeSex(string(*pc.sex))
		if err != nil {
			return nil, err
		}
		preds = append(preds, sqlq.Eq{Expr: "c.no_sexo", Value: sex})
	}
	if pc.age != nil {
		lo, hi := pc.age.Min, pc.age.Max
		if (lo != nil && *lo < 0) || (hi != nil && *hi < 0) {
			return nil, guard.Invalid("age_range", "ages must not be negative")
		}
		if lo != nil && hi != nil && *lo > *hi {
			return nil, guard.Invalid("age_range", "age_min (%d) must not be greater than age_max (%d)", *lo, *hi)
		}
		if lo != nil {
			preds = append(preds, sqlq.Cmp{Expr: AgeExpr, Op: sqlq.OpGe, Value: *lo})
		}
		if hi != nil {
			preds = append(preds, sqlq.Cmp{Expr: AgeExpr, Op: sqlq.OpLe, Value: *hi})
		}
	}
	if pc.facility != nil {
		id := int64(*pc.facility)
		if id <= 0 {
			return nil, guard.Invalid("unidade_saude_id", "must be a positive integer")
		}
		preds = append(preds, sqlq.Or{
			sqlq.Exists{Source: facilityEncounterSource, Cond: sqlq.Eq{Expr: "a.co_unidade_saude", Value: id}},
			sqlq.Exists{Source: facilityLinkSource, Cond: sqlq.Eq{Expr: "us.co_seq_unidade_saude", Value: id}},
		})
	}
	if pc.team != nil {
		id := int64(*pc.team)
		if id <= 0 {
			return nil, guard.Invalid("equipe_id", "must be a positive integer")
		}
		preds = append(preds, sqlq.Exists{Source: teamLinkSource, Cond: sqlq.Eq{Expr: "eq.co_seq_equipe", Value: id}})
	}
	if pc.microArea != nil {
		area := strings.TrimSpace(string(*pc.microArea))
		if area == "" {
			return nil, guard.Invalid("micro_area", "must not be empty")
		}
		preds = append(preds, sqlq.Exists{Source: microAreaSource, Cond: sqlq.Eq{Expr: "ci.nu_micro_area", Value: area}})
	}

	return preds, nil
}

// PatientFilter is the JSON shape of the patient criteria accepted by the
// tools. Blank strings count as absent.
type PatientFilter struct {
	PatientID      *int64  `json:"paciente_id,omitempty"`
	NameStartsWith *string `json:"name_starts_with,omitempty"`
	Sex            *string `json:"sex,omitempty"`
	AgeMin         *int    `json:"age_min,omitempty"`
	AgeMax         *int    `json:"age_max,omitempty"`
	FacilityID     *int64  `json:"unidade_saude_id,omitempty"`
	TeamID         *int64  `json:"equipe_id,omitempty"`
	MicroArea      *string `json:"micro_area,omitempty"`
}

// Criteria returns the criteria present in f.
func (f PatientFilter) Criteria() []Criterion {
	var out []Criterion
	if f.PatientID != nil {
		out = append(out, PatientID(*f.PatientID))
	}
	if present(f.NameStartsWith) {
		out = append(out, NamePrefix(*f.NameStartsWith))
	}
	if present(f.Sex) {
		out = append(out, Sex(*f.Sex))
	}
	if f.AgeMin != nil || f.AgeMax != nil {
		out = append(out, AgeRange{Min: f.AgeMin, Max: f.AgeMax})
	}
	if f.FacilityID != nil {
		out = append(out, Facility(*f.FacilityID))
	}
	if f.TeamID != nil {
		out = append(out, Team(*f.TeamID))
	}
	if present(f.MicroArea) {
		out = append(out, MicroArea(*f.MicroArea))
	}
	return out
}

func present(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}
