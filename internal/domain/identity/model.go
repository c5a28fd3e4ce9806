package identity

import (
	"time"

	"github.com/filiperochalopes/esus-pec-mcp/internal/platform/display"
	"github.com/filiperochalopes/esus-pec-mcp/internal/platform/filters"
)

// PatientRow is a citizen as read from tb_cidadao.
type PatientRow struct {
	Name      *string
	BirthDate *time.Time
	Sex       *string
}

// PatientSummary is a patient without direct identifiers.
type PatientSummary struct {
	Name      string  `json:"name"`
	BirthDate *string `json:"birth_date"`
	Sex       *string `json:"sex"`
	// Gender mirrors Sex until the schema carries a gender column.
	Gender *string `json:"gender"`
}

// ToSummary anonymizes r.
func (r PatientRow) ToSummary() PatientSummary {
	return PatientSummary{
		Name:      display.Initials(r.Name),
		BirthDate: display.ISODate(r.BirthDate),
		Sex:       r.Sex,
		Gender:    r.Sex,
	}
}

// CountResult is the answer of a counting tool.
type CountResult struct {
	Count int64 `json:"count"`
}

// CaptureArgs are the arguments of capturar_paciente.
type CaptureArgs struct {
	filters.PatientFilter
	Limit *int `json:"limite,omitempty"`
}

// CountArgs are the arguments of contar_pacientes.
type CountArgs struct {
	filters.PatientFilter
	filters.ConditionCriteria
}
