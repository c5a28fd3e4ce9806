package clinical

import (
	"time"

	"github.com/filiperochalopes/esus-pec-mcp/internal/platform/display"
	"github.com/filiperochalopes/esus-pec-mcp/internal/platform/filters"
)

// ConditionRow is one problem-list entry joined with its patient and the
// latest evolution of the problem.
type ConditionRow struct {
	PatientID       int64
	PatientName     *string
	BirthDate       *time.Time
	Sex             *string
	ConditionID     int64
	CIDCode         *string
	CIDDescription  *string
	CIAPCode        *string
	CIAPDescription *string
	StartDate       *time.Time
	EndDate         *time.Time
	SituationID     *string
	Note            *string
}

// Condition is the anonymized form of a ConditionRow.
type Condition struct {
	PatientID       int64   `json:"paciente_id"`
	PatientInitials string  `json:"paciente_initials"`
	BirthDate       *string `json:"birth_date"`
	Sex             *string `json:"sex"`
	ConditionID     int64   `json:"condition_id"`
	CIDCode         *string `json:"cid_code"`
	CIDDescription  *string `json:"cid_description"`
	CIAPCode        *string `json:"ciap_code"`
	CIAPDescription *string `json:"ciap_description"`
	StartDate       *string `json:"dt_inicio_condicao"`
	EndDate         *string `json:"dt_fim_condicao"`
	SituationID     *string `json:"situacao_id"`
	Note            *string `json:"observacao"`
}

// ToCondition drops the patient name, keeping only its initials.
func (r ConditionRow) ToCondition() Condition {
	return Condition{
		PatientID:       r.PatientID,
		PatientInitials: display.Initials(r.PatientName),
		BirthDate:       display.ISODate(r.BirthDate),
		Sex:             r.Sex,
		ConditionID:     r.ConditionID,
		CIDCode:         r.CIDCode,
		CIDDescription:  r.CIDDescription,
		CIAPCode:        r.CIAPCode,
		CIAPDescription: r.CIAPDescription,
		StartDate:       display.ISODate(r.StartDate),
		EndDate:         display.ISODate(r.EndDate),
		SituationID:     r.SituationID,
		Note:            r.Note,
	}
}

// ListArgs are the arguments of listar_condicoes_pacientes.
type ListArgs struct {
	filters.PatientFilter
	filters.ConditionCriteria
	Limit *int `json:"limite,omitempty"`
}
