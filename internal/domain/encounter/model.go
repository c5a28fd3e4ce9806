package encounter

import (
	"time"

	"github.com/filiperochalopes/esus-pec-mcp/internal/platform/display"
)

// RecordedCondition is a problem evolution registered during an encounter.
type RecordedCondition struct {
	ConditionID     int64   `json:"condition_id"`
	CIDCode         *string `json:"cid_code"`
	CIDDescription  *string `json:"cid_description"`
	CIAPCode        *string `json:"ciap_code"`
	CIAPDescription *string `json:"ciap_description"`
	Note            *string `json:"observacao"`
	StartDate       *string `json:"dt_inicio_condicao"`
	EndDate         *string `json:"dt_fim_condicao"`
	SituationID     *string `json:"situacao_id"`
}

// SOAPRow is one professional encounter as read from tb_atend_prof.
type SOAPRow struct {
	ID               int64
	PatientID        int64
	StartedAt        *time.Time
	CBOCode          *string
	CBODescription   *string
	Professional     *string
	ProfessionalType *string
	EncounterType    *string
	Subjective       *string
	Objective        *string
	Assessment       *string
	Plan             *string
	Conditions       []RecordedCondition
}

// SOAPNote is the tool representation of a SOAPRow.
type SOAPNote struct {
	ID               int64               `json:"atendimento_id"`
	PatientID        int64               `json:"paciente_id"`
	StartedAt        *string             `json:"data_hora"`
	CBOCode          *string             `json:"cbo_codigo"`
	CBODescription   *string             `json:"cbo_descricao"`
	Professional     *string             `json:"profissional"`
	ProfessionalType *string             `json:"tipo_profissional_id"`
	EncounterType    *string             `json:"tipo_atendimento_id"`
	Subjective       *string             `json:"soap_s"`
	Objective        *string             `json:"soap_o"`
	Assessment       *string             `json:"soap_a"`
	Plan             *string             `json:"soap_p"`
	Conditions       []RecordedCondition `json:"condicoes"`
}

// ToNote renders timestamps and guarantees a non-nil condition list.
func (r SOAPRow) ToNote() SOAPNote {
	conds := r.Conditions
	if conds == nil {
		conds = []RecordedCondition{}
	}
	return SOAPNote{
		ID:               r.ID,
		PatientID:        r.PatientID,
		StartedAt:        display.ISODateTime(r.StartedAt),
		CBOCode:          r.CBOCode,
		CBODescription:   r.CBODescription,
		Professional:     r.Professional,
		ProfessionalType: r.ProfessionalType,
		EncounterType:    r.EncounterType,
		Subjective:       r.Subjective,
		Objective:        r.Objective,
		Assessment:       r.Assessment,
		Plan:             r.Plan,
		Conditions:       conds,
	}
}

// HistoryArgs are the arguments of listar_ultimos_atendimentos_soap.
type HistoryArgs struct {
	PatientID *int64 `json:"paciente_id"`
	Limit     *int   `json:"limite,omitempty"`
}
