package caregap

import (
	"time"

	"github.com/filiperochalopes/esus-pec-mcp/internal/platform/display"
	"github.com/filiperochalopes/esus-pec-mcp/internal/platform/sqlq"
)

// GapArgs select a cohort and the area to look at.
type GapArgs struct {
	Cohort     string  `json:"tipo"`
	FacilityID *int64  `json:"unidade_saude_id,omitempty"`
	TeamID     *int64  `json:"equipe_id,omitempty"`
	MicroArea  *string `json:"micro_area,omitempty"`
	Days       *int    `json:"dias_sem_consulta,omitempty"`
}

// ListGapArgs add a page window to GapArgs.
type ListGapArgs struct {
	GapArgs
	Limit  *int `json:"limite,omitempty"`
	Offset *int `json:"offset,omitempty"`
}

// GapQuery is a validated care-gap search.
type GapQuery struct {
	Cohort Cohort
	// Base restricts the cohort source.
	Base []sqlq.Predicate
	// Recent restricts which encounters count as a consultation.
	Recent []sqlq.Predicate
	// Stale matches patients whose last consultation is missing or too old.
	Stale sqlq.Predicate
	// Patient restricts the cohort by area.
	Patient []sqlq.Predicate
}

// GapRow is a cohort member with their last consultation.
type GapRow struct {
	PatientID        int64
	PatientName      *string
	BirthDate        *time.Time
	Sex              *string
	LastConsultation *time.Time
	DaysWithout      *int
}

// GapPatient is the anonymized form of a GapRow.
type GapPatient struct {
	PatientID        int64   `json:"paciente_id"`
	PatientInitials  string  `json:"paciente_initials"`
	BirthDate        *string `json:"birth_date"`
	Sex              *string `json:"sex"`
	LastConsultation *string `json:"ultima_consulta"`
	DaysWithout      *int    `json:"dias_sem_consulta"`
}

// ToPatient drops the name, keeping its initials.
func (r GapRow) ToPatient() GapPatient {
	return GapPatient{
		PatientID:        r.PatientID,
		PatientInitials:  display.Initials(r.PatientName),
		BirthDate:        display.ISODate(r.BirthDate),
		Sex:              r.Sex,
		LastConsultation: display.ISODate(r.LastConsultation),
		DaysWithout:      r.DaysWithout,
	}
}

// CountResult is the answer of contar_pacientes_sem_consulta.
type CountResult struct {
	Count int64 `json:"count"`
}
