package analytics

import "time"

// Query subtypes.
const (
	ComorbiditiesByFilter = "comorbidades_por_filtro"

	NoEncounterYear          = "sem_atendimento_ano"
	PregnantNoEncounterMonth = "gestante_sem_atendimento_mes"
	HypertensiveNoEncounter  = "hipertenso_sem_atendimento_6m"
	HbA1cAbove8              = "hba1c_maior_8"
	BloodPressureAbove       = "pa_maior_140_90"
)

// EpidemiologyArgs are the arguments of consulta_epidemiologia.
type EpidemiologyArgs struct {
	Kind       string  `json:"tipo,omitempty"`
	Sex        *string `json:"sexo,omitempty"`
	AgeMin     *int    `json:"idade_min,omitempty"`
	AgeMax     *int    `json:"idade_max,omitempty"`
	LocalityID *int64  `json:"localidade_id,omitempty"`
	Limit      *int    `json:"limite,omitempty"`
}

// Comorbidity counts the patients with a CID-10 problem in one
// sex / age band / locality group.
type Comorbidity struct {
	CIDCode        *string `json:"codigo_cid10"`
	CIDDescription *string `json:"descricao_cid10"`
	Sex            *string `json:"sexo"`
	AgeBand        *string `json:"faixa_etaria"`
	LocalityID     *int64  `json:"localidade_id"`
	Patients       int64   `json:"total_pacientes"`
}

// PersonalArgs are the arguments of consulta_pessoal.
type PersonalArgs struct {
	Kind  string `json:"tipo"`
	Limit *int   `json:"limite,omitempty"`
}

// PersonRow is a patient matched by a personal query with the date the
// match refers to.
type PersonRow struct {
	PatientID     int64
	PatientName   *string
	ReferenceDate *time.Time
	Metric        *string
}

// PersonMatch is a consulta_pessoal result.
type PersonMatch struct {
	PatientID     int64   `json:"paciente_id"`
	PatientName   *string `json:"nome_paciente"`
	ReferenceDate *string `json:"data_referencia"`
	Detail        *string `json:"detalhe"`
	Metric        *string `json:"metrica"`
}
