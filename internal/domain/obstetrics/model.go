package obstetrics

import (
	"fmt"
	"time"

	"github.com/filiperochalopes/esus-pec-mcp/internal/platform/display"
)

// Gestational age window, in days since the last menstrual period, of a
// pregnancy still under follow-up: 2 to 42 weeks.
const (
	MinGestationalDays = 14
	MaxGestationalDays = 294
)

// PregnancyRow is an open prenatal record.
type PregnancyRow struct {
	ID              int64
	PatientID       int64
	PatientName     *string
	DueDate         *time.Time
	GestationalDays int
	PregnancyType   *string
	HighRisk        *string
}

// Pregnancy is an active pregnancy as returned by listar_gestantes.
type Pregnancy struct {
	ID               int64   `json:"gestacao_id"`
	PatientID        int64   `json:"paciente_id"`
	PatientName      *string `json:"nome_paciente"`
	DueDate          *string `json:"dpp"`
	GestationalWeeks int     `json:"idade_gestacional_semanas"`
	GestationalDays  int     `json:"idade_gestacional_dias"`
	GestationalAge   string  `json:"idade_gestacional_str"`
	PregnancyType    *string `json:"tp_gravidez"`
	HighRisk         *string `json:"st_alto_risco"`
	Status           string  `json:"situacao"`
}

// ToPregnancy splits the gestational age into weeks and days ("12s3").
func (r PregnancyRow) ToPregnancy() Pregnancy {
	weeks, days := r.GestationalDays/7, r.GestationalDays%7
	return Pregnancy{
		ID:               r.ID,
		PatientID:        r.PatientID,
		PatientName:      r.PatientName,
		DueDate:          display.ISODate(r.DueDate),
		GestationalWeeks: weeks,
		GestationalDays:  days,
		GestationalAge:   fmt.Sprintf("%ds%d", weeks, days),
		PregnancyType:    r.PregnancyType,
		HighRisk:         r.HighRisk,
		Status:           "ativa",
	}
}

// ListArgs are the arguments of listar_gestantes.
type ListArgs struct {
	Limit *int `json:"limite,omitempty"`
}
