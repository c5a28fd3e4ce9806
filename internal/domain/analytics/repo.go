package analytics

import (
	"context"

	"github.com/filiperochalopes/esus-pec-mcp/internal/platform/sqlq"
)

// Repository runs the fixed analytical queries.
type Repository interface {
	// Comorbidities groups CID-10 problems of patients matching where.
	Comorbidities(ctx context.Context, where []sqlq.Predicate, limit int) ([]Comorbidity, error)
	// WithoutEncounter lists patients whose last encounter is more than days
	// old and who match where.
	WithoutEncounter(ctx context.Context, days int, where []sqlq.Predicate, limit int) ([]PersonRow, error)
	// LatestHbA1cAbove lists patients whose latest HbA1c exceeds threshold.
	LatestHbA1cAbove(ctx context.Context, threshold float64, limit int) ([]PersonRow, error)
	// LatestBloodPressureAbove lists patients whose latest blood pressure
	// exceeds systolic or diastolic.
	LatestBloodPressureAbove(ctx context.Context, systolic, diastolic, limit int) ([]PersonRow, error)
}
