package identity

import (
	"context"

	"github.com/filiperochalopes/esus-pec-mcp/internal/platform/sqlq"
)

// PatientRepository reads citizens.
type PatientRepository interface {
	// Find returns citizens matching every predicate, ordered by id.
	Find(ctx context.Context, where []sqlq.Predicate, limit int) ([]PatientRow, error)
	// Count returns the number of distinct citizens with a medical record
	// matching patient and condition. Condition predicates reference the
	// problem list join.
	Count(ctx context.Context, patient, condition []sqlq.Predicate) (int64, error)
}
