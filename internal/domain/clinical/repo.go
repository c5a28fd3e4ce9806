package clinical

import (
	"context"

	"github.com/filiperochalopes/esus-pec-mcp/internal/platform/sqlq"
)

// ConditionRepository reads the problem list.
type ConditionRepository interface {
	ListConditions(ctx context.Context, where []sqlq.Predicate, limit int) ([]ConditionRow, error)
}
