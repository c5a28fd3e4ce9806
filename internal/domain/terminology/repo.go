package terminology

import (
	"context"

	"github.com/filiperochalopes/esus-pec-mcp/internal/platform/sqlq"
)

// CodeRepository searches a coding table. Rows come back ordered by code;
// where references the table's columns.
type CodeRepository interface {
	SearchCodes(ctx context.Context, system System, where sqlq.Predicate, limit int) ([]ConditionCode, error)
}
