package caregap

import (
	"context"

	"github.com/filiperochalopes/esus-pec-mcp/pkg/pagination"
)

// GapRepository finds cohort members without a recent consultation.
type GapRepository interface {
	Count(ctx context.Context, q GapQuery) (int64, error)
	List(ctx context.Context, q GapQuery, page pagination.Params) ([]GapRow, error)
}
