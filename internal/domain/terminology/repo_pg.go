package terminology

import (
	"context"
	"fmt"

	"github.com/filiperochalopes/esus-pec-mcp/internal/platform/db"
	"github.com/filiperochalopes/esus-pec-mcp/internal/platform/sqlq"
)

type codeRepoPG struct{ q db.Querier }

// NewCodeRepoPG returns a CodeRepository over tb_cid10 and tb_ciap.
func NewCodeRepoPG(q db.Querier) CodeRepository { return &codeRepoPG{q: q} }

func (r *codeRepoPG) SearchCodes(ctx context.Context, system System, where sqlq.Predicate, limit int) ([]ConditionCode, error) {
	t, ok := codeTables[system]
	if !ok {
		return nil, fmt.Errorf("unknown coding system %q", system)
	}

	clause, args, next := where.Render(1)
	args = append(args, limit)
	sql := fmt.Sprintf(`SELECT %s, %s FROM %s WHERE %s ORDER BY %s LIMIT $%d`,
		t.code, t.description, t.name, clause, t.code, next)

	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("%s code search: %w", system, err)
	}
	defer rows.Close()

	var results []ConditionCode
	for rows.Next() {
		var code *string
		var desc *string
		if err := rows.Scan(&code, &desc); err != nil {
			return nil, err
		}
		if code == nil {
			continue
		}
		results = append(results, ConditionCode{Code: *code, Description: desc, System: system})
	}
	return results, rows.Err()
}
