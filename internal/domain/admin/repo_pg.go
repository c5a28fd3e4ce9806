package admin

import (
	"context"
	"fmt"

	"github.com/filiperochalopes/esus-pec-mcp/internal/platform/db"
)

// BasicUnitType is the tb_tipo_unidade_saude name of a UBS.
const BasicUnitType = "CENTRO DE SAUDE/UNIDADE BASICA"

const listBasicUnitsSQL = `SELECT us.co_seq_unidade_saude, us.nu_cnes::text, us.no_unidade_saude,
    us.co_localidade_endereco, COALESCE(us.st_ativo::int, 0) <> 0
FROM tb_unidade_saude us
JOIN tb_tipo_unidade_saude tu ON tu.co_seq_tipo_unidade_saude = us.tp_unidade_saude
WHERE tu.no_tipo_unidade_saude = $1
ORDER BY us.no_unidade_saude`

type unitRepoPG struct{ q db.Querier }

// NewUnitRepoPG returns a UnitRepository backed by PostgreSQL.
func NewUnitRepoPG(q db.Querier) UnitRepository { return &unitRepoPG{q: q} }

func (r *unitRepoPG) ListBasicUnits(ctx context.Context) ([]HealthUnit, error) {
	rows, err := r.q.Query(ctx, listBasicUnitsSQL, BasicUnitType)
	if err != nil {
		return nil, fmt.Errorf("list health units: %w", err)
	}
	defer rows.Close()

	var out []HealthUnit
	for rows.Next() {
		var u HealthUnit
		if err := rows.Scan(&u.ID, &u.CNES, &u.Name, &u.LocalityID, &u.Active); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
