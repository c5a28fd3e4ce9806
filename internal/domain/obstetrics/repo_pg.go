package obstetrics

import (
	"context"
	"fmt"

	"github.com/filiperochalopes/esus-pec-mcp/internal/platform/db"
)

// The expected due date prefers the ultrasound estimate over LMP + 280 days.
const listActiveSQL = `WITH g AS (
    SELECT pn.co_seq_pre_natal, pr.co_cidadao, c.no_cidadao,
        pn.dt_ultima_menstruacao, pn.tp_gravidez::text AS tp_gravidez, pn.st_alto_risco::text AS st_alto_risco,
        ex.dt_provavel_parto_eco,
        (CURRENT_DATE - pn.dt_ultima_menstruacao::date) AS gest_days
    FROM tb_pre_natal pn
    JOIN tb_prontuario pr ON pr.co_seq_prontuario = pn.co_prontuario
    JOIN tb_cidadao c ON c.co_seq_cidadao = pr.co_cidadao
    LEFT JOIN tb_exame_prenatal ex ON ex.co_exame_requisitado = pn.co_seq_pre_natal
    WHERE pn.dt_desfecho IS NULL
)
SELECT g.co_seq_pre_natal, g.co_cidadao, g.no_cidadao,
    COALESCE(g.dt_provavel_parto_eco::date, (g.dt_ultima_menstruacao::date + INTERVAL '280 days')::date) AS dpp,
    g.gest_days, g.tp_gravidez, g.st_alto_risco
FROM g
WHERE g.gest_days BETWEEN $1 AND $2
ORDER BY dpp
LIMIT $3`

type pregnancyRepoPG struct{ q db.Querier }

// NewPregnancyRepoPG returns a PregnancyRepository over tb_pre_natal.
func NewPregnancyRepoPG(q db.Querier) PregnancyRepository { return &pregnancyRepoPG{q: q} }

func (r *pregnancyRepoPG) ListActive(ctx context.Context, minDays, maxDays, limit int) ([]PregnancyRow, error) {
	rows, err := r.q.Query(ctx, listActiveSQL, minDays, maxDays, limit)
	if err != nil {
		return nil, fmt.Errorf("list pregnancies: %w", err)
	}
	defer rows.Close()

	var out []PregnancyRow
	for rows.Next() {
		var p PregnancyRow
		if err := rows.Scan(&p.ID, &p.PatientID, &p.PatientName, &p.DueDate, &p.GestationalDays, &p.PregnancyType, &p.HighRisk); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
