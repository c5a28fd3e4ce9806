package caregap

import (
	"context"
	"fmt"

	"github.com/filiperochalopes/esus-pec-mcp/internal/platform/db"
	"github.com/filiperochalopes/esus-pec-mcp/internal/platform/sqlq"
	"github.com/filiperochalopes/esus-pec-mcp/pkg/pagination"
)

const (
	countSelect = `COUNT(DISTINCT bp.paciente_id)`
	listSelect  = `bp.paciente_id, c.no_cidadao, c.dt_nascimento, c.no_sexo, ult.ultima_consulta,
    CASE WHEN ult.ultima_consulta IS NULL THEN NULL ELSE (CURRENT_DATE - ult.ultima_consulta) END`
)

type gapRepoPG struct{ q db.Querier }

// NewGapRepoPG returns a GapRepository backed by PostgreSQL.
func NewGapRepoPG(q db.Querier) GapRepository { return &gapRepoPG{q: q} }

func (r *gapRepoPG) Count(ctx context.Context, gq GapQuery) (int64, error) {
	q := sqlq.NewQuery()
	sql := gapSQL(q, gq, countSelect)
	var total int64
	if err := r.q.QueryRow(ctx, sql, q.Args()...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count %s care gap: %w", gq.Cohort.Name, err)
	}
	return total, nil
}

func (r *gapRepoPG) List(ctx context.Context, gq GapQuery, page pagination.Params) ([]GapRow, error) {
	q := sqlq.NewQuery()
	sql := gapSQL(q, gq, listSelect)
	sql += fmt.Sprintf("\nORDER BY ult.ultima_consulta NULLS FIRST, bp.paciente_id\nLIMIT %s OFFSET %s", q.Arg(page.Limit), q.Arg(page.Offset))

	rows, err := r.q.Query(ctx, sql, q.Args()...)
	if err != nil {
		return nil, fmt.Errorf("list %s care gap: %w", gq.Cohort.Name, err)
	}
	defer rows.Close()

	var out []GapRow
	for rows.Next() {
		var g GapRow
		if err := rows.Scan(&g.PatientID, &g.PatientName, &g.BirthDate, &g.Sex, &g.LastConsultation, &g.DaysWithout); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// gapSQL renders the cohort, the last consultation per patient and the
// outer filters, binding parameters in text order.
func gapSQL(q *sqlq.Query, gq GapQuery, selectList string) string {
	base := q.Clause(gq.Base...)
	recent := q.Clause(gq.Recent...)
	q.Filter(gq.Stale)
	q.Filter(gq.Patient...)

	return fmt.Sprintf(`WITH base_pacientes AS (
    SELECT DISTINCT pr.co_cidadao AS paciente_id
    %s
    WHERE %s
),
ultima_consulta AS (
    SELECT pr.co_cidadao AS paciente_id, MAX(a.dt_inicio)::date AS ultima_consulta
    FROM tb_atend_prof ap
    JOIN tb_atend a ON a.co_seq_atend = ap.co_atend
    JOIN tb_prontuario pr ON pr.co_seq_prontuario = a.co_prontuario
    LEFT JOIN tb_lotacao l ON l.co_ator_papel = ap.co_lotacao
    LEFT JOIN tb_cbo cb ON cb.co_cbo = l.co_cbo
    WHERE %s
    GROUP BY pr.co_cidadao
)
SELECT %s
FROM base_pacientes bp
JOIN tb_cidadao c ON c.co_seq_cidadao = bp.paciente_id
LEFT JOIN ultima_consulta ult ON ult.paciente_id = bp.paciente_id
%s`, gq.Cohort.source, base, recent, selectList, q.WhereSQL())
}
