package identity

import (
	"context"
	"fmt"

	"github.com/filiperochalopes/esus-pec-mcp/internal/platform/db"
	"github.com/filiperochalopes/esus-pec-mcp/internal/platform/sqlq"
)

const latestEvolutionCTE = `WITH ultima_evolucao AS (
    SELECT DISTINCT ON (e.co_unico_problema)
        e.co_unico_problema,
        e.ds_observacao
    FROM tb_problema_evolucao e
    ORDER BY e.co_unico_problema, e.co_sequencial_evolucao DESC, e.dt_inicio_problema DESC NULLS LAST
)`

const problemJoins = `JOIN tb_problema p ON p.co_prontuario = pr.co_seq_prontuario
LEFT JOIN tb_cid10 cid ON cid.co_cid10 = p.co_cid10
LEFT JOIN tb_ciap ciap ON ciap.co_seq_ciap = p.co_ciap
LEFT JOIN ultima_evolucao ue ON ue.co_unico_problema = p.co_unico_problema`

type patientRepoPG struct{ q db.Querier }

// NewPatientRepoPG returns a PatientRepository over tb_cidadao.
func NewPatientRepoPG(q db.Querier) PatientRepository { return &patientRepoPG{q: q} }

func (r *patientRepoPG) Find(ctx context.Context, where []sqlq.Predicate, limit int) ([]PatientRow, error) {
	q := sqlq.NewQuery()
	q.Filter(where...)
	sql := fmt.Sprintf(`SELECT c.no_cidadao, c.dt_nascimento, c.no_sexo
FROM tb_cidadao c
%s
ORDER BY c.co_seq_cidadao
LIMIT %s`, q.WhereSQL(), q.Arg(limit))

	rows, err := r.q.Query(ctx, sql, q.Args()...)
	if err != nil {
		return nil, fmt.Errorf("find patients: %w", err)
	}
	defer rows.Close()

	var out []PatientRow
	for rows.Next() {
		var p PatientRow
		if err := rows.Scan(&p.Name, &p.BirthDate, &p.Sex); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *patientRepoPG) Count(ctx context.Context, patient, condition []sqlq.Predicate) (int64, error) {
	sql, args := countQuery(patient, condition)
	var total int64
	if err := r.q.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count patients: %w", err)
	}
	return total, nil
}

// countQuery joins the problem list only when condition predicates exist.
func countQuery(patient, condition []sqlq.Predicate) (string, []interface{}) {
	q := sqlq.NewQuery()
	q.Filter(patient...)
	q.Filter(condition...)

	cte, joins := "", ""
	if len(condition) > 0 {
		cte, joins = latestEvolutionCTE, problemJoins
	}
	sql := fmt.Sprintf(`%s
SELECT COUNT(DISTINCT c.co_seq_cidadao)
FROM tb_cidadao c
JOIN tb_prontuario pr ON pr.co_cidadao = c.co_seq_cidadao
%s
%s`, cte, joins, q.WhereSQL())
	return sql, q.Args()
}
