package clinical

import (
	"context"
	"fmt"

	"github.com/filiperochalopes/esus-pec-mcp/internal/platform/db"
	"github.com/filiperochalopes/esus-pec-mcp/internal/platform/sqlq"
)

type conditionRepoPG struct{ q db.Querier }

// NewConditionRepoPG returns a ConditionRepository over tb_problema.
func NewConditionRepoPG(q db.Querier) ConditionRepository { return &conditionRepoPG{q: q} }

func (r *conditionRepoPG) ListConditions(ctx context.Context, where []sqlq.Predicate, limit int) ([]ConditionRow, error) {
	sql, args := listQuery(where, limit)
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list conditions: %w", err)
	}
	defer rows.Close()

	var out []ConditionRow
	for rows.Next() {
		var c ConditionRow
		if err := rows.Scan(
			&c.PatientID, &c.PatientName, &c.BirthDate, &c.Sex, &c.ConditionID,
			&c.CIDCode, &c.CIDDescription, &c.CIAPCode, &c.CIAPDescription,
			&c.StartDate, &c.EndDate, &c.SituationID, &c.Note,
		); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func listQuery(where []sqlq.Predicate, limit int) (string, []interface{}) {
	q := sqlq.NewQuery()
	q.Filter(where...)
	sql := fmt.Sprintf(`WITH ultima_evolucao AS (
    SELECT DISTINCT ON (e.co_unico_problema)
        e.co_unico_problema,
        e.dt_inicio_problema,
        e.dt_fim_problema,
        e.co_situacao_problema,
        e.ds_observacao
    FROM tb_problema_evolucao e
    ORDER BY e.co_unico_problema, e.co_sequencial_evolucao DESC, e.dt_inicio_problema DESC NULLS LAST
)
SELECT pr.co_cidadao, c.no_cidadao, c.dt_nascimento, c.no_sexo, p.co_seq_problema,
    cid.nu_cid10, cid.no_cid10, ciap.co_ciap, ciap.ds_ciap,
    ue.dt_inicio_problema, ue.dt_fim_problema, ue.co_situacao_problema::text, ue.ds_observacao
FROM tb_problema p
JOIN tb_prontuario pr ON pr.co_seq_prontuario = p.co_prontuario
JOIN tb_cidadao c ON c.co_seq_cidadao = pr.co_cidadao
LEFT JOIN ultima_evolucao ue ON ue.co_unico_problema = p.co_unico_problema
LEFT JOIN tb_cid10 cid ON cid.co_cid10 = p.co_cid10
LEFT JOIN tb_ciap ciap ON ciap.co_seq_ciap = p.co_ciap
%s
ORDER BY ue.dt_inicio_problema NULLS LAST, p.co_seq_problema
LIMIT %s`, q.WhereSQL(), q.Arg(limit))
	return sql, q.Args()
}
