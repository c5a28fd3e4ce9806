package encounter

import (
	"context"
	"fmt"

	"github.com/filiperochalopes/esus-pec-mcp/internal/platform/db"
	"github.com/filiperochalopes/esus-pec-mcp/internal/platform/filters"
	"github.com/filiperochalopes/esus-pec-mcp/internal/platform/sqlq"
)

type encounterRepoPG struct{ q db.Querier }

// NewEncounterRepoPG returns an EncounterRepository backed by PostgreSQL.
func NewEncounterRepoPG(q db.Querier) EncounterRepository { return &encounterRepoPG{q: q} }

func (r *encounterRepoPG) ListSOAP(ctx context.Context, patientID int64, limit int) ([]SOAPRow, error) {
	sql, args := soapQuery(patientID, limit)
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list SOAP encounters: %w", err)
	}
	defer rows.Close()

	var out []SOAPRow
	for rows.Next() {
		var s SOAPRow
		if err := rows.Scan(
			&s.ID, &s.PatientID, &s.StartedAt, &s.CBOCode, &s.CBODescription, &s.Professional,
			&s.ProfessionalType, &s.EncounterType,
			&s.Subjective, &s.Objective, &s.Assessment, &s.Plan,
			&s.Conditions,
		); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// soapQuery aggregates the problem evolutions of each encounter into a JSON
// array, newest first.
func soapQuery(patientID int64, limit int) (string, []interface{}) {
	q := sqlq.NewQuery()
	q.Filter(sqlq.Eq{Expr: "pr.co_cidadao", Value: patientID}, filters.ConsultationProfessional())
	sql := fmt.Sprintf(`SELECT ap.co_seq_atend_prof, pr.co_cidadao, a.dt_inicio, cb.co_cbo_2002, cb.no_cbo,
    p.no_social_profissional, ap.tp_atend_prof::text, ap.tp_atend::text,
    es.ds_subjetivo, eo.ds_objetivo, ea.ds_avaliacao, ep.ds_plano,
    COALESCE(cond.condicoes, '[]'::json)
FROM tb_atend_prof ap
JOIN tb_atend a ON a.co_seq_atend = ap.co_atend
JOIN tb_prontuario pr ON pr.co_seq_prontuario = a.co_prontuario
LEFT JOIN tb_lotacao l ON l.co_ator_papel = ap.co_lotacao
LEFT JOIN tb_prof p ON p.co_seq_prof = l.co_prof
LEFT JOIN tb_cbo cb ON cb.co_cbo = l.co_cbo
LEFT JOIN tb_evolucao_subjetivo es ON es.co_atend_prof = ap.co_seq_atend_prof
LEFT JOIN tb_evolucao_objetivo eo ON eo.co_atend_prof = ap.co_seq_atend_prof
LEFT JOIN tb_evolucao_avaliacao ea ON ea.co_atend_prof = ap.co_seq_atend_prof
LEFT JOIN tb_evolucao_plano ep ON ep.co_atend_prof = ap.co_seq_atend_prof
LEFT JOIN LATERAL (
    SELECT json_agg(
        jsonb_build_object(
            'condition_id', p2.co_seq_problema,
            'cid_code', cid2.nu_cid10,
            'cid_description', cid2.no_cid10,
            'ciap_code', ciap2.co_ciap,
            'ciap_description', ciap2.ds_ciap,
            'observacao', pe2.ds_observacao,
            'dt_inicio_condicao', pe2.dt_inicio_problema::date::text,
            'dt_fim_condicao', pe2.dt_fim_problema::date::text,
            'situacao_id', pe2.co_situacao_problema::text
        )
        ORDER BY pe2.dt_inicio_problema DESC NULLS LAST, p2.co_seq_problema
    ) AS condicoes
    FROM tb_problema_evolucao pe2
    JOIN tb_problema p2 ON p2.co_unico_problema = pe2.co_unico_problema
    LEFT JOIN tb_cid10 cid2 ON cid2.co_cid10 = p2.co_cid10
    LEFT JOIN tb_ciap ciap2 ON ciap2.co_seq_ciap = p2.co_ciap
    WHERE pe2.co_atend_prof = ap.co_seq_atend_prof
) cond ON TRUE
%s
ORDER BY a.dt_inicio DESC NULLS LAST
LIMIT %s`, q.WhereSQL(), q.Arg(limit))
	return sql, q.Args()
}
