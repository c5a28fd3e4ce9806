package analytics

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/filiperochalopes/esus-pec-mcp/internal/platform/db"
	"github.com/filiperochalopes/esus-pec-mcp/internal/platform/filters"
	"github.com/filiperochalopes/esus-pec-mcp/internal/platform/sqlq"
)

type repoPG struct{ q db.Querier }

// NewRepoPG returns a Repository backed by PostgreSQL.
func NewRepoPG(q db.Querier) Repository { return &repoPG{q: q} }

func comorbiditySQL(where []sqlq.Predicate, limit int) (string, []interface{}) {
	q := sqlq.NewQuery()
	q.Filter(where...)
	sql := fmt.Sprintf(`WITH base AS (
    SELECT pr.co_cidadao, cid.nu_cid10 AS codigo_cid10, cid.no_cid10 AS descricao_cid10,
        c.no_sexo AS sexo, c.co_localidade_endereco AS localidade_id, %s AS idade
    FROM tb_problema p
    JOIN tb_prontuario pr ON pr.co_seq_prontuario = p.co_prontuario
    JOIN tb_cidadao c ON c.co_seq_cidadao = pr.co_cidadao
    LEFT JOIN tb_cid10 cid ON cid.co_cid10 = p.co_cid10
    %s
)
SELECT codigo_cid10, descricao_cid10, sexo,
    CASE
        WHEN idade IS NULL THEN NULL
        WHEN idade < 12 THEN '0-11'
        WHEN idade BETWEEN 12 AND 17 THEN '12-17'
        WHEN idade BETWEEN 18 AND 39 THEN '18-39'
        WHEN idade BETWEEN 40 AND 59 THEN '40-59'
        ELSE '60+'
    END AS faixa_etaria,
    localidade_id,
    COUNT(DISTINCT co_cidadao) AS total_pacientes
FROM base
GROUP BY codigo_cid10, descricao_cid10, sexo, faixa_etaria, localidade_id
ORDER BY total_pacientes DESC NULLS LAST
LIMIT %s`, filters.AgeExpr, q.WhereSQL(), q.Arg(limit))
	return sql, q.Args()
}

func (r *repoPG) Comorbidities(ctx context.Context, where []sqlq.Predicate, limit int) ([]Comorbidity, error) {
	sql, args := comorbiditySQL(where, limit)
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("comorbidities: %w", err)
	}
	defer rows.Close()

	var out []Comorbidity
	for rows.Next() {
		var c Comorbidity
		if err := rows.Scan(&c.CIDCode, &c.CIDDescription, &c.Sex, &c.AgeBand, &c.LocalityID, &c.Patients); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func withoutEncounterSQL(days int, where []sqlq.Predicate, limit int) (string, []interface{}) {
	q := sqlq.NewQuery()
	q.Filter(sqlq.Cmp{Expr: "(CURRENT_DATE - ult.ultima_data)", Op: sqlq.OpGt, Value: days})
	q.Filter(where...)
	sql := fmt.Sprintf(`WITH ult AS (
    SELECT pr.co_cidadao, MAX(a.dt_inicio)::date AS ultima_data
    FROM tb_atend a
    JOIN tb_prontuario pr ON pr.co_seq_prontuario = a.co_prontuario
    GROUP BY pr.co_cidadao
)
SELECT c.co_seq_cidadao, c.no_cidadao, ult.ultima_data::timestamp, NULL::text
FROM ult
JOIN tb_cidadao c ON c.co_seq_cidadao = ult.co_cidadao
%s
ORDER BY ult.ultima_data NULLS FIRST, c.co_seq_cidadao
LIMIT %s`, q.WhereSQL(), q.Arg(limit))
	return sql, q.Args()
}

func (r *repoPG) WithoutEncounter(ctx context.Context, days int, where []sqlq.Predicate, limit int) ([]PersonRow, error) {
	sql, args := withoutEncounterSQL(days, where, limit)
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("patients without encounter: %w", err)
	}
	return scanPeople(rows)
}

const hba1cSQL = `WITH ex AS (
    SELECT pr.co_cidadao AS paciente_id,
        COALESCE(er.dt_resultado, er.dt_realizacao)::timestamp AS data_referencia,
        hg.vl_hemoglobina_glicada,
        ROW_NUMBER() OVER (
            PARTITION BY pr.co_cidadao
            ORDER BY COALESCE(er.dt_resultado, er.dt_realizacao) DESC NULLS LAST, er.co_seq_exame_requisitado DESC
        ) AS rn
    FROM tb_exame_hemoglobina_glicada hg
    JOIN tb_exame_requisitado er ON er.co_seq_exame_requisitado = hg.co_exame_requisitado
    JOIN tb_prontuario pr ON pr.co_seq_prontuario = er.co_prontuario
)
SELECT paciente_id, NULL::text, data_referencia, vl_hemoglobina_glicada::text
FROM ex
WHERE rn = 1 AND vl_hemoglobina_glicada > $1
ORDER BY data_referencia DESC NULLS LAST
LIMIT $2`

func (r *repoPG) LatestHbA1cAbove(ctx context.Context, threshold float64, limit int) ([]PersonRow, error) {
	rows, err := r.q.Query(ctx, hba1cSQL, threshold, limit)
	if err != nil {
		return nil, fmt.Errorf("latest HbA1c: %w", err)
	}
	return scanPeople(rows)
}

// Readings are stored as "systolic/diastolic" text.
const bloodPressureSQL = `WITH pa AS (
    SELECT pr.co_cidadao AS paciente_id, m.dt_medicao, m.nu_medicao_pressao_arterial,
        NULLIF(split_part(m.nu_medicao_pressao_arterial, '/', 1), '')::int AS sistolica,
        NULLIF(split_part(m.nu_medicao_pressao_arterial, '/', 2), '')::int AS diastolica,
        ROW_NUMBER() OVER (PARTITION BY pr.co_cidadao ORDER BY m.dt_medicao DESC NULLS LAST, m.co_seq_medicao DESC) AS rn
    FROM tb_medicao m
    JOIN tb_atend_prof ap ON ap.co_seq_atend_prof = m.co_atend_prof
    JOIN tb_atend a ON a.co_seq_atend = ap.co_atend
    JOIN tb_prontuario pr ON pr.co_seq_prontuario = a.co_prontuario
    WHERE m.nu_medicao_pressao_arterial IS NOT NULL
)
SELECT paciente_id, NULL::text, dt_medicao::timestamp, nu_medicao_pressao_arterial
FROM pa
WHERE rn = 1 AND (sistolica > $1 OR diastolica > $2)
ORDER BY dt_medicao DESC NULLS LAST
LIMIT $3`

func (r *repoPG) LatestBloodPressureAbove(ctx context.Context, systolic, diastolic, limit int) ([]PersonRow, error) {
	rows, err := r.q.Query(ctx, bloodPressureSQL, systolic, diastolic, limit)
	if err != nil {
		return nil, fmt.Errorf("latest blood pressure: %w", err)
	}
	return scanPeople(rows)
}

func scanPeople(rows pgx.Rows) ([]PersonRow, error) {
	defer rows.Close()
	var out []PersonRow
	for rows.Next() {
		var p PersonRow
		if err := rows.Scan(&p.PatientID, &p.PatientName, &p.ReferenceDate, &p.Metric); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
