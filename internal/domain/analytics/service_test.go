package analytics

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/filiperochalopes/esus-pec-mcp/internal/platform/guard"
	"github.com/filiperochalopes/esus-pec-mcp/internal/platform/sqlq"
)

// =========== Mock Repository ===========

type mockRepo struct {
	comorbidities []Comorbidity
	people        []PersonRow
	err           error

	method    string
	where     []sqlq.Predicate
	days      int
	limit     int
	threshold float64
	sys, dia  int
}

func (m *mockRepo) Comorbidities(_ context.Context, where []sqlq.Predicate, limit int) ([]Comorbidity, error) {
	m.method, m.where, m.limit = "comorbidities", where, limit
	return m.comorbidities, m.err
}

func (m *mockRepo) WithoutEncounter(_ context.Context, days int, where []sqlq.Predicate, limit int) ([]PersonRow, error) {
	m.method, m.days, m.where, m.limit = "without", days, where, limit
	return m.people, m.err
}

func (m *mockRepo) LatestHbA1cAbove(_ context.Context, threshold float64, limit int) ([]PersonRow, error) {
	m.method, m.threshold, m.limit = "hba1c", threshold, limit
	return m.people, m.err
}

func (m *mockRepo) LatestBloodPressureAbove(_ context.Context, sys, dia, limit int) ([]PersonRow, error) {
	m.method, m.sys, m.dia, m.limit = "pa", sys, dia, limit
	return m.people, m.err
}

func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }

var placeholderRe = regexp.MustCompile(`\$\d+`)

// =========== Epidemiology ===========

func TestEpidemiology_Filters(t *testing.T) {
	repo := &mockRepo{}
	out, err := NewService(repo).Epidemiology(context.Background(), EpidemiologyArgs{
		Sex:        strPtr("f"),
		AgeMin:     intPtr(40),
		LocalityID: int64Ptr(77),
		Limit:      intPtr(2000),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out == nil {
		t.Error("expected empty non-nil result")
	}
	if repo.limit != guard.Aggregate.Max {
		t.Errorf("expected aggregate clamp %d, got %d", guard.Aggregate.Max, repo.limit)
	}

	clause, args, _ := sqlq.Where(repo.where, 1)
	want := "c.no_sexo = $1 AND DATE_PART('year', AGE(CURRENT_DATE, c.dt_nascimento)) >= $2 AND c.co_localidade_endereco = $3"
	if clause != want {
		t.Errorf("got %s\nwant %s", clause, want)
	}
	if args[0] != "FEMININO" || args[1] != 40 || args[2] != int64(77) {
		t.Errorf("unexpected args: %v", args)
	}
}

func TestEpidemiology_Validation(t *testing.T) {
	tests := []struct {
		name string
		args EpidemiologyArgs
	}{
		{"unknown kind", EpidemiologyArgs{Kind: "mortalidade"}},
		{"bad sex", EpidemiologyArgs{Sex: strPtr("x")}},
		{"inverted ages", EpidemiologyArgs{AgeMin: intPtr(60), AgeMax: intPtr(10)}},
		{"bad locality", EpidemiologyArgs{LocalityID: int64Ptr(0)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockRepo{}
			if _, err := NewService(repo).Epidemiology(context.Background(), tt.args); !guard.IsValidation(err) {
				t.Errorf("expected ValidationError, got %v", err)
			}
			if repo.method != "" {
				t.Error("repository must not be called for invalid input")
			}
		})
	}
}

func TestComorbiditySQL(t *testing.T) {
	where := []sqlq.Predicate{sqlq.Eq{Expr: "c.no_sexo", Value: "MASCULINO"}}
	sql, args := comorbiditySQL(where, 10)
	if n := len(placeholderRe.FindAllString(sql, -1)); n != len(args) {
		t.Errorf("placeholders %d != args %d", n, len(args))
	}
	if !strings.Contains(sql, "WHERE c.no_sexo = $1") || !strings.Contains(sql, "LIMIT $2") {
		t.Errorf("unexpected SQL:\n%s", sql)
	}
}

// =========== Personal ===========

func TestPersonal_NoEncounterKinds(t *testing.T) {
	tests := []struct {
		kind   string
		days   int
		filter string
	}{
		{NoEncounterYear, 365, ""},
		{PregnantNoEncounterMonth, 30, "pn.dt_desfecho IS NULL"},
		{HypertensiveNoEncounter, 180, "cid2.nu_cid10 ILIKE $1"},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			ref := time.Date(2022, 3, 4, 0, 0, 0, 0, time.UTC)
			repo := &mockRepo{people: []PersonRow{{PatientID: 3, PatientName: strPtr("Ana"), ReferenceDate: &ref}}}
			out, err := NewService(repo).Personal(context.Background(), PersonalArgs{Kind: tt.kind})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if repo.method != "without" || repo.days != tt.days || repo.limit != 50 {
				t.Errorf("unexpected call: %s days=%d limit=%d", repo.method, repo.days, repo.limit)
			}
			clause, args, _ := sqlq.Where(repo.where, 1)
			if tt.filter == "" && clause != "" {
				t.Errorf("expected no filter, got %s", clause)
			}
			if !strings.Contains(clause, tt.filter) {
				t.Errorf("expected %q in %s", tt.filter, clause)
			}
			if tt.kind == HypertensiveNoEncounter && args[0] != "I10%" {
				t.Errorf("expected I10%% pattern, got %v", args)
			}
			if *out[0].ReferenceDate != "2022-03-04" || out[0].Detail != nil || *out[0].PatientName != "Ana" {
				t.Errorf("unexpected match: %+v", out[0])
			}
		})
	}
}

func TestPersonal_Measurements(t *testing.T) {
	at := time.Date(2024, 5, 6, 8, 15, 0, 0, time.UTC)
	repo := &mockRepo{people: []PersonRow{{PatientID: 8, ReferenceDate: &at, Metric: strPtr("150/95")}}}
	svc := NewService(repo)

	out, err := svc.Personal(context.Background(), PersonalArgs{Kind: BloodPressureAbove, Limit: intPtr(5)})
	if err != nil {
		t.Fatal(err)
	}
	if repo.sys != 140 || repo.dia != 90 || repo.limit != 5 {
		t.Errorf("unexpected thresholds: %d/%d limit %d", repo.sys, repo.dia, repo.limit)
	}
	if *out[0].Detail != "PA" || *out[0].Metric != "150/95" || *out[0].ReferenceDate != "2024-05-06T08:15:00" {
		t.Errorf("unexpected match: %+v", out[0])
	}

	out, err = svc.Personal(context.Background(), PersonalArgs{Kind: HbA1cAbove8})
	if err != nil {
		t.Fatal(err)
	}
	if repo.method != "hba1c" || repo.threshold != 8 {
		t.Errorf("unexpected call: %s %v", repo.method, repo.threshold)
	}
	if *out[0].Detail != "HbA1c" || *out[0].ReferenceDate != "2024-05-06" {
		t.Errorf("unexpected match: %+v", out[0])
	}
}

func TestPersonal_Errors(t *testing.T) {
	repo := &mockRepo{}
	for _, kind := range []string{"", "todos"} {
		if _, err := NewService(repo).Personal(context.Background(), PersonalArgs{Kind: kind}); !guard.IsValidation(err) {
			t.Errorf("%q: expected ValidationError, got %v", kind, err)
		}
	}
	boom := errors.New("boom")
	if _, err := NewService(&mockRepo{err: boom}).Personal(context.Background(), PersonalArgs{Kind: HbA1cAbove8}); !errors.Is(err, boom) {
		t.Errorf("expected repository error, got %v", err)
	}
}

func TestWithoutEncounterSQL(t *testing.T) {
	where, _ := hypertensive()
	sql, args := withoutEncounterSQL(180, where, 20)
	if n := len(placeholderRe.FindAllString(sql, -1)); n != len(args) {
		t.Errorf("placeholders %d != args %d", n, len(args))
	}
	if !strings.Contains(sql, "WHERE (CURRENT_DATE - ult.ultima_data) > $1 AND EXISTS") {
		t.Errorf("unexpected SQL:\n%s", sql)
	}
	if args[0] != 180 || args[1] != "I10%" || args[2] != 20 {
		t.Errorf("unexpected args: %v", args)
	}
}

func TestPersonalKinds(t *testing.T) {
	if got := strings.Join(PersonalKinds(), ","); got != "gestante_sem_atendimento_mes,hba1c_maior_8,hipertenso_sem_atendimento_6m,pa_maior_140_90,sem_atendimento_ano" {
		t.Errorf("unexpected kinds: %s", got)
	}
}
