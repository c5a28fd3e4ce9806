package caregap

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/filiperochalopes/esus-pec-mcp/internal/platform/guard"
	"github.com/filiperochalopes/esus-pec-mcp/internal/platform/sqlq"
	"github.com/filiperochalopes/esus-pec-mcp/pkg/pagination"
)

// =========== Mock Repository ===========

type mockGapRepo struct {
	rows  []GapRow
	total int64
	err   error
	query GapQuery
	page  pagination.Params
	calls int
}

func (m *mockGapRepo) Count(_ context.Context, q GapQuery) (int64, error) {
	m.calls++
	m.query = q
	return m.total, m.err
}

func (m *mockGapRepo) List(_ context.Context, q GapQuery, page pagination.Params) ([]GapRow, error) {
	m.calls++
	m.query, m.page = q, page
	return m.rows, m.err
}

func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }
func strPtr(s string) *string { return &s }

func render(q GapQuery) (string, []interface{}) {
	sq := sqlq.NewQuery()
	sql := gapSQL(sq, q, countSelect)
	return sql, sq.Args()
}

// =========== Build ===========

func TestBuild_DefaultDays(t *testing.T) {
	tests := []struct {
		cohort string
		days   int
	}{
		{"hipertensao", 180},
		{" Diabetes ", 180},
		{"GESTANTE", 60},
	}
	for _, tt := range tests {
		t.Run(tt.cohort, func(t *testing.T) {
			gq, err := Build(GapArgs{Cohort: tt.cohort})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			_, args, _ := gq.Stale.Render(1)
			if len(args) != 1 || args[0] != tt.days {
				t.Errorf("expected %d days, got %v", tt.days, args)
			}
		})
	}
}

func TestBuild_HypertensionCodes(t *testing.T) {
	gq, err := Build(GapArgs{Cohort: "hipertensao", Days: intPtr(90)})
	if err != nil {
		t.Fatal(err)
	}
	clause, args, _ := sqlq.Where(gq.Base, 1)
	if clause != "(cid.nu_cid10 ILIKE ANY($1) OR ciap.co_ciap ILIKE ANY($2))" {
		t.Errorf("unexpected base clause: %s", clause)
	}
	cid := args[0].([]string)
	if strings.Join(cid, ",") != "I10%,I11%,I12%,I13%,I15%" {
		t.Errorf("unexpected CID patterns: %v", cid)
	}
	if strings.Join(args[1].([]string), ",") != "K86%,K87%" {
		t.Errorf("unexpected CIAP patterns: %v", args[1])
	}
}

func TestBuild_Validation(t *testing.T) {
	tests := []struct {
		name string
		args GapArgs
	}{
		{"missing cohort", GapArgs{}},
		{"unknown cohort", GapArgs{Cohort: "asma"}},
		{"zero days", GapArgs{Cohort: "diabetes", Days: intPtr(0)}},
		{"negative facility", GapArgs{Cohort: "diabetes", FacilityID: int64Ptr(-1)}},
		{"zero team", GapArgs{Cohort: "gestante", TeamID: int64Ptr(0)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Build(tt.args); !guard.IsValidation(err) {
				t.Errorf("expected ValidationError, got %v", err)
			}
		})
	}
}

func TestBuild_BlankMicroAreaIgnored(t *testing.T) {
	gq, err := Build(GapArgs{Cohort: "gestante", MicroArea: strPtr("  ")})
	if err != nil {
		t.Fatal(err)
	}
	if len(gq.Patient) != 0 {
		t.Errorf("expected no patient filters, got %d", len(gq.Patient))
	}
}

// =========== SQL ===========

func TestGapSQL_ParameterOrder(t *testing.T) {
	gq, err := Build(GapArgs{Cohort: "diabetes", FacilityID: int64Ptr(12), MicroArea: strPtr("03"), Days: intPtr(30)})
	if err != nil {
		t.Fatal(err)
	}
	sql, args := render(gq)

	if n := len(regexp.MustCompile(`\$\d+`).FindAllString(sql, -1)); n != len(args) {
		t.Fatalf("placeholders %d != args %d", n, len(args))
	}
	for _, frag := range []string{
		"WHERE (cid.nu_cid10 ILIKE ANY($1) OR ciap.co_ciap ILIKE ANY($2))",
		"WHERE cb.co_cbo_2002 ILIKE ANY($3) AND a.co_unidade_saude = $4",
		"(ult.ultima_consulta IS NULL OR (CURRENT_DATE - ult.ultima_consulta) > $5)",
		"a.co_unidade_saude = $6",
		"us.co_seq_unidade_saude = $7",
		"ci.nu_micro_area = $8",
	} {
		if !strings.Contains(sql, frag) {
			t.Errorf("missing %q in:\n%s", frag, sql)
		}
	}
	if args[3] != int64(12) || args[4] != 30 || args[7] != "03" {
		t.Errorf("unexpected args: %v", args)
	}
}

func TestGapSQL_Prenatal(t *testing.T) {
	gq, err := Build(GapArgs{Cohort: "gestante"})
	if err != nil {
		t.Fatal(err)
	}
	sql, args := render(gq)
	if !strings.Contains(sql, "FROM tb_pre_natal pn") || !strings.Contains(sql, "pn.dt_desfecho IS NULL") {
		t.Errorf("unexpected cohort source:\n%s", sql)
	}
	if args[0] != 7 || args[1] != 294 || args[3] != 60 {
		t.Errorf("unexpected args: %v", args)
	}
}

// =========== Service ===========

func TestCount(t *testing.T) {
	repo := &mockGapRepo{total: 17}
	out, err := NewService(repo).Count(context.Background(), GapArgs{Cohort: "hipertensao", TeamID: int64Ptr(4)})
	if err != nil {
		t.Fatal(err)
	}
	if out.Count != 17 {
		t.Errorf("expected 17, got %d", out.Count)
	}
	if repo.query.Cohort.Name != "hipertensao" || len(repo.query.Patient) != 1 {
		t.Errorf("unexpected query: %+v", repo.query)
	}
}

func TestList(t *testing.T) {
	last := time.Date(2023, 11, 5, 0, 0, 0, 0, time.UTC)
	days := 200
	repo := &mockGapRepo{rows: []GapRow{
		{PatientID: 1, PatientName: strPtr("Carlos Alberto"), LastConsultation: &last, DaysWithout: &days},
		{PatientID: 2},
	}}
	out, err := NewService(repo).List(context.Background(), ListGapArgs{
		GapArgs: GapArgs{Cohort: "diabetes"},
		Limit:   intPtr(1000),
		Offset:  intPtr(-4),
	})
	if err != nil {
		t.Fatal(err)
	}
	if repo.page.Limit != 200 || repo.page.Offset != 0 {
		t.Errorf("unexpected page: %+v", repo.page)
	}
	if out[0].PatientInitials != "CA" || *out[0].LastConsultation != "2023-11-05" || *out[0].DaysWithout != 200 {
		t.Errorf("unexpected first row: %+v", out[0])
	}
	if out[1].LastConsultation != nil || out[1].DaysWithout != nil {
		t.Errorf("never-seen patient should have null dates: %+v", out[1])
	}
}

func TestService_Errors(t *testing.T) {
	repo := &mockGapRepo{}
	if _, err := NewService(repo).List(context.Background(), ListGapArgs{GapArgs: GapArgs{Cohort: "x"}}); !guard.IsValidation(err) {
		t.Errorf("expected ValidationError, got %v", err)
	}
	if repo.calls != 0 {
		t.Error("repository must not be called for invalid input")
	}

	boom := errors.New("boom")
	if _, err := NewService(&mockGapRepo{err: boom}).Count(context.Background(), GapArgs{Cohort: "gestante"}); !errors.Is(err, boom) {
		t.Errorf("expected repository error, got %v", err)
	}
}
