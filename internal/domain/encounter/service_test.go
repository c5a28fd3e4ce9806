package encounter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/filiperochalopes/esus-pec-mcp/internal/platform/guard"
	"github.com/filiperochalopes/esus-pec-mcp/internal/platform/tools"
)

type mockEncounterRepo struct {
	rows      []SOAPRow
	err       error
	patientID int64
	limit     int
	calls     int
}

func (m *mockEncounterRepo) ListSOAP(_ context.Context, patientID int64, limit int) ([]SOAPRow, error) {
	m.calls++
	m.patientID, m.limit = patientID, limit
	return m.rows, m.err
}

func int64Ptr(v int64) *int64 { return &v }
func intPtr(v int) *int       { return &v }
func strPtr(s string) *string { return &s }

func TestListSOAP_Success(t *testing.T) {
	at := time.Date(2024, 2, 3, 14, 30, 0, 0, time.UTC)
	repo := &mockEncounterRepo{rows: []SOAPRow{
		{ID: 5, PatientID: 9, StartedAt: &at, Subjective: strPtr("cefaleia"),
			Conditions: []RecordedCondition{{ConditionID: 1, CIDCode: strPtr("R51")}}},
		{ID: 4, PatientID: 9},
	}}
	out, err := NewService(repo).ListSOAP(context.Background(), HistoryArgs{PatientID: int64Ptr(9)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 notes, got %d", len(out))
	}
	if *out[0].StartedAt != "2024-02-03T14:30:00" {
		t.Errorf("unexpected timestamp %s", *out[0].StartedAt)
	}
	if out[1].Conditions == nil {
		t.Error("conditions must be an empty list, not null")
	}
	if repo.patientID != 9 || repo.limit != guard.History.Max {
		t.Errorf("unexpected repository call: id=%d limit=%d", repo.patientID, repo.limit)
	}
}

func TestListSOAP_LimitClamped(t *testing.T) {
	repo := &mockEncounterRepo{}
	svc := NewService(repo)
	for in, want := range map[int]int{3: 3, 0: 1, 5000: 1000} {
		if _, err := svc.ListSOAP(context.Background(), HistoryArgs{PatientID: int64Ptr(1), Limit: intPtr(in)}); err != nil {
			t.Fatal(err)
		}
		if repo.limit != want {
			t.Errorf("limit %d: expected %d, got %d", in, want, repo.limit)
		}
	}
}

func TestListSOAP_Validation(t *testing.T) {
	for _, id := range []*int64{nil, int64Ptr(0), int64Ptr(-3)} {
		repo := &mockEncounterRepo{}
		if _, err := NewService(repo).ListSOAP(context.Background(), HistoryArgs{PatientID: id}); !guard.IsValidation(err) {
			t.Errorf("expected ValidationError, got %v", err)
		}
		if repo.calls != 0 {
			t.Error("repository must not be called for invalid input")
		}
	}
}

func TestListSOAP_RepoError(t *testing.T) {
	boom := errors.New("boom")
	if _, err := NewService(&mockEncounterRepo{err: boom}).ListSOAP(context.Background(), HistoryArgs{PatientID: int64Ptr(1)}); !errors.Is(err, boom) {
		t.Errorf("expected repository error, got %v", err)
	}
}

func TestSOAPQuery(t *testing.T) {
	sql, args := soapQuery(42, 10)
	if n := len(regexp.MustCompile(`\$\d+`).FindAllString(sql, -1)); n != len(args) {
		t.Errorf("placeholders %d != args %d", n, len(args))
	}
	if !strings.Contains(sql, "pr.co_cidadao = $1 AND cb.co_cbo_2002 ILIKE ANY($2)") {
		t.Errorf("unexpected WHERE clause:\n%s", sql)
	}
	if args[0] != int64(42) || args[2] != 10 {
		t.Errorf("unexpected args %v", args)
	}
}

func TestHandler_ListSOAP(t *testing.T) {
	reg := tools.NewRegistry()
	NewHandler(NewService(&mockEncounterRepo{rows: []SOAPRow{{ID: 1, PatientID: 2}}})).RegisterTools(reg)
	e := echo.New()
	tools.NewHandler(reg, nil).RegisterRoutes(e.Group(""))

	req := httptest.NewRequest(http.MethodPost, "/tools/listar_ultimos_atendimentos_soap", strings.NewReader(`{"paciente_id":2}`))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var out []map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if conds, ok := out[0]["condicoes"].([]interface{}); !ok || len(conds) != 0 {
		t.Errorf("expected empty condicoes array, got %v", out[0]["condicoes"])
	}

	req = httptest.NewRequest(http.MethodPost, "/tools/listar_ultimos_atendimentos_soap", strings.NewReader(`{}`))
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 without paciente_id, got %d", rec.Code)
	}
}
