package admin

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/filiperochalopes/esus-pec-mcp/internal/platform/tools"
)

type mockUnitRepo struct {
	units []HealthUnit
	err   error
}

func (m *mockUnitRepo) ListBasicUnits(context.Context) ([]HealthUnit, error) {
	return m.units, m.err
}

func strPtr(s string) *string { return &s }

func TestListHealthUnits(t *testing.T) {
	svc := NewService(&mockUnitRepo{units: []HealthUnit{{ID: 1, Name: strPtr("UBS Centro"), Active: true}}})
	units, err := svc.ListHealthUnits(context.Background(), ListArgs{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(units) != 1 || *units[0].Name != "UBS Centro" {
		t.Errorf("unexpected units: %+v", units)
	}
}

func TestListHealthUnits_Empty(t *testing.T) {
	units, err := NewService(&mockUnitRepo{}).ListHealthUnits(context.Background(), ListArgs{})
	if err != nil {
		t.Fatal(err)
	}
	if units == nil {
		t.Error("expected empty non-nil list")
	}
}

func TestListHealthUnits_Error(t *testing.T) {
	boom := errors.New("down")
	if _, err := NewService(&mockUnitRepo{err: boom}).ListHealthUnits(context.Background(), ListArgs{}); !errors.Is(err, boom) {
		t.Errorf("expected repository error, got %v", err)
	}
}

func TestHandler_ListHealthUnits(t *testing.T) {
	reg := tools.NewRegistry()
	NewHandler(NewService(&mockUnitRepo{})).RegisterTools(reg)
	e := echo.New()
	tools.NewHandler(reg, nil).RegisterRoutes(e.Group(""))

	for body, want := range map[string]int{
		"":             http.StatusOK,
		"{}":           http.StatusOK,
		`{"limite":5}`: http.StatusBadRequest,
	} {
		req := httptest.NewRequest(http.MethodPost, "/tools/listar_unidades_saude", strings.NewReader(body))
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != want {
			t.Errorf("body %q: expected %d, got %d", body, want, rec.Code)
		}
		if want == http.StatusOK {
			var out []HealthUnit
			if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil || out == nil {
				t.Errorf("expected empty JSON array, got %s", rec.Body.String())
			}
		}
	}
}
