package telemetry

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_ObserveToolCall(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.ObserveToolCall("contar_pacientes", StatusOK, 20*time.Millisecond)
	m.ObserveToolCall("contar_pacientes", StatusOK, 30*time.Millisecond)
	m.ObserveToolCall("contar_pacientes", StatusInvalid, time.Millisecond)

	if got := testutil.ToFloat64(m.toolCalls.WithLabelValues("contar_pacientes", StatusOK)); got != 2 {
		t.Errorf("expected 2 ok calls, got %v", got)
	}
	if got := testutil.ToFloat64(m.toolCalls.WithLabelValues("contar_pacientes", StatusInvalid)); got != 1 {
		t.Errorf("expected 1 invalid call, got %v", got)
	}
	if n := testutil.CollectAndCount(m.toolDuration); n != 1 {
		t.Errorf("expected one histogram series, got %d", n)
	}
}

func TestMetrics_ObserveResolution(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	m.ObserveResolution("preset")
	m.ObserveResolution("fallback")
	m.ObserveResolution("preset")

	if got := testutil.ToFloat64(m.resolutions.WithLabelValues("preset")); got != 2 {
		t.Errorf("expected 2 preset resolutions, got %v", got)
	}
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveToolCall("x", StatusOK, time.Second)
	m.ObserveResolution("preset")
}

func TestMetrics_Endpoint(t *testing.T) {
	m := NewMetrics(nil)
	m.ObserveToolCall("listar_gestantes", StatusOK, time.Millisecond)

	e := echo.New()
	m.RegisterRoutes(e)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `pec_tool_calls_total{status="ok",tool="listar_gestantes"} 1`) {
		t.Errorf("tool counter missing from exposition:\n%s", body)
	}
	if !strings.Contains(body, "go_goroutines") {
		t.Error("expected runtime collectors on the default registry")
	}
}
