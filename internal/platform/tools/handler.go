package tools

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/filiperochalopes/esus-pec-mcp/internal/platform/guard"
	"github.com/filiperochalopes/esus-pec-mcp/internal/platform/telemetry"
)

// Issue is one entry of an error outcome.
type Issue struct {
	Severity    string `json:"severity"`
	Code        string `json:"code"`
	Diagnostics string `json:"diagnostics"`
}

// Outcome is the error body returned by the tool endpoints.
type Outcome struct {
	Issue []Issue `json:"issue"`
}

// ErrorOutcome builds a single-issue error outcome.
func ErrorOutcome(code, diagnostics string) *Outcome {
	return &Outcome{Issue: []Issue{{Severity: "error", Code: code, Diagnostics: diagnostics}}}
}

// Handler serves the tool catalog.
type Handler struct {
	reg     *Registry
	metrics *telemetry.Metrics
}

// NewHandler creates a Handler. metrics may be nil.
func NewHandler(reg *Registry, metrics *telemetry.Metrics) *Handler {
	return &Handler{reg: reg, metrics: metrics}
}

// RegisterRoutes mounts GET /tools and POST /tools/:name.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/tools", h.List)
	g.POST("/tools/:name", h.Call)
}

// List handles GET /tools.
func (h *Handler) List(c echo.Context) error {
	return c.JSON(http.StatusOK, h.reg.Definitions())
}

// Call handles POST /tools/:name with a JSON object of arguments.
func (h *Handler) Call(c echo.Context) error {
	name := c.Param("name")
	tool, ok := h.reg.Get(name)
	if !ok {
		return c.JSON(http.StatusNotFound, ErrorOutcome("not-found", "unknown tool "+name))
	}

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return he
		}
		return c.JSON(http.StatusBadRequest, ErrorOutcome("invalid", "could not read request body"))
	}

	ctx := c.Request().Context()
	logger := zerolog.Ctx(ctx)
	start := time.Now()

	result, err := tool.Call(ctx, body)
	elapsed := time.Since(start)

	switch {
	case err == nil:
		h.metrics.ObserveToolCall(name, telemetry.StatusOK, elapsed)
		logger.Info().Str("tool", name).Dur("duration", elapsed).Msg("tool call")
		return c.JSON(http.StatusOK, result)
	case guard.IsValidation(err):
		h.metrics.ObserveToolCall(name, telemetry.StatusInvalid, elapsed)
		logger.Warn().Str("tool", name).Dur("duration", elapsed).Str("reason", err.Error()).Msg("tool call rejected")
		return c.JSON(http.StatusBadRequest, ErrorOutcome("invalid", err.Error()))
	case errors.Is(err, context.DeadlineExceeded):
		h.metrics.ObserveToolCall(name, telemetry.StatusError, elapsed)
		logger.Warn().Str("tool", name).Dur("duration", elapsed).Msg("tool call timed out")
		return c.JSON(http.StatusGatewayTimeout, ErrorOutcome("timeout", "request processing exceeded the allowed time limit"))
	default:
		h.metrics.ObserveToolCall(name, telemetry.StatusError, elapsed)
		logger.Error().Err(err).Str("tool", name).Dur("duration", elapsed).Msg("tool call failed")
		return c.JSON(http.StatusInternalServerError, ErrorOutcome("exception", "query failed"))
	}
}
