package terminology

import (
	"context"

	"github.com/filiperochalopes/esus-pec-mcp/internal/platform/telemetry"
	"github.com/filiperochalopes/esus-pec-mcp/internal/platform/tools"
)

// Handler exposes the resolver as a tool.
type Handler struct {
	resolver *Resolver
	metrics  *telemetry.Metrics
}

// NewHandler creates a terminology handler. metrics may be nil.
func NewHandler(resolver *Resolver, metrics *telemetry.Metrics) *Handler {
	return &Handler{resolver: resolver, metrics: metrics}
}

// ResolveArgs are the arguments of obter_codigos_condicao_saude.
type ResolveArgs struct {
	Condition string `json:"condicao"`
	Limit     *int   `json:"limite,omitempty"`
}

// RegisterTools registers the terminology tools.
func (h *Handler) RegisterTools(reg *tools.Registry) {
	reg.Register(tools.Tool{
		Definition: tools.Definition{
			Name: "obter_codigos_condicao_saude",
			Description: "Returns the CID-10 and CIAP codes for a health condition name. " +
				"Common conditions come from curated presets; otherwise the code tables are searched. " +
				"With no match, fallback_condition_text is returned for use as condition_text in other tools.",
			Parameters: []tools.Param{
				{Name: "condicao", Type: "string", Required: true, Description: "condition name or code, up to 100 characters"},
				{Name: "limite", Type: "integer", Description: "maximum codes per coding system (default 50, max 200)"},
			},
		},
		Call: tools.Bind(h.Resolve),
	})
}

// Resolve runs the resolver for one tool call.
func (h *Handler) Resolve(ctx context.Context, args ResolveArgs) (*Resolution, error) {
	limit := DefaultLimit
	if args.Limit != nil {
		limit = *args.Limit
	}
	res, err := h.resolver.Resolve(ctx, args.Condition, limit)
	if err != nil {
		return nil, err
	}
	h.metrics.ObserveResolution(string(res.Source))
	return res, nil
}
