package obstetrics

import (
	"github.com/filiperochalopes/esus-pec-mcp/internal/platform/tools"
)

// Handler registers the prenatal tools.
type Handler struct {
	svc *Service
}

// NewHandler creates a new obstetrics handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterTools registers listar_gestantes.
func (h *Handler) RegisterTools(reg *tools.Registry) {
	reg.Register(tools.Tool{
		Definition: tools.Definition{
			Name:        "listar_gestantes",
			Description: "Lists active pregnancies between 2 and 42 weeks, ordered by expected due date (dpp).",
			Parameters: []tools.Param{
				{Name: "limite", Type: "integer", Description: "maximum rows (default 50, max 200)"},
			},
		},
		Call: tools.Bind(h.svc.ListActive),
	})
}
