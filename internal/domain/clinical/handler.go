package clinical

import (
	"github.com/filiperochalopes/esus-pec-mcp/internal/platform/tools"
)

// Handler registers the condition listing tool.
type Handler struct {
	svc *Service
}

// NewHandler creates a new clinical handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterTools registers listar_condicoes_pacientes.
func (h *Handler) RegisterTools(reg *tools.Registry) {
	reg.Register(tools.Tool{
		Definition: tools.Definition{
			Name: "listar_condicoes_pacientes",
			Description: "Lists CID-10/CIAP conditions recorded for patients, with the latest evolution of each problem. " +
				"At least one patient or condition criterion is required. " +
				"Use obter_codigos_condicao_saude to discover codes first.",
			Parameters: tools.With(tools.PatientParams, tools.ConditionParams, []tools.Param{
				{Name: "limite", Type: "integer", Description: "maximum rows (default 50, max 200)"},
			}),
		},
		Call: tools.Bind(h.svc.ListConditions),
	})
}
