package encounter

import (
	"github.com/filiperochalopes/esus-pec-mcp/internal/platform/tools"
)

// Handler registers the encounter history tool.
type Handler struct {
	svc *Service
}

// NewHandler creates a new encounter handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterTools registers listar_ultimos_atendimentos_soap.
func (h *Handler) RegisterTools(reg *tools.Registry) {
	reg.Register(tools.Tool{
		Definition: tools.Definition{
			Name:        "listar_ultimos_atendimentos_soap",
			Description: "Returns the latest SOAP encounters of a patient with physicians and nurses, newest first, with the conditions recorded in each.",
			Parameters: []tools.Param{
				{Name: "paciente_id", Type: "integer", Required: true, Description: "citizen id (co_seq_cidadao)"},
				{Name: "limite", Type: "integer", Description: "maximum encounters (default and max 1000)"},
			},
		},
		Call: tools.Bind(h.svc.ListSOAP),
	})
}
