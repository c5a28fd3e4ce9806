package admin

import (
	"github.com/filiperochalopes/esus-pec-mcp/internal/platform/tools"
)

// Handler registers the administrative tools.
type Handler struct {
	svc *Service
}

// NewHandler creates a new admin handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterTools registers listar_unidades_saude.
func (h *Handler) RegisterTools(reg *tools.Registry) {
	reg.Register(tools.Tool{
		Definition: tools.Definition{
			Name:        "listar_unidades_saude",
			Description: "Lists basic health units (UBS) with their ids, for use as unidade_saude_id in other tools.",
			Parameters:  []tools.Param{},
		},
		Call: tools.Bind(h.svc.ListHealthUnits),
	})
}
