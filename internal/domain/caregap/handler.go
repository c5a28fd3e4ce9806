package caregap

import (
	"strings"

	"github.com/filiperochalopes/esus-pec-mcp/internal/platform/tools"
)

// Handler registers the care-gap tools.
type Handler struct {
	svc *Service
}

// NewHandler creates a new care-gap handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func gapParams() []tools.Param {
	return []tools.Param{
		{Name: "tipo", Type: "string", Required: true, Description: strings.Join(CohortNames(), ", ")},
		{Name: "unidade_saude_id", Type: "integer", Description: "health unit; also restricts which consultations count"},
		{Name: "equipe_id", Type: "integer", Description: "current care team (co_seq_equipe)"},
		{Name: "micro_area", Type: "string", Description: "current micro-area"},
		{Name: "dias_sem_consulta", Type: "integer", Description: "days without consultation (default 180 for hipertensao and diabetes, 60 for gestante)"},
	}
}

// RegisterTools registers contar_pacientes_sem_consulta and
// listar_pacientes_sem_consulta.
func (h *Handler) RegisterTools(reg *tools.Registry) {
	reg.Register(tools.Tool{
		Definition: tools.Definition{
			Name:        "contar_pacientes_sem_consulta",
			Description: "Counts patients of a clinical profile without a physician or nurse consultation in the last N days.",
			Parameters:  gapParams(),
		},
		Call: tools.Bind(h.svc.Count),
	})
	reg.Register(tools.Tool{
		Definition: tools.Definition{
			Name:        "listar_pacientes_sem_consulta",
			Description: "Lists patients of a clinical profile without a physician or nurse consultation in the last N days, never-seen patients first.",
			Parameters: tools.With(gapParams(), []tools.Param{
				{Name: "limite", Type: "integer", Description: "maximum rows (default 50, max 200)"},
				{Name: "offset", Type: "integer", Description: "rows to skip"},
			}),
		},
		Call: tools.Bind(h.svc.List),
	})
}
