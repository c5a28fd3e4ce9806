package analytics

import (
	"strings"

	"github.com/filiperochalopes/esus-pec-mcp/internal/platform/tools"
)

// Handler registers the analytical tools.
type Handler struct {
	svc *Service
}

// NewHandler creates a new analytics handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterTools registers consulta_epidemiologia and consulta_pessoal.
func (h *Handler) RegisterTools(reg *tools.Registry) {
	reg.Register(tools.Tool{
		Definition: tools.Definition{
			Name: "consulta_epidemiologia",
			Description: "Aggregated epidemiological query. comorbidades_por_filtro counts patients per CID-10 problem, " +
				"sex, age band and locality.",
			Parameters: []tools.Param{
				{Name: "tipo", Type: "string", Description: ComorbiditiesByFilter + " (default)"},
				{Name: "sexo", Type: "string", Description: "M, F, I or MASCULINO, FEMININO, INDETERMINADO"},
				{Name: "idade_min", Type: "integer", Description: "minimum age in years"},
				{Name: "idade_max", Type: "integer", Description: "maximum age in years"},
				{Name: "localidade_id", Type: "integer", Description: "address locality (co_localidade_endereco)"},
				{Name: "limite", Type: "integer", Description: "maximum groups (default 50, max 500)"},
			},
		},
		Call: tools.Bind(h.svc.Epidemiology),
	})
	reg.Register(tools.Tool{
		Definition: tools.Definition{
			Name:        "consulta_pessoal",
			Description: "Lists patients matching a predefined clinical follow-up query.",
			Parameters: []tools.Param{
				{Name: "tipo", Type: "string", Required: true, Description: strings.Join(PersonalKinds(), ", ")},
				{Name: "limite", Type: "integer", Description: "maximum rows (default 50, max 500)"},
			},
		},
		Call: tools.Bind(h.svc.Personal),
	})
}
