package identity

import (
	"github.com/filiperochalopes/esus-pec-mcp/internal/platform/tools"
)

// Handler registers the patient tools.
type Handler struct {
	svc *Service
}

// NewHandler creates a new identity handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterTools registers capturar_paciente and contar_pacientes.
func (h *Handler) RegisterTools(reg *tools.Registry) {
	reg.Register(tools.Tool{
		Definition: tools.Definition{
			Name: "capturar_paciente",
			Description: "Returns minimal, anonymized patient data (initials, birth date, sex). " +
				"At least one patient criterion is required.",
			Parameters: tools.With(tools.PatientParams, []tools.Param{
				{Name: "limite", Type: "integer", Description: "maximum rows (default 50, max 200)"},
			}),
		},
		Call: tools.Bind(h.svc.CapturePatients),
	})
	reg.Register(tools.Tool{
		Definition: tools.Definition{
			Name: "contar_pacientes",
			Description: "Counts distinct patients matching patient and condition filters. " +
				"cid_logic=AND requires every listed CID-10 code.",
			Parameters: tools.With(tools.PatientParams, tools.ConditionParams),
		},
		Call: tools.Bind(h.svc.CountPatients),
	})
}
