package encounter

import (
	"context"

	"github.com/filiperochalopes/esus-pec-mcp/internal/platform/guard"
)

// Service reads encounter history.
type Service struct {
	encounters EncounterRepository
}

// NewService creates a new encounter service.
func NewService(encounters EncounterRepository) *Service {
	return &Service{encounters: encounters}
}

// ListSOAP returns the latest physician and nurse encounters of one
// patient, newest first. Without a limit up to the history maximum is
// returned.
func (s *Service) ListSOAP(ctx context.Context, args HistoryArgs) ([]SOAPNote, error) {
	if args.PatientID == nil {
		return nil, guard.Invalid("paciente_id", "is required")
	}
	if *args.PatientID <= 0 {
		return nil, guard.Invalid("paciente_id", "must be a positive integer")
	}

	rows, err := s.encounters.ListSOAP(ctx, *args.PatientID, guard.ClampOr(args.Limit, guard.History.Max, guard.History))
	if err != nil {
		return nil, err
	}
	out := make([]SOAPNote, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ToNote())
	}
	return out, nil
}
