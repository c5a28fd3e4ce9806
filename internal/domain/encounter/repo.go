package encounter

import "context"

// EncounterRepository reads professional encounters and their SOAP notes.
type EncounterRepository interface {
	ListSOAP(ctx context.Context, patientID int64, limit int) ([]SOAPRow, error)
}
