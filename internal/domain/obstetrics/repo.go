package obstetrics

import "context"

// PregnancyRepository reads prenatal follow-ups.
type PregnancyRepository interface {
	ListActive(ctx context.Context, minDays, maxDays, limit int) ([]PregnancyRow, error)
}
