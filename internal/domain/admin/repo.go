package admin

import "context"

// UnitRepository reads tb_unidade_saude.
type UnitRepository interface {
	ListBasicUnits(ctx context.Context) ([]HealthUnit, error)
}
