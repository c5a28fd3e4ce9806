package admin

// HealthUnit is a basic health unit (UBS).
type HealthUnit struct {
	ID         int64   `json:"unidade_id"`
	CNES       *string `json:"cnes"`
	Name       *string `json:"name"`
	LocalityID *int64  `json:"localidade_id"`
	Active     bool    `json:"is_active"`
}

// ListArgs are the arguments of listar_unidades_saude. The tool takes none.
type ListArgs struct{}
