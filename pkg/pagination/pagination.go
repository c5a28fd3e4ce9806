// Package pagination normalizes limit/offset arguments of list tools.
package pagination

import "github.com/filiperochalopes/esus-pec-mcp/internal/platform/guard"

// DefaultLimit applies when a list tool receives no limit.
const DefaultLimit = 50

// Params holds a clamped page window.
type Params struct {
	Limit  int
	Offset int
}

// New clamps limit into profile (DefaultLimit when nil) and floors offset
// at zero.
func New(limit, offset *int, profile guard.Profile) Params {
	p := Params{Limit: guard.ClampOr(limit, DefaultLimit, profile)}
	if offset != nil && *offset > 0 {
		p.Offset = *offset
	}
	return p
}
