// Package guard holds the policies that keep tool calls bounded: every call
// must be restricted by at least one criterion and every result cap is
// clamped into the range of a named limit profile.
package guard

import "strings"

// Criterion is one optional filter input. A nil Criterion is absent.
type Criterion interface {
	CriterionName() string
}

// RequireAny fails unless at least one criterion is present. Callers run it
// before building predicates so an empty filter never turns into a full scan.
func RequireAny(criteria ...Criterion) error {
	for _, c := range criteria {
		if c != nil {
			return nil
		}
	}
	return &ValidationError{Message: "at least one patient or condition criterion is required"}
}

// Profile is a named result cap.
type Profile struct {
	Name string
	Max  int
}

var (
	// Listing caps list and search tools.
	Listing = Profile{Name: "listing", Max: 200}
	// Aggregate caps epidemiological and aggregate tools.
	Aggregate = Profile{Name: "aggregate", Max: 500}
	// History caps single-patient history tools.
	History = Profile{Name: "history", Max: 1000}
)

var profiles = map[string]Profile{
	Listing.Name:   Listing,
	Aggregate.Name: Aggregate,
	History.Name:   History,
}

// ProfileByName looks up a profile by its name (case-insensitive).
func ProfileByName(name string) (Profile, error) {
	p, ok := profiles[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Profile{}, Invalid("profile", "unknown limit profile %q", name)
	}
	return p, nil
}

// Clamp forces limit into [1, p.Max]. Out-of-range values are clamped, never
// rejected.
func Clamp(limit int, p Profile) int {
	if limit < 1 {
		return 1
	}
	if limit > p.Max {
		return p.Max
	}
	return limit
}

// ClampOr clamps limit, substituting def when the caller supplied none.
func ClampOr(limit *int, def int, p Profile) int {
	if limit == nil {
		return Clamp(def, p)
	}
	return Clamp(*limit, p)
}
