package terminology

import (
	"regexp"
	"strings"
	"unicode"
)

// Shape is the code format a raw input looks like.
type Shape int

const (
	Unmatched Shape = iota
	Cid10Shape
	CiapShape
)

func (s Shape) String() string {
	switch s {
	case Cid10Shape:
		return "cid10"
	case CiapShape:
		return "ciap"
	}
	return "unmatched"
}

// ShapeMatch is the outcome of a shape matcher. Pattern is the code-prefix
// LIKE pattern when the shape matched.
type ShapeMatch struct {
	Shape   Shape
	Pattern string
}

// ShapeMatcher recognizes one coding system's code format.
type ShapeMatcher struct {
	shape Shape
	re    *regexp.Regexp
}

var (
	// Cid10Matcher: letter, 1-2 digits, optional '.' and 1-2 digits (E11, I10.9).
	Cid10Matcher = ShapeMatcher{shape: Cid10Shape, re: regexp.MustCompile(`^[A-Z][0-9]{1,2}(\.[0-9]{1,2})?$`)}
	// CiapMatcher: letter and 2-3 digits (K86, T90).
	CiapMatcher = ShapeMatcher{shape: CiapShape, re: regexp.MustCompile(`^[A-Z][0-9]{2,3}$`)}
)

// Match tests raw with whitespace removed and upper-cased.
func (m ShapeMatcher) Match(raw string) ShapeMatch {
	code := compactCode(raw)
	if !m.re.MatchString(code) {
		return ShapeMatch{Shape: Unmatched}
	}
	return ShapeMatch{Shape: m.shape, Pattern: code + "%"}
}

func compactCode(raw string) string {
	return strings.ToUpper(strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw))
}
