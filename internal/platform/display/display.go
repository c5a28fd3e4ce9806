// Package display derives the caller-facing fields of query rows.
package display

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

var particles = map[string]struct{}{
	"de": {}, "da": {}, "do": {}, "das": {}, "dos": {},
}

// Initials reduces a full name to the upper-cased first letter of each
// word, skipping Portuguese particles: "Joao de Carvalho Lima" is "JCL".
// A missing or empty name yields "N/A".
func Initials(fullName *string) string {
	if fullName == nil {
		return "N/A"
	}
	var b strings.Builder
	for _, part := range strings.Fields(*fullName) {
		if _, skip := particles[strings.ToLower(part)]; skip {
			continue
		}
		r, _ := utf8.DecodeRuneInString(part)
		b.WriteRune(unicode.ToUpper(r))
	}
	if b.Len() == 0 {
		return "N/A"
	}
	return b.String()
}

// ISODate renders the date part of t as YYYY-MM-DD.
func ISODate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.DateOnly)
	return &s
}

// ISODateTime renders t as RFC 3339. Values without a zone (timestamp
// columns) come back from pgx in UTC and are rendered without an offset.
func ISODateTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	var s string
	if t.Location() == time.UTC {
		s = t.Format("2006-01-02T15:04:05")
	} else {
		s = t.Format(time.RFC3339)
	}
	return &s
}

// Text returns a copy of s with surrounding whitespace removed, or nil.
func Text(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
