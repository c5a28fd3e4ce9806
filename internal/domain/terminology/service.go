package terminology

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/filiperochalopes/esus-pec-mcp/internal/platform/guard"
	"github.com/filiperochalopes/esus-pec-mcp/internal/platform/sqlq"
)

const (
	// MaxConditionLength bounds the condition text accepted by Resolve.
	MaxConditionLength = 100
	// DefaultLimit is the per-system row cap when the caller sets none.
	DefaultLimit = 50
)

// Resolver turns a condition name into CID-10 and CIAP codes: a preset
// alias hit first, then a database search, else a fallback to free text.
type Resolver struct {
	repo    CodeRepository
	catalog *Catalog
}

// NewResolver creates a Resolver. A nil catalog means DefaultCatalog.
func NewResolver(repo CodeRepository, catalog *Catalog) *Resolver {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &Resolver{repo: repo, catalog: catalog}
}

// Catalog returns the resolver's preset catalog.
func (r *Resolver) Catalog() *Catalog { return r.catalog }

type lookup struct {
	system System
	where  sqlq.Predicate
}

// Resolve resolves text. limit is clamped into the listing profile.
func (r *Resolver) Resolve(ctx context.Context, text string, limit int) (*Resolution, error) {
	raw := strings.TrimSpace(text)
	if raw == "" {
		return nil, guard.Invalid("condicao", "is required")
	}
	if utf8.RuneCountInString(raw) > MaxConditionLength {
		return nil, guard.Invalid("condicao", "too long (max %d characters)", MaxConditionLength)
	}
	normalized := Normalize(raw)
	if normalized == "" {
		return nil, guard.Invalid("condicao", "must contain letters or digits")
	}

	logger := zerolog.Ctx(ctx)

	if p, ok := r.catalog.Lookup(normalized); ok {
		logger.Debug().Str("condition", normalized).Str("preset", p.Key).Msg("condition resolved from preset")
		return presetResolution(p), nil
	}

	limit = guard.Clamp(limit, guard.Listing)
	found := map[System][]ConditionCode{}
	for _, l := range planLookups(raw, normalized) {
		rows, err := r.repo.SearchCodes(ctx, l.system, l.where, limit)
		if err != nil {
			return nil, fmt.Errorf("resolve condition: %w", err)
		}
		found[l.system] = dedupeMatches(rows, limit)
	}

	res := &Resolution{
		Condition: raw,
		CIDCodes:  codesOf(found[CID10]),
		CIAPCodes: codesOf(found[CIAP]),
		CID:       nonNil(found[CID10]),
		CIAP:      nonNil(found[CIAP]),
	}
	if len(res.CID) == 0 && len(res.CIAP) == 0 {
		res.Source = SourceFallback
		res.FallbackConditionText = &raw
	} else {
		res.Source = SourceDatabase
	}
	logger.Debug().Str("condition", normalized).Str("source", string(res.Source)).
		Int("cid", len(res.CID)).Int("ciap", len(res.CIAP)).Msg("condition resolved")
	return res, nil
}

// planLookups picks the searches for raw. Code-shaped input is looked up by
// code prefix in the matching tables only; anything else is a text search on
// both tables.
func planLookups(raw, normalized string) []lookup {
	var out []lookup
	if m := Cid10Matcher.Match(raw); m.Shape != Unmatched {
		out = append(out, lookup{system: CID10, where: sqlq.Match{Expr: codeTables[CID10].code, Pattern: m.Pattern}})
	}
	if m := CiapMatcher.Match(raw); m.Shape != Unmatched {
		out = append(out, lookup{system: CIAP, where: sqlq.Match{Expr: codeTables[CIAP].code, Pattern: m.Pattern}})
	}
	if len(out) > 0 {
		return out
	}
	return []lookup{
		{system: CID10, where: textPredicate(codeTables[CID10], raw, normalized)},
		{system: CIAP, where: textPredicate(codeTables[CIAP], raw, normalized)},
	}
}

// textPredicate matches rows whose filtered description holds every token
// in any order, whose description contains raw, or whose code starts with
// raw.
func textPredicate(t codeTable, raw, normalized string) sqlq.Predicate {
	tokens := strings.Fields(normalized)
	all := make(sqlq.And, 0, len(tokens))
	for _, tok := range tokens {
		all = append(all, sqlq.Match{Expr: t.filter, Pattern: "%" + tok + "%"})
	}
	return sqlq.Or{
		all,
		sqlq.Match{Expr: t.description, Pattern: "%" + raw + "%"},
		sqlq.Match{Expr: t.code, Pattern: compactCode(raw) + "%"},
	}
}

func presetResolution(p Preset) *Resolution {
	res := &Resolution{
		Condition: p.Key,
		Source:    SourcePreset,
		CIDCodes:  p.CID,
		CIAPCodes: p.CIAP,
		CID:       make([]ConditionCode, 0, len(p.CID)),
		CIAP:      make([]ConditionCode, 0, len(p.CIAP)),
	}
	for _, code := range p.CID {
		res.CID = append(res.CID, ConditionCode{Code: code, System: CID10})
	}
	for _, code := range p.CIAP {
		res.CIAP = append(res.CIAP, ConditionCode{Code: code, System: CIAP})
	}
	return res
}

// dedupeMatches upper-cases codes, drops blanks and repeats (first wins)
// and caps the result at limit.
func dedupeMatches(rows []ConditionCode, limit int) []ConditionCode {
	seen := make(map[string]struct{}, len(rows))
	out := make([]ConditionCode, 0, len(rows))
	for _, row := range rows {
		code := strings.ToUpper(strings.TrimSpace(row.Code))
		if code == "" {
			continue
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		row.Code = code
		out = append(out, row)
		if len(out) == limit {
			break
		}
	}
	return out
}

func codesOf(codes []ConditionCode) []string {
	out := make([]string, len(codes))
	for i, c := range codes {
		out[i] = c.Code
	}
	return out
}

func nonNil(codes []ConditionCode) []ConditionCode {
	if codes == nil {
		return []ConditionCode{}
	}
	return codes
}
