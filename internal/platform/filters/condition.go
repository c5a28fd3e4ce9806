package filters

import (
	"strings"

	"github.com/filiperochalopes/esus-pec-mcp/internal/platform/guard"
	"github.com/filiperochalopes/esus-pec-mcp/internal/platform/sqlq"
)

// MaxConditionText is the longest free-text refinement accepted.
const MaxConditionText = 100

// Logic combines code predicates.
type Logic string

const (
	LogicOr  Logic = "OR"
	LogicAnd Logic = "AND"
)

// ParseLogic accepts OR or AND in any case. Empty means OR.
func ParseLogic(field, s string) (Logic, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "OR":
		return LogicOr, nil
	case "AND":
		return LogicAnd, nil
	}
	return "", guard.Invalid(field, "must be OR or AND, got %q", s)
}

const cidProblemSource = "FROM tb_problema p2 " +
	"JOIN tb_prontuario pr2 ON pr2.co_seq_prontuario = p2.co_prontuario " +
	"LEFT JOIN tb_cid10 cid2 ON cid2.co_cid10 = p2.co_cid10 " +
	"WHERE pr2.co_cidadao = c.co_seq_cidadao"

// ConditionCriteria is the JSON shape of the clinical-code criteria.
type ConditionCriteria struct {
	CIDCode   string   `json:"cid_code,omitempty"`
	CIDCodes  []string `json:"cid_codes,omitempty"`
	CIAPCode  string   `json:"ciap_code,omitempty"`
	CIAPCodes []string `json:"ciap_codes,omitempty"`
	Text      string   `json:"condition_text,omitempty"`
	// CIDLogic combines several CID codes (OR by default).
	CIDLogic string `json:"cid_logic,omitempty"`
	// Combine joins the CID group with the CIAP group (OR by default).
	Combine string `json:"cid_ciap_logic,omitempty"`
}

// ConditionOptions carries per-call-site switches.
type ConditionOptions struct {
	// AllowCIDAnd permits CIDLogic=AND with more than one CID code. Without
	// it such a request is rejected.
	AllowCIDAnd bool
}

// conditionCriterion marks that some condition criterion was supplied, for
// guard.RequireAny.
type conditionCriterion string

func (c conditionCriterion) CriterionName() string { return string(c) }

// Criteria reports the condition criteria present, for guard.RequireAny.
func (cc ConditionCriteria) Criteria() []Criterion {
	var out []Criterion
	if len(codePatterns(cc.CIDCode, cc.CIDCodes)) > 0 {
		out = append(out, conditionCriterion("cid_codes"))
	}
	if len(codePatterns(cc.CIAPCode, cc.CIAPCodes)) > 0 {
		out = append(out, conditionCriterion("ciap_codes"))
	}
	if strings.TrimSpace(cc.Text) != "" {
		out = append(out, conditionCriterion("condition_text"))
	}
	return out
}

// NormalizeCodePrefix upper-cases a code and turns it into a prefix pattern
// unless it already carries a LIKE wildcard. It is idempotent.
func NormalizeCodePrefix(code string) string {
	v := strings.ToUpper(strings.TrimSpace(code))
	if v == "" {
		return ""
	}
	if !strings.ContainsAny(v, "%_") {
		v += "%"
	}
	return v
}

func codePatterns(single string, many []string) []string {
	var out []string
	if p := NormalizeCodePrefix(single); p != "" {
		out = append(out, p)
	}
	for _, code := range many {
		if p := NormalizeCodePrefix(code); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// BuildConditionFilters returns the predicates for CID-10, CIAP and free
// text criteria. Code groups come first, the text refinement is always last.
// With no codes and no text the result is empty; whether that is acceptable
// is the caller's decision.
func BuildConditionFilters(cc ConditionCriteria, opts ConditionOptions) ([]sqlq.Predicate, error) {
	cidLogic, err := ParseLogic("cid_logic", cc.CIDLogic)
	if err != nil {
		return nil, err
	}
	combine, err := ParseLogic("cid_ciap_logic", cc.Combine)
	if err != nil {
		return nil, err
	}

	text := strings.TrimSpace(cc.Text)
	if len([]rune(text)) > MaxConditionText {
		return nil, guard.Invalid("condition_text", "too long (max %d characters)", MaxConditionText)
	}

	var cid sqlq.Predicate
	if patterns := codePatterns(cc.CIDCode, cc.CIDCodes); len(patterns) > 0 {
		if cidLogic == LogicAnd {
			if len(patterns) > 1 && !opts.AllowCIDAnd {
				return nil, guard.Invalid("cid_logic", "AND is not supported here, use OR for several CID-10 codes")
			}
			all := make(sqlq.And, 0, len(patterns))
			for _, pat := range patterns {
				all = append(all, sqlq.Exists{Source: cidProblemSource, Cond: sqlq.Match{Expr: "cid2.nu_cid10", Pattern: pat}})
			}
			cid = all
		} else {
			cid = sqlq.MatchAny{Expr: "cid.nu_cid10", Patterns: patterns}
		}
	}

	var ciap sqlq.Predicate
	if patterns := codePatterns(cc.CIAPCode, cc.CIAPCodes); len(patterns) > 0 {
		// CIAP lists are always OR-ed.
		ciap = sqlq.MatchAny{Expr: "ciap.co_ciap", Patterns: patterns}
	}

	var preds []sqlq.Predicate
	switch {
	case cid != nil && ciap != nil && combine == LogicOr:
		preds = append(preds, sqlq.Or{cid, ciap})
	case cid != nil && ciap != nil:
		preds = append(preds, cid, ciap)
	case cid != nil:
		preds = append(preds, cid)
	case ciap != nil:
		preds = append(preds, ciap)
	}

	if text != "" {
		like := "%" + text + "%"
		preds = append(preds, sqlq.Or{
			sqlq.Match{Expr: "cid.no_cid10", Pattern: like},
			sqlq.Match{Expr: "ciap.ds_ciap", Pattern: like},
			sqlq.Match{Expr: "COALESCE(p.ds_outro, '')", Pattern: like},
			sqlq.Match{Expr: "COALESCE(ue.ds_observacao, '')", Pattern: like},
		})
	}

	return preds, nil
}
