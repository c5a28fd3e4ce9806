// Package sqlq renders read-only SQL filters from a small predicate tree.
//
// Every value reaches the statement as a positional parameter ($1, $2, ...).
// Column expressions and subquery sources are compile-time constants owned
// by the callers; nothing derived from user input is ever formatted into the
// statement text.
package sqlq

import (
	"fmt"
	"strings"
)

// Predicate is a node of a WHERE clause. Render formats the node using
// positional parameters starting at argIdx and returns the clause, the
// arguments to bind in placeholder order and the next free index.
type Predicate interface {
	Render(argIdx int) (string, []interface{}, int)
}

// Operator is a comparison operator usable in Cmp.
type Operator string

const (
	OpEq Operator = "="
	OpGe Operator = ">="
	OpLe Operator = "<="
	OpGt Operator = ">"
	OpLt Operator = "<"
)

// Eq matches Expr = value.
type Eq struct {
	Expr  string
	Value interface{}
}

func (p Eq) Render(argIdx int) (string, []interface{}, int) {
	return fmt.Sprintf("%s = $%d", p.Expr, argIdx), []interface{}{p.Value}, argIdx + 1
}

// Cmp compares Expr against value with Op.
type Cmp struct {
	Expr  string
	Op    Operator
	Value interface{}
}

func (p Cmp) Render(argIdx int) (string, []interface{}, int) {
	return fmt.Sprintf("%s %s $%d", p.Expr, p.Op, argIdx), []interface{}{p.Value}, argIdx + 1
}

// Match is a case-insensitive LIKE. Pattern carries its own wildcards.
type Match struct {
	Expr    string
	Pattern string
}

func (p Match) Render(argIdx int) (string, []interface{}, int) {
	return fmt.Sprintf("%s ILIKE $%d", p.Expr, argIdx), []interface{}{p.Pattern}, argIdx + 1
}

// MatchAny is a case-insensitive LIKE against any of Patterns, bound as a
// single text[] parameter.
type MatchAny struct {
	Expr     string
	Patterns []string
}

func (p MatchAny) Render(argIdx int) (string, []interface{}, int) {
	patterns := make([]string, len(p.Patterns))
	copy(patterns, p.Patterns)
	return fmt.Sprintf("%s ILIKE ANY($%d)", p.Expr, argIdx), []interface{}{patterns}, argIdx + 1
}

// IsNull matches Expr IS NULL. It binds nothing.
type IsNull struct {
	Expr string
}

func (p IsNull) Render(argIdx int) (string, []interface{}, int) {
	return p.Expr + " IS NULL", nil, argIdx
}

// Exists wraps Cond in a correlated EXISTS subquery. Source is the fixed
// "FROM ... WHERE <correlation>" part of the subquery; Cond is AND-ed to it.
type Exists struct {
	Source string
	Cond   Predicate
}

func (p Exists) Render(argIdx int) (string, []interface{}, int) {
	cond, args, next := p.Cond.Render(argIdx)
	return fmt.Sprintf("EXISTS (SELECT 1 %s AND %s)", p.Source, cond), args, next
}

// Or is a parenthesized disjunction. An empty Or matches nothing.
type Or []Predicate

func (p Or) Render(argIdx int) (string, []interface{}, int) {
	return join(p, " OR ", "FALSE", argIdx)
}

// And is a parenthesized conjunction. An empty And matches everything.
type And []Predicate

func (p And) Render(argIdx int) (string, []interface{}, int) {
	return join(p, " AND ", "TRUE", argIdx)
}

func join(preds []Predicate, sep, empty string, argIdx int) (string, []interface{}, int) {
	switch len(preds) {
	case 0:
		return empty, nil, argIdx
	case 1:
		return preds[0].Render(argIdx)
	}
	parts := make([]string, 0, len(preds))
	var args []interface{}
	for _, p := range preds {
		clause, a, next := p.Render(argIdx)
		parts = append(parts, clause)
		args = append(args, a...)
		argIdx = next
	}
	return "(" + strings.Join(parts, sep) + ")", args, argIdx
}

// Where renders preds joined with AND, preserving their order. It returns an
// empty clause when preds is empty.
func Where(preds []Predicate, argIdx int) (string, []interface{}, int) {
	parts := make([]string, 0, len(preds))
	var args []interface{}
	for _, p := range preds {
		clause, a, next := p.Render(argIdx)
		parts = append(parts, clause)
		args = append(args, a...)
		argIdx = next
	}
	return strings.Join(parts, " AND "), args, argIdx
}
