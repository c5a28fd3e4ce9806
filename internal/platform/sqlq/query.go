package sqlq

import (
	"fmt"
	"strings"
)

// Query assembles a statement from a fixed template and rendered predicates.
// Parameters are numbered in the order they are allocated, so template
// placeholders obtained from Arg and filter placeholders never collide.
type Query struct {
	where []string
	args  []interface{}
	idx   int
}

// NewQuery creates an empty Query whose first parameter is $1.
func NewQuery() *Query {
	return &Query{idx: 1}
}

// Arg binds v and returns its placeholder.
func (q *Query) Arg(v interface{}) string {
	ph := fmt.Sprintf("$%d", q.idx)
	q.args = append(q.args, v)
	q.idx++
	return ph
}

// Filter renders preds and appends them to the WHERE list.
func (q *Query) Filter(preds ...Predicate) {
	for _, p := range preds {
		clause, args, next := p.Render(q.idx)
		q.where = append(q.where, clause)
		q.args = append(q.args, args...)
		q.idx = next
	}
}

// Clause renders preds joined with AND for use outside the main WHERE list,
// such as inside a CTE, binding their arguments at the current position. It
// returns "TRUE" when preds is empty.
func (q *Query) Clause(preds ...Predicate) string {
	clause, args, next := Where(preds, q.idx)
	if clause == "" {
		return "TRUE"
	}
	q.args = append(q.args, args...)
	q.idx = next
	return clause
}

// WhereSQL returns "WHERE a AND b ..." or "" when no predicate was added.
func (q *Query) WhereSQL() string {
	if len(q.where) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(q.where, " AND ")
}

// Args returns the bound arguments in placeholder order.
func (q *Query) Args() []interface{} {
	return q.args
}
