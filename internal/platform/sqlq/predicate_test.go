package sqlq

import (
	"reflect"
	"regexp"
	"strings"
	"testing"
)

var placeholderRe = regexp.MustCompile(`\$\d+`)

func TestEqRender(t *testing.T) {
	clause, args, next := Eq{Expr: "c.co_seq_cidadao", Value: int64(7)}.Render(3)
	if clause != "c.co_seq_cidadao = $3" {
		t.Errorf("unexpected clause: %s", clause)
	}
	if len(args) != 1 || args[0] != int64(7) {
		t.Errorf("unexpected args: %v", args)
	}
	if next != 4 {
		t.Errorf("expected next index 4, got %d", next)
	}
}

func TestCmpRender(t *testing.T) {
	clause, _, _ := Cmp{Expr: "age", Op: OpGe, Value: 18}.Render(1)
	if clause != "age >= $1" {
		t.Errorf("unexpected clause: %s", clause)
	}
}

func TestMatchAnyBindsOneArray(t *testing.T) {
	patterns := []string{"I10%", "E11%"}
	clause, args, next := MatchAny{Expr: "cid.nu_cid10", Patterns: patterns}.Render(1)
	if clause != "cid.nu_cid10 ILIKE ANY($1)" {
		t.Errorf("unexpected clause: %s", clause)
	}
	if next != 2 {
		t.Errorf("expected a single parameter, next=%d", next)
	}
	got, ok := args[0].([]string)
	if !ok || !reflect.DeepEqual(got, patterns) {
		t.Fatalf("expected []string arg, got %#v", args[0])
	}
	patterns[0] = "Z99%"
	if got[0] != "I10%" {
		t.Error("rendered args should not alias the predicate's slice")
	}
}

func TestExistsRender(t *testing.T) {
	p := Exists{
		Source: "FROM tb_x x WHERE x.co_cidadao = c.co_seq_cidadao",
		Cond:   Eq{Expr: "x.co_unidade", Value: 5},
	}
	clause, args, next := p.Render(2)
	want := "EXISTS (SELECT 1 FROM tb_x x WHERE x.co_cidadao = c.co_seq_cidadao AND x.co_unidade = $2)"
	if clause != want {
		t.Errorf("got %s\nwant %s", clause, want)
	}
	if len(args) != 1 || next != 3 {
		t.Errorf("unexpected args %v / next %d", args, next)
	}
}

func TestOrAndNesting(t *testing.T) {
	p := Or{
		And{Match{Expr: "a", Pattern: "%x%"}, Match{Expr: "a", Pattern: "%y%"}},
		Match{Expr: "b", Pattern: "%x y%"},
	}
	clause, args, next := p.Render(1)
	want := "((a ILIKE $1 AND a ILIKE $2) OR b ILIKE $3)"
	if clause != want {
		t.Errorf("got %s\nwant %s", clause, want)
	}
	if !reflect.DeepEqual(args, []interface{}{"%x%", "%y%", "%x y%"}) {
		t.Errorf("unexpected args: %v", args)
	}
	if next != 4 {
		t.Errorf("expected next 4, got %d", next)
	}
}

func TestSingleElementGroupHasNoParens(t *testing.T) {
	clause, _, _ := Or{Eq{Expr: "a", Value: 1}}.Render(1)
	if clause != "a = $1" {
		t.Errorf("unexpected clause: %s", clause)
	}
}

func TestEmptyGroups(t *testing.T) {
	tests := []struct {
		name string
		pred Predicate
		want string
	}{
		{"empty or", Or{}, "FALSE"},
		{"empty and", And{}, "TRUE"},
		{"nested", And{Eq{Expr: "a", Value: 1}, Or{}}, "(a = $3 AND FALSE)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clause, args, next := tt.pred.Render(3)
			if clause != tt.want {
				t.Errorf("got %q, want %q", clause, tt.want)
			}
			if next != 3+len(args) {
				t.Errorf("expected next %d, got %d", 3+len(args), next)
			}
		})
	}
}

func TestWhere_PlaceholdersMatchArgs(t *testing.T) {
	preds := []Predicate{
		Eq{Expr: "a", Value: 1},
		Or{Eq{Expr: "b", Value: 2}, Eq{Expr: "c", Value: 3}},
		MatchAny{Expr: "d", Patterns: []string{"X%"}},
	}
	clause, args, next := Where(preds, 1)
	if n := len(placeholderRe.FindAllString(clause, -1)); n != len(args) {
		t.Errorf("placeholder count %d != arg count %d in %s", n, len(args), clause)
	}
	if next != len(args)+1 {
		t.Errorf("expected next %d, got %d", len(args)+1, next)
	}
	if !strings.HasPrefix(clause, "a = $1 AND (b = $2 OR c = $3) AND d ILIKE ANY($4)") {
		t.Errorf("unexpected clause: %s", clause)
	}
}

func TestWhere_Empty(t *testing.T) {
	clause, args, next := Where(nil, 1)
	if clause != "" || len(args) != 0 || next != 1 {
		t.Errorf("expected empty render, got %q %v %d", clause, args, next)
	}
}

func TestIsNullBindsNothing(t *testing.T) {
	p := Or{IsNull{Expr: "ult.ultima_consulta"}, Cmp{Expr: "CURRENT_DATE - ult.ultima_consulta", Op: OpGt, Value: 180}}
	clause, args, next := p.Render(4)
	want := "(ult.ultima_consulta IS NULL OR CURRENT_DATE - ult.ultima_consulta > $4)"
	if clause != want {
		t.Errorf("got %s\nwant %s", clause, want)
	}
	if len(args) != 1 || next != 5 {
		t.Errorf("unexpected args %v / next %d", args, next)
	}
}
