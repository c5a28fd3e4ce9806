package clinical

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/filiperochalopes/esus-pec-mcp/internal/platform/filters"
	"github.com/filiperochalopes/esus-pec-mcp/internal/platform/guard"
	"github.com/filiperochalopes/esus-pec-mcp/internal/platform/sqlq"
)

type mockConditionRepo struct {
	rows  []ConditionRow
	err   error
	where []sqlq.Predicate
	limit int
	calls int
}

func (m *mockConditionRepo) ListConditions(_ context.Context, where []sqlq.Predicate, limit int) ([]ConditionRow, error) {
	m.calls++
	m.where, m.limit = where, limit
	return m.rows, m.err
}

func strPtr(s string) *string { return &s }
func intPtr(v int) *int       { return &v }

func TestListConditions_Success(t *testing.T) {
	start := time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC)
	repo := &mockConditionRepo{rows: []ConditionRow{{
		PatientID:   10,
		PatientName: strPtr("Maria das Dores Silva"),
		Sex:         strPtr("FEMININO"),
		ConditionID: 99,
		CIDCode:     strPtr("I10"),
		StartDate:   &start,
	}}}

	out, err := NewService(repo).ListConditions(context.Background(), ListArgs{
		ConditionCriteria: filters.ConditionCriteria{CIDCode: "i10"},
		PatientFilter:     filters.PatientFilter{Sex: strPtr("F")},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 row, got %d", len(out))
	}
	c := out[0]
	if c.PatientInitials != "MDS" || c.ConditionID != 99 || *c.StartDate != "2021-06-01" || c.EndDate != nil {
		t.Errorf("unexpected condition: %+v", c)
	}
	if len(repo.where) != 2 {
		t.Fatalf("expected patient then condition predicate, got %d", len(repo.where))
	}
	if _, ok := repo.where[0].(sqlq.Eq); !ok {
		t.Errorf("patient predicates must come first, got %T", repo.where[0])
	}
	if repo.limit != 50 {
		t.Errorf("expected default limit 50, got %d", repo.limit)
	}
}

func TestListConditions_TextOnly(t *testing.T) {
	repo := &mockConditionRepo{}
	_, err := NewService(repo).ListConditions(context.Background(), ListArgs{
		ConditionCriteria: filters.ConditionCriteria{Text: "asma"},
		Limit:             intPtr(500),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.limit != guard.Listing.Max {
		t.Errorf("expected clamp to %d, got %d", guard.Listing.Max, repo.limit)
	}
}

func TestListConditions_Validation(t *testing.T) {
	tests := []struct {
		name string
		args ListArgs
	}{
		{"no criteria", ListArgs{}},
		{"cid and not allowed", ListArgs{ConditionCriteria: filters.ConditionCriteria{CIDCodes: []string{"I10", "E11"}, CIDLogic: "AND"}}},
		{"bad combine", ListArgs{ConditionCriteria: filters.ConditionCriteria{CIDCode: "I10", Combine: "XOR"}}},
		{"age inverted", ListArgs{PatientFilter: filters.PatientFilter{AgeMin: intPtr(50), AgeMax: intPtr(40)}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockConditionRepo{}
			if _, err := NewService(repo).ListConditions(context.Background(), tt.args); !guard.IsValidation(err) {
				t.Errorf("expected ValidationError, got %v", err)
			}
			if repo.calls != 0 {
				t.Error("repository must not be called for invalid input")
			}
		})
	}
}

func TestListConditions_SingleCIDUnderAnd(t *testing.T) {
	repo := &mockConditionRepo{}
	_, err := NewService(repo).ListConditions(context.Background(), ListArgs{
		ConditionCriteria: filters.ConditionCriteria{CIDCode: "E11", CIDLogic: "AND"},
	})
	if err != nil {
		t.Errorf("a single CID code under AND is accepted: %v", err)
	}
}

func TestListConditions_RepoError(t *testing.T) {
	boom := errors.New("timeout")
	_, err := NewService(&mockConditionRepo{err: boom}).ListConditions(context.Background(), ListArgs{
		ConditionCriteria: filters.ConditionCriteria{CIAPCode: "K86"},
	})
	if !errors.Is(err, boom) {
		t.Errorf("expected repository error, got %v", err)
	}
}
