package clinical

import (
	"regexp"
	"strings"
	"testing"

	"github.com/filiperochalopes/esus-pec-mcp/internal/platform/filters"
)

func TestListQuery_PlaceholdersAligned(t *testing.T) {
	where, err := filters.BuildPatientFilters(filters.Facility(3), filters.MicroArea("07"))
	if err != nil {
		t.Fatal(err)
	}
	cond, err := filters.BuildConditionFilters(filters.ConditionCriteria{
		CIDCodes: []string{"E10", "E11"}, CIAPCode: "T90", Text: "diabetes",
	}, filters.ConditionOptions{})
	if err != nil {
		t.Fatal(err)
	}
	sql, args := listQuery(append(where, cond...), 25)

	if n := len(regexp.MustCompile(`\$\d+`).FindAllString(sql, -1)); n != len(args) {
		t.Errorf("placeholders %d != args %d", n, len(args))
	}
	if args[len(args)-1] != 25 {
		t.Errorf("limit must be the last argument, got %v", args[len(args)-1])
	}
	if !strings.Contains(sql, "(cid.nu_cid10 ILIKE ANY($4) OR ciap.co_ciap ILIKE ANY($5))") {
		t.Errorf("CID params must precede CIAP params:\n%s", sql)
	}
	if strings.Contains(sql, "diabetes") {
		t.Error("text must be bound, not interpolated")
	}
}
