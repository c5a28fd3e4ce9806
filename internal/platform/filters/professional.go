package filters

import "github.com/filiperochalopes/esus-pec-mcp/internal/platform/sqlq"

// CBO 2002 prefixes of the professionals whose encounters count as a
// consultation: physicians (225) and nurses (2235).
var ConsultationCBOPrefixes = []string{"225%", "2235%"}

// ConsultationProfessional restricts a query joined to tb_cbo as cb to
// physicians and nurses.
func ConsultationProfessional() sqlq.Predicate {
	return sqlq.MatchAny{Expr: "cb.co_cbo_2002", Patterns: ConsultationCBOPrefixes}
}
