package tools

// Shared parameter descriptions for the patient and condition filters.
var (
	PatientParams = []Param{
		{Name: "paciente_id", Type: "integer", Description: "citizen id (co_seq_cidadao)"},
		{Name: "name_starts_with", Type: "string", Description: "name prefix, case-insensitive"},
		{Name: "sex", Type: "string", Description: "M, F, I or MASCULINO, FEMININO, INDETERMINADO"},
		{Name: "age_min", Type: "integer", Description: "minimum age in years"},
		{Name: "age_max", Type: "integer", Description: "maximum age in years"},
		{Name: "unidade_saude_id", Type: "integer", Description: "health unit: seen there or linked by CNES"},
		{Name: "equipe_id", Type: "integer", Description: "current care team (co_seq_equipe)"},
		{Name: "micro_area", Type: "string", Description: "current micro-area of the individual registration"},
	}

	ConditionParams = []Param{
		{Name: "cid_code", Type: "string", Description: "CID-10 code or prefix"},
		{Name: "cid_codes", Type: "array<string>", Description: "CID-10 codes or prefixes"},
		{Name: "ciap_code", Type: "string", Description: "CIAP code or prefix"},
		{Name: "ciap_codes", Type: "array<string>", Description: "CIAP codes or prefixes, always OR-ed"},
		{Name: "condition_text", Type: "string", Description: "free text matched in code descriptions and notes, up to 100 characters"},
		{Name: "cid_logic", Type: "string", Description: "OR (default) or AND between CID-10 codes"},
		{Name: "cid_ciap_logic", Type: "string", Description: "OR (default) or AND between the CID-10 and CIAP groups"},
	}
)

// With concatenates parameter lists into a new slice.
func With(lists ...[]Param) []Param {
	var out []Param
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}
