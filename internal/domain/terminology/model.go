package terminology

// System is a clinical coding system.
type System string

const (
	CID10 System = "CID10"
	CIAP  System = "CIAP"
)

// Source tells where a resolution came from.
type Source string

const (
	SourcePreset   Source = "preset"
	SourceDatabase Source = "database"
	SourceFallback Source = "fallback"
)

// ConditionCode is one resolved code. Code is upper-cased.
type ConditionCode struct {
	Code        string  `json:"code"`
	Description *string `json:"description"`
	System      System  `json:"system"`
}

// Resolution is the terminal outcome of resolving a condition name.
type Resolution struct {
	Condition             string          `json:"condition"`
	Source                Source          `json:"source"`
	CIDCodes              []string        `json:"cid_codes"`
	CIAPCodes             []string        `json:"ciap_codes"`
	CID                   []ConditionCode `json:"cid"`
	CIAP                  []ConditionCode `json:"ciap"`
	FallbackConditionText *string         `json:"fallback_condition_text"`
}

// codeTable names the columns of a coding table. All values are constants.
type codeTable struct {
	name        string
	code        string
	description string
	filter      string
}

var codeTables = map[System]codeTable{
	CID10: {name: "tb_cid10 cid", code: "cid.nu_cid10", description: "cid.no_cid10", filter: "cid.no_cid10_filtro"},
	CIAP:  {name: "tb_ciap ciap", code: "ciap.co_ciap", description: "ciap.ds_ciap", filter: "ciap.ds_ciap_filtro"},
}
