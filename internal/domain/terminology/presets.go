package terminology

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed presets.yaml
var defaultPresets []byte

// Preset maps a common condition name to fixed CID-10 and CIAP codes.
type Preset struct {
	Key     string   `yaml:"key" json:"key"`
	Aliases []string `yaml:"aliases" json:"aliases"`
	CID     []string `yaml:"cid" json:"cid_codes"`
	CIAP    []string `yaml:"ciap" json:"ciap_codes"`
}

type presetFile struct {
	Presets []Preset `yaml:"presets"`
}

// Catalog is an immutable set of presets indexed by normalized alias.
type Catalog struct {
	presets []Preset
	index   map[string]int
}

// NewCatalog validates presets and builds the alias index. Codes are
// upper-cased and deduplicated keeping the first occurrence; each preset's
// key is indexed as an alias too. Two presets claiming the same alias is an
// error.
func NewCatalog(presets []Preset) (*Catalog, error) {
	c := &Catalog{index: make(map[string]int)}
	for _, p := range presets {
		key := strings.TrimSpace(p.Key)
		if key == "" {
			return nil, fmt.Errorf("preset without key")
		}
		if len(p.CID) == 0 && len(p.CIAP) == 0 {
			return nil, fmt.Errorf("preset %q has no codes", key)
		}
		idx := len(c.presets)
		entry := Preset{Key: key, CID: dedupeCodes(p.CID), CIAP: dedupeCodes(p.CIAP)}

		for _, alias := range append([]string{key}, p.Aliases...) {
			n := Normalize(alias)
			if n == "" {
				continue
			}
			if other, ok := c.index[n]; ok && other != idx {
				return nil, fmt.Errorf("alias %q claimed by presets %q and %q", n, c.presets[other].Key, key)
			}
			if _, ok := c.index[n]; !ok {
				entry.Aliases = append(entry.Aliases, n)
			}
			c.index[n] = idx
		}
		c.presets = append(c.presets, entry)
	}
	return c, nil
}

// ParseCatalog reads a YAML catalog document.
func ParseCatalog(data []byte) (*Catalog, error) {
	var f presetFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse preset catalog: %w", err)
	}
	return NewCatalog(f.Presets)
}

// LoadCatalogFile reads a YAML catalog from path.
func LoadCatalogFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read preset catalog: %w", err)
	}
	return ParseCatalog(data)
}

// DefaultCatalog returns the built-in catalog.
func DefaultCatalog() *Catalog {
	c, err := ParseCatalog(defaultPresets)
	if err != nil {
		panic(err)
	}
	return c
}

// Lookup finds the preset for an already normalized text.
func (c *Catalog) Lookup(normalized string) (Preset, bool) {
	idx, ok := c.index[normalized]
	if !ok {
		return Preset{}, false
	}
	return c.presets[idx].clone(), true
}

// Presets returns a copy of every preset in catalog order.
func (c *Catalog) Presets() []Preset {
	out := make([]Preset, len(c.presets))
	for i, p := range c.presets {
		out[i] = p.clone()
	}
	return out
}

func (p Preset) clone() Preset {
	return Preset{
		Key:     p.Key,
		Aliases: copyStrings(p.Aliases),
		CID:     copyStrings(p.CID),
		CIAP:    copyStrings(p.CIAP),
	}
}

func copyStrings(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}

func dedupeCodes(codes []string) []string {
	seen := make(map[string]struct{}, len(codes))
	out := make([]string, 0, len(codes))
	for _, code := range codes {
		n := strings.ToUpper(strings.TrimSpace(code))
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
