// Package tools holds the catalog of read-only query tools and exposes it
// over HTTP.
package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/filiperochalopes/esus-pec-mcp/internal/platform/guard"
)

// Param describes one tool argument.
type Param struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Required    bool   `json:"required,omitempty"`
	Description string `json:"description,omitempty"`
}

// Definition is the public description of a tool.
type Definition struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Parameters  []Param `json:"parameters,omitempty"`
}

// Func executes a tool with its raw JSON arguments.
type Func func(ctx context.Context, args json.RawMessage) (interface{}, error)

// Tool is a registered tool.
type Tool struct {
	Definition
	Call Func
}

// Registry is a thread-safe set of tools keyed by name.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds t. Registering two tools under the same name is a
// programming error and panics.
func (r *Registry) Register(t Tool) {
	if t.Name == "" || t.Call == nil {
		panic("tools: tool needs a name and a Call func")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.tools[t.Name]; dup {
		panic(fmt.Sprintf("tools: %q registered twice", t.Name))
	}
	r.tools[t.Name] = t
}

// Get returns the tool registered under name.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// Definitions returns every tool definition sorted by name.
func (r *Registry) Definitions() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)

	defs := make([]Definition, 0, len(names))
	for _, name := range names {
		defs = append(defs, r.tools[name].Definition)
	}
	return defs
}

// Decode unmarshals tool arguments into dst. Unknown fields and malformed
// JSON are validation errors. Empty arguments decode as {}.
func Decode(args json.RawMessage, dst interface{}) error {
	trimmed := bytes.TrimSpace(args)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		trimmed = []byte("{}")
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return guard.Invalid("arguments", "%v", err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return guard.Invalid("arguments", "trailing data after JSON object")
	}
	return nil
}

// Bind adapts a typed function into a Func that decodes its arguments.
func Bind[A any, R any](fn func(ctx context.Context, args A) (R, error)) Func {
	return func(ctx context.Context, raw json.RawMessage) (interface{}, error) {
		var args A
		if err := Decode(raw, &args); err != nil {
			return nil, err
		}
		return fn(ctx, args)
	}
}
