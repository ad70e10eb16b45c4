/*
File    : krusty-go/parser/module.go
Author  : krusty-lang developers
*/
package parser

import "path/filepath"

// ModuleVars maps names to their bound values. It is the mutable handle
// a native plugin's Load entry point receives.
type ModuleVars map[string]Block

// LoadFunc is the exported entry point signature for native plugins.
type LoadFunc func(vars ModuleVars)

// Module is a named collection of bindings, produced by a brace
// delimited body or by import/import_native. Path is the absolute
// source location, "" for anonymous modules.
type Module struct {
	Vars ModuleVars
	Path string
}

// NewModule creates an empty module. A non-empty path is normalized to
// its absolute form.
func NewModule(path string) *Module {
	if path != "" {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}
	return &Module{
		Vars: make(ModuleVars),
		Path: path,
	}
}

// Clone deep-copies the module's variable table.
func (m *Module) Clone() *Module {
	out := &Module{
		Vars: make(ModuleVars, len(m.Vars)),
		Path: m.Path,
	}
	for k, v := range m.Vars {
		out.Vars[k] = v.Clone()
	}
	return out
}

// Names returns the bound names in unspecified order.
func (m *Module) Names() []string {
	names := make([]string, 0, len(m.Vars))
	for k := range m.Vars {
		names = append(names, k)
	}
	return names
}
