/*
File    : krusty-go/eval/plugin.go
Author  : krusty-lang developers
*/
package eval

import (
	"path/filepath"
	"plugin"
	"sync"

	"github.com/krusty-lang/krusty-go/errors"
	"github.com/krusty-lang/krusty-go/parser"
	"github.com/krusty-lang/krusty-go/trace"
)

// dylibRefs retains loaded libraries for the process lifetime, keyed
// by canonical path. Function pointers copied into module variables
// reference library memory, so handles must never be dropped while
// those values are reachable.
var dylibRefs = struct {
	sync.Mutex
	handles map[string]*plugin.Plugin
}{handles: make(map[string]*plugin.Plugin)}

// lookupRetained checks the retention table under lock.
func lookupRetained(path string) *plugin.Plugin {
	dylibRefs.Lock()
	defer dylibRefs.Unlock()
	return dylibRefs.handles[path]
}

// retain inserts a handle under lock. Concurrent duplicate loads of
// the same path are permitted; the last writer wins and the cost is a
// transient duplicate handle.
func retain(path string, p *plugin.Plugin) {
	dylibRefs.Lock()
	defer dylibRefs.Unlock()
	dylibRefs.handles[path] = p
}

// entryPoint finds the plugin's exported loader: Load, or LoadAll as
// the fallback name.
func entryPoint(p *plugin.Plugin) (parser.LoadFunc, error) {
	for _, name := range []string{"Load", "LoadAll"} {
		sym, err := p.Lookup(name)
		if err != nil {
			continue
		}
		switch fn := sym.(type) {
		case func(parser.ModuleVars):
			return fn, nil
		case parser.LoadFunc:
			return fn, nil
		case *parser.LoadFunc:
			return *fn, nil
		}
	}
	return nil, errors.Import("library has no usable Load entry point")
}

// loadNativeModule opens (or reuses) the library at path and collects
// the variable table its entry point populates. Loading happens
// outside the retention lock; only the table lookups and the final
// insert hold it.
func loadNativeModule(path string) (parser.ModuleVars, error) {
	canonical, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Import("%v", err)
	}

	handle := lookupRetained(canonical)
	if handle == nil {
		trace.Printf("loading native module %s", canonical)
		p, err := plugin.Open(canonical)
		if err != nil {
			return nil, errors.Import("library load error: %v", err)
		}
		retain(canonical, p)
		handle = p
	}

	load, err := entryPoint(handle)
	if err != nil {
		return nil, err
	}
	vars := make(parser.ModuleVars)
	load(vars)
	return vars, nil
}
