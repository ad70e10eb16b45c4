/*
File    : krusty-go/eval/namespace.go
Author  : krusty-lang developers
*/

// Package eval walks the parsed AST and produces values. Evaluation
// happens against a chain of namespaces: each call or import pushes a
// child namespace whose lookups fall through to the parent, and the
// builtin table lives only at the root of the chain.
package eval

import (
	"io"
	"os"
	"path/filepath"

	"github.com/krusty-lang/krusty-go/errors"
	"github.com/krusty-lang/krusty-go/parser"
)

// NameSpace is one frame of the lexical scope chain. It owns a module
// (the variable table plus an optional source path), borrows its
// parent for the duration of the call, and - only at the chain root -
// holds the builtin table and the output writer.
type NameSpace struct {
	builtins map[string]parser.Block
	parent   *NameSpace
	Module   *parser.Module
	out      io.Writer // root only; nil means stdout
}

// NewNameSpace creates a namespace frame. A nil parent makes this the
// chain root: the builtin table is loaded and output defaults to
// stdout. The path (may be empty) is recorded on the owned module.
func NewNameSpace(path string, parent *NameSpace) *NameSpace {
	ns := &NameSpace{
		Module: parser.NewModule(path),
		parent: parent,
	}
	if parent == nil {
		ns.builtins = make(map[string]parser.Block)
		loadBuiltins(ns.builtins)
		ns.out = os.Stdout
	}
	return ns
}

// root walks up to the top of the chain.
func (ns *NameSpace) root() *NameSpace {
	cur := ns
	for cur.parent != nil {
		cur = cur.parent
	}
	return cur
}

// SetWriter redirects script output (used by tests and the REPL).
func (ns *NameSpace) SetWriter(w io.Writer) {
	ns.root().out = w
}

// Writer returns the destination for script output.
func (ns *NameSpace) Writer() io.Writer {
	if w := ns.root().out; w != nil {
		return w
	}
	return os.Stdout
}

// Get looks a name up in the local variables, then the parent chain,
// and finally - at the root only - the builtin table. The returned
// value is a clone, so callees see a stable snapshot.
func (ns *NameSpace) Get(name string) (parser.Block, error) {
	if v, ok := ns.Module.Vars[name]; ok {
		return v.Clone(), nil
	}
	if ns.parent != nil {
		return ns.parent.Get(name)
	}
	if v, ok := ns.builtins[name]; ok {
		return v.Clone(), nil
	}
	return parser.Block{}, errors.Eval("Symbol '%s' not found", name)
}

// Set writes a binding into the innermost frame, shadowing any outer
// binding of the same name.
func (ns *NameSpace) Set(name string, value parser.Block) {
	ns.Module.Vars[name] = value
}

// getLocal fetches a binding from the innermost frame only. Used for
// in-place list and module-member assignment, which deliberately do
// not reach into outer frames.
func (ns *NameSpace) getLocal(name string) (parser.Block, bool) {
	v, ok := ns.Module.Vars[name]
	return v, ok
}

// Path returns the nearest ancestor's source path, "" when none is set
// anywhere in the chain.
func (ns *NameSpace) Path() string {
	if ns.Module.Path != "" {
		return ns.Module.Path
	}
	if ns.parent != nil {
		return ns.parent.Path()
	}
	return ""
}

// RelativePath resolves p against the current path: beside the current
// module's file, or inside it when the current path is a directory.
// `..` segments are normalized away.
func (ns *NameSpace) RelativePath(p string) string {
	cur := ns.Path()
	if cur == "" {
		return filepath.FromSlash(p)
	}
	base := cur
	if info, err := os.Stat(cur); err != nil || !info.IsDir() {
		base = filepath.Dir(cur)
	}
	return filepath.Join(base, filepath.FromSlash(p))
}

// ToObject wraps the namespace's module as a value.
func (ns *NameSpace) ToObject() parser.Block {
	return parser.ModBlock(ns.Module)
}
