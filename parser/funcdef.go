/*
File    : krusty-go/parser/funcdef.go
Author  : krusty-lang developers
*/
package parser

import "io"

// FuncDef is a user-defined function: an argument list (always a List
// of Symbol objects) and a body (FuncBody or Expr).
type FuncDef struct {
	Args Block
	Body Block
}

// Namespace is the view of the evaluator's namespace chain exposed to
// native functions. It is implemented by eval.NameSpace; keeping the
// interface here lets plugin code depend on the parser package alone.
type Namespace interface {
	// Get looks a name up through the namespace chain.
	Get(name string) (Block, error)
	// Set binds a name in the innermost frame.
	Set(name string, value Block)
	// Resolve reduces a block to a value.
	Resolve(b Block) (Block, error)
	// EvalFuncObj calls a Func or NativeFunc block with the given
	// argument block (a List or a single value).
	EvalFuncObj(fn Block, args Block, name string) (Block, error)
	// Path returns the nearest ancestor's source path, "" when unset.
	Path() string
	// RelativePath resolves p against the current module's path.
	RelativePath(p string) string
	// Writer is the destination for script output.
	Writer() io.Writer
}

// NativeFuncType is the calling convention for host functions: the
// caller's namespace and the already-resolved argument vector.
type NativeFuncType func(ns Namespace, args []Block) (Block, error)

// NativeFuncDef carries a host function and the name it was registered
// under. Equality and cloning go by name plus pointer; no mutable state
// is shared.
type NativeFuncDef struct {
	Name string
	Func NativeFuncType
}

// NewNativeFunc wraps a host function for registration.
func NewNativeFunc(f NativeFuncType, name string) *NativeFuncDef {
	return &NativeFuncDef{
		Name: name,
		Func: f,
	}
}

// RegisterNative inserts a host function into a module variable table.
// Native plugins use this from their Load entry point.
func RegisterNative(vars ModuleVars, name string, f NativeFuncType) {
	vars[name] = NativeFuncBlock(NewNativeFunc(f, name))
}
