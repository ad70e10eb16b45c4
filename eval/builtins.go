/*
File    : krusty-go/eval/builtins.go
Author  : krusty-lang developers
*/
package eval

import (
	"fmt"
	"sort"
	"strings"

	"github.com/krusty-lang/krusty-go/errors"
	"github.com/krusty-lang/krusty-go/lexer"
	"github.com/krusty-lang/krusty-go/parser"
	"github.com/krusty-lang/krusty-go/pkg"
)

// loadBuiltins fills the root namespace's builtin table. Builtins are
// regular NativeFunc values plus the three constants, so scripts can
// pass them around like any other binding.
func loadBuiltins(b map[string]parser.Block) {
	b["null"] = parser.NullBlock()
	b["true"] = parser.BoolBlock(true)
	b["false"] = parser.BoolBlock(false)

	reg := func(name string, f parser.NativeFuncType) {
		b[name] = parser.NativeFuncBlock(parser.NewNativeFunc(f, name))
	}
	reg("print", builtinPrint)
	reg("type", builtinType)
	reg("if", builtinIf)
	reg("len", builtinLen)
	reg("foreach", builtinForeach)
	reg("vars", builtinVars)
	reg("import", builtinImport)
	reg("import_native", builtinImportNative)
	reg("spill", builtinSpill)
	reg("assert", builtinAssert)
	reg("exit", builtinExit)
}

// env recovers the concrete namespace. Builtins are only ever invoked
// through EvalFuncObj, which always passes a *NameSpace.
func env(ns parser.Namespace) (*NameSpace, error) {
	if e, ok := ns.(*NameSpace); ok {
		return e, nil
	}
	return nil, errors.Generic("unexpected namespace implementation %T", ns)
}

// nargsEq fails unless exactly n arguments were supplied.
func nargsEq(args []parser.Block, n int, name string) error {
	if len(args) != n {
		return errors.Eval("%s: expected %d, but received %d args", name, n, len(args))
	}
	return nil
}

// nargsLe fails when more than n arguments were supplied.
func nargsLe(args []parser.Block, n int, name string) error {
	if len(args) > n {
		return errors.Eval("%s: expected 0..%d, but received %d args", name, n, len(args))
	}
	return nil
}

// printable renders a value for print: texts drop their quotes and
// expand the \n and \t escapes; everything else uses its display form.
func printable(b parser.Block) string {
	if t, ok := b.TextVal(); ok {
		t = strings.ReplaceAll(t, `\n`, "\n")
		t = strings.ReplaceAll(t, `\t`, "\t")
		return t
	}
	return b.String()
}

// builtinPrint writes its arguments space-separated with a trailing
// newline.
func builtinPrint(ns parser.Namespace, args []parser.Block) (parser.Block, error) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = printable(a)
	}
	fmt.Fprintln(ns.Writer(), strings.Join(parts, " "))
	return parser.NullBlock(), nil
}

// builtinType returns the name tag of its argument as text.
func builtinType(ns parser.Namespace, args []parser.Block) (parser.Block, error) {
	if err := nargsEq(args, 1, "type"); err != nil {
		return parser.Block{}, err
	}
	return parser.ObjectBlock(lexer.NewText(args[0].TypeName())), nil
}

// builtinIf returns the second argument when the condition holds, the
// third otherwise. The condition may be a Bool or a one-element list
// holding one.
func builtinIf(ns parser.Namespace, args []parser.Block) (parser.Block, error) {
	if err := nargsEq(args, 3, "if"); err != nil {
		return parser.Block{}, err
	}
	cond := args[0]
	if l, ok := cond.GetList(); ok && len(l) == 1 {
		cond = l[0]
	}
	c, ok := cond.GetBool()
	if !ok {
		return parser.Block{}, errors.Eval("if condition must be a Bool, got %s", args[0].TypeName())
	}
	if c {
		return args[1], nil
	}
	return args[2], nil
}

// builtinLen returns the length of a list or of a text (codepoints).
func builtinLen(ns parser.Namespace, args []parser.Block) (parser.Block, error) {
	if err := nargsEq(args, 1, "len"); err != nil {
		return parser.Block{}, err
	}
	if l, ok := args[0].GetList(); ok {
		return parser.ObjectBlock(lexer.NewNumber(float64(len(l)))), nil
	}
	if t, ok := args[0].TextVal(); ok {
		return parser.ObjectBlock(lexer.NewNumber(float64(runeLen(t)))), nil
	}
	return parser.Block{}, errors.Eval("len does not apply to %s", args[0].TypeName())
}

// builtinForeach maps a function over the elements of a list or the
// characters of a text, preserving length.
func builtinForeach(ns parser.Namespace, args []parser.Block) (parser.Block, error) {
	if err := nargsEq(args, 2, "foreach"); err != nil {
		return parser.Block{}, err
	}
	fn := args[1]
	if fn.Kind != parser.FUNC_BLOCK && fn.Kind != parser.NATIVE_FUNC_BLOCK {
		return parser.Block{}, errors.Eval("foreach needs a function, got %s", fn.TypeName())
	}
	var items []parser.Block
	if l, ok := args[0].GetList(); ok {
		items = l
	} else if t, ok := args[0].TextVal(); ok {
		for _, r := range t {
			items = append(items, parser.ObjectBlock(lexer.NewText(string(r))))
		}
	} else {
		return parser.Block{}, errors.Eval("foreach does not apply to %s", args[0].TypeName())
	}
	out := make([]parser.Block, len(items))
	for i, item := range items {
		v, err := ns.EvalFuncObj(fn, item, "foreach")
		if err != nil {
			return parser.Block{}, err
		}
		out[i] = v
	}
	return parser.ListBlock(out), nil
}

// builtinVars lists the names bound in the current module, or in the
// module given as the single argument.
func builtinVars(ns parser.Namespace, args []parser.Block) (parser.Block, error) {
	if err := nargsLe(args, 1, "vars"); err != nil {
		return parser.Block{}, err
	}
	var names []string
	if len(args) == 1 {
		if args[0].Kind != parser.MOD_BLOCK {
			return parser.Block{}, errors.Eval("vars does not apply to %s", args[0].TypeName())
		}
		names = args[0].Mod.Names()
	} else {
		e, err := env(ns)
		if err != nil {
			return parser.Block{}, err
		}
		names = e.Module.Names()
	}
	sort.Strings(names)
	out := make([]parser.Block, len(names))
	for i, n := range names {
		out[i] = parser.ObjectBlock(lexer.NewText(n))
	}
	return parser.ListBlock(out), nil
}

// builtinImport resolves a script module, evaluates it in a fresh
// child namespace, and returns the resulting module value.
func builtinImport(ns parser.Namespace, args []parser.Block) (parser.Block, error) {
	if err := nargsEq(args, 1, "import"); err != nil {
		return parser.Block{}, err
	}
	name, ok := args[0].TextVal()
	if !ok {
		return parser.Block{}, errors.Eval("import takes a Text path, got %s", args[0].TypeName())
	}
	e, err := env(ns)
	if err != nil {
		return parser.Block{}, err
	}
	path, err := pkg.SearchModule(name, e.RelativePath(name))
	if err != nil {
		return parser.Block{}, err
	}
	ts, err := lexer.LexFile(path)
	if err != nil {
		return parser.Block{}, err
	}
	exprs, err := parser.Parse(ts)
	if err != nil {
		return parser.Block{}, err
	}
	child := NewNameSpace(path, e)
	if _, err := child.Run(exprs); err != nil {
		return parser.Block{}, err
	}
	return child.ToObject(), nil
}

// builtinImportNative loads a native plugin, runs its Load entry point
// to populate the module's variable table, and returns the module.
// The library handle stays in the process-wide retention table so the
// copied function pointers remain valid.
func builtinImportNative(ns parser.Namespace, args []parser.Block) (parser.Block, error) {
	if err := nargsEq(args, 1, "import_native"); err != nil {
		return parser.Block{}, err
	}
	name, ok := args[0].TextVal()
	if !ok {
		return parser.Block{}, errors.Eval("import_native takes a Text path, got %s", args[0].TypeName())
	}
	e, err := env(ns)
	if err != nil {
		return parser.Block{}, err
	}
	libPath := pkg.NativeLibName(e.RelativePath(name))
	vars, err := loadNativeModule(libPath)
	if err != nil {
		return parser.Block{}, err
	}
	mod := parser.NewModule(libPath)
	mod.Vars = vars
	return parser.ModBlock(mod), nil
}

// builtinSpill merges a module's variables into the current namespace.
func builtinSpill(ns parser.Namespace, args []parser.Block) (parser.Block, error) {
	if err := nargsEq(args, 1, "spill"); err != nil {
		return parser.Block{}, err
	}
	if args[0].Kind != parser.MOD_BLOCK {
		return parser.Block{}, errors.Eval("spill does not apply to %s", args[0].TypeName())
	}
	for k, v := range args[0].Mod.Vars {
		ns.Set(k, v.Clone())
	}
	return parser.NullBlock(), nil
}

// builtinAssert passes a true Bool through and fails on anything else.
func builtinAssert(ns parser.Namespace, args []parser.Block) (parser.Block, error) {
	if err := nargsEq(args, 1, "assert"); err != nil {
		return parser.Block{}, err
	}
	if b, ok := args[0].GetBool(); ok && b {
		return args[0], nil
	}
	return parser.Block{}, errors.Eval("assertion failed")
}

// builtinExit signals orderly termination. The error unwinds every
// frame and is recognized - and suppressed - by the top-level driver.
func builtinExit(ns parser.Namespace, args []parser.Block) (parser.Block, error) {
	if err := nargsEq(args, 0, "exit"); err != nil {
		return parser.Block{}, err
	}
	return parser.Block{}, errors.SysExit()
}
