/*
File    : krusty-go/eval/evaluator.go
Author  : krusty-lang developers
*/
package eval

import (
	"unicode/utf8"

	"github.com/krusty-lang/krusty-go/errors"
	"github.com/krusty-lang/krusty-go/lexer"
	"github.com/krusty-lang/krusty-go/parser"
	"github.com/krusty-lang/krusty-go/trace"
)

// Run evaluates each expression in order and returns the value of the
// last one. A FuncReturn statement hands its value straight back to
// the caller; at the top of the chain (no parent) it is an error.
func (ns *NameSpace) Run(elist []parser.Expression) (parser.Block, error) {
	returnVal := parser.NullBlock()
	for i := range elist {
		val, err := ns.solveExpr(&elist[i])
		if err != nil {
			return parser.Block{}, err
		}
		returnVal = val
		if elist[i].Op.IsOperator(lexer.FUNC_RETURN_TOK) {
			if ns.parent == nil {
				return parser.Block{}, errors.Eval("cannot use return here")
			}
			return returnVal, nil
		}
	}
	return returnVal, nil
}

// Resolve reduces a block to a value: expressions are solved, symbols
// are looked up, list elements resolve recursively, and a module body
// runs in a fresh child namespace to become a module. Everything else
// is already a value and clones through.
func (ns *NameSpace) Resolve(b parser.Block) (parser.Block, error) {
	switch b.Kind {
	case parser.EXPR_BLOCK:
		return ns.solveExpr(b.Expr)
	case parser.OBJECT_BLOCK:
		if s, ok := b.SymbolName(); ok {
			return ns.Get(s)
		}
		return b, nil
	case parser.LIST_BLOCK:
		out := make([]parser.Block, len(b.List))
		for i, e := range b.List {
			v, err := ns.Resolve(e)
			if err != nil {
				return parser.Block{}, err
			}
			out[i] = v
		}
		return parser.ListBlock(out), nil
	case parser.MOD_BODY_BLOCK:
		child := NewNameSpace("", ns)
		if _, err := child.Run(b.Body); err != nil {
			return parser.Block{}, err
		}
		return child.ToObject(), nil
	case parser.FUNC_BODY_BLOCK:
		return parser.NullBlock(), nil // a body is only meaningful inside a call
	default:
		return b.Clone(), nil
	}
}

// assign binds the resolved RHS to an assignment target: a plain
// symbol writes into the innermost frame; an index or module-member
// target mutates the slot in place (innermost frame only).
func (ns *NameSpace) assign(key parser.Block, value parser.Block) error {
	val, err := ns.Resolve(value)
	if err != nil {
		return err
	}
	if s, ok := key.SymbolName(); ok {
		trace.Printf("assign %s", s)
		ns.Set(s, val)
		return nil
	}
	if key.Kind == parser.EXPR_BLOCK {
		switch {
		case key.Expr.Op.IsOperator(lexer.INDEX_TOK):
			return ns.assignIndex(key.Expr, val)
		case key.Expr.Op.IsOperator(lexer.ACCESSOR_TOK):
			return ns.assignMember(key.Expr, val)
		}
	}
	return errors.Eval("LHS is not a valid assignment target")
}

// assignIndex performs x[i] = v against a list bound in the innermost
// frame.
func (ns *NameSpace) assignIndex(target *parser.Expression, val parser.Block) error {
	if len(target.Elems) != 2 {
		return errors.Eval("Illegal index assignment")
	}
	name, ok := target.Elems[0].SymbolName()
	if !ok {
		return errors.Eval("LHS is not a valid assignment target")
	}
	idx, err := ns.Resolve(target.Elems[1])
	if err != nil {
		return err
	}
	n, ok := numberOf(idx)
	if !ok {
		return errors.Eval("list index must be a Number")
	}
	cur, ok := ns.getLocal(name)
	if !ok {
		return errors.Eval("'%s' not found in current scope", name)
	}
	elems, ok := cur.GetList()
	if !ok {
		return errors.Eval("cannot index into '%s'", name)
	}
	i := int(n)
	if i < 0 || i >= len(elems) {
		return errors.Eval("index %d out of range for '%s'", i, name)
	}
	elems[i] = val
	ns.Module.Vars[name] = cur
	return nil
}

// assignMember performs m.k = v against a module bound in the
// innermost frame.
func (ns *NameSpace) assignMember(target *parser.Expression, val parser.Block) error {
	if len(target.Elems) != 2 {
		return errors.Eval("Illegal member assignment")
	}
	name, ok := target.Elems[0].SymbolName()
	if !ok {
		return errors.Eval("LHS is not a valid assignment target")
	}
	member, ok := target.Elems[1].SymbolName()
	if !ok {
		return errors.Eval("LHS is not a valid assignment target")
	}
	cur, ok := ns.getLocal(name)
	if !ok {
		return errors.Eval("'%s' not found in current scope", name)
	}
	if cur.Kind != parser.MOD_BLOCK {
		return errors.Eval("'%s' is not a module", name)
	}
	cur.Mod.Vars[member] = val
	ns.Module.Vars[name] = cur
	return nil
}

// numberOf extracts a numeric operand, unwrapping a one-element list
// (an expression enclosed in parens).
func numberOf(b parser.Block) (float64, bool) {
	if n, ok := b.NumberVal(); ok {
		return n, true
	}
	if l, ok := b.GetList(); ok && len(l) == 1 {
		return l[0].NumberVal()
	}
	return 0, false
}

// operandDesc names an operand in arithmetic error messages.
func operandDesc(b parser.Block) string {
	if t, ok := b.TextVal(); ok {
		return "Text(\"" + t + "\")"
	}
	if b.Kind == parser.OBJECT_BLOCK {
		return string(b.Tok.Type) + "(" + b.Tok.String() + ")"
	}
	return string(b.Kind)
}

// solveArith left-folds the operands with the operator, starting from
// the first operand. Operands must resolve to numbers.
func (ns *NameSpace) solveArith(op byte, elems []parser.Block) (parser.Block, error) {
	var res float64
	seeded := false
	for _, e := range elems {
		v, err := ns.Resolve(e)
		if err != nil {
			return parser.Block{}, err
		}
		num, ok := numberOf(v)
		if !ok {
			return parser.Block{}, errors.Eval("Cannot perform Arith on %s", operandDesc(v))
		}
		trace.Printf("arith %v %c %v", res, op, num)
		if !seeded {
			res = num
			seeded = true
			continue
		}
		switch op {
		case '+':
			res += num
		case '-':
			res -= num
		case '*':
			res *= num
		case '/':
			res /= num
		}
	}
	if !seeded {
		return parser.Block{}, errors.Eval("Arith error")
	}
	return parser.ObjectBlock(lexer.NewNumber(res)), nil
}

// solveComparison resolves both sides and applies the comparison.
// Equality works for any pair of values; ordering requires numbers,
// texts, or element-wise comparable lists.
func (ns *NameSpace) solveComparison(op string, elems []parser.Block) (parser.Block, error) {
	vals := make([]parser.Block, len(elems))
	for i, e := range elems {
		v, err := ns.Resolve(e)
		if err != nil {
			return parser.Block{}, err
		}
		vals[i] = v
	}
	trace.Printf("compare %s", op)
	switch op {
	case "==":
		return parser.BoolBlock(vals[0].Equal(vals[1])), nil
	case "!=":
		return parser.BoolBlock(!vals[0].Equal(vals[1])), nil
	}
	c, ok := vals[0].Compare(vals[1])
	if !ok {
		return parser.Block{}, errors.Eval("Cannot compare %s with %s", vals[0].TypeName(), vals[1].TypeName())
	}
	switch op {
	case ">":
		return parser.BoolBlock(c > 0), nil
	case "<":
		return parser.BoolBlock(c < 0), nil
	case ">=":
		return parser.BoolBlock(c >= 0), nil
	case "<=":
		return parser.BoolBlock(c <= 0), nil
	}
	return parser.Block{}, errors.Eval("Unsupported operator '%s'", op)
}

// EvalFuncObj applies the call protocol: normalize the argument block
// to a vector, then dispatch on the callee kind. User functions get a
// fresh child namespace with one binding per parameter; native
// functions get arguments resolved in the caller's namespace.
func (ns *NameSpace) EvalFuncObj(fn parser.Block, argsBlock parser.Block, name string) (parser.Block, error) {
	if name == "" {
		name = "anonymous"
	}
	var args []parser.Block
	if l, ok := argsBlock.GetList(); ok {
		args = l
	} else {
		args = []parser.Block{argsBlock}
	}

	switch fn.Kind {
	case parser.FUNC_BLOCK:
		reqArgs, ok := fn.Func.Args.GetList()
		if !ok {
			return parser.Block{}, errors.Eval("function '%s' definition error", name)
		}
		if len(reqArgs) != len(args) {
			return parser.Block{}, errors.Eval("function arguments for '%s' don't match", name)
		}
		execEnv := NewNameSpace("", ns)
		for i := range reqArgs {
			// assign in the callee frame so resolution happens there
			if err := execEnv.assign(reqArgs[i], args[i]); err != nil {
				return parser.Block{}, err
			}
		}
		trace.Printf("call %s", name)
		if fn.Func.Body.Kind != parser.FUNC_BODY_BLOCK {
			return parser.Block{}, errors.Eval("function '%s' definition error", name)
		}
		return execEnv.Run(fn.Func.Body.Body)

	case parser.NATIVE_FUNC_BLOCK:
		clean := make([]parser.Block, len(args))
		for i, a := range args {
			v, err := ns.Resolve(a)
			if err != nil {
				return parser.Block{}, err
			}
			clean[i] = v
		}
		return fn.Native.Func(ns, clean)
	}
	return parser.Block{}, errors.Eval("function '%s' definition error", name)
}

// evalFunc looks up a function by name and calls it.
func (ns *NameSpace) evalFunc(name string, args parser.Block) (parser.Block, error) {
	fn, err := ns.Get(name)
	if err != nil {
		return parser.Block{}, err
	}
	return ns.EvalFuncObj(fn, args, name)
}

// pickIndex indexes a list or a text (by codepoint) with a zero-based
// numeric index. Out-of-range indices are evaluation errors.
func pickIndex(idx parser.Block, container parser.Block) (parser.Block, error) {
	n, ok := numberOf(idx)
	if !ok {
		return parser.Block{}, errors.Eval("cannot index %s with %s", container.TypeName(), idx.TypeName())
	}
	i := int(n)
	if l, ok := container.GetList(); ok {
		if i < 0 || i >= len(l) {
			return parser.Block{}, errors.Eval("index %d out of range", i)
		}
		return l[i].Clone(), nil
	}
	if t, ok := container.TextVal(); ok {
		runes := []rune(t)
		if i < 0 || i >= len(runes) {
			return parser.Block{}, errors.Eval("index %d out of range", i)
		}
		return parser.ObjectBlock(lexer.NewText(string(runes[i]))), nil
	}
	return parser.Block{}, errors.Eval("cannot index %s with %s", container.TypeName(), idx.TypeName())
}

// runeLen counts codepoints, the unit Krusty uses for text length and
// indexing.
func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

// collapseElems resolves a late-evaluated element vector and unwraps
// the zero- and one-element cases.
func (ns *NameSpace) collapseElems(elems []parser.Block) (parser.Block, error) {
	out := make([]parser.Block, len(elems))
	for i, e := range elems {
		v, err := ns.Resolve(e)
		if err != nil {
			return parser.Block{}, err
		}
		out[i] = v
	}
	switch len(out) {
	case 0:
		return parser.NullBlock(), nil
	case 1:
		return out[0], nil
	default:
		return parser.ListBlock(out), nil
	}
}

// solveExpr dispatches an expression on its operator.
func (ns *NameSpace) solveExpr(exp *parser.Expression) (parser.Block, error) {
	if exp.Op.Kind != parser.OPERATOR_BLOCK {
		// an implicit list or a single passed-through value
		cp := parser.Expression{Op: exp.Op, Elems: exp.Elems}
		return cp.ToBlock()
	}

	switch exp.Op.Tok.Type {
	case lexer.ASSIGN_TOK:
		if len(exp.Elems) != 2 {
			return parser.Block{}, errors.Eval("Illegal assignment")
		}
		if err := ns.assign(exp.Elems[0], exp.Elems[1]); err != nil {
			return parser.Block{}, err
		}
		return parser.NullBlock(), nil

	case lexer.ARITH_TOK:
		if len(exp.Elems) != 2 {
			return parser.Block{}, errors.Eval("Illegal arithmetic operation")
		}
		return ns.solveArith(exp.Op.Tok.Ch, exp.Elems)

	case lexer.COMPARISON_TOK:
		if len(exp.Elems) != 2 {
			return parser.Block{}, errors.Eval("Illegal comparison operation")
		}
		return ns.solveComparison(exp.Op.Tok.Text, exp.Elems)

	case lexer.FUNC_CALL_TOK:
		if len(exp.Elems) != 2 {
			return parser.Block{}, errors.Eval("Illegal function call")
		}
		callee := exp.Elems[0]
		if name, ok := callee.SymbolName(); ok {
			return ns.evalFunc(name, exp.Elems[1])
		}
		switch callee.Kind {
		case parser.FUNC_BLOCK:
			return ns.EvalFuncObj(callee, exp.Elems[1], "")
		case parser.EXPR_BLOCK:
			fn, err := ns.solveExpr(callee.Expr)
			if err != nil {
				return parser.Block{}, err
			}
			return ns.EvalFuncObj(fn, exp.Elems[1], "")
		}
		return parser.NullBlock(), nil

	case lexer.FUNC_RETURN_TOK:
		return ns.collapseElems(exp.Elems)

	case lexer.LIST_TOK:
		// list expressions deep inside function bodies evaluate late
		return ns.collapseElems(exp.Elems)

	case lexer.INDEX_TOK:
		if len(exp.Elems) != 2 {
			return parser.Block{}, errors.Eval("Illegal index operation")
		}
		val, err := ns.Resolve(exp.Elems[0])
		if err != nil {
			return parser.Block{}, err
		}
		idx, err := ns.Resolve(exp.Elems[1])
		if err != nil {
			return parser.Block{}, err
		}
		return pickIndex(idx, val)

	case lexer.ACCESSOR_TOK:
		if len(exp.Elems) != 2 {
			return parser.Block{}, errors.Eval("Illegal access operation")
		}
		lhs, err := ns.Resolve(exp.Elems[0])
		if err != nil {
			return parser.Block{}, err
		}
		if lhs.Kind != parser.MOD_BLOCK {
			return parser.Block{}, errors.Eval("invalid use of '.' accessor")
		}
		rhs := exp.Elems[1]
		if s, ok := rhs.SymbolName(); ok {
			v, ok := lhs.Mod.Vars[s]
			if !ok {
				return parser.Block{}, errors.Eval("member '%s' not found", s)
			}
			return v.Clone(), nil
		}
		if rhs.Kind == parser.EXPR_BLOCK {
			if rhs.Expr.Op.IsOperator(lexer.ASSIGN_TOK) {
				return parser.Block{}, errors.Eval("cannot assign into module")
			}
			// evaluate inside the accessed module, falling back to here
			sub := &NameSpace{
				Module: lhs.Mod,
				parent: ns,
			}
			return sub.solveExpr(rhs.Expr)
		}
		return parser.Block{}, errors.Eval("invalid use of '.' accessor")
	}

	cp := parser.Expression{Op: exp.Op, Elems: exp.Elems}
	return cp.ToBlock()
}
