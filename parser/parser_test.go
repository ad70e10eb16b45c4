/*
File    : krusty-go/parser/parser_test.go
Author  : krusty-lang developers
*/
package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/krusty-lang/krusty-go/errors"
	"github.com/krusty-lang/krusty-go/lexer"
)

// parseSource lexes and parses one source string.
func parseSource(t *testing.T, src string) []Expression {
	t.Helper()
	ts, err := lexer.Lex(src)
	assert.NoError(t, err)
	exprs, err := Parse(ts)
	assert.NoError(t, err)
	return exprs
}

func TestParse_EmptyInput(t *testing.T) {
	exprs := parseSource(t, "")
	assert.Len(t, exprs, 0)

	exprs = parseSource(t, " \n \n ")
	assert.Len(t, exprs, 0)

	exprs = parseSource(t, "# only a comment\n")
	assert.Len(t, exprs, 0)
}

func TestParse_Assignment(t *testing.T) {
	exprs := parseSource(t, `a = 1;`)
	assert.Len(t, exprs, 1)

	exp := exprs[0]
	assert.True(t, exp.Op.IsOperator(lexer.ASSIGN_TOK))
	assert.Len(t, exp.Elems, 2)

	name, ok := exp.Elems[0].SymbolName()
	assert.True(t, ok)
	assert.Equal(t, "a", name)

	n, ok := exp.Elems[1].NumberVal()
	assert.True(t, ok)
	assert.Equal(t, 1.0, n)
}

func TestParse_ArithChainNestsRight(t *testing.T) {
	exprs := parseSource(t, `a = 1 + 2 * 3;`)
	assert.Len(t, exprs, 1)

	rhs := exprs[0].Elems[1]
	assert.Equal(t, EXPR_BLOCK, rhs.Kind)
	assert.True(t, rhs.Expr.Op.IsOperator(lexer.ARITH_TOK))
	assert.Equal(t, byte('+'), rhs.Expr.Op.Tok.Ch)

	inner := rhs.Expr.Elems[1]
	assert.Equal(t, EXPR_BLOCK, inner.Kind)
	assert.Equal(t, byte('*'), inner.Expr.Op.Tok.Ch)
}

func TestParse_FuncDef(t *testing.T) {
	exprs := parseSource(t, `sq = (x) => { ret x * x; };`)
	assert.Len(t, exprs, 1)

	fn := exprs[0].Elems[1]
	assert.Equal(t, FUNC_BLOCK, fn.Kind)

	args, ok := fn.Func.Args.GetList()
	assert.True(t, ok, "func args are always a list")
	assert.Len(t, args, 1)
	name, ok := args[0].SymbolName()
	assert.True(t, ok, "func args are symbol objects")
	assert.Equal(t, "x", name)

	assert.Equal(t, FUNC_BODY_BLOCK, fn.Func.Body.Kind)
	assert.Len(t, fn.Func.Body.Body, 1)
	assert.True(t, fn.Func.Body.Body[0].Op.IsOperator(lexer.FUNC_RETURN_TOK))
}

func TestParse_FuncDefBareBody(t *testing.T) {
	exprs := parseSource(t, `f = (x) => x + 1;`)
	fn := exprs[0].Elems[1]
	assert.Equal(t, FUNC_BLOCK, fn.Kind)
	assert.Equal(t, FUNC_BODY_BLOCK, fn.Func.Body.Kind)
	assert.Len(t, fn.Func.Body.Body, 1)
	assert.True(t, fn.Func.Body.Body[0].Op.IsOperator(lexer.ARITH_TOK))
}

func TestParse_GroupIsNotAList(t *testing.T) {
	exprs := parseSource(t, `(5);`)
	assert.Len(t, exprs, 1)
	assert.True(t, exprs[0].Op.IsNull())
	assert.Len(t, exprs[0].Elems, 1)
	n, ok := exprs[0].Elems[0].NumberVal()
	assert.True(t, ok, "a single-element group collapses to the element")
	assert.Equal(t, 5.0, n)
}

func TestParse_ListLiteral(t *testing.T) {
	exprs := parseSource(t, `(1, 2, 3);`)
	assert.Len(t, exprs, 1)
	l, ok := exprs[0].Elems[0].GetList()
	assert.True(t, ok)
	assert.Len(t, l, 3)
}

func TestParse_Index(t *testing.T) {
	exprs := parseSource(t, `xs[2];`)
	exp := exprs[0]
	assert.True(t, exp.Op.IsOperator(lexer.INDEX_TOK))
	assert.Len(t, exp.Elems, 2)
	name, _ := exp.Elems[0].SymbolName()
	assert.Equal(t, "xs", name)
	n, _ := exp.Elems[1].NumberVal()
	assert.Equal(t, 2.0, n)
}

func TestParse_IndexAssignTarget(t *testing.T) {
	exprs := parseSource(t, `xs[0] = 9;`)
	exp := exprs[0]
	assert.True(t, exp.Op.IsOperator(lexer.ASSIGN_TOK))
	lhs := exp.Elems[0]
	assert.Equal(t, EXPR_BLOCK, lhs.Kind)
	assert.True(t, lhs.Expr.Op.IsOperator(lexer.INDEX_TOK))
}

func TestParse_ModuleBody(t *testing.T) {
	exprs := parseSource(t, `m = { a = 1; b = 2; };`)
	body := exprs[0].Elems[1]
	assert.Equal(t, MOD_BODY_BLOCK, body.Kind)
	assert.Len(t, body.Body, 2)
}

func TestParse_Accessor(t *testing.T) {
	exprs := parseSource(t, `m.a;`)
	exp := exprs[0]
	assert.True(t, exp.Op.IsOperator(lexer.ACCESSOR_TOK))
	assert.Len(t, exp.Elems, 2)
}

func TestParse_ChainedCall(t *testing.T) {
	exprs := parseSource(t, `f(1)(2);`)
	exp := exprs[0]
	assert.True(t, exp.Op.IsOperator(lexer.FUNC_CALL_TOK))
	assert.Len(t, exp.Elems, 2)
	// the inner call becomes the callee of the outer one
	callee := exp.Elems[0]
	assert.Equal(t, EXPR_BLOCK, callee.Kind)
	assert.True(t, callee.Expr.Op.IsOperator(lexer.FUNC_CALL_TOK))
}

func TestParse_ArithAfterCall(t *testing.T) {
	exprs := parseSource(t, `len(xs) - 1;`)
	exp := exprs[0]
	assert.True(t, exp.Op.IsOperator(lexer.ARITH_TOK))
	assert.Len(t, exp.Elems, 2)
	lhs := exp.Elems[0]
	assert.Equal(t, EXPR_BLOCK, lhs.Kind)
	assert.True(t, lhs.Expr.Op.IsOperator(lexer.FUNC_CALL_TOK))
}

func TestParse_Return(t *testing.T) {
	exprs := parseSource(t, `ret 1, 2;`)
	exp := exprs[0]
	assert.True(t, exp.Op.IsOperator(lexer.FUNC_RETURN_TOK))
	assert.Len(t, exp.Elems, 1, "return values flatten into one block")
}

func TestParse_IncompleteFuncDef(t *testing.T) {
	ts, err := lexer.Lex(`f = (x) =>`)
	assert.NoError(t, err)
	_, err = Parse(ts)
	assert.Error(t, err)
	assert.Equal(t, errors.PARSER_ERROR, errors.KindOf(err))
}

func TestParse_Deterministic(t *testing.T) {
	src := `a = 1; b = (x) => { ret x; }; c = (a, b);`
	first := parseSource(t, src)
	second := parseSource(t, src)
	assert.Equal(t, len(first), len(second))
	for i := range first {
		assert.True(t, first[i].equal(&second[i]))
	}
}

func TestToBlock_Collapse(t *testing.T) {
	// no operator, one element: passes through
	ex := NewExpression()
	ex.Elems = append(ex.Elems, ObjectBlock(lexer.NewNumber(1)))
	b, err := ex.ToBlock()
	assert.NoError(t, err)
	assert.Equal(t, OBJECT_BLOCK, b.Kind)

	// no operator, many elements: a list
	ex = NewExpression()
	ex.Elems = append(ex.Elems, ObjectBlock(lexer.NewNumber(1)), ObjectBlock(lexer.NewNumber(2)))
	b, err = ex.ToBlock()
	assert.NoError(t, err)
	assert.Equal(t, LIST_BLOCK, b.Kind)

	// func def with a bare symbol arg: the arg is wrapped into a list
	ex = NewExpression()
	ex.Op = OperatorBlock(lexer.NewSimple(lexer.FUNC_DEF_TOK))
	ex.Elems = append(ex.Elems,
		ObjectBlock(lexer.NewSymbol("x")),
		FuncBodyBlock([]Expression{}),
	)
	b, err = ex.ToBlock()
	assert.NoError(t, err)
	assert.Equal(t, FUNC_BLOCK, b.Kind)
	args, ok := b.Func.Args.GetList()
	assert.True(t, ok)
	assert.Len(t, args, 1)

	// func def with an invalid body fails
	ex = NewExpression()
	ex.Op = OperatorBlock(lexer.NewSimple(lexer.FUNC_DEF_TOK))
	ex.Elems = append(ex.Elems,
		ObjectBlock(lexer.NewSymbol("x")),
		ObjectBlock(lexer.NewNumber(1)),
	)
	_, err = ex.ToBlock()
	assert.Error(t, err)
}
