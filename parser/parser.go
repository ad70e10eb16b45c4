/*
File    : krusty-go/parser/parser.go
Author  : krusty-lang developers
*/
package parser

import (
	"github.com/krusty-lang/krusty-go/errors"
	"github.com/krusty-lang/krusty-go/lexer"
	"github.com/krusty-lang/krusty-go/trace"
)

// Expression is an operator-headed AST node: an operator tag (Null for
// an implicit list) and an ordered sequence of child blocks.
type Expression struct {
	Op    Block
	Elems []Block
}

// NewExpression creates an empty expression.
func NewExpression() *Expression {
	return &Expression{
		Op:    NullBlock(),
		Elems: make([]Block, 0),
	}
}

// equal compares two expressions structurally.
func (ex *Expression) equal(other *Expression) bool {
	if !ex.Op.Equal(other.Op) || len(ex.Elems) != len(other.Elems) {
		return false
	}
	for i := range ex.Elems {
		if !ex.Elems[i].Equal(other.Elems[i]) {
			return false
		}
	}
	return true
}

// ToBlock collapses a parsed expression into a single block:
//
//   - no operator and one element: that element passes through
//   - no operator or the List operator: a List of the elements
//   - FuncDef with two elements: a Func (args forced to a List,
//     body must be a FuncBody or Expr)
//   - anything else: a boxed Expr
func (ex *Expression) ToBlock() (Block, error) {
	if ex.Op.IsNull() && len(ex.Elems) == 1 {
		return ex.Elems[0], nil
	}
	if ex.Op.IsNull() || ex.Op.IsOperator(lexer.LIST_TOK) {
		return ListBlock(ex.Elems), nil
	}
	if ex.Op.IsOperator(lexer.FUNC_DEF_TOK) {
		if len(ex.Elems) != 2 {
			return Block{}, errors.Parser("Illegal function definition - %d parts", len(ex.Elems))
		}
		args := ex.Elems[0]
		body := ex.Elems[1]
		if args.Kind != LIST_BLOCK { // convert a single bare arg to a list
			args = ListBlock([]Block{args})
		}
		if body.Kind != FUNC_BODY_BLOCK && body.Kind != EXPR_BLOCK {
			return Block{}, errors.Parser("Invalid function body")
		}
		return FuncBlock(&FuncDef{Args: args, Body: body}), nil
	}
	return ExprBlock(&Expression{Op: ex.Op, Elems: ex.Elems}), nil
}

// parseScope reads statements until the cursor points at a token in
// end (or input is exhausted). Each statement's own parse bounds are
// end plus the statement separator.
func parseScope(ts *lexer.TokenStream, end []lexer.Token) ([]Expression, error) {
	output := make([]Expression, 0)
	endTokens := make([]lexer.Token, 0, len(end)+1)
	endTokens = append(endTokens, end...)
	endTokens = append(endTokens, lexer.NewSimple(lexer.SEPARATOR_TOK))

	for {
		trace.Printf("parse scope at %d", ts.CurrentIdx())
		if ts.CurrentIsIn(end) || ts.AtEnd() {
			ts.Inc()
			break
		}
		if cur, ok := ts.Current(); ok && cur.IsNewline() {
			ts.Inc()
			continue
		}

		exp := NewExpression()
		if err := exp.parse(ts, endTokens); err != nil {
			return nil, err
		}
		if len(exp.Elems) > 0 {
			output = append(output, *exp)
		}

		// exp.parse may have incremented past the scope end already
		if ts.PrevIsIn(end) {
			break
		}
	}
	return output, nil
}

// countListElems looks ahead from the cursor (just inside a '(') and
// counts the top-level elements up to the matching ')', respecting
// nested parens and braces. One comma means two elements, and so on.
func countListElems(ts *lexer.TokenStream) int {
	idx := ts.CurrentIdx()
	elemCount := 0
	subScopes := 0
	for {
		t, ok := ts.At(idx)
		if !ok {
			break // end reached
		}
		switch {
		case t.Type == lexer.SCOPE_START_TOK && (t.Ch == '(' || t.Ch == '{'):
			subScopes++
		case subScopes > 0:
			if t.Type == lexer.SCOPE_END_TOK && (t.Ch == ')' || t.Ch == '}') {
				subScopes--
			}
		case (t.Type == lexer.SCOPE_END_TOK && t.Ch == ')') || t.Type == lexer.SEPARATOR_TOK:
			return elemCount + 1
		case t.Type == lexer.LIST_TOK:
			elemCount++
		}
		idx++
	}
	return elemCount
}

// convertToChildElem demotes the expression built so far into the
// first element of itself, making room for a new outer operator.
func (ex *Expression) convertToChildElem() error {
	child := &Expression{Op: ex.Op, Elems: ex.Elems}
	block, err := child.ToBlock()
	if err != nil {
		return err
	}
	ex.Elems = []Block{block}
	return nil
}

// genericAddNewOp handles an operator that must bind tighter than the
// one already heading this expression: the last element becomes the
// LHS of a child expression which parses the rest of the statement.
func (ex *Expression) genericAddNewOp(ts *lexer.TokenStream, end []lexer.Token) error {
	sub := NewExpression()
	if n := len(ex.Elems); n > 0 {
		sub.Elems = append(sub.Elems, ex.Elems[n-1]) // setup LHS
		ex.Elems = ex.Elems[:n-1]
	}
	if err := sub.parse(ts, end); err != nil {
		return err
	}
	if len(sub.Elems) != 0 {
		block, err := sub.ToBlock()
		if err != nil {
			return err
		}
		ex.Elems = append(ex.Elems, block)
	}
	return nil
}

// parseFuncBody parses the body following a '=>': either a braced
// scope or a single statement bounded by the separator.
func (ex *Expression) parseFuncBody(ts *lexer.TokenStream) error {
	cur, ok := ts.Current()
	if !ok {
		return errors.Parser("Incomplete function definition")
	}
	if cur.Type == lexer.SCOPE_START_TOK && cur.Ch == '{' {
		ts.Inc() // move into scope
		scoped, err := parseScope(ts, []lexer.Token{lexer.NewScopeEnd('}')})
		if err != nil {
			return err
		}
		ex.Elems = append(ex.Elems, FuncBodyBlock(scoped))
		return nil
	}
	bodyExp := NewExpression()
	if err := bodyExp.parse(ts, []lexer.Token{lexer.NewSimple(lexer.SEPARATOR_TOK)}); err != nil {
		return err
	}
	ex.Elems = append(ex.Elems, FuncBodyBlock([]Expression{*bodyExp}))
	ts.Dec() // let the outer scope see the separator
	return nil
}

// parseScopeBlock handles a scope opener: '{' starts a module body,
// '[' an index expression (only after the Index marker), and '(' a
// grouped expression or list, optionally followed by '=>' making it a
// function definition.
func (ex *Expression) parseScopeBlock(ts *lexer.TokenStream, scope byte) error {
	ts.Inc() // skip over the scope start token
	var expObj Block
	switch scope {
	case '{':
		scoped, err := parseScope(ts, []lexer.Token{lexer.NewScopeEnd('}')})
		if err != nil {
			return err
		}
		expObj = ModBodyBlock(scoped)
	case '[':
		if !ex.Op.IsOperator(lexer.INDEX_TOK) {
			return errors.Parser("Illegal use of [] operator")
		}
		sub := NewExpression()
		if err := sub.parse(ts, []lexer.Token{lexer.NewScopeEnd(']')}); err != nil {
			return err
		}
		block, err := sub.ToBlock()
		if err != nil {
			return err
		}
		expObj = block
	case '(':
		exList := NewExpression()
		elemCount := countListElems(ts)
		trace.Printf("list elems: %d", elemCount)
		if elemCount == 1 {
			// a single element like (a + 1) or (x) is not list-like
			if err := exList.parse(ts, []lexer.Token{lexer.NewScopeEnd(')')}); err != nil {
				return err
			}
		} else {
			exList.Op = OperatorBlock(lexer.NewSimple(lexer.LIST_TOK))
			for i := 0; i < elemCount-1; i++ {
				sub := NewExpression()
				if err := sub.parse(ts, []lexer.Token{lexer.NewSimple(lexer.LIST_TOK)}); err != nil {
					return err
				}
				if len(sub.Elems) > 0 {
					block, err := sub.ToBlock()
					if err != nil {
						return err
					}
					exList.Elems = append(exList.Elems, block)
				}
			}
			sub := NewExpression()
			if err := sub.parse(ts, []lexer.Token{lexer.NewScopeEnd(')')}); err != nil {
				return err
			}
			if len(sub.Elems) > 0 {
				block, err := sub.ToBlock()
				if err != nil {
					return err
				}
				exList.Elems = append(exList.Elems, block)
			}
		}
		// step onto a following '=>' so the funcdef handling below sees it
		if ts.NextIs(lexer.NewSimple(lexer.FUNC_DEF_TOK)) {
			ts.Inc()
		}
		block, err := exList.ToBlock()
		if err != nil {
			return err
		}
		if ex.Op.IsOperator(lexer.FUNC_CALL_TOK) && len(exList.Elems) == 1 && block.Kind == LIST_BLOCK {
			// a lone list argument like f((1, 2)) stays one argument
			// instead of being spread into the call's argument list
			block = ListBlock([]Block{block})
		}
		expObj = block
	default:
		return errors.Parser("Illegal scope start char")
	}

	if cur, ok := ts.Current(); ok && cur.Type == lexer.FUNC_DEF_TOK {
		// handle a () => {} function definition
		exp := NewExpression()
		exp.Elems = append(exp.Elems, expObj)
		exp.Op = OperatorBlock(cur)
		ts.Inc() // go to the token after '=>'
		if err := exp.parseFuncBody(ts); err != nil {
			return err
		}
		if k := exp.Elems[1].Kind; k != FUNC_BODY_BLOCK && k != EXPR_BLOCK {
			return errors.Parser("Invalid function definition")
		}
		block, err := exp.ToBlock()
		if err != nil {
			return err
		}
		ex.Elems = append(ex.Elems, block)
	} else {
		ex.Elems = append(ex.Elems, expObj)
	}
	return nil
}

// parse is the expression workhorse. Each iteration peeks one token
// and acts on its category; operator tokens dispatch on the pair of
// (operator heading this expression, incoming operator).
func (ex *Expression) parse(ts *lexer.TokenStream, end []lexer.Token) error {
loop:
	for {
		if ts.CurrentIsIn(end) || ts.AtEnd() {
			ts.Inc()
			break
		}
		tok, _ := ts.Current()
		trace.Printf("token %s", tok)

		if tok.Type == lexer.COMMENT_TOK {
			for { // skip to end of line
				ts.Inc()
				t, ok := ts.Current()
				if !ok || t.IsNewline() {
					break
				}
			}
			ts.Inc()
			break
		}

		cat := categorize(tok)
		switch cat.Kind {
		case OBJECT_BLOCK:
			ex.Elems = append(ex.Elems, cat)

		case SCOPE_BLOCK:
			if err := ex.parseScopeBlock(ts, cat.Scope); err != nil {
				return err
			}
			continue // skip final increment

		case OPERATOR_BLOCK:
			switch {
			case ex.Op.IsNull() && tok.Type == lexer.FUNC_RETURN_TOK:
				ex.Op = OperatorBlock(tok)
				ts.Inc() // parse the return expression
				sub := NewExpression()
				if err := sub.parse(ts, end); err != nil {
					return err
				}
				// flatten values of the return statement
				if len(sub.Elems) == 1 {
					ex.Elems = append(ex.Elems, sub.Elems[0])
				} else if len(sub.Elems) > 1 {
					block, err := sub.ToBlock()
					if err != nil {
						return err
					}
					ex.Elems = append(ex.Elems, block)
				}
				break loop

			case ex.Op.IsNull():
				ex.Op = OperatorBlock(tok)

			case ex.Op.IsOperator(lexer.ASSIGN_TOK):
				// assignment stays the outermost binary operator
				if err := ex.genericAddNewOp(ts, end); err != nil {
					return err
				}
				break loop

			case tok.Type == lexer.ASSIGN_TOK:
				if err := ex.convertToChildElem(); err != nil {
					return err
				}
				ex.Op = OperatorBlock(tok)
				ts.Inc() // skip the '=' operator
				rhs := NewExpression()
				if err := rhs.parse(ts, end); err != nil {
					return err
				}
				if len(rhs.Elems) != 0 {
					block, err := rhs.ToBlock()
					if err != nil {
						return err
					}
					ex.Elems = append(ex.Elems, block)
				}
				break loop

			case ex.Op.IsOperator(lexer.FUNC_CALL_TOK) && tok.Type == lexer.FUNC_CALL_TOK:
				// chained call: the finished call becomes the callee
				if len(ex.Elems) == 0 {
					return errors.Parser("Function call without symbol or expression")
				}
				if err := ex.convertToChildElem(); err != nil {
					return err
				}
				ex.Op = OperatorBlock(tok)

			case tok.Type == lexer.INDEX_TOK:
				if len(ex.Elems) == 0 {
					return errors.Parser("Suffix [] without symbol or expression")
				}
				ts.IncN(2) // skip the Index marker and the '[' char
				sub := &Expression{
					Op:    OperatorBlock(tok),
					Elems: []Block{ex.Elems[len(ex.Elems)-1]},
				}
				ex.Elems = ex.Elems[:len(ex.Elems)-1]
				if err := sub.parse(ts, []lexer.Token{lexer.NewScopeEnd(']')}); err != nil {
					return err
				}
				block, err := sub.ToBlock()
				if err != nil {
					return err
				}
				ex.Elems = append(ex.Elems, block)
				break loop

			case tok.Type == lexer.ARITH_TOK &&
				(ex.Op.IsOperator(lexer.FUNC_CALL_TOK) ||
					(ex.Op.IsOperator(lexer.INDEX_TOK) && ts.PrevIs(lexer.NewScopeEnd(']')))):
				// a completed call or index is the LHS of the arithmetic;
				// inside bracket content the generic rule below applies
				if err := ex.convertToChildElem(); err != nil {
					return err
				}
				ex.Op = OperatorBlock(tok)

			case tok.Type == lexer.COMPARISON_TOK:
				// the expression so far becomes the LHS of the comparison
				if len(ex.Elems) == 0 {
					return errors.Parser("Comparison without symbol or expression")
				}
				if err := ex.convertToChildElem(); err != nil {
					return err
				}
				ex.Op = OperatorBlock(tok)

			default: // fallback sequence
				if err := ex.genericAddNewOp(ts, end); err != nil {
					return err
				}
				break loop
			}
		}
		ts.Inc()
	}
	return nil
}

// Parse turns a token stream into the ordered statement list of the
// whole program.
func Parse(ts *lexer.TokenStream) ([]Expression, error) {
	trace.Printf("parsing start")
	output, err := parseScope(ts, nil)
	if err != nil {
		return nil, err
	}
	trace.Printf("parsing done: %d statements", len(output))
	return output, nil
}
