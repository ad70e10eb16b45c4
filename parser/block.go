/*
File    : krusty-go/parser/block.go
Author  : krusty-lang developers
*/

// Package parser assembles a lexed token stream into an AST of
// operator-rooted expressions. The central type is Block, a tagged
// variant covering literals, operators, lists, expressions, functions
// and modules - it serves both as AST node and as runtime value.
package parser

import (
	"fmt"
	"strings"

	"github.com/krusty-lang/krusty-go/lexer"
)

// BlockKind tags the active variant of a Block.
type BlockKind string

const (
	NULL_BLOCK        BlockKind = "Null"
	BOOL_BLOCK        BlockKind = "Bool"
	OBJECT_BLOCK      BlockKind = "Object"
	OPERATOR_BLOCK    BlockKind = "Operator"
	SCOPE_BLOCK       BlockKind = "Scope"
	EXPR_BLOCK        BlockKind = "Expr"
	LIST_BLOCK        BlockKind = "List"
	FUNC_BLOCK        BlockKind = "Func"
	FUNC_BODY_BLOCK   BlockKind = "FuncBody"
	NATIVE_FUNC_BLOCK BlockKind = "NativeFunc"
	MOD_BLOCK         BlockKind = "Module"
	MOD_BODY_BLOCK    BlockKind = "ModBody"
)

// Block is the AST value node. Only the payload matching Kind is
// meaningful. Expr is the single recursive arm (boxed through a
// pointer), so the tree is strictly acyclic by construction.
type Block struct {
	Kind   BlockKind
	Bool   bool           // BOOL_BLOCK
	Tok    lexer.Token    // OBJECT_BLOCK, OPERATOR_BLOCK
	Scope  byte           // SCOPE_BLOCK (transient parser marker)
	Expr   *Expression    // EXPR_BLOCK
	List   []Block        // LIST_BLOCK
	Func   *FuncDef       // FUNC_BLOCK
	Body   []Expression   // FUNC_BODY_BLOCK, MOD_BODY_BLOCK
	Native *NativeFuncDef // NATIVE_FUNC_BLOCK
	Mod    *Module        // MOD_BLOCK
}

// NullBlock creates the null value.
func NullBlock() Block {
	return Block{Kind: NULL_BLOCK}
}

// BoolBlock creates a boolean value.
func BoolBlock(b bool) Block {
	return Block{Kind: BOOL_BLOCK, Bool: b}
}

// ObjectBlock wraps a Number, Text or Symbol atom.
func ObjectBlock(tok lexer.Token) Block {
	return Block{Kind: OBJECT_BLOCK, Tok: tok}
}

// OperatorBlock records the operator heading an expression.
func OperatorBlock(tok lexer.Token) Block {
	return Block{Kind: OPERATOR_BLOCK, Tok: tok}
}

// ScopeBlock is the transient marker for a scope opener.
func ScopeBlock(c byte) Block {
	return Block{Kind: SCOPE_BLOCK, Scope: c}
}

// ExprBlock boxes a sub-expression.
func ExprBlock(ex *Expression) Block {
	return Block{Kind: EXPR_BLOCK, Expr: ex}
}

// ListBlock creates an ordered list value.
func ListBlock(elems []Block) Block {
	return Block{Kind: LIST_BLOCK, List: elems}
}

// FuncBlock wraps a user function definition.
func FuncBlock(f *FuncDef) Block {
	return Block{Kind: FUNC_BLOCK, Func: f}
}

// FuncBodyBlock wraps the statements of a braced function body.
func FuncBodyBlock(exprs []Expression) Block {
	return Block{Kind: FUNC_BODY_BLOCK, Body: exprs}
}

// NativeFuncBlock wraps a host function.
func NativeFuncBlock(def *NativeFuncDef) Block {
	return Block{Kind: NATIVE_FUNC_BLOCK, Native: def}
}

// ModBlock wraps a materialized module.
func ModBlock(m *Module) Block {
	return Block{Kind: MOD_BLOCK, Mod: m}
}

// ModBodyBlock wraps the statements of a braced module body. Same
// definition as FuncBodyBlock, but evaluated into a module instead of
// a return value.
func ModBodyBlock(exprs []Expression) Block {
	return Block{Kind: MOD_BODY_BLOCK, Body: exprs}
}

// categorize converts a raw token into its parse-time block form.
func categorize(tok lexer.Token) Block {
	switch tok.Type {
	case lexer.SYMBOL_TOK, lexer.NUMBER_TOK, lexer.TEXT_TOK:
		return ObjectBlock(tok)
	case lexer.ARITH_TOK, lexer.COMPARISON_TOK, lexer.FUNC_DEF_TOK,
		lexer.ASSIGN_TOK, lexer.LIST_TOK, lexer.FUNC_CALL_TOK,
		lexer.FUNC_RETURN_TOK, lexer.INDEX_TOK, lexer.ACCESSOR_TOK:
		return OperatorBlock(tok)
	case lexer.SCOPE_START_TOK:
		return ScopeBlock(tok.Ch)
	default:
		return NullBlock()
	}
}

// IsNull reports whether the block is the null value.
func (b Block) IsNull() bool {
	return b.Kind == NULL_BLOCK
}

// IsOperator reports whether the block is the given operator.
func (b Block) IsOperator(t lexer.TokenType) bool {
	return b.Kind == OPERATOR_BLOCK && b.Tok.Type == t
}

// SymbolName returns the symbol text when the block wraps a symbol atom.
func (b Block) SymbolName() (string, bool) {
	if b.Kind == OBJECT_BLOCK && b.Tok.Type == lexer.SYMBOL_TOK {
		return b.Tok.Text, true
	}
	return "", false
}

// NumberVal returns the numeric value when the block wraps a number atom.
func (b Block) NumberVal() (float64, bool) {
	if b.Kind == OBJECT_BLOCK && b.Tok.Type == lexer.NUMBER_TOK {
		return b.Tok.Num, true
	}
	return 0, false
}

// TextVal returns the string value when the block wraps a text atom.
func (b Block) TextVal() (string, bool) {
	if b.Kind == OBJECT_BLOCK && b.Tok.Type == lexer.TEXT_TOK {
		return b.Tok.Text, true
	}
	return "", false
}

// GetList returns the elements when the block is a list.
func (b Block) GetList() ([]Block, bool) {
	if b.Kind == LIST_BLOCK {
		return b.List, true
	}
	return nil, false
}

// GetBool returns the boolean payload when the block is a bool.
func (b Block) GetBool() (bool, bool) {
	if b.Kind == BOOL_BLOCK {
		return b.Bool, true
	}
	return false, false
}

// Clone makes a deep copy of the block. Lists and modules copy their
// contents; native function entries copy by name and pointer.
func (b Block) Clone() Block {
	out := b
	switch b.Kind {
	case LIST_BLOCK:
		out.List = make([]Block, len(b.List))
		for i, e := range b.List {
			out.List[i] = e.Clone()
		}
	case MOD_BLOCK:
		out.Mod = b.Mod.Clone()
	}
	// Expr, Func and Body are immutable once parsed: sharing them is safe.
	return out
}

// Equal compares two blocks structurally. Modules compare by path and
// number of bindings, native functions by registered name.
func (b Block) Equal(other Block) bool {
	if b.Kind != other.Kind {
		return false
	}
	switch b.Kind {
	case NULL_BLOCK:
		return true
	case BOOL_BLOCK:
		return b.Bool == other.Bool
	case OBJECT_BLOCK, OPERATOR_BLOCK:
		return b.Tok.Eq(other.Tok)
	case SCOPE_BLOCK:
		return b.Scope == other.Scope
	case LIST_BLOCK:
		if len(b.List) != len(other.List) {
			return false
		}
		for i := range b.List {
			if !b.List[i].Equal(other.List[i]) {
				return false
			}
		}
		return true
	case NATIVE_FUNC_BLOCK:
		return b.Native.Name == other.Native.Name
	case MOD_BLOCK:
		return b.Mod.Path == other.Mod.Path && len(b.Mod.Vars) == len(other.Mod.Vars)
	case EXPR_BLOCK:
		return b.Expr.equal(other.Expr)
	case FUNC_BLOCK:
		return b.Func.Args.Equal(other.Func.Args) && b.Func.Body.Equal(other.Func.Body)
	case FUNC_BODY_BLOCK, MOD_BODY_BLOCK:
		if len(b.Body) != len(other.Body) {
			return false
		}
		for i := range b.Body {
			if !b.Body[i].equal(&other.Body[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// Compare orders two blocks. Numbers and texts compare naturally and
// lists compare element-wise; every other pairing is unordered. The
// second return is false when the pair cannot be ordered.
func (b Block) Compare(other Block) (int, bool) {
	if n1, ok1 := b.NumberVal(); ok1 {
		if n2, ok2 := other.NumberVal(); ok2 {
			switch {
			case n1 < n2:
				return -1, true
			case n1 > n2:
				return 1, true
			}
			return 0, true
		}
		return 0, false
	}
	if t1, ok1 := b.TextVal(); ok1 {
		if t2, ok2 := other.TextVal(); ok2 {
			return strings.Compare(t1, t2), true
		}
		return 0, false
	}
	if b.Kind == LIST_BLOCK && other.Kind == LIST_BLOCK {
		for i := 0; i < len(b.List) && i < len(other.List); i++ {
			c, ok := b.List[i].Compare(other.List[i])
			if !ok {
				return 0, false
			}
			if c != 0 {
				return c, true
			}
		}
		switch {
		case len(b.List) < len(other.List):
			return -1, true
		case len(b.List) > len(other.List):
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// TypeName returns the display tag of the value, e.g. "<Number>".
func (b Block) TypeName() string {
	switch b.Kind {
	case OBJECT_BLOCK:
		switch b.Tok.Type {
		case lexer.NUMBER_TOK:
			return "<Number>"
		case lexer.TEXT_TOK:
			return "<Text>"
		default:
			return "<Symbol>"
		}
	default:
		return fmt.Sprintf("<%s>", b.Kind)
	}
}

// String renders the block for display.
func (b Block) String() string {
	switch b.Kind {
	case NULL_BLOCK:
		return "null"
	case BOOL_BLOCK:
		return fmt.Sprintf("%t", b.Bool)
	case OBJECT_BLOCK, OPERATOR_BLOCK:
		return b.Tok.String()
	case LIST_BLOCK:
		parts := make([]string, len(b.List))
		for i, e := range b.List {
			parts[i] = e.String()
		}
		return "(" + strings.Join(parts, ",") + ")"
	case FUNC_BLOCK:
		return "<Func>"
	case NATIVE_FUNC_BLOCK:
		return fmt.Sprintf("<NativeFunc %s>", b.Native.Name)
	case MOD_BLOCK:
		return fmt.Sprintf("<module at %p>", b.Mod)
	default:
		return fmt.Sprintf("<%s>", b.Kind)
	}
}
