/*
File    : krusty-go/lexer/token.go
Author  : krusty-lang developers
*/
package lexer

import (
	"fmt"
	"strconv"
)

// TokenType represents the type of a lexical token in the Krusty language.
// It is defined as a string to allow for easy comparison and debugging.
type TokenType string

// TokenType constants:
// These cover every token the scanner can produce, plus the synthetic
// tokens inserted by the post-pass (FuncCall, Index) and the keyword
// promotion of `ret` (FuncReturn).
const (
	// Value-carrying tokens
	NUMBER_TOK TokenType = "Number" // numeric literal, payload in Num
	TEXT_TOK   TokenType = "Text"   // quoted string, payload in Text (quotes stripped)
	SYMBOL_TOK TokenType = "Symbol" // identifier, payload in Text

	// Operators
	ARITH_TOK      TokenType = "Arith"      // one of + - * /, payload in Ch
	COMPARISON_TOK TokenType = "Comparison" // == != < <= > >=, payload in Text
	ASSIGN_TOK     TokenType = "Assign"     // =
	ACCESSOR_TOK   TokenType = "Accessor"   // .
	FUNC_DEF_TOK   TokenType = "FuncDef"    // =>

	// Structure
	SCOPE_START_TOK TokenType = "ScopeStart" // ( { [, payload in Ch
	SCOPE_END_TOK   TokenType = "ScopeEnd"   // ) } ], payload in Ch
	SEPARATOR_TOK   TokenType = "Separator"  // ;
	LIST_TOK        TokenType = "List"       // ,

	// Synthetic tokens (never produced directly from source text)
	FUNC_CALL_TOK   TokenType = "FuncCall"   // inserted before '(' after a symbol or scope closer
	FUNC_RETURN_TOK TokenType = "FuncReturn" // promotion of the `ret` symbol
	INDEX_TOK       TokenType = "Index"      // inserted before '['

	// Ignorable tokens (consumed by the parser, never evaluated)
	COMMENT_TOK TokenType = "Comment" // '#' to end of line
	NEWLINE_TOK TokenType = "NewLine" // \n, \r or \r\n
)

// Token is a single lexical token. Only the payload field matching the
// Type is meaningful; the others stay at their zero values. Line records
// the 1-indexed source line the token started on and is ignored by Eq,
// so that parser end-token comparisons work across lines.
type Token struct {
	Type TokenType
	Num  float64 // NUMBER_TOK
	Text string  // TEXT_TOK, SYMBOL_TOK, COMPARISON_TOK
	Ch   byte    // ARITH_TOK, SCOPE_START_TOK, SCOPE_END_TOK
	Line int
}

// NewNumber creates a number token.
func NewNumber(n float64) Token {
	return Token{Type: NUMBER_TOK, Num: n}
}

// NewText creates a text token (quotes already stripped).
func NewText(s string) Token {
	return Token{Type: TEXT_TOK, Text: s}
}

// NewSymbol creates a symbol token.
func NewSymbol(s string) Token {
	return Token{Type: SYMBOL_TOK, Text: s}
}

// NewArith creates an arithmetic operator token for one of + - * /.
func NewArith(c byte) Token {
	return Token{Type: ARITH_TOK, Ch: c}
}

// NewComparison creates a comparison operator token.
func NewComparison(op string) Token {
	return Token{Type: COMPARISON_TOK, Text: op}
}

// NewScopeStart creates a scope opener token for one of ( { [.
func NewScopeStart(c byte) Token {
	return Token{Type: SCOPE_START_TOK, Ch: c}
}

// NewScopeEnd creates a scope closer token for one of ) } ].
func NewScopeEnd(c byte) Token {
	return Token{Type: SCOPE_END_TOK, Ch: c}
}

// NewSimple creates a payload-free token (Separator, FuncDef, FuncCall,
// FuncReturn, List, Index, Assign, Accessor, Comment, NewLine).
func NewSimple(t TokenType) Token {
	return Token{Type: t}
}

// Eq compares two tokens by type and payload, ignoring source position.
func (t Token) Eq(other Token) bool {
	return t.Type == other.Type &&
		t.Num == other.Num &&
		t.Text == other.Text &&
		t.Ch == other.Ch
}

// IsNewline reports whether the token is a line break.
func (t Token) IsNewline() bool {
	return t.Type == NEWLINE_TOK
}

// String renders the token for diagnostics and value display.
// Numbers print without a trailing fraction when whole (7, not 7.000000).
func (t Token) String() string {
	switch t.Type {
	case NUMBER_TOK:
		return strconv.FormatFloat(t.Num, 'f', -1, 64)
	case TEXT_TOK:
		return fmt.Sprintf("%q", t.Text)
	case SYMBOL_TOK, COMPARISON_TOK:
		return t.Text
	case ARITH_TOK, SCOPE_START_TOK, SCOPE_END_TOK:
		return string(t.Ch)
	default:
		return string(t.Type)
	}
}
