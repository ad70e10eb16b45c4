/*
File    : krusty-go/lexer/stream.go
Author  : krusty-lang developers
*/
package lexer

// TokenStream is an immutable vector of lexed tokens with a movable
// cursor. The parser walks it with the Inc/Dec primitives and the
// CurrentIs/NextIs/PrevIs predicates; the token vector itself is never
// mutated after lexing completes.
type TokenStream struct {
	tokens  []Token
	pointer int
}

// NewTokenStream creates an empty token stream.
func NewTokenStream() *TokenStream {
	return &TokenStream{
		tokens:  make([]Token, 0),
		pointer: 0,
	}
}

// push appends a token during lexing. Not used after construction.
func (ts *TokenStream) push(t Token) {
	ts.tokens = append(ts.tokens, t)
}

// Len returns the total number of tokens.
func (ts *TokenStream) Len() int {
	return len(ts.tokens)
}

// Tokens returns the underlying token vector. Callers must not modify it.
func (ts *TokenStream) Tokens() []Token {
	return ts.tokens
}

func (ts *TokenStream) validIndex(i int) bool {
	return i >= 0 && i < len(ts.tokens)
}

// IncN moves the cursor forward by n.
func (ts *TokenStream) IncN(n int) {
	ts.pointer += n
}

// Inc moves the cursor forward by one.
func (ts *TokenStream) Inc() {
	ts.IncN(1)
}

// DecN moves the cursor backward by n.
func (ts *TokenStream) DecN(n int) {
	ts.pointer -= n
}

// Dec moves the cursor backward by one.
func (ts *TokenStream) Dec() {
	ts.DecN(1)
}

// CurrentIdx returns the cursor position.
func (ts *TokenStream) CurrentIdx() int {
	return ts.pointer
}

// At returns the token at index i, and whether the index is valid.
func (ts *TokenStream) At(i int) (Token, bool) {
	if ts.validIndex(i) {
		return ts.tokens[i], true
	}
	return Token{}, false
}

// Current returns the token under the cursor.
func (ts *TokenStream) Current() (Token, bool) {
	return ts.At(ts.pointer)
}

// Next peeks one token ahead of the cursor.
func (ts *TokenStream) Next() (Token, bool) {
	return ts.At(ts.pointer + 1)
}

// Prev peeks one token behind the cursor.
func (ts *TokenStream) Prev() (Token, bool) {
	return ts.At(ts.pointer - 1)
}

// AtEnd reports whether the cursor has moved past the last token.
func (ts *TokenStream) AtEnd() bool {
	return !ts.validIndex(ts.pointer)
}

// CurrentIs reports whether the cursor token equals other.
// Returns false when the cursor is out of range.
func (ts *TokenStream) CurrentIs(other Token) bool {
	t, ok := ts.Current()
	return ok && t.Eq(other)
}

// NextIs reports whether the token after the cursor equals other.
func (ts *TokenStream) NextIs(other Token) bool {
	t, ok := ts.Next()
	return ok && t.Eq(other)
}

// PrevIs reports whether the token before the cursor equals other.
func (ts *TokenStream) PrevIs(other Token) bool {
	t, ok := ts.Prev()
	return ok && t.Eq(other)
}

func isIn(t Token, ok bool, others []Token) bool {
	if !ok {
		return false
	}
	for _, o := range others {
		if t.Eq(o) {
			return true
		}
	}
	return false
}

// CurrentIsIn reports whether the cursor token is a member of others.
// Returns false when the cursor is past the end.
func (ts *TokenStream) CurrentIsIn(others []Token) bool {
	t, ok := ts.Current()
	return isIn(t, ok, others)
}

// NextIsIn reports whether the token after the cursor is in others.
func (ts *TokenStream) NextIsIn(others []Token) bool {
	t, ok := ts.Next()
	return isIn(t, ok, others)
}

// PrevIsIn reports whether the token before the cursor is in others.
func (ts *TokenStream) PrevIsIn(others []Token) bool {
	t, ok := ts.Prev()
	return isIn(t, ok, others)
}
