/*
File    : krusty-go/lexer/stream_test.go
Author  : krusty-lang developers
*/
package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleStream(t *testing.T) *TokenStream {
	t.Helper()
	ts, err := Lex(`a = 1;`)
	assert.NoError(t, err)
	return ts
}

func TestTokenStream_Cursor(t *testing.T) {
	ts := sampleStream(t) // a = 1 ;

	cur, ok := ts.Current()
	assert.True(t, ok)
	assert.True(t, cur.Eq(NewSymbol("a")))
	assert.Equal(t, 0, ts.CurrentIdx())

	nxt, ok := ts.Next()
	assert.True(t, ok)
	assert.True(t, nxt.Eq(NewSimple(ASSIGN_TOK)))

	_, ok = ts.Prev()
	assert.False(t, ok, "no token before the first")

	ts.Inc()
	prev, ok := ts.Prev()
	assert.True(t, ok)
	assert.True(t, prev.Eq(NewSymbol("a")))

	ts.IncN(2)
	cur, ok = ts.Current()
	assert.True(t, ok)
	assert.True(t, cur.Eq(NewSimple(SEPARATOR_TOK)))

	ts.Dec()
	cur, _ = ts.Current()
	assert.True(t, cur.Eq(NewNumber(1)))

	ts.DecN(2)
	assert.Equal(t, 0, ts.CurrentIdx())
}

func TestTokenStream_Predicates(t *testing.T) {
	ts := sampleStream(t)

	assert.True(t, ts.CurrentIs(NewSymbol("a")))
	assert.False(t, ts.CurrentIs(NewSymbol("b")))
	assert.True(t, ts.NextIs(NewSimple(ASSIGN_TOK)))
	assert.False(t, ts.PrevIs(NewSymbol("a")))

	set := []Token{NewSimple(SEPARATOR_TOK), NewSymbol("a")}
	assert.True(t, ts.CurrentIsIn(set))
	assert.False(t, ts.NextIsIn(set))

	// the set form returns false past the end
	ts.IncN(10)
	assert.True(t, ts.AtEnd())
	assert.False(t, ts.CurrentIsIn(set))
	assert.False(t, ts.NextIsIn(set))
	assert.False(t, ts.CurrentIs(NewSymbol("a")))
}

func TestTokenStream_At(t *testing.T) {
	ts := sampleStream(t)
	tok, ok := ts.At(2)
	assert.True(t, ok)
	assert.True(t, tok.Eq(NewNumber(1)))

	_, ok = ts.At(99)
	assert.False(t, ok)
	_, ok = ts.At(-1)
	assert.False(t, ok)
}
