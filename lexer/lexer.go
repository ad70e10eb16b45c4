/*
File    : krusty-go/lexer/lexer.go
Author  : krusty-lang developers
*/

// Package lexer performs lexical analysis of Krusty source code.
//
// The scanner is regular-expression driven and uses a greedy
// longest-match strategy: characters are appended to a window one at a
// time; as soon as the window stops matching every token pattern, the
// last character is popped, a token is emitted from the trimmed window,
// and scanning resumes with the popped character. A continuation
// predicate keeps the window open while it holds a partially scanned
// quoted string, so string contents are never split.
//
// The scanner promotes the `ret` symbol to FuncReturn. A post-pass
// rewrites certain sequences as tokens are pushed to the output (see
// tweaks.go): a '(' following a symbol or a scope closer gains a
// FuncCall marker, and '[' gains an Index marker.
package lexer

import (
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/krusty-lang/krusty-go/errors"
	"github.com/krusty-lang/krusty-go/trace"
)

// Token patterns in priority order; the first matching pattern wins.
// The indices are significant: matchedToken dispatches on them.
var tokenPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^[*]?[_a-zA-Z]+[_a-zA-Z0-9]*$`),   // 0: symbol (leading '*' permitted)
	regexp.MustCompile(`^[+-]?[.\d]+$`),                   // 1: number
	regexp.MustCompile(`(?s)(^".*"$)|(^'.*'$)`),           // 2: string
	regexp.MustCompile(`^[+\-/*]$`),                       // 3: arith
	regexp.MustCompile(`^;$`),                             // 4: separator
	regexp.MustCompile(`^[({\[]$`),                        // 5: scope start
	regexp.MustCompile(`^[)}\]]$`),                        // 6: scope end
	regexp.MustCompile(`^=>$`),                            // 7: function def
	regexp.MustCompile(`^,$`),                             // 8: list
	regexp.MustCompile(`^=$`),                             // 9: assign
	regexp.MustCompile(`^#.*$`),                           // 10: comment
	regexp.MustCompile(`^(\r\n|\r|\n)$`),                  // 11: newline
	regexp.MustCompile(`^(==|!=|<|<=|>|>=)$`),             // 12: comparison
}

// continuationPattern suppresses token emission while the window holds
// the opened-but-unclosed prefix of a quoted string.
var continuationPattern = regexp.MustCompile(`^('[^']*|"[^"]*)$`)

// matchesAny reports whether the window still matches some token pattern.
func matchesAny(txt string) bool {
	for _, re := range tokenPatterns {
		if re.MatchString(txt) {
			return true
		}
	}
	return false
}

// matchedToken categorizes a completed window into a token.
// It returns (token, emitted=false) when the window is a string still
// being scanned, and an error when the window matches nothing.
func matchedToken(txt string, line int) (Token, bool, error) {
	if continuationPattern.MatchString(txt) {
		return Token{}, false, nil
	}
	for i, re := range tokenPatterns {
		if !re.MatchString(txt) {
			continue
		}
		var tok Token
		switch i {
		case 0:
			if txt == "ret" {
				tok = NewSimple(FUNC_RETURN_TOK)
			} else {
				tok = NewSymbol(txt)
			}
		case 1:
			if txt == "." {
				// a lone '.' matches the number pattern but is the accessor
				tok = NewSimple(ACCESSOR_TOK)
			} else {
				n, err := strconv.ParseFloat(txt, 64)
				if err != nil {
					return Token{}, false, errors.Lexer("'%s' is not a number", txt).WithPos("", line)
				}
				tok = NewNumber(n)
			}
		case 2:
			tok = NewText(txt[1 : len(txt)-1]) // excluding quotes
		case 3:
			tok = NewArith(txt[0])
		case 4:
			tok = NewSimple(SEPARATOR_TOK)
		case 5:
			tok = NewScopeStart(txt[0])
		case 6:
			tok = NewScopeEnd(txt[0])
		case 7:
			tok = NewSimple(FUNC_DEF_TOK)
		case 8:
			tok = NewSimple(LIST_TOK)
		case 9:
			tok = NewSimple(ASSIGN_TOK)
		case 10:
			tok = NewSimple(COMMENT_TOK)
		case 11:
			tok = NewSimple(NEWLINE_TOK)
		case 12:
			tok = NewComparison(txt)
		}
		tok.Line = line
		return tok, true, nil
	}
	return Token{}, false, errors.Lexer("Illegal symbol %s", txt).WithPos("", line)
}

// trimSpaces removes leading and trailing spaces and tabs from the
// window. Inner whitespace is kept, which is what separates adjacent
// tokens of the same class.
func trimSpaces(w string) string {
	return strings.Trim(w, " \t")
}

// Lexer scans a single source text into a token stream.
type Lexer struct {
	src  string // entire source text
	line int    // 1-indexed line of the character being scanned
}

// NewLexer creates a lexer for the given source text.
func NewLexer(src string) *Lexer {
	return &Lexer{
		src:  src,
		line: 1,
	}
}

// Tokenize scans the whole source and returns the token stream.
func (lx *Lexer) Tokenize() (*TokenStream, error) {
	out := NewTokenStream()
	var word []rune
	for _, c := range lx.src {
		word = append(word, c)
		trimmed := trimSpaces(string(word))
		if len(trimmed) > 1 && !matchesAny(trimmed) {
			// the window broke: pop the newest char and emit what was left
			word = word[:len(word)-1]
			emitted, err := lx.emit(out, string(word))
			if err != nil {
				return nil, err
			}
			if emitted {
				word = word[:0]
			}
			word = append(word, c)
		}
		if c == '\n' {
			lx.line++
		}
	}
	if len(word) != 0 { // check remainder
		if _, err := lx.emit(out, string(word)); err != nil {
			return nil, err
		}
	}
	trace.Printf("lex done: %d tokens", out.Len())
	return out, nil
}

// emit categorizes the trimmed window and pushes the token through the
// post-pass. Empty windows and string continuations emit nothing; the
// returned flag says whether the window was consumed.
func (lx *Lexer) emit(out *TokenStream, window string) (bool, error) {
	trimmed := trimSpaces(window)
	if trimmed == "" {
		return true, nil
	}
	tok, emitted, err := matchedToken(trimmed, lx.line)
	if err != nil {
		return false, err
	}
	if emitted {
		trace.Printf("token %s", tok)
		pushTweaked(tok, out)
	}
	return emitted, nil
}

// Lex scans source text into a token stream. Lexing whitespace-only
// input yields an empty stream.
func Lex(code string) (*TokenStream, error) {
	return NewLexer(code).Tokenize()
}

// LexFile reads an entire file into memory and lexes it. I/O failures
// surface as LexerError carrying the OS message.
func LexFile(path string) (*TokenStream, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Lexer("%v", err)
	}
	ts, lerr := Lex(string(content))
	if lerr != nil {
		if e, ok := lerr.(*errors.Error); ok {
			e.WithPos(path, -1)
		}
		return nil, lerr
	}
	return ts, nil
}
