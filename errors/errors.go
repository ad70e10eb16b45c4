/*
File    : krusty-go/errors/errors.go
Author  : krusty-lang developers
*/

// Package errors defines the error taxonomy shared by every layer of the
// Krusty interpreter. Each error carries a kind tag, a human-readable
// message, and - once the lexer has populated them - the file name and
// line number the error originated from.
//
// SysExit is special: it is how the exit() builtin unwinds the evaluator.
// The top-level drivers recognize it with IsSysExit and suppress it from
// the user-facing error channel.
package errors

import "fmt"

// Kind identifies which layer of the interpreter produced an error.
type Kind string

const (
	GENERIC_ERROR Kind = "GenericError"
	LEXER_ERROR   Kind = "LexerError"
	PARSER_ERROR  Kind = "ParserError"
	EVAL_ERROR    Kind = "EvalError"
	IMPORT_ERROR  Kind = "ImportError"
	SYS_EXIT      Kind = "SysExit"
)

// Error is the concrete error type used across the interpreter.
// Line is -1 until a layer that knows source positions fills it in.
type Error struct {
	Kind Kind   // which layer raised this
	Msg  string // human readable message
	File string // source file name, "" when not known
	Line int    // 1-indexed source line, -1 when not known
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Msg
}

// Name returns the kind tag as a string (e.g. "ParserError").
func (e *Error) Name() string {
	return string(e.Kind)
}

// WithPos returns the error with file/line position filled in.
// Positions already present are kept; -1 and "" act as "unknown".
func (e *Error) WithPos(file string, line int) *Error {
	if e.File == "" {
		e.File = file
	}
	if e.Line < 0 {
		e.Line = line
	}
	return e
}

// newError builds an Error of the given kind with a formatted message.
func newError(kind Kind, format string, a ...interface{}) *Error {
	return &Error{
		Kind: kind,
		Msg:  fmt.Sprintf(format, a...),
		File: "",
		Line: -1,
	}
}

// Generic creates a GenericError.
func Generic(format string, a ...interface{}) *Error {
	return newError(GENERIC_ERROR, format, a...)
}

// Lexer creates a LexerError.
func Lexer(format string, a ...interface{}) *Error {
	return newError(LEXER_ERROR, format, a...)
}

// Parser creates a ParserError.
func Parser(format string, a ...interface{}) *Error {
	return newError(PARSER_ERROR, format, a...)
}

// Eval creates an EvalError.
func Eval(format string, a ...interface{}) *Error {
	return newError(EVAL_ERROR, format, a...)
}

// Import creates an ImportError.
func Import(format string, a ...interface{}) *Error {
	return newError(IMPORT_ERROR, format, a...)
}

// SysExit creates the sentinel error used by the exit() builtin.
func SysExit() *Error {
	return newError(SYS_EXIT, "exit")
}

// KindOf returns the kind of err, or GENERIC_ERROR for foreign errors.
func KindOf(err error) Kind {
	if e, ok := err.(*Error); ok {
		return e.Kind
	}
	return GENERIC_ERROR
}

// IsSysExit reports whether err is the orderly-termination marker.
func IsSysExit(err error) bool {
	return KindOf(err) == SYS_EXIT
}
