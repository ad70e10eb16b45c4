/*
File    : krusty-go/repl/repl.go
Author  : krusty-lang developers

Package repl implements the interactive prompt for the Krusty
interpreter. It provides:
- line editing and persistent history (via the readline library)
- multi-line continuation: input is read until brackets and quotes
  balance and a statement separator is seen
- colored feedback: errors in red, expression results in yellow
- a namespace that survives errors, so bindings accumulated by
  earlier statements are preserved
*/
package repl

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/krusty-lang/krusty-go/errors"
	"github.com/krusty-lang/krusty-go/eval"
	"github.com/krusty-lang/krusty-go/lexer"
	"github.com/krusty-lang/krusty-go/parser"
	"github.com/krusty-lang/krusty-go/pkg"
)

// Color definitions for REPL output.
var (
	blueColor   = color.New(color.FgCyan, color.Bold)
	redColor    = color.New(color.FgRed, color.Bold)
	yellowColor = color.New(color.FgYellow)
	greenColor  = color.New(color.FgGreen, color.Bold)
)

// Repl holds the configuration of one interactive session.
type Repl struct {
	Version    string // interpreter version shown in the banner
	Prompt     string // primary prompt
	ContPrompt string // continuation prompt for unfinished statements
}

// NewRepl creates a REPL with the standard prompts.
func NewRepl(version string) *Repl {
	return &Repl{
		Version:    version,
		Prompt:     ">> ",
		ContPrompt: ".. ",
	}
}

// historyPath returns the persistent history file (~/.krusty/history),
// or "" when the home directory is unavailable (history then stays
// in-memory only).
func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	dir := filepath.Join(home, pkg.INSTALL_FOLDER)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return ""
	}
	return filepath.Join(dir, "history")
}

// matchPair returns the closer a given opener wants.
func matchPair(c byte) (byte, bool) {
	switch c {
	case '{':
		return '}', true
	case '[':
		return ']', true
	case '(':
		return ')', true
	case '"':
		return '"', true
	case '\'':
		return '\'', true
	}
	return 0, false
}

// scanComplete feeds one chunk of input through the pair tracker and
// reports whether a full statement has been seen: all pairs closed
// and a ';' at nesting depth zero.
func scanComplete(s string, want *[]byte) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if n := len(*want); n > 0 && c == (*want)[n-1] {
			*want = (*want)[:n-1]
		} else if w, ok := matchPair(c); ok {
			*want = append(*want, w)
		} else if len(*want) == 0 && c == ';' {
			return true
		}
	}
	return false
}

// readExpr reads one complete input unit, prompting with the
// continuation prompt until the statement is finished.
func (r *Repl) readExpr(rl *readline.Instance) (string, error) {
	rl.SetPrompt(blueColor.Sprint(r.Prompt))
	buffer, err := rl.Readline()
	if err != nil {
		return "", err
	}
	want := make([]byte, 0)
	scanned := 0
	for strings.TrimSpace(buffer) != "" {
		buffer += "\n" // readline strips the newline; put one back
		if scanComplete(buffer[scanned:], &want) {
			break
		}
		scanned = len(buffer)
		rl.SetPrompt(blueColor.Sprint(r.ContPrompt))
		more, err := rl.Readline()
		if err != nil {
			return "", err
		}
		buffer += more
	}
	return buffer, nil
}

// offendingLine picks the source line an error points at, falling
// back to the whole (trimmed) input when no position is known.
func offendingLine(source string, lino int) string {
	lines := strings.Split(source, "\n")
	if lino >= 1 && lino <= len(lines) {
		return strings.TrimSpace(lines[lino-1])
	}
	return strings.TrimSpace(source)
}

// printError shows the two-line error report: a labelled header with
// the offending source line, then the message.
func printError(w io.Writer, source string, err error) {
	e, ok := err.(*errors.Error)
	if !ok {
		redColor.Fprintf(w, "Error: %v\n", err)
		return
	}
	redColor.Fprintf(w, "%s: %s\n", e.Name(), offendingLine(source, e.Line))
	redColor.Fprintf(w, "%s\n", e.Msg)
}

// execute runs one input unit against the session namespace. It
// returns true when the script requested termination via exit().
func (r *Repl) execute(w io.Writer, input string, ns *eval.NameSpace) bool {
	ts, err := lexer.Lex(input)
	if err == nil {
		var exprs []parser.Expression
		exprs, err = parser.Parse(ts)
		if err == nil {
			var out parser.Block
			out, err = ns.Run(exprs)
			if err == nil && out.Kind != parser.NULL_BLOCK {
				resolved, rerr := ns.Resolve(out)
				if rerr != nil {
					err = rerr
				} else {
					yellowColor.Fprintf(w, "%s\n", resolved)
				}
			}
		}
	}
	if err != nil {
		if errors.IsSysExit(err) {
			return true
		}
		printError(w, input, err)
	}
	return false
}

// Start runs the interactive loop until Ctrl+C, Ctrl+D or exit().
// Errors terminate only the current input unit: the namespace - and
// everything bound by earlier statements - carries over.
func (r *Repl) Start(w io.Writer) error {
	greenColor.Fprintf(w, "Welcome to Krusty %s repl. Ctrl+C to exit!\n", r.Version)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          blueColor.Sprint(r.Prompt),
		HistoryFile:     historyPath(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	ns := eval.NewNameSpace(cwd, nil)
	ns.SetWriter(w)

	for {
		input, err := r.readExpr(rl)
		if err != nil { // Ctrl+C or Ctrl+D
			if err == readline.ErrInterrupt || err == io.EOF {
				return nil
			}
			return err
		}
		if strings.TrimSpace(input) == "" {
			continue
		}
		if r.execute(w, input, ns) {
			return nil
		}
	}
}
