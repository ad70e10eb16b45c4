/*
File    : krusty-go/trace/trace.go
Author  : krusty-lang developers
*/

// Package trace provides diagnostic tracing for the Krusty interpreter.
// Tracing is disabled unless the KRUSTY_VERBOSE environment variable is set,
// so the hot paths pay only a boolean check in normal operation.
package trace

import (
	"fmt"
	"os"
)

// enabled is latched once at startup from the environment.
var enabled = os.Getenv("KRUSTY_VERBOSE") != ""

// Enabled reports whether verbose tracing is active.
func Enabled() bool {
	return enabled
}

// Printf writes a trace line to stderr when KRUSTY_VERBOSE is set.
func Printf(format string, a ...interface{}) {
	if enabled {
		fmt.Fprintf(os.Stderr, format+"\n", a...)
	}
}
