/*
File    : krusty-go/main.go
Author  : krusty-lang developers

The krusty command runs Krusty scripts, installs packages, or starts
an interactive prompt:

	krusty                      Start the REPL
	krusty script.krt ...       Run script files in order
	krusty --install <path>     Install a package into ~/.krusty/pkg
	krusty --version            Print the version
*/
package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/krusty-lang/krusty-go/errors"
	"github.com/krusty-lang/krusty-go/eval"
	"github.com/krusty-lang/krusty-go/lexer"
	"github.com/krusty-lang/krusty-go/parser"
	"github.com/krusty-lang/krusty-go/pkg"
	"github.com/krusty-lang/krusty-go/repl"
	"github.com/krusty-lang/krusty-go/trace"
)

// VERSION is the interpreter version reported by --version and the
// REPL banner.
var VERSION = "0.9.0"

var redColor = color.New(color.FgRed, color.Bold)

// runFile lexes, parses and evaluates one script file in a fresh root
// namespace.
func runFile(path string) error {
	ns := eval.NewNameSpace(path, nil)
	trace.Printf("running %s", ns.Path())

	ts, err := lexer.LexFile(path)
	if err != nil {
		return err
	}
	exprs, err := parser.Parse(ts)
	if err != nil {
		return err
	}
	_, err = ns.Run(exprs)
	return err
}

// newRootCmd builds the CLI surface.
func newRootCmd() *cobra.Command {
	var installPath string

	cmd := &cobra.Command{
		Use:           "krusty [script ...]",
		Short:         "The Krusty language interpreter",
		Long:          "Krusty is a small dynamically-typed scripting language.\nWith no arguments krusty starts an interactive prompt.",
		Version:       VERSION,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if installPath != "" {
				return pkg.Install(installPath)
			}
			if len(args) == 0 {
				return repl.NewRepl(VERSION).Start(os.Stdout)
			}
			for _, f := range args {
				if err := runFile(f); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&installPath, "install", "", "install a package directory, script or native library into ~/.krusty/pkg")
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if errors.IsSysExit(err) {
			os.Exit(0) // exit() is an orderly termination, not a failure
		}
		if e, ok := err.(*errors.Error); ok {
			if e.File != "" {
				redColor.Fprintf(os.Stderr, "%s in %s\n", e.Name(), e.File)
			}
			redColor.Fprintf(os.Stderr, "%s: %s\n", e.Name(), e.Msg)
		} else {
			redColor.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
