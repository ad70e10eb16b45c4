/*
File    : krusty-go/plugins/os/os.go
Author  : krusty-lang developers

The os plugin exposes a few filesystem helpers to Krusty scripts.
Build it as a native module and import it by name:

	go build -buildmode=plugin -o libos.so ./plugins/os

	m = import_native("os");
	print(m.listdir());
*/
package main

import (
	"os"

	"github.com/krusty-lang/krusty-go/errors"
	"github.com/krusty-lang/krusty-go/lexer"
	"github.com/krusty-lang/krusty-go/parser"
)

// readDirToList collects the entry names of a directory.
func readDirToList(dirpath string) ([]parser.Block, error) {
	entries, err := os.ReadDir(dirpath)
	if err != nil {
		return nil, errors.Generic("%v", err)
	}
	out := make([]parser.Block, 0, len(entries))
	for _, e := range entries {
		out = append(out, parser.ObjectBlock(lexer.NewText(e.Name())))
	}
	return out, nil
}

// listdir returns the names in the given directory, or in the current
// working directory when called without arguments.
func listdir(ns parser.Namespace, args []parser.Block) (parser.Block, error) {
	if len(args) > 1 {
		return parser.Block{}, errors.Eval("listdir: expected 0..1, but received %d args", len(args))
	}
	dir := "."
	if len(args) == 1 {
		t, ok := args[0].TextVal()
		if !ok {
			return parser.Block{}, errors.Eval("listdir only takes text")
		}
		dir = t
	} else if cwd, err := os.Getwd(); err == nil {
		dir = cwd
	}
	entries, err := readDirToList(dir)
	if err != nil {
		return parser.Block{}, err
	}
	return parser.ListBlock(entries), nil
}

// getcwd returns the current working directory.
func getcwd(ns parser.Namespace, args []parser.Block) (parser.Block, error) {
	if len(args) != 0 {
		return parser.Block{}, errors.Eval("getcwd: expected 0, but received %d args", len(args))
	}
	cwd, err := os.Getwd()
	if err != nil {
		return parser.Block{}, errors.Generic("%v", err)
	}
	return parser.ObjectBlock(lexer.NewText(cwd)), nil
}

// remove deletes a file.
func remove(ns parser.Namespace, args []parser.Block) (parser.Block, error) {
	if len(args) != 1 {
		return parser.Block{}, errors.Eval("remove: expected 1, but received %d args", len(args))
	}
	if t, ok := args[0].TextVal(); ok {
		if err := os.Remove(t); err != nil {
			return parser.Block{}, errors.Generic("%v", err)
		}
	}
	return parser.NullBlock(), nil
}

// Load is the entry point the interpreter looks up after opening the
// library. It populates the module's variable table.
func Load(vars parser.ModuleVars) {
	parser.RegisterNative(vars, "listdir", listdir)
	parser.RegisterNative(vars, "getcwd", getcwd)
	parser.RegisterNative(vars, "remove", remove)
}

func main() {}
