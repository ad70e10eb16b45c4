/*
File    : krusty-go/eval/evaluator_test.go
Author  : krusty-lang developers
*/
package eval

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/krusty-lang/krusty-go/errors"
	"github.com/krusty-lang/krusty-go/lexer"
	"github.com/krusty-lang/krusty-go/parser"
)

// runSourceAt evaluates one program in a fresh root namespace rooted
// at path, capturing script output.
func runSourceAt(t *testing.T, src string, path string) (parser.Block, string, error) {
	t.Helper()
	ts, err := lexer.Lex(src)
	assert.NoError(t, err)
	exprs, err := parser.Parse(ts)
	assert.NoError(t, err)

	ns := NewNameSpace(path, nil)
	var buf bytes.Buffer
	ns.SetWriter(&buf)
	out, err := ns.Run(exprs)
	return out, buf.String(), err
}

// runSource is runSourceAt with no source path.
func runSource(t *testing.T, src string) (parser.Block, string, error) {
	t.Helper()
	return runSourceAt(t, src, "")
}

// TestScenario cases mirror end-to-end programs: source in, stdout out.
type TestScenario struct {
	Name   string
	Source string
	Stdout string
}

func TestRun_Scenarios(t *testing.T) {
	tests := []TestScenario{
		{
			Name:   "arith shares one precedence level",
			Source: `a = 1 + 2 * 3; print(a);`,
			Stdout: "7\n",
		},
		{
			Name:   "function definition and call",
			Source: `sq = (x) => { ret x * x; }; print(sq(5));`,
			Stdout: "25\n",
		},
		{
			Name:   "lists, len and zero-based indexing",
			Source: `xs = (1, 2, 3); print(len(xs)); print(xs[2]);`,
			Stdout: "3\n3\n",
		},
		{
			Name:   "module members and member calls",
			Source: `m = { a = 10; b = (x) => x + a; }; print(m.a); print(m.b(5));`,
			Stdout: "10\n15\n",
		},
		{
			Name:   "conditional pick",
			Source: `print(if(1 < 2, "yes", "no"));`,
			Stdout: "yes\n",
		},
		{
			Name:   "print expands text escapes",
			Source: `print("a\tb\nc");`,
			Stdout: "a\tb\nc\n",
		},
		{
			Name:   "last element via len",
			Source: `xs = (1, 2, 3); print(xs[len(xs) - 1]);`,
			Stdout: "3\n",
		},
		{
			Name:   "assignment shadows, outer binding survives",
			Source: `x = 1; f = (y) => { x = y; ret x; }; f(5); print(x);`,
			Stdout: "1\n",
		},
		{
			Name:   "index assignment mutates in place",
			Source: `xs = (1, 2, 3); xs[0] = 10; print(xs[0]);`,
			Stdout: "10\n",
		},
		{
			Name:   "member assignment inserts into the module",
			Source: `m = { a = 1; }; m.k = 5; print(m.k);`,
			Stdout: "5\n",
		},
		{
			Name:   "accessor evaluates expressions inside the module",
			Source: `m = { a = 1; }; print(m.(a + 1));`,
			Stdout: "2\n",
		},
	}

	for _, tc := range tests {
		t.Run(tc.Name, func(t *testing.T) {
			out, stdout, err := runSource(t, tc.Source)
			assert.NoError(t, err)
			assert.Equal(t, tc.Stdout, stdout)
			assert.Equal(t, parser.NULL_BLOCK, out.Kind, "print/assign statements yield Null")
		})
	}
}

func TestRun_ForeachPreservesResults(t *testing.T) {
	out, _, err := runSource(t, `foreach((1, 2, 3), (x) => x * 2);`)
	assert.NoError(t, err)
	l, ok := out.GetList()
	assert.True(t, ok)
	assert.Len(t, l, 3)
	want := []float64{2, 4, 6}
	for i, e := range l {
		n, ok := e.NumberVal()
		assert.True(t, ok)
		assert.Equal(t, want[i], n)
	}
}

func TestRun_ForeachOverText(t *testing.T) {
	out, _, err := runSource(t, `foreach("ab", (c) => { ret c; });`)
	assert.NoError(t, err)
	l, ok := out.GetList()
	assert.True(t, ok)
	assert.Len(t, l, 2)
	s, _ := l[0].TextVal()
	assert.Equal(t, "a", s)
}

func TestRun_IfReturnsValue(t *testing.T) {
	out, _, err := runSource(t, `if(1 < 2, "yes", "no")`)
	assert.NoError(t, err)
	s, ok := out.TextVal()
	assert.True(t, ok)
	assert.Equal(t, "yes", s)

	out, _, err = runSource(t, `if(false, 1, 2)`)
	assert.NoError(t, err)
	n, _ := out.NumberVal()
	assert.Equal(t, 2.0, n)
}

func TestRun_ArithOnTextRejected(t *testing.T) {
	_, _, err := runSource(t, `greet = (name) => { ret "Hello, " + name; }; print(greet("world"));`)
	assert.Error(t, err)
	assert.Equal(t, errors.EVAL_ERROR, errors.KindOf(err))
	assert.Contains(t, err.Error(), "Cannot perform Arith on Text")
}

func TestRun_ExitUnwindsAsSysExit(t *testing.T) {
	_, stdout, err := runSource(t, `print(1); exit(); print(2);`)
	assert.Error(t, err)
	assert.True(t, errors.IsSysExit(err))
	assert.Equal(t, "1\n", stdout, "nothing runs after exit")
}

func TestRun_TopLevelReturnFails(t *testing.T) {
	_, _, err := runSource(t, `ret 5;`)
	assert.Error(t, err)
	assert.Equal(t, errors.EVAL_ERROR, errors.KindOf(err))
}

func TestRun_UnknownSymbol(t *testing.T) {
	_, _, err := runSource(t, `print(nope);`)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "'nope' not found")
}

func TestRun_OutOfRangeIndex(t *testing.T) {
	_, _, err := runSource(t, `xs = (1, 2); print(xs[5]);`)
	assert.Error(t, err)
	assert.Equal(t, errors.EVAL_ERROR, errors.KindOf(err))
}

func TestRun_TextIndexingByCodepoint(t *testing.T) {
	_, stdout, err := runSource(t, `s = "héllo"; print(s[1]); print(len(s));`)
	assert.NoError(t, err)
	assert.Equal(t, "é\n5\n", stdout)
}

func TestRun_Comparisons(t *testing.T) {
	tests := []TestScenario{
		{Name: "numbers", Source: `print(1 < 2); print(2 <= 2); print(3 > 4);`, Stdout: "true\ntrue\nfalse\n"},
		{Name: "texts", Source: `print("a" < "b"); print("a" == "a");`, Stdout: "true\ntrue\n"},
		{Name: "bools", Source: `print(true == true); print(true != false);`, Stdout: "true\ntrue\n"},
		{Name: "lists elementwise", Source: `print((1, 2) == (1, 2)); print((1, 2) < (1, 3));`, Stdout: "true\ntrue\n"},
	}
	for _, tc := range tests {
		t.Run(tc.Name, func(t *testing.T) {
			_, stdout, err := runSource(t, tc.Source)
			assert.NoError(t, err)
			assert.Equal(t, tc.Stdout, stdout)
		})
	}
}

func TestRun_TypeTags(t *testing.T) {
	_, stdout, err := runSource(t,
		`print(type(1)); print(type("a")); print(type((1, 2))); print(type(true)); print(type(null)); print(type(print));`)
	assert.NoError(t, err)
	assert.Equal(t, "<Number>\n<Text>\n<List>\n<Bool>\n<Null>\n<NativeFunc>\n", stdout)
}

func TestRun_Assert(t *testing.T) {
	_, _, err := runSource(t, `assert(1 < 2);`)
	assert.NoError(t, err)

	_, _, err = runSource(t, `assert(1 > 2);`)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "assertion failed")
}

func TestRun_EmptyProgramYieldsNull(t *testing.T) {
	out, _, err := runSource(t, "")
	assert.NoError(t, err)
	assert.Equal(t, parser.NULL_BLOCK, out.Kind)
}

func TestRun_StatementSequencesCompose(t *testing.T) {
	// a later statement sees the binding made by an earlier one
	_, both, err := runSource(t, `a = 2; print(a * 3);`)
	assert.NoError(t, err)
	assert.Equal(t, "6\n", both)
}

func TestRun_ChainedCalls(t *testing.T) {
	_, stdout, err := runSource(t,
		`id = (x) => { ret x; }; pick = (n) => { ret id; }; print(pick(1)(7));`)
	assert.NoError(t, err)
	assert.Equal(t, "7\n", stdout)
}

func TestRun_ArgCountMismatch(t *testing.T) {
	_, _, err := runSource(t, `f = (a, b) => { ret a; }; f(1);`)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "don't match")
}

func TestImport_ScriptModule(t *testing.T) {
	dir := t.TempDir()
	mod := "b = 2;\nadd = (x) => { ret x + b; };\n"
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "mymod.krt"), []byte(mod), 0o644))

	src := `m = import("mymod"); print(m.add(1)); print(m.b);`
	_, stdout, err := runSourceAt(t, src, filepath.Join(dir, "main.krt"))
	assert.NoError(t, err)
	assert.Equal(t, "3\n2\n", stdout)
}

func TestImport_PathIsAbsolute(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "mymod.krt"), []byte("a = 1;"), 0o644))

	ts, err := lexer.Lex(`m = import("mymod");`)
	assert.NoError(t, err)
	exprs, err := parser.Parse(ts)
	assert.NoError(t, err)

	ns := NewNameSpace(filepath.Join(dir, "main.krt"), nil)
	_, err = ns.Run(exprs)
	assert.NoError(t, err)

	m, err := ns.Get("m")
	assert.NoError(t, err)
	assert.Equal(t, parser.MOD_BLOCK, m.Kind)
	assert.True(t, filepath.IsAbs(m.Mod.Path))
}

func TestImport_NotFound(t *testing.T) {
	_, _, err := runSourceAt(t, `import("definitely_missing_module");`, filepath.Join(t.TempDir(), "main.krt"))
	assert.Error(t, err)
	assert.Equal(t, errors.IMPORT_ERROR, errors.KindOf(err))
}

func TestImport_SpillMakesNamesVisible(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "mymod.krt"), []byte("b = 2;\nc = 3;"), 0o644))

	src := `spill(import("mymod")); print(b); print(c);`
	_, stdout, err := runSourceAt(t, src, filepath.Join(dir, "main.krt"))
	assert.NoError(t, err)
	assert.Equal(t, "2\n3\n", stdout)
}

func TestVars_ListsModuleNames(t *testing.T) {
	_, stdout, err := runSource(t, `m = { b = 1; a = 2; }; print(vars(m));`)
	assert.NoError(t, err)
	assert.Equal(t, "(\"a\",\"b\")\n", stdout)
}

func TestVars_CurrentModule(t *testing.T) {
	out, _, err := runSource(t, `zz = 1; vars();`)
	assert.NoError(t, err)
	l, ok := out.GetList()
	assert.True(t, ok)
	found := false
	for _, e := range l {
		if s, _ := e.TextVal(); s == "zz" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestModBody_TwiceProducesSameBindings(t *testing.T) {
	src := `m = { a = 1; b = (x) => { ret x; }; }; print(vars(m));`
	_, first, err := runSource(t, src)
	assert.NoError(t, err)
	_, second, err := runSource(t, src)
	assert.NoError(t, err)
	assert.Equal(t, first, second)
}
