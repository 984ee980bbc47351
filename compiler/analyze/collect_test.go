package analyze

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tlog.app/go/errors"

	"github.com/uralgo2/nextc/compiler/grammar"
	"github.com/uralgo2/nextc/compiler/parse"
	"github.com/uralgo2/nextc/compiler/scope"
)

type fakeImporter struct {
	a     *scope.Arena
	names []string
}

func (f *fakeImporter) Import(ctx context.Context, name string) (scope.Import, error) {
	if name == "missing" {
		return scope.Import{}, errors.New("module %v not found", name)
	}

	f.names = append(f.names, name)

	return scope.Import{Name: name, Path: "/libs/" + name + ".next", Context: f.a.NewRoot()}, nil
}

func collect(t *testing.T, text string) (*scope.Arena, *Unit, error) {
	t.Helper()

	ctx := context.Background()

	prog, err := parse.Parse(ctx, "test.next", []byte(text), grammar.Default(), parse.Options{})
	require.NoError(t, err)

	a := scope.NewArena()
	u := NewUnit(prog)

	err = Pipeline{NewCollector(a, &fakeImporter{a: a})}.Run(ctx, u)

	return a, u, err
}

func TestOverloadRule(t *testing.T) {
	var conflict *scope.NameConflictError

	_, _, err := collect(t, "fn f(x: int) {}\nfn f(x: int) {}")
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, scope.KindFunc, conflict.Kind)
	assert.Contains(t, err.Error(), "test.next:2:1")

	a, u, err := collect(t, "fn f(x: int) {}\nfn f(x: long) {}")
	require.NoError(t, err)
	assert.Len(t, a.Context(u.Root).Funcs.Lookup("f"), 2)

	_, _, err = collect(t, "fn f(x: int): int {}\nfn f(x: int): long {}")
	require.ErrorAs(t, err, &conflict)
}

func TestExportOverloads(t *testing.T) {
	a, u, err := collect(t, "export fn f(x: int) {}\nexport fn f(x: long) {}")
	require.NoError(t, err)

	root := a.Context(u.Root)

	assert.Len(t, root.Funcs.Lookup("f"), 2)
	assert.Equal(t, []string{"f"}, root.Exports.All())

	var conflict *scope.NameConflictError

	_, _, err = collect(t, "export fn f(x: int) {}\nexport fn f(x: int) {}")
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, scope.KindFunc, conflict.Kind)

	_, _, err = collect(t, "export let f\nexport fn f() {}")
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, scope.KindExport, conflict.Kind)
}

func TestNestedFunctionScope(t *testing.T) {
	a, u, err := collect(t, `
fn outer(a) {
	fn inner(x: long, y): int {
		return x
	}
}`)
	require.NoError(t, err)

	root := a.Context(u.Root)

	outers := root.Funcs.Lookup("outer")
	require.Len(t, outers, 1)

	outer := a.Func(outers[0])
	assert.Equal(t, "outer$unknown", outer.Mangled)

	body := a.Context(outer.Context)
	assert.Equal(t, u.Root, body.Parent)
	assert.Equal(t, outers[0], body.Owner)

	unknown, err := a.ResolveTypeOrUnknown(u.Root, "unknown")
	require.NoError(t, err)

	l, ok := body.Locals["a"]
	require.True(t, ok)
	assert.Equal(t, unknown, l.Type)

	inners := body.Funcs.Lookup("inner")
	require.Len(t, inners, 1)
	assert.Empty(t, root.Funcs.Lookup("inner"))

	long, err := a.ResolveTypeOrUnknown(u.Root, "long")
	require.NoError(t, err)

	inner := a.Func(inners[0])
	assert.Equal(t, long, inner.Params[0].Type)
	assert.Equal(t, unknown, inner.Params[1].Type)
	assert.Equal(t, "outer.inner$long$unknown", inner.Mangled)
	assert.Equal(t, "inner(x: long, y: unknown): int", a.Signature(inners[0]))

	x, ok := a.LookupLocal(inner.Context, "x")
	require.True(t, ok)
	assert.Equal(t, long, x.Type)

	_, ok = a.LookupLocal(inner.Context, "a")
	assert.True(t, ok, "outer parameter is visible from inner scope")
}

func TestDeclarations(t *testing.T) {
	a, u, err := collect(t, `
let a: int = 1
const b = 2
let a: byte
use io.file
export fn main() {}
export const version = 1
`)
	require.NoError(t, err)

	root := a.Context(u.Root)

	byteType, err := a.ResolveTypeOrUnknown(u.Root, "byte")
	require.NoError(t, err)

	assert.Equal(t, byteType, root.Locals["a"].Type)
	assert.True(t, root.Locals["b"].Const)
	assert.True(t, root.Locals["version"].Const)

	assert.Equal(t, []string{"io.file"}, root.Uses.All())
	assert.Equal(t, []string{"main", "version"}, root.Exports.All())

	_, _, err = collect(t, "export let x\nexport let x")

	var conflict *scope.NameConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, scope.KindExport, conflict.Kind)
}

func TestImports(t *testing.T) {
	ctx := context.Background()

	prog, err := parse.Parse(ctx, "", []byte("import std.io\nfn f() { import std.io }"), grammar.Default(), parse.Options{})
	require.NoError(t, err)

	a := scope.NewArena()
	imp := &fakeImporter{a: a}
	u := NewUnit(prog)

	err = NewCollector(a, imp).Run(ctx, u)
	require.NoError(t, err)

	assert.Equal(t, []string{"std.io", "std.io"}, imp.names)

	got, ok := a.Context(u.Root).Imports.Lookup("std.io")
	require.True(t, ok)
	assert.Equal(t, "/libs/std.io.next", got.Path)

	_, _, err = collect(t, "import a\nimport a")

	var conflict *scope.NameConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, scope.KindImport, conflict.Kind)

	_, _, err = collect(t, "import missing")
	assert.ErrorContains(t, err, "module missing not found")

	u = NewUnit(prog)
	err = NewCollector(a, nil).Run(ctx, u)
	assert.ErrorContains(t, err, "no module resolver")
}

func TestUnresolvedType(t *testing.T) {
	var unresolved *scope.UnresolvedTypeError

	_, _, err := collect(t, "let x: Foo")
	require.ErrorAs(t, err, &unresolved)
	assert.Equal(t, "Foo", unresolved.Name)

	_, _, err = collect(t, "fn f(): Bar {}")
	require.ErrorAs(t, err, &unresolved)
	assert.Equal(t, "Bar", unresolved.Name)
}

func TestFuncLitScope(t *testing.T) {
	a, u, err := collect(t, "let f = fn (y: int) => y\nwhile (1) { let z = 3 }")
	require.NoError(t, err)

	assert.Equal(t, 0, a.Context(u.Root).Funcs.Len())

	_, ok := a.Context(u.Root).Locals["z"]
	assert.True(t, ok, "loop bodies declare into the current scope")

	lit := u.Root + 1
	require.Greater(t, a.Contexts(), int(lit))

	c := a.Context(lit)
	assert.Equal(t, u.Root, c.Parent)
	assert.Equal(t, scope.NoFunc, c.Owner)

	_, ok = c.Locals["y"]
	assert.True(t, ok)
}

func TestPlaceholderRoot(t *testing.T) {
	ctx := context.Background()

	prog, err := parse.Parse(ctx, "", []byte("fn f() {}"), grammar.Default(), parse.Options{})
	require.NoError(t, err)

	a := scope.NewArena()
	placeholder := a.NewContext(scope.NoContext)

	u := NewUnit(prog)
	u.Root = placeholder

	err = NewCollector(a, nil).Run(ctx, u)
	require.NoError(t, err)

	assert.Equal(t, placeholder, u.Root)
	assert.Len(t, a.Context(placeholder).Funcs.Lookup("f"), 1)

	_, err = a.ResolveTypeOrUnknown(placeholder, "int")
	assert.NoError(t, err)
}

func TestDepthLimit(t *testing.T) {
	ctx := context.Background()

	prog, err := parse.Parse(ctx, "", []byte("while (1) { while (1) { while (1) { x } } }"), grammar.Default(), parse.Options{})
	require.NoError(t, err)

	c := NewCollector(scope.NewArena(), nil)
	c.MaxDepth = 3

	err = c.Run(ctx, NewUnit(prog))

	var limit *parse.RecursionLimitError
	require.ErrorAs(t, err, &limit)
	assert.Equal(t, 3, limit.Limit)
}
