package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolve(t *testing.T, a *Arena, ctx ContextID, name string) TypeID {
	t.Helper()

	id, err := a.ResolveTypeOrUnknown(ctx, name)
	require.NoError(t, err, name)

	return id
}

func TestRootBuiltins(t *testing.T) {
	a := NewArena()
	root := a.NewRoot()

	var names []string

	for _, id := range a.Context(root).Types.All() {
		names = append(names, a.Type(id).Name)
	}

	assert.Equal(t, Builtins, names)

	assert.Equal(t, resolve(t, a, root, "unknown"), resolve(t, a, root, ""))

	_, err := a.NewType(root, "int")

	var conflict *NameConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, KindType, conflict.Kind)
}

func TestOverloads(t *testing.T) {
	a := NewArena()
	root := a.NewRoot()

	tint := resolve(t, a, root, "int")
	tlong := resolve(t, a, root, "long")

	f := func(param, ret TypeID) Function {
		return Function{
			Name:   "f",
			Params: []Param{{Name: "x", Type: param}},
			Return: ret,
		}
	}

	_, err := a.AddFunc(root, f(tint, tint))
	require.NoError(t, err)

	_, err = a.AddFunc(root, f(tint, tint))

	var conflict *NameConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, KindFunc, conflict.Kind)
	assert.Equal(t, "f", conflict.Name)

	_, err = a.AddFunc(root, f(tlong, tint))
	require.NoError(t, err)

	_, err = a.AddFunc(root, f(tint, tlong))
	require.ErrorAs(t, err, &conflict, "return type alone does not overload")

	assert.Len(t, a.Context(root).Funcs.Lookup("f"), 2)

	id, ok := a.Context(root).Funcs.LookupSignature("f", []TypeID{tlong})
	require.True(t, ok)
	assert.Equal(t, "f$long", a.Func(id).Mangled)
	assert.Equal(t, "f(x: long): int", a.Signature(id))
}

func TestNestedResolution(t *testing.T) {
	a := NewArena()
	root := a.NewRoot()

	point, err := a.NewType(root, "Point")
	require.NoError(t, err)

	outer := a.NewContext(root)
	inner := a.NewContext(outer)

	assert.Equal(t, point, resolve(t, a, inner, "Point"))
	assert.Equal(t, resolve(t, a, root, "unknown"), resolve(t, a, inner, ""))

	_, err = a.ResolveTypeOrUnknown(inner, "Missing")

	var unresolved *UnresolvedTypeError
	require.ErrorAs(t, err, &unresolved)
	assert.Equal(t, "Missing", unresolved.Name)

	shadow, err := a.NewType(outer, "Point")
	require.NoError(t, err)

	assert.Equal(t, shadow, resolve(t, a, inner, "Point"))
	assert.Equal(t, point, resolve(t, a, root, "Point"))

	assert.Equal(t, root, a.Root(inner))
}

func TestRootWithoutUnknownPanics(t *testing.T) {
	a := NewArena()
	bare := a.NewContext(NoContext)

	assert.Panics(t, func() {
		_, _ = a.ResolveTypeOrUnknown(bare, "")
	})
}

func TestInitRootKeepsHandle(t *testing.T) {
	a := NewArena()

	id := a.NewContext(NoContext)
	a.AddLocal(id, Local{Name: "stale"})

	from := a.Context(id).From

	name, _, _ := from.NameFileLine()
	assert.Contains(t, name, "TestInitRootKeepsHandle")

	a.InitRoot(id)

	assert.Equal(t, from, a.Context(id).From)

	_, ok := a.LookupLocal(id, "stale")
	assert.False(t, ok)

	_, err := a.ResolveTypeOrUnknown(id, "byte")
	assert.NoError(t, err)
}

func TestLocalsShadow(t *testing.T) {
	a := NewArena()
	root := a.NewRoot()
	child := a.NewContext(root)

	tint := resolve(t, a, root, "int")
	tbyte := resolve(t, a, root, "byte")

	a.AddLocal(root, Local{Name: "x", Type: tint})
	a.AddLocal(child, Local{Name: "x", Type: tbyte})

	l, ok := a.LookupLocal(child, "x")
	require.True(t, ok)
	assert.Equal(t, tbyte, l.Type)

	l, ok = a.LookupLocal(root, "x")
	require.True(t, ok)
	assert.Equal(t, tint, l.Type)

	a.AddLocal(root, Local{Name: "x", Type: tbyte, Const: true})

	l, _ = a.LookupLocal(root, "x")
	assert.True(t, l.Const)
}

func TestMangleNested(t *testing.T) {
	a := NewArena()
	root := a.NewRoot()

	tint := resolve(t, a, root, "int")

	body := a.NewContext(root)

	outer, err := a.AddFunc(root, Function{Name: "outer", Context: body})
	require.NoError(t, err)

	a.Context(body).Owner = outer

	inner, err := a.AddFunc(body, Function{Name: "inner", Params: []Param{{Name: "a", Type: tint}, {Name: "b", Type: resolve(t, a, root, "")}}})
	require.NoError(t, err)

	assert.Equal(t, "outer", a.Func(outer).Mangled)
	assert.Equal(t, "outer.inner$int$unknown", a.Func(inner).Mangled)

	assert.Equal(t, []FuncID{inner}, a.LookupFuncs(body, "inner"))
	assert.Equal(t, []FuncID{outer}, a.LookupFuncs(body, "outer"))
	assert.Nil(t, a.LookupFuncs(body, "nope"))
}

func TestTables(t *testing.T) {
	var imps ImportTable

	require.NoError(t, imps.Add(Import{Name: "std.io", Path: "/a/std/io.next"}))

	err := imps.Add(Import{Name: "std.io", Path: "/b/std/io.next"})

	var conflict *NameConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, `import "std.io" already declared`, err.Error())

	imp, ok := imps.Lookup("std.io")
	require.True(t, ok)
	assert.Equal(t, "/a/std/io.next", imp.Path)

	var exps ExportTable

	require.NoError(t, exps.Add("main"))
	assert.ErrorAs(t, exps.Add("main"), &conflict)
	assert.True(t, exps.Has("main"))

	var uses UseTable

	uses.Add("io")
	uses.Add("io")
	assert.Equal(t, []string{"io", "io"}, uses.All())
}
