package format

import (
	"bytes"
	"sort"

	"github.com/nikandfor/hacked/hfmt"

	"github.com/uralgo2/nextc/compiler/scope"
)

// Signatures lists the functions declared directly in ctx.
func Signatures(b []byte, a *scope.Arena, ctx scope.ContextID) []byte {
	for _, id := range a.Context(ctx).Funcs.All() {
		b = hfmt.Appendf(b, "fn %s\n", a.Signature(id))
	}

	return b
}

// Scope dumps ctx and, nested, the scopes of its functions.
func Scope(b []byte, a *scope.Arena, ctx scope.ContextID) []byte {
	return dumpScope(b, a, ctx, 0)
}

func dumpScope(b []byte, a *scope.Arena, id scope.ContextID, d int) []byte {
	c := a.Context(id)

	b = app(b, d, "scope %d", int(id))
	if c.Parent != scope.NoContext {
		b = hfmt.Appendf(b, " parent %d", int(c.Parent))
	}
	b = append(b, '\n')

	if l := c.Types.All(); len(l) != 0 {
		b = app(b, d+1, "types:")

		for _, t := range l {
			b = hfmt.Appendf(b, " %s", a.Type(t).Name)
		}

		b = append(b, '\n')
	}

	if len(c.Locals) != 0 {
		names := make([]string, 0, len(c.Locals))

		for n := range c.Locals {
			names = append(names, n)
		}

		sort.Strings(names)

		b = app(b, d+1, "locals:")

		for _, n := range names {
			l := c.Locals[n]

			kw := "let"
			if l.Const {
				kw = "const"
			}

			b = hfmt.Appendf(b, " %s %s: %s;", kw, n, a.Type(l.Type).Name)
		}

		b = append(b, '\n')
	}

	for _, imp := range c.Imports.All() {
		b = app(b, d+1, "import %s -> scope %d (%s)\n", imp.Name, int(imp.Context), imp.Path)
	}

	for _, n := range c.Exports.All() {
		b = app(b, d+1, "export %s\n", n)
	}

	for _, n := range c.Uses.All() {
		b = app(b, d+1, "use %s\n", n)
	}

	for _, fid := range c.Funcs.All() {
		f := a.Func(fid)

		b = app(b, d+1, "fn %s [%s]\n", a.Signature(fid), f.Mangled)

		if len(f.Body) != 0 {
			b = app(b, d+2, "code:\n")

			for code := f.Body.AppendText(nil); len(code) != 0; {
				i := bytes.IndexByte(code, '\n')

				b = app(b, d+3, "%s\n", code[:i])
				code = code[i+1:]
			}
		}

		b = dumpScope(b, a, f.Context, d+2)
	}

	return b
}
