package compiler

import (
	"context"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/uralgo2/nextc/compiler/analyze"
	"github.com/uralgo2/nextc/compiler/format"
	"github.com/uralgo2/nextc/compiler/front"
	"github.com/uralgo2/nextc/compiler/grammar"
	"github.com/uralgo2/nextc/compiler/parse"
)

type (
	Options struct {
		Grammar *grammar.Grammar
		Parse   parse.Options
		Include []string
	}

	Result struct {
		Front *front.Front
		Unit  *analyze.Unit
	}
)

func NewFront(opts Options) *front.Front {
	f := front.New(opts.Grammar)
	f.Parse = opts.Parse
	f.Include(opts.Include...)

	return f
}

func CompileFile(ctx context.Context, name string, opts Options) (*Result, error) {
	f := NewFront(opts)

	u, err := f.CompileFile(ctx, name)
	if err != nil {
		return nil, errors.Wrap(err, "compile %v", name)
	}

	tlog.SpanFromContext(ctx).Printw("compiled", "name", name, "scopes", f.Arena.Contexts())

	return &Result{Front: f, Unit: u}, nil
}

// Compile compiles text within session f, so imports are shared between calls.
func Compile(ctx context.Context, f *front.Front, name string, text []byte) (*Result, error) {
	u, err := f.CompileText(ctx, name, text)
	if err != nil {
		return nil, errors.Wrap(err, "compile")
	}

	return &Result{Front: f, Unit: u}, nil
}

// AppendTree prints the syntax tree, one statement per line.
func (r *Result) AppendTree(b []byte) []byte {
	b = format.SExpr(b, r.Unit.Program)

	if len(r.Unit.Program.Stmts) != 0 {
		b = append(b, '\n')
	}

	return b
}

// AppendSignatures prints every top level function.
func (r *Result) AppendSignatures(b []byte) []byte {
	return format.Signatures(b, r.Front.Arena, r.Unit.Root)
}

func (r *Result) AppendScope(b []byte) []byte {
	return format.Scope(b, r.Front.Arena, r.Unit.Root)
}
