package analyze

import (
	"context"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/uralgo2/nextc/compiler/ast"
	"github.com/uralgo2/nextc/compiler/scope"
)

type (
	// Unit is one parsed source file and the scope it declares into.
	Unit struct {
		Program *ast.Program
		Root    scope.ContextID
	}

	Pass interface {
		Name() string
		Run(ctx context.Context, u *Unit) error
	}

	// Pipeline runs passes in order and stops at the first failure.
	Pipeline []Pass
)

func NewUnit(prog *ast.Program) *Unit {
	return &Unit{
		Program: prog,
		Root:    scope.NoContext,
	}
}

func (p Pipeline) Run(ctx context.Context, u *Unit) (err error) {
	for _, pass := range p {
		err = runPass(ctx, pass, u)
		if err != nil {
			return errors.Wrap(err, "%v", pass.Name())
		}
	}

	return nil
}

func runPass(ctx context.Context, pass Pass, u *Unit) (err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "pass", "name", pass.Name(), "file", u.Program.File)
	defer tr.Finish("err", &err)

	return pass.Run(ctx, u)
}
