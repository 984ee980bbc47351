package parse

import (
	"context"

	"github.com/uralgo2/nextc/compiler/ast"
)

// optType parses an optional `: type` annotation.
func (p *Parser) optType(ctx context.Context) (string, error) {
	if !p.skipSpecial(":") {
		return "", nil
	}

	t, err := p.expectIdent("type name")
	if err != nil {
		return "", err
	}

	return t.Value, nil
}

func (p *Parser) param(ctx context.Context) (x ast.Param, err error) {
	name, err := p.expectIdent("parameter name")
	if err != nil {
		return x, err
	}

	x.Name = name.Value

	x.Type, err = p.optType(ctx)

	return x, err
}

// params is ( [param {, param} [,]] ).
func (p *Parser) params(ctx context.Context) (l []ast.Param, err error) {
	if _, err = p.expectSpecial("("); err != nil {
		return nil, err
	}

	l = []ast.Param{}

	for {
		if p.skipSpecial(")") {
			return l, nil
		}

		x, err := p.param(ctx)
		if err != nil {
			return nil, err
		}

		l = append(l, x)

		t := p.l.Next()

		switch {
		case t.IsSpecial(")"):
			return l, nil
		case t.IsSpecial(","):
		default:
			return nil, NewUnexpected(t, `","`, `")"`)
		}
	}
}

// args is ( [expr {, expr} [,]] ).
func (p *Parser) args(ctx context.Context) (l []ast.Expr, err error) {
	if _, err = p.expectSpecial("("); err != nil {
		return nil, err
	}

	l = []ast.Expr{}

	for {
		if p.skipSpecial(")") {
			return l, nil
		}

		x, err := p.Expression(ctx)
		if err != nil {
			return nil, err
		}

		l = append(l, x)

		t := p.l.Next()

		switch {
		case t.IsSpecial(")"):
			return l, nil
		case t.IsSpecial(","):
		default:
			return nil, NewUnexpected(t, `","`, `")"`)
		}
	}
}
