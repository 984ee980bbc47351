package parse

import (
	"context"

	"github.com/uralgo2/nextc/compiler/ast"
	"github.com/uralgo2/nextc/compiler/token"
)

// local is let name [: type] [= expr].
func (p *Parser) local(ctx context.Context) (s ast.Stmt, err error) {
	kw := p.l.Next()

	name, err := p.expectIdent("variable name")
	if err != nil {
		return nil, err
	}

	v := &ast.Local{
		Base: ast.At(kw.Pos),
		Name: name.Value,
	}

	v.Type, err = p.optType(ctx)
	if err != nil {
		return nil, err
	}

	t := p.l.Peek()

	switch {
	case t.IsOperator("="):
		p.l.Next()

		v.Value, err = p.Expression(ctx)
		if err != nil {
			return nil, err
		}
	case t.Kind == token.Operator:
		return nil, NewUnexpected(t, `"="`)
	}

	return v, nil
}

// constant is const name [: type] = expr.
func (p *Parser) constant(ctx context.Context) (s ast.Stmt, err error) {
	kw := p.l.Next()

	name, err := p.expectIdent("constant name")
	if err != nil {
		return nil, err
	}

	c := &ast.Const{
		Base: ast.At(kw.Pos),
		Name: name.Value,
	}

	c.Type, err = p.optType(ctx)
	if err != nil {
		return nil, err
	}

	if t := p.l.Next(); !t.IsOperator("=") {
		return nil, NewUnexpected(t, `"="`)
	}

	c.Value, err = p.Expression(ctx)
	if err != nil {
		return nil, err
	}

	return c, nil
}
