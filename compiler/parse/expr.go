package parse

import (
	"context"

	"github.com/uralgo2/nextc/compiler/ast"
	"github.com/uralgo2/nextc/compiler/token"
)

// Expression parses one expression with the configured strategy.
func (p *Parser) Expression(ctx context.Context) (ast.Expr, error) {
	if p.opts.Strategy == ShuntingYard {
		return p.shuntingYard(ctx)
	}

	return p.binary(ctx, 0)
}

// binary is precedence climbing over the grammar priority table.
// Assignment operators live in the same table with the lowest priority.
func (p *Parser) binary(ctx context.Context, min int) (x ast.Expr, err error) {
	if err = p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	x, err = p.unary(ctx)
	if err != nil {
		return nil, err
	}

	for {
		t := p.l.Peek()
		if t.Kind != token.Operator || t.Value == "." {
			return x, nil
		}

		op := t.Value

		assign := p.g.IsAssign(op)
		if !assign && !p.g.IsBinary(op) {
			return x, nil
		}

		prec, _ := p.g.Priority(op)
		if prec < min {
			return x, nil
		}

		p.l.Next()

		next := prec + 1
		if p.g.IsRightAssoc(op) {
			next = prec
		}

		r, err := p.binary(ctx, next)
		if err != nil {
			return nil, err
		}

		if assign {
			x = &ast.Assign{Base: ast.At(t.Pos), Op: op, Left: x, Right: r}
		} else {
			x = &ast.Binary{Base: ast.At(t.Pos), Op: op, Left: x, Right: r}
		}
	}
}

// unary handles prefix operators. The operand of a prefix operator
// takes everything binding tighter than it, so -a ** b is -(a ** b).
func (p *Parser) unary(ctx context.Context) (x ast.Expr, err error) {
	t := p.l.Peek()

	if t.Kind != token.Operator {
		return p.postfix(ctx)
	}

	if !p.g.IsUnary(t.Value) {
		return nil, NewUnexpected(t, "expression")
	}

	p.l.Next()

	x, err = p.binary(ctx, p.g.PrefixPriority+1)
	if err != nil {
		return nil, err
	}

	return &ast.Prefix{Base: ast.At(t.Pos), Op: t.Value, X: x}, nil
}

// postfix is primary followed by member access, calls and postfix operators.
func (p *Parser) postfix(ctx context.Context) (x ast.Expr, err error) {
	x, err = p.primary(ctx)
	if err != nil {
		return nil, err
	}

	for {
		t := p.l.Peek()

		switch {
		case t.IsOperator("."):
			p.l.Next()

			name, err := p.expectIdent("member name")
			if err != nil {
				return nil, err
			}

			x = &ast.Member{
				Base: ast.At(t.Pos),
				X:    x,
				Name: &ast.Ident{Base: ast.At(name.Pos), Name: name.Value},
			}
		case t.IsSpecial("("):
			args, err := p.args(ctx)
			if err != nil {
				return nil, err
			}

			x = &ast.Call{Base: ast.At(t.Pos), Func: x, Args: args}
		case t.Kind == token.Operator && p.g.IsPostfix(t.Value) && !p.g.IsBinary(t.Value):
			if !p.takePostfix() {
				return x, nil
			}

			x = &ast.Postfix{Base: ast.At(t.Pos), Op: t.Value, X: x}
		default:
			return x, nil
		}
	}
}

// takePostfix consumes a postfix operator unless the token after it
// starts an operand, in which case the operator is a prefix of that operand.
func (p *Parser) takePostfix() bool {
	st := p.l.Save()

	p.l.Next()

	if p.l.Peek().StartsPrimary() {
		p.l.Restore(st)
		return false
	}

	return true
}

func (p *Parser) primary(ctx context.Context) (x ast.Expr, err error) {
	if err = p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	t := p.l.Next()

	if x, ok := literal(t); ok {
		return x, nil
	}

	switch {
	case t.IsSpecial("("):
		x, err = p.binary(ctx, 0)
		if err != nil {
			return nil, err
		}

		if _, err = p.expectSpecial(")"); err != nil {
			return nil, err
		}

		return x, nil
	case t.IsKeyword("fn"):
		return p.funcLit(ctx, t)
	}

	return nil, NewUnexpected(t, "expression")
}

// funcLit is fn [(params) | param] [: type] => expr | block.
func (p *Parser) funcLit(ctx context.Context, kw token.Token) (x ast.Expr, err error) {
	f := &ast.FuncLit{Base: ast.At(kw.Pos)}

	switch t := p.l.Peek(); {
	case t.IsSpecial("("):
		f.Params, err = p.params(ctx)
	case t.Kind == token.Ident:
		var par ast.Param

		par, err = p.param(ctx)
		f.Params = []ast.Param{par}
	}
	if err != nil {
		return nil, err
	}

	f.Return, err = p.optType(ctx)
	if err != nil {
		return nil, err
	}

	if _, err = p.expectSpecial("=>"); err != nil {
		return nil, err
	}

	if p.l.Peek().IsSpecial("{") {
		f.Body, err = p.block(ctx)
	} else {
		f.Expr, err = p.Expression(ctx)
	}
	if err != nil {
		return nil, err
	}

	return f, nil
}
