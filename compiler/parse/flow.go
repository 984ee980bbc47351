package parse

import (
	"context"

	"github.com/uralgo2/nextc/compiler/ast"
)

func (p *Parser) cond(ctx context.Context) (x ast.Expr, err error) {
	if _, err = p.expectSpecial("("); err != nil {
		return nil, err
	}

	x, err = p.Expression(ctx)
	if err != nil {
		return nil, err
	}

	if _, err = p.expectSpecial(")"); err != nil {
		return nil, err
	}

	return x, nil
}

func (p *Parser) ifStmt(ctx context.Context) (s ast.Stmt, err error) {
	kw := p.l.Next()

	x := &ast.If{Base: ast.At(kw.Pos)}

	for {
		var br ast.CondBranch

		br.Cond, err = p.cond(ctx)
		if err != nil {
			return nil, err
		}

		br.Body, err = p.body(ctx)
		if err != nil {
			return nil, err
		}

		x.Branches = append(x.Branches, br)

		if !p.l.Peek().IsKeyword("else") {
			return x, nil
		}

		p.l.Next()

		if p.l.Peek().IsKeyword("if") {
			p.l.Next()
			continue
		}

		x.Else, err = p.body(ctx)
		if err != nil {
			return nil, err
		}

		return x, nil
	}
}

// forStmt is for ( [init] ; [cond] ; [step] ) body.
func (p *Parser) forStmt(ctx context.Context) (s ast.Stmt, err error) {
	kw := p.l.Next()

	x := &ast.For{Base: ast.At(kw.Pos)}

	if _, err = p.expectSpecial("("); err != nil {
		return nil, err
	}

	for i, dst := range []*ast.Stmt{&x.Init, &x.Cond, &x.Step} {
		end := ";"
		if i == 2 {
			end = ")"
		}

		if !p.l.Peek().IsSpecial(end) {
			*dst, err = p.clause(ctx)
			if err != nil {
				return nil, err
			}
		}

		if _, err = p.expectSpecial(end); err != nil {
			return nil, err
		}
	}

	x.Body, err = p.body(ctx)
	if err != nil {
		return nil, err
	}

	return x, nil
}

func (p *Parser) whileStmt(ctx context.Context) (s ast.Stmt, err error) {
	kw := p.l.Next()

	x := &ast.While{Base: ast.At(kw.Pos)}

	x.Cond, err = p.cond(ctx)
	if err != nil {
		return nil, err
	}

	x.Body, err = p.body(ctx)
	if err != nil {
		return nil, err
	}

	return x, nil
}
