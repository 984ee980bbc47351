package parse

import (
	"fmt"
	"strings"

	"github.com/uralgo2/nextc/compiler/ast"
	"github.com/uralgo2/nextc/compiler/token"
)

type (
	SyntaxError struct {
		Token token.Token
		Want  []string
	}

	RecursionLimitError struct {
		Limit int
		Pos   token.Pos
	}
)

func NewUnexpected(got token.Token, want ...string) *SyntaxError {
	return &SyntaxError{
		Token: got,
		Want:  want,
	}
}

func (e *SyntaxError) Error() string {
	if e.Token.Kind == token.EOFKind {
		return fmt.Sprintf("unexpected end of input, want %v", joinHuman(e.Want...))
	}

	return fmt.Sprintf("%v: unexpected %v, want %v", e.Token.Pos, e.Token, joinHuman(e.Want...))
}

func (e *RecursionLimitError) Error() string {
	return fmt.Sprintf("%v: nesting deeper than %d", e.Pos, e.Limit)
}

func (p *Parser) enter() error {
	p.depth++

	if p.depth > p.opts.MaxDepth {
		return &RecursionLimitError{Limit: p.opts.MaxDepth, Pos: p.l.Peek().Pos}
	}

	return nil
}

func (p *Parser) leave() { p.depth-- }

func (p *Parser) expectSpecial(v string) (t token.Token, err error) {
	t = p.l.Next()
	if !t.IsSpecial(v) {
		return t, NewUnexpected(t, quote(v))
	}

	return t, nil
}

func (p *Parser) expectIdent(what string) (t token.Token, err error) {
	t = p.l.Next()
	if t.Kind != token.Ident {
		return t, NewUnexpected(t, what)
	}

	return t, nil
}

// skipSpecial consumes the next token if it is the punctuation v.
func (p *Parser) skipSpecial(v string) bool {
	if !p.l.Peek().IsSpecial(v) {
		return false
	}

	p.l.Next()

	return true
}

// startsExpr reports whether t can begin an expression.
func (p *Parser) startsExpr(t token.Token) bool {
	switch {
	case t.StartsPrimary():
		return true
	case t.Kind == token.Operator:
		return p.g.IsUnary(t.Value)
	case t.IsSpecial("("), t.IsKeyword("fn"):
		return true
	}

	return false
}

func literal(t token.Token) (ast.Expr, bool) {
	switch t.Kind {
	case token.Int:
		return &ast.IntLit{Base: ast.At(t.Pos), Value: t.Int}, true
	case token.Float:
		return &ast.FloatLit{Base: ast.At(t.Pos), Value: t.Float}, true
	case token.String:
		return &ast.StringLit{Base: ast.At(t.Pos), Value: t.Value}, true
	case token.Ident:
		return &ast.Ident{Base: ast.At(t.Pos), Name: t.Value}, true
	}

	return nil, false
}

func quote(s string) string { return `"` + s + `"` }

func joinHuman(l ...string) string {
	switch len(l) {
	case 0:
		return "<none>"
	case 1:
		return l[0]
	}

	var b strings.Builder

	for i, r := range l {
		if i+1 == len(l) {
			b.WriteString(" or ")
		} else if i != 0 {
			b.WriteString(", ")
		}

		b.WriteString(r)
	}

	return b.String()
}
