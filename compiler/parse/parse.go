package parse

import (
	"context"
	"os"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/uralgo2/nextc/compiler/ast"
	"github.com/uralgo2/nextc/compiler/grammar"
	"github.com/uralgo2/nextc/compiler/lexer"
	"github.com/uralgo2/nextc/compiler/token"
)

type (
	Strategy int

	Options struct {
		Strategy Strategy
		MaxDepth int
	}

	Parser struct {
		l *lexer.Lexer
		g *grammar.Grammar

		opts Options

		depth      int
		memberPrec int

		tr tlog.Span
	}
)

const (
	RecursiveDescent Strategy = iota
	ShuntingYard
)

const DefaultMaxDepth = 512

func (s Strategy) String() string {
	switch s {
	case RecursiveDescent:
		return "rd"
	case ShuntingYard:
		return "sy"
	}

	return "unknown"
}

func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "rd", "recursive-descent", "":
		return RecursiveDescent, nil
	case "sy", "shunting-yard":
		return ShuntingYard, nil
	}

	return 0, errors.New("unknown expression strategy: %q", s)
}

func ParseFile(ctx context.Context, name string, g *grammar.Grammar, opts Options) (*ast.Program, error) {
	text, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	return Parse(ctx, name, text, g, opts)
}

func Parse(ctx context.Context, file string, text []byte, g *grammar.Grammar, opts Options) (*ast.Program, error) {
	l := lexer.New(ctx, file, text, g)

	return New(ctx, l, g, opts).Program(ctx)
}

// ParseExpr parses text as exactly one expression.
func ParseExpr(ctx context.Context, text []byte, g *grammar.Grammar, opts Options) (x ast.Expr, err error) {
	l := lexer.New(ctx, "", text, g)
	p := New(ctx, l, g, opts)

	x, err = p.Expression(ctx)
	if err != nil {
		return nil, err
	}

	if t := l.Peek(); t.Kind != token.EOFKind {
		return nil, NewUnexpected(t, "end of expression")
	}

	return x, nil
}

func New(ctx context.Context, l *lexer.Lexer, g *grammar.Grammar, opts Options) *Parser {
	if opts.MaxDepth == 0 {
		opts.MaxDepth = DefaultMaxDepth
	}

	p := &Parser{
		l:    l,
		g:    g,
		opts: opts,
		tr:   tlog.SpanFromContext(ctx),
	}

	p.memberPrec = 1
	for _, prec := range g.Priorities {
		if prec >= p.memberPrec {
			p.memberPrec = prec + 1
		}
	}

	if prec, ok := g.Priority("."); ok {
		p.memberPrec = prec
	}

	return p
}

func (p *Parser) Program(ctx context.Context) (prog *ast.Program, err error) {
	p.l.Reset()
	p.depth = 0

	prog = &ast.Program{File: p.l.File()}

	for p.l.Peek().Kind != token.EOFKind {
		s, err := p.Statement(ctx)
		if err != nil {
			return nil, err
		}

		if p.tr.If("parse") {
			p.tr.Printw("statement", "type", tlog.NextAsType, s, "pos", s.Position())
		}

		prog.Stmts = append(prog.Stmts, s)
	}

	return prog, nil
}

func (p *Parser) Statement(ctx context.Context) (s ast.Stmt, err error) {
	if err = p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	t := p.l.Peek()

	switch {
	case t.IsSpecial(";"):
		p.l.Next()

		return &ast.Empty{Base: ast.At(t.Pos)}, nil
	case t.IsSpecial("@"):
		return p.decorated(ctx)
	case t.IsKeyword("export"):
		return p.export(ctx)
	case t.IsKeyword("if"):
		return p.ifStmt(ctx)
	case t.IsKeyword("for"):
		return p.forStmt(ctx)
	case t.IsKeyword("while"):
		return p.whileStmt(ctx)
	case t.IsKeyword("fn") && p.isFuncDecl():
		return p.funcDecl(ctx)
	}

	s, err = p.clause(ctx)
	if err != nil {
		return nil, err
	}

	p.skipSpecial(";")

	return s, nil
}

// clause is a statement that may be followed by a semicolon terminator.
// for loop headers use it directly, so it never consumes the terminator.
func (p *Parser) clause(ctx context.Context) (s ast.Stmt, err error) {
	t := p.l.Peek()

	switch {
	case t.IsKeyword("let"):
		return p.local(ctx)
	case t.IsKeyword("const"):
		return p.constant(ctx)
	case t.IsKeyword("return"):
		return p.returnStmt(ctx)
	case t.IsKeyword("import"):
		return p.importStmt(ctx)
	case t.IsKeyword("use"):
		return p.useStmt(ctx)
	case p.startsExpr(t):
		x, err := p.Expression(ctx)
		if err != nil {
			return nil, err
		}

		return &ast.ExprStmt{Base: ast.At(t.Pos), X: x}, nil
	}

	return nil, NewUnexpected(t, "statement")
}

func (p *Parser) isFuncDecl() bool {
	st := p.l.Save()
	defer p.l.Restore(st)

	p.l.Next()

	return p.l.Peek().Kind == token.Ident
}

func (p *Parser) funcDecl(ctx context.Context) (s ast.Stmt, err error) {
	kw := p.l.Next()

	name, err := p.expectIdent("function name")
	if err != nil {
		return nil, err
	}

	f := &ast.FuncDecl{
		Base: ast.At(kw.Pos),
		Name: name.Value,
	}

	if p.l.Peek().IsSpecial("(") {
		f.Params, err = p.params(ctx)
		if err != nil {
			return nil, err
		}
	}

	f.Return, err = p.optType(ctx)
	if err != nil {
		return nil, err
	}

	f.Body, err = p.block(ctx)
	if err != nil {
		return nil, err
	}

	return f, nil
}

func (p *Parser) returnStmt(ctx context.Context) (s ast.Stmt, err error) {
	kw := p.l.Next()

	r := &ast.Return{Base: ast.At(kw.Pos)}

	if p.startsExpr(p.l.Peek()) {
		r.Value, err = p.Expression(ctx)
		if err != nil {
			return nil, err
		}
	}

	return r, nil
}

func (p *Parser) importStmt(ctx context.Context) (s ast.Stmt, err error) {
	kw := p.l.Next()

	name, err := p.dottedName("module name")
	if err != nil {
		return nil, err
	}

	return &ast.Import{Base: ast.At(kw.Pos), Name: name}, nil
}

func (p *Parser) useStmt(ctx context.Context) (s ast.Stmt, err error) {
	kw := p.l.Next()

	name, err := p.dottedName("name")
	if err != nil {
		return nil, err
	}

	return &ast.Use{Base: ast.At(kw.Pos), Name: name}, nil
}

func (p *Parser) dottedName(what string) (string, error) {
	t, err := p.expectIdent(what)
	if err != nil {
		return "", err
	}

	name := t.Value

	for p.l.Peek().IsOperator(".") {
		p.l.Next()

		t, err = p.expectIdent(what + " segment")
		if err != nil {
			return "", err
		}

		name += "." + t.Value
	}

	return name, nil
}

func (p *Parser) export(ctx context.Context) (s ast.Stmt, err error) {
	kw := p.l.Next()

	t := p.l.Peek()
	if !t.IsKeyword("fn") && !t.IsKeyword("let") && !t.IsKeyword("const") && !t.IsSpecial("@") {
		return nil, NewUnexpected(t, "declaration")
	}

	decl, err := p.Statement(ctx)
	if err != nil {
		return nil, err
	}

	if _, ok := ast.DeclName(decl); !ok {
		return nil, NewUnexpected(t, "declaration")
	}

	return &ast.Export{Base: ast.At(kw.Pos), Decl: decl}, nil
}

func (p *Parser) decorated(ctx context.Context) (s ast.Stmt, err error) {
	d := &ast.Decorated{Base: ast.At(p.l.Peek().Pos)}

	for {
		t := p.l.Peek()

		switch {
		case t.IsSpecial("@"):
			p.l.Next()

			x, err := p.Expression(ctx)
			if err != nil {
				return nil, err
			}

			d.Decorators = append(d.Decorators, x)

			continue
		case t.Kind == token.Keyword:
			d.Stmt, err = p.Statement(ctx)
			if err != nil {
				return nil, err
			}

			return d, nil
		}

		return nil, NewUnexpected(t, `"@"`, "keyword")
	}
}

// block is { statement* }.
func (p *Parser) block(ctx context.Context) (l []ast.Stmt, err error) {
	if _, err = p.expectSpecial("{"); err != nil {
		return nil, err
	}

	l = []ast.Stmt{}

	for {
		t := p.l.Peek()

		switch {
		case t.IsSpecial("}"):
			p.l.Next()

			return l, nil
		case t.Kind == token.EOFKind:
			return nil, NewUnexpected(t, `"}"`)
		}

		s, err := p.Statement(ctx)
		if err != nil {
			return nil, err
		}

		l = append(l, s)
	}
}

// body is a block or a single statement.
func (p *Parser) body(ctx context.Context) ([]ast.Stmt, error) {
	if p.l.Peek().IsSpecial("{") {
		return p.block(ctx)
	}

	s, err := p.Statement(ctx)
	if err != nil {
		return nil, err
	}

	return []ast.Stmt{s}, nil
}
