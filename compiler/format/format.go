package format

import (
	"bytes"
	"context"
	"strconv"

	"github.com/nikandfor/hacked/hfmt"
	"tlog.app/go/errors"

	"github.com/uralgo2/nextc/compiler/ast"
)

// Format prints x back as source text.
func Format(ctx context.Context, b []byte, x any) ([]byte, error) {
	return format(ctx, b, x, 0)
}

func format(ctx context.Context, b []byte, x any, d int) ([]byte, error) {
	switch x := x.(type) {
	case *ast.Program:
		return formatProgram(ctx, b, x, d)
	case ast.Stmt:
		return formatStmt(ctx, b, x, d)
	case ast.Expr:
		return formatExpr(ctx, b, x, d)
	default:
		return nil, errors.New("unsupported type: %T", x)
	}
}

func formatProgram(ctx context.Context, b []byte, x *ast.Program, d int) (_ []byte, err error) {
	for i, s := range x.Stmts {
		if _, ok := s.(*ast.FuncDecl); ok && i != 0 {
			b = append(b, '\n')
		}

		b, err = formatStmt(ctx, b, s, d)
		if err != nil {
			return nil, errors.Wrap(err, "stmt %d", i)
		}
	}

	return b, nil
}

func formatBlock(ctx context.Context, b []byte, l []ast.Stmt, d int) (_ []byte, err error) {
	b = append(b, "{\n"...)

	for _, s := range l {
		b, err = formatStmt(ctx, b, s, d+1)
		if err != nil {
			return nil, err
		}
	}

	b = app(b, d, "}")

	return b, nil
}

func formatStmt(ctx context.Context, b []byte, s ast.Stmt, d int) (_ []byte, err error) {
	switch s := s.(type) {
	case *ast.FuncDecl:
		b = app(b, d, "fn %s", s.Name)

		if s.Params != nil {
			b = formatParams(b, s.Params)
		}

		if s.Return != "" {
			b = app(b, 0, ": %s", s.Return)
		}

		b = append(b, ' ')

		b, err = formatBlock(ctx, b, s.Body, d)
		if err != nil {
			return nil, errors.Wrap(err, "func %v", s.Name)
		}

		b = append(b, '\n')
	case *ast.Export:
		inner, err := formatStmt(ctx, nil, s.Decl, d)
		if err != nil {
			return nil, errors.Wrap(err, "export")
		}

		b = app(b, d, "export ")
		b = append(b, bytes.TrimLeft(inner, "\t")...)
	case *ast.Decorated:
		for _, x := range s.Decorators {
			b = app(b, d, "@")

			b, err = formatExpr(ctx, b, x, d)
			if err != nil {
				return nil, errors.Wrap(err, "decorator")
			}

			b = append(b, '\n')
		}

		b, err = formatStmt(ctx, b, s.Stmt, d)
		if err != nil {
			return nil, err
		}
	case *ast.If:
		for i, br := range s.Branches {
			if i == 0 {
				b = app(b, d, "if (")
			} else {
				b = append(b, " else if ("...)
			}

			b, err = formatExpr(ctx, b, br.Cond, d)
			if err != nil {
				return nil, errors.Wrap(err, "cond")
			}

			b = append(b, ") "...)

			b, err = formatBlock(ctx, b, br.Body, d)
			if err != nil {
				return nil, errors.Wrap(err, "then block")
			}
		}

		if s.Else != nil {
			b = append(b, " else "...)

			b, err = formatBlock(ctx, b, s.Else, d)
			if err != nil {
				return nil, errors.Wrap(err, "else block")
			}
		}

		b = append(b, '\n')
	case *ast.For:
		b = app(b, d, "for (")

		for i, c := range []ast.Stmt{s.Init, s.Cond, s.Step} {
			if i != 0 {
				b = append(b, "; "...)
			}

			if c == nil {
				continue
			}

			b, err = formatClause(ctx, b, c, d)
			if err != nil {
				return nil, errors.Wrap(err, "for clause")
			}
		}

		b = append(b, ") "...)

		b, err = formatBlock(ctx, b, s.Body, d)
		if err != nil {
			return nil, errors.Wrap(err, "for body")
		}

		b = append(b, '\n')
	case *ast.While:
		b = app(b, d, "while (")

		b, err = formatExpr(ctx, b, s.Cond, d)
		if err != nil {
			return nil, errors.Wrap(err, "cond")
		}

		b = append(b, ") "...)

		b, err = formatBlock(ctx, b, s.Body, d)
		if err != nil {
			return nil, errors.Wrap(err, "while body")
		}

		b = append(b, '\n')
	case *ast.Empty:
		b = app(b, d, ";\n")
	default:
		b = app(b, d, "")

		b, err = formatClause(ctx, b, s, d)
		if err != nil {
			return nil, err
		}

		b = append(b, ";\n"...)
	}

	return b, nil
}

func formatClause(ctx context.Context, b []byte, s ast.Stmt, d int) (_ []byte, err error) {
	switch s := s.(type) {
	case *ast.ExprStmt:
		return formatExpr(ctx, b, s.X, d)
	case *ast.Local:
		return formatVar(ctx, b, "let", s.Name, s.Type, s.Value, d)
	case *ast.Const:
		return formatVar(ctx, b, "const", s.Name, s.Type, s.Value, d)
	case *ast.Return:
		b = append(b, "return"...)

		if s.Value == nil {
			return b, nil
		}

		b = append(b, ' ')

		return formatExpr(ctx, b, s.Value, d)
	case *ast.Import:
		return app(b, 0, "import %s", s.Name), nil
	case *ast.Use:
		return app(b, 0, "use %s", s.Name), nil
	default:
		return nil, errors.New("unsupported stmt: %T", s)
	}
}

func formatVar(ctx context.Context, b []byte, kw, name, tp string, val ast.Expr, d int) ([]byte, error) {
	b = app(b, 0, "%s %s", kw, name)

	if tp != "" {
		b = app(b, 0, ": %s", tp)
	}

	if val == nil {
		return b, nil
	}

	b = append(b, " = "...)

	return formatExpr(ctx, b, val, d)
}

func formatParams(b []byte, l []ast.Param) []byte {
	b = append(b, '(')

	for i, p := range l {
		if i != 0 {
			b = append(b, ", "...)
		}

		b = append(b, p.Name...)

		if p.Type != "" {
			b = app(b, 0, ": %s", p.Type)
		}
	}

	return append(b, ')')
}

func formatExpr(ctx context.Context, b []byte, x ast.Expr, d int) (_ []byte, err error) {
	switch x := x.(type) {
	case *ast.Ident:
		b = append(b, x.Name...)
	case *ast.IntLit:
		b = strconv.AppendInt(b, x.Value, 10)
	case *ast.FloatLit:
		st := len(b)
		b = strconv.AppendFloat(b, x.Value, 'f', -1, 64)

		if bytes.IndexByte(b[st:], '.') < 0 {
			b = append(b, ".0"...)
		}
	case *ast.StringLit:
		b = append(b, '"')
		b = append(b, x.Value...)
		b = append(b, '"')
	case *ast.Binary:
		return formatInfix(ctx, b, x.Op, x.Left, x.Right, d)
	case *ast.Assign:
		return formatInfix(ctx, b, x.Op, x.Left, x.Right, d)
	case *ast.Prefix:
		b = append(b, x.Op...)

		return formatOperand(ctx, b, x.X, d, false)
	case *ast.Postfix:
		b, err = formatOperand(ctx, b, x.X, d, true)
		if err != nil {
			return nil, err
		}

		b = append(b, x.Op...)
	case *ast.Member:
		b, err = formatOperand(ctx, b, x.X, d, true)
		if err != nil {
			return nil, err
		}

		b = append(b, '.')
		b = append(b, x.Name.Name...)
	case *ast.Call:
		b, err = formatOperand(ctx, b, x.Func, d, true)
		if err != nil {
			return nil, err
		}

		b = append(b, '(')

		for i, a := range x.Args {
			if i != 0 {
				b = append(b, ", "...)
			}

			b, err = formatExpr(ctx, b, a, d)
			if err != nil {
				return nil, errors.Wrap(err, "arg %d", i)
			}
		}

		b = append(b, ')')
	case *ast.FuncLit:
		b = append(b, "fn "...)
		b = formatParams(b, x.Params)

		if x.Return != "" {
			b = app(b, 0, ": %s", x.Return)
		}

		b = append(b, " => "...)

		if x.Body != nil {
			return formatBlock(ctx, b, x.Body, d)
		}

		return formatExpr(ctx, b, x.Expr, d)
	default:
		return nil, errors.New("unsupported expr: %T", x)
	}

	return b, nil
}

func formatInfix(ctx context.Context, b []byte, op string, l, r ast.Expr, d int) (_ []byte, err error) {
	b, err = formatOperand(ctx, b, l, d, false)
	if err != nil {
		return nil, errors.Wrap(err, "left")
	}

	b = app(b, 0, " %s ", op)

	b, err = formatOperand(ctx, b, r, d, false)
	if err != nil {
		return nil, errors.Wrap(err, "right")
	}

	return b, nil
}

// formatOperand parenthesizes compound operands so the printed text
// parses back to the same tree whatever the priorities are.
func formatOperand(ctx context.Context, b []byte, x ast.Expr, d int, chain bool) (_ []byte, err error) {
	paren := false

	switch x.(type) {
	case *ast.Binary, *ast.Assign, *ast.Prefix, *ast.FuncLit:
		paren = true
	case *ast.Postfix:
		paren = !chain
	case *ast.IntLit, *ast.FloatLit:
		paren = chain
	}

	if paren {
		b = append(b, '(')
	}

	b, err = formatExpr(ctx, b, x, d)
	if err != nil {
		return nil, err
	}

	if paren {
		b = append(b, ')')
	}

	return b, nil
}

func app(b []byte, d int, f string, args ...any) []byte {
	const tabs = "\t\t\t\t\t\t\t\t\t\t\t\t\t\t\t"
	for d > len(tabs) {
		b = append(b, tabs...)
		d -= len(tabs)
	}

	b = append(b, tabs[:d]...)
	b = hfmt.Appendf(b, f, args...)
	return b
}
