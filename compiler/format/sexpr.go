package format

import (
	"strconv"

	"github.com/uralgo2/nextc/compiler/ast"
)

// SExpr prints a tree as a one-line s-expression, one line per statement for programs.
func SExpr(b []byte, x any) []byte {
	switch x := x.(type) {
	case *ast.Program:
		for i, s := range x.Stmts {
			if i != 0 {
				b = append(b, '\n')
			}

			b = sexprStmt(b, s)
		}

		return b
	case ast.Stmt:
		return sexprStmt(b, x)
	case ast.Expr:
		return sexprExpr(b, x)
	case []ast.Stmt:
		return sexprBlock(b, x)
	}

	return append(b, "(?)"...)
}

func sexprStmt(b []byte, s ast.Stmt) []byte {
	if s == nil {
		return append(b, '_')
	}

	switch s := s.(type) {
	case *ast.ExprStmt:
		b = append(b, "(expr "...)
		b = sexprExpr(b, s.X)
	case *ast.Local:
		b = sexprVar(b, "let", s.Name, s.Type, s.Value)
	case *ast.Const:
		b = sexprVar(b, "const", s.Name, s.Type, s.Value)
	case *ast.FuncDecl:
		b = append(b, "(fn "...)
		b = append(b, s.Name...)

		if s.Params != nil {
			b = append(b, ' ')
			b = sexprParams(b, s.Params)
		}

		b = sexprType(b, s.Return)
		b = append(b, ' ')
		b = sexprBlock(b, s.Body)
	case *ast.Return:
		b = append(b, "(return"...)

		if s.Value != nil {
			b = append(b, ' ')
			b = sexprExpr(b, s.Value)
		}
	case *ast.Import:
		b = append(b, "(import "...)
		b = append(b, s.Name...)
	case *ast.Use:
		b = append(b, "(use "...)
		b = append(b, s.Name...)
	case *ast.Export:
		b = append(b, "(export "...)
		b = sexprStmt(b, s.Decl)
	case *ast.Decorated:
		b = append(b, "(decorated ("...)

		for i, x := range s.Decorators {
			if i != 0 {
				b = append(b, ' ')
			}

			b = sexprExpr(b, x)
		}

		b = append(b, ") "...)
		b = sexprStmt(b, s.Stmt)
	case *ast.If:
		b = append(b, "(if"...)

		for _, br := range s.Branches {
			b = append(b, " ("...)
			b = sexprExpr(b, br.Cond)
			b = append(b, ' ')
			b = sexprBlock(b, br.Body)
			b = append(b, ')')
		}

		if s.Else != nil {
			b = append(b, " (else "...)
			b = sexprBlock(b, s.Else)
			b = append(b, ')')
		}
	case *ast.For:
		b = append(b, "(for "...)

		for _, c := range []ast.Stmt{s.Init, s.Cond, s.Step} {
			b = sexprStmt(b, c)
			b = append(b, ' ')
		}

		b = sexprBlock(b, s.Body)
	case *ast.While:
		b = append(b, "(while "...)
		b = sexprExpr(b, s.Cond)
		b = append(b, ' ')
		b = sexprBlock(b, s.Body)
	case *ast.Empty:
		b = append(b, "(empty"...)
	default:
		b = append(b, "(?"...)
	}

	return append(b, ')')
}

func sexprVar(b []byte, kw, name, tp string, val ast.Expr) []byte {
	b = append(b, '(')
	b = append(b, kw...)
	b = append(b, ' ')
	b = append(b, name...)
	b = sexprType(b, tp)

	if val != nil {
		b = append(b, ' ')
		b = sexprExpr(b, val)
	}

	return b
}

func sexprType(b []byte, tp string) []byte {
	if tp == "" {
		return b
	}

	b = append(b, " :"...)

	return append(b, tp...)
}

func sexprParams(b []byte, l []ast.Param) []byte {
	b = append(b, '(')

	for i, p := range l {
		if i != 0 {
			b = append(b, ' ')
		}

		b = append(b, p.Name...)

		if p.Type != "" {
			b = append(b, ':')
			b = append(b, p.Type...)
		}
	}

	return append(b, ')')
}

func sexprBlock(b []byte, l []ast.Stmt) []byte {
	b = append(b, "(block"...)

	for _, s := range l {
		b = append(b, ' ')
		b = sexprStmt(b, s)
	}

	return append(b, ')')
}

func sexprExpr(b []byte, x ast.Expr) []byte {
	switch x := x.(type) {
	case *ast.Ident:
		return append(b, x.Name...)
	case *ast.IntLit:
		return strconv.AppendInt(b, x.Value, 10)
	case *ast.FloatLit:
		return strconv.AppendFloat(b, x.Value, 'g', -1, 64)
	case *ast.StringLit:
		return strconv.AppendQuote(b, x.Value)
	case *ast.Binary:
		return sexprOp(b, "binary", x.Op, x.Left, x.Right)
	case *ast.Assign:
		return sexprOp(b, "assign", x.Op, x.Left, x.Right)
	case *ast.Prefix:
		return sexprOp(b, "prefix", x.Op, x.X)
	case *ast.Postfix:
		return sexprOp(b, "postfix", x.Op, x.X)
	case *ast.Member:
		b = append(b, "(member "...)
		b = sexprExpr(b, x.X)
		b = append(b, ' ')
		b = append(b, x.Name.Name...)
	case *ast.Call:
		b = append(b, "(call "...)
		b = sexprExpr(b, x.Func)

		for _, a := range x.Args {
			b = append(b, ' ')
			b = sexprExpr(b, a)
		}
	case *ast.FuncLit:
		b = append(b, "(lambda "...)
		b = sexprParams(b, x.Params)
		b = sexprType(b, x.Return)
		b = append(b, ' ')

		if x.Body != nil {
			b = sexprBlock(b, x.Body)
		} else {
			b = sexprExpr(b, x.Expr)
		}
	default:
		return append(b, "(?)"...)
	}

	return append(b, ')')
}

func sexprOp(b []byte, kind, op string, args ...ast.Expr) []byte {
	b = append(b, '(')
	b = append(b, kind...)
	b = append(b, ' ')
	b = strconv.AppendQuote(b, op)

	for _, a := range args {
		b = append(b, ' ')
		b = sexprExpr(b, a)
	}

	return append(b, ')')
}
