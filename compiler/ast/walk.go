package ast

import "fmt"

type (
	// Visitor is one pass over the tree. T is whatever the pass returns per node.
	Visitor[T any] interface {
		VisitProgram(*Program) T

		VisitExprStmt(*ExprStmt) T
		VisitLocal(*Local) T
		VisitConst(*Const) T
		VisitFuncDecl(*FuncDecl) T
		VisitReturn(*Return) T
		VisitImport(*Import) T
		VisitUse(*Use) T
		VisitExport(*Export) T
		VisitDecorated(*Decorated) T
		VisitIf(*If) T
		VisitFor(*For) T
		VisitWhile(*While) T
		VisitEmpty(*Empty) T

		VisitBinary(*Binary) T
		VisitAssign(*Assign) T
		VisitPrefix(*Prefix) T
		VisitPostfix(*Postfix) T
		VisitMember(*Member) T
		VisitCall(*Call) T
		VisitFuncLit(*FuncLit) T
		VisitIntLit(*IntLit) T
		VisitFloatLit(*FloatLit) T
		VisitStringLit(*StringLit) T
		VisitIdent(*Ident) T
	}
)

func WalkStmt[T any](v Visitor[T], s Stmt) T {
	switch s := s.(type) {
	case *ExprStmt:
		return v.VisitExprStmt(s)
	case *Local:
		return v.VisitLocal(s)
	case *Const:
		return v.VisitConst(s)
	case *FuncDecl:
		return v.VisitFuncDecl(s)
	case *Return:
		return v.VisitReturn(s)
	case *Import:
		return v.VisitImport(s)
	case *Use:
		return v.VisitUse(s)
	case *Export:
		return v.VisitExport(s)
	case *Decorated:
		return v.VisitDecorated(s)
	case *If:
		return v.VisitIf(s)
	case *For:
		return v.VisitFor(s)
	case *While:
		return v.VisitWhile(s)
	case *Empty:
		return v.VisitEmpty(s)
	default:
		panic(fmt.Sprintf("unsupported statement: %T", s))
	}
}

func WalkExpr[T any](v Visitor[T], e Expr) T {
	switch e := e.(type) {
	case *Binary:
		return v.VisitBinary(e)
	case *Assign:
		return v.VisitAssign(e)
	case *Prefix:
		return v.VisitPrefix(e)
	case *Postfix:
		return v.VisitPostfix(e)
	case *Member:
		return v.VisitMember(e)
	case *Call:
		return v.VisitCall(e)
	case *FuncLit:
		return v.VisitFuncLit(e)
	case *IntLit:
		return v.VisitIntLit(e)
	case *FloatLit:
		return v.VisitFloatLit(e)
	case *StringLit:
		return v.VisitStringLit(e)
	case *Ident:
		return v.VisitIdent(e)
	default:
		panic(fmt.Sprintf("unsupported expression: %T", e))
	}
}
