package ast

import (
	"github.com/uralgo2/nextc/compiler/token"
)

type (
	Node interface {
		Position() token.Pos
	}

	Stmt interface {
		Node
		stmt()
	}

	Expr interface {
		Node
		expr()
	}

	Base struct {
		Pos token.Pos `tlog:",embed"`
	}

	Program struct {
		File  string
		Stmts []Stmt
	}

	Param struct {
		Name string
		Type string // empty if not annotated
	}

	CondBranch struct {
		Cond Expr
		Body []Stmt
	}
)

// Statements.
type (
	ExprStmt struct {
		Base
		X Expr
	}

	Local struct {
		Base
		Name  string
		Type  string
		Value Expr // nil if not initialized
	}

	Const struct {
		Base
		Name  string
		Type  string
		Value Expr
	}

	FuncDecl struct {
		Base
		Name   string
		Params []Param
		Return string
		Body   []Stmt
	}

	Return struct {
		Base
		Value Expr // nil for bare return
	}

	Import struct {
		Base
		Name string // dotted
	}

	Use struct {
		Base
		Name string
	}

	Export struct {
		Base
		Decl Stmt
	}

	Decorated struct {
		Base
		Decorators []Expr
		Stmt       Stmt
	}

	If struct {
		Base
		Branches []CondBranch
		Else     []Stmt // nil if there is no else
	}

	For struct {
		Base
		Init Stmt
		Cond Stmt
		Step Stmt
		Body []Stmt
	}

	While struct {
		Base
		Cond Expr
		Body []Stmt
	}

	Empty struct {
		Base
	}
)

// Expressions.
type (
	Binary struct {
		Base
		Op    string
		Left  Expr
		Right Expr
	}

	Assign struct {
		Base
		Op    string
		Left  Expr
		Right Expr
	}

	Prefix struct {
		Base
		Op string
		X  Expr
	}

	Postfix struct {
		Base
		Op string
		X  Expr
	}

	Member struct {
		Base
		X    Expr
		Name *Ident
	}

	Call struct {
		Base
		Func Expr
		Args []Expr
	}

	FuncLit struct {
		Base
		Params []Param
		Return string
		Expr   Expr   // set for `=> expr`
		Body   []Stmt // set for `=> { ... }`
	}

	IntLit struct {
		Base
		Value int64
	}

	FloatLit struct {
		Base
		Value float64
	}

	StringLit struct {
		Base
		Value string
	}

	Ident struct {
		Base
		Name string
	}
)

func At(p token.Pos) Base { return Base{Pos: p} }

func (b Base) Position() token.Pos { return b.Pos }

func (*ExprStmt) stmt()  {}
func (*Local) stmt()     {}
func (*Const) stmt()     {}
func (*FuncDecl) stmt()  {}
func (*Return) stmt()    {}
func (*Import) stmt()    {}
func (*Use) stmt()       {}
func (*Export) stmt()    {}
func (*Decorated) stmt() {}
func (*If) stmt()        {}
func (*For) stmt()       {}
func (*While) stmt()     {}
func (*Empty) stmt()     {}

func (*Binary) expr()    {}
func (*Assign) expr()    {}
func (*Prefix) expr()    {}
func (*Postfix) expr()   {}
func (*Member) expr()    {}
func (*Call) expr()      {}
func (*FuncLit) expr()   {}
func (*IntLit) expr()    {}
func (*FloatLit) expr()  {}
func (*StringLit) expr() {}
func (*Ident) expr()     {}

// DeclName returns the name a declaration statement introduces.
func DeclName(s Stmt) (string, bool) {
	switch s := s.(type) {
	case *FuncDecl:
		return s.Name, true
	case *Local:
		return s.Name, true
	case *Const:
		return s.Name, true
	case *Decorated:
		return DeclName(s.Stmt)
	}

	return "", false
}
