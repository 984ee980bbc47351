package analyze

import (
	"context"

	"tlog.app/go/errors"
	"tlog.app/go/loc"
	"tlog.app/go/tlog"

	"github.com/uralgo2/nextc/compiler/ast"
	"github.com/uralgo2/nextc/compiler/parse"
	"github.com/uralgo2/nextc/compiler/scope"
	"github.com/uralgo2/nextc/compiler/token"
)

type (
	// Importer resolves a dotted module name to a resolved module scope.
	Importer interface {
		Import(ctx context.Context, name string) (scope.Import, error)
	}

	// Collector declares functions, locals, imports, uses and exports
	// into the scope arena. It walks the tree but never changes it.
	Collector struct {
		Arena    *scope.Arena
		Importer Importer
		MaxDepth int

		ctx   context.Context
		stack []scope.ContextID
		depth int

		tr tlog.Span
	}
)

const DefaultMaxDepth = 256

var (
	_ ast.Visitor[error] = &Collector{}
	_ Pass               = &Collector{}
)

func NewCollector(a *scope.Arena, imp Importer) *Collector {
	return &Collector{
		Arena:    a,
		Importer: imp,
		MaxDepth: DefaultMaxDepth,
	}
}

func (c *Collector) Name() string { return "collect" }

func (c *Collector) Run(ctx context.Context, u *Unit) (err error) {
	c.ctx = ctx
	c.tr = tlog.SpanFromContext(ctx)
	c.stack = c.stack[:0]
	c.depth = 0

	defer func() {
		c.ctx = nil
	}()

	if u.Root == scope.NoContext {
		u.Root = c.Arena.NewRoot()
	} else {
		c.Arena.InitRoot(u.Root)
	}

	c.push(u.Root)
	defer c.pop()

	return c.VisitProgram(u.Program)
}

func (c *Collector) cur() scope.ContextID { return c.stack[len(c.stack)-1] }

func (c *Collector) push(id scope.ContextID) { c.stack = append(c.stack, id) }

func (c *Collector) pop() { c.stack = c.stack[:len(c.stack)-1] }

func (c *Collector) newScope() scope.ContextID {
	id := c.Arena.NewContext(c.cur())

	if c.tr.If("scope") {
		c.tr.Printw("new scope", "id", id, "parent", c.cur(), "from", c.Arena.Context(id).From, "by", loc.Caller(1))
	}

	return id
}

func (c *Collector) enter(pos token.Pos) error {
	c.depth++

	if c.depth > c.MaxDepth {
		return &parse.RecursionLimitError{Limit: c.MaxDepth, Pos: pos}
	}

	return nil
}

func (c *Collector) stmt(s ast.Stmt) error {
	if s == nil {
		return nil
	}

	if err := c.enter(s.Position()); err != nil {
		return err
	}
	defer func() { c.depth-- }()

	return ast.WalkStmt[error](c, s)
}

func (c *Collector) expr(x ast.Expr) error {
	if x == nil {
		return nil
	}

	if err := c.enter(x.Position()); err != nil {
		return err
	}
	defer func() { c.depth-- }()

	return ast.WalkExpr[error](c, x)
}

func (c *Collector) block(l []ast.Stmt) error {
	for _, s := range l {
		if err := c.stmt(s); err != nil {
			return err
		}
	}

	return nil
}

func (c *Collector) exprs(l ...ast.Expr) error {
	for _, x := range l {
		if err := c.expr(x); err != nil {
			return err
		}
	}

	return nil
}

func (c *Collector) VisitProgram(p *ast.Program) error {
	return c.block(p.Stmts)
}

func (c *Collector) VisitExprStmt(s *ast.ExprStmt) error { return c.expr(s.X) }

func (c *Collector) VisitLocal(s *ast.Local) error {
	return c.local(s.Pos, s.Name, s.Type, s.Value, false)
}

func (c *Collector) VisitConst(s *ast.Const) error {
	return c.local(s.Pos, s.Name, s.Type, s.Value, true)
}

func (c *Collector) local(pos token.Pos, name, tp string, val ast.Expr, isConst bool) error {
	tid, err := c.Arena.ResolveTypeOrUnknown(c.cur(), tp)
	if err != nil {
		return errors.Wrap(err, "%v: %v", pos, name)
	}

	err = c.expr(val)
	if err != nil {
		return err
	}

	c.Arena.AddLocal(c.cur(), scope.Local{
		Name:  name,
		Type:  tid,
		Const: isConst,
		Pos:   pos,
	})

	return nil
}

func (c *Collector) params(l []ast.Param) (r []scope.Param, err error) {
	for _, p := range l {
		tid, err := c.Arena.ResolveTypeOrUnknown(c.cur(), p.Type)
		if err != nil {
			return nil, errors.Wrap(err, "param %v", p.Name)
		}

		r = append(r, scope.Param{Name: p.Name, Type: tid})
	}

	return r, nil
}

// fnScope creates the body scope of a function with the parameters as locals.
func (c *Collector) fnScope(pos token.Pos, params []scope.Param) scope.ContextID {
	id := c.newScope()

	for _, p := range params {
		c.Arena.AddLocal(id, scope.Local{Name: p.Name, Type: p.Type, Pos: pos})
	}

	return id
}

func (c *Collector) VisitFuncDecl(s *ast.FuncDecl) error {
	params, err := c.params(s.Params)
	if err != nil {
		return errors.Wrap(err, "%v: fn %v", s.Pos, s.Name)
	}

	ret, err := c.Arena.ResolveTypeOrUnknown(c.cur(), s.Return)
	if err != nil {
		return errors.Wrap(err, "%v: fn %v: return type", s.Pos, s.Name)
	}

	body := c.fnScope(s.Pos, params)

	id, err := c.Arena.AddFunc(c.cur(), scope.Function{
		Name:    s.Name,
		Return:  ret,
		Params:  params,
		Context: body,
		Pos:     s.Pos,
	})
	if err != nil {
		return errors.Wrap(err, "%v", s.Pos)
	}

	c.Arena.Context(body).Owner = id

	if c.tr.If("scope") {
		c.tr.Printw("function", "sig", c.Arena.Signature(id), "mangled", c.Arena.Func(id).Mangled, "scope", body)
	}

	c.push(body)
	defer c.pop()

	return c.block(s.Body)
}

func (c *Collector) VisitReturn(s *ast.Return) error { return c.expr(s.Value) }

func (c *Collector) VisitImport(s *ast.Import) error {
	if c.Importer == nil {
		return errors.New("%v: import %v: no module resolver", s.Pos, s.Name)
	}

	imp, err := c.Importer.Import(c.ctx, s.Name)
	if err != nil {
		return errors.Wrap(err, "%v: import %v", s.Pos, s.Name)
	}

	err = c.Arena.Context(c.cur()).Imports.Add(imp)
	if err != nil {
		return errors.Wrap(err, "%v", s.Pos)
	}

	return nil
}

func (c *Collector) VisitUse(s *ast.Use) error {
	c.Arena.Context(c.cur()).Uses.Add(s.Name)

	return nil
}

func (c *Collector) VisitExport(s *ast.Export) error {
	err := c.stmt(s.Decl)
	if err != nil {
		return err
	}

	name, _ := ast.DeclName(s.Decl)
	cur := c.Arena.Context(c.cur())
	exps := &cur.Exports

	// overloads share one exported name, the func table already rejected true conflicts
	if isFuncDecl(s.Decl) && exps.Has(name) && len(cur.Funcs.Lookup(name)) > 1 {
		return nil
	}

	err = exps.Add(name)
	if err != nil {
		return errors.Wrap(err, "%v", s.Pos)
	}

	return nil
}

func isFuncDecl(s ast.Stmt) bool {
	switch s := s.(type) {
	case *ast.FuncDecl:
		return true
	case *ast.Decorated:
		return isFuncDecl(s.Stmt)
	}

	return false
}

func (c *Collector) VisitDecorated(s *ast.Decorated) error {
	err := c.exprs(s.Decorators...)
	if err != nil {
		return err
	}

	return c.stmt(s.Stmt)
}

func (c *Collector) VisitIf(s *ast.If) error {
	for _, br := range s.Branches {
		if err := c.expr(br.Cond); err != nil {
			return err
		}

		if err := c.block(br.Body); err != nil {
			return err
		}
	}

	return c.block(s.Else)
}

func (c *Collector) VisitFor(s *ast.For) error {
	for _, x := range []ast.Stmt{s.Init, s.Cond, s.Step} {
		if err := c.stmt(x); err != nil {
			return err
		}
	}

	return c.block(s.Body)
}

func (c *Collector) VisitWhile(s *ast.While) error {
	if err := c.expr(s.Cond); err != nil {
		return err
	}

	return c.block(s.Body)
}

func (c *Collector) VisitEmpty(s *ast.Empty) error { return nil }

func (c *Collector) VisitBinary(x *ast.Binary) error   { return c.exprs(x.Left, x.Right) }
func (c *Collector) VisitAssign(x *ast.Assign) error   { return c.exprs(x.Left, x.Right) }
func (c *Collector) VisitPrefix(x *ast.Prefix) error   { return c.expr(x.X) }
func (c *Collector) VisitPostfix(x *ast.Postfix) error { return c.expr(x.X) }
func (c *Collector) VisitMember(x *ast.Member) error   { return c.expr(x.X) }

func (c *Collector) VisitCall(x *ast.Call) error {
	if err := c.expr(x.Func); err != nil {
		return err
	}

	return c.exprs(x.Args...)
}

// VisitFuncLit gives a function literal its own scope. Literals are not registered.
func (c *Collector) VisitFuncLit(x *ast.FuncLit) error {
	params, err := c.params(x.Params)
	if err != nil {
		return errors.Wrap(err, "%v: fn literal", x.Pos)
	}

	c.push(c.fnScope(x.Pos, params))
	defer c.pop()

	if x.Body != nil {
		return c.block(x.Body)
	}

	return c.expr(x.Expr)
}

func (c *Collector) VisitIntLit(*ast.IntLit) error       { return nil }
func (c *Collector) VisitFloatLit(*ast.FloatLit) error   { return nil }
func (c *Collector) VisitStringLit(*ast.StringLit) error { return nil }
func (c *Collector) VisitIdent(*ast.Ident) error         { return nil }
