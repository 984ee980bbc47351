package scope

import (
	"strings"

	"tlog.app/go/loc"

	"github.com/uralgo2/nextc/compiler/ir"
	"github.com/uralgo2/nextc/compiler/token"
)

type (
	ContextID int
	TypeID    int
	FuncID    int

	// Arena owns every Context, Type and Function of a session.
	// Everything refers to everything else by handle.
	Arena struct {
		contexts []*Context
		types    []*Type
		funcs    []*Function
	}

	Context struct {
		Locals map[string]Local

		Funcs FuncTable
		Types TypeTable

		Imports ImportTable
		Exports ExportTable
		Uses    UseTable

		Parent ContextID
		Owner  FuncID // function whose body this is

		From loc.PC
	}

	Local struct {
		Name  string
		Type  TypeID
		Const bool
		Pos   token.Pos
	}

	Field struct {
		Name string
		Type TypeID
	}

	Type struct {
		Name string

		Methods      FuncTable
		Virtual      FuncTable
		Constructors FuncTable
		Static       FuncTable
		Getters      FuncTable
		Setters      FuncTable

		Fields       []Field
		StaticFields []Field

		Parent TypeID
	}

	Param struct {
		Name string
		Type TypeID
	}

	Function struct {
		Name    string
		Mangled string

		Return TypeID
		Params []Param

		Body ir.Code

		Context ContextID
		Pos     token.Pos
	}
)

const (
	NoContext ContextID = -1
	NoType    TypeID    = -1
	NoFunc    FuncID    = -1
)

// Builtins are the types every root context declares.
var Builtins = []string{"unknown", "int", "long", "byte"}

func NewArena() *Arena {
	return &Arena{}
}

func (a *Arena) NewContext(parent ContextID) ContextID {
	id := ContextID(len(a.contexts))

	a.contexts = append(a.contexts, &Context{
		Locals: map[string]Local{},
		Parent: parent,
		Owner:  NoFunc,
		From:   loc.Caller(1),
	})

	return id
}

// NewRoot creates a parentless context with the builtin types.
func (a *Arena) NewRoot() ContextID {
	id := a.NewContext(NoContext)

	a.InitRoot(id)

	return id
}

// InitRoot resets an existing context into a root in place,
// so handles taken before stay valid.
func (a *Arena) InitRoot(id ContextID) {
	c := a.Context(id)

	*c = Context{
		Locals: map[string]Local{},
		Parent: NoContext,
		Owner:  NoFunc,
		From:   c.From,
	}

	for _, name := range Builtins {
		_, err := a.NewType(id, name)
		if err != nil {
			panic(err)
		}
	}
}

func (a *Arena) Context(id ContextID) *Context { return a.contexts[id] }
func (a *Arena) Type(id TypeID) *Type          { return a.types[id] }
func (a *Arena) Func(id FuncID) *Function      { return a.funcs[id] }

func (a *Arena) Contexts() int { return len(a.contexts) }

// NewType declares an empty type named name in ctx.
func (a *Arena) NewType(ctx ContextID, name string) (TypeID, error) {
	c := a.Context(ctx)

	if _, ok := c.Types.Lookup(name); ok {
		return NoType, &NameConflictError{Kind: KindType, Name: name}
	}

	id := TypeID(len(a.types))

	a.types = append(a.types, &Type{
		Name:   name,
		Parent: NoType,
	})

	err := c.Types.Add(name, id)
	if err != nil {
		return NoType, err
	}

	return id, nil
}

// AddFunc registers f in ctx. Mangled name is computed from the enclosing functions.
func (a *Arena) AddFunc(ctx ContextID, f Function) (FuncID, error) {
	c := a.Context(ctx)

	id := FuncID(len(a.funcs))

	f.Mangled = a.Mangle(ctx, f.Name, f.Params)

	err := c.Funcs.Add(f.Name, paramTypes(f.Params), id)
	if err != nil {
		return NoFunc, err
	}

	a.funcs = append(a.funcs, &f)

	return id, nil
}

// AddLocal binds a local. A later binding of the same name shadows the earlier one.
func (a *Arena) AddLocal(ctx ContextID, l Local) {
	a.Context(ctx).Locals[l.Name] = l
}

// ResolveTypeOrUnknown looks name up through the parent chain.
// Empty name means unknown.
func (a *Arena) ResolveTypeOrUnknown(ctx ContextID, name string) (TypeID, error) {
	if name == "" {
		id, err := a.ResolveTypeOrUnknown(ctx, "unknown")
		if err != nil {
			panic("root context has no unknown type")
		}

		return id, nil
	}

	for id := ctx; id != NoContext; {
		c := a.Context(id)

		if t, ok := c.Types.Lookup(name); ok {
			return t, nil
		}

		id = c.Parent
	}

	return NoType, &UnresolvedTypeError{Name: name}
}

func (a *Arena) LookupLocal(ctx ContextID, name string) (Local, bool) {
	for id := ctx; id != NoContext; {
		c := a.Context(id)

		if l, ok := c.Locals[name]; ok {
			return l, true
		}

		id = c.Parent
	}

	return Local{}, false
}

// LookupFuncs returns the overloads of name in the nearest context declaring any.
func (a *Arena) LookupFuncs(ctx ContextID, name string) []FuncID {
	for id := ctx; id != NoContext; {
		c := a.Context(id)

		if l := c.Funcs.Lookup(name); len(l) != 0 {
			return l
		}

		id = c.Parent
	}

	return nil
}

// Root returns the outermost context of the chain ctx belongs to.
func (a *Arena) Root(ctx ContextID) ContextID {
	for a.Context(ctx).Parent != NoContext {
		ctx = a.Context(ctx).Parent
	}

	return ctx
}

// Mangle makes the external name of a function: its qualified name
// followed by $type for every parameter.
func (a *Arena) Mangle(ctx ContextID, name string, params []Param) string {
	var path []string

	for id := ctx; id != NoContext; id = a.Context(id).Parent {
		if own := a.Context(id).Owner; own != NoFunc {
			path = append(path, a.Func(own).Name)
		}
	}

	var b strings.Builder

	for i := len(path) - 1; i >= 0; i-- {
		b.WriteString(path[i])
		b.WriteByte('.')
	}

	b.WriteString(name)

	for _, p := range params {
		b.WriteByte('$')
		b.WriteString(a.typeName(p.Type))
	}

	return b.String()
}

// Signature formats f as name(p: type, ...): type.
func (a *Arena) Signature(id FuncID) string {
	f := a.Func(id)

	var b strings.Builder

	b.WriteString(f.Name)
	b.WriteByte('(')

	for i, p := range f.Params {
		if i != 0 {
			b.WriteString(", ")
		}

		b.WriteString(p.Name)
		b.WriteString(": ")
		b.WriteString(a.typeName(p.Type))
	}

	b.WriteString("): ")
	b.WriteString(a.typeName(f.Return))

	return b.String()
}

func (a *Arena) typeName(id TypeID) string {
	if id < 0 || int(id) >= len(a.types) {
		return "?"
	}

	return a.types[id].Name
}

func paramTypes(l []Param) []TypeID {
	r := make([]TypeID, len(l))

	for i, p := range l {
		r[i] = p.Type
	}

	return r
}
