package parse

import (
	"context"

	"github.com/uralgo2/nextc/compiler/ast"
	"github.com/uralgo2/nextc/compiler/token"
)

type (
	syKind int

	syItem struct {
		Kind syKind
		Tok  token.Token

		X    ast.Expr // operand
		Argc int      // call

		Prec  int
		Right bool
	}

	// yard is the operator stack and output queue of one shunting-yard run.
	yard struct {
		out   []syItem
		stack []syItem

		// per open call parenthesis
		argc []int
		seen []bool
	}
)

const (
	syOperand syKind = iota
	syPrefix
	syPostfix
	syBinary
	syCall

	syParen     // grouping marker
	syCallParen // call marker
)

// shuntingYard parses an expression with Dijkstra's algorithm.
// It uses the same priority table as precedence climbing and builds the same trees.
func (p *Parser) shuntingYard(ctx context.Context) (x ast.Expr, err error) {
	if err = p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	var y yard

	value := false // last consumed token completed an operand
	parens := 0

	var prev token.Token

loop:
	for {
		t := p.l.Peek()

		switch {
		case t.StartsPrimary():
			if value {
				break loop
			}

			p.l.Next()

			x, _ := literal(t)
			y.operand(x, t)

			value = true
		case t.IsKeyword("fn"):
			if value {
				break loop
			}

			p.l.Next()

			f, err := p.funcLit(ctx, t)
			if err != nil {
				return nil, err
			}

			y.operand(f, t)

			value = true
		case t.Kind == token.Operator && !value:
			if !p.g.IsUnary(t.Value) {
				return nil, NewUnexpected(t, "expression")
			}

			p.l.Next()

			y.stack = append(y.stack, syItem{Kind: syPrefix, Tok: t, Prec: p.g.PrefixPriority, Right: true})
		case t.IsOperator("."):
			p.l.Next()

			if n := p.l.Peek(); n.Kind != token.Ident {
				return nil, NewUnexpected(p.l.Next(), "member name")
			}

			y.binary(syItem{Kind: syBinary, Tok: t, Prec: p.memberPrec})

			value = false
		case t.Kind == token.Operator && p.g.IsPostfix(t.Value) && !p.g.IsBinary(t.Value):
			if !p.takePostfix() {
				break loop
			}

			y.popWhile(func(top syItem) bool { return top.Kind == syBinary && top.Prec >= p.memberPrec })

			y.out = append(y.out, syItem{Kind: syPostfix, Tok: t})
		case t.Kind == token.Operator && (p.g.IsBinary(t.Value) || p.g.IsAssign(t.Value)):
			p.l.Next()

			prec, _ := p.g.Priority(t.Value)

			y.binary(syItem{Kind: syBinary, Tok: t, Prec: prec, Right: p.g.IsRightAssoc(t.Value)})

			value = false
		case t.IsSpecial("("):
			p.l.Next()

			parens++
			if parens > p.opts.MaxDepth {
				return nil, &RecursionLimitError{Limit: p.opts.MaxDepth, Pos: t.Pos}
			}

			if !value {
				y.stack = append(y.stack, syItem{Kind: syParen, Tok: t})
				break
			}

			y.popWhile(func(top syItem) bool { return top.Kind == syBinary && top.Prec >= p.memberPrec })

			y.stack = append(y.stack, syItem{Kind: syCallParen, Tok: t})
			y.argc = append(y.argc, 0)
			y.seen = append(y.seen, false)

			value = false
		case t.IsSpecial(")") && parens != 0:
			p.l.Next()
			parens--

			y.popWhile(func(top syItem) bool { return top.Kind != syParen && top.Kind != syCallParen })

			m := y.stack[len(y.stack)-1]
			y.stack = y.stack[:len(y.stack)-1]

			if m.Kind == syParen {
				if !value {
					return nil, NewUnexpected(t, "expression")
				}

				break
			}

			if !value && !prev.IsSpecial("(") && !prev.IsSpecial(",") {
				return nil, NewUnexpected(t, "expression")
			}

			last := len(y.argc) - 1
			n := y.argc[last]

			if y.seen[last] {
				n++
			}

			y.argc = y.argc[:last]
			y.seen = y.seen[:last]

			y.out = append(y.out, syItem{Kind: syCall, Tok: m.Tok, Argc: n})
			y.markValue()

			value = true
		case t.IsSpecial(",") && parens != 0:
			if m := y.marker(); m.Kind != syCallParen {
				return nil, NewUnexpected(t, `")"`)
			}

			if !value {
				return nil, NewUnexpected(t, "expression")
			}

			p.l.Next()

			y.popWhile(func(top syItem) bool { return top.Kind != syParen && top.Kind != syCallParen })

			last := len(y.argc) - 1
			y.argc[last]++
			y.seen[last] = false

			value = false
		default:
			break loop
		}

		prev = t
	}

	if !value {
		return nil, NewUnexpected(p.l.Peek(), "expression")
	}

	if parens != 0 {
		return nil, NewUnexpected(p.l.Peek(), `")"`)
	}

	y.popWhile(func(syItem) bool { return true })

	return p.build(y.out)
}

func (y *yard) operand(x ast.Expr, t token.Token) {
	y.out = append(y.out, syItem{Kind: syOperand, Tok: t, X: x})
	y.markValue()
}

func (y *yard) markValue() {
	if len(y.seen) != 0 {
		y.seen[len(y.seen)-1] = true
	}
}

// binary pushes an infix operator after popping everything that binds at least as tight.
func (y *yard) binary(op syItem) {
	y.popWhile(func(top syItem) bool {
		if top.Kind != syBinary && top.Kind != syPrefix {
			return false
		}

		return top.Prec > op.Prec || top.Prec == op.Prec && !op.Right
	})

	y.stack = append(y.stack, op)
}

func (y *yard) popWhile(f func(top syItem) bool) {
	for len(y.stack) != 0 {
		top := y.stack[len(y.stack)-1]
		if !f(top) {
			return
		}

		y.out = append(y.out, top)
		y.stack = y.stack[:len(y.stack)-1]
	}
}

// marker is the innermost open parenthesis.
func (y *yard) marker() syItem {
	for i := len(y.stack) - 1; i >= 0; i-- {
		if k := y.stack[i].Kind; k == syParen || k == syCallParen {
			return y.stack[i]
		}
	}

	return syItem{Kind: -1}
}

// build evaluates the postfix queue into a tree.
func (p *Parser) build(out []syItem) (x ast.Expr, err error) {
	var vals []ast.Expr

	pop := func(t token.Token, n int) ([]ast.Expr, error) {
		if len(vals) < n {
			return nil, NewUnexpected(t, "operand")
		}

		r := vals[len(vals)-n:]
		vals = vals[:len(vals)-n]

		return r, nil
	}

	for _, it := range out {
		t := it.Tok

		switch it.Kind {
		case syOperand:
			vals = append(vals, it.X)

			continue
		case syPrefix, syPostfix:
			a, err := pop(t, 1)
			if err != nil {
				return nil, err
			}

			if it.Kind == syPrefix {
				x = &ast.Prefix{Base: ast.At(t.Pos), Op: t.Value, X: a[0]}
			} else {
				x = &ast.Postfix{Base: ast.At(t.Pos), Op: t.Value, X: a[0]}
			}
		case syBinary:
			a, err := pop(t, 2)
			if err != nil {
				return nil, err
			}

			switch {
			case t.Value == ".":
				name, ok := a[1].(*ast.Ident)
				if !ok {
					return nil, NewUnexpected(t, "member name")
				}

				x = &ast.Member{Base: ast.At(t.Pos), X: a[0], Name: name}
			case p.g.IsAssign(t.Value):
				x = &ast.Assign{Base: ast.At(t.Pos), Op: t.Value, Left: a[0], Right: a[1]}
			default:
				x = &ast.Binary{Base: ast.At(t.Pos), Op: t.Value, Left: a[0], Right: a[1]}
			}
		case syCall:
			a, err := pop(t, it.Argc+1)
			if err != nil {
				return nil, err
			}

			args := make([]ast.Expr, it.Argc)
			copy(args, a[1:])

			x = &ast.Call{Base: ast.At(t.Pos), Func: a[0], Args: args}
		}

		vals = append(vals, x)
	}

	if len(vals) != 1 {
		return nil, NewUnexpected(p.l.Peek(), "end of expression")
	}

	return vals[0], nil
}
