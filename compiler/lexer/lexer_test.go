package lexer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uralgo2/nextc/compiler/grammar"
	"github.com/uralgo2/nextc/compiler/token"
)

func newLexer(text string) *Lexer {
	return New(context.Background(), "test.next", []byte(text), grammar.Default())
}

func all(l *Lexer) (r []token.Token) {
	for {
		t := l.Next()
		if t.Kind == token.EOFKind {
			return r
		}

		r = append(r, t)
	}
}

func kinds(l []token.Token) (r []string) {
	for _, t := range l {
		r = append(r, t.Kind.String()+" "+t.Value)
	}

	return r
}

func TestMaximalMunch(t *testing.T) {
	g := &grammar.Grammar{Operators: []string{"+", "++"}}

	l := New(context.Background(), "", []byte("++x"), g)

	assert.Equal(t, []string{"Operator ++", "Ident x"}, kinds(all(l)))

	l = newLexer("a**=b => c->d")

	assert.Equal(t, []string{
		"Ident a", "Operator **=", "Ident b",
		"Special =>", "Ident c", "Special ->", "Ident d",
	}, kinds(all(l)))
}

func TestPeekIsPure(t *testing.T) {
	l := newLexer("let x = 10")

	first := l.Peek()

	for i := 0; i < 5; i++ {
		assert.Equal(t, first, l.Peek())
	}

	assert.Equal(t, first, l.Next())
	assert.Equal(t, "x", l.Next().Value)
}

func TestSaveRestore(t *testing.T) {
	l := newLexer("a +\n b")

	l.Next()
	st := l.Save()

	op := l.Next()
	b := l.Next()

	assert.Equal(t, token.EOF, l.Next())

	l.Restore(st)

	assert.Equal(t, op, l.Next())
	assert.Equal(t, b, l.Next())
}

func TestPositions(t *testing.T) {
	l := newLexer("let x\n  = 1.5;\n\"s\"")

	toks := all(l)
	require.Len(t, toks, 6)

	assert.Equal(t, token.Pos{File: "test.next", Line: 1, Col: 1}, toks[0].Pos)
	assert.Equal(t, token.Pos{File: "test.next", Line: 1, Col: 5}, toks[1].Pos)
	assert.Equal(t, token.Pos{File: "test.next", Line: 2, Col: 3}, toks[2].Pos)
	assert.Equal(t, token.Pos{File: "test.next", Line: 2, Col: 5}, toks[3].Pos)
	assert.Equal(t, token.Pos{File: "test.next", Line: 2, Col: 8}, toks[4].Pos)
	assert.Equal(t, token.Pos{File: "test.next", Line: 3, Col: 1}, toks[5].Pos)
}

func TestNumbers(t *testing.T) {
	toks := all(newLexer("42 3.25 1.foo 99999999999999999999"))

	require.Len(t, toks, 6)

	assert.Equal(t, token.Int, toks[0].Kind)
	assert.Equal(t, int64(42), toks[0].Int)

	assert.Equal(t, token.Float, toks[1].Kind)
	assert.Equal(t, 3.25, toks[1].Float)

	assert.Equal(t, []string{"Int 1", "Operator .", "Ident foo"}, kinds(toks[2:5]))

	assert.Equal(t, token.Unknown, toks[5].Kind, "overflow")
}

func TestStrings(t *testing.T) {
	toks := all(newLexer(`"hello world" "unterminated`))

	require.Len(t, toks, 2)

	assert.Equal(t, token.String, toks[0].Kind)
	assert.Equal(t, "hello world", toks[0].Value)
	assert.Equal(t, `"hello world"`, toks[0].Raw)

	assert.Equal(t, token.Unknown, toks[1].Kind)
	assert.Equal(t, `"unterminated`, toks[1].Raw)
}

func TestKeywordsAndUnknown(t *testing.T) {
	toks := all(newLexer("fn _f1 $ import"))

	assert.Equal(t, []string{"Keyword fn", "Ident _f1", "Unknown $", "Keyword import"}, kinds(toks))
}

func TestComments(t *testing.T) {
	toks := all(newLexer("a // comment ( \n b / c"))

	assert.Equal(t, []string{"Ident a", "Ident b", "Operator /", "Ident c"}, kinds(toks))
}

func TestEOFIsIdempotent(t *testing.T) {
	l := newLexer("  ")

	assert.Equal(t, token.EOF, l.Next())
	assert.Equal(t, token.EOF, l.Next())
	assert.Equal(t, token.EOF, l.Peek())
}

func TestAdvanceTracksLines(t *testing.T) {
	l := newLexer("a\nb")

	assert.Equal(t, 'a', l.Ch)
	assert.Equal(t, '\n', l.PeekChar())

	l.Advance()
	assert.Equal(t, State{Line: 1, Col: 2, Pos: 1, ReadPos: 2, Ch: '\n'}, l.Save())

	l.Advance()
	assert.Equal(t, State{Line: 2, Col: 1, Pos: 2, ReadPos: 3, Ch: 'b'}, l.Save())

	l.Advance()
	assert.Equal(t, rune(0), l.Ch)
	assert.Equal(t, rune(0), l.PeekChar())
}
