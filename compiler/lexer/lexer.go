package lexer

import (
	"context"
	"strconv"
	"unicode/utf8"

	"tlog.app/go/loc"
	"tlog.app/go/tlog"

	"github.com/uralgo2/nextc/compiler/grammar"
	"github.com/uralgo2/nextc/compiler/token"
)

type (
	Lexer struct {
		b    []byte
		file string

		keywords  map[string]struct{}
		operators map[string]struct{}
		specials  map[string]struct{}
		prefixes  map[string]struct{}

		comments bool

		tr tlog.Span

		State
	}

	// State is everything Next mutates. Save and Restore move it as one unit.
	State struct {
		Line int
		Col  int

		Pos     int
		ReadPos int
		Ch      rune
	}
)

func New(ctx context.Context, file string, text []byte, g *grammar.Grammar) *Lexer {
	l := &Lexer{
		b:    text,
		file: file,

		keywords:  set(g.Keywords),
		operators: set(g.Operators),
		specials:  set(g.Specials),
		prefixes:  map[string]struct{}{},

		tr: tlog.SpanFromContext(ctx),
	}

	for _, list := range [][]string{g.Operators, g.Specials} {
		for _, op := range list {
			for i := 1; i <= len(op); i++ {
				l.prefixes[op[:i]] = struct{}{}
			}
		}
	}

	_, slash := l.prefixes["//"]
	l.comments = !slash

	l.Reset()

	return l
}

func (l *Lexer) File() string { return l.file }

func (l *Lexer) Reset() {
	l.State = State{Line: 1}

	l.Advance()
}

func (l *Lexer) Save() State { return l.State }

func (l *Lexer) Restore(s State) { l.State = s }

func (l *Lexer) atEOF() bool { return l.Pos >= len(l.b) }

// Advance consumes the current character.
func (l *Lexer) Advance() {
	if l.Ch == '\n' {
		l.Line++
		l.Col = 0
	}

	l.Pos = l.ReadPos

	if l.ReadPos >= len(l.b) {
		l.Ch = 0
		l.Pos = len(l.b)

		return
	}

	r, w := utf8.DecodeRune(l.b[l.ReadPos:])

	l.Ch = r
	l.ReadPos += w
	l.Col++
}

func (l *Lexer) PeekChar() rune {
	if l.ReadPos >= len(l.b) {
		return 0
	}

	r, _ := utf8.DecodeRune(l.b[l.ReadPos:])

	return r
}

func (l *Lexer) SkipWhitespace() {
	for !l.atEOF() {
		switch {
		case l.Ch == ' ' || l.Ch == '\t' || l.Ch == '\n' || l.Ch == '\r':
			l.Advance()
		case l.comments && l.Ch == '/' && l.PeekChar() == '/':
			for !l.atEOF() && l.Ch != '\n' {
				l.Advance()
			}
		default:
			return
		}
	}
}

// Peek returns the token Next would return without consuming it.
func (l *Lexer) Peek() token.Token {
	st := l.Save()
	defer l.Restore(st)

	return l.next()
}

func (l *Lexer) Next() (t token.Token) {
	t = l.next()

	if l.tr.If("lexer") {
		l.tr.Printw("token", "tok", t, "from", loc.Callers(1, 2))
	}

	return t
}

func (l *Lexer) next() token.Token {
	l.SkipWhitespace()

	if l.atEOF() {
		return token.EOF
	}

	pos := token.Pos{File: l.file, Line: l.Line, Col: l.Col}
	st := l.Pos

	switch c := l.Ch; {
	case isLetter(c) || c == '_':
		for !l.atEOF() && (isLetter(l.Ch) || isDigit(l.Ch) || l.Ch == '_') {
			l.Advance()
		}

		id := string(l.b[st:l.Pos])

		kind := token.Ident
		if _, ok := l.keywords[id]; ok {
			kind = token.Keyword
		}

		return token.Token{Kind: kind, Value: id, Raw: id, Pos: pos}
	case isDigit(c):
		return l.number(st, pos)
	case c == '"':
		return l.string(st, pos)
	}

	return l.symbol(st, pos)
}

func (l *Lexer) number(st int, pos token.Pos) token.Token {
	l.digits()

	if l.Ch == '.' && isDigit(l.PeekChar()) {
		l.Advance()
		l.digits()

		raw := string(l.b[st:l.Pos])

		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return token.Token{Kind: token.Unknown, Value: raw, Raw: raw, Pos: pos}
		}

		return token.Token{Kind: token.Float, Value: raw, Raw: raw, Float: v, Pos: pos}
	}

	raw := string(l.b[st:l.Pos])

	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return token.Token{Kind: token.Unknown, Value: raw, Raw: raw, Pos: pos}
	}

	return token.Token{Kind: token.Int, Value: raw, Raw: raw, Int: v, Pos: pos}
}

func (l *Lexer) digits() {
	for !l.atEOF() && isDigit(l.Ch) {
		l.Advance()
	}
}

func (l *Lexer) string(st int, pos token.Pos) token.Token {
	l.Advance() // opening quote

	vst := l.Pos

	for !l.atEOF() && l.Ch != '"' {
		l.Advance()
	}

	if l.atEOF() {
		raw := string(l.b[st:])

		return token.Token{Kind: token.Unknown, Value: raw, Raw: raw, Pos: pos}
	}

	val := string(l.b[vst:l.Pos])

	l.Advance() // closing quote

	return token.Token{Kind: token.String, Value: val, Raw: string(l.b[st:l.Pos]), Pos: pos}
}

// symbol is maximal munch over operators and punctuation.
func (l *Lexer) symbol(st int, pos token.Pos) token.Token {
	l.Advance()

	for !l.atEOF() {
		ext := string(l.b[st:l.ReadPos])

		if _, ok := l.prefixes[ext]; !ok {
			break
		}

		l.Advance()
	}

	s := string(l.b[st:l.Pos])

	kind := token.Unknown

	if _, ok := l.operators[s]; ok {
		kind = token.Operator
	} else if _, ok := l.specials[s]; ok {
		kind = token.Special
	}

	return token.Token{Kind: kind, Value: s, Raw: s, Pos: pos}
}

func isLetter(c rune) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

func set(l []string) map[string]struct{} {
	m := make(map[string]struct{}, len(l))

	for _, x := range l {
		m[x] = struct{}{}
	}

	return m
}
