package token

import (
	"fmt"
	"strconv"

	"tlog.app/go/tlog/tlwire"
)

type (
	Kind int

	Pos struct {
		File string
		Line int
		Col  int
	}

	Token struct {
		Kind Kind

		Value string
		Raw   string

		Int   int64
		Float float64

		Pos
	}
)

const (
	EOFKind Kind = iota
	Keyword
	Ident
	Int
	Float
	Operator
	String
	Special
	Unknown
)

// EOF is returned for every read past the end of input.
var EOF = Token{Kind: EOFKind}

var kindNames = [...]string{
	EOFKind:  "EOF",
	Keyword:  "Keyword",
	Ident:    "Ident",
	Int:      "Int",
	Float:    "Float",
	Operator: "Operator",
	String:   "String",
	Special:  "Special",
	Unknown:  "Unknown",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}

	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

func (t Token) Is(k Kind, v string) bool {
	return t.Kind == k && t.Value == v
}

func (t Token) IsKeyword(v string) bool  { return t.Is(Keyword, v) }
func (t Token) IsOperator(v string) bool { return t.Is(Operator, v) }
func (t Token) IsSpecial(v string) bool  { return t.Is(Special, v) }

// StartsPrimary reports whether the token can begin an operand:
// an identifier or a literal.
func (t Token) StartsPrimary() bool {
	switch t.Kind {
	case Ident, Int, Float, String:
		return true
	}

	return false
}

func (p Pos) String() string {
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Col)
	}

	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Col)
}

func (t Token) String() string {
	switch t.Kind {
	case EOFKind:
		return "EOF"
	case String:
		return fmt.Sprintf("%v(%q)", t.Kind, t.Value)
	}

	return fmt.Sprintf("%v(%s)", t.Kind, t.Raw)
}

func (t Token) TlogAppend(b []byte) []byte {
	var e tlwire.LowEncoder

	if t.Kind == EOFKind {
		return e.AppendString(b, "EOF")
	}

	b = e.AppendTag(b, tlwire.Map, 3)

	b = e.AppendString(b, "kind")
	b = e.AppendString(b, t.Kind.String())

	b = e.AppendString(b, "raw")
	b = e.AppendString(b, t.Raw)

	b = e.AppendString(b, "pos")
	b = e.AppendString(b, t.Pos.String())

	return b
}
