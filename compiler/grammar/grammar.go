package grammar

import (
	"context"
	"os"

	"gopkg.in/yaml.v3"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"
)

type (
	// Grammar is the lexical and operator vocabulary of the language.
	// Lexer and parser take it as data, nothing in them is hard-coded.
	Grammar struct {
		Keywords  []string `yaml:"keywords"`
		Operators []string `yaml:"operators"`
		Specials  []string `yaml:"specials"`

		Priorities map[string]int `yaml:"priorities"`
		RightAssoc []string       `yaml:"right_assoc"`

		Binary  []string `yaml:"binary"`
		Unary   []string `yaml:"unary"`
		Postfix []string `yaml:"postfix"`
		Assign  []string `yaml:"assign"`

		// PrefixPriority is the binding power of prefix unary operators.
		PrefixPriority int `yaml:"prefix_priority"`
	}
)

func Default() *Grammar {
	return &Grammar{
		Keywords: []string{"let", "const", "fn", "import", "export", "return", "use", "for", "if", "else", "while"},
		Operators: []string{
			"+", "-", "*", "**", "/", "%",
			"^", "&",
			"=", "+=", "-=", "*=", "/=", "%=", "**=",
			"++", "--",
			"!", "~",
			"<", ">", "<=", ">=", "==", "!=",
			".",
		},
		Specials: []string{"{", "}", "(", ")", "[", "]", "|", ":", ";", "=>", "->", "@", ","},

		Priorities: map[string]int{
			"=": 1, "+=": 1, "-=": 1, "*=": 1, "/=": 1, "%=": 1, "**=": 1,
			"==": 2, "!=": 2,
			"<": 3, ">": 3, "<=": 3, ">=": 3,
			"^": 4,
			"&": 5,
			"+": 6, "-": 6,
			"*": 7, "/": 7, "%": 7,
			"**": 9,
			".":  10,
		},
		RightAssoc: []string{"**", "=", "+=", "-=", "*=", "/=", "%=", "**="},

		Binary:  []string{"+", "-", "*", "**", "/", "%", "^", "&", "<", ">", "<=", ">=", "==", "!=", "."},
		Unary:   []string{"+", "-", "++", "--", "!", "~"},
		Postfix: []string{"++", "--"},
		Assign:  []string{"=", "+=", "-=", "*=", "/=", "%=", "**="},

		PrefixPriority: 8,
	}
}

// New reads a grammar from yaml text. Missing sections are taken from Default.
// Default postfix operators are kept only if they stay unary.
func New(ctx context.Context, text []byte) (*Grammar, error) {
	var g Grammar

	err := yaml.Unmarshal(text, &g)
	if err != nil {
		return nil, errors.Wrap(err, "decode yaml")
	}

	d := Default()

	if g.Keywords == nil {
		g.Keywords = d.Keywords
	}
	if g.Operators == nil {
		g.Operators = d.Operators
	}
	if g.Specials == nil {
		g.Specials = d.Specials
	}
	if g.Priorities == nil {
		g.Priorities = d.Priorities
	}
	if g.RightAssoc == nil {
		g.RightAssoc = d.RightAssoc
	}
	if g.Binary == nil {
		g.Binary = d.Binary
	}
	if g.Unary == nil {
		g.Unary = d.Unary
	}
	if g.Postfix == nil {
		unary := set(g.Unary)

		g.Postfix = []string{}

		for _, op := range d.Postfix {
			if _, ok := unary[op]; ok {
				g.Postfix = append(g.Postfix, op)
			}
		}
	}
	if g.Assign == nil {
		g.Assign = d.Assign
	}
	if g.PrefixPriority == 0 {
		g.PrefixPriority = d.PrefixPriority
	}

	err = g.Check()
	if err != nil {
		return nil, err
	}

	tlog.SpanFromContext(ctx).Printw("grammar loaded",
		"keywords", len(g.Keywords), "operators", len(g.Operators), "specials", len(g.Specials))

	return &g, nil
}

func Load(ctx context.Context, name string) (*Grammar, error) {
	text, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	g, err := New(ctx, text)
	if err != nil {
		return nil, errors.Wrap(err, "grammar %v", name)
	}

	return g, nil
}

// Check verifies that every operator with a role is also a lexer operator
// and that every binary or assignment operator has a priority.
func (g *Grammar) Check() error {
	ops := set(g.Operators)

	for _, list := range [][]string{g.Binary, g.Unary, g.Assign} {
		for _, op := range list {
			if _, ok := ops[op]; !ok {
				return errors.New("operator %q has a role but is not in the operator list", op)
			}
		}
	}

	for _, op := range g.Postfix {
		if !g.IsUnary(op) {
			return errors.New("postfix operator %q is not unary", op)
		}
	}

	for _, list := range [][]string{g.Binary, g.Assign} {
		for _, op := range list {
			if _, ok := g.Priorities[op]; !ok {
				return errors.New("operator %q has no priority", op)
			}
		}
	}

	return nil
}

func (g *Grammar) Priority(op string) (p int, ok bool) {
	p, ok = g.Priorities[op]
	return
}

func (g *Grammar) IsRightAssoc(op string) bool { return contains(g.RightAssoc, op) }
func (g *Grammar) IsBinary(op string) bool     { return contains(g.Binary, op) }
func (g *Grammar) IsUnary(op string) bool      { return contains(g.Unary, op) }
func (g *Grammar) IsPostfix(op string) bool    { return contains(g.Postfix, op) }
func (g *Grammar) IsAssign(op string) bool     { return contains(g.Assign, op) }

func contains(l []string, s string) bool {
	for _, x := range l {
		if x == s {
			return true
		}
	}

	return false
}

func set(l []string) map[string]struct{} {
	m := make(map[string]struct{}, len(l))

	for _, x := range l {
		m[x] = struct{}{}
	}

	return m
}
