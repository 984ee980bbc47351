package parse

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark"
	mdast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

type (
	testCase struct {
		Name  string
		Input string
		Expr  bool // next-expr fence

		AST   string
		Error string
	}
)

// loadCases reads markdown test cases: a "Test: name" heading followed
// by a next or next-expr input fence and an ast or error fence.
func loadCases(t *testing.T, name string) []testCase {
	t.Helper()

	source, err := os.ReadFile(name)
	require.NoError(t, err)

	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var cases []testCase
	var cur *testCase

	err = mdast.Walk(doc, func(n mdast.Node, entering bool) (mdast.WalkStatus, error) {
		if !entering {
			return mdast.WalkContinue, nil
		}

		switch n := n.(type) {
		case *mdast.Heading:
			h := headingText(n, source)
			if !strings.HasPrefix(h, "Test: ") {
				break
			}

			cases = append(cases, testCase{Name: strings.TrimPrefix(h, "Test: ")})
			cur = &cases[len(cases)-1]
		case *mdast.FencedCodeBlock:
			require.NotNil(t, cur, "fence outside of a test case")

			var buf bytes.Buffer

			for i := 0; i < n.Lines().Len(); i++ {
				line := n.Lines().At(i)
				buf.Write(line.Value(source))
			}

			content := strings.TrimRight(buf.String(), "\n")

			switch lang := string(n.Language(source)); lang {
			case "next", "next-expr":
				cur.Input = content
				cur.Expr = lang == "next-expr"
			case "ast":
				cur.AST = content
			case "error":
				cur.Error = content
			default:
				t.Fatalf("%v: unknown fence %q", cur.Name, lang)
			}
		}

		return mdast.WalkContinue, nil
	})
	require.NoError(t, err)

	for _, c := range cases {
		require.NotEmpty(t, c.Input, "test %q has no input", c.Name)
		require.True(t, c.AST != "" || c.Error != "", "test %q has no assertion", c.Name)
	}

	return cases
}

func headingText(n mdast.Node, source []byte) string {
	var buf bytes.Buffer

	_ = mdast.Walk(n, func(n mdast.Node, entering bool) (mdast.WalkStatus, error) {
		if t, ok := n.(*mdast.Text); entering && ok {
			buf.Write(t.Segment.Value(source))
		}

		return mdast.WalkContinue, nil
	})

	return buf.String()
}
