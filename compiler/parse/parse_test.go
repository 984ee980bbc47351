package parse

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uralgo2/nextc/compiler/ast"
	"github.com/uralgo2/nextc/compiler/format"
	"github.com/uralgo2/nextc/compiler/grammar"
)

var strategies = []Strategy{RecursiveDescent, ShuntingYard}

func parseCase(ctx context.Context, c testCase, s Strategy) (any, error) {
	opts := Options{Strategy: s}

	if c.Expr {
		return ParseExpr(ctx, []byte(c.Input), grammar.Default(), opts)
	}

	return Parse(ctx, "", []byte(c.Input), grammar.Default(), opts)
}

func TestCases(t *testing.T) {
	ctx := context.Background()

	for _, file := range []string{"testdata/expr.md", "testdata/stmt.md"} {
		for _, c := range loadCases(t, file) {
			for _, s := range strategies {
				c, s := c, s

				t.Run(s.String()+"/"+c.Name, func(t *testing.T) {
					x, err := parseCase(ctx, c, s)

					if c.Error != "" {
						require.Error(t, err)
						assert.Contains(t, err.Error(), c.Error)

						return
					}

					require.NoError(t, err)
					assert.Equal(t, c.AST, string(format.SExpr(nil, x)))
				})
			}
		}
	}
}

func TestStrategiesAgree(t *testing.T) {
	ctx := context.Background()

	for _, file := range []string{"testdata/expr.md", "testdata/stmt.md"} {
		for _, c := range loadCases(t, file) {
			rd, rderr := parseCase(ctx, c, RecursiveDescent)
			sy, syerr := parseCase(ctx, c, ShuntingYard)

			if c.Error != "" {
				assert.Error(t, rderr, c.Name)
				assert.Error(t, syerr, c.Name)

				continue
			}

			require.NoError(t, rderr, c.Name)
			require.NoError(t, syerr, c.Name)

			assert.Equal(t, rd, sy, c.Name)
		}
	}
}

func TestFormatRoundTrip(t *testing.T) {
	ctx := context.Background()

	for _, c := range loadCases(t, "testdata/stmt.md") {
		if c.Error != "" {
			continue
		}

		x, err := parseCase(ctx, c, RecursiveDescent)
		require.NoError(t, err, c.Name)

		src, err := format.Format(ctx, nil, x)
		require.NoError(t, err, c.Name)

		y, err := Parse(ctx, "", src, grammar.Default(), Options{})
		require.NoError(t, err, "%v\n%s", c.Name, src)

		assert.Equal(t, string(format.SExpr(nil, x)), string(format.SExpr(nil, y)), "%v\n%s", c.Name, src)
	}
}

func TestSyntaxErrorToken(t *testing.T) {
	ctx := context.Background()

	_, err := Parse(ctx, "a.next", []byte("let x = 1\nlet = 2"), grammar.Default(), Options{})
	require.Error(t, err)

	var serr *SyntaxError
	require.ErrorAs(t, err, &serr)

	assert.Equal(t, "=", serr.Token.Value)
	assert.Equal(t, 2, serr.Token.Line)
	assert.Equal(t, 5, serr.Token.Col)
	assert.Equal(t, []string{"variable name"}, serr.Want)

	assert.Equal(t, `a.next:2:5: unexpected Operator(=), want variable name`, err.Error())
}

func TestRecursionLimit(t *testing.T) {
	ctx := context.Background()

	deep := strings.Repeat("(", 1000) + "1" + strings.Repeat(")", 1000)

	for _, s := range strategies {
		_, err := ParseExpr(ctx, []byte(deep), grammar.Default(), Options{Strategy: s})

		var rerr *RecursionLimitError
		require.ErrorAs(t, err, &rerr, "%v", s)
		assert.Equal(t, DefaultMaxDepth, rerr.Limit)
	}

	blocks := strings.Repeat("while (x) {", 20) + strings.Repeat("}", 20)

	_, err := Parse(ctx, "", []byte(blocks), grammar.Default(), Options{MaxDepth: 10})

	var rerr *RecursionLimitError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, 10, rerr.Limit)

	x, err := Parse(ctx, "", []byte(blocks), grammar.Default(), Options{})
	require.NoError(t, err)
	require.Len(t, x.Stmts, 1)
}

func TestPositions(t *testing.T) {
	ctx := context.Background()

	for _, s := range strategies {
		prog, err := Parse(ctx, "p.next", []byte("let v = a +\n  f(b)"), grammar.Default(), Options{Strategy: s})
		require.NoError(t, err)
		require.Len(t, prog.Stmts, 1)

		v := prog.Stmts[0].(*ast.Local)
		assert.Equal(t, 1, v.Pos.Line)
		assert.Equal(t, 1, v.Pos.Col)

		sum := v.Value.(*ast.Binary)
		assert.Equal(t, 11, sum.Pos.Col)

		call := sum.Right.(*ast.Call)
		assert.Equal(t, 2, call.Pos.Line)
		assert.Equal(t, 4, call.Pos.Col)
		assert.Equal(t, "p.next", call.Pos.File)
	}
}

func TestCustomGrammar(t *testing.T) {
	ctx := context.Background()

	g, err := grammar.New(ctx, []byte(`
priorities:
  "=": 1
  "+=": 1
  "-=": 1
  "*=": 1
  "/=": 1
  "%=": 1
  "**=": 1
  "==": 2
  "!=": 2
  "<": 3
  ">": 3
  "<=": 3
  ">=": 3
  "^": 4
  "&": 5
  "*": 6
  "/": 6
  "%": 6
  "+": 7
  "-": 7
  "**": 9
  ".": 10
`))
	require.NoError(t, err)

	for _, s := range strategies {
		x, err := ParseExpr(ctx, []byte("1 + 2 * 3"), g, Options{Strategy: s})
		require.NoError(t, err)

		assert.Equal(t, `(binary "*" (binary "+" 1 2) 3)`, string(format.SExpr(nil, x)))
	}
}

func TestParseFile(t *testing.T) {
	ctx := context.Background()

	name := filepath.Join(t.TempDir(), "main.next")

	err := os.WriteFile(name, []byte("fn main() { return 0 }\n"), 0o644)
	require.NoError(t, err)

	prog, err := ParseFile(ctx, name, grammar.Default(), Options{})
	require.NoError(t, err)

	assert.Equal(t, name, prog.File)
	assert.Equal(t, `(fn main () (block (return 0)))`, string(format.SExpr(nil, prog)))

	_, err = ParseFile(ctx, filepath.Join(t.TempDir(), "missing.next"), grammar.Default(), Options{})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseStrategy(t *testing.T) {
	for _, s := range strategies {
		r, err := ParseStrategy(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, r)
	}

	_, err := ParseStrategy("pratt")
	assert.Error(t, err)
}
