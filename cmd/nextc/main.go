package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
	"nikand.dev/go/cli"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/uralgo2/nextc/compiler"
	"github.com/uralgo2/nextc/compiler/format"
	"github.com/uralgo2/nextc/compiler/grammar"
	"github.com/uralgo2/nextc/compiler/lexer"
	"github.com/uralgo2/nextc/compiler/parse"
	"github.com/uralgo2/nextc/compiler/token"
)

var opts compiler.Options

func main() {
	parseCmd := &cli.Command{
		Name:        "parse",
		Description: "print syntax tree",
		Action:      parseAct,
		Args:        cli.Args{},
	}

	fmtCmd := &cli.Command{
		Name:        "fmt",
		Description: "print source back formatted",
		Action:      fmtAct,
		Args:        cli.Args{},
	}

	tokensCmd := &cli.Command{
		Name:        "tokens",
		Description: "print token stream",
		Action:      tokensAct,
		Args:        cli.Args{},
	}

	scopeCmd := &cli.Command{
		Name:        "scope",
		Description: "print collected scopes",
		Action:      scopeAct,
		Args:        cli.Args{},
	}

	app := &cli.Command{
		Name:        "nextc",
		Description: "nextc is a front end for the next language. Without a file it starts a REPL",
		Before:      before,
		Action:      compileAct,
		Args:        cli.Args{},
		Flags: []*cli.Flag{
			cli.NewFlag("grammar", "", "grammar yaml file"),
			cli.NewFlag("include,I", "", "comma separated module roots searched before the defaults"),
			cli.NewFlag("strategy", "rd", "expression parser: rd (recursive descent) or sy (shunting yard)"),
			cli.NewFlag("verbosity,v", "", "logger verbosity topics"),
			cli.HelpFlag,
		},
		Commands: []*cli.Command{
			parseCmd,
			fmtCmd,
			tokensCmd,
			scopeCmd,
		},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

func before(c *cli.Command) (err error) {
	tlog.SetVerbosity(c.String("verbosity"))

	ctx := context.Background()

	if q := c.String("grammar"); q != "" {
		opts.Grammar, err = grammar.Load(ctx, q)
		if err != nil {
			return errors.Wrap(err, "grammar")
		}
	} else {
		opts.Grammar = grammar.Default()
	}

	opts.Parse.Strategy, err = parse.ParseStrategy(c.String("strategy"))
	if err != nil {
		return err
	}

	if q := c.String("include"); q != "" {
		opts.Include = strings.Split(q, ",")
	}

	return nil
}

func rootContext() context.Context {
	return tlog.ContextWithSpan(context.Background(), tlog.Root())
}

func compileAct(c *cli.Command) (err error) {
	ctx := rootContext()

	if len(c.Args) == 0 {
		return repl(ctx)
	}

	for _, a := range c.Args {
		r, err := compiler.CompileFile(ctx, a, opts)
		if err != nil {
			return err
		}

		var b []byte

		b = r.AppendTree(b)
		b = append(b, '\n')
		b = r.AppendSignatures(b)

		_, _ = os.Stdout.Write(b)
	}

	return nil
}

func parseAct(c *cli.Command) (err error) {
	ctx := rootContext()

	for _, a := range c.Args {
		x, err := parse.ParseFile(ctx, a, opts.Grammar, opts.Parse)
		if err != nil {
			return errors.Wrap(err, "parse %v", a)
		}

		b := format.SExpr(nil, x)
		if len(x.Stmts) != 0 {
			b = append(b, '\n')
		}

		_, _ = os.Stdout.Write(b)
	}

	return nil
}

func fmtAct(c *cli.Command) (err error) {
	ctx := rootContext()

	for _, a := range c.Args {
		x, err := parse.ParseFile(ctx, a, opts.Grammar, opts.Parse)
		if err != nil {
			return errors.Wrap(err, "parse %v", a)
		}

		b, err := format.Format(ctx, nil, x)
		if err != nil {
			return errors.Wrap(err, "format %v", a)
		}

		_, _ = os.Stdout.Write(b)
	}

	return nil
}

func tokensAct(c *cli.Command) (err error) {
	ctx := rootContext()

	for _, a := range c.Args {
		text, err := os.ReadFile(a)
		if err != nil {
			return errors.Wrap(err, "read file")
		}

		l := lexer.New(ctx, a, text, opts.Grammar)

		for {
			t := l.Next()
			if t.Kind == token.EOFKind {
				break
			}

			fmt.Printf("%-16v %v\n", t.Pos, t)
		}
	}

	return nil
}

func scopeAct(c *cli.Command) (err error) {
	ctx := rootContext()

	for _, a := range c.Args {
		r, err := compiler.CompileFile(ctx, a, opts)
		if err != nil {
			return err
		}

		_, _ = os.Stdout.Write(r.AppendScope(nil))
	}

	return nil
}

func repl(ctx context.Context) error {
	ln := liner.NewLiner()
	defer ln.Close()

	ln.SetCtrlCAborts(true)

	f := compiler.NewFront(opts)

	for n := 1; ; n++ {
		line, err := ln.Prompt("> ")
		if errors.Is(err, io.EOF) {
			fmt.Println()
			return nil
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			return errors.Wrap(err, "read line")
		}

		line = strings.TrimSpace(line)

		switch line {
		case "":
			continue
		case ":quit", ":q":
			return nil
		}

		ln.AppendHistory(line)

		r, err := compiler.Compile(ctx, f, fmt.Sprintf("<line %d>", n), []byte(line))
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}

		b := r.AppendTree(nil)
		b = r.AppendSignatures(b)

		_, _ = os.Stdout.Write(b)
	}
}
