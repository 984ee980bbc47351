package front

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/uralgo2/nextc/compiler/analyze"
	"github.com/uralgo2/nextc/compiler/grammar"
	"github.com/uralgo2/nextc/compiler/parse"
	"github.com/uralgo2/nextc/compiler/scope"
	"github.com/uralgo2/nextc/compiler/token"
)

type (
	Phase int

	Module struct {
		Name    string
		Path    string
		Context scope.ContextID
		Phase   Phase
	}

	// Front is one compilation session. It owns the scope arena and
	// the import cache, so two sessions share nothing.
	Front struct {
		Arena   *scope.Arena
		Grammar *grammar.Grammar
		Parse   parse.Options

		Roots []string
		Ext   string

		MaxImportDepth int
		MaxScopeDepth  int

		cache  map[string]*Module
		parsed map[string]int
		depth  int
	}
)

const (
	Placeholder Phase = iota
	Resolved
)

const (
	DefaultExt            = ".next"
	DefaultMaxImportDepth = 64
)

var DefaultRoots = []string{"/usr/next/libs", "."}

var _ analyze.Importer = &Front{}

func New(g *grammar.Grammar) *Front {
	if g == nil {
		g = grammar.Default()
	}

	return &Front{
		Arena:   scope.NewArena(),
		Grammar: g,

		Roots: append([]string{}, DefaultRoots...),
		Ext:   DefaultExt,

		MaxImportDepth: DefaultMaxImportDepth,
		MaxScopeDepth:  analyze.DefaultMaxDepth,

		cache:  map[string]*Module{},
		parsed: map[string]int{},
	}
}

// Include puts dirs before the current include roots.
func (f *Front) Include(dirs ...string) {
	f.Roots = append(append([]string{}, dirs...), f.Roots...)
}

func (f *Front) Module(path string) (*Module, bool) {
	m, ok := f.cache[path]
	return m, ok
}

// ParseCount is how many times the file at path was parsed.
func (f *Front) ParseCount(path string) int { return f.parsed[path] }

// CompileFile compiles the entry file of a program. The file is
// cached like any module, so importing it back hits the cache.
func (f *Front) CompileFile(ctx context.Context, name string) (u *analyze.Unit, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "compile_file", "name", name)
	defer tr.Finish("err", &err)

	path, err := canonical(name)
	if err != nil {
		return nil, &ModuleReadError{Path: name, Err: err}
	}

	m := &Module{
		Name:    strings.TrimSuffix(filepath.Base(path), f.Ext),
		Path:    path,
		Context: f.Arena.NewContext(scope.NoContext),
		Phase:   Placeholder,
	}

	f.cache[path] = m

	u, err = f.load(ctx, m)
	if err != nil {
		delete(f.cache, path)
		return nil, err
	}

	m.Phase = Resolved

	return u, nil
}

// CompileText compiles text which is not a file, a REPL line for example.
func (f *Front) CompileText(ctx context.Context, name string, text []byte) (u *analyze.Unit, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "compile_text", "name", name, "size", len(text))
	defer tr.Finish("err", &err)

	return f.compile(ctx, name, text, scope.NoContext)
}

// Import resolves a dotted module name.
// A module already in the cache is returned as is, even if it is still
// being resolved further up the import chain.
func (f *Front) Import(ctx context.Context, name string) (imp scope.Import, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "import", "name", name)
	defer tr.Finish("err", &err)

	path, err := f.find(name)
	if err != nil {
		return imp, err
	}

	if m, ok := f.cache[path]; ok {
		tr.Printw("cache hit", "path", path, "phase", m.Phase)

		return scope.Import{Name: name, Path: path, Context: m.Context}, nil
	}

	if f.depth >= f.MaxImportDepth {
		return imp, &parse.RecursionLimitError{Limit: f.MaxImportDepth, Pos: token.Pos{File: path}}
	}

	f.depth++
	defer func() { f.depth-- }()

	m := &Module{
		Name:    name,
		Path:    path,
		Context: f.Arena.NewContext(scope.NoContext),
		Phase:   Placeholder,
	}

	f.cache[path] = m

	_, err = f.load(ctx, m)
	if err != nil {
		delete(f.cache, path)
		return imp, errors.Wrap(err, "module %v", name)
	}

	m.Phase = Resolved

	return scope.Import{Name: name, Path: path, Context: m.Context}, nil
}

func (f *Front) load(ctx context.Context, m *Module) (*analyze.Unit, error) {
	text, err := os.ReadFile(m.Path)
	if err != nil {
		return nil, &ModuleReadError{Path: m.Path, Err: err}
	}

	return f.compile(ctx, m.Path, text, m.Context)
}

func (f *Front) compile(ctx context.Context, file string, text []byte, root scope.ContextID) (*analyze.Unit, error) {
	f.parsed[file]++

	prog, err := parse.Parse(ctx, file, text, f.Grammar, f.Parse)
	if err != nil {
		return nil, errors.Wrap(err, "parse")
	}

	c := analyze.NewCollector(f.Arena, f)
	c.MaxDepth = f.MaxScopeDepth

	u := analyze.NewUnit(prog)
	u.Root = root

	err = analyze.Pipeline{c}.Run(ctx, u)
	if err != nil {
		return nil, errors.Wrap(err, "analyze")
	}

	return u, nil
}

// find maps a dotted name to a file under the first root that has it.
func (f *Front) find(name string) (string, error) {
	rel := filepath.FromSlash(strings.ReplaceAll(name, ".", "/")) + f.Ext

	var tried []string

	for _, root := range f.Roots {
		p := filepath.Join(root, rel)

		tried = append(tried, p)

		inf, err := os.Stat(p)
		if err != nil || inf.IsDir() {
			continue
		}

		path, err := canonical(p)
		if err != nil {
			return "", &ModuleReadError{Path: p, Err: err}
		}

		return path, nil
	}

	return "", &ModuleNotFoundError{Name: name, Tried: tried}
}

func canonical(name string) (string, error) {
	abs, err := filepath.Abs(name)
	if err != nil {
		return "", err
	}

	return filepath.EvalSymlinks(abs)
}

func (p Phase) String() string {
	switch p {
	case Placeholder:
		return "placeholder"
	case Resolved:
		return "resolved"
	}

	return "unknown"
}
