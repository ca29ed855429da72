package parse

import (
	"context"
	"fmt"
	"os"
	"sort"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/shuffle/compiler/ast"
)

type (
	State struct {
		b []byte // all files concatenated

		// LeftAssoc folds binary chains left to right
		// instead of nesting them to the right.
		LeftAssoc bool

		files []file
		cur   int
	}

	file struct {
		base  int
		size  int
		name  string
		lines []int // line start offsets relative to base
	}

	Parser interface {
		Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error)
	}

	// Error is a parse failure at a known source position.
	Error struct {
		Pos ast.Pos
		Err error
	}

	PartialReadError struct {
		End int
	}

	stateCtxKey struct{}
)

func ParseFile(ctx context.Context, name string) ([]*ast.Func, error) {
	text, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	return Parse(ctx, name, text)
}

// Parse parses a single file.
func Parse(ctx context.Context, name string, text []byte) ([]*ast.Func, error) {
	s := New()

	s.AddFile(name, text)

	fs, err := s.Parse(ctx)
	if err != nil {
		return nil, err
	}

	return fs[0].Funcs, nil
}

func New() *State {
	return &State{}
}

func (s *State) AddFile(name string, text []byte) {
	f := file{
		name:  name,
		base:  len(s.b),
		size:  len(text),
		lines: []int{0},
	}

	for i, c := range text {
		if c == '\n' {
			f.lines = append(f.lines, i+1)
		}
	}

	s.b = append(s.b, text...)

	s.files = append(s.files, f)
}

// Parse parses all added files. Parsing is all or nothing:
// the first failure aborts and no functions are returned.
func (s *State) Parse(ctx context.Context) (res []*ast.File, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "parse", "files", len(s.files))
	defer tr.Finish("err", &err)

	ctx = s.context(ctx)

	for fi, f := range s.files {
		s.cur = fi
		b := s.b[:f.base+f.size]

		x, i, err := Program{}.Parse(ctx, b, f.base)
		if err != nil {
			return nil, s.errorAt(Skip(b, i), err)
		}

		i = Skip(b, i)

		if i != len(b) {
			return nil, s.errorAt(i, PartialReadError{End: i})
		}

		af := &ast.File{
			Name:  f.name,
			Funcs: x.([]*ast.Func),
		}

		if tr.If("dump_ast") {
			for _, fn := range af.Funcs {
				tr.Printw("func", "name", fn.Name, "params", fn.Params, "stmts", len(fn.Body), "pos", fn.Pos)
			}
		}

		res = append(res, af)
	}

	return res, nil
}

// Pos converts a global offset into a file position.
// Offsets inside the file being parsed resolve to it.
func (s *State) Pos(off int) ast.Pos {
	if len(s.files) == 0 {
		return ast.Pos{Line: 1, Col: off + 1}
	}

	f := s.files[s.cur]

	if off < f.base || off > f.base+f.size {
		fi := sort.Search(len(s.files), func(i int) bool {
			return s.files[i].base > off
		}) - 1

		f = s.files[max(fi, 0)]
	}

	rel := off - f.base

	l := sort.Search(len(f.lines), func(i int) bool {
		return f.lines[i] > rel
	}) - 1

	return ast.Pos{
		File: f.name,
		Line: l + 1,
		Col:  rel - f.lines[l] + 1,
	}
}

func (s *State) errorAt(off int, err error) Error {
	return Error{
		Pos: s.Pos(off),
		Err: err,
	}
}

func (s *State) context(ctx context.Context) context.Context {
	return context.WithValue(ctx, stateCtxKey{}, s)
}

func StateFromContext(ctx context.Context) *State {
	s, _ := ctx.Value(stateCtxKey{}).(*State)
	if s == nil {
		return New()
	}

	return s
}

func posAt(ctx context.Context, off int) ast.Pos {
	return StateFromContext(ctx).Pos(off)
}

func (e Error) Error() string {
	return fmt.Sprintf("%v %v", e.Pos, e.Err)
}

func (e Error) Unwrap() error { return e.Err }

func (e PartialReadError) Error() string {
	return `unexpected input, expected "fn"`
}
