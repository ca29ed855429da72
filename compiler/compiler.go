package compiler

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/shuffle/compiler/ast"
	"github.com/slowlang/shuffle/compiler/back"
	"github.com/slowlang/shuffle/compiler/parse"
)

type (
	Options struct {
		// LeftAssoc folds a - b - c as (a - b) - c.
		LeftAssoc bool

		// Jobs limits the number of functions compiled concurrently.
		// Zero means no limit.
		Jobs int
	}
)

func CompileFile(ctx context.Context, name string, opts Options) (obj []byte, err error) {
	text, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	tlog.SpanFromContext(ctx).Printw("read file", "size", len(text), "name", name)

	return Compile(ctx, name, text, opts)
}

// Compile translates a source file into assembly text.
// Syntax errors are returned as parse.Error,
// everything else found is reported at once as back.Diagnostics.
func Compile(ctx context.Context, name string, text []byte, opts Options) (obj []byte, err error) {
	st := parse.New()
	st.LeftAssoc = opts.LeftAssoc

	st.AddFile(name, text)

	fs, err := st.Parse(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "parse text")
	}

	return CompileFuncs(ctx, fs[0].Funcs, opts)
}

// CompileFuncs lowers fs concurrently.
// Output keeps source order regardless of which function finishes first.
func CompileFuncs(ctx context.Context, fs []*ast.Func, opts Options) (obj []byte, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "compile funcs", "funcs", len(fs), "jobs", opts.Jobs)
	defer tr.Finish("err", &err)

	diags := redefined(fs)

	type result struct {
		obj   []byte
		diags back.Diagnostics
	}

	res := make([]result, len(fs))
	c := back.New()

	var g errgroup.Group

	if opts.Jobs > 0 {
		g.SetLimit(opts.Jobs)
	}

	for i, fn := range fs {
		g.Go(func() error {
			obj, err := c.CompileFunc(ctx, nil, fn)

			var ds back.Diagnostics

			switch {
			case err == nil:
				res[i].obj = obj
			case errors.As(err, &ds):
				res[i].diags = ds
			default:
				return errors.Wrap(err, "func %v", fn.Name)
			}

			return nil
		})
	}

	err = g.Wait()
	if err != nil {
		return nil, err
	}

	for _, r := range res {
		diags = append(diags, r.diags...)
	}

	if len(diags) != 0 {
		return nil, diags
	}

	obj = append(obj, "\t.text\n"...)

	for _, r := range res {
		obj = append(obj, r.obj...)
	}

	return obj, nil
}

// redefined reports every function defined more than once after its first definition.
func redefined(fs []*ast.Func) (ds back.Diagnostics) {
	first := map[string]*ast.Func{}

	for _, fn := range fs {
		prev, ok := first[fn.Name]
		if !ok {
			first[fn.Name] = fn
			continue
		}

		ds = append(ds, back.Diag{
			Pos:  fn.Pos,
			Kind: back.FunctionRedefined,
			Msg:  fmt.Sprintf("function %v redefined, previous definition at %v", fn.Name, prev.Pos),
		})
	}

	return ds
}
