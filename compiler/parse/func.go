package parse

import (
	"context"

	"tlog.app/go/errors"

	"github.com/slowlang/shuffle/compiler/ast"
)

type (
	Function struct{}

	// Program is a sequence of functions.
	// It stops at the first position where no function starts.
	Program struct{}
)

func (p Function) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	x, i, err = AllOf{
		Spaced(Keyword("fn")),
		Spaced(Ident{}),
		Spaced(Const("(")),
		VarList{},
		Spaced(Const(")")),
		Block{},
	}.Parse(ctx, b, st)
	if err != nil {
		return nil, i, err
	}

	xt := x.([]ast.Node)
	body := xt[5].(block)

	return &ast.Func{
		Base:   ast.Base{Pos: posAt(ctx, Skip(b, st))},
		Name:   xt[1].(string),
		Params: xt[3].([]string),
		Body:   body.stmts,
		End:    posAt(ctx, body.end),
	}, i, nil
}

func (p Function) String() string { return `"fn"` }

func (p Program) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	fs := []*ast.Func{}

	i = st

	for {
		fst := i

		x, i, err = Function{}.Parse(ctx, b, fst)
		if err != nil && i == fst {
			return fs, fst, nil
		}
		if err != nil {
			return nil, i, errors.Wrap(err, "function")
		}

		fs = append(fs, x.(*ast.Func))
	}
}
