package parse

import (
	"context"

	"tlog.app/go/errors"

	"github.com/slowlang/shuffle/compiler/asm"
	"github.com/slowlang/shuffle/compiler/ast"
)

type (
	// WorkingSet is an optional bracketed register list.
	// Missing working set evaluates to an empty list.
	WorkingSet struct{}

	// VarList is a possibly empty comma separated list of variable names.
	VarList struct{}

	Assignment struct{}

	If struct{}

	Call struct{}

	VarDecl struct{}

	Statement struct{}

	// Block is a braced statement list.
	Block struct{}

	block struct {
		stmts []ast.Stmt
		end   int
	}
)

func (p WorkingSet) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	var ws []asm.Reg

	_, i, err = Spaced(Const("[")).Parse(ctx, b, st)
	if err != nil {
		return ws, st, nil
	}

	_, j, err := Spaced(Const("]")).Parse(ctx, b, i)
	if err == nil {
		return ws, j, nil
	}

	for {
		var r ast.Node

		r, i, err = Spaced(Register{}).Parse(ctx, b, i)
		if err != nil {
			return nil, i, errors.Wrap(err, "working set")
		}

		reg := r.(asm.Reg)

		for _, q := range ws {
			if q == reg {
				return nil, i, errors.New("working set: duplicate register: %v", reg)
			}
		}

		ws = append(ws, reg)

		x, i, err = Spaced(AnyOf{Const(","), Const("]")}).Parse(ctx, b, i)
		if err != nil {
			return nil, i, errors.Wrap(err, "working set")
		}

		if string(x.(Const)) == "]" {
			return ws, i, nil
		}
	}
}

func (p VarList) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	var l []string

	x, i, err = Spaced(Ident{}).Parse(ctx, b, st)
	if err != nil {
		return l, st, nil
	}

	l = append(l, x.(string))

	for {
		_, j, err := Spaced(Const(",")).Parse(ctx, b, i)
		if err != nil {
			return l, i, nil
		}

		x, i, err = Spaced(Ident{}).Parse(ctx, b, j)
		if err != nil {
			return nil, i, errors.New("expected variable after \",\"")
		}

		l = append(l, x.(string))
	}
}

func (p Assignment) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	x, i, err = AllOf{
		WorkingSet{},
		Spaced(Ident{}),
		Spaced(Const("=")),
		Expr{},
		Spaced(Const(";")),
	}.Parse(ctx, b, st)
	if err != nil {
		return nil, i, errors.Wrap(err, "assignment")
	}

	xt := x.([]ast.Node)

	return ast.Assignment{
		Base:        ast.Base{Pos: posAt(ctx, Skip(b, st))},
		WorkingSet:  xt[0].([]asm.Reg),
		Output:      xt[1].(string),
		Computation: xt[3].(ast.Expr),
	}, i, nil
}

func (p Assignment) String() string { return "assignment" }

func (p If) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	x, i, err = AllOf{
		WorkingSet{},
		Spaced(Keyword("if")),
		Expr{},
		Block{},
	}.Parse(ctx, b, st)
	if err != nil {
		return nil, i, errors.Wrap(err, "if")
	}

	xt := x.([]ast.Node)
	body := xt[3].(block)

	return ast.If{
		Base:       ast.Base{Pos: posAt(ctx, Skip(b, st))},
		WorkingSet: xt[0].([]asm.Reg),
		Cond:       xt[2].(ast.Expr),
		Body:       body.stmts,
		End:        posAt(ctx, body.end),
	}, i, nil
}

func (p If) String() string { return "if statement" }

func (p Call) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	x, i, err = AllOf{
		Spaced(Ident{}),
		Spaced(Const("(")),
		VarList{},
		Spaced(Const(")")),
		Spaced(Const(";")),
	}.Parse(ctx, b, st)
	if err != nil {
		return nil, i, errors.Wrap(err, "call")
	}

	xt := x.([]ast.Node)

	return ast.Call{
		Base: ast.Base{Pos: posAt(ctx, Skip(b, st))},
		Func: xt[0].(string),
		Args: xt[2].([]string),
	}, i, nil
}

func (p Call) String() string { return "function call" }

func (p VarDecl) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	x, i, err = AllOf{
		Spaced(Keyword("var")),
		Spaced(Ident{}),
		Spaced(Register{}),
		Spaced(Const(";")),
	}.Parse(ctx, b, st)
	if err != nil {
		return nil, i, errors.Wrap(err, "declaration")
	}

	xt := x.([]ast.Node)

	return ast.Declaration{
		Base:     ast.Base{Pos: posAt(ctx, Skip(b, st))},
		Variable: xt[1].(string),
		Reg:      xt[2].(asm.Reg),
	}, i, nil
}

func (p VarDecl) String() string { return "declaration" }

// Parse tries assignment, if statement, function call and declaration in that order.
func (p Statement) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	return AnyOf{Assignment{}, If{}, Call{}, VarDecl{}}.Parse(ctx, b, st)
}

func (p Statement) String() string { return "statement" }

func (p Block) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	_, i, err = Spaced(Const("{")).Parse(ctx, b, st)
	if err != nil {
		return nil, i, err
	}

	var res block

	for {
		j := Skip(b, i)

		if j == len(b) {
			return nil, j, errors.New("unterminated block: expected \"}\"")
		}

		if b[j] == '}' {
			res.end = j

			return res, j + 1, nil
		}

		x, i, err = Statement{}.Parse(ctx, b, j)
		if err != nil {
			return nil, i, err
		}

		res.stmts = append(res.stmts, x.(ast.Stmt))
	}
}

func (p Block) String() string { return `"{"` }
