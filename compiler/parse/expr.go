package parse

import (
	"context"

	"tlog.app/go/errors"

	"github.com/slowlang/shuffle/compiler/ast"
)

type (
	// Expr parses an expression.
	// By default "a - b - c" is parsed as a - (b - c): the operator
	// takes everything after it as its right operand.
	// State.LeftAssoc switches to LeftToRight.
	Expr struct{}

	Primary struct{}

	Paren struct{}

	Negative struct {
		Of Parser
	}

	// LeftToRight folds "Arg (Op Arg)*" to the left.
	LeftToRight struct {
		Op  Parser
		Arg Parser
	}

	BinOp struct{}

	// BinOper combines two operands.
	BinOper interface {
		BinOp(l, r ast.Expr) ast.Expr
	}

	plusOp  struct{}
	minusOp struct{}

	// operand is Primary for the left to right mode,
	// where negation applies to a single operand.
	operand struct{}
)

func (p Expr) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	if StateFromContext(ctx).LeftAssoc {
		r := LeftToRight{
			Op:  Spaced(BinOp{}),
			Arg: Spaced(operand{}),
		}

		return r.Parse(ctx, b, st)
	}

	x, i, err = Spaced(Primary{}).Parse(ctx, b, st)
	if err != nil {
		return
	}

	opst := i

	op, i, err := Spaced(BinOp{}).Parse(ctx, b, i)
	if err != nil {
		return x, opst, nil
	}

	r, i, err := Expr{}.Parse(ctx, b, i)
	if err != nil {
		return nil, i, errors.Wrap(err, "right operand")
	}

	return op.(BinOper).BinOp(x.(ast.Expr), r.(ast.Expr)), i, nil
}

func (p Expr) String() string { return "expression" }

// Parse tries, in order: parenthesized expression, variable, hex number, decimal number, negation.
func (p Primary) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	return AnyOf{Paren{}, Variable{}, Hex{}, Dec{}, Negative{Of: Expr{}}}.Parse(ctx, b, st)
}

func (p Primary) String() string { return "expression" }

func (p operand) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	return AnyOf{Paren{}, Variable{}, Hex{}, Dec{}, Negative{Of: operand{}}}.Parse(ctx, b, st)
}

func (p operand) String() string { return "expression" }

func (p Paren) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	x, i, err = AllOf{
		Const("("),
		Expr{},
		Spaced(Const(")")),
	}.Parse(ctx, b, st)
	if err != nil {
		return nil, i, err
	}

	return x.([]ast.Node)[1], i, nil
}

func (p Paren) String() string { return `"("` }

func (p Negative) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	_, i, err = Const("-").Parse(ctx, b, st)
	if err != nil {
		return nil, st, err
	}

	x, i, err = Spaced(p.Of).Parse(ctx, b, i)
	if err != nil {
		return nil, i, errors.Wrap(err, "negation")
	}

	return ast.Negative{
		Base: ast.Base{Pos: posAt(ctx, st)},
		X:    x.(ast.Expr),
	}, i, nil
}

func (p Negative) String() string { return `"-"` }

func (p LeftToRight) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	x, i, err = p.Arg.Parse(ctx, b, st)
	if err != nil {
		return nil, i, err
	}

	for i < len(b) {
		var op ast.Node
		opst := i
		op, i, err = p.Op.Parse(ctx, b, i)
		if err != nil {
			i = opst
			err = nil
			break
		}

		c, ok := op.(BinOper)
		if !ok {
			return nil, i, errors.New("BinOper expected, got %T", op)
		}

		var r ast.Node
		r, i, err = p.Arg.Parse(ctx, b, i)
		if err != nil {
			return nil, i, errors.Wrap(err, "right operand")
		}

		x = c.BinOp(x.(ast.Expr), r.(ast.Expr))
	}

	return
}

func (p LeftToRight) String() string { return describe(p.Arg) }

func (p BinOp) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	if st < len(b) {
		switch b[st] {
		case '+':
			return plusOp{}, st + 1, nil
		case '-':
			return minusOp{}, st + 1, nil
		}
	}

	return nil, st, errors.New(`expected "+" or "-"`)
}

func (plusOp) BinOp(l, r ast.Expr) ast.Expr {
	return ast.Plus{Base: ast.Base{Pos: l.Position()}, Left: l, Right: r}
}

func (minusOp) BinOp(l, r ast.Expr) ast.Expr {
	return ast.Minus{Base: ast.Base{Pos: l.Position()}, Left: l, Right: r}
}
