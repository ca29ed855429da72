package format

import (
	"context"
	"strings"

	"github.com/nikandfor/hacked/hfmt"
	"tlog.app/go/errors"

	"github.com/slowlang/shuffle/compiler/asm"
	"github.com/slowlang/shuffle/compiler/ast"
)

// Format appends x in canonical source form.
// Nested binary operands are parenthesized, so the output
// parses back to the same tree in either associativity mode.
func Format(ctx context.Context, b []byte, x any) ([]byte, error) {
	return format(ctx, b, x, 0)
}

func format(ctx context.Context, b []byte, x any, d int) ([]byte, error) {
	switch x := x.(type) {
	case *ast.File:
		return formatFuncs(ctx, b, x.Funcs, d)
	case []*ast.Func:
		return formatFuncs(ctx, b, x, d)
	case *ast.Func:
		return formatFunc(ctx, b, x, d)
	case ast.Stmt:
		return formatBlock(ctx, b, []ast.Stmt{x}, d)
	default:
		return nil, errors.New("unsupported type: %T", x)
	}
}

func formatFuncs(ctx context.Context, b []byte, fs []*ast.Func, d int) (_ []byte, err error) {
	for i, f := range fs {
		if i != 0 {
			b = append(b, '\n')
		}

		b, err = formatFunc(ctx, b, f, d)
		if err != nil {
			return nil, errors.Wrap(err, "func %v", f.Name)
		}
	}

	return b, nil
}

func formatFunc(ctx context.Context, b []byte, x *ast.Func, d int) ([]byte, error) {
	b = app(b, d, "fn %v(%v) {\n", x.Name, strings.Join(x.Params, ", "))

	b, err := formatBlock(ctx, b, x.Body, d+1)
	if err != nil {
		return nil, errors.Wrap(err, "body")
	}

	b = app(b, d, "}\n")

	return b, nil
}

func formatBlock(ctx context.Context, b []byte, l []ast.Stmt, d int) (_ []byte, err error) {
	for _, s := range l {
		switch s := s.(type) {
		case ast.Declaration:
			b = app(b, d, "var %v %v;\n", s.Variable, s.Reg)
		case ast.Assignment:
			b = app(b, d, "")
			b = formatWorkingSet(b, s.WorkingSet)
			b = app(b, 0, "%v = ", s.Output)

			b, err = formatExpr(ctx, b, s.Computation)
			if err != nil {
				return nil, errors.Wrap(err, "computation")
			}

			b = append(b, ";\n"...)
		case ast.If:
			b = app(b, d, "")
			b = formatWorkingSet(b, s.WorkingSet)
			b = append(b, "if "...)

			b, err = formatExpr(ctx, b, s.Cond)
			if err != nil {
				return nil, errors.Wrap(err, "cond")
			}

			b = append(b, " {\n"...)

			b, err = formatBlock(ctx, b, s.Body, d+1)
			if err != nil {
				return nil, errors.Wrap(err, "if body")
			}

			b = app(b, d, "}\n")
		case ast.Call:
			b = app(b, d, "%v(%v);\n", s.Func, strings.Join(s.Args, ", "))
		default:
			return nil, errors.New("unsupported stmt: %T", s)
		}
	}

	return b, nil
}

func formatWorkingSet(b []byte, ws []asm.Reg) []byte {
	if len(ws) == 0 {
		return b
	}

	b = append(b, '[')

	for i, r := range ws {
		if i != 0 {
			b = append(b, ", "...)
		}

		b = append(b, r.String()...)
	}

	return append(b, "] "...)
}

func formatExpr(ctx context.Context, b []byte, x ast.Expr) (_ []byte, err error) {
	switch x := x.(type) {
	case ast.Variable:
		b = append(b, x.Name...)
	case ast.Constant:
		if x.Value.Sign() < 0 {
			return nil, errors.New("negative constant: %v", x.Value)
		}

		b = x.Value.Append(b, 10)
	case ast.Negative:
		b = append(b, '-')

		b, err = formatOperand(ctx, b, x.X)
		if err != nil {
			return nil, errors.Wrap(err, "negative")
		}
	case ast.Plus:
		b, err = formatBinary(ctx, b, x.Left, " + ", x.Right)
	case ast.Minus:
		b, err = formatBinary(ctx, b, x.Left, " - ", x.Right)
	default:
		return nil, errors.New("unsupported expr: %T", x)
	}

	return b, err
}

func formatBinary(ctx context.Context, b []byte, l ast.Expr, op string, r ast.Expr) (_ []byte, err error) {
	b, err = formatOperand(ctx, b, l)
	if err != nil {
		return nil, errors.Wrap(err, "left")
	}

	b = append(b, op...)

	b, err = formatOperand(ctx, b, r)
	if err != nil {
		return nil, errors.Wrap(err, "right")
	}

	return b, nil
}

func formatOperand(ctx context.Context, b []byte, x ast.Expr) (_ []byte, err error) {
	switch x.(type) {
	case ast.Variable, ast.Constant:
		return formatExpr(ctx, b, x)
	}

	b = append(b, '(')

	b, err = formatExpr(ctx, b, x)
	if err != nil {
		return nil, err
	}

	return append(b, ')'), nil
}

func app(b []byte, d int, f string, args ...any) []byte {
	const tabs = "\t\t\t\t\t\t\t\t\t\t\t\t\t\t\t"

	b = append(b, tabs[:min(d, len(tabs))]...)
	b = hfmt.Appendf(b, f, args...)

	return b
}
