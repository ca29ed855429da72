package back

import (
	"context"
	"fmt"

	"nikand.dev/go/heap"

	"github.com/slowlang/shuffle/compiler/asm"
	"github.com/slowlang/shuffle/compiler/ast"
	"github.com/slowlang/shuffle/compiler/set"
)

type (
	// pool hands out free working set registers, earliest declared first.
	pool struct {
		heap.Heap[int] // indexes into ws

		ws []asm.Reg
	}
)

// expr lowers x leaving its value in dst.
// Undefined variables are reported and lowering goes on,
// a failure to get a scratch register stops it.
func (f *funContext) expr(ctx context.Context, dst asm.Reg, x ast.Expr, p *pool, at ast.Pos) error {
	switch x := x.(type) {
	case ast.Constant:
		if !asm.FitsReg(x.Value) {
			f.report(x.Pos, ConstantOverflow, "constant %v does not fit in a 64-bit register", x.Value)
			return nil
		}

		f.emit(asm.Imm{Out: dst, Value: x.Value})
	case ast.Variable:
		r, ok := f.resolve(x.Name)
		if !ok {
			f.report(x.Pos, UndefinedVariable, "undefined variable %q", x.Name)
			return nil
		}

		if r != dst {
			f.emit(asm.Mov{Out: dst, In: r})
		}
	case ast.Negative:
		err := f.expr(ctx, dst, x.X, p, at)
		if err != nil {
			return err
		}

		f.emit(asm.Neg{Out: dst})
	case ast.Plus:
		return f.binary(ctx, dst, x.Left, x.Right, false, p, at)
	case ast.Minus:
		return f.binary(ctx, dst, x.Left, x.Right, true, p, at)
	default:
		panic(x)
	}

	return nil
}

func (f *funContext) binary(ctx context.Context, dst asm.Reg, l, r ast.Expr, sub bool, p *pool, at ast.Pos) (err error) {
	s, ok := p.get()
	if !ok {
		return insufficient(at, scratchNeed(l)+1, len(p.ws))
	}

	defer p.put(s)

	// dst is overwritten by l, so r must read it first
	if f.reads(r, dst) {
		err = f.expr(ctx, s, r, p, at)
		if err == nil {
			err = f.expr(ctx, dst, l, p, at)
		}
	} else {
		err = f.expr(ctx, dst, l, p, at)
		if err == nil {
			err = f.expr(ctx, s, r, p, at)
		}
	}

	if err != nil {
		return err
	}

	if sub {
		f.emit(asm.Sub{Out: dst, In: s})
	} else {
		f.emit(asm.Add{Out: dst, In: s})
	}

	return nil
}

// newPool makes a scratch pool from the working set.
// Excluded are busy registers and registers of variables read by x.
func (f *funContext) newPool(ws []asm.Reg, x ast.Expr, busy ...asm.Reg) *pool {
	skip := set.Of(busy...)

	ast.Walk(x, func(x ast.Expr) {
		v, ok := x.(ast.Variable)
		if !ok {
			return
		}

		if r, ok := f.resolve(v.Name); ok {
			skip.Set(r)
		}
	})

	p := &pool{
		Heap: heap.Heap[int]{Less: poolLess},
		ws:   ws,
	}

	for i, r := range ws {
		if skip.IsSet(r) {
			continue
		}

		skip.Set(r)
		p.Push(i)
	}

	return p
}

func (p *pool) get() (asm.Reg, bool) {
	if p.Len() == 0 {
		return -1, false
	}

	return p.ws[p.Pop()], true
}

func (p *pool) put(r asm.Reg) {
	for i, q := range p.ws {
		if q == r {
			p.Push(i)
			return
		}
	}
}

func poolLess(d []int, i, j int) bool {
	return d[i] < d[j]
}

// reads reports whether evaluating x reads reg.
func (f *funContext) reads(x ast.Expr, reg asm.Reg) (r bool) {
	ast.Walk(x, func(x ast.Expr) {
		v, ok := x.(ast.Variable)
		if !ok {
			return
		}

		if q, ok := f.resolve(v.Name); ok && q == reg {
			r = true
		}
	})

	return r
}

// checkVars reports undefined variables in x without lowering it.
func (f *funContext) checkVars(x ast.Expr) {
	ast.Walk(x, func(x ast.Expr) {
		v, ok := x.(ast.Variable)
		if !ok {
			return
		}

		if _, ok := f.resolve(v.Name); !ok {
			f.report(v.Pos, UndefinedVariable, "undefined variable %q", v.Name)
		}
	})
}

// scratchNeed is the number of scratch registers live at once while lowering x.
func scratchNeed(x ast.Expr) int {
	switch x := x.(type) {
	case ast.Negative:
		return scratchNeed(x.X)
	case ast.Plus:
		return 1 + max(scratchNeed(x.Left), scratchNeed(x.Right))
	case ast.Minus:
		return 1 + max(scratchNeed(x.Left), scratchNeed(x.Right))
	}

	return 0
}

func insufficient(pos ast.Pos, need, have int) Diag {
	return Diag{
		Pos:  pos,
		Kind: InsufficientWorkingSet,
		Msg:  fmt.Sprintf("insufficient working set: need %d scratch registers, have %d", need, have),
	}
}

func (f *funContext) report(pos ast.Pos, k Kind, format string, args ...any) {
	f.diags = append(f.diags, Diag{
		Pos:  pos,
		Kind: k,
		Msg:  fmt.Sprintf(format, args...),
	})
}
