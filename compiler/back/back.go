package back

import (
	"context"

	"tlog.app/go/tlog"

	"github.com/slowlang/shuffle/compiler/asm"
	"github.com/slowlang/shuffle/compiler/ast"
)

type (
	// Compiler lowers functions to assembly.
	// It holds no state, one Compiler may be used from many goroutines.
	Compiler struct{}

	funContext struct {
		*ast.Func

		out   asm.Func
		diags Diagnostics

		scopes   []Scope
		bindings []Binding
		vars     map[string][]int // name -> binding indexes
		cur      int              // current scope

		labels asm.Label
	}
)

func New() *Compiler {
	return &Compiler{}
}

// CompileFunc appends assembly text for fn to b.
// If any problem is found, b is discarded and Diagnostics are returned.
func (c *Compiler) CompileFunc(ctx context.Context, b []byte, fn *ast.Func) (_ []byte, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "back: compile func", "name", fn.Name, "params", fn.Params)
	defer tr.Finish("err", &err)

	f := c.lower(ctx, fn)

	if tr.If("dump_scopes") {
		for id, s := range f.scopes {
			tr.Printw("scope", "id", id, "scope", s, "from", s.from)
		}

		for _, b := range f.bindings {
			tr.Printw("binding", "name", b.Name, "reg", b.Reg, "scope", b.Scope, "pos", b.Pos)
		}
	}

	if len(f.diags) != 0 {
		return nil, f.diags
	}

	if tr.If("dump_code") {
		for i, x := range f.out.Body {
			tr.Printw("code", "i", i, "typ", tlog.NextAsType, x, "val", x)
		}
	}

	return f.out.Append(b), nil
}

func (c *Compiler) lower(ctx context.Context, fn *ast.Func) *funContext {
	f := newFunContext(fn)

	f.params(ctx)
	f.block(ctx, fn.Body)
	f.closeScope(0, fn.End)

	f.emit(asm.Ret{})

	return f
}

func newFunContext(fn *ast.Func) *funContext {
	return &funContext{
		Func: fn,
		out:  asm.Func{Name: fn.Name},
		vars: make(map[string][]int),
		cur:  -1,
	}
}

func (f *funContext) params(ctx context.Context) {
	f.openScope(f.Pos)

	for i, p := range f.Params {
		r, ok := asm.ArgReg(i)
		if !ok {
			break
		}

		f.bind(p, r, f.Pos)
	}

	if len(f.Params) > asm.MaxArgs {
		f.report(f.Pos, TooManyArguments, "function %v has %d parameters, at most %d are supported", f.Name, len(f.Params), asm.MaxArgs)
	}
}

func (f *funContext) block(ctx context.Context, l []ast.Stmt) {
	for _, s := range l {
		f.stmt(ctx, s)
	}
}

func (f *funContext) stmt(ctx context.Context, s ast.Stmt) {
	var err error

	switch s := s.(type) {
	case ast.Declaration:
		f.declare(ctx, s)
	case ast.Assignment:
		err = f.assign(ctx, s)
	case ast.If:
		err = f.ifStmt(ctx, s)
	case ast.Call:
		f.call(ctx, s)
	default:
		panic(s)
	}

	f.add(err)
}

func (f *funContext) add(err error) {
	switch err := err.(type) {
	case nil:
	case Diag:
		f.diags = append(f.diags, err)
	default:
		panic(err)
	}
}

func (f *funContext) declare(ctx context.Context, s ast.Declaration) {
	if b, ok := f.holder(s.Reg); ok && b.Name != s.Variable {
		f.report(s.Pos, RegisterClobber, "declaration of %q clobbers register %v holding %q (declared at %v)", s.Variable, s.Reg, b.Name, b.Pos)
	}

	f.bind(s.Variable, s.Reg, s.Pos)
}

func (f *funContext) assign(ctx context.Context, s ast.Assignment) error {
	dst, ok := f.resolve(s.Output)
	if !ok {
		f.report(s.Pos, UndefinedOutput, "assignment to undeclared variable %q", s.Output)
		f.checkVars(s.Computation)

		return nil
	}

	p := f.newPool(s.WorkingSet, s.Computation, dst)

	if need := scratchNeed(s.Computation); need > p.Len() {
		f.checkVars(s.Computation)

		return insufficient(s.Pos, need, p.Len())
	}

	return f.expr(ctx, dst, s.Computation, p, s.Pos)
}

func (f *funContext) ifStmt(ctx context.Context, s ast.If) error {
	skip := f.label()

	f.add(f.cond(ctx, s))

	f.emit(asm.Jz{Label: skip})

	id := f.openScope(s.Pos)

	f.block(ctx, s.Body)

	f.closeScope(id, s.End)

	f.emit(asm.Mark{Label: skip})

	return nil
}

// cond sets flags for the If condition. A bare variable is tested in place,
// anything else is computed into the first free working set register.
func (f *funContext) cond(ctx context.Context, s ast.If) error {
	if v, ok := s.Cond.(ast.Variable); ok {
		r, ok := f.resolve(v.Name)
		if !ok {
			f.report(v.Pos, UndefinedVariable, "undefined variable %q", v.Name)
			return nil
		}

		f.emit(asm.Test{In: r})

		return nil
	}

	p := f.newPool(s.WorkingSet, s.Cond)

	if need := 1 + scratchNeed(s.Cond); need > p.Len() {
		f.checkVars(s.Cond)

		return insufficient(s.Pos, need, p.Len())
	}

	dst, _ := p.get()

	err := f.expr(ctx, dst, s.Cond, p, s.Pos)
	if err != nil {
		return err
	}

	f.emit(asm.Test{In: dst})

	return nil
}

func (f *funContext) call(ctx context.Context, s ast.Call) {
	var moves []move

	ok := true

	for i, a := range s.Args {
		r, found := f.resolve(a)
		if !found {
			f.report(s.Pos, UndefinedVariable, "undefined variable %q passed to %v", a, s.Func)
			ok = false

			continue
		}

		if dst, isReg := asm.ArgReg(i); isReg {
			moves = append(moves, move{Dst: dst, Src: r})
		}
	}

	if len(s.Args) > asm.MaxArgs {
		f.report(s.Pos, TooManyArguments, "call to %v passes %d arguments, at most %d are supported", s.Func, len(s.Args), asm.MaxArgs)
		ok = false
	}

	if !ok {
		return
	}

	f.parallelMove(ctx, moves)

	f.emit(asm.Call{Func: s.Func})
}

func (f *funContext) emit(x asm.Instr) {
	f.out.Body = append(f.out.Body, x)
}

func (f *funContext) label() asm.Label {
	l := f.labels
	f.labels++

	return l
}
