package ast

import (
	"fmt"
	"math/big"

	"github.com/slowlang/shuffle/compiler/asm"
)

type (
	Node interface{}

	Pos struct {
		File string
		Line int
		Col  int
	}

	Base struct {
		Pos Pos `tlog:",embed"`
	}

	Expr interface {
		Position() Pos
	}

	Stmt interface {
		Position() Pos
	}

	File struct {
		Name  string
		Funcs []*Func
	}

	Func struct {
		Base

		Name   string
		Params []string
		Body   []Stmt

		End Pos // closing brace
	}

	Constant struct {
		Base

		Value *big.Int
	}

	Variable struct {
		Base

		Name string
	}

	Negative struct {
		Base

		X Expr
	}

	Plus struct {
		Base

		Left  Expr
		Right Expr
	}

	Minus struct {
		Base

		Left  Expr
		Right Expr
	}

	Declaration struct {
		Base

		Variable string
		Reg      asm.Reg
	}

	Assignment struct {
		Base

		WorkingSet  []asm.Reg
		Computation Expr
		Output      string
	}

	If struct {
		Base

		WorkingSet []asm.Reg
		Cond       Expr
		Body       []Stmt

		End Pos // closing brace
	}

	Call struct {
		Base

		Func string
		Args []string
	}
)

func (b Base) Position() Pos { return b.Pos }

func (p Pos) String() string {
	return fmt.Sprintf("%s:%d", p.File, p.Line)
}

// Walk calls f for x and all its subexpressions, parents first.
func Walk(x Expr, f func(Expr)) {
	f(x)

	switch x := x.(type) {
	case Negative:
		Walk(x.X, f)
	case Plus:
		Walk(x.Left, f)
		Walk(x.Right, f)
	case Minus:
		Walk(x.Left, f)
		Walk(x.Right, f)
	}
}
