package back

import (
	"fmt"
	"strings"

	"github.com/slowlang/shuffle/compiler/ast"
)

type (
	Kind int

	// Diag is a code generation failure at a source position.
	Diag struct {
		Pos  ast.Pos
		Kind Kind
		Msg  string
	}

	// Diagnostics is a report of all failures found in a compilation,
	// in the order they were found.
	Diagnostics []Diag
)

const (
	_ Kind = iota
	UndefinedVariable
	UndefinedOutput
	RegisterClobber
	InsufficientWorkingSet
	TooManyArguments
	ConstantOverflow
	FunctionRedefined
)

var kindNames = []string{
	UndefinedVariable:      "UndefinedVariable",
	UndefinedOutput:        "UndefinedOutput",
	RegisterClobber:        "RegisterClobber",
	InsufficientWorkingSet: "InsufficientWorkingSet",
	TooManyArguments:       "TooManyArguments",
	ConstantOverflow:       "ConstantOverflow",
	FunctionRedefined:      "FunctionRedefined",
}

func (k Kind) String() string {
	if k <= 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}

	return kindNames[k]
}

func (d Diag) Error() string {
	return fmt.Sprintf("%v %s", d.Pos, d.Msg)
}

func (ds Diagnostics) Error() string {
	var b strings.Builder

	for i, d := range ds {
		if i != 0 {
			b.WriteByte('\n')
		}

		b.WriteString(d.Error())
	}

	return b.String()
}

func (ds Diagnostics) Count(k Kind) (n int) {
	for _, d := range ds {
		if d.Kind == k {
			n++
		}
	}

	return n
}
