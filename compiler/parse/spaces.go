package parse

import (
	"context"

	"github.com/slowlang/shuffle/compiler/ast"
)

type (
	Spaces uint64

	Spacer struct {
		Of Parser
	}
)

var SpaceAll = NewSpaces(' ', '\t', '\r', '\n')

func NewSpaces(skip ...byte) (ss Spaces) {
	for _, q := range skip {
		if q >= 64 {
			panic("too high char code")
		}

		ss |= 1 << q
	}

	return
}

func (s Spaces) Skip(b []byte, st int) (i int) {
	i = st

	for i < len(b) && b[i] < 64 && s&(1<<b[i]) != 0 {
		i++
	}

	return
}

// Skip skips whitespace and // comments.
func Skip(b []byte, st int) (i int) {
	i = SpaceAll.Skip(b, st)

	for i+1 < len(b) && b[i] == '/' && b[i+1] == '/' {
		for i < len(b) && b[i] != '\n' {
			i++
		}

		i = SpaceAll.Skip(b, i)
	}

	return i
}

func Spaced(p Parser) Spacer {
	return Spacer{Of: p}
}

// Parse skips leading whitespace. Skipped whitespace alone does not count as consumed input.
func (p Spacer) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	vst := Skip(b, st)

	x, i, err = p.Of.Parse(ctx, b, vst)
	if err != nil && i == vst {
		i = st
	}

	return
}

func (p Spacer) String() string {
	return describe(p.Of)
}
