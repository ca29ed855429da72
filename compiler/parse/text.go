package parse

import (
	"bytes"
	"context"
	"fmt"

	"tlog.app/go/errors"

	"github.com/slowlang/shuffle/compiler/asm"
	"github.com/slowlang/shuffle/compiler/ast"
)

type (
	Const []byte

	// Keyword is a Const that must not be followed by an identifier character.
	Keyword []byte

	// Ident is a letter followed by letters and digits.
	Ident struct{}

	Register struct{}

	// Variable is an Ident that evaluates to ast.Variable.
	Variable struct{}
)

func (p Const) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	if bytes.HasPrefix(b[st:], p) {
		return Const(b[st : st+len(p)]), st + len(p), nil
	}

	return nil, st, errors.New("expected %v", p)
}

func (p Const) String() string { return fmt.Sprintf("%q", []byte(p)) }

func (p Keyword) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	i = st + len(p)

	if !bytes.HasPrefix(b[st:], p) || i < len(b) && isAlnum(b[i]) {
		return nil, st, errors.New("expected %v", p)
	}

	return Keyword(b[st:i]), i, nil
}

func (p Keyword) String() string { return fmt.Sprintf("%q", []byte(p)) }

func (p Ident) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	if st == len(b) || !isAlpha(b[st]) {
		return nil, st, errors.New("expected identifier")
	}

	i = st + 1

	for i < len(b) && isAlnum(b[i]) {
		i++
	}

	return string(b[st:i]), i, nil
}

func (p Ident) String() string { return "identifier" }

func (p Variable) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	x, i, err = Ident{}.Parse(ctx, b, st)
	if err != nil {
		return nil, i, errors.New("expected variable")
	}

	return ast.Variable{
		Base: ast.Base{Pos: posAt(ctx, st)},
		Name: x.(string),
	}, i, nil
}

func (p Variable) String() string { return "variable" }

func (p Register) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	i = st

	if i < len(b) && b[i] == '%' {
		i++
	}

	for i < len(b) && isAlnum(b[i]) {
		i++
	}

	if i == st {
		return nil, st, errors.New("expected register")
	}

	r, ok := asm.ParseReg(string(b[st:i]))
	if !ok {
		return nil, i, errors.New("unknown register: %q", b[st:i])
	}

	return r, i, nil
}

func (p Register) String() string { return "register" }

func isAlpha(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isAlnum(c byte) bool {
	return isAlpha(c) || isDigit(c)
}
