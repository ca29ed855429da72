package parse

import (
	"context"
	"math/big"

	"tlog.app/go/errors"

	"github.com/slowlang/shuffle/compiler/ast"
)

type (
	// Hex is a 0x-prefixed hexadecimal literal.
	Hex struct{}

	// Dec is a decimal literal.
	Dec struct{}
)

func (p Hex) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	if st+1 >= len(b) || b[st] != '0' || b[st+1] != 'x' {
		return nil, st, errors.New("expected hex number")
	}

	i = st + 2
	dst := i

	for i < len(b) && isHex(b[i]) {
		i++
	}

	if i == dst {
		return nil, i, errors.New("expected hex digits")
	}

	return constant(ctx, st, b[dst:i], 16), i, nil
}

func (p Hex) String() string { return "hex number" }

func (p Dec) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	i = st

	for i < len(b) && isDigit(b[i]) {
		i++
	}

	if i == st {
		return nil, st, errors.New("expected number")
	}

	return constant(ctx, st, b[st:i], 10), i, nil
}

func (p Dec) String() string { return "number" }

func constant(ctx context.Context, st int, digits []byte, base int) ast.Constant {
	v, ok := new(big.Int).SetString(string(digits), base)
	if !ok {
		panic(string(digits)) // digits are checked by the caller
	}

	return ast.Constant{
		Base:  ast.Base{Pos: posAt(ctx, st)},
		Value: v,
	}
}

func isHex(c byte) bool {
	return isDigit(c) || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}
