package format

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slowlang/shuffle/compiler/ast"
	"github.com/slowlang/shuffle/compiler/parse"
)

const canonical = `fn add(a, b) {
	var c rax;
	[rcx] c = a + b;
}

fn f(a, b, c) {
	var d rax;
	[rcx, rdx] d = a - (b - c);
	[rcx, rdx] d = (a - b) - c;
	d = -(a + 255);
	[r8] if d - a {
		var t r9;
		t = 0;
		g(t, a);
	}
	h();
}
`

func TestFormat(t *testing.T) {
	ctx := context.Background()

	fs, err := parse.Parse(ctx, "test.sh", []byte(canonical))
	require.NoError(t, err)

	b, err := Format(ctx, nil, fs)
	require.NoError(t, err)

	assert.Equal(t, canonical, string(b))
}

func TestFormatNormalizes(t *testing.T) {
	ctx := context.Background()

	fs, err := parse.Parse(ctx, "test.sh", []byte(`fn f(a,b){
// comment
var c RAX;[%RCX , rdx]c=a-b-0x10;if c{}}`))
	require.NoError(t, err)

	b, err := Format(ctx, nil, fs[0])
	require.NoError(t, err)

	assert.Equal(t, `fn f(a, b) {
	var c rax;
	[rcx, rdx] c = a - (b - 16);
	if c {
	}
}
`, string(b))
}

func TestFormatStmt(t *testing.T) {
	b, err := Format(context.Background(), nil, ast.Call{Func: "g", Args: []string{"a", "b"}})
	require.NoError(t, err)
	assert.Equal(t, "g(a, b);\n", string(b))

	_, err = Format(context.Background(), nil, ast.Assignment{
		Output:      "c",
		Computation: ast.Constant{Value: big.NewInt(-1)},
	})
	assert.Error(t, err)

	_, err = Format(context.Background(), nil, 5)
	assert.Error(t, err)
}
