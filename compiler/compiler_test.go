package compiler

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tlog.app/go/errors"

	"github.com/slowlang/shuffle/compiler/back"
	"github.com/slowlang/shuffle/compiler/parse"
)

func TestCompileAdd(t *testing.T) {
	obj, err := Compile(context.Background(), "add.sh", []byte(`fn add(a, b) {
	var c rax;
	[rcx] c = a + b;
}
`), Options{})
	require.NoError(t, err)

	assert.Equal(t, `	.text
.globl add
add:
	movq	%rdi, %rax
	movq	%rsi, %rcx
	addq	%rcx, %rax
	ret
`, string(obj))
}

func TestCompileEmpty(t *testing.T) {
	obj, err := Compile(context.Background(), "empty.sh", []byte("// nothing here\n"), Options{})
	require.NoError(t, err)

	assert.Equal(t, "\t.text\n", string(obj))
}

func TestCompileOrder(t *testing.T) {
	src := `fn a() {
	b();
}

fn b() {
	c();
}

fn c() {
}
`

	for _, jobs := range []int{0, 1, 2} {
		obj, err := Compile(context.Background(), "order.sh", []byte(src), Options{Jobs: jobs})
		require.NoError(t, err)

		assert.Equal(t, `	.text
.globl a
a:
	call	b
	ret
.globl b
b:
	call	c
	ret
.globl c
c:
	ret
`, string(obj), "jobs %d", jobs)
	}
}

func TestCompileTooManyParams(t *testing.T) {
	_, err := Compile(context.Background(), "many.sh", []byte(`fn f(a, b, c, d, e, g, h) {
}
`), Options{})

	var ds back.Diagnostics
	require.True(t, errors.As(err, &ds), "%v", err)

	require.Len(t, ds, 1)
	assert.Equal(t, back.TooManyArguments, ds[0].Kind)
}

func TestCompileDiagnosticsOrder(t *testing.T) {
	_, err := Compile(context.Background(), "diag.sh", []byte(`fn f() {
	x = 1;
}

fn f() {
}

fn g(a) {
	var c rax;
	c = a + a;
}
`), Options{Jobs: 4})

	var ds back.Diagnostics
	require.True(t, errors.As(err, &ds), "%v", err)

	assert.Equal(t, `diag.sh:5 function f redefined, previous definition at diag.sh:1
diag.sh:2 assignment to undeclared variable "x"
diag.sh:10 insufficient working set: need 1 scratch registers, have 0`, ds.Error())

	assert.Equal(t, 1, ds.Count(back.FunctionRedefined))
}

func TestCompileParseError(t *testing.T) {
	_, err := Compile(context.Background(), "bad.sh", []byte(`fn f(a) {
	var c rax;
	[rcx] c = a +;
}
`), Options{})

	var perr parse.Error
	require.True(t, errors.As(err, &perr), "%v", err)

	assert.Equal(t, 3, perr.Pos.Line)
	assert.Equal(t, "bad.sh", perr.Pos.File)

	var ds back.Diagnostics
	assert.False(t, errors.As(err, &ds))
}

func TestCompileLeftAssoc(t *testing.T) {
	src := []byte(`fn f(a, b, c) {
	var d rax;
	[r8, r9] d = a - b - c;
}
`)

	right, err := Compile(context.Background(), "assoc.sh", src, Options{})
	require.NoError(t, err)

	left, err := Compile(context.Background(), "assoc.sh", src, Options{LeftAssoc: true})
	require.NoError(t, err)

	assert.Equal(t, `	.text
.globl f
f:
	movq	%rdi, %rax
	movq	%rsi, %r8
	movq	%rdx, %r9
	subq	%r9, %r8
	subq	%r8, %rax
	ret
`, string(right))

	assert.Equal(t, `	.text
.globl f
f:
	movq	%rdi, %rax
	movq	%rsi, %r9
	subq	%r9, %rax
	movq	%rdx, %r8
	subq	%r8, %rax
	ret
`, string(left))
}

func TestCompileFile(t *testing.T) {
	name := filepath.Join(t.TempDir(), "file.sh")

	err := os.WriteFile(name, []byte("fn f() {\n}\n"), 0o644)
	require.NoError(t, err)

	obj, err := CompileFile(context.Background(), name, Options{})
	require.NoError(t, err)

	assert.Equal(t, "\t.text\n.globl f\nf:\n\tret\n", string(obj))

	_, err = CompileFile(context.Background(), filepath.Join(t.TempDir(), "missing.sh"), Options{})
	assert.ErrorIs(t, err, os.ErrNotExist)
}
