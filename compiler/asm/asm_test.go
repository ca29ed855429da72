package asm

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReg(t *testing.T) {
	for _, tc := range []struct {
		in  string
		reg Reg
		ok  bool
	}{
		{"rax", RAX, true},
		{"RAX", RAX, true},
		{"%R15", R15, true},
		{"r8", R8, true},
		{"Rsp", RSP, true},
		{"eax", -1, false},
		{"", -1, false},
		{"r16", -1, false},
	} {
		r, ok := ParseReg(tc.in)
		assert.Equal(t, tc.ok, ok, "%q", tc.in)
		assert.Equal(t, tc.reg, r, "%q", tc.in)
	}

	for r := Reg(0); r < NumRegs; r++ {
		p, ok := ParseReg(r.String())
		require.True(t, ok, "%v", r)
		assert.Equal(t, r, p)
	}
}

func TestArgReg(t *testing.T) {
	var got []Reg

	for i := 0; ; i++ {
		r, ok := ArgReg(i)
		if !ok {
			break
		}

		got = append(got, r)
	}

	assert.Equal(t, []Reg{RDI, RSI, RDX, RCX, R8, R9}, got)

	_, ok := ArgReg(-1)
	assert.False(t, ok)
}

func TestFitsReg(t *testing.T) {
	max, _ := new(big.Int).SetString("18446744073709551615", 10)
	over := new(big.Int).Add(max, big.NewInt(1))
	min, _ := new(big.Int).SetString("-9223372036854775808", 10)
	under := new(big.Int).Sub(min, big.NewInt(1))

	assert.True(t, FitsReg(big.NewInt(0)))
	assert.True(t, FitsReg(max))
	assert.True(t, FitsReg(min))
	assert.False(t, FitsReg(over))
	assert.False(t, FitsReg(under))
}

func TestAppend(t *testing.T) {
	big64, _ := new(big.Int).SetString("0xffffffffffffffff", 0)

	f := &Func{
		Name: "f",
		Body: []Instr{
			Imm{Out: RAX, Value: big.NewInt(-5)},
			Imm{Out: RBX, Value: big.NewInt(1 << 40)},
			Imm{Out: RCX, Value: big64},
			Mov{Out: RDX, In: RAX},
			Add{Out: RDX, In: RBX},
			Sub{Out: RDX, In: RCX},
			Neg{Out: RDX},
			Test{In: RDX},
			Jz{Label: 0},
			Xchg{A: RDI, B: RSI},
			Call{Func: "g"},
			Mark{Label: 0},
			Ret{},
		},
	}

	exp := `.globl f
f:
	movq	$-5, %rax
	movabsq	$1099511627776, %rbx
	movabsq	$0xffffffffffffffff, %rcx
	movq	%rax, %rdx
	addq	%rbx, %rdx
	subq	%rcx, %rdx
	negq	%rdx
	testq	%rdx, %rdx
	je	.Lf_0
	xchgq	%rdi, %rsi
	call	g
.Lf_0:
	ret
`

	assert.Equal(t, exp, string(f.Append(nil)))
}
