package asm

import (
	"strings"

	"tlog.app/go/tlog/tlwire"
)

type Reg int

const (
	RAX Reg = iota
	RBX
	RCX
	RDX
	RSI
	RDI
	RBP
	RSP
	R8
	R9
	R10
	R11
	R12
	R13
	R14
	R15

	NumRegs
)

// MaxArgs is the number of integer arguments passed in registers.
const MaxArgs = 6

var regNames = [NumRegs]string{
	"rax", "rbx", "rcx", "rdx", "rsi", "rdi", "rbp", "rsp",
	"r8", "r9", "r10", "r11", "r12", "r13", "r14", "r15",
}

var argRegs = [MaxArgs]Reg{RDI, RSI, RDX, RCX, R8, R9}

// ArgReg returns the register the i-th integer argument is passed in.
func ArgReg(i int) (Reg, bool) {
	if i < 0 || i >= MaxArgs {
		return -1, false
	}

	return argRegs[i], true
}

// ParseReg accepts a register name in any case, with or without a '%' prefix.
func ParseReg(s string) (Reg, bool) {
	s = strings.TrimPrefix(s, "%")

	for r, n := range regNames {
		if strings.EqualFold(s, n) {
			return Reg(r), true
		}
	}

	return -1, false
}

func (r Reg) Valid() bool {
	return r >= 0 && r < NumRegs
}

func (r Reg) String() string {
	if !r.Valid() {
		return "reg?"
	}

	return regNames[r]
}

func (r Reg) TlogAppend(b []byte) []byte {
	var e tlwire.LowEncoder

	return e.AppendString(b, r.String())
}
