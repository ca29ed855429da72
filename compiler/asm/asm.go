package asm

import "math/big"

type (
	Label int

	Func struct {
		Name string
		Body []Instr
	}

	Instr any

	// Imm loads a constant. Value must satisfy FitsReg.
	Imm struct {
		Out   Reg
		Value *big.Int
	}

	Mov struct {
		Out Reg
		In  Reg
	}

	Add struct {
		Out Reg
		In  Reg
	}

	Sub struct {
		Out Reg
		In  Reg
	}

	Neg struct {
		Out Reg
	}

	Xchg struct {
		A, B Reg
	}

	// Test sets flags from In & In.
	Test struct {
		In Reg
	}

	// Jz jumps to Label if the last Test saw zero.
	Jz struct {
		Label Label
	}

	Mark struct {
		Label Label
	}

	Call struct {
		Func string
	}

	Ret struct{}
)

var (
	minReg = new(big.Int).Lsh(big.NewInt(-1), 63)
	maxReg = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 64), big.NewInt(1))
)

// FitsReg reports whether v is representable in a 64-bit register
// as either a signed or an unsigned integer.
func FitsReg(v *big.Int) bool {
	return v.Cmp(minReg) >= 0 && v.Cmp(maxReg) <= 0
}
