package back

import (
	"testing"

	"github.com/slowlang/shuffle/compiler/asm"
)

type (
	machine struct {
		r     [asm.NumRegs]uint64
		zero  bool
		calls []call
	}

	call struct {
		fn   string
		args [asm.MaxArgs]uint64
	}
)

// run executes lowered code until ret.
func (m *machine) run(t *testing.T, code []asm.Instr) {
	t.Helper()

	marks := map[asm.Label]int{}

	for i, x := range code {
		if x, ok := x.(asm.Mark); ok {
			marks[x.Label] = i
		}
	}

	for pc := 0; pc < len(code); pc++ {
		switch x := code[pc].(type) {
		case asm.Imm:
			if x.Value.Sign() < 0 {
				m.r[x.Out] = uint64(x.Value.Int64())
			} else {
				m.r[x.Out] = x.Value.Uint64()
			}
		case asm.Mov:
			m.r[x.Out] = m.r[x.In]
		case asm.Add:
			m.r[x.Out] += m.r[x.In]
		case asm.Sub:
			m.r[x.Out] -= m.r[x.In]
		case asm.Neg:
			m.r[x.Out] = -m.r[x.Out]
		case asm.Xchg:
			m.r[x.A], m.r[x.B] = m.r[x.B], m.r[x.A]
		case asm.Test:
			m.zero = m.r[x.In] == 0
		case asm.Jz:
			if m.zero {
				pc = marks[x.Label]
			}
		case asm.Mark:
		case asm.Call:
			c := call{fn: x.Func}

			for i := range c.args {
				r, _ := asm.ArgReg(i)
				c.args[i] = m.r[r]
			}

			m.calls = append(m.calls, c)
		case asm.Ret:
			return
		default:
			t.Fatalf("unexpected instruction: %T", x)
		}
	}

	t.Fatalf("no ret")
}
