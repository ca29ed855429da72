package asm

import (
	"fmt"

	"github.com/nikandfor/hacked/hfmt"
)

// Append renders f in AT&T syntax: a .globl directive, the label and the body.
func (f *Func) Append(b []byte) []byte {
	b = hfmt.Appendf(b, ".globl %s\n%s:\n", f.Name, f.Name)

	for _, x := range f.Body {
		b = f.AppendInstr(b, x)
	}

	return b
}

func (f *Func) AppendInstr(b []byte, x Instr) []byte {
	switch x := x.(type) {
	case Imm:
		switch {
		case x.Value.IsInt64() && int64(int32(x.Value.Int64())) == x.Value.Int64():
			return hfmt.Appendf(b, "\tmovq\t$%d, %%%v\n", x.Value.Int64(), x.Out)
		case x.Value.IsInt64():
			return hfmt.Appendf(b, "\tmovabsq\t$%d, %%%v\n", x.Value.Int64(), x.Out)
		default:
			return hfmt.Appendf(b, "\tmovabsq\t$0x%x, %%%v\n", x.Value.Uint64(), x.Out)
		}
	case Mov:
		return hfmt.Appendf(b, "\tmovq\t%%%v, %%%v\n", x.In, x.Out)
	case Add:
		return hfmt.Appendf(b, "\taddq\t%%%v, %%%v\n", x.In, x.Out)
	case Sub:
		return hfmt.Appendf(b, "\tsubq\t%%%v, %%%v\n", x.In, x.Out)
	case Neg:
		return hfmt.Appendf(b, "\tnegq\t%%%v\n", x.Out)
	case Xchg:
		return hfmt.Appendf(b, "\txchgq\t%%%v, %%%v\n", x.A, x.B)
	case Test:
		return hfmt.Appendf(b, "\ttestq\t%%%v, %%%v\n", x.In, x.In)
	case Jz:
		return hfmt.Appendf(b, "\tje\t%s\n", f.LabelName(x.Label))
	case Mark:
		return hfmt.Appendf(b, "%s:\n", f.LabelName(x.Label))
	case Call:
		return hfmt.Appendf(b, "\tcall\t%s\n", x.Func)
	case Ret:
		return append(b, "\tret\n"...)
	default:
		panic(fmt.Sprintf("unsupported instruction: %T", x))
	}
}

func (f *Func) LabelName(l Label) string {
	return fmt.Sprintf(".L%s_%d", f.Name, l)
}
