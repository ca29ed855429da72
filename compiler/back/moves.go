package back

import (
	"context"

	"tlog.app/go/tlog"

	"github.com/slowlang/shuffle/compiler/asm"
	"github.com/slowlang/shuffle/compiler/set"
)

type move struct {
	Dst asm.Reg
	Src asm.Reg
}

// parallelMove emits moves so that every Dst ends up with the value
// Src had before any of them. Destinations must be distinct.
// Cycles are resolved with exchanges, no extra register is used.
func (f *funContext) parallelMove(ctx context.Context, moves []move) {
	tr := tlog.SpanFromContext(ctx)

	pending := make([]move, 0, len(moves))

	for _, m := range moves {
		if m.Dst != m.Src {
			pending = append(pending, m)
		}
	}

	for len(pending) != 0 {
		var srcs set.Bits[asm.Reg]

		for _, m := range pending {
			srcs.Set(m.Src)
		}

		i := 0
		for i < len(pending) && srcs.IsSet(pending[i].Dst) {
			i++
		}

		if i < len(pending) {
			m := pending[i]

			f.emit(asm.Mov{Out: m.Dst, In: m.Src})

			pending = append(pending[:i], pending[i+1:]...)

			continue
		}

		// every destination is still needed as a source: a cycle
		m := pending[0]
		pending = pending[1:]

		if tr.If("moves") {
			tr.Printw("break move cycle", "dst", m.Dst, "src", m.Src, "pending", len(pending))
		}

		f.emit(asm.Xchg{A: m.Dst, B: m.Src})

		j := 0

		for _, q := range pending {
			switch q.Src {
			case m.Dst:
				q.Src = m.Src
			case m.Src:
				q.Src = m.Dst
			}

			if q.Src != q.Dst {
				pending[j] = q
				j++
			}
		}

		pending = pending[:j]
	}
}
