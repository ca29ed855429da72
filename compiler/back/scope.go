package back

import (
	"tlog.app/go/loc"
	"tlog.app/go/tlog"
	"tlog.app/go/tlog/tlwire"

	"github.com/slowlang/shuffle/compiler/asm"
	"github.com/slowlang/shuffle/compiler/ast"
)

type (
	// Scope is a lexical interval. End is set once, when the scope closes.
	Scope struct {
		Parent int
		Start  ast.Pos
		End    ast.Pos
		Closed bool

		from loc.PC
	}

	// Binding maps a variable to a register for the lifetime of its scope.
	// Bindings are never removed: closing a scope ends them,
	// so they stay around for diagnostics.
	Binding struct {
		Name  string
		Scope int
		Reg   asm.Reg
		Pos   ast.Pos
	}
)

func (s Scope) TlogAppend(b []byte) []byte {
	var e tlwire.LowEncoder

	b = e.AppendTag(b, tlwire.Map, -1)

	b = e.AppendString(b, "parent")
	b = e.AppendInt(b, s.Parent)

	b = e.AppendString(b, "start")
	b = e.AppendString(b, s.Start.String())

	if s.Closed {
		b = e.AppendString(b, "end")
		b = e.AppendString(b, s.End.String())
	}

	b = e.AppendBreak(b)

	return b
}

func (f *funContext) openScope(pos ast.Pos) int {
	f.scopes = append(f.scopes, Scope{
		Parent: f.cur,
		Start:  pos,
		from:   loc.Caller(1),
	})

	f.cur = len(f.scopes) - 1

	return f.cur
}

func (f *funContext) closeScope(id int, pos ast.Pos) {
	s := &f.scopes[id]

	if s.Closed {
		panic("scope closed twice")
	}

	s.End = pos
	s.Closed = true

	f.cur = s.Parent
}

func (f *funContext) bind(name string, reg asm.Reg, pos ast.Pos) {
	tlog.V("bind").Printw("bind", "name", name, "reg", reg, "scope", f.cur, "pos", pos, "from", loc.Caller(1))

	f.vars[name] = append(f.vars[name], len(f.bindings))

	f.bindings = append(f.bindings, Binding{
		Name:  name,
		Scope: f.cur,
		Reg:   reg,
		Pos:   pos,
	})
}

// lookup returns the index of the most recent binding of name
// whose scope is still open.
func (f *funContext) lookup(name string) (int, bool) {
	l := f.vars[name]

	for i := len(l) - 1; i >= 0; i-- {
		b := l[i]

		if !f.scopes[f.bindings[b].Scope].Closed {
			return b, true
		}
	}

	return -1, false
}

func (f *funContext) resolve(name string) (asm.Reg, bool) {
	b, ok := f.lookup(name)
	if !ok {
		return -1, false
	}

	return f.bindings[b].Reg, true
}

// holder returns the live binding occupying reg.
// A binding is live while its scope is open and no later binding
// of the same name in that scope replaced it. Shadowing in a nested
// scope does not end it: the binding resolves again once the shadow closes.
func (f *funContext) holder(reg asm.Reg) (Binding, bool) {
	for i := len(f.bindings) - 1; i >= 0; i-- {
		b := f.bindings[i]

		if b.Reg != reg || f.scopes[b.Scope].Closed {
			continue
		}

		if !f.replaced(i) {
			return b, true
		}
	}

	return Binding{}, false
}

// replaced reports whether binding i was redeclared in its own scope.
func (f *funContext) replaced(i int) bool {
	b := f.bindings[i]

	for _, j := range f.vars[b.Name] {
		if j > i && f.bindings[j].Scope == b.Scope {
			return true
		}
	}

	return false
}
