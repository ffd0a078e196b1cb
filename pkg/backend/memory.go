package backend

import (
	"fmt"

	"github.com/raymyers/isacc/pkg/emit"
	"github.com/raymyers/isacc/pkg/isa"
)

// memory is the memory-to-memory model: every operand is a memory address
// and results land in memory directly. The 4-address flavour differs only
// in its encoding, whose next-instruction address the printer appends.
type memory struct {
	id     isa.ID
	layout Layout
	out    *emit.Buffer
}

func (m *memory) ID() isa.ID { return m.id }

func (m *memory) Reset(out *emit.Buffer) { m.out = out }

func (m *memory) Bind(name string) string { return name }

func (m *memory) Temp(i int) string { return fmt.Sprintf("Temp%d", i) }

func (m *memory) ReturnValue() string { return "returnValue" }

func (m *memory) ReturnAddress(n int) string { return fmt.Sprintf("returnAddress%d", n) }

func (m *memory) ArgSlot(i int) string { return fmt.Sprintf("arg%d", i) }

func (m *memory) Op(op, r, a, b string) { m.out.Write(op, r, a, b) }

func (m *memory) Move(r, a string) { m.out.Write("add", r, a, "0") }

// Store is a no-op: results are written in place.
func (m *memory) Store(string, bool) {}

func (m *memory) Label(name string) { m.out.Label(name) }

func (m *memory) Jump(label string) { m.out.Write("j", label) }

func (m *memory) JumpRegister(r string) { m.out.Write("jr", r) }

func (m *memory) Branch(c Cond, a, b, target, scratch string) {
	switch c {
	case Eq:
		m.out.Write("beq", a, b, target)
	case Ne:
		m.out.Write("bne", a, b, target)
	case Lt:
		m.out.Write("slt", scratch, a, b)
		m.out.Write("bne", scratch, "0", target)
	case Ge:
		m.out.Write("slt", scratch, a, b)
		m.out.Write("beq", scratch, "0", target)
	}
}

func (m *memory) ArrayLoad(dst, base, index, scratch string) {
	if off, ok := constIndex(index, m.layout.ElementSize); ok {
		m.out.Write("lw", dst, indexed(off, base))
		return
	}
	elementAddress(m.out, scratch, index, base, m.layout.ElementSize)
	m.out.Write("lw", dst, indexed("0", scratch))
}

func (m *memory) ArrayStore(base, index, src, scratch string) {
	if off, ok := constIndex(index, m.layout.ElementSize); ok {
		m.out.Write("sw", src, indexed(off, base))
		return
	}
	elementAddress(m.out, scratch, index, base, m.layout.ElementSize)
	m.out.Write("sw", src, indexed("0", scratch))
}

func (m *memory) SaveFrame(slots []string, base int) {
	for i, s := range slots {
		m.out.Write("add", spillSlot(base+i), s, "0")
	}
}

func (m *memory) PassArg(i int, value string) {
	m.out.Write("add", m.ArgSlot(i), value, "0")
}

func (m *memory) Call(name string) { m.out.Write("jal", name) }

func (m *memory) RestoreFrame(slots []string, base int) {
	for i, s := range slots {
		m.out.Write("add", s, spillSlot(base+i), "0")
	}
}

func (m *memory) Return() { m.out.Write("jr", m.ReturnAddress(0)) }
