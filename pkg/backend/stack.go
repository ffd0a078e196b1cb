package backend

import (
	"fmt"
	"strconv"

	"github.com/raymyers/isacc/pkg/emit"
	"github.com/raymyers/isacc/pkg/isa"
)

// stack is the zero-address model: operands are pushed, operations work on
// the top of the stack and results are popped back to memory.
type stack struct {
	layout Layout
	out    *emit.Buffer
}

func (s *stack) ID() isa.ID { return isa.Stack }

func (s *stack) Reset(out *emit.Buffer) { s.out = out }

func (s *stack) Bind(name string) string { return name }

func (s *stack) Temp(i int) string { return fmt.Sprintf("Temp%d", i) }

func (s *stack) ReturnValue() string { return "returnValue" }

func (s *stack) ReturnAddress(n int) string { return fmt.Sprintf("returnAddress%d", n) }

func (s *stack) ArgSlot(i int) string { return fmt.Sprintf("arg%d", i) }

func (s *stack) push(operands ...string) {
	for _, o := range operands {
		s.out.Write("push", o)
	}
}

func (s *stack) Op(op, r, a, b string) {
	s.push(a, b)
	s.out.Write(op)
}

func (s *stack) Move(r, a string) { s.push(a) }

// Store always pops the result, sub-expressions included.
func (s *stack) Store(r string, _ bool) { s.out.Write("pop", r) }

func (s *stack) Label(name string) { s.out.Label(name) }

func (s *stack) Jump(label string) {
	s.push(label)
	s.out.Write("j")
}

func (s *stack) JumpRegister(r string) {
	s.push(r)
	s.out.Write("jr")
}

// Branch pushes the target below the compared values; the branch pops all
// three.
func (s *stack) Branch(c Cond, a, b, target, _ string) {
	s.push(target, a, b)
	switch c {
	case Eq:
		s.out.Write("beq")
	case Ne:
		s.out.Write("bne")
	case Lt:
		s.out.Write("slt")
		s.push("0")
		s.out.Write("bne")
	case Ge:
		s.out.Write("slt")
		s.push("0")
		s.out.Write("beq")
	}
}

// address leaves base + index*size on top of the stack.
func (s *stack) address(index, base string) {
	s.push(index, strconv.Itoa(s.layout.ElementSize))
	s.out.Write("mul")
	s.push(base)
	s.out.Write("add")
}

func (s *stack) ArrayLoad(dst, base, index, _ string) {
	if off, ok := constIndex(index, s.layout.ElementSize); ok {
		s.push(indexed(off, base))
	} else {
		s.address(index, base)
	}
	s.out.Write("lw")
	s.out.Write("pop", dst)
}

func (s *stack) ArrayStore(base, index, src, _ string) {
	s.push(src)
	if off, ok := constIndex(index, s.layout.ElementSize); ok {
		s.push(indexed(off, base))
	} else {
		s.address(index, base)
	}
	s.out.Write("sw")
}

func (s *stack) SaveFrame(slots []string, base int) {
	for i, slot := range slots {
		s.push(slot)
		s.out.Write("pop", spillSlot(base+i))
	}
}

func (s *stack) PassArg(i int, value string) {
	s.push(value)
	s.out.Write("pop", s.ArgSlot(i))
}

func (s *stack) Call(name string) {
	s.push(name)
	s.out.Write("jal")
}

func (s *stack) RestoreFrame(slots []string, base int) {
	for i, slot := range slots {
		s.push(spillSlot(base + i))
		s.out.Write("pop", slot)
	}
}

func (s *stack) Return() {
	s.push(s.ReturnAddress(0))
	s.out.Write("jr")
}
