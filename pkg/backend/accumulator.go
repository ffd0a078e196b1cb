package backend

import (
	"fmt"
	"strconv"

	"github.com/raymyers/isacc/pkg/emit"
	"github.com/raymyers/isacc/pkg/isa"
)

// accumulator is the one-address model: every instruction names a single
// memory operand and works against the implicit accumulator.
type accumulator struct {
	layout Layout
	out    *emit.Buffer
}

func (a *accumulator) ID() isa.ID { return isa.Accumulator }

func (a *accumulator) Reset(out *emit.Buffer) { a.out = out }

func (a *accumulator) Bind(name string) string { return name }

func (a *accumulator) Temp(i int) string { return fmt.Sprintf("Temp%d", i) }

func (a *accumulator) ReturnValue() string { return "returnValue" }

func (a *accumulator) ReturnAddress(n int) string { return fmt.Sprintf("returnAddress%d", n) }

func (a *accumulator) ArgSlot(i int) string { return fmt.Sprintf("arg%d", i) }

func (a *accumulator) Op(op, r, x, y string) {
	a.out.Write("load", x)
	a.out.Write(op, y)
}

func (a *accumulator) Move(r, x string) { a.out.Write("load", x) }

// Store always writes the accumulator back, sub-expressions included.
func (a *accumulator) Store(r string, _ bool) { a.out.Write("store", r) }

func (a *accumulator) Label(name string) { a.out.Label(name) }

func (a *accumulator) Jump(label string) { a.out.Write("j", label) }

func (a *accumulator) JumpRegister(r string) { a.out.Write("jr", r) }

func (a *accumulator) Branch(c Cond, x, y, target, _ string) {
	a.out.Write("load", x)
	switch c {
	case Eq:
		a.out.Write("beq", y, target)
	case Ne:
		a.out.Write("bne", y, target)
	case Lt:
		a.out.Write("slt", y)
		a.out.Write("bne", "0", target)
	case Ge:
		a.out.Write("slt", y)
		a.out.Write("beq", "0", target)
	}
}

// address leaves base + index*size in scratch.
func (a *accumulator) address(index, base, scratch string) {
	a.out.Write("load", index)
	a.out.Write("muli", strconv.Itoa(a.layout.ElementSize))
	a.out.Write("add", base)
	a.out.Write("store", scratch)
}

func (a *accumulator) ArrayLoad(dst, base, index, scratch string) {
	if off, ok := constIndex(index, a.layout.ElementSize); ok {
		a.out.Write("lw", indexed(off, base))
	} else {
		a.address(index, base, scratch)
		a.out.Write("lw", indexed("0", scratch))
	}
	a.out.Write("store", dst)
}

func (a *accumulator) ArrayStore(base, index, src, scratch string) {
	off, ok := constIndex(index, a.layout.ElementSize)
	if !ok {
		a.address(index, base, scratch)
	}
	a.out.Write("load", src)
	if ok {
		a.out.Write("sw", indexed(off, base))
		return
	}
	a.out.Write("sw", indexed("0", scratch))
}

func (a *accumulator) SaveFrame(slots []string, base int) {
	for i, s := range slots {
		a.out.Write("load", s)
		a.out.Write("store", spillSlot(base+i))
	}
}

func (a *accumulator) PassArg(i int, value string) {
	a.out.Write("load", value)
	a.out.Write("store", a.ArgSlot(i))
}

func (a *accumulator) Call(name string) { a.out.Write("jal", name) }

func (a *accumulator) RestoreFrame(slots []string, base int) {
	for i, s := range slots {
		a.out.Write("load", spillSlot(base+i))
		a.out.Write("store", s)
	}
}

func (a *accumulator) Return() { a.out.Write("jr", a.ReturnAddress(0)) }
