// Package backend implements the instruction-set specific half of the
// compiler: how names map to storage, how one primitive operation is spelled
// and what calling convention is used. The lowering engine drives every
// variant through the same Backend interface.
package backend

import (
	"fmt"
	"strconv"

	"github.com/raymyers/isacc/pkg/emit"
	"github.com/raymyers/isacc/pkg/isa"
)

// Backend is the capability set the lowering engine needs from an ISA.
// Operand arguments are already bound (see Bind) unless stated otherwise.
type Backend interface {
	ID() isa.ID
	// Reset clears per-compilation state and directs output to out.
	Reset(out *emit.Buffer)

	// Bind maps a source identifier to its storage, emitting any load the
	// addressing model needs on first use. Numbers and native operands
	// ($s0, $zero) are returned unchanged.
	Bind(name string) string
	Temp(i int) string
	ReturnValue() string
	// ReturnAddress names return address n. Address 0 is the slot a call
	// links through; n > 0 names the return point of the n-th call, or is
	// the same register when the model links through one.
	ReturnAddress(n int) string
	ArgSlot(i int) string

	// Op emits r = a op b.
	Op(op, r, a, b string)
	// Move emits r = a.
	Move(r, a string)
	// Store writes r back to its home location when the model requires
	// it. sub is set while lowering a hoisted sub-expression.
	Store(r string, sub bool)

	// Label queues name to prefix the next instruction. Control may join
	// there from elsewhere.
	Label(name string)
	Jump(label string)
	JumpRegister(r string)
	// Branch jumps to target when a c b holds. scratch is a free temporary.
	Branch(c Cond, a, b, target, scratch string)

	// ArrayLoad emits dst = base[index]. index is a number or bound operand.
	ArrayLoad(dst, base, index, scratch string)
	// ArrayStore emits base[index] = src.
	ArrayStore(base, index, src, scratch string)

	// SaveFrame spills slots before a call made from inside a function;
	// base numbers the spill locations so every call site gets its own.
	SaveFrame(slots []string, base int)
	PassArg(i int, value string)
	Call(name string)
	RestoreFrame(slots []string, base int)
	// Return jumps back through return address 0.
	Return()
}

// Cond is a branch condition.
type Cond int

const (
	Eq Cond = iota
	Ne
	Lt
	Ge
)

var condNames = [...]string{Eq: "==", Ne: "!=", Lt: "<", Ge: ">="}

func (c Cond) String() string {
	if c < 0 || int(c) >= len(condNames) {
		return fmt.Sprintf("Cond(%d)", int(c))
	}
	return condNames[c]
}

// Negate returns the condition that holds exactly when c does not.
func (c Cond) Negate() Cond {
	switch c {
	case Eq:
		return Ne
	case Ne:
		return Eq
	case Lt:
		return Ge
	default:
		return Lt
	}
}

// Layout holds data-layout parameters shared by every variant.
type Layout struct {
	// ElementSize is the byte size of one array element.
	ElementSize int
}

// DefaultLayout uses 4-byte elements.
func DefaultLayout() Layout {
	return Layout{ElementSize: 4}
}

// New returns the back-end for id.
func New(id isa.ID, l Layout) Backend {
	if l.ElementSize <= 0 {
		l.ElementSize = DefaultLayout().ElementSize
	}
	switch id {
	case isa.FourAddress, isa.ThreeAddress:
		return &memory{id: id, layout: l}
	case isa.Accumulator:
		return &accumulator{layout: l}
	case isa.Stack:
		return &stack{layout: l}
	case isa.LoadStore:
		return &loadStore{layout: l}
	}
	panic(fmt.Sprintf("backend: unknown ISA %v", id))
}

// constIndex returns the element offset of a constant index.
func constIndex(index string, size int) (string, bool) {
	n, err := strconv.Atoi(index)
	if err != nil {
		return "", false
	}
	return strconv.Itoa(n * size), true
}

func indexed(offset, base string) string {
	return offset + "(" + base + ")"
}

func spillSlot(i int) string {
	return fmt.Sprintf("stackAddr%d", i)
}

// elementAddress emits s = base + index*size for register-style models.
func elementAddress(out *emit.Buffer, s, index, base string, size int) {
	if size == 4 {
		out.Write("add", s, index, index)
		out.Write("add", s, s, s)
	} else {
		out.Write("mul", s, index, strconv.Itoa(size))
	}
	out.Write("add", s, s, base)
}
