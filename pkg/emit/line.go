// Package emit collects generated instructions, attaches pending labels and
// keeps the running cost of a compilation.
package emit

import (
	"fmt"

	"github.com/raymyers/isacc/pkg/isa"
)

// Line is one output line: an instruction, optionally labelled, or a bare
// label definition when Op is empty.
type Line struct {
	Label    string
	Op       string
	Operands []string
}

// LabelOnly reports whether the line only defines a label.
func (l Line) LabelOnly() bool {
	return l.Op == ""
}

// IsJump reports whether op transfers control unconditionally. Jumps neither
// touch the accumulator or stack nor carry a next-instruction address.
func IsJump(op string) bool {
	switch op {
	case "j", "jr", "jal":
		return true
	}
	return false
}

// Cost is the static cost of a program or of a single line.
type Cost struct {
	Instructions   int
	Bits           int
	MemoryAccesses int
}

// Add returns the sum of two costs.
func (c Cost) Add(o Cost) Cost {
	return Cost{
		Instructions:   c.Instructions + o.Instructions,
		Bits:           c.Bits + o.Bits,
		MemoryAccesses: c.MemoryAccesses + o.MemoryAccesses,
	}
}

// Summary renders the trailing metrics block of a compilation.
func (c Cost) Summary() string {
	return fmt.Sprintf("\nInstruction count:\t%d\nSize of resulting code:\t%d bits\n# of memory accesses:\t%d\n",
		c.Instructions, c.Bits, c.MemoryAccesses)
}

// LineCost prices one line under the given widths. Every operand that is not
// a label costs one memory access; a next-instruction address costs bits
// only. Label-only lines are free.
func LineCost(l Line, w isa.Widths, isLabel func(string) bool) Cost {
	if l.LabelOnly() {
		return Cost{}
	}
	c := Cost{Instructions: 1, Bits: w.OpcodeBits}
	for _, op := range l.Operands {
		c.Bits += w.OperandBits
		if isLabel == nil || !isLabel(op) {
			c.MemoryAccesses++
		}
	}
	if HasNextAddress(l, w) {
		c.Bits += w.OperandBits
	}
	if w.ImplicitAccess && !IsJump(l.Op) {
		c.MemoryAccesses++
	}
	return c
}

// HasNextAddress reports whether l is rendered with a trailing
// next-instruction address.
func HasNextAddress(l Line, w isa.Widths) bool {
	return w.NextAddress() && !l.LabelOnly() && !IsJump(l.Op)
}
