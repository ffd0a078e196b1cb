// Package isa names the supported instruction-set styles and their encoding
// widths.
package isa

import (
	"fmt"
	"strings"
)

// ID identifies one instruction-set style.
type ID int

const (
	FourAddress ID = iota
	ThreeAddress
	Accumulator
	Stack
	LoadStore
)

var idNames = []string{
	FourAddress:  "mm4",
	ThreeAddress: "mm3",
	Accumulator:  "accumulator",
	Stack:        "stack",
	LoadStore:    "loadstore",
}

var idTitles = []string{
	FourAddress:  "Memory-memory 4-address",
	ThreeAddress: "Memory-memory 3-address",
	Accumulator:  "Accumulator",
	Stack:        "Stack",
	LoadStore:    "Load/store",
}

var aliases = map[string]ID{
	"mm4":          FourAddress,
	"4-address":    FourAddress,
	"fouraddress":  FourAddress,
	"mm3":          ThreeAddress,
	"3-address":    ThreeAddress,
	"threeaddress": ThreeAddress,
	"acc":          Accumulator,
	"accumulator":  Accumulator,
	"stack":        Stack,
	"ls":           LoadStore,
	"loadstore":    LoadStore,
	"load-store":   LoadStore,
}

func (id ID) String() string {
	if id < 0 || int(id) >= len(idNames) {
		return fmt.Sprintf("ID(%d)", int(id))
	}
	return idNames[id]
}

// Title is the human-readable architecture name used in reports.
func (id ID) Title() string {
	if id < 0 || int(id) >= len(idTitles) {
		return id.String()
	}
	return idTitles[id]
}

// All returns every ISA in report order.
func All() []ID {
	return []ID{FourAddress, ThreeAddress, Accumulator, Stack, LoadStore}
}

// Parse resolves a name or alias such as "mm3", "acc" or "ls".
func Parse(s string) (ID, error) {
	if id, ok := aliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return id, nil
	}
	return 0, fmt.Errorf("unknown ISA %q (want one of %s)", s, strings.Join(idNames, ", "))
}

// Widths describes how one instruction is costed.
type Widths struct {
	// OpcodeBits is added once per instruction.
	OpcodeBits int
	// OperandBits is added per operand.
	OperandBits int
	// InstructionBytes is the fixed instruction length of architectures that
	// carry an explicit next-instruction address; zero otherwise.
	InstructionBytes int
	// ImplicitAccess charges one extra memory access for every non-jump
	// instruction (the accumulator or stack is touched).
	ImplicitAccess bool
}

// NextAddress reports whether instructions carry a next-address operand.
func (w Widths) NextAddress() bool {
	return w.InstructionBytes > 0
}

// DefaultWidths returns the stock cost model of an ISA.
func DefaultWidths(id ID) Widths {
	switch id {
	case FourAddress:
		// 8 + 24*4 = 104 bits, 13 bytes
		return Widths{OpcodeBits: 8, OperandBits: 24, InstructionBytes: 13}
	case Accumulator, Stack:
		return Widths{OpcodeBits: 6, OperandBits: 24, ImplicitAccess: true}
	default:
		return Widths{OpcodeBits: 6, OperandBits: 24}
	}
}
