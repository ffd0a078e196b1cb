package emit

import (
	"bytes"
	"strings"
	"testing"

	"github.com/raymyers/isacc/pkg/isa"
)

func labels(names ...string) func(string) bool {
	set := make(map[string]bool)
	for _, n := range names {
		set[n] = true
	}
	return func(s string) bool { return set[s] }
}

func TestPrintLine(t *testing.T) {
	tests := []struct {
		name string
		line Line
		want string
	}{
		{"three operands", Line{Op: "add", Operands: []string{"A", "B", "C"}}, "\tadd A, B, C\n"},
		{"labelled", Line{Label: "True0", Op: "add", Operands: []string{"C", "1", "0"}}, "True0:\tadd C, 1, 0\n"},
		{"bare op", Line{Op: "add"}, "\tadd\n"},
		{"label only", Line{Label: "Exit0"}, "Exit0:\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			p := NewPrinter(&buf, isa.DefaultWidths(isa.ThreeAddress))
			p.printLine(tt.line)
			if got := buf.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNextAddress(t *testing.T) {
	b := NewBuffer(isa.DefaultWidths(isa.FourAddress), labels("Exit0"))
	b.Write("add", "A", "B", "C")
	b.Write("j", "Exit0")
	b.Write("sub", "A", "A", "1")

	got := Render(b)
	want := "\tadd A, B, C, 13\n\tj Exit0\n\tsub A, A, 1, 39\n"
	if !strings.HasPrefix(got, want) {
		t.Errorf("got %q, want prefix %q", got, want)
	}

	c := b.Cost()
	if c.Instructions != 3 {
		t.Errorf("instructions = %d, want 3", c.Instructions)
	}
	// two 4-operand instructions plus one 1-operand jump
	if wantBits := 2*104 + 8 + 24; c.Bits != wantBits {
		t.Errorf("bits = %d, want %d", c.Bits, wantBits)
	}
	// next addresses and labels are not memory accesses
	if c.MemoryAccesses != 6 {
		t.Errorf("memory accesses = %d, want 6", c.MemoryAccesses)
	}
}

func TestPendingLabels(t *testing.T) {
	b := NewBuffer(isa.DefaultWidths(isa.ThreeAddress), nil)
	b.Label("True0")
	b.Label("Exit0")
	b.Write("add", "A", "B", "C")
	b.Label("Exit1")
	b.Flush()

	lines := b.Lines(Main)
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	if !lines[0].LabelOnly() || lines[0].Label != "True0" {
		t.Errorf("line 0 = %+v", lines[0])
	}
	if lines[1].Label != "Exit0" || lines[1].Op != "add" {
		t.Errorf("line 1 = %+v", lines[1])
	}
	if !lines[2].LabelOnly() || lines[2].Label != "Exit1" {
		t.Errorf("line 2 = %+v", lines[2])
	}
	if b.Cost().Instructions != 1 {
		t.Errorf("label-only lines must be free, got %d instructions", b.Cost().Instructions)
	}
}

func TestStreams(t *testing.T) {
	b := NewBuffer(isa.DefaultWidths(isa.ThreeAddress), labels("f"))
	b.Write("jal", "f")
	prev := b.SetStream(Functions)
	if prev != Main {
		t.Errorf("previous stream = %v", prev)
	}
	b.Label("f")
	b.Write("jr", "returnAddress0")
	b.SetStream(prev)
	b.Write("add", "A", "returnValue", "0")

	got := Render(b)
	want := "\tjal f\n\tadd A, returnValue, 0\n...\nf:\tjr returnAddress0\n"
	if !strings.HasPrefix(got, want) {
		t.Errorf("got %q, want prefix %q", got, want)
	}
}

func TestImplicitAccess(t *testing.T) {
	w := isa.DefaultWidths(isa.Accumulator)
	tests := []struct {
		line Line
		want Cost
	}{
		{Line{Op: "load", Operands: []string{"B"}}, Cost{1, 30, 2}},
		{Line{Op: "j", Operands: []string{"Exit0"}}, Cost{1, 30, 0}},
		{Line{Op: "beq", Operands: []string{"B", "Exit0"}}, Cost{1, 54, 2}},
	}
	for _, tt := range tests {
		got := LineCost(tt.line, w, labels("Exit0"))
		if got != tt.want {
			t.Errorf("%s: got %+v, want %+v", tt.line.Op, got, tt.want)
		}
	}
}

func TestSummary(t *testing.T) {
	got := Cost{Instructions: 2, Bits: 60, MemoryAccesses: 3}.Summary()
	want := "\nInstruction count:\t2\nSize of resulting code:\t60 bits\n# of memory accesses:\t3\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestReset(t *testing.T) {
	b := NewBuffer(isa.DefaultWidths(isa.Stack), nil)
	b.SetStream(Functions)
	b.Label("f")
	b.Write("push", "A")
	b.Reset()
	if b.Stream() != Main || len(b.Lines(Functions)) != 0 || b.Cost() != (Cost{}) || len(b.Pending()) != 0 {
		t.Error("Reset left state behind")
	}
}
