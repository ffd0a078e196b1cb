package emit

import "github.com/raymyers/isacc/pkg/isa"

// Stream selects where instructions go. Function bodies are collected apart
// and rendered after the main program.
type Stream int

const (
	Main Stream = iota
	Functions
	numStreams
)

func (s Stream) String() string {
	if s == Functions {
		return "functions"
	}
	return "main"
}

// Buffer accumulates the lines of one compilation.
type Buffer struct {
	widths  isa.Widths
	isLabel func(string) bool

	lines   [numStreams][]Line
	pending [numStreams][]string
	cur     Stream
	cost    Cost
}

// NewBuffer creates a buffer costing instructions with w. isLabel tells label
// operands apart from memory operands.
func NewBuffer(w isa.Widths, isLabel func(string) bool) *Buffer {
	return &Buffer{widths: w, isLabel: isLabel}
}

// Reset empties the buffer and switches back to the main stream.
func (b *Buffer) Reset() {
	for i := range b.lines {
		b.lines[i] = nil
		b.pending[i] = nil
	}
	b.cur = Main
	b.cost = Cost{}
}

// Widths returns the cost model of the buffer.
func (b *Buffer) Widths() isa.Widths {
	return b.widths
}

// SetStream redirects output and returns the previous stream.
func (b *Buffer) SetStream(s Stream) Stream {
	prev := b.cur
	b.cur = s
	return prev
}

// Stream returns the stream currently written to.
func (b *Buffer) Stream() Stream {
	return b.cur
}

// Label queues name to prefix the next instruction of the current stream.
func (b *Buffer) Label(name string) {
	b.pending[b.cur] = append(b.pending[b.cur], name)
}

// Pending returns the labels waiting on the current stream.
func (b *Buffer) Pending() []string {
	return b.pending[b.cur]
}

// Write appends one instruction. When several labels are pending, all but
// the last get a line of their own; the last prefixes the instruction.
func (b *Buffer) Write(op string, operands ...string) {
	l := Line{Op: op, Operands: append([]string(nil), operands...)}
	if p := b.pending[b.cur]; len(p) > 0 {
		for _, name := range p[:len(p)-1] {
			b.lines[b.cur] = append(b.lines[b.cur], Line{Label: name})
		}
		l.Label = p[len(p)-1]
		b.pending[b.cur] = nil
	}
	b.lines[b.cur] = append(b.lines[b.cur], l)
	b.cost = b.cost.Add(LineCost(l, b.widths, b.isLabel))
}

// Flush defines every still-pending label on a line of its own.
func (b *Buffer) Flush() {
	for s := range b.pending {
		for _, name := range b.pending[s] {
			b.lines[s] = append(b.lines[s], Line{Label: name})
		}
		b.pending[s] = nil
	}
}

// Lines returns the lines of stream s.
func (b *Buffer) Lines(s Stream) []Line {
	return b.lines[s]
}

// Cost returns the accumulated cost.
func (b *Buffer) Cost() Cost {
	return b.cost
}
