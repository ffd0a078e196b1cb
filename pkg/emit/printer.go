package emit

import (
	"fmt"
	"io"
	"strings"

	"github.com/raymyers/isacc/pkg/isa"
)

// Printer writes buffered lines as assembly text.
type Printer struct {
	w      io.Writer
	widths isa.Widths
	pc     int
}

// NewPrinter creates a printer. widths decides whether instructions carry a
// next-instruction address.
func NewPrinter(w io.Writer, widths isa.Widths) *Printer {
	return &Printer{w: w, widths: widths}
}

// PrintProgram outputs the main stream, then "..." and the function bodies
// if there are any.
func (p *Printer) PrintProgram(b *Buffer) {
	p.pc = 0
	for _, l := range b.Lines(Main) {
		p.printLine(l)
	}
	if funcs := b.Lines(Functions); len(funcs) > 0 {
		fmt.Fprintf(p.w, "...\n")
		for _, l := range funcs {
			p.printLine(l)
		}
	}
}

// PrintSummary outputs the metrics block.
func (p *Printer) PrintSummary(c Cost) {
	io.WriteString(p.w, c.Summary())
}

func (p *Printer) printLine(l Line) {
	if l.LabelOnly() {
		fmt.Fprintf(p.w, "%s:\n", l.Label)
		return
	}
	var sb strings.Builder
	if l.Label != "" {
		sb.WriteString(l.Label)
		sb.WriteByte(':')
	}
	sb.WriteByte('\t')
	sb.WriteString(l.Op)

	operands := l.Operands
	if HasNextAddress(l, p.widths) {
		operands = append(operands[:len(operands):len(operands)], fmt.Sprint(p.pc+p.widths.InstructionBytes))
	}
	if len(operands) > 0 {
		sb.WriteByte(' ')
		sb.WriteString(strings.Join(operands, ", "))
	}
	sb.WriteByte('\n')
	io.WriteString(p.w, sb.String())
	p.pc += p.widths.InstructionBytes
}

// Render returns the full text of a compilation: program plus summary.
func Render(b *Buffer) string {
	var sb strings.Builder
	p := NewPrinter(&sb, b.Widths())
	p.PrintProgram(b)
	p.PrintSummary(b.Cost())
	return sb.String()
}
