package backend

import (
	"fmt"
	"strconv"

	"github.com/raymyers/isacc/pkg/emit"
	"github.com/raymyers/isacc/pkg/isa"
)

const wordSize = 4

// loadStore is the register-file model: variables are loaded into $s
// registers on first use and stored back with sw, temporaries live in $t
// registers and calls use $a/$v0/$ra with explicit stack-pointer moves.
//
// A loaded register is only trusted within straight-line code. Every label
// and every call forgets the bindings, so the next use reloads the variable
// on the path that reaches it.
type loadStore struct {
	layout Layout
	out    *emit.Buffer

	regs  map[string]string // variable -> $sN
	homes map[string]string // $sN -> variable
}

func (l *loadStore) ID() isa.ID { return isa.LoadStore }

func (l *loadStore) Reset(out *emit.Buffer) {
	l.out = out
	l.forget()
}

// forget drops every register binding. Memory is always current because
// each assignment is stored back immediately.
func (l *loadStore) forget() {
	l.regs = make(map[string]string)
	l.homes = make(map[string]string)
}

func (l *loadStore) Bind(name string) string {
	if name == "" || name[0] == '$' || isNumber(name) {
		return name
	}
	if r, ok := l.regs[name]; ok {
		return r
	}
	r := fmt.Sprintf("$s%d", len(l.regs))
	l.regs[name] = r
	l.homes[r] = name
	l.out.Write("lw", r, indexed(name, "$zero"))
	return r
}

func isNumber(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

func (l *loadStore) Temp(i int) string { return fmt.Sprintf("$t%d", i) }

func (l *loadStore) ReturnValue() string { return "$v0" }

func (l *loadStore) ReturnAddress(int) string { return "$ra" }

func (l *loadStore) ArgSlot(i int) string { return fmt.Sprintf("$a%d", i) }

func (l *loadStore) Op(op, r, a, b string) { l.out.Write(op, r, a, b) }

func (l *loadStore) Move(r, a string) { l.out.Write("add", r, a, "$zero") }

// Store writes a variable register back to memory. Temporaries, argument
// and return registers have no home; sub-expression results are never
// stored.
func (l *loadStore) Store(r string, sub bool) {
	if sub {
		return
	}
	if home, ok := l.homes[r]; ok {
		l.out.Write("sw", r, indexed(home, "$zero"))
	}
}

func (l *loadStore) Label(name string) {
	l.forget()
	l.out.Label(name)
}

func (l *loadStore) Jump(label string) { l.out.Write("j", label) }

func (l *loadStore) JumpRegister(r string) { l.out.Write("jr", r) }

func (l *loadStore) Branch(c Cond, a, b, target, scratch string) {
	switch c {
	case Eq:
		l.out.Write("beq", a, b, target)
	case Ne:
		l.out.Write("bne", a, b, target)
	case Lt:
		l.out.Write("slt", scratch, a, b)
		l.out.Write("bne", scratch, "$zero", target)
	case Ge:
		l.out.Write("slt", scratch, a, b)
		l.out.Write("beq", scratch, "$zero", target)
	}
}

func (l *loadStore) ArrayLoad(dst, base, index, scratch string) {
	if off, ok := constIndex(index, l.layout.ElementSize); ok {
		l.out.Write("lw", dst, indexed(off, base))
		return
	}
	elementAddress(l.out, scratch, index, base, l.layout.ElementSize)
	l.out.Write("lw", dst, indexed("0", scratch))
}

func (l *loadStore) ArrayStore(base, index, src, scratch string) {
	if off, ok := constIndex(index, l.layout.ElementSize); ok {
		l.out.Write("sw", src, indexed(off, base))
		return
	}
	elementAddress(l.out, scratch, index, base, l.layout.ElementSize)
	l.out.Write("sw", src, indexed("0", scratch))
}

// SaveFrame grows the stack by one word per slot and spills the slots into
// it. Offsets are relative to $sp, so base is not needed.
func (l *loadStore) SaveFrame(slots []string, _ int) {
	l.out.Write("subi", "$sp", "$sp", strconv.Itoa(wordSize*len(slots)))
	for i, s := range slots {
		l.out.Write("sw", s, indexed(strconv.Itoa(wordSize*i), "$sp"))
	}
}

func (l *loadStore) PassArg(i int, value string) {
	l.out.Write("add", l.ArgSlot(i), value, "$zero")
}

// Call jumps and links. The callee may change any variable or $s register.
func (l *loadStore) Call(name string) {
	l.out.Write("jal", name)
	l.forget()
}

func (l *loadStore) RestoreFrame(slots []string, _ int) {
	for i, s := range slots {
		l.out.Write("lw", s, indexed(strconv.Itoa(wordSize*i), "$sp"))
	}
	l.out.Write("addi", "$sp", "$sp", strconv.Itoa(wordSize*len(slots)))
}

func (l *loadStore) Return() {
	l.out.Write("jr", "$ra")
	l.forget()
}
