// Package names allocates temporaries and branch labels and remembers which
// identifiers are labels.
package names

import (
	"fmt"
	"strings"
)

// Kind selects the family of a synthesized label.
type Kind int

const (
	True Kind = iota // if: taken branch
	Exit             // while/switch/if: continuation
	Loop             // while: loop head
	Case             // switch: case body
)

var kindPrefix = [...]string{
	True: "True",
	Exit: "Exit",
	Loop: "Loop",
	Case: "L",
}

// Namespace is the per-compilation name allocator.
type Namespace struct {
	tempName func(int) string
	temps    []string
	queues   [len(kindPrefix)][]string
	known    map[string]bool
}

// New creates a namespace. tempName turns a temporary index into its
// architecture-specific spelling (Temp0, $t0, ...).
func New(tempName func(int) string) *Namespace {
	n := &Namespace{tempName: tempName}
	n.Reset()
	return n
}

// Reset forgets every temporary and label.
func (n *Namespace) Reset() {
	n.temps = n.temps[:0]
	for i := range n.queues {
		n.queues[i] = nil
	}
	n.known = make(map[string]bool)
}

// NewTemporary allocates the next temporary. Its index is the number of
// temporaries currently outstanding.
func (n *Namespace) NewTemporary() string {
	name := n.tempName(len(n.temps))
	n.temps = append(n.temps, name)
	return name
}

// Release frees the most recently allocated temporary. Releasing out of
// allocation order is a programming error.
func (n *Namespace) Release(name string) {
	if len(n.temps) == 0 || n.temps[len(n.temps)-1] != name {
		panic(fmt.Sprintf("names: release of %q out of order (outstanding %v)", name, n.temps))
	}
	n.temps = n.temps[:len(n.temps)-1]
}

// Outstanding returns the number of live temporaries.
func (n *Namespace) Outstanding() int {
	return len(n.temps)
}

// ReleaseTo frees temporaries, newest first, until only mark remain.
func (n *Namespace) ReleaseTo(mark int) {
	for len(n.temps) > mark {
		n.Release(n.temps[len(n.temps)-1])
	}
}

// NewLabel creates a fresh label of the given kind and records it as known.
// Indices grow for the whole compilation; a label is never handed out twice.
func (n *Namespace) NewLabel(k Kind) string {
	name := fmt.Sprintf("%s%d", kindPrefix[k], len(n.queues[k]))
	n.queues[k] = append(n.queues[k], name)
	n.known[name] = true
	return name
}

// AddLabel records a user label or function name.
func (n *Namespace) AddLabel(name string) {
	n.known[name] = true
}

// IsLabel reports whether name is a known label.
func (n *Namespace) IsLabel(name string) bool {
	return n.known[name]
}

var keywords = map[string]bool{
	"goto":    true,
	"if":      true,
	"else":    true,
	"while":   true,
	"switch":  true,
	"case":    true,
	"default": true,
	"break":   true,
	"return":  true,
}

var typeNames = map[string]bool{
	"byte":    true,
	"short":   true,
	"int":     true,
	"long":    true,
	"float":   true,
	"double":  true,
	"boolean": true,
	"char":    true,
	"void":    true,
}

// IsKeyword reports whether word is a control keyword.
func IsKeyword(word string) bool {
	return keywords[strings.ToLower(word)]
}

// IsTypeName reports whether word names a primitive type.
func IsTypeName(word string) bool {
	return typeNames[strings.ToLower(word)]
}
