package names

import (
	"fmt"
	"testing"
)

func tempName(i int) string { return fmt.Sprintf("Temp%d", i) }

func TestTemporariesAreStackBalanced(t *testing.T) {
	n := New(tempName)

	a := n.NewTemporary()
	b := n.NewTemporary()
	if a != "Temp0" || b != "Temp1" {
		t.Fatalf("got %q, %q", a, b)
	}
	n.Release(b)
	if c := n.NewTemporary(); c != "Temp1" {
		t.Errorf("reused index: got %q, want Temp1", c)
	}
	n.ReleaseTo(0)
	if n.Outstanding() != 0 {
		t.Errorf("outstanding = %d after ReleaseTo(0)", n.Outstanding())
	}
}

func TestReleaseOutOfOrderPanics(t *testing.T) {
	n := New(tempName)
	a := n.NewTemporary()
	n.NewTemporary()

	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	n.Release(a)
}

func TestLabelsAreNeverReused(t *testing.T) {
	n := New(tempName)

	tests := []struct {
		kind Kind
		want string
	}{
		{True, "True0"},
		{Exit, "Exit0"},
		{True, "True1"},
		{Loop, "Loop0"},
		{Case, "L0"},
		{Case, "L1"},
		{Exit, "Exit1"},
	}
	for _, tt := range tests {
		got := n.NewLabel(tt.kind)
		if got != tt.want {
			t.Errorf("got %q, want %q", got, tt.want)
		}
		if !n.IsLabel(got) {
			t.Errorf("%q not recorded as label", got)
		}
	}
}

func TestKnownLabels(t *testing.T) {
	n := New(tempName)
	n.AddLabel("fact")
	if !n.IsLabel("fact") {
		t.Error("fact should be a label")
	}
	if n.IsLabel("A") {
		t.Error("A should not be a label")
	}
	n.Reset()
	if n.IsLabel("fact") {
		t.Error("Reset should forget labels")
	}
	if got := n.NewLabel(True); got != "True0" {
		t.Errorf("Reset should restart indices, got %q", got)
	}
}

func TestKeywordsAndTypes(t *testing.T) {
	for _, w := range []string{"goto", "If", "while", "return", "default"} {
		if !IsKeyword(w) {
			t.Errorf("IsKeyword(%q) = false", w)
		}
	}
	for _, w := range []string{"int", "Boolean", "void"} {
		if !IsTypeName(w) {
			t.Errorf("IsTypeName(%q) = false", w)
		}
	}
	if IsKeyword("int") || IsTypeName("goto") || IsKeyword("x") {
		t.Error("unexpected membership")
	}
}
