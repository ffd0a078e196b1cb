package lexer

import "testing"

func TestSegmentStatements(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "simple statements",
			input: "A = B + C;\nD = A;",
			want:  []string{"A = B + C;", "D = A;"},
		},
		{
			name:  "bare terminators dropped",
			input: "A = 1;;  ; \n B = 2;",
			want:  []string{"A = 1;", "B = 2;"},
		},
		{
			name:  "closing brace terminates",
			input: "int f(int x) {\nreturn x;\n}",
			want:  []string{"int f(int x) { return x;", "}"},
		},
		{
			name:  "trailing text without terminator",
			input: "A = 1; B = 2",
			want:  []string{"A = 1;", "B = 2"},
		},
		{
			name:  "whitespace only",
			input: " \n\t ",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SegmentStatements(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d segments %q, want %d %q", len(got), got, len(tt.want), tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("segment %d: got %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSplitKeepsPositions(t *testing.T) {
	src := "A = 1;\nB = 2;"
	stmts := Split(Tokenize(src))
	if len(stmts) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(stmts))
	}
	if stmts[0].Pos != 0 || stmts[1].Pos != 7 {
		t.Errorf("positions: got %d and %d", stmts[0].Pos, stmts[1].Pos)
	}
	if stmts[1].Text() != "B = 2;" {
		t.Errorf("text: got %q", stmts[1].Text())
	}
}

func TestBraceDepth(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"switch (X) { case 0: A = 1;", 1},
		{"}", -1},
		{"{ { } }", 0},
		{"A = 1;", 0},
	}
	for _, tt := range tests {
		if got := BraceDepth(Tokenize(tt.input)); got != tt.want {
			t.Errorf("BraceDepth(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestRender(t *testing.T) {
	tests := []string{
		"A = B + C;",
		"f(A, B);",
		"X = A[I];",
		"if (A == B) goto L1;",
		"L0: A = 1;",
		"int f(int x) {",
	}
	for _, src := range tests {
		if got := Render(Tokenize(src)); got != src {
			t.Errorf("Render(%q) = %q", src, got)
		}
	}
}
