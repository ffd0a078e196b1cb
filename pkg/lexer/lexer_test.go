package lexer

import (
	"testing"

	"github.com/raymyers/isacc/pkg/names"
)

func TestNextToken(t *testing.T) {
	input := `A = B + C;`

	tests := []struct {
		expectedType    TokenType
		expectedLiteral string
	}{
		{TokenIdent, "A"},
		{TokenAssign, "="},
		{TokenIdent, "B"},
		{TokenPlus, "+"},
		{TokenIdent, "C"},
		{TokenSemicolon, ";"},
		{TokenEOF, ""},
	}

	l := New(input)

	for i, tt := range tests {
		tok := l.NextToken()

		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q",
				i, tt.expectedType, tok.Type)
		}

		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q",
				i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestOperators(t *testing.T) {
	input := `+ - * / = == != < <= > >= ( ) { } [ ] ; : ,`

	tests := []struct {
		expectedType    TokenType
		expectedLiteral string
	}{
		{TokenPlus, "+"},
		{TokenMinus, "-"},
		{TokenStar, "*"},
		{TokenSlash, "/"},
		{TokenAssign, "="},
		{TokenEq, "=="},
		{TokenNe, "!="},
		{TokenLt, "<"},
		{TokenLe, "<="},
		{TokenGt, ">"},
		{TokenGe, ">="},
		{TokenLParen, "("},
		{TokenRParen, ")"},
		{TokenLBrace, "{"},
		{TokenRBrace, "}"},
		{TokenLBracket, "["},
		{TokenRBracket, "]"},
		{TokenSemicolon, ";"},
		{TokenColon, ":"},
		{TokenComma, ","},
		{TokenEOF, ""},
	}

	l := New(input)

	for i, tt := range tests {
		tok := l.NextToken()

		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q",
				i, tt.expectedType, tok.Type)
		}

		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q",
				i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestKeywordsAndTypes(t *testing.T) {
	tests := []struct {
		input string
		want  TokenType
	}{
		{"if", TokenIf},
		{"IF", TokenIf},
		{"else", TokenElse},
		{"while", TokenWhile},
		{"switch", TokenSwitch},
		{"case", TokenCase},
		{"default", TokenDefault},
		{"break", TokenBreak},
		{"goto", TokenGoto},
		{"Goto", TokenGoto},
		{"return", TokenReturn},
		{"int", TokenTypeName},
		{"boolean", TokenTypeName},
		{"void", TokenTypeName},
		{"counter", TokenIdent},
		{"Temp0", TokenIdent},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			toks := Tokenize(tt.input)
			if len(toks) != 1 {
				t.Fatalf("expected 1 token, got %d", len(toks))
			}
			if toks[0].Type != tt.want {
				t.Errorf("got %v, want %v", toks[0].Type, tt.want)
			}
		})
	}
}

func TestNumbersAndNatives(t *testing.T) {
	tests := []struct {
		input   string
		typ     TokenType
		literal string
	}{
		{"42", TokenNumber, "42"},
		{"3.25", TokenNumber, "3.25"},
		{"$s0", TokenNative, "$s0"},
		{"$zero", TokenNative, "$zero"},
		{"$a12", TokenNative, "$a12"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			toks := Tokenize(tt.input)
			if len(toks) != 1 {
				t.Fatalf("expected 1 token, got %d: %v", len(toks), toks)
			}
			if toks[0].Type != tt.typ || toks[0].Literal != tt.literal {
				t.Errorf("got %v %q, want %v %q", toks[0].Type, toks[0].Literal, tt.typ, tt.literal)
			}
		})
	}
}

func TestNumberFollowedByDotIsNotDecimal(t *testing.T) {
	toks := Tokenize("3.")
	if len(toks) != 2 {
		t.Fatalf("expected 2 tokens, got %d", len(toks))
	}
	if toks[0].Literal != "3" || toks[1].Type != TokenIllegal {
		t.Errorf("unexpected tokens %v", toks)
	}
}

func TestComments(t *testing.T) {
	input := `A = 1; // trailing
/* block
   comment */ B = 2;`

	toks := Tokenize(input)
	var lits []string
	for _, tok := range toks {
		lits = append(lits, tok.Literal)
	}
	want := []string{"A", "=", "1", ";", "B", "=", "2", ";"}
	if len(lits) != len(want) {
		t.Fatalf("got %v, want %v", lits, want)
	}
	for i := range want {
		if lits[i] != want[i] {
			t.Errorf("token %d: got %q, want %q", i, lits[i], want[i])
		}
	}
}

func TestUnterminatedComment(t *testing.T) {
	toks := Tokenize("A = 1; /* open\nB = 2;")
	if len(toks) != 5 {
		t.Fatalf("expected 5 tokens, got %d: %v", len(toks), toks)
	}
	last := toks[4]
	if last.Type != TokenIllegal || last.Literal != "/*" || last.Pos != 7 {
		t.Errorf("got %v %q at %d, want ILLEGAL \"/*\" at 7", last.Type, last.Literal, last.Pos)
	}
}

// Every keyword names knows about must lex to the token spelled the same way.
func TestKeywordsMatchNames(t *testing.T) {
	for typ := TokenIf; typ <= TokenReturn; typ++ {
		word := typ.String()
		if !names.IsKeyword(word) {
			t.Errorf("%q is a keyword token but not a keyword", word)
		}
		if got := LookupIdent(word); got != typ {
			t.Errorf("LookupIdent(%q) = %v, want %v", word, got, typ)
		}
	}
	for _, word := range []string{"byte", "short", "long", "float", "double", "char"} {
		if got := LookupIdent(word); got != TokenTypeName {
			t.Errorf("LookupIdent(%q) = %v, want TYPE", word, got)
		}
	}
}

func TestTokenPositions(t *testing.T) {
	toks := Tokenize("A  =\n B;")
	wantPos := []int{0, 3, 6, 7}
	if len(toks) != len(wantPos) {
		t.Fatalf("expected %d tokens, got %d", len(wantPos), len(toks))
	}
	for i, p := range wantPos {
		if toks[i].Pos != p {
			t.Errorf("token %d (%q): pos %d, want %d", i, toks[i].Literal, toks[i].Pos, p)
		}
	}
}

func TestLineTracking(t *testing.T) {
	l := New("A;\nB;\nC;")
	for l.NextToken().Type != TokenEOF {
	}
	if l.Line() != 3 {
		t.Errorf("expected line 3, got %d", l.Line())
	}
}

func TestWord(t *testing.T) {
	if tok := Word("$t0"); tok.Type != TokenNative {
		t.Errorf("$t0: got %v", tok.Type)
	}
	if tok := Word("Temp1"); tok.Type != TokenIdent {
		t.Errorf("Temp1: got %v", tok.Type)
	}
	if tok := Word("-4"); tok.Type != TokenNumber {
		t.Errorf("-4: got %v", tok.Type)
	}
	if tok := Word("returnValue"); tok.Type != TokenIdent {
		t.Errorf("returnValue: got %v", tok.Type)
	}
}
