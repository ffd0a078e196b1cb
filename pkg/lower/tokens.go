package lower

import (
	"github.com/raymyers/isacc/pkg/lexer"
)

// matching returns the index of the token closing the bracket at open.
func matching(toks []lexer.Token, open int) (int, error) {
	var closeType lexer.TokenType
	switch toks[open].Type {
	case lexer.TokenLParen:
		closeType = lexer.TokenRParen
	case lexer.TokenLBracket:
		closeType = lexer.TokenRBracket
	case lexer.TokenLBrace:
		closeType = lexer.TokenRBrace
	default:
		return 0, patternError("expected an opening bracket", toks[open:open+1])
	}
	depth := 0
	for i := open; i < len(toks); i++ {
		switch toks[i].Type {
		case toks[open].Type:
			depth++
		case closeType:
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return 0, patternError("unmatched "+toks[open].Literal, toks)
}

// depthDelta is the nesting change caused by t.
func depthDelta(t lexer.Token) int {
	switch t.Type {
	case lexer.TokenLParen, lexer.TokenLBracket, lexer.TokenLBrace:
		return 1
	case lexer.TokenRParen, lexer.TokenRBracket, lexer.TokenRBrace:
		return -1
	}
	return 0
}

// indexTop returns the first index of a token of type typ outside any
// brackets, or -1.
func indexTop(toks []lexer.Token, typ lexer.TokenType) int {
	depth := 0
	for i, t := range toks {
		if depth == 0 && t.Type == typ {
			return i
		}
		depth += depthDelta(t)
	}
	return -1
}

// splitTop cuts toks at every top-level separator.
func splitTop(toks []lexer.Token, sep lexer.TokenType) [][]lexer.Token {
	if len(toks) == 0 {
		return nil
	}
	var parts [][]lexer.Token
	depth, start := 0, 0
	for i, t := range toks {
		if depth == 0 && t.Type == sep {
			parts = append(parts, toks[start:i])
			start = i + 1
		}
		depth += depthDelta(t)
	}
	return append(parts, toks[start:])
}

// trimTerminator drops trailing semicolons.
func trimTerminator(toks []lexer.Token) []lexer.Token {
	for len(toks) > 0 && toks[len(toks)-1].Type == lexer.TokenSemicolon {
		toks = toks[:len(toks)-1]
	}
	return toks
}

// skipTypes drops leading type names; the flag reports whether any were
// present.
func skipTypes(toks []lexer.Token) ([]lexer.Token, bool) {
	i := 0
	for i < len(toks) && toks[i].Type == lexer.TokenTypeName {
		i++
	}
	return toks[i:], i > 0
}

// isCall reports whether toks is exactly name(...).
func isCall(toks []lexer.Token) bool {
	if len(toks) < 3 || toks[0].Type != lexer.TokenIdent || toks[1].Type != lexer.TokenLParen {
		return false
	}
	end, err := matching(toks, 1)
	return err == nil && end == len(toks)-1
}

// isArrayRef reports whether toks is exactly name[...].
func isArrayRef(toks []lexer.Token) bool {
	if len(toks) < 4 || toks[0].Type != lexer.TokenIdent || toks[1].Type != lexer.TokenLBracket {
		return false
	}
	end, err := matching(toks, 1)
	return err == nil && end == len(toks)-1
}

// isFunctionDecl reports whether toks is [types] name(...) { ... }.
func isFunctionDecl(toks []lexer.Token) bool {
	toks, _ = skipTypes(toks)
	if len(toks) < 4 || toks[0].Type != lexer.TokenIdent || toks[1].Type != lexer.TokenLParen {
		return false
	}
	end, err := matching(toks, 1)
	return err == nil && end+1 < len(toks) && toks[end+1].Type == lexer.TokenLBrace
}

// unaryPosition reports whether a '-' following prev is a sign.
func unaryPosition(prev []lexer.Token) bool {
	if len(prev) == 0 {
		return true
	}
	last := prev[len(prev)-1]
	switch last.Type {
	case lexer.TokenAssign, lexer.TokenReturn, lexer.TokenLParen, lexer.TokenLBracket, lexer.TokenComma:
		return true
	}
	return last.IsOperator() || last.IsComparison()
}

// foldNegatives turns a sign before a number into a negative literal and a
// sign before a name into (0 - name).
func foldNegatives(toks []lexer.Token) []lexer.Token {
	out := make([]lexer.Token, 0, len(toks))
	for i := 0; i < len(toks); i++ {
		t := toks[i]
		if t.Type != lexer.TokenMinus || i+1 >= len(toks) || !unaryPosition(out) {
			out = append(out, t)
			continue
		}
		next := toks[i+1]
		switch next.Type {
		case lexer.TokenNumber:
			out = append(out, lexer.Token{Type: lexer.TokenNumber, Literal: "-" + next.Literal, Pos: t.Pos})
			i++
		case lexer.TokenIdent, lexer.TokenNative:
			out = append(out,
				lexer.Punct(lexer.TokenLParen),
				lexer.Word("0"),
				t,
				next,
				lexer.Punct(lexer.TokenRParen))
			i++
		default:
			out = append(out, t)
		}
	}
	return out
}
