package lexer

import "strings"

// Statement is one segmented statement: an immutable token slice plus the
// byte offset of its first token in the source it was split from.
type Statement struct {
	Tokens []Token
	Pos    int
}

// Text renders the statement back to a canonical source form.
func (s Statement) Text() string {
	return Render(s.Tokens)
}

// Split segments tokens into statements, cutting after every ';' and '}'.
// Segments made only of ';' are dropped.
func Split(toks []Token) []Statement {
	var stmts []Statement
	start := 0
	flush := func(end int) {
		seg := toks[start:end]
		start = end
		if isBlank(seg) {
			return
		}
		stmts = append(stmts, Statement{Tokens: seg, Pos: seg[0].Pos})
	}
	for i, tok := range toks {
		if tok.Type == TokenSemicolon || tok.Type == TokenRBrace {
			flush(i + 1)
		}
	}
	if start < len(toks) {
		flush(len(toks))
	}
	return stmts
}

func isBlank(seg []Token) bool {
	for _, tok := range seg {
		if tok.Type != TokenSemicolon {
			return false
		}
	}
	return true
}

// SegmentStatements splits raw source into statement strings at semicolons
// and closing braces, with newlines collapsed. Whitespace-only segments and
// bare terminators are dropped.
func SegmentStatements(source string) []string {
	toks := Tokenize(source)
	var out []string
	for _, stmt := range Split(toks) {
		first := stmt.Tokens[0]
		last := stmt.Tokens[len(stmt.Tokens)-1]
		text := source[first.Pos : last.Pos+len(last.Literal)]
		text = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(text)
		out = append(out, text)
	}
	return out
}

// BraceDepth returns the net '{' minus '}' count of toks.
func BraceDepth(toks []Token) int {
	depth := 0
	for _, tok := range toks {
		switch tok.Type {
		case TokenLBrace:
			depth++
		case TokenRBrace:
			depth--
		}
	}
	return depth
}

// Render joins token literals into readable source text.
func Render(toks []Token) string {
	var sb strings.Builder
	for i, tok := range toks {
		if i > 0 && needsSpace(toks[i-1], tok) {
			sb.WriteByte(' ')
		}
		sb.WriteString(tok.Literal)
	}
	return sb.String()
}

func needsSpace(prev, cur Token) bool {
	switch cur.Type {
	case TokenSemicolon, TokenComma, TokenRParen, TokenRBracket, TokenColon, TokenLBracket:
		return false
	case TokenLParen:
		return prev.Type != TokenIdent
	}
	switch prev.Type {
	case TokenLParen, TokenLBracket:
		return false
	}
	return true
}
