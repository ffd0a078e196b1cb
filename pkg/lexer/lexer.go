package lexer

import (
	"unicode"
)

// Lexer tokenizes source statements
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // next reading position
	ch      byte // current character
	line    int
}

// New creates a new Lexer for the given input
func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0 // EOF
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++

	if l.ch == '\n' {
		l.line++
	}
}

func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

// Line returns the current line number (1-based).
func (l *Lexer) Line() int {
	return l.line
}

// NextToken returns the next token from the input
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()
	if start, ok := l.skipComments(); !ok {
		return Token{Type: TokenIllegal, Literal: "/*", Pos: start}
	}
	l.skipWhitespace()

	tok := Token{Pos: l.pos}

	switch l.ch {
	case 0:
		tok.Type = TokenEOF
		tok.Literal = ""
		tok.Pos = len(l.input)
		return tok
	case '+':
		tok = l.newToken(TokenPlus)
	case '-':
		tok = l.newToken(TokenMinus)
	case '*':
		tok = l.newToken(TokenStar)
	case '/':
		tok = l.newToken(TokenSlash)
	case '=':
		if l.peekChar() == '=' {
			tok = Token{Type: TokenEq, Literal: "==", Pos: l.pos}
			l.readChar()
		} else {
			tok = l.newToken(TokenAssign)
		}
	case '!':
		if l.peekChar() == '=' {
			tok = Token{Type: TokenNe, Literal: "!=", Pos: l.pos}
			l.readChar()
		} else {
			tok = l.newToken(TokenIllegal)
		}
	case '<':
		if l.peekChar() == '=' {
			tok = Token{Type: TokenLe, Literal: "<=", Pos: l.pos}
			l.readChar()
		} else {
			tok = l.newToken(TokenLt)
		}
	case '>':
		if l.peekChar() == '=' {
			tok = Token{Type: TokenGe, Literal: ">=", Pos: l.pos}
			l.readChar()
		} else {
			tok = l.newToken(TokenGt)
		}
	case '(':
		tok = l.newToken(TokenLParen)
	case ')':
		tok = l.newToken(TokenRParen)
	case '{':
		tok = l.newToken(TokenLBrace)
	case '}':
		tok = l.newToken(TokenRBrace)
	case '[':
		tok = l.newToken(TokenLBracket)
	case ']':
		tok = l.newToken(TokenRBracket)
	case ';':
		tok = l.newToken(TokenSemicolon)
	case ':':
		tok = l.newToken(TokenColon)
	case ',':
		tok = l.newToken(TokenComma)
	case '$':
		tok.Type = TokenNative
		tok.Literal = l.readNative()
		return tok
	default:
		if isLetter(l.ch) {
			tok.Literal = l.readIdentifier()
			tok.Type = LookupIdent(tok.Literal)
			return tok
		} else if isDigit(l.ch) {
			tok.Type = TokenNumber
			tok.Literal = l.readNumber()
			return tok
		} else {
			tok = l.newToken(TokenIllegal)
		}
	}

	l.readChar()
	return tok
}

func (l *Lexer) newToken(tokenType TokenType) Token {
	return Token{Type: tokenType, Literal: string(l.ch), Pos: l.pos}
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

// skipComments skips // and /* */ comments. It returns false and the offset
// of the opening delimiter when a block comment is never closed.
func (l *Lexer) skipComments() (int, bool) {
	for l.ch == '/' {
		if l.peekChar() == '/' {
			// Single-line comment
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
			l.skipWhitespace()
		} else if l.peekChar() == '*' {
			// Multi-line comment
			start := l.pos
			l.readChar() // consume /
			l.readChar() // consume *
			for {
				if l.ch == 0 {
					return start, false
				}
				if l.ch == '*' && l.peekChar() == '/' {
					l.readChar() // consume *
					l.readChar() // consume /
					break
				}
				l.readChar()
			}
			l.skipWhitespace()
		} else {
			break
		}
	}
	return 0, true
}

func (l *Lexer) readIdentifier() string {
	pos := l.pos
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[pos:l.pos]
}

// readNumber reads an integer or a decimal literal; the fractional part stays
// in the same token.
func (l *Lexer) readNumber() string {
	pos := l.pos
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	return l.input[pos:l.pos]
}

// readNative reads a register-style operand such as $s0 or $zero.
func (l *Lexer) readNative() string {
	pos := l.pos
	l.readChar() // consume $
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[pos:l.pos]
}

func isLetter(ch byte) bool {
	return unicode.IsLetter(rune(ch)) || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

// Tokenize scans the whole input and returns its tokens, EOF excluded.
func Tokenize(input string) []Token {
	l := New(input)
	var toks []Token
	for {
		tok := l.NextToken()
		if tok.Type == TokenEOF {
			return toks
		}
		toks = append(toks, tok)
	}
}
