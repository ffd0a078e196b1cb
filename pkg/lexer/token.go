package lexer

import (
	"strings"

	"github.com/raymyers/isacc/pkg/names"
)

// TokenType represents the type of a token
type TokenType int

const (
	// Special tokens
	TokenEOF TokenType = iota
	TokenIllegal

	// Literals
	TokenIdent  // A, count, Temp0
	TokenNumber // 42, 3.5, -1
	TokenNative // $s0, $zero: operand already in target form

	// Keywords
	TokenIf       // if
	TokenElse     // else
	TokenWhile    // while
	TokenSwitch   // switch
	TokenCase     // case
	TokenDefault  // default
	TokenBreak    // break
	TokenGoto     // goto
	TokenReturn   // return
	TokenTypeName // int, char, void, ...

	// Operators
	TokenPlus   // +
	TokenMinus  // -
	TokenStar   // *
	TokenSlash  // /
	TokenAssign // =
	TokenEq     // ==
	TokenNe     // !=
	TokenLt     // <
	TokenLe     // <=
	TokenGt     // >
	TokenGe     // >=

	// Delimiters
	TokenLParen    // (
	TokenRParen    // )
	TokenLBrace    // {
	TokenRBrace    // }
	TokenLBracket  // [
	TokenRBracket  // ]
	TokenSemicolon // ;
	TokenColon     // :
	TokenComma     // ,
)

var tokenNames = map[TokenType]string{
	TokenEOF:       "EOF",
	TokenIllegal:   "ILLEGAL",
	TokenIdent:     "IDENT",
	TokenNumber:    "NUMBER",
	TokenNative:    "NATIVE",
	TokenIf:        "if",
	TokenElse:      "else",
	TokenWhile:     "while",
	TokenSwitch:    "switch",
	TokenCase:      "case",
	TokenDefault:   "default",
	TokenBreak:     "break",
	TokenGoto:      "goto",
	TokenReturn:    "return",
	TokenTypeName:  "TYPE",
	TokenPlus:      "+",
	TokenMinus:     "-",
	TokenStar:      "*",
	TokenSlash:     "/",
	TokenAssign:    "=",
	TokenEq:        "==",
	TokenNe:        "!=",
	TokenLt:        "<",
	TokenLe:        "<=",
	TokenGt:        ">",
	TokenGe:        ">=",
	TokenLParen:    "(",
	TokenRParen:    ")",
	TokenLBrace:    "{",
	TokenRBrace:    "}",
	TokenLBracket:  "[",
	TokenRBracket:  "]",
	TokenSemicolon: ";",
	TokenColon:     ":",
	TokenComma:     ",",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// Token represents a lexical token. Pos is the byte offset of the token in
// the input it was scanned from.
type Token struct {
	Type    TokenType
	Literal string
	Pos     int
}

// IsOperator reports whether the token is one of the arithmetic operators.
func (t Token) IsOperator() bool {
	switch t.Type {
	case TokenPlus, TokenMinus, TokenStar, TokenSlash:
		return true
	}
	return false
}

// IsComparison reports whether the token is a comparison operator.
func (t Token) IsComparison() bool {
	switch t.Type {
	case TokenEq, TokenNe, TokenLt, TokenLe, TokenGt, TokenGe:
		return true
	}
	return false
}

// IsOperand reports whether the token can stand alone as an instruction operand.
func (t Token) IsOperand() bool {
	return t.Type == TokenIdent || t.Type == TokenNumber || t.Type == TokenNative
}

// LookupIdent returns the token type for an identifier (keyword or IDENT).
// The keyword and type-name sets are the ones names reports; lookup is
// case-insensitive.
func LookupIdent(ident string) TokenType {
	switch {
	case names.IsTypeName(ident):
		return TokenTypeName
	case names.IsKeyword(ident):
		word := strings.ToLower(ident)
		for t := TokenIf; t <= TokenReturn; t++ {
			if tokenNames[t] == word {
				return t
			}
		}
	}
	return TokenIdent
}

// Word builds a standalone token for a synthesized name such as a temporary
// or an argument slot.
func Word(name string) Token {
	if len(name) > 0 && name[0] == '$' {
		return Token{Type: TokenNative, Literal: name, Pos: -1}
	}
	if len(name) > 0 && (isDigit(name[0]) || name[0] == '-') {
		return Token{Type: TokenNumber, Literal: name, Pos: -1}
	}
	return Token{Type: LookupIdent(name), Literal: name, Pos: -1}
}

// Punct builds a synthesized punctuation or operator token.
func Punct(t TokenType) Token {
	return Token{Type: t, Literal: t.String(), Pos: -1}
}
