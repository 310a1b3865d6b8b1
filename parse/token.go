// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package parse

import (
	"fmt"

	"github.com/gogpu/essl/types"
)

// TokenKind represents the type of token.
type TokenKind uint8

const (
	TokenEOF TokenKind = iota
	TokenError

	// Literals
	TokenIdent
	TokenIntLiteral
	TokenFloatLiteral
	TokenBoolLiteral

	// Operators
	TokenPlus                // +
	TokenMinus               // -
	TokenStar                // *
	TokenSlash               // /
	TokenPercent             // %
	TokenAmpersand           // &
	TokenPipe                // |
	TokenCaret               // ^
	TokenTilde               // ~
	TokenBang                // !
	TokenEqual               // =
	TokenLess                // <
	TokenGreater             // >
	TokenDot                 // .
	TokenComma               // ,
	TokenColon               // :
	TokenSemicolon           // ;
	TokenQuestion            // ?
	TokenPlusPlus            // ++
	TokenMinusMinus          // --
	TokenEqualEqual          // ==
	TokenBangEqual           // !=
	TokenLessEqual           // <=
	TokenGreaterEqual        // >=
	TokenAmpAmp              // &&
	TokenPipePipe            // ||
	TokenCaretCaret          // ^^
	TokenLessLess            // <<
	TokenGreaterGreater      // >>
	TokenPlusEqual           // +=
	TokenMinusEqual          // -=
	TokenStarEqual           // *=
	TokenSlashEqual          // /=
	TokenPercentEqual        // %=
	TokenAmpEqual            // &=
	TokenPipeEqual           // |=
	TokenCaretEqual          // ^=
	TokenLessLessEqual       // <<=
	TokenGreaterGreaterEqual // >>=

	// Delimiters
	TokenLeftParen    // (
	TokenRightParen   // )
	TokenLeftBrace    // {
	TokenRightBrace   // }
	TokenLeftBracket  // [
	TokenRightBracket // ]

	// Keywords
	TokenAttribute
	TokenConst
	TokenUniform
	TokenVarying
	TokenBreak
	TokenContinue
	TokenDo
	TokenFor
	TokenWhile
	TokenIf
	TokenElse
	TokenIn
	TokenOut
	TokenInOut
	TokenLowp
	TokenMediump
	TokenHighp
	TokenPrecision
	TokenInvariant
	TokenDiscard
	TokenReturn
	TokenStruct

	// TokenType is a basic type keyword; Token.Type holds which one.
	TokenType

	// TokenReserved is a keyword reserved for future use.
	TokenReserved
)

var tokenNames = map[TokenKind]string{
	TokenEOF:          "end of file",
	TokenError:        "invalid character",
	TokenIdent:        "identifier",
	TokenIntLiteral:   "integer literal",
	TokenFloatLiteral: "float literal",
	TokenBoolLiteral:  "bool literal",
	TokenLeftParen:    "'('",
	TokenRightParen:   "')'",
	TokenLeftBrace:    "'{'",
	TokenRightBrace:   "'}'",
	TokenLeftBracket:  "'['",
	TokenRightBracket: "']'",
	TokenSemicolon:    "';'",
	TokenComma:        "','",
	TokenColon:        "':'",
	TokenEqual:        "'='",
	TokenType:         "type name",
	TokenReserved:     "reserved keyword",
}

func (k TokenKind) String() string {
	if s, ok := tokenNames[k]; ok {
		return s
	}
	return fmt.Sprintf("token(%d)", uint8(k))
}

// Token represents a lexical token.
type Token struct {
	Kind   TokenKind
	Lexeme string
	Line   int
	Column int

	// Type is set for TokenType.
	Type types.Token
}

func (t Token) String() string {
	if t.Lexeme != "" {
		return fmt.Sprintf("%q", t.Lexeme)
	}
	return t.Kind.String()
}
