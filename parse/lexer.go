// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package parse

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gogpu/essl/types"
)

// Lexer tokenizes preprocessed GLSL ES 1.00 source code.
//
// Preprocessing is done by the caller. Directive lines that remain are
// skipped; #extension directives are recorded so the verifier can check
// that an extension was enabled.
type Lexer struct {
	source string
	pos    int
	line   int
	column int
	start  int
	tokens []Token

	// lineStart is true while only whitespace has been seen on the line.
	lineStart  bool
	extensions map[string]string
}

// NewLexer creates a new lexer for the given source.
func NewLexer(source string) *Lexer {
	// Estimate ~1 token per 5 characters of source.
	estTokens := len(source) / 5
	if estTokens < 16 {
		estTokens = 16
	}
	return &Lexer{
		source:     source,
		line:       1,
		column:     1,
		tokens:     make([]Token, 0, estTokens),
		lineStart:  true,
		extensions: make(map[string]string),
	}
}

// Tokenize returns all tokens from the source.
func (l *Lexer) Tokenize() ([]Token, error) {
	for !l.isAtEnd() {
		l.start = l.pos
		l.scanToken()
	}

	l.tokens = append(l.tokens, Token{
		Kind:   TokenEOF,
		Line:   l.line,
		Column: l.column,
	})

	return l.tokens, nil
}

// Extensions returns the #extension directives seen, name to behavior.
func (l *Lexer) Extensions() map[string]string {
	return l.extensions
}

func (l *Lexer) scanToken() {
	r := l.advance()

	if r == '#' && l.lineStart {
		l.directive()
		return
	}
	if r != ' ' && r != '\t' && r != '\r' && r != '\n' {
		l.lineStart = false
	}

	switch r {
	case '(':
		l.addToken(TokenLeftParen)
	case ')':
		l.addToken(TokenRightParen)
	case '{':
		l.addToken(TokenLeftBrace)
	case '}':
		l.addToken(TokenRightBrace)
	case '[':
		l.addToken(TokenLeftBracket)
	case ']':
		l.addToken(TokenRightBracket)
	case ',':
		l.addToken(TokenComma)
	case ':':
		l.addToken(TokenColon)
	case ';':
		l.addToken(TokenSemicolon)
	case '?':
		l.addToken(TokenQuestion)
	case '~':
		l.addToken(TokenTilde)
	case '.':
		if isDigit(l.peek()) {
			l.number()
		} else {
			l.addToken(TokenDot)
		}
	case '%':
		l.addOr('=', TokenPercentEqual, TokenPercent)
	case '^':
		if l.match('^') {
			l.addToken(TokenCaretCaret)
		} else {
			l.addOr('=', TokenCaretEqual, TokenCaret)
		}
	case '+':
		if l.match('+') {
			l.addToken(TokenPlusPlus)
		} else {
			l.addOr('=', TokenPlusEqual, TokenPlus)
		}
	case '-':
		if l.match('-') {
			l.addToken(TokenMinusMinus)
		} else {
			l.addOr('=', TokenMinusEqual, TokenMinus)
		}
	case '*':
		l.addOr('=', TokenStarEqual, TokenStar)
	case '/':
		if l.match('/') {
			// Line comment
			for l.peek() != '\n' && !l.isAtEnd() {
				l.advance()
			}
		} else if l.match('*') {
			l.blockComment()
		} else {
			l.addOr('=', TokenSlashEqual, TokenSlash)
		}
	case '=':
		l.addOr('=', TokenEqualEqual, TokenEqual)
	case '!':
		l.addOr('=', TokenBangEqual, TokenBang)
	case '<':
		if l.match('<') {
			l.addOr('=', TokenLessLessEqual, TokenLessLess)
		} else {
			l.addOr('=', TokenLessEqual, TokenLess)
		}
	case '>':
		if l.match('>') {
			l.addOr('=', TokenGreaterGreaterEqual, TokenGreaterGreater)
		} else {
			l.addOr('=', TokenGreaterEqual, TokenGreater)
		}
	case '&':
		if l.match('&') {
			l.addToken(TokenAmpAmp)
		} else {
			l.addOr('=', TokenAmpEqual, TokenAmpersand)
		}
	case '|':
		if l.match('|') {
			l.addToken(TokenPipePipe)
		} else {
			l.addOr('=', TokenPipeEqual, TokenPipe)
		}

	// Whitespace
	case ' ', '\r', '\t':
	case '\n':
		l.line++
		l.column = 1
		l.lineStart = true

	default:
		if isDigit(r) {
			l.number()
		} else if isAlpha(r) || r == '_' {
			l.identifier()
		} else {
			l.addToken(TokenError)
		}
	}
}

func (l *Lexer) addOr(next rune, ifMatch, otherwise TokenKind) {
	if l.match(next) {
		l.addToken(ifMatch)
	} else {
		l.addToken(otherwise)
	}
}

// directive consumes a preprocessor line, recording #extension.
func (l *Lexer) directive() {
	for l.peek() != '\n' && !l.isAtEnd() {
		l.advance()
	}
	text := strings.TrimSpace(l.source[l.start+1 : l.pos])
	fields := strings.Fields(strings.ReplaceAll(text, ":", " : "))
	if len(fields) == 4 && fields[0] == "extension" && fields[2] == ":" {
		l.extensions[fields[1]] = fields[3]
	}
}

func (l *Lexer) blockComment() {
	for !l.isAtEnd() {
		if l.peek() == '*' && l.peekNext() == '/' {
			l.advance()
			l.advance()
			return
		}
		if l.peek() == '\n' {
			l.advance()
			l.line++
			l.column = 1
			continue
		}
		l.advance()
	}
}

func (l *Lexer) number() {
	// Hexadecimal integers
	if l.source[l.start] == '0' && (l.peek() == 'x' || l.peek() == 'X') {
		l.advance()
		for isHexDigit(l.peek()) {
			l.advance()
		}
		l.addToken(TokenIntLiteral)
		return
	}

	isFloat := l.source[l.start] == '.'
	for isDigit(l.peek()) {
		l.advance()
	}
	if !isFloat && l.peek() == '.' {
		isFloat = true
		l.advance()
		for isDigit(l.peek()) {
			l.advance()
		}
	}
	if l.peek() == 'e' || l.peek() == 'E' {
		next := l.peekNext()
		if isDigit(next) || next == '+' || next == '-' {
			isFloat = true
			l.advance()
			if l.peek() == '+' || l.peek() == '-' {
				l.advance()
			}
			for isDigit(l.peek()) {
				l.advance()
			}
		}
	}

	if isFloat {
		l.addToken(TokenFloatLiteral)
	} else {
		l.addToken(TokenIntLiteral)
	}
}

func (l *Lexer) identifier() {
	for isAlphaNumeric(l.peek()) || l.peek() == '_' {
		l.advance()
	}

	text := l.source[l.start:l.pos]
	if tok, ok := typeKeywords[text]; ok {
		l.tokens = append(l.tokens, Token{
			Kind:   TokenType,
			Lexeme: text,
			Line:   l.line,
			Column: l.column - (l.pos - l.start),
			Type:   tok,
		})
		return
	}
	l.addToken(lookupKeyword(text))
}

var keywords = map[string]TokenKind{
	"attribute": TokenAttribute,
	"const":     TokenConst,
	"uniform":   TokenUniform,
	"varying":   TokenVarying,
	"break":     TokenBreak,
	"continue":  TokenContinue,
	"do":        TokenDo,
	"for":       TokenFor,
	"while":     TokenWhile,
	"if":        TokenIf,
	"else":      TokenElse,
	"in":        TokenIn,
	"out":       TokenOut,
	"inout":     TokenInOut,
	"lowp":      TokenLowp,
	"mediump":   TokenMediump,
	"highp":     TokenHighp,
	"precision": TokenPrecision,
	"invariant": TokenInvariant,
	"discard":   TokenDiscard,
	"return":    TokenReturn,
	"struct":    TokenStruct,
	"true":      TokenBoolLiteral,
	"false":     TokenBoolLiteral,
}

var typeKeywords = map[string]types.Token{
	"void":        types.Void,
	"bool":        types.Bool,
	"bvec2":       types.BVec2,
	"bvec3":       types.BVec3,
	"bvec4":       types.BVec4,
	"int":         types.Int,
	"ivec2":       types.IVec2,
	"ivec3":       types.IVec3,
	"ivec4":       types.IVec4,
	"float":       types.Float,
	"vec2":        types.Vec2,
	"vec3":        types.Vec3,
	"vec4":        types.Vec4,
	"mat2":        types.Mat2,
	"mat3":        types.Mat3,
	"mat4":        types.Mat4,
	"sampler2D":   types.Sampler2D,
	"samplerCube": types.SamplerCube,
}

// reservedKeywords are reserved for future use by GLSL ES 1.00.
var reservedKeywords = map[string]struct{}{
	"asm": {}, "class": {}, "union": {}, "enum": {}, "typedef": {},
	"template": {}, "this": {}, "packed": {}, "goto": {}, "switch": {},
	"default": {}, "inline": {}, "noinline": {}, "volatile": {},
	"public": {}, "static": {}, "extern": {}, "external": {},
	"interface": {}, "flat": {}, "long": {}, "short": {}, "double": {},
	"half": {}, "fixed": {}, "unsigned": {}, "superp": {}, "input": {},
	"output": {}, "hvec2": {}, "hvec3": {}, "hvec4": {}, "dvec2": {},
	"dvec3": {}, "dvec4": {}, "fvec2": {}, "fvec3": {}, "fvec4": {},
	"sampler1D": {}, "sampler3D": {}, "sampler1DShadow": {},
	"sampler2DShadow": {}, "sampler2DRect": {}, "sampler3DRect": {},
	"sampler2DRectShadow": {}, "sizeof": {}, "cast": {}, "namespace": {},
	"using": {},
}

func lookupKeyword(text string) TokenKind {
	if kind, ok := keywords[text]; ok {
		return kind
	}
	if _, ok := reservedKeywords[text]; ok {
		return TokenReserved
	}
	return TokenIdent
}

func (l *Lexer) addToken(kind TokenKind) {
	l.tokens = append(l.tokens, Token{
		Kind:   kind,
		Lexeme: l.source[l.start:l.pos],
		Line:   l.line,
		Column: l.column - (l.pos - l.start),
	})
}

func (l *Lexer) advance() rune {
	r, size := utf8.DecodeRuneInString(l.source[l.pos:])
	l.pos += size
	l.column++
	return r
}

func (l *Lexer) peek() rune {
	if l.isAtEnd() {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.source[l.pos:])
	return r
}

func (l *Lexer) peekNext() rune {
	if l.pos+1 >= len(l.source) {
		return 0
	}
	_, size := utf8.DecodeRuneInString(l.source[l.pos:])
	r, _ := utf8.DecodeRuneInString(l.source[l.pos+size:])
	return r
}

func (l *Lexer) match(expected rune) bool {
	if l.isAtEnd() {
		return false
	}
	r, size := utf8.DecodeRuneInString(l.source[l.pos:])
	if r != expected {
		return false
	}
	l.pos += size
	l.column++
	return true
}

func (l *Lexer) isAtEnd() bool {
	return l.pos >= len(l.source)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func isAlpha(r rune) bool {
	return r < utf8.RuneSelf && unicode.IsLetter(r)
}

func isAlphaNumeric(r rune) bool {
	return isAlpha(r) || isDigit(r)
}
