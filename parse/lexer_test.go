// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package parse

import (
	"testing"

	"github.com/gogpu/essl/types"
)

func TestLexerOperators(t *testing.T) {
	tests := []struct {
		input string
		want  []TokenKind
	}{
		{"a += b", []TokenKind{TokenIdent, TokenPlusEqual, TokenIdent}},
		{"a && b || c ^^ d", []TokenKind{TokenIdent, TokenAmpAmp, TokenIdent, TokenPipePipe, TokenIdent, TokenCaretCaret, TokenIdent}},
		{"x <<= 2", []TokenKind{TokenIdent, TokenLessLessEqual, TokenIntLiteral}},
		{"i++ --j", []TokenKind{TokenIdent, TokenPlusPlus, TokenMinusMinus, TokenIdent}},
		{"c ? a : b", []TokenKind{TokenIdent, TokenQuestion, TokenIdent, TokenColon, TokenIdent}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens, err := NewLexer(tt.input).Tokenize()
			if err != nil {
				t.Fatalf("Tokenize failed: %v", err)
			}
			if len(tokens) != len(tt.want)+1 {
				t.Fatalf("got %d tokens, want %d", len(tokens), len(tt.want)+1)
			}
			for i, kind := range tt.want {
				if tokens[i].Kind != kind {
					t.Errorf("token %d = %v, want %v", i, tokens[i].Kind, kind)
				}
			}
		})
	}
}

func TestLexerNumbers(t *testing.T) {
	tests := []struct {
		input string
		kind  TokenKind
	}{
		{"42", TokenIntLiteral},
		{"0x1F", TokenIntLiteral},
		{"1.0", TokenFloatLiteral},
		{".5", TokenFloatLiteral},
		{"2.", TokenFloatLiteral},
		{"1e3", TokenFloatLiteral},
		{"1.5e-2", TokenFloatLiteral},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens, _ := NewLexer(tt.input).Tokenize()
			if tokens[0].Kind != tt.kind {
				t.Errorf("kind = %v, want %v", tokens[0].Kind, tt.kind)
			}
			if tokens[0].Lexeme != tt.input {
				t.Errorf("lexeme = %q, want %q", tokens[0].Lexeme, tt.input)
			}
		})
	}
}

func TestLexerKeywordsAndTypes(t *testing.T) {
	tokens, _ := NewLexer("uniform highp vec4 color; sampler2D tex; goto").Tokenize()

	if tokens[0].Kind != TokenUniform {
		t.Errorf("token 0 = %v, want uniform", tokens[0].Kind)
	}
	if tokens[1].Kind != TokenHighp {
		t.Errorf("token 1 = %v, want highp", tokens[1].Kind)
	}
	if tokens[2].Kind != TokenType || tokens[2].Type != types.Vec4 {
		t.Errorf("token 2 = %v/%v, want vec4 type", tokens[2].Kind, tokens[2].Type)
	}
	if tokens[5].Type != types.Sampler2D {
		t.Errorf("token 5 type = %v, want sampler2D", tokens[5].Type)
	}
	if tokens[8].Kind != TokenReserved {
		t.Errorf("goto = %v, want reserved", tokens[8].Kind)
	}
}

func TestLexerPositions(t *testing.T) {
	tokens, _ := NewLexer("a\n  bb").Tokenize()
	if tokens[1].Line != 2 || tokens[1].Column != 3 {
		t.Errorf("position = %d:%d, want 2:3", tokens[1].Line, tokens[1].Column)
	}
}

func TestLexerDirectives(t *testing.T) {
	src := "#version 100\n#extension GL_OES_standard_derivatives : enable\nfloat x;\n"
	l := NewLexer(src)
	tokens, _ := l.Tokenize()

	if tokens[0].Kind != TokenType || tokens[0].Line != 3 {
		t.Errorf("first token = %v at line %d, want float at line 3", tokens[0].Kind, tokens[0].Line)
	}
	if got := l.Extensions()["GL_OES_standard_derivatives"]; got != "enable" {
		t.Errorf("extension behavior = %q, want enable", got)
	}
}

func TestLexerComments(t *testing.T) {
	tokens, _ := NewLexer("a // line\n/* block\n */ b").Tokenize()
	if len(tokens) != 3 {
		t.Fatalf("got %d tokens, want 3", len(tokens))
	}
	if tokens[1].Lexeme != "b" || tokens[1].Line != 3 {
		t.Errorf("token = %q at line %d, want b at line 3", tokens[1].Lexeme, tokens[1].Line)
	}
}
