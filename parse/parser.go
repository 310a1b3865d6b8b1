// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package parse builds an unverified syntax tree from preprocessed
// GLSL ES 1.00 source.
package parse

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gogpu/essl/ast"
	"github.com/gogpu/essl/types"
)

// Parser parses GLSL ES tokens into a syntax tree.
type Parser struct {
	tokens  []Token
	current int
	errors  Errors
	tree    *ast.Tree
}

// ParseError represents a parsing error.
type ParseError struct {
	Message string
	Token   Token
}

func (e ParseError) Error() string {
	return fmt.Sprintf("line %d, column %d: %s", e.Token.Line, e.Token.Column, e.Message)
}

// Pos returns the error location.
func (e ParseError) Pos() ast.Position {
	return ast.Position{Line: e.Token.Line, Column: e.Token.Column}
}

// Errors is the list of syntax errors of one source.
type Errors []ParseError

func (e Errors) Error() string {
	if len(e) == 1 {
		return e[0].Error()
	}
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("parsing failed with %d errors:\n%s", len(e), strings.Join(msgs, "\n"))
}

// NewParser creates a new parser for the given tokens.
func NewParser(tokens []Token) *Parser {
	return &Parser{
		tokens: tokens,
		tree:   ast.NewTree(),
	}
}

// Parse tokenizes and parses source. On syntax errors the returned error
// is an Errors value.
func Parse(source string) (*ast.Tree, error) {
	lexer := NewLexer(source)
	tokens, err := lexer.Tokenize()
	if err != nil {
		return nil, err
	}
	p := NewParser(tokens)
	tree, err := p.Parse()
	if tree != nil {
		for name, behavior := range lexer.Extensions() {
			tree.Extensions[name] = behavior
		}
	}
	return tree, err
}

// Parse parses the tokens into a translation unit.
func (p *Parser) Parse() (*ast.Tree, error) {
	for !p.isAtEnd() {
		decl, err := p.external()
		if err != nil {
			p.errors = append(p.errors, *err)
			p.synchronize()
			continue
		}
		if decl != ast.InvalidHandle {
			p.tree.Append(p.tree.Root, decl)
		}
	}

	if len(p.errors) > 0 {
		return p.tree, p.errors
	}
	return p.tree, nil
}

// external parses a top-level declaration or function definition.
func (p *Parser) external() (ast.Handle, *ParseError) {
	switch {
	case p.check(TokenPrecision):
		return p.precisionStatement()
	case p.check(TokenInvariant) && p.peekAt(1).Kind == TokenIdent:
		return p.invariantStatement()
	case p.check(TokenSemicolon):
		p.advance()
		return ast.InvalidHandle, nil
	}
	return p.declaration(true)
}

// precisionStatement parses "precision <qualifier> <type>;".
func (p *Parser) precisionStatement() (ast.Handle, *ParseError) {
	start := p.advance()
	prec, ok := p.precisionQualifier()
	if !ok {
		return ast.InvalidHandle, p.errorAt(p.peek(), "expected precision qualifier")
	}
	if !p.check(TokenType) {
		return ast.InvalidHandle, p.errorAt(p.peek(), "expected type in precision statement")
	}
	tt := p.advance()
	if err := p.expectErr(TokenSemicolon); err != nil {
		return ast.InvalidHandle, err
	}

	h := p.tree.New(ast.KindPrecisionStatement, pos(start))
	p.tree.Node(h).Precision = prec
	p.tree.Append(h, p.tree.NewTypeSpecifier(pos(tt), tt.Type, prec))
	return h, nil
}

// invariantStatement parses "invariant a, b;".
func (p *Parser) invariantStatement() (ast.Handle, *ParseError) {
	start := p.advance()
	h := p.tree.New(ast.KindInvariantStatement, pos(start))
	for {
		name, err := p.identifierToken()
		if err != nil {
			return ast.InvalidHandle, err
		}
		p.tree.Append(h, p.tree.NewIdentifier(pos(name), name.Lexeme))
		if !p.match(TokenComma) {
			break
		}
	}
	if err := p.expectErr(TokenSemicolon); err != nil {
		return ast.InvalidHandle, err
	}
	return h, nil
}

// declaration parses a variable declaration, a struct declaration, or at
// global scope a function prototype or definition.
func (p *Parser) declaration(global bool) (ast.Handle, *ParseError) {
	start := p.peek()
	invariant := p.match(TokenInvariant)
	storage := p.storageQualifier()

	typeSpec, err := p.typeSpecifier()
	if err != nil {
		return ast.InvalidHandle, err
	}

	// Function prototype or definition.
	if p.check(TokenIdent) && p.peekAt(1).Kind == TokenLeftParen {
		if !global {
			return ast.InvalidHandle, p.errorAt(p.peek(), "function declarations are only allowed at global scope")
		}
		if invariant || storage != ast.StorageNone {
			return ast.InvalidHandle, p.errorAt(start, "qualifiers are not allowed on functions")
		}
		return p.function(start, typeSpec)
	}

	decl := p.tree.NewDeclaration(pos(start), storage, typeSpec)
	if invariant {
		p.tree.Node(decl).Flags |= ast.FlagInvariant
	}

	// "struct S { ... };" declares no variables.
	if !p.check(TokenSemicolon) {
		for {
			d, err := p.declarator()
			if err != nil {
				return ast.InvalidHandle, err
			}
			p.tree.Append(decl, d)
			if !p.match(TokenComma) {
				break
			}
		}
	}
	if err := p.expectErr(TokenSemicolon); err != nil {
		return ast.InvalidHandle, err
	}
	return decl, nil
}

func (p *Parser) storageQualifier() ast.Storage {
	switch {
	case p.match(TokenConst):
		return ast.StorageConst
	case p.match(TokenAttribute):
		return ast.StorageAttribute
	case p.match(TokenVarying):
		return ast.StorageVarying
	case p.match(TokenUniform):
		return ast.StorageUniform
	}
	return ast.StorageNone
}

func (p *Parser) precisionQualifier() (types.Precision, bool) {
	switch {
	case p.match(TokenLowp):
		return types.PrecisionLow, true
	case p.match(TokenMediump):
		return types.PrecisionMedium, true
	case p.match(TokenHighp):
		return types.PrecisionHigh, true
	}
	return types.PrecisionUndefined, false
}

// typeSpecifier parses an optionally precision-qualified basic type, type
// name or struct specifier.
func (p *Parser) typeSpecifier() (ast.Handle, *ParseError) {
	start := p.peek()
	prec, _ := p.precisionQualifier()

	switch {
	case p.check(TokenType):
		tt := p.advance()
		return p.tree.NewTypeSpecifier(pos(start), tt.Type, prec), nil
	case p.check(TokenIdent):
		name := p.advance()
		return p.tree.NewNamedTypeSpecifier(pos(start), name.Lexeme, prec), nil
	case p.check(TokenStruct):
		st, err := p.structSpecifier()
		if err != nil {
			return ast.InvalidHandle, err
		}
		h := p.tree.New(ast.KindTypeSpecifier, pos(start))
		p.tree.Node(h).Precision = prec
		p.tree.Append(h, st)
		return h, nil
	case p.check(TokenReserved):
		return ast.InvalidHandle, p.errorAt(p.peek(), fmt.Sprintf("%q is a reserved keyword", p.peek().Lexeme))
	}
	return ast.InvalidHandle, p.errorAt(p.peek(), fmt.Sprintf("unexpected %s, expected type", p.peek()))
}

// structSpecifier parses "struct [name] { members }".
func (p *Parser) structSpecifier() (ast.Handle, *ParseError) {
	start := p.advance()
	h := p.tree.New(ast.KindStructSpecifier, pos(start))
	if p.check(TokenIdent) {
		p.tree.Node(h).Name = p.advance().Lexeme
	}
	if err := p.expectErr(TokenLeftBrace); err != nil {
		return ast.InvalidHandle, err
	}
	for !p.check(TokenRightBrace) && !p.isAtEnd() {
		member, err := p.structMember()
		if err != nil {
			return ast.InvalidHandle, err
		}
		p.tree.Append(h, member)
	}
	if err := p.expectErr(TokenRightBrace); err != nil {
		return ast.InvalidHandle, err
	}
	return h, nil
}

func (p *Parser) structMember() (ast.Handle, *ParseError) {
	start := p.peek()
	storage := p.storageQualifier()
	typeSpec, err := p.typeSpecifier()
	if err != nil {
		return ast.InvalidHandle, err
	}
	decl := p.tree.NewDeclaration(pos(start), storage, typeSpec)
	for {
		d, err := p.declarator()
		if err != nil {
			return ast.InvalidHandle, err
		}
		p.tree.Append(decl, d)
		if !p.match(TokenComma) {
			break
		}
	}
	if err := p.expectErr(TokenSemicolon); err != nil {
		return ast.InvalidHandle, err
	}
	return decl, nil
}

// declarator parses "name [ '[' size ']' ] [ '=' initializer ]".
func (p *Parser) declarator() (ast.Handle, *ParseError) {
	name, err := p.identifierToken()
	if err != nil {
		return ast.InvalidHandle, err
	}
	size, err := p.arraySize()
	if err != nil {
		return ast.InvalidHandle, err
	}
	init := ast.InvalidHandle
	if p.match(TokenEqual) {
		init, err = p.assignment()
		if err != nil {
			return ast.InvalidHandle, err
		}
	}
	return p.tree.NewDeclarator(pos(name), name.Lexeme, size, init), nil
}

func (p *Parser) arraySize() (ast.Handle, *ParseError) {
	if !p.match(TokenLeftBracket) {
		return ast.InvalidHandle, nil
	}
	if p.check(TokenRightBracket) {
		return ast.InvalidHandle, p.errorAt(p.peek(), "unsized arrays are not supported")
	}
	size, err := p.conditional()
	if err != nil {
		return ast.InvalidHandle, err
	}
	if err := p.expectErr(TokenRightBracket); err != nil {
		return ast.InvalidHandle, err
	}
	return size, nil
}

// function parses the rest of a prototype or definition after its return
// type.
func (p *Parser) function(start Token, returnType ast.Handle) (ast.Handle, *ParseError) {
	name := p.advance()
	p.advance() // (

	var params []ast.Handle
	if p.check(TokenType) && p.peek().Type == types.Void && p.peekAt(1).Kind == TokenRightParen {
		p.advance()
	}
	for !p.check(TokenRightParen) && !p.isAtEnd() {
		param, err := p.parameter()
		if err != nil {
			return ast.InvalidHandle, err
		}
		params = append(params, param)
		if !p.match(TokenComma) {
			break
		}
	}
	if err := p.expectErr(TokenRightParen); err != nil {
		return ast.InvalidHandle, err
	}

	proto := p.tree.NewPrototype(pos(name), name.Lexeme, returnType, params...)
	if p.match(TokenSemicolon) {
		return proto, nil
	}
	if !p.check(TokenLeftBrace) {
		return ast.InvalidHandle, p.errorAt(p.peek(), "expected ';' or function body")
	}
	body, err := p.block()
	if err != nil {
		return ast.InvalidHandle, err
	}
	return p.tree.NewFunctionDefinition(pos(start), proto, body), nil
}

// parameter parses "[const] [in|out|inout] type [name] [ '[' size ']' ]".
func (p *Parser) parameter() (ast.Handle, *ParseError) {
	start := p.peek()
	h := p.tree.New(ast.KindParameter, pos(start))
	n := p.tree.Node(h)
	if p.match(TokenConst) {
		n.Storage = ast.StorageConst
	}
	switch {
	case p.match(TokenIn):
		n.Param = ast.ParamIn
	case p.match(TokenOut):
		n.Param = ast.ParamOut
	case p.match(TokenInOut):
		n.Param = ast.ParamInOut
	}

	typeSpec, err := p.typeSpecifier()
	if err != nil {
		return ast.InvalidHandle, err
	}
	p.tree.Append(h, typeSpec)

	if p.check(TokenIdent) {
		name := p.advance()
		n.Name = name.Lexeme
		n.Pos = pos(name)
	}
	size, err := p.arraySize()
	if err != nil {
		return ast.InvalidHandle, err
	}
	if size != ast.InvalidHandle {
		n.Flags |= ast.FlagArraySize
		p.tree.Append(h, size)
	}
	return h, nil
}

// =============================================================================
// Statements
// =============================================================================

func (p *Parser) block() (ast.Handle, *ParseError) {
	start := p.advance() // {
	h := p.tree.NewBlock(pos(start))
	for !p.check(TokenRightBrace) && !p.isAtEnd() {
		stmt, err := p.statement()
		if err != nil {
			return ast.InvalidHandle, err
		}
		p.tree.Append(h, stmt)
	}
	if err := p.expectErr(TokenRightBrace); err != nil {
		return ast.InvalidHandle, err
	}
	return h, nil
}

func (p *Parser) statement() (ast.Handle, *ParseError) {
	tok := p.peek()
	switch tok.Kind {
	case TokenLeftBrace:
		return p.block()
	case TokenIf:
		return p.ifStmt()
	case TokenFor:
		return p.forStmt()
	case TokenWhile:
		return p.whileStmt()
	case TokenDo:
		return p.doWhileStmt()
	case TokenReturn:
		return p.returnStmt()
	case TokenBreak, TokenContinue, TokenDiscard:
		p.advance()
		if err := p.expectErr(TokenSemicolon); err != nil {
			return ast.InvalidHandle, err
		}
		kind := map[TokenKind]ast.Kind{
			TokenBreak:    ast.KindBreak,
			TokenContinue: ast.KindContinue,
			TokenDiscard:  ast.KindDiscard,
		}[tok.Kind]
		return p.tree.New(kind, pos(tok)), nil
	case TokenSemicolon:
		p.advance()
		return p.tree.New(ast.KindEmpty, pos(tok)), nil
	case TokenPrecision:
		return p.precisionStatement()
	}

	if p.startsDeclaration() {
		return p.declaration(false)
	}
	return p.expressionStatement()
}

// startsDeclaration decides between a declaration and an expression
// statement at the current token.
func (p *Parser) startsDeclaration() bool {
	switch p.peek().Kind {
	case TokenConst, TokenAttribute, TokenUniform, TokenVarying, TokenInvariant,
		TokenLowp, TokenMediump, TokenHighp, TokenStruct:
		return true
	case TokenType:
		// vec3(...) starts a constructor expression.
		return p.peekAt(1).Kind != TokenLeftParen
	case TokenIdent:
		// "S s" can only be a declaration.
		return p.peekAt(1).Kind == TokenIdent
	}
	return false
}

func (p *Parser) expressionStatement() (ast.Handle, *ParseError) {
	start := p.peek()
	expr, err := p.expression()
	if err != nil {
		return ast.InvalidHandle, err
	}
	if err := p.expectErr(TokenSemicolon); err != nil {
		return ast.InvalidHandle, err
	}
	return p.tree.NewExpressionStatement(pos(start), expr), nil
}

func (p *Parser) ifStmt() (ast.Handle, *ParseError) {
	start := p.advance()
	if err := p.expectErr(TokenLeftParen); err != nil {
		return ast.InvalidHandle, err
	}
	cond, err := p.expression()
	if err != nil {
		return ast.InvalidHandle, err
	}
	if err := p.expectErr(TokenRightParen); err != nil {
		return ast.InvalidHandle, err
	}
	then, err := p.statement()
	if err != nil {
		return ast.InvalidHandle, err
	}
	els := ast.InvalidHandle
	if p.match(TokenElse) {
		els, err = p.statement()
		if err != nil {
			return ast.InvalidHandle, err
		}
	}
	return p.tree.NewIf(pos(start), cond, then, els), nil
}

func (p *Parser) forStmt() (ast.Handle, *ParseError) {
	start := p.advance()
	if err := p.expectErr(TokenLeftParen); err != nil {
		return ast.InvalidHandle, err
	}

	var init ast.Handle
	var err *ParseError
	switch {
	case p.check(TokenSemicolon):
		init = p.tree.New(ast.KindEmpty, pos(p.advance()))
	case p.startsDeclaration():
		init, err = p.declaration(false)
	default:
		init, err = p.expressionStatement()
	}
	if err != nil {
		return ast.InvalidHandle, err
	}

	cond := p.tree.New(ast.KindEmpty, pos(p.peek()))
	if !p.check(TokenSemicolon) {
		if cond, err = p.expression(); err != nil {
			return ast.InvalidHandle, err
		}
	}
	if err := p.expectErr(TokenSemicolon); err != nil {
		return ast.InvalidHandle, err
	}

	incr := p.tree.New(ast.KindEmpty, pos(p.peek()))
	if !p.check(TokenRightParen) {
		if incr, err = p.expression(); err != nil {
			return ast.InvalidHandle, err
		}
	}
	if err := p.expectErr(TokenRightParen); err != nil {
		return ast.InvalidHandle, err
	}

	body, err := p.statement()
	if err != nil {
		return ast.InvalidHandle, err
	}

	h := p.tree.New(ast.KindFor, pos(start))
	p.tree.Append(h, init)
	p.tree.Append(h, cond)
	p.tree.Append(h, incr)
	p.tree.Append(h, body)
	return h, nil
}

func (p *Parser) whileStmt() (ast.Handle, *ParseError) {
	start := p.advance()
	if err := p.expectErr(TokenLeftParen); err != nil {
		return ast.InvalidHandle, err
	}
	cond, err := p.expression()
	if err != nil {
		return ast.InvalidHandle, err
	}
	if err := p.expectErr(TokenRightParen); err != nil {
		return ast.InvalidHandle, err
	}
	body, err := p.statement()
	if err != nil {
		return ast.InvalidHandle, err
	}
	h := p.tree.New(ast.KindWhile, pos(start))
	p.tree.Append(h, cond)
	p.tree.Append(h, body)
	return h, nil
}

func (p *Parser) doWhileStmt() (ast.Handle, *ParseError) {
	start := p.advance()
	body, err := p.statement()
	if err != nil {
		return ast.InvalidHandle, err
	}
	if err := p.expectErr(TokenWhile); err != nil {
		return ast.InvalidHandle, err
	}
	if err := p.expectErr(TokenLeftParen); err != nil {
		return ast.InvalidHandle, err
	}
	cond, err := p.expression()
	if err != nil {
		return ast.InvalidHandle, err
	}
	if err := p.expectErr(TokenRightParen); err != nil {
		return ast.InvalidHandle, err
	}
	if err := p.expectErr(TokenSemicolon); err != nil {
		return ast.InvalidHandle, err
	}
	h := p.tree.New(ast.KindDoWhile, pos(start))
	p.tree.Append(h, body)
	p.tree.Append(h, cond)
	return h, nil
}

func (p *Parser) returnStmt() (ast.Handle, *ParseError) {
	start := p.advance()
	value := ast.InvalidHandle
	if !p.check(TokenSemicolon) {
		var err *ParseError
		if value, err = p.expression(); err != nil {
			return ast.InvalidHandle, err
		}
	}
	if err := p.expectErr(TokenSemicolon); err != nil {
		return ast.InvalidHandle, err
	}
	return p.tree.NewReturn(pos(start), value), nil
}

// =============================================================================
// Expressions
// =============================================================================

// expression parses a comma-separated expression list.
func (p *Parser) expression() (ast.Handle, *ParseError) {
	left, err := p.assignment()
	if err != nil {
		return ast.InvalidHandle, err
	}
	for p.check(TokenComma) {
		op := p.advance()
		right, err := p.assignment()
		if err != nil {
			return ast.InvalidHandle, err
		}
		left = p.tree.NewBinary(pos(op), ast.OpComma, left, right)
	}
	return left, nil
}

var assignOps = map[TokenKind]ast.Operator{
	TokenEqual:               ast.OpAssign,
	TokenPlusEqual:           ast.OpAddAssign,
	TokenMinusEqual:          ast.OpSubAssign,
	TokenStarEqual:           ast.OpMulAssign,
	TokenSlashEqual:          ast.OpDivAssign,
	TokenPercentEqual:        ast.OpModAssign,
	TokenLessLessEqual:       ast.OpShlAssign,
	TokenGreaterGreaterEqual: ast.OpShrAssign,
	TokenAmpEqual:            ast.OpAndAssign,
	TokenPipeEqual:           ast.OpOrAssign,
	TokenCaretEqual:          ast.OpXorAssign,
}

func (p *Parser) assignment() (ast.Handle, *ParseError) {
	left, err := p.conditional()
	if err != nil {
		return ast.InvalidHandle, err
	}
	if op, ok := assignOps[p.peek().Kind]; ok {
		tok := p.advance()
		right, err := p.assignment()
		if err != nil {
			return ast.InvalidHandle, err
		}
		return p.tree.NewBinary(pos(tok), op, left, right), nil
	}
	return left, nil
}

func (p *Parser) conditional() (ast.Handle, *ParseError) {
	cond, err := p.binary(0)
	if err != nil {
		return ast.InvalidHandle, err
	}
	if !p.check(TokenQuestion) {
		return cond, nil
	}
	q := p.advance()
	a, err := p.expression()
	if err != nil {
		return ast.InvalidHandle, err
	}
	if err := p.expectErr(TokenColon); err != nil {
		return ast.InvalidHandle, err
	}
	b, err := p.assignment()
	if err != nil {
		return ast.InvalidHandle, err
	}
	return p.tree.NewTernary(pos(q), cond, a, b), nil
}

// binaryLevels lists binary operators from lowest to highest precedence.
var binaryLevels = []map[TokenKind]ast.Operator{
	{TokenPipePipe: ast.OpLogicalOr},
	{TokenCaretCaret: ast.OpLogicalXor},
	{TokenAmpAmp: ast.OpLogicalAnd},
	{TokenPipe: ast.OpBitOr},
	{TokenCaret: ast.OpBitXor},
	{TokenAmpersand: ast.OpBitAnd},
	{TokenEqualEqual: ast.OpEqual, TokenBangEqual: ast.OpNotEqual},
	{TokenLess: ast.OpLess, TokenGreater: ast.OpGreater, TokenLessEqual: ast.OpLessEqual, TokenGreaterEqual: ast.OpGreaterEqual},
	{TokenLessLess: ast.OpShl, TokenGreaterGreater: ast.OpShr},
	{TokenPlus: ast.OpAdd, TokenMinus: ast.OpSub},
	{TokenStar: ast.OpMul, TokenSlash: ast.OpDiv, TokenPercent: ast.OpMod},
}

// binary parses left-associative binary operators at the given level.
func (p *Parser) binary(level int) (ast.Handle, *ParseError) {
	if level == len(binaryLevels) {
		return p.unary()
	}
	left, err := p.binary(level + 1)
	if err != nil {
		return ast.InvalidHandle, err
	}
	for {
		op, ok := binaryLevels[level][p.peek().Kind]
		if !ok {
			return left, nil
		}
		tok := p.advance()
		right, err := p.binary(level + 1)
		if err != nil {
			return ast.InvalidHandle, err
		}
		left = p.tree.NewBinary(pos(tok), op, left, right)
	}
}

var unaryOps = map[TokenKind]ast.Operator{
	TokenMinus:      ast.OpNegate,
	TokenPlus:       ast.OpPlus,
	TokenBang:       ast.OpNot,
	TokenTilde:      ast.OpBitNot,
	TokenPlusPlus:   ast.OpPreInc,
	TokenMinusMinus: ast.OpPreDec,
}

func (p *Parser) unary() (ast.Handle, *ParseError) {
	if op, ok := unaryOps[p.peek().Kind]; ok {
		tok := p.advance()
		operand, err := p.unary()
		if err != nil {
			return ast.InvalidHandle, err
		}
		return p.tree.NewUnary(pos(tok), op, operand), nil
	}
	return p.postfix()
}

func (p *Parser) postfix() (ast.Handle, *ParseError) {
	expr, err := p.primary()
	if err != nil {
		return ast.InvalidHandle, err
	}
	for {
		switch {
		case p.check(TokenLeftBracket):
			tok := p.advance()
			index, err := p.expression()
			if err != nil {
				return ast.InvalidHandle, err
			}
			if err := p.expectErr(TokenRightBracket); err != nil {
				return ast.InvalidHandle, err
			}
			expr = p.tree.NewIndex(pos(tok), expr, index)
		case p.check(TokenDot):
			p.advance()
			field, err := p.identifierToken()
			if err != nil {
				return ast.InvalidHandle, err
			}
			expr = p.tree.NewFieldSelection(pos(field), expr, field.Lexeme)
		case p.check(TokenPlusPlus):
			expr = p.tree.NewPostfix(pos(p.advance()), ast.OpPostInc, expr)
		case p.check(TokenMinusMinus):
			expr = p.tree.NewPostfix(pos(p.advance()), ast.OpPostDec, expr)
		default:
			return expr, nil
		}
	}
}

func (p *Parser) primary() (ast.Handle, *ParseError) {
	tok := p.peek()
	switch tok.Kind {
	case TokenIntLiteral:
		p.advance()
		v, err := parseInt(tok.Lexeme)
		if err != nil {
			return ast.InvalidHandle, p.errorAt(tok, err.Error())
		}
		return p.tree.NewIntLiteral(pos(tok), v), nil
	case TokenFloatLiteral:
		p.advance()
		v, err := strconv.ParseFloat(tok.Lexeme, 32)
		if err != nil {
			return ast.InvalidHandle, p.errorAt(tok, fmt.Sprintf("invalid float literal %q", tok.Lexeme))
		}
		return p.tree.NewFloatLiteral(pos(tok), float32(v)), nil
	case TokenBoolLiteral:
		p.advance()
		return p.tree.NewBoolLiteral(pos(tok), tok.Lexeme == "true"), nil
	case TokenIdent:
		p.advance()
		if p.check(TokenLeftParen) {
			return p.callArguments(p.tree.NewCall(pos(tok), tok.Lexeme))
		}
		return p.tree.NewIdentifier(pos(tok), tok.Lexeme), nil
	case TokenType:
		p.advance()
		if !p.check(TokenLeftParen) {
			return ast.InvalidHandle, p.errorAt(p.peek(), fmt.Sprintf("expected '(' after %s", tok.Lexeme))
		}
		return p.callArguments(p.tree.NewConstructor(pos(tok), tok.Type))
	case TokenLeftParen:
		p.advance()
		expr, err := p.expression()
		if err != nil {
			return ast.InvalidHandle, err
		}
		if err := p.expectErr(TokenRightParen); err != nil {
			return ast.InvalidHandle, err
		}
		return expr, nil
	case TokenReserved:
		return ast.InvalidHandle, p.errorAt(tok, fmt.Sprintf("%q is a reserved keyword", tok.Lexeme))
	}
	return ast.InvalidHandle, p.errorAt(tok, fmt.Sprintf("unexpected %s in expression", tok))
}

// callArguments parses "( [void | args] )" into call.
func (p *Parser) callArguments(call ast.Handle) (ast.Handle, *ParseError) {
	p.advance() // (
	if p.check(TokenType) && p.peek().Type == types.Void && p.peekAt(1).Kind == TokenRightParen {
		p.advance()
	}
	for !p.check(TokenRightParen) && !p.isAtEnd() {
		arg, err := p.assignment()
		if err != nil {
			return ast.InvalidHandle, err
		}
		p.tree.Append(call, arg)
		if !p.match(TokenComma) {
			break
		}
	}
	if err := p.expectErr(TokenRightParen); err != nil {
		return ast.InvalidHandle, err
	}
	return call, nil
}

func parseInt(lexeme string) (int32, error) {
	v, err := strconv.ParseInt(lexeme, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid integer literal %q", lexeme)
	}
	isHex := len(lexeme) > 1 && (lexeme[1] == 'x' || lexeme[1] == 'X')
	switch {
	case isHex && v <= math.MaxUint32:
		// Hex literals set the bit pattern.
		return int32(uint32(v)), nil
	case v > math.MaxInt32:
		return 0, fmt.Errorf("integer literal %q is too large", lexeme)
	}
	return int32(v), nil
}

// =============================================================================
// Helpers
// =============================================================================

func pos(t Token) ast.Position {
	return ast.Position{Line: t.Line, Column: t.Column}
}

func (p *Parser) identifierToken() (Token, *ParseError) {
	if p.check(TokenIdent) {
		return p.advance(), nil
	}
	if p.check(TokenReserved) {
		return Token{}, p.errorAt(p.peek(), fmt.Sprintf("%q is a reserved keyword", p.peek().Lexeme))
	}
	return Token{}, p.errorAt(p.peek(), fmt.Sprintf("expected identifier, got %s", p.peek()))
}

func (p *Parser) errorAt(tok Token, msg string) *ParseError {
	return &ParseError{Message: msg, Token: tok}
}

func (p *Parser) advance() Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) peek() Token {
	return p.tokens[p.current]
}

func (p *Parser) peekAt(offset int) Token {
	i := p.current + offset
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[i]
}

func (p *Parser) previous() Token {
	return p.tokens[p.current-1]
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Kind == TokenEOF
}

func (p *Parser) check(kind TokenKind) bool {
	if p.isAtEnd() {
		return false
	}
	return p.peek().Kind == kind
}

func (p *Parser) match(kind TokenKind) bool {
	if p.check(kind) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) expectErr(kind TokenKind) *ParseError {
	if p.check(kind) {
		p.advance()
		return nil
	}
	return &ParseError{
		Message: fmt.Sprintf("expected %s, got %s", kind, p.peek()),
		Token:   p.peek(),
	}
}

// synchronize skips to the next likely declaration boundary.
func (p *Parser) synchronize() {
	depth := 0
	for !p.isAtEnd() {
		tok := p.advance()
		switch tok.Kind {
		case TokenLeftBrace:
			depth++
		case TokenRightBrace:
			depth--
			if depth <= 0 {
				return
			}
		case TokenSemicolon:
			if depth <= 0 {
				return
			}
		}
	}
}
