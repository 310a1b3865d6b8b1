// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package ast

import "github.com/gogpu/essl/types"

// Builder helpers used by the parser and the rewrite passes. Each returns
// the handle of a new detached node with its children attached.

// NewIdentifier creates an identifier reference.
func (t *Tree) NewIdentifier(pos Position, name string) Handle {
	h := t.New(KindIdentifier, pos)
	t.nodes[h].Name = name
	return h
}

// NewIntLiteral creates an int literal.
func (t *Tree) NewIntLiteral(pos Position, v int32) Handle {
	h := t.New(KindIntLiteral, pos)
	t.nodes[h].Int = v
	return h
}

// NewFloatLiteral creates a float literal.
func (t *Tree) NewFloatLiteral(pos Position, v float32) Handle {
	h := t.New(KindFloatLiteral, pos)
	t.nodes[h].Float = v
	return h
}

// NewBoolLiteral creates a bool literal.
func (t *Tree) NewBoolLiteral(pos Position, v bool) Handle {
	h := t.New(KindBoolLiteral, pos)
	t.nodes[h].Bool = v
	return h
}

// NewBinary creates a binary operation.
func (t *Tree) NewBinary(pos Position, op Operator, left, right Handle) Handle {
	h := t.New(KindBinary, pos)
	t.nodes[h].Op = op
	t.Append(h, left)
	t.Append(h, right)
	return h
}

// NewUnary creates a prefix unary operation.
func (t *Tree) NewUnary(pos Position, op Operator, operand Handle) Handle {
	h := t.New(KindUnary, pos)
	t.nodes[h].Op = op
	t.Append(h, operand)
	return h
}

// NewPostfix creates a postfix increment or decrement.
func (t *Tree) NewPostfix(pos Position, op Operator, operand Handle) Handle {
	h := t.New(KindPostfix, pos)
	t.nodes[h].Op = op
	t.Append(h, operand)
	return h
}

// NewTernary creates a conditional expression.
func (t *Tree) NewTernary(pos Position, cond, a, b Handle) Handle {
	h := t.New(KindTernary, pos)
	t.Append(h, cond)
	t.Append(h, a)
	t.Append(h, b)
	return h
}

// NewFieldSelection creates a field or swizzle selection.
func (t *Tree) NewFieldSelection(pos Position, base Handle, field string) Handle {
	h := t.New(KindFieldSelection, pos)
	t.nodes[h].Name = field
	t.Append(h, base)
	return h
}

// NewIndex creates an index expression.
func (t *Tree) NewIndex(pos Position, base, index Handle) Handle {
	h := t.New(KindIndex, pos)
	t.Append(h, base)
	t.Append(h, index)
	return h
}

// NewCall creates a call to a function or type name.
func (t *Tree) NewCall(pos Position, name string, args ...Handle) Handle {
	h := t.New(KindCall, pos)
	t.nodes[h].Name = name
	for _, a := range args {
		t.Append(h, a)
	}
	return h
}

// NewConstructor creates a basic type constructor call.
func (t *Tree) NewConstructor(pos Position, tok types.Token, args ...Handle) Handle {
	h := t.New(KindCall, pos)
	t.nodes[h].Token = tok
	for _, a := range args {
		t.Append(h, a)
	}
	return h
}

// NewTypeSpecifier creates a basic type specifier.
func (t *Tree) NewTypeSpecifier(pos Position, tok types.Token, prec types.Precision) Handle {
	h := t.New(KindTypeSpecifier, pos)
	t.nodes[h].Token = tok
	t.nodes[h].Precision = prec
	return h
}

// NewNamedTypeSpecifier creates a type specifier naming a struct.
func (t *Tree) NewNamedTypeSpecifier(pos Position, name string, prec types.Precision) Handle {
	h := t.New(KindTypeSpecifier, pos)
	t.nodes[h].Name = name
	t.nodes[h].Precision = prec
	return h
}

// NewTypeRef creates an already verified type specifier referring to typ
// through the type-name info id. It is used when a declaration is split or
// a struct specifier is hoisted.
func (t *Tree) NewTypeRef(pos Position, typ types.Type, prec types.Precision, info InfoID) Handle {
	h := t.New(KindTypeSpecifier, pos)
	n := t.nodes[h]
	n.Precision = prec
	n.Flags |= FlagTypeRef
	switch typ := typ.(type) {
	case *types.Basic:
		n.Token = typ.Token
	case *types.Struct:
		n.Name = typ.Name
	}
	n.Sem.Type = typ
	n.Sem.Precision = prec
	n.Sem.Info = info
	n.Verified = true
	return h
}

// NewDeclarator creates a declarator. size and init may be InvalidHandle.
func (t *Tree) NewDeclarator(pos Position, name string, size, init Handle) Handle {
	h := t.New(KindDeclarator, pos)
	n := t.nodes[h]
	n.Name = name
	if size != InvalidHandle {
		n.Flags |= FlagArraySize
		t.Append(h, size)
	}
	if init != InvalidHandle {
		n.Flags |= FlagInitializer
		t.Append(h, init)
	}
	return h
}

// NewDeclaration creates a declaration from a type specifier and
// declarators.
func (t *Tree) NewDeclaration(pos Position, storage Storage, typeSpec Handle, declarators ...Handle) Handle {
	h := t.New(KindDeclaration, pos)
	t.nodes[h].Storage = storage
	t.Append(h, typeSpec)
	for _, d := range declarators {
		t.Append(h, d)
	}
	return h
}

// NewExpressionStatement wraps an expression in a statement.
func (t *Tree) NewExpressionStatement(pos Position, expr Handle) Handle {
	h := t.New(KindExpressionStatement, pos)
	t.Append(h, expr)
	return h
}

// NewBlock creates a block holding stmts.
func (t *Tree) NewBlock(pos Position, stmts ...Handle) Handle {
	h := t.New(KindBlock, pos)
	for _, s := range stmts {
		t.Append(h, s)
	}
	return h
}

// NewIf creates an if statement; els may be InvalidHandle.
func (t *Tree) NewIf(pos Position, cond, then, els Handle) Handle {
	h := t.New(KindIf, pos)
	t.Append(h, cond)
	t.Append(h, then)
	if els != InvalidHandle {
		t.Append(h, els)
	}
	return h
}

// NewReturn creates a return statement; value may be InvalidHandle.
func (t *Tree) NewReturn(pos Position, value Handle) Handle {
	h := t.New(KindReturn, pos)
	if value != InvalidHandle {
		t.Append(h, value)
	}
	return h
}

// NewPrototype creates a function prototype.
func (t *Tree) NewPrototype(pos Position, name string, returnType Handle, params ...Handle) Handle {
	h := t.New(KindFunctionPrototype, pos)
	t.nodes[h].Name = name
	t.Append(h, returnType)
	for _, p := range params {
		t.Append(h, p)
	}
	return h
}

// NewFunctionDefinition creates a function definition from a prototype and
// a body block. The block is marked as the function body.
func (t *Tree) NewFunctionDefinition(pos Position, proto, body Handle) Handle {
	h := t.New(KindFunctionDefinition, pos)
	t.nodes[body].Flags |= FlagFunctionBody
	t.Append(h, proto)
	t.Append(h, body)
	return h
}
