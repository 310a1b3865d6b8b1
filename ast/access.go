// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package ast

// Child layouts:
//
//	FunctionDefinition  [Prototype, Block]
//	FunctionPrototype   [TypeSpecifier, Parameter...]
//	Parameter           [TypeSpecifier, ArraySize?]
//	Declaration         [TypeSpecifier, Declarator...]
//	Declarator          [ArraySize?, Initializer?]
//	TypeSpecifier       [StructSpecifier?]
//	StructSpecifier     [Declaration...]
//	PrecisionStatement  [TypeSpecifier]
//	InvariantStatement  [Identifier...]
//	If                  [Cond, Then, Else?]
//	For                 [Init, Cond, Increment, Body]  (missing parts are Empty)
//	While               [Cond, Body]
//	DoWhile             [Body, Cond]
//	Return              [Value?]
//	Binary              [Left, Right]
//	Ternary             [Cond, True, False]
//	FieldSelection      [Base]
//	Index               [Base, Index]
//	Call                [Arg...]

// TypeSpec returns the type specifier of a declaration, parameter,
// function prototype or precision statement.
func (t *Tree) TypeSpec(h Handle) Handle {
	return t.Child(h, 0)
}

// Declarators returns the declarators of a declaration.
func (t *Tree) Declarators(h Handle) []Handle {
	c := t.Children(h)
	if len(c) < 2 {
		return nil
	}
	return c[1:]
}

// Params returns the parameters of a function prototype.
func (t *Tree) Params(h Handle) []Handle {
	return t.Declarators(h)
}

// Prototype returns the prototype of a function definition.
func (t *Tree) Prototype(h Handle) Handle { return t.Child(h, 0) }

// Body returns the block of a function definition or the body of a loop.
func (t *Tree) Body(h Handle) Handle {
	switch t.Kind(h) {
	case KindFunctionDefinition, KindWhile:
		return t.Child(h, 1)
	case KindFor:
		return t.Child(h, 3)
	case KindDoWhile:
		return t.Child(h, 0)
	}
	return InvalidHandle
}

// ArraySize returns the array size expression of a declarator or
// parameter.
func (t *Tree) ArraySize(h Handle) Handle {
	n := t.Node(h)
	if n == nil || !n.Flags.Has(FlagArraySize) {
		return InvalidHandle
	}
	if n.Kind == KindParameter {
		return t.Child(h, 1)
	}
	return t.Child(h, 0)
}

// Initializer returns the initializer expression of a declarator.
func (t *Tree) Initializer(h Handle) Handle {
	n := t.Node(h)
	if n == nil || !n.Flags.Has(FlagInitializer) {
		return InvalidHandle
	}
	return n.Children[len(n.Children)-1]
}

// StructSpec returns the struct specifier held by a type specifier.
func (t *Tree) StructSpec(h Handle) Handle {
	n := t.Node(h)
	if n == nil || n.Kind != KindTypeSpecifier || len(n.Children) == 0 {
		return InvalidHandle
	}
	return n.Children[0]
}

// IsScopeOwner reports whether h introduces a scope.
func (t *Tree) IsScopeOwner(h Handle) bool {
	n := t.Node(h)
	if n == nil {
		return false
	}
	switch n.Kind {
	case KindTranslationUnit, KindFunctionDefinition, KindFor:
		return true
	case KindBlock:
		return !n.Flags.Has(FlagFunctionBody)
	case KindFunctionPrototype:
		return t.Kind(n.Parent) != KindFunctionDefinition
	}
	return false
}

// ScopeOwner returns the nearest scope owner enclosing h, excluding h.
func (t *Tree) ScopeOwner(h Handle) Handle {
	for p := t.Parent(h); p != InvalidHandle; p = t.Parent(p) {
		if t.IsScopeOwner(p) {
			return p
		}
	}
	return InvalidHandle
}
