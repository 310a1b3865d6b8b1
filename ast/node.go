// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package ast defines the GLSL ES syntax tree shared by the parser, the
// verifier, the rewrite passes and the HLSL emitter.
//
// The tree is an arena: nodes live in a slice owned by a Tree and refer to
// each other by Handle. A node's Children list owns its children; the
// Parent handle is kept for upward navigation only.
package ast

import (
	"fmt"

	"github.com/gogpu/essl/types"
)

// Handle is an index into a Tree's node arena.
type Handle int32

// InvalidHandle marks a missing node.
const InvalidHandle Handle = -1

// InfoID indexes the identifier info registry of a compilation context.
type InfoID int32

// NoInfo marks a node that does not refer to an identifier info.
const NoInfo InfoID = -1

// Position is a 1-based source location.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Kind is the closed set of node kinds.
type Kind uint8

const (
	KindInvalid Kind = iota

	// Declarations
	KindTranslationUnit
	KindFunctionDefinition
	KindFunctionPrototype
	KindParameter
	KindDeclaration
	KindDeclarator
	KindTypeSpecifier
	KindStructSpecifier
	KindPrecisionStatement
	KindInvariantStatement

	// Statements
	KindBlock
	KindExpressionStatement
	KindIf
	KindFor
	KindWhile
	KindDoWhile
	KindReturn
	KindBreak
	KindContinue
	KindDiscard
	KindEmpty

	// Expressions
	KindIntLiteral
	KindFloatLiteral
	KindBoolLiteral
	KindIdentifier
	KindBinary
	KindUnary
	KindPostfix
	KindTernary
	KindFieldSelection
	KindIndex
	KindCall
)

var kindNames = [...]string{
	KindInvalid:             "Invalid",
	KindTranslationUnit:     "TranslationUnit",
	KindFunctionDefinition:  "FunctionDefinition",
	KindFunctionPrototype:   "FunctionPrototype",
	KindParameter:           "Parameter",
	KindDeclaration:         "Declaration",
	KindDeclarator:          "Declarator",
	KindTypeSpecifier:       "TypeSpecifier",
	KindStructSpecifier:     "StructSpecifier",
	KindPrecisionStatement:  "PrecisionStatement",
	KindInvariantStatement:  "InvariantStatement",
	KindBlock:               "Block",
	KindExpressionStatement: "ExpressionStatement",
	KindIf:                  "If",
	KindFor:                 "For",
	KindWhile:               "While",
	KindDoWhile:             "DoWhile",
	KindReturn:              "Return",
	KindBreak:               "Break",
	KindContinue:            "Continue",
	KindDiscard:             "Discard",
	KindEmpty:               "Empty",
	KindIntLiteral:          "IntLiteral",
	KindFloatLiteral:        "FloatLiteral",
	KindBoolLiteral:         "BoolLiteral",
	KindIdentifier:          "Identifier",
	KindBinary:              "Binary",
	KindUnary:               "Unary",
	KindPostfix:             "Postfix",
	KindTernary:             "Ternary",
	KindFieldSelection:      "FieldSelection",
	KindIndex:               "Index",
	KindCall:                "Call",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// IsExpression reports whether nodes of kind k produce a value.
func (k Kind) IsExpression() bool {
	return k >= KindIntLiteral && k <= KindCall
}

// IsStatement reports whether nodes of kind k may appear in a statement list.
func (k Kind) IsStatement() bool {
	switch k {
	case KindDeclaration, KindPrecisionStatement, KindInvariantStatement:
		return true
	}
	return k >= KindBlock && k <= KindEmpty
}

// Storage is a declaration storage qualifier.
type Storage uint8

const (
	StorageNone Storage = iota
	StorageConst
	StorageAttribute
	StorageVarying
	StorageUniform
)

func (s Storage) String() string {
	switch s {
	case StorageConst:
		return "const"
	case StorageAttribute:
		return "attribute"
	case StorageVarying:
		return "varying"
	case StorageUniform:
		return "uniform"
	default:
		return ""
	}
}

// ParamQualifier is a parameter direction qualifier.
type ParamQualifier uint8

const (
	ParamIn ParamQualifier = iota
	ParamOut
	ParamInOut
)

func (q ParamQualifier) String() string {
	switch q {
	case ParamOut:
		return "out"
	case ParamInOut:
		return "inout"
	default:
		return "in"
	}
}

// Writes reports whether the callee writes through the parameter.
func (q ParamQualifier) Writes() bool { return q != ParamIn }

// Flags hold per-node boolean attributes.
type Flags uint16

const (
	// FlagArraySize marks a declarator or parameter with an array size child.
	FlagArraySize Flags = 1 << iota

	// FlagInitializer marks a declarator with an initializer child.
	FlagInitializer

	// FlagInvariant marks an invariant-qualified declaration.
	FlagInvariant

	// FlagTypeRef marks a type specifier that refers to a struct by its
	// type-name info instead of holding the struct specifier.
	FlagTypeRef

	// FlagSamplerObject marks a declaration or parameter that emits the
	// sampler half of a split sampler.
	FlagSamplerObject

	// FlagTextureObject marks the texture half of a split sampler.
	FlagTextureObject

	// FlagInternal marks nodes synthesized by the translator; their names
	// may use reserved prefixes.
	FlagInternal

	// FlagFunctionBody marks the block of a function definition, which
	// shares its scope with the parameters.
	FlagFunctionBody
)

// Has reports whether all of want are set.
func (f Flags) Has(want Flags) bool { return f&want == want }

// CallShape classifies how a call is emitted.
type CallShape uint8

const (
	// ShapeFunction is a user or builtin function call.
	ShapeFunction CallShape = iota

	// ShapeStruct is a struct constructor.
	ShapeStruct

	// ShapeComponents fills the result from the argument components.
	ShapeComponents

	// ShapeConvert converts a single argument of the same shape.
	ShapeConvert

	// ShapeBroadcast fills a vector from one scalar.
	ShapeBroadcast

	// ShapeDiagonal builds a matrix with the scalar on its diagonal.
	ShapeDiagonal

	// ShapeMatrixResize builds a matrix from a matrix of another size.
	ShapeMatrixResize

	// ShapeVectorFromMatrix builds a vector from matrix components.
	ShapeVectorFromMatrix
)

// Reduction is the folding applied to a component-wise comparison.
type Reduction uint8

const (
	ReduceNone Reduction = iota
	ReduceAll
	ReduceAny
	ReduceStruct
)

// Expansion tells which operand of a binary operator is a scalar broadcast
// against a vector or matrix.
type Expansion uint8

const (
	ExpandNone Expansion = iota
	ExpandLeft
	ExpandRight
)

// Semantic holds the annotations attached by verification.
type Semantic struct {
	Type      types.Type
	Precision types.Precision
	Const     types.Value
	Lvalue    bool

	// Info is the identifier info an identifier, declarator, parameter,
	// function prototype, call or type specifier resolves to.
	Info InfoID

	// Swizzle holds component indices for vector field selections.
	Swizzle []int

	// Field is the struct field index of a field selection.
	Field int

	// Overload is the matched signature index of a call.
	Overload int

	Shape CallShape

	// Truncate is the number of trailing components of the last
	// constructor argument that are not used.
	Truncate int

	Reduce    Reduction
	Expand    Expansion
	Algebraic bool
}

// Node is one syntax tree node.
type Node struct {
	Kind     Kind
	Pos      Position
	Parent   Handle
	Children []Handle
	Depth    int
	Verified bool

	// Name is the identifier, field, callee or struct name.
	Name string

	Op        Operator
	Token     types.Token
	Int       int32
	Float     float32
	Bool      bool
	Storage   Storage
	Param     ParamQualifier
	Precision types.Precision
	Flags     Flags

	Sem Semantic
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int { return len(n.Children) }
