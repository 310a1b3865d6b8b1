// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package ast

// Operator identifies a unary, postfix or binary operator.
type Operator uint8

const (
	OpNone Operator = iota

	// Binary arithmetic
	OpAdd
	OpSub
	OpMul
	OpDiv

	// Reserved in GLSL ES 1.00
	OpMod
	OpShl
	OpShr
	OpBitAnd
	OpBitOr
	OpBitXor

	// Relational and equality
	OpLess
	OpGreater
	OpLessEqual
	OpGreaterEqual
	OpEqual
	OpNotEqual

	// Logical
	OpLogicalAnd
	OpLogicalOr
	OpLogicalXor

	// Assignment
	OpAssign
	OpAddAssign
	OpSubAssign
	OpMulAssign
	OpDivAssign
	OpModAssign
	OpShlAssign
	OpShrAssign
	OpAndAssign
	OpOrAssign
	OpXorAssign

	OpComma

	// Unary and postfix
	OpNegate
	OpPlus
	OpNot
	OpBitNot
	OpPreInc
	OpPreDec
	OpPostInc
	OpPostDec

	numOperators
)

var operatorSpellings = [numOperators]string{
	OpNone:         "",
	OpAdd:          "+",
	OpSub:          "-",
	OpMul:          "*",
	OpDiv:          "/",
	OpMod:          "%",
	OpShl:          "<<",
	OpShr:          ">>",
	OpBitAnd:       "&",
	OpBitOr:        "|",
	OpBitXor:       "^",
	OpLess:         "<",
	OpGreater:      ">",
	OpLessEqual:    "<=",
	OpGreaterEqual: ">=",
	OpEqual:        "==",
	OpNotEqual:     "!=",
	OpLogicalAnd:   "&&",
	OpLogicalOr:    "||",
	OpLogicalXor:   "^^",
	OpAssign:       "=",
	OpAddAssign:    "+=",
	OpSubAssign:    "-=",
	OpMulAssign:    "*=",
	OpDivAssign:    "/=",
	OpModAssign:    "%=",
	OpShlAssign:    "<<=",
	OpShrAssign:    ">>=",
	OpAndAssign:    "&=",
	OpOrAssign:     "|=",
	OpXorAssign:    "^=",
	OpComma:        ",",
	OpNegate:       "-",
	OpPlus:         "+",
	OpNot:          "!",
	OpBitNot:       "~",
	OpPreInc:       "++",
	OpPreDec:       "--",
	OpPostInc:      "++",
	OpPostDec:      "--",
}

// String returns the GLSL spelling of the operator.
func (op Operator) String() string {
	if op < numOperators {
		return operatorSpellings[op]
	}
	return "?"
}

// IsAssignment reports whether op writes its left operand.
func (op Operator) IsAssignment() bool {
	return op >= OpAssign && op <= OpXorAssign
}

// IsShortCircuit reports whether op evaluates its right operand lazily.
func (op Operator) IsShortCircuit() bool {
	return op == OpLogicalAnd || op == OpLogicalOr
}

// ArithmeticOf returns the operator applied by a compound assignment, or
// OpNone for plain assignment and non-assignments.
func (op Operator) ArithmeticOf() Operator {
	switch op {
	case OpAddAssign:
		return OpAdd
	case OpSubAssign:
		return OpSub
	case OpMulAssign:
		return OpMul
	case OpDivAssign:
		return OpDiv
	case OpModAssign:
		return OpMod
	case OpShlAssign:
		return OpShl
	case OpShrAssign:
		return OpShr
	case OpAndAssign:
		return OpBitAnd
	case OpOrAssign:
		return OpBitOr
	case OpXorAssign:
		return OpBitXor
	}
	return OpNone
}
