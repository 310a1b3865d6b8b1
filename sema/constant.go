// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package sema

import (
	"math"

	"github.com/gogpu/essl/ast"
	"github.com/gogpu/essl/types"
)

// foldBinary evaluates a constant arithmetic expression. Only known int
// and float scalars are evaluated; any other constant operands give an
// opaque constant. kind is DiagInternal when no diagnostic applies.
func foldBinary(op ast.Operator, a, b types.Value) (v types.Value, kind DiagnosticKind, failed bool) {
	if !a.IsConstant() || !b.IsConstant() {
		return types.Value{}, DiagInternal, false
	}
	if !a.IsKnown() || !b.IsKnown() || a.Kind != b.Kind {
		return types.OpaqueValue(), DiagInternal, false
	}

	if a.Kind == types.ValueInt {
		x, y := a.Int, b.Int
		switch op {
		case ast.OpAdd:
			return types.IntValue(x + y), DiagInternal, false
		case ast.OpSub:
			return types.IntValue(x - y), DiagInternal, false
		case ast.OpMul:
			return types.IntValue(x * y), DiagInternal, false
		case ast.OpDiv:
			if y == 0 {
				return types.Value{}, DiagDivideByZero, true
			}
			if x == math.MinInt32 && y == -1 {
				return types.Value{}, DiagIntegerOverflow, true
			}
			return types.IntValue(x / y), DiagInternal, false
		}
		return types.OpaqueValue(), DiagInternal, false
	}

	x, y := a.Float, b.Float
	switch op {
	case ast.OpAdd:
		return types.FloatValue(x + y), DiagInternal, false
	case ast.OpSub:
		return types.FloatValue(x - y), DiagInternal, false
	case ast.OpMul:
		return types.FloatValue(x * y), DiagInternal, false
	case ast.OpDiv:
		if y == 0 {
			return types.Value{}, DiagDivideByZero, true
		}
		return types.FloatValue(x / y), DiagInternal, false
	}
	return types.OpaqueValue(), DiagInternal, false
}

// foldNegate evaluates unary minus. Negating INT_MIN wraps.
func foldNegate(a types.Value) types.Value {
	switch a.Kind {
	case types.ValueInt:
		return types.IntValue(-a.Int)
	case types.ValueFloat:
		return types.FloatValue(-a.Float)
	}
	return a
}

// foldConvert evaluates a scalar constructor of a known value.
func foldConvert(to types.Token, a types.Value) types.Value {
	if !a.IsKnown() {
		return types.OpaqueValue()
	}
	switch to {
	case types.Int:
		return types.IntValue(a.AsInt())
	case types.Float:
		return types.FloatValue(a.AsFloat())
	}
	return types.OpaqueValue()
}
