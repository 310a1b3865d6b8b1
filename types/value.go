// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package types

import "strconv"

// ValueKind tells whether an expression is constant and, if so, whether its
// value is known.
type ValueKind uint8

const (
	// ValueNone marks a non-constant expression.
	ValueNone ValueKind = iota

	// ValueOpaque marks a constant expression whose value is not tracked
	// (vectors, matrices, booleans, builtin calls).
	ValueOpaque

	// ValueInt is a known int scalar.
	ValueInt

	// ValueFloat is a known float scalar.
	ValueFloat
)

// Value is the result of constant folding.
type Value struct {
	Kind  ValueKind
	Int   int32
	Float float32
}

// IntValue returns a known int constant.
func IntValue(v int32) Value { return Value{Kind: ValueInt, Int: v} }

// FloatValue returns a known float constant.
func FloatValue(v float32) Value { return Value{Kind: ValueFloat, Float: v} }

// OpaqueValue returns a constant with an untracked value.
func OpaqueValue() Value { return Value{Kind: ValueOpaque} }

// IsConstant reports whether the expression is a constant expression.
func (v Value) IsConstant() bool { return v.Kind != ValueNone }

// IsKnown reports whether the scalar value is tracked.
func (v Value) IsKnown() bool { return v.Kind == ValueInt || v.Kind == ValueFloat }

// AsInt converts a known value to int, truncating floats like GLSL int().
func (v Value) AsInt() int32 {
	if v.Kind == ValueFloat {
		return int32(v.Float)
	}
	return v.Int
}

// AsFloat converts a known value to float.
func (v Value) AsFloat() float32 {
	if v.Kind == ValueInt {
		return float32(v.Int)
	}
	return v.Float
}

func (v Value) String() string {
	switch v.Kind {
	case ValueInt:
		return strconv.FormatInt(int64(v.Int), 10)
	case ValueFloat:
		return strconv.FormatFloat(float64(v.Float), 'g', -1, 32)
	case ValueOpaque:
		return "<const>"
	default:
		return "<non-const>"
	}
}
