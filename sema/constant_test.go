// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package sema

import (
	"math"
	"testing"

	"github.com/gogpu/essl/ast"
	"github.com/gogpu/essl/types"
)

func TestFoldBinary(t *testing.T) {
	tests := []struct {
		name   string
		op     ast.Operator
		a, b   types.Value
		want   types.Value
		kind   DiagnosticKind
		failed bool
	}{
		{"int add", ast.OpAdd, types.IntValue(2), types.IntValue(3), types.IntValue(5), DiagInternal, false},
		{"int wrap", ast.OpAdd, types.IntValue(math.MaxInt32), types.IntValue(1), types.IntValue(math.MinInt32), DiagInternal, false},
		{"int divide truncates", ast.OpDiv, types.IntValue(-7), types.IntValue(2), types.IntValue(-3), DiagInternal, false},
		{"int divide by zero", ast.OpDiv, types.IntValue(5), types.IntValue(0), types.Value{}, DiagDivideByZero, true},
		{"int min over minus one", ast.OpDiv, types.IntValue(math.MinInt32), types.IntValue(-1), types.Value{}, DiagIntegerOverflow, true},
		{"float mul", ast.OpMul, types.FloatValue(1.5), types.FloatValue(2), types.FloatValue(3), DiagInternal, false},
		{"float divide by zero", ast.OpDiv, types.FloatValue(1), types.FloatValue(0), types.Value{}, DiagDivideByZero, true},
		{"opaque operand", ast.OpAdd, types.OpaqueValue(), types.IntValue(1), types.OpaqueValue(), DiagInternal, false},
		{"non-constant operand", ast.OpAdd, types.Value{}, types.IntValue(1), types.Value{}, DiagInternal, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, kind, failed := foldBinary(tt.op, tt.a, tt.b)
			if failed != tt.failed || kind != tt.kind {
				t.Fatalf("foldBinary = (%v, %v, %v), want failure %v with %v", got, kind, failed, tt.failed, tt.kind)
			}
			if got != tt.want {
				t.Errorf("foldBinary = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFoldConvert(t *testing.T) {
	if got := foldConvert(types.Int, types.FloatValue(-2.75)); got != types.IntValue(-2) {
		t.Errorf("int(-2.75) = %v, want -2", got)
	}
	if got := foldConvert(types.Float, types.IntValue(3)); got != types.FloatValue(3) {
		t.Errorf("float(3) = %v, want 3", got)
	}
	if got := foldConvert(types.Bool, types.IntValue(1)); got != types.OpaqueValue() {
		t.Errorf("bool(1) = %v, want opaque", got)
	}
	if got := foldNegate(types.IntValue(math.MinInt32)); got != types.IntValue(math.MinInt32) {
		t.Errorf("-INT_MIN = %v, want wrap to INT_MIN", got)
	}
}
