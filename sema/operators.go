// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package sema

import (
	"github.com/gogpu/essl/ast"
	"github.com/gogpu/essl/types"
)

// opCategory groups operators with the same operand rules.
type opCategory uint8

const (
	catArithmetic opCategory = iota
	catRelational
	catEquality
	catLogical
	catAssign
	catComma
	catReserved
)

// opInfo is one row of the operator table.
type opInfo struct {
	category opCategory

	// hlsl is the HLSL spelling.
	hlsl string

	// writesLeft marks operators that assign their left operand.
	writesLeft bool
}

var operatorTable = map[ast.Operator]opInfo{
	ast.OpAdd: {catArithmetic, "+", false},
	ast.OpSub: {catArithmetic, "-", false},
	ast.OpMul: {catArithmetic, "*", false},
	ast.OpDiv: {catArithmetic, "/", false},

	ast.OpLess:         {catRelational, "<", false},
	ast.OpGreater:      {catRelational, ">", false},
	ast.OpLessEqual:    {catRelational, "<=", false},
	ast.OpGreaterEqual: {catRelational, ">=", false},
	ast.OpEqual:        {catEquality, "==", false},
	ast.OpNotEqual:     {catEquality, "!=", false},

	ast.OpLogicalAnd: {catLogical, "&&", false},
	ast.OpLogicalOr:  {catLogical, "||", false},
	ast.OpLogicalXor: {catLogical, "!=", false},

	ast.OpAssign:    {catAssign, "=", true},
	ast.OpAddAssign: {catAssign, "+=", true},
	ast.OpSubAssign: {catAssign, "-=", true},
	ast.OpMulAssign: {catAssign, "*=", true},
	ast.OpDivAssign: {catAssign, "/=", true},

	ast.OpComma: {catComma, ",", false},

	ast.OpMod:       {category: catReserved},
	ast.OpShl:       {category: catReserved},
	ast.OpShr:       {category: catReserved},
	ast.OpBitAnd:    {category: catReserved},
	ast.OpBitOr:     {category: catReserved},
	ast.OpBitXor:    {category: catReserved},
	ast.OpModAssign: {category: catReserved},
	ast.OpShlAssign: {category: catReserved},
	ast.OpShrAssign: {category: catReserved},
	ast.OpAndAssign: {category: catReserved},
	ast.OpOrAssign:  {category: catReserved},
	ast.OpXorAssign: {category: catReserved},
	ast.OpBitNot:    {category: catReserved},
}

// WritesLeft reports whether op assigns its left operand.
func WritesLeft(op ast.Operator) bool { return operatorTable[op].writesLeft }

// HLSLOperator returns the HLSL spelling of a binary operator.
func HLSLOperator(op ast.Operator) string {
	if info, ok := operatorTable[op]; ok && info.hlsl != "" {
		return info.hlsl
	}
	return op.String()
}

// arithmetic is the result of typing an arithmetic operator.
type arithmetic struct {
	typ       types.Type
	expand    ast.Expansion
	algebraic bool
}

// arithmeticResult types op applied to basic operands a and b.
func (c *Context) arithmeticResult(h ast.Handle, op ast.Operator, a, b types.Token) (arithmetic, error) {
	if !a.IsNumeric() || !b.IsNumeric() || a.IsSampler() || b.IsSampler() {
		return arithmetic{}, c.failf(h, DiagInvalidOperand, "%s %s %s", a, op, b)
	}
	if a.Component() != b.Component() {
		return arithmetic{}, c.failf(h, DiagTypeMismatch, "%s %s %s", a, op, b)
	}

	switch {
	case a == b:
		// Per-component, except that matrix times matrix is algebraic.
		return arithmetic{typ: types.NewBasic(a), algebraic: op == ast.OpMul && a.IsMatrix()}, nil
	case a.IsScalar():
		return arithmetic{typ: types.NewBasic(b), expand: ast.ExpandLeft}, nil
	case b.IsScalar():
		return arithmetic{typ: types.NewBasic(a), expand: ast.ExpandRight}, nil
	case op == ast.OpMul && a.IsVector() && b.IsMatrix() && a.Components() == b.Rows():
		return arithmetic{typ: types.NewBasic(a), algebraic: true}, nil
	case op == ast.OpMul && a.IsMatrix() && b.IsVector() && a.Rows() == b.Components():
		return arithmetic{typ: types.NewBasic(b), algebraic: true}, nil
	}
	return arithmetic{}, c.failf(h, DiagTypeMismatch, "%s %s %s", a, op, b)
}

func (c *Context) checkBinary(h ast.Handle, n *ast.Node) error {
	info, ok := operatorTable[n.Op]
	if !ok || info.category == catReserved {
		return c.fail(h, DiagReservedOperator, n.Op.String())
	}
	left, right := n.Children[0], n.Children[1]
	l, r := c.Tree.Node(left), c.Tree.Node(right)

	if info.category == catComma {
		n.Sem.Type = r.Sem.Type
		n.Sem.Precision = r.Sem.Precision
		return nil
	}

	lt, rt := l.Sem.Type, r.Sem.Type
	if types.ArraySize(lt) != types.NotArray || types.ArraySize(rt) != types.NotArray {
		return c.fail(h, DiagInvalidOperand, "arrays cannot be operands")
	}
	if types.ContainsSampler(lt) || types.ContainsSampler(rt) || types.IsVoid(lt) || types.IsVoid(rt) {
		return c.failf(h, DiagInvalidOperand, "%s %s %s", lt, n.Op, rt)
	}

	n.Sem.Precision = maxPrecision(l.Sem.Precision, r.Sem.Precision)

	// Structs support only equality and plain assignment.
	if st, isStruct := lt.(*types.Struct); isStruct || isStructType(rt) {
		if !lt.Equals(rt) {
			return c.failf(h, DiagTypeMismatch, "%s %s %s", lt, n.Op, rt)
		}
		switch n.Op {
		case ast.OpEqual, ast.OpNotEqual:
			if st.HasArrays() {
				return c.fail(h, DiagInvalidOperand, "cannot compare structs containing arrays")
			}
			st.MarkEqualityUsed()
			n.Sem.Type = types.NewBasic(types.Bool)
			n.Sem.Reduce = ast.ReduceStruct
			n.Sem.Precision = types.PrecisionUndefined
			return nil
		case ast.OpAssign:
			if st.HasArrays() {
				return c.fail(h, DiagInvalidOperand, "cannot assign structs containing arrays")
			}
			n.Sem.Type = lt
			return c.recordWrite(h, left)
		}
		return c.failf(h, DiagInvalidOperand, "%s %s %s", lt, n.Op, rt)
	}

	a, _ := types.AsBasic(lt)
	b, _ := types.AsBasic(rt)

	switch info.category {
	case catLogical:
		if a != types.Bool || b != types.Bool {
			return c.failf(h, DiagTypeMismatch, "%s %s %s", a, n.Op, b)
		}
		n.Sem.Type = types.NewBasic(types.Bool)
		n.Sem.Precision = types.PrecisionUndefined
		if l.Sem.Const.IsConstant() && r.Sem.Const.IsConstant() {
			n.Sem.Const = types.OpaqueValue()
		}
		return nil

	case catRelational:
		if a != b || !a.IsScalar() || !a.IsNumeric() {
			return c.failf(h, DiagTypeMismatch, "%s %s %s", a, n.Op, b)
		}
		n.Sem.Type = types.NewBasic(types.Bool)
		n.Sem.Precision = types.PrecisionUndefined
		if l.Sem.Const.IsConstant() && r.Sem.Const.IsConstant() {
			n.Sem.Const = types.OpaqueValue()
		}
		return nil

	case catEquality:
		if a != b {
			return c.failf(h, DiagTypeMismatch, "%s %s %s", a, n.Op, b)
		}
		if !a.IsScalar() {
			if n.Op == ast.OpEqual {
				n.Sem.Reduce = ast.ReduceAll
			} else {
				n.Sem.Reduce = ast.ReduceAny
			}
		}
		n.Sem.Type = types.NewBasic(types.Bool)
		n.Sem.Precision = types.PrecisionUndefined
		if l.Sem.Const.IsConstant() && r.Sem.Const.IsConstant() {
			n.Sem.Const = types.OpaqueValue()
		}
		return nil

	case catArithmetic:
		res, err := c.arithmeticResult(h, n.Op, a, b)
		if err != nil {
			return err
		}
		n.Sem.Type = res.typ
		n.Sem.Expand = res.expand
		n.Sem.Algebraic = res.algebraic
		if res.typ.Equals(types.NewBasic(a)) && a.IsScalar() && b.IsScalar() {
			v, kind, failed := foldBinary(n.Op, l.Sem.Const, r.Sem.Const)
			if failed {
				return c.fail(h, kind, "")
			}
			n.Sem.Const = v
		} else if l.Sem.Const.IsConstant() && r.Sem.Const.IsConstant() {
			n.Sem.Const = types.OpaqueValue()
		}
		return nil

	case catAssign:
		if !l.Sem.Lvalue {
			return c.fail(left, DiagLvalueRequired, describeExpr(c.Tree, left))
		}
		if n.Op == ast.OpAssign {
			if a != b {
				return c.failf(h, DiagTypeMismatch, "cannot assign %s to %s", b, a)
			}
		} else {
			res, err := c.arithmeticResult(h, n.Op.ArithmeticOf(), a, b)
			if err != nil {
				return err
			}
			if !res.typ.Equals(lt) {
				return c.failf(h, DiagTypeMismatch, "%s %s %s", a, n.Op, b)
			}
			n.Sem.Expand = res.expand
			n.Sem.Algebraic = res.algebraic
		}
		n.Sem.Type = lt
		n.Sem.Precision = l.Sem.Precision
		return c.recordWrite(h, left)
	}
	return nil
}

func isStructType(t types.Type) bool {
	_, ok := t.(*types.Struct)
	return ok
}

func (c *Context) checkUnary(h ast.Handle, n *ast.Node) error {
	if n.Op == ast.OpBitNot {
		return c.fail(h, DiagReservedOperator, n.Op.String())
	}
	operand := n.Children[0]
	o := c.Tree.Node(operand)
	tok, ok := types.AsBasic(o.Sem.Type)
	if !ok || tok == types.Void || tok.IsSampler() {
		return c.failf(h, DiagInvalidOperand, "%s%s", n.Op, o.Sem.Type)
	}

	n.Sem.Type = o.Sem.Type
	n.Sem.Precision = o.Sem.Precision

	switch n.Op {
	case ast.OpNot:
		if tok != types.Bool {
			return c.failf(h, DiagTypeMismatch, "!%s", tok)
		}
		if o.Sem.Const.IsConstant() {
			n.Sem.Const = types.OpaqueValue()
		}
	case ast.OpNegate, ast.OpPlus:
		if !tok.IsNumeric() {
			return c.failf(h, DiagTypeMismatch, "%s%s", n.Op, tok)
		}
		if n.Op == ast.OpNegate {
			n.Sem.Const = foldNegate(o.Sem.Const)
		} else {
			n.Sem.Const = o.Sem.Const
		}
	case ast.OpPreInc, ast.OpPreDec, ast.OpPostInc, ast.OpPostDec:
		if !tok.IsNumeric() {
			return c.failf(h, DiagTypeMismatch, "%s%s", n.Op, tok)
		}
		return c.recordWrite(h, operand)
	default:
		return c.fail(h, DiagReservedOperator, n.Op.String())
	}
	return nil
}
