// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import (
	"fmt"
	"strconv"

	"github.com/gogpu/essl/ast"
	"github.com/gogpu/essl/sema"
	"github.com/gogpu/essl/types"
)

// =============================================================================
// Expression Dispatch
// =============================================================================

// writeExpression writes an expression. Operators are always
// parenthesized so no precedence table is needed.
func (w *Writer) writeExpression(h ast.Handle) error {
	n := w.tree.Node(h)
	switch n.Kind {
	case ast.KindIntLiteral:
		w.write(strconv.FormatInt(int64(n.Int), 10))
	case ast.KindFloatLiteral:
		w.write(formatFloat(n.Float))
	case ast.KindBoolLiteral:
		w.write(strconv.FormatBool(n.Bool))
	case ast.KindIdentifier:
		return w.writeIdentifier(h, n)
	case ast.KindBinary:
		return w.writeBinary(n, false)
	case ast.KindUnary:
		w.write("(" + unaryOperator(n.Op))
		if err := w.writeExpression(n.Children[0]); err != nil {
			return err
		}
		w.write(")")
	case ast.KindPostfix:
		w.write("(")
		if err := w.writeExpression(n.Children[0]); err != nil {
			return err
		}
		w.write(n.Op.String() + ")")
	case ast.KindTernary:
		return w.writeTernary(n)
	case ast.KindFieldSelection:
		return w.writeFieldSelection(n)
	case ast.KindIndex:
		if err := w.writeExpression(n.Children[0]); err != nil {
			return err
		}
		w.write("[")
		if err := w.writeExpression(n.Children[1]); err != nil {
			return err
		}
		w.write("]")
	case ast.KindCall:
		return w.writeCall(h, n)
	default:
		return w.unexpected(h)
	}
	return nil
}

// writeStatementExpression writes the expression of an expression
// statement or for loop part, where an assignment needs no parentheses.
func (w *Writer) writeStatementExpression(h ast.Handle) error {
	n := w.tree.Node(h)
	if n.Kind == ast.KindBinary && n.Op.IsAssignment() {
		return w.writeBinary(n, true)
	}
	return w.writeExpression(h)
}

func unaryOperator(op ast.Operator) string {
	switch op {
	case ast.OpNegate:
		return "-"
	case ast.OpPlus:
		return "+"
	case ast.OpNot:
		return "!"
	}
	return op.String()
}

// =============================================================================
// Identifiers
// =============================================================================

// writeIdentifier writes a variable reference. Stage inputs and outputs
// go through the entry point structs, builtin constants become literals
// and split samplers use the name of the current slot.
func (w *Writer) writeIdentifier(h ast.Handle, n *ast.Node) error {
	v := w.ctx.Registry.Variable(n.Sem.Info)
	if v == nil {
		return w.unexpected(h)
	}
	if access, ok := w.io[v]; ok {
		w.write(access)
		return nil
	}
	if v.IsBuiltin() && v.Storage == ast.StorageConst {
		w.write(constantLiteral(v.Const))
		return nil
	}
	if types.ContainsSampler(v.Type) {
		w.write(v.Name(w.slot))
		return nil
	}
	w.write(v.Name(sema.SlotSampler))
	return nil
}

func constantLiteral(v types.Value) string {
	if v.Kind == types.ValueFloat {
		return formatFloat(v.Float)
	}
	return strconv.FormatInt(int64(v.AsInt()), 10)
}

// =============================================================================
// Operators
// =============================================================================

// writeBinary writes a binary operator:
//
//	a * b       ->  mul(b, a)           matrix products
//	a *= m      ->  a = mul(m, a)
//	v == w      ->  all(v == w)         vectors and matrices
//	v != w      ->  any(v != w)
//	s == t      ->  S_eq(s, t)          structs
//	f * v       ->  (((float3)f) * v)   scalar expansion
//
// GLSL matrices are column major and HLSL reads the same data row major,
// so every matrix is stored transposed and products swap their operands.
// top omits the parentheses around a statement-level assignment.
func (w *Writer) writeBinary(n *ast.Node, top bool) error {
	left, right := n.Children[0], n.Children[1]

	switch n.Sem.Reduce {
	case ast.ReduceAll, ast.ReduceAny:
		fn := "all"
		if n.Sem.Reduce == ast.ReduceAny {
			fn = "any"
		}
		return w.writeWrapped(fn+"(", left, " "+sema.HLSLOperator(n.Op)+" ", right, ")")
	case ast.ReduceStruct:
		st, _ := w.tree.Node(left).Sem.Type.(*types.Struct)
		tn := w.ctx.Registry.TypeNameOf(st)
		if tn == nil {
			return NewErrorAt(ErrInternalError, n.Pos, "struct comparison without a type name")
		}
		prefix := equalName(tn) + "("
		if n.Op == ast.OpNotEqual {
			prefix = "!" + prefix
		}
		return w.writeWrapped(prefix, left, ", ", right, ")")
	}

	if n.Sem.Algebraic {
		switch n.Op {
		case ast.OpMul:
			return w.writeWrapped("mul(", right, ", ", left, ")")
		case ast.OpMulAssign:
			if !top {
				w.write("(")
			}
			if err := w.writeExpression(left); err != nil {
				return err
			}
			if err := w.writeWrapped(" = mul(", right, ", ", left, ")"); err != nil {
				return err
			}
			if !top {
				w.write(")")
			}
			return nil
		}
	}

	openParen, closeParen := "(", ")"
	if top {
		openParen, closeParen = "", ""
	}
	w.write(openParen)
	if err := w.writeOperand(n, left, ast.ExpandLeft); err != nil {
		return err
	}
	op := sema.HLSLOperator(n.Op)
	if n.Op == ast.OpComma {
		w.write(op + " ")
	} else {
		w.write(" " + op + " ")
	}
	if err := w.writeOperand(n, right, ast.ExpandRight); err != nil {
		return err
	}
	w.write(closeParen)
	return nil
}

// writeOperand writes one side of a binary operator, casting it to the
// result type when it is the scalar being expanded.
func (w *Writer) writeOperand(n *ast.Node, h ast.Handle, side ast.Expansion) error {
	if n.Sem.Expand != side || n.Op.IsAssignment() {
		return w.writeExpression(h)
	}
	w.write(fmt.Sprintf("((%s)", w.typeName(n.Sem.Type)))
	if err := w.writeExpression(h); err != nil {
		return err
	}
	w.write(")")
	return nil
}

// writeWrapped writes prefix a sep b suffix.
func (w *Writer) writeWrapped(prefix string, a ast.Handle, sep string, b ast.Handle, suffix string) error {
	w.write(prefix)
	if err := w.writeExpression(a); err != nil {
		return err
	}
	w.write(sep)
	if err := w.writeExpression(b); err != nil {
		return err
	}
	w.write(suffix)
	return nil
}

func (w *Writer) writeTernary(n *ast.Node) error {
	w.write("(")
	if err := w.writeExpression(n.Children[0]); err != nil {
		return err
	}
	return w.writeWrapped(" ? ", n.Children[1], " : ", n.Children[2], ")")
}

// writeFieldSelection writes a swizzle or a struct field access.
func (w *Writer) writeFieldSelection(n *ast.Node) error {
	if err := w.writeExpression(n.Children[0]); err != nil {
		return err
	}
	w.write(".")
	if n.Sem.Swizzle != nil {
		w.write(swizzleString(n.Sem.Swizzle))
		return nil
	}
	w.write(fieldName(n.Name))
	return nil
}

// =============================================================================
// Calls
// =============================================================================

// writeCall writes a function call or constructor according to the
// shape verification assigned to it.
func (w *Writer) writeCall(h ast.Handle, n *ast.Node) error {
	switch n.Sem.Shape {
	case ast.ShapeFunction:
		fn := w.ctx.Registry.Function(n.Sem.Info)
		if fn == nil {
			return w.unexpected(h)
		}
		if fn.IsBuiltin() {
			return w.writeBuiltinCall(n, fn.Builtin)
		}
		w.write(fn.GenName + "(")
		if err := w.writeArguments(n.Children); err != nil {
			return err
		}
		if len(n.Children) > 0 {
			w.write(", ")
		}
		w.write(InputParam + ", " + OutputParam + ")")
		return nil

	case ast.ShapeStruct:
		st, _ := n.Sem.Type.(*types.Struct)
		tn := w.ctx.Registry.TypeNameOf(st)
		if tn == nil {
			return w.unexpected(h)
		}
		return w.writeCallTo(ctorName(tn), n.Children)

	case ast.ShapeConvert:
		return w.writeCallTo(n.Token.HLSL(), n.Children)

	case ast.ShapeBroadcast:
		w.write(fmt.Sprintf("((%s)(", n.Token.HLSL()))
		if err := w.writeExpression(n.Children[0]); err != nil {
			return err
		}
		w.write("))")
		return nil

	case ast.ShapeComponents:
		return w.writeComponentConstructor(n)

	case ast.ShapeDiagonal:
		return w.writeCallTo(w.diagonalHelper(n.Token, w.argToken(n, 0)), n.Children)

	case ast.ShapeMatrixResize, ast.ShapeVectorFromMatrix:
		return w.writeCallTo(w.matrixConversionHelper(n.Token, w.argToken(n, 0)), n.Children)
	}
	return w.unexpected(h)
}

// argToken returns the basic type of the i-th argument.
func (w *Writer) argToken(n *ast.Node, i int) types.Token {
	tok, _ := types.AsBasic(w.tree.Node(n.Children[i]).Sem.Type)
	return tok
}

// writeCallTo writes name(args).
func (w *Writer) writeCallTo(name string, args []ast.Handle) error {
	w.write(name + "(")
	if err := w.writeArguments(args); err != nil {
		return err
	}
	w.write(")")
	return nil
}

// writeArguments writes a comma separated argument list. A sampler
// argument is written twice: once naming the sampler and once the
// texture.
func (w *Writer) writeArguments(args []ast.Handle) error {
	for i, a := range args {
		if i > 0 {
			w.write(", ")
		}
		if !types.ContainsSampler(w.tree.Node(a).Sem.Type) {
			if err := w.writeExpression(a); err != nil {
				return err
			}
			continue
		}
		if err := w.writeSlot(a, sema.SlotSampler); err != nil {
			return err
		}
		w.write(", ")
		if err := w.writeSlot(a, sema.SlotTexture); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writeSlot(h ast.Handle, slot int) error {
	saved := w.slot
	w.slot = slot
	err := w.writeExpression(h)
	w.slot = saved
	return err
}

// writeComponentConstructor writes T(a, b, ...). Components of the last
// argument beyond the size of T are dropped with a swizzle.
func (w *Writer) writeComponentConstructor(n *ast.Node) error {
	w.write(n.Token.HLSL() + "(")
	last := len(n.Children) - 1
	for i, a := range n.Children {
		if i > 0 {
			w.write(", ")
		}
		if err := w.writeExpression(a); err != nil {
			return err
		}
		if i == last && n.Sem.Truncate > 0 {
			keep := w.argToken(n, i).Size() - n.Sem.Truncate
			w.write("." + swizzleString(componentRange(keep)))
		}
	}
	w.write(")")
	return nil
}

// =============================================================================
// Builtin Functions
// =============================================================================

// writeBuiltinCall writes a call to a GLSL builtin as the equivalent HLSL
// intrinsic, operator or helper function.
func (w *Writer) writeBuiltinCall(n *ast.Node, id sema.BuiltinID) error {
	args := n.Children

	if id.IsTexture() {
		if w.ctx.Stage() == sema.StageVertex {
			if !w.model.SupportsVertexTextures() {
				return NewErrorAt(ErrUnsupportedFeature, n.Pos,
					fmt.Sprintf("%s cannot sample textures in a vertex shader", w.model))
			}
			w.usedFeatures |= FeatureVertexTextures
		}
		return w.writeCallTo(w.textureHelper(id, w.argTypes(args)), args)
	}

	if op, ok := componentOperators[id]; ok {
		if len(args) == 1 {
			w.write("(" + op)
			if err := w.writeExpression(args[0]); err != nil {
				return err
			}
			w.write(")")
			return nil
		}
		return w.writeWrapped("(", args[0], " "+op+" ", args[1], ")")
	}

	switch id {
	case sema.BuiltinMod:
		return w.writeCallTo(w.modHelper(w.argTypes(args)), args)
	case sema.BuiltinSign:
		// HLSL sign returns int.
		w.write(fmt.Sprintf("((%s)sign(", w.typeName(n.Sem.Type)))
		if err := w.writeExpression(args[0]); err != nil {
			return err
		}
		w.write("))")
		return nil
	case sema.BuiltinAtan:
		if len(args) == 2 {
			return w.writeCallTo("atan2", args)
		}
	case sema.BuiltinDFdx, sema.BuiltinDFdy, sema.BuiltinFwidth:
		w.usedFeatures |= FeatureDerivatives
	}

	name, ok := intrinsicNames[id]
	if !ok {
		name = sema.BuiltinName(id)
	}
	return w.writeCallTo(name, args)
}

func (w *Writer) argTypes(args []ast.Handle) []types.Type {
	out := make([]types.Type, len(args))
	for i, a := range args {
		out[i] = w.tree.Node(a).Sem.Type
	}
	return out
}
