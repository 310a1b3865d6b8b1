// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package sema

import (
	"strings"

	"github.com/gogpu/essl/ast"
	"github.com/gogpu/essl/types"
)

// checkCall types a function call or constructor. A call node with an
// empty name constructs the basic type in n.Token; otherwise the name
// resolves to a struct type name or a set of function overloads.
func (c *Context) checkCall(h ast.Handle, n *ast.Node) error {
	args := make([]types.Type, len(n.Children))
	allConst := len(n.Children) > 0
	for i, a := range n.Children {
		an := c.Tree.Node(a)
		args[i] = an.Sem.Type
		if !an.Sem.Const.IsConstant() {
			allConst = false
		}
	}

	if n.Name == "" {
		return c.checkConstructor(h, n, args, allConst)
	}

	ids := c.Resolve(h, n.Name)
	if len(ids) == 0 {
		return c.fail(h, DiagUndeclaredIdentifier, n.Name)
	}
	if tn := c.Registry.TypeName(ids[0]); tn != nil {
		return c.checkStructConstructor(h, n, ids[0], tn, args, allConst)
	}
	if c.Registry.Variable(ids[0]) != nil {
		return c.fail(h, DiagNotAFunction, n.Name)
	}

	id, fn, overload, ret := c.resolveOverload(ids, args)
	if fn == nil {
		return c.fail(h, DiagNoMatchingOverload, callSignature(n.Name, args))
	}
	if fn.Extension != "" && !c.ExtensionEnabled(fn.Extension) {
		return c.fail(h, DiagExtensionNotEnabled, fn.Extension)
	}
	sig := &fn.Signatures[overload]

	for i, p := range sig.Params {
		if p.Qualifier.Writes() {
			if err := c.recordWrite(h, n.Children[i]); err != nil {
				return err
			}
		}
	}

	n.Sem.Info = id
	n.Sem.Overload = overload
	n.Sem.Shape = ast.ShapeFunction
	n.Sem.Type = ret
	n.Sem.Precision = c.callPrecision(n, fn, sig)

	if fn.IsBuiltin() {
		if allConst && builtinFolds(fn.Builtin) {
			n.Sem.Const = types.OpaqueValue()
		}
		return nil
	}

	fn.Called = true
	if fn.FirstCall == ast.InvalidHandle {
		fn.FirstCall = h
	}
	if def := c.Tree.Ancestor(h, ast.KindFunctionDefinition); def != ast.InvalidHandle {
		caller := c.Registry.Function(c.Tree.Node(c.Tree.Prototype(def)).Sem.Info)
		if caller != nil && !containsInfo(caller.Callees, id) {
			caller.Callees = append(caller.Callees, id)
		}
	}
	return nil
}

// resolveOverload returns the first overload of the candidate functions
// matching args.
func (c *Context) resolveOverload(ids []ast.InfoID, args []types.Type) (ast.InfoID, *FunctionInfo, int, types.Type) {
	for _, id := range ids {
		fn := c.Registry.Function(id)
		if fn == nil {
			continue
		}
		for i := range fn.Signatures {
			if ret, _, ok := fn.Signatures[i].Match(args); ok {
				return id, fn, i, ret
			}
		}
	}
	return ast.NoInfo, nil, -1, nil
}

// callPrecision derives the precision of a call result. User functions
// have a declared return precision; texture lookups take the sampler's;
// other builtins take the highest argument precision.
func (c *Context) callPrecision(n *ast.Node, fn *FunctionInfo, sig *Signature) types.Precision {
	if !fn.IsBuiltin() {
		return sig.Precision
	}
	if tok, ok := types.AsBasic(n.Sem.Type); ok && tok.IsBool() {
		return types.PrecisionUndefined
	}
	if fn.Builtin.IsTexture() {
		return c.Tree.Node(n.Children[0]).Sem.Precision
	}
	var p types.Precision
	for _, a := range n.Children {
		p = maxPrecision(p, c.Tree.Node(a).Sem.Precision)
	}
	return p
}

func containsInfo(ids []ast.InfoID, id ast.InfoID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

// callSignature formats a call for diagnostics, e.g. "f(int, vec3)".
func callSignature(name string, args []types.Type) string {
	parts := make([]string, len(args))
	for i, a := range args {
		if a == nil {
			parts[i] = "?"
			continue
		}
		parts[i] = a.String()
	}
	return name + "(" + strings.Join(parts, ", ") + ")"
}

func (c *Context) checkStructConstructor(h ast.Handle, n *ast.Node, id ast.InfoID, tn *TypeNameInfo, args []types.Type, allConst bool) error {
	st := tn.Struct
	if len(args) != len(st.Fields) {
		return c.failf(h, DiagConstructorArity, "%s: expected %d arguments, got %d", n.Name, len(st.Fields), len(args))
	}
	if st.HasArrays() {
		return c.fail(h, DiagConstructorType, n.Name)
	}
	for i, f := range st.Fields {
		if !f.Type.Equals(args[i]) {
			return c.failf(n.Children[i], DiagConstructorType, "%s.%s expects %s, got %s", n.Name, f.Name, f.Type, args[i])
		}
	}

	st.MarkConstructorUsed()
	n.Sem.Info = id
	n.Sem.Shape = ast.ShapeStruct
	n.Sem.Type = st
	if allConst {
		n.Sem.Const = types.OpaqueValue()
	}
	return nil
}

// checkConstructor types a basic-type constructor and tags its shape.
func (c *Context) checkConstructor(h ast.Handle, n *ast.Node, args []types.Type, allConst bool) error {
	target := n.Token
	if target == types.Void || target.IsSampler() {
		return c.fail(h, DiagConstructorType, target.String())
	}
	if len(args) == 0 {
		return c.fail(h, DiagConstructorArity, target.String())
	}

	toks := make([]types.Token, len(args))
	var prec types.Precision
	for i, a := range args {
		tok, ok := types.AsBasic(a)
		if !ok || tok == types.Void || tok.IsSampler() {
			return c.failf(n.Children[i], DiagConstructorType, "%s(%s)", target, a)
		}
		toks[i] = tok
		prec = maxPrecision(prec, c.Tree.Node(n.Children[i]).Sem.Precision)
	}

	n.Sem.Type = types.NewBasic(target)
	if !target.IsBool() {
		n.Sem.Precision = prec
	}

	if len(args) == 1 {
		if err := c.singleArgumentShape(h, n, target, toks[0]); err != nil {
			return err
		}
		if n.Sem.Shape == ast.ShapeConvert && target.IsScalar() {
			n.Sem.Const = foldConvert(target, c.Tree.Node(n.Children[0]).Sem.Const)
		} else if allConst {
			n.Sem.Const = types.OpaqueValue()
		}
		return nil
	}

	// Component walk: every argument but the last must fit entirely.
	need := target.Size()
	have := 0
	for i, tok := range toks {
		if tok.IsMatrix() {
			return c.fail(n.Children[i], DiagConstructorMatrixArgs, target.String())
		}
		if have >= need {
			return c.failf(h, DiagConstructorArity, "%s: too many arguments", target)
		}
		have += tok.Size()
	}
	if have < need {
		return c.failf(h, DiagConstructorArity, "%s: not enough data", target)
	}

	n.Sem.Shape = ast.ShapeComponents
	n.Sem.Truncate = have - need
	if allConst {
		n.Sem.Const = types.OpaqueValue()
	}
	return nil
}

// singleArgumentShape classifies a one-argument constructor.
func (c *Context) singleArgumentShape(h ast.Handle, n *ast.Node, target, arg types.Token) error {
	switch {
	case arg.IsMatrix():
		if target.IsMatrix() {
			if target == arg {
				n.Sem.Shape = ast.ShapeConvert
			} else {
				n.Sem.Shape = ast.ShapeMatrixResize
			}
			return nil
		}
		n.Sem.Shape = ast.ShapeVectorFromMatrix
		return nil

	case arg.IsScalar():
		switch {
		case target.IsScalar():
			n.Sem.Shape = ast.ShapeConvert
		case target.IsMatrix():
			n.Sem.Shape = ast.ShapeDiagonal
		default:
			n.Sem.Shape = ast.ShapeBroadcast
		}
		return nil
	}

	// Vector argument.
	need := target.Size()
	have := arg.Size()
	switch {
	case have < need:
		return c.failf(h, DiagConstructorArity, "%s(%s): not enough data", target, arg)
	case have == need && !target.IsMatrix():
		n.Sem.Shape = ast.ShapeConvert
	default:
		n.Sem.Shape = ast.ShapeComponents
		n.Sem.Truncate = have - need
	}
	return nil
}
