// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package sema

import (
	"github.com/pkg/errors"

	"github.com/gogpu/essl/ast"
	"github.com/gogpu/essl/types"
)

// =============================================================================
// Type specifiers
// =============================================================================

func (c *Context) checkTypeSpecifier(h ast.Handle, n *ast.Node) error {
	// Explicit precision, else the scope default for the type.
	prec := n.Precision

	switch {
	case len(n.Children) > 0:
		st := c.Tree.Node(n.Children[0])
		n.Sem.Type = st.Sem.Type
		n.Sem.Info = st.Sem.Info
	case n.Name != "":
		ids := c.Resolve(h, n.Name)
		if len(ids) == 0 {
			return c.fail(h, DiagUndeclaredIdentifier, n.Name)
		}
		tn := c.Registry.TypeName(ids[0])
		if tn == nil {
			return c.fail(h, DiagNotAType, n.Name)
		}
		n.Sem.Type = tn.Struct
		n.Sem.Info = ids[0]
	default:
		n.Sem.Type = types.NewBasic(n.Token)
		if prec != types.PrecisionUndefined {
			if _, ok := precisionSlot(n.Token); !ok {
				return c.fail(h, DiagInvalidPrecision, n.Token.String())
			}
		} else {
			prec = c.enclosingScope(h).DefaultPrecision(n.Token)
		}
	}

	n.Sem.Precision = prec
	return nil
}

// =============================================================================
// Structs
// =============================================================================

func (c *Context) checkStructSpecifier(h ast.Handle, n *ast.Node) error {
	var fields []types.Field
	for _, member := range n.Children {
		m := c.Tree.Node(member)
		if m.Storage != ast.StorageNone || m.Flags.Has(ast.FlagInvariant) {
			return c.fail(member, DiagInvalidQualifier, m.Storage.String())
		}
		spec := c.Tree.TypeSpec(member)
		if c.Tree.StructSpec(spec) != ast.InvalidHandle {
			return c.fail(spec, DiagEmbeddedStruct, "")
		}
		sn := c.Tree.Node(spec)
		for _, d := range c.Tree.Declarators(member) {
			dn := c.Tree.Node(d)
			if _, dup := fieldIndex(fields, dn.Name); dup {
				return c.fail(d, DiagDuplicateField, dn.Name)
			}
			if types.ContainsSampler(dn.Sem.Type) {
				return c.fail(d, DiagSamplerInStruct, dn.Name)
			}
			fields = append(fields, types.Field{
				Name:      dn.Name,
				Type:      dn.Sem.Type,
				Precision: sn.Sem.Precision,
			})
		}
	}

	name := n.Name
	st, err := types.NewStruct(name, fields)
	if err != nil {
		if errors.Is(err, types.ErrStructNesting) {
			return c.fail(h, DiagStructNesting, name)
		}
		return err
	}

	info := &TypeNameInfo{Struct: st}
	if name == "" {
		info.Anonymous = true
		name = c.anonymousStructName()
	}
	id, err := c.declareTypeName(h, c.enclosingScope(h), name, info)
	if err != nil {
		return err
	}
	n.Sem.Type = st
	n.Sem.Info = id
	return nil
}

func fieldIndex(fields []types.Field, name string) (int, bool) {
	for i, f := range fields {
		if f.Name == name {
			return i, true
		}
	}
	return -1, false
}

// =============================================================================
// Declarators
// =============================================================================

// arraySize evaluates the array size child of a declarator or parameter.
func (c *Context) arraySize(h ast.Handle) (int, error) {
	size := c.Tree.ArraySize(h)
	if size == ast.InvalidHandle {
		return types.NotArray, nil
	}
	sn := c.Tree.Node(size)
	if !types.IsToken(sn.Sem.Type, types.Int) || sn.Sem.Const.Kind != types.ValueInt || sn.Sem.Const.Int < 1 {
		return 0, c.fail(size, DiagArraySize, "")
	}
	return int(sn.Sem.Const.Int), nil
}

func (c *Context) checkDeclarator(h ast.Handle, n *ast.Node) error {
	decl := n.Parent
	dn := c.Tree.Node(decl)
	spec := c.Tree.Node(c.Tree.TypeSpec(decl))

	size, err := c.arraySize(h)
	if err != nil {
		return err
	}
	typ, err := types.WrapArray(spec.Sem.Type, size)
	if err != nil {
		return c.fail(h, DiagArraySize, n.Name)
	}
	n.Sem.Type = typ
	n.Sem.Precision = spec.Sem.Precision

	if types.IsVoid(typ) {
		return c.fail(h, DiagVoidVariable, n.Name)
	}

	// Struct members are collected by the struct specifier.
	if c.Tree.Kind(dn.Parent) == ast.KindStructSpecifier {
		if n.Flags.Has(ast.FlagInitializer) {
			return c.fail(h, DiagInitializerNotAllowed, n.Name)
		}
		return nil
	}

	if err := c.checkStorage(h, n, dn, typ); err != nil {
		return err
	}

	v := &VariableInfo{
		Type:      typ,
		Storage:   dn.Storage,
		Precision: spec.Sem.Precision,
		Invariant: dn.Flags.Has(ast.FlagInvariant),
		Register:  -1,
		Location:  -1,
		Loop:      ast.InvalidHandle,
	}

	if init := c.Tree.Initializer(h); init != ast.InvalidHandle {
		in := c.Tree.Node(init)
		if !typ.Equals(in.Sem.Type) {
			return c.failf(init, DiagTypeMismatch, "cannot initialize %s with %s", typ, in.Sem.Type)
		}
		if dn.Storage == ast.StorageConst {
			if !in.Sem.Const.IsConstant() {
				return c.fail(init, DiagConstNotConstant, n.Name)
			}
			v.Const = in.Sem.Const
		}
	} else if dn.Storage == ast.StorageConst {
		return c.fail(h, DiagConstRequiresInitializer, n.Name)
	}

	if c.Tree.Kind(dn.Parent) == ast.KindFor && c.Tree.IndexOf(dn.Parent, decl) == 0 {
		v.LoopIndex = true
		v.Loop = dn.Parent
	}

	id, err := c.declareVariable(h, c.enclosingScope(h), n.Name, v)
	if err != nil {
		return err
	}
	n.Sem.Info = id
	n.Sem.Const = v.Const
	return nil
}

// checkStorage applies the qualifier and context rules of a variable
// declaration.
func (c *Context) checkStorage(h ast.Handle, n, dn *ast.Node, typ types.Type) error {
	global := dn.Parent == c.Tree.Root
	elem, isBasic := types.AsBasic(types.Elem(typ))

	switch dn.Storage {
	case ast.StorageAttribute:
		if !global || c.Options.Stage != StageVertex || !isBasic || !elem.IsFloat() || types.ArraySize(typ) != types.NotArray {
			return c.fail(h, DiagInvalidQualifier, "attribute")
		}
	case ast.StorageVarying:
		if !global || !isBasic || !elem.IsFloat() {
			return c.fail(h, DiagInvalidQualifier, "varying")
		}
	case ast.StorageUniform:
		if !global {
			return c.fail(h, DiagInvalidQualifier, "uniform")
		}
	}

	switch dn.Storage {
	case ast.StorageAttribute, ast.StorageVarying, ast.StorageUniform:
		if n.Flags.Has(ast.FlagInitializer) {
			return c.fail(h, DiagInitializerNotAllowed, n.Name)
		}
	}
	if types.ArraySize(typ) != types.NotArray && n.Flags.Has(ast.FlagInitializer) {
		return c.fail(h, DiagInitializerNotAllowed, n.Name)
	}

	if types.ContainsSampler(typ) && dn.Storage != ast.StorageUniform {
		return c.fail(h, DiagSamplerNotUniform, n.Name)
	}
	if dn.Flags.Has(ast.FlagInvariant) && dn.Storage != ast.StorageVarying {
		return c.fail(h, DiagInvariantMisuse, n.Name)
	}

	// Temporaries take the precision of the expression they hold, which
	// may be undefined for literals.
	if n.Flags.Has(ast.FlagInternal) {
		return nil
	}
	if isBasic && elem.IsFloat() && c.Tree.Node(c.Tree.TypeSpec(n.Parent)).Sem.Precision == types.PrecisionUndefined {
		return c.fail(h, DiagMissingPrecision, n.Name)
	}
	return nil
}

// =============================================================================
// Functions
// =============================================================================

func (c *Context) checkParameter(h ast.Handle, n *ast.Node) error {
	spec := c.Tree.Node(c.Tree.TypeSpec(h))
	size, err := c.arraySize(h)
	if err != nil {
		return err
	}
	typ, err := types.WrapArray(spec.Sem.Type, size)
	if err != nil {
		return c.fail(h, DiagArraySize, n.Name)
	}
	n.Sem.Type = typ
	n.Sem.Precision = spec.Sem.Precision

	if types.IsVoid(typ) {
		return c.fail(h, DiagVoidVariable, n.Name)
	}
	if n.Param.Writes() && (n.Storage == ast.StorageConst || types.ContainsSampler(typ)) {
		return c.fail(h, DiagParameterQualifier, n.Param.String())
	}
	if tok, ok := types.AsBasic(types.Elem(typ)); ok && tok.IsFloat() && spec.Sem.Precision == types.PrecisionUndefined {
		return c.fail(h, DiagMissingPrecision, n.Name)
	}

	if n.Name == "" {
		return nil
	}
	storage := ast.StorageNone
	if n.Storage == ast.StorageConst {
		storage = ast.StorageConst
	}
	v := &VariableInfo{
		Type:      typ,
		Storage:   storage,
		Precision: spec.Sem.Precision,
		Param:     true,
		Qualifier: n.Param,
		Register:  -1,
		Location:  -1,
		Loop:      ast.InvalidHandle,
	}
	id, err := c.declareVariable(h, c.enclosingScope(h), n.Name, v)
	if err != nil {
		return err
	}
	n.Sem.Info = id
	return nil
}

// signatureOf builds the signature declared by a prototype.
func (c *Context) signatureOf(proto ast.Handle) Signature {
	spec := c.Tree.Node(c.Tree.TypeSpec(proto))
	sig := Signature{Return: spec.Sem.Type, Rule: RetExact, Precision: spec.Sem.Precision}
	for _, p := range c.Tree.Params(proto) {
		pn := c.Tree.Node(p)
		sig.Params = append(sig.Params, ParamSpec{
			Category:  CatExact,
			Type:      pn.Sem.Type,
			Qualifier: pn.Param,
		})
	}
	return sig
}

// checkPrototype registers a function declaration or definition. A
// prototype matching an existing signature converges on that info.
func (c *Context) checkPrototype(h ast.Handle, n *ast.Node) error {
	sig := c.signatureOf(h)
	n.Sem.Type = sig.Return

	if types.ContainsSampler(sig.Return) || types.ArraySize(sig.Return) != types.NotArray {
		return c.fail(h, DiagReturnType, n.Name)
	}
	if err := c.checkName(h, n.Name); err != nil {
		return err
	}
	if n.Name == "main" && (!types.IsVoid(sig.Return) || len(sig.Params) != 0) {
		return c.fail(h, DiagMainSignature, "")
	}

	sym := c.Symbols.Intern(n.Name)
	for _, id := range c.builtinScope.Lookup(c.Registry, sym) {
		if _, ok := c.Registry.Get(id).(*FunctionInfo); ok {
			return c.fail(h, DiagBuiltinRedefinition, n.Name)
		}
	}

	global := c.Global()
	var fn *FunctionInfo
	id := ast.NoInfo
	for _, existing := range global.Lookup(c.Registry, sym) {
		f := c.Registry.Function(existing)
		if f == nil {
			return c.fail(h, DiagRedeclaration, n.Name)
		}
		if !f.Signatures[0].SameParams(&sig) {
			continue
		}
		if !f.Signatures[0].Return.Equals(sig.Return) {
			return c.fail(h, DiagFunctionReturnMismatch, n.Name)
		}
		if !f.Signatures[0].SameQualifiers(&sig) {
			return c.fail(h, DiagParameterQualifier, n.Name)
		}
		fn, id = f, existing
		break
	}

	if fn == nil {
		fn = &FunctionInfo{
			infoBase:   infoBase{sym: sym, scope: global.ID},
			Signatures: []Signature{sig},
			Definition: ast.InvalidHandle,
			FirstCall:  ast.InvalidHandle,
			GenName:    generatedName(global.ID, sym),
		}
		id = c.Registry.Add(fn)
		global.Add(id)
	}

	if parent := n.Parent; c.Tree.Kind(parent) == ast.KindFunctionDefinition {
		if fn.Defined {
			return c.fail(h, DiagFunctionRedefinition, n.Name)
		}
		fn.Defined = true
		fn.Definition = parent
	}
	if n.Name == "main" {
		c.Main = id
	}
	n.Sem.Info = id
	return nil
}

// =============================================================================
// Precision and invariant statements
// =============================================================================

func (c *Context) checkPrecision(h ast.Handle, n *ast.Node) error {
	spec := c.Tree.Node(c.Tree.TypeSpec(h))
	switch spec.Token {
	case types.Float, types.Int, types.Sampler2D, types.SamplerCube:
	default:
		return c.fail(h, DiagInvalidPrecision, spec.Token.String())
	}
	if spec.Name != "" || len(spec.Children) > 0 {
		return c.fail(h, DiagInvalidPrecision, spec.Name)
	}
	c.enclosingScope(h).SetDefaultPrecision(spec.Token, n.Precision)
	return nil
}

func (c *Context) checkInvariant(h ast.Handle, n *ast.Node) error {
	for _, ident := range n.Children {
		in := c.Tree.Node(ident)
		v := c.Registry.Variable(in.Sem.Info)
		if v == nil || !invariantTarget(v, c.Options.Stage, c.SourceName(v)) {
			return c.fail(ident, DiagInvariantMisuse, in.Name)
		}
		v.Invariant = true
	}
	return nil
}

// invariantTarget reports whether v is a stage output that may be
// declared invariant.
func invariantTarget(v *VariableInfo, stage Stage, name string) bool {
	if v.IsBuiltin() {
		return stage == StageVertex && (name == "gl_Position" || name == "gl_PointSize")
	}
	return v.Storage == ast.StorageVarying
}
