// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package sema

import (
	"fmt"

	"github.com/gogpu/essl/ast"
	"github.com/gogpu/essl/types"
)

// Info is one of *VariableInfo, *FunctionInfo or *TypeNameInfo.
type Info interface {
	// Symbol returns the interned name.
	Symbol() Symbol

	// Scope returns the declaring scope.
	Scope() ScopeID

	// IsBuiltin reports whether the info was seeded by the builtin table.
	IsBuiltin() bool

	isInfo()
}

type infoBase struct {
	sym     Symbol
	scope   ScopeID
	builtin bool
}

func (b *infoBase) Symbol() Symbol  { return b.sym }
func (b *infoBase) Scope() ScopeID  { return b.scope }
func (b *infoBase) IsBuiltin() bool { return b.builtin }
func (b *infoBase) isInfo()         {}

// Name slots of a variable. Split samplers use both.
const (
	SlotSampler = 0
	SlotTexture = 1
)

// VariableInfo describes a declared variable or parameter.
type VariableInfo struct {
	infoBase

	Type      types.Type
	Storage   ast.Storage
	Precision types.Precision

	// Const is the folded initializer of a const variable.
	Const types.Value

	// Names are the generated HLSL names. Slot 1 is set only after
	// sampler splitting.
	Names [2]string

	Param     bool
	Qualifier ast.ParamQualifier

	// LoopIndex marks the index of a for loop; Loop is that loop.
	LoopIndex bool
	Loop      ast.Handle

	Writes     int
	Referenced bool
	Invariant  bool

	// ReadOnly marks builtin inputs such as gl_FragCoord.
	ReadOnly bool

	// Extension gates a builtin behind an #extension directive.
	Extension string

	// Register is the first s/t register of a uniform sampler, or -1.
	Register int

	// Location is the semantic index of an attribute or varying, or -1.
	Location int

	// Decl is the declarator or parameter node.
	Decl ast.Handle
}

// Name returns the generated name in the given slot.
func (v *VariableInfo) Name(slot int) string {
	if slot == SlotTexture && v.Names[SlotTexture] != "" {
		return v.Names[SlotTexture]
	}
	return v.Names[SlotSampler]
}

// Writable reports whether the variable may be assigned in the given stage.
func (v *VariableInfo) Writable(stage Stage) bool {
	switch v.Storage {
	case ast.StorageConst, ast.StorageUniform, ast.StorageAttribute:
		return false
	case ast.StorageVarying:
		return stage == StageVertex
	}
	return !v.ReadOnly
}

// IsGlobal reports whether the variable is declared at global scope.
func (v *VariableInfo) IsGlobal() bool { return v.scope == GlobalScope || v.builtin }

// ParamCategory constrains a builtin parameter.
type ParamCategory uint8

const (
	// CatExact requires the declared type.
	CatExact ParamCategory = iota

	// CatGenType binds float, vec2, vec3 or vec4.
	CatGenType

	// CatGenVec binds a float or int vector.
	CatGenVec

	// CatAnyVec binds any vector, bool vectors included.
	CatAnyVec

	// CatBoolVec binds a bool vector.
	CatBoolVec

	// CatMat binds a matrix.
	CatMat
)

func (c ParamCategory) accepts(tok types.Token) bool {
	switch c {
	case CatGenType:
		return tok.IsFloat() && (tok.IsScalar() || tok.IsVector())
	case CatGenVec:
		return tok.IsVector() && tok.IsNumeric()
	case CatAnyVec:
		return tok.IsVector()
	case CatBoolVec:
		return tok.IsVector() && tok.IsBool()
	case CatMat:
		return tok.IsMatrix()
	}
	return false
}

// ReturnRule derives a builtin's return type.
type ReturnRule uint8

const (
	// RetExact returns Signature.Return.
	RetExact ReturnRule = iota

	// RetGeneric returns the type bound to the generic parameters.
	RetGeneric

	// RetBoolVec returns a bool vector as long as the bound type.
	RetBoolVec
)

// ParamSpec is one formal parameter.
type ParamSpec struct {
	Category  ParamCategory
	Type      types.Type
	Qualifier ast.ParamQualifier
}

// Signature is one overload of a function.
type Signature struct {
	Params []ParamSpec
	Return types.Type
	Rule   ReturnRule

	// Precision is the declared return precision of a user function.
	Precision types.Precision

	// Stage restricts a builtin overload to one stage.
	Stage StageMask
}

// Match checks args against the signature and returns the resolved return
// type and the type bound to the generic category, if any.
func (s *Signature) Match(args []types.Type) (ret types.Type, bound types.Type, ok bool) {
	if len(args) != len(s.Params) {
		return nil, nil, false
	}
	for i, p := range s.Params {
		if p.Category == CatExact {
			if !p.Type.Equals(args[i]) {
				return nil, nil, false
			}
			continue
		}
		tok, isBasic := types.AsBasic(args[i])
		if !isBasic || !p.Category.accepts(tok) {
			return nil, nil, false
		}
		if bound != nil && !bound.Equals(args[i]) {
			return nil, nil, false
		}
		bound = args[i]
	}

	switch s.Rule {
	case RetGeneric:
		return bound, bound, true
	case RetBoolVec:
		tok, _ := types.AsBasic(bound)
		return types.NewBasic(types.Vector(types.Bool, tok.Components())), bound, true
	}
	return s.Return, bound, true
}

// SameParams reports whether o has the same parameter types.
func (s *Signature) SameParams(o *Signature) bool {
	if len(s.Params) != len(o.Params) {
		return false
	}
	for i, p := range s.Params {
		if !p.Type.Equals(o.Params[i].Type) {
			return false
		}
	}
	return true
}

// SameQualifiers reports whether o has the same parameter qualifiers.
func (s *Signature) SameQualifiers(o *Signature) bool {
	for i, p := range s.Params {
		if p.Qualifier != o.Params[i].Qualifier {
			return false
		}
	}
	return true
}

// FunctionInfo describes a function and all its overloads.
type FunctionInfo struct {
	infoBase

	Signatures []Signature

	// Builtin is the builtin equivalent, BuiltinNone for user functions.
	Builtin BuiltinID

	// Extension gates a builtin behind an #extension directive.
	Extension string

	Defined bool
	Called  bool

	// Definition is the FunctionDefinition node of a user function.
	Definition ast.Handle

	// FirstCall is where the function was first called.
	FirstCall ast.Handle

	// Callees are the user functions called from the body.
	Callees []ast.InfoID

	// GenName is the generated HLSL name of a user function.
	GenName string
}

// TypeNameInfo describes a struct type name. It owns the struct; the
// reverse edge is Registry.TypeNameOf.
type TypeNameInfo struct {
	infoBase

	Struct *types.Struct

	// Anonymous marks a synthesized name.
	Anonymous bool

	GenName   string
	CtorName  string
	EqualName string

	// Decl is the struct specifier node.
	Decl ast.Handle
}

// Registry owns every identifier info of a shader, indexed by ast.InfoID
// in declaration order. Infos outlive the tree.
type Registry struct {
	infos []Info

	// Variables lists every declared variable, builtins excluded.
	Variables []ast.InfoID

	// Functions lists user functions in declaration order.
	Functions []ast.InfoID

	// TypeNames lists struct type names, builtins included.
	TypeNames []ast.InfoID
}

// Add registers info and returns its id.
func (r *Registry) Add(info Info) ast.InfoID {
	id := ast.InfoID(len(r.infos))
	r.infos = append(r.infos, info)
	if info.IsBuiltin() {
		if _, ok := info.(*TypeNameInfo); ok {
			r.TypeNames = append(r.TypeNames, id)
		}
		return id
	}
	switch info.(type) {
	case *VariableInfo:
		r.Variables = append(r.Variables, id)
	case *FunctionInfo:
		r.Functions = append(r.Functions, id)
	case *TypeNameInfo:
		r.TypeNames = append(r.TypeNames, id)
	}
	return id
}

// Get returns the info for id, or nil.
func (r *Registry) Get(id ast.InfoID) Info {
	if id < 0 || int(id) >= len(r.infos) {
		return nil
	}
	return r.infos[id]
}

// Len returns the number of infos.
func (r *Registry) Len() int { return len(r.infos) }

// Variable returns the variable info for id, or nil.
func (r *Registry) Variable(id ast.InfoID) *VariableInfo {
	v, _ := r.Get(id).(*VariableInfo)
	return v
}

// Function returns the function info for id, or nil.
func (r *Registry) Function(id ast.InfoID) *FunctionInfo {
	f, _ := r.Get(id).(*FunctionInfo)
	return f
}

// TypeName returns the type-name info for id, or nil.
func (r *Registry) TypeName(id ast.InfoID) *TypeNameInfo {
	t, _ := r.Get(id).(*TypeNameInfo)
	return t
}

// TypeNameOf returns the type name owning s.
func (r *Registry) TypeNameOf(s *types.Struct) *TypeNameInfo {
	return r.TypeName(ast.InfoID(s.ID))
}

// generatedName is the deterministic HLSL name of a user identifier.
func generatedName(scope ScopeID, sym Symbol) string {
	return fmt.Sprintf("_u%d_%d", scope, sym)
}
