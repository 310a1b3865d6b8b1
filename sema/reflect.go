// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package sema

import (
	"sort"

	"github.com/gogpu/essl/ast"
	"github.com/gogpu/essl/types"
)

// Uniform is one active uniform leaf.
type Uniform struct {
	// Name is the GLSL name with the leaf suffix, e.g. "lights[1].color".
	Name string

	// HLSLName is the generated name with the same suffix. For samplers
	// it names the sampler object and TextureName the texture object.
	HLSLName    string
	TextureName string

	Type      types.Token
	ArraySize int
	Precision types.Precision

	// Register is the first register of the leaf: a constant register,
	// or an s/t register for samplers.
	Register int

	StaticUse bool
}

// Variable describes a whole global interface variable.
type Variable struct {
	Name      string
	HLSLName  string
	Type      types.Type
	Precision types.Precision

	// Location is the semantic index of attributes and varyings.
	Location int

	// Register is the first register of a uniform.
	Register int

	Invariant bool
	StaticUse bool
}

// Interface is the part of a verified shader the other stage links
// against. It holds no tree references.
type Interface struct {
	Stage      Stage
	Uniforms   []Variable
	Varyings   []Variable
	Attributes []Variable
}

func (c *Context) variable(v *VariableInfo) Variable {
	return Variable{
		Name:      c.SourceName(v),
		HLSLName:  v.Name(SlotSampler),
		Type:      v.Type,
		Precision: v.Precision,
		Location:  v.Location,
		Register:  v.Register,
		Invariant: v.Invariant,
		StaticUse: v.Referenced,
	}
}

// globals returns the global variables with the given storage, in
// declaration order, followed by matching builtins that are referenced.
func (c *Context) globals(storage ast.Storage) []*VariableInfo {
	var out []*VariableInfo
	for _, id := range c.Registry.Variables {
		if v := c.Registry.Variable(id); v.IsGlobal() && v.Storage == storage {
			out = append(out, v)
		}
	}
	for _, id := range c.builtinScope.Infos {
		if v := c.Registry.Variable(id); v != nil && v.Storage == storage && v.Referenced {
			out = append(out, v)
		}
	}
	return out
}

// Interface returns the shader's uniforms, varyings and attributes.
func (c *Context) Interface() Interface {
	in := Interface{Stage: c.Options.Stage}
	for _, v := range c.globals(ast.StorageUniform) {
		in.Uniforms = append(in.Uniforms, c.variable(v))
	}
	for _, v := range c.globals(ast.StorageVarying) {
		in.Varyings = append(in.Varyings, c.variable(v))
	}
	for _, v := range c.globals(ast.StorageAttribute) {
		in.Attributes = append(in.Attributes, c.variable(v))
	}
	return in
}

// Uniforms flattens every uniform into its active leaves.
func (c *Context) Uniforms() []Uniform {
	var out []Uniform
	for _, v := range c.globals(ast.StorageUniform) {
		name := c.SourceName(v)
		sampler := types.IsSampler(v.Type)
		for _, leaf := range types.ActiveLeaves(v.Type) {
			u := Uniform{
				Name:      name + leaf.Suffix,
				HLSLName:  v.Name(SlotSampler) + leaf.Suffix,
				Type:      leaf.Token,
				ArraySize: leaf.ArraySize,
				Precision: v.Precision,
				Register:  v.Register + leaf.Offset,
				StaticUse: v.Referenced,
			}
			if leaf.Precision != types.PrecisionUndefined {
				u.Precision = leaf.Precision
			}
			if sampler {
				u.TextureName = v.Name(SlotTexture) + leaf.Suffix
			}
			out = append(out, u)
		}
	}
	return out
}

// Varyings returns the user varyings, sorted by location.
func (c *Context) Varyings() []Variable {
	vs := c.Interface().Varyings
	sortByLocation(vs)
	return vs
}

// Attributes returns the vertex attributes in declaration order.
func (c *Context) Attributes() []Variable {
	return c.Interface().Attributes
}

func sortByLocation(vs []Variable) {
	sort.SliceStable(vs, func(i, j int) bool { return vs[i].Location < vs[j].Location })
}
