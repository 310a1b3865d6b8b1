// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package sema

import (
	"sort"

	"github.com/gogpu/essl/ast"
	"github.com/gogpu/essl/types"
)

// checkProgram runs the whole-shader checks that need the complete tree:
// entry point, call graph and resource budgets. It then assigns attribute
// and varying semantic indices.
func (c *Context) checkProgram() error {
	var first error
	keep := func(err error) {
		if err != nil && first == nil {
			first = err
		}
	}

	if main := c.Registry.Function(c.Main); main == nil || !main.Defined {
		keep(c.fail(c.Tree.Root, DiagMissingMain, ""))
	}
	for _, id := range c.Registry.Functions {
		fn := c.Registry.Function(id)
		if fn.Called && !fn.Defined {
			keep(c.fail(fn.FirstCall, DiagUndefinedFunction, c.SourceName(fn)))
		}
	}
	keep(c.checkRecursion())
	keep(c.checkBudgets())
	if first != nil {
		return first
	}

	c.assignLocations()
	return nil
}

// checkRecursion rejects cycles in the static call graph.
func (c *Context) checkRecursion() error {
	const (
		unvisited = iota
		active
		done
	)
	state := make(map[ast.InfoID]int, len(c.Registry.Functions))

	var visit func(id ast.InfoID) bool
	visit = func(id ast.InfoID) bool {
		switch state[id] {
		case active:
			return false
		case done:
			return true
		}
		state[id] = active
		for _, callee := range c.Registry.Function(id).Callees {
			if !visit(callee) {
				return false
			}
		}
		state[id] = done
		return true
	}

	for _, id := range c.Registry.Functions {
		if state[id] != unvisited {
			continue
		}
		if !visit(id) {
			fn := c.Registry.Function(id)
			at := fn.Definition
			if at == ast.InvalidHandle {
				at = c.Tree.Root
			}
			return c.fail(at, DiagRecursion, c.SourceName(fn))
		}
	}
	return nil
}

// Usage totals the registers a shader consumes.
type Usage struct {
	UniformVectors int
	Samplers       int
	VaryingVectors int
	Attributes     int
}

// Usage counts declared resources. gl_DepthRange counts only when used.
func (c *Context) Usage() Usage {
	var u Usage
	for _, id := range c.Registry.Variables {
		v := c.Registry.Variable(id)
		if !v.IsGlobal() {
			continue
		}
		switch v.Storage {
		case ast.StorageUniform:
			if types.IsSampler(v.Type) {
				u.Samplers += types.ElementCount(v.Type)
			} else {
				u.UniformVectors += types.RegisterCount(v.Type)
			}
		case ast.StorageVarying:
			u.VaryingVectors += types.RegisterCount(v.Type)
		case ast.StorageAttribute:
			u.Attributes += types.RegisterCount(v.Type)
		}
	}
	for _, id := range c.builtinScope.Infos {
		if v := c.Registry.Variable(id); v != nil && v.Storage == ast.StorageUniform && v.Referenced {
			u.UniformVectors += types.RegisterCount(v.Type)
		}
	}
	return u
}

func (c *Context) checkBudgets() error {
	u := c.Usage()
	l := c.Limits
	root := c.Tree.Root

	uniforms, samplers := l.MaxFragmentUniformVectors, l.MaxTextureImageUnits
	if c.Options.Stage == StageVertex {
		uniforms, samplers = l.MaxVertexUniformVectors, l.MaxVertexTextureImageUnits
		if u.Attributes > l.MaxVertexAttribs {
			return c.failf(root, DiagTooManyAttributes, "%d > %d", u.Attributes, l.MaxVertexAttribs)
		}
	}
	if u.UniformVectors > uniforms {
		return c.failf(root, DiagTooManyUniforms, "%d > %d", u.UniformVectors, uniforms)
	}
	if u.Samplers > samplers {
		return c.failf(root, DiagTooManySamplers, "%d > %d", u.Samplers, samplers)
	}
	if u.VaryingVectors > l.MaxVaryingVectors {
		return c.failf(root, DiagTooManyVaryings, "%d > %d", u.VaryingVectors, l.MaxVaryingVectors)
	}
	return nil
}

// assignLocations numbers attributes in declaration order and varyings by
// name, so both stages agree without seeing each other. Pinned varyings
// from Options.VaryingLocations keep their index; the rest follow them.
// Non-sampler uniforms get constant registers in declaration order;
// sampler registers are assigned when samplers are split.
func (c *Context) assignLocations() {
	var varyings []*VariableInfo
	next, constants := 0, 0
	for _, id := range c.Registry.Variables {
		v := c.Registry.Variable(id)
		switch v.Storage {
		case ast.StorageAttribute:
			v.Location = next
			next += types.RegisterCount(v.Type)
		case ast.StorageVarying:
			varyings = append(varyings, v)
		case ast.StorageUniform:
			if v.IsGlobal() && !types.IsSampler(v.Type) {
				v.Register = constants
				constants += types.RegisterCount(v.Type)
			}
		}
	}
	for _, id := range c.builtinScope.Infos {
		if v := c.Registry.Variable(id); v != nil && v.Storage == ast.StorageUniform && v.Referenced {
			v.Register = constants
			constants += types.RegisterCount(v.Type)
		}
	}

	sort.SliceStable(varyings, func(i, j int) bool {
		return c.SourceName(varyings[i]) < c.SourceName(varyings[j])
	})

	next = 0
	var free []*VariableInfo
	for _, v := range varyings {
		if loc, ok := c.Options.VaryingLocations[c.SourceName(v)]; ok {
			v.Location = loc
			if end := loc + types.RegisterCount(v.Type); end > next {
				next = end
			}
			continue
		}
		free = append(free, v)
	}
	for _, v := range free {
		v.Location = next
		next += types.RegisterCount(v.Type)
	}
}
