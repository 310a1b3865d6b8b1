// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package rewrite

import (
	"github.com/gogpu/essl/ast"
	"github.com/gogpu/essl/sema"
	"github.com/gogpu/essl/types"
)

// Name suffixes of the two halves of a split sampler.
const (
	SamplerSuffix = "_s"
	TextureSuffix = "_t"
)

// SplitSamplers pairs every uniform sampler declaration and every sampler
// parameter with a clone inserted right after it. The original emits the
// sampler object and the clone the texture object; both refer to the same
// variable info, whose two name slots get the _s and _t suffixes.
//
// Uniform samplers get s and t registers from a running counter that
// advances by the element count of each sampler.
func SplitSamplers(c *sema.Context) error {
	t := c.Tree

	var decls, params []ast.Handle
	t.Walk(t.Root, func(h ast.Handle) bool {
		n := t.Node(h)
		switch n.Kind {
		case ast.KindDeclaration:
			if n.Storage == ast.StorageUniform && !n.Flags.Has(ast.FlagSamplerObject) &&
				types.ContainsSampler(t.Node(t.TypeSpec(h)).Sem.Type) {
				decls = append(decls, h)
			}
			return false
		case ast.KindParameter:
			if !n.Flags.Has(ast.FlagSamplerObject) && types.ContainsSampler(n.Sem.Type) {
				params = append(params, h)
			}
			return false
		}
		return true
	})

	for _, decl := range decls {
		for _, d := range t.Declarators(decl) {
			v := c.Registry.Variable(t.Node(d).Sem.Info)
			splitNames(v)
			v.Register = c.SamplerRegisters
			c.SamplerRegisters += types.ElementCount(v.Type)
			c.Log.V(2).Info("split sampler", "name", c.SourceName(v), "register", v.Register)
		}
		pair(t, decl)
	}

	for _, p := range params {
		if v := c.Registry.Variable(t.Node(p).Sem.Info); v != nil {
			splitNames(v)
		}
		pair(t, p)
	}
	return nil
}

// splitNames derives the sampler and texture names from the generated name.
func splitNames(v *sema.VariableInfo) {
	base := v.Names[sema.SlotSampler]
	v.Names[sema.SlotSampler] = base + SamplerSuffix
	v.Names[sema.SlotTexture] = base + TextureSuffix
}

// pair marks h as the sampler object and inserts its texture clone after it.
func pair(t *ast.Tree, h ast.Handle) {
	clone := t.Clone(h)
	t.Node(h).Flags |= ast.FlagSamplerObject
	t.Node(clone).Flags |= ast.FlagTextureObject
	parent := t.Parent(h)
	t.Insert(parent, t.IndexOf(parent, h)+1, clone)
}
