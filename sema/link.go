// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package sema

// Link checks that a vertex and a fragment shader agree on their shared
// interface. Every varying the fragment shader uses must be declared by
// the vertex shader with a compatible type and the same invariance.
// Uniforms declared by both must have compatible types and precisions.
// Types are compared structurally since each shader declares its own
// structs.
func Link(vertex, fragment Interface) error {
	var ds Diagnostics
	fail := func(kind DiagnosticKind, name string) {
		ds = append(ds, Diagnostic{Kind: kind, Context: name})
	}

	outputs := make(map[string]Variable, len(vertex.Varyings))
	for _, v := range vertex.Varyings {
		outputs[v.Name] = v
	}
	for _, in := range fragment.Varyings {
		out, ok := outputs[in.Name]
		if !ok {
			if in.StaticUse {
				fail(DiagLinkMissingVarying, in.Name)
			}
			continue
		}
		if !out.Type.Compatible(in.Type) || out.Invariant != in.Invariant {
			fail(DiagLinkTypeMismatch, in.Name)
		}
	}

	uniforms := make(map[string]Variable, len(vertex.Uniforms))
	for _, u := range vertex.Uniforms {
		uniforms[u.Name] = u
	}
	for _, fu := range fragment.Uniforms {
		vu, ok := uniforms[fu.Name]
		if !ok {
			continue
		}
		switch {
		case !vu.Type.Compatible(fu.Type):
			fail(DiagLinkTypeMismatch, fu.Name)
		case vu.Precision != fu.Precision:
			fail(DiagLinkPrecisionMismatch, fu.Name)
		}
	}

	if len(ds) > 0 {
		return ds
	}
	return nil
}
