// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package hlsl generates HLSL source from a verified and rewritten GLSL ES
// 1.00 syntax tree.
//
// The output targets the FXC compiler with Shader Model 4.0, either at
// feature level 10 and above or at the downlevel 9_3 profiles
// (vs_4_0_level_9_3, ps_4_0_level_9_3).
//
// # Usage
//
//	c := sema.NewContext(tree, sema.DefaultOptions(sema.StageFragment))
//	if err := c.VerifyTree(); err != nil {
//	    return err
//	}
//	if err := rewrite.Run(c); err != nil {
//	    return err
//	}
//	code, info, err := hlsl.Compile(c, hlsl.DefaultOptions())
//
// # Output Layout
//
// A translated shader consists of, in order:
//
//	struct VS_INPUT / PS_INPUT      stage inputs with semantics
//	struct VS_OUTPUT / PS_OUTPUT    stage outputs with semantics
//	struct definitions              with constructor and equality helpers
//	helper functions                texture lookups, mod, constructors
//	globals and functions           in source order
//	main wrapper                    zero-initializes outputs, calls main
//
// Every translated function takes the input and output structs as two
// trailing parameters, so stage variables are reached as _in.x and _out.x
// from any function.
//
// # Register Binding
//
// Uniforms are bound explicitly:
//
//	uniform float4 _u1_3 : register(c0);    // constant registers
//	SamplerState _u1_4_s : register(s0);    // sampler objects
//	Texture2D _u1_4_t : register(t0);       // texture objects
//
// TranslationInfo.RegisterBindings reports every binding.
package hlsl
