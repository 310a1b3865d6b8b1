// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package essl translates OpenGL ES Shading Language 1.00 shaders into
// HLSL for Direct3D 10 and 11 class hardware, including the downlevel 9_3
// profiles.
//
// Translation runs four stages on one shader:
//
//  1. parse: GLSL ES source to an unverified syntax tree
//  2. verify: name resolution, typing and every GLSL ES rule, reported as
//     sema.Diagnostics
//  3. rewrite: tree transformations that make the tree printable as HLSL
//  4. emit: HLSL text plus register bindings
//
// Example:
//
//	res, err := essl.Translate(source, essl.DefaultOptions(sema.StageFragment))
//	if err != nil {
//	    var ds sema.Diagnostics
//	    if errors.As(err, &ds) {
//	        fmt.Println(ds.FormatWithContext(source))
//	    }
//	    return err
//	}
//	fmt.Println(res.HLSL)
//
// A vertex and fragment shader pair is translated with TranslateProgram,
// which also gives both stages the same varying semantics and links them.
package essl

import (
	"github.com/go-logr/logr"
	"github.com/pkg/errors"

	"github.com/gogpu/essl/ast"
	"github.com/gogpu/essl/hlsl"
	"github.com/gogpu/essl/parse"
	"github.com/gogpu/essl/rewrite"
	"github.com/gogpu/essl/sema"
)

// Options configures translation of one shader.
type Options struct {
	Stage sema.Stage

	// Level bounds resource budgets and selects the shader model.
	Level sema.FeatureLevel

	// Derivatives allows GL_OES_standard_derivatives.
	Derivatives bool

	// FragDepth allows GL_EXT_frag_depth.
	FragDepth bool

	// VaryingLocations pins varying semantic indices by name.
	VaryingLocations map[string]int

	// MaxTreeDepth and MaxNodes bound the size of accepted shaders; zero
	// uses the defaults.
	MaxTreeDepth int
	MaxNodes     int

	// HLSL configures the emitter.
	HLSL hlsl.Options

	// Logger receives progress at V(1) and rewrite details at V(2).
	Logger logr.Logger
}

// DefaultOptions returns options for stage at feature level 11_0.
func DefaultOptions(stage sema.Stage) Options {
	def := sema.DefaultOptions(stage)
	return Options{
		Stage:        stage,
		Level:        def.Level,
		MaxTreeDepth: def.MaxTreeDepth,
		MaxNodes:     def.MaxNodes,
		HLSL:         *hlsl.DefaultOptions(),
		Logger:       logr.Discard(),
	}
}

func (o *Options) semaOptions() sema.Options {
	return sema.Options{
		Stage:            o.Stage,
		Level:            o.Level,
		Derivatives:      o.Derivatives,
		FragDepth:        o.FragDepth,
		MaxTreeDepth:     o.MaxTreeDepth,
		MaxNodes:         o.MaxNodes,
		VaryingLocations: o.VaryingLocations,
		Logger:           o.Logger,
	}
}

// Result is a translated shader.
type Result struct {
	Stage sema.Stage

	// HLSL is the generated source.
	HLSL string

	// Uniforms lists the active uniform leaves.
	Uniforms []sema.Uniform

	// Varyings are sorted by semantic index; Attributes keep declaration
	// order.
	Varyings   []sema.Variable
	Attributes []sema.Variable

	// Interface is what the other stage links against.
	Interface sema.Interface

	Info *hlsl.TranslationInfo
}

// Translate parses and translates one shader. Problems in the shader are
// returned as sema.Diagnostics; syntax errors are reported with kind
// DiagSyntax.
func Translate(source string, opts Options) (*Result, error) {
	tree, err := Parse(source)
	if err != nil {
		return nil, err
	}
	return TranslateTree(tree, opts)
}

// Parse parses source into an unverified tree. Syntax errors are returned
// as sema.Diagnostics with kind DiagSyntax.
func Parse(source string) (*ast.Tree, error) {
	tree, err := parse.Parse(source)
	if err != nil {
		return nil, syntaxDiagnostics(err)
	}
	return tree, nil
}

// TranslateTree verifies, rewrites and emits a parsed tree. The tree is
// modified by the rewrite passes.
func TranslateTree(tree *ast.Tree, opts Options) (*Result, error) {
	if tree == nil {
		return nil, errors.New("essl: nil tree")
	}
	c := sema.NewContext(tree, opts.semaOptions())
	if err := c.VerifyTree(); err != nil {
		return nil, err
	}
	if err := rewrite.Run(c); err != nil {
		return nil, err
	}

	code, info, err := hlsl.Compile(c, &opts.HLSL)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Stage:      opts.Stage,
		HLSL:       code,
		Uniforms:   c.Uniforms(),
		Varyings:   c.Varyings(),
		Attributes: c.Attributes(),
		Interface:  c.Interface(),
		Info:       info,
	}
	c.Log.V(1).Info("translated shader", "stage", opts.Stage, "profile", info.Profile,
		"uniforms", len(res.Uniforms), "varyings", len(res.Varyings))
	return res, nil
}

// syntaxDiagnostics converts parser errors into diagnostics.
func syntaxDiagnostics(err error) error {
	var perrs parse.Errors
	if !errors.As(err, &perrs) {
		return sema.Diagnostics{{Kind: sema.DiagSyntax, Context: err.Error()}}
	}
	ds := make(sema.Diagnostics, len(perrs))
	for i, e := range perrs {
		ds[i] = sema.Diagnostic{Pos: e.Pos(), Kind: sema.DiagSyntax, Context: e.Message}
	}
	return ds
}

// Program is a translated vertex and fragment shader pair.
type Program struct {
	Vertex   *Result
	Fragment *Result
}

// TranslateProgram translates a vertex and a fragment shader and links
// them. opts.Stage is ignored. The fragment shader's varyings are pinned
// to the semantic indices the vertex shader assigned, so the stages agree
// even when one declares varyings the other lacks.
func TranslateProgram(vertexSource, fragmentSource string, opts Options) (*Program, error) {
	vopts := opts
	vopts.Stage = sema.StageVertex
	vs, err := Translate(vertexSource, vopts)
	if err != nil {
		return nil, errors.WithMessage(err, "vertex shader")
	}

	fopts := opts
	fopts.Stage = sema.StageFragment
	fopts.VaryingLocations = make(map[string]int, len(vs.Varyings)+len(opts.VaryingLocations))
	for name, loc := range opts.VaryingLocations {
		fopts.VaryingLocations[name] = loc
	}
	for _, v := range vs.Varyings {
		fopts.VaryingLocations[v.Name] = v.Location
	}
	fs, err := Translate(fragmentSource, fopts)
	if err != nil {
		return nil, errors.WithMessage(err, "fragment shader")
	}

	if err := Link(vs, fs); err != nil {
		return nil, err
	}
	return &Program{Vertex: vs, Fragment: fs}, nil
}

// Link checks that a vertex and a fragment shader agree on varyings and
// shared uniforms. Mismatches are returned as sema.Diagnostics.
func Link(vertex, fragment *Result) error {
	if vertex == nil || fragment == nil {
		return errors.New("essl: link needs both shaders")
	}
	if vertex.Stage != sema.StageVertex || fragment.Stage != sema.StageFragment {
		return errors.Errorf("essl: cannot link %s shader to %s shader", vertex.Stage, fragment.Stage)
	}
	return sema.Link(vertex.Interface, fragment.Interface)
}
