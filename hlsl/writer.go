// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import (
	"fmt"
	"strings"

	"github.com/gogpu/essl/ast"
	"github.com/gogpu/essl/sema"
)

// Writer generates HLSL source from a verified, rewritten syntax tree.
// A Writer is used for one Compile call; it never modifies the tree.
type Writer struct {
	ctx     *sema.Context
	tree    *ast.Tree
	options *Options
	model   ShaderModel

	// Output buffer
	out    strings.Builder
	indent int
	result string

	namer *namer

	// slot selects which generated name of a split sampler identifiers
	// are written with.
	slot int

	// Entry point interface: members of the input and output structs and
	// the expression each variable is accessed with.
	inputs  []ioField
	outputs []ioField
	io      map[*sema.VariableInfo]string

	// Helper functions are discovered while the body is written and
	// emitted ahead of it.
	helperNames     map[string]string
	helperText      strings.Builder
	helperFunctions []string

	bindings     map[string]BindTarget
	usedFeatures FeatureFlags
}

func newWriter(c *sema.Context, options *Options) *Writer {
	model := ShaderModelFor(c.Options.Level)
	if options.ForceDownlevel {
		model = ShaderModel4_0Level9_3
	}
	return &Writer{
		ctx:         c,
		tree:        c.Tree,
		options:     options,
		model:       model,
		namer:       newNamer(),
		slot:        sema.SlotSampler,
		io:          make(map[*sema.VariableInfo]string),
		helperNames: make(map[string]string),
		bindings:    make(map[string]BindTarget),
	}
}

// String returns the generated source after writeModule.
func (w *Writer) String() string {
	return w.result
}

// writeModule generates the whole shader:
//
//  1. entry point input and output structs
//  2. struct definitions with their constructor and equality helpers
//  3. builtin helper functions used by the shader
//  4. globals and functions in source order
//  5. the main wrapper
func (w *Writer) writeModule() error {
	main := w.ctx.Registry.Function(w.ctx.Main)
	if main == nil || main.Definition == ast.InvalidHandle {
		return NewError(ErrMissingEntryPoint, "main is not defined")
	}

	w.collectIO()
	w.writeIOStructs()
	if err := w.writeStructs(); err != nil {
		return err
	}
	header := w.out.String()
	w.out.Reset()

	w.writeBuiltinUniforms()
	if err := w.writeTranslationUnit(); err != nil {
		return err
	}
	body := w.out.String()
	w.out.Reset()

	if !w.options.SuppressBoilerplate {
		w.writeEntryPoint(main)
	}

	w.result = header + w.helperText.String() + body + w.out.String()
	return nil
}

// writeTranslationUnit writes global declarations and functions.
func (w *Writer) writeTranslationUnit() error {
	for _, h := range w.tree.Children(w.tree.Root) {
		var err error
		switch w.tree.Kind(h) {
		case ast.KindDeclaration:
			err = w.writeGlobalDeclaration(h)
		case ast.KindFunctionPrototype:
			err = w.writePrototype(h)
		case ast.KindFunctionDefinition:
			err = w.writeFunction(h)
		case ast.KindPrecisionStatement, ast.KindInvariantStatement, ast.KindEmpty:
			// No HLSL equivalent.
		default:
			err = w.unexpected(h)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) unexpected(h ast.Handle) error {
	n := w.tree.Node(h)
	return NewErrorAt(ErrInternalError, n.Pos, fmt.Sprintf("unexpected %s node", n.Kind))
}

// Output helpers

// writeLine writes a line with indentation and newline.
//
//nolint:goprintffuncname
func (w *Writer) writeLine(format string, args ...any) {
	w.writeIndent()
	if len(args) == 0 {
		w.out.WriteString(format)
	} else {
		fmt.Fprintf(&w.out, format, args...)
	}
	w.out.WriteByte('\n')
}

func (w *Writer) writeIndent() {
	for i := 0; i < w.indent; i++ {
		w.out.WriteString("    ")
	}
}

func (w *Writer) write(s string) {
	w.out.WriteString(s)
}

func (w *Writer) pushIndent() {
	w.indent++
}

func (w *Writer) popIndent() {
	if w.indent > 0 {
		w.indent--
	}
}
