// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package sema verifies a GLSL ES 1.00 syntax tree: it builds the scope
// tree and identifier registry, attaches types and constant values,
// resolves overloads and reports diagnostics.
//
// A Context carries all mutable state of one shader's translation and is
// threaded through verification, the rewrite passes and the emitter. It is
// not safe for concurrent use.
package sema

import (
	"fmt"
	"strings"

	"github.com/go-logr/logr"
	"github.com/pkg/errors"

	"github.com/gogpu/essl/ast"
	"github.com/gogpu/essl/types"
)

// Context is the compilation context of one shader.
type Context struct {
	Tree    *ast.Tree
	Options Options
	Limits  Limits

	Symbols  *SymbolTable
	Registry *Registry
	Log      logr.Logger

	Diagnostics Diagnostics

	// ShortCircuits lists &&, || and ?: nodes in discovery order.
	ShortCircuits []ast.Handle

	// Structs holds struct specifiers hoisted to global scope.
	Structs []ast.Handle

	// Main is the info of the entry point, or NoInfo.
	Main ast.InfoID

	// DepthRange is the builtin gl_DepthRangeParameters type name.
	DepthRange *TypeNameInfo

	// InitGlobals is the function deferring global initializers, or NoInfo.
	InitGlobals ast.InfoID

	// SamplerRegisters is the number of s/t registers assigned so far.
	SamplerRegisters int

	scopes       map[ast.Handle]*Scope
	builtinScope *Scope
	nextScope    ScopeID
	nextTemp     int
	nextAnon     int
}

// NewContext creates a context for tree. The builtin scope is populated
// for the configured stage.
func NewContext(tree *ast.Tree, opts Options) *Context {
	def := DefaultOptions(opts.Stage)
	if opts.MaxTreeDepth <= 0 {
		opts.MaxTreeDepth = def.MaxTreeDepth
	}
	if opts.MaxNodes <= 0 {
		opts.MaxNodes = def.MaxNodes
	}
	if opts.Logger.GetSink() == nil {
		opts.Logger = def.Logger
	}

	c := &Context{
		Tree:        tree,
		Options:     opts,
		Limits:      opts.Level.Limits(),
		Symbols:     NewSymbolTable(builtinNames()),
		Registry:    &Registry{},
		Log:         opts.Logger,
		Main:        ast.NoInfo,
		InitGlobals: ast.NoInfo,
		scopes:      make(map[ast.Handle]*Scope),
	}

	c.builtinScope = newScope(BuiltinScope, ast.InvalidHandle, nil)
	c.builtinScope.Precision = stagePrecisions(opts.Stage)
	c.nextScope = GlobalScope
	c.declareBuiltins()
	return c
}

// stagePrecisions returns the language-mandated default precisions.
func stagePrecisions(stage Stage) [numPrecisionSlots]types.Precision {
	var p [numPrecisionSlots]types.Precision
	p[slotSampler2D] = types.PrecisionLow
	p[slotSamplerCube] = types.PrecisionLow
	if stage == StageVertex {
		p[slotFloat] = types.PrecisionHigh
		p[slotInt] = types.PrecisionHigh
	} else {
		p[slotInt] = types.PrecisionMedium
	}
	return p
}

// Stage returns the stage being compiled.
func (c *Context) Stage() Stage { return c.Options.Stage }

// VerifyTree verifies the whole tree and runs the whole-program checks.
// It returns Diagnostics when any problem was found.
func (c *Context) VerifyTree() error {
	if c.Tree.Len() > c.Options.MaxNodes {
		_ = c.fail(c.Tree.Root, DiagShaderTooLarge, "")
		return c.Finish(ErrKnown)
	}
	err := c.Verify(c.Tree.Root)
	if err == nil {
		err = c.checkProgram()
	}
	c.Log.V(1).Info("verified shader", "stage", c.Options.Stage, "nodes", c.Tree.Len(),
		"infos", c.Registry.Len(), "diagnostics", len(c.Diagnostics))
	return c.Finish(err)
}

// Finish converts the result of a pass into the error returned to the
// caller: recorded diagnostics win; an unknown error with no diagnostic
// becomes a single internal error.
func (c *Context) Finish(err error) error {
	if err != nil && !errors.Is(err, ErrKnown) && len(c.Diagnostics) == 0 {
		c.Log.Error(err, "internal error")
		c.Diagnostics = append(c.Diagnostics, Diagnostic{Kind: DiagInternal, Context: err.Error()})
	}
	if len(c.Diagnostics) > 0 {
		return c.Diagnostics
	}
	return nil
}

// fail records a diagnostic at h and returns ErrKnown.
func (c *Context) fail(h ast.Handle, kind DiagnosticKind, context string) error {
	var pos ast.Position
	if n := c.Tree.Node(h); n != nil {
		pos = n.Pos
	}
	c.Diagnostics = append(c.Diagnostics, Diagnostic{Pos: pos, Kind: kind, Context: context})
	return ErrKnown
}

// failf is fail with a formatted context.
func (c *Context) failf(h ast.Handle, kind DiagnosticKind, format string, args ...any) error {
	return c.fail(h, kind, fmt.Sprintf(format, args...))
}

// ScopeOf returns the scope owned by h, or nil.
func (c *Context) ScopeOf(h ast.Handle) *Scope { return c.scopes[h] }

// Global returns the translation unit scope.
func (c *Context) Global() *Scope {
	if s := c.scopes[c.Tree.Root]; s != nil {
		return s
	}
	return c.builtinScope
}

// enclosingScope returns the scope of the nearest verified scope owner
// strictly enclosing h, or the builtin scope.
func (c *Context) enclosingScope(h ast.Handle) *Scope {
	for owner := c.Tree.ScopeOwner(h); owner != ast.InvalidHandle; owner = c.Tree.ScopeOwner(owner) {
		if s := c.scopes[owner]; s != nil {
			return s
		}
	}
	return c.builtinScope
}

// openScope creates the scope owned by h, inheriting precisions from the
// enclosing scope.
func (c *Context) openScope(h ast.Handle) *Scope {
	if s := c.scopes[h]; s != nil {
		return s
	}
	s := newScope(c.nextScope, h, c.enclosingScope(h))
	c.nextScope++
	c.scopes[h] = s
	return s
}

// Resolve returns the infos named name visible from h. The first scope
// with at least one match wins.
func (c *Context) Resolve(h ast.Handle, name string) []ast.InfoID {
	sym, ok := c.Symbols.Lookup(name)
	if !ok {
		return nil
	}
	for s := c.enclosingScope(h); s != nil; s = s.Parent {
		if found := s.Lookup(c.Registry, sym); len(found) > 0 {
			return found
		}
	}
	return nil
}

// BuiltinVariables returns the gl_ variables and constants visible in the
// stage, in table order.
func (c *Context) BuiltinVariables() []*VariableInfo {
	var out []*VariableInfo
	for _, id := range c.builtinScope.Infos {
		if v := c.Registry.Variable(id); v != nil {
			out = append(out, v)
		}
	}
	return out
}

// NewTempName returns a fresh internal name such as "webgl_sc3".
func (c *Context) NewTempName(prefix string) string {
	name := fmt.Sprintf("webgl_%s%d", prefix, c.nextTemp)
	c.nextTemp++
	return name
}

// SourceName returns the GLSL name of an info.
func (c *Context) SourceName(info Info) string {
	return c.Symbols.Name(info.Symbol())
}

// ExtensionEnabled reports whether an #extension directive enabled ext.
func (c *Context) ExtensionEnabled(ext string) bool {
	switch c.Tree.Extensions[ext] {
	case "enable", "require", "warn":
		return true
	}
	return false
}

// isReserved reports whether a user identifier uses a reserved name.
func isReserved(name string) bool {
	return strings.HasPrefix(name, "gl_") ||
		strings.HasPrefix(name, "webgl_") ||
		strings.HasPrefix(name, "_webgl_") ||
		strings.Contains(name, "__")
}

// checkName rejects reserved names on user declarations.
func (c *Context) checkName(h ast.Handle, name string) error {
	if n := c.Tree.Node(h); n != nil && n.Flags.Has(ast.FlagInternal) {
		return nil
	}
	if isReserved(name) {
		return c.fail(h, DiagReservedIdentifier, name)
	}
	return nil
}

// declareVariable registers a variable declared by node h in scope.
func (c *Context) declareVariable(h ast.Handle, scope *Scope, name string, v *VariableInfo) (ast.InfoID, error) {
	if err := c.checkName(h, name); err != nil {
		return ast.NoInfo, err
	}
	sym := c.Symbols.Intern(name)
	if scope.Defines(c.Registry, sym) {
		return ast.NoInfo, c.fail(h, DiagRedeclaration, name)
	}
	v.infoBase = infoBase{sym: sym, scope: scope.ID}
	v.Decl = h
	if v.Names[SlotSampler] == "" {
		v.Names[SlotSampler] = generatedName(scope.ID, sym)
	}
	id := c.Registry.Add(v)
	scope.Add(id)
	return id, nil
}

// declareTypeName registers a struct type name.
func (c *Context) declareTypeName(h ast.Handle, scope *Scope, name string, t *TypeNameInfo) (ast.InfoID, error) {
	if !t.Anonymous {
		if err := c.checkName(h, name); err != nil {
			return ast.NoInfo, err
		}
	}
	sym := c.Symbols.Intern(name)
	if scope.Defines(c.Registry, sym) {
		return ast.NoInfo, c.fail(h, DiagRedeclaration, name)
	}
	t.infoBase = infoBase{sym: sym, scope: scope.ID}
	t.Decl = h
	t.GenName = generatedName(scope.ID, sym)
	t.CtorName = t.GenName + "_ctor"
	t.EqualName = t.GenName + "_eq"
	id := c.Registry.Add(t)
	t.Struct.ID = int(id)
	scope.Add(id)
	return id, nil
}

// anonymousStructName returns a synthesized name for an unnamed struct.
func (c *Context) anonymousStructName() string {
	name := fmt.Sprintf("webgl_anon%d", c.nextAnon)
	c.nextAnon++
	return name
}
