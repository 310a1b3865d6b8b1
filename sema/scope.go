// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package sema

import (
	"github.com/gogpu/essl/ast"
	"github.com/gogpu/essl/types"
)

// ScopeID identifies a scope. The builtin scope is 0 and the translation
// unit scope is 1; generated names embed it.
type ScopeID int32

const (
	BuiltinScope ScopeID = 0
	GlobalScope  ScopeID = 1
)

// Precision slots tracked per scope.
const (
	slotFloat = iota
	slotInt
	slotSampler2D
	slotSamplerCube
	numPrecisionSlots
)

// precisionSlot maps a basic type to its default-precision slot.
func precisionSlot(tok types.Token) (int, bool) {
	switch {
	case tok == types.Sampler2D:
		return slotSampler2D, true
	case tok == types.SamplerCube:
		return slotSamplerCube, true
	case tok.IsFloat():
		return slotFloat, true
	case tok.IsInt():
		return slotInt, true
	}
	return 0, false
}

// Scope holds the infos declared directly inside one scope-owning node.
type Scope struct {
	ID     ScopeID
	Owner  ast.Handle
	Parent *Scope

	// Infos lists declared identifiers in declaration order.
	Infos []ast.InfoID

	Precision [numPrecisionSlots]types.Precision
}

func newScope(id ScopeID, owner ast.Handle, parent *Scope) *Scope {
	s := &Scope{ID: id, Owner: owner, Parent: parent}
	if parent != nil {
		s.Precision = parent.Precision
	}
	return s
}

// Add appends a declared info.
func (s *Scope) Add(id ast.InfoID) {
	s.Infos = append(s.Infos, id)
}

// Lookup returns every info in this scope with the given symbol. A name
// can resolve to several function overloads at once.
func (s *Scope) Lookup(reg *Registry, sym Symbol) []ast.InfoID {
	var found []ast.InfoID
	for _, id := range s.Infos {
		if reg.Get(id).Symbol() == sym {
			found = append(found, id)
		}
	}
	return found
}

// Defines reports whether declaring a variable or type named sym here
// would be a redeclaration. Builtin functions do not block the name.
func (s *Scope) Defines(reg *Registry, sym Symbol) bool {
	for _, id := range s.Lookup(reg, sym) {
		if fn, ok := reg.Get(id).(*FunctionInfo); ok && fn.Builtin != BuiltinNone {
			continue
		}
		return true
	}
	return false
}

// DefaultPrecision returns the default precision for tok in this scope.
func (s *Scope) DefaultPrecision(tok types.Token) types.Precision {
	slot, ok := precisionSlot(tok)
	if !ok {
		return types.PrecisionUndefined
	}
	return s.Precision[slot]
}

// SetDefaultPrecision records a precision statement.
func (s *Scope) SetDefaultPrecision(tok types.Token, p types.Precision) bool {
	slot, ok := precisionSlot(tok)
	if !ok {
		return false
	}
	s.Precision[slot] = p
	return true
}
