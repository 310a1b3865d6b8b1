// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package sema

// Symbol is the interned index of an identifier.
type Symbol int32

// SymbolTable is a bijection between identifier text and Symbol.
// Builtin names are interned first so they keep stable low indices.
type SymbolTable struct {
	names []string
	index map[string]Symbol
}

// NewSymbolTable creates a table seeded with names, in order.
func NewSymbolTable(seed []string) *SymbolTable {
	t := &SymbolTable{
		names: make([]string, 0, len(seed)+64),
		index: make(map[string]Symbol, len(seed)+64),
	}
	for _, name := range seed {
		t.Intern(name)
	}
	return t
}

// Intern returns the symbol for name, adding it if needed.
func (t *SymbolTable) Intern(name string) Symbol {
	if s, ok := t.index[name]; ok {
		return s
	}
	s := Symbol(len(t.names))
	t.names = append(t.names, name)
	t.index[name] = s
	return s
}

// Lookup returns the symbol for name without adding it.
func (t *SymbolTable) Lookup(name string) (Symbol, bool) {
	s, ok := t.index[name]
	return s, ok
}

// Name returns the text of s.
func (t *SymbolTable) Name(s Symbol) string {
	if s < 0 || int(s) >= len(t.names) {
		return ""
	}
	return t.names[s]
}

// Len returns the number of interned symbols.
func (t *SymbolTable) Len() int { return len(t.names) }
