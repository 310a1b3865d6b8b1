// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import (
	"fmt"
	"strings"
)

// namer hands out helper function names. HLSL matches some keywords
// without regard to case, so uniqueness is checked on lowercase names.
type namer struct {
	usedNames map[string]struct{}
	counter   uint32
}

func newNamer() *namer {
	n := &namer{usedNames: make(map[string]struct{})}
	for _, name := range []string{InputParam, OutputParam, EntryPoint} {
		n.reserve(name)
	}
	return n
}

// call returns base, escaped, or base with a numeric suffix if it was
// handed out before.
func (n *namer) call(base string) string {
	if base == "" {
		base = UnnamedIdentifier
	}
	escaped := Escape(base)
	lower := strings.ToLower(escaped)
	if !n.isUsedLower(lower) {
		n.usedNames[lower] = struct{}{}
		return escaped
	}
	for {
		n.counter++
		candidate := fmt.Sprintf("%s_%d", escaped, n.counter)
		lower := strings.ToLower(candidate)
		if !n.isUsedLower(lower) {
			n.usedNames[lower] = struct{}{}
			return candidate
		}
	}
}

func (n *namer) isUsedLower(lower string) bool {
	_, used := n.usedNames[lower]
	return used
}

// reserve marks a name as used without returning it.
func (n *namer) reserve(name string) {
	n.usedNames[strings.ToLower(name)] = struct{}{}
}
