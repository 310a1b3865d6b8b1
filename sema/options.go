// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package sema

import (
	"fmt"

	"github.com/go-logr/logr"
	"github.com/pkg/errors"
)

// Stage is the shader stage being compiled.
type Stage uint8

const (
	StageVertex Stage = iota
	StageFragment
)

func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	}
	return fmt.Sprintf("Stage(%d)", uint8(s))
}

// ParseStage parses "vertex"/"vert"/"vs" or "fragment"/"frag"/"fs"/"ps".
func ParseStage(s string) (Stage, error) {
	switch s {
	case "vertex", "vert", "vs":
		return StageVertex, nil
	case "fragment", "frag", "fs", "ps", "pixel":
		return StageFragment, nil
	}
	return StageVertex, errors.Errorf("unknown shader stage %q", s)
}

// StageMask restricts a builtin to some stages. The zero mask allows all.
type StageMask uint8

const (
	StageMaskAll      StageMask = 0
	StageMaskVertex   StageMask = 1 << StageVertex
	StageMaskFragment StageMask = 1 << StageFragment
)

// Allows reports whether the mask includes s.
func (m StageMask) Allows(s Stage) bool {
	return m == StageMaskAll || m&(1<<s) != 0
}

// Extension names recognized by the verifier.
const (
	ExtStandardDerivatives = "GL_OES_standard_derivatives"
	ExtFragDepth           = "GL_EXT_frag_depth"
)

// Options configure verification of one shader.
type Options struct {
	Stage Stage
	Level FeatureLevel

	// Derivatives exposes dFdx, dFdy and fwidth to fragment shaders that
	// enable GL_OES_standard_derivatives.
	Derivatives bool

	// FragDepth exposes gl_FragDepthEXT to fragment shaders that enable
	// GL_EXT_frag_depth.
	FragDepth bool

	// MaxTreeDepth bounds node nesting.
	MaxTreeDepth int

	// MaxNodes bounds the node count of the tree.
	MaxNodes int

	// VaryingLocations pins varying semantic indices by name. Varyings not
	// listed are numbered after the highest pinned index, by name.
	VaryingLocations map[string]int

	Logger logr.Logger
}

// DefaultOptions returns options for the given stage at feature level 11_0.
func DefaultOptions(stage Stage) Options {
	return Options{
		Stage:        stage,
		Level:        Level11_0,
		MaxTreeDepth: 512,
		MaxNodes:     1 << 20,
		Logger:       logr.Discard(),
	}
}
