// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package sema

import (
	"fmt"

	"github.com/pkg/errors"
)

// FeatureLevel is the Direct3D feature level the output targets.
// It bounds the per-stage resource budgets.
type FeatureLevel uint8

// Supported feature levels.
const (
	// Level9_3 targets downlevel hardware: no vertex textures, fewer varyings.
	Level9_3 FeatureLevel = iota

	// Level10_0 targets Direct3D 10 hardware.
	Level10_0

	// Level11_0 targets Direct3D 11 hardware (default).
	Level11_0
)

// String returns the level as it appears in profiles, e.g. "9_3".
func (l FeatureLevel) String() string {
	switch l {
	case Level9_3:
		return "9_3"
	case Level10_0:
		return "10_0"
	case Level11_0:
		return "11_0"
	}
	return fmt.Sprintf("FeatureLevel(%d)", uint8(l))
}

// ParseFeatureLevel parses "9_3", "10_0" or "11_0"; dots are accepted too.
func ParseFeatureLevel(s string) (FeatureLevel, error) {
	switch s {
	case "9_3", "9.3":
		return Level9_3, nil
	case "10_0", "10.0", "10":
		return Level10_0, nil
	case "11_0", "11.0", "11":
		return Level11_0, nil
	}
	return Level11_0, errors.Errorf("unknown feature level %q", s)
}

// Limits are the resource budgets exposed to shaders, in vectors or units.
type Limits struct {
	MaxVertexAttribs             int
	MaxVertexUniformVectors      int
	MaxFragmentUniformVectors    int
	MaxVaryingVectors            int
	MaxVertexTextureImageUnits   int
	MaxTextureImageUnits         int
	MaxCombinedTextureImageUnits int
	MaxDrawBuffers               int
}

// Limits returns the budgets of the feature level.
func (l FeatureLevel) Limits() Limits {
	switch l {
	case Level9_3:
		return Limits{
			MaxVertexAttribs:             16,
			MaxVertexUniformVectors:      254,
			MaxFragmentUniformVectors:    221,
			MaxVaryingVectors:            8,
			MaxVertexTextureImageUnits:   0,
			MaxTextureImageUnits:         16,
			MaxCombinedTextureImageUnits: 16,
			MaxDrawBuffers:               1,
		}
	case Level10_0:
		return Limits{
			MaxVertexAttribs:             16,
			MaxVertexUniformVectors:      1024,
			MaxFragmentUniformVectors:    1024,
			MaxVaryingVectors:            12,
			MaxVertexTextureImageUnits:   16,
			MaxTextureImageUnits:         16,
			MaxCombinedTextureImageUnits: 32,
			MaxDrawBuffers:               1,
		}
	}
	return Limits{
		MaxVertexAttribs:             16,
		MaxVertexUniformVectors:      1024,
		MaxFragmentUniformVectors:    1024,
		MaxVaryingVectors:            28,
		MaxVertexTextureImageUnits:   16,
		MaxTextureImageUnits:         16,
		MaxCombinedTextureImageUnits: 32,
		MaxDrawBuffers:               1,
	}
}

// Downlevel reports whether the level lacks Direct3D 10 features such as
// SV_IsFrontFace.
func (l FeatureLevel) Downlevel() bool { return l < Level10_0 }
