// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import (
	"fmt"

	"github.com/gogpu/essl/sema"
)

// ShaderModel is the Direct3D shader model the output is compiled with.
type ShaderModel uint8

// Supported shader models.
const (
	// ShaderModel4_0Level9_3 is the downlevel 4.0 profile for feature
	// level 9_3 hardware.
	ShaderModel4_0Level9_3 ShaderModel = iota

	// ShaderModel4_0 targets Direct3D 10 hardware.
	ShaderModel4_0

	// ShaderModel5_0 targets Direct3D 11 hardware.
	ShaderModel5_0
)

// ShaderModelFor returns the shader model matching a feature level.
func ShaderModelFor(level sema.FeatureLevel) ShaderModel {
	switch level {
	case sema.Level9_3:
		return ShaderModel4_0Level9_3
	case sema.Level10_0:
		return ShaderModel4_0
	}
	return ShaderModel5_0
}

// String returns a human-readable representation, e.g. "SM 4.0 (9_3)".
func (sm ShaderModel) String() string {
	major, minor := sm.version()
	if sm.Downlevel() {
		return fmt.Sprintf("SM %d.%d (9_3)", major, minor)
	}
	return fmt.Sprintf("SM %d.%d", major, minor)
}

// ProfileSuffix returns the profile suffix, e.g. "4_0_level_9_3" or "5_0".
func (sm ShaderModel) ProfileSuffix() string {
	major, minor := sm.version()
	if sm.Downlevel() {
		return fmt.Sprintf("%d_%d_level_9_3", major, minor)
	}
	return fmt.Sprintf("%d_%d", major, minor)
}

// Profile returns the compiler target profile for a stage, e.g. "ps_5_0".
func (sm ShaderModel) Profile(stage sema.Stage) string {
	prefix := "vs_"
	if stage == sema.StageFragment {
		prefix = "ps_"
	}
	return prefix + sm.ProfileSuffix()
}

func (sm ShaderModel) version() (major, minor uint8) {
	if sm == ShaderModel5_0 {
		return 5, 0
	}
	return 4, 0
}

// Downlevel reports whether the model runs on 9_3 hardware, which uses
// legacy system value semantics.
func (sm ShaderModel) Downlevel() bool {
	return sm == ShaderModel4_0Level9_3
}

// SupportsVertexTextures reports whether vertex shaders may sample.
func (sm ShaderModel) SupportsVertexTextures() bool {
	return !sm.Downlevel()
}
