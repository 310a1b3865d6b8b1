// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/gogpu/essl/sema"
)

// Options configures HLSL code generation.
type Options struct {
	// SuppressInputStruct omits the definition of the stage input struct;
	// the caller provides it.
	SuppressInputStruct bool

	// SuppressBoilerplate omits the main wrapper that zero-initializes the
	// outputs, calls the translated main and remaps depth.
	SuppressBoilerplate bool

	// ForceDownlevel emits 9_3 compatible system values regardless of the
	// context's feature level.
	ForceDownlevel bool
}

// DefaultOptions returns the options used when Compile gets nil.
func DefaultOptions() *Options {
	return &Options{}
}

// FeatureFlags indicates which features the generated code uses.
type FeatureFlags uint32

const (
	// FeatureNone indicates no special features are used.
	FeatureNone FeatureFlags = 0

	// FeatureDerivatives indicates ddx, ddy or fwidth are used.
	FeatureDerivatives FeatureFlags = 1 << iota

	// FeatureFragDepth indicates the shader writes SV_Depth.
	FeatureFragDepth

	// FeatureVertexTextures indicates a vertex shader samples textures.
	FeatureVertexTextures

	// FeatureMultipleRenderTargets indicates gl_FragData is written.
	FeatureMultipleRenderTargets

	// FeaturePointSize indicates the vertex shader writes PSIZE.
	FeaturePointSize
)

// Has returns true if the flags contain the specified feature.
func (f FeatureFlags) Has(feature FeatureFlags) bool {
	return f&feature != 0
}

// String returns a human-readable list of enabled features.
func (f FeatureFlags) String() string {
	var features []string
	for _, named := range []struct {
		flag FeatureFlags
		name string
	}{
		{FeatureDerivatives, "Derivatives"},
		{FeatureFragDepth, "FragDepth"},
		{FeatureVertexTextures, "VertexTextures"},
		{FeatureMultipleRenderTargets, "MultipleRenderTargets"},
		{FeaturePointSize, "PointSize"},
	} {
		if f.Has(named.flag) {
			features = append(features, named.name)
		}
	}
	if len(features) == 0 {
		return "none"
	}
	return strings.Join(features, ", ")
}

// TranslationInfo contains metadata about the HLSL translation.
type TranslationInfo struct {
	// EntryPoint is the name of the HLSL entry point, empty when the
	// wrapper is suppressed.
	EntryPoint string

	// Profile is the compiler target, e.g. "ps_4_0_level_9_3".
	Profile string

	ShaderModel  ShaderModel
	UsedFeatures FeatureFlags

	// RegisterBindings maps emitted resource names to their registers.
	RegisterBindings map[string]BindTarget

	// HelperFunctions lists the synthesized helper functions in emission
	// order.
	HelperFunctions []string
}

// Compile generates HLSL source from a verified and rewritten context.
// Compile does not modify the tree; calling it again yields the same
// text.
func Compile(c *sema.Context, options *Options) (string, *TranslationInfo, error) {
	if c == nil || c.Tree == nil {
		return "", nil, NewError(ErrInternalError, "context is nil")
	}
	if len(c.Diagnostics) > 0 {
		return "", nil, NewError(ErrUnverifiedTree, "context has diagnostics")
	}
	if !c.Tree.Node(c.Tree.Root).Verified {
		return "", nil, NewError(ErrUnverifiedTree, "translation unit is not verified")
	}
	if options == nil {
		options = DefaultOptions()
	}

	w := newWriter(c, options)
	if err := w.writeModule(); err != nil {
		return "", nil, errors.Wrap(err, "hlsl")
	}

	info := &TranslationInfo{
		Profile:          w.model.Profile(c.Stage()),
		ShaderModel:      w.model,
		UsedFeatures:     w.usedFeatures,
		RegisterBindings: w.bindings,
		HelperFunctions:  w.helperFunctions,
	}
	if !options.SuppressBoilerplate {
		info.EntryPoint = EntryPoint
	}
	c.Log.V(1).Info("hlsl emitted", "profile", info.Profile, "helpers", len(info.HelperFunctions), "bytes", len(w.result))
	return w.result, info, nil
}
