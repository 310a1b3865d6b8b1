// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package config loads translator settings from YAML files.
//
// A settings file is named esslc.yaml or .esslc.yaml and is searched for in
// the shader's directory and its parents:
//
//	level: "9_3"
//	derivatives: true
//	varyingLocations:
//	  vTexCoord: 0
//	hlsl:
//	  forceDownlevel: true
package config

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"sigs.k8s.io/yaml"

	"github.com/gogpu/essl"
	"github.com/gogpu/essl/sema"
)

// File is the settings file structure. Unset fields keep the value they
// already have in the options a File is applied to.
type File struct {
	// Level is a feature level such as "9_3", "10_0" or "11_0".
	Level string `json:"level,omitempty"`

	Derivatives *bool `json:"derivatives,omitempty"`
	FragDepth   *bool `json:"fragDepth,omitempty"`

	VaryingLocations map[string]int `json:"varyingLocations,omitempty"`

	MaxTreeDepth int `json:"maxTreeDepth,omitempty"`
	MaxNodes     int `json:"maxNodes,omitempty"`

	HLSL HLSL `json:"hlsl,omitempty"`
}

// HLSL holds emitter settings.
type HLSL struct {
	SuppressInputStruct *bool `json:"suppressInputStruct,omitempty"`
	SuppressBoilerplate *bool `json:"suppressBoilerplate,omitempty"`
	ForceDownlevel      *bool `json:"forceDownlevel,omitempty"`
}

// FileNames are the names searched for, in order of preference.
var FileNames = []string{
	"esslc.yaml",
	".esslc.yaml",
}

// Find searches startDir and its parents for a settings file. It returns
// a nil File and an empty path when there is none.
func Find(startDir string) (*File, string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, "", errors.Wrapf(err, "resolve %s", startDir)
	}
	for {
		for _, name := range FileNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				f, err := Load(path)
				return f, path, err
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, "", nil
		}
		dir = parent
	}
}

// Load reads a settings file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	return Parse(data)
}

// Parse decodes settings from YAML. Unknown keys are rejected.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.UnmarshalStrict(data, &f); err != nil {
		return nil, errors.Wrap(err, "parse config")
	}
	if f.Level != "" {
		if _, err := sema.ParseFeatureLevel(f.Level); err != nil {
			return nil, errors.Wrap(err, "parse config")
		}
	}
	for name, loc := range f.VaryingLocations {
		if loc < 0 {
			return nil, errors.Errorf("parse config: varying %s has negative location %d", name, loc)
		}
	}
	return &f, nil
}

// Apply overrides opts with every field set in f.
func (f *File) Apply(opts *essl.Options) error {
	if f == nil {
		return nil
	}
	if f.Level != "" {
		level, err := sema.ParseFeatureLevel(f.Level)
		if err != nil {
			return err
		}
		opts.Level = level
	}
	setBool(&opts.Derivatives, f.Derivatives)
	setBool(&opts.FragDepth, f.FragDepth)
	if len(f.VaryingLocations) > 0 {
		merged := make(map[string]int, len(opts.VaryingLocations)+len(f.VaryingLocations))
		for name, loc := range opts.VaryingLocations {
			merged[name] = loc
		}
		for name, loc := range f.VaryingLocations {
			merged[name] = loc
		}
		opts.VaryingLocations = merged
	}
	if f.MaxTreeDepth > 0 {
		opts.MaxTreeDepth = f.MaxTreeDepth
	}
	if f.MaxNodes > 0 {
		opts.MaxNodes = f.MaxNodes
	}
	setBool(&opts.HLSL.SuppressInputStruct, f.HLSL.SuppressInputStruct)
	setBool(&opts.HLSL.SuppressBoilerplate, f.HLSL.SuppressBoilerplate)
	setBool(&opts.HLSL.ForceDownlevel, f.HLSL.ForceDownlevel)
	return nil
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
