// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gogpu/essl"
	"github.com/gogpu/essl/sema"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "esslc.yaml")
	writeFile(t, path, `
level: "9_3"
derivatives: true
varyingLocations:
  vColor: 2
hlsl:
  forceDownlevel: true
`)

	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if f.Level != "9_3" {
		t.Errorf("Level = %q, want 9_3", f.Level)
	}
	if f.Derivatives == nil || !*f.Derivatives {
		t.Errorf("Derivatives = %v, want true", f.Derivatives)
	}
	if f.FragDepth != nil {
		t.Errorf("FragDepth = %v, want unset", *f.FragDepth)
	}
	if diff := cmp.Diff(map[string]int{"vColor": 2}, f.VaryingLocations); diff != "" {
		t.Errorf("VaryingLocations mismatch (-want +got):\n%s", diff)
	}
	if f.HLSL.ForceDownlevel == nil || !*f.HLSL.ForceDownlevel {
		t.Errorf("HLSL.ForceDownlevel = %v, want true", f.HLSL.ForceDownlevel)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown key", "optimize: true\n"},
		{"bad level", "level: \"12_1\"\n"},
		{"negative location", "varyingLocations:\n  v: -1\n"},
		{"not yaml", "level: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.content)); err == nil {
				t.Errorf("Parse(%q) succeeded", tt.content)
			}
		})
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Load of a missing file succeeded")
	}
}

func TestFind(t *testing.T) {
	root := t.TempDir()
	shaders := filepath.Join(root, "project", "shaders")
	if err := os.MkdirAll(shaders, 0o755); err != nil {
		t.Fatalf("failed to create dirs: %v", err)
	}
	path := filepath.Join(root, "project", ".esslc.yaml")
	writeFile(t, path, "fragDepth: true\n")

	f, found, err := Find(shaders)
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if found != path {
		t.Errorf("found %s, want %s", found, path)
	}
	if f == nil || f.FragDepth == nil || !*f.FragDepth {
		t.Errorf("FragDepth not loaded from %s", found)
	}

	// esslc.yaml wins over .esslc.yaml in the same directory.
	preferred := filepath.Join(root, "project", "esslc.yaml")
	writeFile(t, preferred, "derivatives: true\n")
	if _, found, _ = Find(shaders); found != preferred {
		t.Errorf("found %s, want %s", found, preferred)
	}
}

func TestFindNothing(t *testing.T) {
	// Walks up to the filesystem root, which holds no settings file.
	f, path, err := Find(t.TempDir())
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if f != nil && path == "" {
		t.Errorf("Find returned settings without a path")
	}
}

func TestApply(t *testing.T) {
	yes, no := true, false
	f := &File{
		Level:            "10_0",
		FragDepth:        &yes,
		VaryingLocations: map[string]int{"b": 3},
		MaxNodes:         1000,
		HLSL:             HLSL{SuppressBoilerplate: &yes, ForceDownlevel: &no},
	}

	opts := essl.DefaultOptions(sema.StageFragment)
	opts.Derivatives = true
	opts.VaryingLocations = map[string]int{"a": 0, "b": 1}
	opts.HLSL.ForceDownlevel = true
	if err := f.Apply(&opts); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	if opts.Level != sema.Level10_0 {
		t.Errorf("Level = %s, want 10_0", opts.Level)
	}
	if !opts.Derivatives {
		t.Error("Derivatives was reset by an unset field")
	}
	if !opts.FragDepth {
		t.Error("FragDepth not applied")
	}
	if diff := cmp.Diff(map[string]int{"a": 0, "b": 3}, opts.VaryingLocations); diff != "" {
		t.Errorf("VaryingLocations mismatch (-want +got):\n%s", diff)
	}
	if opts.MaxNodes != 1000 {
		t.Errorf("MaxNodes = %d, want 1000", opts.MaxNodes)
	}
	if opts.MaxTreeDepth != essl.DefaultOptions(sema.StageFragment).MaxTreeDepth {
		t.Errorf("MaxTreeDepth = %d, want the default", opts.MaxTreeDepth)
	}
	if !opts.HLSL.SuppressBoilerplate || opts.HLSL.ForceDownlevel {
		t.Errorf("HLSL options = %+v", opts.HLSL)
	}

	var none *File
	if err := none.Apply(&opts); err != nil {
		t.Errorf("nil Apply failed: %v", err)
	}
}
