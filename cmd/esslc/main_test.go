// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testVertex = `
attribute vec2 position;
varying vec2 uv;
void main() {
    uv = position;
    gl_Position = vec4(position, 0.0, 1.0);
}`

const testFragment = `
precision mediump float;
uniform sampler2D image;
varying vec2 uv;
void main() {
    gl_FragColor = texture2D(image, uv);
}`

func writeShader(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.Contains(out, esslcVersion) {
		t.Errorf("version output = %q", out)
	}
}

func TestTranslate(t *testing.T) {
	dir := t.TempDir()
	path := writeShader(t, dir, "quad.frag", testFragment)

	out, _, err := run(t, "translate", path)
	if err != nil {
		t.Fatalf("translate failed: %v", err)
	}
	for _, want := range []string{"PS_OUTPUT main(PS_INPUT _in)", "webgl_texture2D(", "register(s0)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output does not contain %q:\n%s", want, out)
		}
	}
}

func TestTranslateToFiles(t *testing.T) {
	dir := t.TempDir()
	path := writeShader(t, dir, "quad.frag", testFragment)
	hlslPath := filepath.Join(dir, "quad.hlsl")
	refPath := filepath.Join(dir, "quad.json")

	if _, _, err := run(t, "translate", "--level", "9_3", "-o", hlslPath,
		"--reflect", refPath, "--reflect-format", "json", path); err != nil {
		t.Fatalf("translate failed: %v", err)
	}

	code, err := os.ReadFile(hlslPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(code), "PS_INPUT") {
		t.Errorf("HLSL file has no input struct:\n%s", code)
	}
	ref, err := os.ReadFile(refPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(ref), "ps_4_0_level_9_3") {
		t.Errorf("reflection does not name the 9_3 profile:\n%s", ref)
	}
}

func TestTranslateUsesSettingsFile(t *testing.T) {
	dir := t.TempDir()
	path := writeShader(t, dir, "quad.frag", testFragment)
	writeShader(t, dir, "esslc.yaml", "level: \"9_3\"\n")
	refPath := filepath.Join(dir, "quad.yaml")

	if _, _, err := run(t, "translate", "--reflect", refPath, path); err != nil {
		t.Fatalf("translate failed: %v", err)
	}
	ref, err := os.ReadFile(refPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(ref), "profile: ps_4_0_level_9_3") {
		t.Errorf("settings file level not applied:\n%s", ref)
	}

	// The flag overrides the file.
	if _, _, err := run(t, "translate", "--level", "11_0", "--reflect", refPath, path); err != nil {
		t.Fatalf("translate failed: %v", err)
	}
	ref, _ = os.ReadFile(refPath)
	if !strings.Contains(string(ref), "profile: ps_5_0") {
		t.Errorf("--level did not override the settings file:\n%s", ref)
	}
}

func TestTranslateErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown stage", []string{"translate", writeShader(t, dir, "a.glsl", testVertex)}, "--stage"},
		{"diagnostics", []string{"translate", writeShader(t, dir, "b.vert", "void main() { x = 1.0; }")}, "b.vert"},
		{"bad format", []string{"translate", "--reflect-format", "xml", writeShader(t, dir, "c.vert", testVertex)}, "xml"},
		{"missing file", []string{"translate", filepath.Join(dir, "none.vert")}, "read shader"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestDumpAST(t *testing.T) {
	dir := t.TempDir()
	path := writeShader(t, dir, "quad.vert", testVertex)
	out, _, err := run(t, "translate", "--dump-ast", path)
	if err != nil {
		t.Fatalf("translate failed: %v", err)
	}
	if strings.Contains(out, "VS_OUTPUT") || !strings.Contains(out, "main") {
		t.Errorf("--dump-ast output is not a tree dump:\n%s", out)
	}
}

func TestLink(t *testing.T) {
	dir := t.TempDir()
	vs := writeShader(t, dir, "quad.vert", testVertex)
	fs := writeShader(t, dir, "quad.frag", testFragment)
	outDir := filepath.Join(dir, "build")

	if _, _, err := run(t, "link", "-o", outDir, "--reflect", vs, fs); err != nil {
		t.Fatalf("link failed: %v", err)
	}
	for _, name := range []string{"vertex.hlsl", "fragment.hlsl", "vertex.yaml", "fragment.yaml"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}

	bad := writeShader(t, dir, "bad.frag", `
precision mediump float;
varying vec3 normal;
void main() { gl_FragColor = vec4(normal, 1.0); }`)
	if _, _, err := run(t, "link", vs, bad); err == nil {
		t.Error("link accepted a fragment shader reading an unwritten varying")
	}
}

func TestVerboseLogging(t *testing.T) {
	dir := t.TempDir()
	path := writeShader(t, dir, "quad.vert", testVertex)
	_, stderr, err := run(t, "translate", "-v", path)
	if err != nil {
		t.Fatalf("translate failed: %v", err)
	}
	if !strings.Contains(stderr, "translated") {
		t.Errorf("verbose run logged nothing:\n%s", stderr)
	}
}
