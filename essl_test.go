// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package essl

import (
	"strings"
	"testing"

	"github.com/go-logr/logr/funcr"
	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"

	"github.com/gogpu/essl/sema"
)

func translate(t *testing.T, stage sema.Stage, src string) *Result {
	t.Helper()
	res, err := Translate(src, DefaultOptions(stage))
	if err != nil {
		var ds sema.Diagnostics
		if errors.As(err, &ds) {
			t.Fatalf("Translate failed:\n%s", ds.FormatWithContext(src))
		}
		t.Fatalf("Translate failed: %v", err)
	}
	return res
}

func diagnosticKinds(t *testing.T, err error) []sema.DiagnosticKind {
	t.Helper()
	if err == nil {
		return nil
	}
	var ds sema.Diagnostics
	if !errors.As(err, &ds) {
		t.Fatalf("error %v (%T) is not a diagnostic list", err, err)
	}
	return ds.Kinds()
}

func mustContain(t *testing.T, code string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(code, w) {
			t.Errorf("output does not contain %q:\n%s", w, code)
		}
	}
}

func mustNotContain(t *testing.T, code string, unwanted ...string) {
	t.Helper()
	for _, u := range unwanted {
		if strings.Contains(code, u) {
			t.Errorf("output contains %q:\n%s", u, code)
		}
	}
}

const quadVertex = `
attribute vec2 position;
uniform mat4 transform;
varying vec2 uv;
varying vec4 tint;
void main() {
    uv = position * 0.5 + 0.5;
    tint = vec4(1.0);
    gl_Position = transform * vec4(position, 0.0, 1.0);
}`

const quadFragment = `
precision mediump float;
uniform sampler2D image;
varying vec4 tint;
void main() {
    gl_FragColor = texture2D(image, gl_FragCoord.xy) * tint;
}`

func TestTranslateLowersLogicalAnd(t *testing.T) {
	res := translate(t, sema.StageFragment, `
precision mediump float;
varying vec2 uv;
bool inside(float x) { return x > 0.0; }
void main() {
    float f = 0.0;
    if (inside(uv.x) && inside(uv.y)) {
        f = 1.0;
    }
    gl_FragColor = vec4(f);
}`)
	mustNotContain(t, res.HLSL, "&&")
	mustContain(t, res.HLSL, "bool ", "if (", "} else {", " = false;")
}

func TestTranslateSplitsSamplers(t *testing.T) {
	res := translate(t, sema.StageFragment, quadFragment)
	mustContain(t, res.HLSL,
		"SamplerState ", "_s : register(s0);",
		"Texture2D ", "_t : register(t0);",
		"webgl_texture2D(",
	)
	mustNotContain(t, res.HLSL, "sampler2D")

	if len(res.Uniforms) != 1 {
		t.Fatalf("Uniforms = %+v, want one sampler", res.Uniforms)
	}
	u := res.Uniforms[0]
	if u.Name != "image" || u.HLSLName == u.TextureName || u.TextureName == "" {
		t.Errorf("sampler uniform = %+v, want distinct sampler and texture names", u)
	}
	if !strings.Contains(res.HLSL, u.HLSLName+" : register(s0)") ||
		!strings.Contains(res.HLSL, u.TextureName+" : register(t0)") {
		t.Errorf("reflected names %q/%q not bound in output:\n%s", u.HLSLName, u.TextureName, res.HLSL)
	}
}

func TestTranslateStructHoisting(t *testing.T) {
	const decl = `
struct Material {
    vec3 albedo;
    float roughness;
};
uniform Material material;
`
	res := translate(t, sema.StageVertex, decl+`
void main() {
    Material m = Material(vec3(0.5), 1.0);
    gl_Position = vec4(m.albedo * material.roughness, 1.0);
}`)
	mustContain(t, res.HLSL, "struct ", "_ctor(float3 x0, float x1)")
	mustNotContain(t, res.HLSL, "_eq(")

	res = translate(t, sema.StageVertex, decl+`
void main() {
    Material m;
    gl_Position = vec4(0.0);
    if (m == material) {
        gl_Position = vec4(1.0);
    }
}`)
	mustContain(t, res.HLSL, "_eq(", "all(a.albedo == b.albedo)")
	mustNotContain(t, res.HLSL, "_ctor(")

	if i, j := strings.Index(res.HLSL, "struct "), strings.Index(res.HLSL, "void "); i < 0 || j < i {
		t.Errorf("struct definition does not precede functions:\n%s", res.HLSL)
	}
}

func TestTranslateIsDeterministic(t *testing.T) {
	for _, tc := range []struct {
		stage sema.Stage
		src   string
	}{
		{sema.StageVertex, quadVertex},
		{sema.StageFragment, quadFragment},
	} {
		first := translate(t, tc.stage, tc.src)
		second := translate(t, tc.stage, tc.src)
		if diff := cmp.Diff(first.HLSL, second.HLSL); diff != "" {
			t.Errorf("%s output differs between runs (-first +second):\n%s", tc.stage, diff)
		}
	}
}

func TestTranslateDiagnostics(t *testing.T) {
	tests := []struct {
		name  string
		stage sema.Stage
		src   string
		want  []sema.DiagnosticKind
	}{
		{
			name:  "division by zero",
			stage: sema.StageVertex,
			src: `
const int bad = 5 / 0;
void main() { gl_Position = vec4(float(bad)); }`,
			want: []sema.DiagnosticKind{sema.DiagDivideByZero},
		},
		{
			name:  "syntax",
			stage: sema.StageVertex,
			src:   "void main( {",
			want:  []sema.DiagnosticKind{sema.DiagSyntax},
		},
		{
			name:  "missing main",
			stage: sema.StageVertex,
			src:   "float f() { return 1.0; }",
			want:  []sema.DiagnosticKind{sema.DiagMissingMain},
		},
		{
			name:  "undeclared",
			stage: sema.StageFragment,
			src: `
precision mediump float;
void main() { gl_FragColor = vec4(missing); }`,
			want: []sema.DiagnosticKind{sema.DiagUndeclaredIdentifier},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Translate(tt.src, DefaultOptions(tt.stage))
			if res != nil {
				t.Errorf("Translate returned a result with error %v", err)
			}
			got := diagnosticKinds(t, err)
			if diff := cmp.Diff(tt.want, got[:min(len(got), len(tt.want))]); diff != "" {
				t.Errorf("diagnostic kinds mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSyntaxDiagnosticsCarryPositions(t *testing.T) {
	_, err := Translate("void main() {\n    float x = ;\n}", DefaultOptions(sema.StageVertex))
	var ds sema.Diagnostics
	if !errors.As(err, &ds) || len(ds) == 0 {
		t.Fatalf("Translate error = %v, want diagnostics", err)
	}
	if ds[0].Kind != sema.DiagSyntax || ds[0].Pos.Line != 2 {
		t.Errorf("first diagnostic = %+v, want a syntax error on line 2", ds[0])
	}
}

func TestTranslateTreeNil(t *testing.T) {
	if _, err := TranslateTree(nil, DefaultOptions(sema.StageVertex)); err == nil {
		t.Error("TranslateTree(nil) succeeded")
	}
}

func TestTranslateProgram(t *testing.T) {
	p, err := TranslateProgram(quadVertex, quadFragment, DefaultOptions(sema.StageVertex))
	if err != nil {
		t.Fatalf("TranslateProgram failed: %v", err)
	}

	locations := func(vs []sema.Variable) map[string]int {
		m := map[string]int{}
		for _, v := range vs {
			m[v.Name] = v.Location
		}
		return m
	}
	if diff := cmp.Diff(map[string]int{"tint": 0, "uv": 1}, locations(p.Vertex.Varyings)); diff != "" {
		t.Errorf("vertex varyings mismatch (-want +got):\n%s", diff)
	}
	// The fragment shader only declares tint but must read it from the
	// semantic the vertex shader writes.
	if diff := cmp.Diff(map[string]int{"tint": 0}, locations(p.Fragment.Varyings)); diff != "" {
		t.Errorf("fragment varyings mismatch (-want +got):\n%s", diff)
	}
	mustContain(t, p.Vertex.HLSL, ": TEXCOORD0;", ": TEXCOORD1;")
	mustContain(t, p.Fragment.HLSL, ": TEXCOORD0;")
}

func TestTranslateProgramPinsVaryings(t *testing.T) {
	const vs = `
varying vec4 a;
varying vec4 b;
void main() { a = vec4(0.0); b = vec4(1.0); gl_Position = a; }`
	const fs = `
precision mediump float;
varying vec4 b;
void main() { gl_FragColor = b; }`

	p, err := TranslateProgram(vs, fs, DefaultOptions(sema.StageVertex))
	if err != nil {
		t.Fatalf("TranslateProgram failed: %v", err)
	}
	if got := p.Fragment.Varyings[0].Location; got != 1 {
		t.Errorf("fragment b location = %d, want 1", got)
	}
	mustContain(t, p.Fragment.HLSL, ": TEXCOORD1;")
	mustNotContain(t, p.Fragment.HLSL, ": TEXCOORD0;")
}

func TestTranslateProgramLinkErrors(t *testing.T) {
	const fs = `
precision mediump float;
varying vec3 normal;
void main() { gl_FragColor = vec4(normal, 1.0); }`

	_, err := TranslateProgram(quadVertex, fs, DefaultOptions(sema.StageVertex))
	if diff := cmp.Diff([]sema.DiagnosticKind{sema.DiagLinkMissingVarying}, diagnosticKinds(t, err)); diff != "" {
		t.Errorf("link diagnostics mismatch (-want +got):\n%s", diff)
	}

	_, err = TranslateProgram("void main() { gl_Position = ; }", fs, DefaultOptions(sema.StageVertex))
	if err == nil || !strings.Contains(err.Error(), "vertex shader") {
		t.Errorf("error = %v, want it attributed to the vertex shader", err)
	}
}

func TestLinkChecksStages(t *testing.T) {
	vs := translate(t, sema.StageVertex, quadVertex)
	fs := translate(t, sema.StageFragment, quadFragment)

	if err := Link(vs, fs); err != nil {
		t.Errorf("Link failed: %v", err)
	}
	if err := Link(fs, vs); err == nil {
		t.Error("Link accepted swapped stages")
	}
	if err := Link(vs, nil); err == nil {
		t.Error("Link accepted a nil shader")
	}
}

func TestReflection(t *testing.T) {
	res := translate(t, sema.StageFragment, quadFragment)

	ref := res.Reflection()
	if ref.Stage != "fragment" || ref.Profile != "ps_5_0" || ref.EntryPoint == "" {
		t.Errorf("reflection header = %q %q %q", ref.Stage, ref.Profile, ref.EntryPoint)
	}
	if len(ref.Registers) != 2 {
		t.Errorf("Registers = %v, want sampler and texture", ref.Registers)
	}
	if diff := cmp.Diff([]string{"webgl_texture2D"}, ref.Helpers); diff != "" {
		t.Errorf("helpers mismatch (-want +got):\n%s", diff)
	}

	y, err := res.YAML()
	if err != nil {
		t.Fatalf("YAML failed: %v", err)
	}
	mustContain(t, string(y), "stage: fragment", "profile: ps_5_0", "name: image", "name: tint")

	s, err := res.ReflectionStruct()
	if err != nil {
		t.Fatalf("ReflectionStruct failed: %v", err)
	}
	if got := s.Fields["stage"].GetStringValue(); got != "fragment" {
		t.Errorf("stage = %q, want fragment", got)
	}
	uniforms := s.Fields["uniforms"].GetListValue().GetValues()
	if len(uniforms) != 1 {
		t.Fatalf("uniforms = %v, want one entry", uniforms)
	}
	if got := uniforms[0].GetStructValue().Fields["register"].GetNumberValue(); got != 0 {
		t.Errorf("image register = %v, want 0", got)
	}

	j, err := res.ProtoJSON()
	if err != nil {
		t.Fatalf("ProtoJSON failed: %v", err)
	}
	mustContain(t, string(j), `"stage"`, `"fragment"`, `"uniforms"`)
}

func TestTranslateLogs(t *testing.T) {
	var lines []string
	opts := DefaultOptions(sema.StageVertex)
	opts.Logger = funcr.New(func(prefix, args string) {
		lines = append(lines, args)
	}, funcr.Options{Verbosity: 1})

	if _, err := Translate(quadVertex, opts); err != nil {
		t.Fatalf("Translate failed: %v", err)
	}

	joined := strings.Join(lines, "\n")
	mustContain(t, joined, `"verified shader"`, `"rewrite pass done"`, `"translated shader"`)
}
