// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"

	"github.com/gogpu/essl/parse"
	"github.com/gogpu/essl/rewrite"
	"github.com/gogpu/essl/sema"
)

// prepare parses, verifies and rewrites src.
func prepare(t testing.TB, opts sema.Options, src string) *sema.Context {
	t.Helper()
	tree, err := parse.Parse(src)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	c := sema.NewContext(tree, opts)
	if err := c.VerifyTree(); err != nil {
		t.Fatalf("VerifyTree failed: %v", err)
	}
	if err := rewrite.Run(c); err != nil {
		t.Fatalf("rewrite failed: %v", err)
	}
	return c
}

func compileWith(t *testing.T, opts sema.Options, options *Options, src string) (string, *TranslationInfo) {
	t.Helper()
	code, info, err := Compile(prepare(t, opts, src), options)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	return code, info
}

func compileVertex(t *testing.T, src string) (string, *TranslationInfo) {
	t.Helper()
	return compileWith(t, sema.DefaultOptions(sema.StageVertex), nil, src)
}

func compileFragment(t *testing.T, src string) (string, *TranslationInfo) {
	t.Helper()
	return compileWith(t, sema.DefaultOptions(sema.StageFragment), nil, src)
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

// semanticLine returns the struct member line declaring semantic.
func semanticLine(code, semantic string) string {
	for _, line := range strings.Split(code, "\n") {
		if strings.HasSuffix(line, " : "+semantic+";") {
			return strings.TrimSpace(line)
		}
	}
	return ""
}

const vertexSource = `
attribute vec4 position;
uniform mat4 mvp;
varying vec2 uv;
void main() {
    uv = position.xy;
    gl_Position = mvp * position;
}`

const fragmentSource = `
precision mediump float;
uniform sampler2D tex;
varying vec2 uv;
void main() {
    gl_FragColor = texture2D(tex, uv);
}`

func TestCompileVertexShader(t *testing.T) {
	code, info := compileVertex(t, vertexSource)

	mustContain(t, code,
		"struct VS_INPUT {",
		"struct VS_OUTPUT {",
		"float4 gl_Position : SV_Position;",
		"uniform float4x4 ",
		" : register(c0);",
		"_out.gl_Position = mul(_in.",
		"VS_OUTPUT main(VS_INPUT _in)",
		"VS_OUTPUT _out = (VS_OUTPUT)0;",
		"_out.gl_Position.z = (_out.gl_Position.z + _out.gl_Position.w) * 0.5;",
		"return _out;",
		"in VS_INPUT _in, inout VS_OUTPUT _out)",
	)
	if line := semanticLine(code, "TEXCOORD0"); !strings.HasPrefix(line, "float4 ") {
		t.Errorf("TEXCOORD0 member = %q, want the float4 attribute", line)
	}

	if info.EntryPoint != EntryPoint {
		t.Errorf("EntryPoint = %q, want %q", info.EntryPoint, EntryPoint)
	}
	if info.Profile != "vs_5_0" {
		t.Errorf("Profile = %q, want vs_5_0", info.Profile)
	}
	if info.ShaderModel != ShaderModel5_0 {
		t.Errorf("ShaderModel = %s, want %s", info.ShaderModel, ShaderModel5_0)
	}
	if len(info.RegisterBindings) != 1 {
		t.Errorf("RegisterBindings = %v, want one constant binding", info.RegisterBindings)
	}
	for _, bt := range info.RegisterBindings {
		if bt.Type != RegisterTypeC || bt.Register != 0 || bt.Count != 4 {
			t.Errorf("mvp binding = %+v, want c0 x4", bt)
		}
	}
}

func TestCompileFragmentShader(t *testing.T) {
	code, info := compileFragment(t, fragmentSource)

	mustContain(t, code,
		"struct PS_INPUT {",
		"float4 gl_FragCoord : SV_Position;",
		"float4 gl_FragColor : SV_Target0;",
		"SamplerState ",
		"_s : register(s0);",
		"Texture2D ",
		"_t : register(t0);",
		"float4 webgl_texture2D(SamplerState s, Texture2D t, float2 p)",
		"return t.Sample(s, p);",
		"_out.gl_FragColor = webgl_texture2D(",
		"PS_OUTPUT main(PS_INPUT _in)",
	)
	mustNotContain(t, code, "gl_Position.z")
	if line := semanticLine(code, "TEXCOORD0"); !strings.HasPrefix(line, "float2 ") {
		t.Errorf("TEXCOORD0 member = %q, want the float2 varying", line)
	}

	if info.Profile != "ps_5_0" {
		t.Errorf("Profile = %q, want ps_5_0", info.Profile)
	}
	if diff := cmp.Diff([]string{"webgl_texture2D"}, info.HelperFunctions); diff != "" {
		t.Errorf("HelperFunctions mismatch (-want +got):\n%s", diff)
	}
	var kinds []string
	for _, bt := range info.RegisterBindings {
		kinds = append(kinds, bt.String())
	}
	if len(kinds) != 2 {
		t.Errorf("RegisterBindings = %v, want s0 and t0", info.RegisterBindings)
	}
}

func TestCompileIsIdempotent(t *testing.T) {
	c := prepare(t, sema.DefaultOptions(sema.StageFragment), fragmentSource)
	first, _, err := Compile(c, nil)
	if err != nil {
		t.Fatalf("first Compile failed: %v", err)
	}
	second, _, err := Compile(c, nil)
	if err != nil {
		t.Fatalf("second Compile failed: %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("outputs differ (-first +second):\n%s", diff)
	}
}

func TestCompileRejectsUnverifiedContexts(t *testing.T) {
	if _, _, err := Compile(nil, nil); err == nil {
		t.Error("Compile(nil) succeeded")
	}

	tree, err := parse.Parse("void main() { x = 1.0; }")
	if err != nil {
		t.Fatal(err)
	}
	c := sema.NewContext(tree, sema.DefaultOptions(sema.StageVertex))
	if c.VerifyTree() == nil {
		t.Fatal("VerifyTree accepted an undeclared identifier")
	}
	_, _, err = Compile(c, nil)
	var herr *Error
	if err == nil {
		t.Fatal("Compile accepted a context with diagnostics")
	}
	if e, ok := err.(*Error); ok {
		herr = e
	}
	if herr == nil || herr.Kind != ErrUnverifiedTree {
		t.Errorf("err = %v, want %s", err, ErrUnverifiedTree)
	}
}

func TestShortCircuitsAreLowered(t *testing.T) {
	code, _ := compileVertex(t, `
uniform float x, y;
void main() {
    bool b = x > 0.0 && y > 0.0;
    bool c = x > 1.0 || b;
    gl_Position = vec4(b ? 1.0 : 0.0);
}`)
	mustNotContain(t, code, "&&", "||", " ? ")
	mustContain(t, code, "if (")
}

func TestMatrixProducts(t *testing.T) {
	code, _ := compileVertex(t, `
uniform mat4 m;
attribute vec4 p;
void main() {
    vec4 v = p;
    v *= m;
    mat4 n = m * m;
    gl_Position = v * n;
}`)
	mustContain(t, code, " = mul(", "mul(")
	mustNotContain(t, code, "*=")
}

func TestComparisonReductions(t *testing.T) {
	code, _ := compileVertex(t, `
uniform vec2 a, b;
void main() {
    float f = 0.0;
    if (a == b) {
        f = 1.0;
    }
    if (a != b) {
        f = 2.0;
    }
    gl_Position = vec4(f);
}`)
	mustContain(t, code, "if (all(", " == ", "if (any(", " != ")
}

func TestStructHelpers(t *testing.T) {
	const decl = `
struct Light {
    vec3 color;
    float power;
};
uniform Light light;
`
	code, info := compileVertex(t, decl+`
void main() {
    Light l = Light(vec3(1.0), 2.0);
    gl_Position = vec4(l.color * l.power, 1.0);
}`)
	mustContain(t, code, "_ctor(float3 x0, float x1)", "s.color = x0;", "((float3)(1.0))")
	mustNotContain(t, code, "_eq(")
	if len(info.HelperFunctions) != 1 || !strings.HasSuffix(info.HelperFunctions[0], "_ctor") {
		t.Errorf("HelperFunctions = %v, want only the constructor", info.HelperFunctions)
	}

	code, _ = compileVertex(t, decl+`
void main() {
    Light l;
    float f = 0.0;
    if (l == light) {
        f = 1.0;
    }
    if (l != light) {
        f = 2.0;
    }
    gl_Position = vec4(f);
}`)
	mustContain(t, code, "_eq(", "!_u", "all(a.color == b.color)", "(a.power == b.power)", " = (_u")
	mustNotContain(t, code, "_ctor(")
}

func TestBuiltinFunctions(t *testing.T) {
	code, info := compileFragment(t, `
precision mediump float;
varying vec2 uv;
void main() {
    float a = mod(uv.x, 2.0);
    float b = fract(uv.y);
    vec2 c = mix(uv, vec2(1.0), 0.5);
    float d = inversesqrt(a);
    float e = atan(uv.y, uv.x);
    bvec2 lt = lessThan(uv, c);
    float s = sign(b);
    gl_FragColor = vec4(a + b + d + e + s, c, 1.0);
}`)
	mustContain(t, code,
		"float webgl_mod(float x, float y)",
		"return x - y * floor(x / y);",
		"frac(",
		"lerp(",
		"rsqrt(",
		"atan2(",
		" < ",
		"((float)sign(",
	)
	if diff := cmp.Diff([]string{"webgl_mod"}, info.HelperFunctions); diff != "" {
		t.Errorf("HelperFunctions mismatch (-want +got):\n%s", diff)
	}
}

func TestConstructorHelpers(t *testing.T) {
	code, _ := compileVertex(t, `
uniform mat4 m4;
void main() {
    mat3 m3 = mat3(m4);
    mat2 d = mat2(2.0);
    vec4 v = vec4(mat2(1.0));
    vec2 t = vec2(m4[0]);
    gl_Position = vec4(m3[0], d[0][0] + v.x + t.x);
}`)
	mustContain(t, code,
		"float3x3 webgl_float3x3(float4x4 m)",
		"m[2][2]",
		"float2x2 webgl_float2x2(float s)",
		"float2x2(s, 0.0, 0.0, s)",
		"float4 webgl_float4(float2x2 m)",
		"float4(m[0][0], m[0][1], m[1][0], m[1][1])",
		"float2(",
		".xy)",
	)
}

func TestScalarExpansion(t *testing.T) {
	code, _ := compileVertex(t, `
attribute vec3 p;
void main() {
    vec3 w = 2.0 * p;
    gl_Position = vec4(w, 1.0);
}`)
	mustContain(t, code, "(((float3)2.0) * _in.")
}

func TestSamplerParameters(t *testing.T) {
	code, _ := compileFragment(t, `
precision mediump float;
uniform sampler2D tex;
vec4 fetch(sampler2D s, vec2 p) {
    return texture2D(s, p);
}
void main() {
    gl_FragColor = fetch(tex, vec2(0.5));
}`)
	mustContain(t, code,
		"float4 _u",
		"(SamplerState _u",
		", Texture2D _u",
		"in PS_INPUT _in, inout PS_OUTPUT _out)",
		", _in, _out)",
	)
}

func TestFragmentOutputs(t *testing.T) {
	code, info := compileFragment(t, `
precision mediump float;
void main() {
    gl_FragData[0] = vec4(1.0);
}`)
	mustContain(t, code, "float4 gl_FragData[1] : SV_Target0;", "_out.gl_FragData[0] = ")
	mustNotContain(t, code, "gl_FragColor")
	if !info.UsedFeatures.Has(FeatureMultipleRenderTargets) {
		t.Errorf("UsedFeatures = %s, want MultipleRenderTargets", info.UsedFeatures)
	}

	opts := sema.DefaultOptions(sema.StageFragment)
	opts.FragDepth = true
	code, info = compileWith(t, opts, nil, `#extension GL_EXT_frag_depth : enable
precision mediump float;
void main() {
    gl_FragColor = vec4(1.0);
    gl_FragDepthEXT = 0.5;
}`)
	mustContain(t, code, "float gl_FragDepthEXT : SV_Depth;", "_out.gl_FragDepthEXT = 0.5;")
	if !info.UsedFeatures.Has(FeatureFragDepth) {
		t.Errorf("UsedFeatures = %s, want FragDepth", info.UsedFeatures)
	}
}

func TestFrontFacing(t *testing.T) {
	const src = `
precision mediump float;
void main() {
    gl_FragColor = gl_FrontFacing ? vec4(1.0) : vec4(0.0);
}`
	code, _ := compileFragment(t, src)
	mustContain(t, code, "bool gl_FrontFacing : SV_IsFrontFace;", "if (_in.gl_FrontFacing)")

	opts := sema.DefaultOptions(sema.StageFragment)
	opts.Level = sema.Level9_3
	code, info := compileWith(t, opts, nil, src)
	mustContain(t, code, "float gl_FrontFacing : VFACE;", "(_in.gl_FrontFacing >= 0.0)")
	if info.Profile != "ps_4_0_level_9_3" {
		t.Errorf("Profile = %q, want ps_4_0_level_9_3", info.Profile)
	}

	code, info = compileWith(t, sema.DefaultOptions(sema.StageFragment), &Options{ForceDownlevel: true}, src)
	mustContain(t, code, ": VFACE;")
	if !info.ShaderModel.Downlevel() {
		t.Errorf("ShaderModel = %s, want downlevel", info.ShaderModel)
	}
}

func TestDerivatives(t *testing.T) {
	opts := sema.DefaultOptions(sema.StageFragment)
	opts.Derivatives = true
	code, info := compileWith(t, opts, nil, `#extension GL_OES_standard_derivatives : enable
precision mediump float;
varying vec2 uv;
void main() {
    gl_FragColor = vec4(dFdx(uv.x), dFdy(uv.y), fwidth(uv.x), 1.0);
}`)
	mustContain(t, code, "ddx(", "ddy(", "fwidth(")
	if !info.UsedFeatures.Has(FeatureDerivatives) {
		t.Errorf("UsedFeatures = %s, want Derivatives", info.UsedFeatures)
	}
}

func TestVertexTextures(t *testing.T) {
	code, info := compileVertex(t, `
uniform sampler2D heights;
attribute vec2 uv;
void main() {
    gl_Position = texture2DLod(heights, uv, 0.0);
    gl_PointSize = 1.0;
}`)
	mustContain(t, code,
		"float4 webgl_texture2DLod(SamplerState s, Texture2D t, float2 p, float lod)",
		"t.SampleLevel(s, p, lod)",
		"float gl_PointSize : PSIZE;",
	)
	if !info.UsedFeatures.Has(FeatureVertexTextures) || !info.UsedFeatures.Has(FeaturePointSize) {
		t.Errorf("UsedFeatures = %s, want VertexTextures and PointSize", info.UsedFeatures)
	}
}

func TestVertexTexturesDownlevel(t *testing.T) {
	c := prepare(t, sema.DefaultOptions(sema.StageVertex), `
uniform sampler2D heights;
attribute vec2 uv;
void main() {
    gl_Position = texture2DLod(heights, uv, 0.0);
}`)
	_, _, err := Compile(c, &Options{ForceDownlevel: true})
	if err == nil {
		t.Fatal("Compile sampled a texture in a 9_3 vertex shader")
	}
	var herr *Error
	if !errors.As(err, &herr) || herr.Kind != ErrUnsupportedFeature {
		t.Fatalf("err = %v, want %s", err, ErrUnsupportedFeature)
	}
	if herr.Pos == nil || herr.Pos.Line != 5 {
		t.Errorf("Pos = %v, want line 5", herr.Pos)
	}
}

func TestProjectiveTexturing(t *testing.T) {
	code, _ := compileFragment(t, `
precision mediump float;
uniform sampler2D tex;
varying vec4 p;
void main() {
    gl_FragColor = texture2DProj(tex, p) + texture2DProj(tex, p.xyz, 1.0);
}`)
	mustContain(t, code,
		"t.Sample(s, p.xy / p.w)",
		"t.SampleBias(s, p.xy / p.z, bias)",
	)
}

func TestVaryingSemantics(t *testing.T) {
	code, _ := compileVertex(t, `
varying vec2 b;
varying vec4 a;
void main() {
    a = vec4(0.0);
    b = vec2(1.0);
    gl_Position = a;
}`)
	if line := semanticLine(code, "TEXCOORD0"); !strings.HasPrefix(line, "float4 ") {
		t.Errorf("TEXCOORD0 member = %q, want varying a", line)
	}
	if line := semanticLine(code, "TEXCOORD1"); !strings.HasPrefix(line, "float2 ") {
		t.Errorf("TEXCOORD1 member = %q, want varying b", line)
	}
}

func TestSuppressOptions(t *testing.T) {
	code, info := compileWith(t, sema.DefaultOptions(sema.StageVertex), &Options{SuppressBoilerplate: true}, vertexSource)
	mustNotContain(t, code, "VS_OUTPUT main(")
	if info.EntryPoint != "" {
		t.Errorf("EntryPoint = %q, want empty", info.EntryPoint)
	}

	code, _ = compileWith(t, sema.DefaultOptions(sema.StageVertex), &Options{SuppressInputStruct: true}, vertexSource)
	mustNotContain(t, code, "struct VS_INPUT {")
	mustContain(t, code, "struct VS_OUTPUT {", "VS_OUTPUT main(VS_INPUT _in)")
}

func TestControlFlow(t *testing.T) {
	code, _ := compileVertex(t, `
uniform float x;
void main() {
    float f = 0.0;
    for (int i = 0; i < 4; i++) {
        if (x > 1.0)
            continue;
        else if (x < 0.0)
            break;
        f += 1.0;
    }
    gl_Position = vec4(f);
}`)
	mustContain(t, code,
		"for (int ",
		"< 4); (",
		"} else if (",
		"continue;",
		"break;",
		" += 1.0;",
	)
}

func TestFeatureFlags_String(t *testing.T) {
	if got := FeatureNone.String(); got != "none" {
		t.Errorf("FeatureNone.String() = %q, want none", got)
	}
	f := FeatureDerivatives | FeatureFragDepth
	if got := f.String(); got != "Derivatives, FragDepth" {
		t.Errorf("String() = %q", got)
	}
	if f.Has(FeaturePointSize) {
		t.Error("Has(FeaturePointSize) = true")
	}
}
