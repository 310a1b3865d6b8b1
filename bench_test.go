// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package essl

import (
	"runtime"
	"testing"

	"github.com/gogpu/essl/rewrite"
	"github.com/gogpu/essl/sema"
)

// ---------------------------------------------------------------------------
// Test shader sources: realistic GLSL ES shaders at different complexity
// ---------------------------------------------------------------------------

const shaderSmallFragment = `
precision mediump float;
void main() {
    gl_FragColor = vec4(1.0, 0.0, 0.0, 1.0);
}
`

// shaderMediumLighting has helper functions, loops and short circuits.
const shaderMediumLighting = `
precision mediump float;
uniform vec3 lightDir;
uniform vec3 lightColor;
varying vec3 vNormal;
varying vec2 vUV;

float band(float x, float lo, float hi) {
    return (x > lo && x < hi) ? 1.0 : 0.0;
}

void main() {
    vec3 n = normalize(vNormal);
    float d = max(dot(n, -lightDir), 0.0);
    float stripes = 0.0;
    for (int i = 0; i < 4; i++) {
        stripes += band(fract(vUV.x * 8.0), float(i) * 0.25, float(i) * 0.25 + 0.1);
    }
    gl_FragColor = vec4(lightColor * d * (0.5 + 0.5 * stripes), 1.0);
}
`

// shaderLargeMaterial has structs, struct equality, samplers in
// parameters and matrix arithmetic.
const shaderLargeMaterial = `
precision highp float;
struct Material {
    vec3 albedo;
    float roughness;
    float metallic;
};
struct Light {
    vec3 position;
    vec3 color;
};
uniform Material material;
uniform Light lights[4];
uniform sampler2D albedoMap;
uniform samplerCube envMap;
uniform mat3 normalMatrix;
varying vec3 vPosition;
varying vec3 vNormal;
varying vec2 vUV;

vec3 sampleAlbedo(sampler2D tex, vec2 uv) {
    return texture2D(tex, uv).rgb * material.albedo;
}

vec3 shade(Light l, vec3 p, vec3 n, vec3 albedo) {
    vec3 L = normalize(l.position - p);
    vec3 V = normalize(-p);
    vec3 H = normalize(L + V);
    float spec = pow(max(dot(n, H), 0.0), mix(8.0, 128.0, 1.0 - material.roughness));
    return (albedo * max(dot(n, L), 0.0) + vec3(spec) * material.metallic) * l.color;
}

void main() {
    vec3 n = normalize(normalMatrix * vNormal);
    vec3 albedo = sampleAlbedo(albedoMap, vUV);
    vec3 color = vec3(0.0);
    for (int i = 0; i < 4; i++) {
        color += shade(lights[i], vPosition, n, albedo);
    }
    Material base = Material(vec3(1.0), 0.5, 0.0);
    if (material == base || material.roughness > 0.9) {
        color = mix(color, textureCube(envMap, reflect(-vPosition, n)).rgb, 0.25);
    }
    gl_FragColor = vec4(color, 1.0);
}
`

type shaderCase struct {
	name   string
	source string
}

var shadersByComplexity = []shaderCase{
	{"Small", shaderSmallFragment},
	{"Medium", shaderMediumLighting},
	{"Large", shaderLargeMaterial},
}

// ---------------------------------------------------------------------------
// Full pipeline benchmarks
// ---------------------------------------------------------------------------

// BenchmarkTranslate benchmarks the complete pipeline from GLSL ES source
// to HLSL text.
func BenchmarkTranslate(b *testing.B) {
	for _, sc := range shadersByComplexity {
		b.Run(sc.name, func(b *testing.B) {
			opts := DefaultOptions(sema.StageFragment)
			b.ReportAllocs()
			b.SetBytes(int64(len(sc.source)))
			b.ResetTimer()

			var res *Result
			for i := 0; i < b.N; i++ {
				var err error
				res, err = Translate(sc.source, opts)
				if err != nil {
					b.Fatalf("translate failed: %v", err)
				}
			}
			runtime.KeepAlive(res)
		})
	}
}

// BenchmarkTranslateFeatureLevels benchmarks the largest shader at each
// feature level.
func BenchmarkTranslateFeatureLevels(b *testing.B) {
	for _, level := range []sema.FeatureLevel{sema.Level9_3, sema.Level10_0, sema.Level11_0} {
		b.Run(level.String(), func(b *testing.B) {
			opts := DefaultOptions(sema.StageFragment)
			opts.Level = level
			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				res, err := Translate(shaderLargeMaterial, opts)
				if err != nil {
					b.Fatalf("translate %s failed: %v", level, err)
				}
				runtime.KeepAlive(res)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Individual stage benchmarks (parse, verify, rewrite)
// ---------------------------------------------------------------------------

// BenchmarkParse benchmarks tokenization and tree construction.
func BenchmarkParse(b *testing.B) {
	for _, sc := range shadersByComplexity {
		b.Run(sc.name, func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(sc.source)))
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				tree, err := Parse(sc.source)
				if err != nil {
					b.Fatalf("parse failed: %v", err)
				}
				runtime.KeepAlive(tree)
			}
		})
	}
}

// BenchmarkVerify benchmarks verification of a freshly parsed tree.
func BenchmarkVerify(b *testing.B) {
	for _, sc := range shadersByComplexity {
		b.Run(sc.name, func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(sc.source)))

			for i := 0; i < b.N; i++ {
				b.StopTimer()
				tree, err := Parse(sc.source)
				if err != nil {
					b.Fatalf("parse failed: %v", err)
				}
				b.StartTimer()

				c := sema.NewContext(tree, sema.DefaultOptions(sema.StageFragment))
				if err := c.VerifyTree(); err != nil {
					b.Fatalf("verify failed: %v", err)
				}
			}
		})
	}
}

// BenchmarkRewrite benchmarks the rewrite passes on a verified tree.
func BenchmarkRewrite(b *testing.B) {
	for _, sc := range shadersByComplexity {
		b.Run(sc.name, func(b *testing.B) {
			b.ReportAllocs()

			for i := 0; i < b.N; i++ {
				b.StopTimer()
				tree, err := Parse(sc.source)
				if err != nil {
					b.Fatalf("parse failed: %v", err)
				}
				c := sema.NewContext(tree, sema.DefaultOptions(sema.StageFragment))
				if err := c.VerifyTree(); err != nil {
					b.Fatalf("verify failed: %v", err)
				}
				b.StartTimer()

				if err := rewrite.Run(c); err != nil {
					b.Fatalf("rewrite failed: %v", err)
				}
			}
		})
	}
}
