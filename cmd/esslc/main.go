// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Command esslc translates GLSL ES 1.00 shaders to HLSL.
//
// Usage:
//
//	esslc translate [flags] <shader>
//	esslc link [flags] <vertex> <fragment>
//	esslc version
//
// Examples:
//
//	esslc translate quad.frag                     # HLSL to stdout
//	esslc translate --level 9_3 -o quad.hlsl quad.vert
//	esslc translate --reflect quad.yaml quad.frag # also write reflection
//	esslc link -o out/ quad.vert quad.frag        # translate and link a pair
//
// Settings are read from esslc.yaml or .esslc.yaml next to the shader or
// in a parent directory; flags given on the command line win.
package main

import (
	"fmt"
	"os"
)

const esslcVersion = "0.1.0-dev"

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		os.Exit(1)
	}
}
