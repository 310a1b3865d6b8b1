// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/gogpu/essl"
	"github.com/gogpu/essl/sema"
)

type linkFlags struct {
	outDir        string
	reflectFormat string
	reflect       bool
}

func newLinkCommand(g *globalFlags) *cobra.Command {
	f := &linkFlags{}
	cmd := &cobra.Command{
		Use:   "link [flags] <vertex> <fragment>",
		Short: "Translate a vertex and fragment shader pair and check they link",
		Long: `link translates both shaders with matching varying semantics and checks
that the fragment shader's varyings and the shared uniforms agree.`,
		Example: `  esslc link quad.vert quad.frag
  esslc link -o build/ --reflect quad.vert quad.frag`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLink(cmd, g, f, args[0], args[1])
		},
	}
	fs := cmd.Flags()
	fs.StringVarP(&f.outDir, "output", "o", "", "directory for vertex.hlsl and fragment.hlsl (default: stdout)")
	fs.BoolVar(&f.reflect, "reflect", false, "also write reflection for both stages")
	fs.StringVar(&f.reflectFormat, "reflect-format", "yaml", "reflection format: yaml or json")
	return cmd
}

func runLink(cmd *cobra.Command, g *globalFlags, f *linkFlags, vertexPath, fragmentPath string) error {
	if f.reflectFormat != "yaml" && f.reflectFormat != "json" {
		return errors.Errorf("unknown reflection format %q", f.reflectFormat)
	}
	vs, err := readShader(cmd, vertexPath)
	if err != nil {
		return err
	}
	fs, err := readShader(cmd, fragmentPath)
	if err != nil {
		return err
	}
	log := g.logger(cmd.ErrOrStderr())
	opts, err := g.options(cmd.Flags(), sema.StageVertex, inputPath(vertexPath), log)
	if err != nil {
		return err
	}

	p, err := essl.TranslateProgram(vs, fs, opts)
	if err != nil {
		return errors.Wrapf(err, "link %s %s", vertexPath, fragmentPath)
	}

	stages := []struct {
		name string
		res  *essl.Result
	}{
		{"vertex", p.Vertex},
		{"fragment", p.Fragment},
	}
	for _, s := range stages {
		if err := writeStage(cmd, f, s.name, s.res); err != nil {
			return err
		}
	}
	return nil
}

func writeStage(cmd *cobra.Command, f *linkFlags, name string, res *essl.Result) error {
	if f.outDir == "" {
		fmt.Fprintf(cmd.OutOrStdout(), "// %s shader (%s)\n%s\n", name, res.Info.Profile, res.HLSL)
		if f.reflect {
			return writeReflection(cmd, "", f.reflectFormat, res)
		}
		return nil
	}
	if err := os.MkdirAll(f.outDir, 0o755); err != nil {
		return errors.Wrap(err, "create output directory")
	}
	if err := writeOutput(cmd, filepath.Join(f.outDir, name+".hlsl"), []byte(res.HLSL)); err != nil {
		return err
	}
	if f.reflect {
		return writeReflection(cmd, filepath.Join(f.outDir, name+"."+f.reflectFormat), f.reflectFormat, res)
	}
	return nil
}
