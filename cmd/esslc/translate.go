// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/gogpu/essl"
)

type translateFlags struct {
	stage         string
	output        string
	reflect       string
	reflectFormat string
	dumpAST       bool
}

func newTranslateCommand(g *globalFlags) *cobra.Command {
	f := &translateFlags{}
	cmd := &cobra.Command{
		Use:   "translate [flags] <shader>",
		Short: "Translate one shader to HLSL",
		Example: `  esslc translate quad.frag
  esslc translate --stage vertex --level 9_3 -o quad.hlsl quad.glsl
  cat quad.frag | esslc translate --stage fragment -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(cmd, g, f, args[0])
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&f.stage, "stage", "", "shader stage: vertex or fragment (default: from the file extension)")
	fs.StringVarP(&f.output, "output", "o", "", "output file (default: stdout)")
	fs.StringVar(&f.reflect, "reflect", "", "write uniform, varying and register reflection to this file")
	fs.StringVar(&f.reflectFormat, "reflect-format", "yaml", "reflection format: yaml or json")
	fs.BoolVar(&f.dumpAST, "dump-ast", false, "print the rewritten syntax tree instead of HLSL")
	return cmd
}

func runTranslate(cmd *cobra.Command, g *globalFlags, f *translateFlags, path string) error {
	if f.reflectFormat != "yaml" && f.reflectFormat != "json" {
		return errors.Errorf("unknown reflection format %q", f.reflectFormat)
	}
	stage, err := stageFor(f.stage, path)
	if err != nil {
		return err
	}
	source, err := readShader(cmd, path)
	if err != nil {
		return err
	}
	log := g.logger(cmd.ErrOrStderr())
	opts, err := g.options(cmd.Flags(), stage, inputPath(path), log)
	if err != nil {
		return err
	}

	tree, err := essl.Parse(source)
	if err != nil {
		return diagnosticError(path, source, err)
	}
	res, err := essl.TranslateTree(tree, opts)
	if err != nil {
		return diagnosticError(path, source, err)
	}
	log.V(1).Info("translated", "input", path, "profile", res.Info.Profile, "bytes", len(res.HLSL))

	out := []byte(res.HLSL)
	if f.dumpAST {
		out = []byte(tree.Dump(tree.Root))
	}
	if err := writeOutput(cmd, f.output, out); err != nil {
		return err
	}
	if f.reflect != "" {
		return writeReflection(cmd, f.reflect, f.reflectFormat, res)
	}
	return nil
}

func writeReflection(cmd *cobra.Command, path, format string, res *essl.Result) error {
	var (
		data []byte
		err  error
	)
	if format == "json" {
		data, err = res.ProtoJSON()
	} else {
		data, err = res.YAML()
	}
	if err != nil {
		return err
	}
	return writeOutput(cmd, path, data)
}

// inputPath is the path settings are searched from; stdin searches the
// working directory.
func inputPath(path string) string {
	if path == "-" {
		return "./-"
	}
	return path
}
