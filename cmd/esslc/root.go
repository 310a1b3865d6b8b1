// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/gogpu/essl"
	"github.com/gogpu/essl/config"
	"github.com/gogpu/essl/sema"
)

// globalFlags are shared by every command.
type globalFlags struct {
	level       string
	configPath  string
	derivatives bool
	fragDepth   bool
	downlevel   bool
	verbosity   int
}

func (g *globalFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&g.level, "level", "11_0", "target feature level: 9_3, 10_0 or 11_0")
	fs.StringVar(&g.configPath, "config", "", "settings file (default: esslc.yaml found next to the input)")
	fs.BoolVar(&g.derivatives, "derivatives", false, "allow GL_OES_standard_derivatives")
	fs.BoolVar(&g.fragDepth, "frag-depth", false, "allow GL_EXT_frag_depth")
	fs.BoolVar(&g.downlevel, "force-downlevel", false, "emit 9_3 compatible system values")
	fs.CountVarP(&g.verbosity, "verbose", "v", "log progress to stderr (repeat for more detail)")
}

// options builds translation options for stage from the settings file and
// the flags set on the command line, in that order.
func (g *globalFlags) options(fs *pflag.FlagSet, stage sema.Stage, input string, log logr.Logger) (essl.Options, error) {
	opts := essl.DefaultOptions(stage)
	opts.Logger = log

	file, path, err := g.loadConfig(input)
	if err != nil {
		return opts, err
	}
	if file != nil {
		log.V(1).Info("using settings", "path", path)
		if err := file.Apply(&opts); err != nil {
			return opts, errors.Wrapf(err, "%s", path)
		}
	}

	if fs.Changed("level") {
		level, err := sema.ParseFeatureLevel(g.level)
		if err != nil {
			return opts, err
		}
		opts.Level = level
	}
	if fs.Changed("derivatives") {
		opts.Derivatives = g.derivatives
	}
	if fs.Changed("frag-depth") {
		opts.FragDepth = g.fragDepth
	}
	if fs.Changed("force-downlevel") {
		opts.HLSL.ForceDownlevel = g.downlevel
	}
	return opts, nil
}

func (g *globalFlags) loadConfig(input string) (*config.File, string, error) {
	if g.configPath != "" {
		f, err := config.Load(g.configPath)
		return f, g.configPath, err
	}
	if input == "" {
		return nil, "", nil
	}
	return config.Find(filepath.Dir(input))
}

// logger returns a zap-backed logger writing to w. Each -v enables one
// more verbosity level.
func (g *globalFlags) logger(w io.Writer) logr.Logger {
	if g.verbosity == 0 {
		return logr.Discard()
	}
	enc := zap.NewDevelopmentEncoderConfig()
	enc.TimeKey = ""
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(enc),
		zapcore.AddSync(w),
		zap.NewAtomicLevelAt(zapcore.Level(-g.verbosity)),
	)
	return zapr.NewLogger(zap.New(core))
}

func newRootCommand() *cobra.Command {
	g := &globalFlags{}
	cmd := &cobra.Command{
		Use:           "esslc",
		Short:         "Translate GLSL ES 1.00 shaders to HLSL",
		Long:          "esslc translates OpenGL ES Shading Language 1.00 shaders to HLSL for Direct3D feature levels 9_3 to 11_0.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	g.register(cmd.PersistentFlags())
	cmd.AddCommand(
		newTranslateCommand(g),
		newLinkCommand(g),
		newVersionCommand(),
	)
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the esslc version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "esslc version %s\n", esslcVersion)
		},
	}
}

// stageFor returns the stage named by flag, or guesses it from the file
// extension when flag is empty.
func stageFor(flag, path string) (sema.Stage, error) {
	if flag != "" {
		return sema.ParseStage(flag)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".vert", ".vs", ".vsh":
		return sema.StageVertex, nil
	case ".frag", ".fs", ".fsh":
		return sema.StageFragment, nil
	}
	return sema.StageVertex, errors.Errorf("cannot tell the stage of %s; use --stage", path)
}

// readShader returns the contents of path, or of stdin for "-".
func readShader(cmd *cobra.Command, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", errors.Wrap(err, "read shader")
	}
	return string(data), nil
}

// diagnosticError formats shader diagnostics with source excerpts.
func diagnosticError(path, source string, err error) error {
	var ds sema.Diagnostics
	if errors.As(err, &ds) {
		return errors.Errorf("%s:\n%s", path, ds.FormatWithContext(source))
	}
	return errors.Wrap(err, path)
}

// writeOutput writes data to path, or to the command output when path is
// empty or "-".
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	return errors.Wrap(os.WriteFile(path, data, 0o644), "write output")
}
