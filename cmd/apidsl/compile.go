package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	apidsl "github.com/apidsl/apidsl"
	"github.com/apidsl/apidsl/pipeline"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

var errNoInputFile = errors.New("apidsl: no input file given")

func compileCommand(logger *zap.Logger) *cli.Command {
	return &cli.Command{
		Name:      "compile",
		Usage:     "Compile an apidsl source file and print its IR as JSON",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "write the IR to this path instead of stdout",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "path to a directory to search for .apidsl.yaml (default: the input file's directory)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runCompile(ctx, cmd, logger)
		},
	}
}

func runCompile(_ context.Context, cmd *cli.Command, logger *zap.Logger) error {
	args := cmd.Args().Slice()
	if len(args) == 0 {
		return errNoInputFile
	}

	file := args[0]

	configDir := cmd.String("config")
	if configDir == "" {
		configDir = filepath.Dir(file)
	}

	cfg, err := apidsl.LoadConfig(configDir)
	if err != nil && !errors.Is(err, apidsl.ErrConfigNotFound) {
		return fmt.Errorf("loading config: %w", err)
	}

	outPath := cmd.String("out")
	if outPath == "" && cfg != nil {
		outPath = cfg.Out
	}

	source, err := os.ReadFile(filepath.Clean(file)) //nolint:gosec // G304: file path from user input is expected
	if err != nil {
		return fmt.Errorf("reading %s: %w", file, err)
	}

	result, err := pipeline.CompileWithTrace(file, string(source), func(stage pipeline.Stage, took time.Duration) {
		logger.Debug("pass", zap.String("name", string(stage)), zap.Duration("took", took))
	})
	if err != nil {
		return translateError(file, err)
	}

	doc := renderSpec(result.Spec, result.Interner)

	encoded, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding IR: %w", err)
	}

	if outPath == "" {
		fmt.Println(string(encoded))

		return nil
	}

	if err := os.WriteFile(outPath, append(encoded, '\n'), 0o644); err != nil { //nolint:gosec // G306: output file permissions are fine
		return fmt.Errorf("writing %s: %w", outPath, err)
	}

	fmt.Printf("wrote %s\n", outPath)

	return nil
}

// translateError turns a pipeline *apidsl.Error into a human-readable
// message that locates the problem within file using the error's span.
func translateError(file string, err error) error {
	var apiErr *apidsl.Error
	if !errors.As(err, &apiErr) {
		return err
	}

	return fmt.Errorf(
		"%s:%d:%d: %s: %s",
		file, apiErr.Span.Start.Line, apiErr.Span.Start.Column, apiErr.Kind, apiErr.Msg,
	)
}
