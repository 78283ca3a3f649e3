// Package main provides the apidsl CLI tool.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

var version = "dev"

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	defer logger.Sync() //nolint:errcheck

	app := &cli.Command{
		Name:    "apidsl",
		Version: version,
		Usage:   "Compile an apidsl source file into a normalized IR",
		Commands: []*cli.Command{
			compileCommand(logger),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
