// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Command tally evaluates a YAML scenario file offline and prints the
// outcome.
//
//	tally -scenario board.yaml
//	tally -scenario board.yaml -format json
//
// A .env file in the working directory is loaded first; TALLY_FORMAT there or
// in the environment sets the default output format.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/danielhkuo/quickly-tally/report"
	"github.com/danielhkuo/quickly-tally/scenario"
)

const (
	formatText = "text"
	formatJSON = "json"
)

const formatEnv = "TALLY_FORMAT"

var errUsage = errors.New("usage")

type options struct {
	scenarioPath string
	format       string
}

func parseOptions(args []string, stderr io.Writer) (options, error) {
	var opts options

	fs := flag.NewFlagSet("tally", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.scenarioPath, "scenario", "", "Path to a YAML scenario file")
	defaultFormat := formatText
	if v := os.Getenv(formatEnv); v != "" {
		defaultFormat = v
	}
	fs.StringVar(&opts.format, "format", defaultFormat, "Output format (text or json, env: "+formatEnv+")")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if opts.scenarioPath == "" {
		fs.Usage()
		return options{}, fmt.Errorf("%w: -scenario is required", errUsage)
	}
	if opts.format != formatText && opts.format != formatJSON {
		return options{}, fmt.Errorf("%w: unknown format %q", errUsage, opts.format)
	}
	return opts, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	logger := slog.New(slog.NewTextHandler(stderr, nil))

	// A missing .env is fine
	_ = godotenv.Load()

	opts, err := parseOptions(args, stderr)
	if err != nil {
		logger.Error("invalid arguments", "error", err)
		return 2
	}

	s, err := scenario.Load(opts.scenarioPath)
	if err != nil {
		logger.Error("failed to load scenario", "path", opts.scenarioPath, "error", err)
		return 1
	}

	out, err := scenario.Run(ctx, s)
	if err != nil {
		logger.Error("failed to evaluate scenario", "path", opts.scenarioPath, "error", err)
		return 1
	}

	switch opts.format {
	case formatJSON:
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		err = enc.Encode(out)
	default:
		err = report.WriteOutcome(stdout, s, out)
	}
	if err != nil {
		logger.Error("failed to write output", "error", err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}
