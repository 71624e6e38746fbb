// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package plot implements the per-directory entry point: process the trace
// files given on the command line, in the current directory.
package plot

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/urfave/cli/v3"

	"traceplot/internal/config"
	"traceplot/internal/ctxlog"
	"traceplot/internal/runner"
)

const (
	lscpuFlag    = "lscpu"
	dryFlag      = "dry"
	parallelFlag = "parallel"
	verboseFlag  = "verbose"
)

// ErrNoTraceFiles is returned when no trace files are given.
var ErrNoTraceFiles = errors.New("at least one trace file is required")

// PlotCmd is the command that processes the trace files of one directory.
var PlotCmd = &cli.Command{
	Name: "plot",
	Description: `Run the plot tool over the given trace files, then the check tool with
its report captured next to each file. With --parallel the whole file
list is handed to the external worker pool instead.`,
	Usage:     "traceplot plot --lscpu lscpu.txt *.trace.xz",
	ArgsUsage: "TRACEFILE...",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:      lscpuFlag,
			Usage:     "File with the lscpu output of the observed machine",
			Required:  true,
			TakesFile: true,
			OnlyOnce:  true,
		},
		&cli.BoolFlag{
			Name:  dryFlag,
			Usage: "Print the commands that would run, process nothing",
		},
		&cli.IntFlag{
			Name:     parallelFlag,
			Usage:    "Delegate to the worker pool, capped at N jobs (0 = all cores)",
			OnlyOnce: true,
		},
		&cli.BoolFlag{
			Name:    verboseFlag,
			Aliases: []string{"v"},
			Usage:   "Enable debug logging",
		},
	},
	Action: actionFunc,
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool(verboseFlag) {
		ctxlog.LevelVar.Set(slog.LevelDebug)
	}

	files := cmd.Args().Slice()
	if len(files) == 0 {
		return cli.Exit(ErrNoTraceFiles.Error(), 1)
	}

	lscpu := cmd.String(lscpuFlag)
	if lscpu == "" {
		return cli.Exit(config.ErrNoLscpu.Error(), 1)
	}

	cfg := config.Config{
		Lscpu:        lscpu,
		DryRun:       cmd.Bool(dryFlag),
		ParallelMode: cmd.IsSet(parallelFlag),
		Parallel:     int(cmd.Int(parallelFlag)),
	}.ApplyDefaults(config.Defaults{})

	err := pickRunner(cfg, cmd.Root().Writer).Run(ctx, runner.Job{Dir: ".", Files: files})

	switch {
	case err == nil:
		return nil

	case errors.Is(err, runner.ErrToolNotFound):
		return cli.Exit(err.Error(), 1)

	case cfg.ParallelMode:
		// The pool's exit status is the directory's terminal status.
		return cli.Exit(err.Error(), 1)

	default:
		// Sequential per-file failures are logged and absorbed; the
		// directory-level exit status stays zero.
		ctxlog.Warn(ctx, "some files failed to process", "error", err)
		return nil
	}
}

func pickRunner(cfg config.Config, w io.Writer) runner.Runner {
	if cfg.ParallelMode {
		// The pool renders its own dry-run output.
		return &runner.Pool{
			Lscpu:    cfg.Lscpu,
			PlotTool: cfg.PlotTool,
			PoolTool: cfg.PoolTool,
			Jobs:     cfg.Parallel,
			DryRun:   cfg.DryRun,
		}
	}

	return &runner.Sequential{
		Lscpu:     cfg.Lscpu,
		PlotTool:  cfg.PlotTool,
		CheckTool: cfg.CheckTool,
		DryRun:    cfg.DryRun,
		Out:       w,
	}
}
