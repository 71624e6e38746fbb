// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package batch implements the batch entry point: discover directories of
// trace captures, confirm the plan, dispatch one job per directory and
// report the outcomes.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"

	"traceplot/internal/config"
	"traceplot/internal/ctxlog"
	"traceplot/internal/discover"
	"traceplot/internal/dispatch"
	"traceplot/internal/prompt"
	"traceplot/internal/report"
	"traceplot/internal/runner"
	"traceplot/internal/tracefile"
)

const (
	lscpuFlag     = "lscpu"
	topdirFlag    = "topdir"
	patternFlag   = "pattern"
	tracenameFlag = "tracename"
	newFlag       = "new"
	dryFlag       = "dry"
	parallelFlag  = "parallel"
	jsonFlag      = "json"
	yesFlag       = "yes"
	verboseFlag   = "verbose"
)

var (
	// ErrLscpuRequired is returned when no lscpu reference file is given.
	ErrLscpuRequired = errors.New("an lscpu reference file is required (--lscpu)")
	// ErrAborted is returned when a confirmation is answered negatively.
	ErrAborted = errors.New("aborted")
	// ErrDirsFailed is returned when at least one directory failed, so
	// that scripting around the batch run sees a non-zero exit status.
	ErrDirsFailed = errors.New("some directories failed to process")
)

// Seams for tests.
var (
	confirm      = prompt.Confirm
	osExecutable = os.Executable
)

// BatchCmd is the command that runs the whole discovery and dispatch batch.
var BatchCmd = &cli.Command{
	Name: "batch",
	Description: `Search a directory tree for trace captures and run the plotting
pipeline in every directory that holds some, one directory at a time.
With --new, directories whose plots already exist are skipped. With
--parallel, per-file work inside each directory is delegated to the
external worker pool.`,
	Usage: "traceplot batch --lscpu lscpu.txt --topdir /data/traces --new",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:      lscpuFlag,
			Usage:     "File name of the lscpu output expected in every target directory",
			TakesFile: true,
			OnlyOnce:  true,
		},
		&cli.StringFlag{
			Name:     topdirFlag,
			Usage:    "Root directory of the recursive search",
			Value:    ".",
			OnlyOnce: true,
		},
		&cli.StringFlag{
			Name:     patternFlag,
			Usage:    "Only consider paths containing this substring",
			OnlyOnce: true,
		},
		&cli.StringFlag{
			Name:     tracenameFlag,
			Usage:    "Glob matched against trace file names",
			OnlyOnce: true,
		},
		&cli.BoolFlag{
			Name:  newFlag,
			Usage: "Only process files whose plot does not exist yet",
		},
		&cli.BoolFlag{
			Name:  dryFlag,
			Usage: "Print the commands that would run, process nothing",
		},
		&cli.IntFlag{
			Name:     parallelFlag,
			Usage:    "Delegate per-file work to the worker pool, capped at N jobs (0 = all cores)",
			OnlyOnce: true,
		},
		&cli.BoolFlag{
			Name:  jsonFlag,
			Usage: "Render the final report as JSON",
		},
		&cli.BoolFlag{
			Name:    yesFlag,
			Aliases: []string{"y"},
			Usage:   "Skip the interactive confirmations",
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

	cfg := config.Config{
		Lscpu:        cmd.String(lscpuFlag),
		TopDir:       cmd.String(topdirFlag),
		PathPattern:  cmd.String(patternFlag),
		TraceName:    cmd.String(tracenameFlag),
		Incremental:  cmd.Bool(newFlag),
		DryRun:       cmd.Bool(dryFlag),
		ParallelMode: cmd.IsSet(parallelFlag),
		Parallel:     int(cmd.Int(parallelFlag)),
		JSONReport:   cmd.Bool(jsonFlag),
		AssumeYes:    cmd.Bool(yesFlag),
		Verbose:      cmd.Bool(verboseFlag),
	}

	if err := run(ctx, cfg, afero.NewOsFs(), cmd.Root().Writer); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	return nil
}

// run is the whole batch flow. Any returned error is fatal and maps to
// exit status 1; per-directory failures surface as ErrDirsFailed after the
// report is written.
func run(ctx context.Context, cfg config.Config, fs afero.Fs, w io.Writer) error {
	defaults, err := config.LoadDefaults(fs, cfg.TopDir)
	if err != nil {
		return err
	}

	cfg = cfg.ApplyDefaults(defaults)

	if cfg.Lscpu == "" {
		return ErrLscpuRequired
	}

	if err := confirmFilter(ctx, cfg); err != nil {
		return err
	}

	dirs, err := eligibleDirs(ctx, cfg, fs)
	if err != nil {
		return err
	}

	if len(dirs) == 0 {
		fmt.Fprintln(w, "Nothing to do.")
		return nil
	}

	ctxlog.Info(ctx, "directories to process", "count", len(dirs))

	// A missing external tool aborts the run before the first job.
	if !cfg.DryRun {
		if err := runner.Preflight(requiredTools(cfg)...); err != nil {
			return err
		}
	}

	r, err := perDirRunner(cfg)
	if err != nil {
		return err
	}

	if err := confirmCommand(ctx, cfg, r, len(dirs)); err != nil {
		return err
	}

	rep := &report.Report{}
	d := &dispatch.Dispatcher{
		Fs:          fs,
		TraceName:   cfg.TraceName,
		Incremental: cfg.Incremental,
		DryRun:      cfg.DryRun,
		Runner:      r,
		Out:         w,
	}

	if err := d.Run(ctx, dirs, rep); err != nil {
		return err
	}

	if cfg.DryRun {
		return nil
	}

	if err := writeReport(cfg, rep, w); err != nil {
		return err
	}

	if rep.ExitCode() != 0 {
		return ErrDirsFailed
	}

	return nil
}

func confirmFilter(ctx context.Context, cfg config.Config) error {
	desc := fmt.Sprintf("Searching for %q under %s", cfg.TraceName, cfg.TopDir)
	if cfg.PathPattern != "" {
		desc += fmt.Sprintf(", paths containing %q", cfg.PathPattern)
	}

	if cfg.Incremental {
		desc += ", new files only"
	}

	if cfg.AssumeYes {
		ctxlog.Info(ctx, desc)
		return nil
	}

	ok, err := confirm(desc + ". Continue?")
	if err != nil {
		return err
	}

	if !ok {
		return ErrAborted
	}

	return nil
}

func confirmCommand(ctx context.Context, cfg config.Config, r runner.Runner, ndirs int) error {
	resolved := r.Describe(runner.Job{Files: []string{"<trace files>"}})

	if cfg.AssumeYes {
		ctxlog.Info(ctx, "resolved command", "command", resolved)
		return nil
	}

	ok, err := confirm(fmt.Sprintf("Will run %q in %d directories. Continue?", resolved, ndirs))
	if err != nil {
		return err
	}

	if !ok {
		return ErrAborted
	}

	return nil
}

func eligibleDirs(ctx context.Context, cfg config.Config, fs afero.Fs) ([]string, error) {
	dirs, err := discover.Find(ctx, fs, cfg.TopDir, cfg.PathPattern, cfg.TraceName)
	if err != nil {
		return nil, err
	}

	if cfg.Incremental {
		dirs, err = tracefile.FilterDirs(fs, dirs, cfg.TraceName)
		if err != nil {
			return nil, err
		}
	}

	return dirs, nil
}

func requiredTools(cfg config.Config) []string {
	if cfg.ParallelMode {
		return []string{cfg.PoolTool, cfg.PlotTool}
	}

	return []string{cfg.PlotTool, cfg.CheckTool}
}

// perDirRunner builds the per-directory command: this executable's plot
// subcommand, run once per eligible directory with the file list appended.
func perDirRunner(cfg config.Config) (runner.Runner, error) {
	exe, err := osExecutable()
	if err != nil {
		return nil, fmt.Errorf("cannot resolve own executable: %w", err)
	}

	args := []string{"plot", "--lscpu", cfg.Lscpu}

	if cfg.ParallelMode {
		args = append(args, "--parallel", strconv.Itoa(cfg.Parallel))
	}

	if cfg.Verbose {
		args = append(args, "--verbose")
	}

	return &runner.Exec{Tool: exe, Args: args}, nil
}

func writeReport(cfg config.Config, rep *report.Report, w io.Writer) error {
	if cfg.JSONReport {
		return rep.WriteJSON(w)
	}

	return rep.WriteText(w)
}
