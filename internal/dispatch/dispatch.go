// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package dispatch drives one job per eligible directory and records the
// outcomes.
//
// The loop is single-threaded and blocks on every job; directories are
// processed strictly in the order given. Per-directory failures are
// recorded and never stop the run. Only directory context errors
// (ErrEnterDir, ErrLeaveDir) abort it.
package dispatch

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"traceplot/internal/ctxlog"
	"traceplot/internal/report"
	"traceplot/internal/runner"
	"traceplot/internal/tracefile"
)

// Dispatcher iterates eligible directories and submits one job each to the
// configured runner.
type Dispatcher struct {
	Fs          afero.Fs
	TraceName   string
	Incremental bool
	DryRun      bool
	Runner      runner.Runner
	// Out receives dry-run command lines. Defaults to os.Stdout.
	Out io.Writer
}

func (d *Dispatcher) out() io.Writer {
	if d.Out != nil {
		return d.Out
	}

	return os.Stdout
}

// Run dispatches every directory in order, accumulating outcomes into rep.
// It stops early when ctx is cancelled (the supervisor's group kill is
// already in flight by then). The returned error is fatal.
func (d *Dispatcher) Run(ctx context.Context, dirs []string, rep *report.Report) error {
	for _, dir := range dirs {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := d.dispatch(ctx, dir, rep); err != nil {
			return err
		}
	}

	return nil
}

// dispatch handles one directory. The job is built before entering the
// directory, so discovered paths relative to the caller's working directory
// (the default search root is ".") still resolve. The directory is entered
// only around the actual invocation; the prior working directory is
// restored on every path and failure to restore trumps the job's result.
func (d *Dispatcher) dispatch(ctx context.Context, dir string, rep *report.Report) error {
	job, err := d.buildJob(ctx, dir)
	if err != nil {
		ctxlog.Warn(ctx, "cannot build job", "dir", dir, "error", err)
		rep.Add(dir, report.Fail)

		return nil
	}

	if len(job.Files) == 0 {
		// Discovery selected this directory, so an empty list here means
		// the filesystem changed underneath us or there is a filtering
		// bug. Surface it, don't fail the run.
		ctxlog.Warn(ctx, "no files left to process, skipping directory", "dir", dir)
		rep.Add(dir, report.Skipped)

		return nil
	}

	if d.DryRun {
		// Dry runs print the command and record nothing.
		fmt.Fprintln(d.out(), d.Runner.Describe(job))
		return nil
	}

	restore, err := enterDir(dir)
	if err != nil {
		return err
	}

	jobErr := d.Runner.Run(ctx, job)

	if rerr := restore(); rerr != nil {
		return rerr
	}

	if jobErr != nil {
		ctxlog.Warn(ctx, "job failed", "dir", dir, "error", jobErr)
		rep.Add(dir, report.Fail)

		return nil
	}

	rep.Add(dir, report.OK)

	return nil
}

// buildJob recomputes the immediate file list and re-applies the
// incremental filter. Discovery results can be stale by dispatch time, so
// the list is never trusted from the earlier pass.
func (d *Dispatcher) buildJob(ctx context.Context, dir string) (runner.Job, error) {
	files, err := tracefile.List(d.Fs, dir, d.TraceName)
	if err != nil {
		return runner.Job{}, err
	}

	if d.Incremental {
		files = tracefile.Unprocessed(d.Fs, files)
	}

	// The job runs with dir as its working directory; pass bare file names.
	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, filepath.Base(f))
	}

	ctxlog.Debug(ctx, "built job", "dir", dir, "files", len(names))

	return runner.Job{Dir: dir, Files: names}, nil
}
