// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-multierror"

	"traceplot/internal/ctxlog"
	"traceplot/internal/tracefile"
)

var _ Runner = (*Sequential)(nil)

// Sequential processes a job's files one at a time: the plot tool renders
// the image, then the check tool's report is captured into the sidecar
// file. The two invocations are independent; either one failing is logged
// and collected but never stops iteration over the remaining files.
type Sequential struct {
	Lscpu     string
	PlotTool  string
	CheckTool string
	DryRun    bool
	// Out receives dry-run command lines. Defaults to os.Stdout.
	Out io.Writer
}

func (s *Sequential) out() io.Writer {
	if s.Out != nil {
		return s.Out
	}

	return os.Stdout
}

// Run implements the Runner interface.
func (s *Sequential) Run(ctx context.Context, job Job) error {
	// Dry runs only print command lines, so the tools need not resolve.
	if !s.DryRun {
		if err := Preflight(s.PlotTool, s.CheckTool); err != nil {
			return err
		}
	}

	var errs *multierror.Error

	for _, f := range job.Files {
		select {
		case <-ctx.Done():
			return errs.ErrorOrNil()
		default:
		}

		if s.DryRun {
			fmt.Fprintln(s.out(), s.describeFile(f))
			continue
		}

		if err := s.plot(ctx, f); err != nil {
			ctxlog.Warn(ctx, "plot failed", "file", f, "error", err)
			errs = multierror.Append(errs, err)
		}

		if err := s.check(ctx, f); err != nil {
			ctxlog.Warn(ctx, "check failed", "file", f, "error", err)
			errs = multierror.Append(errs, err)
		}
	}

	return errs.ErrorOrNil()
}

// Describe implements the Runner interface.
func (s *Sequential) Describe(job Job) string {
	lines := make([]string, 0, len(job.Files))
	for _, f := range job.Files {
		lines = append(lines, s.describeFile(f))
	}

	return strings.Join(lines, "\n")
}

func (s *Sequential) describeFile(f string) string {
	return commandLine(s.PlotTool, s.plotArgs(f)...) +
		" && " + commandLine(s.CheckTool, s.checkArgs(f)...) +
		" > " + tracefile.SidecarPath(f)
}

func (s *Sequential) plotArgs(f string) []string {
	return []string{"--lscpu-file", s.Lscpu, "--image-file", tracefile.OutputPath(f), f}
}

func (s *Sequential) checkArgs(f string) []string {
	return []string{"--lscpu-file", s.Lscpu, f}
}

func (s *Sequential) plot(ctx context.Context, f string) error {
	return run(ctx, nil, s.PlotTool, s.plotArgs(f)...)
}

// check captures the check tool's stdout into the sidecar file.
func (s *Sequential) check(ctx context.Context, f string) error {
	sidecar, err := os.Create(tracefile.SidecarPath(f))
	if err != nil {
		return fmt.Errorf("creating sidecar for %s: %w", f, err)
	}
	defer sidecar.Close() //nolint:errcheck

	return run(ctx, sidecar, s.CheckTool, s.checkArgs(f)...)
}
