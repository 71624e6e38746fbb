// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runner

import (
	"context"
	"strconv"
)

var _ Runner = (*Pool)(nil)

// memFree is the worker pool's memory-based admission floor: a new job only
// starts when at least this much memory is free.
const memFree = "1G"

// Pool delegates a job's whole file list to the external bounded worker
// pool (GNU parallel). The pool is treated as a black box: Run blocks until
// it exits and only its overall exit status is inspected. Job ordering
// within the pool is not guaranteed.
type Pool struct {
	Lscpu    string
	PlotTool string
	PoolTool string
	// Jobs is the concurrency cap. Zero means one job per core.
	Jobs   int
	DryRun bool
}

// Run implements the Runner interface.
func (p *Pool) Run(ctx context.Context, job Job) error {
	if err := Preflight(p.PoolTool, p.PlotTool); err != nil {
		return err
	}

	return run(ctx, nil, p.PoolTool, p.args(job)...)
}

// Describe implements the Runner interface.
func (p *Pool) Describe(job Job) string {
	return commandLine(p.PoolTool, p.args(job)...)
}

// args builds the pool command line. The {} and {.} placeholders are
// expanded per input file by the pool itself; {.}.png reproduces the
// output naming rule (final suffix replaced).
func (p *Pool) args(job Job) []string {
	args := []string{
		"--jobs", strconv.Itoa(p.Jobs),
		"--memfree", memFree,
	}

	if p.DryRun {
		args = append(args, "--dry-run")
	}

	args = append(args,
		p.PlotTool,
		"--lscpu-file", p.Lscpu,
		"--image-file", "{.}.png",
		"{}",
		":::",
	)

	return append(args, job.Files...)
}
