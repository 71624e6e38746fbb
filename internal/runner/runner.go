// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package runner invokes the external trace processing tools.
//
// The dispatcher only sees the Runner interface, so its logic is identical
// whether a job runs file-by-file in sequence or is handed off to the
// external bounded worker pool. Every invocation is blocking; the only
// cancellation is the supervisor's process-group kill plus the context
// passed in here.
package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

var (
	// ErrToolNotFound is returned when a required external tool is absent.
	ErrToolNotFound = errors.New("required external tool not found")
	// ErrJobFailed is returned when an external command exits non-zero.
	ErrJobFailed = errors.New("job failed")
)

// lookPath is a seam for tests.
var lookPath = exec.LookPath

// Job is the unit of dispatch: one invocation scoped to a single directory,
// carrying the filtered list of trace files to pass as arguments. Files are
// relative to Dir, which is the process working directory at dispatch time.
type Job struct {
	Dir   string
	Files []string
}

// Runner executes one Job and reports its terminal status as an error.
type Runner interface {
	// Run blocks until the job's external command(s) finish. A non-nil
	// error means the job failed; the caller records it and continues.
	Run(ctx context.Context, job Job) error
	// Describe returns the command line(s) that Run would execute, for
	// dry-run output and the pre-dispatch confirmation.
	Describe(job Job) string
}

// Preflight verifies that every named tool resolves on PATH. It is called
// before the first job so a missing dependency aborts the run up front.
func Preflight(tools ...string) error {
	for _, tool := range tools {
		if _, err := lookPath(tool); err != nil {
			return fmt.Errorf("%w: %s", ErrToolNotFound, tool)
		}
	}

	return nil
}

// run executes a single external command with stdout and stderr attached to
// the current process unless overridden, returning ErrJobFailed on non-zero
// exit.
func run(ctx context.Context, stdout *os.File, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = os.Stdin
	cmd.Stderr = os.Stderr
	cmd.Stdout = os.Stdout

	if stdout != nil {
		cmd.Stdout = stdout
	}

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("%w: %s exited with code %d", ErrJobFailed, name, exitErr.ExitCode())
		}

		return fmt.Errorf("%w: %s: %s", ErrJobFailed, name, err)
	}

	return nil
}

func commandLine(name string, args ...string) string {
	return name + " " + strings.Join(args, " ")
}
