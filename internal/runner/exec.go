// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runner

import (
	"context"
)

var _ Runner = (*Exec)(nil)

// Exec invokes a single external per-directory command, passing the job's
// file list as positional arguments after any leading args. The batch
// dispatcher uses it to run the per-directory entry point once per eligible
// directory.
type Exec struct {
	// Tool is the executable to invoke.
	Tool string
	// Args are leading arguments placed before the file list.
	Args []string
}

// Run implements the Runner interface.
func (e *Exec) Run(ctx context.Context, job Job) error {
	if err := Preflight(e.Tool); err != nil {
		return err
	}

	return run(ctx, nil, e.Tool, append(e.Args, job.Files...)...) //nolint:gocritic
}

// Describe implements the Runner interface.
func (e *Exec) Describe(job Job) string {
	return commandLine(e.Tool, append(e.Args, job.Files...)...) //nolint:gocritic
}
