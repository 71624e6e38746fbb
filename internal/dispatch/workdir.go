// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package dispatch

import (
	"errors"
	"fmt"
	"os"
)

var (
	// ErrEnterDir is returned when a job directory cannot be entered.
	// Continuing would silently process the wrong directory, so this is
	// fatal to the whole run.
	ErrEnterDir = errors.New("cannot enter job directory")
	// ErrLeaveDir is returned when the prior working directory cannot be
	// restored after a job. Also fatal: the process has lost track of its
	// working state.
	ErrLeaveDir = errors.New("cannot restore working directory")
)

// Seams for tests.
var (
	chdir = os.Chdir
	getwd = os.Getwd
)

// enterDir changes into dir and returns a restore function that changes
// back. The restore function must be called on every exit path; its error
// is ErrLeaveDir and must be treated as fatal by the caller.
func enterDir(dir string) (func() error, error) {
	prev, err := getwd()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrEnterDir, err)
	}

	if err := chdir(dir); err != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrEnterDir, dir, err)
	}

	return func() error {
		if err := chdir(prev); err != nil {
			return fmt.Errorf("%w: %s: %s", ErrLeaveDir, prev, err)
		}

		return nil
	}, nil
}
