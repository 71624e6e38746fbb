// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main is the entry point for the traceplot command-line application.
package main

import (
	"context"
	"os"

	"traceplot/cmd"
	"traceplot/internal/ctxlog"
	"traceplot/internal/supervisor"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	ctx = ctxlog.New(ctx, ctxlog.DefaultLogger)
	defer cancel()

	guard := supervisor.Arm(ctx, cancel)

	err := cmd.RootCmd.Run(ctx, os.Args)

	// Retire the signal handlers before exiting so that a normal exit does
	// not run the group-kill sequence.
	guard.Disarm()

	if err != nil {
		ctxlog.Logger(ctx).Error("command failed", "error", err)
		os.Exit(1)
	}

	os.Exit(0)
}
