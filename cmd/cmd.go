// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package cmd contains the command-line interface (CLI) for the module.
package cmd

import (
	"os"

	"github.com/urfave/cli/v3"

	"traceplot/cmd/batch"
	"traceplot/cmd/plot"
)

var (
	// Version is set during the build process.
	Version = "dev"
	// Commit is set during the build process.
	Commit = "unknown"
)

// RootCmd is the root command for the CLI.
var RootCmd = &cli.Command{
	Version: Version + " (" + Commit + ")",
	Commands: []*cli.Command{
		batch.BatchCmd,
		plot.PlotCmd,
	},
	Writer:    os.Stdout,
	ErrWriter: os.Stderr,
	Name:      "traceplot",
	Description: `Traceplot drives the kernel scheduler trace plotting pipeline over whole
directory trees. It finds directories containing recorded trace captures,
skips the ones whose plots already exist, and runs the external plot and
check tools over the rest, either one file at a time or delegated to a
bounded worker pool. Per-directory results are aggregated into a final
success/failure report.`,
	Usage: "traceplot batch --lscpu lscpu.txt --topdir /data/traces --new",
	Authors: []any{
		"Matt White (matt-FFFFFF)",
	},
	EnableShellCompletion: true,
}
