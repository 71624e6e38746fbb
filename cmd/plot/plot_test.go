// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package plot

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"traceplot/internal/config"
	"traceplot/internal/runner"
)

func TestPickRunnerSequential(t *testing.T) {
	cfg := config.Config{Lscpu: "lscpu.txt"}.ApplyDefaults(config.Defaults{})

	r := pickRunner(cfg, io.Discard)

	seq, ok := r.(*runner.Sequential)
	require.True(t, ok)
	assert.Equal(t, "lscpu.txt", seq.Lscpu)
	assert.Equal(t, config.DefaultPlotTool, seq.PlotTool)
	assert.Equal(t, config.DefaultCheckTool, seq.CheckTool)
	assert.Equal(t, io.Discard, seq.Out)
}

func TestPickRunnerPool(t *testing.T) {
	cfg := config.Config{
		Lscpu:        "lscpu.txt",
		ParallelMode: true,
		Parallel:     16,
		DryRun:       true,
	}.ApplyDefaults(config.Defaults{})

	r := pickRunner(cfg, io.Discard)

	pool, ok := r.(*runner.Pool)
	require.True(t, ok)
	assert.Equal(t, 16, pool.Jobs)
	assert.Equal(t, config.DefaultPoolTool, pool.PoolTool)
	assert.True(t, pool.DryRun)
}

func TestPlotCmdRequiresLscpu(t *testing.T) {
	var found bool

	for _, f := range PlotCmd.Flags {
		if sf, ok := f.(interface{ IsRequired() bool }); ok && f.Names()[0] == lscpuFlag {
			found = sf.IsRequired()
		}
	}

	assert.True(t, found, "--lscpu must be a required flag")
}
