// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaultsBuiltins(t *testing.T) {
	c := Config{}.ApplyDefaults(Defaults{})

	assert.Equal(t, DefaultTraceName, c.TraceName)
	assert.Equal(t, DefaultPlotTool, c.PlotTool)
	assert.Equal(t, DefaultCheckTool, c.CheckTool)
	assert.Equal(t, DefaultPoolTool, c.PoolTool)
}

func TestApplyDefaultsFileWins(t *testing.T) {
	d := Defaults{TraceName: "*.dat.xz", PlotTool: "plot-mpstat"}
	c := Config{}.ApplyDefaults(d)

	assert.Equal(t, "*.dat.xz", c.TraceName)
	assert.Equal(t, "plot-mpstat", c.PlotTool)
	assert.Equal(t, DefaultCheckTool, c.CheckTool)
}

func TestApplyDefaultsFlagsWin(t *testing.T) {
	d := Defaults{TraceName: "*.dat.xz", Lscpu: "lscpu.txt"}
	c := Config{TraceName: "*.trace.xz", Lscpu: "cpu.txt"}.ApplyDefaults(d)

	assert.Equal(t, "*.trace.xz", c.TraceName)
	assert.Equal(t, "cpu.txt", c.Lscpu)
}

func TestLoadDefaultsMissingFile(t *testing.T) {
	fs := afero.NewMemMapFs()

	d, err := LoadDefaults(fs, "/traces")
	require.NoError(t, err)
	assert.Equal(t, Defaults{}, d)
}

func TestLoadDefaults(t *testing.T) {
	fs := afero.NewMemMapFs()
	content := "tracename: '*.sched.xz'\nlscpu: lscpu.txt\npool_tool: moreutils-parallel\n"
	require.NoError(t, afero.WriteFile(fs, "/traces/"+DefaultsFileName, []byte(content), 0o644))

	d, err := LoadDefaults(fs, "/traces")
	require.NoError(t, err)
	assert.Equal(t, "*.sched.xz", d.TraceName)
	assert.Equal(t, "lscpu.txt", d.Lscpu)
	assert.Equal(t, "moreutils-parallel", d.PoolTool)
}

func TestLoadDefaultsMalformed(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/traces/"+DefaultsFileName, []byte("tracename: [unclosed"), 0o644))

	_, err := LoadDefaults(fs, "/traces")
	assert.Error(t, err)
}
