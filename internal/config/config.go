// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package config holds the immutable run configuration for traceplot.
// It is constructed once in the command action from parsed CLI flags and an
// optional defaults file, then passed into each component.
package config

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/goccy/go-yaml"
	"github.com/spf13/afero"
)

// Defaults for the tool names and the search pattern. The tool names match
// the plotting scripts shipped alongside traceplot.
const (
	DefaultTraceName = "*.trace.xz"
	DefaultPlotTool  = "plot-nr-running"
	DefaultCheckTool = "check-nr-running"
	DefaultPoolTool  = "parallel"

	// DefaultsFileName is the optional per-tree defaults file, looked up in
	// the search root.
	DefaultsFileName = ".traceplot.yaml"
)

// ErrNoLscpu is returned when the mandatory lscpu reference file name is empty.
var ErrNoLscpu = errors.New("lscpu reference file name must not be empty")

// Config is the immutable configuration for a single batch or per-directory run.
type Config struct {
	// Lscpu is the file name of the lscpu output expected in every target
	// directory. It is passed through to the plot and check tools.
	Lscpu string
	// TopDir is the root of the recursive search.
	TopDir string
	// PathPattern restricts discovery to paths containing this substring.
	PathPattern string
	// TraceName is the glob matched against trace file base names.
	TraceName string
	// Incremental skips files whose expected output already exists.
	Incremental bool
	// DryRun prints planned commands without running anything.
	DryRun bool
	// ParallelMode delegates per-file jobs to the external worker pool.
	ParallelMode bool
	// Parallel is the worker pool job cap. Zero means one job per core.
	Parallel int
	// JSONReport renders the final report as JSON instead of text.
	JSONReport bool
	// AssumeYes skips the interactive confirmations.
	AssumeYes bool
	// Verbose raises the log level to debug.
	Verbose bool

	// PlotTool is the per-file processing command.
	PlotTool string
	// CheckTool is the per-file consistency checking command.
	CheckTool string
	// PoolTool is the external bounded worker pool command.
	PoolTool string
}

// Defaults are optional overrides read from a DefaultsFileName file in the
// search root.
type Defaults struct {
	TraceName string `yaml:"tracename"`
	Lscpu     string `yaml:"lscpu"`
	PlotTool  string `yaml:"plot_tool"`
	CheckTool string `yaml:"check_tool"`
	PoolTool  string `yaml:"pool_tool"`
}

// LoadDefaults reads the defaults file from dir. A missing file is not an
// error and yields the zero value.
func LoadDefaults(fs afero.Fs, dir string) (Defaults, error) {
	var d Defaults

	data, err := afero.ReadFile(fs, filepath.Join(dir, DefaultsFileName))
	if err != nil {
		return d, nil //nolint:nilerr // absent defaults file is the common case
	}

	if err := yaml.Unmarshal(data, &d); err != nil {
		return d, fmt.Errorf("parsing %s: %w", DefaultsFileName, err)
	}

	return d, nil
}

// ApplyDefaults fills unset fields of the config from the defaults file and
// the built-in constants. It returns a copy; the receiver is not modified.
func (c Config) ApplyDefaults(d Defaults) Config {
	if c.TraceName == "" {
		c.TraceName = d.TraceName
	}

	if c.TraceName == "" {
		c.TraceName = DefaultTraceName
	}

	if c.Lscpu == "" {
		c.Lscpu = d.Lscpu
	}

	if c.PlotTool == "" {
		c.PlotTool = d.PlotTool
	}

	if c.PlotTool == "" {
		c.PlotTool = DefaultPlotTool
	}

	if c.CheckTool == "" {
		c.CheckTool = d.CheckTool
	}

	if c.CheckTool == "" {
		c.CheckTool = DefaultCheckTool
	}

	if c.PoolTool == "" {
		c.PoolTool = d.PoolTool
	}

	if c.PoolTool == "" {
		c.PoolTool = DefaultPoolTool
	}

	return c
}
