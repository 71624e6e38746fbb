// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package tracefile implements the trace file naming rules and the
// incremental "already processed" filter.
//
// The output naming contract replaces the final filename suffix only: for
// an input "report.trace.xz" the plot image is "report.trace.png" and the
// checker sidecar is "report.trace.info". This rule is the sole basis for
// deciding whether a file has already been processed.
package tracefile

import (
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

const (
	// ImageExt is the extension of the plot tool's output image.
	ImageExt = ".png"
	// SidecarExt is the extension of the captured check tool report.
	SidecarExt = ".info"
)

// OutputPath returns the expected plot image path for a trace file.
// It is a pure function of the input path.
func OutputPath(p string) string {
	return strings.TrimSuffix(p, filepath.Ext(p)) + ImageExt
}

// SidecarPath returns the expected check report path for a trace file.
func SidecarPath(p string) string {
	return strings.TrimSuffix(p, filepath.Ext(p)) + SidecarExt
}

// List returns the immediate (non-recursive) files in dir whose base name
// matches namePattern, sorted for deterministic processing order.
func List(fs afero.Fs, dir, namePattern string) ([]string, error) {
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}

	var files []string

	for _, e := range entries {
		if e.IsDir() {
			continue
		}

		ok, err := path.Match(namePattern, e.Name())
		if err != nil {
			return nil, fmt.Errorf("bad trace name pattern %q: %w", namePattern, err)
		}

		if ok {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}

	sort.Strings(files)

	return files, nil
}

// FilterDirs narrows dirs to those still holding at least one unprocessed
// matching file. Each directory is evaluated independently against the live
// filesystem; output state is directory-local so nothing is cached.
func FilterDirs(fs afero.Fs, dirs []string, namePattern string) ([]string, error) {
	var out []string

	for _, dir := range dirs {
		files, err := List(fs, dir, namePattern)
		if err != nil {
			return nil, err
		}

		if len(Unprocessed(fs, files)) > 0 {
			out = append(out, dir)
		}
	}

	return out, nil
}

// Unprocessed returns the subset of files lacking an existing expected
// output image. The result depends only on the filesystem state passed in;
// nothing is cached across calls.
func Unprocessed(fs afero.Fs, files []string) []string {
	var out []string

	for _, f := range files {
		if ok, _ := afero.Exists(fs, OutputPath(f)); !ok {
			out = append(out, f)
		}
	}

	return out
}
