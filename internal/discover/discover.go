// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package discover finds directories containing kernel trace captures.
package discover

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"traceplot/internal/ctxlog"
)

// ErrRootNotFound is returned when the search root does not exist.
var ErrRootNotFound = errors.New("search root does not exist")

// Find walks the tree under root and returns the sorted, deduplicated set of
// directories containing at least one file whose base name matches
// namePattern (a path.Match glob). If pathPattern is non-empty, only files
// whose full path contains it are considered.
//
// Directories that cannot be read are skipped with a warning; a missing root
// is an error. Directories with zero matching files are never reported.
func Find(ctx context.Context, fs afero.Fs, root, pathPattern, namePattern string) ([]string, error) {
	if _, err := fs.Stat(root); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrRootNotFound, root)
	}

	dirs := make(map[string]struct{})

	err := afero.Walk(fs, root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsPermission(err) {
				ctxlog.Warn(ctx, "skipping unreadable path", "path", p, "error", err)

				// Skip the subtree only for unreadable directories. For a
				// single unreadable file, SkipDir would discard its still
				// readable siblings.
				if info != nil && info.IsDir() {
					return filepath.SkipDir
				}

				return nil
			}

			return err
		}

		if info.IsDir() {
			return nil
		}

		if pathPattern != "" && !strings.Contains(p, pathPattern) {
			return nil
		}

		ok, err := path.Match(namePattern, filepath.Base(p))
		if err != nil {
			return fmt.Errorf("bad trace name pattern %q: %w", namePattern, err)
		}

		if ok {
			dirs[filepath.Dir(p)] = struct{}{}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(dirs))
	for d := range dirs {
		out = append(out, d)
	}

	sort.Strings(out)

	return out, nil
}
