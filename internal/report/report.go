// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package report accumulates per-directory outcomes and renders the final
// two-part run report.
package report

import (
	"errors"
	"fmt"
	"io"

	"github.com/TylerBrock/colorjson"
	"github.com/charmbracelet/lipgloss"
)

// Outcome is a directory's terminal status.
type Outcome int

// A directory lands in exactly one of these.
const (
	OK Outcome = iota
	Fail
	Skipped
)

// String implements fmt.Stringer.
func (o Outcome) String() string {
	switch o {
	case OK:
		return "OK"
	case Fail:
		return "FAIL"
	case Skipped:
		return "SKIPPED"
	default:
		return "UNKNOWN"
	}
}

// ErrWrite is returned when the report cannot be written.
var ErrWrite = errors.New("cannot write report")

type entry struct {
	dir     string
	outcome Outcome
}

// Report is the ordered record of dispatched directories. It is mutated
// only by the single dispatch loop; there are no concurrent writers even
// when parallelism is delegated externally.
type Report struct {
	entries []entry
}

// Add records the outcome for a directory, preserving dispatch order.
func (r *Report) Add(dir string, o Outcome) {
	r.entries = append(r.entries, entry{dir: dir, outcome: o})
}

// Len returns the number of recorded directories.
func (r *Report) Len() int {
	return len(r.entries)
}

func (r *Report) byOutcome(o Outcome) []string {
	var out []string

	for _, e := range r.entries {
		if e.outcome == o {
			out = append(out, e.dir)
		}
	}

	return out
}

// Succeeded returns the OK directories in dispatch order.
func (r *Report) Succeeded() []string { return r.byOutcome(OK) }

// Failed returns the FAIL directories in dispatch order.
func (r *Report) Failed() []string { return r.byOutcome(Fail) }

// SkippedDirs returns the SKIPPED directories in dispatch order.
func (r *Report) SkippedDirs() []string { return r.byOutcome(Skipped) }

// ExitCode is the overall process status for scripting: non-zero iff any
// directory failed.
func (r *Report) ExitCode() int {
	if len(r.Failed()) > 0 {
		return 1
	}

	return 0
}

var (
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	skippedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
)

// WriteText renders the report as the classic two-part listing (plus a
// skipped section when the anomalous empty-directory case occurred).
func (r *Report) WriteText(w io.Writer) error {
	sections := []struct {
		title string
		style lipgloss.Style
		dirs  []string
	}{
		{"Processed successfully:", okStyle, r.Succeeded()},
		{"Failed:", failStyle, r.Failed()},
		{"Skipped (no files to process):", skippedStyle, r.SkippedDirs()},
	}

	for _, s := range sections {
		if len(s.dirs) == 0 {
			continue
		}

		if _, err := fmt.Fprintln(w, s.style.Render(s.title)); err != nil {
			return errors.Join(ErrWrite, err)
		}

		for _, d := range s.dirs {
			if _, err := fmt.Fprintf(w, "  %s\n", d); err != nil {
				return errors.Join(ErrWrite, err)
			}
		}
	}

	if r.Len() == 0 {
		if _, err := fmt.Fprintln(w, "Nothing to do."); err != nil {
			return errors.Join(ErrWrite, err)
		}
	}

	return nil
}

// WriteJSON renders the report as a JSON object with ok/failed/skipped
// arrays, colorized when stdout is a terminal.
func (r *Report) WriteJSON(w io.Writer) error {
	obj := map[string]any{
		"ok":      stringsToAny(r.Succeeded()),
		"failed":  stringsToAny(r.Failed()),
		"skipped": stringsToAny(r.SkippedDirs()),
	}

	f := colorjson.NewFormatter()
	f.Indent = 2

	out, err := f.Marshal(obj)
	if err != nil {
		return errors.Join(ErrWrite, err)
	}

	if _, err := fmt.Fprintln(w, string(out)); err != nil {
		return errors.Join(ErrWrite, err)
	}

	return nil
}

// colorjson refuses typed slices, so rebuild as []any via plain JSON types.
func stringsToAny(in []string) []any {
	out := make([]any, 0, len(in))
	for _, s := range in {
		out = append(out, s)
	}

	return out
}
