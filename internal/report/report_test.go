// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "OK", OK.String())
	assert.Equal(t, "FAIL", Fail.String())
	assert.Equal(t, "SKIPPED", Skipped.String())
}

func TestReportPartitionsPreserveOrder(t *testing.T) {
	r := &Report{}
	r.Add("/t/run3", OK)
	r.Add("/t/run1", Fail)
	r.Add("/t/run2", OK)
	r.Add("/t/run4", Skipped)

	assert.Equal(t, []string{"/t/run3", "/t/run2"}, r.Succeeded())
	assert.Equal(t, []string{"/t/run1"}, r.Failed())
	assert.Equal(t, []string{"/t/run4"}, r.SkippedDirs())
	assert.Equal(t, 4, r.Len())
}

func TestReportEachDirInExactlyOneSet(t *testing.T) {
	r := &Report{}
	r.Add("/a", OK)
	r.Add("/b", Fail)
	r.Add("/c", Skipped)

	all := append(append(r.Succeeded(), r.Failed()...), r.SkippedDirs()...)
	assert.Len(t, all, r.Len())

	seen := map[string]bool{}
	for _, d := range all {
		assert.False(t, seen[d], "directory %s in more than one set", d)
		seen[d] = true
	}
}

func TestExitCode(t *testing.T) {
	r := &Report{}
	assert.Equal(t, 0, r.ExitCode())

	r.Add("/a", OK)
	assert.Equal(t, 0, r.ExitCode())

	r.Add("/b", Skipped)
	assert.Equal(t, 0, r.ExitCode())

	r.Add("/c", Fail)
	assert.Equal(t, 1, r.ExitCode())
}

func TestWriteText(t *testing.T) {
	r := &Report{}
	r.Add("/t/ok1", OK)
	r.Add("/t/bad", Fail)
	r.Add("/t/ok2", OK)

	buf := &bytes.Buffer{}
	require.NoError(t, r.WriteText(buf))

	out := buf.String()
	assert.Contains(t, out, "Processed successfully:")
	assert.Contains(t, out, "Failed:")
	assert.NotContains(t, out, "Skipped")

	// Order within the OK section is dispatch order.
	assert.Less(t, strings.Index(out, "/t/ok1"), strings.Index(out, "/t/ok2"))
}

func TestWriteTextEmpty(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, (&Report{}).WriteText(buf))
	assert.Contains(t, buf.String(), "Nothing to do.")
}

func TestWriteJSON(t *testing.T) {
	r := &Report{}
	r.Add("/t/ok", OK)
	r.Add("/t/bad", Fail)

	buf := &bytes.Buffer{}
	require.NoError(t, r.WriteJSON(buf))

	out := buf.String()
	assert.Contains(t, out, `"ok"`)
	assert.Contains(t, out, `"failed"`)
	assert.Contains(t, out, "/t/bad")
}
