// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package ctxlog

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerFromContext(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := slog.New(NewPretty(&slog.HandlerOptions{Level: slog.LevelDebug}, buf))
	ctx := New(context.Background(), logger)

	assert.Same(t, logger, Logger(ctx))
}

func TestLoggerFallsBackToDefault(t *testing.T) {
	assert.Same(t, DefaultLogger, Logger(context.Background()))
}

func TestPrettyHandlerOutput(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := slog.New(NewPretty(&slog.HandlerOptions{Level: slog.LevelDebug}, buf))
	ctx := New(context.Background(), logger)

	Info(ctx, "hello", "dir", "/tmp/traces")

	out := buf.String()
	require.NotEmpty(t, out)
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, "/tmp/traces")
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestPrettyHandlerLevelFiltering(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := slog.New(NewPretty(&slog.HandlerOptions{Level: slog.LevelWarn}, buf))
	ctx := New(context.Background(), logger)

	Debug(ctx, "invisible")
	assert.Empty(t, buf.String())

	Warn(ctx, "visible")
	assert.Contains(t, buf.String(), "visible")
}
