// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package color

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColorizeDisabled(t *testing.T) {
	orig := enabled
	defer func() { enabled = orig }()

	enabled = false
	assert.Equal(t, "plain", Colorize("plain", FgRed))
}

func TestColorizeEnabled(t *testing.T) {
	orig := enabled
	defer func() { enabled = orig }()

	enabled = true
	assert.Equal(t, "\033[31mred\033[0m", Colorize("red", FgRed))
}

func TestColorizeMultipleCodes(t *testing.T) {
	orig := enabled
	defer func() { enabled = orig }()

	enabled = true
	assert.Equal(t, "\033[1;32mok\033[0m", Colorize("ok", Bold, FgGreen))
}
