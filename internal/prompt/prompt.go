// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package prompt implements the interactive y/N confirmations that gate a
// batch run.
package prompt

import (
	"errors"
	"os"
	"strings"

	"github.com/peterh/liner"
	"golang.org/x/term"
)

// ErrNotInteractive is returned when a confirmation is required but stdin
// is not a terminal. Non-interactive callers pass --yes instead.
var ErrNotInteractive = errors.New("stdin is not a terminal, pass --yes to confirm non-interactively")

// Seams for tests.
var (
	isTerminal = func() bool { return term.IsTerminal(int(os.Stdin.Fd())) }
	ask        = askLiner
)

// Confirm asks the question and reports whether the user answered
// affirmatively. Only "y" and "Y" count as yes; anything else, including an
// interrupted prompt, is no.
func Confirm(question string) (bool, error) {
	if !isTerminal() {
		return false, ErrNotInteractive
	}

	answer, err := ask(question + " [y/N] ")
	if err != nil {
		if errors.Is(err, liner.ErrPromptAborted) {
			return false, nil
		}

		return false, err
	}

	answer = strings.TrimSpace(answer)

	return answer == "y" || answer == "Y", nil
}

func askLiner(q string) (string, error) {
	l := liner.NewLiner()
	defer l.Close() //nolint:errcheck

	l.SetCtrlCAborts(true)

	return l.Prompt(q)
}
