// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"
)

// NewCommandLogger creates a structured logger writing to output. When
// output is a terminal it uses slog.TextHandler for human-readable
// lines; otherwise (a log file, a pipe) it uses slog.JSONHandler.
//
// Callers scope the logger with component context via With():
//
//	logger := cli.NewCommandLogger(os.Stderr, slog.LevelInfo).With("component", "poller")
func NewCommandLogger(output io.Writer, level slog.Leveler) *slog.Logger {
	options := &slog.HandlerOptions{Level: level}
	if isTerminal(output) {
		return slog.New(slog.NewTextHandler(output, options))
	}
	return slog.New(slog.NewJSONHandler(output, options))
}

func isTerminal(output io.Writer) bool {
	file, ok := output.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}
