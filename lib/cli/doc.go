// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli holds the error and logging conventions shared by qrclip
// entrypoints.
//
// Commands return a [*ToolError] when the failure has a category the
// user can act on (bad flag, missing clipboard tool) and optionally
// attach a hint describing the fix. [*ExitError] requests a non-zero
// exit without printing anything further. [NewCommandLogger] picks a
// text or JSON slog handler depending on whether the output is a
// terminal.
package cli
