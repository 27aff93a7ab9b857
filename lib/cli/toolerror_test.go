// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"fmt"
	"testing"
)

func TestToolError_ErrorWithoutHint(t *testing.T) {
	err := Validation("--scale must be at least 1")
	if err.Error() != "--scale must be at least 1" {
		t.Errorf("Error() = %q, want %q", err.Error(), "--scale must be at least 1")
	}
}

func TestToolError_ErrorWithHint(t *testing.T) {
	err := NotFound("no clipboard tool found").
		WithHint("Install wl-clipboard or xclip.")

	want := "no clipboard tool found\n\nInstall wl-clipboard or xclip."
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestToolError_WithHintReturnsReceiver(t *testing.T) {
	original := Validation("bad input")
	chained := original.WithHint("fix it")
	if original != chained {
		t.Error("WithHint should return the same pointer")
	}
}

func TestToolError_HintSurvivesErrorsAs(t *testing.T) {
	inner := Validation("bad backend").WithHint("use auto, wayland, xclip, xsel, or tmux")
	wrapped := fmt.Errorf("loading config: %w", inner)

	var toolErr *ToolError
	if !errors.As(wrapped, &toolErr) {
		t.Fatal("errors.As should find ToolError in wrapped chain")
	}
	if toolErr.Category != CategoryValidation {
		t.Errorf("Category = %q, want %q", toolErr.Category, CategoryValidation)
	}
	if toolErr.Hint != "use auto, wayland, xclip, xsel, or tmux" {
		t.Errorf("Hint = %q after unwrap", toolErr.Hint)
	}
}

func TestToolError_UnwrapReachesCause(t *testing.T) {
	cause := errors.New("permission denied")
	err := Internal("writing qrcode.png: %w", cause)
	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
}

func TestExitCode(t *testing.T) {
	code, ok := ExitCode(fmt.Errorf("one-shot: %w", &ExitError{Code: 1}))
	if !ok || code != 1 {
		t.Errorf("ExitCode = %d, %v; want 1, true", code, ok)
	}
	if _, ok := ExitCode(errors.New("plain")); ok {
		t.Error("ExitCode found a code in a plain error")
	}
}
