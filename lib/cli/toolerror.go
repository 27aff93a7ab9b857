// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import "fmt"

// ErrorCategory classifies errors so callers and tests can branch on
// the kind of failure without parsing message text.
type ErrorCategory string

const (
	// CategoryValidation indicates invalid input: unknown flags, bad
	// configuration values, unparseable numbers. The user should fix
	// the input and retry.
	CategoryValidation ErrorCategory = "validation"

	// CategoryNotFound indicates a required resource is missing: no
	// clipboard tool installed, configuration file absent.
	CategoryNotFound ErrorCategory = "not_found"

	// CategoryTransient indicates a temporary failure, such as a
	// clipboard tool timing out.
	CategoryTransient ErrorCategory = "transient"

	// CategoryInternal indicates an unexpected failure: I/O errors,
	// encoding failures.
	CategoryInternal ErrorCategory = "internal"
)

// ToolError is a categorized error returned from command code.
type ToolError struct {
	// Category classifies the error for programmatic handling.
	Category ErrorCategory

	// Err is the underlying error with the human-readable message.
	Err error

	// Hint is an optional suggestion for fixing the problem, shown
	// after the message.
	Hint string
}

// Error returns the message, followed by a blank line and the hint
// when one is set.
func (e *ToolError) Error() string {
	if e.Hint == "" {
		return e.Err.Error()
	}
	return e.Err.Error() + "\n\n" + e.Hint
}

// Unwrap returns the underlying error.
func (e *ToolError) Unwrap() error { return e.Err }

// WithHint sets the hint and returns the receiver for chaining:
//
//	return cli.NotFound("no clipboard tool found").
//	    WithHint("Install wl-clipboard (Wayland) or xclip (X11).")
func (e *ToolError) WithHint(hint string) *ToolError {
	e.Hint = hint
	return e
}

// Validation creates a validation error: the caller provided bad input.
func Validation(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryValidation, Err: fmt.Errorf(format, args...)}
}

// NotFound creates a not-found error: a required resource is missing.
func NotFound(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryNotFound, Err: fmt.Errorf(format, args...)}
}

// Transient creates a transient error: a temporary failure that may succeed on retry.
func Transient(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryTransient, Err: fmt.Errorf(format, args...)}
}

// Internal creates an internal error: an unexpected failure, bug, or I/O error.
func Internal(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryInternal, Err: fmt.Errorf(format, args...)}
}
