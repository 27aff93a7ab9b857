// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// Fatal reports err and exits. Errors carrying an ExitCode() method
// exit with that code silently, since the command already printed its
// own output. Everything else prints "error: err" to stderr and exits
// with code 1.
func Fatal(err error) {
	os.Exit(report(os.Stderr, err))
}

// report writes err to output as Fatal would and returns the exit code.
func report(output io.Writer, err error) int {
	var coder interface{ ExitCode() int }
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}
	fmt.Fprintf(output, "error: %v\n", err)
	return 1
}
