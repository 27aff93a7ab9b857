// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package process provides the binary entrypoint helper for qrclip.
// It centralizes the one legitimate raw I/O pattern that exists after
// the structured logger is gone (or before it exists): reporting the
// error returned by run() and exiting.
package process
