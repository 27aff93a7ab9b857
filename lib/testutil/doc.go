// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for qrclip packages.
//
// [RequireReceive], [RequireNoReceive], and [RequireClosed] wrap the
// select-with-timeout pattern so individual tests never build their own
// timers. These are
// the only place in the test suite where real wall-clock timeouts are
// used; everything else runs on lib/clock's fake.
//
// [NewLogRecorder] captures slog records so tests can assert that a
// warning was (or was not) logged without parsing text output.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
//
// This package has no qrclip-internal dependencies.
package testutil
