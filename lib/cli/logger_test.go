// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestNewCommandLoggerWritesJSONWhenNotATerminal(t *testing.T) {
	var buffer bytes.Buffer
	logger := NewCommandLogger(&buffer, slog.LevelInfo)

	logger.Debug("hidden")
	logger.Info("started", "backend", "xclip")

	var record map[string]any
	if err := json.Unmarshal(buffer.Bytes(), &record); err != nil {
		t.Fatalf("output is not a single JSON record: %v\n%s", err, buffer.String())
	}
	if record["msg"] != "started" || record["backend"] != "xclip" {
		t.Errorf("record = %v", record)
	}
}
