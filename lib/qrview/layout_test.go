// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package qrview

import (
	"bytes"
	"testing"
)

func TestLayoutRoundTrip(t *testing.T) {
	data, err := MarshalLayout(Layout{Columns: 120, Rows: 45})
	if err != nil {
		t.Fatalf("MarshalLayout: %v", err)
	}
	again, err := MarshalLayout(Layout{Columns: 120, Rows: 45})
	if err != nil {
		t.Fatalf("MarshalLayout: %v", err)
	}
	if !bytes.Equal(data, again) {
		t.Fatalf("layout encoding is not deterministic: %x vs %x", data, again)
	}

	layout, err := UnmarshalLayout(data)
	if err != nil {
		t.Fatalf("UnmarshalLayout: %v", err)
	}
	if layout != (Layout{Columns: 120, Rows: 45}) {
		t.Fatalf("layout = %+v", layout)
	}
}

func TestUnmarshalLayoutRejects(t *testing.T) {
	zero, err := MarshalLayout(Layout{})
	if err != nil {
		t.Fatalf("MarshalLayout: %v", err)
	}
	tests := map[string][]byte{
		"empty":   nil,
		"garbage": {0xff, 0x00, 0x13},
		"zero":    zero,
	}
	for name, data := range tests {
		if _, err := UnmarshalLayout(data); err == nil {
			t.Errorf("%s: UnmarshalLayout succeeded", name)
		}
	}
}

func TestResizeWindowSequence(t *testing.T) {
	if got := resizeWindowSequence(Layout{Columns: 100, Rows: 30}); got != "\x1b[8;30;100t" {
		t.Fatalf("resizeWindowSequence = %q", got)
	}
}
