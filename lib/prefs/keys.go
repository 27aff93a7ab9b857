// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package prefs

import (
	"encoding/hex"
)

// Keys understood by qrclip.
const (
	// GeometryKey holds the viewer layout as a hex-encoded opaque
	// blob. The store never interprets the bytes.
	GeometryKey = "geometry"

	// AlwaysOnTopKey holds a bool; absent means false.
	AlwaysOnTopKey = "alwaysOnTop"
)

// String returns the string stored under key, or "" if the key is
// absent or holds another type.
func (h *Handle) String(key string) string {
	value, _ := h.Get(key)
	text, _ := value.(string)
	return text
}

// Bool returns the bool stored under key, or fallback if the key is
// absent or holds another type.
func (h *Handle) Bool(key string, fallback bool) bool {
	value, ok := h.Get(key)
	if !ok {
		return fallback
	}
	flag, ok := value.(bool)
	if !ok {
		return fallback
	}
	return flag
}

// Bytes decodes the hex string stored under key. Missing or malformed
// values decode to nil.
func (h *Handle) Bytes(key string) []byte {
	data, err := hex.DecodeString(h.String(key))
	if err != nil || len(data) == 0 {
		return nil
	}
	return data
}

// SetBytes stores data under key as a lowercase hex string. Empty data
// deletes the key.
func (h *Handle) SetBytes(key string, data []byte) {
	if len(data) == 0 {
		h.Delete(key)
		return
	}
	h.Set(key, hex.EncodeToString(data))
}

// Geometry returns the stored viewer layout blob.
func (h *Handle) Geometry() []byte {
	return h.Bytes(GeometryKey)
}

// SetGeometry stores the viewer layout blob.
func (h *Handle) SetGeometry(data []byte) {
	h.SetBytes(GeometryKey, data)
}

// AlwaysOnTop returns the always-on-top preference (default false).
func (h *Handle) AlwaysOnTop() bool {
	return h.Bool(AlwaysOnTopKey, false)
}

// SetAlwaysOnTop stores the always-on-top preference.
func (h *Handle) SetAlwaysOnTop(enabled bool) {
	h.Set(AlwaysOnTopKey, enabled)
}
