// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package qrview

import (
	"errors"
	"fmt"

	"github.com/bureau-foundation/qrclip/lib/codec"
)

// Layout is the terminal geometry remembered between runs.
type Layout struct {
	Columns int `cbor:"columns"`
	Rows    int `cbor:"rows"`
}

// Valid reports whether the layout describes a usable terminal.
func (layout Layout) Valid() bool {
	return layout.Columns > 0 && layout.Rows > 0
}

// MarshalLayout encodes layout for storage under the geometry key.
func MarshalLayout(layout Layout) ([]byte, error) {
	return codec.Marshal(layout)
}

// UnmarshalLayout decodes a stored layout. Empty data is an error, as
// is a layout with non-positive dimensions.
func UnmarshalLayout(data []byte) (Layout, error) {
	if len(data) == 0 {
		return Layout{}, errors.New("no stored layout")
	}
	var layout Layout
	if err := codec.Unmarshal(data, &layout); err != nil {
		return Layout{}, fmt.Errorf("decoding layout: %w", err)
	}
	if !layout.Valid() {
		return Layout{}, fmt.Errorf("invalid layout %dx%d", layout.Columns, layout.Rows)
	}
	return layout, nil
}
