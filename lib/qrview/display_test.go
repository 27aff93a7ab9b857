// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package qrview

import (
	"image"
	"testing"
	"time"

	"github.com/bureau-foundation/qrclip/lib/pipeline"
	"github.com/bureau-foundation/qrclip/lib/raster"
	"github.com/bureau-foundation/qrclip/lib/testutil"
)

func TestDisplayCoalescesSignals(t *testing.T) {
	display := NewDisplay()
	img := image.NewPaletted(image.Rect(0, 0, 4, 4), raster.Palette)

	display.ShowPlaceholder(pipeline.PlaceholderTooLong)
	display.ShowImage(img, "hello")
	display.SetPresence(true)

	testutil.RequireReceive(t, display.Changed(), time.Second, "no change signalled")
	testutil.RequireNoReceive(t, display.Changed(), 0, "three updates produced more than one pending signal")

	frame := display.Snapshot()
	if frame.Image != img || frame.Tooltip != "hello" || !frame.HasCode {
		t.Fatalf("Snapshot = %+v", frame)
	}
}

func TestDisplayPlaceholderClearsImage(t *testing.T) {
	display := NewDisplay()
	display.ShowImage(image.NewPaletted(image.Rect(0, 0, 1, 1), raster.Palette), "text")
	display.ShowPlaceholder(pipeline.PlaceholderEmpty)

	frame := display.Snapshot()
	if frame.Image != nil || frame.Tooltip != "" || frame.Placeholder != pipeline.PlaceholderEmpty {
		t.Fatalf("Snapshot = %+v", frame)
	}
}

func TestDisplayViewport(t *testing.T) {
	display := NewDisplay()
	display.SetViewport(raster.Viewport{Width: 30, Height: 40})
	if got := display.Viewport(); got.Width != 30 || got.Height != 40 {
		t.Fatalf("Viewport = %+v", got)
	}
}
