// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package qrview

import (
	"image"
	"sync"

	"github.com/bureau-foundation/qrclip/lib/pipeline"
	"github.com/bureau-foundation/qrclip/lib/raster"
)

// Frame is one state of the display.
type Frame struct {
	// Image is the rendered code, nil when a placeholder is shown.
	Image *image.Paletted

	// Tooltip is the encoded text.
	Tooltip string

	// Placeholder is meaningful when Image is nil.
	Placeholder pipeline.Placeholder

	// HasCode follows the pipeline's presence notifications.
	HasCode bool
}

// Display is a pipeline.Display that hands frames to the bubbletea
// goroutine. It never blocks the caller: the latest state is stored
// and a one-slot channel is signalled, so any number of updates
// between two reads collapse into one.
type Display struct {
	mu       sync.Mutex
	viewport raster.Viewport
	frame    Frame
	changed  chan struct{}
}

// NewDisplay returns an empty Display.
func NewDisplay() *Display {
	return &Display{changed: make(chan struct{}, 1)}
}

// SetViewport sets the pixel area the next renders fit into.
func (d *Display) SetViewport(viewport raster.Viewport) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.viewport = viewport
}

// Viewport implements pipeline.Display.
func (d *Display) Viewport() raster.Viewport {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.viewport
}

// ShowImage implements pipeline.Display.
func (d *Display) ShowImage(img *image.Paletted, tooltip string) {
	d.update(func(frame *Frame) {
		frame.Image = img
		frame.Tooltip = tooltip
	})
}

// ShowPlaceholder implements pipeline.Display.
func (d *Display) ShowPlaceholder(placeholder pipeline.Placeholder) {
	d.update(func(frame *Frame) {
		frame.Image = nil
		frame.Tooltip = ""
		frame.Placeholder = placeholder
	})
}

// SetPresence records a presence change. Register it with
// Pipeline.OnPresenceChanged.
func (d *Display) SetPresence(hasCode bool) {
	d.update(func(frame *Frame) {
		frame.HasCode = hasCode
	})
}

func (d *Display) update(change func(*Frame)) {
	d.mu.Lock()
	change(&d.frame)
	d.mu.Unlock()

	select {
	case d.changed <- struct{}{}:
	default:
	}
}

// Snapshot returns the current frame.
func (d *Display) Snapshot() Frame {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.frame
}

// Changed is signalled after every update.
func (d *Display) Changed() <-chan struct{} {
	return d.changed
}
