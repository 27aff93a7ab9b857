// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package raster converts a QR module matrix into a two-color pixel
// buffer at an integer scale, surrounded by a quiet zone.
package raster

import (
	"image"
	"image/color"

	"github.com/bureau-foundation/qrclip/lib/qrcode"
)

// DefaultBorder is the quiet zone width in modules.
const DefaultBorder = 2

// Palette indexes used in rendered images.
const (
	Background uint8 = 0 // white: quiet zone and light modules
	Foreground uint8 = 1 // black: dark modules
)

// Palette is the fixed two-entry palette of every rendered image.
var Palette = color.Palette{
	color.Gray{Y: 0xff},
	color.Gray{Y: 0x00},
}

// Viewport is the pixel area a rendering has to fit into.
type Viewport struct {
	Width  int
	Height int
}

// Side returns the pixel side length of a matrix of n modules rendered
// at scale with a border of border modules.
func Side(n, scale, border int) int {
	return n*scale + 2*border*scale
}

// MinimumSide returns the side of the smallest possible rendering of m
// (scale 1), in pixels.
func MinimumSide(m *qrcode.Matrix, border int) int {
	return Side(m.Size(), 1, border)
}

// Scale returns the largest integer scale at which a matrix of n
// modules plus border fits in viewport, and never less than 1.
func Scale(n int, viewport Viewport, border int) int {
	return max(1, min(viewport.Width, viewport.Height)/(n+2*border))
}

// RenderFit renders m at the largest scale that fits viewport.
func RenderFit(m *qrcode.Matrix, viewport Viewport, border int) *image.Paletted {
	return Render(m, Scale(m.Size(), viewport, border), border)
}

// Render draws m into a new paletted image. Every module becomes a
// scale x scale block; the quiet zone is border*scale pixels wide.
//
// m must be non-nil with a positive size, scale must be at least 1 and
// border must not be negative. Callers check for a code before
// rendering.
func Render(m *qrcode.Matrix, scale, border int) *image.Paletted {
	n := m.Size()
	if n <= 0 {
		panic("raster: rendering an empty matrix")
	}
	if scale < 1 || border < 0 {
		panic("raster: scale must be >= 1 and border >= 0")
	}

	side := Side(n, scale, border)
	img := image.NewPaletted(image.Rect(0, 0, side, side), Palette)
	// NewPaletted zero-fills Pix, which is already Background.

	offset := border * scale
	for y := range n {
		rowIndex := offset + y*scale
		row := img.Pix[rowIndex*img.Stride : rowIndex*img.Stride+side]

		dest := offset
		for _, dark := range m.Row(y) {
			if dark {
				for k := range scale {
					row[dest+k] = Foreground
				}
			}
			dest += scale
		}

		for k := 1; k < scale; k++ {
			start := (rowIndex + k) * img.Stride
			copy(img.Pix[start:start+side], row)
		}
	}
	return img
}
