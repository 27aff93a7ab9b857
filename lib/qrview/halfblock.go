// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package qrview

import (
	"image"
	"strings"

	"github.com/muesli/termenv"

	"github.com/bureau-foundation/qrclip/lib/raster"
)

// Glyphs indexed by (top light, bottom light). Light pixels are drawn
// as ink so that on a dark terminal the code reads dark-on-light, the
// polarity scanners expect.
const (
	glyphNone   = " "
	glyphTop    = "▀"
	glyphBottom = "▄"
	glyphBoth   = "█"
)

// HalfBlocks renders img as text, two pixel rows per line and one
// pixel column per cell. An odd final row is padded with background.
func HalfBlocks(img *image.Paletted) []string {
	bounds := img.Bounds()
	lines := make([]string, 0, (bounds.Dy()+1)/2)

	var line strings.Builder
	for y := bounds.Min.Y; y < bounds.Max.Y; y += 2 {
		line.Reset()
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			top := img.ColorIndexAt(x, y) == raster.Background
			bottom := y+1 >= bounds.Max.Y || img.ColorIndexAt(x, y+1) == raster.Background
			switch {
			case top && bottom:
				line.WriteString(glyphBoth)
			case top:
				line.WriteString(glyphTop)
			case bottom:
				line.WriteString(glyphBottom)
			default:
				line.WriteString(glyphNone)
			}
		}
		lines = append(lines, line.String())
	}
	return lines
}

// ColorLines pins the code to bright white on black when the terminal
// supports color, so light-background themes still show a scannable
// code. On an Ascii profile the lines are returned unchanged.
func ColorLines(lines []string, profile termenv.Profile) []string {
	if profile == termenv.Ascii {
		return lines
	}
	foreground := profile.Color("15")
	background := profile.Color("0")
	colored := make([]string, len(lines))
	for i, line := range lines {
		colored[i] = termenv.String(line).Foreground(foreground).Background(background).String()
	}
	return colored
}

// pixelViewport converts a text area to the pixel area HalfBlocks can
// fill.
func pixelViewport(columns, rows int) raster.Viewport {
	return raster.Viewport{Width: max(columns, 0), Height: max(rows, 0) * 2}
}
