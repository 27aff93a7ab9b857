// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clipboard reads text from the system clipboard and reports
// when it changes.
//
// X11 and Wayland have two text buffers: the primary selection (the
// last text highlighted with the mouse) and the general clipboard
// (explicit copy). [CurrentText] prefers the selection and falls back to
// the clipboard when the selection is empty.
//
// Backends:
//   - [Command] runs the platform tools (wl-paste, xclip, xsel, tmux).
//   - [Poller] turns any [Reader] into a [Notifier] by polling it.
//   - [Memory] is an in-process clipboard for fixed text and tests.
package clipboard

// Source identifies one of the text buffers.
type Source int

const (
	// Selection is the primary selection buffer.
	Selection Source = iota
	// General is the regular copy/paste clipboard.
	General
)

// String returns the source name used in logs and configuration.
func (source Source) String() string {
	switch source {
	case Selection:
		return "selection"
	case General:
		return "clipboard"
	default:
		return "unknown"
	}
}

// Reader returns the text currently held by a source. A source that
// is empty, holds non-text data, or cannot be read returns "".
type Reader interface {
	Text(source Source) string
}

// Notifier delivers change notifications. The returned cancel function
// removes the subscription; calling it more than once is harmless.
// Callbacks may still be running (or about to run) when cancel returns,
// so subscribers must tolerate a late notification.
type Notifier interface {
	OnChange(callback func()) (cancel func())
}

// ImageWriter places a PNG image on the general clipboard.
type ImageWriter interface {
	WriteImage(png []byte) error
}

// CurrentText returns the selection text, or the general clipboard
// text when the selection is empty.
func CurrentText(reader Reader) string {
	if text := reader.Text(Selection); text != "" {
		return text
	}
	return reader.Text(General)
}
