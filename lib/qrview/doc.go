// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package qrview is the terminal front end for qrclip: a bubbletea
// program that shows the clipboard as a QR code drawn with half-block
// characters, so each text cell carries two rows of pixels.
//
// The pieces:
//
//   - [Display] implements pipeline.Display. The pipeline may call it
//     from the clipboard polling goroutine, so it only stores the
//     latest frame and signals a one-slot channel; the [Model] picks
//     the frame up on the bubbletea goroutine.
//   - [Model] lays out the code, a status line, and a help line, and
//     handles the save (s), copy (c), always-on-top (t), and quit (q)
//     keys. Save and copy are enabled only while a code is shown.
//   - [SavePrompt] asks for a file name with the TUI suspended. The
//     model holds a pipeline guard for the prompt's duration so a
//     clipboard change cannot swap the code out from under it.
//   - [TUILogHandler] routes slog records into the status line instead
//     of stderr, which would corrupt the alt-screen display.
//
// Terminal size is persisted in lib/prefs as a CBOR [Layout] under
// the "geometry" key and requested back with an xterm window
// operation at startup. Terminals that ignore window operations simply
// keep their size.
package qrview
