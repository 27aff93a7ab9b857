// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package qrcode turns clipboard text into a QR module matrix.
//
// Encoding parameters are fixed: error-correction level M, 8-bit byte
// mode over the UTF-8 bytes of the text, smallest version that fits.
// "No code" is not an error: [Encode] returns nil for empty text and for
// text that exceeds the capacity of a version 40 symbol, and callers
// distinguish the two by looking at the text.
package qrcode
