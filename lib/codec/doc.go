// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides qrclip's standard CBOR encoding configuration.
//
// qrclip uses two serialization formats with a clear boundary:
//
//   - JSON for the preferences file, which users may read and edit.
//   - CBOR for opaque binary blobs stored inside it, such as the
//     terminal layout saved under the "geometry" key (hex-encoded by
//     lib/prefs).
//
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2): sorted
// map keys, smallest integer encoding, no indefinite-length items.
// Same logical data always produces identical bytes, so re-saving an
// unchanged layout is a no-op write.
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
//
// Types serialized here carry `cbor` struct tags; they are never
// marshaled to JSON.
package codec
