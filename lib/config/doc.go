// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for qrclip.
//
// Configuration comes from a single file named by either the
// QRCLIP_CONFIG environment variable (via [Load]) or the --config flag
// (via [LoadFile]). Without either, [Default] applies. There is no
// file discovery, so what runs is always what one file (or nothing)
// says.
//
// Variable expansion is performed on path fields after loading:
// ${HOME}, ${XDG_CONFIG_HOME}, and ${VAR:-default} patterns are
// expanded. No other environment variables override config values.
//
// This is static configuration, edited by hand. Preferences the
// program itself remembers (window geometry, always-on-top) live in
// lib/prefs.
//
// This package depends on no other qrclip packages.
package config
