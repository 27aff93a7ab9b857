// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package qrview

import "github.com/charmbracelet/lipgloss"

// Theme defines the colors for qrclip's chrome. The code itself is
// always drawn light-on-black for scanners; see HalfBlocks.
type Theme struct {
	// Text colors.
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	// Placeholder message shown when there is no code.
	PlaceholderText lipgloss.Color

	// Status line notices by severity.
	NoticeInfo  lipgloss.Color
	NoticeWarn  lipgloss.Color
	NoticeError lipgloss.Color

	// UI chrome.
	BorderColor lipgloss.Color
	HelpText    lipgloss.Color
	HelpKey     lipgloss.Color
}

// DefaultTheme is the built-in dark-terminal color scheme, in ANSI
// 256-color codes.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	PlaceholderText: lipgloss.Color("250"),

	NoticeInfo:  lipgloss.Color("114"), // green
	NoticeWarn:  lipgloss.Color("220"), // amber
	NoticeError: lipgloss.Color("196"), // red

	BorderColor: lipgloss.Color("240"),
	HelpText:    lipgloss.Color("241"),
	HelpKey:     lipgloss.Color("252"),
}
