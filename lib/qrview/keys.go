// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package qrview

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings for the viewer.
type KeyMap struct {
	// Save and Copy act on the current code and are disabled while
	// there is none.
	Save key.Binding
	Copy key.Binding

	AlwaysOnTop key.Binding
	Quit        key.Binding
}

// DefaultKeyMap is the built-in key binding set.
var DefaultKeyMap = KeyMap{
	Save: key.NewBinding(
		key.WithKeys("s", "ctrl+s"),
		key.WithHelp("s", "save"),
	),
	Copy: key.NewBinding(
		key.WithKeys("c", "y"),
		key.WithHelp("c", "copy image"),
	),
	AlwaysOnTop: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "on top"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// bindings returns the bindings in help-line order.
func (keys KeyMap) bindings() []key.Binding {
	return []key.Binding{keys.Save, keys.Copy, keys.AlwaysOnTop, keys.Quit}
}

// setCodeActions enables or disables the bindings that need a code.
func (keys *KeyMap) setCodeActions(enabled bool) {
	keys.Save.SetEnabled(enabled)
	keys.Copy.SetEnabled(enabled)
}
