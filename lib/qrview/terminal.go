// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package qrview

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
)

// xterm window operations (CSI Ps t). Terminals without support ignore
// them.
const raiseWindowSequence = "\x1b[5t"

func resizeWindowSequence(layout Layout) string {
	return fmt.Sprintf("\x1b[8;%d;%dt", layout.Rows, layout.Columns)
}

// terminalPath is the controlling terminal. Tests point it at a file.
var terminalPath = "/dev/tty"

// writeTerminal writes a control sequence straight to the terminal,
// bypassing the bubbletea renderer, and then returns done (which may be
// nil). Failures are ignored: no terminal means nothing to control.
func writeTerminal(sequence string, done tea.Msg) tea.Cmd {
	return func() tea.Msg {
		tty, err := os.OpenFile(terminalPath, os.O_WRONLY|os.O_APPEND, 0)
		if err != nil {
			return done
		}
		defer tty.Close()
		tty.WriteString(sequence)
		return done
	}
}
