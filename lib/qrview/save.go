// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package qrview

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/term"
)

// DefaultSaveName is the file name suggested by the save prompt.
const DefaultSaveName = "qrcode.png"

// SaveFilter is the only file type the prompt produces, and
// SaveExtension its file extension. Any other name gets SaveExtension
// appended, so PNG bytes never land under a .jpg name.
const (
	SaveFilter    = "image/png"
	SaveExtension = ".png"
)

// SavePrompt asks for a file name on the terminal. It implements
// tea.ExecCommand, so bubbletea releases the terminal while it runs.
//
// An empty answer accepts the suggested name. End of input (Ctrl-D, or
// Ctrl-C in line-editing mode) cancels, leaving Path empty.
type SavePrompt struct {
	suggested string
	stdin     io.Reader
	stdout    io.Writer
	path      string
}

// NewSavePrompt returns a prompt suggesting name.
func NewSavePrompt(suggested string) *SavePrompt {
	return &SavePrompt{
		suggested: suggested,
		stdin:     os.Stdin,
		stdout:    os.Stdout,
	}
}

// SetStdin implements tea.ExecCommand.
func (p *SavePrompt) SetStdin(reader io.Reader) { p.stdin = reader }

// SetStdout implements tea.ExecCommand.
func (p *SavePrompt) SetStdout(writer io.Writer) { p.stdout = writer }

// SetStderr implements tea.ExecCommand. The prompt does not use stderr.
func (p *SavePrompt) SetStderr(io.Writer) {}

// Path returns the chosen path, or "" if the prompt was cancelled.
func (p *SavePrompt) Path() string { return p.path }

// Run shows the prompt and waits for an answer.
func (p *SavePrompt) Run() error {
	prompt := fmt.Sprintf("Save QR code as [%s] (%s, Ctrl-D cancels): ", p.suggested, SaveFilter)
	line, err := p.readLine(prompt)
	if errors.Is(err, io.EOF) {
		p.path = ""
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading file name: %w", err)
	}
	p.path = resolveSavePath(line, p.suggested)
	return nil
}

// readLine uses x/term line editing when stdin is a terminal and a
// plain buffered read otherwise.
func (p *SavePrompt) readLine(prompt string) (string, error) {
	if file, ok := p.stdin.(*os.File); ok && term.IsTerminal(int(file.Fd())) {
		state, err := term.MakeRaw(int(file.Fd()))
		if err != nil {
			return "", err
		}
		defer term.Restore(int(file.Fd()), state)

		terminal := term.NewTerminal(struct {
			io.Reader
			io.Writer
		}{p.stdin, p.stdout}, prompt)
		return terminal.ReadLine()
	}

	fmt.Fprint(p.stdout, prompt)
	line, err := bufio.NewReader(p.stdin).ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// resolveSavePath applies the suggested name, "~/" expansion, and the
// SaveExtension.
func resolveSavePath(answer, suggested string) string {
	path := strings.TrimSpace(answer)
	if path == "" {
		path = suggested
	}
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, rest)
		}
	}
	if !strings.EqualFold(filepath.Ext(path), SaveExtension) {
		path += SaveExtension
	}
	return path
}

// EncodePNG encodes img as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buffer bytes.Buffer
	if err := png.Encode(&buffer, img); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}
	return buffer.Bytes(), nil
}

// WritePNG encodes img as PNG into path.
func WritePNG(path string, img image.Image) error {
	data, err := EncodePNG(img)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
