// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package clipboard

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"time"
	"unicode/utf8"
)

// Backend names the external tool family a Command uses.
type Backend string

const (
	// BackendAuto selects a backend from the environment (see Detect).
	BackendAuto Backend = "auto"
	// BackendWayland uses wl-paste and wl-copy.
	BackendWayland Backend = "wayland"
	// BackendXclip uses xclip.
	BackendXclip Backend = "xclip"
	// BackendXsel uses xsel.
	BackendXsel Backend = "xsel"
	// BackendTmux reads the top tmux paste buffer. It has no selection
	// buffer and cannot hold images.
	BackendTmux Backend = "tmux"
)

// ParseBackend validates a backend name from configuration. The empty
// string means BackendAuto.
func ParseBackend(name string) (Backend, error) {
	switch backend := Backend(strings.ToLower(strings.TrimSpace(name))); backend {
	case "":
		return BackendAuto, nil
	case BackendAuto, BackendWayland, BackendXclip, BackendXsel, BackendTmux:
		return backend, nil
	default:
		return "", fmt.Errorf("unknown clipboard backend %q (want auto, wayland, xclip, xsel, or tmux)", name)
	}
}

// ErrNoBackend is returned by Detect when no clipboard tool is usable.
var ErrNoBackend = errors.New("no clipboard tool found (install wl-clipboard, xclip, or xsel)")

// ErrImageUnsupported is returned by WriteImage on backends that can
// only hold text.
var ErrImageUnsupported = errors.New("clipboard backend cannot hold images")

// Detect picks a backend from the session environment. Wayland wins
// when WAYLAND_DISPLAY is set and wl-paste is installed; otherwise an
// X11 tool is used when DISPLAY is set; otherwise tmux when running
// inside it.
func Detect(getenv func(string) string, lookPath func(string) (string, error)) (Backend, error) {
	installed := func(tool string) bool {
		_, err := lookPath(tool)
		return err == nil
	}

	if getenv("WAYLAND_DISPLAY") != "" && installed("wl-paste") {
		return BackendWayland, nil
	}
	if getenv("DISPLAY") != "" {
		if installed("xclip") {
			return BackendXclip, nil
		}
		if installed("xsel") {
			return BackendXsel, nil
		}
	}
	if getenv("TMUX") != "" && installed("tmux") {
		return BackendTmux, nil
	}
	return "", ErrNoBackend
}

// Runner executes name with args, feeding stdin when non-nil, and
// returns its standard output.
type Runner func(ctx context.Context, stdin []byte, name string, args ...string) ([]byte, error)

// pipeWaitDelay bounds how long a finished tool's output pipes are
// drained. xclip -in and wl-copy fork a selection owner that inherits
// them and lives until another program takes the clipboard.
const pipeWaitDelay = 200 * time.Millisecond

// ExecRunner is the Runner used outside tests. A tool that exits
// successfully but leaves its pipes to a child counts as success.
func ExecRunner(ctx context.Context, stdin []byte, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	cmd.WaitDelay = pipeWaitDelay
	output, err := cmd.Output()
	if errors.Is(err, exec.ErrWaitDelay) {
		err = nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w (%s)",
			name, strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return output, nil
}

// CommandOptions configures NewCommand.
type CommandOptions struct {
	// Backend must not be BackendAuto; resolve it with Detect first.
	Backend Backend

	// Timeout bounds each tool invocation. Defaults to 2s.
	Timeout time.Duration

	// Run defaults to ExecRunner.
	Run Runner

	Logger *slog.Logger
}

// Command is a Reader and ImageWriter backed by external clipboard
// tools.
type Command struct {
	backend Backend
	timeout time.Duration
	run     Runner
	logger  *slog.Logger
}

// NewCommand returns a Command for options.Backend.
func NewCommand(options CommandOptions) (*Command, error) {
	switch options.Backend {
	case BackendWayland, BackendXclip, BackendXsel, BackendTmux:
	case BackendAuto, "":
		return nil, errors.New("clipboard backend must be resolved before use")
	default:
		return nil, fmt.Errorf("unknown clipboard backend %q", options.Backend)
	}

	command := &Command{
		backend: options.Backend,
		timeout: options.Timeout,
		run:     options.Run,
		logger:  options.Logger,
	}
	if command.timeout <= 0 {
		command.timeout = 2 * time.Second
	}
	if command.run == nil {
		command.run = ExecRunner
	}
	if command.logger == nil {
		command.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return command, nil
}

// Backend returns the tool family in use.
func (c *Command) Backend() Backend {
	return c.backend
}

// SupportsImages reports whether WriteImage can succeed on this
// backend.
func (c *Command) SupportsImages() bool {
	return c.backend == BackendWayland || c.backend == BackendXclip
}

// Text returns the text in source. Tool failures (including the
// non-zero exit most tools use for an empty buffer) and non-UTF-8
// content read as "".
func (c *Command) Text(source Source) string {
	name, args := c.readCommand(source)
	if name == "" {
		return ""
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	output, err := c.run(ctx, nil, name, args...)
	if err != nil {
		c.logger.Debug("clipboard read failed", "source", source, "backend", c.backend, "error", err)
		return ""
	}
	if !utf8.Valid(output) {
		c.logger.Debug("clipboard holds non-text data", "source", source, "bytes", len(output))
		return ""
	}
	return string(output)
}

func (c *Command) readCommand(source Source) (string, []string) {
	switch c.backend {
	case BackendWayland:
		args := []string{"--no-newline", "--type", "text"}
		if source == Selection {
			args = append(args, "--primary")
		}
		return "wl-paste", args
	case BackendXclip:
		return "xclip", []string{"-out", "-selection", xclipSelection(source)}
	case BackendXsel:
		if source == Selection {
			return "xsel", []string{"--output", "--primary"}
		}
		return "xsel", []string{"--output", "--clipboard"}
	case BackendTmux:
		if source == Selection {
			return "", nil
		}
		return "tmux", []string{"show-buffer"}
	}
	return "", nil
}

func xclipSelection(source Source) string {
	if source == Selection {
		return "primary"
	}
	return "clipboard"
}

// WriteImage places png on the general clipboard as image/png.
func (c *Command) WriteImage(png []byte) error {
	var name string
	var args []string
	switch c.backend {
	case BackendWayland:
		name, args = "wl-copy", []string{"--type", "image/png"}
	case BackendXclip:
		name, args = "xclip", []string{"-in", "-selection", "clipboard", "-target", "image/png"}
	default:
		return fmt.Errorf("%s: %w", c.backend, ErrImageUnsupported)
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	if _, err := c.run(ctx, png, name, args...); err != nil {
		return fmt.Errorf("copying image to clipboard: %w", err)
	}
	return nil
}
