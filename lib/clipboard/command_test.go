// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package clipboard

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"
)

func TestParseBackend(t *testing.T) {
	tests := []struct {
		input   string
		want    Backend
		wantErr bool
	}{
		{"", BackendAuto, false},
		{"auto", BackendAuto, false},
		{" Wayland ", BackendWayland, false},
		{"xclip", BackendXclip, false},
		{"xsel", BackendXsel, false},
		{"tmux", BackendTmux, false},
		{"pbpaste", "", true},
	}
	for _, test := range tests {
		got, err := ParseBackend(test.input)
		if (err != nil) != test.wantErr {
			t.Errorf("ParseBackend(%q) error = %v, wantErr %v", test.input, err, test.wantErr)
			continue
		}
		if got != test.want {
			t.Errorf("ParseBackend(%q) = %q, want %q", test.input, got, test.want)
		}
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name      string
		env       map[string]string
		installed []string
		want      Backend
		wantErr   error
	}{
		{
			name:      "wayland",
			env:       map[string]string{"WAYLAND_DISPLAY": "wayland-0", "DISPLAY": ":0"},
			installed: []string{"wl-paste", "xclip"},
			want:      BackendWayland,
		},
		{
			name:      "wayland without wl-clipboard falls back to xwayland",
			env:       map[string]string{"WAYLAND_DISPLAY": "wayland-0", "DISPLAY": ":0"},
			installed: []string{"xclip"},
			want:      BackendXclip,
		},
		{
			name:      "xsel when xclip is missing",
			env:       map[string]string{"DISPLAY": ":1"},
			installed: []string{"xsel"},
			want:      BackendXsel,
		},
		{
			name:      "tmux on a headless session",
			env:       map[string]string{"TMUX": "/tmp/tmux-1000/default,1,0"},
			installed: []string{"tmux", "xclip"},
			want:      BackendTmux,
		},
		{
			name:    "nothing",
			env:     map[string]string{},
			wantErr: ErrNoBackend,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			getenv := func(key string) string { return test.env[key] }
			lookPath := func(tool string) (string, error) {
				if slices.Contains(test.installed, tool) {
					return "/usr/bin/" + tool, nil
				}
				return "", exec.ErrNotFound
			}
			got, err := Detect(getenv, lookPath)
			if !errors.Is(err, test.wantErr) {
				t.Fatalf("Detect error = %v, want %v", err, test.wantErr)
			}
			if got != test.want {
				t.Fatalf("Detect = %q, want %q", got, test.want)
			}
		})
	}
}

// invocation records one call to a fake Runner.
type invocation struct {
	stdin string
	line  string
}

type fakeRunner struct {
	calls  []invocation
	output map[string]string
	err    error
}

func (f *fakeRunner) run(_ context.Context, stdin []byte, name string, args ...string) ([]byte, error) {
	line := strings.Join(append([]string{name}, args...), " ")
	f.calls = append(f.calls, invocation{stdin: string(stdin), line: line})
	if f.err != nil {
		return nil, f.err
	}
	return []byte(f.output[line]), nil
}

func newFakeCommand(t *testing.T, backend Backend, runner *fakeRunner) *Command {
	t.Helper()
	command, err := NewCommand(CommandOptions{Backend: backend, Run: runner.run})
	if err != nil {
		t.Fatalf("NewCommand(%q): %v", backend, err)
	}
	return command
}

func TestCommandReadInvocations(t *testing.T) {
	tests := []struct {
		backend   Backend
		selection string
		general   string
	}{
		{BackendWayland, "wl-paste --no-newline --type text --primary", "wl-paste --no-newline --type text"},
		{BackendXclip, "xclip -out -selection primary", "xclip -out -selection clipboard"},
		{BackendXsel, "xsel --output --primary", "xsel --output --clipboard"},
	}
	for _, test := range tests {
		runner := &fakeRunner{output: map[string]string{
			test.selection: "from selection",
			test.general:   "from clipboard",
		}}
		command := newFakeCommand(t, test.backend, runner)

		if got := command.Text(Selection); got != "from selection" {
			t.Errorf("%s: Text(Selection) = %q", test.backend, got)
		}
		if got := command.Text(General); got != "from clipboard" {
			t.Errorf("%s: Text(General) = %q", test.backend, got)
		}
	}
}

func TestCommandTmuxHasNoSelection(t *testing.T) {
	runner := &fakeRunner{output: map[string]string{"tmux show-buffer": "buffer"}}
	command := newFakeCommand(t, BackendTmux, runner)

	if got := command.Text(Selection); got != "" {
		t.Fatalf("Text(Selection) = %q, want empty", got)
	}
	if len(runner.calls) != 0 {
		t.Fatalf("selection read ran %v", runner.calls)
	}
	if got := CurrentText(command); got != "buffer" {
		t.Fatalf("CurrentText = %q, want buffer", got)
	}
}

func TestCommandFailureReadsEmpty(t *testing.T) {
	runner := &fakeRunner{err: errors.New("exit status 1")}
	command := newFakeCommand(t, BackendXclip, runner)
	if got := command.Text(General); got != "" {
		t.Fatalf("Text after tool failure = %q, want empty", got)
	}
}

func TestCommandNonTextReadsEmpty(t *testing.T) {
	runner := &fakeRunner{output: map[string]string{
		"xclip -out -selection clipboard": "\x89PNG\r\n\x1a\n\xff\xfe",
	}}
	command := newFakeCommand(t, BackendXclip, runner)
	if got := command.Text(General); got != "" {
		t.Fatalf("Text of binary data = %q, want empty", got)
	}
}

func TestCommandWriteImage(t *testing.T) {
	runner := &fakeRunner{}
	command := newFakeCommand(t, BackendWayland, runner)

	if err := command.WriteImage([]byte("png-bytes")); err != nil {
		t.Fatalf("WriteImage: %v", err)
	}
	want := invocation{stdin: "png-bytes", line: "wl-copy --type image/png"}
	if len(runner.calls) != 1 || runner.calls[0] != want {
		t.Fatalf("calls = %+v, want [%+v]", runner.calls, want)
	}

	xsel := newFakeCommand(t, BackendXsel, &fakeRunner{})
	if err := xsel.WriteImage([]byte("png")); !errors.Is(err, ErrImageUnsupported) {
		t.Fatalf("xsel WriteImage error = %v, want ErrImageUnsupported", err)
	}
}

func TestCommandSupportsImages(t *testing.T) {
	want := map[Backend]bool{
		BackendWayland: true,
		BackendXclip:   true,
		BackendXsel:    false,
		BackendTmux:    false,
	}
	for backend, supported := range want {
		if got := newFakeCommand(t, backend, &fakeRunner{}).SupportsImages(); got != supported {
			t.Errorf("%s SupportsImages = %v, want %v", backend, got, supported)
		}
	}
}

func TestNewCommandRejectsUnresolvedBackend(t *testing.T) {
	if _, err := NewCommand(CommandOptions{Backend: BackendAuto}); err == nil {
		t.Fatal("NewCommand(auto) succeeded")
	}
	if _, err := NewCommand(CommandOptions{Backend: "pbcopy"}); err == nil {
		t.Fatal("NewCommand(pbcopy) succeeded")
	}
}

// installTool puts an executable shell script named name first on PATH.
func installTool(t *testing.T, name, script string) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("no sh on PATH")
	}
	directory := t.TempDir()
	path := filepath.Join(directory, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	t.Setenv("PATH", directory+string(os.PathListSeparator)+os.Getenv("PATH"))
}

func TestWriteImageReturnsWhileSelectionOwnerRuns(t *testing.T) {
	// Like xclip -in: consume the image, leave a child holding stdout
	// and stderr, and exit.
	installTool(t, "xclip", "cat >/dev/null\n(sleep 3) &\nexit 0")
	command, err := NewCommand(CommandOptions{Backend: BackendXclip, Timeout: 500 * time.Millisecond})
	if err != nil {
		t.Fatalf("NewCommand: %v", err)
	}

	start := time.Now()
	err = command.WriteImage([]byte("png-bytes"))
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("WriteImage: %v", err)
	}
	if elapsed >= 2*time.Second {
		t.Fatalf("WriteImage took %v, waiting on the forked child", elapsed)
	}
}

func TestExecRunnerReportsFailure(t *testing.T) {
	installTool(t, "xclip", "echo 'cannot open display' >&2\nexit 1")

	_, err := ExecRunner(context.Background(), nil, "xclip", "-out")
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("error = %v, want an exit error", err)
	}
	if !strings.Contains(err.Error(), "cannot open display") {
		t.Errorf("error %q does not carry stderr", err)
	}
}
