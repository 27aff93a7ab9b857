// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// qrclip shows the clipboard as a QR code in the terminal, so text can
// be moved to a phone by pointing its camera at the screen.
//
// The primary selection is preferred over the clipboard, and the code
// follows the clipboard as it changes. From the viewer the current code
// can be saved as a PNG or copied back to the clipboard as an image.
//
// With --output, qrclip writes a single PNG and exits instead of
// starting the viewer.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/pflag"

	"github.com/bureau-foundation/qrclip/lib/cli"
	"github.com/bureau-foundation/qrclip/lib/clipboard"
	"github.com/bureau-foundation/qrclip/lib/config"
	"github.com/bureau-foundation/qrclip/lib/pipeline"
	"github.com/bureau-foundation/qrclip/lib/prefs"
	"github.com/bureau-foundation/qrclip/lib/process"
	"github.com/bureau-foundation/qrclip/lib/qrcode"
	"github.com/bureau-foundation/qrclip/lib/qrview"
	"github.com/bureau-foundation/qrclip/lib/raster"
	"github.com/bureau-foundation/qrclip/lib/version"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		process.Fatal(err)
	}
}

// flags holds the parsed command line.
type flags struct {
	configPath string
	text       string
	textSet    bool
	output     string
	scale      int
	logOutput  string
	debug      bool
	help       bool
	version    bool
}

func parseFlags(args []string, stderr io.Writer) (*flags, *pflag.FlagSet, error) {
	var parsed flags
	flagSet := pflag.NewFlagSet("qrclip", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVar(&parsed.configPath, "config", "", "configuration file (default: $"+config.EnvironmentVariable+")")
	flagSet.StringVar(&parsed.text, "text", "", "encode this text instead of reading the clipboard")
	flagSet.StringVarP(&parsed.output, "output", "o", "", "write the code to this PNG file and exit")
	flagSet.IntVar(&parsed.scale, "scale", 0, "pixels per module for --output (default: render.save_scale)")
	flagSet.StringVar(&parsed.logOutput, "log-output", "", "write JSON log records to this file (in addition to the status line)")
	flagSet.BoolVar(&parsed.debug, "debug", false, "log debug records")
	flagSet.BoolVar(&parsed.version, "version", false, "print version information and exit")
	flagSet.BoolVarP(&parsed.help, "help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			parsed.help = true
			return &parsed, flagSet, nil
		}
		return nil, nil, cli.Validation("%w", err)
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return nil, nil, cli.Validation("unexpected argument: %s", rest[0]).
			WithHint("Use --text to encode literal text.")
	}
	if parsed.scale < 0 {
		return nil, nil, cli.Validation("--scale must not be negative, got %d", parsed.scale)
	}
	parsed.textSet = flagSet.Changed("text")
	return &parsed, flagSet, nil
}

func run(args []string, stdout, stderr io.Writer) error {
	parsed, flagSet, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	if parsed.help {
		printHelp(stderr, flagSet)
		return nil
	}
	if parsed.version {
		fmt.Fprintln(stdout, version.Full())
		return nil
	}

	cfg, err := loadConfig(parsed.configPath)
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if parsed.debug {
		level = slog.LevelDebug
	}

	if parsed.output != "" {
		logger := cli.NewCommandLogger(stderr, level)
		source, err := openClipboard(cfg, parsed, logger)
		if err != nil {
			return err
		}
		scale := parsed.scale
		if scale == 0 {
			scale = cfg.Render.SaveScale
		}
		return writeOnce(source.reader, parsed.output, scale, cfg.Render.Border, stderr)
	}

	return runViewer(cfg, parsed, level)
}

func printHelp(output io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprintf(output, `qrclip shows the clipboard as a QR code.

The selected text (primary selection) is encoded when there is any;
otherwise the clipboard contents are. The code updates as the
clipboard changes.

Usage:
  qrclip [flags]

Examples:
  # Follow the clipboard in the terminal
  qrclip

  # Show a fixed string
  qrclip --text "WIFI:T:WPA;S:home;P:secret;;"

  # Write the current clipboard to a PNG and exit
  qrclip --output code.png --scale 8

Keys:
  s  save the code as PNG     c  copy the code as an image
  t  toggle always on top     q  quit

Flags:
`)
	flagSet.SetOutput(output)
	flagSet.PrintDefaults()
}

// loadConfig reads the configuration from path, or from
// $QRCLIP_CONFIG when path is empty, and validates it.
func loadConfig(path string) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, cli.Validation("loading configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, cli.Validation("invalid configuration: %w", err)
	}
	return cfg, nil
}

// clipboardSource is where the viewer gets its text.
type clipboardSource struct {
	reader   clipboard.Reader
	notifier clipboard.Notifier

	// imageWriter is nil when the backend cannot hold images.
	imageWriter clipboard.ImageWriter

	// poller is nil for fixed text.
	poller *clipboard.Poller
}

// openClipboard returns fixed text when --text was given and the
// system clipboard otherwise.
func openClipboard(cfg *config.Config, parsed *flags, logger *slog.Logger) (*clipboardSource, error) {
	if parsed.textSet {
		memory := clipboard.NewMemory(parsed.text)
		return &clipboardSource{reader: memory, notifier: memory}, nil
	}

	backend, err := clipboard.ParseBackend(cfg.Clipboard.Backend)
	if err != nil {
		return nil, cli.Validation("%w", err)
	}
	if backend == clipboard.BackendAuto {
		backend, err = clipboard.Detect(os.Getenv, exec.LookPath)
		if err != nil {
			return nil, cli.NotFound("%w", err).
				WithHint("Set clipboard.backend in the configuration file, or pass --text.")
		}
	}
	logger.Debug("using clipboard backend", "backend", backend)

	command, err := clipboard.NewCommand(clipboard.CommandOptions{
		Backend: backend,
		Timeout: cfg.Clipboard.Timeout,
		Logger:  logger.With("component", "clipboard"),
	})
	if err != nil {
		return nil, cli.Internal("%w", err)
	}

	source := &clipboardSource{
		reader: command,
		poller: clipboard.NewPoller(command, clipboard.PollerOptions{
			Interval: cfg.Clipboard.PollInterval,
			Logger:   logger.With("component", "poller"),
		}),
	}
	source.notifier = source.poller
	if command.SupportsImages() {
		source.imageWriter = command
	}
	return source, nil
}

// writeOnce encodes the current text into a PNG at path. When there is
// nothing to encode it prints why and fails with exit code 2.
func writeOnce(reader clipboard.Reader, path string, scale, border int, stderr io.Writer) error {
	text := clipboard.CurrentText(reader)
	matrix := qrcode.Encode(text)
	if matrix == nil {
		reason := pipeline.PlaceholderTooLong
		if text == "" {
			reason = pipeline.PlaceholderEmpty
		}
		fmt.Fprintln(stderr, reason)
		return &cli.ExitError{Code: 2}
	}
	if err := qrview.WritePNG(path, raster.Render(matrix, scale, border)); err != nil {
		return cli.Transient("%w", err)
	}
	return nil
}

// runViewer runs the interactive viewer until the user quits.
//
// Logging goes to the status line through a TUILogHandler, since
// writing to stderr would corrupt the alt-screen display, and
// optionally to a JSON file for later inspection.
func runViewer(cfg *config.Config, parsed *flags, level slog.Level) error {
	tuiHandler := qrview.NewTUILogHandler(max(level, slog.LevelWarn))
	logger := slog.New(tuiHandler)
	if parsed.logOutput != "" {
		fileHandler, closeFile, err := openFileLogHandler(parsed.logOutput, level)
		if err != nil {
			return cli.Validation("cannot open log file %s: %w", parsed.logOutput, err)
		}
		defer closeFile()
		logger = slog.New(fanoutHandler{tuiHandler, fileHandler})
	}

	source, err := openClipboard(cfg, parsed, logger)
	if err != nil {
		return err
	}

	preferencesPath := cfg.Preferences.File
	if preferencesPath == "" {
		preferencesPath, err = prefs.DefaultPath()
		if err != nil {
			return cli.NotFound("%w", err).
				WithHint("Set preferences.file in the configuration file.")
		}
	}
	preferences := prefs.Open(prefs.Options{
		Path:   preferencesPath,
		Logger: logger.With("component", "prefs"),
	})
	defer preferences.Close()

	// The poller's baseline must predate the pipeline's first read, or
	// a change in between is never reported.
	if source.poller != nil {
		source.poller.Prime()
	}

	display := qrview.NewDisplay()
	updates, err := pipeline.New(pipeline.Config{
		Reader:   source.reader,
		Notifier: source.notifier,
		Display:  display,
		Border:   cfg.Render.Border,
		Logger:   logger.With("component", "pipeline"),
	})
	if err != nil {
		return cli.Internal("%w", err)
	}
	defer updates.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if source.poller != nil {
		go source.poller.Run(ctx)
	}

	model := qrview.NewModel(qrview.Options{
		Pipeline:    updates,
		Display:     display,
		Preferences: preferences,
		ImageWriter: source.imageWriter,
		SaveScale:   cfg.Render.SaveScale,
		Profile:     lipgloss.ColorProfile(),
		Logger:      logger.With("component", "viewer"),
	})
	program := tea.NewProgram(model, tea.WithAltScreen())
	tuiHandler.SetProgram(program)

	_, err = program.Run()
	return err
}
