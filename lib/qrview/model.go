// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package qrview

import (
	"fmt"
	"image"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"

	"github.com/bureau-foundation/qrclip/lib/clipboard"
	"github.com/bureau-foundation/qrclip/lib/codec"
	"github.com/bureau-foundation/qrclip/lib/pipeline"
	"github.com/bureau-foundation/qrclip/lib/prefs"
)

// chromeHeight is the number of text rows below the code: status line
// and help line.
const chromeHeight = 2

// DefaultSaveScale is the pixels per module of saved and copied images.
const DefaultSaveScale = 5

// Options configures NewModel.
type Options struct {
	// Pipeline and Display are required; Display must be the
	// pipeline's display.
	Pipeline *pipeline.Pipeline
	Display  *Display

	// Preferences persists the layout and always-on-top flag. Optional.
	Preferences *prefs.Handle

	// ImageWriter receives copied images. When nil, copy is disabled.
	ImageWriter clipboard.ImageWriter

	// SaveScale defaults to DefaultSaveScale.
	SaveScale int

	// Profile selects colored or plain half-block output.
	Profile termenv.Profile

	Logger *slog.Logger
}

// Model is the bubbletea model for the viewer.
type Model struct {
	pipeline    *pipeline.Pipeline
	display     *Display
	preferences *prefs.Handle
	imageWriter clipboard.ImageWriter
	saveScale   int
	profile     termenv.Profile
	logger      *slog.Logger

	keys  KeyMap
	theme Theme

	width  int
	height int
	ready  bool

	frame       Frame
	alwaysOnTop bool

	notice         string
	noticeLevel    slog.Level
	noticeSequence int
}

// displayChangedMsg means the Display has a new frame.
type displayChangedMsg struct{}

// saveFinishedMsg carries the outcome of the save prompt.
type saveFinishedMsg struct {
	guard *pipeline.Guard
	image *image.Paletted
	path  string
	err   error
}

// copyFinishedMsg carries the outcome of an image copy.
type copyFinishedMsg struct {
	guard *pipeline.Guard
	err   error
}

// windowRaisedMsg ends the guard held while raising the window.
type windowRaisedMsg struct {
	guard *pipeline.Guard
}

// noticeFadeMsg clears the notice it was scheduled for.
type noticeFadeMsg struct {
	sequence int
}

// NewModel builds the viewer and registers for presence changes.
func NewModel(options Options) Model {
	model := Model{
		pipeline:    options.Pipeline,
		display:     options.Display,
		preferences: options.Preferences,
		imageWriter: options.ImageWriter,
		saveScale:   options.SaveScale,
		profile:     options.Profile,
		logger:      options.Logger,
		keys:        DefaultKeyMap,
		theme:       DefaultTheme,
	}
	if model.saveScale < 1 {
		model.saveScale = DefaultSaveScale
	}
	if model.logger == nil {
		model.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if model.preferences != nil {
		model.alwaysOnTop = model.preferences.AlwaysOnTop()
	}

	model.pipeline.OnPresenceChanged(model.display.SetPresence)
	model.display.SetPresence(model.pipeline.HasCode())
	model.frame = model.display.Snapshot()
	model.syncKeys()
	return model
}

// Init implements tea.Model. Starts listening for display changes and
// restores the remembered window state.
func (model Model) Init() tea.Cmd {
	commands := []tea.Cmd{listenForDisplay(model.display.Changed())}
	if layout, ok := model.storedLayout(); ok {
		commands = append(commands, writeTerminal(resizeWindowSequence(layout), nil))
	}
	if model.alwaysOnTop {
		commands = append(commands, writeTerminal(raiseWindowSequence, nil))
	}
	return tea.Batch(commands...)
}

// listenForDisplay returns a tea.Cmd that blocks until the display
// signals a change.
func listenForDisplay(changed <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-changed; !ok {
			return nil
		}
		return displayChangedMsg{}
	}
}

// Update implements tea.Model.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(message, model.keys.Quit):
			return model, tea.Quit
		case key.Matches(message, model.keys.Save):
			return model.startSave()
		case key.Matches(message, model.keys.Copy):
			return model.startCopy()
		case key.Matches(message, model.keys.AlwaysOnTop):
			return model.toggleAlwaysOnTop()
		}

	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height
		model.ready = true
		model.display.SetViewport(pixelViewport(model.width, model.height-chromeHeight))
		model.pipeline.Resize()
		model.frame = model.display.Snapshot()
		model.saveLayout()

	case displayChangedMsg:
		previous := model.frame
		model.frame = model.display.Snapshot()
		model.syncKeys()
		commands := []tea.Cmd{listenForDisplay(model.display.Changed())}
		if model.alwaysOnTop && model.frame.Tooltip != previous.Tooltip {
			commands = append(commands, writeTerminal(raiseWindowSequence, nil))
		}
		return model, tea.Batch(commands...)

	case saveFinishedMsg:
		return model.finishSave(message)

	case copyFinishedMsg:
		message.guard.Release()
		if message.err != nil {
			model.logger.Warn("copying image failed", "error", message.err)
			return model.setNotice(slog.LevelError, "Copy failed: "+message.err.Error())
		}
		return model.setNotice(slog.LevelInfo, "Copied QR code image to the clipboard")

	case windowRaisedMsg:
		message.guard.Release()

	case logRecordMsg:
		return model.setNotice(message.Level, message.Summary)

	case noticeFadeMsg:
		if message.sequence == model.noticeSequence {
			model.notice = ""
		}
	}
	return model, nil
}

// startSave suspends clipboard updates, captures the image, and runs
// the save prompt with the TUI released.
func (model Model) startSave() (tea.Model, tea.Cmd) {
	guard := model.pipeline.Block()
	img := model.pipeline.Image(model.saveScale)
	if img == nil {
		guard.Release()
		return model, nil
	}

	prompt := NewSavePrompt(DefaultSaveName)
	return model, tea.Exec(prompt, func(err error) tea.Msg {
		return saveFinishedMsg{guard: guard, image: img, path: prompt.Path(), err: err}
	})
}

func (model Model) finishSave(message saveFinishedMsg) (tea.Model, tea.Cmd) {
	message.guard.Release()

	switch {
	case message.err != nil:
		model.logger.Warn("save prompt failed", "error", message.err)
		return model.setNotice(slog.LevelError, "Save failed: "+message.err.Error())
	case message.path == "":
		return model.setNotice(slog.LevelInfo, "Save cancelled")
	}

	if err := WritePNG(message.path, message.image); err != nil {
		model.logger.Warn("saving image failed", "path", message.path, "error", err)
		return model.setNotice(slog.LevelError, "Save failed: "+err.Error())
	}
	model.logger.Debug("saved image", "path", message.path)
	return model.setNotice(slog.LevelInfo, "Saved "+message.path)
}

// startCopy places the current code on the clipboard as a PNG. Updates
// stay suspended until the clipboard tool finishes.
func (model Model) startCopy() (tea.Model, tea.Cmd) {
	if model.imageWriter == nil {
		return model.setNotice(slog.LevelWarn, "This clipboard backend cannot hold images")
	}

	guard := model.pipeline.Block()
	img := model.pipeline.Image(model.saveScale)
	if img == nil {
		guard.Release()
		return model, nil
	}

	writer := model.imageWriter
	return model, func() tea.Msg {
		data, err := EncodePNG(img)
		if err == nil {
			err = writer.WriteImage(data)
		}
		return copyFinishedMsg{guard: guard, err: err}
	}
}

// toggleAlwaysOnTop flips and persists the flag. Turning it on raises
// the window, with updates suspended until the raise is written.
func (model Model) toggleAlwaysOnTop() (tea.Model, tea.Cmd) {
	model.alwaysOnTop = !model.alwaysOnTop
	if model.preferences != nil {
		model.preferences.SetAlwaysOnTop(model.alwaysOnTop)
	}
	if !model.alwaysOnTop {
		return model.setNotice(slog.LevelInfo, "Always on top: off")
	}

	guard := model.pipeline.Block()
	model, noticeCmd := model.setNotice(slog.LevelInfo, "Always on top: on")
	return model, tea.Batch(noticeCmd, writeTerminal(raiseWindowSequence, windowRaisedMsg{guard: guard}))
}

// setNotice shows text in the status line until it fades or is
// replaced.
func (model Model) setNotice(level slog.Level, text string) (Model, tea.Cmd) {
	model.notice = text
	model.noticeLevel = level
	model.noticeSequence++
	sequence := model.noticeSequence
	return model, tea.Tick(noticeFadeDelay, func(time.Time) tea.Msg {
		return noticeFadeMsg{sequence: sequence}
	})
}

func (model *Model) syncKeys() {
	model.keys.setCodeActions(model.frame.HasCode)
	if model.imageWriter == nil {
		model.keys.Copy.SetEnabled(false)
	}
}

// storedLayout returns the remembered terminal size, if any.
func (model Model) storedLayout() (Layout, bool) {
	if model.preferences == nil {
		return Layout{}, false
	}
	data := model.preferences.Geometry()
	if len(data) == 0 {
		return Layout{}, false
	}
	layout, err := UnmarshalLayout(data)
	if err != nil {
		model.logger.Debug("ignoring stored layout", "error", err)
		return Layout{}, false
	}
	if notation, err := codec.Diagnose(data); err == nil {
		model.logger.Debug("restoring layout", "layout", notation)
	}
	return layout, true
}

func (model Model) saveLayout() {
	if model.preferences == nil {
		return
	}
	data, err := MarshalLayout(Layout{Columns: model.width, Rows: model.height})
	if err != nil {
		model.logger.Warn("encoding layout failed", "error", err)
		return
	}
	model.preferences.SetGeometry(data)
}

// View implements tea.Model.
func (model Model) View() string {
	if !model.ready {
		return "Loading..."
	}

	bodyHeight := max(model.height-chromeHeight, 0)
	body := lipgloss.Place(model.width, bodyHeight, lipgloss.Center, lipgloss.Center, model.renderBody(bodyHeight))

	return strings.Join([]string{body, model.renderStatus(), model.renderHelp()}, "\n")
}

// renderBody returns the code, or a message when there is no code or
// the terminal is too small for it.
func (model Model) renderBody(bodyHeight int) string {
	if model.frame.Image == nil {
		return lipgloss.NewStyle().
			Foreground(model.theme.PlaceholderText).
			Render(model.frame.Placeholder.String())
	}

	lines := HalfBlocks(model.frame.Image)
	width := model.frame.Image.Bounds().Dx()
	if width > model.width || len(lines) > bodyHeight {
		return lipgloss.NewStyle().
			Foreground(model.theme.NoticeWarn).
			Render(fmt.Sprintf("Enlarge the terminal to at least %dx%d", width, len(lines)+chromeHeight))
	}
	return strings.Join(ColorLines(lines, model.profile), "\n")
}

// renderStatus shows the current notice, or else the encoded text on
// one line.
func (model Model) renderStatus() string {
	style := lipgloss.NewStyle().Foreground(model.theme.FaintText)
	text := oneLine(model.frame.Tooltip)

	if model.notice != "" {
		text = model.notice
		switch {
		case model.noticeLevel >= slog.LevelError:
			style = style.Foreground(model.theme.NoticeError)
		case model.noticeLevel >= slog.LevelWarn:
			style = style.Foreground(model.theme.NoticeWarn)
		default:
			style = style.Foreground(model.theme.NoticeInfo)
		}
	}
	return style.Render(ansi.Truncate(" "+text, model.width, "…"))
}

// renderHelp lists the enabled key bindings.
func (model Model) renderHelp() string {
	keyStyle := lipgloss.NewStyle().Foreground(model.theme.HelpKey)
	descriptionStyle := lipgloss.NewStyle().Foreground(model.theme.HelpText)

	var parts []string
	for _, binding := range model.keys.bindings() {
		if !binding.Enabled() {
			continue
		}
		help := binding.Help()
		description := help.Desc
		if help.Key == model.keys.AlwaysOnTop.Help().Key && model.alwaysOnTop {
			description += " ✓"
		}
		parts = append(parts, keyStyle.Render(help.Key)+" "+descriptionStyle.Render(description))
	}
	return ansi.Truncate(" "+strings.Join(parts, "  "), model.width, "…")
}

// oneLine collapses text to a single line for the status bar.
func oneLine(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
