// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package pipeline keeps a QR code in sync with the clipboard.
//
// A [Pipeline] is either Active (subscribed to clipboard changes) or
// Suspended (unsubscribed). It is Suspended exactly while at least one
// [Guard] from [Pipeline.Block] is outstanding. Releasing the last guard
// resubscribes and runs one catch-up refresh, so a change missed while
// suspended is picked up once, not once per missed notification.
//
// Each refresh reads the current text (selection first, then the
// general clipboard), and does nothing more if the text is unchanged.
// Otherwise it encodes the text, rasterizes the code to fit the
// display's viewport, pushes the image (or a placeholder) to the
// [Display], and notifies presence listeners if a code appeared or
// disappeared.
//
// Clipboard notifications may arrive on any goroutine. The pipeline
// serializes them with calls from the UI under one mutex. The Display
// and presence listeners are called with that mutex held and must not
// call back into the pipeline.
package pipeline

import (
	"errors"
	"image"
	"io"
	"log/slog"
	"sync"

	"github.com/bureau-foundation/qrclip/lib/clipboard"
	"github.com/bureau-foundation/qrclip/lib/qrcode"
	"github.com/bureau-foundation/qrclip/lib/raster"
)

// Placeholder is what the display shows when there is no code.
type Placeholder int

const (
	// PlaceholderEmpty means the clipboard holds no text.
	PlaceholderEmpty Placeholder = iota
	// PlaceholderTooLong means the text exceeds QR code capacity.
	PlaceholderTooLong
)

// String returns the user-visible message.
func (placeholder Placeholder) String() string {
	switch placeholder {
	case PlaceholderEmpty:
		return "Clipboard is empty"
	case PlaceholderTooLong:
		return "Too much text for a QR code"
	default:
		return "unknown placeholder"
	}
}

// Display receives the pipeline's output.
type Display interface {
	// Viewport is the area the code image should fit into.
	Viewport() raster.Viewport

	// ShowImage displays a rendered code. tooltip is the encoded text.
	ShowImage(image *image.Paletted, tooltip string)

	// ShowPlaceholder replaces the image with a message.
	ShowPlaceholder(placeholder Placeholder)
}

// Encoder turns text into a code matrix, returning nil when no code can
// be produced.
type Encoder func(text string) *qrcode.Matrix

// Config configures New.
type Config struct {
	// Reader supplies clipboard text. Required.
	Reader clipboard.Reader

	// Notifier reports clipboard changes. When nil the pipeline only
	// updates on explicit Refresh calls.
	Notifier clipboard.Notifier

	// Display receives images and placeholders. Required.
	Display Display

	// Encoder defaults to qrcode.Encode.
	Encoder Encoder

	// Border is the quiet zone width in modules. Must not be negative.
	Border int

	Logger *slog.Logger
}

// Pipeline is the clipboard-to-display update state machine.
type Pipeline struct {
	mu sync.Mutex

	reader   clipboard.Reader
	notifier clipboard.Notifier
	display  Display
	encode   Encoder
	border   int
	logger   *slog.Logger

	// text is the last text seen; matrix is its code, nil when there is
	// none.
	text   string
	matrix *qrcode.Matrix

	blockDepth  int
	unsubscribe func()

	listeners      []presenceListener
	nextListenerID uint64

	closed bool
}

type presenceListener struct {
	id       uint64
	callback func(bool)
}

// New builds a pipeline, computes the initial display state from the
// current clipboard text, and subscribes to changes.
func New(config Config) (*Pipeline, error) {
	if config.Reader == nil {
		return nil, errors.New("pipeline: Reader is required")
	}
	if config.Display == nil {
		return nil, errors.New("pipeline: Display is required")
	}
	if config.Border < 0 {
		return nil, errors.New("pipeline: Border must not be negative")
	}

	p := &Pipeline{
		reader:   config.Reader,
		notifier: config.Notifier,
		display:  config.Display,
		encode:   config.Encoder,
		border:   config.Border,
		logger:   config.Logger,
	}
	if p.encode == nil {
		p.encode = qrcode.Encode
	}
	if p.logger == nil {
		p.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.text = clipboard.CurrentText(p.reader)
	p.matrix = p.encode(p.text)
	p.pushDisplayLocked()
	p.subscribeLocked()
	return p, nil
}

// Refresh re-reads the clipboard. It is the clipboard change handler,
// and does nothing while the pipeline is suspended or closed.
func (p *Pipeline) Refresh() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed || p.blockDepth > 0 {
		return
	}
	p.refreshLocked()
}

func (p *Pipeline) refreshLocked() {
	text := clipboard.CurrentText(p.reader)
	if text == p.text {
		return
	}

	hadCode := p.matrix != nil
	p.text = text
	p.matrix = p.encode(text)
	hasCode := p.matrix != nil

	p.logger.Debug("clipboard text changed", "bytes", len(text), "has_code", hasCode)
	p.pushDisplayLocked()

	if hadCode != hasCode {
		for _, listener := range p.listeners {
			listener.callback(hasCode)
		}
	}
}

func (p *Pipeline) pushDisplayLocked() {
	if p.matrix != nil {
		p.display.ShowImage(raster.RenderFit(p.matrix, p.display.Viewport(), p.border), p.text)
		return
	}
	if p.text == "" {
		p.display.ShowPlaceholder(PlaceholderEmpty)
	} else {
		p.display.ShowPlaceholder(PlaceholderTooLong)
	}
}

func (p *Pipeline) subscribeLocked() {
	if p.notifier != nil && p.unsubscribe == nil {
		p.unsubscribe = p.notifier.OnChange(p.Refresh)
	}
}

func (p *Pipeline) unsubscribeLocked() {
	if p.unsubscribe != nil {
		p.unsubscribe()
		p.unsubscribe = nil
	}
}

// Guard holds the pipeline suspended until released.
type Guard struct {
	pipeline *Pipeline
	once     sync.Once
}

// Block suspends clipboard updates until the returned guard is
// released. Guards nest. Blocking a closed pipeline returns a guard
// whose Release does nothing.
func (p *Pipeline) Block() *Guard {
	p.mu.Lock()
	defer p.mu.Unlock()

	guard := &Guard{pipeline: p}
	if p.closed {
		guard.once.Do(func() {})
		return guard
	}

	p.blockDepth++
	if p.blockDepth == 1 {
		p.logger.Debug("suspending clipboard updates")
		p.unsubscribeLocked()
	}
	return guard
}

// Release ends the guard. The last outstanding release resubscribes and
// refreshes once. Releasing twice, or after the pipeline is closed, does
// nothing.
func (g *Guard) Release() {
	g.once.Do(g.pipeline.release)
}

func (p *Pipeline) release() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.blockDepth--
	if p.blockDepth > 0 {
		return
	}
	p.logger.Debug("resuming clipboard updates")
	p.subscribeLocked()
	p.refreshLocked()
}

// OnPresenceChanged registers callback to run whenever a code appears
// (true) or disappears (false). Callbacks run in registration order.
func (p *Pipeline) OnPresenceChanged(callback func(bool)) (cancel func()) {
	p.mu.Lock()
	defer p.mu.Unlock()

	id := p.nextListenerID
	p.nextListenerID++
	p.listeners = append(p.listeners, presenceListener{id: id, callback: callback})

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		for i, listener := range p.listeners {
			if listener.id == id {
				p.listeners = append(p.listeners[:i:i], p.listeners[i+1:]...)
				return
			}
		}
	}
}

// Resize re-renders the current code for the display's new viewport.
func (p *Pipeline) Resize() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed || p.matrix == nil {
		return
	}
	p.pushDisplayLocked()
}

// Image renders the current code at a fixed scale for export, or
// returns nil when there is no code. A scale below 1 is treated as 1.
func (p *Pipeline) Image(scale int) *image.Paletted {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.matrix == nil {
		return nil
	}
	return raster.Render(p.matrix, max(scale, 1), p.border)
}

// HasCode reports whether the current text has a code.
func (p *Pipeline) HasCode() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.matrix != nil
}

// Text returns the last clipboard text seen.
func (p *Pipeline) Text() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.text
}

// BlockDepth returns the number of outstanding guards.
func (p *Pipeline) BlockDepth() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.blockDepth
}

// Close unsubscribes and detaches listeners. Later calls are no-ops,
// as are releases of guards still outstanding.
func (p *Pipeline) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.closed = true
	p.unsubscribeLocked()
	p.listeners = nil
}
