// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package clipboard

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"io"
	"log/slog"
	"time"

	"github.com/zeebo/blake3"

	"github.com/bureau-foundation/qrclip/lib/clock"
)

// DefaultPollInterval is how often a Poller samples the clipboard when
// no interval is configured.
const DefaultPollInterval = 500 * time.Millisecond

// Poller samples a Reader on a fixed interval and notifies subscribers
// whenever the content of either source changes. Command-line clipboard
// tools have no change events, so polling is the only portable way to
// observe them.
//
// Subscribers are notified from the polling goroutine.
type Poller struct {
	reader   Reader
	interval time.Duration
	clock    clock.Clock
	logger   *slog.Logger

	subscribers subscribers

	// digest is only touched by the polling goroutine, or by Prime
	// before Run starts.
	digest [32]byte
	primed bool
}

// PollerOptions configures NewPoller.
type PollerOptions struct {
	Interval time.Duration
	Clock    clock.Clock
	Logger   *slog.Logger
}

// NewPoller returns a Poller over reader. Call Run to start sampling.
func NewPoller(reader Reader, options PollerOptions) *Poller {
	poller := &Poller{
		reader:   reader,
		interval: options.Interval,
		clock:    options.Clock,
		logger:   options.Logger,
	}
	if poller.interval <= 0 {
		poller.interval = DefaultPollInterval
	}
	if poller.clock == nil {
		poller.clock = clock.Real()
	}
	if poller.logger == nil {
		poller.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return poller
}

// Text delegates to the underlying Reader.
func (p *Poller) Text(source Source) string {
	return p.reader.Text(source)
}

// OnChange subscribes to content changes.
func (p *Poller) OnChange(callback func()) func() {
	return p.subscribers.add(callback)
}

// Prime takes the baseline sample now. Call it before reading the
// initial text, and before Run, so that a change between that read and
// the start of polling is still reported.
func (p *Poller) Prime() {
	p.digest = p.sample()
	p.primed = true
}

// Run samples the clipboard until ctx is cancelled. Without a prior
// Prime, the first sample establishes the baseline and does not notify.
func (p *Poller) Run(ctx context.Context) {
	if !p.primed {
		p.Prime()
	}

	ticker := p.clock.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if p.poll() {
				p.subscribers.notify()
			}
		}
	}
}

// poll takes one sample and reports whether the content changed.
func (p *Poller) poll() bool {
	digest := p.sample()
	if digest == p.digest {
		return false
	}
	p.logger.Debug("clipboard changed",
		"previous", hex.EncodeToString(p.digest[:8]),
		"current", hex.EncodeToString(digest[:8]))
	p.digest = digest
	return true
}

// sample hashes both sources. The length prefix keeps ("ab", "")
// distinct from ("a", "b").
func (p *Poller) sample() [32]byte {
	hasher := blake3.New()
	for _, source := range []Source{Selection, General} {
		text := p.reader.Text(source)
		hasher.Write(binary.BigEndian.AppendUint64(nil, uint64(len(text))))
		hasher.Write([]byte(text))
	}
	var digest [32]byte
	copy(digest[:], hasher.Sum(nil))
	return digest
}
