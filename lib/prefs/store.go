// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package prefs is a small persistent key-value store for user
// preferences, backed by a flat JSON object on disk.
//
// Writes are coalesced with two one-shot timers. Every mutation
// restarts the min-delay timer; the max-delay timer is started by the
// first mutation of a burst and is not restarted. Whichever fires
// first stops both and writes the whole map. A quiet period of
// MinSaveDelay always produces a save, and a continuous stream of
// mutations still saves at least every MaxSaveDelay.
//
// Several [Handle]s may share one store (see [Handle.Clone]). They see
// each other's mutations immediately. Closing the last handle flushes a
// pending save, so no mutation is dropped at shutdown.
//
// I/O problems never surface as errors: they are logged as warnings and
// the in-memory map stays authoritative for the life of the process.
package prefs

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"time"

	"github.com/tidwall/jsonc"

	"github.com/bureau-foundation/qrclip/lib/clock"
)

// Debounce defaults.
const (
	MinSaveDelay = 500 * time.Millisecond
	MaxSaveDelay = 5 * time.Second
)

// FileName is the name of the preferences file inside the user's
// configuration directory.
const FileName = "qrclip.json"

// Options configures Open. Only Path is required.
type Options struct {
	// Path is the backing file.
	Path string

	// Clock drives the debounce timers. Defaults to clock.Real().
	Clock clock.Clock

	// Logger receives load/save warnings and debug messages. Defaults
	// to a discarding logger.
	Logger *slog.Logger

	// MinSaveDelay and MaxSaveDelay override the debounce delays when
	// positive.
	MinSaveDelay time.Duration
	MaxSaveDelay time.Duration
}

// DefaultPath returns the preferences file in the user's configuration
// directory ($XDG_CONFIG_HOME, or ~/.config on Linux).
func DefaultPath() (string, error) {
	directory, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating user config directory: %w", err)
	}
	return filepath.Join(directory, FileName), nil
}

// store is the shared state behind every Handle.
type store struct {
	mu     sync.Mutex
	path   string
	clock  clock.Clock
	logger *slog.Logger

	minDelay time.Duration
	maxDelay time.Duration

	values map[string]any

	// minTimer and maxTimer are non-nil while armed. The sequence
	// numbers let a callback that lost the race with Stop recognize
	// that it is stale.
	minTimer    *clock.Timer
	maxTimer    *clock.Timer
	minSequence uint64
	maxSequence uint64

	handles int
}

// Handle is one reference to a shared preference store.
type Handle struct {
	store *store

	closeOnce sync.Once
}

// Open loads the preferences at options.Path and returns the first
// handle to them. A missing file yields an empty store; an unreadable
// or unparseable one is logged and also yields an empty store.
func Open(options Options) *Handle {
	s := &store{
		path:     options.Path,
		clock:    options.Clock,
		logger:   options.Logger,
		minDelay: MinSaveDelay,
		maxDelay: MaxSaveDelay,
		values:   make(map[string]any),
		handles:  1,
	}
	if s.clock == nil {
		s.clock = clock.Real()
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if options.MinSaveDelay > 0 {
		s.minDelay = options.MinSaveDelay
	}
	if options.MaxSaveDelay > 0 {
		s.maxDelay = options.MaxSaveDelay
	}

	s.load()
	return &Handle{store: s}
}

// Clone returns another handle on the same store.
func (h *Handle) Clone() *Handle {
	h.store.mu.Lock()
	h.store.handles++
	h.store.mu.Unlock()
	return &Handle{store: h.store}
}

// Path returns the backing file path.
func (h *Handle) Path() string {
	return h.store.path
}

// Get returns the value stored under key.
func (h *Handle) Get(key string) (any, bool) {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()
	value, ok := h.store.values[key]
	return value, ok
}

// Keys returns a snapshot of the stored keys in no particular order.
func (h *Handle) Keys() []string {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()
	keys := make([]string, 0, len(h.store.values))
	for key := range h.store.values {
		keys = append(keys, key)
	}
	return keys
}

// Set stores value under key and schedules a save, unless the key
// already holds an equal value. A nil value deletes the key.
//
// Values should be JSON scalars. Numbers of any Go numeric type are
// stored as float64, the type a reload produces, so Set(k, 1) after a
// reload of {"k": 1} is a no-op.
func (h *Handle) Set(key string, value any) {
	if value == nil {
		h.Delete(key)
		return
	}
	value = normalizeValue(value)

	s := h.store
	s.mu.Lock()
	defer s.mu.Unlock()

	current, exists := s.values[key]
	if exists && reflect.DeepEqual(current, value) {
		return
	}
	s.values[key] = value
	s.scheduleSaveLocked()
}

// normalizeValue converts numbers to float64 and leaves other values
// alone.
func normalizeValue(value any) any {
	number := reflect.ValueOf(value)
	switch number.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(number.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(number.Uint())
	case reflect.Float32, reflect.Float64:
		return number.Float()
	}
	return value
}

// Delete removes key and schedules a save. Deleting an absent key does
// nothing.
func (h *Handle) Delete(key string) {
	s := h.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.values[key]; !exists {
		return
	}
	delete(s.values, key)
	s.scheduleSaveLocked()
}

// SavePending reports whether a save is scheduled but not yet written.
func (h *Handle) SavePending() bool {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()
	return h.store.minTimer != nil
}

// Close releases this handle. When the last handle is closed, a
// pending save is written synchronously and the timers are stopped.
// Closing the same handle again does nothing.
func (h *Handle) Close() {
	h.closeOnce.Do(func() {
		s := h.store
		s.mu.Lock()
		defer s.mu.Unlock()

		s.handles--
		if s.handles > 0 {
			return
		}
		if s.minTimer != nil {
			s.saveLocked()
		}
		s.stopTimersLocked()
	})
}

// scheduleSaveLocked restarts the min-delay timer and starts the
// max-delay timer if it is not already running. Must be called with
// s.mu held.
func (s *store) scheduleSaveLocked() {
	if s.minTimer != nil {
		s.minTimer.Stop()
	}
	s.minSequence++
	sequence := s.minSequence
	s.minTimer = s.clock.AfterFunc(s.minDelay, func() {
		s.timerFired(&s.minSequence, sequence)
	})

	if s.maxTimer == nil {
		s.maxSequence++
		sequence := s.maxSequence
		s.maxTimer = s.clock.AfterFunc(s.maxDelay, func() {
			s.timerFired(&s.maxSequence, sequence)
		})
	}
}

// timerFired saves if the firing timer is still the armed one.
func (s *store) timerFired(current *uint64, sequence uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if *current != sequence || (s.minTimer == nil && s.maxTimer == nil) {
		return
	}
	s.saveLocked()
}

// stopTimersLocked disarms both timers. Bumping the sequences makes
// any callback already waiting on s.mu a no-op.
func (s *store) stopTimersLocked() {
	if s.minTimer != nil {
		s.minTimer.Stop()
		s.minTimer = nil
	}
	if s.maxTimer != nil {
		s.maxTimer.Stop()
		s.maxTimer = nil
	}
	s.minSequence++
	s.maxSequence++
}

// saveLocked stops both timers and writes the whole map. Failures are
// logged. Must be called with s.mu held.
func (s *store) saveLocked() {
	s.stopTimersLocked()

	data, err := json.MarshalIndent(s.values, "", "    ")
	if err != nil {
		s.logger.Warn("encoding preferences failed", "path", s.path, "error", err)
		return
	}
	data = append(data, '\n')

	directory := filepath.Dir(s.path)
	if err := os.MkdirAll(directory, 0o755); err != nil {
		s.logger.Warn("creating preferences directory failed", "directory", directory, "error", err)
	}

	if err := writeFileAtomic(s.path, data); err != nil {
		s.logger.Warn("saving preferences failed", "error", err)
		return
	}
	s.logger.Debug("saved preferences", "path", s.path, "keys", len(s.values))
}

// load reads the backing file into s.values. JSON comments and
// trailing commas are tolerated so a hand-edited file still loads.
func (s *store) load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("reading preferences failed", "path", s.path, "error", err)
		}
		return
	}

	var values map[string]any
	if err := json.Unmarshal(jsonc.ToJSON(data), &values); err != nil {
		s.logger.Warn("parsing preferences failed", "path", s.path, "error", err)
		return
	}
	if values != nil {
		s.values = values
	}
	s.logger.Debug("loaded preferences", "path", s.path, "keys", len(s.values))
}

// writeFileAtomic writes data to a temporary file next to path and
// renames it into place, so a crash mid-write never leaves a truncated
// preferences file.
func writeFileAtomic(path string, data []byte) error {
	temporaryPath := path + ".tmp"

	file, err := os.OpenFile(temporaryPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating %s: %w", temporaryPath, err)
	}
	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("writing %s: %w", temporaryPath, err)
	}
	if err := file.Close(); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("closing %s: %w", temporaryPath, err)
	}
	if err := os.Rename(temporaryPath, path); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("renaming %s into place: %w", path, err)
	}
	return nil
}
