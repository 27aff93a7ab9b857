// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"context"
	"log/slog"
	"strings"
	"sync"
)

// LogRecord is one captured slog record, flattened to its level,
// message, and attributes.
type LogRecord struct {
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

// LogRecorder is an slog.Handler that keeps every record it receives.
// Attributes added with WithAttrs are merged into each record; groups
// are flattened with "." separators.
type LogRecorder struct {
	shared *logRecords
	attrs  []slog.Attr
	group  string
}

type logRecords struct {
	mutex   sync.Mutex
	records []LogRecord
}

// NewLogRecorder returns a recorder and a logger that writes to it at
// every level, including Debug.
func NewLogRecorder() (*LogRecorder, *slog.Logger) {
	recorder := &LogRecorder{shared: &logRecords{}}
	return recorder, slog.New(recorder)
}

// Enabled accepts every level.
func (r *LogRecorder) Enabled(context.Context, slog.Level) bool { return true }

// Handle stores the record.
func (r *LogRecorder) Handle(_ context.Context, record slog.Record) error {
	attrs := make(map[string]any)
	for _, attr := range r.attrs {
		attrs[attr.Key] = attr.Value.Any()
	}
	record.Attrs(func(attr slog.Attr) bool {
		key := attr.Key
		if r.group != "" {
			key = r.group + "." + key
		}
		attrs[key] = attr.Value.Any()
		return true
	})

	r.shared.mutex.Lock()
	defer r.shared.mutex.Unlock()
	r.shared.records = append(r.shared.records, LogRecord{
		Level:   record.Level,
		Message: record.Message,
		Attrs:   attrs,
	})
	return nil
}

// WithAttrs returns a recorder sharing storage that adds attrs to
// every record.
func (r *LogRecorder) WithAttrs(attrs []slog.Attr) slog.Handler {
	prefixed := make([]slog.Attr, len(attrs))
	for i, attr := range attrs {
		if r.group != "" {
			attr.Key = r.group + "." + attr.Key
		}
		prefixed[i] = attr
	}
	return &LogRecorder{
		shared: r.shared,
		attrs:  append(append([]slog.Attr{}, r.attrs...), prefixed...),
		group:  r.group,
	}
}

// WithGroup returns a recorder sharing storage that prefixes later
// attribute keys with name.
func (r *LogRecorder) WithGroup(name string) slog.Handler {
	if name == "" {
		return r
	}
	group := name
	if r.group != "" {
		group = r.group + "." + name
	}
	return &LogRecorder{shared: r.shared, attrs: r.attrs, group: group}
}

// Records returns a snapshot of everything captured so far.
func (r *LogRecorder) Records() []LogRecord {
	r.shared.mutex.Lock()
	defer r.shared.mutex.Unlock()
	return append([]LogRecord(nil), r.shared.records...)
}

// Contains reports whether any record at level has a message
// containing substring.
func (r *LogRecorder) Contains(level slog.Level, substring string) bool {
	for _, record := range r.Records() {
		if record.Level == level && strings.Contains(record.Message, substring) {
			return true
		}
	}
	return false
}
