// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package qrview

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// logRecordMsg delivers a slog record to the model for display in the
// status line.
type logRecordMsg struct {
	Summary string
	Level   slog.Level
}

// noticeFadeDelay is how long notices stay in the status line before
// it returns to showing the encoded text.
const noticeFadeDelay = 5 * time.Second

// Sender delivers messages into a running program. *tea.Program
// implements it.
type Sender interface {
	Send(message tea.Msg)
}

// programSlot is shared by a handler and everything derived from it.
type programSlot struct {
	mu     sync.RWMutex
	sender Sender
}

// TUILogHandler is a slog.Handler that routes log records into the
// bubbletea program as status line notices. Records below the
// configured level are dropped, as are records that arrive before
// SetProgram.
//
// Handlers derived via WithAttrs/WithGroup share the program slot, so
// a single SetProgram call reaches all of them.
type TUILogHandler struct {
	level slog.Level
	slot  *programSlot
	attrs []slog.Attr
	group string
}

// NewTUILogHandler creates a handler for records at or above level.
func NewTUILogHandler(level slog.Level) *TUILogHandler {
	return &TUILogHandler{level: level, slot: &programSlot{}}
}

// SetProgram connects the handler to a program. Safe to call from any
// goroutine.
func (handler *TUILogHandler) SetProgram(sender Sender) {
	handler.slot.mu.Lock()
	defer handler.slot.mu.Unlock()
	handler.slot.sender = sender
}

// Enabled reports whether the handler is interested in level.
func (handler *TUILogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= handler.level
}

// Handle formats the record as "message (key=value, ...)" and sends
// it to the program.
func (handler *TUILogHandler) Handle(_ context.Context, record slog.Record) error {
	handler.slot.mu.RLock()
	sender := handler.slot.sender
	handler.slot.mu.RUnlock()
	if sender == nil {
		return nil
	}

	var attrParts []string
	for _, attr := range handler.attrs {
		attrParts = append(attrParts, fmt.Sprintf("%s=%s", attr.Key, attr.Value))
	}
	record.Attrs(func(attr slog.Attr) bool {
		key := attr.Key
		if handler.group != "" {
			key = handler.group + "." + key
		}
		attrParts = append(attrParts, fmt.Sprintf("%s=%s", key, attr.Value))
		return true
	})

	summary := record.Message
	if len(attrParts) > 0 {
		summary += " (" + strings.Join(attrParts, ", ") + ")"
	}

	// Send blocks until the program reads it, so it must not run on
	// the bubbletea goroutine itself.
	go sender.Send(logRecordMsg{Summary: summary, Level: record.Level})
	return nil
}

// WithAttrs returns a handler that adds attrs to every record.
func (handler *TUILogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	derived := make([]slog.Attr, 0, len(handler.attrs)+len(attrs))
	derived = append(derived, handler.attrs...)
	for _, attr := range attrs {
		if handler.group != "" {
			attr.Key = handler.group + "." + attr.Key
		}
		derived = append(derived, attr)
	}
	return &TUILogHandler{level: handler.level, slot: handler.slot, attrs: derived, group: handler.group}
}

// WithGroup returns a handler that prefixes later keys with name.
func (handler *TUILogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return handler
	}
	group := name
	if handler.group != "" {
		group = handler.group + "." + name
	}
	return &TUILogHandler{level: handler.level, slot: handler.slot, attrs: handler.attrs, group: group}
}
