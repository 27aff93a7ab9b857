// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package clipboard

import "sync"

// Memory is an in-process clipboard. SetText notifies subscribers
// synchronously, on the caller's goroutine, when the text changes.
type Memory struct {
	mutex       sync.Mutex
	texts       [2]string
	subscribers subscribers
}

// NewMemory returns a Memory whose general clipboard holds text.
func NewMemory(text string) *Memory {
	memory := &Memory{}
	memory.texts[General] = text
	return memory
}

// Text returns the text held by source.
func (m *Memory) Text(source Source) string {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if source != Selection && source != General {
		return ""
	}
	return m.texts[source]
}

// SetText replaces the text held by source and notifies subscribers if
// it changed.
func (m *Memory) SetText(source Source, text string) {
	m.mutex.Lock()
	changed := m.texts[source] != text
	m.texts[source] = text
	m.mutex.Unlock()

	if changed {
		m.subscribers.notify()
	}
}

// Touch notifies subscribers without changing any text, like a
// clipboard owner re-announcing identical content.
func (m *Memory) Touch() {
	m.subscribers.notify()
}

// OnChange subscribes to changes.
func (m *Memory) OnChange(callback func()) func() {
	return m.subscribers.add(callback)
}

// Subscribers returns the number of active subscriptions.
func (m *Memory) Subscribers() int {
	return m.subscribers.count()
}
