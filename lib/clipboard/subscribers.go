// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package clipboard

import "sync"

// subscribers is the callback registry shared by Notifier
// implementations.
type subscribers struct {
	mutex     sync.Mutex
	callbacks map[uint64]func()
	nextID    uint64
}

func (s *subscribers) add(callback func()) func() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.callbacks == nil {
		s.callbacks = make(map[uint64]func())
	}
	id := s.nextID
	s.nextID++
	s.callbacks[id] = callback

	return func() {
		s.mutex.Lock()
		defer s.mutex.Unlock()
		delete(s.callbacks, id)
	}
}

// notify calls every subscriber without holding the registry lock, so
// callbacks may subscribe or cancel.
func (s *subscribers) notify() {
	s.mutex.Lock()
	callbacks := make([]func(), 0, len(s.callbacks))
	for _, callback := range s.callbacks {
		callbacks = append(callbacks, callback)
	}
	s.mutex.Unlock()

	for _, callback := range callbacks {
		callback()
	}
}

func (s *subscribers) count() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return len(s.callbacks)
}
