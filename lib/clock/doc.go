// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time abstraction so that timer
// driven behavior (preference save debouncing, clipboard polling) can
// be tested deterministically.
//
// Production code holds a Clock field set to Real(). Tests use Fake(),
// which only moves when Advance is called:
//
//	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	store := prefs.Open(prefs.Options{Path: path, Clock: c})
//	store.Set("alwaysOnTop", true)
//	c.Advance(500 * time.Millisecond) // min-delay timer fires, file written
//
// AfterFunc callbacks registered on a FakeClock run synchronously inside
// Advance, in deadline order. Ticker and After waiters receive on their
// channels. WaitForTimers lets a test block until a goroutine has
// registered its timer before advancing.
package clock
