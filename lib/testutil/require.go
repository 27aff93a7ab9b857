// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"fmt"
	"time"
)

// fataler is the part of testing.TB the channel helpers need.
type fataler interface {
	Helper()
	Fatalf(format string, args ...any)
}

// RequireReceive returns the next value from ch, failing the test if
// none arrives within timeout or ch is closed first.
//
//	message := testutil.RequireReceive(t, messages, 5*time.Second, "waiting for the raise")
func RequireReceive[T any](t fataler, ch <-chan T, timeout time.Duration, msgAndArgs ...any) T {
	t.Helper()
	timer := time.NewTimer(timeout) //nolint:realclock test hang prevention
	defer timer.Stop()
	select {
	case value, ok := <-ch:
		if !ok {
			t.Fatalf("channel closed before a value arrived: %s", describe(msgAndArgs))
		}
		return value
	case <-timer.C:
		t.Fatalf("nothing received within %v: %s", timeout, describe(msgAndArgs))
	}
	panic("unreachable")
}

// RequireNoReceive fails the test if ch yields a value within wait.
// Pass zero to check only what is already buffered.
//
//	testutil.RequireNoReceive(t, display.Changed(), 0, "updates were not coalesced")
func RequireNoReceive[T any](t fataler, ch <-chan T, wait time.Duration, msgAndArgs ...any) {
	t.Helper()
	if wait <= 0 {
		select {
		case value := <-ch:
			t.Fatalf("unexpected value %v: %s", value, describe(msgAndArgs))
		default:
		}
		return
	}
	timer := time.NewTimer(wait) //nolint:realclock bounded negative check
	defer timer.Stop()
	select {
	case value := <-ch:
		t.Fatalf("unexpected value %v: %s", value, describe(msgAndArgs))
	case <-timer.C:
	}
}

// RequireClosed waits for ch to be closed (or to yield a value) within
// timeout. Use it for done channels.
//
//	testutil.RequireClosed(t, done, 5*time.Second, "poller stopped")
func RequireClosed(t fataler, ch <-chan struct{}, timeout time.Duration, msgAndArgs ...any) {
	t.Helper()
	RequireReceive(t, closedSignal(ch), timeout, msgAndArgs...)
}

// closedSignal turns "closed or sent" into a single value.
func closedSignal(ch <-chan struct{}) <-chan struct{} {
	signal := make(chan struct{}, 1)
	go func() {
		<-ch
		signal <- struct{}{}
	}()
	return signal
}

// describe renders the optional message: a plain string, or a format
// string followed by its arguments.
func describe(msgAndArgs []any) string {
	switch {
	case len(msgAndArgs) == 0:
		return "(no message)"
	case len(msgAndArgs) == 1:
		return fmt.Sprint(msgAndArgs[0])
	}
	if format, ok := msgAndArgs[0].(string); ok {
		return fmt.Sprintf(format, msgAndArgs[1:]...)
	}
	return fmt.Sprint(msgAndArgs...)
}
