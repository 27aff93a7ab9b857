// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"sort"
	"sync"
	"time"
)

// Fake returns a FakeClock set to initial. Time stands still until
// Advance is called.
//
// FakeClock is safe for concurrent use by multiple goroutines.
func Fake(initial time.Time) *FakeClock {
	clock := &FakeClock{
		current: initial,
	}
	clock.waitersChanged = sync.NewCond(&clock.mu)
	return clock
}

// FakeClock is a deterministic Clock for tests.
//
// AfterFunc callbacks run synchronously during Advance in deadline
// order. Callbacks may stop, reset, or create timers; they must not
// call Advance.
type FakeClock struct {
	mu             sync.Mutex
	current        time.Time
	waiters        []*fakeWaiter
	waitersChanged *sync.Cond
}

// fakeWaiter is a pending After, AfterFunc, or ticker registration.
type fakeWaiter struct {
	deadline time.Time

	// channel receives the fire time for After and ticker waiters.
	channel chan time.Time

	// callback runs during Advance for AfterFunc waiters.
	callback func()

	// interval is non-zero for tickers; they are rescheduled at
	// deadline + interval after each firing.
	interval time.Duration

	// armed is false once the waiter fired (one-shot) or was stopped.
	armed bool

	// queued tracks membership in FakeClock.waiters so a Reset after
	// Stop does not register the same waiter twice.
	queued bool
}

// Now returns the current fake time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// After returns a channel that receives once the clock advances d.
func (c *FakeClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	channel := make(chan time.Time, 1)
	if d <= 0 {
		channel <- c.current
		return channel
	}
	c.enqueueLocked(&fakeWaiter{
		deadline: c.current.Add(d),
		channel:  channel,
		armed:    true,
	})
	return channel
}

// AfterFunc schedules f to run when the clock advances d. If d <= 0,
// f runs before AfterFunc returns.
func (c *FakeClock) AfterFunc(d time.Duration, f func()) *Timer {
	if d <= 0 {
		f()
		return &Timer{
			stopFunc:  func() bool { return false },
			resetFunc: func(time.Duration) bool { return false },
		}
	}

	c.mu.Lock()
	waiter := &fakeWaiter{
		deadline: c.current.Add(d),
		callback: f,
		armed:    true,
	}
	c.enqueueLocked(waiter)
	c.mu.Unlock()

	return &Timer{
		stopFunc: func() bool {
			c.mu.Lock()
			defer c.mu.Unlock()
			wasArmed := waiter.armed
			waiter.armed = false
			return wasArmed
		},
		resetFunc: func(d time.Duration) bool {
			c.mu.Lock()
			defer c.mu.Unlock()
			wasArmed := waiter.armed
			waiter.armed = true
			waiter.deadline = c.current.Add(d)
			if !waiter.queued {
				c.enqueueLocked(waiter)
			}
			return wasArmed
		},
	}
}

// NewTicker returns a Ticker that ticks every d of fake time.
func (c *FakeClock) NewTicker(d time.Duration) *Ticker {
	if d <= 0 {
		panic("clock: non-positive interval for NewTicker")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	channel := make(chan time.Time, 1)
	waiter := &fakeWaiter{
		deadline: c.current.Add(d),
		channel:  channel,
		interval: d,
		armed:    true,
	}
	c.enqueueLocked(waiter)

	return &Ticker{
		C: channel,
		stopFunc: func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			waiter.armed = false
		},
	}
}

// Advance moves the clock forward by d and fires every waiter whose
// deadline is reached, in deadline order. Channel sends never block.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.current = c.current.Add(d)
	target := c.current
	c.mu.Unlock()

	for {
		toFire := c.collectExpired(target)
		if len(toFire) == 0 {
			return
		}
		for _, waiter := range toFire {
			if waiter.callback != nil {
				waiter.callback()
			} else if waiter.channel != nil {
				select {
				case waiter.channel <- target:
				default:
				}
			}
		}
	}
}

// collectExpired removes expired and disarmed waiters from the list,
// reschedules tickers, and returns the waiters to fire sorted by
// deadline.
func (c *FakeClock) collectExpired(target time.Time) []*fakeWaiter {
	c.mu.Lock()
	defer c.mu.Unlock()

	var toFire []*fakeWaiter
	remaining := c.waiters[:0]
	for _, waiter := range c.waiters {
		switch {
		case !waiter.armed:
			waiter.queued = false
		case !waiter.deadline.After(target):
			toFire = append(toFire, waiter)
		default:
			remaining = append(remaining, waiter)
		}
	}

	sort.SliceStable(toFire, func(i, j int) bool {
		return toFire[i].deadline.Before(toFire[j].deadline)
	})

	for _, waiter := range toFire {
		if waiter.interval > 0 {
			waiter.deadline = waiter.deadline.Add(waiter.interval)
			remaining = append(remaining, waiter)
		} else {
			waiter.armed = false
			waiter.queued = false
		}
	}

	c.waiters = remaining
	return toFire
}

// enqueueLocked adds waiter to the pending list. Must be called with
// c.mu held.
func (c *FakeClock) enqueueLocked(waiter *fakeWaiter) {
	waiter.queued = true
	c.waiters = append(c.waiters, waiter)
	c.waitersChanged.Broadcast()
}

// WaitForTimers blocks until at least n waiters are armed. Use it to
// wait for a goroutine to register its ticker before calling Advance.
func (c *FakeClock) WaitForTimers(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for c.pendingCountLocked() < n {
		c.waitersChanged.Wait()
	}
}

// PendingCount returns the number of armed waiters.
func (c *FakeClock) PendingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pendingCountLocked()
}

func (c *FakeClock) pendingCountLocked() int {
	count := 0
	for _, waiter := range c.waiters {
		if waiter.armed {
			count++
		}
	}
	return count
}
