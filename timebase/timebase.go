// Copyright 2015 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package timebase drives a kthread.Kernel's logical tick counter. The
// kernel itself has no notion of wall-clock time: Tick is just a method
// call, advanced however a driver sees fit. timebase supplies two such
// drivers: Step, for deterministic tests and scenarios that want to
// control ticks one at a time, and a Driver, for cmd/kerneldemo, which
// wants the scheduler to free-run against a real clock the way a booted
// kernel would.
package timebase

import (
	"time"

	"v.io/x/kernel/kthread"
	"v.io/x/kernel/nsync"
)

// Step advances k by n ticks, synchronously, on the calling goroutine.
// It is the deterministic counterpart to Driver, suitable for tests and
// scripted scenarios that need to land on an exact tick count.
func Step(k *kthread.Kernel, n int64) {
	for i := int64(0); i < n; i++ {
		k.Tick()
	}
}

// Driver signals a fixed wall-clock frequency, the way a real timer
// interrupt would, for callers that want the scheduler to run live rather
// than be driven tick-by-tick by Step. It mirrors the ticker-driven
// notifier goroutine netconfig uses to poll for network changes, except
// the ticker goroutine never touches kernel state itself: only one
// goroutine is ever allowed to execute kthread/ksync code at a time (see
// the kthread package doc comment), and the ticker's own goroutine is not
// that goroutine. Instead Driver coalesces ticks onto a channel that
// whatever goroutine currently holds the simulated CPU drains and turns
// into a k.Tick() call on its own terms, the same way the timer ISR can
// only act once it has acquired the interrupts-disabled gate.
type Driver struct {
	period time.Duration

	// mu guards ticker/stopped against concurrent Start/Stop calls racing
	// the ticker goroutine's own lifetime checks; this is the one place in
	// the module with genuine multicore concurrency (an unbounded number
	// of real goroutines, not the single simulated CPU kthread serializes),
	// so it uses nsync.Mu rather than kthread's own gate.
	mu      nsync.Mu
	ticker  *time.Ticker
	stopped chan struct{}
	fired   chan struct{}
}

// NewDriver returns a Driver that signals once per period once Start is
// called. The returned channel from C coalesces ticks that arrive faster
// than the consumer drains them, the same way a real timer interrupt that
// fires while interrupts are disabled is merely deferred, not queued.
func NewDriver(period time.Duration) *Driver {
	return &Driver{period: period, fired: make(chan struct{}, 1)}
}

// C returns the channel a tick is signalled on. Receiving from C and
// calling kthread.Kernel.Tick must happen on whichever goroutine
// currently holds the simulated CPU.
func (d *Driver) C() <-chan struct{} {
	return d.fired
}

// Start begins signalling C in a background goroutine. Start is a no-op
// if the driver is already running.
func (d *Driver) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.ticker != nil {
		return
	}
	d.ticker = time.NewTicker(d.period)
	d.stopped = make(chan struct{})
	ticker, stopped := d.ticker, d.stopped
	go func() {
		for {
			select {
			case <-ticker.C:
				select {
				case d.fired <- struct{}{}:
				default:
				}
			case <-stopped:
				return
			}
		}
	}()
}

// Stop halts the background goroutine started by Start. Stop is a no-op
// if the driver is not running.
func (d *Driver) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.ticker == nil {
		return
	}
	d.ticker.Stop()
	close(d.stopped)
	d.ticker = nil
	d.stopped = nil
}
