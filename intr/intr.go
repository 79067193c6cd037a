// Copyright 2015 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package intr models the interrupt-enable gate that every scheduler-visible
// mutation in kthread and ksync runs behind. On real hardware this is the
// cli/sti pair around a single CPU's flags register; here the single
// simulated CPU is a baton passed between goroutines (see kthread), so the
// gate is simply a flag recording whether the thread currently holding that
// baton has interrupts enabled.
//
// A Gate is not safe for concurrent use by more than one goroutine at a
// time: that is the point. Exactly one goroutine holds the baton at any
// instant, and only that goroutine may call Disable or SetLevel.
package intr

// Level records whether interrupts were enabled (true) or disabled (false)
// at some prior point, so that it can later be restored with SetLevel.
type Level bool

const (
	// Enabled is the level at which the timer tick and other asynchronous
	// events may run.
	Enabled Level = true
	// Disabled is the level during which scheduler state may be mutated
	// without fear of concurrent modification.
	Disabled Level = false
)

// Gate tracks the interrupt-enable state of one simulated CPU and whether
// the current call stack is running as an interrupt handler.
type Gate struct {
	level     Level
	inHandler bool
}

// NewGate returns a Gate with interrupts initially enabled.
func NewGate() *Gate {
	return &Gate{level: Enabled}
}

// Disable turns interrupts off and returns the level that was in effect
// beforehand, so the caller can restore it with SetLevel. Disable is
// idempotent: disabling an already-disabled gate simply returns Disabled.
func (g *Gate) Disable() Level {
	prior := g.level
	g.level = Disabled
	return prior
}

// SetLevel restores a previously saved interrupt level.
func (g *Gate) SetLevel(prior Level) {
	g.level = prior
}

// Enabled reports whether interrupts are currently enabled.
func (g *Gate) Enabled() bool {
	return g.level == Enabled
}

// InContext reports whether the current call stack is running as an
// interrupt handler (see EnterContext). Operations that may block, such as
// thread_block or lock_acquire, are forbidden while this is true.
func (g *Gate) InContext() bool {
	return g.inHandler
}

// EnterContext marks the extent of an interrupt handler invoked on top of
// the interrupted thread's own stack, mirroring how a real timer ISR runs
// without a stack switch. It returns a function that leaves the context;
// callers are expected to defer it.
func (g *Gate) EnterContext() (leave func()) {
	prior := g.inHandler
	g.inHandler = true
	return func() { g.inHandler = prior }
}
