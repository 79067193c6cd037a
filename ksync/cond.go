// Copyright 2015 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ksync

import "v.io/x/kernel/kthread"

// condWaiter pairs a blocked thread with the private, single-use
// semaphore it is parked on, so Signal can pick the highest-priority
// waiter before waking anyone.
type condWaiter struct {
	thread *kthread.Thread
	sema   *Semaphore
}

// CondVar is a Mesa-style condition variable: Wait atomically releases an
// associated Lock and blocks, Signal and Broadcast wake one or all waiters
// but do not reacquire the lock on their behalf. A waiter that wakes from
// Wait must generally recheck the condition it waited for, since waking
// and acting on it are not atomic.
//
// A CondVar may be associated with only one Lock over its lifetime, though
// a single Lock may back more than one CondVar.
type CondVar struct {
	waiters []*condWaiter
}

// NewCondVar returns an empty condition variable.
func NewCondVar() *CondVar {
	return &CondVar{}
}

// Wait atomically releases l and blocks the calling thread until some
// other code signals this condition variable, then reacquires l before
// returning. The calling thread must hold l.
func (c *CondVar) Wait(l *Lock) {
	k := l.sema.k
	k.Assert(!k.Gate().InContext(), "CondVar.Wait called from interrupt context")
	k.Assert(l.HeldByCurrent(), "CondVar.Wait: lock not held by the calling thread")

	w := &condWaiter{thread: k.Current(), sema: NewSemaphore(k, 0)}
	c.waiters = append(c.waiters, w)
	l.Release()
	w.sema.Down()
	l.Acquire()
}

// Signal wakes the highest-priority thread waiting on this condition
// variable, if any. The calling thread must hold l, the lock associated
// with this condition variable's waiters.
func (c *CondVar) Signal(l *Lock) {
	k := l.sema.k
	k.Assert(l.HeldByCurrent(), "CondVar.Signal: lock not held by the calling thread")
	if len(c.waiters) == 0 {
		return
	}
	best := 0
	for i, w := range c.waiters {
		if w.thread.Priority > c.waiters[best].thread.Priority {
			best = i
		}
	}
	w := c.waiters[best]
	c.waiters = append(c.waiters[:best], c.waiters[best+1:]...)
	w.sema.Up()
}

// Broadcast wakes every thread currently waiting on this condition
// variable. The calling thread must hold l.
func (c *CondVar) Broadcast(l *Lock) {
	for len(c.waiters) > 0 {
		c.Signal(l)
	}
}
