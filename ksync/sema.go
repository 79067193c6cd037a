// Copyright 2015 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ksync implements the synchronization primitives built on top of
// kthread's scheduler: a counting Semaphore, a Lock that runs the priority
// donation protocol across it, and a condition variable. None of these
// types touch kthread's internal queues directly; they drive the
// scheduler exclusively through its exported API (Block, Unblock, Create,
// Donate, Withdraw), the same separation kthread.Lock's interface is
// designed to preserve.
package ksync

import "v.io/x/kernel/kthread"

// Semaphore is a nonnegative counter with two atomic operations: Down
// waits for the counter to become positive and then decrements it, Up
// increments it and wakes one waiter, highest priority first.
type Semaphore struct {
	k       *kthread.Kernel
	value   int
	waiters []*kthread.Thread
}

// NewSemaphore returns a Semaphore initialized to value.
func NewSemaphore(k *kthread.Kernel, value int) *Semaphore {
	return &Semaphore{k: k, value: value}
}

// Down waits for the semaphore to become positive and then atomically
// decrements it. Must not be called from interrupt context, though it may
// be called with interrupts already disabled; if the calling thread
// blocks, the next thread scheduled in runs with interrupts as it expects
// them.
func (s *Semaphore) Down() {
	k := s.k
	k.Assert(!k.Gate().InContext(), "Semaphore.Down called from interrupt context")
	for s.value == 0 {
		s.waiters = append(s.waiters, k.Current())
		k.Block()
	}
	s.value--
}

// TryDown decrements the semaphore and returns true only if it was
// already positive; otherwise it returns false without blocking. Safe to
// call from interrupt context.
func (s *Semaphore) TryDown() bool {
	if s.value == 0 {
		return false
	}
	s.value--
	return true
}

// Up increments the semaphore and, if any thread is waiting, wakes the
// highest-priority one (FIFO among ties). Waiter priorities are read at
// wake time rather than at Down time, since donation may have raised a
// waiter's priority after it queued. Safe to call from interrupt context.
func (s *Semaphore) Up() {
	k := s.k
	if len(s.waiters) > 0 {
		best := 0
		for i, w := range s.waiters {
			if w.Priority > s.waiters[best].Priority {
				best = i
			}
		}
		w := s.waiters[best]
		s.waiters = append(s.waiters[:best], s.waiters[best+1:]...)
		k.Unblock(w)
	}
	s.value++
	if !k.Gate().InContext() {
		k.PreemptionCheck()
	}
}
