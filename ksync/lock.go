// Copyright 2015 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ksync

import "v.io/x/kernel/kthread"

// Lock is a specialization of a Semaphore with an initial value of one: at
// most one thread may hold it at a time, and the thread that acquires it
// must be the one that releases it. Unlike a Semaphore, a Lock runs the
// priority donation protocol: a thread blocked acquiring a Lock held by a
// lower-priority thread temporarily raises that holder's priority, and
// transitively raises whatever the holder is itself waiting on.
//
// Lock implements kthread.Lock so the donation engine in kthread can ask
// who currently holds it without kthread importing ksync.
type Lock struct {
	sema   *Semaphore
	holder *kthread.Thread
}

// NewLock returns an unheld Lock.
func NewLock(k *kthread.Kernel) *Lock {
	return &Lock{sema: NewSemaphore(k, 1)}
}

// Acquire blocks until the lock is free, donating the calling thread's
// priority to the current holder (and transitively, along the holder's own
// wait chain) while it waits. The lock must not already be held by the
// calling thread.
func (l *Lock) Acquire() {
	k := l.sema.k
	current := k.Current()
	k.Assert(!k.Gate().InContext(), "Lock.Acquire called from interrupt context")
	k.Assert(l.holder != current, "Lock.Acquire: already held by the calling thread")

	if l.holder != nil {
		k.Donate(current, l)
	}
	l.sema.Down()
	k.ClearWait(current)
	l.holder = current
}

// TryAcquire acquires the lock without blocking, returning false if it was
// already held. It runs no donation, matching the original: a thread that
// isn't going to wait has nothing to donate for.
func (l *Lock) TryAcquire() bool {
	k := l.sema.k
	k.Assert(l.holder != k.Current(), "Lock.TryAcquire: already held by the calling thread")
	if !l.sema.TryDown() {
		return false
	}
	l.holder = k.Current()
	return true
}

// Release releases the lock, which must be held by the calling thread. Any
// priority donated on account of this lock is withdrawn before the next
// waiter (if any) is woken, so the releasing thread's priority immediately
// reflects only its base priority and whatever it is owed by its other
// held locks.
func (l *Lock) Release() {
	k := l.sema.k
	k.Assert(l.HeldByCurrent(), "Lock.Release: not held by the calling thread")
	current := l.holder
	l.holder = nil
	k.Withdraw(current, l)
	l.sema.Up()
}

// HeldByCurrent reports whether the calling thread holds the lock.
func (l *Lock) HeldByCurrent() bool {
	return l.holder == l.sema.k.Current()
}

// LockHolder returns the thread currently holding the lock, or nil. It is
// the method that satisfies kthread.Lock.
func (l *Lock) LockHolder() *kthread.Thread {
	return l.holder
}
