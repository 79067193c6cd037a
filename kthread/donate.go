// Copyright 2015 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kthread

import "v.io/x/kernel/vlog"

// Donate records that donor is now blocked waiting for lock, and
// propagates donor's priority transitively along the chain of threads
// each waiting on the lock held by the next, raising every holder's
// effective priority that donor's outranks. The walk stops as soon as a
// holder already dominates donor's priority, or the chain runs out
// (wait_on_lock becomes nil): further holders, if any, are already
// raised by an earlier donation and need no further work.
//
// Donate and Withdraw are the two halves of the donation engine that
// ksync.Lock calls into; they live here, rather than in ksync, because
// they must reposition threads within the ready queue, which is kthread's
// data structure.
func (k *Kernel) Donate(donor *Thread, lock Lock) {
	prior := k.gate.Disable()
	defer k.gate.SetLevel(prior)

	donor.WaitOnLock = lock
	if k.mlfqs {
		return
	}
	holder := lock.LockHolder()
	if holder == nil {
		return
	}
	holder.addDonor(donor)

	for h := holder; h != nil && donor.Priority > h.Priority; {
		h.Priority = donor.Priority
		k.reposition(h)
		vlog.Log.VI(2).Infof("kthread: donate %s -> %s", donor, h)
		next := h.WaitOnLock
		if next == nil {
			break
		}
		h = next.LockHolder()
	}
}

// Withdraw prunes every donor whose WaitOnLock is lock from current's
// donor list, then recomputes current's effective priority from its base
// and any remaining donors. Called when a lock is released by its holder,
// current.
func (k *Kernel) Withdraw(current *Thread, lock Lock) {
	prior := k.gate.Disable()
	defer k.gate.SetLevel(prior)

	current.removeDonorsFor(lock)
	current.recomputePriority()
	k.reposition(current)
}

// ClearWait records that t is no longer trying to acquire any lock,
// called once an acquire succeeds.
func (k *Kernel) ClearWait(t *Thread) {
	prior := k.gate.Disable()
	t.WaitOnLock = nil
	k.gate.SetLevel(prior)
}
