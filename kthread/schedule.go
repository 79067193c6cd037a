// Copyright 2015 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kthread

import "v.io/x/kernel/vlog"

// pickNext removes and returns the next thread to run: the highest
// priority ready thread, FIFO among ties, or the idle thread if none is
// ready.
func (k *Kernel) pickNext() *Thread {
	if t := k.ready.popFront(); t != nil {
		return t
	}
	return k.idle
}

// contextSwitch hands the CPU baton to incoming. It must be called with
// interrupts disabled by the goroutine currently holding the baton
// (k.current). If incoming differs from the outgoing thread, this
// function sends on incoming's channel to resume it and then, unless the
// outgoing thread is exiting, blocks on the outgoing thread's own channel
// until some later schedule decision resumes it. A thread therefore
// "returns" from a call that suspended it (Block, Sleep, Wait, Yield, the
// time-sliced path of Tick) exactly where it left off, with the CPU once
// again to itself.
func (k *Kernel) contextSwitch(incoming *Thread) {
	outgoing := k.current
	k.current = incoming
	incoming.Status = Running
	if outgoing == incoming {
		return
	}
	vlog.Log.VI(2).Infof("kthread: switch %s -> %s", outgoing, incoming)
	incoming.wake <- struct{}{}
	if outgoing.Status != Dying {
		<-outgoing.wake
	}
}

// schedule picks the next thread to run and switches to it. Callers must
// already hold the interrupt gate disabled.
func (k *Kernel) schedule() {
	k.contextSwitch(k.pickNext())
}

// reposition moves t within the ready queue if it is currently queued,
// used after a priority change (donation or SetPriority) so the queue's
// descending-priority invariant holds.
func (k *Kernel) reposition(t *Thread) {
	if t.Status == Ready && k.ready.remove(t) {
		k.ready.insert(t)
	}
}

// unblock transitions a Blocked thread to Ready and inserts it into the
// ready queue. It does not yield; callers that need immediate preemption
// call PreemptionCheck afterward.
func (k *Kernel) unblock(t *Thread) {
	if t.Status != Blocked {
		panic("kthread: unblock of a thread that is not BLOCKED")
	}
	t.Status = Ready
	t.ticksInSlice = 0
	k.ready.insert(t)
}

// Unblock makes a blocked thread ready to run. It is safe to call from
// interrupt context.
func (k *Kernel) Unblock(t *Thread) {
	prior := k.gate.Disable()
	k.unblock(t)
	k.gate.SetLevel(prior)
}

// Block deschedules the calling thread until some other thread unblocks
// it. Must not be called from interrupt context.
func (k *Kernel) Block() {
	if k.gate.InContext() {
		k.Panic("kthread: Block called from interrupt context")
	}
	prior := k.gate.Disable()
	current := k.current
	current.Status = Blocked
	k.schedule()
	k.gate.SetLevel(prior)
}

// Yield gives up the CPU, if any other thread is ready to use it. The
// calling thread is reinserted into the ready queue at its current
// priority; it may be chosen again immediately if no other thread
// outranks it.
func (k *Kernel) Yield() {
	if k.gate.InContext() {
		k.Panic("kthread: Yield called from interrupt context")
	}
	prior := k.gate.Disable()
	current := k.current
	if current != k.idle {
		current.Status = Ready
		k.ready.insert(current)
	}
	k.schedule()
	k.gate.SetLevel(prior)
}

// Exit transitions the calling thread to Dying and schedules its
// successor. It returns once the CPU has been handed off; the exiting
// thread's goroutine no longer holds the CPU at that point.
func (k *Kernel) Exit() {
	prior := k.gate.Disable()
	current := k.current
	current.Status = Dying
	k.liveTids.Remove(current.Tid)
	vlog.Log.VI(1).Infof("kthread: exit %s", current)
	k.schedule()
	k.gate.SetLevel(prior)
}

// PreemptionCheck yields the CPU if the ready queue's head strictly
// outranks the currently running thread.
func (k *Kernel) PreemptionCheck() {
	prior := k.gate.Disable()
	front := k.ready.front()
	shouldYield := front != nil && front.Priority > k.current.Priority
	k.gate.SetLevel(prior)
	if shouldYield {
		k.Yield()
	}
}
