// Copyright 2015 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kthread

// Sleep blocks the calling thread until the kernel's tick counter reaches
// now+ticks. A non-positive duration is a no-op, matching the source's
// treatment of timer_sleep(0).
func (k *Kernel) Sleep(ticks int64) {
	if ticks <= 0 {
		return
	}
	if k.gate.InContext() {
		k.Panic("kthread: Sleep called from interrupt context")
	}
	prior := k.gate.Disable()
	t := k.current
	t.WakeupTick = k.now + ticks
	k.sleep.insert(t)
	t.Status = Blocked
	k.schedule()
	k.gate.SetLevel(prior)
}

// Tick advances the kernel's tick counter by one, wakes every sleeper
// whose wakeup has elapsed, runs the MLFQS bookkeeping if enabled, and
// finally either force-yields the running thread (time slice exhausted)
// or runs the ordinary preemption check. Tick plays the role of the
// periodic timer ISR; see the package doc comment for why it is an
// explicit call here rather than an asynchronous one.
func (k *Kernel) Tick() {
	leave := k.gate.EnterContext()

	prior := k.gate.Disable()
	k.now++
	for {
		front := k.sleep.front()
		if front == nil || front.WakeupTick > k.now {
			break
		}
		k.sleep.popFront()
		k.unblock(front)
	}
	if k.mlfqs {
		k.mlfqsTick()
	}
	current := k.current
	current.ticksInSlice++
	forceYield := k.timeSlice > 0 && current.ticksInSlice >= k.timeSlice
	if forceYield {
		current.ticksInSlice = 0
	}
	k.gate.SetLevel(prior)
	leave()

	if forceYield {
		k.Yield()
	} else {
		k.PreemptionCheck()
	}
}
