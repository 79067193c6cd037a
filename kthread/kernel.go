// Copyright 2015 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package kthread implements a preemptive, priority-based kernel thread
// scheduler: a run queue, a tick-driven sleep timebase, and the interrupt
// atomicity discipline that protects both. It is modeled closely on a
// classroom-operating-system thread scheduler, reworked so that each
// kernel thread is backed by a goroutine instead of a saved register
// frame.
//
// There is exactly one simulated CPU. At any instant exactly one Thread's
// goroutine is permitted to execute kthread or ksync code; every other
// thread's goroutine is parked on a private channel waiting to be resumed.
// Handing that permission from one goroutine to the next is the Go
// equivalent of the architectural context switch: instead of swapping
// saved register state, Kernel.contextSwitch sends on the incoming
// thread's channel and then blocks the outgoing thread's goroutine by
// receiving on its own channel, mirroring the waiter hand-off idiom the
// nsync package uses for its own (genuinely concurrent) waiters.
//
// A real timer interrupt can land at any instruction boundary; a goroutine
// cannot be preempted from the outside without cooperation. Tick is
// therefore an explicit call a driver (a test, or cmd/kerneldemo) makes at
// whatever points it wants to simulate the timer ISR firing, rather than
// an asynchronously delivered signal. This is the one place the
// simulation is deliberately less than a faithful reproduction of
// interrupt-driven hardware; every other scheduling decision (preemption
// on create/unblock, time-slice expiry, donation propagation) runs
// exactly the algorithm described for a real interrupt-driven kernel.
package kthread

import (
	"v.io/x/kernel/idset"
	"v.io/x/kernel/intr"
	"v.io/x/kernel/vlog"
)

// Option configures a Kernel at construction time.
type Option func(*Kernel)

// WithTimeSlice sets the number of ticks a RUNNING thread may hold the CPU
// before being force-yielded, even absent a higher-priority contender.
func WithTimeSlice(ticks int64) Option {
	return func(k *Kernel) { k.timeSlice = ticks }
}

// WithMLFQS enables the multi-level feedback queue policy: priority
// donation is disabled and priorities are recomputed from recent_cpu and
// nice on a fixed cadence instead of being assigned directly.
func WithMLFQS(enabled bool) Option {
	return func(k *Kernel) { k.mlfqs = enabled }
}

// WithMaxThreads caps the number of live threads the kernel will create,
// simulating the page allocator running out of memory for thread control
// blocks; Create returns ErrOutOfMemory once the cap is reached.
func WithMaxThreads(n int) Option {
	return func(k *Kernel) { k.maxThreads = n }
}

// Kernel holds every piece of global scheduler state: the ready and sleep
// queues, the currently running thread, the tick counter, and the MLFQS
// load average. Bundling this in a struct (rather than the package-level
// globals a single-kernel-image C source would use) lets independent
// tests run independent schedulers without shared state.
type Kernel struct {
	gate *intr.Gate

	ready readyQueue
	sleep sleepQueue

	current *Thread
	idle    *Thread

	now       int64
	nextTid   int
	timeSlice int64

	mlfqs      bool
	loadAvg    fixedPoint
	maxThreads int

	liveTids idset.Set[int]
}

// NewKernel constructs a Kernel and its idle thread. The returned Kernel
// has no running thread of its own until Boot is called.
func NewKernel(opts ...Option) *Kernel {
	k := &Kernel{
		gate:      intr.NewGate(),
		timeSlice: 4,
		liveTids:  idset.New[int](),
	}
	for _, o := range opts {
		o(k)
	}
	k.idle = k.newThreadLocked("idle", PriMin)
	go func(t *Thread) {
		for {
			<-t.wake
		}
	}(k.idle)
	return k
}

// allocTid returns the next thread identifier and records it as live.
func (k *Kernel) allocTid() int {
	tid := k.nextTid
	k.nextTid++
	k.liveTids.Add(tid)
	return tid
}

func (k *Kernel) newThreadLocked(name string, priority int) *Thread {
	priority = clampPriority(priority)
	t := newThread(k.allocTid(), truncateName(name), priority)
	return t
}

func clampPriority(p int) int {
	if p < PriMin {
		return PriMin
	}
	if p > PriMax {
		return PriMax
	}
	return p
}

func truncateName(name string) string {
	if len(name) > MaxNameLen {
		return name[:MaxNameLen]
	}
	return name
}

// Boot creates the "main" thread at the given priority and runs fn as its
// body on the calling goroutine: there is no separate goroutine spawned
// for main, since the goroutine calling Boot already is its execution
// context. As soon as fn returns, main exits and the CPU passes to the
// next ready thread; Boot then returns, while any thread still ready keeps
// running on its own goroutine. Work that fn must see completed before
// Boot returns has to be waited for inside fn, through the kernel's own
// primitives (a ksync.Semaphore, or Block paired with Unblock).
func (k *Kernel) Boot(priority int, fn func(k *Kernel)) {
	main := k.newThreadLocked("main", priority)
	main.Status = Running
	k.current = main
	vlog.Log.VI(1).Infof("kthread: boot main(tid=%d, pri=%d)", main.Tid, main.Priority)
	fn(k)
	k.Exit()
}

// Current returns the thread executing on the calling goroutine. Panics
// (via the stack-overflow canary check) if called on a thread whose
// control block has been corrupted.
func (k *Kernel) Current() *Thread {
	t := k.current
	if !t.magicOK() {
		k.Panic(ErrStackOverflow)
	}
	return t
}

// Now returns the current value of the kernel's tick counter.
func (k *Kernel) Now() int64 {
	return k.now
}

// Gate exposes the kernel's interrupt-enable gate to ksync, which must
// respect the same "no blocking while InContext" discipline as kthread
// itself.
func (k *Kernel) Gate() *intr.Gate {
	return k.gate
}
