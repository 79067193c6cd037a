// Copyright 2015 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kthread

import "fmt"

// Priority bounds, carried over from the original implementation this
// scheduler is modeled on.
const (
	PriMin     = 0
	PriDefault = 31
	PriMax     = 63
)

// MaxNameLen is the longest name a thread may carry, not counting the
// implicit terminator the original C representation reserved a byte for.
const MaxNameLen = 15

// magic is the stack-overflow canary written at thread creation and
// checked on every call to Current.
const magic = 0xcd6abf4b

// Status is the state of a Thread in the scheduler's state machine.
type Status int

const (
	// Blocked threads are on no ready queue; they wait on a semaphore, a
	// lock, a condition variable, or the sleep queue.
	Blocked Status = iota
	// Ready threads are runnable and sit on the kernel's ready queue.
	Ready
	// Running is the status of the single thread currently executing.
	Running
	// Dying threads have called Exit and are pending reclamation by the
	// next thread scheduled in.
	Dying
)

func (s Status) String() string {
	switch s {
	case Blocked:
		return "BLOCKED"
	case Ready:
		return "READY"
	case Running:
		return "RUNNING"
	case Dying:
		return "DYING"
	default:
		return "UNKNOWN"
	}
}

// Lock is the capability kthread needs from a synchronization primitive in
// order to run the donation protocol: the ability to ask who currently
// holds it. ksync.Lock implements this so that kthread never needs to
// import ksync.
type Lock interface {
	LockHolder() *Thread
}

// Thread is a kernel thread's control block. Every exported field is
// guarded by the owning Kernel's interrupt gate: code outside kthread and
// ksync should treat them as read-only except through the Kernel's API.
type Thread struct {
	Tid  int
	Name string

	Status Status

	// Priority is the effective priority used for scheduling decisions.
	// BasePriority is the value last set by Create or SetPriority, absent
	// any donation.
	Priority     int
	BasePriority int

	// WakeupTick is meaningful only while the thread sits on the sleep
	// queue: the tick at which it becomes ready.
	WakeupTick int64

	// WaitOnLock is the lock this thread is blocked trying to acquire, or
	// nil. Non-nil only while Status == Blocked.
	WaitOnLock Lock

	// Donors holds every thread currently donating priority to this one,
	// because it is blocked acquiring a lock this thread holds.
	Donors []*Thread

	// Nice and RecentCpu are used only under the MLFQS scheduling policy.
	Nice      int
	RecentCpu fixedPoint

	magic uint32

	// entry/arg/wake back the goroutine that executes this thread's code;
	// see kernel.go for how they are driven.
	entry func(arg interface{})
	arg   interface{}
	wake  chan struct{}

	ticksInSlice int64
}

func newThread(tid int, name string, priority int) *Thread {
	return &Thread{
		Tid:          tid,
		Name:         name,
		Status:       Blocked,
		Priority:     priority,
		BasePriority: priority,
		magic:        magic,
		wake:         make(chan struct{}),
	}
}

// magicOK reports whether the stack-overflow canary is intact, mirroring
// the ASSERT(t->magic == THREAD_MAGIC) check made on every call to
// thread_current() in the original.
func (t *Thread) magicOK() bool {
	return t.magic == magic
}

// hasDonor reports whether d is currently recorded as donating to t; used
// by addDonor to keep the donor list free of duplicates.
func (t *Thread) hasDonor(d *Thread) bool {
	for _, e := range t.Donors {
		if e == d {
			return true
		}
	}
	return false
}

func (t *Thread) addDonor(d *Thread) {
	if !t.hasDonor(d) {
		t.Donors = append(t.Donors, d)
	}
}

// removeDonorsFor deletes every donor whose WaitOnLock is l, leaving all
// others in place; see ksync.Lock.Release for why this must be targeted
// rather than a full clear.
func (t *Thread) removeDonorsFor(l Lock) {
	kept := t.Donors[:0]
	for _, d := range t.Donors {
		if d.WaitOnLock != l {
			kept = append(kept, d)
		}
	}
	t.Donors = kept
}

// recomputePriority sets t.Priority to max(BasePriority, donors' Priority).
func (t *Thread) recomputePriority() {
	p := t.BasePriority
	for _, d := range t.Donors {
		if d.Priority > p {
			p = d.Priority
		}
	}
	t.Priority = p
}

func (t *Thread) String() string {
	return fmt.Sprintf("%s(tid=%d,pri=%d/%d,%s)", t.Name, t.Tid, t.Priority, t.BasePriority, t.Status)
}
