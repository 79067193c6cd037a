// Copyright 2015 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kthread

import "testing"

// TestSleepOrdering verifies that two threads sleeping for different
// durations wake in ascending order of their wakeup tick, regardless of
// the order in which they called Sleep.
func TestSleepOrdering(t *testing.T) {
	k := NewKernel()
	var order []string

	k.Boot(PriDefault, func(k *Kernel) {
		main := k.Current()
		remaining := 2
		done := func(name string) {
			order = append(order, name)
			remaining--
			if remaining == 0 {
				k.Unblock(main)
			}
		}
		k.Create("long", PriDefault, func(arg interface{}) {
			k.Sleep(5)
			done("long")
		}, nil)
		k.Create("short", PriDefault, func(arg interface{}) {
			k.Sleep(1)
			done("short")
		}, nil)

		// One Yield chains through both new threads: each runs only as
		// far as its own Sleep call, which immediately re-blocks it and
		// schedules the next ready thread, handing the CPU back to main
		// once both are parked on the sleep queue.
		k.Yield()

		// main is the thread actually "interrupted" by the timer, so it
		// is the one that must call Tick; short and long stay asleep
		// until their wakeup tick arrives, then sit ready without
		// running until main gives up the CPU.
		for i := 0; i < 5; i++ {
			k.Tick()
		}
		k.Block()
	})

	want := []string{"short", "long"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

// TestSleepNonPositiveIsNoop checks that Sleep(0) and Sleep(-1) return
// immediately without blocking.
func TestSleepNonPositiveIsNoop(t *testing.T) {
	k := NewKernel()
	ran := false
	k.Boot(PriDefault, func(k *Kernel) {
		k.Sleep(0)
		k.Sleep(-1)
		ran = true
	})
	if !ran {
		t.Fatalf("Sleep(0)/Sleep(-1) did not return")
	}
}

// TestTimeSliceForceYield checks that a CPU-bound thread is force-yielded
// once its time slice is exhausted, even though nothing else outranks it.
func TestTimeSliceForceYield(t *testing.T) {
	k := NewKernel(WithTimeSlice(2))
	var order []string

	k.Boot(PriDefault, func(k *Kernel) {
		k.Create("spinner", PriDefault, func(arg interface{}) {
			order = append(order, "spinner")
		}, nil)

		// main spins past its own time slice; once exhausted it must be
		// force-yielded to the ready spinner even though nothing
		// outranks it. Once spinner exits, the CPU returns to main on
		// its own: no separate handshake is needed.
		for i := 0; i < 3; i++ {
			k.Tick()
			order = append(order, "main-tick")
		}
	})

	foundSpinner := false
	for _, e := range order {
		if e == "spinner" {
			foundSpinner = true
		}
	}
	if !foundSpinner {
		t.Fatalf("order = %v, spinner never ran", order)
	}
}
