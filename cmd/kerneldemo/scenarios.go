// Copyright 2015 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"v.io/x/kernel/ksync"
	"v.io/x/kernel/kthread"
	"v.io/x/kernel/timebase"
)

// liveTick returns a function that advances k by one tick, and a matching
// cleanup to call once the caller is done ticking. Under -profile it
// paces ticks at cfg.TickHz through a timebase.Driver, the way a booted
// kernel's timer interrupt actually arrives, so a profiled run's wall-clock
// duration reflects the simulated time it covers. Otherwise ticks are
// driven instantaneously through timebase.Step, which is what every
// scenario run defaults to and what keeps the non-profiled demo fast.
func liveTick(cfg *config, k *kthread.Kernel) (tick, stop func()) {
	if !cfg.Profile {
		return func() { timebase.Step(k, 1) }, func() {}
	}
	d := timebase.NewDriver(cfg.TickHz)
	d.Start()
	return func() { <-d.C(); k.Tick() }, d.Stop
}

// scenario is one of the concrete, literal scheduling scenarios this
// module's tests hold themselves to; kerneldemo exists so a human can
// watch one happen rather than just read its assertions.
type scenario struct {
	name    string
	summary string
	mlfqs   bool // whether this scenario makes sense to also run under -mlfqs
	run     func(cfg *config) (observed []string, err error)
}

var scenarios = []scenario{
	{
		name:    "fifo",
		summary: "three equal-priority threads yield in turn; FIFO order is preserved across the round",
		mlfqs:   true,
		run:     runFIFO,
	},
	{
		name:    "preempt",
		summary: "a strictly higher-priority thread created mid-run preempts immediately and runs to completion first",
		mlfqs:   true,
		run:     runPreemption,
	},
	{
		name:    "donate-single",
		summary: "a low-priority lock holder is boosted to the blocked waiter's priority for as long as it holds the lock",
		run:     runSingleDonation,
	},
	{
		name:    "donate-nested",
		summary: "donation propagates transitively through a chain of two held locks",
		run:     runNestedDonation,
	},
	{
		name:    "donate-multi",
		summary: "a lock holder's effective priority tracks the maximum of two independent donors",
		run:     runMultipleDonations,
	},
	{
		name:    "condvar",
		summary: "three threads wait on one condition variable; signal wakes them in priority order, not wait order",
		run:     runCondVarOrder,
	},
	{
		name:    "sleep",
		summary: "three threads sleep for different durations; they wake in wakeup-tick order, not the order they fell asleep",
		mlfqs:   true,
		run:     runSleepOrdering,
	},
}

func runFIFO(cfg *config) ([]string, error) {
	k := kthread.NewKernel(kthread.WithMLFQS(cfg.MLFQS), kthread.WithTimeSlice(int64(cfg.TimeSlice)))
	var order []string
	k.Boot(kthread.PriDefault, func(k *kthread.Kernel) {
		done := ksync.NewSemaphore(k, 0)
		remaining := 3
		for _, name := range []string{"A", "B", "C"} {
			name := name
			k.Create(name, kthread.PriDefault, func(arg interface{}) {
				order = append(order, name)
				k.Yield()
				order = append(order, name)
				remaining--
				if remaining == 0 {
					done.Up()
				}
			}, nil)
		}
		done.Down()
	})
	return order, nil
}

func runPreemption(cfg *config) ([]string, error) {
	k := kthread.NewKernel(kthread.WithMLFQS(cfg.MLFQS), kthread.WithTimeSlice(int64(cfg.TimeSlice)))
	var order []string
	k.Boot(kthread.PriDefault, func(k *kthread.Kernel) {
		order = append(order, "main-before")
		k.Create("H", kthread.PriDefault+9, func(arg interface{}) {
			order = append(order, "H")
		}, nil)
		order = append(order, "main-after")
	})
	return order, nil
}

func runSingleDonation(cfg *config) ([]string, error) {
	k := kthread.NewKernel(kthread.WithTimeSlice(int64(cfg.TimeSlice)))
	l := ksync.NewLock(k)
	ready := ksync.NewSemaphore(k, 0)
	release := ksync.NewSemaphore(k, 0)
	finished := ksync.NewSemaphore(k, 0)
	var order []string

	const (
		priLow  = kthread.PriDefault
		priHigh = kthread.PriDefault + 3
	)

	k.Boot(priLow, func(k *kthread.Kernel) {
		low, _ := k.Create("L", priLow, func(arg interface{}) {
			l.Acquire()
			ready.Up()
			release.Down()
			l.Release()
		}, nil)
		ready.Down()
		order = append(order, fmt.Sprintf("L holds X, priority=%d", low.Priority))

		k.Create("M", priHigh, func(arg interface{}) {
			l.Acquire()
			l.Release()
			finished.Up()
		}, nil)

		order = append(order, fmt.Sprintf("M blocked on X, L donated to priority=%d", low.Priority))
		release.Up()
		finished.Down()
		order = append(order, fmt.Sprintf("L released X, priority reverted to=%d", low.Priority))
	})
	return order, nil
}

func runNestedDonation(cfg *config) ([]string, error) {
	k := kthread.NewKernel(kthread.WithTimeSlice(int64(cfg.TimeSlice)))
	lock1 := ksync.NewLock(k)
	lock2 := ksync.NewLock(k)
	aReady := ksync.NewSemaphore(k, 0)
	release1 := ksync.NewSemaphore(k, 0)
	release2 := ksync.NewSemaphore(k, 0)
	cDone := ksync.NewSemaphore(k, 0)
	var order []string

	const (
		priA = kthread.PriDefault
		priB = kthread.PriDefault + 1
		priC = kthread.PriDefault + 2
	)

	k.Boot(priA, func(k *kthread.Kernel) {
		a, _ := k.Create("A", priA, func(arg interface{}) {
			lock1.Acquire()
			aReady.Up()
			release1.Down()
			lock1.Release()
		}, nil)
		aReady.Down()

		b, _ := k.Create("B", priB, func(arg interface{}) {
			lock2.Acquire()
			lock1.Acquire()
			lock1.Release()
			release2.Down()
			lock2.Release()
		}, nil)

		k.Create("C", priC, func(arg interface{}) {
			lock2.Acquire()
			lock2.Release()
			cDone.Up()
		}, nil)

		order = append(order, fmt.Sprintf("after C blocks: A=%d B=%d C=%d", a.Priority, b.Priority, priC))
		release1.Up()
		release2.Up()
		cDone.Down()
		order = append(order, fmt.Sprintf("after chain unwinds: A=%d B=%d", a.Priority, b.Priority))
	})
	return order, nil
}

func runMultipleDonations(cfg *config) ([]string, error) {
	k := kthread.NewKernel(kthread.WithTimeSlice(int64(cfg.TimeSlice)))
	x := ksync.NewLock(k)
	y := ksync.NewLock(k)
	holderReady := ksync.NewSemaphore(k, 0)
	releaseY := ksync.NewSemaphore(k, 0)
	releaseX := ksync.NewSemaphore(k, 0)
	mDone := ksync.NewSemaphore(k, 0)
	hDone := ksync.NewSemaphore(k, 0)
	var order []string

	const (
		priL = kthread.PriDefault
		priM = kthread.PriDefault + 1
		priH = kthread.PriDefault + 3
	)

	k.Boot(priL, func(k *kthread.Kernel) {
		l, _ := k.Create("L", priL, func(arg interface{}) {
			x.Acquire()
			y.Acquire()
			holderReady.Up()
			releaseY.Down()
			y.Release()
			releaseX.Down()
			x.Release()
		}, nil)
		holderReady.Down()

		k.Create("M", priM, func(arg interface{}) {
			x.Acquire()
			x.Release()
			mDone.Up()
		}, nil)
		k.Create("H", priH, func(arg interface{}) {
			y.Acquire()
			y.Release()
			hDone.Up()
		}, nil)

		order = append(order, fmt.Sprintf("L priority with both donors=%d", l.Priority))
		releaseY.Up()
		hDone.Down()
		order = append(order, fmt.Sprintf("L priority after releasing Y=%d", l.Priority))
		releaseX.Up()
		mDone.Down()
		order = append(order, fmt.Sprintf("L priority after releasing X=%d", l.Priority))
	})
	return order, nil
}

func runCondVarOrder(cfg *config) ([]string, error) {
	k := kthread.NewKernel(kthread.WithTimeSlice(int64(cfg.TimeSlice)))
	l := ksync.NewLock(k)
	cv := ksync.NewCondVar()
	allWaiting := ksync.NewSemaphore(k, 0)
	allDone := ksync.NewSemaphore(k, 0)
	var order []string

	k.Boot(kthread.PriDefault+50, func(k *kthread.Kernel) {
		remaining := 3
		noted := func() {
			remaining--
			if remaining == 0 {
				allWaiting.Up()
			}
		}
		woken := 0
		finish := func(name string) {
			order = append(order, name)
			woken++
			if woken == 3 {
				allDone.Up()
			}
		}

		for _, spec := range []struct {
			name string
			pri  int
		}{{"T30", 30}, {"T40", 40}, {"T20", 20}} {
			spec := spec
			k.Create(spec.name, spec.pri, func(arg interface{}) {
				l.Acquire()
				noted()
				cv.Wait(l)
				l.Release()
				finish(spec.name)
			}, nil)
		}

		allWaiting.Down()
		for i := 0; i < 3; i++ {
			l.Acquire()
			cv.Signal(l)
			l.Release()
		}
		allDone.Down()
	})
	return order, nil
}

func runSleepOrdering(cfg *config) ([]string, error) {
	k := kthread.NewKernel(kthread.WithMLFQS(cfg.MLFQS), kthread.WithTimeSlice(int64(cfg.TimeSlice)))
	var order []string
	done := ksync.NewSemaphore(k, 0)
	remaining := 3

	k.Boot(kthread.PriDefault, func(k *kthread.Kernel) {
		record := func(name string) {
			order = append(order, name)
			remaining--
			if remaining == 0 {
				done.Up()
			}
		}
		for _, spec := range []struct {
			name  string
			sleep int64
		}{{"S1", 30}, {"S2", 10}, {"S3", 20}} {
			spec := spec
			k.Create(spec.name, kthread.PriDefault, func(arg interface{}) {
				k.Sleep(spec.sleep)
				record(spec.name)
			}, nil)
		}
		k.Yield()
		tick, stop := liveTick(cfg, k)
		for i := 0; i < 30; i++ {
			tick()
		}
		stop()
		done.Down()
	})
	return order, nil
}
