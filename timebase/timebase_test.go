// Copyright 2015 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package timebase

import (
	"testing"
	"time"

	"v.io/x/kernel/kthread"
)

func TestStepAdvancesTickCount(t *testing.T) {
	k := kthread.NewKernel()
	k.Boot(kthread.PriDefault, func(k *kthread.Kernel) {
		Step(k, 5)
		if got := k.Now(); got != 5 {
			t.Fatalf("Now() = %d, want 5", got)
		}
		Step(k, 0)
		if got := k.Now(); got != 5 {
			t.Fatalf("Now() after Step(0) = %d, want 5", got)
		}
	})
}

func TestDriverSignalsAndStops(t *testing.T) {
	d := NewDriver(5 * time.Millisecond)
	d.Start()
	defer d.Stop()

	select {
	case <-d.C():
	case <-time.After(time.Second):
		t.Fatalf("driver never signalled a tick")
	}

	d.Stop()

	// draining whatever is left in the coalescing buffer should not
	// produce a steady stream once stopped.
	select {
	case <-d.C():
	case <-time.After(20 * time.Millisecond):
	}
	select {
	case <-d.C():
		t.Fatalf("driver kept signalling after Stop")
	case <-time.After(20 * time.Millisecond):
	}
}

func TestDriverStartIsIdempotent(t *testing.T) {
	d := NewDriver(5 * time.Millisecond)
	d.Start()
	d.Start()
	defer d.Stop()

	select {
	case <-d.C():
	case <-time.After(time.Second):
		t.Fatalf("driver never signalled a tick")
	}
}
