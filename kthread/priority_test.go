// Copyright 2015 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kthread

import "testing"

func TestGetSetPriority(t *testing.T) {
	k := NewKernel()
	var got int
	k.Boot(PriDefault, func(k *Kernel) {
		if got = k.GetPriority(); got != PriDefault {
			t.Fatalf("GetPriority = %d, want %d", got, PriDefault)
		}
		k.SetPriority(PriDefault + 5)
		if got = k.GetPriority(); got != PriDefault+5 {
			t.Fatalf("GetPriority after SetPriority = %d, want %d", got, PriDefault+5)
		}
	})
}

// TestSetPriorityYieldsToHigherReady checks that lowering one's own
// priority below a ready peer triggers an immediate preemption check.
func TestSetPriorityYieldsToHigherReady(t *testing.T) {
	k := NewKernel()
	var order []string

	k.Boot(PriDefault, func(k *Kernel) {
		k.Create("peer", PriDefault, func(arg interface{}) {
			order = append(order, "peer")
		}, nil)
		order = append(order, "main-before")
		k.SetPriority(PriMin)
		order = append(order, "main-after")
	})

	want := []string{"main-before", "peer", "main-after"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestSetPriorityClamped(t *testing.T) {
	k := NewKernel()
	k.Boot(PriDefault, func(k *Kernel) {
		k.SetPriority(PriMax + 100)
		if got := k.GetPriority(); got != PriMax {
			t.Fatalf("GetPriority = %d, want clamped %d", got, PriMax)
		}
		k.SetPriority(PriMin - 100)
		if got := k.GetPriority(); got != PriMin {
			t.Fatalf("GetPriority = %d, want clamped %d", got, PriMin)
		}
	})
}

func TestSetPriorityIgnoredUnderMLFQS(t *testing.T) {
	k := NewKernel(WithMLFQS(true))
	k.Boot(PriDefault, func(k *Kernel) {
		before := k.GetPriority()
		k.SetPriority(PriMax)
		if got := k.GetPriority(); got != before {
			t.Fatalf("GetPriority after SetPriority under MLFQS = %d, want unchanged %d", got, before)
		}
	})
}
