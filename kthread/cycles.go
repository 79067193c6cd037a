// Copyright 2015 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kthread

import "v.io/x/kernel/toposort"

// CheckDonationAcyclic builds a graph of every live thread's wait_on_lock
// edge (thread -> the holder of the lock it is blocked on) and verifies it
// contains no cycle. A cycle means two threads acquired a pair of locks in
// opposite orders, a programmer error that would otherwise hang the
// donation walk; it is exposed for tests and debug builds to call after
// constructing an acquisition scenario, rather than run on every Acquire,
// since the cost is proportional to the whole live thread set.
func (k *Kernel) CheckDonationAcyclic(threads []*Thread) error {
	var s toposort.Sorter
	for _, t := range threads {
		s.AddNode(t)
	}
	for _, t := range threads {
		if t.WaitOnLock == nil {
			continue
		}
		holder := t.WaitOnLock.LockHolder()
		if holder == nil {
			continue
		}
		s.AddEdge(t, holder)
	}
	_, cycles := s.Sort()
	if len(cycles) > 0 {
		k.Panic("kthread: donation graph contains a cycle: " + toposort.DumpCycles(cycles, func(n interface{}) string {
			return n.(*Thread).String()
		}))
	}
	return nil
}
