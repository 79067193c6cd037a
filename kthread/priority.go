// Copyright 2015 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kthread

// GetPriority returns the calling thread's effective priority.
func (k *Kernel) GetPriority() int {
	prior := k.gate.Disable()
	p := k.current.Priority
	k.gate.SetLevel(prior)
	return p
}

// SetPriority updates the calling thread's base priority. If no donor is
// currently elevating it, or p exceeds the current effective priority,
// the effective priority is updated immediately; otherwise the donated
// priority is kept and the change takes effect only once donations
// withdraw (see Thread.recomputePriority, called from Lock.Release).
// SetPriority always runs a preemption check afterward, since lowering
// one's own priority may expose a higher-priority ready peer.
func (k *Kernel) SetPriority(p int) {
	if k.mlfqs {
		// Direct priority assignment is meaningless once MLFQS owns
		// priority; the source this is modeled on silently ignores it too.
		return
	}
	prior := k.gate.Disable()
	t := k.current
	p = clampPriority(p)
	t.BasePriority = p
	if len(t.Donors) == 0 || p > t.Priority {
		t.Priority = p
	}
	k.gate.SetLevel(prior)
	k.PreemptionCheck()
}
