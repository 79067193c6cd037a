// Copyright 2015 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kthread

// mlfqsTicksPerSecond is the assumed timer frequency used to recalculate
// load_avg and every thread's recent_cpu once per simulated second.
const mlfqsTicksPerSecond = 100

// mlfqsPriorityCadence is how often (in ticks) priorities are recomputed
// from recent_cpu and nice.
const mlfqsPriorityCadence = 4

// mlfqsTick runs the MLFQS bookkeeping for one timer tick: the running
// thread's recent_cpu accrues one tick of CPU time, and on the configured
// cadences the whole system's load_avg and every thread's recent_cpu and
// priority are recomputed. Called with interrupts already disabled, from
// within Tick.
func (k *Kernel) mlfqsTick() {
	if k.current != k.idle {
		k.current.RecentCpu = k.current.RecentCpu.add(intToFixed(1))
	}
	if k.now%mlfqsTicksPerSecond == 0 {
		k.mlfqsRecalculateLoadAvg()
		for _, t := range k.allThreads() {
			t.RecentCpu = k.mlfqsRecentCpu(t)
		}
	}
	if k.now%mlfqsPriorityCadence == 0 {
		for _, t := range k.allThreads() {
			k.mlfqsRecalculatePriority(t)
		}
	}
}

// mlfqsRecalculateLoadAvg implements
// load_avg = (59/60)*load_avg + (1/60)*ready_threads
// where ready_threads counts the running thread too (unless it is idle).
func (k *Kernel) mlfqsRecalculateLoadAvg() {
	ready := k.ready.len()
	if k.current != k.idle {
		ready++
	}
	fiftyNineSixtieths := intToFixed(59).div(intToFixed(60))
	oneSixtieth := intToFixed(1).div(intToFixed(60))
	k.loadAvg = k.loadAvg.mul(fiftyNineSixtieths).add(oneSixtieth.mulInt(ready))
}

// mlfqsRecentCpu implements
// recent_cpu = (2*load_avg)/(2*load_avg + 1) * recent_cpu + nice
func (k *Kernel) mlfqsRecentCpu(t *Thread) fixedPoint {
	twoLoadAvg := k.loadAvg.mulInt(2)
	coefficient := twoLoadAvg.div(twoLoadAvg.add(intToFixed(1)))
	return coefficient.mul(t.RecentCpu).add(intToFixed(t.Nice))
}

// mlfqsRecalculatePriority implements
// priority = PRI_MAX - (recent_cpu/4) - (nice*2), clamped to [PRI_MIN,PRI_MAX].
func (k *Kernel) mlfqsRecalculatePriority(t *Thread) {
	p := PriMax - t.RecentCpu.divInt(4).toIntRound() - t.Nice*2
	t.Priority = clampPriority(p)
	t.BasePriority = t.Priority
	k.reposition(t)
}

// allThreads returns every thread known to the scheduler: the running
// thread, everything on the ready queue, and everything on the sleep
// queue. Used only by the MLFQS recalculation passes, which the source
// this is modeled on runs over the full thread list rather than just the
// ready queue.
func (k *Kernel) allThreads() []*Thread {
	all := make([]*Thread, 0, k.ready.len()+k.sleep.len()+1)
	if k.current != nil {
		all = append(all, k.current)
	}
	all = append(all, k.ready.all()...)
	all = append(all, k.sleep.all()...)
	return all
}

// SetNice sets the calling thread's niceness, used only under MLFQS, and
// immediately recomputes its priority.
func (k *Kernel) SetNice(nice int) {
	prior := k.gate.Disable()
	t := k.current
	t.Nice = nice
	k.mlfqsRecalculatePriority(t)
	k.gate.SetLevel(prior)
	k.PreemptionCheck()
}

// Nice returns the calling thread's niceness.
func (k *Kernel) Nice() int {
	prior := k.gate.Disable()
	n := k.current.Nice
	k.gate.SetLevel(prior)
	return n
}

// LoadAvg returns the system load average, scaled by 100 as
// thread_get_load_avg conventionally reports it.
func (k *Kernel) LoadAvg() int {
	prior := k.gate.Disable()
	v := k.loadAvg.mulInt(100).toIntRound()
	k.gate.SetLevel(prior)
	return v
}

// RecentCpu returns the calling thread's recent_cpu, scaled by 100.
func (k *Kernel) RecentCpu() int {
	prior := k.gate.Disable()
	v := k.current.RecentCpu.mulInt(100).toIntRound()
	k.gate.SetLevel(prior)
	return v
}
