// Copyright 2015 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kthread

import (
	"fmt"
	"io"

	"v.io/x/kernel/textutil"
)

// DumpThreads writes a ps-style listing of the running thread, every
// ready and sleeping thread, and each thread's donor chain, to w. Donor
// information is indented under its donee using textutil.PrefixWriter so
// nested donation chains read the same way a call-stack dump would.
func (k *Kernel) DumpThreads(w io.Writer) {
	prior := k.gate.Disable()
	defer k.gate.SetLevel(prior)

	fmt.Fprintf(w, "tick=%d threads=%d\n", k.now, len(k.liveTids))
	k.dumpOne(w, k.current, "RUNNING")
	for _, t := range k.ready.all() {
		k.dumpOne(w, t, "READY")
	}
	for _, t := range k.sleep.all() {
		k.dumpOne(w, t, fmt.Sprintf("SLEEP(wake=%d)", t.WakeupTick))
	}
}

func (k *Kernel) dumpOne(w io.Writer, t *Thread, label string) {
	fmt.Fprintf(w, "%-16s tid=%-4d pri=%-3d base=%-3d %s\n", t.Name, t.Tid, t.Priority, t.BasePriority, label)
	if len(t.Donors) == 0 {
		return
	}
	indented := textutil.PrefixWriter(w, "    ")
	for _, d := range t.Donors {
		fmt.Fprintf(indented, "donor: %s\n", d)
	}
}
