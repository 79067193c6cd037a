// Copyright 2015 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kthread

import "errors"

// ErrOutOfMemory is returned by Create when the kernel's simulated thread
// page allocator has no more pages to hand out (see WithMaxThreads).
var ErrOutOfMemory = errors.New("kthread: out of memory allocating thread page")

// Create allocates a new thread, makes it Ready, and runs a preemption
// check: if the new thread outranks the creator, the creator yields to it
// immediately, exactly as thread_create does in the source this scheduler
// is modeled on.
func (k *Kernel) Create(name string, priority int, entry func(arg interface{}), arg interface{}) (*Thread, error) {
	prior := k.gate.Disable()
	if k.maxThreads > 0 && len(k.liveTids) >= k.maxThreads {
		k.gate.SetLevel(prior)
		return nil, ErrOutOfMemory
	}
	t := k.newThreadLocked(name, priority)
	go func() {
		<-t.wake
		entry(arg)
		k.Exit()
	}()
	k.unblock(t)
	k.gate.SetLevel(prior)
	k.PreemptionCheck()
	return t, nil
}
