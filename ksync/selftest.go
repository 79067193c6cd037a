// Copyright 2015 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ksync

import (
	"v.io/x/kernel/kthread"
	"v.io/x/kernel/vlog"
)

// SelfTest exercises Semaphore by making control ping-pong ten times
// between the calling thread and a freshly created helper thread, grounded
// on the classic semaphore ping-pong self test: each side downs one
// semaphore and ups the other, so neither can run more than one iteration
// ahead of its partner.
func SelfTest(k *kthread.Kernel) {
	sema := [2]*Semaphore{NewSemaphore(k, 0), NewSemaphore(k, 0)}

	vlog.Log.Info("ksync: testing semaphores...")
	k.Create("sema-test", kthread.PriDefault, func(arg interface{}) {
		pair := arg.(*[2]*Semaphore)
		for i := 0; i < 10; i++ {
			pair[0].Down()
			pair[1].Up()
		}
	}, &sema)

	for i := 0; i < 10; i++ {
		sema[0].Up()
		sema[1].Down()
	}
	vlog.Log.Info("ksync: semaphore self test done.")
}
