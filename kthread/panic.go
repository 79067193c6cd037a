// Copyright 2015 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kthread

import (
	"fmt"

	"v.io/x/kernel/vlog"
)

// ErrStackOverflow is the error reported through Panic when a thread's
// magic canary no longer matches, indicating its kernel stack grew into
// its control block.
var ErrStackOverflow = fmt.Errorf("kthread: stack overflow, magic canary corrupted")

// Panic logs args at ErrorLog severity and then panics. It is the Go
// analogue of the source's PANIC() macro: a contract violation
// (ASSERTION_VIOLATION) is never recovered from, so logging first ensures
// the cause is on record before the process goes down.
func (k *Kernel) Panic(args ...interface{}) {
	vlog.Log.Error(args...)
	panic(fmt.Sprint(args...))
}

// Assert panics with msg, logged at error severity, if cond is false.
// Used at the contract boundaries spec.md section 7 calls out as fatal:
// acquiring a lock already held, releasing a lock you don't own,
// acquiring twice, etc.
func (k *Kernel) Assert(cond bool, msg string) {
	if !cond {
		k.Panic("kthread: assertion violation: " + msg)
	}
}
