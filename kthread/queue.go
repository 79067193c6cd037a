// Copyright 2015 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kthread

// readyQueue holds every Ready thread, ordered by descending priority with
// FIFO tie-break among equal priorities. Insertion is O(n) in queue length,
// which spec.md's component budget explicitly allows in exchange for O(1)
// pop-front; at the small thread counts a simulated kernel runs with, a
// sorted slice beats the complexity of a real priority heap.
type readyQueue struct {
	threads []*Thread
}

// insert places t after the last thread with priority >= t.Priority,
// preserving both the descending-priority order and FIFO order among
// threads already queued at t's priority.
func (q *readyQueue) insert(t *Thread) {
	i := len(q.threads)
	for i > 0 && q.threads[i-1].Priority < t.Priority {
		i--
	}
	q.threads = append(q.threads, nil)
	copy(q.threads[i+1:], q.threads[i:])
	q.threads[i] = t
}

// popFront removes and returns the highest-priority (FIFO-ties) thread, or
// nil if the queue is empty.
func (q *readyQueue) popFront() *Thread {
	if len(q.threads) == 0 {
		return nil
	}
	t := q.threads[0]
	q.threads = q.threads[1:]
	return t
}

// front returns the head of the queue without removing it, or nil.
func (q *readyQueue) front() *Thread {
	if len(q.threads) == 0 {
		return nil
	}
	return q.threads[0]
}

func (q *readyQueue) len() int {
	return len(q.threads)
}

// remove deletes t from the queue if present, used when a thread's
// priority changes while it is already queued so it can be reinserted at
// its new rank.
func (q *readyQueue) remove(t *Thread) bool {
	for i, e := range q.threads {
		if e == t {
			q.threads = append(q.threads[:i], q.threads[i+1:]...)
			return true
		}
	}
	return false
}

// all returns every queued thread, highest priority first, without
// mutating the queue; used by DumpThreads.
func (q *readyQueue) all() []*Thread {
	return q.threads
}

// sleepQueue holds every thread blocked on Sleep, ordered by ascending
// WakeupTick with insertion-order tie-break.
type sleepQueue struct {
	threads []*Thread
}

func (q *sleepQueue) insert(t *Thread) {
	i := len(q.threads)
	for i > 0 && q.threads[i-1].WakeupTick > t.WakeupTick {
		i--
	}
	q.threads = append(q.threads, nil)
	copy(q.threads[i+1:], q.threads[i:])
	q.threads[i] = t
}

func (q *sleepQueue) front() *Thread {
	if len(q.threads) == 0 {
		return nil
	}
	return q.threads[0]
}

func (q *sleepQueue) popFront() *Thread {
	if len(q.threads) == 0 {
		return nil
	}
	t := q.threads[0]
	q.threads = q.threads[1:]
	return t
}

func (q *sleepQueue) len() int {
	return len(q.threads)
}

func (q *sleepQueue) all() []*Thread {
	return q.threads
}
