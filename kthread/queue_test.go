// Copyright 2015 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kthread

import "testing"

func namesOf(ts []*Thread) []string {
	var names []string
	for _, t := range ts {
		names = append(names, t.Name)
	}
	return names
}

func TestReadyQueueOrder(t *testing.T) {
	var q readyQueue
	a := newThread(1, "a", 10)
	b := newThread(2, "b", 20)
	c := newThread(3, "c", 10)
	d := newThread(4, "d", 30)

	q.insert(a)
	q.insert(b)
	q.insert(c)
	q.insert(d)

	want := []string{"d", "b", "a", "c"}
	if got := namesOf(q.all()); !equalStrings(got, want) {
		t.Fatalf("order = %v, want %v", got, want)
	}
	if q.front().Name != "d" {
		t.Fatalf("front = %s, want d", q.front().Name)
	}

	if !q.remove(b) {
		t.Fatalf("remove(b) = false, want true")
	}
	if q.remove(b) {
		t.Fatalf("second remove(b) = true, want false")
	}
	want = []string{"d", "a", "c"}
	if got := namesOf(q.all()); !equalStrings(got, want) {
		t.Fatalf("order after remove = %v, want %v", got, want)
	}

	popped := q.popFront()
	if popped.Name != "d" {
		t.Fatalf("popFront = %s, want d", popped.Name)
	}
	if q.len() != 2 {
		t.Fatalf("len = %d, want 2", q.len())
	}
}

func TestReadyQueueEmpty(t *testing.T) {
	var q readyQueue
	if q.front() != nil {
		t.Fatalf("front of empty queue is non-nil")
	}
	if q.popFront() != nil {
		t.Fatalf("popFront of empty queue is non-nil")
	}
}

func TestSleepQueueOrder(t *testing.T) {
	var q sleepQueue
	a := newThread(1, "a", PriDefault)
	a.WakeupTick = 50
	b := newThread(2, "b", PriDefault)
	b.WakeupTick = 10
	c := newThread(3, "c", PriDefault)
	c.WakeupTick = 10

	q.insert(a)
	q.insert(b)
	q.insert(c)

	want := []string{"b", "c", "a"}
	if got := namesOf(q.all()); !equalStrings(got, want) {
		t.Fatalf("order = %v, want %v", got, want)
	}
	if q.front().Name != "b" {
		t.Fatalf("front = %s, want b", q.front().Name)
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
