// Copyright 2024 The Ancestry-Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ancestry

import "testing"

func TestPropagationQueueMostRecentFirst(t *testing.T) {
	q := newPropagationQueue()
	q.initialize(10)

	q.pushBirth(3, 5)
	q.pushDeath(1, 2)
	q.pushParent(2, 4)

	var order []Handle
	for {
		e, ok := q.pop()
		if !ok {
			break
		}
		order = append(order, e.handle)
	}
	want := []Handle{3, 2, 1}
	if len(order) != len(want) {
		t.Fatalf("got %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("got %v, want %v", order, want)
		}
	}
}

func TestPropagationQueueKindTieBreak(t *testing.T) {
	q := newPropagationQueue()
	q.initialize(10)

	// Same birth time: Parent(0) < Birth(1) < Death(2).
	q.push(0, 7, kindDeath)
	q.push(1, 7, kindBirth)
	q.push(2, 7, kindParent)

	var kinds []nodeKind
	for {
		e, ok := q.pop()
		if !ok {
			break
		}
		kinds = append(kinds, e.kind)
	}
	want := []nodeKind{kindParent, kindBirth, kindDeath}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("got %v, want %v", kinds, want)
		}
	}
}

func TestPropagationQueueDeduplicates(t *testing.T) {
	q := newPropagationQueue()
	q.initialize(10)

	q.pushParent(5, 1)
	q.pushParent(5, 1)
	q.pushDeath(5, 1) // already present: must not change its kind or double-enqueue

	count := 0
	var kind nodeKind
	for {
		e, ok := q.pop()
		if !ok {
			break
		}
		count++
		kind = e.kind
	}
	if count != 1 {
		t.Fatalf("expected exactly one entry for a deduplicated handle, got %d", count)
	}
	if kind != kindParent {
		t.Fatalf("expected the original kindParent push to win, got %v", kind)
	}
}

func TestPropagationQueuePopClearsPresence(t *testing.T) {
	q := newPropagationQueue()
	q.initialize(10)

	q.pushBirth(4, 1)
	if _, ok := q.pop(); !ok {
		t.Fatal("expected an entry")
	}
	if !q.empty() {
		t.Fatal("queue should be empty after draining its only entry")
	}
	// Handle 4 should be re-pushable now that it has been popped.
	q.pushBirth(4, 2)
	if q.empty() {
		t.Fatal("expected handle 4 to be re-queued")
	}
}
