// Copyright 2024 The Ancestry-Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ancestry

import "container/heap"

// nodeKind classifies why a node was pushed into the propagation queue, and
// breaks ties between nodes born at the same time: a node enqueued because
// it is a parent of something already processed must be updated before a
// same-time birth or death is, since births and deaths at the new time step
// have not contributed their edges yet. Parent sorts before Birth, which
// sorts before Death.
type nodeKind int

const (
	kindParent nodeKind = iota
	kindBirth
	kindDeath
)

type queueEntry struct {
	handle    Handle
	birthTime Time
	kind      nodeKind
}

// entryHeap is a container/heap.Interface ordering entries so that the node
// with the largest birth time (ties broken by the smallest kind) is always
// at the root: draining the heap via pop therefore visits nodes
// most-recent-first. A node's parents are always older than it, so
// processing most-recent-first guarantees a node's ancestors see its
// up-to-date child map when their own turn comes.
type entryHeap []queueEntry

func (h entryHeap) Len() int { return len(h) }

func (h entryHeap) Less(i, j int) bool {
	if h[i].birthTime != h[j].birthTime {
		return h[i].birthTime > h[j].birthTime
	}
	return h[i].kind < h[j].kind
}

func (h entryHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *entryHeap) Push(x interface{}) {
	*h = append(*h, x.(queueEntry))
}

func (h *entryHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// propagationQueue is a binary heap of affected nodes paired with a
// present-membership bitset indexed by handle, so that a node already
// queued is never queued twice. initialize must be called with the store's
// current size before the first push of a propagation round.
type propagationQueue struct {
	h       entryHeap
	present []bool
}

func newPropagationQueue() *propagationQueue {
	return &propagationQueue{}
}

// initialize sizes the present-membership bitset to n handles, clearing it.
func (q *propagationQueue) initialize(n int) {
	if cap(q.present) < n {
		q.present = make([]bool, n)
	} else {
		q.present = q.present[:n]
		for i := range q.present {
			q.present[i] = false
		}
	}
}

func (q *propagationQueue) push(h Handle, birthTime Time, kind nodeKind) {
	if int(h) < len(q.present) && q.present[h] {
		return
	}
	heap.Push(&q.h, queueEntry{handle: h, birthTime: birthTime, kind: kind})
	if int(h) >= len(q.present) {
		grown := make([]bool, int(h)+1)
		copy(grown, q.present)
		q.present = grown
	}
	q.present[h] = true
}

func (q *propagationQueue) pushBirth(h Handle, birthTime Time) { q.push(h, birthTime, kindBirth) }
func (q *propagationQueue) pushDeath(h Handle, birthTime Time) { q.push(h, birthTime, kindDeath) }
func (q *propagationQueue) pushParent(h Handle, birthTime Time) {
	q.push(h, birthTime, kindParent)
}

// pop removes and returns the most-recent (birthTime desc, kind asc) entry.
func (q *propagationQueue) pop() (entry queueEntry, ok bool) {
	if q.h.Len() == 0 {
		return queueEntry{}, false
	}
	e := heap.Pop(&q.h).(queueEntry)
	if int(e.handle) < len(q.present) {
		q.present[e.handle] = false
	}
	return e, true
}

func (q *propagationQueue) empty() bool { return q.h.Len() == 0 }

// clear empties the heap without touching the present bitset's length,
// used between simplification rounds to avoid stale entries from a node
// that was queued but never recycled.
func (q *propagationQueue) clear() {
	q.h = q.h[:0]
}
