// Copyright 2024 The Ancestry-Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ancestry

// AncestrySegment is one entry of a node's ancestry: a genomic interval
// together with the node it is genealogically mapped to after
// simplification.
type AncestrySegment struct {
	Segment Segment
	Mapped  Handle
}

// Store is the column-oriented node table. All node state lives here;
// Handles are borrowed indices into these columns, never owning references.
// A Store is not safe for concurrent use: every operation runs to
// completion on the calling goroutine, and the column slices are mutated
// in place with no synchronization.
type Store struct {
	birthTime []Time
	flags     []NodeFlags
	parents   []map[Handle]struct{}
	ancestry  [][]AncestrySegment
	children  []map[Handle][]Segment
	refcount  []uint32

	free []Handle
}

// NewStore constructs an empty node store.
func NewStore() *Store {
	return &Store{}
}

// Len returns the number of rows ever allocated (including released ones
// still sitting on the free-list). It is the size the propagation queue's
// present-bitset must be initialized to.
func (s *Store) Len() int {
	return len(s.birthTime)
}

func (s *Store) grow() Handle {
	h := Handle(len(s.birthTime))
	s.birthTime = append(s.birthTime, 0)
	s.flags = append(s.flags, 0)
	s.parents = append(s.parents, nil)
	s.ancestry = append(s.ancestry, nil)
	s.children = append(s.children, nil)
	s.refcount = append(s.refcount, 0)
	return h
}

// NewBirth allocates a handle for a newly-born node: reusing a free-list
// entry if one exists, else appending a new row. The node starts alive,
// with ancestry mapping [0, genomeLength) to itself, empty parents and
// children, and refcount 1.
func (s *Store) NewBirth(birthTime Time, genomeLength Position) (Handle, error) {
	if genomeLength < 1 {
		return 0, errInvalidGenomeLength(genomeLength)
	}

	var h Handle
	if n := len(s.free); n > 0 {
		h = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		h = s.grow()
	}

	s.birthTime[h] = birthTime
	s.flags[h] = newAliveFlags()
	s.parents[h] = make(map[Handle]struct{})
	s.children[h] = make(map[Handle][]Segment)
	s.ancestry[h] = []AncestrySegment{{Segment: newSegmentUnchecked(0, genomeLength), Mapped: h}}
	s.refcount[h] = 1

	return h, nil
}

// isValidHandle reports whether h addresses a currently allocated row that
// is not sitting on the free-list. A handle naming a recycled row is stale:
// the caller asked to parent a birth on a node this store no longer knows
// about.
func (s *Store) isValidHandle(h Handle) bool {
	if int(h) >= len(s.birthTime) {
		return false
	}
	for _, f := range s.free {
		if f == h {
			return false
		}
	}
	return true
}

// CheckBirthSegment validates one transmitted segment of a prospective
// birth without mutating anything: the segment's coordinates, the parent
// handle, and the birth-time order. Callers that must fail cleanly (no
// handle allocated, no edge recorded) run this over every segment before
// touching NewBirth.
func (s *Store) CheckBirthSegment(parent Handle, birthTime Time, left, right Position) error {
	if _, err := NewSegment(left, right); err != nil {
		return err
	}
	if !s.isValidHandle(parent) {
		return errDeadParent(parent)
	}
	if s.birthTime[parent] >= birthTime {
		return errInvalidBirthTimeOrder(s.birthTime[parent], birthTime)
	}
	return nil
}

// AddParent records that parent is a parent of child, failing with
// DeadParent if parent does not address live store state, and
// InvalidBirthTimeOrder if the parent is not strictly older.
func (s *Store) AddParent(parent, child Handle) error {
	if !s.isValidHandle(parent) {
		return errDeadParent(parent)
	}
	if s.birthTime[parent] >= s.birthTime[child] {
		return errInvalidBirthTimeOrder(s.birthTime[parent], s.birthTime[child])
	}
	s.parents[child][parent] = struct{}{}
	return nil
}

// AddChildSegment appends [left, right) to parent.children[child], merging
// with the preceding segment when contiguous (prev.Right == left). It does
// not touch the child's parent set: AddParent records that, and the
// ancestry update step rebuilds it.
func (s *Store) AddChildSegment(parent, child Handle, left, right Position) error {
	seg, err := NewSegment(left, right)
	if err != nil {
		return err
	}
	if !s.isValidHandle(parent) {
		return errDeadParent(parent)
	}
	if s.birthTime[child] <= s.birthTime[parent] {
		return errInvalidBirthTimeOrder(s.birthTime[parent], s.birthTime[child])
	}

	segs := s.children[parent][child]
	if n := len(segs); n > 0 && segs[n-1].Right == seg.Left {
		segs[n-1].Right = seg.Right
	} else {
		segs = append(segs, seg)
	}
	s.children[parent][child] = segs
	return nil
}

// Kill clears FlagIsAlive and removes the [0, genomeLength) self-mapping
// entry from the node's ancestry, turning an alive node into an internal
// one. All other state (parents, children) is preserved for propagation.
func (s *Store) Kill(h Handle, genomeLength Position) {
	s.flags[h].clearAlive()
	anc := s.ancestry[h]
	out := anc[:0]
	for _, a := range anc {
		if a.Segment.Left == 0 && a.Segment.Right == genomeLength && a.Mapped == h {
			continue
		}
		out = append(out, a)
	}
	s.ancestry[h] = out
}

// Release returns h to the free-list and clears its parents, ancestry and
// children, making it eligible for reuse by a later NewBirth.
func (s *Store) Release(h Handle) {
	s.parents[h] = nil
	s.ancestry[h] = nil
	s.children[h] = nil
	s.refcount[h] = 0
	s.free = append(s.free, h)
}

// IsAlive reports whether h carries FlagIsAlive.
func (s *Store) IsAlive(h Handle) bool { return s.flags[h].IsAlive() }

// BirthTime returns h's birth time.
func (s *Store) BirthTime(h Handle) Time { return s.birthTime[h] }

// Parents returns h's parent set. Callers must not retain or mutate the
// returned map across a call to updateAncestry.
func (s *Store) Parents(h Handle) map[Handle]struct{} { return s.parents[h] }

// Ancestry returns h's ancestry list.
func (s *Store) Ancestry(h Handle) []AncestrySegment { return s.ancestry[h] }

// Children returns h's child map.
func (s *Store) Children(h Handle) map[Handle][]Segment { return s.children[h] }

// Refcount returns h's current refcount.
func (s *Store) Refcount(h Handle) uint32 { return s.refcount[h] }

// ResetRefcounts zeroes every row's refcount, in preparation for the
// from-scratch recomputation Simplify performs each round.
func (s *Store) ResetRefcounts() {
	for i := range s.refcount {
		s.refcount[i] = 0
	}
}

// IncRefcount increments h's refcount by one.
func (s *Store) IncRefcount(h Handle) { s.refcount[h]++ }
