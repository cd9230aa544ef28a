// Copyright 2024 The Ancestry-Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ancestry

// DebugAssertions gates internal consistency checks on the node store's hot
// paths: sorted, disjoint ancestry and child-segment lists after every
// per-node ancestry update. Violations are bugs in this package, not caller
// errors, so they panic rather than return. Tests switch this on; it
// defaults to off so production simplification pays nothing for it.
var DebugAssertions = false

func assertSortedAncestry(anc []AncestrySegment) {
	for i := 1; i < len(anc); i++ {
		if anc[i-1].Segment.Right > anc[i].Segment.Left {
			panic(errIntervalsError("ancestry of node is not sorted and disjoint after update").Error())
		}
	}
}

func (s *Store) assertNodeConsistent(h Handle) {
	assertSortedAncestry(s.ancestry[h])
	for _, segs := range s.children[h] {
		if !nonOverlapping(segs) {
			panic(errIntervalsError("child segment list is not sorted and disjoint after update").Error())
		}
	}
}
