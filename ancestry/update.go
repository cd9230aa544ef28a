// Copyright 2024 The Ancestry-Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ancestry

// intersectingAncestry builds the overlapper's input for h: for every
// (child, segs) in h.children and every seg in segs, every entry of
// child's own ancestry that overlaps seg contributes one
// AncestryIntersection, clipped to the overlap and carrying that entry's
// mapped node forward.
func (s *Store) intersectingAncestry(h Handle) []AncestryIntersection {
	var out []AncestryIntersection
	for child, segs := range s.children[h] {
		childAncestry := s.ancestry[child]
		for _, seg := range segs {
			for _, x := range childAncestry {
				if x.Segment.Overlaps(seg) {
					left := x.Segment.Left
					if seg.Left > left {
						left = seg.Left
					}
					right := x.Segment.Right
					if seg.Right < right {
						right = seg.Right
					}
					out = append(out, AncestryIntersection{
						Segment: newSegmentUnchecked(left, right),
						Mapped:  x.Mapped,
					})
				}
			}
		}
	}
	return out
}

// appendChildSegment appends [left, right) to segs, squashing with the
// preceding entry when contiguous. Used by updateAncestry; AddChildSegment
// applies the same squashing rule inline.
func appendChildSegment(segs []Segment, left, right Position) []Segment {
	if n := len(segs); n > 0 && segs[n-1].Right == left {
		segs[n-1].Right = right
		return segs
	}
	return append(segs, newSegmentUnchecked(left, right))
}

// appendAncestrySegment appends (left, right, mapped) to anc, squashing with
// the preceding entry when it is contiguous and maps to the same node.
func appendAncestrySegment(anc []AncestrySegment, left, right Position, mapped Handle) []AncestrySegment {
	if n := len(anc); n > 0 && anc[n-1].Segment.Right == left && anc[n-1].Mapped == mapped {
		anc[n-1].Segment.Right = right
		return anc
	}
	return append(anc, AncestrySegment{Segment: newSegmentUnchecked(left, right), Mapped: mapped})
}

func ancestryEqual(a, b []AncestrySegment) bool {
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

// updateAncestry rebuilds h's ancestry and child map from the ancestry its
// children currently hold, and reports whether h's own ancestry changed as
// a result (or became empty, signalling that h's handle may be released).
//
// h's children map and the corresponding parent back-references are torn
// down and rebuilt from whatever the overlapper emits; this is what lets a
// single pass discover both unary pass-through (h drops out of a lineage)
// and newly-formed coalescence (h remains the meeting point of >1
// lineage).
func (s *Store) updateAncestry(h Handle) (changed bool, err error) {
	alive := s.IsAlive(h)

	intersections := s.intersectingAncestry(h)
	overlapper, err := NewOverlapper(intersections)
	if err != nil {
		return false, err
	}

	for child := range s.children[h] {
		delete(s.parents[child], h)
	}
	s.children[h] = make(map[Handle][]Segment)

	var output []AncestrySegment
	for {
		left, right, overlaps, ok := overlapper.Next()
		if !ok {
			break
		}

		var mapped Handle
		if len(overlaps) == 1 {
			mapped = overlaps[0].Mapped
			if alive {
				s.children[h][mapped] = appendChildSegment(s.children[h][mapped], left, right)
			}
		} else {
			mapped = h
			for _, ov := range overlaps {
				s.children[h][ov.Mapped] = appendChildSegment(s.children[h][ov.Mapped], left, right)
			}
		}

		if !alive {
			output = appendAncestrySegment(output, left, right, mapped)
		}
	}

	for child := range s.children[h] {
		s.parents[child][h] = struct{}{}
	}

	if alive {
		if DebugAssertions {
			s.assertNodeConsistent(h)
		}
		return false, nil
	}

	old := s.ancestry[h]
	s.ancestry[h] = output
	if DebugAssertions {
		s.assertNodeConsistent(h)
	}
	return !ancestryEqual(old, output) || len(output) == 0, nil
}
