// Copyright 2024 The Ancestry-Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ancestry

import "sort"

// AncestryIntersection is one record fed to an Overlapper: the overlap of a
// child's transmitted segment with an entry of that child's own ancestry,
// together with the node the overlapping interval is ultimately mapped to.
type AncestryIntersection struct {
	Segment Segment
	Mapped  Handle
}

// Overlapper drives the sweep-line algorithm: given a multiset of
// AncestryIntersection records derived from one node's children, it emits a
// partition of their union into maximal sub-intervals of constant active
// set, via repeated calls to Next.
//
// Go has no coroutine primitive to express a lazy sequence of overlap
// events directly, so the sweep's state (sorted buffer, active list, read
// cursor, current right bound) are plain struct fields advanced one step
// per Next call. There is no maximum-value sentinel record appended to the
// input; end of iteration is instead signalled by the explicit ok return
// value, which avoids reserving a value out of the position space.
type Overlapper struct {
	intersections []AncestryIntersection
	overlaps      []AncestryIntersection
	j, n          int
	right         Position
}

// NewOverlapper sorts intersections by Segment.Left and prepares the sweep.
// It fails with IntervalsError if any intersection has Right <= Left.
func NewOverlapper(intersections []AncestryIntersection) (*Overlapper, error) {
	buf := make([]AncestryIntersection, len(intersections))
	copy(buf, intersections)
	sort.Slice(buf, func(i, j int) bool { return buf[i].Segment.Left < buf[j].Segment.Left })

	for _, x := range buf {
		if x.Segment.Left >= x.Segment.Right {
			return nil, errIntervalsError("ancestry overlapper: zero-length or inverted intersection")
		}
	}

	n := len(buf)
	var right Position
	if n > 0 {
		right = buf[0].Segment.Left
	}
	return &Overlapper{intersections: buf, j: 0, n: n, right: right}, nil
}

func (o *Overlapper) minRightInOverlaps() Position {
	min := o.overlaps[0].Segment.Right
	for _, x := range o.overlaps[1:] {
		if x.Segment.Right < min {
			min = x.Segment.Right
		}
	}
	return min
}

// retain drops every active overlap whose Right has fallen to or below left.
func (o *Overlapper) retain(left Position) {
	out := o.overlaps[:0]
	for _, x := range o.overlaps {
		if x.Segment.Right > left {
			out = append(out, x)
		}
	}
	o.overlaps = out
}

// Next emits the next maximal constant-active-set interval. It returns
// ok == false once the active set is empty and no unread intersections
// remain, at which point the sweep is complete. The returned overlaps slice
// is owned by the caller: Next never aliases it into a future call.
func (o *Overlapper) Next() (left, right Position, overlaps []AncestryIntersection, ok bool) {
	if o.j < o.n {
		left = o.right
		o.retain(left)
		if len(o.overlaps) == 0 {
			left = o.intersections[o.j].Segment.Left
		}
		for o.j < o.n && o.intersections[o.j].Segment.Left == left {
			o.overlaps = append(o.overlaps, o.intersections[o.j])
			o.j++
		}

		right = o.minRightInOverlaps()
		if o.j < o.n && o.intersections[o.j].Segment.Left < right {
			right = o.intersections[o.j].Segment.Left
		}
		o.right = right

		out := make([]AncestryIntersection, len(o.overlaps))
		copy(out, o.overlaps)
		return left, right, out, true
	}

	if len(o.overlaps) > 0 {
		left = o.right
		o.retain(left)
		if len(o.overlaps) > 0 {
			o.right = o.minRightInOverlaps()
			out := make([]AncestryIntersection, len(o.overlaps))
			copy(out, o.overlaps)
			return left, o.right, out, true
		}
	}

	return 0, 0, nil, false
}
