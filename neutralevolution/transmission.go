// Copyright 2024 The Ancestry-Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package neutralevolution

import (
	"math/rand"
	"sort"

	"github.com/molpopgen/ancestry-go/ancestry"
)

// generateCrossoverPositions samples numCrossovers breakpoints uniformly
// over (0, genomeLength), sorts them, and brackets them with 0 and
// genomeLength so fillTransmissions can walk consecutive pairs. A genome of
// length 1 admits no interior breakpoint, so numCrossovers is ignored in
// that case.
func generateCrossoverPositions(genomeLength ancestry.Position, numCrossovers int, rng *rand.Rand) []ancestry.Position {
	crossovers := make([]ancestry.Position, 0, numCrossovers+2)
	crossovers = append(crossovers, 0)
	if genomeLength > 1 {
		for i := 0; i < numCrossovers; i++ {
			pos := ancestry.Position(1 + rng.Int63n(int64(genomeLength)-1))
			crossovers = append(crossovers, pos)
		}
	}
	sort.Slice(crossovers, func(i, j int) bool { return crossovers[i] < crossovers[j] })
	crossovers = append(crossovers, genomeLength)
	return crossovers
}

// fillTransmissions converts a bracketed, sorted crossover list into the
// transmitted-segment list for one birth, alternating between parent1 and
// parent2 at each breakpoint. An even number of breakpoints falling at the
// same position cancels out (the lineage returns to the parent it started
// from), so those are collapsed into a single transmission rather than
// emitting a zero-length segment, which RecordBirth would otherwise reject.
func fillTransmissions(parent1, parent2 ancestry.Handle, crossovers []ancestry.Position) []ancestry.TransmittedSegment {
	var out []ancestry.TransmittedSegment

	p1, p2 := parent1, parent2
	lastLeft := crossovers[0]
	start := 1
	for start < len(crossovers) {
		right := crossovers[start]
		count := 0
		for start+count < len(crossovers) && crossovers[start+count] == right {
			count++
		}
		if count%2 != 0 {
			out = append(out, ancestry.TransmittedSegment{Left: lastLeft, Right: right, Parent: p1})
			lastLeft = right
			p1, p2 = p2, p1
		}
		start += count
	}
	return out
}
