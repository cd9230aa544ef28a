// Copyright 2024 The Ancestry-Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ancestry_test

import (
	"testing"

	"github.com/molpopgen/ancestry-go/ancestry"
	"github.com/molpopgen/ancestry-go/internal/testutil"
)

func init() {
	ancestry.DebugAssertions = true
}

func TestPopulationNewRejectsBadGenomeLength(t *testing.T) {
	if _, err := ancestry.New(10, 0); err == nil {
		t.Fatal("expected InvalidGenomeLength for L == 0")
	}
}

func TestPopulationNewFounders(t *testing.T) {
	pop, err := ancestry.New(4, 10)
	if err != nil {
		t.Fatal(err)
	}
	if pop.CurrentPopulationSize() != 4 {
		t.Fatalf("popsize = %d, want 4", pop.CurrentPopulationSize())
	}
	testutil.AssertValidGraph(t, pop)
	testutil.AssertReachableCount(t, pop, 4)
}

// TestPopulationSinglePairOneCoalescence covers two founders each
// transmitting half the genome to one birth: both founders pick up a
// refcount for the birth in addition to their own alive refcount, and the
// birth itself carries the single self-mapped ancestry entry of any
// living node.
func TestPopulationSinglePairOneCoalescence(t *testing.T) {
	pop, err := ancestry.New(2, 10)
	if err != nil {
		t.Fatal(err)
	}
	p := pop.AliveHandle(0)
	q := pop.AliveHandle(1)

	pop.GenerateDeaths(testutil.ConstantDeaths(false))
	b, err := pop.RecordBirth(1, []ancestry.TransmittedSegment{
		{Parent: p, Left: 0, Right: 5},
		{Parent: q, Left: 5, Right: 10},
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := pop.Simplify(1); err != nil {
		t.Fatal(err)
	}

	testutil.AssertValidGraph(t, pop)

	if pop.CurrentPopulationSize() != 3 {
		t.Fatalf("popsize = %d, want 3 (b was appended, nobody died)", pop.CurrentPopulationSize())
	}
	testutil.AssertReachableSet(t, pop, []ancestry.Handle{p, q, b})
	if got := pop.Refcount(p); got != 2 {
		t.Errorf("refcount(p) = %d, want 2 (alive + parent of b)", got)
	}
	if got := pop.Refcount(q); got != 2 {
		t.Errorf("refcount(q) = %d, want 2 (alive + parent of b)", got)
	}
	if !pop.IsAlive(b) {
		t.Error("newborn should be alive")
	}
}

// TestPopulationUnaryPathPruning chains a founder through two single-child
// generations, killing each predecessor as soon as its only child is born:
// every internal node on that unary chain should be released once it is
// no longer anyone's coalescence point, leaving only the current tip
// reachable.
func TestPopulationUnaryPathPruning(t *testing.T) {
	pop, err := ancestry.New(1, 10)
	if err != nil {
		t.Fatal(err)
	}
	a := pop.AliveHandle(0)

	pop.GenerateDeaths(testutil.ConstantDeaths(true))
	b, err := pop.RecordBirth(1, []ancestry.TransmittedSegment{{Parent: a, Left: 0, Right: 10}})
	if err != nil {
		t.Fatal(err)
	}
	if err := pop.Simplify(1); err != nil {
		t.Fatal(err)
	}
	testutil.AssertValidGraph(t, pop)
	for _, h := range pop.AllReachableNodes() {
		if h == a {
			t.Fatal("a should have been released after b's birth made it unary-reachable through b")
		}
	}

	// a's handle is now back on the free list and may be reused by the next
	// birth, so it must not be queried again after this point.
	pop.GenerateDeaths(testutil.ConstantDeaths(true))
	c, err := pop.RecordBirth(2, []ancestry.TransmittedSegment{{Parent: b, Left: 0, Right: 10}})
	if err != nil {
		t.Fatal(err)
	}
	if err := pop.Simplify(2); err != nil {
		t.Fatal(err)
	}
	testutil.AssertValidGraph(t, pop)

	if pop.IsAlive(b) {
		t.Fatal("b should no longer be alive after dying at step 2")
	}
	if !pop.IsAlive(c) {
		t.Fatal("c should still be alive")
	}
	testutil.AssertReachableCount(t, pop, 1)
	if len(pop.Parents(c)) != 0 {
		t.Fatalf("c should have no surviving parent after a and b were pruned, got %v", pop.Parents(c))
	}
}

// TestPopulationRecordBirthDoesNotMutateOnError feeds RecordBirth segment
// lists that must be rejected and checks the facade is left exactly as it
// was: no cohort growth, no new reachable handle, and no refcount or child
// edge on the parent named by an earlier, individually-valid segment.
func TestPopulationRecordBirthDoesNotMutateOnError(t *testing.T) {
	pop, err := ancestry.New(2, 10)
	if err != nil {
		t.Fatal(err)
	}
	if err := pop.Simplify(0); err != nil {
		t.Fatal(err)
	}
	p := pop.AliveHandle(0)
	q := pop.AliveHandle(1)

	assertUntouched := func() {
		t.Helper()
		testutil.AssertValidGraph(t, pop)
		if pop.CurrentPopulationSize() != 2 {
			t.Fatalf("popsize = %d, want 2", pop.CurrentPopulationSize())
		}
		testutil.AssertReachableSet(t, pop, []ancestry.Handle{p, q})
		if got := pop.Refcount(p); got != 1 {
			t.Fatalf("refcount(p) = %d, want 1 (alive only)", got)
		}
		if len(pop.Children(p)) != 0 {
			t.Fatalf("p must have no child edges after a failed birth, got %+v", pop.Children(p))
		}
	}

	// The first segment names a valid parent; the second names a handle the
	// store never allocated. The valid segment must leave no trace either.
	_, err = pop.RecordBirth(1, []ancestry.TransmittedSegment{
		{Parent: p, Left: 0, Right: 5},
		{Parent: ancestry.Handle(99), Left: 5, Right: 10},
	})
	if err == nil {
		t.Fatal("expected DeadParent for an unallocated parent handle")
	}
	if e, ok := err.(*ancestry.Error); !ok || e.Kind != ancestry.DeadParent {
		t.Fatalf("got %v, want DeadParent", err)
	}
	assertUntouched()

	// A parent born at the same time as the birth is rejected up front.
	_, err = pop.RecordBirth(0, []ancestry.TransmittedSegment{
		{Parent: p, Left: 0, Right: 10},
	})
	if err == nil {
		t.Fatal("expected InvalidBirthTimeOrder for a same-time parent")
	}
	if e, ok := err.(*ancestry.Error); !ok || e.Kind != ancestry.InvalidBirthTimeOrder {
		t.Fatalf("got %v, want InvalidBirthTimeOrder", err)
	}
	assertUntouched()

	// Malformed segment coordinates are rejected up front as well.
	_, err = pop.RecordBirth(1, []ancestry.TransmittedSegment{
		{Parent: p, Left: 5, Right: 5},
	})
	if err == nil {
		t.Fatal("expected InvalidSegment for an empty interval")
	}
	if e, ok := err.(*ancestry.Error); !ok || e.Kind != ancestry.InvalidSegment {
		t.Fatalf("got %v, want InvalidSegment", err)
	}
	assertUntouched()

	// The store must still accept a fully-valid birth afterwards.
	if _, err := pop.RecordBirth(1, []ancestry.TransmittedSegment{
		{Parent: p, Left: 0, Right: 10},
	}); err != nil {
		t.Fatalf("valid birth after rejected ones: %v", err)
	}
}

// TestPopulationPartialDeathReplacement kills only the middle founder of
// three and checks the newborn takes over exactly that cohort slot, with
// the survivors untouched.
func TestPopulationPartialDeathReplacement(t *testing.T) {
	pop, err := ancestry.New(3, 10)
	if err != nil {
		t.Fatal(err)
	}
	h0 := pop.AliveHandle(0)
	h1 := pop.AliveHandle(1)
	h2 := pop.AliveHandle(2)

	if got := pop.GenerateDeaths(testutil.NewSequenceDeaths(false, true, false)); got != 1 {
		t.Fatalf("death count = %d, want 1", got)
	}
	b, err := pop.RecordBirth(1, []ancestry.TransmittedSegment{
		{Parent: h0, Left: 0, Right: 10},
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := pop.Simplify(1); err != nil {
		t.Fatal(err)
	}

	testutil.AssertValidGraph(t, pop)
	if pop.CurrentPopulationSize() != 3 {
		t.Fatalf("popsize = %d, want 3", pop.CurrentPopulationSize())
	}
	if got := pop.AliveHandle(1); got != b {
		t.Fatalf("slot 1 holds %d, want the newborn %d", got, b)
	}
	if pop.AliveHandle(0) != h0 || pop.AliveHandle(2) != h2 {
		t.Fatal("surviving founders must keep their cohort slots")
	}
	// h1 left no descendants, so it is released outright.
	for _, h := range pop.AllReachableNodes() {
		if h == h1 {
			t.Fatal("dead founder with no descendants should have been released")
		}
	}
}

func TestPopulationSimplifyIsIdempotent(t *testing.T) {
	pop, err := ancestry.New(4, 10)
	if err != nil {
		t.Fatal(err)
	}
	if err := pop.Simplify(0); err != nil {
		t.Fatal(err)
	}
	before := pop.AllReachableNodes()
	if err := pop.Simplify(0); err != nil {
		t.Fatal(err)
	}
	after := pop.AllReachableNodes()
	if len(before) != len(after) {
		t.Fatalf("a no-op simplify must not change the reachable set: before=%v after=%v", before, after)
	}
}

func TestPopulationFinishIsNoOp(t *testing.T) {
	pop, err := ancestry.New(2, 10)
	if err != nil {
		t.Fatal(err)
	}
	if err := pop.Finish(0); err != nil {
		t.Fatalf("Finish should never error: %v", err)
	}
}
