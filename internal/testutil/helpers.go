// Copyright 2024 The Ancestry-Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package testutil

import (
	"log"
	"sort"
	"testing"

	"github.com/kylelemons/godebug/pretty"

	"github.com/molpopgen/ancestry-go/ancestry"
)

// AssertValidGraph fails the test if pop's graph invariants do not hold,
// logging the validation error's message. Under DEBUG=1 it also logs the
// reachable set before checking.
func AssertValidGraph(t *testing.T, pop *ancestry.Population) {
	t.Helper()
	if VerboseTest() {
		log.Printf("validating graph: %d reachable node(s): %v", len(pop.AllReachableNodes()), pop.AllReachableNodes())
	}
	if err := pop.ValidateGraph(); err != nil {
		t.Fatalf("graph invariants violated: %v", err)
	}
}

// AssertReachableCount fails the test unless pop reports exactly want
// reachable nodes.
func AssertReachableCount(t *testing.T, pop *ancestry.Population, want int) {
	t.Helper()
	if got := len(pop.AllReachableNodes()); got != want {
		t.Fatalf("reachable node count = %d, want %d", got, want)
	}
}

// AssertReachableSet fails the test unless pop's reachable node set is
// exactly want, printing a structural diff when it is not.
func AssertReachableSet(t *testing.T, pop *ancestry.Population, want []ancestry.Handle) {
	t.Helper()
	got := pop.AllReachableNodes()
	sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
	wantSorted := append([]ancestry.Handle(nil), want...)
	sort.Slice(wantSorted, func(i, j int) bool { return wantSorted[i] < wantSorted[j] })
	if VerboseTest() {
		log.Printf("reachable set: got %v, want %v", got, wantSorted)
	}
	if diff := pretty.Compare(got, wantSorted); diff != "" {
		t.Fatalf("reachable set mismatch (-got +want):\n%s", diff)
	}
}

// ConstantDeaths is a Sampler that reports a fixed answer every call, used
// by tests that need deterministic death schedules without pulling in the
// driver's RNG-backed sampler.
type ConstantDeaths bool

func (c ConstantDeaths) Dies() bool { return bool(c) }

// SequenceDeaths is a Sampler that replays a fixed sequence of answers, one
// per call, then panics if exhausted -- tests size it exactly to the
// number of alive nodes they expect GenerateDeaths to poll.
type SequenceDeaths struct {
	answers []bool
	i       int
}

func NewSequenceDeaths(answers ...bool) *SequenceDeaths {
	return &SequenceDeaths{answers: answers}
}

func (s *SequenceDeaths) Dies() bool {
	v := s.answers[s.i]
	s.i++
	return v
}
