// Copyright 2024 The Ancestry-Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package neutralevolution

import (
	"math/rand"

	"github.com/molpopgen/ancestry-go/ancestry"
)

// EvolveAncestry is the subset of ancestry.Population's API this driver
// needs, abstracted out so that a different ancestry engine (or a test
// double) can stand in for it. *ancestry.Population satisfies it without
// any adapter.
type EvolveAncestry interface {
	GenomeLength() ancestry.Position
	CurrentPopulationSize() int
	AliveHandle(i int) ancestry.Handle
	GenerateDeaths(sampler ancestry.Sampler) int
	RecordBirth(birthTime ancestry.Time, segments []ancestry.TransmittedSegment) (ancestry.Handle, error)
	Simplify(t ancestry.Time) error
	Finish(t ancestry.Time) error
}

// Evolve runs parameters.NSteps generations of non-overlapping-or-partial
// replacement against population: each step it asks population which live
// nodes die, picks two parents and a set of crossover breakpoints for each
// replacement, and records the resulting birth before simplifying.
//
// seeds[0] seeds the death sampler, seeds[1] seeds parent/crossover
// sampling; the two are independent so that changing the death schedule
// does not perturb the crossover sequence and vice versa.
//
// Steps are numbered 1..=NSteps rather than 0..NSteps: founders occupy
// birth time 0, and a child's birth time must be strictly greater than
// every one of its parents', so the first generation cannot also land on
// time 0.
func Evolve(seeds [2]int64, parameters Parameters, population EvolveAncestry) error {
	death := NewDeath(seeds[0], parameters.DeathProbability)
	rng := rand.New(rand.NewSource(seeds[1]))

	var transmissions []ancestry.TransmittedSegment
	var parents []ancestry.Handle

	var lastStep ancestry.Time
	for step := ancestry.Time(1); step <= parameters.NSteps; step++ {
		lastStep = step
		nreplacements := population.GenerateDeaths(death)

		// Parents are drawn from the cohort as it stood at the start of the
		// step: an individual dying this step can still parent a
		// replacement, but a newborn from this same step cannot, so the
		// cohort is snapshotted before births begin overwriting its slots.
		popsize := population.CurrentPopulationSize()
		parents = parents[:0]
		for i := 0; i < popsize; i++ {
			parents = append(parents, population.AliveHandle(i))
		}

		for i := 0; i < nreplacements; i++ {
			p1 := parents[rng.Intn(popsize)]
			p2 := parents[rng.Intn(popsize)]
			if bernoulli(rng, 0.5) {
				p1, p2 = p2, p1
			}

			n := poisson(rng, parameters.MeanNumCrossovers)
			crossovers := generateCrossoverPositions(parameters.GenomeLength, n, rng)
			transmissions = fillTransmissions(p1, p2, crossovers)

			if _, err := population.RecordBirth(step, transmissions); err != nil {
				return err
			}
		}

		if err := population.Simplify(step); err != nil {
			return err
		}
	}

	if err := population.Finish(lastStep); err != nil {
		return err
	}
	return nil
}
