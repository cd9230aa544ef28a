// Copyright 2024 The Ancestry-Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command ancestrybench runs one or more replicate neutral-evolution
// simulations against the inline ancestry simplification engine and
// reports how many nodes remain reachable at the end of each replicate.
package main

import (
	"flag"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/molpopgen/ancestry-go/ancestry"
	"github.com/molpopgen/ancestry-go/neutralevolution"
)

func main() {
	popsize := flag.Int("N", 1000, "number of haploids")
	rho := flag.Float64("rho", 0.0, "scaled crossover rate, 4Nc")
	sequenceLength := flag.Int64("L", 10000, "sequence length (discrete)")
	nsteps := flag.Int64("nsteps", 100, "number of death/birth steps to simulate")
	deathProbability := flag.Float64("death-probability", 1.0, "probability an alive node dies each step")
	seed := flag.Int64("seed", 101, "RNG seed for the first replicate")
	replicates := flag.Int("replicates", 1, "number of independent replicate populations to run")
	flag.Parse()

	if *popsize < 1 {
		log.Fatalf("N must be >= 1, got %d", *popsize)
	}

	meanNumCrossovers := *rho / 4.0 / float64(*popsize)
	parameters, err := neutralevolution.NewParameters(*deathProbability, meanNumCrossovers, ancestry.Position(*sequenceLength), ancestry.Time(*nsteps))
	if err != nil {
		log.Fatalf("invalid parameters: %v", err)
	}

	results := make([]int, *replicates)
	var g errgroup.Group
	for r := 0; r < *replicates; r++ {
		r := r
		g.Go(func() error {
			population, err := ancestry.New(*popsize, parameters.GenomeLength)
			if err != nil {
				return fmt.Errorf("replicate %d: %w", r, err)
			}
			seeds := [2]int64{*seed + int64(r), *seed + int64(r) + 1_000_000_007}
			if err := neutralevolution.Evolve(seeds, parameters, population); err != nil {
				return fmt.Errorf("replicate %d: %w", r, err)
			}
			results[r] = len(population.AllReachableNodes())
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Fatal(err)
	}

	for r, n := range results {
		fmt.Printf("replicate %d: num still reachable = %d\n", r, n)
	}
}
