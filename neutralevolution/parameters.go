// Copyright 2024 The Ancestry-Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package neutralevolution is a minimal collaborator driver for the
// ancestry package: it samples which live nodes die, picks parents and
// crossover breakpoints for each replacement birth, and drives an
// EvolveAncestry implementation (ordinarily *ancestry.Population) through
// the generate-deaths/record-births/simplify loop one time step at a time.
package neutralevolution

import (
	"fmt"
	"math"

	"github.com/molpopgen/ancestry-go/ancestry"
)

// ParameterError reports an out-of-range or non-finite Parameters field.
type ParameterError struct {
	Msg string
}

func (e *ParameterError) Error() string { return e.Msg }

func badParameter(format string, args ...interface{}) *ParameterError {
	return &ParameterError{Msg: fmt.Sprintf(format, args...)}
}

// Parameters configures one call to Evolve. All fields are validated by
// NewParameters; there is no other configuration surface for the driver.
type Parameters struct {
	DeathProbability  float64
	MeanNumCrossovers float64
	GenomeLength      ancestry.Position
	NSteps            ancestry.Time
}

// NewParameters validates death_probability in (0, 1], mean_num_crossovers
// finite and >= 0, genome_length >= 1, and nsteps >= 1.
func NewParameters(deathProbability, meanNumCrossovers float64, genomeLength ancestry.Position, nsteps ancestry.Time) (Parameters, error) {
	if math.IsNaN(deathProbability) || math.IsInf(deathProbability, 0) {
		return Parameters{}, badParameter("death_probability must be finite")
	}
	if deathProbability <= 0.0 || deathProbability > 1.0 {
		return Parameters{}, badParameter("death_probability must be 0 < d <= 1.0")
	}
	if math.IsNaN(meanNumCrossovers) || math.IsInf(meanNumCrossovers, 0) {
		return Parameters{}, badParameter("mean_num_crossovers must be finite")
	}
	if meanNumCrossovers < 0.0 {
		return Parameters{}, badParameter("mean_num_crossovers must be >= 0")
	}
	if genomeLength < 1 {
		return Parameters{}, badParameter("genome_length must be >= 1")
	}
	if nsteps < 1 {
		return Parameters{}, badParameter("nsteps must be >= 1")
	}
	return Parameters{
		DeathProbability:  deathProbability,
		MeanNumCrossovers: meanNumCrossovers,
		GenomeLength:      genomeLength,
		NSteps:            nsteps,
	}, nil
}
