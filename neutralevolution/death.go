// Copyright 2024 The Ancestry-Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package neutralevolution

import "math/rand"

// Death is a death sampler: it implements ancestry.Sampler by comparing a
// fresh uniform draw against a fixed death probability each call.
type Death struct {
	rng              *rand.Rand
	deathProbability float64
}

// NewDeath seeds a Death sampler. deathProbability is not validated here;
// callers obtain it from an already-validated Parameters value.
func NewDeath(seed int64, deathProbability float64) *Death {
	return &Death{
		rng:              rand.New(rand.NewSource(seed)),
		deathProbability: deathProbability,
	}
}

// Dies reports whether the currently-considered node dies this step.
func (d *Death) Dies() bool {
	return d.rng.Float64() <= d.deathProbability
}
