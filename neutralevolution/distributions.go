// Copyright 2024 The Ancestry-Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package neutralevolution

import (
	"math"
	"math/rand"
)

// poisson draws from a Poisson distribution with mean lambda using Knuth's
// multiplication algorithm. The means used here are small (per-birth
// crossover counts), where the multiplication method is exact and fast
// enough that a heavier sampler buys nothing.
func poisson(rng *rand.Rand, lambda float64) int {
	if lambda <= 0 {
		return 0
	}
	l := math.Exp(-lambda)
	k := 0
	p := 1.0
	for {
		k++
		p *= rng.Float64()
		if p <= l {
			return k - 1
		}
	}
}

// bernoulli reports true with probability p.
func bernoulli(rng *rand.Rand, p float64) bool {
	return rng.Float64() < p
}
