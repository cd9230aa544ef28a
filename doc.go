// Copyright 2024 The Ancestry-Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Ancestry-go maintains the genealogical ancestry of a finite population
// evolving by birth and death, simplifying it inline as the population
// changes rather than in periodic global passes.
//
// The core engine lives in the ancestry package. The neutralevolution
// package is a minimal driver that samples deaths and crossover
// breakpoints and drives an ancestry.Population through the simulation
// loop; cmd/ancestrybench is a small benchmarking entry point built on it.
package lib
