// Copyright 2024 The Ancestry-Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ancestry

// Sampler is the driver-supplied death process: Dies reports whether the
// currently-considered alive node dies this step. Implementations may carry
// their own RNG state; Population has no opinion on how deaths are sampled,
// only on what to do with the answer.
type Sampler interface {
	Dies() bool
}

// TransmittedSegment names one parental contribution to a new birth: the
// interval [Left, Right) that Parent transmitted to the child being
// recorded. A birth's segments must cover [0, L) with no gaps or overlaps;
// collapsing adjacent same-parent segments (an even number of crossover
// breakpoints cancelling out at one position) is the driver's
// responsibility before the segments reach RecordBirth, not Population's.
type TransmittedSegment struct {
	Parent      Handle
	Left, Right Position
}

// Population is the facade the driver operates through. It owns the node
// store exclusively, so the store itself is never exposed outside this
// package, and holds the live cohort, the pending births/deaths for the
// step in progress, and the propagation queue.
type Population struct {
	store        *Store
	genomeLength Position

	alive           []Handle
	births          []Handle
	deaths          []Handle
	nextReplacement []int

	queue *propagationQueue
}

// New creates popsize alive founder nodes with self-mapped ancestry over
// [0, genomeLength). Fails with InvalidGenomeLength if genomeLength < 1.
func New(popsize int, genomeLength Position) (*Population, error) {
	if genomeLength < 1 {
		return nil, errInvalidGenomeLength(genomeLength)
	}

	store := NewStore()
	alive := make([]Handle, 0, popsize)
	for i := 0; i < popsize; i++ {
		h, err := store.NewBirth(0, genomeLength)
		if err != nil {
			return nil, err
		}
		alive = append(alive, h)
	}

	return &Population{
		store:        store,
		genomeLength: genomeLength,
		alive:        alive,
		queue:        newPropagationQueue(),
	}, nil
}

// GenomeLength returns L.
func (p *Population) GenomeLength() Position { return p.genomeLength }

// CurrentPopulationSize returns the size of the live cohort.
func (p *Population) CurrentPopulationSize() int { return len(p.alive) }

// AliveHandle returns the handle occupying live-cohort slot i. The driver
// uses this to turn a parent index sampled uniformly over
// [0, CurrentPopulationSize()) into a handle it can hand back through
// RecordBirth's TransmittedSegment.Parent.
func (p *Population) AliveHandle(i int) Handle { return p.alive[i] }

// GenerateDeaths asks sampler whether each currently-alive node dies,
// recording the handles that die and the cohort slots they vacate. It
// returns the number of deaths.
func (p *Population) GenerateDeaths(sampler Sampler) int {
	p.deaths = p.deaths[:0]
	p.nextReplacement = p.nextReplacement[:0]

	for i, h := range p.alive {
		if sampler.Dies() {
			p.deaths = append(p.deaths, h)
			p.nextReplacement = append(p.nextReplacement, i)
		}
	}

	return len(p.deaths)
}

// RecordBirth allocates a fresh handle via the node store and wires it to
// its parents' transmitted segments. The newborn occupies the next vacated
// cohort slot recorded by GenerateDeaths, or is appended if no slot is
// pending.
func (p *Population) RecordBirth(birthTime Time, segments []TransmittedSegment) (Handle, error) {
	// Every segment is validated before the store is touched: NewBirth
	// consumes a free-list slot and marks it alive, so allocating first and
	// failing on a later segment would strand that handle outside the
	// cohort, held reachable forever by its own alive refcount, with any
	// already-recorded edge inflating a real parent's refcount.
	for _, seg := range segments {
		if err := p.store.CheckBirthSegment(seg.Parent, birthTime, seg.Left, seg.Right); err != nil {
			return 0, err
		}
	}

	h, err := p.store.NewBirth(birthTime, p.genomeLength)
	if err != nil {
		return 0, err
	}

	for _, seg := range segments {
		if err := p.store.AddParent(seg.Parent, h); err != nil {
			return 0, err
		}
		if err := p.store.AddChildSegment(seg.Parent, h, seg.Left, seg.Right); err != nil {
			return 0, err
		}
	}

	if n := len(p.nextReplacement); n > 0 {
		slot := p.nextReplacement[n-1]
		p.nextReplacement = p.nextReplacement[:n-1]
		p.alive[slot] = h
	} else {
		p.alive = append(p.alive, h)
	}
	p.births = append(p.births, h)

	return h, nil
}

// Simplify drains the propagation queue for every node affected by this
// step's births and deaths, rebuilding ancestry along the way, then
// recomputes every node's refcount from scratch by walking the current
// graph, releasing any handle whose refcount falls to zero back to the
// node store's free-list. Recomputing from scratch each round is simpler
// and just as cheap as threading an incremental increment/decrement
// discipline through every mutation site, and it cannot drift out of sync
// with the graph the way an incremental count could.
func (p *Population) Simplify(t Time) error {
	p.queue.initialize(p.store.Len())

	for _, h := range p.births {
		p.queue.pushBirth(h, t)
	}
	for _, h := range p.deaths {
		p.queue.pushDeath(h, p.store.BirthTime(h))
	}
	p.births = p.births[:0]

	if err := p.propagateAncestryChanges(); err != nil {
		return err
	}

	p.recomputeRefcounts()
	return nil
}

// propagateAncestryChanges drains the queue most-recent-first: deaths are
// killed before their ancestry update runs, and a node's parents are only
// re-enqueued when its own ancestry changed or it remains alive. A node
// whose ancestry did not change and which is no longer alive cannot affect
// its parents' view of the world, so there is nothing further to
// propagate upward from it.
func (p *Population) propagateAncestryChanges() error {
	for {
		entry, ok := p.queue.pop()
		if !ok {
			break
		}

		if entry.kind == kindDeath {
			p.store.Kill(entry.handle, p.genomeLength)
		}

		changed, err := p.store.updateAncestry(entry.handle)
		if err != nil {
			return err
		}

		if changed || p.store.IsAlive(entry.handle) {
			for parent := range p.store.Parents(entry.handle) {
				p.queue.pushParent(parent, p.store.BirthTime(parent))
			}
		}
	}

	p.queue.clear()
	p.deaths = p.deaths[:0]
	return nil
}

// recomputeRefcounts walks every currently-allocated handle, crediting one
// reference to a node for being alive and one more to both ends of every
// surviving parent-child edge, then releases anything that comes out to
// zero. A node can therefore be referenced without transmitting anything
// itself: an alive leaf kept around purely as someone else's pass-through
// target still picks up a reference from that edge, on top of its own
// alive reference. This is a from-scratch recount over the whole store
// rather than only the handles touched by this round's propagation, which
// is what makes a subtree that saw no births or deaths this step keep the
// refcount it is entitled to.
func (p *Population) recomputeRefcounts() {
	p.store.ResetRefcounts()

	n := p.store.Len()
	for h := Handle(0); int(h) < n; h++ {
		if !p.store.isValidHandle(h) {
			continue
		}
		if p.store.IsAlive(h) {
			p.store.IncRefcount(h)
		}
		for child := range p.store.Children(h) {
			p.store.IncRefcount(h)
			p.store.IncRefcount(child)
		}
	}

	for h := Handle(0); int(h) < n; h++ {
		if !p.store.isValidHandle(h) {
			continue
		}
		if p.store.Refcount(h) == 0 {
			p.store.Release(h)
		}
	}
}

// Finish is the terminal hook a driver calls once it has no more steps to
// run. It is a no-op: births recorded since the last Simplify stay pending
// and are not propagated by Finish. Callers should still call it: a future driver
// variant that batches work across steps would need somewhere to drain
// that buffer before reporting a final answer.
func (p *Population) Finish(t Time) error { return nil }

// IsAlive, Refcount, Parents, Children and BirthTime expose the node
// store's per-handle diagnostics through the facade, for tests and driver
// introspection; the store itself is never exposed outside this package.
func (p *Population) IsAlive(h Handle) bool                  { return p.store.IsAlive(h) }
func (p *Population) Refcount(h Handle) uint32               { return p.store.Refcount(h) }
func (p *Population) Parents(h Handle) map[Handle]struct{}   { return p.store.Parents(h) }
func (p *Population) Children(h Handle) map[Handle][]Segment { return p.store.Children(h) }
func (p *Population) BirthTime(h Handle) Time                { return p.store.BirthTime(h) }

// AllReachableNodes returns every handle with positive refcount. Refcounts
// are recomputed every Simplify to be exactly the reference count of the
// post-propagation graph, so a handle holds a positive refcount if and
// only if it is alive or sits on a path from some alive node upward
// through the parent relation; this is exactly the reachable set.
func (p *Population) AllReachableNodes() []Handle {
	var out []Handle
	n := p.store.Len()
	for h := Handle(0); int(h) < n; h++ {
		if p.store.isValidHandle(h) && p.store.Refcount(h) > 0 {
			out = append(out, h)
		}
	}
	return out
}

// ValidateGraph checks the invariants that are not enforced incrementally
// by construction: alive nodes carry exactly the self-mapped ancestry
// entry, ancestry and child-segment lists are sorted and disjoint, and
// parent/child back-references agree in both directions.
func (p *Population) ValidateGraph() error {
	n := p.store.Len()
	for h := Handle(0); int(h) < n; h++ {
		if !p.store.isValidHandle(h) {
			continue
		}

		anc := p.store.Ancestry(h)
		if p.store.IsAlive(h) {
			if len(anc) != 1 || anc[0].Segment.Left != 0 || anc[0].Segment.Right != p.genomeLength || anc[0].Mapped != h {
				return errIntervalsError("alive node does not carry a single self-mapped ancestry entry")
			}
		}
		segs := make([]Segment, len(anc))
		for i, a := range anc {
			segs[i] = a.Segment
		}
		if !nonOverlapping(segs) {
			return errIntervalsError("ancestry is not sorted and disjoint")
		}

		for child, cs := range p.store.Children(h) {
			if !p.store.isValidHandle(child) {
				return errUnreachableChild(h, child)
			}
			if _, ok := p.store.Parents(child)[h]; !ok {
				return errUnreachableChild(h, child)
			}
			if len(cs) == 0 {
				return errIntervalsError("child segment list must not be empty")
			}
			if !nonOverlapping(cs) {
				return errIntervalsError("child segment list is not sorted and disjoint")
			}
			for _, seg := range cs {
				contained := false
				for _, a := range anc {
					if a.Segment.Left <= seg.Left && seg.Right <= a.Segment.Right {
						contained = true
						break
					}
				}
				if !contained {
					return errIntervalsError("child segment lies outside every ancestry entry of its parent")
				}
			}
		}

		for parent := range p.store.Parents(h) {
			if !p.store.isValidHandle(parent) {
				return errUnreachableChild(parent, h)
			}
			if _, ok := p.store.Children(parent)[h]; !ok {
				return errUnreachableChild(parent, h)
			}
		}
	}
	return nil
}
