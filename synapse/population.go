// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package synapse implements the sparse synaptic connectivity driver
(§4.5/§4.6 of the design): a CSR graph of edges between a source and a
destination population, delivering spikes along outgoing edges with a
fixed axonal delay and, for plastic kinds, walking each edge's
destination firing history to apply spike-timing-dependent updates.
Ported from
original_source/spice/include/spice/detail/synapse_population.h.
*/
package synapse

import (
	"math/bits"

	"github.com/emer/spice/v2/csr"
	"github.com/emer/spice/v2/errs"
	"github.com/emer/spice/v2/rng"
	"github.com/emer/spice/v2/topo"
)

// Population drives the synapses of one kind connecting a source
// population to a destination population: E is the per-edge payload type
// (struct{} for a stateless kind), S the source neuron state type, D the
// destination neuron state type.
type Population[E, S, D any] struct {
	graph *csr.Graph[E]
	delay int32

	deliverTo     DeliverToKind[E, D]
	deliverFromTo DeliverFromToKind[E, S, D]

	plastic    bool
	plasticUpd PlasticKind[E]
	// ages packs, per source neuron, the tick after which this edge row
	// was last caught up (low 63 bits) and whether that catch-up included
	// a delivery (top bit) -- the reference engine's _ages word.
	ages []uint64
}

// New builds a synapse population connecting t's bound source and
// destination counts, with the given uniform axonal delay (in ticks).
func New[E, S, D any](kind any, t topo.Topology, seed rng.Seed, delay int32) (*Population[E, S, D], error) {
	if delay < 1 {
		return nil, errs.New(errs.BadDelay, "synapse delay must be >= 1, got %d", delay)
	}

	deliverTo, isTo := kind.(DeliverToKind[E, D])
	deliverFromTo, isFromTo := kind.(DeliverFromToKind[E, S, D])
	n := 0
	for _, b := range []bool{isTo, isFromTo} {
		if b {
			n++
		}
	}
	switch {
	case n > 1:
		return nil, errs.New(errs.AmbiguousShape, "synapse kind %T satisfies both DeliverToKind and DeliverFromToKind", kind)
	case n == 0:
		return nil, errs.New(errs.UnsupportedShape, "synapse kind %T satisfies neither DeliverToKind nor DeliverFromToKind", kind)
	}

	graph, err := csr.Build[E](t, seed.Advance(), true)
	if err != nil {
		return nil, err
	}

	p := &Population[E, S, D]{
		graph:         graph,
		delay:         delay,
		deliverTo:     deliverTo,
		deliverFromTo: deliverFromTo,
	}

	if initer, ok := kind.(SynapseIniter[E]); ok {
		g := rng.NewGen64(seed.Advance())
		for src := int32(0); src < t.SrcCount(); src++ {
			it := graph.Neighbors(src)
			for {
				dst, edge, ok := it.Next()
				if !ok {
					break
				}
				initer.InitSynapse(edge, src, dst, g)
			}
		}
	}

	if plasticUpd, ok := kind.(PlasticKind[E]); ok {
		p.plasticUpd = plasticUpd
		p.plastic = true
		p.ages = make([]uint64, t.SrcCount())
	}

	return p, nil
}

// Delay returns this population's uniform axonal delay, in ticks.
func (p *Population[E, S, D]) Delay() int32 { return p.delay }

// Deliver walks every source in spikes and, along each outgoing edge,
// delivers to the destination neuron and (for a plastic kind) catches up
// that edge's spike-timing-dependent state against dstHistory.
func (p *Population[E, S, D]) Deliver(time int32, dt float32, spikes []int32, srcStates []S, dstStates []D, dstHistory []uint64) {
	for _, src := range spikes {
		p.catchUp(time, dt, src, srcStates, dstStates, dstHistory, true)
	}
}

// PlasticSweep runs the spike-timing-dependent catch-up walk for every
// source in [0, srcCount), without delivering anything. A no-op unless
// this population's kind implements PlasticKind.
func (p *Population[E, S, D]) PlasticSweep(time int32, dt float32, srcCount int32, dstHistory []uint64) {
	if !p.plastic {
		return
	}
	for src := int32(0); src < srcCount; src++ {
		p.catchUp(time, dt, src, nil, nil, dstHistory, false)
	}
}

func boolToInt32(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

// catchUp visits every outgoing edge of src once, replaying the bits of
// dst_history accumulated since this src's row was last visited (age) and
// optionally delivering along the way.
func (p *Population[E, S, D]) catchUp(time int32, dt float32, src int32, srcStates []S, dstStates []D, dstHistory []uint64, deliver bool) {
	var pre bool
	age := time + 1
	if p.plastic {
		packed := p.ages[src]
		pre = packed>>63 != 0
		age = int32(packed &^ (uint64(1) << 63))
	}

	prefix := 63 + boolToInt32(pre) - time + age
	errs.Check(prefix >= 0 && prefix <= 64, "synapse catch-up prefix out of range")
	mask := ^uint64(0) >> uint(prefix)
	outdated := time >= age

	it := p.graph.Neighbors(src)
	for {
		dst, edge, ok := it.Next()
		if !ok {
			break
		}

		if p.plastic && outdated {
			errs.Check(int(dst) < len(dstHistory), "synapse catch-up dst out of range")
			hist := dstHistory[dst]
			if pre {
				p.plasticUpd.UpdateSynapse(edge, dt, true, hist&(uint64(1)<<uint(time-age)) != 0)
			}
			hist &= mask
			pp := prefix
			for hist != 0 {
				lz := bits.LeadingZeros64(hist)
				p.plasticUpd.SkipSynapse(edge, dt, int32(lz-pp))
				p.plasticUpd.UpdateSynapse(edge, dt, false, true)
				hist ^= uint64(1) << uint(63-lz)
				pp = lz + 1
			}
			p.plasticUpd.SkipSynapse(edge, dt, int32(64-pp))
		}

		if deliver {
			switch {
			case p.deliverTo != nil:
				p.deliverTo.DeliverTo(edge, &dstStates[dst])
			case p.deliverFromTo != nil:
				p.deliverFromTo.DeliverFromTo(edge, &srcStates[src], &dstStates[dst])
			}
		}
	}

	if p.plastic {
		var deliverBit uint64
		if deliver {
			deliverBit = uint64(1) << 63
		}
		p.ages[src] = uint64(time+1) | deliverBit
	}
}
