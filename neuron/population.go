// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package neuron implements the spiking-neuron population driver (§4.4 of
the design): a fixed-size collection of neurons of one kind, advanced one
tick at a time, recording a sliding window of the last max_delay ticks'
spikes and, once plasticity is enabled, a per-neuron firing-history bitmap.
Ported from
original_source/spice/include/spice/detail/neuron_population.h.
*/
package neuron

import (
	"math"

	"github.com/emer/spice/v2/errs"
	"github.com/emer/spice/v2/rng"
)

// Population drives size() neurons of a single kind sharing state type S.
// S may be struct{} for a stateless kind.
type Population[S any] struct {
	size int32

	states []S

	statelessUpd StatelessUpdater
	statefulUpd  StatefulUpdater[S]
	popUpd       PopulationUpdater[S]

	spikes      []int32
	spikeCounts []int32

	history []uint64
	plastic bool
}

// New builds a population of size neurons of the given kind, using seed to
// drive any per-neuron or per-population initialization. maxDelay bounds
// how many ticks of spike history Update retains.
func New[S any](kind any, seed rng.Seed, size, maxDelay int32) (*Population[S], error) {
	if size < 0 || size > math.MaxInt32-1 {
		return nil, errs.New(errs.BadSize, "neuron population size must be in [0, %d], got %d", int32(math.MaxInt32-1), size)
	}
	if maxDelay < 1 {
		return nil, errs.New(errs.BadDelay, "max_delay must be >= 1, got %d", maxDelay)
	}

	stateless, isStateless := kind.(StatelessUpdater)
	stateful, isStateful := kind.(StatefulUpdater[S])
	popUpd, isPop := kind.(PopulationUpdater[S])

	n := 0
	for _, b := range []bool{isStateless, isStateful, isPop} {
		if b {
			n++
		}
	}
	switch {
	case n > 1:
		return nil, errs.New(errs.AmbiguousShape, "neuron kind %T satisfies more than one of StatelessUpdater/StatefulUpdater/PopulationUpdater", kind)
	case n == 0:
		return nil, errs.New(errs.UnsupportedShape, "neuron kind %T satisfies none of StatelessUpdater/StatefulUpdater/PopulationUpdater", kind)
	}

	p := &Population[S]{
		size:         size,
		statelessUpd: stateless,
		statefulUpd:  stateful,
		popUpd:       popUpd,
	}

	if !isStateless {
		// Stateful and population-update kinds both carry a states slice,
		// and either one runs whichever init shape (NeuronIniter or
		// PopulationIniter) the kind provides.
		p.states = make([]S, size)
	}

	if !isStateless {
		g := rng.NewGen64(seed.Advance())
		if initer, ok := kind.(NeuronIniter[S]); ok {
			for i := range p.states {
				initer.InitNeuron(&p.states[i], int32(i), g)
			}
		}
		if popIniter, ok := kind.(PopulationIniter[S]); ok {
			popIniter.InitPopulation(p.states, g)
		}
	}

	p.spikeCounts = make([]int32, 0, maxDelay)
	cap := size * maxDelay / 100
	if cap < 16 {
		cap = 16
	}
	p.spikes = make([]int32, 0, cap)

	return p, nil
}

// Size returns the number of neurons in the population.
func (p *Population[S]) Size() int32 { return p.size }

// States returns the per-neuron state slice, for kinds that carry one.
// Empty for a StatelessUpdater kind.
func (p *Population[S]) States() []S { return p.states }

// Update advances the population by one tick of length dt, evicting spikes
// older than maxDelay ticks and recording a new generation of spikes.
func (p *Population[S]) Update(maxDelay int32, dt float32, g *rng.Gen64) {
	errs.Check(maxDelay >= 1, "max_delay must be >= 1")

	if int32(len(p.spikeCounts)) == maxDelay {
		drop := int(p.spikeCounts[0])
		copy(p.spikes, p.spikes[drop:])
		p.spikes = p.spikes[:len(p.spikes)-drop]
		copy(p.spikeCounts, p.spikeCounts[1:])
		p.spikeCounts = p.spikeCounts[:len(p.spikeCounts)-1]
	}

	spikeCount := int32(len(p.spikes))

	switch {
	case p.popUpd != nil:
		p.popUpd.UpdatePopulation(p.states, dt, g, &p.spikes)
	case p.statelessUpd != nil:
		for i := int32(0); i < p.size; i++ {
			if p.statelessUpd.UpdateStateless(dt, g) {
				p.spikes = append(p.spikes, i)
			}
		}
	default:
		for i := int32(0); i < p.size; i++ {
			if p.statefulUpd.UpdateStateful(&p.states[i], dt, g) {
				p.spikes = append(p.spikes, i)
			}
		}
	}

	if p.plastic {
		for i := range p.history {
			p.history[i] <<= 1
		}
		for _, spk := range p.spikes[spikeCount:] {
			p.history[spk] |= 1
		}
	}

	p.spikeCounts = append(p.spikeCounts, int32(len(p.spikes))-spikeCount)
}

// Spikes returns the indices of neurons that fired age ticks ago: age==0
// is the most recent tick, age==1 the one before it, and so on up to
// max_delay-1. The returned slice aliases internal storage and is only
// valid until the next Update call.
func (p *Population[S]) Spikes(age int32) []int32 {
	errs.Check(age >= 0 && int(age) < len(p.spikeCounts), "spikes age out of range")

	idx := len(p.spikeCounts) - 1 - int(age)
	var offset int32
	for i := idx; i < len(p.spikeCounts); i++ {
		offset += p.spikeCounts[i]
	}
	n := p.spikeCounts[idx]
	start := int32(len(p.spikes)) - offset
	return p.spikes[start : start+n]
}

// EnablePlastic turns on firing-history tracking: from this call onward,
// every Update shifts a per-neuron bitmap left by one bit and sets bit 0
// for every neuron that just spiked. Required before a synapse.Population
// can run plasticity sweeps against this population.
func (p *Population[S]) EnablePlastic() {
	if p.history == nil {
		p.history = make([]uint64, p.size)
	}
	p.plastic = true
}

// History returns the per-neuron firing-history bitmap, valid once
// EnablePlastic has been called. Bit 0 is the most recent tick.
func (p *Population[S]) History() []uint64 { return p.history }
