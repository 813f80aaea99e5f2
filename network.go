// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package spice is a time-discrete spiking neural network simulation engine:
neuron populations fire binary spikes, synapse populations connect them
with configurable axonal delay and optional spike-timing-dependent
plasticity, and a step driver advances the whole network one tick at a
time. Network is snn from original_source/spice/include/spice/snn.h and
original_source/spice/src/snn.cpp ported directly.
*/
package spice

import (
	"github.com/goki/mat32"
	"goki.dev/ordmap"

	"github.com/emer/spice/v2/errs"
	"github.com/emer/spice/v2/neuron"
	"github.com/emer/spice/v2/rng"
	"github.com/emer/spice/v2/synapse"
	"github.com/emer/spice/v2/topo"
)

// neuronHandle is the narrow, type-erased view of a neuron.Population[S]
// that Network needs for its own bookkeeping -- the Go analogue of the
// virtual detail::NeuronPopulation base class. Any *neuron.Population[S]
// satisfies it for any S, since none of these methods mention S.
type neuronHandle interface {
	Size() int32
	Update(maxDelay int32, dt float32, g *rng.Gen64)
	Spikes(age int32) []int32
	History() []uint64
}

// synapseHandle is the type-erased view of one connection's synapse
// population, closed over its concrete S/D/E type parameters at the call
// site of Connect.
type synapseHandle struct {
	delay        int32
	deliver      func(time int32, dt float32)
	plasticSweep func(time int32, dt float32)
}

// connection mirrors snn::connection: a (source, synapse, destination)
// triple the step driver walks every tick. The destination is not a field
// of its own: the synapseHandle closures built by Connect capture it.
type connection struct {
	from    neuronHandle
	synapse synapseHandle
}

// Network owns every population and connection in a simulation and drives
// them one tick at a time.
type Network struct {
	dt       float32
	maxDelay int32
	time     int32
	simTime  kahanSum
	seed     rng.Seed

	neurons     ordmap.Map[string, neuronHandle]
	connections []connection
}

// NewNetwork configures a network with a fixed tick length dt, a maximum
// axonal delay expressed in the same time units as dt (rounded to the
// nearest whole number of ticks), and a master seed every population and
// synapse population derives its own sub-stream from.
func NewNetwork(dt, maxDelay float32, seed rng.Seed) (*Network, error) {
	if dt <= 0 {
		return nil, errs.New(errs.BadSize, "dt must be > 0, got %g", dt)
	}
	md := int32(mat32.Round(maxDelay / dt))
	if md < 1 {
		return nil, errs.New(errs.BadDelay, "max_delay must round to >= 1 tick, got %g/%g", maxDelay, dt)
	}
	return &Network{dt: dt, maxDelay: md, seed: seed}, nil
}

// Dt returns the network's tick length.
func (net *Network) Dt() float32 { return net.dt }

// MaxDelay returns the network's maximum axonal delay, in ticks.
func (net *Network) MaxDelay() int32 { return net.maxDelay }

// Time returns the number of ticks stepped so far.
func (net *Network) Time() int32 { return net.time }

// AddPopulation adds a population of size neurons of the given kind,
// registering it under name (population names must be unique within a
// network; an empty name is invalid). S is the neuron kind's per-neuron
// state record type, struct{} for a stateless kind.
func AddPopulation[S any](net *Network, name string, kind any, size int32) (*neuron.Population[S], error) {
	if name == "" {
		return nil, errs.New(errs.BadSize, "population name must not be empty")
	}
	if _, ok := net.neurons.ValByKeyTry(name); ok {
		return nil, errs.New(errs.BadSize, "population %q already exists", name)
	}
	p, err := neuron.New[S](kind, net.seed.Advance(), size, net.maxDelay)
	if err != nil {
		return nil, err
	}
	net.neurons.Add(name, p)
	return p, nil
}

// Connect wires a synapse population of the given kind from source to
// target using the topology t, with the given axonal delay (in the same
// time units as the network's dt, rounded to the nearest whole tick). E is
// the synapse kind's per-edge payload type, S and D the source and
// destination neuron state record types.
func Connect[E, S, D any](net *Network, source *neuron.Population[S], target *neuron.Population[D], kind any, t topo.Topology, delay float32) (*synapse.Population[E, S, D], error) {
	d := int32(mat32.Round(delay / net.dt))
	if d < 1 {
		return nil, errs.New(errs.BadDelay, "synapse delay must round to >= 1 tick, got %g/%g", delay, net.dt)
	}
	if d > net.maxDelay {
		return nil, errs.New(errs.BadDelay, "synapse delay %d exceeds network max_delay %d", d, net.maxDelay)
	}

	bound := t.Bind(source.Size(), target.Size())
	sp, err := synapse.New[E, S, D](kind, bound, net.seed.Advance(), d)
	if err != nil {
		return nil, err
	}

	if _, plastic := kind.(synapse.PlasticKind[E]); plastic {
		target.EnablePlastic()
	}

	net.connections = append(net.connections, connection{
		from: source,
		synapse: synapseHandle{
			delay: sp.Delay(),
			deliver: func(time int32, dt float32) {
				if time >= sp.Delay()-1 {
					sp.Deliver(time, dt, source.Spikes(sp.Delay()-1), source.States(), target.States(), target.History())
				}
			},
			plasticSweep: func(time int32, dt float32) {
				sp.PlasticSweep(time, dt, source.Size(), target.History())
			},
		},
	})

	return sp, nil
}

// Step advances the network by one tick: accumulates simulated time,
// updates every neuron population, runs the plastic-only catch-up sweep
// every 64 ticks, and delivers spikes on every connection whose delay has
// elapsed, in that order -- the exact sequence snn::step follows.
func (net *Network) Step() {
	dt := net.simTime.Add(net.dt)
	if net.simTime.Value() >= 1 {
		net.simTime.Reset()
	}

	g := rng.NewGen64(net.seed.Advance())
	for _, name := range net.neurons.Order {
		net.neurons.Map[name].Update(net.maxDelay, dt, g)
	}

	if net.time%64 == 0 {
		for _, c := range net.connections {
			c.synapse.plasticSweep(net.time, net.dt)
		}
	}

	for _, c := range net.connections {
		c.synapse.deliver(net.time, net.dt)
	}

	net.time++
}

// Run steps the network n times.
func (net *Network) Run(n int32) {
	for i := int32(0); i < n; i++ {
		net.Step()
	}
}

// RunUntil steps the network until stop returns true, checked after every
// tick, or until maxTicks ticks have run (whichever comes first). It
// generalizes the bare Step the original engine exposes, adapted from the
// teacher's cooperative run/pause stepper rather than its goroutine-based
// pause machinery: this engine is single-threaded and synchronous, so a
// plain loop with a caller-supplied predicate is all the cooperative
// control Run needed.
func (net *Network) RunUntil(maxTicks int32, stop func(net *Network) bool) {
	for i := int32(0); i < maxTicks; i++ {
		net.Step()
		if stop != nil && stop(net) {
			return
		}
	}
}

// NeuronSize returns the size of the named population, or 0 if it was
// never registered.
func (net *Network) NeuronSize(name string) int32 {
	h, ok := net.neurons.ValByKeyTry(name)
	if !ok {
		return 0
	}
	return h.Size()
}

// SpikeCount returns how many neurons of the named population fired age
// ticks ago.
func (net *Network) SpikeCount(name string, age int32) int {
	h, ok := net.neurons.ValByKeyTry(name)
	if !ok {
		return 0
	}
	return len(h.Spikes(age))
}

// PopulationNames returns every registered population's name, in
// submission order -- the same order Sink uses for offset accumulation.
func (net *Network) PopulationNames() []string {
	return append([]string(nil), net.neurons.Order...)
}

// Spikes returns the indices of neurons in the named population that
// fired age ticks ago.
func (net *Network) Spikes(name string, age int32) []int32 {
	h, ok := net.neurons.ValByKeyTry(name)
	if !ok {
		return nil
	}
	return h.Spikes(age)
}
