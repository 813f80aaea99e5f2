// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package neuron

import "github.com/emer/spice/v2/rng"

// Kinds are supplied by callers as plain values; Population inspects a
// kind's method set at construction time to decide which of the shapes
// below it implements. Exactly one of StatelessUpdater, StatefulUpdater
// or PopulationUpdater must be satisfied -- ported from the mutually
// exclusive Neuron dispatch traits in
// original_source/spice/include/spice/concepts.h.

// StatelessUpdater is a neuron kind with no per-neuron state: every
// neuron in the population is updated identically, e.g. a Poisson
// spike source. Corresponds to the StatelessNeuron concept.
type StatelessUpdater interface {
	UpdateStateless(dt float32, g *rng.Gen64) (spiked bool)
}

// StatefulUpdater is a neuron kind with one state record S per neuron,
// e.g. a leaky integrate-and-fire cell. Corresponds to StatefulNeuron.
type StatefulUpdater[S any] interface {
	UpdateStateful(state *S, dt float32, g *rng.Gen64) (spiked bool)
}

// PopulationUpdater takes over the whole per-tick sweep itself, appending
// indices of spiking neurons directly to spikes, e.g. a kind whose
// neurons interact during the same tick (a winner-take-all layer).
// Corresponds to PerPopulationUpdate.
type PopulationUpdater[S any] interface {
	UpdatePopulation(states []S, dt float32, g *rng.Gen64, spikes *[]int32)
}

// NeuronIniter initializes one neuron's state at construction time, given
// its index within the population. Corresponds to PerNeuronInit.
type NeuronIniter[S any] interface {
	InitNeuron(state *S, id int32, g *rng.Gen64)
}

// PopulationIniter initializes the whole state slice at once, e.g. to
// stagger initial membrane potentials by reading neighbors. Corresponds
// to PerPopulationInit.
type PopulationIniter[S any] interface {
	InitPopulation(states []S, g *rng.Gen64)
}
