// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package synapse

import "github.com/emer/spice/v2/rng"

// Kinds are supplied by callers as plain values; Population inspects a
// kind's method set at construction time to decide which delivery shape
// it implements. Exactly one of DeliverToKind or DeliverFromToKind must
// be satisfied -- ported from the mutually exclusive DeliverTo/DeliverFromTo
// concepts in original_source/spice/include/spice/concepts.h. E is the
// per-edge payload type (struct{} for a stateless synapse kind).

// DeliverToKind delivers a spike using only the edge payload and the
// destination neuron's state, never touching the source neuron -- the
// shape a kind must use when the source population is stateless.
type DeliverToKind[E, D any] interface {
	DeliverTo(edge *E, dst *D)
}

// DeliverFromToKind delivers a spike using the source neuron's state as
// well, requiring a stateful source population.
type DeliverFromToKind[E, S, D any] interface {
	DeliverFromTo(edge *E, src *S, dst *D)
}

// SynapseIniter initializes one synapse's edge payload at construction
// time, given its source and destination indices. Corresponds to
// PerSynapseInit.
type SynapseIniter[E any] interface {
	InitSynapse(edge *E, src, dst int32, g *rng.Gen64)
}

// PlasticKind opts a synapse kind into spike-timing-dependent plasticity:
// UpdateSynapse is invoked once per bit recorded in the destination
// neuron's firing-history bitmap since this edge was last visited (post
// true whenever the recorded bit is set; pre true exactly once, for the
// delivery that produced the current age mark). SkipSynapse is invoked
// for the gaps between those bits, with the gap length in ticks.
// Corresponds to PlasticSynapse.
type PlasticKind[E any] interface {
	UpdateSynapse(edge *E, dt float32, pre, post bool)
	SkipSynapse(edge *E, dt float32, ticks int32)
}
