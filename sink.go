// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spice

import (
	"encoding/json"

	"github.com/iancoleman/strcase"
)

// Sink consumes one tick's worth of spikes from every population in a
// network, in submission order. Implementations decide how (or whether)
// to persist them; TextSink below is the reference JSON emitter described
// in §6 of the design ("sink format").
type Sink interface {
	// Tick is called once per Network.Step, after delivery, with the
	// current spike indices of every registered population in submission
	// order (age 0, i.e. this tick's own spikes).
	Tick(perPopulation [][]int32)
}

// TextSink accumulates ticks into a single JSON document:
//
//	{ "name": "<model name>", "spikes": [ [i32, i32, ...], [i32, ...], ... ] }
//
// Each inner array is one tick, concatenating every population's spike
// indices after applying a per-population offset equal to the cumulative
// size of the populations registered before it -- so a single flat index
// space spans the whole network, in the order populations were added.
type TextSink struct {
	name  string
	sizes []int32 // per-population size, in submission order, fixed at Bind
	ticks [][]int32
}

// NewTextSink names the sink's output document. If name is empty, it is
// derived by snake-casing the network's first registered population name
// (the engine carries no other notion of a "model name").
func NewTextSink(name string) *TextSink {
	return &TextSink{name: name}
}

// Bind fixes the per-population sizes the sink will use to compute
// cumulative offsets. Must be called once, after every population has
// been added to net and before the first Tick.
func (s *TextSink) Bind(net *Network) {
	if s.name == "" && len(net.neurons.Order) > 0 {
		s.name = strcase.ToSnake(net.neurons.Order[0])
	}
	s.sizes = make([]int32, len(net.neurons.Order))
	for i, n := range net.neurons.Order {
		s.sizes[i] = net.NeuronSize(n)
	}
}

// Tick implements Sink: perPopulation must list each population's spikes
// in the same submission order Bind observed.
func (s *TextSink) Tick(perPopulation [][]int32) {
	var offset int32
	tick := make([]int32, 0)
	for i, spikes := range perPopulation {
		for _, idx := range spikes {
			tick = append(tick, idx+offset)
		}
		if i < len(s.sizes) {
			offset += s.sizes[i]
		}
	}
	s.ticks = append(s.ticks, tick)
}

// textSinkDoc is the wire shape of TextSink's JSON document.
type textSinkDoc struct {
	Name   string    `json:"name"`
	Spikes [][]int32 `json:"spikes"`
}

// MarshalJSON renders the accumulated ticks as the §6 sink document.
func (s *TextSink) MarshalJSON() ([]byte, error) {
	ticks := s.ticks
	if ticks == nil {
		ticks = [][]int32{}
	}
	return json.Marshal(textSinkDoc{Name: s.name, Spikes: ticks})
}

// TickFromNetwork is a convenience that gathers every population's
// current (age 0) spikes from net, in submission order, and forwards them
// to sink.Tick -- the call a driver loop makes once per Step.
func TickFromNetwork(net *Network, sink Sink) {
	perPopulation := make([][]int32, len(net.neurons.Order))
	for i, name := range net.neurons.Order {
		perPopulation[i] = net.Spikes(name, 0)
	}
	sink.Tick(perPopulation)
}
