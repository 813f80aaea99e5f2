// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package neuron

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/emer/spice/v2/errs"
	"github.com/emer/spice/v2/rng"
)

// alwaysSpike is a stateless kind that fires every neuron every tick.
type alwaysSpike struct{}

func (alwaysSpike) UpdateStateless(dt float32, g *rng.Gen64) bool { return true }

// counter is a stateful kind that fires once its state counter reaches 3.
type counterState struct{ n int32 }

type counterKind struct{}

func (counterKind) UpdateStateful(s *counterState, dt float32, g *rng.Gen64) bool {
	s.n++
	return s.n >= 3
}

func (counterKind) InitNeuron(s *counterState, id int32, g *rng.Gen64) { s.n = id }

func TestStatelessPopulationSpikesEveryTick(t *testing.T) {
	p, err := New[struct{}](alwaysSpike{}, rng.NewSeed(1), 4, 2)
	assert.NoError(t, err)

	g := rng.NewGen64(rng.NewSeed(99))
	p.Update(2, 0.1, g)
	assert.Equal(t, []int32{0, 1, 2, 3}, p.Spikes(0))
}

func TestStatefulPopulationInitAndFire(t *testing.T) {
	p, err := New[counterState](counterKind{}, rng.NewSeed(2), 3, 4)
	assert.NoError(t, err)

	g := rng.NewGen64(rng.NewSeed(1))
	p.Update(4, 0.1, g) // n: 1,2,3 -> neuron 2 fires (2+1=3)
	p.Update(4, 0.1, g) // n: 2,3,4 -> neuron 1 also now >=3
	spikes := p.Spikes(0)
	assert.Contains(t, spikes, int32(1))
}

func TestSpikeWindowEvictsPastMaxDelay(t *testing.T) {
	p, err := New[struct{}](alwaysSpike{}, rng.NewSeed(3), 2, 2)
	assert.NoError(t, err)
	g := rng.NewGen64(rng.NewSeed(1))

	p.Update(2, 0.1, g)
	p.Update(2, 0.1, g)
	p.Update(2, 0.1, g)

	// only the last 2 ticks' counts remain
	assert.Equal(t, []int32{0, 1}, p.Spikes(0))
	assert.Equal(t, []int32{0, 1}, p.Spikes(1))
	assert.Panics(t, func() {
		errs.Debug = true
		defer func() { errs.Debug = false }()
		p.Spikes(2)
	})
}

func TestEnablePlasticTracksHistory(t *testing.T) {
	p, err := New[struct{}](alwaysSpike{}, rng.NewSeed(4), 2, 2)
	assert.NoError(t, err)
	p.EnablePlastic()
	g := rng.NewGen64(rng.NewSeed(1))

	p.Update(2, 0.1, g)
	assert.Equal(t, uint64(1), p.History()[0]&1)
	p.Update(2, 0.1, g)
	assert.Equal(t, uint64(0b11), p.History()[0]&0b11)
}

func TestAmbiguousShapeRejected(t *testing.T) {
	_, err := New[counterState](ambiguousKind{}, rng.NewSeed(5), 2, 2)
	assert.Error(t, err)
	var cfgErr *errs.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, errs.AmbiguousShape, cfgErr.Kind)
}

type ambiguousKind struct{}

func (ambiguousKind) UpdateStateless(dt float32, g *rng.Gen64) bool { return false }
func (ambiguousKind) UpdateStateful(s *counterState, dt float32, g *rng.Gen64) bool {
	return false
}

// cyclicSchedule is a PopulationUpdater kind that replays a fixed, repeating
// sequence of spike sets regardless of any per-neuron state -- an external
// input source with a programmed firing pattern.
type cyclicSchedule struct {
	schedule [][]int32
	tick     int
}

func (c *cyclicSchedule) UpdatePopulation(states []struct{}, dt float32, g *rng.Gen64, spikes *[]int32) {
	*spikes = append(*spikes, c.schedule[c.tick%len(c.schedule)]...)
	c.tick++
}

func TestPopulationUpdaterReplaysProgrammedSchedule(t *testing.T) {
	schedule := [][]int32{{4, 5, 8}, {5}, {7, 8}, {5, 7}}
	kind := &cyclicSchedule{schedule: schedule}
	p, err := New[struct{}](kind, rng.NewSeed(1), 9, 4)
	assert.NoError(t, err)

	g := rng.NewGen64(rng.NewSeed(2))
	for i := 0; i < 8; i++ {
		p.Update(4, 0.1, g)
		assert.Equal(t, schedule[i%len(schedule)], p.Spikes(0))
	}
}

func TestUnsupportedShapeRejected(t *testing.T) {
	_, err := New[counterState](struct{}{}, rng.NewSeed(6), 2, 2)
	assert.Error(t, err)
	var cfgErr *errs.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, errs.UnsupportedShape, cfgErr.Kind)
}
