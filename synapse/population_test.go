// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package synapse

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/emer/spice/v2/errs"
	"github.com/emer/spice/v2/rng"
	"github.com/emer/spice/v2/topo"
)

type dstState struct{ hits int32 }

// weightKind is a stateful, DeliverTo-shaped synapse kind with a float32
// edge weight payload.
type weightKind struct{}

func (weightKind) DeliverTo(edge *float32, dst *dstState) { dst.hits++ }
func (weightKind) InitSynapse(edge *float32, src, dst int32, g *rng.Gen64) {
	*edge = float32(src+dst) + 1
}

func buildRing(t *testing.T, n int32) topo.Topology {
	a := topo.NewAdjList()
	for i := int32(0); i < n; i++ {
		a.Connect(i, (i+1)%n)
	}
	return a.Bind(n, n)
}

func TestDeliverToFires(t *testing.T) {
	top := buildRing(t, 3)
	sp, err := New[float32, struct{}, dstState](weightKind{}, top, rng.NewSeed(1), 1)
	assert.NoError(t, err)
	assert.Equal(t, int32(1), sp.Delay())

	dst := make([]dstState, 3)
	sp.Deliver(0, 0.1, []int32{0, 2}, nil, dst, nil)
	assert.Equal(t, int32(1), dst[1].hits)
	assert.Equal(t, int32(1), dst[0].hits)
	assert.Equal(t, int32(0), dst[2].hits)
}

func TestAmbiguousDeliverShapeRejected(t *testing.T) {
	top := buildRing(t, 2)
	_, err := New[struct{}, struct{}, dstState](ambiguousDeliver{}, top, rng.NewSeed(1), 1)
	assert.Error(t, err)
	var cfgErr *errs.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, errs.AmbiguousShape, cfgErr.Kind)
}

type ambiguousDeliver struct{}

func (ambiguousDeliver) DeliverTo(edge *struct{}, dst *dstState)                    {}
func (ambiguousDeliver) DeliverFromTo(edge *struct{}, src *struct{}, dst *dstState) {}

func TestPlasticCatchUpRunsSkipBeforeFirstDelivery(t *testing.T) {
	top := buildRing(t, 2)
	kind := &plasticKind{}
	sp, err := New[struct{}, struct{}, dstState](kind, top, rng.NewSeed(1), 1)
	assert.NoError(t, err)

	dst := make([]dstState, 2)
	dstHistory := make([]uint64, 2)

	// tick 0: source 0 spikes, delivers, and its row's age is marked.
	sp.Deliver(0, 0.1, []int32{0}, nil, dst, dstHistory)
	assert.NotEmpty(t, kind.skips)
}

type plasticKind struct {
	skips  []int32
	events []bool
}

func (k *plasticKind) DeliverTo(edge *struct{}, dst *dstState) { dst.hits++ }
func (k *plasticKind) UpdateSynapse(edge *struct{}, dt float32, pre, post bool) {
	k.events = append(k.events, post)
}
func (k *plasticKind) SkipSynapse(edge *struct{}, dt float32, ticks int32) {
	k.skips = append(k.skips, ticks)
}
