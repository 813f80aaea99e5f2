// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spice

import (
	"encoding/json"
	"testing"

	"github.com/andreyvit/diff"
	"github.com/stretchr/testify/assert"

	"github.com/emer/spice/v2/rng"
)

func TestTextSinkOffsetsBySubmissionOrder(t *testing.T) {
	net, err := NewNetwork(1, 2, rng.NewSeed(1))
	assert.NoError(t, err)
	_, err = AddPopulation[pingPongState](net, "a", pingPongKind{startPrimed: true}, 2)
	assert.NoError(t, err)
	_, err = AddPopulation[pingPongState](net, "b", pingPongKind{startPrimed: true}, 2)
	assert.NoError(t, err)

	sink := NewTextSink("model")
	sink.Bind(net)

	// population "a" spikes index 1 (offset 0), population "b" spikes
	// index 0 (offset 2, since "a" has size 2) -> flat index 2.
	sink.Tick([][]int32{{1}, {0}})

	got, err := json.Marshal(sink)
	assert.NoError(t, err)

	want := `{"name":"model","spikes":[[1,2]]}`
	assert.Equal(t, want, string(got), diff.LineDiff(want, string(got)))
}

func TestTextSinkDerivesNameFromFirstPopulation(t *testing.T) {
	net, err := NewNetwork(1, 2, rng.NewSeed(1))
	assert.NoError(t, err)
	_, err = AddPopulation[pingPongState](net, "InputLayer", pingPongKind{}, 1)
	assert.NoError(t, err)

	sink := NewTextSink("")
	sink.Bind(net)
	sink.Tick([][]int32{{}})

	got, err := json.Marshal(sink)
	assert.NoError(t, err)
	assert.Equal(t, `{"name":"input_layer","spikes":[[]]}`, string(got))
}
