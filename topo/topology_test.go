// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package topo

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/emer/spice/v2/errs"
	"github.com/emer/spice/v2/rng"
)

func TestAdjListGenerate(t *testing.T) {
	a := NewAdjList()
	a.Connect(0, 2)
	a.Connect(1, 0)
	a.Connect(0, 0)
	a.Bind(2, 3)

	offsets := make([]int32, 3)
	neighbors := make([]int32, a.Size())
	err := a.GenerateDense(offsets, neighbors, rng.NewSeed(1))
	assert.NoError(t, err)
	assert.Equal(t, []int32{0, 2, 3}, offsets)
	assert.Equal(t, []int32{0, 2}, neighbors[offsets[0]:offsets[1]])
	assert.Equal(t, []int32{0}, neighbors[offsets[1]:offsets[2]])
}

func TestAdjListDuplicateFailsLoudly(t *testing.T) {
	a := NewAdjList()
	a.Connect(0, 1)
	a.Connect(0, 1)
	a.Bind(1, 2)

	offsets := make([]int32, 2)
	neighbors := make([]int32, a.Size())
	err := a.GenerateDense(offsets, neighbors, rng.NewSeed(1))
	assert.Error(t, err)
	var cfgErr *errs.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, errs.DuplicateEdge, cfgErr.Kind)
}

func TestAdjListOutOfRangeFails(t *testing.T) {
	a := NewAdjList()
	a.Connect(0, 5)
	a.Bind(1, 3)

	offsets := make([]int32, 2)
	neighbors := make([]int32, a.Size())
	err := a.GenerateDense(offsets, neighbors, rng.NewSeed(1))
	assert.Error(t, err)
	var cfgErr *errs.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, errs.IndexOutOfRange, cfgErr.Kind)
}

func TestFixedProbabilityRespectsBounds(t *testing.T) {
	f := NewFixedProbability(0.3)
	f.Bind(50, 200)

	offsets := make([]int32, 51)
	neighbors := make([]int32, f.Size())
	err := f.GenerateDense(offsets, neighbors, rng.NewSeed(7))
	assert.NoError(t, err)

	for src := int32(0); src < 50; src++ {
		for i := offsets[src]; i < offsets[src+1]; i++ {
			assert.GreaterOrEqual(t, neighbors[i], int32(0))
			assert.Less(t, neighbors[i], int32(200))
			if i > offsets[src] {
				assert.Greater(t, neighbors[i], neighbors[i-1])
			}
		}
	}
}

func TestFixedProbabilityZeroNeverConnects(t *testing.T) {
	f := NewFixedProbability(0)
	f.Bind(10, 10)

	offsets := make([]int32, 11)
	neighbors := make([]int32, f.Size())
	err := f.GenerateDense(offsets, neighbors, rng.NewSeed(3))
	assert.NoError(t, err)
	for _, o := range offsets {
		assert.Equal(t, int32(0), o)
	}
}

func TestFixedProbabilityRejectsBadP(t *testing.T) {
	f := NewFixedProbability(1.5)
	f.Bind(4, 4)
	offsets := make([]int32, 5)
	neighbors := make([]int32, f.Size())
	err := f.GenerateDense(offsets, neighbors, rng.NewSeed(1))
	assert.Error(t, err)
}
