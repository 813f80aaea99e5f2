// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rng

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUniformFloat32Range(t *testing.T) {
	g := NewGen64(NewSeed(5))
	for i := 0; i < 1000; i++ {
		v := UniformFloat32(g, -2, 3)
		assert.GreaterOrEqual(t, v, float32(-2))
		assert.Less(t, v, float32(3))
	}
}

func TestExponentialFloat32NonNegative(t *testing.T) {
	g := NewGen64(NewSeed(6))
	for i := 0; i < 1000; i++ {
		v := ExponentialFloat32(g, 1.5)
		assert.GreaterOrEqual(t, v, float32(0))
	}
}

func TestNormalFloat32MeanIsStable(t *testing.T) {
	g := NewGen64(NewSeed(11))
	st := &NormalState{}
	var sum float32
	const n = 4000
	for i := 0; i < n; i++ {
		sum += NormalFloat32(g, st, 10, 1)
	}
	mean := sum / n
	assert.InDelta(t, 10.0, float64(mean), 0.2)
}

func TestBinomialInt32BoundedByN(t *testing.T) {
	g := NewGen64(NewSeed(12))
	st := &NormalState{}
	for i := 0; i < 500; i++ {
		v := BinomialInt32(g, st, 20, 0.3)
		assert.GreaterOrEqual(t, v, int32(0))
		assert.LessOrEqual(t, v, int32(20))
	}
}
