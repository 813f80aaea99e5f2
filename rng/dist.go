// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rng

import "github.com/goki/mat32"

// UniformFloat32 draws a uniform sample in [a,b) from g, matching
// uniform_real_distribution<float, false>.
func UniformFloat32(g *Gen64, a, b float32) float32 {
	return g.Float32()*(b-a) + a
}

// UniformFloat32LeftOpen draws a uniform sample in (a,b] from g, matching
// uniform_real_distribution<float, true>.
func UniformFloat32LeftOpen(g *Gen64, a, b float32) float32 {
	return g.Float32LeftOpen()*(b-a) + a
}

// ExponentialFloat32 draws an exponential sample with the given scale
// (mean = scale), using -scale*ln(u) with u in (0,1], matching
// exponential_distribution<float>.
func ExponentialFloat32(g *Gen64, scale float32) float32 {
	return -scale * mat32.Log(g.Float32LeftOpen())
}

// NormalState buffers the second sample produced by the Box-Muller
// transform, matching normal_distribution<float>'s two-phase state machine.
type NormalState struct {
	have bool
	z1   float32
}

// NormalFloat32 draws a sample from Normal(mu, sigma) using Box-Muller,
// returning the buffered second sample on alternate calls rather than
// discarding it.
func NormalFloat32(g *Gen64, st *NormalState, mu, sigma float32) float32 {
	if st.have {
		st.have = false
		return st.z1
	}
	const twoPi = 6.283185307179586
	r := mat32.Sqrt(-2 * mat32.Log(g.Float32LeftOpen()))
	theta := float32(twoPi) * g.Float32()
	z0 := r*mat32.Cos(theta)*sigma + mu
	z1 := r*mat32.Sin(theta)*sigma + mu
	st.z1 = z1
	st.have = true
	return z0
}

// BinomialInt32 approximates Binomial(n, p) via a normal distribution with
// mean n*p and standard deviation sqrt(n*p*(1-p)), clamped to [0,n] and
// rounded to the nearest integer, matching binomial_distribution<Integer>.
func BinomialInt32(g *Gen64, st *NormalState, n int32, p float32) int32 {
	mean := float32(n) * p
	sd := mat32.Sqrt(float32(n) * p * (1 - p))
	x := NormalFloat32(g, st, mean, sd)
	if x < 0 {
		x = 0
	}
	r := mat32.Round(x)
	if r > float32(n) {
		return n
	}
	return int32(r)
}
