// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rng

// Gen64 is the xoroshiro128+ generator (64-bit output variant), seeded
// directly from a Seed's 128 bits with no further mixing, matching
// util::xoroshiro64_128p in the reference engine.
type Gen64 struct {
	s0, s1 uint64
}

// NewGen64 constructs a 64-bit generator from seed, consuming it (the seed
// is not advanced by the caller; pass seed.Advance() or seed.Stream(id) if
// an independent copy is required).
func NewGen64(seed Seed) *Gen64 {
	return &Gen64{s0: seed.Lo, s1: seed.Hi}
}

// Uint64 returns the next uniform pseudo-random 64-bit word.
func (g *Gen64) Uint64() uint64 {
	result := g.s0 + g.s1
	tmp := g.s0 ^ g.s1
	g.s0 = rotl64(g.s0, 24) ^ tmp ^ (tmp << 16)
	g.s1 = rotl64(tmp, 37)
	return result
}

// Gen32 is the xoroshiro128+ generator (32-bit output variant), used where
// the consumer only needs 32-bit draws (e.g. float32 canonical conversion
// without a 64-bit intermediate). Matches util::xoroshiro32_128p.
type Gen32 struct {
	s0, s1, s2, s3 uint32
}

// NewGen32 constructs a 32-bit generator from seed.
func NewGen32(seed Seed) *Gen32 {
	return &Gen32{
		s0: uint32(seed.Lo),
		s1: uint32(seed.Lo >> 32),
		s2: uint32(seed.Hi),
		s3: uint32(seed.Hi >> 32),
	}
}

func rotl32(x uint32, k uint) uint32 {
	return (x << k) | (x >> (32 - k))
}

// Uint32 returns the next uniform pseudo-random 32-bit word.
func (g *Gen32) Uint32() uint32 {
	result := g.s0 + g.s3
	t := g.s1 << 9

	g.s2 ^= g.s0
	g.s3 ^= g.s1
	g.s1 ^= g.s2
	g.s0 ^= g.s3

	g.s2 ^= t
	g.s3 = rotl32(g.s3, 11)

	return result
}

// CanonicalFloat64 converts two 32-bit draws from g into a float64 in
// [0,1) (leftOpen=false) or (0,1] (leftOpen=true), masking to the 53-bit
// mantissa width (numeric_limits<double>::digits) the way
// generate_canonical<double> does.
func CanonicalFloat64(g *Gen32, leftOpen bool) float64 {
	const digits = 53
	iid := uint64(g.Uint32())
	iid = (iid << 32) | uint64(g.Uint32())
	iid >>= 64 - digits
	if leftOpen {
		iid++
	}
	return float64(iid) / float64(uint64(1)<<digits)
}

// CanonicalFloat32 converts one 32-bit draw from g into a float32 in
// [0,1) (leftOpen=false) or (0,1] (leftOpen=true), masking to the 24-bit
// mantissa width (numeric_limits<float>::digits) the way
// generate_canonical<float> does.
func CanonicalFloat32(g *Gen32, leftOpen bool) float32 {
	const digits = 24
	iid := g.Uint32() >> (32 - digits)
	if leftOpen {
		iid++
	}
	return float32(iid) / float32(uint32(1)<<digits)
}

// CanonicalFloat32From64 converts a single draw from a Gen64 into a float32,
// for callers that already hold a shared 64-bit tick stream (the step
// driver's per-tick rng) instead of a dedicated 32-bit generator.
func CanonicalFloat32From64(g *Gen64, leftOpen bool) float32 {
	const digits = 24
	iid := uint32(g.Uint64() >> (64 - digits))
	if leftOpen {
		iid++
	}
	return float32(iid) / float32(uint32(1)<<digits)
}

// CanonicalFloat64From64 converts a single draw from a Gen64 into a float64,
// masking to the 53-bit mantissa width.
func CanonicalFloat64From64(g *Gen64, leftOpen bool) float64 {
	const digits = 53
	iid := g.Uint64() >> (64 - digits)
	if leftOpen {
		iid++
	}
	return float64(iid) / float64(uint64(1)<<digits)
}

// Float32 returns a uniform float32 in [0,1).
func (g *Gen64) Float32() float32 { return CanonicalFloat32From64(g, false) }

// Float32LeftOpen returns a uniform float32 in (0,1], suitable as input to
// log/sqrt in the exponential and normal samplers.
func (g *Gen64) Float32LeftOpen() float32 { return CanonicalFloat32From64(g, true) }

// Float64 returns a uniform float64 in [0,1).
func (g *Gen64) Float64() float64 { return CanonicalFloat64From64(g, false) }

// Float64LeftOpen returns a uniform float64 in (0,1].
func (g *Gen64) Float64LeftOpen() float64 { return CanonicalFloat64From64(g, true) }
