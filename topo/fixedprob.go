// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package topo

import (
	"github.com/goki/mat32"

	"github.com/emer/spice/v2/errs"
	"github.com/emer/spice/v2/rng"
)

// FixedProbability connects every (src, dst) pair independently with
// probability p, without ever materializing the full S*D Bernoulli grid:
// it walks each row by sampling the gap to the next connected dst from an
// exponential distribution, the same geometric-via-exponential trick
// topology.cpp's fixed_probability::generate uses to stay sub-quadratic
// for sparse p.
type FixedProbability struct {
	base
	p   float32
	err error
}

// NewFixedProbability returns a fixed-probability topology with connection
// probability p, which must lie in [0,1].
func NewFixedProbability(p float32) *FixedProbability {
	return &FixedProbability{p: p}
}

func (f *FixedProbability) Bind(srcCount, dstCount int32) Topology {
	if err := f.base.bind(srcCount, dstCount); err != nil {
		f.err = err
	}
	if f.p < 0 || f.p > 1 {
		f.err = errs.New(errs.BadProbability, "fixed_probability p must be in [0,1], got %g", f.p)
	}
	return f
}

// rowCap bounds the number of edges a single row may produce, at
// ceil(D*p + 3*sqrt(D*p*(1-p))) + 1 and never more than D -- one slot above
// three standard deviations over the expected row degree, so the dense
// edge buffer never needs to grow mid-generation.
func (f *FixedProbability) rowCap() int32 {
	if f.p < 0 || f.p > 1 {
		// f.err is already set by Bind (and GenerateDense rejects this p
		// too); Size must still
		// return a usable, non-negative bound so callers can safely size
		// their buffers before GenerateDense reports the error.
		return 0
	}
	d := float32(f.dstCount)
	mean := d * f.p
	sd := mat32.Sqrt(d * f.p * (1 - f.p))
	cap := mean + 3*sd
	if cap < 0 {
		cap = 0
	}
	c := int32(mat32.Ceil(cap)) + 1
	if c > f.dstCount {
		c = f.dstCount
	}
	return c
}

func (f *FixedProbability) Size() int32 { return f.srcCount * f.rowCap() }

func (f *FixedProbability) GenerateDense(offsets, neighbors []int32, seed rng.Seed) error {
	if f.err != nil {
		return f.err
	}
	if f.p < 0 || f.p > 1 {
		return errs.New(errs.BadProbability, "fixed_probability p must be in [0,1], got %g", f.p)
	}

	cap := f.rowCap()
	gen := rng.NewGen64(seed)
	pos := int32(0)

	// p==0 never connects; avoid dividing by zero in the exponential rate.
	if f.p == 0 {
		for src := int32(0); src <= f.srcCount; src++ {
			offsets[src] = 0
		}
		return nil
	}

	scale := 1/f.p - 1
	for src := int32(0); src < f.srcCount; src++ {
		offsets[src] = pos
		dst := int32(-1)
		count := int32(0)
		for count < cap {
			gap := rng.ExponentialFloat32(gen, scale)
			dst += int32(mat32.Round(gap)) + 1
			if dst >= f.dstCount {
				break
			}
			errs.Check(int(pos) < len(neighbors), "fixed_probability row exceeded its capacity bound")
			neighbors[pos] = dst
			pos++
			count++
		}
	}
	offsets[f.srcCount] = pos
	return nil
}
