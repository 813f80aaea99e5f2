// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spice

// kahanSum is a Kahan-compensated running sum, ported from
// original_source/spice/util/numeric.h's kahan_sum: Network uses one to
// track simulated time without accumulating floating-point drift across
// many small dt additions.
type kahanSum struct {
	c   float32
	sum float32
}

// Add folds delta into the running sum and returns the compensated
// increment actually applied -- not the new total.
func (k *kahanSum) Add(delta float32) float32 {
	y := delta - k.c
	t := k.sum + y
	k.c = (t - k.sum) - y
	k.sum = t
	return y
}

// Value returns the current running total.
func (k *kahanSum) Value() float32 { return k.sum }

// Reset zeroes the running sum, used once simulated time crosses 1.0 to
// keep its magnitude small across a long run.
func (k *kahanSum) Reset() {
	k.sum = 0
	k.c = 0
}
