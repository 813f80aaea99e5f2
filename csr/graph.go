// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package csr implements the compressed-sparse-row graph representation used
by every synapse population: offsets + neighbor array, plus an optional
per-edge payload, ported from original_source/spice/include/spice/detail/csr.h.

The payload is modeled as an ordinary Go slice Edges []E rather than a
conditional Option<Vec<E>> member: when E is the empty struct{} (a
stateless synapse kind), a Go slice of struct{} never causes the runtime to
allocate backing storage for its elements regardless of length, so the
"edges vector must be absent, not a vector of zero-sized records" concern
in the design notes does not apply to this target -- see DESIGN.md.
*/
package csr

import (
	"sort"

	"github.com/emer/spice/v2/errs"
	"github.com/emer/spice/v2/rng"
)

// Generator is the minimal contract csr.Build needs from a topology: a
// bound edge source that can fill a dense offsets/neighbors pair directly.
// topo.Topology satisfies this.
type Generator interface {
	SrcCount() int32
	DstCount() int32
	Size() int32
	GenerateDense(offsets, neighbors []int32, seed rng.Seed) error
}

// Graph is a CSR-encoded directed bipartite graph from SrcCount() sources
// to DstCount() destinations, with an optional per-edge payload of type E.
type Graph[E any] struct {
	Offsets   []int32
	Neighbors []int32
	Edges     []E // len(Edges) == len(Neighbors) when E carries real state
}

// Build allocates and fills a Graph from a bound topology generator and a
// seed, asserting (debug builds only) that Offsets ends up sorted.
func Build[E any](t Generator, seed rng.Seed, hasPayload bool) (*Graph[E], error) {
	s := t.SrcCount()
	n := t.Size()

	g := &Graph[E]{
		Offsets:   make([]int32, s+1),
		Neighbors: make([]int32, n),
	}
	if hasPayload {
		g.Edges = make([]E, n)
	}

	if err := t.GenerateDense(g.Offsets, g.Neighbors, seed); err != nil {
		return nil, err
	}

	errs.Check(sort.SliceIsSorted(g.Offsets, func(i, j int) bool { return g.Offsets[i] < g.Offsets[j] }),
		"csr offsets must be monotonically non-decreasing")

	// Size() is only an upper bound on the true edge count (FixedProbability
	// over-allocates by its row cap), so Neighbors/Edges may be padded past
	// offsets[S]; trim to the real count the generator actually filled in,
	// mirroring the original's neighbors.size() >= size() assertion rather
	// than equality.
	actual := g.Offsets[len(g.Offsets)-1]
	errs.Check(int(actual) <= len(g.Neighbors), "csr offsets[S] must not exceed len(neighbors)")
	g.Neighbors = g.Neighbors[:actual]
	if len(g.Edges) > 0 {
		g.Edges = g.Edges[:actual]
	}

	return g, nil
}

// Iterator walks the neighbors of one source, yielding (dst, edge) pairs.
// Edge is nil whenever the graph carries no payload.
type Iterator[E any] struct {
	g        *Graph[E]
	pos, end int32
}

// Neighbors returns an iterator over the destinations (and, if present,
// edge payloads) of src.
func (g *Graph[E]) Neighbors(src int32) Iterator[E] {
	errs.Check(src >= 0 && int(src)+1 < len(g.Offsets), "src out of range in Neighbors")
	return Iterator[E]{g: g, pos: g.Offsets[src], end: g.Offsets[src+1]}
}

// Next advances the iterator, returning ok=false once exhausted.
func (it *Iterator[E]) Next() (dst int32, edge *E, ok bool) {
	if it.pos >= it.end {
		return 0, nil, false
	}
	dst = it.g.Neighbors[it.pos]
	if len(it.g.Edges) > 0 {
		edge = &it.g.Edges[it.pos]
	}
	it.pos++
	return dst, edge, true
}

// Degree returns the number of destinations reachable from src.
func (g *Graph[E]) Degree(src int32) int32 {
	return g.Offsets[src+1] - g.Offsets[src]
}

// EdgeCount returns the total number of edges in the graph.
func (g *Graph[E]) EdgeCount() int32 {
	return int32(len(g.Neighbors))
}
