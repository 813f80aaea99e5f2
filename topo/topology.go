// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package topo defines patterns of connectivity between a source and a
destination population -- the abstract edge generator of §4.2/§4.3 of the
design, ported from original_source/spice/include/spice/topology.h and
original_source/spice/src/topology.cpp.

This plays the same role prjn.Pattern plays in the teacher repo, but
returns a flat edge list (src, dst pairs materialized via csr.Build) instead
of a tensor-shaped connectivity bitmap: this engine's populations are flat
1-D index spaces, not N-dimensional unit-group layouts, so prjn's
etensor.Shape/Bits machinery has no work to do here (see DESIGN.md).
*/
package topo

import (
	"sort"

	"github.com/emer/spice/v2/errs"
	"github.com/emer/spice/v2/rng"
)

// Topology is an abstract edge source with a fixed source count S and
// destination count D, producing edges (src, dst) with 0<=src<S,
// 0<=dst<D, no duplicates.
type Topology interface {
	// Bind fixes the source and destination counts. Must be called before
	// Size or GenerateDense.
	Bind(srcCount, dstCount int32) Topology

	SrcCount() int32
	DstCount() int32

	// Size returns an upper bound on the number of edges GenerateDense will
	// produce, used to size the CSR neighbor/edge arrays.
	Size() int32

	// GenerateDense fills offsets (len SrcCount+1) and neighbors (len
	// >= Size()) with the CSR-encoded edge list, using seed for any
	// randomness. offsets[S] is set to the actual edge count on return.
	GenerateDense(offsets, neighbors []int32, seed rng.Seed) error
}

// EdgeStream accepts edges in non-decreasing src order and writes them
// into a pre-sized offsets/neighbors pair, backfilling every offset slot
// skipped since the last edge. This is edge_stream from topology.h.
type EdgeStream struct {
	offsets   []int32
	neighbors []int32
	src       int32
	dst       int32
}

// NewEdgeStream wraps a pre-allocated offsets/neighbors pair for streaming.
func NewEdgeStream(offsets, neighbors []int32) *EdgeStream {
	return &EdgeStream{offsets: offsets, neighbors: neighbors}
}

// Push appends one edge. Edges must arrive in non-decreasing src order.
func (es *EdgeStream) Push(src, dst int32) error {
	if int(es.src) >= len(es.offsets) {
		return errs.New(errs.IndexOutOfRange, "edge stream exhausted its offsets buffer")
	}
	if int(es.dst) >= len(es.neighbors) {
		return errs.New(errs.IndexOutOfRange, "edge stream exhausted its neighbors buffer")
	}
	if int(src) >= len(es.offsets) {
		return errs.New(errs.IndexOutOfRange, "edge src %d out of range", src)
	}
	for es.src <= src {
		es.offsets[es.src] = es.dst
		es.src++
	}
	es.neighbors[es.dst] = dst
	es.dst++
	return nil
}

// Flush writes the terminal offset, closing out any sources with no
// outgoing edges at the tail of the range.
func (es *EdgeStream) Flush() {
	errs.Check(int(es.src) < len(es.offsets), "edge stream flushed past its offsets buffer")
	for int(es.src) < len(es.offsets) {
		es.offsets[es.src] = es.dst
		es.src++
	}
}

// generateDenseViaStream drives a stream-based Generate implementation
// through a dense offsets/neighbors pair, the default Topology::generate
// behavior in the reference engine.
func generateDenseViaStream(offsets, neighbors []int32, gen func(*EdgeStream) error) error {
	es := NewEdgeStream(offsets, neighbors)
	if err := gen(es); err != nil {
		return err
	}
	es.Flush()
	return nil
}

// base is embedded by concrete topology kinds to share Bind/SrcCount/DstCount.
type base struct {
	srcCount int32
	dstCount int32
}

func (b *base) bind(srcCount, dstCount int32) error {
	if srcCount < 0 {
		return errs.New(errs.BadSize, "srcCount must be >= 0, got %d", srcCount)
	}
	if dstCount < 0 {
		return errs.New(errs.BadSize, "dstCount must be >= 0, got %d", dstCount)
	}
	b.srcCount = srcCount
	b.dstCount = dstCount
	return nil
}

func (b *base) SrcCount() int32 { return b.srcCount }
func (b *base) DstCount() int32 { return b.dstCount }

// AdjList is a user-supplied, explicit edge list. Duplicate edges are a
// precondition violation: generate fails loudly rather than silently
// merging them (S6). The reference engine's adj_list::generate only sorts
// and never checks for duplicates; this is a deliberate spec-mandated
// improvement over the inherited C++ behavior -- see DESIGN.md's
// Open-Question ledger.
type AdjList struct {
	base
	packed []uint64 // (src<<32)|dst
	err    error
}

// NewAdjList returns an empty adjacency-list topology.
func NewAdjList() *AdjList { return &AdjList{} }

// Connect adds one user-supplied edge. A negative endpoint is recorded
// here; indices at or beyond the counts passed to Bind are reported by
// GenerateDense.
func (a *AdjList) Connect(src, dst int32) {
	if src < 0 || dst < 0 {
		a.err = errs.New(errs.IndexOutOfRange, "adjacency edge (%d,%d) has a negative endpoint", src, dst)
		return
	}
	a.packed = append(a.packed, uint64(src)<<32|uint64(uint32(dst)))
}

func (a *AdjList) Bind(srcCount, dstCount int32) Topology {
	if err := a.base.bind(srcCount, dstCount); err != nil {
		a.err = err
	}
	return a
}

func (a *AdjList) Size() int32 { return int32(len(a.packed)) }

func (a *AdjList) GenerateDense(offsets, neighbors []int32, seed rng.Seed) error {
	if a.err != nil {
		return a.err
	}
	sorted := append([]uint64(nil), a.packed...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	for i, p := range sorted {
		src := int32(p >> 32)
		if src >= a.srcCount {
			return errs.New(errs.IndexOutOfRange, "adjacency edge src %d >= src_count %d", src, a.srcCount)
		}
		dst := int32(uint32(p))
		if dst >= a.dstCount {
			return errs.New(errs.IndexOutOfRange, "adjacency edge dst %d >= dst_count %d", dst, a.dstCount)
		}
		if i > 0 && sorted[i] == sorted[i-1] {
			return errs.New(errs.DuplicateEdge, "duplicate edge (%d,%d)", src, dst)
		}
	}

	return generateDenseViaStream(offsets, neighbors, func(es *EdgeStream) error {
		for _, p := range sorted {
			src := int32(p >> 32)
			dst := int32(uint32(p))
			if err := es.Push(src, dst); err != nil {
				return err
			}
		}
		return nil
	})
}
