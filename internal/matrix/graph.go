// Copyright 2020-2025 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package matrix

import (
	"io"
	"iter"
	"sort"

	"buf.build/go/postal/internal/bigend"
	"buf.build/go/postal/internal/perrors"
)

// GraphDirected is the only graph type tag the format defines.
const GraphDirected uint32 = 0

// Graph is a directed graph in CSR adjacency form. It relates postal codes
// to the administrative-region nodes they are consistent with.
type Graph struct {
	rows, cols uint32
	indptr     []uint32
	indices    []uint32
}

// NewGraph assembles a graph from its raw parts, validating the CSR
// invariants.
func NewGraph(rows, cols uint32, indptr, indices []uint32) (*Graph, error) {
	g := &Graph{rows: rows, cols: cols, indptr: indptr, indices: indices}
	if err := g.validate(); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Graph) validate() error {
	if len(g.indptr) != int(g.rows)+1 {
		return perrors.Corruptf("graph indptr has %d entries, want %d", len(g.indptr), g.rows+1)
	}
	if g.indptr[0] != 0 {
		return perrors.Corruptf("graph indptr[0] = %d, want 0", g.indptr[0])
	}
	if g.indptr[g.rows] != uint32(len(g.indices)) {
		return perrors.Corruptf("graph indptr[m] = %d, want %d", g.indptr[g.rows], len(g.indices))
	}
	for i := uint32(0); i < g.rows; i++ {
		lo, hi := g.indptr[i], g.indptr[i+1]
		if lo > hi {
			return perrors.Corruptf("graph indptr decreases at node %d", i)
		}
		if hi > uint32(len(g.indices)) {
			return perrors.Corruptf("graph indptr[%d] = %d exceeds %d edges", i+1, hi, len(g.indices))
		}
		for j := lo; j < hi; j++ {
			if g.indices[j] >= g.cols {
				return perrors.Corruptf("graph edge target %d out of range at node %d", g.indices[j], i)
			}
			if j > lo && g.indices[j] <= g.indices[j-1] {
				return perrors.Corruptf("graph edges not strictly increasing at node %d", i)
			}
		}
	}
	return nil
}

// Dims returns the (source, target) node counts.
func (g *Graph) Dims() (rows, cols int) { return int(g.rows), int(g.cols) }

// NumEdges returns the number of edges.
func (g *Graph) NumEdges() int { return len(g.indices) }

// HasEdge reports whether u has an edge to v.
func (g *Graph) HasEdge(u, v uint32) bool {
	if u >= g.rows {
		return false
	}
	row := g.indices[g.indptr[u]:g.indptr[u+1]]
	i := sort.Search(len(row), func(i int) bool { return row[i] >= v })
	return i < len(row) && row[i] == v
}

// Neighbors iterates the targets of u's outgoing edges in increasing order.
func (g *Graph) Neighbors(u uint32) iter.Seq[uint32] {
	return func(yield func(uint32) bool) {
		if u >= g.rows {
			return
		}
		for j := g.indptr[u]; j < g.indptr[u+1]; j++ {
			if !yield(g.indices[j]) {
				return
			}
		}
	}
}

// Degree returns the number of outgoing edges of u.
func (g *Graph) Degree(u uint32) int {
	if u >= g.rows {
		return 0
	}
	return int(g.indptr[u+1] - g.indptr[u])
}

// Write serializes the graph in the graph file format.
func (g *Graph) Write(w io.Writer) error {
	if err := bigend.WriteU32(w, GraphDirected); err != nil {
		return err
	}
	if err := bigend.WriteU32(w, g.rows); err != nil {
		return err
	}
	if err := bigend.WriteU32(w, g.cols); err != nil {
		return err
	}
	if err := bigend.WriteU64(w, uint64(len(g.indptr))); err != nil {
		return err
	}
	if err := bigend.WriteU32s(w, g.indptr); err != nil {
		return err
	}
	if err := bigend.WriteU64(w, uint64(len(g.indices))); err != nil {
		return err
	}
	return bigend.WriteU32s(w, g.indices)
}

// ReadGraph deserializes a graph block and validates its invariants.
func ReadGraph(r io.Reader) (*Graph, error) {
	typ, err := bigend.ReadU32(r)
	if err != nil {
		return nil, err
	}
	if typ != GraphDirected {
		return nil, perrors.Corruptf("unknown graph type %d", typ)
	}
	rows, err := bigend.ReadU32(r)
	if err != nil {
		return nil, err
	}
	cols, err := bigend.ReadU32(r)
	if err != nil {
		return nil, err
	}
	indptrLen, err := bigend.ReadU64(r)
	if err != nil {
		return nil, err
	}
	indptr, err := bigend.ReadU32s(r, int(indptrLen))
	if err != nil {
		return nil, err
	}
	indicesLen, err := bigend.ReadU64(r)
	if err != nil {
		return nil, err
	}
	indices, err := bigend.ReadU32s(r, int(indicesLen))
	if err != nil {
		return nil, err
	}
	return NewGraph(rows, cols, indptr, indices)
}
