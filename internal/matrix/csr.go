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

// Package matrix implements the sparse and dense matrices backing the CRF
// weights and the postal-code context graph.
package matrix

import (
	"io"
	"iter"

	"buf.build/go/postal/internal/bigend"
	"buf.build/go/postal/internal/perrors"
)

// CSR is a compressed sparse row matrix of float64 weights.
//
// Invariants, checked on load: indptr is non-decreasing with indptr[0] == 0
// and indptr[m] == nnz, and column indices are strictly increasing within
// each row. A CSR is immutable and safe for concurrent reads.
type CSR struct {
	rows, cols uint32
	indptr     []uint32
	indices    []uint32
	values     []float64
}

// NewCSR assembles a CSR from its raw parts, validating the invariants.
func NewCSR(rows, cols uint32, indptr, indices []uint32, values []float64) (*CSR, error) {
	c := &CSR{rows: rows, cols: cols, indptr: indptr, indices: indices, values: values}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *CSR) validate() error {
	if len(c.indptr) != int(c.rows)+1 {
		return perrors.Corruptf("csr indptr has %d entries, want %d", len(c.indptr), c.rows+1)
	}
	if c.indptr[0] != 0 {
		return perrors.Corruptf("csr indptr[0] = %d, want 0", c.indptr[0])
	}
	nnz := uint32(len(c.indices))
	if c.indptr[c.rows] != nnz {
		return perrors.Corruptf("csr indptr[m] = %d, want nnz = %d", c.indptr[c.rows], nnz)
	}
	if len(c.values) != len(c.indices) {
		return perrors.Corruptf("csr has %d values for %d indices", len(c.values), len(c.indices))
	}
	for i := uint32(0); i < c.rows; i++ {
		lo, hi := c.indptr[i], c.indptr[i+1]
		if lo > hi {
			return perrors.Corruptf("csr indptr decreases at row %d", i)
		}
		if hi > nnz {
			return perrors.Corruptf("csr indptr[%d] = %d exceeds nnz = %d", i+1, hi, nnz)
		}
		for j := lo; j < hi; j++ {
			if c.indices[j] >= c.cols {
				return perrors.Corruptf("csr column %d out of range at row %d", c.indices[j], i)
			}
			if j > lo && c.indices[j] <= c.indices[j-1] {
				return perrors.Corruptf("csr columns not strictly increasing at row %d", i)
			}
		}
	}
	return nil
}

// Dims returns the (rows, cols) shape.
func (c *CSR) Dims() (rows, cols int) { return int(c.rows), int(c.cols) }

// NNZ returns the number of stored entries.
func (c *CSR) NNZ() int { return len(c.indices) }

// Multiply computes the matrix-vector product c·v.
func (c *CSR) Multiply(v []float64) []float64 {
	out := make([]float64, c.rows)
	for i := uint32(0); i < c.rows; i++ {
		var sum float64
		for j := c.indptr[i]; j < c.indptr[i+1]; j++ {
			sum += c.values[j] * v[c.indices[j]]
		}
		out[i] = sum
	}
	return out
}

// Row iterates the stored (column, value) pairs of row i.
func (c *CSR) Row(i int) iter.Seq2[int, float64] {
	return func(yield func(int, float64) bool) {
		for j := c.indptr[i]; j < c.indptr[i+1]; j++ {
			if !yield(int(c.indices[j]), c.values[j]) {
				return
			}
		}
	}
}

// AddRowTo adds row i element-wise into dst, which must have at least cols
// entries.
func (c *CSR) AddRowTo(i int, dst []float64) {
	for j := c.indptr[i]; j < c.indptr[i+1]; j++ {
		dst[c.indices[j]] += c.values[j]
	}
}

// Write serializes the matrix in the CSR block format.
func (c *CSR) Write(w io.Writer) error {
	if err := bigend.WriteU32(w, c.rows); err != nil {
		return err
	}
	if err := bigend.WriteU32(w, c.cols); err != nil {
		return err
	}
	if err := bigend.WriteU64(w, uint64(len(c.indptr))); err != nil {
		return err
	}
	if err := bigend.WriteU32s(w, c.indptr); err != nil {
		return err
	}
	if err := bigend.WriteU64(w, uint64(len(c.indices))); err != nil {
		return err
	}
	if err := bigend.WriteU32s(w, c.indices); err != nil {
		return err
	}
	if err := bigend.WriteU64(w, uint64(len(c.values))); err != nil {
		return err
	}
	return bigend.WriteF64s(w, c.values)
}

// ReadCSR deserializes a CSR block and validates its invariants.
func ReadCSR(r io.Reader) (*CSR, error) {
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
	dataLen, err := bigend.ReadU64(r)
	if err != nil {
		return nil, err
	}
	values, err := bigend.ReadF64s(r, int(dataLen))
	if err != nil {
		return nil, err
	}
	return NewCSR(rows, cols, indptr, indices, values)
}
