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

package matrix_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"buf.build/go/postal/internal/matrix"
	"buf.build/go/postal/internal/perrors"
)

// testCSR is the matrix
//
//	[ 1 0 2 ]
//	[ 0 0 0 ]
//	[ 0 3 4 ]
func testCSR(t *testing.T) *matrix.CSR {
	t.Helper()
	c, err := matrix.NewCSR(3, 3,
		[]uint32{0, 2, 2, 4},
		[]uint32{0, 2, 1, 2},
		[]float64{1, 2, 3, 4},
	)
	require.NoError(t, err)
	return c
}

func TestCSRMultiply(t *testing.T) {
	t.Parallel()

	c := testCSR(t)
	require.Equal(t, []float64{1*1 + 2*3, 0, 3*2 + 4*3}, c.Multiply([]float64{1, 2, 3}))
}

func TestCSRRow(t *testing.T) {
	t.Parallel()

	c := testCSR(t)
	var cols []int
	var vals []float64
	for j, v := range c.Row(2) {
		cols = append(cols, j)
		vals = append(vals, v)
	}
	require.Equal(t, []int{1, 2}, cols)
	require.Equal(t, []float64{3, 4}, vals)

	dst := make([]float64, 3)
	c.AddRowTo(0, dst)
	require.Equal(t, []float64{1, 0, 2}, dst)
}

func TestCSRInvariants(t *testing.T) {
	t.Parallel()

	// indptr[0] != 0.
	_, err := matrix.NewCSR(1, 1, []uint32{1, 1}, nil, nil)
	var corrupt *perrors.CorruptModelError
	require.ErrorAs(t, err, &corrupt)

	// Decreasing indptr.
	_, err = matrix.NewCSR(2, 2, []uint32{0, 2, 1}, []uint32{0, 1}, []float64{1, 2})
	require.Error(t, err)

	// Non-increasing columns within a row.
	_, err = matrix.NewCSR(1, 3, []uint32{0, 2}, []uint32{1, 1}, []float64{1, 2})
	require.Error(t, err)

	// Column out of range.
	_, err = matrix.NewCSR(1, 2, []uint32{0, 1}, []uint32{5}, []float64{1})
	require.Error(t, err)

	// indptr[m] != nnz.
	_, err = matrix.NewCSR(1, 2, []uint32{0, 2}, []uint32{0}, []float64{1})
	require.Error(t, err)
}

func TestCSRRoundTrip(t *testing.T) {
	t.Parallel()

	c := testCSR(t)
	buf := new(bytes.Buffer)
	require.NoError(t, c.Write(buf))
	first := append([]byte(nil), buf.Bytes()...)

	loaded, err := matrix.ReadCSR(bytes.NewReader(first))
	require.NoError(t, err)

	// Store → load → store is the identity, byte for byte.
	buf.Reset()
	require.NoError(t, loaded.Write(buf))
	require.Equal(t, first, buf.Bytes())
}

func TestCSRTruncated(t *testing.T) {
	t.Parallel()

	buf := new(bytes.Buffer)
	require.NoError(t, testCSR(t).Write(buf))
	whole := buf.Bytes()
	for _, n := range []int{0, 2, 7, 12, len(whole) - 4} {
		_, err := matrix.ReadCSR(bytes.NewReader(whole[:n]))
		require.Error(t, err, "prefix of %d bytes", n)
	}
}

func TestDense(t *testing.T) {
	t.Parallel()

	d := matrix.NewDense(2, 3)
	d.Set(0, 0, 1)
	d.Set(0, 2, 2)
	d.Set(1, 1, 3)
	require.Equal(t, 2.0, d.Get(0, 2))
	require.Equal(t, []float64{1*1 + 2*3, 3 * 2}, d.Multiply([]float64{1, 2, 3}))

	other := matrix.NewDense(2, 3)
	other.Set(0, 0, 10)
	require.NoError(t, d.Add(other))
	require.Equal(t, 11.0, d.Get(0, 0))

	mismatched := matrix.NewDense(3, 3)
	require.Error(t, d.Add(mismatched))

	d.Zero()
	require.Zero(t, d.Get(0, 0))
}

func TestDenseExp(t *testing.T) {
	t.Parallel()

	d := matrix.NewDense(1, 2)
	d.Set(0, 0, 0)
	d.Set(0, 1, 1)
	d.Exp()
	require.Equal(t, 1.0, d.Get(0, 0))
	require.InDelta(t, 2.718281828, d.Get(0, 1), 1e-9)
}

func TestDenseResize(t *testing.T) {
	t.Parallel()

	d := matrix.NewDense(2, 2)
	d.Set(0, 0, 1)
	d.Set(0, 1, 2)
	d.Set(1, 0, 3)
	d.Set(1, 1, 4)

	// Growing preserves the old contents in the top-left corner.
	d.Resize(3, 4)
	require.Equal(t, 1.0, d.Get(0, 0))
	require.Equal(t, 2.0, d.Get(0, 1))
	require.Equal(t, 3.0, d.Get(1, 0))
	require.Equal(t, 4.0, d.Get(1, 1))
	require.Zero(t, d.Get(2, 3))

	// Shrinking truncates.
	d.Resize(1, 1)
	rows, cols := d.Dims()
	require.Equal(t, 1, rows)
	require.Equal(t, 1, cols)
	require.Equal(t, 1.0, d.Get(0, 0))
}

func TestDenseRoundTrip(t *testing.T) {
	t.Parallel()

	d, err := matrix.DenseFromData(2, 2, []float64{1, -2, 3.5, 0})
	require.NoError(t, err)
	buf := new(bytes.Buffer)
	require.NoError(t, d.Write(buf))

	loaded, err := matrix.ReadDense(buf)
	require.NoError(t, err)
	require.Equal(t, -2.0, loaded.Get(0, 1))
	require.Equal(t, 3.5, loaded.Get(1, 0))
}

func testGraph(t *testing.T) *matrix.Graph {
	t.Helper()
	// 0 → {1, 3}, 1 → {}, 2 → {0}
	g, err := matrix.NewGraph(3, 4,
		[]uint32{0, 2, 2, 3},
		[]uint32{1, 3, 0},
	)
	require.NoError(t, err)
	return g
}

func TestGraph(t *testing.T) {
	t.Parallel()

	g := testGraph(t)
	require.True(t, g.HasEdge(0, 1))
	require.True(t, g.HasEdge(0, 3))
	require.False(t, g.HasEdge(0, 2))
	require.False(t, g.HasEdge(1, 0))
	require.False(t, g.HasEdge(9, 0))

	var ns []uint32
	for v := range g.Neighbors(0) {
		ns = append(ns, v)
	}
	require.Equal(t, []uint32{1, 3}, ns)
	require.Equal(t, 2, g.Degree(0))
	require.Equal(t, 0, g.Degree(1))
}

func TestGraphRoundTrip(t *testing.T) {
	t.Parallel()

	buf := new(bytes.Buffer)
	require.NoError(t, testGraph(t).Write(buf))
	g, err := matrix.ReadGraph(buf)
	require.NoError(t, err)
	require.Equal(t, 3, g.NumEdges())
	require.True(t, g.HasEdge(2, 0))
}

func TestGraphBadType(t *testing.T) {
	t.Parallel()

	buf := new(bytes.Buffer)
	require.NoError(t, testGraph(t).Write(buf))
	data := buf.Bytes()
	data[3] = 9 // graph type tag
	_, err := matrix.ReadGraph(bytes.NewReader(data))
	require.Error(t, err)
}
