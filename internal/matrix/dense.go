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
	"fmt"
	"io"
	"math"

	"buf.build/go/postal/internal/bigend"
)

// Dense is a row-major dense matrix of float64.
//
// Unlike [CSR], a Dense is mutable: the CRF inference context uses dense
// matrices as per-call scratch.
type Dense struct {
	rows, cols int
	data       []float64
}

// NewDense returns a zeroed rows×cols matrix.
func NewDense(rows, cols int) *Dense {
	return &Dense{rows: rows, cols: cols, data: make([]float64, rows*cols)}
}

// DenseFromData wraps existing row-major data.
func DenseFromData(rows, cols int, data []float64) (*Dense, error) {
	if len(data) != rows*cols {
		return nil, fmt.Errorf("postal: dense data length %d does not match %d×%d", len(data), rows, cols)
	}
	return &Dense{rows: rows, cols: cols, data: data}, nil
}

// Dims returns the (rows, cols) shape.
func (d *Dense) Dims() (rows, cols int) { return d.rows, d.cols }

// Get returns the element at (i, j).
func (d *Dense) Get(i, j int) float64 { return d.data[i*d.cols+j] }

// Set stores x at (i, j).
func (d *Dense) Set(i, j int, x float64) { d.data[i*d.cols+j] = x }

// Row returns the backing slice of row i. Mutations write through.
func (d *Dense) Row(i int) []float64 { return d.data[i*d.cols : (i+1)*d.cols] }

// Multiply computes the matrix-vector product d·v.
func (d *Dense) Multiply(v []float64) []float64 {
	out := make([]float64, d.rows)
	for i := 0; i < d.rows; i++ {
		row := d.Row(i)
		var sum float64
		for j, x := range row {
			sum += x * v[j]
		}
		out[i] = sum
	}
	return out
}

// Exp replaces every element with e raised to it.
func (d *Dense) Exp() {
	for i, x := range d.data {
		d.data[i] = math.Exp(x)
	}
}

// Add adds other element-wise in place. The shapes must match.
func (d *Dense) Add(other *Dense) error {
	if d.rows != other.rows || d.cols != other.cols {
		return fmt.Errorf("postal: dense shape mismatch: %d×%d += %d×%d", d.rows, d.cols, other.rows, other.cols)
	}
	for i, x := range other.data {
		d.data[i] += x
	}
	return nil
}

// Zero clears every element.
func (d *Dense) Zero() {
	clear(d.data)
}

// Resize reshapes to rows×cols, preserving the overlapping top-left region
// and zeroing anything new.
func (d *Dense) Resize(rows, cols int) {
	if rows == d.rows && cols == d.cols {
		return
	}
	data := make([]float64, rows*cols)
	minRows, minCols := min(rows, d.rows), min(cols, d.cols)
	for i := 0; i < minRows; i++ {
		copy(data[i*cols:i*cols+minCols], d.data[i*d.cols:i*d.cols+minCols])
	}
	d.rows, d.cols, d.data = rows, cols, data
}

// Write serializes the matrix as u32 rows, u32 cols, then rows·cols doubles.
func (d *Dense) Write(w io.Writer) error {
	if err := bigend.WriteU32(w, uint32(d.rows)); err != nil {
		return err
	}
	if err := bigend.WriteU32(w, uint32(d.cols)); err != nil {
		return err
	}
	return bigend.WriteF64s(w, d.data)
}

// ReadDense deserializes a dense block.
func ReadDense(r io.Reader) (*Dense, error) {
	rows, err := bigend.ReadU32(r)
	if err != nil {
		return nil, err
	}
	cols, err := bigend.ReadU32(r)
	if err != nil {
		return nil, err
	}
	data, err := bigend.ReadF64s(r, int(rows)*int(cols))
	if err != nil {
		return nil, err
	}
	return &Dense{rows: int(rows), cols: int(cols), data: data}, nil
}
