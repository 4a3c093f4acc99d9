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

package crf

import (
	"buf.build/go/postal/internal/matrix"
)

// Context is the per-call inference scratch: state scores, the Viterbi
// lattice, backpointers, and the transition overlay. A Context belongs to a
// single caller at a time; it is resized and reused across calls rather
// than reallocated.
type Context struct {
	numTokens, numLabels int

	// state[t, l] is the accumulated state score of label l at position t.
	state *matrix.Dense
	// alpha[t, l] is the best score of any path ending in l at t.
	alpha *matrix.Dense
	// backptr[t*L + l] is the predecessor label of the best path.
	backptr []uint32
	// transOverlay is the flattened L×L per-call transition contribution.
	transOverlay []float64
}

// NewContext returns an empty context for a model with l labels.
func NewContext(l int) *Context {
	return &Context{
		numLabels:    l,
		state:        matrix.NewDense(0, l),
		alpha:        matrix.NewDense(0, l),
		transOverlay: make([]float64, l*l),
	}
}

// NumLabels returns L.
func (c *Context) NumLabels() int { return c.numLabels }

// NumTokens returns the T of the last Resize.
func (c *Context) NumTokens() int { return c.numTokens }

// State returns the T×L state score matrix.
func (c *Context) State() *matrix.Dense { return c.state }

// Resize grows or shrinks the scratch to t positions, preserving L.
func (c *Context) Resize(t int) {
	c.numTokens = t
	c.state.Resize(t, c.numLabels)
	c.alpha.Resize(t, c.numLabels)
	if cap(c.backptr) < t*c.numLabels {
		c.backptr = make([]uint32, t*c.numLabels)
	}
	c.backptr = c.backptr[:t*c.numLabels]
}

// Reset zeroes all scratch.
func (c *Context) Reset() {
	c.state.Zero()
	c.alpha.Zero()
	clear(c.backptr)
	clear(c.transOverlay)
}

// Prepare is the per-parse entry point: reset, then resize to t.
func (c *Context) Prepare(t int) {
	c.Reset()
	c.Resize(t)
}

// Viterbi runs max-product decoding over the prepared state scores using
// base + overlay transition scores. It returns the best label sequence and
// its score. For an empty window the sequence is empty and the score zero.
// Arg-max ties break toward the smallest label index.
func (c *Context) Viterbi(base *matrix.Dense) ([]uint32, float64) {
	t, l := c.numTokens, c.numLabels
	if t == 0 {
		return nil, 0
	}

	trans := func(p, q int) float64 {
		return base.Get(p, q) + c.transOverlay[p*l+q]
	}

	for label := 0; label < l; label++ {
		c.alpha.Set(0, label, c.state.Get(0, label))
	}
	for pos := 1; pos < t; pos++ {
		prevRow := c.alpha.Row(pos - 1)
		for next := 0; next < l; next++ {
			bestPrev, bestScore := 0, prevRow[0]+trans(0, next)
			for prev := 1; prev < l; prev++ {
				if s := prevRow[prev] + trans(prev, next); s > bestScore {
					bestPrev, bestScore = prev, s
				}
			}
			c.alpha.Set(pos, next, bestScore+c.state.Get(pos, next))
			c.backptr[pos*l+next] = uint32(bestPrev)
		}
	}

	last := c.alpha.Row(t - 1)
	best, bestScore := 0, last[0]
	for label := 1; label < l; label++ {
		if last[label] > bestScore {
			best, bestScore = label, last[label]
		}
	}

	labels := make([]uint32, t)
	labels[t-1] = uint32(best)
	for pos := t - 2; pos >= 0; pos-- {
		labels[pos] = c.backptr[(pos+1)*l+int(labels[pos+1])]
	}
	return labels, bestScore
}
