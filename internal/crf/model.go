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

// Package crf implements the linear-chain CRF the address parser decodes
// with: the model weights, the per-call inference context, feature
// extraction, and Viterbi decoding.
package crf

import (
	"io"
	"strings"

	"buf.build/go/postal/internal/bigend"
	"buf.build/go/postal/internal/datrie"
	"buf.build/go/postal/internal/matrix"
	"buf.build/go/postal/internal/perrors"
)

// Magic is the file signature of a serialized CRF model.
const Magic uint32 = 0xCFCFCFCF

// Model is a loaded linear-chain CRF. It is immutable and safe for
// concurrent use; all per-call state lives in a [Context].
type Model struct {
	// Labels maps label IDs to component names.
	Labels []string

	// StateFeatures maps state-feature strings to weight-row IDs.
	StateFeatures *datrie.Trie
	// Weights is F×L: one row per state feature, one column per label.
	Weights *matrix.CSR

	// StateTransFeatures maps transition-feature strings to weight-row IDs.
	StateTransFeatures *datrie.Trie
	// StateTransWeights is F'×(L·L), flattened row-major by (prev, next).
	StateTransWeights *matrix.CSR

	// Transitions is the L×L base transition score matrix.
	Transitions *matrix.Dense
}

// NumLabels returns L.
func (m *Model) NumLabels() int { return len(m.Labels) }

// ScoreState looks up every feature string and accumulates its weight row
// into the context's state scores for position i. Unknown features are
// skipped.
func (m *Model) ScoreState(ctx *Context, i int, features []string) {
	row := ctx.state.Row(i)
	for _, f := range features {
		id, ok := m.StateFeatures.GetString(f)
		if !ok {
			continue
		}
		m.Weights.AddRowTo(int(id), row)
	}
}

// ScoreTransitions looks up every transition-feature string and accumulates
// its weight row into the context's L×L transition overlay. Unknown
// features are skipped.
func (m *Model) ScoreTransitions(ctx *Context, features []string) {
	for _, f := range features {
		id, ok := m.StateTransFeatures.GetString(f)
		if !ok {
			continue
		}
		m.StateTransWeights.AddRowTo(int(id), ctx.transOverlay)
	}
}

// Write serializes the model, magic number first.
func (m *Model) Write(w io.Writer) error {
	if err := bigend.WriteU32(w, Magic); err != nil {
		return err
	}
	if err := bigend.WriteU32(w, uint32(len(m.Labels))); err != nil {
		return err
	}
	blob := strings.Join(m.Labels, "\x00")
	if err := bigend.WriteU64(w, uint64(len(blob))); err != nil {
		return err
	}
	if _, err := io.WriteString(w, blob); err != nil {
		return err
	}
	if err := m.StateFeatures.WritePayload(w); err != nil {
		return err
	}
	if err := m.Weights.Write(w); err != nil {
		return err
	}
	if err := m.StateTransFeatures.WritePayload(w); err != nil {
		return err
	}
	if err := m.StateTransWeights.Write(w); err != nil {
		return err
	}
	return m.Transitions.Write(w)
}

// Read deserializes a model and validates its shape.
func Read(r io.Reader) (*Model, error) {
	magic, err := bigend.ReadU32(r)
	if err != nil {
		return nil, err
	}
	if magic != Magic {
		return nil, &perrors.BadSignatureError{Want: Magic, Got: magic}
	}

	numLabels, err := bigend.ReadU32(r)
	if err != nil {
		return nil, err
	}
	blobLen, err := bigend.ReadU64(r)
	if err != nil {
		return nil, err
	}
	blob, err := bigend.ReadBytes(r, int(blobLen))
	if err != nil {
		return nil, err
	}
	labels := strings.Split(string(blob), "\x00")
	if blobLen == 0 {
		labels = nil
	}
	if uint32(len(labels)) != numLabels {
		return nil, perrors.Corruptf("crf header says %d labels, blob has %d", numLabels, len(labels))
	}

	m := &Model{Labels: labels}
	if m.StateFeatures, err = datrie.ReadPayload(r); err != nil {
		return nil, err
	}
	if m.Weights, err = matrix.ReadCSR(r); err != nil {
		return nil, err
	}
	if m.StateTransFeatures, err = datrie.ReadPayload(r); err != nil {
		return nil, err
	}
	if m.StateTransWeights, err = matrix.ReadCSR(r); err != nil {
		return nil, err
	}
	if m.Transitions, err = matrix.ReadDense(r); err != nil {
		return nil, err
	}

	l := int(numLabels)
	if _, cols := m.Weights.Dims(); cols != l {
		return nil, perrors.Corruptf("crf state weights have %d columns, want %d labels", cols, l)
	}
	if _, cols := m.StateTransWeights.Dims(); cols != l*l {
		return nil, perrors.Corruptf("crf transition weights have %d columns, want %d", cols, l*l)
	}
	if rows, cols := m.Transitions.Dims(); rows != l || cols != l {
		return nil, perrors.Corruptf("crf transitions are %d×%d, want %d×%d", rows, cols, l, l)
	}
	return m, nil
}
