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

// Package langid implements the optional address language classifier: a
// linear model over token unigram and bigram features with softmax
// confidences.
package langid

import (
	"io"
	"math"
	"sort"
	"strings"

	"buf.build/go/postal/internal/bigend"
	"buf.build/go/postal/internal/datrie"
	"buf.build/go/postal/internal/matrix"
	"buf.build/go/postal/internal/perrors"
)

// Magic is the file signature of a serialized classifier.
const Magic uint32 = 0xC1C1C1C1

// Model is a loaded language classifier. Immutable, safe for concurrent
// use.
type Model struct {
	// Labels maps label IDs to BCP 47 language codes.
	Labels []string
	// Features maps feature strings to weight-row IDs.
	Features *datrie.Trie
	// Weights is F×L.
	Weights *matrix.CSR
}

// Prediction is one scored language.
type Prediction struct {
	Language   string
	Confidence float64
}

// Classify scores normalized tokens against the model and returns the
// top-k languages by softmax confidence. Ties order by label index.
func (m *Model) Classify(tokens []string, topK int) []Prediction {
	if len(tokens) == 0 || topK <= 0 {
		return nil
	}

	scores := make([]float64, len(m.Labels))
	addFeature := func(f string) {
		if id, ok := m.Features.GetString(f); ok {
			m.Weights.AddRowTo(int(id), scores)
		}
	}
	for i, tok := range tokens {
		addFeature("w=" + tok)
		if i+1 < len(tokens) {
			addFeature("b=" + tok + "_" + tokens[i+1])
		}
	}

	// Softmax with the usual max-shift for stability.
	maxScore := scores[0]
	for _, s := range scores[1:] {
		maxScore = math.Max(maxScore, s)
	}
	var sum float64
	probs := make([]float64, len(scores))
	for i, s := range scores {
		probs[i] = math.Exp(s - maxScore)
		sum += probs[i]
	}

	preds := make([]Prediction, len(m.Labels))
	for i, label := range m.Labels {
		preds[i] = Prediction{Language: label, Confidence: probs[i] / sum}
	}
	sort.SliceStable(preds, func(a, b int) bool {
		return preds[a].Confidence > preds[b].Confidence
	})
	if topK < len(preds) {
		preds = preds[:topK]
	}
	return preds
}

// Write serializes the classifier, magic number first.
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
	if err := m.Features.WritePayload(w); err != nil {
		return err
	}
	return m.Weights.Write(w)
}

// Read deserializes a classifier and validates its shape.
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
	if uint32(len(labels)) != numLabels {
		return nil, perrors.Corruptf("classifier header says %d labels, blob has %d", numLabels, len(labels))
	}

	m := &Model{Labels: labels}
	if m.Features, err = datrie.ReadPayload(r); err != nil {
		return nil, err
	}
	if m.Weights, err = matrix.ReadCSR(r); err != nil {
		return nil, err
	}
	if _, cols := m.Weights.Dims(); cols != len(labels) {
		return nil, perrors.Corruptf("classifier weights have %d columns for %d labels", cols, len(labels))
	}
	return m, nil
}
