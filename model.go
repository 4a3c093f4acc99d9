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

package postal

import (
	"buf.build/go/postal/internal/crf"
	"buf.build/go/postal/internal/modelfile"
	"buf.build/go/postal/internal/sync2"
)

// Model is a loaded address model: the parser CRF, the phrase dictionary,
// the vocabulary trie, the postal-code context graph, and optionally the
// language classifier.
//
// A Model is immutable after [Load] and safe for concurrent use. Per-call
// scratch comes from an internal pool, or from an explicit [Scratch] when
// the caller wants one scratch pinned per worker.
type Model struct {
	files     *modelfile.Files
	extractor crf.Extractor

	scratch sync2.Pool[Scratch]
}

// Load opens a model data directory and reads every model file in it.
//
// An empty dir resolves through the LIBPOSTAL_DATA_DIR environment
// variable and then ~/.libpostal. Loading the same directory from multiple
// goroutines is safe; each call returns an independent handle.
func Load(dir string) (*Model, error) {
	resolved, err := modelfile.ResolveDataDir(dir)
	if err != nil {
		return nil, err
	}
	files, err := modelfile.Load(resolved)
	if err != nil {
		return nil, err
	}

	m := &Model{
		files: files,
		extractor: crf.Extractor{
			Vocab: files.Vocab,
			Graph: files.PostalCodes,
		},
	}
	m.scratch.New = func() *Scratch { return m.NewScratch() }
	return m, nil
}

// Close releases the model's file mappings. Outstanding parses must finish
// first.
func (m *Model) Close() error {
	if m.files == nil {
		return nil
	}
	return m.files.Close()
}

// Labels returns the component labels the parser model assigns.
func (m *Model) Labels() []string {
	return m.files.CRF.Labels
}

// ready reports whether the model has been loaded.
func (m *Model) ready() bool {
	return m != nil && m.files != nil && m.files.CRF != nil
}

// Scratch is the per-worker mutable state of a parse: the CRF inference
// context. A Scratch must not be shared between concurrent calls; callers
// that parallelize hold one per worker and pass it via [WithScratch].
type Scratch struct {
	ctx *crf.Context
}

// NewScratch allocates a scratch sized for this model.
func (m *Model) NewScratch() *Scratch {
	return &Scratch{ctx: crf.NewContext(m.files.CRF.NumLabels())}
}
