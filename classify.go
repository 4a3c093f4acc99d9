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
	"strings"

	"buf.build/go/postal/internal/tokenizer"
)

// LanguagePrediction is one scored language from [Model.ClassifyLanguage].
type LanguagePrediction struct {
	// Language is a BCP 47 tag.
	Language string
	// Confidence is the softmax probability, in (0, 1].
	Confidence float64
}

// ClassifyLanguage scores the input against the language classifier and
// returns the topK most likely languages.
//
// Models without the optional classifier file report [ErrModelNotReady].
// Empty input yields an empty result.
func (m *Model) ClassifyLanguage(input string, topK int) ([]LanguagePrediction, error) {
	if !m.ready() || m.files.LangID == nil {
		return nil, ErrModelNotReady
	}

	ts := tokenizer.Tokenize(input)
	var tokens []string
	for _, tok := range ts.Tokens() {
		if tok.Kind.IsWhitespace() || tok.Kind.IsPunct() {
			continue
		}
		tokens = append(tokens, strings.ToLower(tok.Text))
	}

	preds := m.files.LangID.Classify(tokens, topK)
	out := make([]LanguagePrediction, len(preds))
	for i, p := range preds {
		out[i] = LanguagePrediction{Language: p.Language, Confidence: p.Confidence}
	}
	return out, nil
}
