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

	"buf.build/go/postal/internal/crf"
	"buf.build/go/postal/internal/debug"
	"buf.build/go/postal/internal/dictionary"
	"buf.build/go/postal/internal/tokenizer"
)

// Component is one labeled span of a parsed address.
type Component struct {
	// Label is the component name, e.g. "road" or "postcode".
	Label string
	// Value is the lowercased, space-joined surface text of the span.
	Value string
}

// ParseOption is a configuration setting for [Model.Parse].
type ParseOption func(*parseConfig)

type parseConfig struct {
	language string
	country  string
	scratch  *Scratch
}

// WithLanguage hints the input's language as a BCP 47 tag. The hint is fed
// to the CRF as a feature; models trained without it ignore it.
func WithLanguage(lang string) ParseOption {
	return func(c *parseConfig) { c.language = lang }
}

// WithCountry hints the input's country as an ISO 3166 code. Fed to the
// CRF as a feature, like [WithLanguage].
func WithCountry(country string) ParseOption {
	return func(c *parseConfig) { c.country = country }
}

// WithScratch pins the parse to an explicit per-worker [Scratch] instead
// of the model's internal pool.
func WithScratch(s *Scratch) ParseOption {
	return func(c *parseConfig) { c.scratch = s }
}

// Parse labels every span of input with an address component.
//
// Empty input yields an empty result. An unloaded model reports
// [ErrModelNotReady].
func (m *Model) Parse(input string, options ...ParseOption) ([]Component, error) {
	if !m.ready() {
		return nil, ErrModelNotReady
	}

	var cfg parseConfig
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	ts := tokenizer.Tokenize(input)
	phrases := dictionary.Search(ts, m.files.Phrases)
	tokens := contentTokens(ts, phrases)
	if len(tokens) == 0 {
		return nil, nil
	}

	scratch := cfg.scratch
	if scratch == nil {
		var drop func()
		scratch, drop = m.scratch.Get()
		defer drop()
	}

	ctx := scratch.ctx
	ctx.Prepare(len(tokens))

	hints := hintFeatures(&cfg)
	for i := range tokens {
		features := m.extractor.StateFeatures(tokens, i)
		if len(hints) > 0 {
			features = append(features, hints...)
		}
		m.files.CRF.ScoreState(ctx, i, features)
		m.files.CRF.ScoreTransitions(ctx, m.extractor.TransitionFeatures(tokens, i))
	}

	labelIDs, score := ctx.Viterbi(m.files.CRF.Transitions)
	components := mergeComponents(m.files.CRF.Labels, tokens, labelIDs)
	if debug.Enabled {
		debug.Log(nil, "parse", "%d tokens -> %d components, score %g",
			len(tokens), len(components), score)
	}
	return components, nil
}

func hintFeatures(cfg *parseConfig) []string {
	var hints []string
	if cfg.language != "" {
		hints = append(hints, "hint_lang="+strings.ToLower(cfg.language))
	}
	if cfg.country != "" {
		hints = append(hints, "hint_country="+strings.ToLower(cfg.country))
	}
	return hints
}

// contentTokens projects the token stream down to the subsequence the CRF
// decodes over, carrying phrase membership along. Whitespace, newlines,
// and bare punctuation are not part of the window; their surfaces never
// appear in component values.
func contentTokens(ts *tokenizer.TokenizedString, phrases []dictionary.Phrase) []crf.TokenInfo {
	toks := ts.Tokens()
	tokens := make([]crf.TokenInfo, 0, len(toks))

	for i := range toks {
		tok := &toks[i]
		if tok.Kind.IsWhitespace() || tok.Kind.IsPunct() {
			continue
		}
		info := crf.TokenInfo{
			Surface: tok.Text,
			Norm:    strings.ToLower(tok.Text),
			Kind:    tok.Kind,
		}
		for pi := range phrases {
			p := &phrases[pi]
			if !p.Covers(i) {
				continue
			}
			for _, exp := range p.Expansions {
				info.Phrases = append(info.Phrases, crf.PhraseInfo{
					Canonical:  exp.Canonical,
					Dictionary: exp.Dictionary,
				})
			}
			info.PhrasePos = phrasePosition(toks, p, i)
		}
		tokens = append(tokens, info)
	}
	return tokens
}

// phrasePosition locates token i among the phrase's non-whitespace tokens.
func phrasePosition(toks []tokenizer.Token, p *dictionary.Phrase, i int) crf.PhrasePosition {
	first, last := -1, -1
	for j := int(p.StartToken); j < int(p.End()); j++ {
		if toks[j].Kind.IsWhitespace() {
			continue
		}
		if first < 0 {
			first = j
		}
		last = j
	}
	switch {
	case first == last:
		return crf.PhraseSingle
	case i == first:
		return crf.PhraseBegin
	case i == last:
		return crf.PhraseEnd
	default:
		return crf.PhraseMiddle
	}
}

// mergeComponents folds contiguous equal labels into single components,
// joining surfaces with single spaces, lowercased, in token order.
func mergeComponents(labels []string, tokens []crf.TokenInfo, labelIDs []uint32) []Component {
	var out []Component
	for i, id := range labelIDs {
		label := labels[id]
		if len(out) > 0 && out[len(out)-1].Label == label {
			out[len(out)-1].Value += " " + tokens[i].Norm
			continue
		}
		out = append(out, Component{Label: label, Value: tokens[i].Norm})
	}
	return out
}
