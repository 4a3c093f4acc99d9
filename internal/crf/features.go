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
	"strings"
	"unicode"

	"buf.build/go/postal/internal/datrie"
	"buf.build/go/postal/internal/dictionary"
	"buf.build/go/postal/internal/matrix"
	"buf.build/go/postal/internal/tokenizer"
	"buf.build/go/postal/internal/unicodex"
)

// PhrasePosition locates a token inside a matched phrase.
type PhrasePosition uint8

const (
	PhraseNone PhrasePosition = iota
	PhraseSingle
	PhraseBegin
	PhraseMiddle
	PhraseEnd
)

func (p PhrasePosition) String() string {
	switch p {
	case PhraseSingle:
		return "single"
	case PhraseBegin:
		return "begin"
	case PhraseMiddle:
		return "middle"
	case PhraseEnd:
		return "end"
	}
	return "none"
}

// PhraseInfo is the phrase membership of a token, if any.
type PhraseInfo struct {
	Canonical  string
	Dictionary dictionary.Type
}

// TokenInfo is the feature extractor's view of one content token.
type TokenInfo struct {
	// Surface is the raw input text of the token.
	Surface string
	// Norm is the lowercased surface.
	Norm string
	Kind tokenizer.Kind

	// Phrases lists the matched phrases covering this token.
	Phrases []PhraseInfo
	// PhrasePos is the token's position inside its covering phrase.
	PhrasePos PhrasePosition
}

// Sentinel words for out-of-window context positions.
const (
	sentinelStart = "^"
	sentinelEnd   = "$"
)

// Extractor turns tokens and their context into feature strings. The vocab
// trie maps surface strings to postal-graph node IDs; both it and the graph
// are optional.
type Extractor struct {
	Vocab *datrie.Trie
	Graph *matrix.Graph
}

// StateFeatures emits the state-feature bag for position i of tokens.
func (e *Extractor) StateFeatures(tokens []TokenInfo, i int) []string {
	t := &tokens[i]
	features := make([]string, 0, 24)

	features = append(features, "bias", "word="+t.Norm)
	if digits := replaceDigits(t.Norm); digits != t.Norm {
		features = append(features, "word="+digits)
	}

	runes := []rune(t.Norm)
	for k := 1; k <= 4 && k <= len(runes); k++ {
		features = append(features,
			"prefix"+ktoa(k)+"="+string(runes[:k]),
			"suffix"+ktoa(k)+"="+string(runes[len(runes)-k:]))
	}

	features = append(features,
		"shape="+shape(t.Surface),
		"script="+unicodex.DetectScript(t.Surface).String())

	features = append(features, "prev_word="+wordAt(tokens, i-1))
	features = append(features, "next_word="+wordAt(tokens, i+1))
	features = append(features, "prev2="+wordAt(tokens, i-2))
	features = append(features, "next2="+wordAt(tokens, i+2))

	for _, p := range t.Phrases {
		features = append(features,
			"phrase_dict="+p.Dictionary.String(),
			"phrase_canonical="+p.Canonical)
	}
	if t.PhrasePos != PhraseNone {
		features = append(features, "in_phrase_"+t.PhrasePos.String())
	}

	features = append(features, e.postcodeContext(tokens, i)...)
	return features
}

// TransitionFeatures emits the transition-feature bag for position i.
func (e *Extractor) TransitionFeatures(tokens []TokenInfo, i int) []string {
	t := &tokens[i]
	return []string{
		"trans|word=" + t.Norm,
		"trans|prev_word=" + wordAt(tokens, i-1),
	}
}

// postcodeContext checks a numeric token of plausible postal shape against
// the postal-code graph: if an earlier token in the window is a known graph
// neighbor of the candidate code, its surface becomes context.
func (e *Extractor) postcodeContext(tokens []TokenInfo, i int) []string {
	if e.Vocab == nil || e.Graph == nil {
		return nil
	}
	t := &tokens[i]
	if t.Kind != tokenizer.KindNumeric || !PlausiblePostcode(t.Norm) {
		return nil
	}
	node, ok := e.Vocab.GetString(t.Norm)
	if !ok {
		return nil
	}
	var features []string
	for j := 0; j < i; j++ {
		if tokens[j].Kind != tokenizer.KindWord && tokens[j].Kind != tokenizer.KindAcronym {
			continue
		}
		admin, ok := e.Vocab.GetString(tokens[j].Norm)
		if !ok {
			continue
		}
		if e.Graph.HasEdge(node, admin) {
			features = append(features, "postcode_ctx="+tokens[j].Norm)
		}
	}
	return features
}

// PlausiblePostcode reports whether s is shaped like a postal code: 3 to 10
// characters, at least one digit, only letters, digits, hyphens, and
// spaces.
func PlausiblePostcode(s string) bool {
	runes := []rune(s)
	if len(runes) < 3 || len(runes) > 10 {
		return false
	}
	digits := 0
	for _, r := range runes {
		switch {
		case unicode.IsDigit(r):
			digits++
		case unicode.IsLetter(r), r == '-', r == ' ':
		default:
			return false
		}
	}
	return digits > 0
}

// wordAt returns the normalized word at position i, or a sentinel off
// either end of the window.
func wordAt(tokens []TokenInfo, i int) string {
	if i < 0 {
		return sentinelStart
	}
	if i >= len(tokens) {
		return sentinelEnd
	}
	return tokens[i].Norm
}

// shape maps letters to x/X, digits to d, and leaves everything else.
func shape(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			sb.WriteByte('X')
		case unicode.IsLetter(r):
			sb.WriteByte('x')
		case unicode.IsDigit(r):
			sb.WriteByte('d')
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func replaceDigits(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if unicode.IsDigit(r) {
			sb.WriteByte('D')
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// ktoa formats the 1..4 affix lengths without strconv.
func ktoa(k int) string {
	return string([]byte{byte('0' + k)})
}
