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

package dictionary

import (
	"sort"
	"strings"

	"buf.build/go/postal/internal/tokenizer"
)

// Phrase is a run of contiguous tokens (whitespace included) that matches a
// dictionary key.
type Phrase struct {
	// StartToken indexes into the token sequence the search ran over.
	StartToken uint32
	// LengthTokens is the number of tokens covered, counting whitespace.
	LengthTokens uint32
	// Value is the normalized dictionary key that matched.
	Value string
	// Expansions are the canonical alternatives of the key.
	Expansions []Expansion
}

// End returns the index one past the last covered token.
func (p *Phrase) End() uint32 { return p.StartToken + p.LengthTokens }

// Covers reports whether token index i falls inside the phrase.
func (p *Phrase) Covers(i int) bool {
	return i >= int(p.StartToken) && i < int(p.End())
}

// Search finds dictionary phrases in a token stream.
//
// At every non-whitespace token the searcher extends greedily, joining
// token texts with single spaces and lowercasing, for as long as the
// accumulated key is still a strict prefix of some dictionary key; the
// longest accumulated key that is itself a dictionary key becomes that
// position's candidate. Overlapping candidates resolve longest-first, with
// equal lengths preferring the earlier start. The result is ordered by
// start position.
func Search(ts *tokenizer.TokenizedString, d *Dictionary) []Phrase {
	if d == nil || d.Len() == 0 {
		return nil
	}
	toks := ts.Tokens()

	var candidates []Phrase
	for i := range toks {
		if toks[i].Kind.IsWhitespace() {
			continue
		}
		if p, ok := longestAt(toks, i, d); ok {
			candidates = append(candidates, p)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	// Longest wins; equal lengths prefer the earlier start.
	order := make([]int, len(candidates))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		pa, pb := &candidates[order[a]], &candidates[order[b]]
		if pa.LengthTokens != pb.LengthTokens {
			return pa.LengthTokens > pb.LengthTokens
		}
		return pa.StartToken < pb.StartToken
	})

	taken := make([]bool, len(toks))
	var out []Phrase
	for _, idx := range order {
		p := candidates[idx]
		overlap := false
		for i := p.StartToken; i < p.End(); i++ {
			if taken[i] {
				overlap = true
				break
			}
		}
		if overlap {
			continue
		}
		for i := p.StartToken; i < p.End(); i++ {
			taken[i] = true
		}
		out = append(out, p)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].StartToken < out[b].StartToken })
	return out
}

// longestAt returns the longest dictionary match starting at token i.
func longestAt(toks []tokenizer.Token, i int, d *Dictionary) (Phrase, bool) {
	var key strings.Builder
	var best Phrase
	found := false

	for j := i; j < len(toks); j++ {
		tok := &toks[j]
		if tok.Kind.IsWhitespace() {
			// Whitespace joins as a single space; runs collapse.
			if k := key.String(); k == "" || strings.HasSuffix(k, " ") {
				continue
			}
			key.WriteByte(' ')
			continue
		}
		key.WriteString(strings.ToLower(tok.Text))

		k := strings.TrimSuffix(key.String(), " ")
		if exps := d.Get(k); exps != nil {
			best = Phrase{
				StartToken:   uint32(i),
				LengthTokens: uint32(j - i + 1),
				Value:        k,
				Expansions:   exps,
			}
			found = true
		}
		if !d.HasPrefix(k) {
			break
		}
	}
	return best, found
}
