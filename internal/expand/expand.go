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

// Package expand generates the canonical variants of an address: the
// cross product of every matched phrase's alternatives against the
// literal tokens between them.
package expand

import (
	"strings"

	"buf.build/go/postal/internal/dictionary"
	"buf.build/go/postal/internal/normalize"
	"buf.build/go/postal/internal/tokenizer"
)

// MaxVariants caps the number of variants a single expansion can produce.
const MaxVariants = 100

// Options configures an expansion pass.
type Options struct {
	// TokenOpts is applied to every literal slot.
	TokenOpts normalize.TokenOptions
	// Components filters phrase expansions: an expansion whose component
	// mask is disjoint from the filter is skipped. Zero means no filter.
	Components dictionary.ComponentMask
	// Languages filters phrase expansions by dictionary language. Empty
	// means no filter; entries with an empty language always pass.
	Languages []string
	// RomanNumerals adds the Arabic reading of literal tokens shaped like
	// Roman numerals as an extra alternative.
	RomanNumerals bool
}

func (o *Options) allowsLanguage(lang string) bool {
	if len(o.Languages) == 0 || lang == "" {
		return true
	}
	for _, l := range o.Languages {
		if l == lang {
			return true
		}
	}
	return false
}

// slot is one position of the variant product: either a literal with a
// single alternative, or a phrase with its surface form plus one
// alternative per distinct canonical expansion.
type slot struct {
	alternatives []string
}

// Expand produces the deduplicated variant list, in insertion order of
// first appearance, capped at [MaxVariants]. Output is always lowercase.
func Expand(ts *tokenizer.TokenizedString, phrases []dictionary.Phrase, opts Options) []string {
	slots := buildSlots(ts, phrases, opts)
	if len(slots) == 0 {
		return nil
	}
	return product(slots)
}

// buildSlots walks the token stream, grouping adjacent tokens into literal
// slots and phrase spans into alternative slots.
func buildSlots(ts *tokenizer.TokenizedString, phrases []dictionary.Phrase, opts Options) []slot {
	toks := ts.Tokens()
	var slots []slot

	phraseAt := make(map[int]*dictionary.Phrase, len(phrases))
	for i := range phrases {
		phraseAt[int(phrases[i].StartToken)] = &phrases[i]
	}

	var literal strings.Builder
	flush := func() {
		if literal.Len() == 0 {
			return
		}
		text := normalize.Token(strings.ToLower(literal.String()), opts.TokenOpts)
		literal.Reset()
		if text == "" {
			return
		}
		// The token normalizer may split one literal into several words.
		for _, word := range strings.Fields(text) {
			alts := []string{word}
			if opts.RomanNumerals {
				if arabic, ok := romanToArabic(word); ok {
					alts = append(alts, arabic)
				}
			}
			slots = append(slots, slot{alternatives: alts})
		}
	}

	for i := 0; i < len(toks); {
		if p := phraseAt[i]; p != nil {
			flush()
			slots = append(slots, phraseSlot(p, opts))
			i = int(p.End())
			continue
		}
		tok := &toks[i]
		switch {
		case tok.Kind.IsWhitespace():
			flush()
		case tok.Kind.IsPunct():
			// Hyphens, apostrophes, and periods stay attached to their
			// word so the token normalizer can see them. All other
			// punctuation separates.
			switch tok.Kind {
			case tokenizer.KindHyphen, tokenizer.KindApostrophe, tokenizer.KindPeriod:
				literal.WriteString(tok.Text)
			default:
				flush()
			}
		default:
			literal.WriteString(tok.Text)
		}
		i++
	}
	flush()
	return slots
}

// phraseSlot assembles the alternative list of a matched phrase: the
// surface form first, then each distinct canonical form that survives the
// component filter.
func phraseSlot(p *dictionary.Phrase, opts Options) slot {
	alts := make([]string, 0, len(p.Expansions)+1)
	seen := make(map[string]bool, len(p.Expansions)+1)

	add := func(s string) {
		if s != "" && !seen[s] {
			seen[s] = true
			alts = append(alts, s)
		}
	}

	add(p.Value)
	for _, exp := range p.Expansions {
		if opts.Components != 0 && !exp.Components.Intersects(opts.Components) {
			continue
		}
		if !opts.allowsLanguage(exp.Language) {
			continue
		}
		add(strings.ToLower(exp.Canonical))
	}
	return slot{alternatives: alts}
}

// romanValues maps numeral letters to values, lowercase because literal
// slots are lowercased before they reach the slot builder.
var romanValues = map[byte]int{
	'i': 1, 'v': 5, 'x': 10, 'l': 50, 'c': 100, 'd': 500, 'm': 1000,
}

// romanToArabic converts a Roman numeral to its decimal string. Single "i",
// "v", etc. are left alone to avoid rewriting ordinary words.
func romanToArabic(s string) (string, bool) {
	if len(s) < 2 {
		return "", false
	}
	total, prev := 0, 0
	for i := len(s) - 1; i >= 0; i-- {
		v, ok := romanValues[s[i]]
		if !ok {
			return "", false
		}
		if v < prev {
			total -= v
		} else {
			total += v
			prev = v
		}
	}
	if total <= 0 || total > 3999 {
		return "", false
	}
	return itoa(total), true
}

func itoa(n int) string {
	var buf [4]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

// product enumerates the cross product of slot alternatives, joining slots
// with single spaces. The first slot varies slowest, so the all-surface
// variant comes first. Deduplicated in insertion order, capped at
// MaxVariants distinct results.
func product(slots []slot) []string {
	total := 1
	for _, s := range slots {
		total *= len(s.alternatives)
		if total > MaxVariants {
			total = MaxVariants + 1
			break
		}
	}

	out := make([]string, 0, min(total, MaxVariants))
	seen := make(map[string]bool, min(total, MaxVariants))
	idx := make([]int, len(slots))
	var sb strings.Builder

	for {
		sb.Reset()
		for i, s := range slots {
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(s.alternatives[idx[i]])
		}
		v := sb.String()
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
			if len(out) >= MaxVariants {
				return out
			}
		}

		// Odometer increment, last slot fastest.
		i := len(slots) - 1
		for i >= 0 {
			idx[i]++
			if idx[i] < len(slots[i].alternatives) {
				break
			}
			idx[i] = 0
			i--
		}
		if i < 0 {
			return out
		}
	}
}
