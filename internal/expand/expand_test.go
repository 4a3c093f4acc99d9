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

package expand_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"buf.build/go/postal/internal/dictionary"
	"buf.build/go/postal/internal/expand"
	"buf.build/go/postal/internal/normalize"
	"buf.build/go/postal/internal/tokenizer"
)

func streetDict() *dictionary.Dictionary {
	road := dictionary.ComponentRoad
	return dictionary.New(map[string][]dictionary.Expansion{
		"st": {{Canonical: "street", Components: road, Dictionary: dictionary.TypeStreetType}},
		"w":  {{Canonical: "west", Components: road, Dictionary: dictionary.TypeDirectional}},
		"n":  {{Canonical: "north", Components: road, Dictionary: dictionary.TypeDirectional}},
	})
}

func expandAll(t *testing.T, input string, d *dictionary.Dictionary, opts expand.Options) []string {
	t.Helper()
	ts := tokenizer.Tokenize(input)
	return expand.Expand(ts, dictionary.Search(ts, d), opts)
}

func TestExpandDefaults(t *testing.T) {
	t.Parallel()

	got := expandAll(t, "30 W 26th St", streetDict(), expand.Options{
		TokenOpts: normalize.DefaultTokenOptions,
	})
	require.Contains(t, got, "30 west 26th street")
	require.Contains(t, got, "30 w 26th st")
	require.LessOrEqual(t, len(got), expand.MaxVariants)
	requireNoDuplicates(t, got)
	for _, v := range got {
		require.Equal(t, v, lower(v))
	}
}

func TestExpandAllAlternatives(t *testing.T) {
	t.Parallel()

	got := expandAll(t, "N Main St", streetDict(), expand.Options{
		TokenOpts: normalize.DefaultTokenOptions,
	})
	require.ElementsMatch(t, []string{
		"n main st", "n main street", "north main st", "north main street",
	}, got)
	// Insertion order: the all-surface variant first.
	require.Equal(t, "n main st", got[0])
}

func TestExpandComponentFilter(t *testing.T) {
	t.Parallel()

	got := expandAll(t, "N Main St", streetDict(), expand.Options{
		Components: dictionary.ComponentPostcode, // disjoint from every entry
	})
	require.Equal(t, []string{"n main st"}, got)
}

func TestExpandEmpty(t *testing.T) {
	t.Parallel()

	require.Empty(t, expandAll(t, "", streetDict(), expand.Options{}))
	require.Empty(t, expandAll(t, "   ", streetDict(), expand.Options{}))
}

func TestExpandPunctuationSeparates(t *testing.T) {
	t.Parallel()

	got := expandAll(t, "Brooklyn, NY", streetDict(), expand.Options{})
	require.Equal(t, []string{"brooklyn ny"}, got)
}

func TestExpandCap(t *testing.T) {
	t.Parallel()

	// 27 two-way phrases give 2^27 potential variants; the cap holds the
	// output at MaxVariants distinct entries.
	entries := make(map[string][]dictionary.Expansion)
	var input string
	for i := range 27 {
		key := fmt.Sprintf("x%d", i)
		entries[key] = []dictionary.Expansion{{
			Canonical:  key + "long",
			Components: dictionary.ComponentRoad,
			Dictionary: dictionary.TypeSynonym,
		}}
		if i > 0 {
			input += " "
		}
		input += key
	}
	got := expandAll(t, input, dictionary.New(entries), expand.Options{})
	require.Len(t, got, expand.MaxVariants)
	requireNoDuplicates(t, got)
}

func TestExpandLanguageFilter(t *testing.T) {
	t.Parallel()

	d := dictionary.New(map[string][]dictionary.Expansion{
		"st": {
			{Canonical: "street", Language: "en", Components: dictionary.ComponentRoad},
			{Canonical: "sankt", Language: "de", Components: dictionary.ComponentRoad},
		},
	})
	got := expandAll(t, "st", d, expand.Options{Languages: []string{"de"}})
	require.ElementsMatch(t, []string{"st", "sankt"}, got)
}

func TestExpandRomanNumerals(t *testing.T) {
	t.Parallel()

	got := expandAll(t, "Pier XIV", streetDict(), expand.Options{RomanNumerals: true})
	require.Contains(t, got, "pier xiv")
	require.Contains(t, got, "pier 14")

	// Single letters stay untouched, "mi" is a numeral shape.
	got = expandAll(t, "I st", streetDict(), expand.Options{RomanNumerals: true})
	require.NotContains(t, got, "1 st")
}

func requireNoDuplicates(t *testing.T, got []string) {
	t.Helper()
	seen := make(map[string]bool, len(got))
	for _, v := range got {
		require.False(t, seen[v], "duplicate %q", v)
		seen[v] = true
	}
}

func lower(s string) string {
	out := []rune(s)
	for i, r := range out {
		if r >= 'A' && r <= 'Z' {
			out[i] = r + 32
		}
	}
	return string(out)
}
