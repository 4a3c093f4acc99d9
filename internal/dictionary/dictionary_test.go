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

package dictionary_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"buf.build/go/postal/internal/dictionary"
	"buf.build/go/postal/internal/tokenizer"
)

func expansions(canonical string, typ dictionary.Type) []dictionary.Expansion {
	return []dictionary.Expansion{{
		Canonical:  canonical,
		Language:   "en",
		Components: dictionary.ComponentRoad,
		Dictionary: typ,
	}}
}

func testDict() *dictionary.Dictionary {
	return dictionary.New(map[string][]dictionary.Expansion{
		"st":             expansions("street", dictionary.TypeStreetType),
		"ave":            expansions("avenue", dictionary.TypeStreetType),
		"n":              expansions("north", dictionary.TypeDirectional),
		"w":              expansions("west", dictionary.TypeDirectional),
		"st nicholas":    expansions("saint nicholas", dictionary.TypeSynonym),
		"new york":       expansions("new york", dictionary.TypeToponym),
		"new york city":  expansions("new york", dictionary.TypeToponym),
	})
}

func TestNormalizeKey(t *testing.T) {
	t.Parallel()

	require.Equal(t, "main st", dictionary.NormalizeKey("  Main   ST "))
	require.Equal(t, "", dictionary.NormalizeKey("   "))
}

func TestGetAndPrefix(t *testing.T) {
	t.Parallel()

	d := testDict()
	require.Len(t, d.Get("st"), 1)
	require.Nil(t, d.Get("street"))
	require.True(t, d.HasPrefix("st"))          // "st nicholas" extends it
	require.True(t, d.HasPrefix("new york"))    // "new york city" extends it
	require.False(t, d.HasPrefix("new york city"))
	require.False(t, d.HasPrefix("zz"))
}

func TestSearchSingleToken(t *testing.T) {
	t.Parallel()

	ts := tokenizer.Tokenize("781 Franklin Ave")
	phrases := dictionary.Search(ts, testDict())
	require.Len(t, phrases, 1)
	require.Equal(t, "ave", phrases[0].Value)
	require.Equal(t, uint32(4), phrases[0].StartToken)
	require.Equal(t, uint32(1), phrases[0].LengthTokens)
	require.Equal(t, "avenue", phrases[0].Expansions[0].Canonical)
}

func TestSearchLongestWins(t *testing.T) {
	t.Parallel()

	// "st nicholas" must win over the shorter "st" at the same start.
	ts := tokenizer.Tokenize("St Nicholas Ave")
	phrases := dictionary.Search(ts, testDict())
	require.Len(t, phrases, 2)
	require.Equal(t, "st nicholas", phrases[0].Value)
	require.Equal(t, uint32(0), phrases[0].StartToken)
	require.Equal(t, uint32(3), phrases[0].LengthTokens) // st, space, nicholas
	require.Equal(t, "ave", phrases[1].Value)
}

func TestSearchMultiToken(t *testing.T) {
	t.Parallel()

	ts := tokenizer.Tokenize("new york city hall")
	phrases := dictionary.Search(ts, testDict())
	require.Len(t, phrases, 1)
	require.Equal(t, "new york city", phrases[0].Value)
	require.Equal(t, uint32(0), phrases[0].StartToken)
	require.Equal(t, uint32(5), phrases[0].LengthTokens)
}

func TestSearchEmptyDictionary(t *testing.T) {
	t.Parallel()

	ts := tokenizer.Tokenize("anything at all")
	require.Empty(t, dictionary.Search(ts, dictionary.New(nil)))
	require.Empty(t, dictionary.Search(ts, nil))
}

func TestSearchCaseInsensitive(t *testing.T) {
	t.Parallel()

	ts := tokenizer.Tokenize("N MAIN ST")
	phrases := dictionary.Search(ts, testDict())
	require.Len(t, phrases, 2)
	require.Equal(t, "n", phrases[0].Value)
	require.Equal(t, "st", phrases[1].Value)
}

func TestParseText(t *testing.T) {
	t.Parallel()

	src := strings.Join([]string{
		"# street types",
		"",
		"street|st|str",
		"avenue|ave||av|", // doubled and trailing separators collapse
		"boulevard|blvd",
	}, "\n")

	entries, err := dictionary.ParseText(strings.NewReader(src), "en", dictionary.ComponentRoad, dictionary.TypeStreetType)
	require.NoError(t, err)

	d := dictionary.New(entries)
	for _, key := range []string{"street", "st", "str"} {
		exps := d.Get(key)
		require.Len(t, exps, 1, "key %q", key)
		require.Equal(t, "street", exps[0].Canonical)
	}
	require.Equal(t, "avenue", d.Get("av")[0].Canonical)
	require.Equal(t, "boulevard", d.Get("blvd")[0].Canonical)
	require.Nil(t, d.Get("# street types"))
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	d := testDict()
	buf := new(bytes.Buffer)
	require.NoError(t, d.Write(buf))

	loaded, err := dictionary.Read(buf)
	require.NoError(t, err)
	require.Equal(t, d.Len(), loaded.Len())
	require.Equal(t, d.Get("st"), loaded.Get("st"))
	require.Equal(t, d.Get("new york city"), loaded.Get("new york city"))
}

func TestReadTruncated(t *testing.T) {
	t.Parallel()

	buf := new(bytes.Buffer)
	require.NoError(t, testDict().Write(buf))
	whole := buf.Bytes()
	for _, n := range []int{0, 2, 6, len(whole) / 2} {
		_, err := dictionary.Read(bytes.NewReader(whole[:n]))
		require.Error(t, err, "prefix of %d bytes", n)
	}
}
