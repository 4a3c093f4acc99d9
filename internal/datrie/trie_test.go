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

package datrie_test

import (
	"bytes"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"buf.build/go/postal/internal/datrie"
	"buf.build/go/postal/internal/perrors"
)

func build(t *testing.T, keys map[string]uint32) *datrie.Trie {
	t.Helper()
	b := datrie.NewBuilder()
	for k, v := range keys {
		require.NoError(t, b.Insert(k, v))
	}
	trie, err := b.Build()
	require.NoError(t, err)
	return trie
}

func TestGet(t *testing.T) {
	t.Parallel()

	keys := map[string]uint32{
		"street":    1,
		"st":        2,
		"saint":     3,
		"avenue":    4,
		"ave":       5,
		"av":        6,
		"road":      7,
		"rd":        8,
		"boulevard": 9,
		"straße":    10,
		"улица":     11,
		"大通り":       12,
	}
	trie := build(t, keys)
	require.Equal(t, len(keys), trie.Len())

	for k, v := range keys {
		got, ok := trie.GetString(k)
		require.True(t, ok, "key %q", k)
		require.Equal(t, v, got, "key %q", k)
	}

	// Prefixes, superstrings, and unrelated keys all miss.
	for _, k := range []string{"", "s", "stre", "stree", "streets", "sain", "avenues", "x", "roa", "улиц", "大"} {
		_, ok := trie.GetString(k)
		require.False(t, ok, "key %q", k)
	}
}

func TestPrefixKeys(t *testing.T) {
	t.Parallel()

	// Keys where one is a strict prefix of another must both resolve.
	trie := build(t, map[string]uint32{
		"main":            100,
		"main st":         200,
		"main st bridge":  300,
		"m":               400,
	})
	for k, v := range map[string]uint32{
		"main": 100, "main st": 200, "main st bridge": 300, "m": 400,
	} {
		got, ok := trie.GetString(k)
		require.True(t, ok, "key %q", k)
		require.Equal(t, v, got)
	}
	_, ok := trie.GetString("main s")
	require.False(t, ok)
	_, ok = trie.GetString("main st b")
	require.False(t, ok)
}

func TestSignedPayload(t *testing.T) {
	t.Parallel()

	trie := build(t, map[string]uint32{"neg": 0xffffffff, "pos": 7})
	got, ok := trie.GetSigned([]byte("neg"))
	require.True(t, ok)
	require.Equal(t, int32(-1), got)

	got, ok = trie.GetSigned([]byte("pos"))
	require.True(t, ok)
	require.Equal(t, int32(7), got)
}

func TestPayloadWidth(t *testing.T) {
	t.Parallel()

	trie := build(t, map[string]uint32{"k": 1})
	v, ok, err := trie.Lookup([]byte("k"), 32)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint64(1), v)

	for _, width := range []uint{8, 16, 64} {
		_, _, err := trie.Lookup([]byte("k"), width)
		require.ErrorIs(t, err, datrie.ErrUnsupportedPayloadWidth)
	}
}

func TestBuilderRejects(t *testing.T) {
	t.Parallel()

	b := datrie.NewBuilder()
	require.Error(t, b.Insert("", 1))
	require.Error(t, b.Insert("a\x00b", 1))
}

func TestEmptyTrie(t *testing.T) {
	t.Parallel()

	trie, err := datrie.NewBuilder().Build()
	require.NoError(t, err)
	require.Zero(t, trie.Len())
	_, ok := trie.GetString("anything")
	require.False(t, ok)
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	trie := build(t, map[string]uint32{"one": 1, "two": 2, "three": 3})
	buf := new(bytes.Buffer)
	require.NoError(t, trie.Write(buf))

	loaded, err := datrie.Read(buf)
	require.NoError(t, err)
	require.Equal(t, 3, loaded.Len())
	for k, v := range map[string]uint32{"one": 1, "two": 2, "three": 3} {
		got, ok := loaded.GetString(k)
		require.True(t, ok)
		require.Equal(t, v, got)
	}
}

func TestReadBadSignature(t *testing.T) {
	t.Parallel()

	_, err := datrie.Read(bytes.NewReader([]byte{0xcf, 0xcf, 0xcf, 0xcf}))
	var sigErr *perrors.BadSignatureError
	require.ErrorAs(t, err, &sigErr)
	require.Equal(t, datrie.Magic, sigErr.Want)
	require.Equal(t, uint32(0xcfcfcfcf), sigErr.Got)
}

func TestReadTruncated(t *testing.T) {
	t.Parallel()

	trie := build(t, map[string]uint32{"abc": 1, "abd": 2})
	buf := new(bytes.Buffer)
	require.NoError(t, trie.Write(buf))

	whole := buf.Bytes()
	for _, n := range []int{0, 3, 4, 10, len(whole) - 1} {
		_, err := datrie.Read(bytes.NewReader(whole[:n]))
		require.Error(t, err, "prefix of %d bytes", n)
	}
}

// TestRandomKeys is the §8-style property test: every inserted key resolves
// to its payload; mutations of inserted keys miss.
func TestRandomKeys(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(7, 13))
	keys := make(map[string]uint32)
	for len(keys) < 500 {
		n := 1 + rng.IntN(12)
		key := make([]byte, n)
		for i := range key {
			key[i] = byte(1 + rng.IntN(255)) // NUL is not a legal key byte
		}
		keys[string(key)] = rng.Uint32()
	}

	trie := build(t, keys)

	// Round-trip through the serialized form as well, so both the built and
	// the loaded tries are checked.
	buf := new(bytes.Buffer)
	require.NoError(t, trie.Write(buf))
	loaded, err := datrie.Read(buf)
	require.NoError(t, err)

	for _, tr := range []*datrie.Trie{trie, loaded} {
		for k, v := range keys {
			got, ok := tr.GetString(k)
			require.True(t, ok, "key %x", k)
			require.Equal(t, v, got, "key %x", k)
		}
		for k := range keys {
			for _, variant := range []string{k[:len(k)-1], k + "x", k + "\x01"} {
				if _, inserted := keys[variant]; inserted || variant == "" {
					continue
				}
				_, ok := tr.GetString(variant)
				require.False(t, ok, "variant %x of key %x", variant, k)
			}
		}
	}
}
