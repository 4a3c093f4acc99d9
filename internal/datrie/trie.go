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

// Package datrie implements the double-array trie used for vocabulary and
// feature lookup.
//
// A trie is conceptually a map from byte strings to u32 payloads. Physically
// it is an alphabet permutation, a (base, check) node array, a data-node
// array, and a byte blob of NUL-terminated key suffixes (the tail). Keys that
// diverge from all other keys continue in the tail rather than as explicit
// nodes, which is what keeps the array compact.
//
// Tries are immutable once built or loaded, and safe for concurrent lookup.
package datrie

import (
	"errors"
)

// Magic is the file signature of a serialized trie.
const Magic uint32 = 0xABABABAB

// rootState is the fixed index of the root node.
const rootState = 2

// terminalCode is the reserved alphabet index that marks a key which is a
// strict prefix of another key. It is never assigned to an input byte.
const terminalCode = 1

// ErrUnsupportedPayloadWidth is returned by [Trie.Lookup] for any payload
// width other than 32 bits.
var ErrUnsupportedPayloadWidth = errors.New("postal: unsupported trie payload width")

// Trie is a read-only double-array trie.
type Trie struct {
	// alphabet maps each of the 256 possible input bytes to a dense index
	// >= 2, or 0 if the byte occurs in no key.
	alphabet [256]uint32
	// alphaSize is the number of assigned alphabet codes, including the
	// reserved terminal code.
	alphaSize uint32

	numKeys uint32

	base  []int32
	check []int32

	data []dataNode
	tail []byte
}

// dataNode is the terminal record for a single key.
type dataNode struct {
	tailOffset uint32
	payload    uint32
}

// Len returns the number of keys stored in the trie.
func (t *Trie) Len() int { return int(t.numKeys) }

// NumNodes returns the size of the node array.
func (t *Trie) NumNodes() int { return len(t.base) }

// TailLen returns the size of the tail blob in bytes.
func (t *Trie) TailLen() int { return len(t.tail) }

// Get looks up key and returns its payload.
func (t *Trie) Get(key []byte) (uint32, bool) {
	d, ok := t.find(key)
	if !ok {
		return 0, false
	}
	return t.data[d].payload, true
}

// GetString is [Trie.Get] for string keys, avoiding a copy.
func (t *Trie) GetString(key string) (uint32, bool) {
	d, ok := t.findString(key)
	if !ok {
		return 0, false
	}
	return t.data[d].payload, true
}

// GetSigned looks up key and reinterprets its payload as a signed 32-bit
// value, preserving the bit pattern.
func (t *Trie) GetSigned(key []byte) (int32, bool) {
	v, ok := t.Get(key)
	return int32(v), ok
}

// Lookup looks up key with an explicit payload width in bits. Only 32-bit
// payloads are supported; any other width reports
// [ErrUnsupportedPayloadWidth].
func (t *Trie) Lookup(key []byte, widthBits uint) (uint64, bool, error) {
	if widthBits != 32 {
		return 0, false, ErrUnsupportedPayloadWidth
	}
	v, ok := t.Get(key)
	return uint64(v), ok, nil
}

// find returns the data-node index for key.
func (t *Trie) find(key []byte) (uint32, bool) {
	cur := int32(rootState)
	for i, b := range key {
		if t.base[cur] < 0 {
			// Terminal mid-key: the rest of the key must match the tail.
			return t.matchTail(cur, key[i:])
		}
		a := t.alphabet[b]
		if a == 0 {
			return 0, false
		}
		next := t.base[cur] + int32(a)
		if next < 0 || int(next) >= len(t.check) || t.check[next] != cur {
			return 0, false
		}
		cur = next
	}
	return t.atEnd(cur)
}

// findString mirrors find for string keys.
func (t *Trie) findString(key string) (uint32, bool) {
	cur := int32(rootState)
	for i := 0; i < len(key); i++ {
		if t.base[cur] < 0 {
			return t.matchTailString(cur, key[i:])
		}
		a := t.alphabet[key[i]]
		if a == 0 {
			return 0, false
		}
		next := t.base[cur] + int32(a)
		if next < 0 || int(next) >= len(t.check) || t.check[next] != cur {
			return 0, false
		}
		cur = next
	}
	return t.atEnd(cur)
}

// atEnd resolves the state reached after the whole key has been consumed.
func (t *Trie) atEnd(cur int32) (uint32, bool) {
	if t.base[cur] < 0 {
		return t.matchTail(cur, nil)
	}
	// The key may be a strict prefix of another key, in which case its own
	// terminal hangs off the reserved terminal code.
	next := t.base[cur] + terminalCode
	if next < 0 || int(next) >= len(t.check) || t.check[next] != cur {
		return 0, false
	}
	if t.base[next] >= 0 {
		return 0, false
	}
	return t.matchTail(next, nil)
}

// matchTail compares the unconsumed suffix against the NUL-terminated tail
// entry of the terminal state cur.
func (t *Trie) matchTail(cur int32, suffix []byte) (uint32, bool) {
	d := -t.base[cur] - 1
	if int(d) >= len(t.data) {
		return 0, false
	}
	off := int(t.data[d].tailOffset)
	for _, b := range suffix {
		if off >= len(t.tail) || t.tail[off] != b || b == 0 {
			return 0, false
		}
		off++
	}
	if off >= len(t.tail) || t.tail[off] != 0 {
		return 0, false
	}
	return uint32(d), true
}

func (t *Trie) matchTailString(cur int32, suffix string) (uint32, bool) {
	d := -t.base[cur] - 1
	if int(d) >= len(t.data) {
		return 0, false
	}
	off := int(t.data[d].tailOffset)
	for i := 0; i < len(suffix); i++ {
		b := suffix[i]
		if off >= len(t.tail) || t.tail[off] != b || b == 0 {
			return 0, false
		}
		off++
	}
	if off >= len(t.tail) || t.tail[off] != 0 {
		return 0, false
	}
	return uint32(d), true
}
