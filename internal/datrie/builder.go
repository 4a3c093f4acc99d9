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

package datrie

import (
	"errors"
	"fmt"
	"sort"

	"buf.build/go/postal/internal/debug"
)

// Builder accumulates keys and compiles them into a [Trie].
//
// Inserting the same key twice keeps the last payload. Keys must be
// non-empty and must not contain NUL, which the tail blob reserves as its
// terminator.
type Builder struct {
	keys map[string]uint32
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{keys: make(map[string]uint32)}
}

// Insert adds a key with its payload.
func (b *Builder) Insert(key string, payload uint32) error {
	if len(key) == 0 {
		return errors.New("postal: cannot insert empty trie key")
	}
	for i := 0; i < len(key); i++ {
		if key[i] == 0 {
			return fmt.Errorf("postal: trie key %q contains NUL", key)
		}
	}
	b.keys[key] = payload
	return nil
}

// Len returns the number of distinct keys inserted so far.
func (b *Builder) Len() int { return len(b.keys) }

// buildNode is a node of the intermediate in-memory trie.
type buildNode struct {
	kids    map[byte]*buildNode
	term    bool
	payload uint32
	// ends is the number of key terminals in this subtree, including this
	// node's own.
	ends int
}

func (n *buildNode) child(b byte) *buildNode {
	c := n.kids[b]
	if c == nil {
		if n.kids == nil {
			n.kids = make(map[byte]*buildNode)
		}
		c = &buildNode{}
		n.kids[b] = c
	}
	return c
}

func (n *buildNode) countEnds() int {
	n.ends = 0
	if n.term {
		n.ends = 1
	}
	for _, c := range n.kids {
		n.ends += c.countEnds()
	}
	return n.ends
}

func (n *buildNode) sortedBytes() []byte {
	bs := make([]byte, 0, len(n.kids))
	for b := range n.kids {
		bs = append(bs, b)
	}
	sort.Slice(bs, func(i, j int) bool { return bs[i] < bs[j] })
	return bs
}

// Build compiles the inserted keys into an immutable trie.
func (b *Builder) Build() (*Trie, error) {
	t := &Trie{numKeys: uint32(len(b.keys))}

	// Assign alphabet codes in byte order. Code 1 is reserved for the
	// terminal marker, so input bytes start at 2.
	var used [256]bool
	for key := range b.keys {
		for i := 0; i < len(key); i++ {
			used[key[i]] = true
		}
	}
	code := uint32(terminalCode)
	for bv := 0; bv < 256; bv++ {
		if used[bv] {
			code++
			t.alphabet[bv] = code
		}
	}
	t.alphaSize = code

	// Build the intermediate trie.
	root := &buildNode{}
	for key, payload := range b.keys {
		n := root
		for i := 0; i < len(key); i++ {
			n = n.child(key[i])
		}
		n.term = true
		n.payload = payload
	}
	root.countEnds()

	// The first three slots are reserved: 0 and 1 are never used, 2 is the
	// root. Free slots carry check == -1.
	alloc := &allocator{trie: t}
	alloc.grow(rootState + 1)
	t.check[0], t.check[1], t.check[rootState] = 0, 0, rootState

	if len(b.keys) > 0 {
		if err := alloc.place(rootState, root); err != nil {
			return nil, err
		}
	} else {
		t.base[rootState] = 1
	}
	return t, nil
}

// allocator assigns double-array slots with a first-fit scan.
type allocator struct {
	trie *Trie
	// firstFree is a lower bound on the first free slot, advanced lazily.
	firstFree int32
}

func (a *allocator) grow(n int) {
	t := a.trie
	for len(t.base) < n {
		t.base = append(t.base, 0)
		t.check = append(t.check, -1)
	}
}

func (a *allocator) free(slot int32) bool {
	if slot <= rootState {
		return false
	}
	a.grow(int(slot) + 1)
	return a.trie.check[slot] == -1
}

// findBase returns a base value such that base+code is free for every code.
func (a *allocator) findBase(codes []uint32) int32 {
	minCode := int32(codes[0])
	base := a.firstFree - minCode
	if base < 1 {
		base = 1
	}
	for {
		ok := true
		for _, c := range codes {
			if !a.free(base + int32(c)) {
				ok = false
				break
			}
		}
		if ok {
			return base
		}
		base++
	}
}

// place assigns slots for node n, which lives at index idx, and recurses.
func (a *allocator) place(idx int32, n *buildNode) error {
	t := a.trie

	bytes := n.sortedBytes()
	codes := make([]uint32, 0, len(bytes)+1)
	if n.term {
		// A key ending at an internal node hangs its terminal record off
		// the reserved code.
		codes = append(codes, terminalCode)
	}
	for _, bv := range bytes {
		codes = append(codes, t.alphabet[bv])
	}
	if len(codes) == 0 {
		return fmt.Errorf("postal: internal trie node %d has no outgoing edges", idx)
	}

	base := a.findBase(codes)
	t.base[idx] = base
	for _, c := range codes {
		slot := base + int32(c)
		t.check[slot] = idx
	}
	for a.firstFree < int32(len(t.check)) && t.check[a.firstFree] != -1 {
		a.firstFree++
	}

	if n.term {
		a.emitData(base+terminalCode, nil, n.payload)
	}
	for _, bv := range bytes {
		child := n.kids[bv]
		slot := base + int32(t.alphabet[bv])
		if child.ends == 1 {
			// A single key remains below this edge; the rest of it moves
			// into the tail.
			suffix, payload := collapse(child)
			a.emitData(slot, suffix, payload)
			continue
		}
		if err := a.place(slot, child); err != nil {
			return err
		}
	}
	return nil
}

// emitData turns the slot into a terminal state pointing at a fresh data
// node whose tail entry is suffix.
func (a *allocator) emitData(slot int32, suffix []byte, payload uint32) {
	t := a.trie
	debug.Assert(t.base[slot] == 0, "trie slot %d already assigned", slot)
	d := uint32(len(t.data))
	t.base[slot] = -int32(d) - 1
	t.data = append(t.data, dataNode{
		tailOffset: uint32(len(t.tail)),
		payload:    payload,
	})
	t.tail = append(t.tail, suffix...)
	t.tail = append(t.tail, 0)
}

// collapse walks the single-key chain below n and returns the remaining
// suffix bytes and the key's payload.
func collapse(n *buildNode) ([]byte, uint32) {
	var suffix []byte
	for !n.term {
		bs := n.sortedBytes()
		suffix = append(suffix, bs[0])
		n = n.kids[bs[0]]
	}
	return suffix, n.payload
}
