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
	"io"

	"buf.build/go/postal/internal/bigend"
	"buf.build/go/postal/internal/perrors"
)

// Write serializes the trie, including its leading magic number.
func (t *Trie) Write(w io.Writer) error {
	if err := bigend.WriteU32(w, Magic); err != nil {
		return err
	}
	return t.WritePayload(w)
}

// WritePayload serializes the trie without the magic number, for embedding
// inside a larger model file.
func (t *Trie) WritePayload(w io.Writer) error {
	if err := bigend.WriteU32(w, t.alphaSize); err != nil {
		return err
	}
	for _, a := range t.alphabet {
		if err := bigend.WriteU32(w, a); err != nil {
			return err
		}
	}
	if err := bigend.WriteU32(w, t.numKeys); err != nil {
		return err
	}

	if err := bigend.WriteU64(w, uint64(len(t.base))); err != nil {
		return err
	}
	for i := range t.base {
		if err := bigend.WriteU32(w, uint32(t.base[i])); err != nil {
			return err
		}
		if err := bigend.WriteU32(w, uint32(t.check[i])); err != nil {
			return err
		}
	}

	if err := bigend.WriteU64(w, uint64(len(t.data))); err != nil {
		return err
	}
	for _, d := range t.data {
		if err := bigend.WriteU32(w, d.tailOffset); err != nil {
			return err
		}
		if err := bigend.WriteU32(w, d.payload); err != nil {
			return err
		}
	}

	if err := bigend.WriteU64(w, uint64(len(t.tail))); err != nil {
		return err
	}
	_, err := w.Write(t.tail)
	return err
}

// Read deserializes a trie whose stream begins with the magic number.
func Read(r io.Reader) (*Trie, error) {
	magic, err := bigend.ReadU32(r)
	if err != nil {
		return nil, err
	}
	if magic != Magic {
		return nil, &perrors.BadSignatureError{Want: Magic, Got: magic}
	}
	return ReadPayload(r)
}

// ReadPayload deserializes a trie with no leading magic number.
func ReadPayload(r io.Reader) (*Trie, error) {
	t := new(Trie)

	alphaSize, err := bigend.ReadU32(r)
	if err != nil {
		return nil, err
	}
	t.alphaSize = alphaSize
	for i := range t.alphabet {
		a, err := bigend.ReadU32(r)
		if err != nil {
			return nil, err
		}
		if a == terminalCode || a > alphaSize {
			return nil, perrors.Corruptf("trie alphabet code %d for byte %#x out of range", a, i)
		}
		t.alphabet[i] = a
	}

	if t.numKeys, err = bigend.ReadU32(r); err != nil {
		return nil, err
	}

	numNodes, err := bigend.ReadU64(r)
	if err != nil {
		return nil, err
	}
	if numNodes <= rootState {
		return nil, perrors.Corruptf("trie node array has %d entries, need at least %d", numNodes, rootState+1)
	}
	t.base = make([]int32, numNodes)
	t.check = make([]int32, numNodes)
	for i := range t.base {
		b, err := bigend.ReadU32(r)
		if err != nil {
			return nil, err
		}
		c, err := bigend.ReadU32(r)
		if err != nil {
			return nil, err
		}
		t.base[i], t.check[i] = int32(b), int32(c)
	}

	numData, err := bigend.ReadU64(r)
	if err != nil {
		return nil, err
	}
	t.data = make([]dataNode, numData)
	for i := range t.data {
		if t.data[i].tailOffset, err = bigend.ReadU32(r); err != nil {
			return nil, err
		}
		if t.data[i].payload, err = bigend.ReadU32(r); err != nil {
			return nil, err
		}
	}

	tailLen, err := bigend.ReadU64(r)
	if err != nil {
		return nil, err
	}
	if t.tail, err = bigend.ReadBytes(r, int(tailLen)); err != nil {
		return nil, err
	}
	for _, d := range t.data {
		if uint64(d.tailOffset) >= tailLen {
			return nil, perrors.Corruptf("trie tail offset %d out of range %d", d.tailOffset, tailLen)
		}
	}
	return t, nil
}
