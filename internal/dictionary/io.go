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
	"io"
	"sort"

	"buf.build/go/postal/internal/bigend"
	"buf.build/go/postal/internal/perrors"
)

// Write serializes the dictionary. Keys are written in sorted order so the
// encoding is deterministic.
func (d *Dictionary) Write(w io.Writer) error {
	if err := bigend.WriteU32(w, uint32(len(d.entries))); err != nil {
		return err
	}
	keys := make([]string, 0, len(d.entries))
	for key := range d.entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if err := bigend.WriteString(w, key); err != nil {
			return err
		}
		exps := d.entries[key]
		if err := bigend.WriteU32(w, uint32(len(exps))); err != nil {
			return err
		}
		for _, exp := range exps {
			if err := bigend.WriteString(w, exp.Canonical); err != nil {
				return err
			}
			if err := bigend.WriteString(w, exp.Language); err != nil {
				return err
			}
			if err := bigend.WriteU32(w, uint32(exp.Components)); err != nil {
				return err
			}
			if err := bigend.WriteU8(w, uint8(exp.Dictionary)); err != nil {
				return err
			}
			sep := uint8(0)
			if exp.Separable {
				sep = 1
			}
			if err := bigend.WriteU8(w, sep); err != nil {
				return err
			}
		}
	}
	return nil
}

// Read deserializes a dictionary.
func Read(r io.Reader) (*Dictionary, error) {
	count, err := bigend.ReadU32(r)
	if err != nil {
		return nil, err
	}
	entries := make(map[string][]Expansion, count)
	for range count {
		key, err := bigend.ReadString(r)
		if err != nil {
			return nil, err
		}
		numExps, err := bigend.ReadU32(r)
		if err != nil {
			return nil, err
		}
		if numExps == 0 {
			return nil, perrors.Corruptf("dictionary key %q has no expansions", key)
		}
		exps := make([]Expansion, numExps)
		for i := range exps {
			if exps[i].Canonical, err = bigend.ReadString(r); err != nil {
				return nil, err
			}
			if exps[i].Language, err = bigend.ReadString(r); err != nil {
				return nil, err
			}
			mask, err := bigend.ReadU32(r)
			if err != nil {
				return nil, err
			}
			exps[i].Components = ComponentMask(mask)
			typ, err := bigend.ReadU8(r)
			if err != nil {
				return nil, err
			}
			if Type(typ) >= numTypes {
				return nil, perrors.Corruptf("dictionary key %q has unknown type %d", key, typ)
			}
			exps[i].Dictionary = Type(typ)
			sep, err := bigend.ReadU8(r)
			if err != nil {
				return nil, err
			}
			exps[i].Separable = sep != 0
		}
		entries[key] = exps
	}
	return New(entries), nil
}
