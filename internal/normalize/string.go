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

// Package normalize applies the option-selected string-level and
// token-level transforms. Both normalizers are pure functions over their
// flag sets. Neither is idempotent for every input: trimming runs before
// hyphen replacement, so "-a" becomes " a" and a second pass trims it, and
// DeleteFinalPeriod removes one trailing period a call, so "st.." becomes
// "st." and then "st".
package normalize

import (
	"strings"

	"buf.build/go/postal/internal/unicodex"
)

// StringOptions selects string-level transforms.
type StringOptions uint8

const (
	// Lowercase applies invariant lowercasing.
	Lowercase StringOptions = 1 << iota
	// Trim removes leading and trailing whitespace.
	Trim
	// StripAccents removes combining marks.
	StripAccents
	// Decompose converts to NFD. Wins over Compose when both are set.
	Decompose
	// Compose converts to NFC.
	Compose
	// ReplaceHyphens replaces hyphens and dashes with a space.
	ReplaceHyphens
)

// DefaultStringOptions is the transform set expansion applies when the
// caller does not choose one.
const DefaultStringOptions = Lowercase | Trim | Compose

var hyphenReplacer = strings.NewReplacer("-", " ", "‐", " ", "–", " ", "—", " ")

// String applies the selected transforms in their fixed order: trim,
// decompose or compose, strip accents, replace hyphens, lowercase.
func String(s string, opts StringOptions) string {
	if opts&Trim != 0 {
		s = strings.TrimSpace(s)
	}
	switch {
	case opts&Decompose != 0:
		s = unicodex.NFD(s)
	case opts&Compose != 0:
		s = unicodex.NFC(s)
	}
	if opts&StripAccents != 0 {
		s = unicodex.StripAccents(s)
	}
	if opts&ReplaceHyphens != 0 {
		s = hyphenReplacer.Replace(s)
	}
	if opts&Lowercase != 0 {
		s = strings.ToLower(s)
	}
	return s
}
