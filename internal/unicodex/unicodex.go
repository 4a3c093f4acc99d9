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

// Package unicodex collects the Unicode transforms the normalizers and the
// feature extractor depend on: canonical normalization, accent stripping,
// grapheme-aware reversal, and script detection.
package unicodex

import (
	"strings"
	"unicode"

	"github.com/rivo/uniseg"
	"golang.org/x/text/unicode/norm"
)

// NFC returns the canonical composed form of s.
func NFC(s string) string { return norm.NFC.String(s) }

// NFD returns the canonical decomposed form of s.
func NFD(s string) string { return norm.NFD.String(s) }

// StripAccents removes combining marks: decompose, drop every codepoint in
// the non-spacing-mark category, recompose.
func StripAccents(s string) string {
	decomposed := norm.NFD.String(s)
	var sb strings.Builder
	sb.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		sb.WriteRune(r)
	}
	return norm.NFC.String(sb.String())
}

// ReverseGraphemes reverses s by extended grapheme cluster, so that combining
// sequences and emoji survive intact.
func ReverseGraphemes(s string) string {
	if len(s) < 2 {
		return s
	}
	var clusters []string
	state := -1
	for len(s) > 0 {
		var cluster string
		cluster, s, _, state = uniseg.FirstGraphemeClusterInString(s, state)
		clusters = append(clusters, cluster)
	}
	var sb strings.Builder
	for i := len(clusters) - 1; i >= 0; i-- {
		sb.WriteString(clusters[i])
	}
	return sb.String()
}
