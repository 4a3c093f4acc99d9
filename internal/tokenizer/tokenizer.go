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

// Package tokenizer turns raw address text into a typed token stream.
//
// Token offsets and lengths count UTF-16 code units of the original input,
// which is what the upstream data pipeline indexes by. Tokenization never
// fails: bytes that are not valid UTF-8 come back as single InvalidChar
// tokens.
package tokenizer

import (
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"
)

// Token is a classified slice of the input.
type Token struct {
	// Text is the exact input substring the token covers.
	Text string
	Kind Kind
	// Offset and Length are in UTF-16 code units of the original input.
	Offset uint32
	Length uint32
}

// TokenizedString owns an input string and its token sequence. It is
// immutable after construction.
type TokenizedString struct {
	input  string
	tokens []Token
}

// Input returns the original string.
func (ts *TokenizedString) Input() string { return ts.input }

// Tokens returns the token sequence. Callers must not mutate it.
func (ts *TokenizedString) Tokens() []Token { return ts.tokens }

// Len returns the number of tokens.
func (ts *TokenizedString) Len() int { return len(ts.tokens) }

// Concat joins every token's text back together. For any input this
// reconstructs the input exactly.
func (ts *TokenizedString) Concat() string {
	var sb strings.Builder
	sb.Grow(len(ts.input))
	for i := range ts.tokens {
		sb.WriteString(ts.tokens[i].Text)
	}
	return sb.String()
}

// Tokenize scans s into a token stream.
//
// The recognizers run in a fixed priority order at each position: email,
// URL, newline, horizontal whitespace, ideograph, hangul syllable, acronym,
// digit run, letter run, punctuation, then a single catch-all codepoint.
// Within a recognizer the longest match wins.
func Tokenize(s string) *TokenizedString {
	ts := &TokenizedString{input: s}

	pos := 0     // byte position
	u16pos := 0  // UTF-16 position
	for pos < len(s) {
		text, kind := next(s[pos:])
		u16len := utf16Len(text)
		ts.tokens = append(ts.tokens, Token{
			Text:   text,
			Kind:   kind,
			Offset: uint32(u16pos),
			Length: uint32(u16len),
		})
		pos += len(text)
		u16pos += u16len
	}
	return ts
}

// next matches a single token at the start of s, which is non-empty.
func next(s string) (text string, kind Kind) {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError && size == 1 {
		return s[:1], KindInvalidChar
	}

	if n := matchEmail(s); n > 0 {
		return s[:n], KindEmail
	}
	if n := matchURL(s); n > 0 {
		return s[:n], KindURL
	}
	if r == '\n' {
		return s[:1], KindNewline
	}
	if isHorizontalSpace(r) {
		n := size
		for n < len(s) {
			r2, sz := utf8.DecodeRuneInString(s[n:])
			if !isHorizontalSpace(r2) {
				break
			}
			n += sz
		}
		return s[:n], KindWhitespace
	}
	if isIdeograph(r) {
		return s[:size], KindIdeographicChar
	}
	if r >= 0xAC00 && r <= 0xD7AF {
		return s[:size], KindHangulSyllable
	}
	if n := matchAcronym(s); n > 0 {
		return s[:n], KindAcronym
	}
	if unicode.IsDigit(r) {
		n := size
		for n < len(s) {
			r2, sz := utf8.DecodeRuneInString(s[n:])
			if !unicode.IsDigit(r2) {
				break
			}
			n += sz
		}
		return s[:n], KindNumeric
	}
	if unicode.IsLetter(r) {
		n := size
		for n < len(s) {
			r2, sz := utf8.DecodeRuneInString(s[n:])
			if !unicode.IsLetter(r2) || isIdeograph(r2) || r2 >= 0xAC00 && r2 <= 0xD7AF {
				break
			}
			n += sz
		}
		return s[:n], KindWord
	}
	if k := punctKind(r); k != KindOther {
		return s[:size], k
	}
	return s[:size], KindOther
}

func isHorizontalSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r'
}

// isIdeograph reports whether r is a CJK unified ideograph, including the
// extension blocks.
func isIdeograph(r rune) bool {
	switch {
	case r >= 0x4E00 && r <= 0x9FFF: // CJK Unified Ideographs
		return true
	case r >= 0x3400 && r <= 0x4DBF: // Extension A
		return true
	case r >= 0x20000 && r <= 0x2A6DF: // Extension B
		return true
	case r >= 0x2A700 && r <= 0x2EBEF: // Extensions C-F
		return true
	case r >= 0x30000 && r <= 0x3134F: // Extension G
		return true
	case r >= 0xF900 && r <= 0xFAFF: // CJK Compatibility Ideographs
		return true
	}
	return false
}

// matchAcronym matches letter+ ('.' letter+)+ '.'?, e.g. "U.S.A." or "P.O".
// Returns the byte length of the match, or 0.
func matchAcronym(s string) int {
	n := letterRun(s)
	if n == 0 {
		return 0
	}
	groups := 0
	for {
		if n >= len(s) || s[n] != '.' {
			break
		}
		m := letterRun(s[n+1:])
		if m == 0 {
			// A trailing period with no letters after it closes the
			// acronym, but only if at least one inner group matched.
			if groups > 0 {
				n++
			}
			break
		}
		n += 1 + m
		groups++
	}
	if groups == 0 {
		return 0
	}
	return n
}

// letterRun returns the byte length of the maximal single-script letter run
// at the start of s, excluding ideographs and hangul.
func letterRun(s string) int {
	n := 0
	for n < len(s) {
		r, sz := utf8.DecodeRuneInString(s[n:])
		if !unicode.IsLetter(r) || isIdeograph(r) || r >= 0xAC00 && r <= 0xD7AF {
			break
		}
		n += sz
	}
	return n
}

// matchEmail matches a local@domain.tld address. Returns the byte length of
// the match, or 0.
func matchEmail(s string) int {
	local := 0
	for local < len(s) && isEmailLocal(s[local]) {
		local++
	}
	if local == 0 || local >= len(s) || s[local] != '@' {
		return 0
	}
	n := local + 1
	labels := 0
	for {
		m := domainLabel(s[n:])
		if m == 0 {
			return 0
		}
		n += m
		labels++
		if n < len(s) && s[n] == '.' && domainLabel(s[n+1:]) > 0 {
			n++
			continue
		}
		break
	}
	if labels < 2 {
		return 0
	}
	return n
}

func isEmailLocal(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9':
		return true
	case b == '.' || b == '_' || b == '%' || b == '+' || b == '-':
		return true
	}
	return false
}

func domainLabel(s string) int {
	n := 0
	for n < len(s) {
		b := s[n]
		if b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9' || b == '-' {
			n++
			continue
		}
		break
	}
	return n
}

// matchURL matches http:// or https:// followed by at least one non-space
// character. Returns the byte length of the match, or 0.
func matchURL(s string) int {
	rest := s
	if strings.HasPrefix(rest, "https://") {
		rest = rest[len("https://"):]
	} else if strings.HasPrefix(rest, "http://") {
		rest = rest[len("http://"):]
	} else {
		return 0
	}
	n := 0
	for n < len(rest) {
		r, sz := utf8.DecodeRuneInString(rest[n:])
		if unicode.IsSpace(r) || r == utf8.RuneError && sz == 1 {
			break
		}
		n += sz
	}
	if n == 0 {
		return 0
	}
	return len(s) - len(rest) + n
}

// utf16Len returns the length of s in UTF-16 code units. Invalid bytes
// count one unit each, the same way they occupy one token each.
func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}
