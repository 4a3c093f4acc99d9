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

package normalize

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// TokenOptions selects token-level transforms.
type TokenOptions uint8

const (
	// DeleteHyphens removes hyphens and dashes from the token.
	DeleteHyphens TokenOptions = 1 << iota
	// DeleteFinalPeriod removes one trailing period.
	DeleteFinalPeriod
	// DeleteAcronymPeriods removes the periods of a dotted acronym.
	DeleteAcronymPeriods
	// DeletePossessive removes an English possessive ('s, or the apostrophe
	// of a trailing s').
	DeletePossessive
	// DeleteApostrophe removes all apostrophes.
	DeleteApostrophe
	// SplitAlphaNumeric inserts a space at every letter-digit boundary.
	SplitAlphaNumeric
	// ReplaceDigits replaces every digit with D.
	ReplaceDigits
)

// DefaultTokenOptions is the transform set expansion applies to literal
// tokens when the caller does not choose one.
const DefaultTokenOptions = DeleteFinalPeriod

var (
	hyphenDeleter     = strings.NewReplacer("-", "", "‐", "", "–", "", "—", "")
	apostropheDeleter = strings.NewReplacer("'", "", "’", "")
)

// Token applies the selected transforms in their fixed order: delete
// hyphens, delete possessive, delete apostrophes, delete acronym periods,
// delete trailing period, replace digits, split alpha from numeric.
func Token(s string, opts TokenOptions) string {
	if opts&DeleteHyphens != 0 {
		s = hyphenDeleter.Replace(s)
	}
	if opts&DeletePossessive != 0 {
		s = deletePossessive(s)
	}
	if opts&DeleteApostrophe != 0 {
		s = apostropheDeleter.Replace(s)
	}
	if opts&DeleteAcronymPeriods != 0 {
		s = deleteAcronymPeriods(s)
	}
	if opts&DeleteFinalPeriod != 0 {
		s = strings.TrimSuffix(s, ".")
	}
	if opts&ReplaceDigits != 0 {
		s = replaceDigits(s)
	}
	if opts&SplitAlphaNumeric != 0 {
		s = splitAlphaNumeric(s)
	}
	return s
}

// deletePossessive strips an English possessive marker.
func deletePossessive(s string) string {
	for _, suffix := range []string{"'s", "'S", "’s", "’S"} {
		if strings.HasSuffix(s, suffix) {
			return s[:len(s)-len(suffix)]
		}
	}
	for _, suffix := range []string{"s'", "S'", "s’", "S’"} {
		if strings.HasSuffix(s, suffix) {
			// Keep the s, drop the apostrophe.
			return s[:len(s)-len(suffix)+1]
		}
	}
	return s
}

// deleteAcronymPeriods removes periods from tokens shaped like dotted
// acronyms ("u.s.a." or "u.s.a"). Other tokens pass through unchanged.
func deleteAcronymPeriods(s string) string {
	if !isDottedAcronym(s) {
		return s
	}
	return strings.ReplaceAll(s, ".", "")
}

func isDottedAcronym(s string) bool {
	rest := s
	groups := 0
	for {
		n := 0
		for n < len(rest) {
			r, sz := utf8.DecodeRuneInString(rest[n:])
			if !unicode.IsLetter(r) {
				break
			}
			n += sz
		}
		if n == 0 {
			return false
		}
		rest = rest[n:]
		groups++
		if rest == "" {
			break
		}
		if rest[0] != '.' {
			return false
		}
		rest = rest[1:]
		if rest == "" {
			break
		}
	}
	return groups >= 2
}

func replaceDigits(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if unicode.IsDigit(r) {
			sb.WriteByte('D')
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// splitAlphaNumeric inserts a single space wherever a letter directly
// follows a digit or a digit directly follows a letter.
func splitAlphaNumeric(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 4)
	var prev rune
	for i, r := range s {
		if i > 0 {
			if unicode.IsLetter(prev) && unicode.IsDigit(r) ||
				unicode.IsDigit(prev) && unicode.IsLetter(r) {
				sb.WriteByte(' ')
			}
		}
		sb.WriteRune(r)
		prev = r
	}
	return sb.String()
}
