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
	"bufio"
	"io"
	"strings"
)

// ParseText reads a dictionary text file: one phrase group per line, fields
// separated by |, where the first field is the canonical form and every
// following field is a surface phrase that expands to it. Lines starting
// with # and blank lines are skipped; empty fields from trailing or
// doubled separators collapse away.
//
// Every surface phrase maps to the canonical form, and the canonical form
// maps to itself, so that expansion can normalize either direction. The
// given language, components, and dictionary type apply to the whole file.
func ParseText(r io.Reader, lang string, components ComponentMask, typ Type) (map[string][]Expansion, error) {
	entries := make(map[string][]Expansion)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		var fields []string
		for _, f := range strings.Split(line, "|") {
			f = NormalizeKey(f)
			if f != "" {
				fields = append(fields, f)
			}
		}
		if len(fields) == 0 {
			continue
		}
		canonical := fields[0]
		exp := Expansion{
			Canonical:  canonical,
			Language:   lang,
			Components: components,
			Dictionary: typ,
		}
		for _, surface := range fields {
			entries[surface] = appendExpansion(entries[surface], exp)
		}
	}
	return entries, scanner.Err()
}

// appendExpansion adds exp unless an identical entry is already present.
func appendExpansion(exps []Expansion, exp Expansion) []Expansion {
	for _, e := range exps {
		if e == exp {
			return exps
		}
	}
	return append(exps, exp)
}
