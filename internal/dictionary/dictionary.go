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

// Package dictionary holds the address phrase dictionary: the mapping from
// normalized surface phrases to their canonical expansions, and the
// longest-match searcher that finds dictionary phrases in a token stream.
//
// A dictionary is immutable after load and safe for concurrent reads.
package dictionary

import (
	"sort"
	"strings"
)

// ComponentMask is a bitset over the address components an expansion can
// belong to.
type ComponentMask uint32

// The closed component set. The bit order is part of the phrase dictionary
// file format and must not change.
const (
	ComponentHouseNumber ComponentMask = 1 << iota
	ComponentRoad
	ComponentUnit
	ComponentLevel
	ComponentStaircase
	ComponentEntrance
	ComponentPOBox
	ComponentPostcode
	ComponentSuburb
	ComponentCityDistrict
	ComponentCity
	ComponentIsland
	ComponentStateDistrict
	ComponentState
	ComponentCountryRegion
	ComponentCountry
	ComponentWorldRegion

	// ComponentAny matches every component.
	ComponentAny ComponentMask = 1<<17 - 1
)

// Intersects reports whether the two masks share any component.
func (m ComponentMask) Intersects(other ComponentMask) bool { return m&other != 0 }

// Type enumerates the dictionaries an expansion can originate from.
type Type uint8

// The closed dictionary set.
const (
	TypeSynonym Type = iota
	TypeStreetType
	TypeDirectional
	TypeHouseNumber
	TypePostOffice
	TypeBuilding
	TypeUnit
	TypeLevel
	TypeQualifier
	TypeElision
	TypeStopword
	TypePersonalTitle
	TypePlaceName
	TypeCompanyType
	TypeToponym
	TypeAcademicDegree
	TypeAmbiguous
	TypeNull

	numTypes
)

var typeNames = [numTypes]string{
	TypeSynonym:        "synonym",
	TypeStreetType:     "street_type",
	TypeDirectional:    "directional",
	TypeHouseNumber:    "house_number",
	TypePostOffice:     "post_office",
	TypeBuilding:       "building",
	TypeUnit:           "unit",
	TypeLevel:          "level",
	TypeQualifier:      "qualifier",
	TypeStopword:       "stopword",
	TypeElision:        "elision",
	TypePersonalTitle:  "personal_title",
	TypePlaceName:      "place_name",
	TypeCompanyType:    "company_type",
	TypeToponym:        "toponym",
	TypeAcademicDegree: "academic_degree",
	TypeAmbiguous:      "ambiguous",
	TypeNull:           "null",
}

// String implements [fmt.Stringer].
func (t Type) String() string {
	if t >= numTypes {
		return "synonym"
	}
	return typeNames[t]
}

// Expansion is one canonical alternative for a dictionary phrase.
type Expansion struct {
	// Canonical is the expanded normalized surface form, e.g. "street"
	// for the phrase "st".
	Canonical string
	// Language is the BCP 47 tag of the dictionary the entry came from.
	Language string
	// Components is the set of address components the expansion applies to.
	Components ComponentMask
	// Dictionary identifies which dictionary defined the entry.
	Dictionary Type
	// Separable marks concatenated phrases that may also split apart.
	Separable bool
}

// Dictionary maps normalized phrase keys (lowercase, single spaces) to
// their expansions.
type Dictionary struct {
	entries map[string][]Expansion
	// keys is the sorted key list, used for prefix reachability during
	// phrase search.
	keys []string
	// maxTokens is the token count of the longest key.
	maxTokens int
}

// New assembles a dictionary from a key→expansions map. Keys are
// normalized; entries with no expansions are dropped.
func New(entries map[string][]Expansion) *Dictionary {
	d := &Dictionary{entries: make(map[string][]Expansion, len(entries))}
	for key, exps := range entries {
		key = NormalizeKey(key)
		if key == "" || len(exps) == 0 {
			continue
		}
		d.entries[key] = exps
		if n := strings.Count(key, " ") + 1; n > d.maxTokens {
			d.maxTokens = n
		}
	}
	d.keys = make([]string, 0, len(d.entries))
	for key := range d.entries {
		d.keys = append(d.keys, key)
	}
	sort.Strings(d.keys)
	return d
}

// NormalizeKey lowercases and collapses runs of whitespace to single
// spaces, producing the canonical lookup key of a phrase.
func NormalizeKey(key string) string {
	return strings.Join(strings.Fields(strings.ToLower(key)), " ")
}

// Len returns the number of phrase keys.
func (d *Dictionary) Len() int { return len(d.entries) }

// Get returns the expansions of a normalized key.
func (d *Dictionary) Get(key string) []Expansion {
	return d.entries[key]
}

// HasPrefix reports whether some dictionary key strictly extends prefix.
func (d *Dictionary) HasPrefix(prefix string) bool {
	i := sort.SearchStrings(d.keys, prefix)
	if i < len(d.keys) && d.keys[i] == prefix {
		i++
	}
	return i < len(d.keys) && strings.HasPrefix(d.keys[i], prefix)
}

// Keys returns the sorted key list. Callers must not mutate it.
func (d *Dictionary) Keys() []string { return d.keys }
