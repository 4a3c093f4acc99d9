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

package postal

import (
	"strings"

	"github.com/mozillazg/go-unidecode"

	"buf.build/go/postal/internal/dictionary"
	"buf.build/go/postal/internal/expand"
	"buf.build/go/postal/internal/normalize"
	"buf.build/go/postal/internal/tokenizer"
)

// MaxExpansions caps the number of variants [Model.Expand] returns.
const MaxExpansions = expand.MaxVariants

// ExpandOption is a configuration setting for [Model.Expand].
type ExpandOption func(*expandConfig)

type expandConfig struct {
	languages  []string
	components ComponentMask

	latinASCII         bool
	transliterate      bool
	stripAccents       bool
	decompose          bool
	lowercase          bool
	trimString         bool
	dropParentheticals bool

	replaceNumericHyphens bool
	deleteNumericHyphens  bool
	splitAlphaFromNumeric bool
	replaceWordHyphens    bool
	deleteWordHyphens     bool
	deleteFinalPeriods    bool
	deleteAcronymPeriods  bool
	dropPossessives       bool
	deleteApostrophes     bool

	expandNumex   bool
	romanNumerals bool
}

func defaultExpandConfig() expandConfig {
	return expandConfig{
		lowercase:          true,
		trimString:         true,
		deleteFinalPeriods: true,
	}
}

// WithLanguages restricts dictionary expansions to the given BCP 47 tags.
func WithLanguages(langs ...string) ExpandOption {
	return func(c *expandConfig) { c.languages = langs }
}

// WithAddressComponents filters dictionary expansions to those that can
// belong to the masked components.
func WithAddressComponents(mask ComponentMask) ExpandOption {
	return func(c *expandConfig) { c.components = mask }
}

// WithLatinASCII transliterates the input to ASCII before expansion.
func WithLatinASCII(on bool) ExpandOption {
	return func(c *expandConfig) { c.latinASCII = on }
}

// WithTransliterate applies script transliteration before expansion.
func WithTransliterate(on bool) ExpandOption {
	return func(c *expandConfig) { c.transliterate = on }
}

// WithStripAccents removes combining marks before expansion.
func WithStripAccents(on bool) ExpandOption {
	return func(c *expandConfig) { c.stripAccents = on }
}

// WithDecompose normalizes the input to NFD instead of NFC.
func WithDecompose(on bool) ExpandOption {
	return func(c *expandConfig) { c.decompose = on }
}

// WithLowercase lowercases output variants. On by default.
func WithLowercase(on bool) ExpandOption {
	return func(c *expandConfig) { c.lowercase = on }
}

// WithTrimString trims surrounding whitespace. On by default.
func WithTrimString(on bool) ExpandOption {
	return func(c *expandConfig) { c.trimString = on }
}

// WithDropParentheticals removes parenthesized spans before expansion.
func WithDropParentheticals(on bool) ExpandOption {
	return func(c *expandConfig) { c.dropParentheticals = on }
}

// WithReplaceNumericHyphens replaces every hyphen and dash in the input with
// a space before tokenization. It has the same effect as
// [WithReplaceWordHyphens]: hyphens between digits are not told apart from
// hyphens between words.
func WithReplaceNumericHyphens(on bool) ExpandOption {
	return func(c *expandConfig) { c.replaceNumericHyphens = on }
}

// WithDeleteNumericHyphens deletes every hyphen from the parts of the input
// that no dictionary phrase matched. It has the same effect as
// [WithDeleteWordHyphens]: hyphens between digits are not told apart from
// hyphens between words.
func WithDeleteNumericHyphens(on bool) ExpandOption {
	return func(c *expandConfig) { c.deleteNumericHyphens = on }
}

// WithSplitAlphaFromNumeric splits letter-digit runs apart ("26th" →
// "26 th").
func WithSplitAlphaFromNumeric(on bool) ExpandOption {
	return func(c *expandConfig) { c.splitAlphaFromNumeric = on }
}

// WithReplaceWordHyphens replaces every hyphen and dash in the input with a
// space before tokenization. It has the same effect as
// [WithReplaceNumericHyphens].
func WithReplaceWordHyphens(on bool) ExpandOption {
	return func(c *expandConfig) { c.replaceWordHyphens = on }
}

// WithDeleteWordHyphens deletes every hyphen from the parts of the input
// that no dictionary phrase matched. It has the same effect as
// [WithDeleteNumericHyphens].
func WithDeleteWordHyphens(on bool) ExpandOption {
	return func(c *expandConfig) { c.deleteWordHyphens = on }
}

// WithDeleteFinalPeriods removes abbreviation periods. On by default.
func WithDeleteFinalPeriods(on bool) ExpandOption {
	return func(c *expandConfig) { c.deleteFinalPeriods = on }
}

// WithDeleteAcronymPeriods collapses dotted acronyms ("u.s.a." → "usa").
func WithDeleteAcronymPeriods(on bool) ExpandOption {
	return func(c *expandConfig) { c.deleteAcronymPeriods = on }
}

// WithDropEnglishPossessives removes possessive markers ("mary's" →
// "mary").
func WithDropEnglishPossessives(on bool) ExpandOption {
	return func(c *expandConfig) { c.dropPossessives = on }
}

// WithDeleteApostrophes removes apostrophes.
func WithDeleteApostrophes(on bool) ExpandOption {
	return func(c *expandConfig) { c.deleteApostrophes = on }
}

// WithExpandNumex sets the numeric-expression switch. Expansion does not
// read it: no numex rules are loaded, so numeric expressions are never
// expanded.
func WithExpandNumex(on bool) ExpandOption {
	return func(c *expandConfig) { c.expandNumex = on }
}

// WithRomanNumerals adds Arabic readings of Roman numeral tokens.
func WithRomanNumerals(on bool) ExpandOption {
	return func(c *expandConfig) { c.romanNumerals = on }
}

// Expand produces the canonical variants of an address, deduplicated in
// order of first appearance and capped at [MaxExpansions].
//
// Empty input yields an empty result. An unloaded model reports
// [ErrModelNotReady].
func (m *Model) Expand(input string, options ...ExpandOption) ([]string, error) {
	if !m.ready() {
		return nil, ErrModelNotReady
	}

	cfg := defaultExpandConfig()
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	s := input
	if cfg.dropParentheticals {
		s = dropParentheticals(s)
	}
	if cfg.latinASCII || cfg.transliterate {
		s = unidecode.Unidecode(s)
	}
	s = normalize.String(s, cfg.stringOptions())
	if s == "" {
		return nil, nil
	}

	ts := tokenizer.Tokenize(s)
	phrases := dictionary.Search(ts, m.files.Phrases)
	return expand.Expand(ts, phrases, expand.Options{
		TokenOpts:     cfg.tokenOptions(),
		Components:    cfg.components,
		Languages:     cfg.languages,
		RomanNumerals: cfg.romanNumerals,
	}), nil
}

func (c *expandConfig) stringOptions() normalize.StringOptions {
	var opts normalize.StringOptions
	if c.lowercase {
		opts |= normalize.Lowercase
	}
	if c.trimString {
		opts |= normalize.Trim
	}
	if c.stripAccents {
		opts |= normalize.StripAccents
	}
	if c.decompose {
		opts |= normalize.Decompose
	} else {
		opts |= normalize.Compose
	}
	if c.replaceWordHyphens || c.replaceNumericHyphens {
		opts |= normalize.ReplaceHyphens
	}
	return opts
}

func (c *expandConfig) tokenOptions() normalize.TokenOptions {
	var opts normalize.TokenOptions
	if c.deleteWordHyphens || c.deleteNumericHyphens {
		opts |= normalize.DeleteHyphens
	}
	if c.deleteFinalPeriods {
		opts |= normalize.DeleteFinalPeriod
	}
	if c.deleteAcronymPeriods {
		opts |= normalize.DeleteAcronymPeriods
	}
	if c.dropPossessives {
		opts |= normalize.DeletePossessive
	}
	if c.deleteApostrophes {
		opts |= normalize.DeleteApostrophe
	}
	if c.splitAlphaFromNumeric {
		opts |= normalize.SplitAlphaNumeric
	}
	return opts
}

// dropParentheticals removes balanced parenthesized spans, parentheses
// included. Unbalanced parentheses pass through.
func dropParentheticals(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	depth := 0
	for _, r := range s {
		switch {
		case r == '(':
			depth++
		case r == ')' && depth > 0:
			depth--
		case depth == 0:
			sb.WriteRune(r)
		}
	}
	if depth != 0 {
		return s
	}
	return sb.String()
}
