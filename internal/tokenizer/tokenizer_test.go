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

package tokenizer_test

import (
	"testing"
	"unicode/utf16"

	"github.com/stretchr/testify/require"

	"buf.build/go/postal/internal/tokenizer"
)

func kinds(ts *tokenizer.TokenizedString) []tokenizer.Kind {
	out := make([]tokenizer.Kind, ts.Len())
	for i, tok := range ts.Tokens() {
		out[i] = tok.Kind
	}
	return out
}

func texts(ts *tokenizer.TokenizedString) []string {
	out := make([]string, ts.Len())
	for i, tok := range ts.Tokens() {
		out[i] = tok.Text
	}
	return out
}

func TestBasicAddress(t *testing.T) {
	t.Parallel()

	ts := tokenizer.Tokenize("123 Main Street")
	require.Equal(t, []string{"123", " ", "Main", " ", "Street"}, texts(ts))
	require.Equal(t, []tokenizer.Kind{
		tokenizer.KindNumeric,
		tokenizer.KindWhitespace,
		tokenizer.KindWord,
		tokenizer.KindWhitespace,
		tokenizer.KindWord,
	}, kinds(ts))

	// Contiguous UTF-16 offsets: 0..3, 3..4, 4..8, 8..9, 9..15.
	wantOffsets := [][2]uint32{{0, 3}, {3, 1}, {4, 4}, {8, 1}, {9, 6}}
	for i, tok := range ts.Tokens() {
		require.Equal(t, wantOffsets[i][0], tok.Offset, "token %d", i)
		require.Equal(t, wantOffsets[i][1], tok.Length, "token %d", i)
	}
}

func TestAcronym(t *testing.T) {
	t.Parallel()

	ts := tokenizer.Tokenize("U.S.A. or USA")
	require.Equal(t, []string{"U.S.A.", " ", "or", " ", "USA"}, texts(ts))
	require.Equal(t, []tokenizer.Kind{
		tokenizer.KindAcronym,
		tokenizer.KindWhitespace,
		tokenizer.KindWord,
		tokenizer.KindWhitespace,
		tokenizer.KindWord,
	}, kinds(ts))
}

func TestAcronymWithoutTrailingPeriod(t *testing.T) {
	t.Parallel()

	ts := tokenizer.Tokenize("P.O box")
	require.Equal(t, []string{"P.O", " ", "box"}, texts(ts))
	require.Equal(t, tokenizer.KindAcronym, ts.Tokens()[0].Kind)
}

func TestWordWithTrailingPeriod(t *testing.T) {
	t.Parallel()

	// A single period after a word is not an acronym.
	ts := tokenizer.Tokenize("Ave.")
	require.Equal(t, []string{"Ave", "."}, texts(ts))
	require.Equal(t, []tokenizer.Kind{tokenizer.KindWord, tokenizer.KindPeriod}, kinds(ts))
}

func TestEmailAndURL(t *testing.T) {
	t.Parallel()

	ts := tokenizer.Tokenize("mail test@example.com or https://example.com/a?b=1 now")
	var email, url string
	for _, tok := range ts.Tokens() {
		switch tok.Kind {
		case tokenizer.KindEmail:
			email = tok.Text
		case tokenizer.KindURL:
			url = tok.Text
		}
	}
	require.Equal(t, "test@example.com", email)
	require.Equal(t, "https://example.com/a?b=1", url)
}

func TestNewlineAndWhitespace(t *testing.T) {
	t.Parallel()

	ts := tokenizer.Tokenize("a \t b\nc\r\nd")
	require.Equal(t, []string{"a", " \t ", "b", "\n", "c", "\r", "\n", "d"}, texts(ts))
	require.Equal(t, tokenizer.KindNewline, ts.Tokens()[3].Kind)
	require.Equal(t, tokenizer.KindWhitespace, ts.Tokens()[5].Kind)
	require.Equal(t, tokenizer.KindNewline, ts.Tokens()[6].Kind)
}

func TestIdeographsAndHangul(t *testing.T) {
	t.Parallel()

	// Ideographs come out one per token; hangul syllables likewise.
	ts := tokenizer.Tokenize("北京市")
	require.Equal(t, []string{"北", "京", "市"}, texts(ts))
	for _, tok := range ts.Tokens() {
		require.Equal(t, tokenizer.KindIdeographicChar, tok.Kind)
	}

	ts = tokenizer.Tokenize("서울")
	require.Equal(t, []string{"서", "울"}, texts(ts))
	for _, tok := range ts.Tokens() {
		require.Equal(t, tokenizer.KindHangulSyllable, tok.Kind)
	}
}

func TestPunctuation(t *testing.T) {
	t.Parallel()

	ts := tokenizer.Tokenize("a,b-c/d(e)&f")
	require.Equal(t, []tokenizer.Kind{
		tokenizer.KindWord, tokenizer.KindComma,
		tokenizer.KindWord, tokenizer.KindHyphen,
		tokenizer.KindWord, tokenizer.KindSlash,
		tokenizer.KindWord, tokenizer.KindOpenParen,
		tokenizer.KindWord, tokenizer.KindCloseParen,
		tokenizer.KindAmpersand, tokenizer.KindWord,
	}, kinds(ts))

	// En and em dashes are their own kind.
	ts = tokenizer.Tokenize("1–2—3")
	require.Equal(t, []tokenizer.Kind{
		tokenizer.KindNumeric, tokenizer.KindDash,
		tokenizer.KindNumeric, tokenizer.KindDash,
		tokenizer.KindNumeric,
	}, kinds(ts))
}

func TestInvalidBytes(t *testing.T) {
	t.Parallel()

	ts := tokenizer.Tokenize("a\xffb")
	require.Equal(t, []tokenizer.Kind{
		tokenizer.KindWord, tokenizer.KindInvalidChar, tokenizer.KindWord,
	}, kinds(ts))
	require.Equal(t, "a\xffb", ts.Concat())
}

// TestOffsetsAreUTF16 checks the offset invariant on inputs with astral and
// BMP multi-byte codepoints.
func TestOffsetsAreUTF16(t *testing.T) {
	t.Parallel()

	for _, input := range []string{
		"123 Main Street",
		"Mühlenstraße 1, Berlin",
		"東京都渋谷区 1-2-3",
		"𝔘nicode far plane",
		"ул. Ленина, д. 5",
	} {
		ts := tokenizer.Tokenize(input)
		u16 := utf16.Encode([]rune(input))
		for _, tok := range ts.Tokens() {
			if tok.Kind == tokenizer.KindInvalidChar {
				continue
			}
			got := string(utf16.Decode(u16[tok.Offset : tok.Offset+tok.Length]))
			require.Equal(t, tok.Text, got, "input %q", input)
		}
		require.Equal(t, input, ts.Concat(), "input %q", input)
	}
}

func TestConcatReconstructs(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"", " ", "\n\n", "a", "Barboncino, 781 Franklin Ave, Brooklyn NY 11216, USA",
		"30 W 26th St", "!@#$%^&*()", "mixed 北 text 서 ...",
	}
	for _, input := range inputs {
		require.Equal(t, input, tokenizer.Tokenize(input).Concat(), "input %q", input)
	}
}
