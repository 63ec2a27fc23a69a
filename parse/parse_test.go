////////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 TMoji Web contributors                                    //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package parse

import (
	"reflect"
	"strings"
	"testing"
)

// Tests plain-text tokenization: placeholders resolve to emoji tokens,
// malformed placeholders pass through as text, and concatenating the token
// contents reproduces the input.
func TestParseText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Token
	}{
		{
			name:  "single placeholder with surrounding text",
			input: "hi {emoji:5100} there",
			want: []Token{
				{Kind: Text, Content: "hi "},
				{Kind: Emoji, Content: "{emoji:5100}", EmojiID: "5100"},
				{Kind: Text, Content: " there"},
			},
		},
		{
			name:  "adjacent placeholders",
			input: "{emoji:1}{emoji:2}",
			want: []Token{
				{Kind: Emoji, Content: "{emoji:1}", EmojiID: "1"},
				{Kind: Emoji, Content: "{emoji:2}", EmojiID: "2"},
			},
		},
		{
			name:  "malformed placeholder passes through",
			input: "broken {emoji:} and {emoji:abc}",
			want: []Token{
				{Kind: Text, Content: "broken {emoji:} and {emoji:abc}"},
			},
		},
		{
			name:  "no placeholders",
			input: "plain text",
			want:  []Token{{Kind: Text, Content: "plain text"}},
		},
		{
			name:  "empty input",
			input: "",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseText(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Unexpected tokens.\nexpected: %+v\nreceived: %+v",
					tt.want, got)
			}
		})
	}
}

// Tests that concatenating token contents always reproduces the input.
func TestParseText_RoundTrip(t *testing.T) {
	inputs := []string{
		"hi {emoji:5100} there",
		"{emoji:1}{emoji:2}{emoji:3}",
		"nothing here",
		"{emoji:12} trailing text {emoji:",
	}

	for _, input := range inputs {
		var sb strings.Builder
		for _, tok := range ParseText(input) {
			sb.WriteString(tok.Content)
		}
		if sb.String() != input {
			t.Errorf("Tokens do not cover the input."+
				"\nexpected: %q\nreceived: %q", input, sb.String())
		}
	}
}

// Tests colon-syntax tokenization: known names resolve, unknown names pass
// through as literal text.
func TestParseColons(t *testing.T) {
	names := map[string]string{"grin": "5100", "cat_wave": "7"}

	got := ParseColons("a :grin: b :nope: c :cat_wave:", names)
	want := []Token{
		{Kind: Text, Content: "a "},
		{Kind: Emoji, Content: ":grin:", EmojiID: "5100"},
		{Kind: Text, Content: " b :nope: c "},
		{Kind: Emoji, Content: ":cat_wave:", EmojiID: "7"},
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Unexpected tokens.\nexpected: %+v\nreceived: %+v", want, got)
	}
}

// Tests that an empty name mapping leaves the whole input as one text token.
func TestParseColons_NoNames(t *testing.T) {
	got := ParseColons(":grin: :wave:", nil)
	want := []Token{{Kind: Text, Content: ":grin: :wave:"}}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Unexpected tokens.\nexpected: %+v\nreceived: %+v", want, got)
	}
}

// Tests markup tokenization for both tmoji elements and emoji-id attributes.
func TestParseMarkup(t *testing.T) {
	input := `<p>hey <tmoji id="42"></tmoji> and <span emoji-id="7">x</span></p>`

	got := ParseMarkup(input)
	want := []Token{
		{Kind: Text, Content: "<p>hey "},
		{Kind: Emoji, Content: `<tmoji id="42"></tmoji>`, EmojiID: "42"},
		{Kind: Text, Content: " and <span "},
		{Kind: Emoji, Content: `emoji-id="7"`, EmojiID: "7"},
		{Kind: Text, Content: ">x</span></p>"},
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Unexpected tokens.\nexpected: %+v\nreceived: %+v", want, got)
	}
}

// Tests pack-name extraction from the accepted t.me link forms and the
// pass-through of raw names.
func TestExtractPackName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"https://t.me/addemoji/CatPack", "CatPack"},
		{"http://t.me/addemoji/Cat_Pack2", "Cat_Pack2"},
		{"t.me/addemoji/CatPack", "CatPack"},
		{"CatPack", "CatPack"},
		{"https://example.com/addemoji/CatPack",
			"https://example.com/addemoji/CatPack"},
	}

	for _, tt := range tests {
		if got := ExtractPackName(tt.input); got != tt.want {
			t.Errorf("Unexpected pack name for %q."+
				"\nexpected: %q\nreceived: %q", tt.input, tt.want, got)
		}
	}
}
