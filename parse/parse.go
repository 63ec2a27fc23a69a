////////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 TMoji Web contributors                                    //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

// Package parse tokenizes emoji placeholder syntax in plain text and markup.
// All functions are pure; the returned tokens cover the input left to right
// with no gaps or overlaps, so concatenating the Content fields reproduces the
// original string.
package parse

import "regexp"

// Kind tags a token as either literal text or an emoji placeholder.
type Kind int

const (
	// Text is a run of literal text.
	Text Kind = iota

	// Emoji is a placeholder that resolved to an emoji ID.
	Emoji
)

// Token is one segment of a tokenized input string. Content always holds the
// raw source text of the segment, including placeholder syntax for Emoji
// tokens. EmojiID is set only when Kind is Emoji.
type Token struct {
	Kind    Kind
	Content string
	EmojiID string
}

var (
	// placeholderRegex matches the plain-text placeholder {emoji:<digits>}.
	placeholderRegex = regexp.MustCompile(`\{emoji:(\d+)\}`)

	// colonRegex matches the colon syntax :name: where name is a short name
	// resolved through a caller-supplied mapping.
	colonRegex = regexp.MustCompile(`:([a-zA-Z0-9_]+):`)

	// markupRegex matches the markup placeholders <tmoji id="<digits>" ...>
	// (with an optional closing tag) and emoji-id="<digits>" attributes on
	// arbitrary elements.
	markupRegex = regexp.MustCompile(
		`<tmoji\s[^>]*?id="(\d+)"[^>]*>(?:</tmoji>)?|emoji-id="(\d+)"`)

	// packURLRegex extracts the pack name from a t.me emoji pack link.
	packURLRegex = regexp.MustCompile(
		`(?:https?://)?t\.me/addemoji/([a-zA-Z0-9_]+)`)
)

// ParseText tokenizes the plain-text placeholder syntax {emoji:<digits>}. Anything
// that is not a well-formed placeholder is passed through as literal text.
func ParseText(s string) []Token {
	return tokenize(s, placeholderRegex, func(m []string) (string, bool) {
		return m[1], true
	})
}

// ParseColons tokenizes the colon syntax :name:. Names are resolved to emoji
// IDs through the names mapping; unresolved names pass through as literal
// text.
func ParseColons(s string, names map[string]string) []Token {
	return tokenize(s, colonRegex, func(m []string) (string, bool) {
		id, ok := names[m[1]]
		return id, ok
	})
}

// ParseMarkup tokenizes the markup placeholders <tmoji id="..."> and
// emoji-id="..." in a markup string.
func ParseMarkup(s string) []Token {
	return tokenize(s, markupRegex, func(m []string) (string, bool) {
		if m[1] != "" {
			return m[1], true
		}
		return m[2], true
	})
}

// ExtractPackName returns the pack name from a t.me/addemoji link. Any string
// that is not such a link is returned unchanged, allowing raw pack names to
// pass through.
func ExtractPackName(urlOrName string) string {
	if m := packURLRegex.FindStringSubmatch(urlOrName); m != nil {
		return m[1]
	}
	return urlOrName
}

// tokenize splits s on matches of re. The resolve callback receives the
// submatches of each match and returns the emoji ID; returning false rejects
// the match, leaving it as literal text.
func tokenize(s string, re *regexp.Regexp,
	resolve func(m []string) (string, bool)) []Token {
	var tokens []Token
	last := 0

	for _, loc := range re.FindAllStringSubmatchIndex(s, -1) {
		raw := s[loc[0]:loc[1]]
		m := make([]string, len(loc)/2)
		for i := range m {
			if loc[2*i] >= 0 {
				m[i] = s[loc[2*i]:loc[2*i+1]]
			}
		}

		id, ok := resolve(m)
		if !ok {
			continue
		}

		if loc[0] > last {
			tokens = append(tokens, Token{Kind: Text, Content: s[last:loc[0]]})
		}
		tokens = append(tokens, Token{Kind: Emoji, Content: raw, EmojiID: id})
		last = loc[1]
	}

	if last < len(s) {
		tokens = append(tokens, Token{Kind: Text, Content: s[last:]})
	}

	return tokens
}
