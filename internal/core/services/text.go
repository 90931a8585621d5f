package services

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// SnippetLength is the target length of a result snippet, in characters.
const SnippetLength = 160

const ellipsis = "..."

// Tokenize splits text into normalised index tokens.
// Text is lower-cased, every character other than [A-Za-z0-9_] or
// whitespace becomes a separator, and tokens of one character are dropped.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !isWordChar(r)
	})
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) > 1 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

func isWordChar(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// uniqueTokens returns the distinct tokens of text in first-seen order.
func uniqueTokens(text string) []string {
	tokens := Tokenize(text)
	seen := make(map[string]struct{}, len(tokens))
	unique := tokens[:0]
	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		unique = append(unique, t)
	}
	return unique
}

// makeSnippet excerpts text around the earliest occurrence of any token.
// The window is aligned to word boundaries and marked with ellipses where
// text was cut. Without an occurrence the head of the text is used.
func makeSnippet(text string, tokens []string) string {
	pos := -1
	for _, t := range tokens {
		if i := strings.Index(text, t); i >= 0 && (pos < 0 || i < pos) {
			pos = i
		}
	}

	runes := []rune(text)
	if pos < 0 {
		if len(runes) <= SnippetLength {
			return text
		}
		return string(runes[:SnippetLength]) + ellipsis
	}
	if len(runes) <= SnippetLength {
		return text
	}

	match := utf8.RuneCountInString(text[:pos])
	start := max(0, match-SnippetLength/2)
	end := min(len(runes), start+SnippetLength)
	start = max(0, end-SnippetLength)

	// Move the edges inwards to the nearest whitespace, never past the match.
	if start > 0 && !unicode.IsSpace(runes[start-1]) {
		for i := start; i < match; i++ {
			if unicode.IsSpace(runes[i]) {
				start = i + 1
				break
			}
		}
	}
	if end < len(runes) && !unicode.IsSpace(runes[end]) {
		for i := end - 1; i > match; i-- {
			if unicode.IsSpace(runes[i]) {
				end = i
				break
			}
		}
	}

	snippet := strings.TrimSpace(string(runes[start:end]))
	if start > 0 {
		snippet = ellipsis + snippet
	}
	if end < len(runes) {
		snippet += ellipsis
	}
	return snippet
}
