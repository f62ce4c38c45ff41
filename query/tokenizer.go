package query

import "strings"

// placeholder stands in for spaces inside quoted phrases so the split on
// spaces does not break a phrase apart. It is swapped back for the original
// text after the split. The unit separator is vanishingly unlikely in a
// human-typed query.
const placeholder = '\x1f'

// quotedSpan records one quoted phrase for post-split restoration.
type quotedSpan struct {
	wordIndex   int    // index of the word the phrase belongs to
	original    string // quoted span verbatim, quotes included
	placeholder string // same span with spaces replaced by the placeholder
}

// Tokenize splits a raw query string into ordered term tokens. A quoted span
// ("...") is one token even if it contains spaces; the surrounding quote
// characters are kept for the value coercer to trim later.
//
// An unterminated quote is tolerated, not rejected: spaces after the dangling
// quote have already been replaced by placeholder characters and there is no
// closing quote to trigger restoration, so the tail keeps the placeholders
// and is split as-is.
func Tokenize(s string) []string {
	if s == "" {
		return nil
	}

	var (
		b       strings.Builder
		spans   []quotedSpan
		inQuote bool
		wordIdx int
		start   int
	)
	b.Grow(len(s))

	for i, r := range s {
		switch r {
		case '"':
			if inQuote {
				original := s[start : i+1]
				spans = append(spans, quotedSpan{
					wordIndex:   wordIdx,
					original:    original,
					placeholder: strings.ReplaceAll(original, " ", string(placeholder)),
				})
				inQuote = false
			} else {
				inQuote = true
				start = i
			}
			b.WriteRune(r)
		case ' ':
			if inQuote {
				b.WriteRune(placeholder)
			} else {
				wordIdx++
				b.WriteRune(r)
			}
		default:
			b.WriteRune(r)
		}
	}

	words := strings.Split(b.String(), " ")
	for _, sp := range spans {
		if sp.wordIndex < len(words) {
			words[sp.wordIndex] = strings.Replace(words[sp.wordIndex], sp.placeholder, sp.original, 1)
		}
	}
	return words
}
