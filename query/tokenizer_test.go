package query

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "plain terms",
			input: "pages:400 authorCount>5",
			want:  []string{"pages:400", "authorCount>5"},
		},
		{
			name:  "quoted phrase keeps spaces",
			input: `title:"The Great Gatsby" pages<250`,
			want:  []string{`title:"The Great Gatsby"`, "pages<250"},
		},
		{
			name:  "two quoted phrases",
			input: `title:"Engineering" author:"John Doe"`,
			want:  []string{`title:"Engineering"`, `author:"John Doe"`},
		},
		{
			name:  "quoted phrase mid-query",
			input: `pages>100 title:"A B C" isValid:true`,
			want:  []string{"pages>100", `title:"A B C"`, "isValid:true"},
		},
		{
			name:  "single term",
			input: "pages<=10",
			want:  []string{"pages<=10"},
		},
		{
			name:  "malformed spacing splits operator off",
			input: "pages > 400",
			want:  []string{"pages", ">", "400"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.input))
		})
	}
}

func TestTokenizeEmpty(t *testing.T) {
	assert.Empty(t, Tokenize(""))
}

func TestTokenizeUnterminatedQuote(t *testing.T) {
	// With no closing quote there is nothing to trigger restoration: the
	// spaces after the dangling quote stay as placeholder characters and the
	// tail arrives as a single word.
	tokens := Tokenize(`title:"The Great Gatsby`)

	assert.Len(t, tokens, 1)
	assert.True(t, strings.HasPrefix(tokens[0], `title:"The`))
	assert.Contains(t, tokens[0], string(placeholder))
	assert.NotContains(t, tokens[0], " ")
}

func TestTokenizeUnterminatedQuoteAfterClosedOne(t *testing.T) {
	tokens := Tokenize(`a:"x y" b:"c d`)

	assert.Len(t, tokens, 2)
	assert.Equal(t, `a:"x y"`, tokens[0])
	assert.Contains(t, tokens[1], string(placeholder))
}
