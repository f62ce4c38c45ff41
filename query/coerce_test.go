package query

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/filterq/filter"
)

func TestCoerce(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want filter.Value
	}{
		{name: "integer", raw: "400", want: filter.Number(400)},
		{name: "decimal", raw: "3.14", want: filter.Number(3.14)},
		{name: "negative", raw: "-250", want: filter.Number(-250)},
		{name: "negative decimal", raw: "-0.5", want: filter.Number(-0.5)},
		{name: "true literal", raw: "true", want: filter.Bool(true)},
		{name: "false literal", raw: "false", want: filter.Bool(false)},
		{name: "plain string", raw: "gatsby", want: filter.String("gatsby")},
		{name: "quoted string trimmed", raw: `"The Great Gatsby"`, want: filter.String("The Great Gatsby")},
		{name: "quoted digits stay string", raw: `"123"`, want: filter.String("123")},
		{name: "single leading quote untouched", raw: `"abc`, want: filter.String(`"abc`)},
		{name: "single trailing quote untouched", raw: `abc"`, want: filter.String(`abc"`)},
		{name: "empty", raw: "", want: filter.String("")},

		// Unanchored matching is the documented default: a literal anywhere
		// in the value claims it.
		{name: "embedded bool claims value", raw: "retrue", want: filter.Bool(true)},
		{name: "embedded false claims value", raw: "xfalsex", want: filter.Bool(false)},
		// A numeric substring triggers the number branch, but the full value
		// does not parse as a number, so classification falls through.
		{name: "trailing garbage falls through", raw: "40x", want: filter.String("40x")},
		{name: "digits then bool literal", raw: "2true", want: filter.Bool(true)},
	}

	var c Coercer
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Coerce(tt.raw))
		})
	}
}

func TestCoerceAnchored(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want filter.Value
	}{
		{name: "integer", raw: "400", want: filter.Number(400)},
		{name: "true literal", raw: "true", want: filter.Bool(true)},
		{name: "embedded bool stays string", raw: "retrue", want: filter.String("retrue")},
		{name: "trailing garbage stays string", raw: "40x", want: filter.String("40x")},
		{name: "embedded number stays string", raw: "v1.2", want: filter.String("v1.2")},
	}

	c := Coercer{Anchored: true}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Coerce(tt.raw))
		})
	}
}
