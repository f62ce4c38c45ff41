package query

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/hupe1980/filterq/filter"
)

var (
	numberPattern         = regexp.MustCompile(`-?\d+(\.\d+)?`)
	anchoredNumberPattern = regexp.MustCompile(`^-?\d+(\.\d+)?$`)
)

// Coercer classifies a raw term value as Number, Boolean, or String, in that
// order, and converts it.
//
// By default classification is unanchored: a numeric or boolean literal
// anywhere inside the raw value claims the whole value ("retrue" coerces to
// true). Anchored mode requires the entire value to be the literal.
type Coercer struct {
	// Anchored requires the whole raw value to match the numeric pattern or
	// boolean literal instead of any substring of it.
	Anchored bool
}

// Coerce converts a raw value string into a typed filter value.
func (c Coercer) Coerce(raw string) filter.Value {
	if c.numberPattern().MatchString(raw) {
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return filter.Number(f)
		}
		// A substring looked numeric but the full value is not a number
		// ("40x"); fall through to the remaining classifications.
	}
	if c.boolLiteral(raw, "true") {
		return filter.Bool(true)
	}
	if c.boolLiteral(raw, "false") {
		return filter.Bool(false)
	}
	return filter.String(trimQuotes(raw))
}

func (c Coercer) numberPattern() *regexp.Regexp {
	if c.Anchored {
		return anchoredNumberPattern
	}
	return numberPattern
}

func (c Coercer) boolLiteral(raw, lit string) bool {
	if c.Anchored {
		return raw == lit
	}
	return strings.Contains(raw, lit)
}

// trimQuotes strips exactly one leading and one trailing double quote, and
// only when both are present.
func trimQuotes(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
