package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/filterq/codec"
)

func TestValueAccessors(t *testing.T) {
	n, ok := Number(42).AsNumber()
	assert.True(t, ok)
	assert.Equal(t, 42.0, n)

	s, ok := String("x").AsString()
	assert.True(t, ok)
	assert.Equal(t, "x", s)

	b, ok := Bool(true).AsBool()
	assert.True(t, ok)
	assert.True(t, b)

	_, ok = String("x").AsNumber()
	assert.False(t, ok)
	_, ok = Number(1).AsString()
	assert.False(t, ok)
	_, ok = Number(1).AsBool()
	assert.False(t, ok)
}

func TestValueKeyStability(t *testing.T) {
	assert.Equal(t, Number(1.5).Key(), Number(1.5).Key())
	assert.NotEqual(t, Number(1).Key(), Number(2).Key())
	assert.NotEqual(t, Bool(true).Key(), Bool(false).Key())

	// Values of different kinds never share a key, even when their textual
	// forms collide.
	assert.NotEqual(t, String("1").Key(), Number(1).Key())
	assert.NotEqual(t, String("b:1").Key(), Bool(true).Key())
}

func TestValueJSONRoundTrip(t *testing.T) {
	values := []Value{
		Number(218),
		Number(-4.5),
		String("The Great Gatsby"),
		String(""),
		Bool(true),
		Bool(false),
	}

	for _, c := range []codec.Codec{codec.JSON{}, codec.GoJSON{}} {
		for _, v := range values {
			data, err := c.Marshal(v)
			assert.NoError(t, err)

			var got Value
			assert.NoError(t, c.Unmarshal(data, &got))
			assert.Equal(t, v, got, "codec %s", c.Name())
		}
	}
}
