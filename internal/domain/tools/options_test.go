package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseOptionsMalformedYieldsEmpty(t *testing.T) {
	for _, raw := range []string{"", "{bad json", "[1,2]", "null"} {
		opts := ParseOptions(raw)
		assert.NotNil(t, opts, "raw %q", raw)
		assert.Empty(t, opts, "raw %q", raw)
	}
}

func TestParseOptionsValid(t *testing.T) {
	opts := ParseOptions(`{"width": 100, "name": "x", "flag": true}`)
	assert.Equal(t, 100, opts.Int("width", 0))
	assert.Equal(t, "x", opts.String("name", ""))
	assert.True(t, opts.Bool("flag", false))
}

func TestOptionsCoercion(t *testing.T) {
	opts := ParseOptions(`{"n": "42", "f": "3.5"}`)
	assert.Equal(t, 42, opts.Int("n", 0))
	assert.InDelta(t, 3.5, opts.Float("f", 0), 0.0001)
	assert.Equal(t, 7, opts.Int("missing", 7))
}
