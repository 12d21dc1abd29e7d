package session

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"", 0},
		{"   ", 0},
		{"5", 5},
		{" 5.25 ", 5.25},
		{"-3", -3},
		{".5", 0.5},
		{"1e3", 1000},
		{"0x1A", 26},
		{"0o17", 15},
		{"0b101", 5},
		{"007", 7},
		{"1e400", math.Inf(1)},
		{"-1e400", math.Inf(-1)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseNumber(tt.in))
		})
	}
}

func TestParseNumberNaN(t *testing.T) {
	for _, in := range []string{"abc", "5km", "1,5", "0x", "0xZZ", "--1", "1_000", "0x1_0", "_5"} {
		assert.True(t, math.IsNaN(parseNumber(in)), "input %q", in)
	}
}

func TestFiniteAndPositive(t *testing.T) {
	assert.True(t, finite(1, -2, 0))
	assert.False(t, finite(1, math.NaN()))
	assert.False(t, finite(math.Inf(-1)))

	assert.True(t, positive(0.1, 3))
	assert.False(t, positive(1, 0))
	assert.False(t, positive(math.NaN()))
}

func TestFormStateString(t *testing.T) {
	assert.Equal(t, "hidden", FormHidden.String())
	assert.Equal(t, "shown", FormShown.String())
}
