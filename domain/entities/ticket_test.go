package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidSequence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		sequence string
		valid    bool
	}{
		{"00000", true},
		{"13579", true},
		{"99999", true},
		{"1357", false},
		{"135791", false},
		{"1357a", false},
		{"13 79", false},
		{"", false},
		{"1357９", false}, // full-width digit
	}

	for _, tt := range tests {
		assert.Equal(t, tt.valid, IsValidSequence(tt.sequence), "sequence %q", tt.sequence)
	}
}

func TestCountSequenceMatches(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b    string
		matches int
	}{
		{"13579", "13579", 5},
		{"13579", "13570", 4},
		{"13579", "97531", 1}, // only the middle digit lines up
		{"13579", "24680", 0},
		{"11111", "11999", 2},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.matches, CountSequenceMatches(tt.a, tt.b), "%q vs %q", tt.a, tt.b)
	}
}
