package sortname

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		title    string
		expected string
	}{
		{"The Hobbit", "Hobbit, The"},
		{"A Tale of Two Cities", "Tale of Two Cities, A"},
		{"An Unkindness of Ghosts", "Unkindness of Ghosts, An"},
		{"Dune", "Dune"},
		{"Theodore", "Theodore"},
		{"The", "The"},
		{"", ""},
		{"  The Hobbit  ", "Hobbit, The"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ForTitle(tt.title), "title: %q", tt.title)
	}
}

func TestForPerson(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		expected string
	}{
		{"Ann Leckie", "Leckie, Ann"},
		{"Ursula K. Le Guin", "Guin, Ursula K. Le"},
		{"Ludwig van Beethoven", "Beethoven, Ludwig van"},
		{"Dr. John Watson", "Watson, John"},
		{"Plato", "Plato"},
		{"", ""},
		{"Vincent van Gogh", "Gogh, Vincent van"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ForPerson(tt.name), "name: %q", tt.name)
	}
}
