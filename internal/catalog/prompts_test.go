package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRandomReturnsDistinctPrompts(t *testing.T) {
	prompts := Random(6)
	assert.Len(t, prompts, 6)

	seen := make(map[string]bool)
	for _, p := range prompts {
		assert.False(t, seen[p], "duplicate prompt %q", p)
		seen[p] = true
		assert.Contains(t, ViralPrompts, p)
	}
}

func TestRandomBounds(t *testing.T) {
	assert.Nil(t, Random(0))
	assert.Nil(t, Random(-1))
	assert.Len(t, Random(len(ViralPrompts)+10), len(ViralPrompts))
}
