package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("gatto", "gatto"))
	assert.Equal(t, 0.0, Similarity("", "gatto"))
	assert.Equal(t, 1.0, Similarity("", ""))

	// gato vs gatto share 4 runes of 9 total.
	assert.InDelta(t, 8.0/9.0, Similarity("gato", "gatto"), 1e-9)

	// Unrelated words stay low.
	assert.Less(t, Similarity("cane", "topo"), 0.5)
}
