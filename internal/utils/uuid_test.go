package utils

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUIDGenerator_Generate(t *testing.T) {
	g := NewUUIDGenerator()

	first := g.Generate()
	second := g.Generate()

	require.NotEmpty(t, first)
	assert.NotEqual(t, first, second)

	parsed, err := uuid.Parse(first)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
}

// TestUUIDGenerator_Ordered — v7 идентификаторы монотонны по времени создания.
func TestUUIDGenerator_Ordered(t *testing.T) {
	g := NewUUIDGenerator()

	prev := g.Generate()
	for i := 0; i < 10; i++ {
		next := g.Generate()
		assert.Less(t, prev, next)
		prev = next
	}
}
