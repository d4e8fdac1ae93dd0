package book

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelDataCacheAddRemoveMatch(t *testing.T) {
	c := newLevelDataCache()

	c.update(100, 10, LevelAdd)
	ld, ok := c.get(100)
	require.True(t, ok)
	assert.Equal(t, 1, ld.Count)
	assert.EqualValues(t, 10, ld.TotalQuantity)

	c.update(100, 5, LevelAdd)
	ld, _ = c.get(100)
	assert.Equal(t, 2, ld.Count)
	assert.EqualValues(t, 15, ld.TotalQuantity)

	c.update(100, 3, LevelMatch)
	ld, _ = c.get(100)
	assert.Equal(t, 2, ld.Count) // match never changes count
	assert.EqualValues(t, 12, ld.TotalQuantity)

	c.update(100, 12, LevelRemove)
	_, ok = c.get(100)
	assert.False(t, ok) // count hit zero, entry erased
}

func TestLevelDataCacheEntryErasedOnlyAtZeroCount(t *testing.T) {
	c := newLevelDataCache()
	c.update(50, 10, LevelAdd)
	c.update(50, 4, LevelAdd)

	c.update(50, 10, LevelRemove)
	ld, ok := c.get(50)
	require.True(t, ok)
	assert.Equal(t, 1, ld.Count)
	assert.EqualValues(t, 4, ld.TotalQuantity)
}
