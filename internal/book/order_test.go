package book

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderFillDecrementsRemaining(t *testing.T) {
	o := New(1, Buy, GoodTillCancel, 100, 10)
	require.NoError(t, o.Fill(4))
	assert.EqualValues(t, 6, o.Remaining)
	assert.EqualValues(t, 4, o.Filled())
	assert.False(t, o.IsFilled())

	require.NoError(t, o.Fill(6))
	assert.True(t, o.IsFilled())
}

func TestOrderFillBeyondRemainingIsAFault(t *testing.T) {
	o := New(1, Buy, GoodTillCancel, 100, 10)
	err := o.Fill(11)
	assert.ErrorIs(t, err, ErrFillExceedsRemaining)
	// A failed fill must not mutate state.
	assert.EqualValues(t, 10, o.Remaining)
}

func TestPromoteToLimitOnMarketOrder(t *testing.T) {
	o := New(1, Buy, Market, 0, 5)
	require.NoError(t, o.PromoteToLimit(150))
	assert.Equal(t, GoodTillCancel, o.Type)
	assert.EqualValues(t, 150, o.Price)
}

func TestPromoteToLimitOnNonMarketOrderIsAFault(t *testing.T) {
	o := New(1, Buy, GoodTillCancel, 100, 5)
	err := o.PromoteToLimit(150)
	assert.ErrorIs(t, err, ErrNotMarketOrder)
	assert.Equal(t, GoodTillCancel, o.Type)
	assert.EqualValues(t, 100, o.Price)
}
