package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticklob/internal/book"
	"ticklob/internal/config"
)

func newTestEngine() *Engine {
	return New(config.Config{Symbol: "TEST", CutoffHour: 16})
}

// A crossing GTC pair fully matches and leaves the book empty.
func TestScenario_FullMatchEmptiesBook(t *testing.T) {
	e := newTestEngine()

	trades := e.Add(AddRequest{Type: book.GoodTillCancel, ID: 1, Side: book.Buy, Price: 100, Quantity: 10})
	assert.Empty(t, trades)

	trades = e.Add(AddRequest{Type: book.GoodTillCancel, ID: 2, Side: book.Sell, Price: 100, Quantity: 10})
	require.Len(t, trades, 1)
	assert.Equal(t, TradeInfo{OrderID: 1, Price: 100, Quantity: 10}, trades[0].Bid)
	assert.Equal(t, TradeInfo{OrderID: 2, Price: 100, Quantity: 10}, trades[0].Ask)
	assert.Equal(t, 0, e.Size())
}

// Non-crossing orders rest without trading.
func TestScenario_NonCrossingRests(t *testing.T) {
	e := newTestEngine()
	e.Add(AddRequest{Type: book.GoodTillCancel, ID: 1, Side: book.Buy, Price: 100, Quantity: 10})
	trades := e.Add(AddRequest{Type: book.GoodTillCancel, ID: 2, Side: book.Sell, Price: 101, Quantity: 10})
	assert.Empty(t, trades)

	snap := e.Snapshot()
	assert.Equal(t, []book.LevelView{{Price: 100, Quantity: 10}}, snap.Bids)
	assert.Equal(t, []book.LevelView{{Price: 101, Quantity: 10}}, snap.Asks)
}

// FIFO within a price level -- the earlier bid is filled first.
func TestScenario_FIFOWithinLevel(t *testing.T) {
	e := newTestEngine()
	e.Add(AddRequest{Type: book.GoodTillCancel, ID: 1, Side: book.Buy, Price: 100, Quantity: 5})
	e.Add(AddRequest{Type: book.GoodTillCancel, ID: 2, Side: book.Buy, Price: 100, Quantity: 5})
	trades := e.Add(AddRequest{Type: book.GoodTillCancel, ID: 3, Side: book.Sell, Price: 100, Quantity: 7})

	require.Len(t, trades, 2)
	assert.Equal(t, TradeInfo{OrderID: 1, Price: 100, Quantity: 5}, trades[0].Bid)
	assert.Equal(t, TradeInfo{OrderID: 2, Price: 100, Quantity: 2}, trades[1].Bid)

	snap := e.Snapshot()
	assert.Equal(t, []book.LevelView{{Price: 100, Quantity: 3}}, snap.Bids)
	assert.Empty(t, snap.Asks)
}

// A FOK that cannot be filled in full is rejected without any partial
// fill.
func TestScenario_FOKRejectedLeavesBookUnchanged(t *testing.T) {
	e := newTestEngine()
	e.Add(AddRequest{Type: book.GoodTillCancel, ID: 1, Side: book.Sell, Price: 100, Quantity: 10})

	trades := e.Add(AddRequest{Type: book.FillOrKill, ID: 2, Side: book.Buy, Price: 100, Quantity: 20})
	assert.Empty(t, trades)

	snap := e.Snapshot()
	assert.Equal(t, []book.LevelView{{Price: 100, Quantity: 10}}, snap.Asks)
	assert.Empty(t, snap.Bids)

	_, exists := e.idx.Get(2)
	assert.False(t, exists)
}

// A FAK partially fills and its residual is discarded.
func TestScenario_FAKPartialFillDiscardsResidual(t *testing.T) {
	e := newTestEngine()
	e.Add(AddRequest{Type: book.GoodTillCancel, ID: 1, Side: book.Sell, Price: 100, Quantity: 10})

	trades := e.Add(AddRequest{Type: book.FillAndKill, ID: 2, Side: book.Buy, Price: 100, Quantity: 4})
	require.Len(t, trades, 1)
	assert.Equal(t, TradeInfo{OrderID: 2, Price: 100, Quantity: 4}, trades[0].Bid)
	assert.Equal(t, TradeInfo{OrderID: 1, Price: 100, Quantity: 4}, trades[0].Ask)

	snap := e.Snapshot()
	assert.Equal(t, []book.LevelView{{Price: 100, Quantity: 6}}, snap.Asks)
	assert.Empty(t, snap.Bids)

	_, exists := e.idx.Get(2)
	assert.False(t, exists)
}

// A Market order promotes to the opposite side's worst resting price
// and sweeps.
func TestScenario_MarketOrderPromotesAndSweeps(t *testing.T) {
	e := newTestEngine()
	e.Add(AddRequest{Type: book.GoodTillCancel, ID: 1, Side: book.Sell, Price: 100, Quantity: 10})

	trades := e.Add(AddRequest{Type: book.Market, ID: 2, Side: book.Buy, Quantity: 7})
	require.Len(t, trades, 1)
	assert.Equal(t, TradeInfo{OrderID: 1, Price: 100, Quantity: 7}, trades[0].Ask)

	snap := e.Snapshot()
	assert.Equal(t, []book.LevelView{{Price: 100, Quantity: 3}}, snap.Asks)
}

// A Market order promotes to the opposite side's worst resting price,
// not its best, so it sweeps every crossing level in between.
func TestMarketOrderPromotesToWorstPriceAndSweepsMultipleLevels(t *testing.T) {
	e := newTestEngine()
	e.Add(AddRequest{Type: book.GoodTillCancel, ID: 1, Side: book.Sell, Price: 100, Quantity: 5})
	e.Add(AddRequest{Type: book.GoodTillCancel, ID: 2, Side: book.Sell, Price: 105, Quantity: 5})

	trades := e.Add(AddRequest{Type: book.Market, ID: 3, Side: book.Buy, Quantity: 8})
	require.Len(t, trades, 2)
	assert.Equal(t, TradeInfo{OrderID: 1, Price: 100, Quantity: 5}, trades[0].Ask)
	assert.Equal(t, TradeInfo{OrderID: 2, Price: 105, Quantity: 3}, trades[1].Ask)

	snap := e.Snapshot()
	assert.Equal(t, []book.LevelView{{Price: 105, Quantity: 2}}, snap.Asks)
}

func TestMarketOrderRejectedWhenOppositeSideEmpty(t *testing.T) {
	e := newTestEngine()
	trades := e.Add(AddRequest{Type: book.Market, ID: 1, Side: book.Buy, Quantity: 5})
	assert.Empty(t, trades)
	assert.Equal(t, 0, e.Size())
}

func TestDuplicateIDIsRejected(t *testing.T) {
	e := newTestEngine()
	e.Add(AddRequest{Type: book.GoodTillCancel, ID: 1, Side: book.Buy, Price: 100, Quantity: 10})
	trades := e.Add(AddRequest{Type: book.GoodTillCancel, ID: 1, Side: book.Buy, Price: 101, Quantity: 5})
	assert.Empty(t, trades)
	assert.Equal(t, 1, e.Size())
}

func TestCancelUnknownIDIsANoOp(t *testing.T) {
	e := newTestEngine()
	e.Cancel(999) // must not panic
	assert.Equal(t, 0, e.Size())
}

func TestCancelRemovesRestingOrder(t *testing.T) {
	e := newTestEngine()
	e.Add(AddRequest{Type: book.GoodTillCancel, ID: 1, Side: book.Buy, Price: 100, Quantity: 10})
	e.Cancel(1)
	assert.Equal(t, 0, e.Size())
}

// Modify is cancel-then-add, preserving the original order type and
// producing the same trades the equivalent cancel+add sequence would.
func TestModifyIsCancelThenAddPreservingType(t *testing.T) {
	e := newTestEngine()
	e.Add(AddRequest{Type: book.GoodForDay, ID: 1, Side: book.Buy, Price: 100, Quantity: 10})
	e.Add(AddRequest{Type: book.GoodTillCancel, ID: 2, Side: book.Sell, Price: 102, Quantity: 10})

	trades := e.Modify(ModifyRequest{ID: 1, Side: book.Buy, Price: 102, Quantity: 10})
	require.Len(t, trades, 1)
	assert.Equal(t, TradeInfo{OrderID: 1, Price: 102, Quantity: 10}, trades[0].Bid)
	assert.Equal(t, 0, e.Size())
}

func TestModifyUnknownIDReturnsEmptyTrades(t *testing.T) {
	e := newTestEngine()
	trades := e.Modify(ModifyRequest{ID: 42, Side: book.Buy, Price: 100, Quantity: 5})
	assert.Empty(t, trades)
}

// The book never rests crossed.
func TestNoCrossedBookAtRest(t *testing.T) {
	e := newTestEngine()
	e.Add(AddRequest{Type: book.GoodTillCancel, ID: 1, Side: book.Buy, Price: 100, Quantity: 5})
	e.Add(AddRequest{Type: book.GoodTillCancel, ID: 2, Side: book.Buy, Price: 99, Quantity: 5})
	e.Add(AddRequest{Type: book.GoodTillCancel, ID: 3, Side: book.Sell, Price: 103, Quantity: 5})

	snap := e.Snapshot()
	if len(snap.Bids) > 0 && len(snap.Asks) > 0 {
		assert.Less(t, snap.Bids[0].Price, snap.Asks[0].Price)
	}
}

// Price priority -- an aggressive buy sweeps the cheapest asks first.
func TestPricePriorityAcrossLevels(t *testing.T) {
	e := newTestEngine()
	e.Add(AddRequest{Type: book.GoodTillCancel, ID: 1, Side: book.Sell, Price: 101, Quantity: 5})
	e.Add(AddRequest{Type: book.GoodTillCancel, ID: 2, Side: book.Sell, Price: 100, Quantity: 5})

	trades := e.Add(AddRequest{Type: book.GoodTillCancel, ID: 3, Side: book.Buy, Price: 101, Quantity: 7})
	require.Len(t, trades, 2)
	assert.EqualValues(t, 100, trades[0].Ask.Price)
	assert.EqualValues(t, 2, trades[0].Ask.OrderID)
	assert.EqualValues(t, 101, trades[1].Ask.Price)
	assert.EqualValues(t, 1, trades[1].Ask.OrderID)
}

func TestFillBeyondRemainingPanicsAsUsageFault(t *testing.T) {
	e := newTestEngine()
	e.Add(AddRequest{Type: book.GoodTillCancel, ID: 1, Side: book.Buy, Price: 100, Quantity: 5})
	entry, ok := e.idx.Get(1)
	require.True(t, ok)

	assert.Panics(t, func() {
		if err := entry.Order.Fill(100); err != nil {
			panic(&OrderFault{Err: err})
		}
	})
}
