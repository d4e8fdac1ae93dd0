package book

// LevelAction distinguishes why a LevelData entry is being updated, so
// the cache can apply the right bookkeeping without re-deriving it from
// the book state.
type LevelAction int

const (
	// LevelAdd records a brand new resting order.
	LevelAdd LevelAction = iota
	// LevelRemove records an order leaving the book outright --
	// fully filled, cancelled, or expired.
	LevelRemove
	// LevelMatch records a partial fill that leaves the order
	// resting (count unchanged, quantity reduced).
	LevelMatch
)

// LevelData is the per-price aggregate the feasibility predicate reads
// instead of walking individual orders.
type LevelData struct {
	TotalQuantity uint64
	Count         int
}

// levelDataCache maps price to its aggregate. Prices are unique across
// sides at rest (a crossing level cannot rest), so one map serves both
// books. It carries no lock: PriceLevelIndex serializes access to it
// under the engine's book lock.
type levelDataCache struct {
	data map[Price]*LevelData
}

func newLevelDataCache() *levelDataCache {
	return &levelDataCache{data: make(map[Price]*LevelData)}
}

// update applies action at price for the given quantity:
//   - Add: count += 1, total += quantity (quantity is the order's
//     initial/remaining quantity at time of admission).
//   - Remove: count -= 1, total -= quantity (quantity is the
//     remaining of the order leaving the book).
//   - Match: count unchanged, total -= quantity (the matched
//     fraction of a partial fill that still rests).
//
// An entry is deleted as soon as its count reaches zero.
func (c *levelDataCache) update(price Price, quantity Quantity, action LevelAction) {
	ld, ok := c.data[price]
	if !ok {
		if action != LevelAdd {
			// Nothing to update; a Remove/Match with no prior Add is
			// a caller bug, but silently ignoring it keeps the cache
			// from panicking on a state it didn't cause.
			return
		}
		ld = &LevelData{}
		c.data[price] = ld
	}

	switch action {
	case LevelAdd:
		ld.Count++
		ld.TotalQuantity += uint64(quantity)
	case LevelRemove:
		ld.Count--
		ld.TotalQuantity -= uint64(quantity)
	case LevelMatch:
		ld.TotalQuantity -= uint64(quantity)
	}

	if ld.Count <= 0 {
		delete(c.data, price)
	}
}

func (c *levelDataCache) get(price Price) (*LevelData, bool) {
	ld, ok := c.data[price]
	return ld, ok
}
