package book

import (
	"github.com/tidwall/btree"
)

// levelTree is a price-ordered map from Price to the PriceLevel resting
// there, sorted by the owning side's priority (descending for bids,
// ascending for asks) via the less function it was built with.
type levelTree = btree.BTreeG[*PriceLevel]

// PriceLevelIndex is the book's core data structure: two price-ordered
// maps of FIFO queues plus an id-indexed lookup for O(1) cancel, and
// the aggregate cache the feasibility predicate reads. It holds no
// lock; the engine's book mutex guards every call into it.
type PriceLevelIndex struct {
	bids       *levelTree
	asks       *levelTree
	ordersByID map[OrderID]*OrderEntry
	levelData  *levelDataCache

	bidCount int
	askCount int
}

// NewPriceLevelIndex builds an empty index.
func NewPriceLevelIndex() *PriceLevelIndex {
	return &PriceLevelIndex{
		bids: btree.NewBTreeG(func(a, b *PriceLevel) bool {
			return a.Price > b.Price // descending: best bid first
		}),
		asks: btree.NewBTreeG(func(a, b *PriceLevel) bool {
			return a.Price < b.Price // ascending: best ask first
		}),
		ordersByID: make(map[OrderID]*OrderEntry),
		levelData:  newLevelDataCache(),
	}
}

func (idx *PriceLevelIndex) treeFor(side Side) *levelTree {
	if side == Buy {
		return idx.bids
	}
	return idx.asks
}

// BestBid returns the highest resting buy price, if any.
func (idx *PriceLevelIndex) BestBid() (Price, bool) {
	l, ok := idx.bids.Min()
	if !ok {
		return 0, false
	}
	return l.Price, true
}

// BestAsk returns the lowest resting sell price, if any.
func (idx *PriceLevelIndex) BestAsk() (Price, bool) {
	l, ok := idx.asks.Min()
	if !ok {
		return 0, false
	}
	return l.Price, true
}

// BestBidLevel returns the top-of-book bid level for mutation during
// matching, or ok=false if the bid side is empty.
func (idx *PriceLevelIndex) BestBidLevel() (*PriceLevel, bool) {
	return idx.bids.MinMut()
}

// BestAskLevel returns the top-of-book ask level for mutation during
// matching, or ok=false if the ask side is empty.
func (idx *PriceLevelIndex) BestAskLevel() (*PriceLevel, bool) {
	return idx.asks.MinMut()
}

// WorstBid returns the lowest resting buy price, if any -- the price a
// Market sell promotes to.
func (idx *PriceLevelIndex) WorstBid() (Price, bool) {
	l, ok := idx.bids.Max()
	if !ok {
		return 0, false
	}
	return l.Price, true
}

// WorstAsk returns the highest resting sell price, if any -- the price
// a Market buy promotes to.
func (idx *PriceLevelIndex) WorstAsk() (Price, bool) {
	l, ok := idx.asks.Max()
	if !ok {
		return 0, false
	}
	return l.Price, true
}

// Size is the number of live orders tracked by the id-index.
func (idx *PriceLevelIndex) Size() int {
	return len(idx.ordersByID)
}

// DepthBySide is the number of live resting orders on one side, for
// the book-depth gauge.
func (idx *PriceLevelIndex) DepthBySide(side Side) int {
	if side == Buy {
		return idx.bidCount
	}
	return idx.askCount
}

func (idx *PriceLevelIndex) countFor(side Side, delta int) {
	if side == Buy {
		idx.bidCount += delta
	} else {
		idx.askCount += delta
	}
}

// Get looks up an order's entry by id.
func (idx *PriceLevelIndex) Get(id OrderID) (*OrderEntry, bool) {
	e, ok := idx.ordersByID[id]
	return e, ok
}

// Insert appends order to the tail of its (side, price) level, creating
// the level if it doesn't exist yet, records it in the id-index, and
// publishes LevelAdd to the aggregate cache.
func (idx *PriceLevelIndex) Insert(order *Order) *OrderEntry {
	tree := idx.treeFor(order.Side)

	level, ok := tree.GetMut(&PriceLevel{Price: order.Price})
	if !ok {
		level = newPriceLevel(order.Price)
		tree.Set(level)
	}

	elem := level.pushBack(order)
	entry := &OrderEntry{Order: order, Level: level, elem: elem}
	idx.ordersByID[order.ID] = entry
	idx.countFor(order.Side, 1)

	idx.levelData.update(order.Price, order.Remaining, LevelAdd)
	return entry
}

// Remove erases the order identified by id from its level (O(1) via
// the stored cursor) and from the id-index, publishing LevelRemove with
// quantity to the aggregate cache. A partial fill that leaves the order
// resting does not go through Remove; see ApplyMatch. If the level
// becomes empty it is erased from its tree.
// Returns the removed order, or ok=false if id is unknown.
func (idx *PriceLevelIndex) Remove(id OrderID, quantity Quantity) (*Order, bool) {
	entry, ok := idx.ordersByID[id]
	if !ok {
		return nil, false
	}

	entry.Level.removeElement(entry.elem)
	delete(idx.ordersByID, id)
	idx.countFor(entry.Order.Side, -1)

	if entry.Level.Len() == 0 {
		idx.treeFor(entry.Order.Side).Delete(&PriceLevel{Price: entry.Level.Price})
	}

	idx.levelData.update(entry.Order.Price, quantity, LevelRemove)
	return entry.Order, true
}

// ApplyMatch publishes LevelMatch for a partial fill of quantity at
// price -- the order itself stays resting in its level, only its
// Remaining (already decremented by the caller) and the cache move.
func (idx *PriceLevelIndex) ApplyMatch(price Price, quantity Quantity) {
	idx.levelData.update(price, quantity, LevelMatch)
}

// CanMatch reports whether there exists at least one level on the
// opposite side of side that crosses price.
func (idx *PriceLevelIndex) CanMatch(side Side, price Price) bool {
	opposite := idx.treeFor(oppositeSide(side))
	best, ok := opposite.Min()
	if !ok {
		return false
	}
	return crosses(side, price, best.Price)
}

// CanFullyFill walks the opposite side from best toward worst,
// stopping before any level that no longer crosses price, accumulating
// LevelData aggregates (never individual orders) until the running sum
// reaches quantity. When no opposite level crosses price it returns
// false for any non-zero quantity, so CanMatch need not be checked
// first.
func (idx *PriceLevelIndex) CanFullyFill(side Side, price Price, quantity Quantity) bool {
	opposite := idx.treeFor(oppositeSide(side))
	need := uint64(quantity)
	var have uint64

	opposite.Scan(func(level *PriceLevel) bool {
		if !crosses(side, price, level.Price) {
			return false
		}
		ld, ok := idx.levelData.get(level.Price)
		if ok {
			have += ld.TotalQuantity
		}
		return have < need
	})

	return have >= need
}

// LevelView is one row of a Snapshot: a price and the aggregated
// remaining quantity resting there.
type LevelView struct {
	Price    Price
	Quantity uint64
}

// Snapshot produces the bid and ask ladders, bids in descending price
// order and asks ascending, each entry aggregating remaining quantity
// across all orders at that price. The caller must hold the book lock
// for this to be a consistent point-in-time view.
func (idx *PriceLevelIndex) Snapshot() (bids, asks []LevelView) {
	idx.bids.Scan(func(level *PriceLevel) bool {
		bids = append(bids, LevelView{Price: level.Price, Quantity: level.totalRemaining()})
		return true
	})
	idx.asks.Scan(func(level *PriceLevel) bool {
		asks = append(asks, LevelView{Price: level.Price, Quantity: level.totalRemaining()})
		return true
	})
	return bids, asks
}

// OrderIDsByType returns the ids of every resting order of the given
// type, in no particular order. Used by the expiry task to find
// GoodForDay orders to sweep at the daily cutoff.
func (idx *PriceLevelIndex) OrderIDsByType(t OrderType) []OrderID {
	ids := make([]OrderID, 0)
	for id, entry := range idx.ordersByID {
		if entry.Order.Type == t {
			ids = append(ids, id)
		}
	}
	return ids
}

func oppositeSide(side Side) Side {
	if side == Buy {
		return Sell
	}
	return Buy
}

// crosses reports whether an aggressive order on side at price crosses
// a resting level at levelPrice on the opposite side: a buy crosses
// asks priced at or below its limit, a sell crosses bids priced at or
// above its limit.
func crosses(side Side, price, levelPrice Price) bool {
	if side == Buy {
		return levelPrice <= price
	}
	return levelPrice >= price
}
