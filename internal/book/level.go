package book

import "container/list"

// PriceLevel is a FIFO queue of orders resting at a single price on a
// single side. Time priority is queue position; price priority is the
// outer index's ordering over PriceLevels.
//
// Orders is a container/list rather than a slice so that a cursor into
// it (an *list.Element, held by the owning OrderEntry) stays valid
// across insertions and removals anywhere else in the same queue --
// the property the id-index needs for an O(1) cancel.
type PriceLevel struct {
	Price  Price
	Orders *list.List
}

func newPriceLevel(price Price) *PriceLevel {
	return &PriceLevel{Price: price, Orders: list.New()}
}

// Len is the number of resting orders at this level.
func (l *PriceLevel) Len() int {
	return l.Orders.Len()
}

// pushBack appends order to the tail of the queue and returns the
// cursor to store in the order's OrderEntry.
func (l *PriceLevel) pushBack(o *Order) *list.Element {
	return l.Orders.PushBack(o)
}

// Front returns the head order of the queue -- the one with the
// earliest time priority -- or nil if the level is empty.
func (l *PriceLevel) Front() *Order {
	e := l.Orders.Front()
	if e == nil {
		return nil
	}
	return e.Value.(*Order)
}

// removeElement erases e from the queue in O(1).
func (l *PriceLevel) removeElement(e *list.Element) {
	l.Orders.Remove(e)
}

// totalRemaining sums Remaining across every order at this level. Used
// only by Snapshot; the hot feasibility path uses LevelData
// instead so it never walks individual orders.
func (l *PriceLevel) totalRemaining() uint64 {
	var total uint64
	for e := l.Orders.Front(); e != nil; e = e.Next() {
		total += uint64(e.Value.(*Order).Remaining)
	}
	return total
}

// OrderEntry is the id-index's value: the order's shared handle plus a
// stable cursor into the PriceLevel queue that contains it, letting
// cancel locate and erase the order in O(1) without scanning the level.
type OrderEntry struct {
	Order *Order
	Level *PriceLevel
	elem  *list.Element
}
