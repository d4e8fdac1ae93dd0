package book

import (
	"errors"
	"fmt"
)

// ErrFillExceedsRemaining is returned by Order.Fill when the caller asks
// to fill more than the order has left. This is a usage fault: the
// matching core never legitimately triggers it (fill quantities are
// always min(remaining, remaining)), so a caller observing it has a bug.
var ErrFillExceedsRemaining = errors.New("book: fill exceeds remaining quantity")

// ErrNotMarketOrder is returned by Order.PromoteToLimit when called on
// an order whose type is not Market. Also a usage fault.
var ErrNotMarketOrder = errors.New("book: promote_to_limit on non-market order")

// Order holds an order's immutable identity alongside its mutable fill
// state. It is shared by a PriceLevel's queue and the id-index for as
// long as it rests on the book; once removed it is referenced by
// neither and is left to the garbage collector.
type Order struct {
	ID        OrderID
	Side      Side
	Type      OrderType
	Price     Price
	Initial   Quantity
	Remaining Quantity
}

// New constructs an order with Remaining == Initial == quantity.
func New(id OrderID, side Side, typ OrderType, price Price, quantity Quantity) *Order {
	return &Order{
		ID:        id,
		Side:      side,
		Type:      typ,
		Price:     price,
		Initial:   quantity,
		Remaining: quantity,
	}
}

// Filled is the quantity already matched away.
func (o *Order) Filled() Quantity {
	return o.Initial - o.Remaining
}

// IsFilled reports whether the order has no quantity left to match.
func (o *Order) IsFilled() bool {
	return o.Remaining == 0
}

// Fill decreases Remaining by q. It is a usage fault to fill beyond
// what remains.
func (o *Order) Fill(q Quantity) error {
	if q > o.Remaining {
		return fmt.Errorf("%w: order %d has %d remaining, asked to fill %d", ErrFillExceedsRemaining, o.ID, o.Remaining, q)
	}
	o.Remaining -= q
	return nil
}

// PromoteToLimit transitions a Market order into a GoodTillCancel limit
// at the given price. It is a usage fault to call this on any other
// order type.
func (o *Order) PromoteToLimit(price Price) error {
	if o.Type != Market {
		return fmt.Errorf("%w: order %d has type %s", ErrNotMarketOrder, o.ID, o.Type)
	}
	o.Type = GoodTillCancel
	o.Price = price
	return nil
}
