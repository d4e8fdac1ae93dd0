package engine

import "ticklob/internal/book"

// TradeInfo is one side of a Trade: which order it was, and the price
// and quantity it was filled at.
type TradeInfo struct {
	OrderID  book.OrderID
	Price    book.Price
	Quantity book.Quantity
}

// Trade records a single match between a resting bid and a resting
// ask. Each side is priced at its own level's price, so the two differ
// when an incoming order crosses into a better-priced resting level
// (a buy at 101 that hits an ask at 100 records 101 on the bid side
// and 100 on the ask side).
type Trade struct {
	Bid TradeInfo
	Ask TradeInfo
}
