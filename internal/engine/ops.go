package engine

import (
	"ticklob/internal/book"
)

// Add admits order into the book. It returns the trades produced by
// the resulting match, which may be empty. Admission can fail as a
// soft reject (duplicate id, a failed FAK/FOK precheck, or a Market
// order with no opposite-side liquidity); a soft reject returns no
// trades and is logged at Warn, never treated as fatal.
func (e *Engine) Add(req AddRequest) []Trade {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.addLocked(req)
}

func (e *Engine) addLocked(req AddRequest) []Trade {
	if _, exists := e.idx.Get(req.ID); exists {
		e.reject(req.ID, req.Type, "duplicate_id", errDuplicateID)
		return nil
	}

	order := book.New(req.ID, req.Side, req.Type, req.Price, req.Quantity)

	if order.Type == book.Market {
		if !e.promoteMarket(order) {
			e.reject(req.ID, req.Type, "no_liquidity", errMarketNoLiquidity)
			return nil
		}
	}

	if order.Type == book.FillAndKill && !e.idx.CanMatch(order.Side, order.Price) {
		e.reject(req.ID, req.Type, "fak_no_cross", errFAKNoCross)
		return nil
	}

	if order.Type == book.FillOrKill && !e.idx.CanFullyFill(order.Side, order.Price, order.Remaining) {
		e.reject(req.ID, req.Type, "fok_cannot_fill", errFOKNoFullFill)
		return nil
	}

	e.idx.Insert(order)
	e.reportDepth(order.Side)
	e.metrics.IncAdmitted(order.Type.String())
	e.logger.Debug().
		Uint64("id", uint64(order.ID)).
		Str("side", order.Side.String()).
		Str("type", order.Type.String()).
		Int32("price", int32(order.Price)).
		Uint32("qty", uint32(order.Remaining)).
		Msg("order admitted")

	trades := e.matchOrders()

	// Post-match residual policy: FAK discards whatever it could not
	// fill immediately. FOK can never reach this branch -- its
	// precheck guarantees a full fill. GTC/Day simply rest.
	if order.Type == book.FillAndKill {
		if _, stillResting := e.idx.Get(order.ID); stillResting {
			e.idx.Remove(order.ID, order.Remaining)
		}
	}

	if len(trades) > 0 {
		e.reportDepth(book.Buy)
		e.reportDepth(book.Sell)
	}

	return trades
}

func (e *Engine) reportDepth(side book.Side) {
	e.metrics.SetDepth(side.String(), e.idx.DepthBySide(side))
}

// promoteMarket promotes a Market order to a GoodTillCancel limit at
// the opposite side's worst resting price: a buy promotes to the worst
// ask, a sell promotes to the worst bid. Returns false if
// the opposite side is empty, in which case the order is rejected
// without being admitted.
func (e *Engine) promoteMarket(order *book.Order) bool {
	var worst book.Price
	var ok bool
	if order.Side == book.Buy {
		worst, ok = e.idx.WorstAsk()
	} else {
		worst, ok = e.idx.WorstBid()
	}
	if !ok {
		return false
	}
	if err := order.PromoteToLimit(worst); err != nil {
		panic(&OrderFault{Err: err})
	}
	return true
}

func (e *Engine) reject(id book.OrderID, typ book.OrderType, reason string, err error) {
	e.metrics.IncRejected(reason)
	e.logger.Warn().
		Uint64("id", uint64(id)).
		Str("type", typ.String()).
		Str("reason", reason).
		Err(err).
		Msg("order rejected")
}

// matchOrders repeatedly crosses the top of book while best_bid >=
// best_ask, producing one Trade per matched pair in price-time
// priority: best price first, FIFO within a level.
func (e *Engine) matchOrders() []Trade {
	start := e.now()
	var trades []Trade

	for {
		bidLevel, bidOk := e.idx.BestBidLevel()
		askLevel, askOk := e.idx.BestAskLevel()
		if !bidOk || !askOk || bidLevel.Price < askLevel.Price {
			break
		}

		for bidLevel.Len() > 0 && askLevel.Len() > 0 {
			bidOrder := bidLevel.Front()
			askOrder := askLevel.Front()

			q := min(bidOrder.Remaining, askOrder.Remaining)

			if err := bidOrder.Fill(q); err != nil {
				panic(&OrderFault{Err: err})
			}
			if err := askOrder.Fill(q); err != nil {
				panic(&OrderFault{Err: err})
			}

			if bidOrder.IsFilled() {
				e.idx.Remove(bidOrder.ID, q)
			} else {
				e.idx.ApplyMatch(bidOrder.Price, q)
			}
			if askOrder.IsFilled() {
				e.idx.Remove(askOrder.ID, q)
			} else {
				e.idx.ApplyMatch(askOrder.Price, q)
			}

			trades = append(trades, Trade{
				Bid: TradeInfo{OrderID: bidOrder.ID, Price: bidLevel.Price, Quantity: q},
				Ask: TradeInfo{OrderID: askOrder.ID, Price: askLevel.Price, Quantity: q},
			})
			e.metrics.ObserveTrade(uint64(q))
			e.logger.Info().
				Uint64("bid_id", uint64(bidOrder.ID)).
				Uint64("ask_id", uint64(askOrder.ID)).
				Str("symbol", e.symbol).
				Int32("price", int32(askLevel.Price)).
				Uint32("qty", uint32(q)).
				Msg("trade")
		}
	}

	e.metrics.ObserveMatchLatencySeconds(e.now().Sub(start).Seconds())
	return trades
}

// Cancel removes order_id from the book. An unknown id is a silent
// no-op.
func (e *Engine) Cancel(id book.OrderID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cancelLocked(id)
}

func (e *Engine) cancelLocked(id book.OrderID) {
	entry, ok := e.idx.Get(id)
	if !ok {
		return
	}
	e.idx.Remove(id, entry.Order.Remaining)
	e.reportDepth(entry.Order.Side)
	e.metrics.IncCancelled()
	e.logger.Debug().Uint64("id", uint64(id)).Msg("order cancelled")
}

// Modify is cancel-then-re-add, preserving the original order's type.
// The modified order loses its former time priority. An unknown id
// returns no trades.
func (e *Engine) Modify(req ModifyRequest) []Trade {
	e.mu.Lock()
	defer e.mu.Unlock()

	entry, ok := e.idx.Get(req.ID)
	if !ok {
		return nil
	}
	originalType := entry.Order.Type

	e.cancelLocked(req.ID)
	return e.addLocked(AddRequest{
		Type:     originalType,
		ID:       req.ID,
		Side:     req.Side,
		Price:    req.Price,
		Quantity: req.Quantity,
	})
}
