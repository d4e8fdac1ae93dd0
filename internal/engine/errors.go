package engine

import "errors"

// Soft rejects: business-rule rejections that return empty trades (or
// are no-ops) without being logged at error severity. Add exposes no
// error return -- a rejection is just an empty trade slice plus a
// logged reason.
var (
	errDuplicateID       = errors.New("engine: duplicate order id")
	errFAKNoCross        = errors.New("engine: fill-and-kill has no crossing liquidity")
	errFOKNoFullFill     = errors.New("engine: fill-or-kill cannot be filled in full")
	errMarketNoLiquidity = errors.New("engine: market order has no opposite side liquidity")
)

// OrderFault marks a usage fault: a caller-contract violation the
// matching core detected internally (e.g. a fill computed beyond an
// order's remaining quantity). These indicate a bug in the matching
// core itself, not a bad order from a client, and are treated as
// fatal -- the engine panics rather than trying to continue with an
// invariant it can no longer trust.
type OrderFault struct {
	Err error
}

func (f *OrderFault) Error() string { return "engine: usage fault: " + f.Err.Error() }
func (f *OrderFault) Unwrap() error { return f.Err }
